// internal/httpapi/comments.go
//
// Chorus – comment endpoints.  Comments hang off a post route for creation
// and listing, and stand alone for direct reads and owner mutations.
//
//------------------------------------------------------------------------------

package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (a *API) createComment(w http.ResponseWriter, r *http.Request) {
	postID, err := pathID(chi.URLParam(r, "id"))
	if err != nil {
		writeFailure(w, err)
		return
	}
	sub, err := decodeBody(r)
	if err != nil {
		writeFailure(w, err)
		return
	}
	sub["post_id"] = postID

	comment, err := a.Social.Comments.Create(r.Context(), actorID(r.Context()), sub)
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, comment)
}

func (a *API) getComment(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(chi.URLParam(r, "id"))
	if err != nil {
		writeFailure(w, err)
		return
	}
	comment, err := a.Social.Comments.Get(r.Context(), id)
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, comment)
}

// listPostComments pages a post's comment thread, oldest first by default.
func (a *API) listPostComments(w http.ResponseWriter, r *http.Request) {
	postID, err := pathID(chi.URLParam(r, "id"))
	if err != nil {
		writeFailure(w, err)
		return
	}
	res, err := a.Social.Comments.ListForPost(r.Context(), postID, parseOptions(r))
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (a *API) updateComment(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(chi.URLParam(r, "id"))
	if err != nil {
		writeFailure(w, err)
		return
	}
	sub, err := decodeBody(r)
	if err != nil {
		writeFailure(w, err)
		return
	}
	comment, err := a.Social.Comments.Update(r.Context(), actorID(r.Context()), id, sub)
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, comment)
}

func (a *API) deleteComment(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(chi.URLParam(r, "id"))
	if err != nil {
		writeFailure(w, err)
		return
	}
	deleted, err := a.Social.Comments.SoftDelete(r.Context(), actorID(r.Context()), id)
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"deleted": deleted})
}
