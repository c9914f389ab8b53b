// internal/httpapi/posts.go
//
// Chorus – post endpoints.  Creation and mutation are owner-scoped through
// the acting user id the bearer middleware resolved.
//
//------------------------------------------------------------------------------

package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (a *API) createPost(w http.ResponseWriter, r *http.Request) {
	sub, err := decodeBody(r)
	if err != nil {
		writeFailure(w, err)
		return
	}
	post, err := a.Social.Posts.Create(r.Context(), actorID(r.Context()), sub)
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, post)
}

func (a *API) getPost(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(chi.URLParam(r, "id"))
	if err != nil {
		writeFailure(w, err)
		return
	}
	post, err := a.Social.Posts.Get(r.Context(), id)
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, post)
}

// listPosts serves browsing, filtering, and body search under one route.
func (a *API) listPosts(w http.ResponseWriter, r *http.Request) {
	opts := parseOptions(r)
	ctx := r.Context()

	if term := r.URL.Query().Get("q"); term != "" {
		res, err := a.Social.Posts.Search(ctx, term, opts)
		if err != nil {
			writeFailure(w, err)
			return
		}
		writeJSON(w, http.StatusOK, res)
		return
	}
	res, err := a.Social.Posts.List(ctx, opts)
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (a *API) updatePost(w http.ResponseWriter, r *http.Request) {
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
	post, err := a.Social.Posts.Update(r.Context(), actorID(r.Context()), id, sub)
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, post)
}

func (a *API) deletePost(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(chi.URLParam(r, "id"))
	if err != nil {
		writeFailure(w, err)
		return
	}
	deleted, err := a.Social.Posts.SoftDelete(r.Context(), actorID(r.Context()), id)
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"deleted": deleted})
}
