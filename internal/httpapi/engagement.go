// internal/httpapi/engagement.go
//
// Chorus – like and follow endpoints.  PUT sets the desired state and is
// safe to repeat; DELETE removes the edge row outright.
//
//------------------------------------------------------------------------------

package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// setLike upserts the actor's like on a post.  The body may carry
// {"active": false} to retract without deleting history.
func (a *API) setLike(w http.ResponseWriter, r *http.Request) {
	postID, err := pathID(chi.URLParam(r, "id"))
	if err != nil {
		writeFailure(w, err)
		return
	}
	active, err := desiredState(r)
	if err != nil {
		writeFailure(w, err)
		return
	}
	like, err := a.Social.Likes.Toggle(r.Context(), actorID(r.Context()), postID, active)
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, like)
}

func (a *API) removeLike(w http.ResponseWriter, r *http.Request) {
	postID, err := pathID(chi.URLParam(r, "id"))
	if err != nil {
		writeFailure(w, err)
		return
	}
	if err := a.Social.Likes.Remove(r.Context(), actorID(r.Context()), postID); err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"removed": true})
}

func (a *API) countPostLikes(w http.ResponseWriter, r *http.Request) {
	postID, err := pathID(chi.URLParam(r, "id"))
	if err != nil {
		writeFailure(w, err)
		return
	}
	n, err := a.Social.Likes.CountForPost(r.Context(), postID)
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"likes": n})
}

func (a *API) setFollow(w http.ResponseWriter, r *http.Request) {
	targetID, err := pathID(chi.URLParam(r, "id"))
	if err != nil {
		writeFailure(w, err)
		return
	}
	active, err := desiredState(r)
	if err != nil {
		writeFailure(w, err)
		return
	}
	follow, err := a.Social.Follows.Toggle(r.Context(), actorID(r.Context()), targetID, active)
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, follow)
}

func (a *API) removeFollow(w http.ResponseWriter, r *http.Request) {
	targetID, err := pathID(chi.URLParam(r, "id"))
	if err != nil {
		writeFailure(w, err)
		return
	}
	if err := a.Social.Follows.Remove(r.Context(), actorID(r.Context()), targetID); err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"removed": true})
}

func (a *API) listFollowers(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(chi.URLParam(r, "id"))
	if err != nil {
		writeFailure(w, err)
		return
	}
	res, err := a.Social.Follows.Followers(r.Context(), id, parseOptions(r))
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (a *API) listFollowing(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(chi.URLParam(r, "id"))
	if err != nil {
		writeFailure(w, err)
		return
	}
	res, err := a.Social.Follows.Following(r.Context(), id, parseOptions(r))
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// desiredState reads an optional {"active": bool} body.  An empty body
// means activate.
func desiredState(r *http.Request) (bool, error) {
	if r.ContentLength == 0 {
		return true, nil
	}
	sub, err := decodeBody(r)
	if err != nil {
		return false, err
	}
	if v, ok := sub["active"].(bool); ok {
		return v, nil
	}
	return true, nil
}
