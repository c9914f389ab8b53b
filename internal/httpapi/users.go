// internal/httpapi/users.go
//
// Chorus – user endpoints: signup, login, profile reads, and owner-scoped
// profile mutations.
//
//------------------------------------------------------------------------------

package httpapi

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/yanizio/chorus/internal/fail"
)

// recordID extracts the primary key from a record.  The driver may hand
// back int64 or a decimal string depending on the query path.
func recordID(rec map[string]any) (int64, error) {
	switch v := rec["id"].(type) {
	case int64:
		return v, nil
	case int:
		return int64(v), nil
	case string:
		return strconv.ParseInt(v, 10, 64)
	default:
		return 0, fail.Internal(errors.New("record has no integer id"))
	}
}

// login exchanges email and password for a bearer token.  The response
// carries the token and the user record so clients need no second fetch.
func (a *API) login(w http.ResponseWriter, r *http.Request) {
	sub, err := decodeBody(r)
	if err != nil {
		writeFailure(w, err)
		return
	}
	email, _ := sub["email"].(string)
	password, _ := sub["password"].(string)

	user, err := a.Social.Users.Login(r.Context(), email, password)
	if err != nil {
		writeFailure(w, err)
		return
	}
	id, err := recordID(user)
	if err != nil {
		writeFailure(w, err)
		return
	}
	token, err := a.Tokens.Issue(id)
	if err != nil {
		writeFailure(w, fail.Internal(err))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"token": token, "user": user})
}

func (a *API) createUser(w http.ResponseWriter, r *http.Request) {
	sub, err := decodeBody(r)
	if err != nil {
		writeFailure(w, err)
		return
	}
	user, err := a.Social.Users.Create(r.Context(), sub)
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, user)
}

func (a *API) getUser(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(chi.URLParam(r, "id"))
	if err != nil {
		writeFailure(w, err)
		return
	}
	user, err := a.Social.Users.Get(r.Context(), id)
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// listUsers serves both browsing and search; a non-empty q switches to the
// search path, which matches against username, name, and bio.
func (a *API) listUsers(w http.ResponseWriter, r *http.Request) {
	opts := parseOptions(r)
	ctx := r.Context()

	if term := r.URL.Query().Get("q"); term != "" {
		res, err := a.Social.Users.Search(ctx, term, opts)
		if err != nil {
			writeFailure(w, err)
			return
		}
		writeJSON(w, http.StatusOK, res)
		return
	}
	res, err := a.Social.Users.List(ctx, opts)
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// updateUser only lets a user edit their own profile.
func (a *API) updateUser(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(chi.URLParam(r, "id"))
	if err != nil {
		writeFailure(w, err)
		return
	}
	if actorID(r.Context()) != id {
		writeFailure(w, fail.Forbidden("you can only edit your own profile"))
		return
	}
	sub, err := decodeBody(r)
	if err != nil {
		writeFailure(w, err)
		return
	}
	user, err := a.Social.Users.Update(r.Context(), id, sub)
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (a *API) deleteUser(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(chi.URLParam(r, "id"))
	if err != nil {
		writeFailure(w, err)
		return
	}
	if actorID(r.Context()) != id {
		writeFailure(w, fail.Forbidden("you can only delete your own profile"))
		return
	}
	deleted, err := a.Social.Users.SoftDelete(r.Context(), id)
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"deleted": deleted})
}
