// internal/httpapi/meta.go
//
// Chorus – preference, catalog, and registry-introspection endpoints.
//
// Context
//   The /meta routes expose what each entity's column registry permits, so
//   client query builders enumerate sort keys and filter conditions instead
//   of hard-coding them and drifting from the server.
//
//------------------------------------------------------------------------------

package httpapi

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/yanizio/chorus/internal/fail"
	"github.com/yanizio/chorus/internal/table"
)

func (a *API) getPreferences(w http.ResponseWriter, r *http.Request) {
	prefs, err := a.Social.Preferences.ForUser(r.Context(), actorID(r.Context()))
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, prefs)
}

func (a *API) updatePreferences(w http.ResponseWriter, r *http.Request) {
	sub, err := decodeBody(r)
	if err != nil {
		writeFailure(w, err)
		return
	}
	prefs, err := a.Social.Preferences.Update(r.Context(), actorID(r.Context()), sub)
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, prefs)
}

func (a *API) searchCatalog(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	tracks, err := a.Catalog.Search(r.Context(), r.URL.Query().Get("term"), limit)
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"results": tracks})
}

// registryFor maps a path entity name onto its column registry.
func (a *API) registryFor(entity string) (table.Registry, error) {
	switch entity {
	case "users":
		return a.Social.Users.Registry(), nil
	case "posts":
		return a.Social.Posts.Registry(), nil
	case "comments":
		return a.Social.Comments.Registry(), nil
	case "likes":
		return a.Social.Likes.Registry(), nil
	case "follows":
		return a.Social.Follows.Registry(), nil
	case "preferences":
		return a.Social.Preferences.Registry(), nil
	default:
		return nil, fail.NotFound("no such entity: " + entity)
	}
}

func (a *API) metaSortable(w http.ResponseWriter, r *http.Request) {
	reg, err := a.registryFor(chi.URLParam(r, "entity"))
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"sortable": reg.SortableColumns()})
}

func (a *API) metaFilters(w http.ResponseWriter, r *http.Request) {
	reg, err := a.registryFor(chi.URLParam(r, "entity"))
	if err != nil {
		writeFailure(w, err)
		return
	}
	conds, err := reg.FilterConditions(chi.URLParam(r, "column"))
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"conditions": conds})
}
