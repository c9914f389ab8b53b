// internal/httpapi/router.go
//
// Chorus – route table.
//
// Context
//   One chi router hosts the whole JSON API.  Reads are public; every
//   mutation sits behind the bearer-auth group so the acting user id is
//   always available for owner checks.  The /meta endpoints expose each
//   entity's sortable columns and per-column filter conditions so clients
//   can build query UIs without hard-coding the registries.
//
//------------------------------------------------------------------------------

package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/yanizio/chorus/internal/auth"
	"github.com/yanizio/chorus/internal/catalog"
	"github.com/yanizio/chorus/internal/requestinfo"
	"github.com/yanizio/chorus/internal/social"
)

// API bundles everything the handlers need.
type API struct {
	Social  *social.Services
	Tokens  *auth.Tokens
	Catalog *catalog.Client
}

// Router builds the full route table with the shared middleware stack.
func (a *API) Router() *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RealIP)
	r.Use(requestID)
	r.Use(requestinfo.Enrich)
	r.Use(accessLog)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Post("/login", a.login)
	r.Post("/users", a.createUser)

	// Public reads.
	r.Get("/users", a.listUsers)
	r.Get("/users/{id}", a.getUser)
	r.Get("/users/{id}/followers", a.listFollowers)
	r.Get("/users/{id}/following", a.listFollowing)
	r.Get("/posts", a.listPosts)
	r.Get("/posts/{id}", a.getPost)
	r.Get("/posts/{id}/comments", a.listPostComments)
	r.Get("/posts/{id}/likes", a.countPostLikes)
	r.Get("/comments/{id}", a.getComment)
	r.Get("/catalog/search", a.searchCatalog)
	r.Get("/meta/{entity}/sortable", a.metaSortable)
	r.Get("/meta/{entity}/filters/{column}", a.metaFilters)

	// Authenticated mutations and per-user views.
	r.Group(func(r chi.Router) {
		r.Use(bearerAuth(a.Tokens))

		r.Put("/users/{id}", a.updateUser)
		r.Delete("/users/{id}", a.deleteUser)

		r.Post("/posts", a.createPost)
		r.Put("/posts/{id}", a.updatePost)
		r.Delete("/posts/{id}", a.deletePost)

		r.Post("/posts/{id}/comments", a.createComment)
		r.Put("/comments/{id}", a.updateComment)
		r.Delete("/comments/{id}", a.deleteComment)

		r.Put("/posts/{id}/like", a.setLike)
		r.Delete("/posts/{id}/like", a.removeLike)

		r.Put("/users/{id}/follow", a.setFollow)
		r.Delete("/users/{id}/follow", a.removeFollow)

		r.Get("/me/preferences", a.getPreferences)
		r.Put("/me/preferences", a.updatePreferences)
	})

	return r
}
