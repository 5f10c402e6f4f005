package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/starford/folio/internal/portfolio"
)

// NewRouter creates a chi router with all API routes mounted.
// authEnabled controls whether Bearer token auth is enforced.
// sseHandler, if non-nil, is mounted at GET /events inside the auth group.
func NewRouter(svc *portfolio.Service, authEnabled bool, token string, sseHandler http.Handler) chi.Router {
	h := NewHandler(svc)

	r := chi.NewRouter()
	r.Use(AuthMiddleware(authEnabled, token))

	r.Get("/profile", h.Profile)
	r.Get("/tags", h.Tags)

	r.Route("/projects", func(r chi.Router) {
		r.Get("/", h.ListProjects)
		r.Get("/{id}", h.GetProject)
		r.Get("/{id}/writeup", h.Writeup)
	})

	r.Route("/session", func(r chi.Router) {
		r.Get("/", h.SessionState)
		r.Post("/open", h.OpenProject)
		r.Post("/close", h.CloseProject)
	})

	r.Route("/theme", func(r chi.Router) {
		r.Get("/", h.GetTheme)
		r.Put("/", h.PutTheme)
		r.Post("/toggle", h.ToggleTheme)
	})

	if sseHandler != nil {
		r.Get("/events", sseHandler.ServeHTTP)
	}

	return r
}
