package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// NewRouter creates a new HTTP router with all API endpoints.
func NewRouter(h *Handler) http.Handler {
	r := chi.NewRouter()

	r.Use(Recovery)
	r.Use(RequestID)
	r.Use(Logger)
	r.Use(Tracing(h.self))
	r.Use(PrivateSubnetOnly) // Restrict access to private subnets
	r.Use(CORS)
	r.Use(JSONContentType)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/verbosity", h.GetVerbosity)
		r.Get("/verbosity/print", h.PrintVerbosity)
		r.Post("/verbosity/reset", h.ResetVerbosity)

		r.Get("/default", h.GetDefault)
		r.Put("/default", h.SetDefault)
		r.Delete("/default", h.ClearDefault)

		r.Get("/components/{name}", h.GetComponent)
		r.Put("/components/{name}", h.SetComponent)
		r.Delete("/components/{name}", h.ClearComponent)

		r.Get("/check", h.Check)

		r.Get("/health", h.CheckHealth)
	})

	registerPprof(r)

	return r
}
