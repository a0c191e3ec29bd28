package api

import (
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"net/http"

	"github.com/dinoair/servicerouter/internal/api/handlers"
	"github.com/dinoair/servicerouter/internal/api/middleware"
	"github.com/dinoair/servicerouter/internal/config"
)

// NewRouter builds the HTTP router for the service router's thin HTTP
// surface: health/version, the two dispatch endpoints, metrics,
// registry introspection, and a family of not-implemented stubs for
// assistant endpoints that live in other deployments.
func NewRouter(cfg *config.Config, h *handlers.Handlers) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Compress(5))
	r.Use(middleware.Logger)

	isWildcard := len(cfg.CORSOrigins) == 1 && cfg.CORSOrigins[0] == "*"
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-Id"},
		ExposedHeaders:   []string{"X-Request-Id"},
		AllowCredentials: !isWildcard,
		MaxAge:           300,
	}))

	r.Get("/health", h.Health)
	r.Get("/version", h.Version)

	r.Route("/router", func(r chi.Router) {
		r.Post("/execute", h.Execute)
		r.Post("/executeBy", h.ExecuteByTag)
		r.Get("/metrics", h.Metrics)

		r.Route("/services", func(r chi.Router) {
			r.Get("/", h.ListServices)
			r.Route("/{name}", func(r chi.Router) {
				r.Get("/", func(w http.ResponseWriter, req *http.Request) {
					h.GetService(w, req, chi.URLParam(req, "name"))
				})
				r.Post("/check", func(w http.ResponseWriter, req *http.Request) {
					h.CheckHealth(w, req, chi.URLParam(req, "name"))
				})
			})
		})
	})

	// Assistant surfaces served by other deployments. Stubbed so a
	// caller gets a structured 501 instead of a bare 404.
	r.Post("/translate", handlers.NotImplemented("translate"))
	r.Post("/file-search/keyword", handlers.NotImplemented("file-search/keyword"))
	r.Post("/file-search/vector", handlers.NotImplemented("file-search/vector"))
	r.Post("/file-search/hybrid", handlers.NotImplemented("file-search/hybrid"))
	r.Get("/file-index/stats", handlers.NotImplemented("file-index/stats"))
	r.Get("/config/dirs", handlers.NotImplemented("config/dirs"))
	r.Post("/ai/chat", handlers.NotImplemented("ai/chat"))

	return r
}
