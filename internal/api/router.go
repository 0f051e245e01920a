package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func NewRouter(apiHandler *APIHandler) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Logger)       // Basic request logging
	r.Use(middleware.Recoverer)    // Recover from panics
	r.Use(middleware.StripSlashes) // Ensure consistent path handling

	// All API routes will be under /api
	r.Route("/api", func(r chi.Router) {
		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			w.Write([]byte(`{"status":"ok"}`))
		})
		r.Post("/token", apiHandler.TokenHandler)

		// Identity is optional on the query path: a valid bearer token wins,
		// otherwise attribution falls back to the request body.
		r.Group(func(r chi.Router) {
			r.Use(apiHandler.IdentityMiddleware)

			r.Post("/query", apiHandler.QueryHandler)
			r.Post("/suggest", apiHandler.SuggestHandler)
			r.Get("/documents", apiHandler.ListDocumentsHandler)
			r.Get("/history", apiHandler.HistoryHandler)
		})
	})

	return r
}
