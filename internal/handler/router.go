// Package handler assembles the lookup server's top-level HTTP router.
package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/joestump/linkeditor/internal/build"
)

// Deps holds all dependencies required to build the HTTP router.
type Deps struct {
	// API is mounted at /api/v1.
	API http.Handler
	// DB is pinged by /healthz.
	DB      *sqlx.DB
	Metrics bool
}

// NewRouter assembles the full chi router with all middleware and routes.
func NewRouter(deps Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)

	r.Get("/healthz", health(deps.DB))
	if deps.Metrics {
		r.Handle("/metrics", promhttp.Handler())
	}
	r.Mount("/api/v1", deps.API)

	return r
}

func health(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		if db != nil {
			if err := db.PingContext(r.Context()); err != nil {
				w.WriteHeader(http.StatusServiceUnavailable)
				w.Write([]byte("database unavailable\n"))
				return
			}
		}
		w.Write([]byte("ok " + build.Version + "\n"))
	}
}
