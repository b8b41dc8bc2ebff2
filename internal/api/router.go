// Package api serves the lookup API that editors use to resolve internal
// link ids to titles and keyword ids to labels.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/joestump/linkeditor/internal/auth"
	"github.com/joestump/linkeditor/internal/metrics"
	"github.com/joestump/linkeditor/internal/store"
)

// Deps holds all dependencies required to build the API router.
type Deps struct {
	// BearerAuth guards every route when set.
	BearerAuth *auth.BearerTokenMiddleware
	Links      store.LinkStoreIface
	Keywords   store.KeywordStoreIface
	Log        *zap.SugaredLogger
}

var validate = validator.New()

// NewAPIRouter creates a chi sub-router meant to be mounted at /api/v1.
// All routes return application/json.
func NewAPIRouter(deps Deps) chi.Router {
	r := chi.NewRouter()
	r.Use(jsonContentType)
	if deps.BearerAuth != nil {
		r.Use(deps.BearerAuth.Authenticate)
	}

	registerLinkRoutes(r, deps.Links, deps.Log)
	registerKeywordRoutes(r, deps.Keywords, deps.Log)
	return r
}

// jsonContentType is a middleware that sets Content-Type: application/json on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		next.ServeHTTP(w, r)
	})
}

// instrument records request counts by outcome and latency for kind.
func instrument(kind string, h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		h(ww, r)

		status := "ok"
		switch code := ww.Status(); {
		case code == http.StatusNotFound:
			status = "not_found"
		case code >= 400:
			status = "error"
		}
		metrics.LookupRequestsTotal.WithLabelValues(kind, status).Inc()
		metrics.LookupDuration.WithLabelValues(kind).Observe(time.Since(start).Seconds())
	}
}

// RefreshGauges sets the link and keyword gauges from the database.
func RefreshGauges(ctx context.Context, links store.LinkStoreIface, keywords store.KeywordStoreIface) error {
	n, err := links.Count(ctx)
	if err != nil {
		return err
	}
	metrics.LinksTotal.Set(float64(n))

	n, err = keywords.Count(ctx)
	if err != nil {
		return err
	}
	metrics.KeywordsTotal.Set(float64(n))
	return nil
}
