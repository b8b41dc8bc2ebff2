package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

type contextKey struct{}

// TokenFromContext returns the token that authenticated the request, if any.
func TokenFromContext(ctx context.Context) (*TokenRecord, bool) {
	rec, ok := ctx.Value(contextKey{}).(*TokenRecord)
	return rec, ok
}

// BearerTokenMiddleware authenticates API requests via Bearer token.
type BearerTokenMiddleware struct {
	tokens TokenStore
	log    *zap.SugaredLogger
	now    func() time.Time
}

// NewBearerTokenMiddleware creates a new BearerTokenMiddleware.
func NewBearerTokenMiddleware(ts TokenStore, log *zap.SugaredLogger) *BearerTokenMiddleware {
	return &BearerTokenMiddleware{tokens: ts, log: log, now: time.Now}
}

// Authenticate rejects requests without a known, unrevoked, unexpired token
// with 401 {"error": "unauthorized"}. Accepted requests carry the token
// record in their context.
func (m *BearerTokenMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		plaintext, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		if !ok || plaintext == "" {
			writeUnauthorized(w)
			return
		}

		rec, err := m.tokens.GetByHash(r.Context(), HashToken(plaintext))
		if err != nil || !rec.Usable(m.now()) {
			writeUnauthorized(w)
			return
		}

		// last_used_at is advisory; don't make the request wait for it.
		go func(id string) {
			if err := m.tokens.UpdateLastUsed(context.Background(), id); err != nil {
				m.log.Warnw("failed to update token last_used_at", "token_id", id, "error", err)
			}
		}(rec.ID)

		ctx := context.WithValue(r.Context(), contextKey{}, rec)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func writeUnauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]string{"error": "unauthorized"})
}
