package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"

	"github.com/joestump/linkeditor/internal/api"
	"github.com/joestump/linkeditor/internal/auth"
	"github.com/joestump/linkeditor/internal/store"
	"github.com/joestump/linkeditor/internal/testutil"
)

// testEnv holds the stores behind an API router for integration tests.
type testEnv struct {
	Router     http.Handler
	Links      *store.LinkStore
	Keywords   *store.KeywordStore
	TokenStore *auth.SQLTokenStore
}

// newTestEnv wires the API router over an in-memory SQLite database. With
// requireToken the router is guarded by the bearer middleware.
func newTestEnv(t *testing.T, requireToken bool) *testEnv {
	t.Helper()
	db := testutil.NewTestDB(t)
	log := zap.NewNop().Sugar()

	env := &testEnv{
		Links:      store.NewLinkStore(db),
		Keywords:   store.NewKeywordStore(db),
		TokenStore: auth.NewSQLTokenStore(db),
	}
	deps := api.Deps{Links: env.Links, Keywords: env.Keywords, Log: log}
	if requireToken {
		deps.BearerAuth = auth.NewBearerTokenMiddleware(env.TokenStore, log)
	}
	env.Router = api.NewAPIRouter(deps)
	return env
}

// seedToken creates a real API token and returns its plaintext.
func seedToken(t *testing.T, env *testEnv) string {
	t.Helper()
	plaintext, hash, err := auth.GenerateToken()
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	if _, err := env.TokenStore.Create(context.Background(), "test-token", hash, nil); err != nil {
		t.Fatalf("create token: %v", err)
	}
	return plaintext
}

func seedLink(t *testing.T, env *testEnv, slug, shortDescription string) *store.Link {
	t.Helper()
	l, err := env.Links.Create(context.Background(), store.LinkInput{
		Slug:             slug,
		URL:              "https://wiki.example.com/" + slug,
		Title:            slug,
		ShortDescription: shortDescription,
	})
	if err != nil {
		t.Fatalf("seed link: %v", err)
	}
	return l
}

func seedKeyword(t *testing.T, env *testEnv, keyword string) *store.Keyword {
	t.Helper()
	k, err := env.Keywords.Create(context.Background(), keyword, "")
	if err != nil {
		t.Fatalf("seed keyword: %v", err)
	}
	return k
}

// do serves a request against env.Router and returns the recorder.
func do(env *testEnv, method, path, body, token string) *httptest.ResponseRecorder {
	var buf *bytes.Buffer
	if body != "" {
		buf = bytes.NewBufferString(body)
	} else {
		buf = &bytes.Buffer{}
	}
	req := httptest.NewRequest(method, path, buf)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	env.Router.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.NewDecoder(rec.Body).Decode(v); err != nil {
		t.Fatalf("decode: %v; body: %s", err, rec.Body.String())
	}
}
