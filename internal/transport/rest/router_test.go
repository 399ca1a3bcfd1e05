package rest

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heartmarshall/ubergloss/internal/config"
	"github.com/heartmarshall/ubergloss/internal/domain"
	"github.com/heartmarshall/ubergloss/internal/metrics"
	"github.com/heartmarshall/ubergloss/internal/transport/middleware"
)

func newTestRouter(t *testing.T, withMetrics bool) http.Handler {
	t.Helper()

	svc := &searchServiceMock{SearchFunc: func(_ context.Context, q string) (domain.SearchResult, error) {
		if q == "panic" {
			panic("search exploded")
		}
		return domain.SearchResult{Filters: domain.NewFilterSet(), Entries: domain.NewEntrySet()}, nil
	}}

	deps := RouterDeps{
		Search:      NewSearchHandler(svc, discardLogger()),
		Health:      NewHealthHandler("test", map[string]Check{"database": func(context.Context) error { return nil }}),
		Logger:      discardLogger(),
		CORS:        config.CORSConfig{AllowedOrigins: "*", AllowedMethods: "GET,OPTIONS", AllowedHeaders: "Content-Type", MaxAge: 60},
		MetricsPath: "/metrics",
	}
	if withMetrics {
		deps.Metrics = metrics.New(metrics.NewRegistry())
	}
	return NewRouter(deps)
}

func serve(h http.Handler, method, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(method, target, nil))
	return rec
}

func TestRouter_Routes(t *testing.T) {
	t.Parallel()

	r := newTestRouter(t, false)

	tests := []struct {
		method, target string
		wantCode       int
	}{
		{http.MethodGet, "/live", http.StatusOK},
		{http.MethodGet, "/ready", http.StatusOK},
		{http.MethodGet, "/health", http.StatusOK},
		{http.MethodGet, "/search?q=dam", http.StatusOK},
		{http.MethodPost, "/search", http.StatusMethodNotAllowed},
		{http.MethodGet, "/nope", http.StatusNotFound},
		{http.MethodGet, "/metrics", http.StatusNotFound},
	}

	for _, tt := range tests {
		rec := serve(r, tt.method, tt.target)
		assert.Equal(t, tt.wantCode, rec.Code, "%s %s", tt.method, tt.target)
		assert.NotEmpty(t, rec.Header().Get(middleware.RequestIDHeader), "%s %s", tt.method, tt.target)
	}
}

func TestRouter_NotFoundIsJSON(t *testing.T) {
	t.Parallel()

	rec := serve(newTestRouter(t, false), http.MethodGet, "/nope")

	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"error":"not found"}`, rec.Body.String())
}

func TestRouter_RecoversPanics(t *testing.T) {
	t.Parallel()

	rec := serve(newTestRouter(t, false), http.MethodGet, "/search?q=panic")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "internal server error")
}

func TestRouter_Preflight(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodOptions, "/search", nil)
	req.Header.Set("Origin", "https://glossary.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	rec := httptest.NewRecorder()

	newTestRouter(t, false).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "https://glossary.example", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestRouter_Metrics(t *testing.T) {
	t.Parallel()

	r := newTestRouter(t, true)
	serve(r, http.MethodGet, "/search?q=dam")
	serve(r, http.MethodGet, "/search?q=dame")

	rec := serve(r, http.MethodGet, "/metrics")
	require.Equal(t, http.StatusOK, rec.Code)

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)

	var found bool
	for _, line := range strings.Split(string(body), "\n") {
		if strings.HasPrefix(line, "ubergloss_http_requests_total{") &&
			strings.Contains(line, `path="/search"`) &&
			strings.HasSuffix(line, " 2") {
			found = true
		}
	}
	assert.True(t, found, "expected two /search requests in exposition:\n%s", body)
}

func TestRouter_SearchLimitSparesProbes(t *testing.T) {
	t.Parallel()

	rl := middleware.NewRateLimiter(time.Minute)
	t.Cleanup(rl.Stop)

	svc := &searchServiceMock{SearchFunc: func(context.Context, string) (domain.SearchResult, error) {
		return domain.SearchResult{Filters: domain.NewFilterSet(), Entries: domain.NewEntrySet()}, nil
	}}
	r := NewRouter(RouterDeps{
		Search:      NewSearchHandler(svc, discardLogger()),
		Health:      NewHealthHandler("test", nil),
		Logger:      discardLogger(),
		SearchLimit: rl.Limit(1),
	})

	assert.Equal(t, http.StatusOK, serve(r, http.MethodGet, "/search?q=dame").Code)
	assert.Equal(t, http.StatusTooManyRequests, serve(r, http.MethodGet, "/search?q=dame").Code)
	assert.Equal(t, http.StatusOK, serve(r, http.MethodGet, "/live").Code)
	assert.Equal(t, http.StatusOK, serve(r, http.MethodGet, "/ready").Code)
}
