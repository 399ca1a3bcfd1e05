package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func newTestMetrics(t *testing.T) *Metrics {
	t.Helper()
	return New(prometheus.NewRegistry())
}

func TestMetrics_ObserveSearch(t *testing.T) {
	m := newTestMetrics(t)

	m.ObserveSearch("ok", 20*time.Millisecond, 3)
	m.ObserveSearch("ok", 10*time.Millisecond, 1)
	m.ObserveSearch("partial", 5*time.Millisecond, 0)

	if got := testutil.ToFloat64(m.SearchesTotal.WithLabelValues("ok")); got != 2 {
		t.Errorf("searches_total{outcome=ok} = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.SearchesTotal.WithLabelValues("partial")); got != 1 {
		t.Errorf("searches_total{outcome=partial} = %v, want 1", got)
	}
	if got := testutil.CollectAndCount(m.SearchDuration); got != 1 {
		t.Errorf("search_duration_seconds series = %d, want 1", got)
	}
}

func TestMetrics_ObserveFailure(t *testing.T) {
	m := newTestMetrics(t)

	m.ObserveFailure("TAG", "retrieve")
	m.ObserveFailure("TAG", "retrieve")
	m.ObserveFailure("none", "assemble")

	if got := testutil.ToFloat64(m.SearchFailuresTotal.WithLabelValues("TAG", "retrieve")); got != 2 {
		t.Errorf("search_failures_total{TAG,retrieve} = %v, want 2", got)
	}
	if got := testutil.CollectAndCount(m.SearchFailuresTotal); got != 2 {
		t.Errorf("search_failures_total series = %d, want 2", got)
	}
}

func TestMiddleware_LabelsByRoutePattern(t *testing.T) {
	m := newTestMetrics(t)

	r := chi.NewRouter()
	r.Use(m.Middleware())
	r.Get("/entries/{id}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	r.Get("/search", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})

	for _, path := range []string{"/entries/1", "/entries/2", "/search"} {
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, path, http.NoBody))
	}

	if got := testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("GET", "/entries/{id}", "404")); got != 2 {
		t.Errorf("requests_total for /entries/{id} = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("GET", "/search", "200")); got != 1 {
		t.Errorf("requests_total for /search = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.HTTPRequestsInFlight); got != 0 {
		t.Errorf("in-flight = %v after requests completed, want 0", got)
	}
}

func TestMiddleware_WithoutChiRoute(t *testing.T) {
	m := newTestMetrics(t)
	h := m.Middleware()(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/raw", http.NoBody))

	if got := testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("GET", "unknown", "418")); got != 1 {
		t.Errorf("requests_total{path=unknown} = %v, want 1", got)
	}
}

func TestHandler_ExposesCollectors(t *testing.T) {
	m := New(NewRegistry())
	m.ObserveSearch("empty", time.Millisecond, 0)

	rr := httptest.NewRecorder()
	m.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", http.NoBody))

	body, _ := io.ReadAll(rr.Body)
	for _, want := range []string{
		`ubergloss_searches_total{outcome="empty"} 1`,
		"go_goroutines",
	} {
		if !strings.Contains(string(body), want) {
			t.Errorf("scrape output missing %q", want)
		}
	}
}
