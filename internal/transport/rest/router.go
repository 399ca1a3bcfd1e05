package rest

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/heartmarshall/ubergloss/internal/config"
	"github.com/heartmarshall/ubergloss/internal/metrics"
	"github.com/heartmarshall/ubergloss/internal/transport/middleware"
)

// RouterDeps holds everything NewRouter wires together.
// Metrics and SearchLimit may be nil.
type RouterDeps struct {
	Search  *SearchHandler
	Health  *HealthHandler
	Metrics *metrics.Metrics
	Logger  *slog.Logger
	CORS    config.CORSConfig
	// SearchLimit guards /search only; probes and metrics stay unthrottled.
	SearchLimit middleware.Middleware
	// MetricsPath is where the Prometheus handler is mounted when Metrics is set.
	MetricsPath string
}

// NewRouter builds the HTTP handler of the search API.
func NewRouter(d RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID())
	r.Use(middleware.Recovery(d.Logger))
	r.Use(middleware.Logger(d.Logger))
	if d.Metrics != nil {
		r.Use(d.Metrics.Middleware())
	}
	r.Use(middleware.CORS(d.CORS))

	r.Get("/live", d.Health.Live)
	r.Get("/ready", d.Health.Ready)
	r.Get("/health", d.Health.Health)
	if d.SearchLimit != nil {
		r.With(d.SearchLimit).Get("/search", d.Search.Search)
	} else {
		r.Get("/search", d.Search.Search)
	}

	if d.Metrics != nil && d.MetricsPath != "" {
		r.Method(http.MethodGet, d.MetricsPath, d.Metrics.Handler())
	}

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, "not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	})

	return r
}
