// Package app assembles the glossary search server and its command-line tools.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/heartmarshall/ubergloss/internal/adapter/postgres"
	"github.com/heartmarshall/ubergloss/internal/config"
	"github.com/heartmarshall/ubergloss/internal/metrics"
	"github.com/heartmarshall/ubergloss/internal/transport/middleware"
	"github.com/heartmarshall/ubergloss/internal/transport/rest"
)

// Run is the server entry point. It loads configuration, connects to
// PostgreSQL, and serves the search API until ctx is cancelled, then shuts
// down gracefully.
func Run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := NewLogger(cfg.Log)
	logger.Info("starting application",
		slog.String("version", BuildVersion()),
		slog.String("log_level", cfg.Log.Level),
		slog.String("term_mode", cfg.Search.TermMode),
		slog.Int("max_distance", cfg.Search.MaxDistance),
	)

	st, err := OpenStorage(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer st.Close()

	srv := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      NewHandler(ctx, cfg, st, logger),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	return serve(ctx, srv, cfg.Server, logger)
}

// NewHandler builds the HTTP handler over an open Storage. Background
// workers started for the handler stop when ctx is done.
func NewHandler(ctx context.Context, cfg *config.Config, st *Storage, logger *slog.Logger) http.Handler {
	svc := st.NewQueryService(logger, cfg.Search)

	var m *metrics.Metrics
	if cfg.Metrics.Enabled {
		m = metrics.New(metrics.NewRegistry())
		svc.SetRecorder(m)
	}

	health := rest.NewHealthHandler(BuildVersion(), map[string]rest.Check{
		"database": st.Pool.Ping,
		"fuzzystrmatch": func(ctx context.Context) error {
			return postgres.FuzzyMatchReady(ctx, st.Pool)
		},
	})

	var searchLimit middleware.Middleware
	if cfg.RateLimit.SearchPerMinute > 0 {
		rl := middleware.NewRateLimiter(cfg.RateLimit.CleanupInterval)
		context.AfterFunc(ctx, rl.Stop)
		searchLimit = rl.Limit(cfg.RateLimit.SearchPerMinute)
	}

	return rest.NewRouter(rest.RouterDeps{
		Search:      rest.NewSearchHandler(svc, logger),
		Health:      health,
		Metrics:     m,
		Logger:      logger,
		CORS:        cfg.CORS,
		SearchLimit: searchLimit,
		MetricsPath: cfg.Metrics.Path,
	})
}

// serve runs srv until ctx is done or the listener fails.
func serve(ctx context.Context, srv *http.Server, cfg config.ServerConfig, logger *slog.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down", slog.Duration("timeout", cfg.ShutdownTimeout))

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}

	logger.Info("server stopped")
	return nil
}
