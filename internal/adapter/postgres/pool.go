package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/heartmarshall/ubergloss/internal/config"
)

const applicationName = "ubergloss"

// NewPool creates a PostgreSQL connection pool configured from DatabaseConfig
// and pings it so that a bad DSN fails at startup.
func NewPool(ctx context.Context, cfg config.DatabaseConfig) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("parse database DSN: %w", err)
	}

	poolCfg.MaxConns = cfg.MaxConns
	poolCfg.MinConns = cfg.MinConns
	poolCfg.MaxConnLifetime = cfg.MaxConnLifetime
	poolCfg.MaxConnIdleTime = cfg.MaxConnIdleTime
	if _, ok := poolCfg.ConnConfig.RuntimeParams["application_name"]; !ok {
		poolCfg.ConnConfig.RuntimeParams["application_name"] = applicationName
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return pool, nil
}

// FuzzyMatchReady checks that the fuzzystrmatch extension backing fuzzy term
// lookup is installed and callable.
func FuzzyMatchReady(ctx context.Context, db Querier) error {
	var d int
	if err := db.QueryRow(ctx, "SELECT levenshtein('dam', 'dame')").Scan(&d); err != nil {
		return fmt.Errorf("fuzzystrmatch: %w", err)
	}
	if d != 1 {
		return fmt.Errorf("fuzzystrmatch: unexpected distance %d", d)
	}
	return nil
}
