package app

import (
	"context"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/heartmarshall/ubergloss/internal/adapter/postgres"
	"github.com/heartmarshall/ubergloss/internal/adapter/postgres/definition"
	"github.com/heartmarshall/ubergloss/internal/adapter/postgres/locale"
	"github.com/heartmarshall/ubergloss/internal/adapter/postgres/tag"
	"github.com/heartmarshall/ubergloss/internal/config"
	"github.com/heartmarshall/ubergloss/internal/service/query"
)

// Storage bundles the connection pool with the glossary repositories.
type Storage struct {
	Pool        *pgxpool.Pool
	Tx          *postgres.TxManager
	Definitions *definition.Repo
	Tags        *tag.Repo
	Locales     *locale.Repo
}

// OpenStorage connects to PostgreSQL and builds the repositories.
func OpenStorage(ctx context.Context, cfg config.DatabaseConfig) (*Storage, error) {
	pool, err := postgres.NewPool(ctx, cfg)
	if err != nil {
		return nil, err
	}

	return NewStorage(pool), nil
}

// NewStorage builds the repositories over an existing pool.
func NewStorage(pool *pgxpool.Pool) *Storage {
	return &Storage{
		Pool:        pool,
		Tx:          postgres.NewTxManager(pool),
		Definitions: definition.New(pool),
		Tags:        tag.New(pool),
		Locales:     locale.New(pool),
	}
}

// Close releases the pool.
func (s *Storage) Close() {
	s.Pool.Close()
}

// NewQueryService wires the query service to the storage repositories.
func (s *Storage) NewQueryService(logger *slog.Logger, cfg config.SearchConfig) *query.Service {
	return query.NewService(logger, s.Definitions, s.Tags, s.Locales, cfg)
}
