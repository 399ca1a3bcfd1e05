// Package seeder imports glossary files into storage.
package seeder

import (
	"context"

	"github.com/google/uuid"

	"github.com/heartmarshall/ubergloss/internal/domain"
)

// Consumer-defined storage contracts, implemented by the definition, tag
// and locale repositories and by postgres.TxManager.

type entryWriter interface {
	Create(ctx context.Context, e domain.Entry) (*domain.Entry, error)
}

type tagWriter interface {
	Upsert(ctx context.Context, name string) (domain.Tag, error)
	Link(ctx context.Context, entryID, tagID uuid.UUID) error
}

type localeWriter interface {
	Upsert(ctx context.Context, code, name string) (domain.Locale, error)
	Link(ctx context.Context, entryID, localeID uuid.UUID) error
}

type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}
