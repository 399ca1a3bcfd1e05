// Package locale implements locale storage using PostgreSQL. Locales are
// identified by a short code such as en-AU, unique case-insensitively.
package locale

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	postgres "github.com/heartmarshall/ubergloss/internal/adapter/postgres"
	"github.com/heartmarshall/ubergloss/internal/domain"
)

// Repo provides locale persistence backed by PostgreSQL.
type Repo struct {
	db postgres.Querier
}

// New creates a new locale repository.
func New(db postgres.Querier) *Repo {
	return &Repo{db: db}
}

const existsSQL = `SELECT EXISTS(SELECT 1 FROM locales WHERE lower(short_name) = lower($1))`

// An empty display name never overwrites a stored one.
const upsertSQL = `
INSERT INTO locales (short_name, name) VALUES ($1, $2)
ON CONFLICT ((lower(short_name))) DO UPDATE
    SET name = COALESCE(NULLIF(EXCLUDED.name, ''), locales.name)
RETURNING id, short_name, name`

const linkSQL = `
INSERT INTO definition_locales (definition_id, locale_id) VALUES ($1, $2)
ON CONFLICT DO NOTHING`

// Exists reports whether a locale with the given code exists, ignoring case.
func (r *Repo) Exists(ctx context.Context, code string) (bool, error) {
	var exists bool
	if err := postgres.QuerierFromCtx(ctx, r.db).QueryRow(ctx, existsSQL, code).Scan(&exists); err != nil {
		return false, postgres.MapError(err, "locale", code)
	}
	return exists, nil
}

// GetByEntryID returns the locales linked to an entry, ordered by code.
func (r *Repo) GetByEntryID(ctx context.Context, entryID uuid.UUID) ([]domain.Locale, error) {
	sql, args, err := postgres.Builder().
		Select("l.id", "l.short_name", "l.name").
		From("definition_locales dl").
		Join("locales l ON l.id = dl.locale_id").
		Where("dl.definition_id = ?", entryID).
		OrderBy("l.short_name").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	rows, err := postgres.QuerierFromCtx(ctx, r.db).Query(ctx, sql, args...)
	if err != nil {
		return nil, postgres.MapError(err, "locales of definition", entryID)
	}
	defer rows.Close()

	locales := []domain.Locale{}
	for rows.Next() {
		var l domain.Locale
		if err := rows.Scan(&l.ID, &l.ShortName, &l.Name); err != nil {
			return nil, postgres.MapError(err, "locales of definition", entryID)
		}
		locales = append(locales, l)
	}
	if err := rows.Err(); err != nil {
		return nil, postgres.MapError(err, "locales of definition", entryID)
	}

	return locales, nil
}

// EntriesInLocale returns the entries linked to the locale code, ignoring case.
func (r *Repo) EntriesInLocale(ctx context.Context, code string) ([]domain.Entry, error) {
	q := postgres.Builder().
		Select(postgres.EntryColumns...).
		From("definitions d").
		Join("definition_locales dl ON dl.definition_id = d.id").
		Join("locales l ON l.id = dl.locale_id").
		Where("lower(l.short_name) = lower(?)", code).
		OrderBy("d.term", "d.id")

	entries, err := postgres.SelectEntries(ctx, r.db, q)
	if err != nil {
		return nil, postgres.MapError(err, "definitions in locale", code)
	}
	return entries, nil
}

// Upsert returns the locale with the given code, creating it if needed.
func (r *Repo) Upsert(ctx context.Context, code, name string) (domain.Locale, error) {
	if code == "" {
		return domain.Locale{}, domain.NewValidationError("locale", "required")
	}

	var l domain.Locale
	err := postgres.QuerierFromCtx(ctx, r.db).QueryRow(ctx, upsertSQL, code, name).
		Scan(&l.ID, &l.ShortName, &l.Name)
	if err != nil {
		return domain.Locale{}, postgres.MapError(err, "locale", code)
	}
	return l, nil
}

// Link attaches a locale to an entry. Linking twice is a no-op.
func (r *Repo) Link(ctx context.Context, entryID, localeID uuid.UUID) error {
	if _, err := postgres.QuerierFromCtx(ctx, r.db).Exec(ctx, linkSQL, entryID, localeID); err != nil {
		return postgres.MapError(err, "definition locale", entryID)
	}
	return nil
}
