package testhelper

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/heartmarshall/ubergloss/internal/domain"
)

// uniqueSuffix returns a short unique string for generating non-conflicting test data.
func uniqueSuffix() string {
	return uuid.New().String()[:8]
}

// UniqueTag returns a tag name no other test uses.
func UniqueTag(prefix string) string {
	return prefix + "-" + uniqueSuffix()
}

// SeedEntry inserts a definition row. createdAt orders entries sharing a term.
func SeedEntry(t *testing.T, pool *pgxpool.Pool, term, definition string, createdAt time.Time) domain.Entry {
	t.Helper()

	e := domain.Entry{
		ID:         uuid.New(),
		Term:       term,
		Definition: definition,
	}

	_, err := pool.Exec(context.Background(),
		`INSERT INTO definitions (id, term, definition, rank, created_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		e.ID, e.Term, e.Definition, e.Rank, createdAt.UTC().Truncate(time.Microsecond),
	)
	if err != nil {
		t.Fatalf("testhelper: SeedEntry insert definition: %v", err)
	}

	return e
}

// SeedTag links entry to the named tag, creating the tag if needed.
func SeedTag(t *testing.T, pool *pgxpool.Pool, entryID uuid.UUID, name string) domain.Tag {
	t.Helper()
	ctx := context.Background()

	var tag domain.Tag
	err := pool.QueryRow(ctx,
		`INSERT INTO tags (name) VALUES ($1)
		 ON CONFLICT ((lower(name))) DO UPDATE SET name = tags.name
		 RETURNING id, name`,
		name,
	).Scan(&tag.ID, &tag.Name)
	if err != nil {
		t.Fatalf("testhelper: SeedTag upsert tag: %v", err)
	}

	if _, err := pool.Exec(ctx,
		`INSERT INTO definition_tags (definition_id, tag_id) VALUES ($1, $2)`,
		entryID, tag.ID,
	); err != nil {
		t.Fatalf("testhelper: SeedTag link: %v", err)
	}

	return tag
}

// SeedLocale links entry to the locale code, creating the locale if needed.
func SeedLocale(t *testing.T, pool *pgxpool.Pool, entryID uuid.UUID, code string) domain.Locale {
	t.Helper()
	ctx := context.Background()

	var l domain.Locale
	err := pool.QueryRow(ctx,
		`INSERT INTO locales (short_name) VALUES ($1)
		 ON CONFLICT ((lower(short_name))) DO UPDATE SET short_name = locales.short_name
		 RETURNING id, short_name, name`,
		code,
	).Scan(&l.ID, &l.ShortName, &l.Name)
	if err != nil {
		t.Fatalf("testhelper: SeedLocale upsert locale: %v", err)
	}

	if _, err := pool.Exec(ctx,
		`INSERT INTO definition_locales (definition_id, locale_id) VALUES ($1, $2)`,
		entryID, l.ID,
	); err != nil {
		t.Fatalf("testhelper: SeedLocale link: %v", err)
	}

	return l
}

// UniqueWord returns a random lowercase letters-only word, usable as a term
// that no other test's fuzzy lookup will reach.
func UniqueWord() string {
	id := uuid.New()
	b := make([]byte, 12)
	for i := range b {
		b[i] = 'a' + id[i]%26
	}
	return string(b)
}
