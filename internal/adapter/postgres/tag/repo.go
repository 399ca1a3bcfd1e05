// Package tag implements tag storage and entry tagging using PostgreSQL.
// Tag names are unique case-insensitively.
package tag

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	postgres "github.com/heartmarshall/ubergloss/internal/adapter/postgres"
	"github.com/heartmarshall/ubergloss/internal/domain"
)

// Repo provides tag persistence backed by PostgreSQL.
type Repo struct {
	db postgres.Querier
}

// New creates a new tag repository.
func New(db postgres.Querier) *Repo {
	return &Repo{db: db}
}

// ---------------------------------------------------------------------------
// Raw SQL
// ---------------------------------------------------------------------------

const existsSQL = `SELECT EXISTS(SELECT 1 FROM tags WHERE lower(name) = lower($1))`

const upsertSQL = `
INSERT INTO tags (name) VALUES ($1)
ON CONFLICT ((lower(name))) DO UPDATE SET name = tags.name
RETURNING id, name`

const linkSQL = `
INSERT INTO definition_tags (definition_id, tag_id) VALUES ($1, $2)
ON CONFLICT DO NOTHING`

// ---------------------------------------------------------------------------
// Read operations
// ---------------------------------------------------------------------------

// Exists reports whether a tag with the given name exists, ignoring case.
func (r *Repo) Exists(ctx context.Context, name string) (bool, error) {
	var exists bool
	if err := postgres.QuerierFromCtx(ctx, r.db).QueryRow(ctx, existsSQL, name).Scan(&exists); err != nil {
		return false, postgres.MapError(err, "tag", name)
	}
	return exists, nil
}

// GetByEntryID returns the tags linked to an entry, ordered by name.
// Returns an empty slice (not nil) when the entry has no tags.
func (r *Repo) GetByEntryID(ctx context.Context, entryID uuid.UUID) ([]domain.Tag, error) {
	sql, args, err := postgres.Builder().
		Select("t.id", "t.name").
		From("definition_tags dt").
		Join("tags t ON t.id = dt.tag_id").
		Where("dt.definition_id = ?", entryID).
		OrderBy("t.name").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	rows, err := postgres.QuerierFromCtx(ctx, r.db).Query(ctx, sql, args...)
	if err != nil {
		return nil, postgres.MapError(err, "tags of definition", entryID)
	}
	defer rows.Close()

	tags := []domain.Tag{}
	for rows.Next() {
		var t domain.Tag
		if err := rows.Scan(&t.ID, &t.Name); err != nil {
			return nil, postgres.MapError(err, "tags of definition", entryID)
		}
		tags = append(tags, t)
	}
	if err := rows.Err(); err != nil {
		return nil, postgres.MapError(err, "tags of definition", entryID)
	}

	return tags, nil
}

// EntriesTagged returns the entries carrying the named tag, ignoring case.
func (r *Repo) EntriesTagged(ctx context.Context, name string) ([]domain.Entry, error) {
	q := postgres.Builder().
		Select(postgres.EntryColumns...).
		From("definitions d").
		Join("definition_tags dt ON dt.definition_id = d.id").
		Join("tags t ON t.id = dt.tag_id").
		Where("lower(t.name) = lower(?)", name).
		OrderBy("d.term", "d.id")

	entries, err := postgres.SelectEntries(ctx, r.db, q)
	if err != nil {
		return nil, postgres.MapError(err, "definitions tagged", name)
	}
	return entries, nil
}

// ---------------------------------------------------------------------------
// Write operations
// ---------------------------------------------------------------------------

// Upsert returns the tag with the given name, creating it if needed. An
// existing tag keeps its original spelling.
func (r *Repo) Upsert(ctx context.Context, name string) (domain.Tag, error) {
	if name == "" {
		return domain.Tag{}, domain.NewValidationError("tag", "required")
	}

	var t domain.Tag
	if err := postgres.QuerierFromCtx(ctx, r.db).QueryRow(ctx, upsertSQL, name).Scan(&t.ID, &t.Name); err != nil {
		return domain.Tag{}, postgres.MapError(err, "tag", name)
	}
	return t, nil
}

// Link attaches a tag to an entry. Linking twice is a no-op.
// Returns domain.ErrNotFound if either side does not exist.
func (r *Repo) Link(ctx context.Context, entryID, tagID uuid.UUID) error {
	if _, err := postgres.QuerierFromCtx(ctx, r.db).Exec(ctx, linkSQL, entryID, tagID); err != nil {
		return postgres.MapError(err, "definition tag", entryID)
	}
	return nil
}
