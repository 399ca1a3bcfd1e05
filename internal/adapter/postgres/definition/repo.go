// Package definition implements glossary entry storage using PostgreSQL.
// Fuzzy term lookup relies on the fuzzystrmatch extension.
package definition

import (
	"context"
	"fmt"
	"unicode/utf8"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	postgres "github.com/heartmarshall/ubergloss/internal/adapter/postgres"
	"github.com/heartmarshall/ubergloss/internal/domain"
	"github.com/heartmarshall/ubergloss/pkg/editdistance"
)

// MaxTermLength is the longest term storage accepts. fuzzystrmatch's
// levenshtein rejects longer arguments, so FindTermsWithin handles query
// terms up to maxDistance runes longer without it.
const MaxTermLength = 255

// Repo provides entry persistence backed by PostgreSQL.
type Repo struct {
	db postgres.Querier
}

// New creates a new definition repository.
func New(db postgres.Querier) *Repo {
	return &Repo{db: db}
}

func selectEntries() squirrel.SelectBuilder {
	return postgres.Builder().
		Select(postgres.EntryColumns...).
		From("definitions d")
}

// ---------------------------------------------------------------------------
// Read operations
// ---------------------------------------------------------------------------

// FindBySubstring returns entries whose definition contains text literally
// (case-sensitive), ordered by term.
func (r *Repo) FindBySubstring(ctx context.Context, text string) ([]domain.Entry, error) {
	q := selectEntries().
		Where("strpos(d.definition, ?) > 0", text).
		OrderBy("d.term", "d.id")

	entries, err := postgres.SelectEntries(ctx, r.db, q)
	if err != nil {
		return nil, postgres.MapError(err, "definitions containing", fmt.Sprintf("%q", text))
	}
	return entries, nil
}

// FindByTermSubstring returns entries whose term contains text literally
// (case-sensitive), ordered by term.
func (r *Repo) FindByTermSubstring(ctx context.Context, text string) ([]domain.Entry, error) {
	q := selectEntries().
		Where("strpos(d.term, ?) > 0", text).
		OrderBy("d.term", "d.id")

	entries, err := postgres.SelectEntries(ctx, r.db, q)
	if err != nil {
		return nil, postgres.MapError(err, "terms containing", fmt.Sprintf("%q", text))
	}
	return entries, nil
}

// FindTermsWithin returns the distinct stored terms whose edit distance to
// term is at most maxDistance, ordered alphabetically.
//
// fuzzystrmatch cannot take a term over MaxTermLength runes, so such a term
// is compared in process against the stored terms long enough to be within
// maxDistance of it. A term longer than MaxTermLength+maxDistance matches
// nothing and skips storage.
func (r *Repo) FindTermsWithin(ctx context.Context, term string, maxDistance int) ([]string, error) {
	n := utf8.RuneCountInString(term)
	if n > MaxTermLength {
		if n-maxDistance > MaxTermLength {
			return []string{}, nil
		}
		return r.longTermsWithin(ctx, term, n, maxDistance)
	}

	q := postgres.Builder().
		Select("DISTINCT d.term").
		From("definitions d").
		Where("levenshtein_less_equal(d.term, ?, ?) <= ?", term, maxDistance, maxDistance).
		OrderBy("d.term")

	return r.selectTerms(ctx, q, term)
}

func (r *Repo) longTermsWithin(ctx context.Context, term string, n, maxDistance int) ([]string, error) {
	q := postgres.Builder().
		Select("DISTINCT d.term").
		From("definitions d").
		Where("char_length(d.term) >= ?", n-maxDistance).
		OrderBy("d.term")

	candidates, err := r.selectTerms(ctx, q, term)
	if err != nil {
		return nil, err
	}

	terms := candidates[:0]
	for _, c := range candidates {
		if editdistance.Within(c, term, maxDistance) {
			terms = append(terms, c)
		}
	}
	return terms, nil
}

func (r *Repo) selectTerms(ctx context.Context, q squirrel.SelectBuilder, term string) ([]string, error) {
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	rows, err := postgres.QuerierFromCtx(ctx, r.db).Query(ctx, sql, args...)
	if err != nil {
		return nil, postgres.MapError(err, "terms near", term)
	}
	defer rows.Close()

	terms := []string{}
	for rows.Next() {
		var t string
		if err := rows.Scan(&t); err != nil {
			return nil, postgres.MapError(err, "terms near", term)
		}
		terms = append(terms, t)
	}
	if err := rows.Err(); err != nil {
		return nil, postgres.MapError(err, "terms near", term)
	}

	return terms, nil
}

// FirstEntryForTerm returns the earliest-created entry for an exact term.
// Ties on created_at break by ID. Returns domain.ErrNotFound if the term has
// no entry.
func (r *Repo) FirstEntryForTerm(ctx context.Context, term string) (*domain.Entry, error) {
	sql, args, err := selectEntries().
		Where(squirrel.Eq{"d.term": term}).
		OrderBy("d.created_at", "d.id").
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var e domain.Entry
	err = postgres.QuerierFromCtx(ctx, r.db).QueryRow(ctx, sql, args...).
		Scan(&e.ID, &e.Term, &e.Definition, &e.Rank)
	if err != nil {
		return nil, postgres.MapError(err, "definition for term", term)
	}

	return &e, nil
}

// ---------------------------------------------------------------------------
// Write operations
// ---------------------------------------------------------------------------

// Create inserts an entry. A zero ID is generated by the database.
func (r *Repo) Create(ctx context.Context, e domain.Entry) (*domain.Entry, error) {
	if e.Term == "" {
		return nil, domain.NewValidationError("term", "required")
	}

	ins := postgres.Builder().Insert("definitions")
	if e.ID == uuid.Nil {
		ins = ins.Columns("term", "definition", "rank").Values(e.Term, e.Definition, e.Rank)
	} else {
		ins = ins.Columns("id", "term", "definition", "rank").Values(e.ID, e.Term, e.Definition, e.Rank)
	}

	sql, args, err := ins.Suffix("RETURNING id, term, definition, rank").ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var out domain.Entry
	err = postgres.QuerierFromCtx(ctx, r.db).QueryRow(ctx, sql, args...).
		Scan(&out.ID, &out.Term, &out.Definition, &out.Rank)
	if err != nil {
		return nil, postgres.MapError(err, "definition", e.Term)
	}

	return &out, nil
}
