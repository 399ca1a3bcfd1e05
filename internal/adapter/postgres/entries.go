package postgres

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/heartmarshall/ubergloss/internal/domain"
)

// EntryColumns are the definitions columns scanned by ScanEntries. The table
// must be aliased as d.
var EntryColumns = []string{"d.id", "d.term", "d.definition", "d.rank"}

// ScanEntries reads every row into a domain.Entry and closes rows.
// Returns an empty slice (not nil) when there are no rows.
func ScanEntries(rows pgx.Rows) ([]domain.Entry, error) {
	defer rows.Close()

	entries := []domain.Entry{}
	for rows.Next() {
		var e domain.Entry
		if err := rows.Scan(&e.ID, &e.Term, &e.Definition, &e.Rank); err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate entries: %w", err)
	}

	return entries, nil
}

// SelectEntries runs a select built over EntryColumns and scans the result.
func SelectEntries(ctx context.Context, db Querier, query squirrel.SelectBuilder) ([]domain.Entry, error) {
	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	rows, err := QuerierFromCtx(ctx, db).Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}

	return ScanEntries(rows)
}
