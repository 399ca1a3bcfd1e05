//go:build integration

package testhelper

import (
	"context"
	"testing"
	"time"
)

func TestSetupTestDB_Smoke(t *testing.T) {
	pool := SetupTestDB(t)

	entry := SeedEntry(t, pool, "smoke", "a visible suspension of particles", time.Now())
	SeedTag(t, pool, entry.ID, UniqueTag("smoke"))

	var term string
	err := pool.QueryRow(context.Background(),
		`SELECT term FROM definitions WHERE id = $1`,
		entry.ID,
	).Scan(&term)
	if err != nil {
		t.Fatalf("expected definition in DB, got error: %v", err)
	}
	if term != entry.Term {
		t.Fatalf("expected term %q, got %q", entry.Term, term)
	}

	var distance int
	if err := pool.QueryRow(context.Background(), `SELECT levenshtein('kitten', 'sitting')`).Scan(&distance); err != nil {
		t.Fatalf("fuzzystrmatch not available: %v", err)
	}
	if distance != 3 {
		t.Fatalf("levenshtein('kitten', 'sitting') = %d, want 3", distance)
	}
}
