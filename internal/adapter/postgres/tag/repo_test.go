package tag

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	pgxmock "github.com/pashagolub/pgxmock/v2"

	"github.com/heartmarshall/ubergloss/internal/domain"
)

func newRepo(t *testing.T) (*Repo, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	t.Cleanup(func() {
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Errorf("unfulfilled expectations: %v", err)
		}
		mock.Close()
	})
	return New(mock), mock
}

func TestRepo_Exists(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(mock pgxmock.PgxPoolIface)
		want    bool
		wantErr error
	}{
		{
			name: "exists",
			setup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(regexp.QuoteMeta(existsSQL)).
					WithArgs("Science").
					WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))
			},
			want: true,
		},
		{
			name: "missing",
			setup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(regexp.QuoteMeta(existsSQL)).
					WithArgs("Science").
					WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(false))
			},
		},
		{
			name: "storage failure",
			setup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(regexp.QuoteMeta(existsSQL)).
					WithArgs("Science").
					WillReturnError(errors.New("conn refused"))
			},
			wantErr: domain.ErrStorage,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock := newRepo(t)
			tt.setup(mock)

			got, err := repo.Exists(context.Background(), "Science")

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Exists() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Exists() unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Exists() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRepo_GetByEntryID(t *testing.T) {
	repo, mock := newRepo(t)
	entryID := uuid.New()
	a, b := uuid.New(), uuid.New()
	mock.ExpectQuery(`SELECT t.id, t.name FROM definition_tags dt JOIN tags t ON t.id = dt.tag_id WHERE dt.definition_id = \$1 ORDER BY t.name`).
		WithArgs(entryID).
		WillReturnRows(pgxmock.NewRows([]string{"id", "name"}).AddRow(a, "engineering").AddRow(b, "science"))

	got, err := repo.GetByEntryID(context.Background(), entryID)
	if err != nil {
		t.Fatalf("GetByEntryID() error: %v", err)
	}
	if len(got) != 2 || got[0].ID != a || got[1].Name != "science" {
		t.Errorf("GetByEntryID() = %+v", got)
	}
}

func TestRepo_GetByEntryID_NoTags(t *testing.T) {
	repo, mock := newRepo(t)
	entryID := uuid.New()
	mock.ExpectQuery(`FROM definition_tags dt`).
		WithArgs(entryID).
		WillReturnRows(pgxmock.NewRows([]string{"id", "name"}))

	got, err := repo.GetByEntryID(context.Background(), entryID)
	if err != nil {
		t.Fatalf("GetByEntryID() error: %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Errorf("GetByEntryID() = %v, want empty slice", got)
	}
}

func TestRepo_EntriesTagged(t *testing.T) {
	repo, mock := newRepo(t)
	id := uuid.New()
	mock.ExpectQuery(`FROM definitions d JOIN definition_tags dt ON dt.definition_id = d.id JOIN tags t ON t.id = dt.tag_id WHERE lower\(t.name\) = lower\(\$1\)`).
		WithArgs("science").
		WillReturnRows(pgxmock.NewRows([]string{"id", "term", "definition", "rank"}).AddRow(id, "water", "a liquid", ""))

	got, err := repo.EntriesTagged(context.Background(), "science")
	if err != nil {
		t.Fatalf("EntriesTagged() error: %v", err)
	}
	if len(got) != 1 || got[0].ID != id {
		t.Errorf("EntriesTagged() = %+v", got)
	}
}

func TestRepo_Upsert(t *testing.T) {
	repo, mock := newRepo(t)
	id := uuid.New()
	mock.ExpectQuery(regexp.QuoteMeta(upsertSQL)).
		WithArgs("science").
		WillReturnRows(pgxmock.NewRows([]string{"id", "name"}).AddRow(id, "Science"))

	got, err := repo.Upsert(context.Background(), "science")
	if err != nil {
		t.Fatalf("Upsert() error: %v", err)
	}
	if got.ID != id || got.Name != "Science" {
		t.Errorf("Upsert() = %+v, want existing spelling", got)
	}
}

func TestRepo_Upsert_EmptyName(t *testing.T) {
	repo, _ := newRepo(t)

	if _, err := repo.Upsert(context.Background(), ""); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("Upsert() error = %v, want ErrValidation", err)
	}
}

func TestRepo_Link(t *testing.T) {
	entryID, tagID := uuid.New(), uuid.New()

	t.Run("ok", func(t *testing.T) {
		repo, mock := newRepo(t)
		mock.ExpectExec(regexp.QuoteMeta(linkSQL)).
			WithArgs(entryID, tagID).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))

		if err := repo.Link(context.Background(), entryID, tagID); err != nil {
			t.Fatalf("Link() error: %v", err)
		}
	})

	t.Run("missing definition", func(t *testing.T) {
		repo, mock := newRepo(t)
		mock.ExpectExec(regexp.QuoteMeta(linkSQL)).
			WithArgs(entryID, tagID).
			WillReturnError(&pgconn.PgError{Code: "23503"})

		if err := repo.Link(context.Background(), entryID, tagID); !errors.Is(err, domain.ErrNotFound) {
			t.Fatalf("Link() error = %v, want ErrNotFound", err)
		}
	})
}
