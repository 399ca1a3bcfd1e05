// Package query resolves free-text glossary queries into entries.
//
// A query is parsed into typed filters, every filter independently retrieves
// the entries it matches (OR), the candidates are enriched with their tags and
// locales, and finally only entries satisfying every filter survive (AND).
package query

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/ubergloss/internal/config"
	"github.com/heartmarshall/ubergloss/internal/domain"
)

// ---------------------------------------------------------------------------
// Consumer-defined interfaces (private)
// ---------------------------------------------------------------------------

type definitionStore interface {
	FindBySubstring(ctx context.Context, text string) ([]domain.Entry, error)
	FindByTermSubstring(ctx context.Context, text string) ([]domain.Entry, error)
	FindTermsWithin(ctx context.Context, term string, maxDistance int) ([]string, error)
	FirstEntryForTerm(ctx context.Context, term string) (*domain.Entry, error)
}

type tagStore interface {
	Exists(ctx context.Context, name string) (bool, error)
	GetByEntryID(ctx context.Context, entryID uuid.UUID) ([]domain.Tag, error)
	EntriesTagged(ctx context.Context, name string) ([]domain.Entry, error)
}

type localeStore interface {
	Exists(ctx context.Context, code string) (bool, error)
	GetByEntryID(ctx context.Context, entryID uuid.UUID) ([]domain.Locale, error)
	EntriesInLocale(ctx context.Context, code string) ([]domain.Entry, error)
}

type recorder interface {
	ObserveSearch(outcome string, duration time.Duration, results int)
	ObserveFailure(filterType, stage string)
}

// Search outcomes reported to the recorder.
const (
	OutcomeOK      = "ok"
	OutcomeEmpty   = "empty"
	OutcomePartial = "partial"
)

type noopRecorder struct{}

func (noopRecorder) ObserveSearch(string, time.Duration, int) {}
func (noopRecorder) ObserveFailure(string, string)            {}

// ---------------------------------------------------------------------------
// Service
// ---------------------------------------------------------------------------

// Service implements query resolution. It holds no per-search state, so one
// instance may serve concurrent searches as long as the stores allow
// concurrent reads.
type Service struct {
	log         *slog.Logger
	definitions definitionStore
	tags        tagStore
	locales     localeStore
	metrics     recorder
	cfg         config.SearchConfig
}

// NewService creates a new query Service.
func NewService(
	logger *slog.Logger,
	definitions definitionStore,
	tags tagStore,
	locales localeStore,
	cfg config.SearchConfig,
) *Service {
	return &Service{
		log:         logger.With("service", "query"),
		definitions: definitions,
		tags:        tags,
		locales:     locales,
		metrics:     noopRecorder{},
		cfg:         cfg,
	}
}

// SetRecorder injects the optional metrics recorder.
func (s *Service) SetRecorder(r recorder) {
	if r == nil {
		r = noopRecorder{}
	}
	s.metrics = r
}

// fail logs an absorbed storage failure and turns it into result metadata.
func (s *Service) fail(ctx context.Context, f domain.Filter, entryID uuid.UUID, stage string, err error) domain.FilterFailure {
	attrs := []slog.Attr{
		slog.String("stage", stage),
		slog.String("error", err.Error()),
	}
	if entryID != uuid.Nil {
		attrs = append(attrs, slog.String("entry_id", entryID.String()))
	} else {
		attrs = append(attrs,
			slog.String("filter_type", f.Type.String()),
			slog.String("filter", f.String()),
		)
	}
	s.log.LogAttrs(ctx, slog.LevelWarn, "storage lookup failed", attrs...)

	filterType := f.Type.String()
	if filterType == "" {
		filterType = "none"
	}
	s.metrics.ObserveFailure(filterType, stage)

	return domain.FilterFailure{Filter: f, EntryID: entryID, Stage: stage, Err: err}
}
