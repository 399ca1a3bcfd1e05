package query

import (
	"context"
	"fmt"
	"log/slog"
	"time"
	"unicode/utf8"

	"github.com/heartmarshall/ubergloss/internal/domain"
)

// ParseQuery parses a raw query with the configured options.
func (s *Service) ParseQuery(query string) domain.FilterSet {
	return Parse(query, ParseOptions{KeepEmptyDefinition: s.cfg.KeepEmptyDefinition})
}

// Search parses, validates and resolves a raw query. The only error it
// returns is a validation error for a query that is not UTF-8 or is over the
// configured length; storage failures are reported in SearchResult.Failures.
func (s *Service) Search(ctx context.Context, query string) (domain.SearchResult, error) {
	if !utf8.ValidString(query) {
		return domain.SearchResult{}, domain.NewValidationError("q", "not valid UTF-8")
	}
	if n := utf8.RuneCountInString(query); n > s.cfg.MaxQueryLength {
		return domain.SearchResult{}, domain.NewValidationError("q",
			fmt.Sprintf("query is %d characters, limit is %d", n, s.cfg.MaxQueryLength))
	}

	filters, failures := s.validate(ctx, s.ParseQuery(query))
	return s.resolve(ctx, filters, failures), nil
}

// PerformSearch resolves the filters into the entries satisfying all of them.
// Calling it twice against an unchanged store yields the same entries.
func (s *Service) PerformSearch(ctx context.Context, filters domain.FilterSet) domain.SearchResult {
	return s.resolve(ctx, filters, nil)
}

// resolve runs retrieval, assembly and narrowing. failures carries what
// earlier stages already reported and is extended in stage order.
func (s *Service) resolve(ctx context.Context, filters domain.FilterSet, failures []domain.FilterFailure) domain.SearchResult {
	start := time.Now()

	candidates, retrieveFailures := s.MaximumResultSet(ctx, filters)
	composites, assembleFailures := s.CompleteDefinitions(ctx, candidates)
	failures = append(failures, retrieveFailures...)
	failures = append(failures, assembleFailures...)

	result := domain.SearchResult{
		Filters:  filters,
		Entries:  s.FilterResults(composites, filters),
		Failures: failures,
	}

	elapsed := time.Since(start)
	s.metrics.ObserveSearch(outcome(result), elapsed, len(result.Entries))

	s.log.DebugContext(ctx, "search resolved",
		slog.String("filters", filters.Join(" ")),
		slog.Int("candidates", len(candidates)),
		slog.Int("results", len(result.Entries)),
		slog.Int("failures", len(failures)),
		slog.Duration("duration", elapsed),
	)

	return result
}

func outcome(r domain.SearchResult) string {
	switch {
	case r.Partial():
		return OutcomePartial
	case len(r.Entries) == 0:
		return OutcomeEmpty
	default:
		return OutcomeOK
	}
}
