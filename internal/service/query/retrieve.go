package query

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/heartmarshall/ubergloss/internal/config"
	"github.com/heartmarshall/ubergloss/internal/domain"
)

// MaximumResultSet evaluates every filter independently against storage and
// returns the union of what they match. A filter whose lookup fails
// contributes nothing and is reported in the returned failures.
func (s *Service) MaximumResultSet(ctx context.Context, filters domain.FilterSet) (domain.EntrySet, []domain.FilterFailure) {
	entries := domain.NewEntrySet()
	var failures []domain.FilterFailure

	for _, f := range filters.Slice() {
		found, err := s.lookup(ctx, f)
		if err != nil {
			failures = append(failures, s.fail(ctx, f, uuid.Nil, domain.StageRetrieve, err))
			continue
		}
		entries.Add(found...)
	}

	return entries, failures
}

func (s *Service) lookup(ctx context.Context, f domain.Filter) ([]domain.Entry, error) {
	if !f.Type.IsValid() {
		return nil, fmt.Errorf("filter type %q: %w", f.Type, domain.ErrInvalidInput)
	}

	switch f.Type {
	case domain.FilterDefinition:
		return s.definitions.FindBySubstring(ctx, f.Query)
	case domain.FilterTag:
		return s.tags.EntriesTagged(ctx, f.Query)
	case domain.FilterLocale:
		return s.locales.EntriesInLocale(ctx, f.Query)
	}
	return s.TermLookup(ctx, f.Query)
}

// TermLookup resolves a term filter using the configured term mode.
func (s *Service) TermLookup(ctx context.Context, term string) ([]domain.Entry, error) {
	if s.cfg.TermMode == config.TermModeSubstring {
		return s.SubstringTermSearch(ctx, term)
	}
	return s.FuzzyTermSearch(ctx, term)
}

// FuzzyTermSearch finds every stored term within the configured edit distance
// of term and resolves each to its first entry. Terms without an entry are
// skipped.
func (s *Service) FuzzyTermSearch(ctx context.Context, term string) ([]domain.Entry, error) {
	if term == "" {
		return nil, fmt.Errorf("fuzzy term search: empty term: %w", domain.ErrInvalidInput)
	}

	terms, err := s.definitions.FindTermsWithin(ctx, term, s.cfg.MaxDistance)
	if err != nil {
		return nil, fmt.Errorf("find terms within %d of %q: %w", s.cfg.MaxDistance, term, err)
	}

	entries := make([]domain.Entry, 0, len(terms))
	for _, t := range terms {
		entry, err := s.definitions.FirstEntryForTerm(ctx, t)
		if errors.Is(err, domain.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("first entry for term %q: %w", t, err)
		}
		entries = append(entries, *entry)
	}

	return entries, nil
}

// SubstringTermSearch finds entries whose term contains term literally.
func (s *Service) SubstringTermSearch(ctx context.Context, term string) ([]domain.Entry, error) {
	if term == "" {
		return nil, fmt.Errorf("substring term search: empty term: %w", domain.ErrInvalidInput)
	}

	entries, err := s.definitions.FindByTermSubstring(ctx, term)
	if err != nil {
		return nil, fmt.Errorf("find by term substring %q: %w", term, err)
	}
	return entries, nil
}
