package query

import (
	"context"

	"github.com/google/uuid"

	"github.com/heartmarshall/ubergloss/internal/domain"
)

// ValidateFilters marks tag and locale filters whose tag or locale exists in
// storage as verified. The set is annotated in place and returned.
// Validation never fails: a storage error leaves the filter unverified.
func (s *Service) ValidateFilters(ctx context.Context, filters domain.FilterSet) domain.FilterSet {
	filters, _ = s.validate(ctx, filters)
	return filters
}

// validate is ValidateFilters that also returns the failed existence checks.
func (s *Service) validate(ctx context.Context, filters domain.FilterSet) (domain.FilterSet, []domain.FilterFailure) {
	var failures []domain.FilterFailure
	for _, f := range filters.Slice() {
		var (
			exists bool
			err    error
		)

		switch f.Type {
		case domain.FilterTag:
			exists, err = s.tags.Exists(ctx, f.Query)
		case domain.FilterLocale:
			exists, err = s.locales.Exists(ctx, f.Query)
		default:
			continue
		}

		if err != nil {
			failures = append(failures, s.fail(ctx, f, uuid.Nil, domain.StageValidate, err))
			continue
		}
		if exists {
			f.Verified = true
			filters.Set(f)
		}
	}

	return filters, failures
}
