package query

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/heartmarshall/ubergloss/internal/domain"
)

// CompleteDefinitions enriches every entry with its tags and locales. Lookups
// are fresh on every call and run on up to search.assemble_workers entries at
// once. An entry whose lookup fails is still returned, with the failed list
// left empty, and the failure is reported. Output order follows entries.Slice.
func (s *Service) CompleteDefinitions(ctx context.Context, entries domain.EntrySet) ([]domain.CompositeEntry, []domain.FilterFailure) {
	list := entries.Slice()
	composites := make([]domain.CompositeEntry, len(list))
	perEntry := make([][]domain.FilterFailure, len(list))

	var g errgroup.Group
	g.SetLimit(max(1, s.cfg.AssembleWorkers))

	for i, e := range list {
		g.Go(func() error {
			composites[i], perEntry[i] = s.assemble(ctx, e)
			return nil
		})
	}
	_ = g.Wait()

	var failures []domain.FilterFailure
	for _, f := range perEntry {
		failures = append(failures, f...)
	}
	return composites, failures
}

func (s *Service) assemble(ctx context.Context, e domain.Entry) (domain.CompositeEntry, []domain.FilterFailure) {
	c := domain.CompositeEntry{Entry: e}
	var failures []domain.FilterFailure

	tags, err := s.tags.GetByEntryID(ctx, e.ID)
	if err != nil {
		failures = append(failures, s.fail(ctx, domain.Filter{}, e.ID, domain.StageAssemble,
			fmt.Errorf("tags: %w", err)))
	} else {
		c.Tags = tags
	}

	locales, err := s.locales.GetByEntryID(ctx, e.ID)
	if err != nil {
		failures = append(failures, s.fail(ctx, domain.Filter{}, e.ID, domain.StageAssemble,
			fmt.Errorf("locales: %w", err)))
	} else {
		c.Locales = locales
	}

	return c, failures
}

