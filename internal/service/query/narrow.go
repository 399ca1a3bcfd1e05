package query

import (
	"strings"

	"github.com/heartmarshall/ubergloss/internal/domain"
	"github.com/heartmarshall/ubergloss/pkg/editdistance"
)

// FilterResults keeps the composites that satisfy every filter and unwraps
// them to bare entries, deduplicated by ID.
func FilterResults(composites []domain.CompositeEntry, filters domain.FilterSet, maxDistance int) domain.EntrySet {
	results := make(domain.EntrySet, len(composites))

	for _, c := range composites {
		if matchesAll(c, filters, maxDistance) {
			results.Add(c.Entry)
		}
	}

	return results
}

// FilterResults narrows composites using the configured distance threshold.
func (s *Service) FilterResults(composites []domain.CompositeEntry, filters domain.FilterSet) domain.EntrySet {
	return FilterResults(composites, filters, s.cfg.MaxDistance)
}

func matchesAll(c domain.CompositeEntry, filters domain.FilterSet, maxDistance int) bool {
	for _, f := range filters {
		if !f.Type.IsValid() || !matches(c, f, maxDistance) {
			return false
		}
	}
	return true
}

// matches applies one filter. Tag and locale names compare case-insensitively;
// definition and term substrings are case-sensitive.
func matches(c domain.CompositeEntry, f domain.Filter, maxDistance int) bool {
	switch f.Type {
	case domain.FilterTag:
		return c.HasTag(f.Query)
	case domain.FilterLocale:
		return c.HasLocale(f.Query)
	case domain.FilterDefinition:
		return strings.Contains(c.Entry.Definition, f.Query)
	}
	return editdistance.Within(c.Entry.Term, f.Query, maxDistance) &&
		strings.Contains(c.Entry.Term, f.Query)
}
