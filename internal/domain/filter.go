package domain

import (
	"slices"
	"strings"
)

// FilterType identifies which part of an entry a filter constrains.
type FilterType string

const (
	FilterTerm       FilterType = "TERM"
	FilterDefinition FilterType = "DEFINITION"
	FilterTag        FilterType = "TAG"
	FilterLocale     FilterType = "LOCALE"
)

func (t FilterType) String() string { return string(t) }

func (t FilterType) IsValid() bool {
	switch t {
	case FilterTerm, FilterDefinition, FilterTag, FilterLocale:
		return true
	}
	return false
}

// Delimiters returns the opening and closing characters of the query-language
// token for this filter type. Term filters have none.
func (t FilterType) Delimiters() (open, close string) {
	switch t {
	case FilterDefinition:
		return `"`, `"`
	case FilterTag:
		return "[", "]"
	case FilterLocale:
		return "(", ")"
	default:
		return "", ""
	}
}

// Filter is one typed search criterion.
// Verified is only meaningful for tag and locale filters and records whether
// the tag or locale was found in storage.
type Filter struct {
	Type     FilterType
	Query    string
	Verified bool
}

// NewFilter creates an unverified filter.
func NewFilter(t FilterType, query string) Filter {
	return Filter{Type: t, Query: query}
}

// FilterKey is the identity of a filter: its type and query string.
type FilterKey struct {
	Type  FilterType
	Query string
}

// Key returns the filter's identity. Verified is not part of it.
func (f Filter) Key() FilterKey {
	return FilterKey{Type: f.Type, Query: f.Query}
}

// String renders the filter as a query-language token, e.g. [science] or (en-AU).
func (f Filter) String() string {
	open, close := f.Type.Delimiters()
	return open + f.Query + close
}

// FilterSet is a set of filters keyed by (type, query). Adding a filter that
// is already present keeps the existing one.
type FilterSet map[FilterKey]Filter

// NewFilterSet builds a set from the given filters, collapsing duplicates.
func NewFilterSet(filters ...Filter) FilterSet {
	s := make(FilterSet, len(filters))
	for _, f := range filters {
		s.Add(f)
	}
	return s
}

// Add inserts f unless an equal filter is already present.
func (s FilterSet) Add(f Filter) {
	if _, ok := s[f.Key()]; !ok {
		s[f.Key()] = f
	}
}

// Set inserts or replaces f.
func (s FilterSet) Set(f Filter) {
	s[f.Key()] = f
}

// Contains reports whether a filter with the same type and query is present.
func (s FilterSet) Contains(f Filter) bool {
	_, ok := s[f.Key()]
	return ok
}

// Slice returns the filters ordered by type, then query.
func (s FilterSet) Slice() []Filter {
	out := make([]Filter, 0, len(s))
	for _, f := range s {
		out = append(out, f)
	}
	slices.SortFunc(out, func(a, b Filter) int {
		if c := strings.Compare(string(a.Type), string(b.Type)); c != 0 {
			return c
		}
		return strings.Compare(a.Query, b.Query)
	})
	return out
}

// Without returns a copy of the set with f removed.
func (s FilterSet) Without(f Filter) FilterSet {
	out := make(FilterSet, len(s))
	for k, v := range s {
		if k != f.Key() {
			out[k] = v
		}
	}
	return out
}

// Join renders every filter as a token and joins them with sep.
func (s FilterSet) Join(sep string) string {
	filters := s.Slice()
	parts := make([]string, len(filters))
	for i, f := range filters {
		parts[i] = f.String()
	}
	return strings.Join(parts, sep)
}

// RemovalQuery returns the query that results from dropping f from the set.
// It reports false when f is the only filter, since removing it would leave
// nothing to search for.
func (s FilterSet) RemovalQuery(f Filter, sep string) (string, bool) {
	if len(s) <= 1 || !s.Contains(f) {
		return "", false
	}
	return s.Without(f).Join(sep), true
}
