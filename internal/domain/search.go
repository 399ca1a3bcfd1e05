package domain

import "github.com/google/uuid"

// Search stages at which a per-filter failure can occur.
const (
	StageValidate = "validate"
	StageRetrieve = "retrieve"
	StageAssemble = "assemble"
)

// FilterFailure records a storage failure that was absorbed while resolving a
// search. The search still completes; the failure tells the caller that the
// result may be missing entries rather than legitimately empty.
// Assemble-stage failures concern an entry rather than a filter; for those,
// EntryID is set and Filter is the zero value.
type FilterFailure struct {
	Filter  Filter
	EntryID uuid.UUID
	Stage   string
	Err     error
}

// SearchResult is the outcome of one search.
type SearchResult struct {
	Filters  FilterSet
	Entries  EntrySet
	Failures []FilterFailure
}

// Partial reports whether any storage failure was absorbed during the search.
func (r SearchResult) Partial() bool {
	return len(r.Failures) > 0
}
