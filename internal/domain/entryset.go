package domain

import (
	"slices"
	"strings"

	"github.com/google/uuid"
)

// EntrySet is a set of entries keyed by entry ID.
type EntrySet map[uuid.UUID]Entry

// NewEntrySet builds a set from the given entries, collapsing duplicate IDs.
func NewEntrySet(entries ...Entry) EntrySet {
	s := make(EntrySet, len(entries))
	s.Add(entries...)
	return s
}

// Add inserts entries; an entry whose ID is already present is ignored.
func (s EntrySet) Add(entries ...Entry) {
	for _, e := range entries {
		if _, ok := s[e.ID]; !ok {
			s[e.ID] = e
		}
	}
}

// Contains reports whether an entry with the given ID is in the set.
func (s EntrySet) Contains(id uuid.UUID) bool {
	_, ok := s[id]
	return ok
}

// Slice returns the entries ordered by term, then by ID.
func (s EntrySet) Slice() []Entry {
	out := make([]Entry, 0, len(s))
	for _, e := range s {
		out = append(out, e)
	}
	slices.SortFunc(out, func(a, b Entry) int {
		if c := strings.Compare(a.Term, b.Term); c != 0 {
			return c
		}
		return strings.Compare(a.ID.String(), b.ID.String())
	})
	return out
}
