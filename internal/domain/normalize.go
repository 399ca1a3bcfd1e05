package domain

import "strings"

// CollapseSpace trims s and folds each run of Unicode whitespace into a
// single space. Case is kept, since term and definition matching are
// case-sensitive.
func CollapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// EntryKey identifies an entry by content rather than by ID. Two glossary
// records with equal keys are served identically by every filter.
type EntryKey struct {
	Term       string
	Definition string
}

// KeyOf returns the content key of a term and definition.
func KeyOf(term, definition string) EntryKey {
	return EntryKey{Term: strings.TrimSpace(term), Definition: CollapseSpace(definition)}
}
