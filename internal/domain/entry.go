package domain

import (
	"strings"

	"github.com/google/uuid"
)

// Entry is a single glossary definition of a term.
// Rank is carried through unchanged; the search core never interprets it.
type Entry struct {
	ID         uuid.UUID
	Term       string
	Definition string
	Rank       string
}

// Tag is a free-form label attached to entries. Names compare case-insensitively.
type Tag struct {
	ID   uuid.UUID
	Name string
}

// Is reports whether the tag has the given name, ignoring case.
func (t Tag) Is(name string) bool {
	return strings.EqualFold(t.Name, name)
}

// Locale is a regional variant an entry belongs to, identified by a short code such as "en-AU".
type Locale struct {
	ID        uuid.UUID
	ShortName string
	Name      string
}

// Is reports whether the locale has the given short code, ignoring case.
func (l Locale) Is(code string) bool {
	return strings.EqualFold(l.ShortName, code)
}

// CompositeEntry joins an entry with all of its tags and locales so that
// filtering can run without further storage round-trips.
// Identity is the wrapped entry's ID.
type CompositeEntry struct {
	Entry   Entry
	Tags    []Tag
	Locales []Locale
}

// HasTag reports whether any of the composite's tags has the given name.
func (c CompositeEntry) HasTag(name string) bool {
	for _, t := range c.Tags {
		if t.Is(name) {
			return true
		}
	}
	return false
}

// HasLocale reports whether any of the composite's locales has the given short code.
func (c CompositeEntry) HasLocale(code string) bool {
	for _, l := range c.Locales {
		if l.Is(code) {
			return true
		}
	}
	return false
}
