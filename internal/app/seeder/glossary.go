package seeder

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode"
	"unicode/utf8"

	"gopkg.in/yaml.v3"

	"github.com/heartmarshall/ubergloss/internal/domain"
)

// maxTermLength mirrors the definitions.term column limit.
const maxTermLength = 255

// Glossary is the YAML import format:
//
//	locales:
//	  - code: en-AU
//	    name: Australian English
//	entries:
//	  - term: dam
//	    definition: a barrier built across a river
//	    rank: "1"
//	    tags: [engineering]
//	    locales: [en-AU]
type Glossary struct {
	Locales []LocaleRecord `yaml:"locales"`
	Entries []EntryRecord  `yaml:"entries"`
}

// LocaleRecord names a locale code. Codes used by entries need no record.
type LocaleRecord struct {
	Code string `yaml:"code"`
	Name string `yaml:"name"`
}

// EntryRecord is one glossary entry with its tags and locale codes.
type EntryRecord struct {
	Term       string   `yaml:"term"`
	Definition string   `yaml:"definition"`
	Rank       string   `yaml:"rank"`
	Tags       []string `yaml:"tags"`
	Locales    []string `yaml:"locales"`
}

// LoadGlossary opens and decodes a glossary file.
func LoadGlossary(path string) (*Glossary, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open glossary: %w", err)
	}
	defer f.Close()

	g, err := DecodeGlossary(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return g, nil
}

// DecodeGlossary decodes and validates a glossary. Unknown keys are rejected.
func DecodeGlossary(r io.Reader) (*Glossary, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var g Glossary
	if err := dec.Decode(&g); err != nil {
		if errors.Is(err, io.EOF) {
			return &g, nil
		}
		return nil, fmt.Errorf("decode glossary: %w", err)
	}

	if err := g.Validate(); err != nil {
		return nil, err
	}
	return &g, nil
}

// Validate checks every record so that whatever is imported can be found
// again through the query language.
func (g *Glossary) Validate() error {
	var errs []domain.FieldError

	for i, l := range g.Locales {
		if msg := checkLocaleCode(l.Code); msg != "" {
			errs = append(errs, domain.FieldError{Field: fmt.Sprintf("locales[%d].code", i), Message: msg})
		}
	}

	for i, e := range g.Entries {
		field := fmt.Sprintf("entries[%d]", i)
		switch {
		case strings.TrimSpace(e.Term) == "":
			errs = append(errs, domain.FieldError{Field: field + ".term", Message: "required"})
		case utf8.RuneCountInString(e.Term) > maxTermLength:
			errs = append(errs, domain.FieldError{Field: field + ".term", Message: fmt.Sprintf("longer than %d characters", maxTermLength)})
		}
		for j, t := range e.Tags {
			if msg := checkTagName(t); msg != "" {
				errs = append(errs, domain.FieldError{Field: fmt.Sprintf("%s.tags[%d]", field, j), Message: msg})
			}
		}
		for j, c := range e.Locales {
			if msg := checkLocaleCode(c); msg != "" {
				errs = append(errs, domain.FieldError{Field: fmt.Sprintf("%s.locales[%d]", field, j), Message: msg})
			}
		}
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

// checkTagName rejects names a [tag] token cannot express.
func checkTagName(name string) string {
	switch {
	case name == "":
		return "required"
	case strings.ContainsAny(name, "]\r\n"):
		return "must not contain ']' or line breaks"
	}
	return ""
}

// checkLocaleCode rejects codes a (locale) token cannot express.
func checkLocaleCode(code string) string {
	switch {
	case code == "":
		return "required"
	case strings.ContainsRune(code, ']') || strings.ContainsRune(code, ')'):
		return "must not contain ']' or ')'"
	case strings.IndexFunc(code, unicode.IsSpace) >= 0:
		return "must not contain whitespace"
	}
	return ""
}
