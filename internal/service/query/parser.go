package query

import (
	"regexp"
	"strings"

	"github.com/heartmarshall/ubergloss/internal/domain"
)

// Token classes, scanned in this order. Each class scans the whole query, so
// one substring may yield tokens of several classes.
var tokenPatterns = []*regexp.Regexp{
	// "definition text"; the RE2 form of a non-greedy ".*?".
	regexp.MustCompile(`"[^"\r\n]*"`),
	// [tag]
	regexp.MustCompile(`\[[^\]\r\n]+\]`),
	// (locale), no whitespace inside. RE2's \s lacks \v.
	regexp.MustCompile(`\([^\]\r\n\s\v]*\)`),
}

var termPattern = regexp.MustCompile(`^[a-zA-Z]+$`)

// ParseOptions tunes Parse.
type ParseOptions struct {
	// KeepEmptyDefinition keeps "" as a zero-length definition filter.
	KeepEmptyDefinition bool
}

// Parse tokenizes a raw query into a set of filters. It never fails: text
// that matches no token class simply produces no filter. Duplicate tokens
// collapse by (type, query), case-sensitively.
func Parse(query string, opts ParseOptions) domain.FilterSet {
	filters := domain.NewFilterSet()

	for _, token := range scanTokens(query) {
		f, ok := classify(token)
		if !ok {
			continue
		}
		if f.Query == "" && !(f.Type == domain.FilterDefinition && opts.KeepEmptyDefinition) {
			continue
		}
		filters.Add(f)
	}

	return filters
}

// scanTokens returns every raw token in the query, delimiters included.
func scanTokens(query string) []string {
	var tokens []string
	for _, p := range tokenPatterns {
		tokens = append(tokens, p.FindAllString(query, -1)...)
	}
	return append(tokens, termTokens(query)...)
}

// termTokens returns the letters-only words bounded by whitespace or by the
// start or end of the query.
func termTokens(query string) []string {
	var terms []string
	for _, field := range strings.FieldsFunc(query, isSpace) {
		if termPattern.MatchString(field) {
			terms = append(terms, field)
		}
	}
	return terms
}

func isSpace(r rune) bool {
	switch r {
	case ' ', '\t', '\n', '\v', '\f', '\r':
		return true
	}
	return false
}

// classify maps a raw token to a filter by its leading delimiter.
func classify(token string) (domain.Filter, bool) {
	if token == "" {
		return domain.Filter{}, false
	}

	var t domain.FilterType
	switch token[0] {
	case '[':
		t = domain.FilterTag
	case '"':
		t = domain.FilterDefinition
	case '(':
		t = domain.FilterLocale
	default:
		return domain.NewFilter(domain.FilterTerm, token), true
	}

	if len(token) < 2 {
		return domain.Filter{}, false
	}
	return domain.NewFilter(t, token[1:len(token)-1]), true
}
