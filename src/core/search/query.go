package search

import (
	"fmt"
	"strings"
)

// tsquery metacharacters that must not leak into the expression. A raw term
// like "foo&bar" would otherwise make to_tsquery error out.
const tsqueryReserved = "&|!()<>:*'\\"

// BuildQueryExpression turns a raw free-text query into a canonical tsquery
// expression: each whitespace-separated term becomes a prefix match and the
// terms are conjoined with AND, so "dyna api" yields "dyna:* & api:*".
// Returns the empty string when nothing searchable remains.
func BuildQueryExpression(raw string) string {
	fields := strings.Fields(raw)
	terms := make([]string, 0, len(fields))
	for _, f := range fields {
		term := sanitizeTerm(f)
		if term == "" {
			continue
		}
		terms = append(terms, term+":*")
	}
	return strings.Join(terms, " & ")
}

func sanitizeTerm(term string) string {
	return strings.Map(func(r rune) rune {
		if strings.ContainsRune(tsqueryReserved, r) {
			return -1
		}
		return r
	}, term)
}

// SearchCacheKey derives the cache key for a full search. It folds in every
// option so two structurally different requests never collide. Types and
// tags are order-normalized at the boundary by the caller passing them as
// given; the key keeps their order so it stays a pure function of the input.
func SearchCacheKey(query string, opts Options) string {
	var b strings.Builder
	b.WriteString("search:")
	b.WriteString(query)
	fmt.Fprintf(&b, "|limit=%d|offset=%d", opts.Limit, opts.Offset)
	b.WriteString("|types=")
	for i, t := range opts.Types {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(string(t))
	}
	b.WriteString("|category=")
	b.WriteString(opts.Category)
	b.WriteString("|tags=")
	b.WriteString(strings.Join(opts.Tags, ","))
	return b.String()
}

// SuggestionCacheKey derives the cache key for a suggestion lookup. The
// prefix is the only effective parameter; the limit is applied on read.
func SuggestionCacheKey(query string) string {
	return "suggestions:" + strings.ToLower(query)
}
