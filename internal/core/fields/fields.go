// Package fields extracts the key-field catalog from whitespace-collapsed text.
package fields

import (
	"unicode/utf8"

	"github.com/joseph-ayodele/tender-analyzer/internal/core/catalog"
	"github.com/joseph-ayodele/tender-analyzer/internal/entity"
)

// Extract returns a value for every field in the catalog, "" when nothing matched.
// All patterns of a field are tried over the whole text and the longest cleaned value
// wins; on equal length the earliest candidate is kept.
func Extract(cat *catalog.Catalog, text string) entity.KeyFieldResult {
	fields := cat.Fields()
	out := make(entity.KeyFieldResult, len(fields))
	for _, f := range fields {
		out[f.Name] = Longest(Candidates(f, text))
	}
	return out
}

// Candidates returns the cleaned, non-empty values of every match of every pattern of
// f, in pattern order and then text order.
func Candidates(f catalog.FieldPatterns, text string) []string {
	var out []string
	for _, re := range f.Patterns {
		for _, loc := range re.FindAllStringSubmatchIndex(text, -1) {
			v := f.Kind.Clean(catalog.LastGroup(text, loc))
			if v != "" {
				out = append(out, v)
			}
		}
	}
	return out
}

// Longest picks the candidate with the most characters, first one on ties.
func Longest(candidates []string) string {
	best, bestLen := "", 0
	for _, c := range candidates {
		if n := utf8.RuneCountInString(c); n > bestLen {
			best, bestLen = c, n
		}
	}
	return best
}
