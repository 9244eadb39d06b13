// Package textnorm cleans extracted document text so the pattern catalogs can match it,
// and canonicalizes the amount and date strings the extractors capture.
package textnorm

import (
	"regexp"
	"strings"
)

var (
	reCRLF       = regexp.MustCompile(`\r\n?`)
	reMultiBlank = regexp.MustCompile(`\n{3,}`)
	reSpaceRun   = regexp.MustCompile(`\s+`)
	// Anything outside letters, marks, digits, '_', whitespace and - / : . , ( ) @ ₹.
	// Marks are kept so Devanagari vowel signs survive.
	reDisallowed = regexp.MustCompile(`[^\p{L}\p{M}\p{N}_\s\-/:.,₹()@]`)
)

// Normalize strips disallowed characters and collapses every whitespace run,
// newlines included, to a single space. Normalize(Normalize(s)) == Normalize(s).
func Normalize(s string) string {
	if s == "" {
		return s
	}
	s = reDisallowed.ReplaceAllString(s, " ")
	s = reSpaceRun.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// NormalizeLines is the line-preserving variant used for segmentation: each line is
// normalized on its own, page breaks become newlines and runs of blank lines
// collapse to one.
func NormalizeLines(s string) string {
	if s == "" {
		return s
	}
	s = reCRLF.ReplaceAllString(s, "\n")
	s = strings.ReplaceAll(s, "\f", "\n")
	lines := strings.Split(s, "\n")
	for i := range lines {
		lines[i] = Normalize(lines[i])
	}
	s = strings.Join(lines, "\n")
	s = reMultiBlank.ReplaceAllString(s, "\n\n")
	return strings.Trim(s, "\n")
}
