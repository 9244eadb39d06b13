// Package summary builds short extractive summaries of section text.
package summary

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/joseph-ayodele/tender-analyzer/internal/core/textnorm"
	"github.com/joseph-ayodele/tender-analyzer/internal/entity"
)

const (
	DefaultMaxLength = 200
	minSentenceLen   = 15
	// below this share of the source length the summary is marked as truncated
	truncatedRatio = 0.8
)

var reBareOrdinal = regexp.MustCompile(`^\d+\.$`)

// Summarize keeps whole sentences, in order, while their running length stays within
// maxLength. Sentences under 15 characters and bare ordinals ("3.") are skipped. The
// kept sentences are joined with ". " and end in "..." when they cover less than 80%
// of the text, "." otherwise. Text with no usable sentence summarizes to "".
func Summarize(text string, maxLength int) string {
	if maxLength <= 0 {
		maxLength = DefaultMaxLength
	}
	text = textnorm.Normalize(text)
	if text == "" {
		return ""
	}

	var kept []string
	total := 0
	for _, s := range Sentences(text) {
		n := utf8.RuneCountInString(s)
		if n < minSentenceLen || reBareOrdinal.MatchString(s) {
			continue
		}
		if total+n > maxLength {
			break
		}
		kept = append(kept, strings.TrimRight(s, ".?!"))
		total += n
	}
	if len(kept) == 0 {
		return ""
	}

	out := strings.Join(kept, ". ")
	if float64(total) < truncatedRatio*float64(utf8.RuneCountInString(text)) {
		return out + "..."
	}
	return out + "."
}

// Sentences splits text after every '.', '?' or '!' that is followed by whitespace.
func Sentences(text string) []string {
	var out []string
	start := 0
	for i := 0; i < len(text)-1; i++ {
		switch text[i] {
		case '.', '?', '!':
			if isSpace(text[i+1]) {
				if s := strings.TrimSpace(text[start : i+1]); s != "" {
					out = append(out, s)
				}
				start = i + 1
			}
		}
	}
	if s := strings.TrimSpace(text[start:]); s != "" {
		out = append(out, s)
	}
	return out
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\n' || b == '\t' || b == '\r'
}

// Sections summarizes every section of m with the given length budget.
func Sections(m entity.SectionMap, maxLength int) []entity.SectionSummary {
	out := make([]entity.SectionSummary, 0, len(m))
	for _, s := range m {
		out = append(out, entity.SectionSummary{
			Tag:       s.Tag,
			Title:     s.Tag.Title(),
			CharCount: utf8.RuneCountInString(s.Content),
			WordCount: len(strings.Fields(s.Content)),
			Summary:   Summarize(s.Content, maxLength),
		})
	}
	return out
}
