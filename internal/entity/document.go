package entity

import (
	"strings"

	"github.com/joseph-ayodele/tender-analyzer/constants"
)

// RawDocument is the normalized text of one source document.
// Text is whitespace-collapsed (used for field matching); Lines keeps
// line structure (used for segmentation).
type RawDocument struct {
	Source string `json:"source"`
	Text   string `json:"text"`
	Lines  string `json:"lines"`
}

// Section is one bucket of document lines.
type Section struct {
	Tag     constants.SectionTag `json:"tag"`
	Content string               `json:"content"`
	Lines   int                  `json:"lines"`
}

// SectionMap holds sections in order of first appearance. A tag appears at most once.
type SectionMap []Section

// Get returns the content stored under tag.
func (m SectionMap) Get(tag constants.SectionTag) (string, bool) {
	for _, s := range m {
		if s.Tag == tag {
			return s.Content, true
		}
	}
	return "", false
}

// Tags returns the tags present, in order.
func (m SectionMap) Tags() []constants.SectionTag {
	out := make([]constants.SectionTag, 0, len(m))
	for _, s := range m {
		out = append(out, s.Tag)
	}
	return out
}

// Concat joins the content of every section accepted by keep, in section order.
func (m SectionMap) Concat(keep func(constants.SectionTag) bool) string {
	var b strings.Builder
	for _, s := range m {
		if !keep(s.Tag) {
			continue
		}
		b.WriteString(s.Content)
		b.WriteByte('\n')
	}
	return b.String()
}
