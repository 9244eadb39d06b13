// Package segment partitions line-preserving normalized text into tagged sections.
package segment

import (
	"strings"

	"github.com/joseph-ayodele/tender-analyzer/constants"
	"github.com/joseph-ayodele/tender-analyzer/internal/core/catalog"
	"github.com/joseph-ayodele/tender-analyzer/internal/entity"
)

// Boundary marks a line that opens a section.
type Boundary struct {
	Line int
	Tag  constants.SectionTag
}

// Boundaries returns every line matching a section trigger. When a line matches more
// than one trigger the first one in catalog order wins.
func Boundaries(cat *catalog.Catalog, lines []string) []Boundary {
	var out []Boundary
	triggers := cat.Sections()
	for i, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		for _, t := range triggers {
			if t.Pattern.MatchString(line) {
				out = append(out, Boundary{Line: i, Tag: t.Tag})
				break
			}
		}
	}
	return out
}

// Segment assigns every non-blank line to the most recent section trigger seen at or
// before it. Lines ahead of the first trigger go to general_information; text with no
// trigger at all yields that single section.
func Segment(cat *catalog.Catalog, text string) entity.SectionMap {
	lines := strings.Split(text, "\n")
	bounds := Boundaries(cat, lines)

	var (
		order   []constants.SectionTag
		buffers = make(map[constants.SectionTag]*strings.Builder)
		counts  = make(map[constants.SectionTag]int)
		current = constants.SectionGeneralInformation
		next    int
	)
	for i, line := range lines {
		if next < len(bounds) && bounds[next].Line == i {
			current = bounds[next].Tag
			next++
		}
		if strings.TrimSpace(line) == "" {
			continue
		}
		b, ok := buffers[current]
		if !ok {
			b = &strings.Builder{}
			buffers[current] = b
			order = append(order, current)
		}
		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)
		counts[current]++
	}

	out := make(entity.SectionMap, 0, len(order))
	for _, tag := range order {
		out = append(out, entity.Section{Tag: tag, Content: buffers[tag].String(), Lines: counts[tag]})
	}
	return out
}
