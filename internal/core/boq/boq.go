// Package boq pulls bill-of-quantities rows out of technical sections with a small
// line-driven accumulator.
package boq

import (
	"strings"

	"github.com/joseph-ayodele/tender-analyzer/constants"
	"github.com/joseph-ayodele/tender-analyzer/internal/core/catalog"
	"github.com/joseph-ayodele/tender-analyzer/internal/entity"
)

// FromSections runs Extract over the concatenation of every technical or
// specification section.
func FromSections(cat *catalog.Catalog, sections entity.SectionMap) []entity.BOQItem {
	return Extract(cat, sections.Concat(constants.SectionTag.IsTechnical))
}

// Extract scans text line by line. A row-trigger line closes the buffered row, which
// is emitted only when it holds at least MinColumns values and dropped otherwise.
// Every line, trigger lines included, then writes each matching column into the
// buffer; a later match for a column overwrites the earlier one. The buffer is
// flushed under the same rule at end of input.
func Extract(cat *catalog.Catalog, text string) []entity.BOQItem {
	spec := cat.BOQ()
	items := make([]entity.BOQItem, 0)
	if spec.Trigger == nil {
		return items
	}

	row := entity.BOQItem{}
	flush := func() {
		if row.Populated() >= spec.MinColumns {
			items = append(items, row)
		}
		row = entity.BOQItem{}
	}

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if spec.Trigger.MatchString(line) {
			flush()
		}
		for _, col := range spec.Columns {
			loc := col.Pattern.FindStringSubmatchIndex(line)
			if loc == nil {
				continue
			}
			if v := col.Kind.Clean(catalog.LastGroup(line, loc)); v != "" {
				row[col.Name] = v
			}
		}
	}
	flush()
	return items
}
