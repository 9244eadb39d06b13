// Package dates extracts the tender timeline from whitespace-collapsed text.
package dates

import (
	"strings"

	"github.com/joseph-ayodele/tender-analyzer/internal/core/catalog"
	"github.com/joseph-ayodele/tender-analyzer/internal/core/textnorm"
	"github.com/joseph-ayodele/tender-analyzer/internal/entity"
)

// Extract returns at most one event per catalog entry, in catalog order. Patterns of
// an event are tried in order and the first match in the text wins; later mentions
// of the same event are ignored.
func Extract(cat *catalog.Catalog, text string) []entity.DateEvent {
	events := cat.Events()
	out := make([]entity.DateEvent, 0, len(events))
	for _, ev := range events {
		if e, ok := firstMatch(ev, text); ok {
			out = append(out, e)
		}
	}
	return out
}

func firstMatch(ev catalog.EventPatterns, text string) (entity.DateEvent, bool) {
	for _, re := range ev.Patterns {
		loc := re.FindStringSubmatchIndex(text)
		if loc == nil {
			continue
		}
		original := strings.TrimSpace(catalog.LastGroup(text, loc))
		if original == "" {
			continue
		}
		return entity.DateEvent{
			Event:    ev.Event,
			Date:     textnorm.NormalizeDate(original),
			Original: original,
		}, true
	}
	return entity.DateEvent{}, false
}
