package catalog

import (
	"strings"
	"unicode/utf8"

	"github.com/joseph-ayodele/tender-analyzer/internal/core/textnorm"
)

// MaxFreeTextLen caps firstline values, which are captured lazily up to the next
// label and can otherwise run on through a whole paragraph.
const MaxFreeTextLen = 150

// Clean applies the kind's post-processing to a captured value.
func (k Kind) Clean(v string) string {
	switch k {
	case KindAmount:
		return textnorm.NormalizeAmount(v)
	case KindDate:
		return textnorm.NormalizeDate(v)
	case KindFirstLine:
		return firstLine(v)
	default:
		return strings.TrimSpace(v)
	}
}

func firstLine(v string) string {
	if i := strings.IndexByte(v, '\n'); i >= 0 {
		v = v[:i]
	}
	v = strings.Join(strings.Fields(v), " ")
	v = strings.Trim(v, " ,;:-")
	if utf8.RuneCountInString(v) <= MaxFreeTextLen {
		return v
	}
	runes := []rune(v)[:MaxFreeTextLen]
	cut := string(runes)
	if i := strings.LastIndexByte(cut, ' '); i > 0 {
		cut = cut[:i]
	}
	return strings.TrimRight(cut, " ,;:-")
}
