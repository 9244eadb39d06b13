package textnorm

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// DateLayout is the canonical output form of NormalizeDate.
const DateLayout = "02/01/2006"

var (
	reNumericDate = regexp.MustCompile(`^(\d{1,2})[-/.](\d{1,2})[-/.](\d{2,4})\b`)
	reTimeOfDay   = regexp.MustCompile(`(?i)[\s,]*(?:at\s+)?\d{1,2}[:.]\d{2}(?:[:.]\d{2})?(?:\s*[ap]\.?\s?m\.?)?.*$`)
	reOrdinal     = regexp.MustCompile(`(?i)\b(\d{1,2})(?:st|nd|rd|th)\b`)
	reDateSep     = regexp.MustCompile(`\s*,\s*|\s+`)
)

// month-name layouts tried after the time of day has been cut off
var nameLayouts = []string{
	"2 January 2006",
	"2 Jan 2006",
	"January 2 2006",
	"Jan 2 2006",
	"2-January-2006",
	"2-Jan-2006",
	"2-Jan-06",
	"2/Jan/2006",
	"2.Jan.2006",
	"Jan-2-2006",
	"2006-01-02",
	"2006/01/02",
}

// ParseDate is a best-effort parse of a tender date. Day-first numeric forms
// (dd-mm-yyyy, dd/mm/yy, dd.mm.yyyy) win; then month-name forms; then a free-form
// fallback. Any time of day is ignored.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}

	if m := reNumericDate.FindStringSubmatch(s); m != nil {
		if t, ok := dayFirst(m[1], m[2], m[3]); ok {
			return t, true
		}
	}

	cleaned := reTimeOfDay.ReplaceAllString(s, "")
	cleaned = reOrdinal.ReplaceAllString(cleaned, "$1")
	cleaned = strings.Trim(reDateSep.ReplaceAllString(cleaned, " "), " .,")
	if cleaned != "" {
		for _, layout := range nameLayouts {
			if t, err := time.Parse(layout, cleaned); err == nil {
				return t, true
			}
		}
	}

	if t, err := dateparse.ParseAny(s); err == nil {
		return t, true
	}
	return time.Time{}, false
}

// NormalizeDate renders a parseable date as dd/mm/yyyy. Unparseable input comes back
// trimmed but otherwise unchanged; flagging it is the validator's job.
func NormalizeDate(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	if t, ok := ParseDate(s); ok {
		return t.Format(DateLayout)
	}
	return s
}

func dayFirst(ds, ms, ys string) (time.Time, bool) {
	d, _ := strconv.Atoi(ds)
	m, _ := strconv.Atoi(ms)
	y, _ := strconv.Atoi(ys)
	switch len(ys) {
	case 2:
		y += 2000
	case 4:
	default:
		return time.Time{}, false
	}
	t := time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
	if t.Day() != d || int(t.Month()) != m || t.Year() != y {
		return time.Time{}, false
	}
	return t, true
}
