package textnorm

import (
	"regexp"
	"strings"

	"github.com/joseph-ayodele/tender-analyzer/constants"
)

var reCurrency = regexp.MustCompile(`(?i)₹|\bRs\.?|\bINR`)

// NormalizeAmount trims and collapses whitespace, then prepends the canonical currency
// marker when none is present. The value stays a display string: scale words such as
// "Lakh" or "Crore" are kept for human review.
func NormalizeAmount(s string) string {
	s = strings.TrimSpace(reSpaceRun.ReplaceAllString(s, " "))
	if s == "" {
		return ""
	}
	if !reCurrency.MatchString(s) {
		s = constants.CurrencyMarker + " " + s
	}
	return s
}

// HasCurrency reports whether s carries a currency marker.
func HasCurrency(s string) bool { return reCurrency.MatchString(s) }
