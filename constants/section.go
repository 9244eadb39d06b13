package constants

import "strings"

// SectionTag is a label from the closed section catalog.
type SectionTag string

const (
	SectionGeneralInformation SectionTag = "general_information"
	SectionBidSummary         SectionTag = "bid_summary"
	SectionImportantDates     SectionTag = "important_dates"
	SectionEligibility        SectionTag = "eligibility"
	SectionTechnicalSpecs     SectionTag = "technical_specifications"
	SectionFinancial          SectionTag = "financial"
	SectionSubmission         SectionTag = "submission"
	SectionEvaluation         SectionTag = "evaluation"
	SectionPreferencePolicy   SectionTag = "preference_policy"
	SectionDeliverySchedule   SectionTag = "delivery_schedule"
)

// Title renders a tag for humans: "technical_specifications" -> "Technical Specifications".
func (t SectionTag) Title() string {
	words := strings.Split(string(t), "_")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// IsTechnical reports whether the tag names a technical/specification section,
// i.e. one whose lines feed the BOQ extractor.
func (t SectionTag) IsTechnical() bool {
	s := strings.ToLower(string(t))
	return strings.Contains(s, "technical") || strings.Contains(s, "specification")
}
