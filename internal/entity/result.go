package entity

import (
	"github.com/joseph-ayodele/tender-analyzer/constants"
)

// KeyFieldResult maps every catalog field name to its value ("" when not found).
type KeyFieldResult map[string]string

// FieldReport is a key field with its validation verdict.
type FieldReport struct {
	Name   string                `json:"name"`
	Value  string                `json:"value"`
	Status constants.FieldStatus `json:"status"`
}

// DateEvent is one entry of the tender timeline.
type DateEvent struct {
	Event    string `json:"event"`
	Date     string `json:"date"`     // dd/mm/yyyy, or the original text when unparsed
	Original string `json:"original"` // matched substring, kept for audit
}

// BOQItem is one bill-of-quantities row keyed by column name.
type BOQItem map[string]string

// Populated counts the columns holding a non-empty value.
func (it BOQItem) Populated() int {
	n := 0
	for _, v := range it {
		if v != "" {
			n++
		}
	}
	return n
}

type DiagnosticKind string

const (
	DiagnosticMissingField  DiagnosticKind = "missing_field"
	DiagnosticInvalidDate   DiagnosticKind = "invalid_date"
	DiagnosticInvalidAmount DiagnosticKind = "invalid_amount"
)

// Diagnostic is one advisory validation finding.
type Diagnostic struct {
	Kind    DiagnosticKind `json:"kind"`
	Field   string         `json:"field"`
	Value   string         `json:"value,omitempty"`
	Message string         `json:"message"`
}

func (d Diagnostic) String() string { return d.Message }

// ValidationReport is the ordered list of diagnostics for one document.
type ValidationReport []Diagnostic

// Messages returns the diagnostic strings in order.
func (r ValidationReport) Messages() []string {
	out := make([]string, 0, len(r))
	for _, d := range r {
		out = append(out, d.Message)
	}
	return out
}

// Count returns how many diagnostics have the given kind.
func (r ValidationReport) Count(kind DiagnosticKind) int {
	n := 0
	for _, d := range r {
		if d.Kind == kind {
			n++
		}
	}
	return n
}

// Flags reports whether a diagnostic of kind names field.
func (r ValidationReport) Flags(field string, kind DiagnosticKind) bool {
	for _, d := range r {
		if d.Field == field && d.Kind == kind {
			return true
		}
	}
	return false
}

// SectionSummary is the extractive summary of one section.
type SectionSummary struct {
	Tag       constants.SectionTag `json:"tag"`
	Title     string               `json:"title"`
	CharCount int                  `json:"char_count"`
	WordCount int                  `json:"word_count"`
	Summary   string               `json:"summary"`
}

// StructuredResult is the aggregate produced for one document.
type StructuredResult struct {
	Document   RawDocument      `json:"document"`
	Sections   SectionMap       `json:"sections"`
	KeyFields  KeyFieldResult   `json:"key_fields"`
	Fields     []FieldReport    `json:"fields"`
	Dates      []DateEvent      `json:"dates"`
	BOQItems   []BOQItem        `json:"boq_items"`
	Validation ValidationReport `json:"validation"`
	Summaries  []SectionSummary `json:"summaries"`
}
