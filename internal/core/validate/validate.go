// Package validate annotates extracted key fields with advisory diagnostics.
package validate

import (
	"fmt"
	"strings"

	"github.com/joseph-ayodele/tender-analyzer/constants"
	"github.com/joseph-ayodele/tender-analyzer/internal/core/catalog"
	"github.com/joseph-ayodele/tender-analyzer/internal/core/textnorm"
	"github.com/joseph-ayodele/tender-analyzer/internal/entity"
)

// Validate runs three independent checks and concatenates their findings in order:
// empty critical fields, date fields that do not parse, amount fields with no digit.
// It never fails; an empty report means nothing was flagged.
func Validate(cat *catalog.Catalog, fields entity.KeyFieldResult) entity.ValidationReport {
	report := entity.ValidationReport{}

	for _, name := range cat.Critical() {
		if strings.TrimSpace(fields[name]) == "" {
			report = append(report, entity.Diagnostic{
				Kind:    entity.DiagnosticMissingField,
				Field:   name,
				Message: fmt.Sprintf("Missing critical field: %s", name),
			})
		}
	}

	for _, f := range cat.Fields() {
		v := fields[f.Name]
		if f.Kind != catalog.KindDate || v == "" {
			continue
		}
		if _, ok := textnorm.ParseDate(v); !ok {
			report = append(report, entity.Diagnostic{
				Kind:    entity.DiagnosticInvalidDate,
				Field:   f.Name,
				Value:   v,
				Message: fmt.Sprintf("Invalid date format in %s: %s", f.Name, v),
			})
		}
	}

	for _, f := range cat.Fields() {
		v := fields[f.Name]
		if f.Kind != catalog.KindAmount || v == "" {
			continue
		}
		if !strings.ContainsAny(v, "0123456789") {
			report = append(report, entity.Diagnostic{
				Kind:    entity.DiagnosticInvalidAmount,
				Field:   f.Name,
				Value:   v,
				Message: fmt.Sprintf("Invalid amount format in %s: %s", f.Name, v),
			})
		}
	}
	return report
}

// Reports pairs every catalog field with its value and verdict, in catalog order.
// A field flagged for a malformed date or amount is Invalid, an empty one is
// Missing, anything else is OK.
func Reports(cat *catalog.Catalog, fields entity.KeyFieldResult, report entity.ValidationReport) []entity.FieldReport {
	out := make([]entity.FieldReport, 0, len(cat.Fields()))
	for _, f := range cat.Fields() {
		v := fields[f.Name]
		status := constants.FieldStatusOK
		switch {
		case report.Flags(f.Name, entity.DiagnosticInvalidDate), report.Flags(f.Name, entity.DiagnosticInvalidAmount):
			status = constants.FieldStatusInvalid
		case v == "":
			status = constants.FieldStatusMissing
		}
		out = append(out, entity.FieldReport{Name: f.Name, Value: v, Status: status})
	}
	return out
}
