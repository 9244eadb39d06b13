package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/tender-analyzer/constants"
	"github.com/joseph-ayodele/tender-analyzer/internal/core/catalog"
	"github.com/joseph-ayodele/tender-analyzer/internal/entity"
)

func complete() entity.KeyFieldResult {
	out := entity.KeyFieldResult{}
	for _, name := range catalog.Default().FieldNames() {
		out[name] = ""
	}
	out[constants.FieldTenderID] = "GEM/2024/B/1"
	out[constants.FieldOrganization] = "Ministry of Defence"
	out[constants.FieldBidEndDate] = "15/03/2025"
	return out
}

func TestValidateMissingCritical(t *testing.T) {
	fields := complete()
	fields[constants.FieldTenderID] = ""

	report := Validate(catalog.Default(), fields)
	require.Len(t, report, 1)
	assert.Equal(t, entity.DiagnosticMissingField, report[0].Kind)
	assert.Equal(t, constants.FieldTenderID, report[0].Field)
	assert.Equal(t, "Missing critical field: Tender ID", report[0].Message)
}

func TestValidateCleanRecord(t *testing.T) {
	report := Validate(catalog.Default(), complete())
	assert.Zero(t, report.Count(entity.DiagnosticMissingField))
	assert.Empty(t, report)
}

func TestValidateOrder(t *testing.T) {
	fields := complete()
	fields[constants.FieldOrganization] = ""
	fields[constants.FieldPreBidDate] = "TBD"
	fields[constants.FieldEMDAmount] = "₹ Nil"

	report := Validate(catalog.Default(), fields)
	assert.Equal(t, []string{
		"Missing critical field: Organization",
		"Invalid date format in Pre-Bid Date: TBD",
		"Invalid amount format in EMD Amount: ₹ Nil",
	}, report.Messages())
}

func TestValidateMissingKeysCountAsEmpty(t *testing.T) {
	report := Validate(catalog.Default(), entity.KeyFieldResult{})
	assert.Equal(t, 3, report.Count(entity.DiagnosticMissingField))
}

func TestReports(t *testing.T) {
	fields := complete()
	fields[constants.FieldEMDAmount] = "₹ Nil"
	report := Validate(catalog.Default(), fields)

	reports := Reports(catalog.Default(), fields, report)
	require.Len(t, reports, len(catalog.Default().Fields()))

	byName := map[string]entity.FieldReport{}
	for _, r := range reports {
		byName[r.Name] = r
	}
	assert.Equal(t, constants.FieldStatusOK, byName[constants.FieldTenderID].Status)
	assert.Equal(t, constants.FieldStatusMissing, byName[constants.FieldPhone].Status)
	assert.Equal(t, constants.FieldStatusInvalid, byName[constants.FieldEMDAmount].Status)
	assert.Equal(t, constants.FieldTenderID, reports[0].Name)
}
