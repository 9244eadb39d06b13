package export

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/joseph-ayodele/tender-analyzer/constants"
	"github.com/joseph-ayodele/tender-analyzer/internal/core"
	"github.com/joseph-ayodele/tender-analyzer/internal/entity"
)

const sampleTender = `Bid Number: GEM/2024/B/4471920
Ministry: Ministry of Defence

IMPORTANT DATES
Bid End Date: 25-12-2024 11:00 AM

Technical Specifications
S.No. 1
Item Category: Laptop
Quantity: 25 units
S.No. 2
Item Category: Printer
Quantity: 5 units`

func analyze(t *testing.T, text string) *entity.StructuredResult {
	t.Helper()
	return core.NewAnalyzer(nil).Analyze("tender.pdf", text)
}

func openWorkbook(t *testing.T, b []byte) *excelize.File {
	t.Helper()
	f, err := excelize.OpenReader(bytes.NewReader(b))
	require.NoError(t, err)
	t.Cleanup(func() { _ = f.Close() })
	return f
}

func TestRenderXLSXSheets(t *testing.T) {
	res := analyze(t, sampleTender)
	processed := time.Date(2024, 12, 1, 10, 30, 0, 0, time.UTC)

	b, err := NewService(nil).RenderXLSX(res, Meta{ProcessedAt: processed})
	require.NoError(t, err)
	f := openWorkbook(t, b)

	assert.Equal(t, []string{SheetKeyFields, SheetOverview, SheetDates, SheetBOQ, SheetSections, SheetFullText}, f.GetSheetList())

	rows, err := f.GetRows(SheetKeyFields)
	require.NoError(t, err)
	assert.Equal(t, []string{"Field", "Value", "Status"}, rows[0])
	assert.Equal(t, []string{constants.FieldTenderID, "GEM/2024/B/4471920", "OK"}, rows[1])
	var tenderValue []string
	for _, r := range rows {
		if len(r) > 0 && r[0] == constants.FieldTenderValue {
			tenderValue = r
		}
	}
	assert.Equal(t, []string{constants.FieldTenderValue, "Not Found", "Missing"}, tenderValue)

	overview, err := f.GetRows(SheetOverview)
	require.NoError(t, err)
	assert.Equal(t, []string{"Source File", "tender.pdf"}, overview[1])
	assert.Equal(t, []string{"Processing Date", "2024-12-01 10:30:00"}, overview[4])
	assert.Equal(t, []string{"Validation Status", "All OK"}, overview[5])
	assert.Equal(t, "Section Analysis", overview[7][0])
	assert.Equal(t, []string{"Section", "Character Count", "Summary"}, overview[8])

	dates, err := f.GetRows(SheetDates)
	require.NoError(t, err)
	assert.Equal(t, []string{constants.EventBidEndDate, "25/12/2024", "25-12-2024 11:00 AM"}, dates[1])

	boq, err := f.GetRows(SheetBOQ)
	require.NoError(t, err)
	assert.Equal(t, []string{constants.ColumnItemCategory, constants.ColumnQuantity}, boq[0])
	assert.Equal(t, []string{"Laptop", "25 units"}, boq[1])
	assert.Equal(t, []string{"Printer", "5 units"}, boq[2])

	full, err := f.GetCellValue(SheetFullText, "A2")
	require.NoError(t, err)
	assert.Contains(t, full, "Item Category: Laptop")
}

func TestRenderXLSXValidationIssues(t *testing.T) {
	res := analyze(t, "Nothing useful here at all.")
	b, err := NewService(nil).RenderXLSX(res, Meta{})
	require.NoError(t, err)
	f := openWorkbook(t, b)

	assert.NotContains(t, f.GetSheetList(), SheetDates)
	assert.NotContains(t, f.GetSheetList(), SheetBOQ)

	rows, err := f.GetRows(SheetKeyFields)
	require.NoError(t, err)
	header := 1 + len(res.Fields) + 2
	require.Greater(t, len(rows), header)
	assert.Equal(t, "Validation Issues", rows[header][0])
	assert.Equal(t, "Missing critical field: "+constants.FieldTenderID, rows[header+1][0])

	overview, err := f.GetRows(SheetOverview)
	require.NoError(t, err)
	assert.Equal(t, "3 issues found", overview[5][1])
}

func TestBOQColumns(t *testing.T) {
	items := []entity.BOQItem{
		{constants.ColumnQuantity: "2", "Make": "Acme", constants.ColumnRate: ""},
		{constants.ColumnItemCategory: "Desk"},
	}
	assert.Equal(t,
		[]string{constants.ColumnItemCategory, constants.ColumnQuantity, "Make"},
		BOQColumns(items, constants.BOQColumns))
}

func TestSectionContentAndChunks(t *testing.T) {
	assert.Equal(t, "short", SectionContent("short"))
	long := strings.Repeat("क", maxSectionLen+10)
	got := SectionContent(long)
	assert.True(t, strings.HasSuffix(got, "..."))
	assert.Equal(t, maxSectionLen+3, len([]rune(got)))

	chunks := chunkLines("aaaa\nbb\ncccccccc\n", 5)
	assert.Equal(t, []string{"aaaa\n", "bb\n", "ccccc", "ccc\n"}, chunks)
	assert.Nil(t, chunkLines("", 5))
}

func TestRenderJSON(t *testing.T) {
	res := analyze(t, sampleTender)
	svc := NewService(nil)

	b, err := svc.RenderJSON(res, Meta{})
	require.NoError(t, err)

	var got Report
	require.NoError(t, json.Unmarshal(b, &got))
	assert.Equal(t, "tender.pdf", got.Source)
	assert.Equal(t, "All OK", got.ValidationStatus)
	assert.Len(t, got.BOQItems, 2)
	assert.Equal(t, "GEM/2024/B/4471920", got.KeyFields[constants.FieldTenderID])
}

func TestRenderJSONEmptyCollections(t *testing.T) {
	b, err := NewService(nil).RenderJSON(&entity.StructuredResult{}, Meta{Source: "blank.txt"})
	require.NoError(t, err)
	assert.Contains(t, string(b), `"boq_items": []`)
	assert.Contains(t, string(b), `"key_fields": {}`)
}

func TestRenderAnalysisJSON(t *testing.T) {
	finished := time.Now()
	a := &entity.Analysis{ID: uuid.New(), Source: "bid.pdf", FinishedAt: &finished, Result: analyze(t, sampleTender)}
	b, err := NewService(nil).RenderAnalysisJSON(a)
	require.NoError(t, err)
	assert.Contains(t, string(b), a.ID.String())

	_, err = NewService(nil).RenderAnalysisJSON(&entity.Analysis{})
	assert.Error(t, err)
}

func TestValidateReportRejectsBadDocuments(t *testing.T) {
	assert.Error(t, ValidateReport([]byte(`{"source": "x"}`)))
	assert.Error(t, ValidateReport([]byte(`not json`)))

	b, err := json.Marshal(NewReport(&entity.StructuredResult{}, Meta{}))
	require.NoError(t, err)
	var doc map[string]any
	require.NoError(t, json.Unmarshal(b, &doc))
	doc["fields"] = []any{map[string]any{"name": "Tender ID", "value": "", "status": "Unknown"}}
	bad, err := json.Marshal(doc)
	require.NoError(t, err)
	assert.Error(t, ValidateReport(bad))
}
