package export

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/tender-analyzer/internal/common"
	"github.com/joseph-ayodele/tender-analyzer/internal/entity"
)

func TestReportName(t *testing.T) {
	assert.Equal(t, "bid_structured.xlsx", ReportName("bid.pdf", FormatXLSX))
	assert.Equal(t, "bid.v2_structured.json", ReportName("/tmp/bid.v2.txt", "JSON"))
	assert.Equal(t, "report_structured.xlsx", ReportName("", FormatXLSX))
}

func TestRenderDispatch(t *testing.T) {
	svc := NewService(nil)
	res := &entity.StructuredResult{}

	b, err := svc.Render(res, Meta{Source: "a.txt"}, FormatJSON)
	require.NoError(t, err)
	assert.Equal(t, byte('{'), b[0])

	b, err = svc.Render(res, Meta{Source: "a.txt"}, "XLSX")
	require.NoError(t, err)
	assert.Equal(t, []byte("PK"), b[:2])

	_, err = svc.Render(res, Meta{}, "csv")
	assert.ErrorIs(t, err, common.ErrInvalidInput)
}

func TestWriteReport(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "reports")
	path, err := WriteReport(dir, "bid_structured.json", []byte(`{}`))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "bid_structured.json"), path)

	_, err = WriteReport(dir, "bid_structured.json", []byte(`{"v":2}`))
	require.NoError(t, err)
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, `{"v":2}`, string(b))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temp files left behind")
}
