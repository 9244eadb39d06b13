package export

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joseph-ayodele/tender-analyzer/internal/common"
	"github.com/joseph-ayodele/tender-analyzer/internal/entity"
)

const (
	FormatXLSX = "xlsx"
	FormatJSON = "json"
)

// Formats lists the report formats Render accepts.
var Formats = []string{FormatXLSX, FormatJSON}

// Render dispatches to the renderer for format.
func (s *Service) Render(res *entity.StructuredResult, meta Meta, format string) ([]byte, error) {
	switch strings.ToLower(format) {
	case FormatXLSX:
		return s.RenderXLSX(res, meta)
	case FormatJSON:
		return s.RenderJSON(res, meta)
	default:
		return nil, fmt.Errorf("report format %q: %w", format, common.ErrInvalidInput)
	}
}

// ReportName returns the report file name for a source document: bid.pdf -> bid_structured.xlsx.
func ReportName(source, format string) string {
	base := filepath.Base(source)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	if stem == "" || stem == "." || stem == string(filepath.Separator) {
		stem = "report"
	}
	return stem + "_structured." + strings.ToLower(format)
}

// WriteReport writes b to dir/name through a temporary file so readers never see a
// partial report. It returns the final path.
func WriteReport(dir, name string, b []byte) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create report dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, "."+name+".*")
	if err != nil {
		return "", fmt.Errorf("create temp report: %w", err)
	}
	if _, err := tmp.Write(b); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return "", fmt.Errorf("write report: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return "", fmt.Errorf("close report: %w", err)
	}
	dst := filepath.Join(dir, name)
	if err := os.Rename(tmp.Name(), dst); err != nil {
		_ = os.Remove(tmp.Name())
		return "", fmt.Errorf("rename report: %w", err)
	}
	return dst, nil
}
