package server

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/joseph-ayodele/tender-analyzer/internal/common"
	"github.com/joseph-ayodele/tender-analyzer/internal/entity"
	"github.com/joseph-ayodele/tender-analyzer/internal/export"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// handleExtractInfo analyzes an uploaded document and answers with its workbook.
// POST /extract-info/ (multipart field "file")
func (s *HTTPServer) handleExtractInfo(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadBytes)
	if err := r.ParseMultipartForm(8 << 20); err != nil {
		if HTTPStatus(err) != http.StatusRequestEntityTooLarge {
			err = fmt.Errorf("parse multipart form: %v: %w", err, common.ErrInvalidInput)
		}
		s.writeError(w, r, err)
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	file, header, err := r.FormFile("file")
	if err != nil {
		s.writeError(w, r, fmt.Errorf("file: %v: %w", err, common.ErrInvalidInput))
		return
	}
	defer file.Close()

	name := filepath.Base(header.Filename)
	if err := common.NewValidator().Field("file", name, common.Required, common.DocumentFile).Error(); err != nil {
		s.writeError(w, r, err)
		return
	}

	dir, err := os.MkdirTemp("", "tender-upload-*")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, name)
	if err := saveUpload(path, file); err != nil {
		s.writeError(w, r, err)
		return
	}

	a, err := s.proc.ProcessFile(r.Context(), path, false)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeXLSX(w, r, a, name)
}

func saveUpload(path string, src io.Reader) error {
	dst, err := os.Create(path)
	if err != nil {
		return err
	}
	if _, err := io.Copy(dst, src); err != nil {
		_ = dst.Close()
		return fmt.Errorf("save upload: %w", err)
	}
	return dst.Close()
}

// GET /api/v1/analyses/{id}/report.xlsx
func (s *HTTPServer) handleReportXLSX(w http.ResponseWriter, r *http.Request) {
	a, err := s.loadAnalysis(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeXLSX(w, r, a, a.Source)
}

// GET /api/v1/analyses/{id}/report.json
func (s *HTTPServer) handleReportJSON(w http.ResponseWriter, r *http.Request) {
	a, err := s.loadAnalysis(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if a.Result == nil {
		s.writeError(w, r, fmt.Errorf("analysis %s has no result: %w", a.ID, common.ErrNotFound))
		return
	}
	b, err := s.reports.RenderAnalysisJSON(a)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(b)
}

func (s *HTTPServer) writeXLSX(w http.ResponseWriter, r *http.Request, a *entity.Analysis, source string) {
	if a.Result == nil {
		s.writeError(w, r, fmt.Errorf("analysis %s has no result: %w", a.ID, common.ErrNotFound))
		return
	}
	b, err := s.reports.RenderXLSX(a.Result, export.Meta{Source: source, BOQColumns: s.boqColumns})
	if err != nil {
		common.LoggerFrom(r.Context(), s.logger).Error("export.xlsx.failed", "analysis_id", a.ID, "err", err)
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename=%q`, export.ReportName(source, export.FormatXLSX)))
	_, _ = w.Write(b)
}
