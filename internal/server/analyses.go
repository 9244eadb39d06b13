package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/joseph-ayodele/tender-analyzer/internal/common"
	"github.com/joseph-ayodele/tender-analyzer/internal/entity"
)

const maxTextBytes = 8 << 20

// AnalyzeTextRequest is the body for POST /api/v1/analyses.
type AnalyzeTextRequest struct {
	Source string `json:"source"`
	Text   string `json:"text"`
}

func (req AnalyzeTextRequest) validate() error {
	v := common.NewValidator().
		Field("text", req.Text, common.Required, common.ValidUTF8, common.MaxLength(maxTextBytes)).
		Field("source", req.Source, common.ValidUTF8, common.MaxLength(255))
	return v.Error()
}

// AnalysisSummary is one entry of GET /api/v1/analyses.
type AnalysisSummary struct {
	ID          uuid.UUID `json:"id"`
	Source      string    `json:"source"`
	Format      string    `json:"format"`
	Status      string    `json:"status"`
	Diagnostics int       `json:"diagnostics"`
	StartedAt   string    `json:"started_at"`
}

// handleCreateAnalysis analyzes text supplied in the request body.
// POST /api/v1/analyses
func (s *HTTPServer) handleCreateAnalysis(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxTextBytes+4096)
	var req AnalyzeTextRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, r, fmt.Errorf("decode request body: %v: %w", err, common.ErrInvalidInput))
		return
	}
	if err := req.validate(); err != nil {
		s.writeError(w, r, err)
		return
	}
	if req.Source == "" {
		req.Source = "text"
	}

	a, err := s.proc.ProcessText(r.Context(), req.Source, req.Text)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	status := http.StatusCreated
	if a.Reused {
		status = http.StatusOK
	}
	writeJSON(w, status, a)
}

// handleListAnalyses returns recent runs without their results.
// GET /api/v1/analyses?limit=N
func (s *HTTPServer) handleListAnalyses(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			s.writeError(w, r, fmt.Errorf("limit must be a non-negative integer: %w", common.ErrInvalidInput))
			return
		}
		limit = n
	}

	rows, err := s.analyses.List(r.Context(), limit)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	out := make([]AnalysisSummary, 0, len(rows))
	for _, a := range rows {
		out = append(out, AnalysisSummary{
			ID:          a.ID,
			Source:      a.Source,
			Format:      a.Format,
			Status:      a.Status,
			Diagnostics: a.Diagnostics,
			StartedAt:   a.StartedAt.UTC().Format(time.RFC3339),
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"analyses": out})
}

// GET /api/v1/analyses/{id}
func (s *HTTPServer) handleGetAnalysis(w http.ResponseWriter, r *http.Request) {
	a, err := s.loadAnalysis(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, a)
}

func (s *HTTPServer) loadAnalysis(r *http.Request) (*entity.Analysis, error) {
	raw := chi.URLParam(r, "id")
	if err := common.NewValidator().Field("id", raw, common.UUID).Error(); err != nil {
		return nil, err
	}
	return s.analyses.GetByID(r.Context(), uuid.MustParse(raw))
}
