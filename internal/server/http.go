package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/joseph-ayodele/tender-analyzer/internal/common"
	"github.com/joseph-ayodele/tender-analyzer/internal/entity"
	"github.com/joseph-ayodele/tender-analyzer/internal/export"
	"github.com/joseph-ayodele/tender-analyzer/internal/repository"
)

const defaultMaxUploadBytes = 32 << 20

// DocumentProcessor runs the analysis pipeline for uploaded and pasted documents.
type DocumentProcessor interface {
	ProcessFile(ctx context.Context, path string, force bool) (*entity.Analysis, error)
	ProcessText(ctx context.Context, source, text string) (*entity.Analysis, error)
}

// HealthChecker reports whether a dependency can serve requests.
type HealthChecker interface {
	HealthCheck(ctx context.Context, timeout time.Duration) error
}

// HTTPServer serves the REST surface of the analyzer.
type HTTPServer struct {
	proc           DocumentProcessor
	analyses       repository.AnalysisRepository
	reports        *export.Service
	health         HealthChecker
	boqColumns     []string
	maxUploadBytes int64
	logger         *slog.Logger
}

type HTTPOption func(*HTTPServer)

func WithMaxUploadBytes(n int64) HTTPOption {
	return func(s *HTTPServer) {
		if n > 0 {
			s.maxUploadBytes = n
		}
	}
}

func WithHealthChecker(h HealthChecker) HTTPOption {
	return func(s *HTTPServer) { s.health = h }
}

// WithBOQColumns sets the column order of the BOQ sheet in rendered workbooks.
func WithBOQColumns(cols []string) HTTPOption {
	return func(s *HTTPServer) { s.boqColumns = cols }
}

func NewHTTPServer(
	proc DocumentProcessor,
	analyses repository.AnalysisRepository,
	reports *export.Service,
	logger *slog.Logger,
	opts ...HTTPOption,
) *HTTPServer {
	if logger == nil {
		logger = slog.Default()
	}
	s := &HTTPServer{
		proc:           proc,
		analyses:       analyses,
		reports:        reports,
		maxUploadBytes: defaultMaxUploadBytes,
		logger:         logger,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Routes builds the chi router.
func (s *HTTPServer) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/health", s.handleHealth)
	r.Post("/extract-info/", s.handleExtractInfo)
	r.Post("/extract-info", s.handleExtractInfo)

	r.Route("/api/v1/analyses", func(r chi.Router) {
		r.Post("/", s.handleCreateAnalysis)
		r.Get("/", s.handleListAnalyses)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.handleGetAnalysis)
			r.Get("/report.xlsx", s.handleReportXLSX)
			r.Get("/report.json", s.handleReportJSON)
		})
	})
	return r
}

// requestLogger carries chi's request ID into the context and logs each request.
func (s *HTTPServer) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		reqID := middleware.GetReqID(r.Context())
		if reqID != "" {
			r = r.WithContext(common.WithRequestID(r.Context(), reqID))
		}
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		s.logger.Info("http.request",
			"request_id", reqID,
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
	})
}

func (s *HTTPServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.health != nil {
		if err := s.health.HealthCheck(r.Context(), 2*time.Second); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// HTTPStatus maps an application error onto a response status.
func HTTPStatus(err error) int {
	var maxErr *http.MaxBytesError
	switch {
	case errors.As(err, &maxErr), errors.Is(err, common.ErrFileTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, common.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, common.ErrNoText):
		return http.StatusUnprocessableEntity
	case common.IsClientError(err):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func (s *HTTPServer) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := HTTPStatus(err)
	msg := err.Error()
	log := common.LoggerFrom(r.Context(), s.logger)
	if status >= http.StatusInternalServerError {
		log.Error("http.failed", "path", r.URL.Path, "err", err)
		msg = http.StatusText(status)
	} else {
		log.Warn("http.rejected", "path", r.URL.Path, "status", status, "err", err)
	}
	writeJSON(w, status, map[string]string{"error": msg})
}
