// Package textextract turns source documents into raw text for the analyzer.
package textextract

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joseph-ayodele/tender-analyzer/constants"
	"github.com/joseph-ayodele/tender-analyzer/internal/common"
)

const (
	MethodPlainText = "plain-text"
	MethodPdftotext = "pdftotext"
	MethodPDFReader = "pdf-reader"
)

type Config struct {
	Pdftotext       string // binary name or absolute path; if empty -> "pdftotext"
	MaxFileSize     int64  // 0 = no limit
	DisableFallback bool   // skip the pure-Go reader when pdftotext fails
}

type Result struct {
	Text     string
	Pages    int
	Format   string // constants.PDF | constants.TEXT
	Method   string
	Duration time.Duration
	Warnings []string
}

// TextExtractor is what the processor needs from this package.
type TextExtractor interface {
	Extract(ctx context.Context, path string) (Result, error)
}

type Extractor struct {
	cfg       Config
	runner    Runner
	pdfReader func(path string) (string, int, error)
	logger    *slog.Logger
}

func NewExtractor(cfg Config, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Pdftotext == "" {
		cfg.Pdftotext = "pdftotext"
	}
	return &Extractor{cfg: cfg, runner: execRunner{logger: logger}, pdfReader: readPDF, logger: logger}
}

// Extract picks a strategy based on file extension.
func (e *Extractor) Extract(ctx context.Context, path string) (Result, error) {
	start := time.Now()
	ext := constants.NormalizeExt(filepath.Ext(path))
	format := constants.MapExtToFormat(ext)
	if format == "" {
		e.logger.Warn("textextract.unsupported", "path", path, "ext", ext)
		return Result{}, fmt.Errorf("%w: %q", common.ErrUnsupportedFormat, ext)
	}

	info, err := os.Stat(path)
	if err != nil {
		return Result{Format: format}, fmt.Errorf("stat %s: %w", path, err)
	}
	if e.cfg.MaxFileSize > 0 && info.Size() > e.cfg.MaxFileSize {
		return Result{Format: format}, fmt.Errorf("%w: %d bytes exceeds %d", common.ErrFileTooLarge, info.Size(), e.cfg.MaxFileSize)
	}

	var res Result
	switch format {
	case constants.TEXT:
		res, err = e.extractPlain(path)
	case constants.PDF:
		res, err = e.extractPDF(ctx, path)
	}
	res.Format = format
	res.Duration = time.Since(start)
	if err != nil {
		return res, err
	}
	res.Text = Clean(res.Text)
	if strings.TrimSpace(res.Text) == "" {
		return res, fmt.Errorf("%s: %w", filepath.Base(path), common.ErrNoText)
	}
	e.logger.Debug("textextract.ok",
		"path", path,
		"method", res.Method,
		"pages", res.Pages,
		"chars", len(res.Text),
		"duration_ms", res.Duration.Milliseconds(),
	)
	return res, nil
}

func (e *Extractor) extractPlain(path string) (Result, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Result{}, fmt.Errorf("read %s: %w", path, err)
	}
	text := strings.ToValidUTF8(string(b), " ")
	return Result{Text: text, Pages: 1 + strings.Count(text, "\f"), Method: MethodPlainText}, nil
}

func (e *Extractor) extractPDF(ctx context.Context, path string) (Result, error) {
	text, pages, warns, err := e.pdfToText(ctx, path)
	if err == nil && strings.TrimSpace(text) != "" {
		return Result{Text: text, Pages: pages, Method: MethodPdftotext, Warnings: warns}, nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return Result{Warnings: warns}, ctxErr
	}
	if err != nil {
		warns = append(warns, fmt.Sprintf("pdftotext failed: %v", err))
	} else {
		warns = append(warns, "pdftotext produced no text")
	}
	if e.cfg.DisableFallback {
		if err == nil {
			err = common.ErrNoText
		}
		return Result{Warnings: warns}, fmt.Errorf("pdftotext %s: %w", filepath.Base(path), err)
	}

	e.logger.Info("textextract.pdf.fallback", "path", path, "reason", warns[len(warns)-1])
	text, pages, err = e.pdfReader(path)
	if err != nil {
		return Result{Warnings: warns}, fmt.Errorf("read pdf %s: %w", filepath.Base(path), err)
	}
	return Result{Text: text, Pages: pages, Method: MethodPDFReader, Warnings: warns}, nil
}

func (e *Extractor) pdfToText(ctx context.Context, path string) (text string, pages int, warnings []string, err error) {
	// pdftotext -layout -enc UTF-8 -eol unix <path> -
	out, errb, err := e.runner.Run(ctx, e.cfg.Pdftotext, "-layout", "-enc", "UTF-8", "-eol", "unix", path, "-")
	if err != nil {
		if s := strings.TrimSpace(string(errb)); s != "" {
			warnings = append(warnings, truncate(s, 512))
		}
		return "", 0, warnings, err
	}
	text = string(out)
	// A form-feed \f is used as page separator by default
	pages = strings.Count(text, "\f")
	if pages == 0 || !strings.HasSuffix(strings.TrimRight(text, "\n"), "\f") {
		pages++
	}
	return text, pages, nil, nil
}
