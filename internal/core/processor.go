package core

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/joseph-ayodele/tender-analyzer/constants"
	"github.com/joseph-ayodele/tender-analyzer/internal/common"
	"github.com/joseph-ayodele/tender-analyzer/internal/core/textextract"
	"github.com/joseph-ayodele/tender-analyzer/internal/entity"
	"github.com/joseph-ayodele/tender-analyzer/internal/repository"
)

// Processor coordinates text extraction, analysis and persistence of one document.
type Processor struct {
	logger    *slog.Logger
	extractor textextract.TextExtractor
	analyzer  *Analyzer
	analyses  repository.AnalysisRepository
}

func NewProcessor(
	logger *slog.Logger,
	extractor textextract.TextExtractor,
	analyzer *Analyzer,
	analyses repository.AnalysisRepository,
) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	if analyzer == nil {
		analyzer = NewAnalyzer(nil, WithAnalyzerLogger(logger))
	}
	return &Processor{
		logger:    logger,
		extractor: extractor,
		analyzer:  analyzer,
		analyses:  analyses,
	}
}

func (p *Processor) Analyzer() *Analyzer { return p.analyzer }

// ProcessFile analyzes the document at path. Unless force is set, a document whose
// content hash matches an earlier successful run returns that run instead. A failed
// run is persisted and returned together with the error.
func (p *Processor) ProcessFile(ctx context.Context, path string, force bool) (*entity.Analysis, error) {
	source := filepath.Base(path)
	format := constants.MapExtToFormat(filepath.Ext(path))
	if format == "" {
		return nil, fmt.Errorf("%s: %w", source, common.ErrUnsupportedFormat)
	}

	hash, err := hashFile(path)
	if err != nil {
		p.logger.Error("processor.hash.failed", "path", path, "err", err)
		return nil, fmt.Errorf("hash %s: %w", source, err)
	}

	if !force {
		prev, err := p.reuse(ctx, hash)
		if err != nil {
			return nil, err
		}
		if prev != nil {
			return prev, nil
		}
	}

	a, err := p.analyses.Start(ctx, source, format, hash)
	if err != nil {
		return nil, err
	}
	ctx = common.WithAnalysisID(ctx, a.ID.String())
	log := common.LoggerFrom(ctx, p.logger)

	start := time.Now()
	res, err := p.extractor.Extract(ctx, path)
	if err != nil {
		log.Error("processor.extract.failed", "path", path, "err", err)
		return p.fail(ctx, a, fmt.Errorf("extract text: %w", err))
	}
	log.Debug("processor extract success",
		"method", res.Method,
		"pages", res.Pages,
		"warnings", len(res.Warnings),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)

	return p.finish(ctx, a, res.Method, res.Pages, res.Text)
}

// ProcessText analyzes text supplied directly, e.g. by an API client.
func (p *Processor) ProcessText(ctx context.Context, source, text string) (*entity.Analysis, error) {
	sum := sha256.Sum256([]byte(text))
	hash := hex.EncodeToString(sum[:])

	prev, err := p.reuse(ctx, hash)
	if err != nil {
		return nil, err
	}
	if prev != nil {
		return prev, nil
	}

	a, err := p.analyses.Start(ctx, source, constants.TEXT, hash)
	if err != nil {
		return nil, err
	}
	ctx = common.WithAnalysisID(ctx, a.ID.String())
	return p.finish(ctx, a, textextract.MethodPlainText, 1, text)
}

func (p *Processor) reuse(ctx context.Context, hash string) (*entity.Analysis, error) {
	prev, err := p.analyses.FindLatestByHash(ctx, hash)
	switch {
	case err == nil:
		p.logger.Info("processor.dedupe.hit", "analysis_id", prev.ID, "source", prev.Source)
		prev.Reused = true
		return prev, nil
	case errors.Is(err, common.ErrNotFound):
		return nil, nil
	default:
		return nil, err
	}
}

func (p *Processor) finish(ctx context.Context, a *entity.Analysis, method string, pages int, text string) (*entity.Analysis, error) {
	log := common.LoggerFrom(ctx, p.logger)

	start := time.Now()
	result := p.analyzer.Analyze(a.Source, text)
	if err := p.analyses.FinishSuccess(ctx, a.ID, method, pages, result); err != nil {
		log.Error("processor.persist.failed", "err", err)
		return p.fail(ctx, a, fmt.Errorf("persist result: %w", err))
	}

	now := time.Now().UTC()
	a.Status = string(constants.AnalysisStatusOK)
	a.Method = &method
	a.Pages = pages
	a.Diagnostics = len(result.Validation)
	a.FinishedAt = &now
	a.Result = result

	log.Info("processor.ok",
		"source", a.Source,
		"sections", len(result.Sections),
		"boq_items", len(result.BOQItems),
		"diagnostics", a.Diagnostics,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return a, nil
}

// fail records the failure even when ctx is already cancelled.
func (p *Processor) fail(ctx context.Context, a *entity.Analysis, cause error) (*entity.Analysis, error) {
	msg := cause.Error()
	if err := p.analyses.FinishFailure(context.WithoutCancel(ctx), a.ID, msg); err != nil {
		common.LoggerFrom(ctx, p.logger).Error("processor.mark_failed.failed", "err", err)
	}
	now := time.Now().UTC()
	a.Status = string(constants.AnalysisStatusFailed)
	a.ErrorMessage = &msg
	a.FinishedAt = &now
	return a, cause
}

func hashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
