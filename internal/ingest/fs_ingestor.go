package ingest

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/joseph-ayodele/tender-analyzer/internal/common"
)

// FSIngestor reads documents from the local filesystem and hands them to a processor.
type FSIngestor struct {
	proc    FileProcessor
	logger  *slog.Logger
	workers int
}

var _ Ingestor = (*FSIngestor)(nil)

func NewFSIngestor(proc FileProcessor, logger *slog.Logger, workers int) *FSIngestor {
	if logger == nil {
		logger = slog.Default()
	}
	if workers <= 0 {
		workers = 1
	}
	return &FSIngestor{proc: proc, logger: logger, workers: workers}
}

func (i *FSIngestor) IngestPath(ctx context.Context, path string, force bool) (IngestionResult, error) {
	out := IngestionResult{SourcePath: path}

	abs, err := filepath.Abs(path)
	if err != nil {
		i.logger.Error("abs path error", "path", path, "error", err)
		return out, err
	}
	out.SourcePath = abs

	if DocumentFormat(abs) == "" {
		i.logger.Warn("unsupported or missing extension", "path", abs, "ext", filepath.Ext(abs))
		err := fmt.Errorf("%s: %w", filepath.Base(abs), common.ErrUnsupportedFormat)
		out.Err = err.Error()
		return out, err
	}

	a, err := i.proc.ProcessFile(ctx, abs, force)
	out.Analysis = a
	if err != nil {
		out.Err = err.Error()
		return out, err
	}
	out.Deduplicated = a.Reused
	return out, nil
}

// IngestPaths analyzes paths with up to workers files in flight. Per-file failures
// are reported in the results, which keep the order of paths; the returned error
// is ctx's error when the run was cancelled.
func (i *FSIngestor) IngestPaths(ctx context.Context, paths []string, force bool) ([]IngestionResult, RunStats, error) {
	results := make([]IngestionResult, len(paths))
	var (
		mu    sync.Mutex
		stats RunStats
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(i.workers)
	for idx, path := range paths {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			r, err := i.IngestPath(gctx, path, force)
			results[idx] = r

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err != nil:
				i.logger.Error("ingest failed", "path", path, "error", err)
				stats.Failed++
			case r.Deduplicated:
				stats.Succeeded++
				stats.Deduplicated++
			default:
				stats.Succeeded++
			}
			return nil
		})
	}
	_ = g.Wait()

	i.logger.Info("ingest done",
		"files", len(paths),
		"succeeded", stats.Succeeded,
		"deduplicated", stats.Deduplicated,
		"failed", stats.Failed,
	)
	if err := ctx.Err(); err != nil {
		return results, stats, err
	}
	return results, stats, nil
}

// ScanDirectory walks root and returns the tender documents under it in lexical
// order, skipping hidden files and directories if requested.
func ScanDirectory(root string, skipHidden bool) ([]string, DirStats, error) {
	if strings.TrimSpace(root) == "" {
		return nil, DirStats{}, fmt.Errorf("root path is required: %w", common.ErrInvalidInput)
	}

	var paths []string
	var stats DirStats

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		stats.Scanned++
		if walkErr != nil {
			if path == root {
				return walkErr
			}
			stats.Skipped++
			return nil
		}
		if skipHidden && path != root && IsHidden(path) {
			stats.Skipped++
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() || DocumentFormat(path) == "" {
			return nil
		}
		stats.Matched++
		paths = append(paths, path)
		return nil
	})
	if err != nil {
		return paths, stats, fmt.Errorf("walk: %w", err)
	}
	return paths, stats, nil
}
