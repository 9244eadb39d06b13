package ingest

import (
	"context"

	"github.com/joseph-ayodele/tender-analyzer/internal/entity"
)

// IngestionResult is the per-file ingest outcome.
type IngestionResult struct {
	SourcePath   string
	Analysis     *entity.Analysis
	Deduplicated bool
	Err          string
}

// DirStats summarizes a directory scan.
type DirStats struct {
	Scanned uint32 // entries visited
	Matched uint32 // documents with an allowed extension
	Skipped uint32 // hidden entries and unreadable paths
}

// RunStats summarizes a batch ingest.
type RunStats struct {
	Succeeded    uint32
	Deduplicated uint32
	Failed       uint32
}

// FileProcessor analyzes one document on disk.
type FileProcessor interface {
	ProcessFile(ctx context.Context, path string, force bool) (*entity.Analysis, error)
}

// Ingestor is the behavior the CLI depends on.
type Ingestor interface {
	// IngestPath analyzes a single path.
	IngestPath(ctx context.Context, path string, force bool) (IngestionResult, error)
	// IngestPaths analyzes every path, several at a time.
	IngestPaths(ctx context.Context, paths []string, force bool) ([]IngestionResult, RunStats, error)
}
