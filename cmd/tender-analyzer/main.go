package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"syscall"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/joseph-ayodele/tender-analyzer/internal/common"
	"github.com/joseph-ayodele/tender-analyzer/internal/core"
	"github.com/joseph-ayodele/tender-analyzer/internal/core/catalog"
	"github.com/joseph-ayodele/tender-analyzer/internal/core/textextract"
	"github.com/joseph-ayodele/tender-analyzer/internal/export"
	"github.com/joseph-ayodele/tender-analyzer/internal/ingest"
	repo "github.com/joseph-ayodele/tender-analyzer/internal/repository"
	"github.com/joseph-ayodele/tender-analyzer/internal/server"
)

// printError prints an error message to stderr, falling back to stdout if stderr fails
func printError(format string, args ...interface{}) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		fmt.Printf(format, args...)
	}
}

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		printError("Error: loading .env: %v\n", err)
		os.Exit(1)
	}
	cfg := common.LoadConfig()

	var (
		in            = flag.String("in", "", "tender documents or directories, comma separated (required)")
		out           = flag.String("out", ".", "directory for the generated reports")
		format        = flag.String("format", export.FormatXLSX, "report format: xlsx or json")
		catalogFile   = flag.String("catalog", cfg.Analysis.CatalogFile, "YAML pattern catalog overriding the built-in one")
		workers       = flag.Int("workers", cfg.Worker.Workers, "documents analyzed in parallel")
		inmem         = flag.Bool("inmem", false, "use in-memory SQLite database")
		force         = flag.Bool("force", false, "analyze again even when identical content was seen before")
		includeHidden = flag.Bool("include-hidden", false, "also scan hidden files and directories")
		logLevel      = flag.String("log-level", cfg.LogLevel, "debug, info, warn or error")
	)
	flag.Parse()

	v := common.NewValidator().
		Field("in", *in, common.Required).
		Field("format", *format, common.OneOf(export.Formats...))
	if v.HasErrors() {
		printError("Error: %s\n", v.ErrorMessage())
		flag.Usage()
		os.Exit(2)
	}
	if *workers <= 0 {
		*workers = 1
	}
	cfg.Analysis.CatalogFile = *catalogFile
	cfg.Worker.Workers = *workers
	if *inmem {
		cfg.Database.DSN = ""
		cfg.Database.SQLitePath = ":memory:"
	}
	if err := cfg.Validate(); err != nil {
		printError("Error: %v\n", err)
		os.Exit(2)
	}

	logger := common.NewLogger(os.Stderr, *logLevel)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	paths, err := collectInputs(*in, !*includeHidden, logger)
	if err != nil {
		logger.Error("failed to collect inputs", "error", err)
		os.Exit(1)
	}
	if len(paths) == 0 {
		printError("Error: no .pdf or .txt documents found in %s\n", *in)
		os.Exit(1)
	}

	db, err := server.ConnectDB(ctx, cfg.Database, logger)
	if err != nil {
		logger.Error("failed to initialize database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	cat, err := loadCatalog(cfg.Analysis.CatalogFile)
	if err != nil {
		logger.Error("failed to load catalog", "path", cfg.Analysis.CatalogFile, "error", err)
		os.Exit(1)
	}

	extractor := textextract.NewExtractor(textextract.Config{
		Pdftotext:       cfg.Extract.Pdftotext,
		MaxFileSize:     cfg.Extract.MaxFileBytes,
		DisableFallback: cfg.Extract.DisablePDFFallback,
	}, logger)
	analyzer := core.NewAnalyzer(cat,
		core.WithSummaryLength(cfg.Analysis.SummaryLength),
		core.WithAnalyzerLogger(logger),
	)
	processor := core.NewProcessor(logger, extractor, analyzer, repo.NewAnalysisRepository(db, logger))
	ingestor := ingest.NewFSIngestor(processor, logger, *workers)

	logger.Info("starting analysis", "documents", len(paths), "workers", *workers, "format", *format)
	results, stats, err := ingestor.IngestPaths(ctx, paths, *force)
	if err != nil {
		logger.Error("analysis interrupted", "error", err)
	}

	reports := export.NewService(logger)
	names := reportNames(results, *format)
	var (
		mu                      sync.Mutex
		written, renderFailures int
		g                       errgroup.Group
	)
	g.SetLimit(*workers)
	for i, r := range results {
		if r.Err != "" || r.Analysis == nil || r.Analysis.Result == nil {
			continue
		}
		name := names[i]
		g.Go(func() error {
			meta := export.Meta{Source: filepath.Base(r.SourcePath), BOQColumns: cat.ColumnNames()}
			b, err := reports.Render(r.Analysis.Result, meta, *format)
			if err == nil {
				_, err = export.WriteReport(*out, name, b)
			}
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				logger.Error("failed to write report", "source", r.SourcePath, "error", err)
				renderFailures++
				return nil
			}
			written++
			return nil
		})
	}
	_ = g.Wait()

	logger.Info("batch processing complete",
		"documents", len(paths),
		"succeeded", stats.Succeeded,
		"deduplicated", stats.Deduplicated,
		"failed", stats.Failed,
		"reports", written,
		"output_dir", *out)

	fmt.Printf("Batch processing complete!\n")
	fmt.Printf("- Documents: %d\n", len(paths))
	fmt.Printf("- Analyzed: %d (%d reused)\n", stats.Succeeded, stats.Deduplicated)
	fmt.Printf("- Failures: %d\n", int(stats.Failed)+renderFailures)
	fmt.Printf("- Reports: %d in %s\n", written, *out)
	for _, r := range results {
		if r.Err != "" {
			fmt.Printf("  ! %s: %s\n", r.SourcePath, r.Err)
		}
	}

	if stats.Failed > 0 || renderFailures > 0 || err != nil {
		os.Exit(1)
	}
}

// collectInputs expands the comma separated inputs into document paths.
func collectInputs(list string, skipHidden bool, logger *slog.Logger) ([]string, error) {
	var paths []string
	seen := map[string]bool{}
	for _, item := range strings.Split(list, ",") {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		info, err := os.Stat(item)
		if err != nil {
			return nil, err
		}
		found := []string{item}
		if info.IsDir() {
			var stats ingest.DirStats
			found, stats, err = ingest.ScanDirectory(item, skipHidden)
			if err != nil {
				return nil, err
			}
			logger.Info("scanned directory", "root", item, "scanned", stats.Scanned, "matched", stats.Matched, "skipped", stats.Skipped)
		}
		for _, p := range found {
			if !seen[p] {
				seen[p] = true
				paths = append(paths, p)
			}
		}
	}
	return paths, nil
}

// reportNames gives every result a distinct report file name.
func reportNames(results []ingest.IngestionResult, format string) []string {
	names := make([]string, len(results))
	used := map[string]int{}
	for i, r := range results {
		name := export.ReportName(r.SourcePath, format)
		if n := used[name]; n > 0 {
			ext := filepath.Ext(name)
			name = fmt.Sprintf("%s_%d%s", strings.TrimSuffix(name, ext), n+1, ext)
		}
		used[export.ReportName(r.SourcePath, format)]++
		names[i] = name
	}
	return names
}

func loadCatalog(path string) (*catalog.Catalog, error) {
	if path == "" {
		return catalog.Default(), nil
	}
	return catalog.LoadFile(path)
}
