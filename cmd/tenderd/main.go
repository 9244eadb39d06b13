package main

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	asyncjob "github.com/joseph-ayodele/tender-analyzer/internal/async"
	"github.com/joseph-ayodele/tender-analyzer/internal/common"
	"github.com/joseph-ayodele/tender-analyzer/internal/core"
	"github.com/joseph-ayodele/tender-analyzer/internal/core/async"
	"github.com/joseph-ayodele/tender-analyzer/internal/core/catalog"
	"github.com/joseph-ayodele/tender-analyzer/internal/core/textextract"
	"github.com/joseph-ayodele/tender-analyzer/internal/entity"
	"github.com/joseph-ayodele/tender-analyzer/internal/export"
	"github.com/joseph-ayodele/tender-analyzer/internal/ingest"
	repo "github.com/joseph-ayodele/tender-analyzer/internal/repository"
	svc "github.com/joseph-ayodele/tender-analyzer/internal/server"
)

const shutdownTimeout = 15 * time.Second

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Error("failed to load .env", "error", err)
		os.Exit(1)
	}
	cfg := common.LoadConfig()

	logger := common.NewLogger(os.Stdout, cfg.LogLevel)
	slog.SetDefault(logger)

	if err := cfg.ValidateServer(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := svc.ConnectDB(ctx, cfg.Database, logger)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	cat := catalog.Default()
	if cfg.Analysis.CatalogFile != "" {
		cat, err = catalog.LoadFile(cfg.Analysis.CatalogFile)
		if err != nil {
			logger.Error("failed to load catalog", "path", cfg.Analysis.CatalogFile, "error", err)
			os.Exit(1)
		}
		logger.Info("loaded pattern catalog", "path", cfg.Analysis.CatalogFile)
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
	analyses := repo.NewAnalysisRepository(db, logger)
	processor := core.NewProcessor(logger, extractor, analyzer, analyses)
	reports := export.NewService(logger)

	// HTTP
	httpServer := &http.Server{
		Addr: cfg.Server.HTTPAddr,
		Handler: svc.NewHTTPServer(processor, analyses, reports, logger,
			svc.WithMaxUploadBytes(cfg.Server.MaxUploadBytes),
			svc.WithHealthChecker(db),
			svc.WithBOQColumns(cat.ColumnNames()),
		).Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// gRPC
	lis, err := net.Listen("tcp", cfg.Server.GRPCAddr)
	if err != nil {
		logger.Error("failed to listen on address", "addr", cfg.Server.GRPCAddr, "error", err)
		os.Exit(1)
	}
	grpcServer, healthServer := svc.NewGRPCServer(svc.NewAnalysisService(processor, analyses, logger), logger)

	// Inbox
	queue := async.NewProcessorQueue(processor, logger,
		async.WithWorkers(cfg.Worker.Workers),
		async.WithQueueSize(cfg.Worker.QueueSize),
		async.WithProcessTimeout(cfg.Worker.ProcessTimeout),
		async.WithResultHandler(reportWriter(reports, cfg.Ingest.ReportDir, cat.ColumnNames(), logger)),
	)

	g, gctx := errgroup.WithContext(ctx)

	if cfg.Ingest.InboxDir != "" {
		events, watchErrs, err := ingest.StartWatcher(gctx, ingest.WatchConfig{
			Roots:       []string{cfg.Ingest.InboxDir},
			InitialScan: cfg.Ingest.InitialScan,
			Debounce:    cfg.Ingest.Debounce,
			SkipHidden:  true,
			Logger:      logger,
		})
		if err != nil {
			logger.Error("failed to watch inbox", "dir", cfg.Ingest.InboxDir, "error", err)
			os.Exit(1)
		}
		logger.Info("watching inbox", "dir", cfg.Ingest.InboxDir, "report_dir", cfg.Ingest.ReportDir)

		g.Go(func() error {
			for path := range events {
				job := asyncjob.Job{Path: path, RequestID: uuid.NewString()}
				if err := queue.Enqueue(gctx, job); err != nil {
					logger.Warn("inbox document dropped", "path", path, "error", err)
				}
			}
			return nil
		})
		g.Go(func() error {
			for err := range watchErrs {
				logger.Warn("inbox watcher error", "error", err)
			}
			return nil
		})
	}

	g.Go(func() error {
		logger.Info("http listening", "addr", cfg.Server.HTTPAddr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		logger.Info("grpc listening", "addr", cfg.Server.GRPCAddr)
		return grpcServer.Serve(lis)
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down...")
		healthServer.Shutdown()

		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(sctx); err != nil {
			logger.Warn("http shutdown", "error", err)
		}
		grpcServer.GracefulStop()
		queue.Shutdown(sctx)
		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("server stopped with error", "error", err)
		os.Exit(1)
	}
	logger.Info("stopped")
}

// reportWriter stores the workbook of each successfully analyzed inbox document in dir.
func reportWriter(reports *export.Service, dir string, columns []string, logger *slog.Logger) async.ResultHandler {
	return func(ctx context.Context, job asyncjob.Job, a *entity.Analysis, err error) {
		if err != nil || a == nil || a.Result == nil {
			return
		}
		log := common.LoggerFrom(ctx, logger)
		source := filepath.Base(job.Path)
		b, err := reports.RenderXLSX(a.Result, export.Meta{Source: source, BOQColumns: columns})
		if err != nil {
			log.Error("export.xlsx.failed", "path", job.Path, "error", err)
			return
		}
		path, err := export.WriteReport(dir, export.ReportName(source, export.FormatXLSX), b)
		if err != nil {
			log.Error("report write failed", "path", job.Path, "error", err)
			return
		}
		log.Info("report written", "source", source, "report", path, "analysis_id", a.ID)
	}
}
