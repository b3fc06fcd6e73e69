// watchscan watches one or more directories for new report scans and writes
// a Markdown table next to each processed file.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/amara-nwosu/gene-report-reader/internal/common"
	"github.com/amara-nwosu/gene-report-reader/internal/history"
	"github.com/amara-nwosu/gene-report-reader/internal/ingest"
	"github.com/amara-nwosu/gene-report-reader/internal/ocr"
	"github.com/amara-nwosu/gene-report-reader/internal/pipeline"
	"github.com/amara-nwosu/gene-report-reader/internal/registry"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	var (
		initial      = flag.Bool("initial", false, "process files already present under the roots")
		registryPath = flag.String("registry", "", "field registry JSON file (default built-in)")
		dbPath       = flag.String("db", "", "scan history SQLite file (default SCAN_DB_PATH, empty disables)")
	)
	flag.Parse()

	if flag.NArg() == 0 {
		logger.Error("usage", "cmd", "watchscan [-initial] [-registry file] [-db file] <dir> [dir...]")
		os.Exit(2)
	}

	cfg := common.LoadConfig()
	if *registryPath == "" {
		*registryPath = cfg.Extract.RegistryPath
	}
	if *dbPath == "" {
		*dbPath = cfg.Store.Path
	}

	reg := registry.Default()
	if *registryPath != "" {
		r, err := registry.LoadFile(*registryPath)
		if err != nil {
			logger.Error("load registry", "path", *registryPath, "error", err)
			os.Exit(1)
		}
		reg = r
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var store *history.Store
	if *dbPath != "" {
		s, err := history.Open(ctx, *dbPath, logger)
		if err != nil {
			logger.Error("open history store", "path", *dbPath, "error", err)
			os.Exit(1)
		}
		defer func() {
			if cerr := s.Close(); cerr != nil {
				logger.Error("close history store", "error", cerr)
			}
		}()
		store = s
	}

	ocrx := ocr.NewExtractor(ocr.ConfigFrom(cfg.OCR), logger)
	p := pipeline.New(logger, ocrx, reg, store)

	paths, errs, err := ingest.StartWatcher(ctx, ingest.WatchConfig{
		Roots:       flag.Args(),
		InitialScan: *initial,
	}, logger)
	if err != nil {
		logger.Error("start watcher", "error", err)
		os.Exit(1)
	}

	logger.Info("watching for scans", "roots", flag.Args())
	for {
		select {
		case <-ctx.Done():
			logger.Info("shutting down")
			return
		case werr, ok := <-errs:
			if !ok {
				errs = nil // closed on shutdown; stop selecting on it
				continue
			}
			logger.Error("watch error", "error", werr)
		case path, ok := <-paths:
			if !ok {
				return
			}
			processOne(ctx, logger, p, path, cfg.OCR.Timeout)
		}
	}
}

func processOne(ctx context.Context, logger *slog.Logger, p *pipeline.Pipeline, path string, timeout time.Duration) {
	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	report, err := p.Run(runCtx, path)
	if err != nil {
		logger.Error("scan failed", "source", path, "error", err)
		return
	}

	out := path + ".md"
	if err := os.WriteFile(out, []byte(report.Markdown+"\n"), 0o644); err != nil {
		logger.Error("write markdown", "path", out, "error", err)
		return
	}
	logger.Info("markdown written", "source", path, "output", out,
		"fields_matched", report.Fields.Matched())
}
