// scanreport runs one scanned clinical report through OCR, extracts the
// registry fields, and writes the result as a Markdown (or HTML) table.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/amara-nwosu/gene-report-reader/internal/common"
	"github.com/amara-nwosu/gene-report-reader/internal/export"
	"github.com/amara-nwosu/gene-report-reader/internal/history"
	"github.com/amara-nwosu/gene-report-reader/internal/ocr"
	"github.com/amara-nwosu/gene-report-reader/internal/pipeline"
	"github.com/amara-nwosu/gene-report-reader/internal/registry"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	var (
		outPath      = flag.String("o", "", "output file (default stdout)")
		format       = flag.String("format", "md", "output format: md | html")
		registryPath = flag.String("registry", "", "field registry JSON file (default built-in)")
		dbPath       = flag.String("db", "", "scan history SQLite file (default SCAN_DB_PATH, empty disables)")
	)
	flag.Parse()

	if flag.NArg() != 1 {
		logger.Error("usage", "cmd", "scanreport [-o out] [-format md|html] [-registry file] [-db file] <scan>")
		os.Exit(2)
	}
	input := flag.Arg(0)

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

	ctx, cancel := context.WithTimeout(context.Background(), cfg.OCR.Timeout)
	defer cancel()

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

	report, err := p.Run(ctx, input)
	if err != nil {
		logger.Error("scan failed", "scan_id", report.ScanID.String(), "source", input, "error", err)
		os.Exit(1)
	}

	out := report.Markdown
	if *format == "html" {
		html, err := export.RenderHTML(report.Markdown)
		if err != nil {
			logger.Error("render html", "error", err)
			os.Exit(1)
		}
		out = html
	}

	if *outPath == "" {
		fmt.Println(out)
		return
	}
	if err := os.WriteFile(*outPath, []byte(out+"\n"), 0o644); err != nil {
		logger.Error("write output", "path", *outPath, "error", err)
		os.Exit(1)
	}
	logger.Info("output written", "path", *outPath, "bytes", len(out)+1)
}
