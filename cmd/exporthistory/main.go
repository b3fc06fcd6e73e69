// exporthistory dumps the scan history store to an XLSX workbook, one row
// per scan with a column per registry field.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/amara-nwosu/gene-report-reader/internal/common"
	"github.com/amara-nwosu/gene-report-reader/internal/export"
	"github.com/amara-nwosu/gene-report-reader/internal/fields"
	"github.com/amara-nwosu/gene-report-reader/internal/history"
	"github.com/amara-nwosu/gene-report-reader/internal/registry"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	var (
		dbPath       = flag.String("db", "", "scan history SQLite file (default SCAN_DB_PATH)")
		outPath      = flag.String("out", "scans.xlsx", "output workbook path")
		limit        = flag.Int("limit", 0, "max scans to export, newest first (0 = all)")
		registryPath = flag.String("registry", "", "field registry JSON file (default built-in)")
	)
	flag.Parse()

	cfg := common.LoadConfig()
	if *dbPath == "" {
		*dbPath = cfg.Store.Path
	}
	if *dbPath == "" {
		logger.Error("no history db: pass -db or set SCAN_DB_PATH")
		os.Exit(2)
	}
	if *registryPath == "" {
		*registryPath = cfg.Extract.RegistryPath
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

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	store, err := history.Open(ctx, *dbPath, logger)
	if err != nil {
		logger.Error("open history store", "path", *dbPath, "error", err)
		os.Exit(1)
	}
	defer func() {
		if cerr := store.Close(); cerr != nil {
			logger.Error("close history store", "error", cerr)
		}
	}()

	scans, err := store.ListScans(ctx, *limit)
	if err != nil {
		logger.Error("list scans", "error", err)
		os.Exit(1)
	}

	rows := make([]export.ScanRow, 0, len(scans))
	for _, sc := range scans {
		res, err := fields.FromJSON([]byte(sc.FieldsJSON))
		if err != nil {
			logger.Warn("skipping scan with corrupt fields", "scan_id", sc.ID.String(), "error", err)
			continue
		}
		rows = append(rows, export.ScanRow{
			ScannedAt:  sc.CreatedAt,
			SourcePath: sc.SourcePath,
			Method:     sc.Method,
			Confidence: sc.Confidence,
			Fields:     res,
		})
	}

	names := make([]string, 0, reg.Len())
	for _, spec := range reg.Fields() {
		names = append(names, spec.Name)
	}

	book, err := export.ScansXLSX(logger, rows, names)
	if err != nil {
		logger.Error("build workbook", "error", err)
		os.Exit(1)
	}
	if err := os.WriteFile(*outPath, book, 0o644); err != nil {
		logger.Error("write workbook", "path", *outPath, "error", err)
		os.Exit(1)
	}
	logger.Info("history exported", "path", *outPath, "scans", len(rows))
}
