// runocr runs only the OCR stage and prints the recognized text, which is
// useful for tuning registry patterns against real scans.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/amara-nwosu/gene-report-reader/internal/common"
	"github.com/amara-nwosu/gene-report-reader/internal/ocr"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	if len(os.Args) != 2 {
		logger.Error("usage", "cmd", "runocr <scan-file>")
		os.Exit(2)
	}
	path := os.Args[1]

	cfg := common.LoadConfig()
	ctx, cancel := context.WithTimeout(context.Background(), cfg.OCR.Timeout)
	defer cancel()

	ocrx := ocr.NewExtractor(ocr.ConfigFrom(cfg.OCR), logger)

	start := time.Now()
	res, err := ocrx.Extract(ctx, path)
	if err != nil {
		logger.Error("ocr failed",
			"source", path, "error", err, "duration_ms", time.Since(start).Milliseconds())
		os.Exit(1)
	}

	logger.Info("ocr ok",
		"source", path,
		"method", res.Method,
		"pages", res.Pages,
		"bytes", len(res.Text),
		"confidence", res.Confidence,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	for _, w := range res.Warnings {
		logger.Warn("ocr warning", "warning", w)
	}

	fmt.Println(res.Text)
}
