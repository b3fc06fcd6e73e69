// Package pipeline runs one scan end to end: validate the input file, OCR it,
// extract the registry fields, and render the Markdown table, recording the
// run in the history store when one is configured.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/amara-nwosu/gene-report-reader/constants"
	"github.com/amara-nwosu/gene-report-reader/internal/common"
	"github.com/amara-nwosu/gene-report-reader/internal/export"
	"github.com/amara-nwosu/gene-report-reader/internal/fields"
	"github.com/amara-nwosu/gene-report-reader/internal/history"
	"github.com/amara-nwosu/gene-report-reader/internal/imageio"
	"github.com/amara-nwosu/gene-report-reader/internal/ocr"
	"github.com/amara-nwosu/gene-report-reader/internal/registry"
)

// TextExtractor is stage 1: file -> recognized text.
type TextExtractor interface {
	Extract(ctx context.Context, path string) (ocr.Result, error)
}

type Pipeline struct {
	Log      *slog.Logger
	OCR      TextExtractor
	Registry *registry.Registry
	Store    *history.Store // optional; nil disables history
}

func New(log *slog.Logger, ocrx TextExtractor, reg *registry.Registry, store *history.Store) *Pipeline {
	if log == nil {
		log = slog.Default()
	}
	return &Pipeline{Log: log, OCR: ocrx, Registry: reg, Store: store}
}

// Report is the outcome of one scan.
type Report struct {
	ScanID   uuid.UUID
	OCR      ocr.Result
	Fields   fields.Result
	Markdown string
}

// Run processes one report file. OCR failures are returned unmodified (and
// recorded as FAILED); extraction and rendering themselves cannot fail.
func (p *Pipeline) Run(ctx context.Context, path string) (Report, error) {
	scanID := uuid.New()
	start := time.Now()
	ext := constants.NormalizeExt(filepath.Ext(path))

	format := constants.MapExtToFormat(ext)
	if format == "" {
		return Report{ScanID: scanID}, fmt.Errorf("%w: %q", common.ErrUnsupportedFormat, ext)
	}

	// HEIC is handed straight to the converter; everything raster is
	// sniffed first so a truncated download fails with a real error.
	if format == constants.IMAGE && !constants.IsHEICExt(ext) {
		info, err := imageio.Sniff(path)
		if err != nil {
			return Report{ScanID: scanID}, err
		}
		p.Log.Debug("scan image ok",
			"scan_id", scanID.String(),
			"format", info.Format, "width", info.Width, "height", info.Height,
		)
	}

	p.beginScan(ctx, scanID, path)

	res, err := p.OCR.Extract(ctx, path)
	if err != nil {
		p.finishScan(ctx, scanID, res, fields.Result{}, constants.ScanStatusFailed)
		return Report{ScanID: scanID, OCR: res}, err
	}
	p.finishScan(ctx, scanID, res, fields.Result{}, constants.ScanStatusOCROK)

	extracted := fields.Extract(res.Text, p.Registry.Fields())
	md := export.RenderMarkdown(extracted)
	p.finishScan(ctx, scanID, res, extracted, constants.ScanStatusParseOK)

	p.Log.Info("scan.ok",
		"scan_id", scanID.String(),
		"source", path,
		"method", res.Method,
		"pages", res.Pages,
		"fields_matched", extracted.Matched(),
		"fields_total", extracted.Len(),
		"confidence", res.Confidence,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	return Report{ScanID: scanID, OCR: res, Fields: extracted, Markdown: md}, nil
}

// beginScan inserts the RUNNING row; finishScan moves it through OCR_OK to
// PARSE_OK or FAILED. History is best effort: the scan result is returned
// even when the store misbehaves.
func (p *Pipeline) beginScan(ctx context.Context, id uuid.UUID, path string) {
	if p.Store == nil {
		return
	}
	err := p.Store.RecordScan(ctx, history.Scan{
		ID:         id,
		SourcePath: path,
		FieldsJSON: "[]",
		Status:     constants.ScanStatusRunning,
	})
	if err != nil {
		p.Log.Error("history record failed", "scan_id", id.String(), "error", err)
	}
}

func (p *Pipeline) finishScan(ctx context.Context, id uuid.UUID, res ocr.Result, fs fields.Result, status constants.ScanStatus) {
	if p.Store == nil {
		return
	}
	fj := []byte("[]")
	if fs.Len() > 0 {
		if b, err := fs.JSON(); err == nil {
			fj = b
		}
	}
	err := p.Store.UpdateScan(ctx, history.Scan{
		ID:         id,
		Method:     res.Method,
		Language:   res.Language,
		Confidence: res.Confidence,
		OCRText:    res.Text,
		FieldsJSON: string(fj),
		Status:     status,
	})
	if err != nil {
		p.Log.Error("history update failed", "scan_id", id.String(), "status", string(status), "error", err)
	}
}
