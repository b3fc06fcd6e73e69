// Package ocr shells out to tesseract (and poppler for PDFs) to turn a
// scanned report into text. The engine is treated as an opaque collaborator:
// whatever it prints on stdout, normalized, is the report text; any failure
// is returned to the caller and never reaches field extraction.
package ocr

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/amara-nwosu/gene-report-reader/constants"
	"github.com/amara-nwosu/gene-report-reader/internal/common"
)

type Config struct {
	Tesseract string // binary name or absolute path; if empty -> "tesseract"
	Pdftotext string // binary name or absolute path; if empty -> "pdftotext"
	Pdftoppm  string // binary name or absolute path; if empty -> "pdftoppm"

	Language string // default "eng"
	DPI      int    // rasterization DPI for scanned PDFs, default 300
	MaxPages int    // 0 = no limit

	TessdataDir         string
	HeicConverter       string // "heif-convert" | "magick" | "sips"
	ArtifactDir         string // base dir for rasterization scratch files; "" = system temp
	EnableTSVConfidence bool

	PSM int // e.g. 6 for a uniform block of text
	OEM int // 1 = LSTM; 0 = engine default
}

// ConfigFrom maps the environment-driven application config onto an engine
// Config.
func ConfigFrom(c common.OCRConfig) Config {
	return Config{
		Tesseract:           c.Tesseract,
		Pdftotext:           c.Pdftotext,
		Pdftoppm:            c.Pdftoppm,
		Language:            c.Language,
		DPI:                 c.DPI,
		MaxPages:            c.MaxPages,
		TessdataDir:         c.TessdataDir,
		HeicConverter:       c.HeicConverter,
		ArtifactDir:         c.ArtifactCacheDir,
		EnableTSVConfidence: c.TSVConfidence,
		PSM:                 c.PSM,
		OEM:                 c.OEM,
	}
}

// Result is the recognized text for one scan plus how it was produced.
type Result struct {
	Text       string
	Pages      int
	SourceType string // constants.PDF | constants.IMAGE
	Method     string // "pdf-text" | "pdf-ocr" | "image-ocr"
	Language   string
	Duration   time.Duration
	Warnings   []string
	Confidence float32
}

type Extractor struct {
	cfg    Config
	runner Runner
	logger *slog.Logger
}

func NewExtractor(cfg Config, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Tesseract == "" {
		cfg.Tesseract = "tesseract"
	}
	if cfg.Pdftotext == "" {
		cfg.Pdftotext = "pdftotext"
	}
	if cfg.Pdftoppm == "" {
		cfg.Pdftoppm = "pdftoppm"
	}
	if cfg.Language == "" {
		cfg.Language = "eng"
	}
	if cfg.DPI <= 0 {
		cfg.DPI = 300
	}
	return &Extractor{cfg: cfg, runner: execRunner{}, logger: logger}
}

// WithRunner swaps the command runner. Tests use this to stub the engine.
func (e *Extractor) WithRunner(r Runner) *Extractor {
	e.runner = r
	return e
}

// Extract picks a strategy based on file extension.
func (e *Extractor) Extract(ctx context.Context, path string) (Result, error) {
	start := time.Now()
	ext := constants.NormalizeExt(filepath.Ext(path))
	e.logger.Debug("starting ocr extraction", "path", path, "ext", ext)
	switch constants.MapExtToFormat(ext) {
	case constants.PDF:
		res, err := e.extractPDF(ctx, path)
		res.Duration = time.Since(start)
		return res, err
	case constants.IMAGE:
		var warns []string
		if constants.IsHEICExt(ext) {
			out, w, cleanup, err := convertHEICtoPNG(ctx, e.runner, e.cfg.HeicConverter, path)
			warns = append(warns, w...)
			if err != nil {
				e.logger.Error("heic conversion failed", "path", path, "error", err)
				if cleanup != nil {
					cleanup()
				}
				return Result{SourceType: constants.IMAGE, Warnings: warns}, err
			}
			defer cleanup()
			path = out
		}
		res, err := e.extractImage(ctx, path)
		res.Duration = time.Since(start)
		res.Warnings = append(res.Warnings, warns...)
		return res, err
	default:
		e.logger.Error("unsupported ocr extension", "extension", ext)
		return Result{}, fmt.Errorf("%w: %q", common.ErrUnsupportedFormat, ext)
	}
}
