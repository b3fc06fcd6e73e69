package ocr

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/amara-nwosu/gene-report-reader/constants"
)

// Scanned reports arrive as PDFs often enough to support them directly.
// pdftotext handles PDFs with a real text layer; pure scans come back
// (near-)empty and fall through to rasterize-and-OCR.
const minEmbeddedTextBytes = 32

func (e *Extractor) extractPDF(ctx context.Context, path string) (Result, error) {
	text, pages, warns, err := e.pdfEmbeddedText(ctx, path)
	if err == nil && len(strings.TrimSpace(text)) >= minEmbeddedTextBytes {
		return Result{
			Text:       Normalize(text),
			Pages:      pages,
			SourceType: constants.PDF,
			Method:     "pdf-text",
			Language:   e.cfg.Language,
			Warnings:   warns,
			Confidence: blendConfidence(1.0, heuristicConfidence(text)),
		}, nil
	}
	if err != nil {
		warns = append(warns, err.Error())
	}

	text, pages, w2, err := e.pdfRasterOCR(ctx, path)
	warns = append(warns, w2...)
	if err != nil {
		return Result{SourceType: constants.PDF, Warnings: warns}, err
	}
	text = Normalize(text)
	return Result{
		Text:       text,
		Pages:      pages,
		SourceType: constants.PDF,
		Method:     "pdf-ocr",
		Language:   e.cfg.Language,
		Warnings:   warns,
		Confidence: heuristicConfidence(text),
	}, nil
}

// scratchDir creates a fresh temp directory under the configured artifact
// cache dir, or the system temp dir when none is configured.
func (e *Extractor) scratchDir(pattern string) (string, error) {
	base := e.cfg.ArtifactDir
	if base != "" {
		if err := os.MkdirAll(base, 0o755); err != nil {
			return "", fmt.Errorf("artifact cache dir: %w", err)
		}
	}
	return os.MkdirTemp(base, pattern)
}

func (e *Extractor) pdfEmbeddedText(ctx context.Context, path string) (string, int, []string, error) {
	// pdftotext -layout -enc UTF-8 -eol unix <path> -
	out, errb, err := e.runner.Run(ctx, e.cfg.Pdftotext, "-layout", "-enc", "UTF-8", "-eol", "unix", path, "-")
	if err != nil {
		return "", 0, []string{string(errb)}, fmt.Errorf("pdftotext: %w", err)
	}
	text := string(out)
	// pdftotext separates pages with form feeds.
	return text, 1 + strings.Count(text, "\f"), nil, nil
}

func (e *Extractor) pdfRasterOCR(ctx context.Context, path string) (string, int, []string, error) {
	tmpDir, err := e.scratchDir("grr-pdf-*")
	if err != nil {
		return "", 0, nil, err
	}
	defer func() {
		if rmErr := os.RemoveAll(tmpDir); rmErr != nil {
			e.logger.Warn("failed to remove temp dir", "dir", tmpDir, "error", rmErr)
		}
	}()

	prefix := filepath.Join(tmpDir, "page")
	_, errb, err := e.runner.Run(ctx, e.cfg.Pdftoppm, "-r", fmt.Sprintf("%d", e.cfg.DPI), "-png", path, prefix)
	if err != nil {
		return "", 0, []string{string(errb)}, fmt.Errorf("pdftoppm: %w", err)
	}

	pages, _ := filepath.Glob(prefix + "-*.png")
	sort.Strings(pages)
	if e.cfg.MaxPages > 0 && len(pages) > e.cfg.MaxPages {
		pages = pages[:e.cfg.MaxPages]
	}
	if len(pages) == 0 {
		return "", 0, []string{"pdftoppm produced no images"}, fmt.Errorf("no pages rendered")
	}

	var b strings.Builder
	var warns []string
	for _, img := range pages {
		txt, w, err := e.tesseractOCR(ctx, img)
		warns = append(warns, w...)
		if err != nil {
			warns = append(warns, err.Error())
			continue
		}
		if b.Len() > 0 {
			b.WriteString("\n\f\n") // keep a clear page break marker
		}
		b.WriteString(txt)
	}
	return b.String(), len(pages), warns, nil
}
