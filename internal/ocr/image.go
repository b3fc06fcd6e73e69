package ocr

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/amara-nwosu/gene-report-reader/constants"
)

func (e *Extractor) extractImage(ctx context.Context, path string) (Result, error) {
	txt, warn, err := e.tesseractOCR(ctx, path)
	if err != nil {
		return Result{SourceType: constants.IMAGE, Warnings: warn}, err
	}
	txt = Normalize(txt)

	var engineConf float32
	if e.cfg.EnableTSVConfidence {
		if c, w, err2 := e.tesseractTSVConfidence(ctx, path); err2 == nil {
			engineConf = c
			warn = append(warn, w...)
		} else {
			warn = append(warn, err2.Error())
		}
	}
	conf := blendConfidence(engineConf, heuristicConfidence(txt))

	return Result{
		Text:       txt,
		Pages:      1,
		SourceType: constants.IMAGE,
		Method:     "image-ocr",
		Language:   e.cfg.Language,
		Warnings:   warn,
		Confidence: conf,
	}, nil
}

func (e *Extractor) tesseractOCR(ctx context.Context, path string) (string, []string, error) {
	args := e.tesseractArgs(path)

	out, errb, err := e.runner.Run(ctx, e.cfg.Tesseract, args...)
	if err != nil {
		return "", []string{string(errb)}, fmt.Errorf("tesseract: %w", err)
	}
	return string(out), nil, nil
}

// tesseractTSVConfidence runs tesseract in TSV mode and returns the mean word
// confidence in 0..1.
func (e *Extractor) tesseractTSVConfidence(ctx context.Context, path string) (float32, []string, error) {
	args := append(e.tesseractArgs(path), "tsv")

	out, errb, err := e.runner.Run(ctx, e.cfg.Tesseract, args...)
	if err != nil {
		return 0, []string{string(errb)}, fmt.Errorf("tesseract tsv: %w", err)
	}

	lines := strings.Split(string(out), "\n")
	if len(lines) < 2 {
		return 0, nil, nil
	}

	// conf sits between the box geometry and the word text. Locate it by
	// header name so a numeric word in the text column is never mistaken
	// for a confidence.
	confIdx := -1
	for i, h := range strings.Split(lines[0], "\t") {
		if strings.TrimSpace(h) == "conf" {
			confIdx = i
			break
		}
	}
	if confIdx < 0 {
		confIdx = 10 // tesseract's documented column order
	}

	var sum, n float64
	for _, ln := range lines[1:] {
		if ln == "" {
			continue
		}
		cols := strings.Split(ln, "\t")
		if len(cols) <= confIdx {
			continue
		}
		confStr := cols[confIdx]
		if confStr == "" || confStr == "-1" {
			continue // non-word rows carry no confidence
		}
		if v, err := strconv.ParseFloat(confStr, 64); err == nil && v >= 0 {
			sum += v
			n++
		}
	}
	if n == 0 {
		return 0, nil, nil
	}
	return float32(sum / n / 100.0), nil, nil
}

func (e *Extractor) tesseractArgs(path string) []string {
	args := []string{path, "stdout", "-l", e.cfg.Language}
	if e.cfg.PSM > 0 {
		args = append(args, "--psm", strconv.Itoa(e.cfg.PSM))
	}
	if e.cfg.OEM > 0 {
		args = append(args, "--oem", strconv.Itoa(e.cfg.OEM))
	}
	if e.cfg.TessdataDir != "" {
		args = append(args, "--tessdata-dir", e.cfg.TessdataDir)
	}
	return args
}
