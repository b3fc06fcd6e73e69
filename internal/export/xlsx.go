package export

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/amara-nwosu/gene-report-reader/internal/fields"
)

// ScanRow is one recorded scan flattened for the workbook.
type ScanRow struct {
	ScannedAt  time.Time
	SourcePath string
	Method     string
	Confidence float32
	Fields     fields.Result
}

// ScansXLSX returns an XLSX workbook (as bytes) with one row per scan and one
// column per registry field, preceded by the scan metadata columns.
func ScansXLSX(logger *slog.Logger, rows []ScanRow, fieldNames []string) ([]byte, error) {
	if logger == nil {
		logger = slog.Default()
	}
	start := time.Now()

	f := excelize.NewFile()
	const sheet = "Scans"
	if index, _ := f.GetSheetIndex(sheet); index == -1 {
		if _, err := f.NewSheet(sheet); err != nil {
			return nil, err
		}
	}
	activeIndex, _ := f.GetSheetIndex(sheet)
	f.SetActiveSheet(activeIndex)

	headers := append([]string{"Scanned At", "Source", "Method", "Confidence"}, fieldNames...)
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	for i, r := range rows {
		row := i + 2
		write := func(col int, v any) {
			cell, _ := excelize.CoordinatesToCellName(col, row)
			_ = f.SetCellValue(sheet, cell, v)
		}

		if !r.ScannedAt.IsZero() {
			write(1, r.ScannedAt.UTC().Format("2006-01-02 15:04:05"))
		} else {
			write(1, "")
		}
		write(2, r.SourcePath)
		write(3, r.Method)
		write(4, fmt.Sprintf("%.2f", r.Confidence))

		for j, name := range fieldNames {
			v, _ := r.Fields.Get(name)
			write(5+j, v)
		}
	}

	// Widen the metadata columns; field columns keep the default.
	_ = f.SetColWidth(sheet, "A", "A", 20) // timestamp
	_ = f.SetColWidth(sheet, "B", "B", 48) // source path
	_ = f.SetColWidth(sheet, "C", "D", 12) // method, confidence

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}

	logger.Info("export.xlsx.ok",
		"rows", len(rows),
		"fields", len(fieldNames),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}
