// Package export renders extraction results for people: a Markdown table for
// the clinician, HTML for preview, and XLSX workbooks for scan history.
package export

import (
	"strings"

	"github.com/amara-nwosu/gene-report-reader/internal/fields"
)

// RenderMarkdown renders res as a two-column Markdown table. Every declared
// field gets a row, in result order, so values the OCR missed stay visible as
// empty cells.
func RenderMarkdown(res fields.Result) string {
	var b strings.Builder
	b.WriteString("| Field | Value |\n| --- | --- |")
	if res.Len() == 0 {
		b.WriteString("\n| _(no data)_ | |")
		return b.String()
	}
	for _, f := range res.Fields() {
		b.WriteString("\n| ")
		b.WriteString(escapeCell(f.Name))
		b.WriteString(" | ")
		b.WriteString(escapeCell(f.Value))
		b.WriteString(" |")
	}
	return b.String()
}

// escapeCell keeps a value inside its table cell: pipes are escaped and
// newlines become explicit line breaks.
func escapeCell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	s = strings.ReplaceAll(s, "\n", "<br>")
	return s
}
