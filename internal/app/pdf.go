package app

import (
	"bufio"
	"strings"

	"github.com/jung-kurt/gofpdf"
)

// writeReportPDF renders the plain-text report to a minimal PDF. Section
// marker lines (leading ---) become bold headings; everything else wraps as
// body text.
func writeReportPDF(report string, outPath string) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetFont("Helvetica", "", 11)
	pdf.AddPage()

	scanner := bufio.NewScanner(strings.NewReader(report))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		s := strings.TrimSpace(scanner.Text())
		if s == "" {
			pdf.Ln(5)
			continue
		}
		if strings.HasPrefix(s, "---") {
			pdf.SetFont("Helvetica", "B", 12)
			pdf.CellFormat(0, 8, tr(strings.Trim(s, "- ")), "", 1, "L", false, 0, "")
			pdf.SetFont("Helvetica", "", 11)
			continue
		}
		// The report marks the answer body with ** emphasis; strip it for print.
		s = strings.ReplaceAll(s, "**", "")
		pdf.MultiCell(0, 5, tr(s), "", "L", false)
	}

	return pdf.OutputFileAndClose(outPath)
}

// ExportPDF writes the report to path when configured; a missing path is a
// no-op so callers can pass it unconditionally.
func (a *App) ExportPDF(report string) error {
	if a.cfg.OutputPDFPath == "" {
		return nil
	}
	return writeReportPDF(report, a.cfg.OutputPDFPath)
}
