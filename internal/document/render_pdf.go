package document

import (
	"fmt"
	"io"

	"github.com/go-pdf/fpdf"
)

const (
	pdfMargin       = 72 // 1 inch in points
	pdfHeadingSize  = 16
	pdfSubheadSize  = 12
	pdfBodySize     = 11
	pdfLineHeight   = 15
	pdfBulletIndent = 14
)

// RenderPDF renders the document IR to PDF. Letter pages, one inch margins,
// sized per block kind.
func RenderPDF(doc Document, w io.Writer) error {
	pdf := fpdf.New("P", "pt", "Letter", "")
	pdf.SetMargins(pdfMargin, pdfMargin, pdfMargin)
	pdf.SetAutoPageBreak(true, pdfMargin)
	pdf.AddPage()

	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pageWidth, _ := pdf.GetPageSize()
	contentWidth := pageWidth - 2*pdfMargin

	pdf.SetFont("Helvetica", "B", pdfHeadingSize)
	pdf.MultiCell(contentWidth, pdfLineHeight+4, tr(doc.Title), "", "C", false)
	pdf.Ln(pdfLineHeight)

	for _, block := range doc.Blocks {
		switch block.Kind {
		case KindHeading:
			pdf.Ln(pdfLineHeight / 2)
			pdf.SetFont("Helvetica", "B", pdfHeadingSize)
			pdf.MultiCell(contentWidth, pdfLineHeight+4, tr(block.Text), "", "L", false)
		case KindSubheading:
			pdf.Ln(pdfLineHeight / 3)
			pdf.SetFont("Helvetica", "B", pdfSubheadSize)
			pdf.MultiCell(contentWidth, pdfLineHeight, tr(block.Text), "", "L", false)
		case KindBullet:
			pdf.SetFont("Helvetica", "", pdfBodySize)
			pdf.SetX(pdfMargin + pdfBulletIndent)
			pdf.MultiCell(contentWidth-pdfBulletIndent, pdfLineHeight, tr("• "+block.Text), "", "L", false)
		case KindParagraph:
			pdf.SetFont("Helvetica", "", pdfBodySize)
			pdf.MultiCell(contentWidth, pdfLineHeight, tr(block.Text), "", "L", false)
		}
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("failed to render PDF: %w", err)
	}
	return nil
}
