package export

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/jung-kurt/gofpdf"
)

// SlipField is one labelled line on a printed slip.
type SlipField struct {
	Label string
	Value string
}

// Slip describes a single-document printout such as a claim stub.
type Slip struct {
	Title    string
	Subtitle string
	Fields   []SlipField
	Footnote string
}

// SlipExporter renders slips into a compact A5 PDF.
type SlipExporter struct{}

// NewSlipExporter constructs a slip exporter.
func NewSlipExporter() *SlipExporter {
	return &SlipExporter{}
}

// Render creates the PDF document for the slip.
func (e *SlipExporter) Render(slip Slip) ([]byte, error) {
	if slip.Title == "" {
		return nil, fmt.Errorf("slip requires a title")
	}

	pdf := gofpdf.New("P", "mm", "A5", "")
	pdf.SetMargins(12, 14, 12)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(0, 10, strings.ToUpper(slip.Title), "", 1, "C", false, 0, "")
	if slip.Subtitle != "" {
		pdf.SetFont("Arial", "", 10)
		pdf.CellFormat(0, 6, slip.Subtitle, "", 1, "C", false, 0, "")
	}
	pdf.Ln(4)

	for _, field := range slip.Fields {
		pdf.SetFont("Arial", "B", 10)
		pdf.CellFormat(40, 7, field.Label, "", 0, "L", false, 0, "")
		pdf.SetFont("Arial", "", 10)
		pdf.CellFormat(0, 7, field.Value, "", 1, "L", false, 0, "")
	}

	if slip.Footnote != "" {
		pdf.Ln(6)
		pdf.SetFont("Arial", "I", 8)
		pdf.MultiCell(0, 5, slip.Footnote, "", "L", false)
	}

	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render slip pdf: %w", err)
	}
	return buf.Bytes(), nil
}
