package export

import (
	"io"

	"github.com/jung-kurt/gofpdf"

	"github.com/ginjaninja78/csv-sales-watcher/internal/report"
)

const (
	dayColumnWidth   = 40
	valueColumnWidth = 50
	wideColumnWidth  = 130
	rowHeight        = 6
)

// WritePDF writes every table as a bordered grid under its title.
func WritePDF(w io.Writer, tables ...report.Table) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetFont("Arial", "", 12)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 14)
	pdf.Cell(0, 8, "Sales Report")
	pdf.Ln(12)

	for _, t := range tables {
		width := float64(valueColumnWidth)
		if !t.Numeric() {
			width = wideColumnWidth
		}

		pdf.SetFont("Arial", "B", 12)
		pdf.Cell(0, 8, t.Title)
		pdf.Ln(9)

		pdf.SetFont("Arial", "B", 10)
		for i, c := range t.Columns {
			cw := width
			if i == 0 {
				cw = dayColumnWidth
			}
			pdf.CellFormat(cw, rowHeight, c, "1", 0, "C", false, 0, "")
		}
		pdf.Ln(-1)

		pdf.SetFont("Arial", "", 10)
		if len(t.Rows) == 0 {
			pdf.CellFormat(dayColumnWidth+width, rowHeight, "No data", "1", 0, "C", false, 0, "")
			pdf.Ln(-1)
		}
		for _, r := range t.Rows {
			pdf.CellFormat(dayColumnWidth, rowHeight, r.Day.String(), "1", 0, "C", false, 0, "")
			for _, v := range r.Values {
				align := "R"
				if !t.Numeric() {
					align = "L"
				}
				pdf.CellFormat(width, rowHeight, v, "1", 0, align, false, 0, "")
			}
			pdf.Ln(-1)
		}
		pdf.Ln(6)
	}

	return pdf.Output(w)
}
