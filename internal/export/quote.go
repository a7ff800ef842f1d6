package export

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/davisolsen/planpick/pkg/models"
)

// QuotePDF renders a project's selections as a quote document. Selections
// are expected in sort order; rows are grouped under room headers.
func QuotePDF(project *models.Project, selections []models.Selection) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()

	// Header
	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(0, 10, "Product Selections Quote")
	pdf.Ln(8)
	pdf.SetFont("Arial", "", 11)
	pdf.Cell(0, 8, fmt.Sprintf("Project: %s", project.Name))
	pdf.Ln(6)
	pdf.Cell(0, 8, fmt.Sprintf("Date: %s", time.Now().Format("January 2, 2006")))
	pdf.Ln(12)

	drawTableHeader := func() {
		pdf.SetFont("Arial", "B", 9)
		pdf.SetFillColor(230, 230, 230)
		pdf.CellFormat(70, 7, "Product", "1", 0, "L", true, 0, "")
		pdf.CellFormat(35, 7, "Finish", "1", 0, "L", true, 0, "")
		pdf.CellFormat(15, 7, "Qty", "1", 0, "R", true, 0, "")
		pdf.CellFormat(30, 7, "Unit Price", "1", 0, "R", true, 0, "")
		pdf.CellFormat(30, 7, "Extended", "1", 1, "R", true, 0, "")
	}

	var total float64
	currentRoom := ""

	for _, selection := range selections {
		if selection.RoomName != currentRoom {
			currentRoom = selection.RoomName
			pdf.Ln(2)
			pdf.SetFont("Arial", "B", 12)
			pdf.Cell(0, 8, currentRoom)
			pdf.Ln(8)
			drawTableHeader()
		}

		finish := ""
		if selection.Finish != nil {
			finish = *selection.Finish
		}

		pdf.SetFont("Arial", "", 9)
		pdf.CellFormat(70, 7, selection.ProductName, "1", 0, "L", false, 0, "")
		pdf.CellFormat(35, 7, finish, "1", 0, "L", false, 0, "")
		pdf.CellFormat(15, 7, fmt.Sprintf("%d", selection.Quantity), "1", 0, "R", false, 0, "")
		pdf.CellFormat(30, 7, fmt.Sprintf("$%.2f", selection.UnitPrice), "1", 0, "R", false, 0, "")
		pdf.CellFormat(30, 7, fmt.Sprintf("$%.2f", selection.ExtendedPrice), "1", 1, "R", false, 0, "")

		total += selection.ExtendedPrice
	}

	pdf.Ln(6)
	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(150, 8, "Total", "", 0, "R", false, 0, "")
	pdf.CellFormat(30, 8, fmt.Sprintf("$%.2f", total), "1", 1, "R", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render quote PDF: %w", err)
	}

	return buf.Bytes(), nil
}
