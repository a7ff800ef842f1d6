package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/davisolsen/planpick/pkg/models"
)

// SelectionsWorkbook builds an xlsx workbook with one row per selection.
func SelectionsWorkbook(selections []models.Selection) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := "Selections"
	f.SetSheetName("Sheet1", sheet)

	headers := []string{"Room", "Product", "Finish", "Quantity", "Unit Price", "Extended Price", "Locked"}
	for i, header := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheet, cell, header); err != nil {
			return nil, err
		}
	}

	for i, selection := range selections {
		row := i + 2
		finish := ""
		if selection.Finish != nil {
			finish = *selection.Finish
		}

		values := []interface{}{
			selection.RoomName,
			selection.ProductName,
			finish,
			selection.Quantity,
			selection.UnitPrice,
			selection.ExtendedPrice,
			selection.IsLocked,
		}
		for col, value := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return nil, err
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}

	return buf.Bytes(), nil
}
