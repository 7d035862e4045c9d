package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"concil/internal/domain"
)

const sheetName = "Reconciliation"

// WriteXLSX renders the batches as a single-sheet spreadsheet with a styled
// header row and one row per record.
func WriteXLSX(w io.Writer, batches []*domain.Batch) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return fmt.Errorf("export.WriteXLSX: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"4472C4"}},
	})
	if err != nil {
		return fmt.Errorf("export.WriteXLSX: %w", err)
	}

	header := make([]interface{}, len(columns))
	for i, c := range columns {
		header[i] = c
	}
	if err := f.SetSheetRow(sheetName, "A1", &header); err != nil {
		return fmt.Errorf("export.WriteXLSX: %w", err)
	}
	lastCol, err := excelize.CoordinatesToCellName(len(columns), 1)
	if err != nil {
		return fmt.Errorf("export.WriteXLSX: %w", err)
	}
	if err := f.SetCellStyle(sheetName, "A1", lastCol, headerStyle); err != nil {
		return fmt.Errorf("export.WriteXLSX: %w", err)
	}

	rowIdx := 2
	for _, batch := range batches {
		for _, doc := range batch.Documents {
			row := recordToRow(batch, doc)
			values := make([]interface{}, len(row))
			for i, v := range row {
				values[i] = v
			}
			cell, err := excelize.CoordinatesToCellName(1, rowIdx)
			if err != nil {
				return fmt.Errorf("export.WriteXLSX: %w", err)
			}
			if err := f.SetSheetRow(sheetName, cell, &values); err != nil {
				return fmt.Errorf("export.WriteXLSX: %w", err)
			}
			rowIdx++
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("export.WriteXLSX: %w", err)
	}
	return nil
}
