package services

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"
)

// ExportHistoryXLSX renders assessment history as a spreadsheet with the same
// columns as the CSV export.
func ExportHistoryXLSX(assessments []*Assessment) ([]byte, error) {
	f := excelize.NewFile()
	const sheet = "Assessments"
	index, err := f.NewSheet(sheet)
	if err != nil {
		return nil, fmt.Errorf("create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	for col, header := range historyHeader {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheet, cell, header); err != nil {
			return nil, err
		}
	}
	for i, a := range assessments {
		row := []any{
			a.ID, a.ScaleID, a.Patient.Name, a.Patient.Age, a.Patient.Gender,
			a.Patient.DoctorName, a.Score, a.Interpretation,
			formatMillis(a.CreatedAt), formatMillis(a.UpdatedAt),
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return nil, err
		}
	}

	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	if err := f.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
