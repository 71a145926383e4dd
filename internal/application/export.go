package application

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"
)

const exportSheet = "Postulaciones"

var exportHeaders = []string{"Postulante", "Email", "Oferta", "Fecha de postulación", "Estado", "Puntuación", "CV", "Carta de presentación"}

// ExportXLSX renders applications as a single sheet workbook.
func ExportXLSX(offerTitle string, list []*Application) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	row, err := writeHeader(f, sheet, 0, exportHeaders)
	if err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}
	for _, a := range list {
		row++
		values := []interface{}{
			a.ApplicantName,
			a.ApplicantEmail,
			offerTitle,
			a.AppliedAt.Format("02/01/2006 15:04"),
			a.Status,
			"",
			"",
			"",
		}
		if a.MatchScore != nil {
			values[5] = *a.MatchScore
		}
		if a.CVURL != nil {
			values[6] = *a.CVURL
		}
		if a.CoverLetter != nil {
			values[7] = *a.CoverLetter
		}
		for i, v := range values {
			if err := writeColumn(f, sheet, i+1, row, v); err != nil {
				return nil, fmt.Errorf("write row %d: %w", row, err)
			}
		}
	}

	if err := f.SetSheetName(sheet, exportSheet); err != nil {
		return nil, err
	}
	return f.WriteToBuffer()
}

func writeColumn(f *excelize.File, sheet string, col, row int, value interface{}) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return err
	}
	return f.SetCellValue(sheet, cell, value)
}

func writeHeader(f *excelize.File, sheet string, row int, headers []string) (int, error) {
	row++
	style, err := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{Horizontal: "center"},
		Font:      &excelize.Font{Bold: true, Size: 11},
	})
	if err != nil {
		return row, err
	}
	first, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return row, err
	}
	last, err := excelize.CoordinatesToCellName(len(headers), row)
	if err != nil {
		return row, err
	}
	if err := f.SetCellStyle(sheet, first, last, style); err != nil {
		return row, err
	}
	lastCol, err := excelize.ColumnNumberToName(len(headers))
	if err != nil {
		return row, err
	}
	if err := f.SetColWidth(sheet, "A", lastCol, 25); err != nil {
		return row, err
	}
	for i, h := range headers {
		if err := writeColumn(f, sheet, i+1, row, h); err != nil {
			return row, err
		}
	}
	return row, nil
}
