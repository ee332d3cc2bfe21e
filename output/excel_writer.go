package output

import (
	"fmt"

	"github.com/xuri/excelize/v2"
	"tsimport/timesheet"
)

type ExcelWriter struct{}

func (w *ExcelWriter) Write(path string, entries []timesheet.Entry) error {
	rows := make([][]any, 0, len(entries))
	for _, entry := range entries {
		values := entryRow(entry)
		row := make([]any, len(values))
		for i, value := range values {
			row[i] = value
		}
		// Keep hours numeric so the sheet can total them.
		row[7] = entry.HoursOnly
		rows = append(rows, row)
	}
	return writeExcel(path, entryHeaders, rows)
}

func writeExcel(path string, headers []string, rows [][]any) error {
	file := excelize.NewFile()
	defer file.Close()

	sheet := file.GetSheetName(0)
	for col, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := file.SetCellValue(sheet, cell, header); err != nil {
			return fmt.Errorf("set excel header %s: %w", cell, err)
		}
	}

	for i, values := range rows {
		row := i + 2
		for col, value := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			if err := file.SetCellValue(sheet, cell, value); err != nil {
				return fmt.Errorf("set excel value %s: %w", cell, err)
			}
		}
	}

	if err := file.SaveAs(path); err != nil {
		return fmt.Errorf("save excel output %s: %w", path, err)
	}

	return nil
}
