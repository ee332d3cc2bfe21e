package importer

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"
	"tsimport/timesheet"
)

var timesheetHeader = []any{"PAYROLL CATEGORY", "CUSTOMER ACTIVITY", "JOB #", "MON", "TUE", "WED", "THU", "FRI", "SAT", "SUN"}

// writeWorkbook saves rows into the named sheet of a new workbook under dir.
func writeWorkbook(t *testing.T, dir, filename, sheet string, rows [][]any) string {
	t.Helper()

	file := excelize.NewFile()
	defer file.Close()

	if sheet != "" && sheet != file.GetSheetName(0) {
		if err := file.SetSheetName(file.GetSheetName(0), sheet); err != nil {
			t.Fatalf("rename sheet: %v", err)
		}
	}
	name := file.GetSheetName(0)
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatalf("cell name: %v", err)
		}
		values := row
		if err := file.SetSheetRow(name, cell, &values); err != nil {
			t.Fatalf("set row %d: %v", i+1, err)
		}
	}

	path := filepath.Join(dir, filename)
	if err := file.SaveAs(path); err != nil {
		t.Fatalf("save workbook: %v", err)
	}
	return path
}

func writeCSV(t *testing.T, dir, filename string, rows [][]string) string {
	t.Helper()

	path := filepath.Join(dir, filename)
	file, err := os.Create(path)
	if err != nil {
		t.Fatalf("create csv: %v", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.WriteAll(rows); err != nil {
		t.Fatalf("write csv: %v", err)
	}
	return path
}

// standardSheet is a title block followed by the header and the given rows.
func standardSheet(rows ...[]any) [][]any {
	sheet := [][]any{
		{"Weekly Timesheet"},
		{"Employee", "Jane Doe"},
		{},
		timesheetHeader,
	}
	return append(sheet, rows...)
}

func fixedBuilder() timesheet.Builder {
	counter := 0
	return timesheet.Builder{
		Now: func() time.Time { return time.Date(2025, 2, 3, 9, 0, 0, 0, time.UTC) },
		NewID: func() string {
			counter++
			return fmt.Sprintf("id-%03d", counter)
		},
	}
}

func testEngine() *Engine {
	return &Engine{UserID: "user-1", Builder: fixedBuilder()}
}

// addSheet appends a worksheet with rows to an existing workbook.
func addSheet(t *testing.T, path, sheet string, rows [][]any) {
	t.Helper()

	file, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer file.Close()

	if _, err := file.NewSheet(sheet); err != nil {
		t.Fatalf("new sheet: %v", err)
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatalf("cell name: %v", err)
		}
		values := row
		if err := file.SetSheetRow(sheet, cell, &values); err != nil {
			t.Fatalf("set row %d: %v", i+1, err)
		}
	}
	if err := file.Save(); err != nil {
		t.Fatalf("save workbook: %v", err)
	}
}

// styleRange applies a number format style to a cell range of a saved
// workbook, the way timesheet templates format their hour and date cells.
func styleRange(t *testing.T, path, sheet, from, to string, style *excelize.Style) {
	t.Helper()

	file, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer file.Close()

	styleID, err := file.NewStyle(style)
	if err != nil {
		t.Fatalf("new style: %v", err)
	}
	if err := file.SetCellStyle(sheet, from, to, styleID); err != nil {
		t.Fatalf("set style %s:%s: %v", from, to, err)
	}
	if err := file.Save(); err != nil {
		t.Fatalf("save workbook: %v", err)
	}
}
