package importer

import (
	"strings"
	"time"

	"tsimport/internal/timeutil"
)

const (
	colPayrollCategory  = "PAYROLL CATEGORY"
	colCustomerActivity = "CUSTOMER ACTIVITY"
	colJobNumber        = "JOB #"
	colJob              = "JOB"

	// dateRowScanDepth is how many rows below the header may hold dates.
	dateRowScanDepth = 3
	// minDateRowDays is the number of parseable day cells that make a date row.
	minDateRowDays = 3
)

// RawSheet is the unlabelled cell grid of one worksheet. Rows may differ in
// length; missing trailing cells read as empty.
type RawSheet struct {
	Name string
	Rows [][]string
}

func (s RawSheet) Cell(row, col int) string {
	if row < 0 || row >= len(s.Rows) || col < 0 || col >= len(s.Rows[row]) {
		return ""
	}
	return s.Rows[row][col]
}

// Table is a RawSheet re-labelled from its header row.
type Table struct {
	Columns []string
	Rows    []Record
}

func (t Table) Has(label string) bool {
	label = normalizeLabel(label)
	for _, column := range t.Columns {
		if column == label {
			return true
		}
	}
	return false
}

// FindHeaderRow returns the index of the first row whose non-empty cells,
// joined by spaces and upper-cased, contain PAYROLL CATEGORY.
func FindHeaderRow(sheet RawSheet) (int, bool) {
	for i, row := range sheet.Rows {
		parts := make([]string, 0, len(row))
		for _, cell := range row {
			if strings.TrimSpace(cell) == "" {
				continue
			}
			parts = append(parts, cell)
		}
		if strings.Contains(strings.ToUpper(strings.Join(parts, " ")), colPayrollCategory) {
			return i, true
		}
	}
	return 0, false
}

// Materialize turns the rows below headerRow into records keyed by the
// header labels. Unlabelled columns are dropped and the first occurrence of
// a duplicated label wins.
func Materialize(sheet RawSheet, headerRow int) Table {
	if headerRow < 0 || headerRow >= len(sheet.Rows) {
		return Table{}
	}

	header := sheet.Rows[headerRow]
	labels := make([]string, len(header))
	columns := make([]string, 0, len(header))
	seen := make(map[string]bool, len(header))
	for i, cell := range header {
		label := normalizeLabel(cell)
		if label == "" || seen[label] {
			continue
		}
		seen[label] = true
		labels[i] = label
		columns = append(columns, label)
	}

	rows := make([]Record, 0, len(sheet.Rows)-headerRow-1)
	for r := headerRow + 1; r < len(sheet.Rows); r++ {
		values := make(map[string]string, len(columns))
		for _, column := range columns {
			values[column] = ""
		}
		for col, label := range labels {
			if label == "" {
				continue
			}
			values[label] = sheet.Cell(r, col)
		}
		rows = append(rows, Record{RowNumber: r + 1, Values: values})
	}

	return Table{Columns: columns, Rows: rows}
}

// FindDateRow looks at the first rows below the header for one carrying
// calendar dates under the day columns. The result is keyed by full day
// name (Monday..Sunday).
func FindDateRow(table Table) (map[string]time.Time, bool) {
	limit := min(dateRowScanDepth, len(table.Rows))
	for i := 0; i < limit; i++ {
		row := table.Rows[i]
		dates := make(map[string]time.Time, len(timeutil.DayCodes))
		for d, code := range timeutil.DayCodes {
			if !table.Has(code) {
				continue
			}
			parsed, ok := parseSheetDate(row.Get(code))
			if !ok {
				continue
			}
			dates[timeutil.DayName(d)] = parsed
		}
		if len(dates) >= minDateRowDays {
			return dates, true
		}
	}
	return nil, false
}
