package output

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"tsimport/timesheet"
)

type Writer interface {
	Write(path string, entries []timesheet.Entry) error
}

func WriterForFormat(format string) (Writer, error) {
	switch normalizeFormat(format) {
	case "csv":
		return &CSVWriter{}, nil
	case "excel", "xlsx":
		return &ExcelWriter{}, nil
	case "json":
		return &JSONWriter{}, nil
	default:
		return nil, fmt.Errorf("unsupported output format: %s", format)
	}
}

// FormatFromPath picks an output format from the file extension, defaulting
// to csv.
func FormatFromPath(path string) string {
	lower := strings.ToLower(path)
	switch {
	case strings.HasSuffix(lower, ".xlsx"):
		return "excel"
	case strings.HasSuffix(lower, ".json"):
		return "json"
	default:
		return "csv"
	}
}

func normalizeFormat(value string) string {
	return strings.TrimSpace(strings.ToLower(value))
}

var entryHeaders = []string{
	"ID", "UserID", "WeekKey", "Day", "Date", "Activity", "JobNo", "HoursOnly",
	"Status", "EntryMode", "PerDiemType", "Notes", "CreatedAt", "UpdatedAt",
}

func entryRow(entry timesheet.Entry) []string {
	return []string{
		entry.ID,
		entry.UserID,
		entry.WeekKey,
		entry.Day,
		entry.Date,
		string(entry.Activity),
		entry.JobNo,
		strconv.FormatFloat(entry.HoursOnly, 'f', 2, 64),
		entry.Status,
		entry.EntryMode,
		entry.PerDiemType,
		entry.Notes,
		entry.CreatedAt.UTC().Format(time.RFC3339),
		entry.UpdatedAt.UTC().Format(time.RFC3339),
	}
}
