package importer

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

// Excel serials for 2000-01-01 and 2099-12-31. Hours never reach this range,
// so a number inside it under a day column is a date-formatted cell.
const (
	minDateSerial = 36526
	maxDateSerial = 73051
)

var dayFirstDatePattern = regexp.MustCompile(`^(\d{1,2})/(\d{1,2})/(\d{2}|\d{4})$`)

// parseHours reads a day cell as a finite number of hours.
func parseHours(raw string) (float64, bool) {
	cleaned := strings.TrimSpace(raw)
	if cleaned == "" {
		return 0, false
	}
	hours, err := strconv.ParseFloat(cleaned, 64)
	if err != nil || math.IsNaN(hours) || math.IsInf(hours, 0) {
		return 0, false
	}
	return hours, true
}

// parseSheetDate accepts Excel date serials, D/M/Y day-first dates
// (two-digit years are 20YY), ISO dates, and the mm-dd-yy rendering of
// date-formatted cells.
func parseSheetDate(raw string) (time.Time, bool) {
	cleaned := strings.TrimSpace(raw)
	if cleaned == "" {
		return time.Time{}, false
	}

	if serial, err := strconv.ParseFloat(cleaned, 64); err == nil {
		return serialDate(serial)
	}

	if match := dayFirstDatePattern.FindStringSubmatch(cleaned); match != nil {
		day, _ := strconv.Atoi(match[1])
		month, _ := strconv.Atoi(match[2])
		year, _ := strconv.Atoi(match[3])
		if len(match[3]) == 2 {
			year += 2000
		}
		return calendarDate(year, month, day)
	}

	layouts := []string{
		"2006-01-02",
		"2006-01-02 15:04:05",
		"01-02-06",
	}
	for _, layout := range layouts {
		if parsed, err := time.ParseInLocation(layout, cleaned, time.Local); err == nil {
			return time.Date(parsed.Year(), parsed.Month(), parsed.Day(), 0, 0, 0, 0, time.Local), true
		}
	}
	return time.Time{}, false
}

// serialDate converts a 1900-system Excel serial to a local calendar date.
func serialDate(serial float64) (time.Time, bool) {
	if serial < minDateSerial || serial > maxDateSerial {
		return time.Time{}, false
	}
	converted, err := excelize.ExcelDateToTime(serial, false)
	if err != nil {
		return time.Time{}, false
	}
	return time.Date(converted.Year(), converted.Month(), converted.Day(), 0, 0, 0, 0, time.Local), true
}

// calendarDate rejects out-of-range components instead of letting
// time.Date normalize them.
func calendarDate(year, month, day int) (time.Time, bool) {
	if month < 1 || month > 12 || day < 1 {
		return time.Time{}, false
	}
	date := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.Local)
	if date.Day() != day || int(date.Month()) != month {
		return time.Time{}, false
	}
	return date, true
}
