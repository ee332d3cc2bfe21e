package importer

import (
	"path/filepath"
	"regexp"
	"strconv"
	"time"

	"tsimport/internal/timeutil"
)

var (
	weekEndingPattern = regexp.MustCompile(`(\d{4})\.(\d{2})\.(\d{2})-(\d{2})`)
	mondayDatePattern = regexp.MustCompile(`(\d{4})-(\d{2})-(\d{2})`)
)

// FilenameMeta is the week information recovered from a file name.
type FilenameMeta struct {
	Anchor   timeutil.Anchor
	Filename string
	// WeekHint is the trailing week number of a YYYY.MM.DD-WW name, or 0.
	WeekHint int
	// WeekEnding is the date of a YYYY.MM.DD-WW name, zero otherwise.
	WeekEnding time.Time
}

// EndsOffSunday reports a week-ending date that is not a Sunday. The anchor
// still counts back six days from it, which lands in the previous week.
func (m FilenameMeta) EndsOffSunday() bool {
	return !m.WeekEnding.IsZero() && m.WeekEnding.Weekday() != time.Sunday
}

// ParseFilename derives the week anchor from the base name of path.
// YYYY.MM.DD-WW names carry the Sunday that ends the week; YYYY-MM-DD
// names carry the Monday. The first pattern that matches decides.
func ParseFilename(path string) (FilenameMeta, bool) {
	filename := filepath.Base(path)

	if match := weekEndingPattern.FindStringSubmatch(filename); match != nil {
		sunday, ok := dateFromParts(match[1], match[2], match[3])
		if !ok {
			return FilenameMeta{}, false
		}
		hint, _ := strconv.Atoi(match[4])
		return FilenameMeta{
			Anchor:     timeutil.NewAnchor(sunday.AddDate(0, 0, -6)),
			Filename:   filename,
			WeekHint:   hint,
			WeekEnding: sunday,
		}, true
	}

	if match := mondayDatePattern.FindStringSubmatch(filename); match != nil {
		monday, ok := dateFromParts(match[1], match[2], match[3])
		if !ok {
			return FilenameMeta{}, false
		}
		return FilenameMeta{
			Anchor:   timeutil.NewAnchor(monday),
			Filename: filename,
		}, true
	}

	return FilenameMeta{}, false
}

func dateFromParts(year, month, day string) (time.Time, bool) {
	y, err := strconv.Atoi(year)
	if err != nil {
		return time.Time{}, false
	}
	m, err := strconv.Atoi(month)
	if err != nil {
		return time.Time{}, false
	}
	d, err := strconv.Atoi(day)
	if err != nil {
		return time.Time{}, false
	}
	return calendarDate(y, m, d)
}
