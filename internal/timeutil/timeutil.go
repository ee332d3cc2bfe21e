package timeutil

import (
	"fmt"
	"time"
)

const isoDateLayout = "2006-01-02"

// DayCodes are the fixed day column labels of a weekly timesheet, Monday first.
var DayCodes = [7]string{"MON", "TUE", "WED", "THU", "FRI", "SAT", "SUN"}

// DayNames are the full weekday names used by stored entries, Monday first.
var DayNames = [7]string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

func StartOfDay(value time.Time) time.Time {
	return time.Date(value.Year(), value.Month(), value.Day(), 0, 0, 0, 0, value.Location())
}

func SameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}

// WeekdayIndex returns 0 for Monday through 6 for Sunday.
func WeekdayIndex(value time.Time) int {
	return (int(value.Weekday()) + 6) % 7
}

// WeekStart returns midnight of the Monday of the week containing value.
func WeekStart(value time.Time) time.Time {
	return StartOfDay(value).AddDate(0, 0, -WeekdayIndex(value))
}

func ISOWeekNumber(value time.Time) int {
	_, week := value.ISOWeek()
	return week
}

// ISOWeekYear may differ from the calendar year for dates near January 1st.
func ISOWeekYear(value time.Time) int {
	year, _ := value.ISOWeek()
	return year
}

// WeekKey formats the ISO week of monday as "YYYY-Www".
func WeekKey(monday time.Time) string {
	return fmt.Sprintf("%d-W%02d", ISOWeekYear(monday), ISOWeekNumber(monday))
}

func ISODateString(value time.Time) string {
	return value.Format(isoDateLayout)
}

// ParseISODate parses "YYYY-MM-DD" strictly in the local time zone.
func ParseISODate(value string) (time.Time, error) {
	return time.ParseInLocation(isoDateLayout, value, time.Local)
}

// WeekDates returns the seven calendar days starting at monday.
func WeekDates(monday time.Time) [7]time.Time {
	var dates [7]time.Time
	for i := range dates {
		dates[i] = monday.AddDate(0, 0, i)
	}
	return dates
}

// DayName returns the weekday name offset days after Monday, or "" when
// offset is outside 0..6.
func DayName(offset int) string {
	if offset < 0 || offset >= len(DayNames) {
		return ""
	}
	return DayNames[offset]
}

// DayIndexByName maps a full weekday name to its offset from Monday.
func DayIndexByName(name string) (int, bool) {
	for i, dayName := range DayNames {
		if dayName == name {
			return i, true
		}
	}
	return 0, false
}
