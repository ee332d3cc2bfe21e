package reconcile

import (
	"fmt"
	"sort"
	"time"

	"tsimport/internal/timeutil"
)

// Mismatch is a day whose in-sheet date disagrees with the week anchor.
type Mismatch struct {
	Day      string
	Expected time.Time
	Found    time.Time
}

func (m Mismatch) String() string {
	return fmt.Sprintf("date row: %s is %s in the sheet but %s for the file's week",
		m.Day, timeutil.ISODateString(m.Found), timeutil.ISODateString(m.Expected))
}

type Result struct {
	DaysChecked int
	Mismatches  []Mismatch
}

func (r Result) Consistent() bool {
	return len(r.Mismatches) == 0
}

// CheckWeekDates compares a date row, keyed by full day name, with the
// dates the anchor assigns to the same days. Unknown day names are ignored.
// Mismatches come back in Monday..Sunday order.
func CheckWeekDates(anchor timeutil.Anchor, dates map[string]time.Time) Result {
	result := Result{}
	for _, day := range sortedDays(dates) {
		offset, _ := timeutil.DayIndexByName(day)
		expected := anchor.Date(offset)
		found := dates[day]
		result.DaysChecked++
		if timeutil.SameDay(expected, found) {
			continue
		}
		result.Mismatches = append(result.Mismatches, Mismatch{Day: day, Expected: expected, Found: found})
	}
	return result
}

// CheckWeekHint reports whether the week number written in a file name
// agrees with the ISO week of the anchor. A zero hint always agrees.
func CheckWeekHint(anchor timeutil.Anchor, hint int) bool {
	if hint == 0 {
		return true
	}
	return timeutil.ISOWeekNumber(anchor.Monday()) == hint
}

// AnchorFromDates anchors a week on the earliest date of a date row.
func AnchorFromDates(dates map[string]time.Time) (timeutil.Anchor, bool) {
	var earliest time.Time
	for _, day := range sortedDays(dates) {
		date := dates[day]
		if earliest.IsZero() || date.Before(earliest) {
			earliest = date
		}
	}
	if earliest.IsZero() {
		return timeutil.Anchor{}, false
	}
	return timeutil.NewAnchor(earliest), true
}

func sortedDays(dates map[string]time.Time) []string {
	days := make([]string, 0, len(dates))
	for day := range dates {
		if _, ok := timeutil.DayIndexByName(day); ok {
			days = append(days, day)
		}
	}
	sort.Slice(days, func(i, j int) bool {
		a, _ := timeutil.DayIndexByName(days[i])
		b, _ := timeutil.DayIndexByName(days[j])
		return a < b
	})
	return days
}
