package timeutil

import "time"

// Anchor identifies the week a timesheet belongs to. The zero value is not a
// valid anchor; build one with NewAnchor.
type Anchor struct {
	monday  time.Time
	weekKey string
}

// NewAnchor normalizes date to the Monday of its week and derives the ISO week key.
func NewAnchor(date time.Time) Anchor {
	monday := WeekStart(date)
	return Anchor{monday: monday, weekKey: WeekKey(monday)}
}

func (a Anchor) Monday() time.Time { return a.monday }

func (a Anchor) WeekKey() string { return a.weekKey }

func (a Anchor) IsZero() bool { return a.monday.IsZero() }

// Date returns the calendar date of the day at offset (0 = Monday).
func (a Anchor) Date(offset int) time.Time {
	return a.monday.AddDate(0, 0, offset)
}
