package timesheet

import (
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"tsimport/internal/classify"
	"tsimport/internal/timeutil"
)

// Params carries one (day, category) observation from a sheet.
type Params struct {
	UserID            string
	WeekKey           string
	Day               string
	Date              time.Time
	Hours             float64
	Category          string
	SecondaryActivity string
	JobNo             string
	Notes             string
}

// Builder materializes entries. Now and NewID default to time.Now and
// uuid.NewString when nil.
type Builder struct {
	Now   func() time.Time
	NewID func() string
}

// Build returns a simplified, hours-only draft entry. Start/finish times,
// shift flags and per diem are never populated by an import.
func (b Builder) Build(p Params) Entry {
	now := b.now().UTC()
	return Entry{
		ID:            b.newID(),
		UserID:        p.UserID,
		WeekKey:       p.WeekKey,
		Day:           p.Day,
		Date:          timeutil.ISODateString(p.Date),
		StartTime:     "",
		FinishTime:    "",
		BreakDuration: 0,
		Activity:      classify.Classify(p.Category, p.SecondaryActivity).Activity,
		JobNo:         strings.TrimSpace(p.JobNo),
		IsNightshift:  false,
		IsOvernight:   false,
		PerDiemType:   PerDiemNone,
		Notes:         strings.TrimSpace(p.Notes),
		Status:        StatusDraft,
		EntryMode:     EntryModeSimplified,
		HoursOnly:     RoundHours(p.Hours),
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// BuildEntry builds one entry with a fresh UUID and the current time.
func BuildEntry(userID, weekKey, day string, date time.Time, hours float64, category, secondaryActivity, jobNo, notes string) Entry {
	return Builder{}.Build(Params{
		UserID:            userID,
		WeekKey:           weekKey,
		Day:               day,
		Date:              date,
		Hours:             hours,
		Category:          category,
		SecondaryActivity: secondaryActivity,
		JobNo:             jobNo,
		Notes:             notes,
	})
}

func RoundHours(value float64) float64 {
	return math.Round(value*100) / 100
}

func (b Builder) now() time.Time {
	if b.Now != nil {
		return b.Now()
	}
	return time.Now()
}

func (b Builder) newID() string {
	if b.NewID != nil {
		return b.NewID()
	}
	return uuid.NewString()
}
