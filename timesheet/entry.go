package timesheet

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"tsimport/internal/classify"
)

// Defaults an import writes. The validate tags on Entry list every value the
// application accepts.
const (
	StatusDraft         = "draft"
	EntryModeSimplified = "simplified"
	PerDiemNone         = "none"
)

// Entry is the normalized time entry record, field-for-field identical to the
// document shape the timesheet application reads.
type Entry struct {
	ID            string                `json:"id" validate:"required"`
	UserID        string                `json:"userId" validate:"required"`
	WeekKey       string                `json:"weekKey" validate:"required,len=8"`
	Day           string                `json:"day" validate:"oneof=Monday Tuesday Wednesday Thursday Friday Saturday Sunday"`
	Date          string                `json:"date" validate:"datetime=2006-01-02"`
	StartTime     string                `json:"startTime"`
	FinishTime    string                `json:"finishTime"`
	BreakDuration float64               `json:"breakDuration" validate:"gte=0"`
	Activity      classify.ActivityType `json:"activity" validate:"required"`
	JobNo         string                `json:"jobNo"`
	IsNightshift  bool                  `json:"isNightshift"`
	IsOvernight   bool                  `json:"isOvernight"`
	PerDiemType   string                `json:"perDiemType" validate:"oneof=none half full"`
	Notes         string                `json:"notes"`
	Status        string                `json:"status" validate:"oneof=draft submitted"`
	EntryMode     string                `json:"entryMode" validate:"oneof=detailed simplified"`
	HoursOnly     float64               `json:"hoursOnly" validate:"gte=0"`
	CreatedAt     time.Time             `json:"createdAt"`
	UpdatedAt     time.Time             `json:"updatedAt"`
}

var validate = validator.New()

// Validate checks enum and shape constraints before an entry reaches a sink.
func (e Entry) Validate() error {
	if err := validate.Struct(e); err != nil {
		return fmt.Errorf("entry %s: %w", e.ID, err)
	}
	if !e.Activity.Valid() {
		return fmt.Errorf("entry %s: unknown activity %q", e.ID, e.Activity)
	}
	return nil
}

// ValidateAll stops at the first invalid entry.
func ValidateAll(entries []Entry) error {
	for _, entry := range entries {
		if err := entry.Validate(); err != nil {
			return err
		}
	}
	return nil
}
