package importer

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"tsimport/internal/classify"
	"tsimport/internal/logger"
	"tsimport/internal/timeutil"
	"tsimport/reconcile"
	"tsimport/timesheet"
)

const (
	DefaultBaseRateLimit = 37.5
	DefaultSheetName     = "Timesheet"
)

var (
	ErrInvalidFilename = errors.New("Invalid filename format - cannot extract week info")
	ErrHeaderNotFound  = errors.New("Could not find PAYROLL CATEGORY header row")
)

// skippedCategories are row labels that never carry hours.
var skippedCategories = map[string]bool{
	"nan":              true,
	"null":             true,
	"payroll category": true,
	"total":            true,
	"totals":           true,
}

// BaseLimitError rejects a sheet whose base-rate hours exceed the weekly limit.
type BaseLimitError struct {
	Total float64
	Limit float64
}

func (e *BaseLimitError) Error() string {
	return fmt.Sprintf("Base Rate (%.1f hrs) exceeds %g limit. Please edit the timesheet.", e.Total, e.Limit)
}

// Outcome is the result of parsing one file. Err is nil on success; a
// failed outcome never carries entries.
type Outcome struct {
	File     string
	Anchor   timeutil.Anchor
	Entries  []timesheet.Entry
	PayHours map[classify.PayType]float64
	Warnings []string
	Err      error
}

func (o Outcome) Failed() bool {
	return o.Err != nil
}

// Reason is the operator-facing status line of the outcome.
func (o Outcome) Reason() string {
	if o.Err == nil {
		return "Success"
	}
	return o.Err.Error()
}

// Engine validates and extracts a single weekly timesheet.
type Engine struct {
	UserID          string
	BaseRateLimit   float64
	SheetName       string
	DateRowFallback bool
	Builder         timesheet.Builder
	Log             *logger.Logger
}

func (e *Engine) ParseFile(path string) Outcome {
	out := Outcome{File: filepath.Base(path)}
	log := e.logger().With().Str("file", out.File).Logger()

	meta, hasAnchor := ParseFilename(path)
	if !hasAnchor && !e.DateRowFallback {
		return out.fail(ErrInvalidFilename)
	}

	reader, err := readerForPath(path, e.sheetName())
	if err != nil {
		return out.fail(fmt.Errorf("could not read file: %w", err))
	}
	raw, err := reader.Read(path)
	if err != nil {
		return out.fail(fmt.Errorf("could not read file: %w", err))
	}

	headerRow, ok := FindHeaderRow(raw)
	if !ok {
		return out.fail(ErrHeaderNotFound)
	}
	table := Materialize(raw, headerRow)

	dates, hasDates := FindDateRow(table)
	switch {
	case hasAnchor:
		out.Anchor = meta.Anchor
		if meta.EndsOffSunday() {
			out.warn(log, fmt.Sprintf("file name date %s is a %s, not a Sunday; using the week starting %s",
				timeutil.ISODateString(meta.WeekEnding), meta.WeekEnding.Weekday(), timeutil.ISODateString(meta.Anchor.Monday())))
		}
		if !reconcile.CheckWeekHint(meta.Anchor, meta.WeekHint) {
			out.warn(log, fmt.Sprintf("file name says week %02d but %s starts ISO week %s",
				meta.WeekHint, timeutil.ISODateString(meta.Anchor.Monday()), meta.Anchor.WeekKey()))
		}
		if hasDates {
			for _, mismatch := range reconcile.CheckWeekDates(meta.Anchor, dates).Mismatches {
				out.warn(log, mismatch.String())
			}
		}
	case hasDates:
		anchor, _ := reconcile.AnchorFromDates(dates)
		out.Anchor = anchor
		out.warn(log, fmt.Sprintf("week %s taken from the in-sheet date row", anchor.WeekKey()))
	default:
		return out.fail(ErrInvalidFilename)
	}

	if total := baseHours(table); total > e.baseRateLimit() {
		return out.fail(&BaseLimitError{Total: total, Limit: e.baseRateLimit()})
	}

	entries, payHours, warnings := e.extract(table, out.Anchor, log)
	for _, warning := range warnings {
		out.warn(log, warning)
	}
	out.Entries = entries
	out.PayHours = payHours
	return out
}

func (e *Engine) extract(table Table, anchor timeutil.Anchor, log logger.Logger) ([]timesheet.Entry, map[classify.PayType]float64, []string) {
	entries := make([]timesheet.Entry, 0, 16)
	payHours := make(map[classify.PayType]float64, 2)
	var warnings []string

	for _, row := range table.Rows {
		category := row.Get(colPayrollCategory)
		if skipCategory(category) {
			continue
		}
		secondary := row.Get(colCustomerActivity)
		jobNo := row.Get(colJobNumber)
		if jobNo == "" {
			jobNo = row.Get(colJob)
		}
		classification := classify.Classify(category, secondary)

		produced := 0
		for offset, code := range timeutil.DayCodes {
			if !table.Has(code) {
				continue
			}
			hours, ok := parseHours(row.Get(code))
			if !ok || hours <= 0 {
				continue
			}
			entry := e.Builder.Build(timesheet.Params{
				UserID:            e.UserID,
				WeekKey:           anchor.WeekKey(),
				Day:               timeutil.DayName(offset),
				Date:              anchor.Date(offset),
				Hours:             hours,
				Category:          category,
				SecondaryActivity: secondary,
				JobNo:             jobNo,
			})
			entries = append(entries, entry)
			payHours[classification.PayType] += entry.HoursOnly
			produced++
		}

		if produced > 0 && classify.Unmatched(category, secondary) {
			log.Debug().Int("row", row.RowNumber).Str("category", category).Str("secondary", secondary).Msg("no activity rule matched, defaulting to Site")
			warnings = append(warnings, fmt.Sprintf("row %d: category %q has no activity rule, recorded as %s", row.RowNumber, category, classify.ActivitySite))
		}
	}

	return entries, payHours, warnings
}

// baseHours sums every numeric day cell of the base-rate rows.
func baseHours(table Table) float64 {
	total := 0.0
	for _, row := range table.Rows {
		if !classify.IsBaseCategory(row.Get(colPayrollCategory)) {
			continue
		}
		for _, code := range timeutil.DayCodes {
			if !table.Has(code) {
				continue
			}
			if hours, ok := parseHours(row.Get(code)); ok {
				total += hours
			}
		}
	}
	return total
}

func skipCategory(category string) bool {
	normalized := strings.ToLower(strings.TrimSpace(category))
	return normalized == "" || skippedCategories[normalized]
}

func (o Outcome) fail(err error) Outcome {
	o.Entries = nil
	o.PayHours = nil
	o.Err = err
	return o
}

func (o *Outcome) warn(log logger.Logger, message string) {
	o.Warnings = append(o.Warnings, message)
	log.Warn().Msg(message)
}

func (e *Engine) logger() logger.Logger {
	if e.Log != nil {
		return *e.Log
	}
	return logger.Nop()
}

func (e *Engine) baseRateLimit() float64 {
	if e.BaseRateLimit > 0 {
		return e.BaseRateLimit
	}
	return DefaultBaseRateLimit
}

func (e *Engine) sheetName() string {
	if strings.TrimSpace(e.SheetName) != "" {
		return e.SheetName
	}
	return DefaultSheetName
}
