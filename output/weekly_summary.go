package output

import (
	"fmt"
	"math"
	"sort"
	"strconv"

	"tsimport/internal/classify"
	"tsimport/timesheet"
)

// TargetWeeklyHours is the contracted week that utilization is measured against.
const TargetWeeklyHours = 37.5

type WeeklySummary struct {
	UserID          string                            `json:"userId"`
	WeekKey         string                            `json:"weekKey"`
	TotalHours      float64                           `json:"totalHours"`
	ChargeableHours float64                           `json:"chargeableHours"`
	Utilization     float64                           `json:"utilization"`
	DaysWorked      int                               `json:"daysWorked"`
	EntryCount      int                               `json:"entryCount"`
	ActivityHours   map[classify.ActivityType]float64 `json:"activityHours"`
}

type weekGroup struct {
	userID  string
	weekKey string
}

// BuildWeeklySummaries totals entries per user and ISO week, ordered by user
// then week.
func BuildWeeklySummaries(entries []timesheet.Entry) []WeeklySummary {
	if len(entries) == 0 {
		return []WeeklySummary{}
	}

	byWeek := make(map[weekGroup][]timesheet.Entry)
	for _, entry := range entries {
		key := weekGroup{userID: entry.UserID, weekKey: entry.WeekKey}
		byWeek[key] = append(byWeek[key], entry)
	}

	keys := make([]weekGroup, 0, len(byWeek))
	for key := range byWeek {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].userID == keys[j].userID {
			return keys[i].weekKey < keys[j].weekKey
		}
		return keys[i].userID < keys[j].userID
	})

	summaries := make([]WeeklySummary, 0, len(keys))
	for _, key := range keys {
		summaries = append(summaries, summarizeWeek(key, byWeek[key]))
	}
	return summaries
}

func summarizeWeek(key weekGroup, entries []timesheet.Entry) WeeklySummary {
	summary := WeeklySummary{
		UserID:        key.userID,
		WeekKey:       key.weekKey,
		EntryCount:    len(entries),
		ActivityHours: make(map[classify.ActivityType]float64),
	}

	days := make(map[string]struct{}, 7)
	for _, entry := range entries {
		summary.TotalHours += entry.HoursOnly
		summary.ActivityHours[entry.Activity] += entry.HoursOnly
		if entry.Activity.Chargeable() {
			summary.ChargeableHours += entry.HoursOnly
		}
		days[entry.Date] = struct{}{}
	}

	summary.DaysWorked = len(days)
	summary.TotalHours = roundHours(summary.TotalHours)
	summary.ChargeableHours = roundHours(summary.ChargeableHours)
	for activity, hours := range summary.ActivityHours {
		summary.ActivityHours[activity] = roundHours(hours)
	}
	summary.Utilization = roundHours(summary.ChargeableHours / TargetWeeklyHours * 100)

	return summary
}

func roundHours(value float64) float64 {
	return math.Round(value*100) / 100
}

func WriteWeeklySummaries(path, format string, summaries []WeeklySummary) error {
	switch normalizeFormat(format) {
	case "csv":
		rows := make([][]string, 0, len(summaries))
		for _, summary := range summaries {
			rows = append(rows, summaryRow(summary))
		}
		return writeCSV(path, summaryHeaders(), rows)
	case "excel", "xlsx":
		rows := make([][]any, 0, len(summaries))
		for _, summary := range summaries {
			rows = append(rows, summaryExcelRow(summary))
		}
		return writeExcel(path, summaryHeaders(), rows)
	case "json":
		if summaries == nil {
			summaries = []WeeklySummary{}
		}
		return writeJSON(path, summaries)
	default:
		return fmt.Errorf("unsupported output format for weekly summaries: %s", format)
	}
}

func summaryHeaders() []string {
	headers := []string{"UserID", "WeekKey", "TotalHours", "ChargeableHours", "Utilization", "DaysWorked", "EntryCount"}
	for _, activity := range classify.ActivityTypes {
		headers = append(headers, string(activity))
	}
	return headers
}

func summaryRow(summary WeeklySummary) []string {
	row := []string{
		summary.UserID,
		summary.WeekKey,
		fmt.Sprintf("%.2f", summary.TotalHours),
		fmt.Sprintf("%.2f", summary.ChargeableHours),
		fmt.Sprintf("%.2f", summary.Utilization),
		strconv.Itoa(summary.DaysWorked),
		strconv.Itoa(summary.EntryCount),
	}
	for _, activity := range classify.ActivityTypes {
		row = append(row, fmt.Sprintf("%.2f", summary.ActivityHours[activity]))
	}
	return row
}

func summaryExcelRow(summary WeeklySummary) []any {
	row := []any{
		summary.UserID,
		summary.WeekKey,
		summary.TotalHours,
		summary.ChargeableHours,
		summary.Utilization,
		summary.DaysWorked,
		summary.EntryCount,
	}
	for _, activity := range classify.ActivityTypes {
		row = append(row, summary.ActivityHours[activity])
	}
	return row
}
