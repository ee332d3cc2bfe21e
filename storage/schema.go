package storage

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"

	"tsimport/timesheet"
)

const DefaultCollection = "timesheets"

var collectionPattern = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

// entryColumns is the column order shared by every SQL backend. The last
// column holds the full JSON document.
var entryColumns = []string{
	"id",
	"user_id",
	"week_key",
	"day",
	"date",
	"start_time",
	"finish_time",
	"break_duration",
	"activity",
	"job_no",
	"is_nightshift",
	"is_overnight",
	"per_diem_type",
	"notes",
	"status",
	"entry_mode",
	"hours_only",
	"created_at",
	"updated_at",
	"document",
}

// dialect captures what differs between the SQL backends.
type dialect struct {
	boolType     string
	realType     string
	documentType string
	documentCast string
	placeholder  func(position int) string
}

var sqliteDialect = dialect{
	boolType:     "INTEGER",
	realType:     "REAL",
	documentType: "TEXT",
	placeholder:  func(int) string { return "?" },
}

var postgresDialect = dialect{
	boolType:     "BOOLEAN",
	realType:     "DOUBLE PRECISION",
	documentType: "JSONB",
	documentCast: "::jsonb",
	placeholder:  func(position int) string { return fmt.Sprintf("$%d", position) },
}

// ValidateCollection rejects names that cannot be used as a bare SQL
// identifier or key prefix.
func ValidateCollection(name string) error {
	if !collectionPattern.MatchString(name) {
		return fmt.Errorf("invalid collection name %q: use lower-case letters, digits and underscores", name)
	}
	return nil
}

func collectionOrDefault(name string) string {
	if strings.TrimSpace(name) == "" {
		return DefaultCollection
	}
	return name
}

func (d dialect) schemaStatements(table string) []string {
	return []string{
		fmt.Sprintf(`
CREATE TABLE IF NOT EXISTS %s (
	id TEXT PRIMARY KEY,
	user_id TEXT NOT NULL,
	week_key TEXT NOT NULL,
	day TEXT NOT NULL,
	date TEXT NOT NULL,
	start_time TEXT NOT NULL DEFAULT '',
	finish_time TEXT NOT NULL DEFAULT '',
	break_duration %[2]s NOT NULL DEFAULT 0,
	activity TEXT NOT NULL,
	job_no TEXT NOT NULL DEFAULT '',
	is_nightshift %[3]s NOT NULL,
	is_overnight %[3]s NOT NULL,
	per_diem_type TEXT NOT NULL,
	notes TEXT NOT NULL DEFAULT '',
	status TEXT NOT NULL,
	entry_mode TEXT NOT NULL,
	hours_only %[2]s NOT NULL CHECK(hours_only >= 0),
	created_at TEXT NOT NULL,
	updated_at TEXT NOT NULL,
	document %[4]s NOT NULL
);`, table, d.realType, d.boolType, d.documentType),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %[1]s_user_week_idx ON %[1]s (user_id, week_key);`, table),
	}
}

// upsertStatement inserts one entry, replacing every column of an existing
// row with the same id.
func (d dialect) upsertStatement(table string) string {
	values := make([]string, len(entryColumns))
	updates := make([]string, 0, len(entryColumns)-1)
	for i, column := range entryColumns {
		values[i] = d.placeholder(i + 1)
		if column == "document" {
			values[i] += d.documentCast
		}
		if column != "id" {
			updates = append(updates, fmt.Sprintf("%s = excluded.%s", column, column))
		}
	}

	return fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (%s) ON CONFLICT (id) DO UPDATE SET %s;",
		table,
		strings.Join(entryColumns, ", "),
		strings.Join(values, ", "),
		strings.Join(updates, ", "),
	)
}

// entryArgs returns the statement arguments for entry in entryColumns order.
func entryArgs(entry timesheet.Entry) ([]any, error) {
	document, err := json.Marshal(entry)
	if err != nil {
		return nil, fmt.Errorf("encode entry %s: %w", entry.ID, err)
	}

	return []any{
		entry.ID,
		entry.UserID,
		entry.WeekKey,
		entry.Day,
		entry.Date,
		entry.StartTime,
		entry.FinishTime,
		entry.BreakDuration,
		string(entry.Activity),
		entry.JobNo,
		entry.IsNightshift,
		entry.IsOvernight,
		entry.PerDiemType,
		entry.Notes,
		entry.Status,
		entry.EntryMode,
		entry.HoursOnly,
		entry.CreatedAt.UTC().Format(time.RFC3339Nano),
		entry.UpdatedAt.UTC().Format(time.RFC3339Nano),
		string(document),
	}, nil
}

// Filter narrows list and delete operations. Empty fields match everything.
type Filter struct {
	UserID  string
	WeekKey string
}

func (f Filter) where(d dialect) (string, []any) {
	clauses := make([]string, 0, 2)
	args := make([]any, 0, 2)
	if f.UserID != "" {
		args = append(args, f.UserID)
		clauses = append(clauses, "user_id = "+d.placeholder(len(args)))
	}
	if f.WeekKey != "" {
		args = append(args, f.WeekKey)
		clauses = append(clauses, "week_key = "+d.placeholder(len(args)))
	}
	if len(clauses) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}
