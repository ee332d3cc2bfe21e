package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"tsimport/internal/classify"
	"tsimport/timesheet"

	_ "modernc.org/sqlite"
)

// SQLiteStore is the default local sink. It also backs export and delete.
type SQLiteStore struct {
	db    *sql.DB
	table string
}

func OpenSQLite(path, collection string) (*SQLiteStore, error) {
	table := collectionOrDefault(collection)
	if err := ValidateCollection(table); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}

	store := &SQLiteStore{db: db, table: table}
	if err := store.ensureSchema(); err != nil {
		_ = db.Close()
		return nil, err
	}

	return store, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) ensureSchema() error {
	for _, statement := range sqliteDialect.schemaStatements(s.table) {
		if _, err := s.db.Exec(statement); err != nil {
			return fmt.Errorf("create schema: %w", err)
		}
	}
	return nil
}

// WriteEntries upserts every entry by id in one transaction.
func (s *SQLiteStore) WriteEntries(ctx context.Context, entries []timesheet.Entry) (int, error) {
	if len(entries) == 0 {
		return 0, nil
	}
	if err := timesheet.ValidateAll(entries); err != nil {
		return 0, fmt.Errorf("validate entries: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin transaction: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, sqliteDialect.upsertStatement(s.table))
	if err != nil {
		_ = tx.Rollback()
		return 0, fmt.Errorf("prepare upsert statement: %w", err)
	}
	defer stmt.Close()

	for _, entry := range entries {
		args, err := entryArgs(entry)
		if err != nil {
			_ = tx.Rollback()
			return 0, err
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			_ = tx.Rollback()
			return 0, fmt.Errorf("upsert entry %s: %w", entry.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit transaction: %w", err)
	}

	return len(entries), nil
}

func (s *SQLiteStore) ListEntries(ctx context.Context, filter Filter) ([]timesheet.Entry, error) {
	where, args := filter.where(sqliteDialect)
	query := fmt.Sprintf(`
SELECT
	id,
	user_id,
	week_key,
	day,
	date,
	start_time,
	finish_time,
	break_duration,
	activity,
	job_no,
	is_nightshift,
	is_overnight,
	per_diem_type,
	notes,
	status,
	entry_mode,
	hours_only,
	created_at,
	updated_at
FROM %s%s
ORDER BY user_id, date, activity, id;
`, s.table, where)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query entries: %w", err)
	}
	defer rows.Close()

	entries := make([]timesheet.Entry, 0, 256)
	for rows.Next() {
		var (
			entry      timesheet.Entry
			activity   string
			createdRaw string
			updatedRaw string
		)

		if err := rows.Scan(
			&entry.ID,
			&entry.UserID,
			&entry.WeekKey,
			&entry.Day,
			&entry.Date,
			&entry.StartTime,
			&entry.FinishTime,
			&entry.BreakDuration,
			&activity,
			&entry.JobNo,
			&entry.IsNightshift,
			&entry.IsOvernight,
			&entry.PerDiemType,
			&entry.Notes,
			&entry.Status,
			&entry.EntryMode,
			&entry.HoursOnly,
			&createdRaw,
			&updatedRaw,
		); err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}
		entry.Activity = classify.ActivityType(activity)

		entry.CreatedAt, err = time.Parse(time.RFC3339Nano, createdRaw)
		if err != nil {
			return nil, fmt.Errorf("parse created_at %q: %w", createdRaw, err)
		}
		entry.UpdatedAt, err = time.Parse(time.RFC3339Nano, updatedRaw)
		if err != nil {
			return nil, fmt.Errorf("parse updated_at %q: %w", updatedRaw, err)
		}

		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate entries: %w", err)
	}

	return entries, nil
}

// DeleteEntries removes the rows matching filter; an empty filter clears
// the table.
func (s *SQLiteStore) DeleteEntries(ctx context.Context, filter Filter) (int64, error) {
	where, args := filter.where(sqliteDialect)
	res, err := s.db.ExecContext(ctx, fmt.Sprintf(`DELETE FROM %s%s;`, s.table, where), args...)
	if err != nil {
		return 0, fmt.Errorf("delete entries: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("read deleted row count: %w", err)
	}
	return rows, nil
}
