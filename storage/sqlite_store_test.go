package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"tsimport/internal/classify"
	"tsimport/timesheet"
)

func openTestStore(t *testing.T) *SQLiteStore {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "tsimport_test.db")
	store, err := OpenSQLite(dbPath, "")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func testEntry(t *testing.T, id, userID, weekKey, day, date string, hours float64, category string) timesheet.Entry {
	t.Helper()

	parsed, err := time.ParseInLocation("2006-01-02", date, time.Local)
	if err != nil {
		t.Fatalf("parse date %q: %v", date, err)
	}
	builder := timesheet.Builder{
		Now:   func() time.Time { return time.Date(2025, 2, 3, 9, 30, 0, 123000000, time.UTC) },
		NewID: func() string { return id },
	}
	return builder.Build(timesheet.Params{
		UserID:   userID,
		WeekKey:  weekKey,
		Day:      day,
		Date:     parsed,
		Hours:    hours,
		Category: category,
		JobNo:    "J-1",
	})
}

func TestSQLiteStore_WriteAndListEntries(t *testing.T) {
	t.Parallel()

	store := openTestStore(t)
	ctx := context.Background()

	entries := []timesheet.Entry{
		testEntry(t, "a", "u1", "2025-W05", "Tuesday", "2025-01-28", 8, "Base Hourly"),
		testEntry(t, "b", "u1", "2025-W05", "Monday", "2025-01-27", 2, "Travel"),
		testEntry(t, "c", "u2", "2025-W06", "Monday", "2025-02-03", 7.5, "Workshop"),
	}

	written, err := store.WriteEntries(ctx, entries)
	if err != nil {
		t.Fatalf("write entries: %v", err)
	}
	if written != 3 {
		t.Fatalf("expected 3 written, got %d", written)
	}

	listed, err := store.ListEntries(ctx, Filter{UserID: "u1", WeekKey: "2025-W05"})
	if err != nil {
		t.Fatalf("list entries: %v", err)
	}
	if len(listed) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(listed))
	}
	first := listed[0]
	if first.ID != "b" || first.Activity != classify.ActivityTravel || first.HoursOnly != 2 {
		t.Fatalf("unexpected first entry %+v", first)
	}
	if first.PerDiemType != timesheet.PerDiemNone || first.IsNightshift || first.EntryMode != timesheet.EntryModeSimplified {
		t.Fatalf("unexpected defaults after round trip %+v", first)
	}
	if !first.CreatedAt.Equal(entries[1].CreatedAt) {
		t.Fatalf("expected created_at %s, got %s", entries[1].CreatedAt, first.CreatedAt)
	}

	all, err := store.ListEntries(ctx, Filter{})
	if err != nil {
		t.Fatalf("list all entries: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(all))
	}
}

func TestSQLiteStore_UpsertsByID(t *testing.T) {
	t.Parallel()

	store := openTestStore(t)
	ctx := context.Background()

	entry := testEntry(t, "same", "u1", "2025-W05", "Monday", "2025-01-27", 4, "Base Hourly")
	if _, err := store.WriteEntries(ctx, []timesheet.Entry{entry}); err != nil {
		t.Fatalf("write entries: %v", err)
	}
	entry.HoursOnly = 6
	entry.Notes = "corrected"
	if _, err := store.WriteEntries(ctx, []timesheet.Entry{entry}); err != nil {
		t.Fatalf("rewrite entries: %v", err)
	}

	listed, err := store.ListEntries(ctx, Filter{})
	if err != nil {
		t.Fatalf("list entries: %v", err)
	}
	if len(listed) != 1 || listed[0].HoursOnly != 6 || listed[0].Notes != "corrected" {
		t.Fatalf("expected a single updated row, got %+v", listed)
	}
}

func TestSQLiteStore_InvalidBatchWritesNothing(t *testing.T) {
	t.Parallel()

	store := openTestStore(t)
	ctx := context.Background()

	bad := testEntry(t, "bad", "u1", "2025-W05", "Funday", "2025-01-27", 1, "Base Hourly")
	good := testEntry(t, "good", "u1", "2025-W05", "Monday", "2025-01-27", 1, "Base Hourly")
	if _, err := store.WriteEntries(ctx, []timesheet.Entry{good, bad}); err == nil {
		t.Fatalf("expected validation error")
	}

	listed, err := store.ListEntries(ctx, Filter{})
	if err != nil {
		t.Fatalf("list entries: %v", err)
	}
	if len(listed) != 0 {
		t.Fatalf("expected no rows after rejected batch, got %d", len(listed))
	}
}

func TestSQLiteStore_DeleteEntries(t *testing.T) {
	t.Parallel()

	store := openTestStore(t)
	ctx := context.Background()

	entries := []timesheet.Entry{
		testEntry(t, "a", "u1", "2025-W05", "Monday", "2025-01-27", 8, "Base Hourly"),
		testEntry(t, "b", "u1", "2025-W06", "Monday", "2025-02-03", 8, "Base Hourly"),
		testEntry(t, "c", "u2", "2025-W05", "Monday", "2025-01-27", 8, "Base Hourly"),
	}
	if _, err := store.WriteEntries(ctx, entries); err != nil {
		t.Fatalf("write entries: %v", err)
	}

	deleted, err := store.DeleteEntries(ctx, Filter{UserID: "u1", WeekKey: "2025-W05"})
	if err != nil {
		t.Fatalf("delete entries: %v", err)
	}
	if deleted != 1 {
		t.Fatalf("expected 1 deleted row, got %d", deleted)
	}

	deleted, err = store.DeleteEntries(ctx, Filter{})
	if err != nil {
		t.Fatalf("delete all entries: %v", err)
	}
	if deleted != 2 {
		t.Fatalf("expected 2 deleted rows, got %d", deleted)
	}
}

func TestOpenSQLite_RejectsUnsafeCollection(t *testing.T) {
	t.Parallel()

	if _, err := OpenSQLite(filepath.Join(t.TempDir(), "x.db"), "time sheets; drop"); err == nil {
		t.Fatalf("expected invalid collection error")
	}
}
