package storage

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"tsimport/config"
)

func TestUpsertStatement_Postgres(t *testing.T) {
	t.Parallel()

	stmt := postgresDialect.upsertStatement("timesheets")
	if !strings.HasPrefix(stmt, "INSERT INTO timesheets (id, user_id,") {
		t.Fatalf("unexpected statement prefix: %s", stmt)
	}
	if !strings.Contains(stmt, "$19, $20::jsonb)") {
		t.Fatalf("expected numbered placeholders with jsonb cast: %s", stmt)
	}
	if !strings.Contains(stmt, "ON CONFLICT (id) DO UPDATE SET user_id = excluded.user_id") {
		t.Fatalf("expected upsert clause: %s", stmt)
	}
	if strings.Contains(stmt, " id = excluded.id") {
		t.Fatalf("id must not be updated: %s", stmt)
	}
}

func TestUpsertStatement_SQLite(t *testing.T) {
	t.Parallel()

	stmt := sqliteDialect.upsertStatement("timesheets")
	if got := strings.Count(stmt, "?"); got != len(entryColumns) {
		t.Fatalf("expected %d placeholders, got %d", len(entryColumns), got)
	}
	if strings.Contains(stmt, "::jsonb") {
		t.Fatalf("sqlite statement must not cast: %s", stmt)
	}
}

func TestFilterWhere(t *testing.T) {
	t.Parallel()

	where, args := Filter{UserID: "u1", WeekKey: "2025-W05"}.where(postgresDialect)
	if where != " WHERE user_id = $1 AND week_key = $2" || len(args) != 2 {
		t.Fatalf("unexpected where %q %v", where, args)
	}

	where, args = Filter{WeekKey: "2025-W05"}.where(sqliteDialect)
	if where != " WHERE week_key = ?" || len(args) != 1 {
		t.Fatalf("unexpected where %q %v", where, args)
	}

	if where, args = (Filter{}).where(sqliteDialect); where != "" || args != nil {
		t.Fatalf("expected empty filter, got %q %v", where, args)
	}
}

func TestValidateCollection(t *testing.T) {
	t.Parallel()

	for _, name := range []string{"timesheets", "ts_2025", "_x"} {
		if err := ValidateCollection(name); err != nil {
			t.Fatalf("%q: unexpected error %v", name, err)
		}
	}
	for _, name := range []string{"", "Timesheets", "1ts", "ts-x", "ts;drop"} {
		if err := ValidateCollection(name); err == nil {
			t.Fatalf("%q: expected error", name)
		}
	}
}

func TestRedisKeys(t *testing.T) {
	t.Parallel()

	if got := entryKey("timesheets", "abc"); got != "timesheets:abc" {
		t.Fatalf("unexpected entry key %q", got)
	}
	if got := weekIndexKey("timesheets", "2025-W05", "u1"); got != "timesheets:week:2025-W05:u1" {
		t.Fatalf("unexpected index key %q", got)
	}
}

func TestDescribePgError(t *testing.T) {
	t.Parallel()

	original := &pgconn.PgError{Code: "23514", Message: "new row violates check constraint", ConstraintName: "timesheets_hours_only_check"}
	err := describePgError(original)
	if !strings.Contains(err.Error(), "SQLSTATE 23514") || !strings.Contains(err.Error(), "timesheets_hours_only_check") {
		t.Fatalf("unexpected message %q", err.Error())
	}
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr != original {
		t.Fatalf("expected original error to stay reachable")
	}

	plain := errors.New("boom")
	if describePgError(plain) != plain {
		t.Fatalf("expected non-pg errors to pass through")
	}
}

func TestOpen_UnsupportedBackend(t *testing.T) {
	t.Parallel()

	if _, err := Open(context.Background(), config.SinkConfig{Backend: "mongo"}); err == nil {
		t.Fatalf("expected unsupported backend error")
	}
}
