package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"
	"tsimport/timesheet"
)

const postgresConnectTimeout = 10 * time.Second

// PostgresStore writes entries into a Postgres table with a JSONB copy of
// every document.
type PostgresStore struct {
	db    *sql.DB
	table string
}

func OpenPostgres(ctx context.Context, dsn, collection string) (*PostgresStore, error) {
	table := collectionOrDefault(collection)
	if err := ValidateCollection(table); err != nil {
		return nil, err
	}

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres db: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, postgresConnectTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres db: %w", describePgError(err))
	}

	store := &PostgresStore{db: db, table: table}
	if err := store.ensureSchema(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}

	return store, nil
}

func (s *PostgresStore) Close() error {
	return s.db.Close()
}

func (s *PostgresStore) ensureSchema(ctx context.Context) error {
	for _, statement := range postgresDialect.schemaStatements(s.table) {
		if _, err := s.db.ExecContext(ctx, statement); err != nil {
			return fmt.Errorf("create schema: %w", describePgError(err))
		}
	}
	return nil
}

// WriteEntries upserts every entry by id in one transaction.
func (s *PostgresStore) WriteEntries(ctx context.Context, entries []timesheet.Entry) (int, error) {
	if len(entries) == 0 {
		return 0, nil
	}
	if err := timesheet.ValidateAll(entries); err != nil {
		return 0, fmt.Errorf("validate entries: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin transaction: %w", describePgError(err))
	}

	stmt, err := tx.PrepareContext(ctx, postgresDialect.upsertStatement(s.table))
	if err != nil {
		_ = tx.Rollback()
		return 0, fmt.Errorf("prepare upsert statement: %w", describePgError(err))
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
			return 0, fmt.Errorf("upsert entry %s: %w", entry.ID, describePgError(err))
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit transaction: %w", describePgError(err))
	}

	return len(entries), nil
}

// pgError adds the SQLSTATE and constraint of a server error to its message
// while keeping the original error reachable through errors.As.
type pgError struct {
	err *pgconn.PgError
}

func (e *pgError) Error() string {
	if e.err.ConstraintName != "" {
		return fmt.Sprintf("%s (SQLSTATE %s, constraint %s)", e.err.Message, e.err.Code, e.err.ConstraintName)
	}
	return fmt.Sprintf("%s (SQLSTATE %s)", e.err.Message, e.err.Code)
}

func (e *pgError) Unwrap() error {
	return e.err
}

func describePgError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return &pgError{err: pgErr}
	}
	return err
}
