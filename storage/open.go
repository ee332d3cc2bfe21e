package storage

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"tsimport/config"
	"tsimport/timesheet"
)

const (
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
	BackendRedis    = "redis"
)

// Store is a sink that owns a connection.
type Store interface {
	WriteEntries(ctx context.Context, entries []timesheet.Entry) (int, error)
	Close() error
}

// Open connects the backend selected by cfg.Backend.
func Open(ctx context.Context, cfg config.SinkConfig) (Store, error) {
	if err := CheckSettings(cfg); err != nil {
		return nil, err
	}
	switch backendName(cfg.Backend) {
	case BackendSQLite:
		return OpenSQLite(cfg.SQLitePath, cfg.Collection)
	case BackendPostgres:
		return OpenPostgres(ctx, cfg.PostgresDSN, cfg.Collection)
	case BackendRedis:
		return OpenRedis(ctx, RedisOptions{
			Addr:       cfg.RedisAddr,
			Password:   cfg.RedisPassword,
			DB:         cfg.RedisDB,
			Collection: cfg.Collection,
		})
	default:
		return nil, fmt.Errorf("unsupported sink backend: %s", cfg.Backend)
	}
}

// CheckSettings validates the sink settings without connecting: the
// collection name, the SQLite parent directory, the Postgres DSN syntax and
// the Redis host:port.
func CheckSettings(cfg config.SinkConfig) error {
	if err := ValidateCollection(collectionOrDefault(cfg.Collection)); err != nil {
		return err
	}

	switch backendName(cfg.Backend) {
	case BackendSQLite:
		if strings.TrimSpace(cfg.SQLitePath) == "" {
			return errors.New("sink.sqlite_path is empty")
		}
		dir := filepath.Dir(cfg.SQLitePath)
		info, err := os.Stat(dir)
		if err != nil {
			return fmt.Errorf("sqlite directory %s: %w", dir, err)
		}
		if !info.IsDir() {
			return fmt.Errorf("sqlite directory %s is not a directory", dir)
		}
	case BackendPostgres:
		if strings.TrimSpace(cfg.PostgresDSN) == "" {
			return errors.New("sink.postgres_dsn is empty")
		}
		if _, err := pgconn.ParseConfig(cfg.PostgresDSN); err != nil {
			return fmt.Errorf("parse postgres dsn: %w", err)
		}
	case BackendRedis:
		if _, _, err := net.SplitHostPort(cfg.RedisAddr); err != nil {
			return fmt.Errorf("sink.redis_addr %q: %w", cfg.RedisAddr, err)
		}
		if cfg.RedisDB < 0 {
			return fmt.Errorf("sink.redis_db must not be negative, got %d", cfg.RedisDB)
		}
	default:
		return fmt.Errorf("unsupported sink backend: %s", cfg.Backend)
	}
	return nil
}

// Describe names the destination cfg resolves to. Credentials are left out.
func Describe(cfg config.SinkConfig) string {
	collection := collectionOrDefault(cfg.Collection)
	switch backendName(cfg.Backend) {
	case BackendSQLite:
		return fmt.Sprintf("sqlite file %s, collection %s", cfg.SQLitePath, collection)
	case BackendPostgres:
		parsed, err := pgconn.ParseConfig(cfg.PostgresDSN)
		if err != nil || strings.TrimSpace(cfg.PostgresDSN) == "" {
			return fmt.Sprintf("postgres (invalid dsn), collection %s", collection)
		}
		return fmt.Sprintf("postgres %s:%d/%s as %s, collection %s", parsed.Host, parsed.Port, parsed.Database, parsed.User, collection)
	case BackendRedis:
		return fmt.Sprintf("redis %s db %d, collection %s", cfg.RedisAddr, cfg.RedisDB, collection)
	default:
		return fmt.Sprintf("unsupported backend %q", cfg.Backend)
	}
}

func backendName(value string) string {
	name := strings.ToLower(strings.TrimSpace(value))
	if name == "" {
		return BackendSQLite
	}
	return name
}
