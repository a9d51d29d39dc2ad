// Package storage is the local history cache: the last known workouts and
// trainings, kept so read-only views work offline. It talks to a local
// SQLite file or a remote libSQL (Turso) database through database/sql.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	_ "github.com/tursodatabase/libsql-client-go/libsql"
	_ "modernc.org/sqlite"
)

const (
	driverLibSQL = "libsql"
	driverSQLite = "sqlite"
)

type Storage struct {
	DB     *sql.DB
	driver string
	log    logrus.FieldLogger
}

// driverFor picks the database/sql driver for a connection string. Remote
// URLs go to libsql; anything else is a SQLite file path or file: URI.
func driverFor(conn string) (driver, dsn string) {
	for _, scheme := range []string{"libsql://", "https://", "http://", "wss://", "ws://"} {
		if strings.HasPrefix(conn, scheme) {
			return driverLibSQL, conn
		}
	}
	return driverSQLite, conn
}

// localPath returns the file behind a SQLite DSN, or "" for in-memory ones.
func localPath(dsn string) string {
	p := strings.TrimPrefix(dsn, "file:")
	if i := strings.IndexByte(p, '?'); i >= 0 {
		p = p[:i]
	}
	if p == "" || p == ":memory:" {
		return ""
	}
	return p
}

// Open connects to the cache and makes sure the schema exists.
func Open(ctx context.Context, conn string, log logrus.FieldLogger) (*Storage, error) {
	if conn == "" {
		return nil, fmt.Errorf("Empty cache connection string")
	}
	if log == nil {
		log = logrus.StandardLogger()
	}

	driver, dsn := driverFor(conn)
	if driver == driverSQLite {
		if p := localPath(dsn); p != "" {
			if err := os.MkdirAll(filepath.Dir(p), 0o750); err != nil {
				return nil, fmt.Errorf("Failed to create cache directory: %w", err)
			}
		}
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("Failed to open cache: %w", err)
	}

	s := &Storage{DB: db, driver: driver, log: log.WithField("cache", driver)}
	if driver == driverSQLite {
		if err := s.configurePragmas(ctx); err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	if err := s.initializeDB(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("Failed to initialize cache: %w", err)
	}
	return s, nil
}

func (s *Storage) Close() error {
	return s.DB.Close()
}

func (s *Storage) configurePragmas(ctx context.Context) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA synchronous = NORMAL",
	}
	for _, pragma := range pragmas {
		if _, err := s.DB.ExecContext(ctx, pragma); err != nil {
			return fmt.Errorf("Failed to execute %s: %w", pragma, err)
		}
	}
	return nil
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS workouts (
		id TEXT PRIMARY KEY,
		training_id TEXT NOT NULL DEFAULT '',
		training_name TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL DEFAULT '',
		started_at TEXT NOT NULL DEFAULT '',
		completed_at TEXT NOT NULL DEFAULT '', -- RFC3339 UTC, for ordering
		payload TEXT NOT NULL,                 -- the workout as JSON
		synced_at TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_workouts_completed_at ON workouts (completed_at)`,
	`CREATE TABLE IF NOT EXISTS trainings (
		id TEXT PRIMARY KEY,
		position INTEGER NOT NULL,
		name TEXT NOT NULL,
		payload TEXT NOT NULL,
		synced_at TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS sync_state (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	)`,
}

// One statement per call; remote libsql does not take batches through Exec.
func (s *Storage) initializeDB(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := s.DB.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
