package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

const currentSchemaVersion = 1

// timeLayout is fixed-width so that ORDER BY on the text column is chronological.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// DB is a SQLite-backed store for folders, files and shares.
type DB struct {
	db   *sql.DB
	path string
}

// Open opens (creating if needed) the database at path and migrates it.
//
// Transactions begin with BEGIN IMMEDIATE so a transaction that reads a
// folder before writing it holds the write lock from the start.
func Open(ctx context.Context, path string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	dsn := path + "?_txlock=immediate&_pragma=busy_timeout(5000)&_pragma=foreign_keys(0)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
	}
	for _, pragma := range pragmas {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("%s: %w", pragma, err)
		}
	}

	s := &DB{db: db, path: path}
	if err := s.migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}

	return s, nil
}

// Path returns the database file path.
func (s *DB) Path() string {
	return s.path
}

// Ping verifies the database is reachable.
func (s *DB) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the database connection.
func (s *DB) Close() error {
	return s.db.Close()
}

func (s *DB) migrate(ctx context.Context) error {
	var version int
	if err := s.db.QueryRowContext(ctx, "SELECT version FROM schema_version LIMIT 1").Scan(&version); err != nil {
		// Table doesn't exist or is empty
		version = 0
	}
	if version >= currentSchemaVersion {
		return nil
	}

	if version < 1 {
		if err := s.migrateV1(ctx); err != nil {
			return fmt.Errorf("migrate to v1: %w", err)
		}
	}

	return nil
}

// migrateV1 creates the initial schema. Tables carry no foreign keys:
// deleting a folder leaves its files and shares behind.
func (s *DB) migrateV1(ctx context.Context) error {
	schema := `
		CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER PRIMARY KEY
		);

		CREATE TABLE IF NOT EXISTS folders (
			id TEXT PRIMARY KEY NOT NULL,
			name TEXT NOT NULL,
			owner_id TEXT NOT NULL,
			parent_folder_id TEXT,
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_folders_owner_id ON folders(owner_id);

		CREATE TABLE IF NOT EXISTS files (
			id TEXT PRIMARY KEY NOT NULL,
			folder_id TEXT NOT NULL,
			owner_id TEXT NOT NULL,
			name TEXT NOT NULL,
			size INTEGER NOT NULL DEFAULT 0,
			mime_type TEXT NOT NULL DEFAULT '',
			created_at TEXT NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_files_folder_id ON files(folder_id);

		CREATE TABLE IF NOT EXISTS shares (
			id TEXT PRIMARY KEY NOT NULL,
			resource_type TEXT NOT NULL CHECK (resource_type IN ('folder', 'file')),
			resource_id TEXT,
			folder_id TEXT,
			shared_with TEXT NOT NULL,
			owner_id TEXT NOT NULL,
			created_at TEXT NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_shares_shared_with ON shares(shared_with, folder_id);

		INSERT OR REPLACE INTO schema_version (version) VALUES (1);
	`
	_, err := s.db.ExecContext(ctx, schema)
	return err
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse timestamp %q: %w", s, err)
	}
	return t, nil
}

func nullableString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func stringPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	v := ns.String
	return &v
}

// maxInListIDs keeps IN lists well below SQLite's bound-variable limit.
const maxInListIDs = 500

// chunkIDs splits ids into slices of at most maxInListIDs.
func chunkIDs(ids []string) [][]string {
	var chunks [][]string
	for len(ids) > maxInListIDs {
		chunks = append(chunks, ids[:maxInListIDs])
		ids = ids[maxInListIDs:]
	}
	if len(ids) > 0 {
		chunks = append(chunks, ids)
	}
	return chunks
}

// placeholders returns "?, ?, ..." with n markers and ids as query args.
func placeholders(ids []string) (string, []any) {
	args := make([]any, len(ids))
	marks := make([]byte, 0, len(ids)*3)
	for i, id := range ids {
		if i > 0 {
			marks = append(marks, ", "...)
		}
		marks = append(marks, '?')
		args[i] = id
	}
	return string(marks), args
}
