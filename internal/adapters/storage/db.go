package storage

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// sqliteDSNPragmas mirrors the pragmas applied to every snapshot database.
const sqliteDSNPragmas = "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(ON)&_pragma=synchronous(NORMAL)"

// OpenSQLite opens (creating if needed) a SQLite snapshot database.
// PRE: path is a file path or ":memory:"
// POST: returns a live connection; caller must Close it and apply InitDB before writing
func OpenSQLite(ctx context.Context, path string) (*sql.DB, error) {
	dsn := path
	if path != ":memory:" {
		dsn = path + sqliteDSNPragmas
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// A snapshot file has exactly one writer: this process.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("database unreachable: %w", err)
	}
	return db, nil
}

// InitDB initializes the database schema.
// PRE: db is a valid database connection
// POST: event and snapshot tables exist
func InitDB(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS event (
		id INTEGER PRIMARY KEY,
		title TEXT NOT NULL,
		date TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT ''
	);

	CREATE INDEX IF NOT EXISTS idx_event_date ON event(date);

	CREATE TABLE IF NOT EXISTS snapshot (
		id TEXT PRIMARY KEY,
		saved_at TEXT NOT NULL,
		event_count INTEGER NOT NULL
	);
	`

	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}
