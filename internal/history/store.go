// Package history persists one record per hub build in a local SQLite
// database, for the `history` command.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// Record is one hub build.
type Record struct {
	ID        int64
	BuildID   string
	Hub       string
	Status    string // "success" or "failure"
	Modules   int
	Output    string
	Duration  time.Duration
	Timestamp time.Time
}

// Store is a SQLite-backed build history.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the history database at dbPath.
// Use ":memory:" for tests.
func Open(dbPath string) (*Store, error) {
	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0o750); err != nil {
			return nil, fmt.Errorf("create history directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open history database: %w", err)
	}
	s := &Store{db: db}
	if err := s.initialize(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initialize history schema: %w", err)
	}
	return s, nil
}

func (s *Store) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS builds (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		build_id TEXT NOT NULL,
		hub TEXT NOT NULL,
		status TEXT NOT NULL,
		modules INTEGER NOT NULL,
		output TEXT NOT NULL,
		duration_ms INTEGER NOT NULL,
		timestamp INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_builds_hub ON builds(hub);
	CREATE INDEX IF NOT EXISTS idx_builds_timestamp ON builds(timestamp);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Append adds one build record.
func (s *Store) Append(ctx context.Context, r Record) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO builds (build_id, hub, status, modules, output, duration_ms, timestamp) VALUES (?, ?, ?, ?, ?, ?, ?)",
		r.BuildID, r.Hub, r.Status, r.Modules, r.Output, r.Duration.Milliseconds(), r.Timestamp.Unix(),
	)
	if err != nil {
		return fmt.Errorf("insert build record: %w", err)
	}
	return nil
}

// Recent returns up to limit records, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Record, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, build_id, hub, status, modules, output, duration_ms, timestamp FROM builds ORDER BY id DESC LIMIT ?",
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query build records: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var r Record
		var durationMS, ts int64
		if err := rows.Scan(&r.ID, &r.BuildID, &r.Hub, &r.Status, &r.Modules, &r.Output, &durationMS, &ts); err != nil {
			return nil, fmt.Errorf("scan build record: %w", err)
		}
		r.Duration = time.Duration(durationMS) * time.Millisecond
		r.Timestamp = time.Unix(ts, 0)
		records = append(records, r)
	}
	return records, rows.Err()
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}
