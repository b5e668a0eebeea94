// Package store keeps a SQLite history of pipeline runs: run metadata, the
// cleaned site scores and the stewardship summary of each run.
package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	_ "modernc.org/sqlite"

	"bioretention/internal/logging"
)

// Store manages the run history database.
type Store struct {
	db     *sql.DB
	dbPath string
	mu     sync.Mutex
}

// Open creates or opens the run history database at path.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	db, err := sql.Open("sqlite", path+"?_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// One writer; the pure-Go driver serializes anyway
	db.SetMaxOpenConns(1)

	s := &Store{db: db, dbPath: path}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	if err := RunMigrations(db); err != nil {
		db.Close()
		return nil, err
	}
	logging.Get(logging.CategoryStore).Debugw("run history opened", "path", path)
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.dbPath
}

// initSchema creates the database schema.
func (s *Store) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		started_at TEXT NOT NULL,
		workbook TEXT NOT NULL,
		sites_before INTEGER NOT NULL,
		sites_after INTEGER NOT NULL,
		paired INTEGER NOT NULL,
		outputs_json TEXT NOT NULL DEFAULT '[]'
	);
	CREATE INDEX IF NOT EXISTS idx_runs_started ON runs(started_at);

	CREATE TABLE IF NOT EXISTS site_scores (
		run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
		year INTEGER NOT NULL,
		gri_id TEXT NOT NULL,
		stewardship TEXT NOT NULL,
		score REAL NOT NULL,
		PRIMARY KEY (run_id, year, gri_id)
	);

	CREATE TABLE IF NOT EXISTS stewardship_summary (
		run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
		stewardship TEXT NOT NULL,
		paired INTEGER NOT NULL,
		mean_change REAL,
		pct_improved REAL,
		PRIMARY KEY (run_id, stewardship)
	);
	`
	_, err := s.db.Exec(schema)
	return err
}
