// Package history records compare runs in a SQLite database so that
// regressions can be traced across generator versions.
package history

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

// Status is the outcome of a recorded run.
type Status string

const (
	// StatusEquivalent means no reportable differences were found.
	StatusEquivalent Status = "equivalent"
	// StatusDifferent means the outputs differ.
	StatusDifferent Status = "different"
	// StatusFailed means generation or extraction failed.
	StatusFailed Status = "failed"
)

// timeFormat is fixed width so stored timestamps sort lexically.
const timeFormat = "2006-01-02T15:04:05.000000000Z07:00"

// Run is one comparison of a spec for one language.
type Run struct {
	ID         string
	StartedAt  time.Time
	FinishedAt time.Time
	Language   string
	SpecPath   string
	Status     Status
	Added      int
	Removed    int
	Changed    int
	Error      string
}

// NewRunID returns a fresh run identifier.
func NewRunID() string {
	return uuid.NewString()
}

const createRunsTable = `
CREATE TABLE IF NOT EXISTS runs (
    id TEXT PRIMARY KEY,
    started_at TEXT NOT NULL,
    finished_at TEXT NOT NULL,
    language TEXT NOT NULL,
    spec_path TEXT NOT NULL,
    status TEXT NOT NULL,
    added INTEGER NOT NULL DEFAULT 0,
    removed INTEGER NOT NULL DEFAULT 0,
    changed INTEGER NOT NULL DEFAULT 0,
    error TEXT NOT NULL DEFAULT ''
)`

const createRunsIndex = `CREATE INDEX IF NOT EXISTS idx_runs_started_at ON runs(started_at)`

// Store reads and writes run records.
type Store struct {
	db     *sql.DB
	ownsDB bool
}

// Open opens (creating if needed) the history database at path.
func Open(path string) (*Store, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("failed to create history directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}
	// A single connection keeps :memory: databases shared across calls.
	db.SetMaxOpenConns(1)

	store, err := NewStore(db)
	if err != nil {
		db.Close()
		return nil, err
	}
	store.ownsDB = true
	return store, nil
}

// NewStore wraps an existing connection and creates the schema if needed.
// The caller keeps ownership of db.
func NewStore(db *sql.DB) (*Store, error) {
	if err := CreateSchema(db); err != nil {
		return nil, err
	}
	return &Store{db: db}, nil
}

// CreateSchema creates the runs table and its index.
func CreateSchema(db *sql.DB) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin schema transaction: %w", err)
	}
	defer tx.Rollback() // Safe to call even after commit

	for _, ddl := range []string{createRunsTable, createRunsIndex} {
		if _, err := tx.Exec(ddl); err != nil {
			return fmt.Errorf("failed to create history schema: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit schema transaction: %w", err)
	}
	return nil
}

// Record writes a run. An empty ID is replaced with a new one.
func (s *Store) Record(run *Run) error {
	if run.ID == "" {
		run.ID = NewRunID()
	}

	_, err := sq.Insert("runs").
		Columns(
			"id", "started_at", "finished_at", "language", "spec_path",
			"status", "added", "removed", "changed", "error",
		).
		Values(
			run.ID,
			run.StartedAt.UTC().Format(timeFormat),
			run.FinishedAt.UTC().Format(timeFormat),
			run.Language,
			run.SpecPath,
			string(run.Status),
			run.Added,
			run.Removed,
			run.Changed,
			run.Error,
		).
		Options("OR REPLACE").
		RunWith(s.db).
		Exec()
	if err != nil {
		return fmt.Errorf("failed to record run %s: %w", run.ID, err)
	}
	return nil
}

// Recent returns up to limit runs, newest first. A limit of 0 returns all runs.
func (s *Store) Recent(limit int) ([]*Run, error) {
	query := sq.Select(
		"id", "started_at", "finished_at", "language", "spec_path",
		"status", "added", "removed", "changed", "error",
	).
		From("runs").
		OrderBy("started_at DESC", "id")
	if limit > 0 {
		query = query.Limit(uint64(limit))
	}

	rows, err := query.RunWith(s.db).Query()
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var runs []*Run
	for rows.Next() {
		var (
			run               Run
			started, finished string
			status            string
		)
		if err := rows.Scan(
			&run.ID, &started, &finished, &run.Language, &run.SpecPath,
			&status, &run.Added, &run.Removed, &run.Changed, &run.Error,
		); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		run.Status = Status(status)
		if run.StartedAt, err = time.Parse(timeFormat, started); err != nil {
			return nil, fmt.Errorf("invalid started_at for run %s: %w", run.ID, err)
		}
		if run.FinishedAt, err = time.Parse(timeFormat, finished); err != nil {
			return nil, fmt.Errorf("invalid finished_at for run %s: %w", run.ID, err)
		}
		runs = append(runs, &run)
	}
	return runs, rows.Err()
}

// Close closes the database if the store opened it.
func (s *Store) Close() error {
	if s.ownsDB {
		return s.db.Close()
	}
	return nil
}
