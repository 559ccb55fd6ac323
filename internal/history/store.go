// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package history persists a record of rename runs in a local SQLite
// database. The record answers "what did a run do"; it is not an undo
// mechanism and stores no file contents.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/pdf-renamer/pkg/types"
)

const dbFile = "history.db"

// Store manages the run-history SQLite database.
type Store struct {
	db *sql.DB
}

// Run is one recorded batch.
type Run struct {
	ID        int64
	StartedAt time.Time
	Directory string
	Renamed   int
	Skipped   int
	Encrypted int
	Failed    int
}

// DefaultDir returns the default history location under the user's data
// directory.
func DefaultDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolving home directory: %w", err)
	}
	return filepath.Join(home, ".local", "share", "pdf-renamer"), nil
}

// NewStore opens or creates the history database in cfg.Dir (or the
// default data directory) and creates the schema if it does not exist.
func NewStore(cfg types.HistoryConfig) (*Store, error) {
	dir := cfg.Dir
	if dir == "" {
		var err error
		dir, err = DefaultDir()
		if err != nil {
			return nil, err
		}
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating history directory: %w", err)
	}

	dbPath := filepath.Join(dir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			started_at TEXT NOT NULL,
			directory TEXT NOT NULL,
			renamed INTEGER NOT NULL,
			skipped INTEGER NOT NULL,
			encrypted INTEGER NOT NULL,
			failed INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS results (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id INTEGER NOT NULL REFERENCES runs(id),
			original TEXT NOT NULL,
			author TEXT,
			title TEXT,
			new_name TEXT NOT NULL,
			status TEXT NOT NULL,
			error TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_results_run_id ON results(run_id)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Record stores one completed run with its per-document results and
// returns the new run ID. The insert is transactional: a half-recorded run
// never appears in history.
func (s *Store) Record(ctx context.Context, run Run, results []types.RenameResult) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO runs (started_at, directory, renamed, skipped, encrypted, failed)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		run.StartedAt.UTC().Format(time.RFC3339), run.Directory,
		run.Renamed, run.Skipped, run.Encrypted, run.Failed)
	if err != nil {
		return 0, fmt.Errorf("inserting run: %w", err)
	}

	runID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading run ID: %w", err)
	}

	for _, r := range results {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO results (run_id, original, author, title, new_name, status, error)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			runID, r.Original, r.Author, r.Title, r.NewName, string(r.Status), r.Err); err != nil {
			return 0, fmt.Errorf("inserting result for %s: %w", r.Original, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing run: %w", err)
	}
	return runID, nil
}

// Runs returns the most recent runs, newest first.
func (s *Store) Runs(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, started_at, directory, renamed, skipped, encrypted, failed
		 FROM runs ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var started string
		if err := rows.Scan(&r.ID, &started, &r.Directory, &r.Renamed, &r.Skipped, &r.Encrypted, &r.Failed); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		if t, err := time.Parse(time.RFC3339, started); err == nil {
			r.StartedAt = t
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// Results returns the per-document rows of one run in processing order.
func (s *Store) Results(ctx context.Context, runID int64) ([]types.RenameResult, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT original, author, title, new_name, status, error
		 FROM results WHERE run_id = ? ORDER BY rowid`, runID)
	if err != nil {
		return nil, fmt.Errorf("querying results: %w", err)
	}
	defer rows.Close()

	var results []types.RenameResult
	for rows.Next() {
		var r types.RenameResult
		var status string
		if err := rows.Scan(&r.Original, &r.Author, &r.Title, &r.NewName, &status, &r.Err); err != nil {
			return nil, fmt.Errorf("scanning result: %w", err)
		}
		r.Status = types.RenameStatus(status)
		results = append(results, r)
	}
	return results, rows.Err()
}
