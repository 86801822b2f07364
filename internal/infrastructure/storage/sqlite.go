// Package storage persists reconciliation pass history for audit.
package storage

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Storage provides SQLite-backed audit storage.
// It implements the Repository interface.
type Storage struct {
	db *sql.DB
}

// Compile-time check that Storage implements Repository
var _ Repository = (*Storage)(nil)

const schema = `
CREATE TABLE IF NOT EXISTS reconciliation_passes (
	id                  TEXT PRIMARY KEY,
	started_at          TEXT NOT NULL,
	finished_at         TEXT NOT NULL,
	computed_total      TEXT,
	server_total        TEXT,
	found_any           INTEGER NOT NULL DEFAULT 0,
	truncated           INTEGER NOT NULL DEFAULT 0,
	pages_fetched       INTEGER NOT NULL DEFAULT 0,
	discrepancy_flagged INTEGER NOT NULL DEFAULT 0,
	error_message       TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS idx_passes_started_at ON reconciliation_passes(started_at);
`

// NewStorage opens (creating if needed) the SQLite database at dbPath.
func NewStorage(dbPath string) (*Storage, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &Storage{db: db}, nil
}

// Close closes the database connection
func (s *Storage) Close() error {
	return s.db.Close()
}

// SavePass records a completed reconciliation pass
func (s *Storage) SavePass(pass *ReconciliationPass) error {
	query := `
	INSERT OR REPLACE INTO reconciliation_passes
	(id, started_at, finished_at, computed_total, server_total,
	 found_any, truncated, pages_fetched, discrepancy_flagged, error_message)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.Exec(query,
		pass.ID,
		pass.StartedAt.UTC().Format(time.RFC3339Nano),
		pass.FinishedAt.UTC().Format(time.RFC3339Nano),
		pass.ComputedTotal,
		pass.ServerTotal,
		pass.FoundAny,
		pass.Truncated,
		pass.PagesFetched,
		pass.DiscrepancyFlagged,
		pass.ErrorMessage,
	)
	if err != nil {
		return fmt.Errorf("failed to save pass: %w", err)
	}

	return nil
}

// GetPass retrieves a pass by ID, or nil if it does not exist
func (s *Storage) GetPass(id string) (*ReconciliationPass, error) {
	query := `
	SELECT id, started_at, finished_at, computed_total, server_total,
	       found_any, truncated, pages_fetched, discrepancy_flagged, error_message
	FROM reconciliation_passes
	WHERE id = ?
	`

	pass, err := scanPass(s.db.QueryRow(query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get pass: %w", err)
	}

	return pass, nil
}

// ListPasses returns the most recent passes, newest first
func (s *Storage) ListPasses(limit int) ([]ReconciliationPass, error) {
	if limit <= 0 {
		limit = 20
	}

	query := `
	SELECT id, started_at, finished_at, computed_total, server_total,
	       found_any, truncated, pages_fetched, discrepancy_flagged, error_message
	FROM reconciliation_passes
	ORDER BY started_at DESC
	LIMIT ?
	`

	rows, err := s.db.Query(query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list passes: %w", err)
	}
	defer rows.Close()

	var passes []ReconciliationPass
	for rows.Next() {
		pass, err := scanPass(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan pass: %w", err)
		}
		passes = append(passes, *pass)
	}

	return passes, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanPass(row rowScanner) (*ReconciliationPass, error) {
	var pass ReconciliationPass
	var startedAt, finishedAt string

	err := row.Scan(
		&pass.ID,
		&startedAt,
		&finishedAt,
		&pass.ComputedTotal,
		&pass.ServerTotal,
		&pass.FoundAny,
		&pass.Truncated,
		&pass.PagesFetched,
		&pass.DiscrepancyFlagged,
		&pass.ErrorMessage,
	)
	if err != nil {
		return nil, err
	}

	if pass.StartedAt, err = time.Parse(time.RFC3339Nano, startedAt); err != nil {
		return nil, err
	}
	if pass.FinishedAt, err = time.Parse(time.RFC3339Nano, finishedAt); err != nil {
		return nil, err
	}

	return &pass, nil
}
