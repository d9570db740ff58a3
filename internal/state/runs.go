package state

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// DefaultListLimit bounds ListRuns when the caller passes no limit.
const DefaultListLimit = 20

// RecordRun inserts one run record. A missing ID gets a fresh UUID
// and missing timestamps default to now.
func (s *Store) RecordRun(rec RunRecord) error {
	if s.db == nil {
		return fmt.Errorf("database not opened")
	}

	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	if rec.StartedAt.IsZero() {
		rec.StartedAt = time.Now().UTC()
	}
	if rec.CompletedAt.IsZero() {
		rec.CompletedAt = rec.StartedAt
	}

	_, err := s.db.Exec(
		`INSERT INTO runs (id, command, path, started_at, completed_at, errors, warnings, infos, fixes_applied)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.Command, rec.Path,
		rec.StartedAt.UTC(), rec.CompletedAt.UTC(),
		rec.Errors, rec.Warnings, rec.Infos, rec.FixesApplied,
	)
	if err != nil {
		return fmt.Errorf("failed to record run: %w", err)
	}

	s.logger.Debug("run recorded",
		"id", rec.ID,
		"command", rec.Command,
		"errors", rec.Errors,
		"fixes", rec.FixesApplied)
	return nil
}

// GetRun retrieves a run by ID.
func (s *Store) GetRun(id string) (*RunRecord, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database not opened")
	}

	rec := &RunRecord{}
	err := s.db.QueryRow(
		`SELECT id, command, path, started_at, completed_at, errors, warnings, infos, fixes_applied
		 FROM runs WHERE id = ?`, id,
	).Scan(&rec.ID, &rec.Command, &rec.Path, &rec.StartedAt, &rec.CompletedAt,
		&rec.Errors, &rec.Warnings, &rec.Infos, &rec.FixesApplied)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("run not found: %s", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}
	return rec, nil
}

// ListRuns retrieves the most recent runs, newest first, up to the
// given limit. A non-positive limit means DefaultListLimit.
func (s *Store) ListRuns(limit int) ([]RunRecord, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database not opened")
	}
	if limit <= 0 {
		limit = DefaultListLimit
	}

	rows, err := s.db.Query(
		`SELECT id, command, path, started_at, completed_at, errors, warnings, infos, fixes_applied
		 FROM runs ORDER BY started_at DESC, id DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var runs []RunRecord
	for rows.Next() {
		var rec RunRecord
		if err := rows.Scan(&rec.ID, &rec.Command, &rec.Path, &rec.StartedAt, &rec.CompletedAt,
			&rec.Errors, &rec.Warnings, &rec.Infos, &rec.FixesApplied); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	return runs, nil
}

// PruneRuns deletes all but the most recent keep runs and returns
// how many rows were removed.
func (s *Store) PruneRuns(keep int) (int64, error) {
	if s.db == nil {
		return 0, fmt.Errorf("database not opened")
	}
	if keep < 0 {
		keep = 0
	}

	res, err := s.db.Exec(
		`DELETE FROM runs WHERE id NOT IN
		 (SELECT id FROM runs ORDER BY started_at DESC, id DESC LIMIT ?)`, keep,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to prune runs: %w", err)
	}
	deleted, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to prune runs: %w", err)
	}

	s.logger.Debug("runs pruned", "kept", keep, "deleted", deleted)
	return deleted, nil
}
