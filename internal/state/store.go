// Package state persists run history in a local SQLite database.
package state

import (
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver (pure Go)
)

// Store records command runs. All methods are safe for concurrent
// use; the single connection serializes writers.
type Store struct {
	db     *sql.DB
	path   string
	logger *slog.Logger
}

// RunRecord is one recorded command invocation.
type RunRecord struct {
	ID           string    `json:"id"`
	Command      string    `json:"command"`
	Path         string    `json:"path"`
	StartedAt    time.Time `json:"started_at"`
	CompletedAt  time.Time `json:"completed_at"`
	Errors       int       `json:"errors"`
	Warnings     int       `json:"warnings"`
	Infos        int       `json:"infos"`
	FixesApplied int       `json:"fixes_applied"`
}

// Duration returns how long the recorded run took.
func (r RunRecord) Duration() time.Duration {
	return r.CompletedAt.Sub(r.StartedAt)
}

// DefaultPath returns the standard history database location. The
// JOURNALINT_STATE_DIR environment variable overrides the directory.
func DefaultPath() (string, error) {
	if dir := os.Getenv("JOURNALINT_STATE_DIR"); dir != "" {
		return filepath.Join(dir, "history.db"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolving home directory: %w", err)
	}
	return filepath.Join(home, ".local", "state", "journalint", "history.db"), nil
}

// Open opens the history database at path, creating it and running
// pending migrations as needed. Use ":memory:" for an in-memory
// database.
func Open(path string, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
			return nil, fmt.Errorf("creating state directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}
	// SQLite allows one writer; a second connection would only see
	// SQLITE_BUSY.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping history database: %w", err)
	}
	for _, pragma := range []string{"PRAGMA journal_mode=WAL", "PRAGMA busy_timeout=5000"} {
		if _, err := db.Exec(pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to apply %s: %w", pragma, err)
		}
	}

	if err := migrate(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	logger.Debug("history database opened", "path", path)
	return &Store{db: db, path: path, logger: logger}, nil
}

// Path returns the database location this store was opened with.
func (s *Store) Path() string {
	return s.path
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
