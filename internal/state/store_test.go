package state

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkwell-labs/journalint/internal/testutil"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(":memory:", testutil.NewTestLogger(t))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestOpenRunsMigrations(t *testing.T) {
	store := openTestStore(t)

	version, err := store.MigrationVersion()
	require.NoError(t, err)
	assert.GreaterOrEqual(t, version, int64(1))
}

func TestOpenCreatesParentDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "history.db")

	store, err := Open(path, nil)
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	assert.Equal(t, path, store.Path())
	_, err = os.Stat(path)
	assert.NoError(t, err)
}

func TestDefaultPathHonorsOverride(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("JOURNALINT_STATE_DIR", dir)

	path, err := DefaultPath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "history.db"), path)
}

func TestRecordAndGetRun(t *testing.T) {
	store := openTestStore(t)

	started := time.Date(2024, 3, 15, 8, 30, 0, 0, time.UTC)
	rec := RunRecord{
		ID:           uuid.New().String(),
		Command:      "check",
		Path:         "daily/",
		StartedAt:    started,
		CompletedAt:  started.Add(2 * time.Second),
		Errors:       5,
		Warnings:     1,
		FixesApplied: 0,
	}
	require.NoError(t, store.RecordRun(rec))

	got, err := store.GetRun(rec.ID)
	require.NoError(t, err)
	assert.Equal(t, rec.Command, got.Command)
	assert.Equal(t, rec.Path, got.Path)
	assert.Equal(t, rec.Errors, got.Errors)
	assert.Equal(t, rec.Warnings, got.Warnings)
	assert.WithinDuration(t, rec.StartedAt, got.StartedAt, time.Second)
	assert.WithinDuration(t, rec.CompletedAt, got.CompletedAt, time.Second)
	assert.Equal(t, 2*time.Second, got.Duration())
}

func TestGetRunNotFound(t *testing.T) {
	store := openTestStore(t)

	_, err := store.GetRun("does-not-exist")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "run not found")
}

func TestRecordRunGeneratesID(t *testing.T) {
	store := openTestStore(t)

	require.NoError(t, store.RecordRun(RunRecord{Command: "fix", Path: "."}))

	runs, err := store.ListRuns(1)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	_, err = uuid.Parse(runs[0].ID)
	assert.NoError(t, err)
	assert.False(t, runs[0].StartedAt.IsZero())
}

func TestListRunsNewestFirst(t *testing.T) {
	store := openTestStore(t)

	base := time.Now().UTC().Add(-time.Hour)
	for i := 0; i < 3; i++ {
		rec := RunRecord{
			Command:   "check",
			Path:      fmt.Sprintf("run-%d", i),
			StartedAt: base.Add(time.Duration(i) * time.Minute),
		}
		require.NoError(t, store.RecordRun(rec))
	}

	runs, err := store.ListRuns(10)
	require.NoError(t, err)
	require.Len(t, runs, 3)
	assert.Equal(t, "run-2", runs[0].Path)
	assert.Equal(t, "run-0", runs[2].Path)
}

func TestListRunsDefaultLimit(t *testing.T) {
	store := openTestStore(t)

	for i := 0; i < DefaultListLimit+5; i++ {
		require.NoError(t, store.RecordRun(RunRecord{Command: "check", Path: "."}))
	}

	runs, err := store.ListRuns(0)
	require.NoError(t, err)
	assert.Len(t, runs, DefaultListLimit)
}

func TestPruneRuns(t *testing.T) {
	store := openTestStore(t)

	base := time.Now().UTC().Add(-time.Hour)
	for i := 0; i < 5; i++ {
		rec := RunRecord{
			Command:   "check",
			Path:      fmt.Sprintf("run-%d", i),
			StartedAt: base.Add(time.Duration(i) * time.Minute),
		}
		require.NoError(t, store.RecordRun(rec))
	}

	deleted, err := store.PruneRuns(2)
	require.NoError(t, err)
	assert.Equal(t, int64(3), deleted)

	runs, err := store.ListRuns(10)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "run-4", runs[0].Path)
	assert.Equal(t, "run-3", runs[1].Path)
}

func TestPruneRunsKeepsEverythingWhenUnderLimit(t *testing.T) {
	store := openTestStore(t)
	require.NoError(t, store.RecordRun(RunRecord{Command: "check", Path: "."}))

	deleted, err := store.PruneRuns(10)
	require.NoError(t, err)
	assert.Zero(t, deleted)
}

func TestRecordRunDatabaseError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	mock.ExpectExec("INSERT INTO runs").WillReturnError(fmt.Errorf("disk I/O error"))

	store := &Store{db: db, logger: testutil.NewTestLogger(t)}
	err = store.RecordRun(RunRecord{Command: "check", Path: "."})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to record run")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListRunsDatabaseError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	mock.ExpectQuery("SELECT (.+) FROM runs").WillReturnError(fmt.Errorf("database is locked"))

	store := &Store{db: db, logger: testutil.NewTestLogger(t)}
	_, err = store.ListRuns(5)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to list runs")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestClosedStoreErrors(t *testing.T) {
	store := &Store{}

	require.Error(t, store.RecordRun(RunRecord{}))
	_, err := store.ListRuns(1)
	require.Error(t, err)
	_, err = store.PruneRuns(1)
	require.Error(t, err)
}
