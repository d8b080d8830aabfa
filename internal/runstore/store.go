package runstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	_ "modernc.org/sqlite"

	"chorus/internal/config"
)

const schema = `
CREATE TABLE IF NOT EXISTS runs (
    id            TEXT PRIMARY KEY,
    started_at    TEXT NOT NULL,
    finished_at   TEXT,
    dataset_root  TEXT NOT NULL,
    name_filter   TEXT NOT NULL,
    boundaries_id TEXT NOT NULL,
    labels_id     TEXT NOT NULL,
    feature       TEXT NOT NULL,
    annot_beats   INTEGER NOT NULL,
    framesync     INTEGER NOT NULL,
    seed          INTEGER NOT NULL,
    workers       INTEGER NOT NULL,
    fingerprint   TEXT NOT NULL DEFAULT '',
    processed     INTEGER NOT NULL DEFAULT 0,
    skipped       INTEGER NOT NULL DEFAULT 0,
    failed        INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS run_items (
    run_id      TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
    track       TEXT NOT NULL,
    collection  TEXT NOT NULL,
    status      TEXT NOT NULL,
    error       TEXT NOT NULL DEFAULT '',
    output_path TEXT NOT NULL DEFAULT '',
    elapsed_ms  INTEGER NOT NULL DEFAULT 0,
    PRIMARY KEY (run_id, track)
);

CREATE INDEX IF NOT EXISTS idx_run_items_status ON run_items(run_id, status);
`

// ErrLocked is returned when another batch holds the state lock.
var ErrLocked = errors.New("state directory is locked by another chorus run")

// Store manages run history persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
	lock *flock.Flock
}

// Open connects to the run database under the configured state directory,
// applies the schema, and takes the batch lock.
func Open(cfg *config.Config) (*Store, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}

	lock := flock.New(filepath.Join(cfg.Paths.StateDir, "chorus.lock"))
	locked, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire state lock: %w", err)
	}
	if !locked {
		return nil, ErrLocked
	}

	dbPath := filepath.Join(cfg.Paths.StateDir, "runs.db")
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		_ = lock.Unlock()
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			_ = lock.Unlock()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		_ = lock.Unlock()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	return &Store{db: db, path: dbPath, lock: lock}, nil
}

// Close releases the database connection and the batch lock.
func (s *Store) Close() error {
	if s == nil {
		return nil
	}
	var firstErr error
	if s.db != nil {
		firstErr = s.db.Close()
	}
	if s.lock != nil {
		if err := s.lock.Unlock(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// Path returns the database file location.
func (s *Store) Path() string {
	if s == nil {
		return ""
	}
	return s.path
}

// BeginRun inserts the run row before dispatch.
func (s *Store) BeginRun(ctx context.Context, run Run) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (
            id, started_at, dataset_root, name_filter, boundaries_id,
            labels_id, feature, annot_beats, framesync, seed, workers, fingerprint
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID,
		run.StartedAt.UTC().Format(time.RFC3339Nano),
		run.DatasetRoot,
		run.NameFilter,
		run.BoundariesID,
		run.LabelsID,
		run.Feature,
		boolToInt(run.AnnotBeats),
		boolToInt(run.FrameSync),
		run.Seed,
		run.Workers,
		run.Fingerprint,
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	return nil
}

// FinishRun stores the aggregate tallies once every item has completed.
func (s *Store) FinishRun(ctx context.Context, runID string, processed, skipped, failed int, finishedAt time.Time) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE runs SET finished_at = ?, processed = ?, skipped = ?, failed = ? WHERE id = ?`,
		finishedAt.UTC().Format(time.RFC3339Nano),
		processed, skipped, failed, runID,
	)
	if err != nil {
		return fmt.Errorf("finish run: %w", err)
	}
	affected, err := res.RowsAffected()
	if err == nil && affected == 0 {
		return fmt.Errorf("finish run: run %s not found", runID)
	}
	return nil
}

// RecordItem stores one item outcome. Called from the scheduler's collector
// goroutine, never concurrently.
func (s *Store) RecordItem(ctx context.Context, rec ItemRecord) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO run_items (run_id, track, collection, status, error, output_path, elapsed_ms)
         VALUES (?, ?, ?, ?, ?, ?, ?)`,
		rec.RunID,
		rec.Track,
		rec.Collection,
		string(rec.Status),
		rec.Error,
		rec.OutputPath,
		rec.Elapsed.Milliseconds(),
	)
	if err != nil {
		return fmt.Errorf("insert run item: %w", err)
	}
	return nil
}

// RecentRuns lists run rows newest first.
func (s *Store) RecentRuns(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, started_at, finished_at, dataset_root, name_filter,
                boundaries_id, labels_id, feature, annot_beats, framesync,
                seed, workers, fingerprint, processed, skipped, failed
         FROM runs ORDER BY started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// RunItems lists the item outcomes of one run, failures first.
func (s *Store) RunItems(ctx context.Context, runID string) ([]ItemRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT run_id, track, collection, status, error, output_path, elapsed_ms
         FROM run_items WHERE run_id = ?
         ORDER BY CASE status WHEN 'failed' THEN 0 WHEN 'skipped' THEN 1 ELSE 2 END, track`,
		runID)
	if err != nil {
		return nil, fmt.Errorf("query run items: %w", err)
	}
	defer rows.Close()

	var items []ItemRecord
	for rows.Next() {
		var rec ItemRecord
		var status string
		var elapsedMS int64
		if err := rows.Scan(&rec.RunID, &rec.Track, &rec.Collection, &status, &rec.Error, &rec.OutputPath, &elapsedMS); err != nil {
			return nil, fmt.Errorf("scan run item: %w", err)
		}
		rec.Status = ItemStatus(status)
		rec.Elapsed = time.Duration(elapsedMS) * time.Millisecond
		items = append(items, rec)
	}
	return items, rows.Err()
}

func scanRun(rows *sql.Rows) (Run, error) {
	var run Run
	var started string
	var finished sql.NullString
	var annotBeats, frameSync int
	if err := rows.Scan(
		&run.ID, &started, &finished, &run.DatasetRoot, &run.NameFilter,
		&run.BoundariesID, &run.LabelsID, &run.Feature, &annotBeats, &frameSync,
		&run.Seed, &run.Workers, &run.Fingerprint, &run.Processed, &run.Skipped, &run.Failed,
	); err != nil {
		return Run{}, fmt.Errorf("scan run: %w", err)
	}

	startedAt, err := time.Parse(time.RFC3339Nano, started)
	if err != nil {
		return Run{}, fmt.Errorf("parse run start time: %w", err)
	}
	run.StartedAt = startedAt

	if finished.Valid && finished.String != "" {
		finishedAt, err := time.Parse(time.RFC3339Nano, finished.String)
		if err != nil {
			return Run{}, fmt.Errorf("parse run finish time: %w", err)
		}
		run.FinishedAt = &finishedAt
	}

	run.AnnotBeats = annotBeats != 0
	run.FrameSync = frameSync != 0
	return run, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
