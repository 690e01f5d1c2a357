// Package journal persists a history of completed export runs.
package journal

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// Run is one recorded export.
type Run struct {
	ID         string
	ProjectID  string
	Format     string
	Layout     string
	ExportType string
	OutputPath string
	AssetCount int
	Duration   time.Duration
	CreatedAt  time.Time
}

// Journal manages run persistence backed by SQLite. A file lock guards the
// database so concurrent exporter invocations do not interleave writes.
type Journal struct {
	db   *sql.DB
	lock *flock.Flock
	path string
}

const schema = `
CREATE TABLE IF NOT EXISTS export_runs (
    id TEXT PRIMARY KEY,
    project_id TEXT NOT NULL,
    format TEXT NOT NULL,
    layout TEXT NOT NULL,
    export_type TEXT NOT NULL,
    output_path TEXT NOT NULL,
    asset_count INTEGER NOT NULL,
    duration_ms INTEGER NOT NULL,
    created_at TEXT NOT NULL
)`

// Open initializes or connects to the journal database at path.
func Open(path string) (*Journal, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("ensure journal dir: %w", err)
	}

	lock := flock.New(path + ".lock")
	locked, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire journal lock: %w", err)
	}
	if !locked {
		return nil, fmt.Errorf("journal %s is locked by another export", path)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		_ = lock.Unlock()
		return nil, fmt.Errorf("open journal db: %w", err)
	}

	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	} {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			_ = lock.Unlock()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		_ = lock.Unlock()
		return nil, fmt.Errorf("apply journal schema: %w", err)
	}

	return &Journal{db: db, lock: lock, path: path}, nil
}

// Close closes the database and releases the file lock.
func (j *Journal) Close() error {
	if j == nil {
		return nil
	}
	err := j.db.Close()
	if unlockErr := j.lock.Unlock(); err == nil {
		err = unlockErr
	}
	return err
}

// Record inserts a completed run. A missing id or timestamp is filled in.
func (j *Journal) Record(ctx context.Context, run Run) (Run, error) {
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}

	_, err := j.db.ExecContext(ctx,
		`INSERT INTO export_runs (
            id, project_id, format, layout, export_type,
            output_path, asset_count, duration_ms, created_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID,
		run.ProjectID,
		run.Format,
		run.Layout,
		run.ExportType,
		run.OutputPath,
		run.AssetCount,
		run.Duration.Milliseconds(),
		run.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return Run{}, fmt.Errorf("insert run: %w", err)
	}
	return run, nil
}

// Recent returns the newest runs, most recent first.
func (j *Journal) Recent(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := j.db.QueryContext(ctx,
		`SELECT id, project_id, format, layout, export_type,
            output_path, asset_count, duration_ms, created_at
        FROM export_runs ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var run Run
		var durationMS int64
		var createdAt string
		if err := rows.Scan(
			&run.ID, &run.ProjectID, &run.Format, &run.Layout, &run.ExportType,
			&run.OutputPath, &run.AssetCount, &durationMS, &createdAt,
		); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		run.Duration = time.Duration(durationMS) * time.Millisecond
		if parsed, err := time.Parse(time.RFC3339Nano, createdAt); err == nil {
			run.CreatedAt = parsed
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}
