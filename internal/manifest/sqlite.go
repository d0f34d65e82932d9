// Package manifest records tiling runs and their emitted tiles in a SQLite
// database, so re-runs can be audited and verified against what is on disk.
package manifest

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/sells-group/tilecut/internal/pipeline"
)

// RunStatus is the lifecycle state of a tiling run.
type RunStatus string

const (
	RunRunning   RunStatus = "running"
	RunCompleted RunStatus = "completed"
	RunFailed    RunStatus = "failed"
)

// Run is one recorded tiling pass.
type Run struct {
	ID        string
	Source    string
	OutputDir string
	TileSize  float64
	Status    RunStatus
	StartedAt time.Time
}

// Tile is one recorded output file.
type Tile struct {
	RunID    string
	Index    int
	Path     string
	XOff     float64
	YOff     float64
	WidthPx  int
	HeightPx int
}

// Store persists runs and tiles in SQLite.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the manifest database at path and configures WAL
// mode.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, eris.Wrap(err, "manifest: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "manifest: exec %s", pragma)
		}
	}
	return &Store{db: db}, nil
}

const migration = `
CREATE TABLE IF NOT EXISTS runs (
	id         TEXT PRIMARY KEY,
	source     TEXT NOT NULL,
	output_dir TEXT NOT NULL,
	tile_size  REAL NOT NULL,
	status     TEXT NOT NULL DEFAULT 'running',
	started_at DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS tiles (
	run_id     TEXT NOT NULL REFERENCES runs(id),
	tile_index INTEGER NOT NULL,
	path       TEXT NOT NULL,
	x_off      REAL NOT NULL,
	y_off      REAL NOT NULL,
	width_px   INTEGER NOT NULL,
	height_px  INTEGER NOT NULL,
	written_at DATETIME NOT NULL DEFAULT (datetime('now')),
	PRIMARY KEY (run_id, tile_index)
);

CREATE INDEX IF NOT EXISTS idx_runs_source ON runs(source);
CREATE INDEX IF NOT EXISTS idx_tiles_run_id ON tiles(run_id);
`

// Migrate creates the schema if missing.
func (s *Store) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, migration)
	return eris.Wrap(err, "manifest: migrate")
}

func (s *Store) Close() error {
	return s.db.Close()
}

// BeginRun records a new tiling run and returns a recorder bound to it.
func (s *Store) BeginRun(ctx context.Context, source, outputDir string, tileSize float64) (*RunRecorder, error) {
	id := uuid.New().String()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (id, source, output_dir, tile_size, status, started_at) VALUES (?, ?, ?, ?, ?, ?)`,
		id, source, outputDir, tileSize, string(RunRunning), time.Now().UTC(),
	)
	if err != nil {
		return nil, eris.Wrap(err, "manifest: insert run")
	}
	return &RunRecorder{store: s, runID: id}, nil
}

// GetRun returns a run by ID.
func (s *Store) GetRun(ctx context.Context, runID string) (*Run, error) {
	var r Run
	var status string
	err := s.db.QueryRowContext(ctx,
		`SELECT id, source, output_dir, tile_size, status, started_at FROM runs WHERE id = ?`,
		runID,
	).Scan(&r.ID, &r.Source, &r.OutputDir, &r.TileSize, &status, &r.StartedAt)
	if err != nil {
		return nil, eris.Wrapf(err, "manifest: get run %s", runID)
	}
	r.Status = RunStatus(status)
	return &r, nil
}

// ListTiles returns a run's tiles ordered by index.
func (s *Store) ListTiles(ctx context.Context, runID string) ([]Tile, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT run_id, tile_index, path, x_off, y_off, width_px, height_px
		 FROM tiles WHERE run_id = ? ORDER BY tile_index`,
		runID,
	)
	if err != nil {
		return nil, eris.Wrap(err, "manifest: list tiles")
	}
	defer rows.Close()

	var tiles []Tile
	for rows.Next() {
		var t Tile
		if err := rows.Scan(&t.RunID, &t.Index, &t.Path, &t.XOff, &t.YOff, &t.WidthPx, &t.HeightPx); err != nil {
			return nil, eris.Wrap(err, "manifest: scan tile")
		}
		tiles = append(tiles, t)
	}
	return tiles, rows.Err()
}

// RunRecorder implements pipeline.Recorder for one run.
type RunRecorder struct {
	store *Store
	runID string
}

// RunID returns the run this recorder writes to.
func (r *RunRecorder) RunID() string {
	return r.runID
}

// RecordTile implements pipeline.Recorder. Re-recording a tile index
// replaces the previous row, matching the overwrite semantics of
// positional file naming.
func (r *RunRecorder) RecordTile(ctx context.Context, res pipeline.Result) error {
	_, err := r.store.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO tiles (run_id, tile_index, path, x_off, y_off, width_px, height_px, written_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		r.runID, res.Index, res.Path, res.Desc.XOff, res.Desc.YOff,
		res.Window.XSize, res.Window.YSize, time.Now().UTC(),
	)
	return eris.Wrapf(err, "manifest: record tile %d", res.Index)
}

// Finish marks the run completed or failed.
func (r *RunRecorder) Finish(ctx context.Context, status RunStatus) error {
	_, err := r.store.db.ExecContext(ctx,
		`UPDATE runs SET status = ? WHERE id = ?`,
		string(status), r.runID,
	)
	return eris.Wrapf(err, "manifest: finish run %s", r.runID)
}
