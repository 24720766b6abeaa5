// Package runstore persists completed simulation runs to an embedded
// SQLite database: one row of metadata per run plus the per-step total SOC
// and cumulative respiration samples, so past runs can be listed and
// re-inspected without re-running the model.
package runstore

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/BBenyamini/swesoc"
)

// schemaV1 is the initial schema.
const schemaV1 = `
CREATE TABLE IF NOT EXISTS runs (
    id          TEXT PRIMARY KEY,
    label       TEXT NOT NULL,
    created_at  TEXT NOT NULL,
    state       TEXT NOT NULL,  -- terminal swesoc.RunState
    step_size   REAL NOT NULL,
    steps       INTEGER NOT NULL,
    final_total REAL NOT NULL,
    config      TEXT            -- config snapshot, JSON or YAML
);

CREATE TABLE IF NOT EXISTS samples (
    run_id   TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
    step     INTEGER NOT NULL,
    total    REAL NOT NULL,
    respired REAL NOT NULL,
    PRIMARY KEY (run_id, step)
);

CREATE TABLE IF NOT EXISTS schema_version (
    version    INTEGER PRIMARY KEY,
    applied_at TEXT NOT NULL
);
`

// Run is one persisted run's metadata.
type Run struct {
	ID         string
	Label      string
	CreatedAt  time.Time
	State      swesoc.RunState
	StepSize   float64
	Steps      int
	FinalTotal float64
	Config     string
}

// Sample is one persisted trajectory step.
type Sample struct {
	Step     int
	Total    float64
	Respired float64
}

// Store is a SQLite-backed run archive. Safe for concurrent use; writes are
// serialized (SQLite works best with a single writer).
type Store struct {
	mu sync.Mutex
	db *sql.DB
}

// Open opens (creating if needed) the run database at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path+"?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, fmt.Errorf("opening run store: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(context.Background(), schemaV1); err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing run store schema: %w", err)
	}
	if _, err := db.ExecContext(context.Background(),
		`INSERT OR IGNORE INTO schema_version (version, applied_at) VALUES (1, ?)`,
		time.Now().UTC().Format(time.RFC3339)); err != nil {
		db.Close()
		return nil, fmt.Errorf("recording schema version: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// SaveRun records a finished run and its per-step samples, returning the
// generated run id. Partial trajectories (halted, diverged) are saved too -
// their state says so - because a calibration post-mortem wants to see where
// a run died.
func (s *Store) SaveRun(ctx context.Context, label, configSnapshot string, traj *swesoc.SOCTrajectory) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := uuid.NewString()
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("beginning run save: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs (id, label, created_at, state, step_size, steps, final_total, config)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		id, label, time.Now().UTC().Format(time.RFC3339Nano),
		string(traj.State), traj.StepSize, traj.Steps, traj.FinalTotal(), configSnapshot)
	if err != nil {
		return "", fmt.Errorf("saving run row: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO samples (run_id, step, total, respired) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return "", fmt.Errorf("preparing sample insert: %w", err)
	}
	defer stmt.Close()
	for k := 0; k < traj.Steps; k++ {
		if _, err := stmt.ExecContext(ctx, id, k, traj.Total[k], traj.Respired[k]); err != nil {
			return "", fmt.Errorf("saving sample %d: %w", k, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("committing run save: %w", err)
	}
	return id, nil
}

// GetRun returns one run's metadata.
func (s *Store) GetRun(ctx context.Context, id string) (*Run, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, label, created_at, state, step_size, steps, final_total, config
		 FROM runs WHERE id = ?`, id)
	run, err := scanRun(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("run %s not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("loading run %s: %w", id, err)
	}
	return run, nil
}

// ListRuns returns all runs, newest first.
func (s *Store) ListRuns(ctx context.Context) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, label, created_at, state, step_size, steps, final_total, config
		 FROM runs ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("listing runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning run row: %w", err)
		}
		runs = append(runs, *run)
	}
	return runs, rows.Err()
}

// Samples returns one run's trajectory samples in step order.
func (s *Store) Samples(ctx context.Context, id string) ([]Sample, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT step, total, respired FROM samples WHERE run_id = ? ORDER BY step`, id)
	if err != nil {
		return nil, fmt.Errorf("loading samples for %s: %w", id, err)
	}
	defer rows.Close()

	var samples []Sample
	for rows.Next() {
		var smp Sample
		if err := rows.Scan(&smp.Step, &smp.Total, &smp.Respired); err != nil {
			return nil, fmt.Errorf("scanning sample: %w", err)
		}
		samples = append(samples, smp)
	}
	return samples, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (*Run, error) {
	var run Run
	var state, created string
	if err := row.Scan(&run.ID, &run.Label, &created, &state,
		&run.StepSize, &run.Steps, &run.FinalTotal, &run.Config); err != nil {
		return nil, err
	}
	run.State = swesoc.RunState(state)
	if t, err := time.Parse(time.RFC3339Nano, created); err == nil {
		run.CreatedAt = t
	}
	return &run, nil
}
