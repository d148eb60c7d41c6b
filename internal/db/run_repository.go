package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrRunNotFound is returned when a run ID is not in the archive.
var ErrRunNotFound = errors.New("run not found")

// Outcome values stored in runs.outcome.
const (
	OutcomeRunning  = "running"
	OutcomeDefeated = "defeated"
	OutcomeStopped  = "stopped"
)

// Run is one archived simulation run.
type Run struct {
	ID          uuid.UUID
	Seed        int64
	StartedAt   time.Time
	EndedAt     *time.Time
	WaveReached int
	Kills       int
	Points      int
	Outcome     string
}

// RunResult is the final tally written when a run ends.
type RunResult struct {
	EndedAt     time.Time
	WaveReached int
	Kills       int
	Points      int
	Outcome     string
}

// WaveRecord is one cleared wave of a run.
type WaveRecord struct {
	Wave     int
	Spawned  int
	Duration time.Duration
}

// RunRepository stores run results in PostgreSQL.
type RunRepository struct {
	pool *pgxpool.Pool
}

// NewRunRepository creates a repository on pool.
func NewRunRepository(pool *pgxpool.Pool) *RunRepository {
	return &RunRepository{pool: pool}
}

// CreateRun inserts a running run and returns its ID.
func (r *RunRepository) CreateRun(ctx context.Context, seed int64, startedAt time.Time) (uuid.UUID, error) {
	id := uuid.New()
	_, err := r.pool.Exec(ctx,
		`INSERT INTO runs (id, seed, started_at, outcome) VALUES ($1, $2, $3, $4)`,
		id, seed, startedAt, OutcomeRunning,
	)
	if err != nil {
		return uuid.Nil, fmt.Errorf("creating run: %w", err)
	}
	return id, nil
}

// FinishRun writes the final tally of run id.
func (r *RunRepository) FinishRun(ctx context.Context, id uuid.UUID, res RunResult) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE runs SET ended_at = $2, wave_reached = $3, kills = $4, points = $5, outcome = $6
		 WHERE id = $1`,
		id, res.EndedAt, res.WaveReached, res.Kills, res.Points, res.Outcome,
	)
	if err != nil {
		return fmt.Errorf("finishing run %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("finishing run %s: %w", id, ErrRunNotFound)
	}
	return nil
}

// RecordWave stores a cleared wave and bumps the run's wave_reached.
func (r *RunRepository) RecordWave(ctx context.Context, id uuid.UUID, w WaveRecord) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning wave transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	tag, err := tx.Exec(ctx,
		`UPDATE runs SET wave_reached = GREATEST(wave_reached, $2) WHERE id = $1`,
		id, w.Wave,
	)
	if err != nil {
		return fmt.Errorf("updating wave of run %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("recording wave %d: %w", w.Wave, ErrRunNotFound)
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO run_waves (run_id, wave, spawned, duration_ms) VALUES ($1, $2, $3, $4)
		 ON CONFLICT (run_id, wave) DO UPDATE SET spawned = EXCLUDED.spawned, duration_ms = EXCLUDED.duration_ms`,
		id, w.Wave, w.Spawned, w.Duration.Milliseconds(),
	)
	if err != nil {
		return fmt.Errorf("inserting wave %d of run %s: %w", w.Wave, id, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing wave %d of run %s: %w", w.Wave, id, err)
	}
	return nil
}

const runColumns = `id, seed, started_at, ended_at, wave_reached, kills, points, outcome`

func scanRun(row pgx.Row) (Run, error) {
	var run Run
	err := row.Scan(&run.ID, &run.Seed, &run.StartedAt, &run.EndedAt, &run.WaveReached, &run.Kills, &run.Points, &run.Outcome)
	return run, err
}

// GetRun returns run id.
func (r *RunRepository) GetRun(ctx context.Context, id uuid.UUID) (Run, error) {
	run, err := scanRun(r.pool.QueryRow(ctx,
		`SELECT `+runColumns+` FROM runs WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Run{}, fmt.Errorf("loading run %s: %w", id, ErrRunNotFound)
	}
	if err != nil {
		return Run{}, fmt.Errorf("loading run %s: %w", id, err)
	}
	return run, nil
}

// Waves returns the cleared waves of run id in order.
func (r *RunRepository) Waves(ctx context.Context, id uuid.UUID) ([]WaveRecord, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT wave, spawned, duration_ms FROM run_waves WHERE run_id = $1 ORDER BY wave`, id)
	if err != nil {
		return nil, fmt.Errorf("querying waves of run %s: %w", id, err)
	}
	defer rows.Close()

	var waves []WaveRecord
	for rows.Next() {
		var w WaveRecord
		var ms int64
		if err := rows.Scan(&w.Wave, &w.Spawned, &ms); err != nil {
			return nil, fmt.Errorf("scanning wave: %w", err)
		}
		w.Duration = time.Duration(ms) * time.Millisecond
		waves = append(waves, w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating waves: %w", err)
	}
	return waves, nil
}

// TopRuns returns finished runs ordered by points, then wave reached.
func (r *RunRepository) TopRuns(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		return nil, nil
	}

	rows, err := r.pool.Query(ctx,
		`SELECT `+runColumns+` FROM runs
		 WHERE outcome <> $1
		 ORDER BY points DESC, wave_reached DESC, started_at
		 LIMIT $2`,
		OutcomeRunning, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("querying top runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating runs: %w", err)
	}
	return runs, nil
}
