package score

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/udisondev/holdout/internal/db"
)

// RunStore persists runs.
type RunStore interface {
	CreateRun(ctx context.Context, seed int64, startedAt time.Time) (uuid.UUID, error)
	RecordWave(ctx context.Context, id uuid.UUID, w db.WaveRecord) error
	FinishRun(ctx context.Context, id uuid.UUID, res db.RunResult) error
}

const (
	// DefaultBuffer is the recorder's event queue size.
	DefaultBuffer = 64

	drainTimeout = 5 * time.Second
)

type event struct {
	wave   *db.WaveRecord
	finish *db.RunResult
}

// Recorder writes run events to a RunStore from its own goroutine.
// Producers never block: when the queue is full the event is dropped.
type Recorder struct {
	store     RunStore
	seed      int64
	startedAt time.Time
	events    chan event

	runID   atomic.Pointer[uuid.UUID]
	dropped atomic.Int64
}

// NewRecorder creates a recorder for a run started now with seed.
func NewRecorder(store RunStore, seed int64, buffer int) *Recorder {
	if buffer <= 0 {
		buffer = DefaultBuffer
	}
	return &Recorder{
		store:     store,
		seed:      seed,
		startedAt: time.Now(),
		events:    make(chan event, buffer),
	}
}

// WaveCleared queues a cleared wave.
func (r *Recorder) WaveCleared(w db.WaveRecord) {
	r.enqueue(event{wave: &w})
}

// Finish queues the final tally. Run returns after writing it.
func (r *Recorder) Finish(res db.RunResult) {
	r.enqueue(event{finish: &res})
}

func (r *Recorder) enqueue(ev event) {
	select {
	case r.events <- ev:
	default:
		r.dropped.Add(1)
		slog.Warn("run recorder queue full, event dropped", "dropped", r.dropped.Load())
	}
}

// RunID returns the archived run's ID, uuid.Nil until it is created.
func (r *Recorder) RunID() uuid.UUID {
	if id := r.runID.Load(); id != nil {
		return *id
	}
	return uuid.Nil
}

// Dropped returns how many events were dropped.
func (r *Recorder) Dropped() int64 {
	return r.dropped.Load()
}

// Run creates the run record, then writes queued events until Finish is
// written or ctx is cancelled. On cancel, already queued events are still
// written.
func (r *Recorder) Run(ctx context.Context) error {
	id, err := r.store.CreateRun(ctx, r.seed, r.startedAt)
	if err != nil {
		return fmt.Errorf("creating run record: %w", err)
	}
	r.runID.Store(&id)

	slog.Info("run recorder started", "runID", id, "seed", r.seed)

	for {
		select {
		case <-ctx.Done():
			return r.drain(context.WithoutCancel(ctx), id)

		case ev := <-r.events:
			done, err := r.write(ctx, id, ev)
			if err != nil {
				slog.Error("writing run event", "runID", id, "error", err)
			}
			if done {
				slog.Info("run recorder finished", "runID", id)
				return nil
			}
		}
	}
}

func (r *Recorder) drain(ctx context.Context, id uuid.UUID) error {
	ctx, cancel := context.WithTimeout(ctx, drainTimeout)
	defer cancel()

	for {
		select {
		case ev := <-r.events:
			done, err := r.write(ctx, id, ev)
			if err != nil {
				return fmt.Errorf("draining run events: %w", err)
			}
			if done {
				return nil
			}
		default:
			slog.Info("run recorder stopped", "runID", id)
			return nil
		}
	}
}

func (r *Recorder) write(ctx context.Context, id uuid.UUID, ev event) (bool, error) {
	switch {
	case ev.wave != nil:
		return false, r.store.RecordWave(ctx, id, *ev.wave)
	case ev.finish != nil:
		return true, r.store.FinishRun(ctx, id, *ev.finish)
	}
	return false, nil
}
