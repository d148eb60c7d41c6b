package testutil

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/udisondev/holdout/internal/db"
)

// MockRunStore is an in-memory run archive for unit tests.
type MockRunStore struct {
	mu    sync.RWMutex
	runs  map[uuid.UUID]*db.Run
	waves map[uuid.UUID][]db.WaveRecord

	// Err, when set, is returned by every write.
	Err error
}

// NewMockRunStore creates an empty store.
func NewMockRunStore() *MockRunStore {
	return &MockRunStore{
		runs:  make(map[uuid.UUID]*db.Run),
		waves: make(map[uuid.UUID][]db.WaveRecord),
	}
}

// CreateRun stores a running run.
func (m *MockRunStore) CreateRun(_ context.Context, seed int64, startedAt time.Time) (uuid.UUID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.Err != nil {
		return uuid.Nil, m.Err
	}
	id := uuid.New()
	m.runs[id] = &db.Run{ID: id, Seed: seed, StartedAt: startedAt, Outcome: db.OutcomeRunning}
	return id, nil
}

// RecordWave appends w to run id.
func (m *MockRunStore) RecordWave(_ context.Context, id uuid.UUID, w db.WaveRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.Err != nil {
		return m.Err
	}
	run, ok := m.runs[id]
	if !ok {
		return fmt.Errorf("recording wave %d: %w", w.Wave, db.ErrRunNotFound)
	}
	run.WaveReached = max(run.WaveReached, w.Wave)
	m.waves[id] = append(m.waves[id], w)
	return nil
}

// FinishRun writes the final tally of run id.
func (m *MockRunStore) FinishRun(_ context.Context, id uuid.UUID, res db.RunResult) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.Err != nil {
		return m.Err
	}
	run, ok := m.runs[id]
	if !ok {
		return fmt.Errorf("finishing run %s: %w", id, db.ErrRunNotFound)
	}
	ended := res.EndedAt
	run.EndedAt = &ended
	run.WaveReached = res.WaveReached
	run.Kills = res.Kills
	run.Points = res.Points
	run.Outcome = res.Outcome
	return nil
}

// Run returns a copy of run id.
func (m *MockRunStore) Run(id uuid.UUID) (db.Run, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	run, ok := m.runs[id]
	if !ok {
		return db.Run{}, false
	}
	return *run, true
}

// Waves returns the waves recorded for run id.
func (m *MockRunStore) Waves(id uuid.UUID) []db.WaveRecord {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return append([]db.WaveRecord(nil), m.waves[id]...)
}

// RunCount returns how many runs were created.
func (m *MockRunStore) RunCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return len(m.runs)
}
