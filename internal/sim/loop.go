package sim

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Loop drives a Simulation in real time at a fixed tick interval.
type Loop struct {
	sim      *Simulation
	interval time.Duration
	stopCh   chan struct{}
	stopOnce sync.Once
}

// NewLoop creates a loop ticking sim every interval.
func NewLoop(sim *Simulation, interval time.Duration) *Loop {
	return &Loop{
		sim:      sim,
		interval: interval,
		stopCh:   make(chan struct{}),
	}
}

// Start starts the run and ticks it until the run ends (returns nil),
// Stop is called (returns nil) or ctx is cancelled (returns ctx.Err()).
func (l *Loop) Start(ctx context.Context) error {
	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()

	l.sim.Start(ctx)
	slog.Info("simulation loop started", "interval", l.interval)

	for {
		select {
		case <-ctx.Done():
			slog.Info("simulation loop stopping")
			l.sim.Stop()
			return ctx.Err()

		case <-l.stopCh:
			slog.Info("simulation loop stopped")
			l.sim.Stop()
			return nil

		case <-ticker.C:
			l.sim.Tick(ctx, l.interval)
			if l.sim.Over() {
				return nil
			}
		}
	}
}

// Stop stops the loop. Safe to call more than once.
func (l *Loop) Stop() {
	l.stopOnce.Do(func() { close(l.stopCh) })
}
