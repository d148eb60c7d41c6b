// Package sim advances one holdout run: hostiles, scheduled actions,
// projectiles, the wave schedule and the sentry, in a fixed order per tick.
package sim

import (
	"context"
	"log/slog"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/udisondev/holdout/internal/sched"
	"github.com/udisondev/holdout/internal/spawn"
	"github.com/udisondev/holdout/internal/world"
)

// Outcome is how a run ended.
type Outcome string

const (
	OutcomeRunning  Outcome = "running"
	OutcomeDefeated Outcome = "defeated"
	OutcomeStopped  Outcome = "stopped"
)

// Defended is the target the hostiles attack.
type Defended interface {
	IsDead() bool
	CurrentHealth() int
}

// Scoreboard is the read side of the kill counter.
type Scoreboard interface {
	Kills() int
	Points() int
}

// Shooter is an external attacker ticked after projectiles.
type Shooter interface {
	Tick(now time.Duration)
}

// Config configures a simulation.
type Config struct {
	// RunFor ends the run after this much simulated time; 0 runs until defeat.
	RunFor time.Duration
	// StatusInterval throttles the status log; 0 disables it.
	StatusInterval time.Duration
}

// Parts are the collaborators a simulation drives.
type Parts struct {
	Clock  *sched.Scheduler
	World  *world.World
	Waves  *spawn.Orchestrator
	Target Defended
	Board  Scoreboard
	Sentry Shooter
}

// Result is the tally of a run.
type Result struct {
	Outcome Outcome
	Wave    int
	Kills   int
	Points  int
	Elapsed time.Duration
}

// Simulation owns one run. Tick must be called from a single goroutine;
// Over, Result and Ticks may be read from any goroutine.
type Simulation struct {
	cfg   Config
	parts Parts

	outcome atomic.Pointer[Outcome]
	ticks   atomic.Uint64
	elapsed atomic.Int64

	nextStatus time.Duration

	mu         sync.Mutex
	onGameOver []func(Result)
}

// New creates a simulation. Parts.Sentry and Parts.Board may be nil.
func New(cfg Config, parts Parts) *Simulation {
	s := &Simulation{
		cfg:        cfg,
		parts:      parts,
		nextStatus: cfg.StatusInterval,
	}
	running := OutcomeRunning
	s.outcome.Store(&running)
	return s
}

// OnGameOver registers fn to run once when the run ends.
func (s *Simulation) OnGameOver(fn func(Result)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onGameOver = append(s.onGameOver, fn)
}

// Start begins the first wave.
func (s *Simulation) Start(ctx context.Context) {
	s.parts.Waves.Start(ctx)
	slog.Info("simulation started",
		"wave", s.parts.Waves.CurrentWave(),
		"runFor", s.cfg.RunFor)
}

// Tick advances the run by dt: clock, hostiles, due actions, projectiles,
// wave schedule, sentry, then the end-of-run check. A finished run ignores
// further ticks.
func (s *Simulation) Tick(ctx context.Context, dt time.Duration) {
	if s.Over() {
		return
	}
	clock := s.parts.Clock

	clock.Step(dt)
	now := clock.Now()

	s.parts.World.TickHostiles(now, dt)
	clock.RunDue()
	s.parts.World.TickProjectiles(now, dt)
	s.parts.Waves.Tick(ctx)
	if s.parts.Sentry != nil {
		s.parts.Sentry.Tick(now)
	}

	s.ticks.Add(1)
	s.elapsed.Store(int64(now))

	s.logStatus(now)

	switch {
	case s.parts.Target.IsDead():
		s.end(OutcomeDefeated)
	case s.cfg.RunFor > 0 && now >= s.cfg.RunFor:
		s.end(OutcomeStopped)
	}
}

// Stop ends a running run as stopped.
func (s *Simulation) Stop() {
	if !s.Over() {
		s.end(OutcomeStopped)
	}
}

func (s *Simulation) end(outcome Outcome) {
	s.outcome.Store(&outcome)
	res := s.Result()

	slog.Info("run over",
		"outcome", res.Outcome,
		"wave", res.Wave,
		"kills", res.Kills,
		"points", res.Points,
		"elapsed", res.Elapsed)

	s.mu.Lock()
	hooks := slices.Clone(s.onGameOver)
	s.mu.Unlock()
	for _, fn := range hooks {
		fn(res)
	}
}

// Over reports whether the run has ended.
func (s *Simulation) Over() bool {
	return *s.outcome.Load() != OutcomeRunning
}

// Ticks returns how many ticks ran.
func (s *Simulation) Ticks() uint64 {
	return s.ticks.Load()
}

// Result returns the current tally.
func (s *Simulation) Result() Result {
	res := Result{
		Outcome: *s.outcome.Load(),
		Wave:    s.parts.Waves.CurrentWave(),
		Elapsed: time.Duration(s.elapsed.Load()),
	}
	if s.parts.Board != nil {
		res.Kills = s.parts.Board.Kills()
		res.Points = s.parts.Board.Points()
	}
	return res
}

func (s *Simulation) logStatus(now time.Duration) {
	if s.cfg.StatusInterval <= 0 || now < s.nextStatus {
		return
	}
	s.nextStatus = now + s.cfg.StatusInterval

	state := s.parts.Waves.Snapshot()
	res := s.Result()
	slog.Info("holdout status",
		"elapsed", now,
		"wave", state.CurrentWave,
		"phase", state.Phase,
		"spawned", state.SpawnedThisWave,
		"waveTarget", state.TargetThisWave,
		"alive", s.parts.World.AliveHostiles(),
		"projectiles", s.parts.World.ProjectileCount(),
		"kills", res.Kills,
		"points", res.Points,
		"targetHealth", s.parts.Target.CurrentHealth())
}
