package spawn

import (
	"context"
	"log/slog"
	"math"
	"math/rand/v2"
	"sync/atomic"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/looplab/fsm"

	"github.com/udisondev/holdout/internal/sched"
)

// Phase is the orchestrator's state.
type Phase string

const (
	PhaseIdle         Phase = "idle"
	PhaseSpawning     Phase = "spawning"
	PhaseWaiting      Phase = "waiting"
	PhaseIntermission Phase = "intermission"
)

const (
	eventStart   = "start"
	eventSpawned = "spawned"
	eventCleared = "cleared"
	eventNext    = "next"
)

// Template is one archetype's share of every wave.
type Template struct {
	Archetype string
	BaseCount int
}

// Config is the wave schedule.
type Config struct {
	Templates    []Template
	Growth       float64
	SpawnBatch   int
	Intermission time.Duration
	SpawnPoints  []mgl64.Vec3
}

// DefaultConfig returns a schedule with no templates or spawn points.
func DefaultConfig() Config {
	return Config{
		Growth:       1.2,
		SpawnBatch:   1,
		Intermission: 10 * time.Second,
	}
}

// WaveCount returns how many of a template spawn in wave (1-based):
// round(base × growth^(wave−1)).
func WaveCount(base int, growth float64, wave int) int {
	if base <= 0 || wave <= 0 {
		return 0
	}
	return int(math.Round(float64(base) * math.Pow(growth, float64(wave-1))))
}

// Spawner creates one hostile of an archetype at a point.
type Spawner interface {
	Spawn(archetype string, at mgl64.Vec3) error
}

// LiveCounter counts hostiles that are alive.
type LiveCounter interface {
	AliveHostiles() int
}

// WaveSummary describes a cleared wave.
type WaveSummary struct {
	Wave     int
	Spawned  int
	Duration time.Duration
}

// WaveState is a point-in-time view for the HUD.
type WaveState struct {
	Phase           Phase
	CurrentWave     int
	SpawnedThisWave int
	TargetThisWave  int
	InProgress      bool
	Countdown       time.Duration
}

// Orchestrator runs the wave loop: spawn a wave, wait until every hostile
// is dead, run post-wave resets, count down, repeat.
//
// Tick and Start run on the simulation goroutine. The HUD queries are safe
// from any goroutine.
type Orchestrator struct {
	cfg     Config
	machine *fsm.FSM
	spawner Spawner
	live    LiveCounter
	clock   *sched.Scheduler
	rng     *rand.Rand

	pending         []string
	waveStart       time.Duration
	intermissionEnd time.Duration
	warnedEmpty     bool

	resets  []func()
	cleared []func(WaveSummary)

	phase       atomic.Value // Phase
	currentWave atomic.Int32
	spawned     atomic.Int32
	target      atomic.Int32
	inProgress  atomic.Bool
	countdown   atomic.Int64
}

// NewOrchestrator creates an idle orchestrator.
func NewOrchestrator(cfg Config, spawner Spawner, live LiveCounter, clock *sched.Scheduler, rng *rand.Rand) *Orchestrator {
	if cfg.SpawnBatch <= 0 {
		cfg.SpawnBatch = 1
	}
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}

	o := &Orchestrator{
		cfg:     cfg,
		spawner: spawner,
		live:    live,
		clock:   clock,
		rng:     rng,
	}
	o.phase.Store(PhaseIdle)

	o.machine = fsm.NewFSM(
		string(PhaseIdle),
		fsm.Events{
			{Name: eventStart, Src: []string{string(PhaseIdle)}, Dst: string(PhaseSpawning)},
			{Name: eventSpawned, Src: []string{string(PhaseSpawning)}, Dst: string(PhaseWaiting)},
			{Name: eventCleared, Src: []string{string(PhaseWaiting)}, Dst: string(PhaseIntermission)},
			{Name: eventNext, Src: []string{string(PhaseIntermission)}, Dst: string(PhaseSpawning)},
		},
		fsm.Callbacks{
			"enter_state": func(_ context.Context, e *fsm.Event) {
				o.phase.Store(Phase(e.Dst))
			},
			"enter_" + string(PhaseSpawning): func(_ context.Context, _ *fsm.Event) {
				o.beginWave()
			},
			"enter_" + string(PhaseIntermission): func(_ context.Context, _ *fsm.Event) {
				o.finishWave()
			},
		},
	)

	return o
}

// AddResetHook registers fn to run when a wave is cleared, before the
// intermission countdown.
func (o *Orchestrator) AddResetHook(fn func()) {
	o.resets = append(o.resets, fn)
}

// OnWaveCleared registers fn to receive a summary of each cleared wave.
func (o *Orchestrator) OnWaveCleared(fn func(WaveSummary)) {
	o.cleared = append(o.cleared, fn)
}

// Start begins wave 1. Calling Start twice is a no-op.
func (o *Orchestrator) Start(ctx context.Context) {
	if o.machine.Current() != string(PhaseIdle) {
		return
	}
	o.fire(ctx, eventStart)
}

// Tick advances the wave loop by one simulation tick.
func (o *Orchestrator) Tick(ctx context.Context) {
	switch Phase(o.machine.Current()) {
	case PhaseSpawning:
		if o.spawnBatch() {
			o.fire(ctx, eventSpawned)
		}

	case PhaseWaiting:
		if o.live == nil || o.live.AliveHostiles() == 0 {
			o.fire(ctx, eventCleared)
		}

	case PhaseIntermission:
		remaining := max(o.intermissionEnd-o.clock.Now(), 0)
		o.countdown.Store(int64(remaining))
		if remaining == 0 {
			o.fire(ctx, eventNext)
		}
	}
}

func (o *Orchestrator) fire(ctx context.Context, event string) {
	if err := o.machine.Event(ctx, event); err != nil {
		slog.Error("wave transition failed",
			"event", event,
			"phase", o.machine.Current(),
			"error", err)
	}
}

func (o *Orchestrator) beginWave() {
	wave := int(o.currentWave.Add(1))

	o.pending = o.pending[:0]
	for _, t := range o.cfg.Templates {
		for range WaveCount(t.BaseCount, o.cfg.Growth, wave) {
			o.pending = append(o.pending, t.Archetype)
		}
	}
	o.rng.Shuffle(len(o.pending), func(i, j int) {
		o.pending[i], o.pending[j] = o.pending[j], o.pending[i]
	})

	o.spawned.Store(0)
	o.target.Store(int32(len(o.pending)))
	o.inProgress.Store(true)
	o.countdown.Store(0)
	o.waveStart = o.clock.Now()
	o.warnedEmpty = false

	slog.Info("wave started", "wave", wave, "hostiles", len(o.pending))
}

// spawnBatch issues up to SpawnBatch spawns and reports whether the wave's
// list is exhausted.
func (o *Orchestrator) spawnBatch() bool {
	if len(o.cfg.SpawnPoints) == 0 || len(o.cfg.Templates) == 0 || o.spawner == nil {
		if !o.warnedEmpty {
			slog.Warn("wave spawn skipped: no spawn points, templates or spawner",
				"wave", o.currentWave.Load(),
				"spawnPoints", len(o.cfg.SpawnPoints),
				"templates", len(o.cfg.Templates))
			o.warnedEmpty = true
		}
		return false
	}

	for range min(o.cfg.SpawnBatch, len(o.pending)) {
		archetype := o.pending[0]
		o.pending = o.pending[1:]

		at := o.cfg.SpawnPoints[o.rng.IntN(len(o.cfg.SpawnPoints))]
		if err := o.spawner.Spawn(archetype, at); err != nil {
			slog.Warn("hostile spawn failed",
				"wave", o.currentWave.Load(),
				"archetype", archetype,
				"error", err)
			continue
		}
		o.spawned.Add(1)
	}

	return len(o.pending) == 0
}

func (o *Orchestrator) finishWave() {
	o.inProgress.Store(false)

	summary := WaveSummary{
		Wave:     int(o.currentWave.Load()),
		Spawned:  int(o.spawned.Load()),
		Duration: o.clock.Now() - o.waveStart,
	}
	slog.Info("wave cleared",
		"wave", summary.Wave,
		"spawned", summary.Spawned,
		"duration", summary.Duration)

	for _, fn := range o.resets {
		fn()
	}
	for _, fn := range o.cleared {
		fn(summary)
	}

	o.intermissionEnd = o.clock.Now() + o.cfg.Intermission
	o.countdown.Store(int64(o.cfg.Intermission))
}

// CurrentWave returns the wave number, 0 before the first wave.
func (o *Orchestrator) CurrentWave() int { return int(o.currentWave.Load()) }

// IsWaveInProgress reports whether a wave is spawning or being fought.
func (o *Orchestrator) IsWaveInProgress() bool { return o.inProgress.Load() }

// SpawnedThisWave returns how many hostiles of the current wave exist so far.
func (o *Orchestrator) SpawnedThisWave() int { return int(o.spawned.Load()) }

// TargetThisWave returns the planned size of the current wave.
func (o *Orchestrator) TargetThisWave() int { return int(o.target.Load()) }

// RemainingThisWave returns how many hostiles are still to spawn.
func (o *Orchestrator) RemainingThisWave() int {
	return max(o.TargetThisWave()-o.SpawnedThisWave(), 0)
}

// Phase returns current phase
func (o *Orchestrator) Phase() Phase {
	return o.phase.Load().(Phase)
}

// Snapshot returns the HUD view.
func (o *Orchestrator) Snapshot() WaveState {
	return WaveState{
		Phase:           o.Phase(),
		CurrentWave:     o.CurrentWave(),
		SpawnedThisWave: o.SpawnedThisWave(),
		TargetThisWave:  o.TargetThisWave(),
		InProgress:      o.IsWaveInProgress(),
		Countdown:       time.Duration(o.countdown.Load()),
	}
}
