package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/udisondev/holdout/internal/ai"
	"github.com/udisondev/holdout/internal/config"
	"github.com/udisondev/holdout/internal/db"
	"github.com/udisondev/holdout/internal/game/combat"
	"github.com/udisondev/holdout/internal/game/turret"
	"github.com/udisondev/holdout/internal/physics"
	"github.com/udisondev/holdout/internal/present"
	"github.com/udisondev/holdout/internal/sched"
	"github.com/udisondev/holdout/internal/score"
	"github.com/udisondev/holdout/internal/sim"
	"github.com/udisondev/holdout/internal/spawn"
	"github.com/udisondev/holdout/internal/world"
)

const (
	leaderboardSize = 5
	// recorderGrace is how long the recorder may keep writing after the loop exits.
	recorderGrace = 5 * time.Second
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		slog.Info("shutting down", "signal", sig)
		cancel()
	}()

	if err := run(ctx); err != nil {
		slog.Error("fatal", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfgPath := config.Path()
	cfg, err := config.LoadSimulation(cfgPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("validating config %s: %w", cfgPath, err)
	}

	logLevel, _ := cfg.SlogLevel()
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	})))
	ai.EnableDebugLogging(cfg.DebugAI || logLevel == slog.LevelDebug)

	seed := cfg.Seed
	if seed == 0 {
		seed = rand.Int64()
	}
	slog.Info("holdout starting", "config", cfgPath, "seed", seed, "logLevel", cfg.LogLevel)

	var (
		recorder *score.Recorder
		runs     *db.RunRepository
	)
	if cfg.RecordRuns {
		dsn := cfg.Database.DSN()
		database, err := db.New(ctx, dsn)
		if err != nil {
			return fmt.Errorf("connecting to database: %w", err)
		}
		defer database.Close()
		slog.Info("database connected")

		if err := db.RunMigrations(ctx, dsn); err != nil {
			return fmt.Errorf("running migrations: %w", err)
		}
		slog.Info("database migrations applied")

		runs = db.NewRunRepository(database.Pool())
		recorder = score.NewRecorder(runs, seed, score.DefaultBuffer)
	}

	rng := rand.New(rand.NewPCG(uint64(seed), uint64(seed)>>1|1))
	fork := func() *rand.Rand { return rand.New(rand.NewPCG(rng.Uint64(), rng.Uint64())) }

	clock := sched.New()
	live := world.New()
	sink := present.NewSink(nil)
	board := score.NewBoard()
	target := cfg.NewTarget()
	target.SetDeathFunc(func() {
		slog.Info("target down", "name", target.Name())
	})

	env := &combat.Env{Sched: clock, World: live, Sounds: sink}
	factory := spawn.NewFactory(spawn.FactoryConfig{
		Archetypes:         cfg.ArchetypeTable(),
		Melee:              cfg.MeleeParams(),
		Projectile:         cfg.ProjectileParams(),
		Ragdoll:            cfg.RagdollParams(),
		Clips:              cfg.Animation.Clips,
		WalkAnimWorldSpeed: cfg.Animation.WalkAnimWorldSpeed,
	}, live, env, target, board, physics.FlatGround{Layer: physics.LayerGround}, sink, fork())

	waves := spawn.NewOrchestrator(cfg.WaveSchedule(), factory, live, clock, fork())
	barrels := cfg.PropSet()
	waves.AddResetHook(barrels.RespawnAll)
	waves.AddResetHook(target.FullHeal)
	if recorder != nil {
		waves.OnWaveCleared(func(s spawn.WaveSummary) {
			recorder.WaveCleared(db.WaveRecord{Wave: s.Wave, Spawned: s.Spawned, Duration: s.Duration})
		})
	}

	parts := sim.Parts{
		Clock:  clock,
		World:  live,
		Waves:  waves,
		Target: target,
		Board:  board,
	}
	if sentryCfg := cfg.TurretParams(); sentryCfg.FireInterval > 0 {
		resolver := combat.NewResolver(cfg.WeaponTable(), sink)
		parts.Sentry = turret.New(sentryCfg, live, resolver, fork())
		slog.Info("sentry armed", "interval", sentryCfg.FireInterval, "position", sentryCfg.Position)
	}

	simulation := sim.New(sim.Config{RunFor: cfg.RunFor, StatusInterval: cfg.StatusInterval}, parts)
	if recorder != nil {
		simulation.OnGameOver(func(res sim.Result) {
			recorder.Finish(db.RunResult{
				EndedAt:     time.Now(),
				WaveReached: res.Wave,
				Kills:       res.Kills,
				Points:      res.Points,
				Outcome:     string(res.Outcome),
			})
		})
	}

	g, gctx := errgroup.WithContext(ctx)

	// The recorder outlives a cancelled loop so the final tally is written.
	recCtx, stopRecorder := context.WithCancel(context.WithoutCancel(gctx))
	defer stopRecorder()

	loop := sim.NewLoop(simulation, cfg.TickInterval)
	g.Go(func() error {
		defer func() { time.AfterFunc(recorderGrace, stopRecorder) }()

		slog.Info("starting simulation loop", "interval", cfg.TickInterval)
		if err := loop.Start(gctx); err != nil && !errors.Is(err, context.Canceled) {
			return fmt.Errorf("simulation loop: %w", err)
		}
		return nil
	})

	if recorder != nil {
		g.Go(func() error {
			if err := recorder.Run(recCtx); err != nil {
				return fmt.Errorf("run recorder: %w", err)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return fmt.Errorf("simulation error: %w", err)
	}

	res := simulation.Result()
	counts := sink.Counts()
	slog.Info("holdout finished",
		"outcome", res.Outcome,
		"wave", res.Wave,
		"kills", res.Kills,
		"points", res.Points,
		"elapsed", res.Elapsed,
		"decals", counts.Decals,
		"props", counts.Props)

	if runs != nil {
		logLeaderboard(context.WithoutCancel(ctx), runs, recorder)
	}
	return nil
}

func logLeaderboard(ctx context.Context, runs *db.RunRepository, recorder *score.Recorder) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if dropped := recorder.Dropped(); dropped > 0 {
		slog.Warn("run events dropped", "dropped", dropped)
	}

	top, err := runs.TopRuns(ctx, leaderboardSize)
	if err != nil {
		slog.Error("loading leaderboard", "err", err)
		return
	}
	for i, run := range top {
		slog.Info("leaderboard",
			"rank", i+1,
			"runID", run.ID,
			"points", run.Points,
			"wave", run.WaveReached,
			"kills", run.Kills,
			"current", run.ID == recorder.RunID())
	}
}
