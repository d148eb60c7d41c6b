package spawn

import (
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/udisondev/holdout/internal/ai"
	"github.com/udisondev/holdout/internal/anim"
	"github.com/udisondev/holdout/internal/game/combat"
	"github.com/udisondev/holdout/internal/game/ragdoll"
	"github.com/udisondev/holdout/internal/model"
	"github.com/udisondev/holdout/internal/nav"
	"github.com/udisondev/holdout/internal/physics"
	"github.com/udisondev/holdout/internal/world"
)

const headHeight = 1.7

// FactoryConfig describes how hostiles are assembled.
type FactoryConfig struct {
	Archetypes         model.ArchetypeTable
	Melee              combat.MeleeParams
	Projectile         combat.ProjectileParams
	Ragdoll            ragdoll.Config
	Clips              map[string]time.Duration
	WalkAnimWorldSpeed float64
	Links              []nav.Link
}

// Hostile is a spawned agent: navigator, controller and death pipeline.
type Hostile struct {
	archetype string
	agent     *nav.DirectAgent
	ctrl      *ai.Controller
	ragdoll   *ragdoll.Pipeline
	head      *ragdoll.RigBone
}

// Tick steps the navigator, then the controller.
func (h *Hostile) Tick(now, dt time.Duration) {
	h.agent.Step(dt)
	h.ctrl.Tick(now)
}

// ID returns hostile ID
func (h *Hostile) ID() uint32 { return h.ctrl.ID() }

// IsDead reports whether the hostile is dead.
func (h *Hostile) IsDead() bool { return h.ctrl.IsDead() }

// Archetype returns archetype name
func (h *Hostile) Archetype() string { return h.archetype }

// Position returns foot position
func (h *Hostile) Position() mgl64.Vec3 { return h.agent.Position() }

// Controller returns the behavior controller.
func (h *Hostile) Controller() *ai.Controller { return h.ctrl }

// Victim returns the damageable side of the hostile.
func (h *Hostile) Victim() combat.Victim { return h.ctrl }

// Head returns the severable head bone.
func (h *Hostile) Head() *ragdoll.RigBone { return h.head }

// RemoveHead severs the head once.
func (h *Hostile) RemoveHead() {
	if h.head.Severed() {
		return
	}
	h.ragdoll.RemoveHead(h.head)
}

// Factory builds hostiles and registers them in the world.
type Factory struct {
	cfg    FactoryConfig
	world  *world.World
	env    *combat.Env
	target combat.Target
	kills  ai.KillCounter
	probe  physics.GroundProbe
	decor  ragdoll.DecorationSink
	rng    *rand.Rand
}

// NewFactory creates a factory. target is what every hostile chases.
func NewFactory(
	cfg FactoryConfig,
	w *world.World,
	env *combat.Env,
	target combat.Target,
	kills ai.KillCounter,
	probe physics.GroundProbe,
	decor ragdoll.DecorationSink,
	rng *rand.Rand,
) *Factory {
	if cfg.Archetypes == nil {
		cfg.Archetypes = model.BuiltinArchetypes()
	}
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &Factory{
		cfg:    cfg,
		world:  w,
		env:    env,
		target: target,
		kills:  kills,
		probe:  probe,
		decor:  decor,
		rng:    rng,
	}
}

// Spawn assembles a hostile of archetype at position and registers it.
// Unknown archetypes fall back to the default preset.
func (f *Factory) Spawn(archetype string, at mgl64.Vec3) error {
	_, err := f.Build(archetype, at)
	return err
}

// Build is Spawn returning the hostile.
func (f *Factory) Build(archetype string, at mgl64.Vec3) (*Hostile, error) {
	preset, ok := f.cfg.Archetypes.Lookup(archetype)
	if !ok {
		slog.Warn("unknown archetype, using default", "archetype", archetype)
	}
	if err := preset.Validate(); err != nil {
		return nil, fmt.Errorf("building hostile: %w", err)
	}

	id := f.world.IDs().NextHostileID()
	agent := nav.NewDirectAgent(at, f.cfg.Links)
	animator := anim.NewClipDriver(f.cfg.Clips)
	root, limbs := physics.Humanoid()

	pipeline := ragdoll.New(ragdoll.Rig{
		OwnerID:  id,
		Origin:   agent.Position,
		Root:     root,
		Limbs:    limbs,
		Animator: animator,
	}, f.cfg.Ragdoll, f.probe, f.decor, f.env.Sched, f.childRand())

	ctrl := ai.NewController(ai.Options{
		ID:                 id,
		Stats:              model.NewStatsProfile(preset),
		Navigator:          agent,
		Animator:           animator,
		Ragdoll:            pipeline,
		RootBody:           root,
		Effects:            f.effects(preset),
		Kills:              f.kills,
		Rand:               f.childRand(),
		WalkAnimWorldSpeed: f.cfg.WalkAnimWorldSpeed,
	})
	ctrl.SetTarget(f.target)

	h := &Hostile{
		archetype: preset.Name,
		agent:     agent,
		ctrl:      ctrl,
		ragdoll:   pipeline,
		head:      ragdoll.NewRigBone("head", agent.Position, mgl64.Vec3{0, headHeight, 0}),
	}
	pipeline.SetDespawnFunc(func() {
		f.world.Remove(id)
	})

	f.world.AddHostile(h)

	if ai.IsDebugEnabled() {
		slog.Debug("hostile spawned",
			"agentID", id,
			"archetype", preset.Name,
			"position", at)
	}
	return h, nil
}

func (f *Factory) effects(a model.Archetype) []*combat.AttackEffect {
	var out []*combat.AttackEffect
	if a.HasEffect(model.EffectMelee) {
		out = append(out, combat.NewTimedMeleeHit(f.env, f.cfg.Melee))
	}
	if a.HasEffect(model.EffectProjectile) {
		out = append(out, combat.NewHomingProjectile(f.env, f.cfg.Projectile))
	}
	return out
}

func (f *Factory) childRand() *rand.Rand {
	return rand.New(rand.NewPCG(f.rng.Uint64(), f.rng.Uint64()))
}
