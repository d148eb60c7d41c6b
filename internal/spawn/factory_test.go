package spawn

import (
	"context"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/holdout/internal/ai"
	"github.com/udisondev/holdout/internal/game/combat"
	"github.com/udisondev/holdout/internal/game/ragdoll"
	"github.com/udisondev/holdout/internal/model"
	"github.com/udisondev/holdout/internal/physics"
	"github.com/udisondev/holdout/internal/sched"
	"github.com/udisondev/holdout/internal/testutil"
	"github.com/udisondev/holdout/internal/world"
)

type tally struct{ kills, points int }

func (k *tally) AddKill(points int) {
	k.kills++
	k.points += points
}

type factoryRig struct {
	factory *Factory
	world   *world.World
	clock   *sched.Scheduler
	target  *model.Target
	kills   *tally
}

func newFactoryRig(t testing.TB) *factoryRig {
	t.Helper()

	r := &factoryRig{
		world:  world.New(),
		clock:  sched.New(),
		target: model.NewTarget("player", mgl64.Vec3{}, 100, 0.5, 2),
		kills:  &tally{},
	}
	env := &combat.Env{Sched: r.clock, World: r.world}
	r.factory = NewFactory(FactoryConfig{
		Melee:      combat.DefaultMeleeParams(),
		Projectile: combat.DefaultProjectileParams(),
		Ragdoll:    ragdoll.DefaultConfig(),
	}, r.world, env, r.target, r.kills, physics.FlatGround{Layer: physics.LayerGround}, nil, rand.New(rand.NewPCG(3, 4)))
	return r
}

func TestFactory_Build(t *testing.T) {
	r := newFactoryRig(t)

	h, err := r.factory.Build("Witch", mgl64.Vec3{0, 0, 20})
	require.NoError(t, err)

	assert.Equal(t, "witch", h.Archetype())
	assert.True(t, world.IsHostileID(h.ID()))
	assert.True(t, r.world.Contains(h.ID()))
	assert.Equal(t, 150, h.Controller().Stats().MaxHealth)
	assert.Equal(t, r.target, h.Controller().Target())

	h.Controller().PlayAttack(combat.VariantPrimary)
	assert.Equal(t, 1, r.world.ProjectileCount(), "witch casts")
}

func TestFactory_UnknownArchetypeUsesDefault(t *testing.T) {
	r := newFactoryRig(t)

	h, err := r.factory.Build("ghoul", mgl64.Vec3{})
	require.NoError(t, err)
	assert.Equal(t, model.DefaultArchetype.Name, h.Archetype())
}

func TestFactory_InvalidArchetype(t *testing.T) {
	r := newFactoryRig(t)
	r.factory.cfg.Archetypes = model.ArchetypeTable{"broken": {Name: "broken", MaxHealth: 0, WalkSpeed: 1, AttackRange: 1}}

	err := r.factory.Spawn("broken", mgl64.Vec3{})
	assert.Error(t, err)
	assert.Equal(t, 0, r.world.HostileCount())
}

func TestFactory_DeathAndDespawn(t *testing.T) {
	r := newFactoryRig(t)

	h, err := r.factory.Build("default", mgl64.Vec3{0, 0, 10})
	require.NoError(t, err)

	h.Victim().ApplyDamage(1000)
	assert.True(t, h.IsDead())
	assert.Equal(t, 1, r.kills.kills)
	assert.Equal(t, 0, r.world.AliveHostiles())
	assert.Equal(t, 1, r.world.HostileCount(), "corpse stays until despawn")

	r.clock.Advance(30 * time.Second)
	assert.Equal(t, 0, r.world.HostileCount())
}

func TestFactory_HostileChasesAndHits(t *testing.T) {
	ai.EnableDebugLogging(false)
	r := newFactoryRig(t)

	h, err := r.factory.Build("default", mgl64.Vec3{0, 0, 4})
	require.NoError(t, err)

	dt := 20 * time.Millisecond
	for range 100 {
		r.clock.Advance(dt)
		r.world.TickHostiles(r.clock.Now(), dt)
	}

	assert.Equal(t, ai.StateAttacking, h.Controller().State())
	assert.InDelta(t, 2.0, h.Position().Len(), 0.06, "halts near attack range")
	assert.Less(t, r.target.CurrentHealth(), 100)
}

func TestOrchestratorWithFactory(t *testing.T) {
	ctx := context.Background()
	r := newFactoryRig(t)

	cfg := testConfig()
	o := NewOrchestrator(cfg, r.factory, r.world, r.clock, rand.New(rand.NewPCG(5, 6)))
	o.Start(ctx)
	o.Tick(ctx)
	o.Tick(ctx)
	require.Equal(t, PhaseWaiting, o.Phase())
	require.Equal(t, 3, r.world.AliveHostiles())

	for _, h := range r.world.Hostiles() {
		h.(*Hostile).Victim().ApplyDamage(1000)
	}
	o.Tick(ctx)
	assert.Equal(t, PhaseIntermission, o.Phase())
	assert.Equal(t, 3, r.kills.kills)
}

func TestHostile_RemoveHead(t *testing.T) {
	r := newFactoryRig(t)

	h, err := r.factory.Build("default", mgl64.Vec3{0, 0, 10})
	require.NoError(t, err)
	assert.Equal(t, mgl64.Vec3{0, 1.7, 10}, h.Head().Position())
	assert.False(t, h.Head().Severed())

	h.RemoveHead()
	assert.True(t, h.Head().Severed())
	assert.Zero(t, h.Head().Scale())

	h.RemoveHead()
	assert.True(t, h.Head().Severed())
}

func TestFactory_Build_DebugLogGated(t *testing.T) {
	t.Cleanup(func() { ai.EnableDebugLogging(false) })
	logs := testutil.CaptureLogs(t)
	r := newFactoryRig(t)

	ai.EnableDebugLogging(false)
	_, err := r.factory.Build("default", mgl64.Vec3{})
	require.NoError(t, err)
	assert.Zero(t, logs.Count("hostile spawned"))

	ai.EnableDebugLogging(true)
	_, err = r.factory.Build("default", mgl64.Vec3{})
	require.NoError(t, err)
	assert.Equal(t, 1, logs.Count("hostile spawned"))
}
