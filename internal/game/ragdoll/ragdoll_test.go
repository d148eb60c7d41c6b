package ragdoll

import (
	"math/rand/v2"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/holdout/internal/anim"
	"github.com/udisondev/holdout/internal/physics"
	"github.com/udisondev/holdout/internal/sched"
)

type decal struct {
	template string
	at       mgl64.Vec3
	lifetime time.Duration
}

type recordingSink struct {
	decals    []decal
	props     []mgl64.Vec3
	despawned []uint32
}

func (s *recordingSink) PlaceDecal(template string, at, _ mgl64.Vec3, lifetime time.Duration) {
	s.decals = append(s.decals, decal{template: template, at: at, lifetime: lifetime})
}

func (s *recordingSink) PlaceProp(_ string, at, _ mgl64.Vec3) {
	s.props = append(s.props, at)
}

func (s *recordingSink) Despawn(ownerID uint32) {
	s.despawned = append(s.despawned, ownerID)
}

type fakeBone struct {
	stripped int
	scale    float64
}

func (b *fakeBone) Name() string           { return "head" }
func (b *fakeBone) Position() mgl64.Vec3   { return mgl64.Vec3{0, 1.7, 0} }
func (b *fakeBone) StripJoints()           { b.stripped++ }
func (b *fakeBone) StripPhysics()          { b.stripped++ }
func (b *fakeBone) StripColliders()        { b.stripped++ }
func (b *fakeBone) SetScale(scale float64) { b.scale = scale }

type switchable struct{ enabled bool }

func (s *switchable) SetEnabled(enabled bool) { s.enabled = enabled }

type fixture struct {
	pipeline  *Pipeline
	sched     *sched.Scheduler
	sink      *recordingSink
	animator  *anim.ClipDriver
	root      *physics.RigidBody
	limbs     []physics.Body
	behaviour *switchable
}

func newFixture(t *testing.T, cfg Config) *fixture {
	t.Helper()

	root, limbs := physics.Humanoid()
	for _, limb := range limbs {
		limb.SetKinematic(false)
	}

	f := &fixture{
		sched:     sched.New(),
		sink:      &recordingSink{},
		animator:  anim.NewClipDriver(nil),
		root:      root,
		limbs:     limbs,
		behaviour: &switchable{enabled: true},
	}
	f.pipeline = New(Rig{
		OwnerID:    0x20000001,
		Origin:     func() mgl64.Vec3 { return mgl64.Vec3{1, 0.5, 2} },
		Root:       root,
		Limbs:      limbs,
		Animator:   f.animator,
		Behaviours: []Behaviour{f.behaviour},
	}, cfg, physics.FlatGround{Layer: physics.LayerGround}, f.sink, f.sched, rand.New(rand.NewPCG(1, 2)))
	return f
}

func TestNew_AnimatedMode(t *testing.T) {
	f := newFixture(t, DefaultConfig())

	assert.False(t, f.root.Kinematic(), "root free")
	for _, limb := range f.limbs {
		assert.True(t, limb.Kinematic(), limb.Name())
	}
	assert.False(t, f.pipeline.Active())
}

func TestActivate_Once(t *testing.T) {
	cfg := DefaultConfig()
	cfg.PropChance = 1
	f := newFixture(t, cfg)

	f.pipeline.Activate()
	f.pipeline.Activate()

	require.True(t, f.pipeline.Active())
	assert.False(t, f.animator.Enabled())
	assert.False(t, f.behaviour.enabled)
	assert.False(t, f.root.Kinematic())
	for _, limb := range f.limbs {
		assert.False(t, limb.Kinematic(), limb.Name())
	}

	require.Len(t, f.sink.decals, 1)
	d := f.sink.decals[0]
	assert.InDelta(t, 0.01, d.at.Y(), 1e-9)
	assert.InDelta(t, 1.0, d.at.X(), 1e-9)
	assert.GreaterOrEqual(t, d.lifetime, 180*time.Second)
	assert.LessOrEqual(t, d.lifetime, 300*time.Second)
	assert.Contains(t, cfg.DecalTemplates, d.template)

	require.Len(t, f.sink.props, 1)
	assert.InDelta(t, 0.05, f.sink.props[0].Y(), 1e-9)

	assert.Equal(t, 1, f.sched.Pending(), "single despawn task")
}

func TestActivate_DespawnAfterDelay(t *testing.T) {
	f := newFixture(t, DefaultConfig())

	var despawned int
	f.pipeline.SetDespawnFunc(func() { despawned++ })
	f.pipeline.Activate()

	f.sched.Advance(29 * time.Second)
	assert.Empty(t, f.sink.despawned)

	f.sched.Advance(time.Second)
	assert.Equal(t, []uint32{0x20000001}, f.sink.despawned)
	assert.Equal(t, 1, despawned)
	assert.True(t, f.pipeline.Despawned())
}

func TestActivate_NoGroundStillDespawns(t *testing.T) {
	cfg := DefaultConfig()
	cfg.GroundMask = 1 << 5
	cfg.PropChance = 1
	f := newFixture(t, cfg)

	f.pipeline.Activate()
	assert.Empty(t, f.sink.decals)
	assert.Empty(t, f.sink.props)

	f.sched.Advance(cfg.DespawnDelay)
	assert.True(t, f.pipeline.Despawned())
}

func TestActivate_PropNeverRolledAtZeroChance(t *testing.T) {
	cfg := DefaultConfig()
	cfg.PropChance = 0
	f := newFixture(t, cfg)

	f.pipeline.Activate()
	assert.Len(t, f.sink.decals, 1)
	assert.Empty(t, f.sink.props)
}

func TestHitReactions(t *testing.T) {
	f := newFixture(t, DefaultConfig())

	f.pipeline.PlayHeadshotAnimation()
	f.pipeline.PlayGutshotAnimation()
	f.pipeline.PlayNormalHitAnimation()

	assert.Equal(t, 1, f.animator.TriggerCount(anim.TriggerHeadshot))
	assert.Equal(t, 1, f.animator.TriggerCount(anim.TriggerGutshot))
	assert.Equal(t, 1, f.animator.TriggerCount(anim.TriggerHit))
	assert.Len(t, f.sink.decals, 3)

	f.pipeline.Activate()
	before := len(f.sink.decals)
	f.pipeline.PlayHeadshotAnimation()
	assert.Equal(t, 1, f.animator.TriggerCount(anim.TriggerHeadshot), "no reaction after ragdoll")
	assert.Len(t, f.sink.decals, before)
}

func TestRemoveHead(t *testing.T) {
	cfg := DefaultConfig()
	cfg.PropChance = 1
	f := newFixture(t, cfg)

	bone := &fakeBone{scale: 1}
	f.pipeline.RemoveHead(bone)
	f.pipeline.RemoveHead(nil)

	assert.Equal(t, 3, bone.stripped)
	assert.Zero(t, bone.scale)
	assert.Len(t, f.sink.decals, 1)
	assert.Len(t, f.sink.props, 1)
}

func TestRigBone(t *testing.T) {
	origin := mgl64.Vec3{1, 0, 2}
	bone := NewRigBone("head", func() mgl64.Vec3 { return origin }, mgl64.Vec3{0, 1.7, 0})

	assert.Equal(t, mgl64.Vec3{1, 1.7, 2}, bone.Position())
	origin = mgl64.Vec3{3, 0, 3}
	assert.Equal(t, mgl64.Vec3{3, 1.7, 3}, bone.Position(), "follows the origin")

	bone.StripJoints()
	bone.StripPhysics()
	assert.False(t, bone.Severed())
	bone.StripColliders()
	bone.SetScale(0)
	assert.True(t, bone.Severed())
}
