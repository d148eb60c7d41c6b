package ai

import (
	"math/rand/v2"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/holdout/internal/anim"
	"github.com/udisondev/holdout/internal/game/combat"
	"github.com/udisondev/holdout/internal/model"
	"github.com/udisondev/holdout/internal/nav"
	"github.com/udisondev/holdout/internal/sched"
)

type fakeNav struct {
	pos       mgl64.Vec3
	vel       mgl64.Vec3
	dest      mgl64.Vec3
	remaining float64
	stopping  float64
	speed     float64
	pending   bool
	onLink    bool
	disabled  bool
	stopped   bool
	resets    int
}

func (n *fakeNav) SetDestination(dest mgl64.Vec3) { n.dest = dest }
func (n *fakeNav) ResetPath()                     { n.resets++ }
func (n *fakeNav) Position() mgl64.Vec3           { return n.pos }
func (n *fakeNav) Velocity() mgl64.Vec3           { return n.vel }
func (n *fakeNav) RemainingDistance() float64     { return n.remaining }
func (n *fakeNav) StoppingDistance() float64      { return n.stopping }
func (n *fakeNav) SetStoppingDistance(d float64)  { n.stopping = d }
func (n *fakeNav) SetSpeed(speed float64)         { n.speed = speed }
func (n *fakeNav) PathPending() bool              { return n.pending }
func (n *fakeNav) OnSpecialLink() bool            { return n.onLink }
func (n *fakeNav) Enabled() bool                  { return !n.disabled }
func (n *fakeNav) SetEnabled(enabled bool)        { n.disabled = !enabled }
func (n *fakeNav) IsStopped() bool                { return n.stopped }
func (n *fakeNav) SetStopped(stopped bool)        { n.stopped = stopped }

type killTally struct {
	kills  int
	points int
}

func (k *killTally) AddKill(points int) {
	k.kills++
	k.points += points
}

type ragdollSpy struct {
	activations int
	reactions   int
}

func (r *ragdollSpy) Activate()               { r.activations++ }
func (r *ragdollSpy) PlayHeadshotAnimation()  { r.reactions++ }
func (r *ragdollSpy) PlayGutshotAnimation()   { r.reactions++ }
func (r *ragdollSpy) PlayNormalHitAnimation() { r.reactions++ }

type rig struct {
	ctrl     *Controller
	nav      *fakeNav
	animator *anim.ClipDriver
	kills    *killTally
	ragdoll  *ragdollSpy
	target   *model.Target
}

func newRig(t *testing.T, archetype model.Archetype, effects ...*combat.AttackEffect) *rig {
	t.Helper()

	r := &rig{
		nav:      &fakeNav{remaining: 10},
		animator: anim.NewClipDriver(map[string]time.Duration{anim.TriggerPunch1: 1200 * time.Millisecond, anim.TriggerPunch2: 800 * time.Millisecond}),
		kills:    &killTally{},
		ragdoll:  &ragdollSpy{},
		target:   model.NewTarget("player", mgl64.Vec3{0, 0, 1}, 100, 0.5, 2),
	}
	r.ctrl = NewController(Options{
		ID:        0x20000001,
		Stats:     model.NewStatsProfile(archetype),
		Navigator: r.nav,
		Animator:  r.animator,
		Ragdoll:   r.ragdoll,
		Effects:   effects,
		Kills:     r.kills,
		Rand:      rand.New(rand.NewPCG(7, 7)),
	})
	r.ctrl.SetTarget(r.target)
	return r
}

func TestNewController_ConfiguresNavigator(t *testing.T) {
	r := newRig(t, model.DefaultArchetype)

	assert.Equal(t, 3.5, r.nav.speed)
	assert.Equal(t, 2.0, r.nav.stopping)
	assert.Equal(t, StateIdle, r.ctrl.State())
}

func TestController_MovementStates(t *testing.T) {
	r := newRig(t, model.DefaultArchetype)

	r.ctrl.Tick(0)
	assert.Equal(t, StateIdle, r.ctrl.State())
	assert.Equal(t, r.target.Position(), r.nav.dest, "chases target")

	r.nav.vel = mgl64.Vec3{0, 0, 3.4}
	r.ctrl.Tick(20 * time.Millisecond)
	assert.Equal(t, StateWalking, r.ctrl.State())
	assert.InDelta(t, 3.4, r.animator.Float(anim.ParamSpeed), 1e-9)
	assert.Equal(t, int(StateWalking), r.animator.Integer(anim.ParamState))
	assert.InDelta(t, 2.0, r.animator.Speed(), 1e-9, "3.4 / 1.7")

	r.nav.vel = mgl64.Vec3{0, 0, 10}
	r.ctrl.Tick(40 * time.Millisecond)
	assert.InDelta(t, 3.0, r.animator.Speed(), 1e-9, "clamped")

	r.nav.vel = mgl64.Vec3{0.05, 0, 0}
	r.ctrl.Tick(60 * time.Millisecond)
	assert.Equal(t, StateIdle, r.ctrl.State())
	assert.Equal(t, 1.0, r.animator.Speed())
}

func TestController_Jump(t *testing.T) {
	r := newRig(t, model.DefaultArchetype)

	r.nav.vel = mgl64.Vec3{1, 0, 0}
	r.nav.onLink = true
	r.ctrl.Tick(0)
	assert.Equal(t, StateJumping, r.ctrl.State())

	r.nav.vel = mgl64.Vec3{}
	r.ctrl.Tick(time.Second)
	assert.Equal(t, StateJumping, r.ctrl.State(), "movement does not end a jump")

	r.nav.onLink = false
	r.ctrl.Tick(2 * time.Second)
	assert.Equal(t, StateWalking, r.ctrl.State())
}

func TestController_AttackCooldown(t *testing.T) {
	r := newRig(t, model.DefaultArchetype)
	r.nav.remaining = 2.0

	r.ctrl.Tick(0)
	require.Equal(t, StateAttacking, r.ctrl.State())
	assert.True(t, r.nav.stopped)
	assert.Equal(t, 1, r.ctrl.Attacks())
	assert.Equal(t, 1, r.animator.TriggerCount(anim.TriggerPunch1)+r.animator.TriggerCount(anim.TriggerPunch2))

	r.ctrl.Tick(1499 * time.Millisecond)
	assert.Equal(t, 1, r.ctrl.Attacks())

	r.ctrl.Tick(1500 * time.Millisecond)
	assert.Equal(t, 2, r.ctrl.Attacks())
	assert.Equal(t, int(StateAttacking), r.animator.Integer(anim.ParamState))
}

func TestController_LeavesAttackWhenOutOfRange(t *testing.T) {
	r := newRig(t, model.DefaultArchetype)
	r.nav.remaining = 1

	r.ctrl.Tick(0)
	require.Equal(t, StateAttacking, r.ctrl.State())

	r.nav.remaining = 2.1
	r.ctrl.Tick(100 * time.Millisecond)
	assert.Equal(t, StateWalking, r.ctrl.State())
	assert.False(t, r.nav.stopped)
}

func TestController_LeavesLinkWhenTargetMovesAway(t *testing.T) {
	agent := nav.NewDirectAgent(mgl64.Vec3{}, []nav.Link{
		{From: mgl64.Vec3{0, 0, -1}, To: mgl64.Vec3{0, 0, 1}, Radius: 0.5},
	})
	target := model.NewTarget("player", mgl64.Vec3{0, 0, 1.5}, 100, 0.5, 2)
	ctrl := NewController(Options{
		ID:        0x20000002,
		Stats:     model.NewStatsProfile(model.DefaultArchetype),
		Navigator: agent,
		Rand:      rand.New(rand.NewPCG(1, 2)),
	})
	ctrl.SetTarget(target)

	ctrl.Tick(0)
	require.Equal(t, StateAttacking, ctrl.State())
	require.True(t, agent.IsStopped())
	require.True(t, agent.OnSpecialLink())

	target.SetPosition(mgl64.Vec3{0, 0, 20})

	dt := 20 * time.Millisecond
	now := time.Duration(0)
	for range 400 {
		now += dt
		ctrl.Tick(now)
		agent.Step(dt)
	}

	assert.False(t, agent.OnSpecialLink(), "walked off the link")
	assert.InDelta(t, 18.0, agent.Position().Z(), 0.06, "halts near attack range")
	assert.Equal(t, StateAttacking, ctrl.State())
}

func TestController_NoAttackWhilePathPending(t *testing.T) {
	r := newRig(t, model.DefaultArchetype)
	r.nav.remaining = 1
	r.nav.pending = true

	r.ctrl.Tick(0)
	assert.Equal(t, 0, r.ctrl.Attacks())
	assert.NotEqual(t, StateAttacking, r.ctrl.State())
}

func TestController_PlayAttackUsesClipLength(t *testing.T) {
	s := sched.New()
	melee := combat.NewTimedMeleeHit(&combat.Env{Sched: s}, combat.DefaultMeleeParams())
	r := newRig(t, model.DefaultArchetype, melee)

	r.ctrl.PlayAttack(combat.VariantPrimary)
	assert.Equal(t, 1, r.animator.TriggerCount(anim.TriggerPunch1))

	// hit at 0.3 of the 1.2s clip
	s.Advance(359 * time.Millisecond)
	assert.Equal(t, 100, r.target.CurrentHealth())
	s.Advance(time.Millisecond)
	assert.Equal(t, 90, r.target.CurrentHealth())
}

func TestController_PlayAttackWithoutAnimator(t *testing.T) {
	s := sched.New()
	melee := combat.NewTimedMeleeHit(&combat.Env{Sched: s}, combat.DefaultMeleeParams())
	target := model.NewTarget("player", mgl64.Vec3{0, 0, 1}, 100, 0.5, 2)
	ctrl := NewController(Options{
		ID:        0x20000002,
		Stats:     model.NewStatsProfile(model.DefaultArchetype),
		Navigator: &fakeNav{},
		Effects:   []*combat.AttackEffect{melee},
	})
	ctrl.SetTarget(target)

	ctrl.PlayAttack(combat.VariantSecondary)

	// hit at 0.5 of the 0.5s default
	s.Advance(249 * time.Millisecond)
	assert.Equal(t, 100, target.CurrentHealth())
	s.Advance(time.Millisecond)
	assert.Equal(t, 90, target.CurrentHealth())
}

func TestController_LethalDamage(t *testing.T) {
	archetype := model.DefaultArchetype
	archetype.KillPoints = 3
	r := newRig(t, archetype)

	var deaths int
	r.ctrl.AddDeathObserver(func(*Controller) { deaths++ })

	r.ctrl.ApplyDamage(0)
	r.ctrl.ApplyDamage(-5)
	assert.Equal(t, 100, r.ctrl.Stats().CurrentHealth)

	r.ctrl.ApplyDamage(60)
	assert.False(t, r.ctrl.IsDead())

	r.ctrl.ApplyDamage(60)
	require.True(t, r.ctrl.IsDead())
	assert.Equal(t, 0, r.ctrl.Stats().CurrentHealth)

	r.ctrl.ApplyDamage(60)
	r.ctrl.Kill()

	assert.Equal(t, 1, r.kills.kills)
	assert.Equal(t, 3, r.kills.points)
	assert.Equal(t, 1, r.ragdoll.activations)
	assert.Equal(t, 1, deaths)

	assert.True(t, r.nav.stopped)
	assert.True(t, r.nav.disabled)
	assert.Equal(t, 1, r.nav.resets)
	assert.Equal(t, int(StateDead), r.animator.Integer(anim.ParamState))
	assert.Equal(t, 1.0, r.animator.Speed())
}

func TestController_KillDoesNotCredit(t *testing.T) {
	r := newRig(t, model.DefaultArchetype)

	r.ctrl.Kill()

	assert.True(t, r.ctrl.IsDead())
	assert.Equal(t, 0, r.kills.kills)
	assert.Equal(t, 1, r.ragdoll.activations)
}

func TestController_DeadIsAbsorbing(t *testing.T) {
	r := newRig(t, model.DefaultArchetype)
	r.ctrl.Kill()

	r.nav.disabled = false
	r.nav.remaining = 1
	r.nav.vel = mgl64.Vec3{0, 0, 3}
	r.nav.onLink = true
	r.ctrl.Tick(time.Second)

	assert.Equal(t, StateDead, r.ctrl.State())
	assert.Equal(t, 0, r.ctrl.Attacks())
}

func TestController_NoTargetParks(t *testing.T) {
	r := newRig(t, model.DefaultArchetype)
	r.ctrl.SetTarget(nil)
	r.nav.remaining = 1

	r.ctrl.Tick(0)
	assert.Equal(t, StateIdle, r.ctrl.State())
	assert.Equal(t, 0, r.ctrl.Attacks())
}

func TestController_MissingCollaborators(t *testing.T) {
	ctrl := NewController(Options{ID: 0x20000003})
	ctrl.SetTarget(model.NewTarget("player", mgl64.Vec3{}, 100, 0.5, 2))

	assert.NotPanics(t, func() {
		ctrl.Tick(0)
		ctrl.PlayAttack(combat.VariantPrimary)
		ctrl.ApplyDamage(10)
		ctrl.Kill()
	})
	assert.Nil(t, ctrl.HitReactor())
	assert.True(t, ctrl.IsDead())
}

func TestController_ResolverVictim(t *testing.T) {
	r := newRig(t, model.DefaultArchetype)
	resolver := combat.NewResolver(combat.DefaultWeaponTable(), nil)

	_, ok := resolver.ApplyHit(combat.DamageEvent{Label: model.LabelGut}, r.ctrl)
	require.True(t, ok)
	assert.Equal(t, 60, r.ctrl.Stats().CurrentHealth)
	assert.Equal(t, 1, r.ragdoll.reactions)

	_, ok = resolver.ApplyHit(combat.DamageEvent{Label: model.LabelHead}, r.ctrl)
	require.True(t, ok)
	assert.True(t, r.ctrl.IsDead())
	assert.Equal(t, 1, r.ragdoll.reactions, "no reaction on the lethal hit")
	assert.Equal(t, 1, r.kills.kills)
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "ATTACKING", StateAttacking.String())
	assert.Equal(t, "UNKNOWN", State(42).String())
}
