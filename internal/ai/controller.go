package ai

import (
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/udisondev/holdout/internal/anim"
	"github.com/udisondev/holdout/internal/game/combat"
	"github.com/udisondev/holdout/internal/model"
	"github.com/udisondev/holdout/internal/nav"
	"github.com/udisondev/holdout/internal/physics"
)

// State is the behavior state of a hostile. The numeric value is what the
// animator's State parameter receives.
type State int

const (
	StateIdle State = iota
	StateWalking
	StateJumping
	StateAttacking
	StateDead
)

// String returns state name
func (s State) String() string {
	switch s {
	case StateIdle:
		return "IDLE"
	case StateWalking:
		return "WALKING"
	case StateJumping:
		return "JUMPING"
	case StateAttacking:
		return "ATTACKING"
	case StateDead:
		return "DEAD"
	default:
		return "UNKNOWN"
	}
}

const (
	movingThreshold    = 0.1
	attackSlack        = 0.05
	defaultAttackClip  = 500 * time.Millisecond
	minWalkPlayback    = 0.1
	maxWalkPlayback    = 3.0
	DefaultWalkAnimRef = 1.7
	muzzleHeight       = 1.5
)

// Navigator is the path-following capability an agent steers.
type Navigator = nav.Agent

// Animator is the animation driver of the agent's rig.
type Animator = anim.Driver

// Ragdoll is the death decoration pipeline of the agent.
type Ragdoll interface {
	combat.HitReactor
	Activate()
}

// KillCounter is notified once per hostile killed by damage.
type KillCounter interface {
	AddKill(points int)
}

// Options configure a Controller. Only ID and Stats are required.
type Options struct {
	ID        uint32
	Stats     *model.StatsProfile
	Navigator Navigator
	Animator  Animator
	Ragdoll   Ragdoll
	RootBody  physics.Body
	Effects   []*combat.AttackEffect
	Kills     KillCounter
	Rand      *rand.Rand

	// WalkAnimWorldSpeed is the world speed at which the walk clip plays
	// at rate 1. Zero means DefaultWalkAnimRef.
	WalkAnimWorldSpeed float64
}

// Controller is the per-hostile behavior state machine: it chases the
// target, attacks in range on cooldown, takes damage and dies.
//
// All methods run on the simulation goroutine.
type Controller struct {
	id       uint32
	stats    *model.StatsProfile
	nav      Navigator
	animator Animator
	ragdoll  Ragdoll
	root     physics.Body
	effects  []*combat.AttackEffect
	kills    KillCounter
	rng      *rand.Rand
	walkRef  float64

	target         combat.Target
	state          State
	nextAttackTime time.Duration
	attacks        int

	onDeath []func(*Controller)
}

// NewController creates a controller in Idle and configures the navigator
// with the agent's walk speed and attack range.
func NewController(opts Options) *Controller {
	c := &Controller{
		id:       opts.ID,
		stats:    opts.Stats,
		nav:      opts.Navigator,
		animator: opts.Animator,
		ragdoll:  opts.Ragdoll,
		root:     opts.RootBody,
		effects:  opts.Effects,
		kills:    opts.Kills,
		rng:      opts.Rand,
		walkRef:  opts.WalkAnimWorldSpeed,
		state:    StateIdle,
	}
	if c.rng == nil {
		c.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	if c.walkRef <= 0 {
		c.walkRef = DefaultWalkAnimRef
	}

	if c.stats == nil {
		slog.Warn("hostile has no stats, attacks and damage disabled", "agentID", c.id)
	}
	if c.animator == nil {
		slog.Warn("hostile has no animator", "agentID", c.id)
	}
	if c.nav == nil {
		slog.Warn("hostile has no navigator, it will not move or attack", "agentID", c.id)
	} else if c.stats != nil {
		c.nav.SetSpeed(c.stats.WalkSpeed)
		c.nav.SetStoppingDistance(c.stats.AttackRange)
	}

	return c
}

// AddDeathObserver registers fn to run once when the hostile dies.
func (c *Controller) AddDeathObserver(fn func(*Controller)) {
	c.onDeath = append(c.onDeath, fn)
}

// SetTarget sets the actor to chase; nil parks the agent.
func (c *Controller) SetTarget(t combat.Target) {
	c.target = t
}

// ID returns agent ID
func (c *Controller) ID() uint32 { return c.id }

// State returns current state
func (c *Controller) State() State { return c.state }

// IsDead reports whether the agent is dead.
func (c *Controller) IsDead() bool { return c.state == StateDead }

// Stats returns the agent's stats profile.
func (c *Controller) Stats() *model.StatsProfile { return c.stats }

// Attacks returns how many attacks were started.
func (c *Controller) Attacks() int { return c.attacks }

// Target returns the current target.
func (c *Controller) Target() combat.Target { return c.target }

// AnchorPoint returns the agent's foot position.
func (c *Controller) AnchorPoint() mgl64.Vec3 {
	if c.nav == nil {
		return mgl64.Vec3{}
	}
	return c.nav.Position()
}

// MuzzlePoint returns where projectiles leave the agent.
func (c *Controller) MuzzlePoint() mgl64.Vec3 {
	return c.AnchorPoint().Add(physics.Up.Mul(muzzleHeight))
}

// RootBody returns the root rigid body or nil.
func (c *Controller) RootBody() physics.Body { return c.root }

// HitReactor returns the ragdoll's hit reactions or nil.
func (c *Controller) HitReactor() combat.HitReactor {
	if c.ragdoll == nil {
		return nil
	}
	return c.ragdoll
}

// Tick runs one behavior update. now is simulated time since run start.
func (c *Controller) Tick(now time.Duration) {
	if c.state == StateDead || c.target == nil {
		return
	}

	c.updateDestination()
	c.updateStateFromMovement()
	c.handleJump()
	c.handleAttack(now)
	c.updateAnimator()
}

func (c *Controller) navReady() bool {
	return c.nav != nil && c.nav.Enabled()
}

func (c *Controller) updateDestination() {
	if !c.navReady() {
		return
	}
	c.nav.SetDestination(c.target.Position())
}

func (c *Controller) speed() float64 {
	if !c.navReady() {
		return 0
	}
	return c.nav.Velocity().Len()
}

func (c *Controller) updateStateFromMovement() {
	if c.state == StateAttacking || c.state == StateJumping {
		return
	}
	if c.speed() > movingThreshold {
		c.state = StateWalking
	} else {
		c.state = StateIdle
	}
}

func (c *Controller) handleJump() {
	if !c.navReady() {
		return
	}
	if c.nav.OnSpecialLink() {
		c.state = StateJumping
	} else if c.state == StateJumping {
		c.state = StateWalking
	}
}

func (c *Controller) handleAttack(now time.Duration) {
	if c.stats == nil || !c.navReady() || c.nav.PathPending() {
		return
	}

	if c.nav.RemainingDistance() <= c.nav.StoppingDistance()+attackSlack {
		c.state = StateAttacking
		c.nav.SetStopped(true)

		if now >= c.nextAttackTime {
			variant := combat.Variant(c.rng.IntN(2) + 1)
			c.PlayAttack(variant)
			c.nextAttackTime = now + c.stats.AttackCooldown
		}
		return
	}

	if c.state == StateAttacking {
		c.state = StateWalking
	}
	c.nav.SetStopped(false)
}

func (c *Controller) updateAnimator() {
	if c.animator == nil {
		return
	}

	speed := c.speed()
	c.animator.SetFloat(anim.ParamSpeed, speed)
	c.animator.SetInteger(anim.ParamState, int(c.state))

	if c.state == StateWalking {
		c.animator.SetSpeed(mgl64.Clamp(speed/c.walkRef, minWalkPlayback, maxWalkPlayback))
	} else {
		c.animator.SetSpeed(1)
	}
}

// PlayAttack starts an attack animation and runs every attack effect
// with the animation's length.
func (c *Controller) PlayAttack(variant combat.Variant) {
	c.attacks++

	duration := defaultAttackClip
	if c.animator != nil {
		if variant == combat.VariantSecondary {
			c.animator.SetTrigger(anim.TriggerPunch2)
		} else {
			c.animator.SetTrigger(anim.TriggerPunch1)
		}
		if length, ok := c.animator.CurrentStateLength(); ok && length > 0 {
			duration = length
		}
	}

	if IsDebugEnabled() {
		slog.Debug("hostile attack",
			"agentID", c.id,
			"variant", variant,
			"duration", duration)
	}

	for _, e := range c.effects {
		e.Execute(c, variant, duration)
	}
}

// ApplyDamage deducts health. A lethal hit kills the agent and credits the
// kill counter with the archetype's points.
func (c *Controller) ApplyDamage(amount int) {
	if c.state == StateDead || c.stats == nil || amount <= 0 {
		return
	}

	c.stats.TakeDamage(amount)
	if !c.stats.IsDead() {
		return
	}

	c.Kill()
	if c.kills != nil {
		c.kills.AddKill(c.stats.KillPoints)
	}
}

// Kill moves the agent to Dead. Later calls are no-ops.
// Kill does not credit the kill counter.
func (c *Controller) Kill() {
	if c.state == StateDead {
		return
	}
	c.state = StateDead

	if c.nav != nil {
		c.nav.SetStopped(true)
		c.nav.ResetPath()
		c.nav.SetEnabled(false)
	}
	if c.animator != nil {
		c.animator.SetSpeed(1)
		c.animator.SetInteger(anim.ParamState, int(StateDead))
	}
	if c.ragdoll != nil {
		c.ragdoll.Activate()
	}

	slog.Debug("hostile died", "agentID", c.id)

	for _, fn := range c.onDeath {
		fn(c)
	}
}
