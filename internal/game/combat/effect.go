package combat

import (
	"log/slog"
	"time"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/udisondev/holdout/internal/model"
	"github.com/udisondev/holdout/internal/sched"
	"github.com/udisondev/holdout/internal/world"
)

// Variant selects one of the two attack animations.
type Variant int

const (
	VariantPrimary   Variant = 1
	VariantSecondary Variant = 2
)

func (v Variant) index() int {
	if v == VariantSecondary {
		return 1
	}
	return 0
}

// Target is what hostiles attack: a position, a collision volume and a
// health sink accepting positive amounts only.
type Target interface {
	Position() mgl64.Vec3
	Overlaps(point mgl64.Vec3, radius float64) bool
	ApplyDamage(amount int)
}

// Attacker is the agent executing an attack effect.
type Attacker interface {
	ID() uint32
	IsDead() bool
	// Target returns the current target or nil.
	Target() Target
	// Stats returns the agent's profile or nil.
	Stats() *model.StatsProfile
	// AnchorPoint is the point melee reach is measured from.
	AnchorPoint() mgl64.Vec3
	// MuzzlePoint is where projectiles are released.
	MuzzlePoint() mgl64.Vec3
}

// SoundSink plays one-shot positional sounds.
type SoundSink interface {
	PlaySound(template string, at mgl64.Vec3)
}

// Env is what attack effects need from the simulation.
type Env struct {
	Sched  *sched.Scheduler
	World  *world.World
	Sounds SoundSink
}

// EffectKind discriminates AttackEffect variants.
type EffectKind int

const (
	KindTimedMeleeHit EffectKind = iota
	KindHomingProjectile
)

// String returns effect kind name
func (k EffectKind) String() string {
	switch k {
	case KindTimedMeleeHit:
		return "TIMED_MELEE_HIT"
	case KindHomingProjectile:
		return "HOMING_PROJECTILE"
	default:
		return "UNKNOWN"
	}
}

// MeleeParams configures a timed melee hit.
// Index 0 of the paired arrays is the primary variant, index 1 the secondary.
type MeleeParams struct {
	Damage int
	// HitTime and SoundTime are normalized [0,1] positions in the attack animation.
	HitTime   [2]float64
	SoundTime [2]float64
	// Sounds are the per-variant sound templates; empty means silent.
	Sounds [2]string
	// ReachSlack is added to the attack range when the hit lands.
	ReachSlack float64
	// DamageHandledExternally skips applying damage to the target.
	DamageHandledExternally bool
}

// DefaultMeleeParams returns the stock punch timing.
func DefaultMeleeParams() MeleeParams {
	return MeleeParams{
		Damage:     10,
		HitTime:    [2]float64{0.3, 0.5},
		SoundTime:  [2]float64{0.3, 0.5},
		Sounds:     [2]string{"sfx_punch_1", "sfx_punch_2"},
		ReachSlack: 1.0,
	}
}

// LifetimeMode selects how a projectile's lifetime is derived.
type LifetimeMode int

const (
	// SyncToAttack expires the projectile when the attack animation ends.
	SyncToAttack LifetimeMode = iota
	// CustomLifetime uses ProjectileParams.Lifetime.
	CustomLifetime
)

// ProjectileParams configures a homing projectile.
type ProjectileParams struct {
	Damage       int
	Speed        float64
	Lifetime     time.Duration
	LifetimeMode LifetimeMode
	StartDelay   time.Duration
	// AimHeight is added to the target position when computing the heading.
	AimHeight float64
	// Radius of the projectile's collision sphere.
	Radius float64
	// OnlyForVariant restricts the effect to one variant; 0 fires for both.
	OnlyForVariant Variant
}

// DefaultProjectileParams returns the stock arcane bolt.
func DefaultProjectileParams() ProjectileParams {
	return ProjectileParams{
		Damage:       10,
		Speed:        8,
		Lifetime:     time.Second,
		LifetimeMode: CustomLifetime,
		AimHeight:    1.5,
		Radius:       0.15,
	}
}

const minSyncedLifetime = 10 * time.Millisecond

// AttackEffect is one attack behavior bound to an agent's attack rig.
// The set of kinds is closed; Execute dispatches on Kind.
type AttackEffect struct {
	Kind       EffectKind
	Melee      MeleeParams
	Projectile ProjectileParams

	env        *Env
	hitPending bool
}

// NewTimedMeleeHit creates a melee effect.
func NewTimedMeleeHit(env *Env, p MeleeParams) *AttackEffect {
	return &AttackEffect{Kind: KindTimedMeleeHit, Melee: p, env: env}
}

// NewHomingProjectile creates a projectile effect.
func NewHomingProjectile(env *Env, p ProjectileParams) *AttackEffect {
	return &AttackEffect{Kind: KindHomingProjectile, Projectile: p, env: env}
}

// HitPending reports whether a melee hit from a previous Execute is still
// waiting to resolve.
func (e *AttackEffect) HitPending() bool {
	return e.hitPending
}

// Execute performs the effect for one attack of attacker.
// attackDuration is the length of the attack animation being played.
func (e *AttackEffect) Execute(attacker Attacker, variant Variant, attackDuration time.Duration) {
	if e.env == nil || e.env.Sched == nil {
		slog.Warn("attack effect has no scheduler", "kind", e.Kind)
		return
	}

	switch e.Kind {
	case KindTimedMeleeHit:
		e.executeMelee(attacker, variant, attackDuration)
	case KindHomingProjectile:
		e.executeProjectile(attacker, variant, attackDuration)
	}
}

func (e *AttackEffect) executeMelee(attacker Attacker, variant Variant, attackDuration time.Duration) {
	if attacker == nil || attacker.Target() == nil || attacker.Stats() == nil {
		return
	}

	if e.hitPending {
		slog.Debug("melee hit dropped: previous hit pending", "agentID", attacker.ID())
		return
	}

	i := variant.index()
	hitDelay := scaleDuration(attackDuration, e.Melee.HitTime[i])
	soundDelay := scaleDuration(attackDuration, e.Melee.SoundTime[i])

	e.hitPending = true
	e.env.Sched.After(hitDelay, func() {
		e.resolveMelee(attacker)
	})

	if sound := e.Melee.Sounds[i]; sound != "" && e.env.Sounds != nil {
		e.env.Sched.After(soundDelay, func() {
			e.env.Sounds.PlaySound(sound, attacker.AnchorPoint())
		})
	}
}

// resolveMelee lands a scheduled hit. A hit whose attacker died while it
// was pending is dropped.
func (e *AttackEffect) resolveMelee(attacker Attacker) {
	defer func() { e.hitPending = false }()

	if attacker.IsDead() {
		return
	}

	target := attacker.Target()
	stats := attacker.Stats()
	if target == nil || stats == nil {
		return
	}

	dist := attacker.AnchorPoint().Sub(target.Position()).Len()
	if dist > stats.AttackRange+e.Melee.ReachSlack {
		slog.Debug("melee hit missed", "agentID", attacker.ID(), "distance", dist)
		return
	}

	if !e.Melee.DamageHandledExternally {
		target.ApplyDamage(e.Melee.Damage)
	}
}

func (e *AttackEffect) executeProjectile(attacker Attacker, variant Variant, attackDuration time.Duration) {
	p := e.Projectile
	if p.OnlyForVariant != 0 && p.OnlyForVariant != variant {
		return
	}
	if attacker == nil {
		return
	}
	if e.env.World == nil {
		slog.Warn("projectile effect has no world", "agentID", attacker.ID())
		return
	}

	lifetime := p.Lifetime
	if p.LifetimeMode == SyncToAttack {
		lifetime = max(minSyncedLifetime, attackDuration-p.StartDelay)
	}

	spawn := func() {
		shot := NewProjectile(e.env.World, e.env.World.IDs().NextProjectileID(), attacker.MuzzlePoint(), attacker.Target(), p, lifetime, e.env.Sched.Now())
		e.env.World.AddProjectile(shot.ID(), shot)
		slog.Debug("projectile spawned",
			"agentID", attacker.ID(),
			"projectileID", shot.ID(),
			"lifetime", lifetime)
	}

	if p.StartDelay > 0 {
		e.env.Sched.After(p.StartDelay, spawn)
		return
	}
	spawn()
}

func scaleDuration(d time.Duration, normalized float64) time.Duration {
	normalized = mgl64.Clamp(normalized, 0, 1)
	return time.Duration(float64(d) * normalized)
}
