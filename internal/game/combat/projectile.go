package combat

import (
	"log/slog"
	"time"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/udisondev/holdout/internal/world"
)

// Projectile is a straight-line bolt released toward a target.
// It damages the target on first overlap and expires at end of lifetime.
type Projectile struct {
	world *world.World
	id    uint32

	position mgl64.Vec3
	heading  mgl64.Vec3
	speed    float64
	radius   float64
	damage   int
	target   Target

	lifetime   time.Duration
	age        time.Duration
	lastUpdate time.Duration

	hit  bool
	done bool
}

// NewProjectile creates a projectile at origin aimed at target (nil flies nowhere).
// spawnedAt is the simulated time of creation. The heading is fixed at creation.
func NewProjectile(w *world.World, id uint32, origin mgl64.Vec3, target Target, p ProjectileParams, lifetime, spawnedAt time.Duration) *Projectile {
	shot := &Projectile{
		world:      w,
		id:         id,
		position:   origin,
		speed:      p.Speed,
		radius:     p.Radius,
		damage:     p.Damage,
		target:     target,
		lifetime:   lifetime,
		lastUpdate: spawnedAt,
	}
	if target != nil {
		aim := target.Position().Add(mgl64.Vec3{0, p.AimHeight, 0})
		if dir := aim.Sub(origin); dir.Len() > 0 {
			shot.heading = dir.Normalize()
		}
	}
	return shot
}

// ID returns projectile ID
func (p *Projectile) ID() uint32 { return p.id }

// Position returns current position
func (p *Projectile) Position() mgl64.Vec3 { return p.position }

// Age returns time in flight
func (p *Projectile) Age() time.Duration { return p.age }

// Hit reports whether the projectile struck its target.
func (p *Projectile) Hit() bool { return p.hit }

// Done reports whether the projectile has been despawned.
func (p *Projectile) Done() bool { return p.done }

// Tick advances the projectile to simulated time now, never past its
// lifetime. A projectile ticked at its spawn time does not move.
func (p *Projectile) Tick(now, _ time.Duration) {
	if p.done {
		return
	}
	if p.tryHit() {
		return
	}

	elapsed := now - p.lastUpdate
	if now > p.lastUpdate {
		p.lastUpdate = now
	}

	step := min(elapsed, p.lifetime-p.age)
	if step > 0 {
		p.position = p.position.Add(p.heading.Mul(p.speed * step.Seconds()))
		p.age += step
	}

	if p.tryHit() {
		return
	}
	if p.age >= p.lifetime {
		slog.Debug("projectile expired", "projectileID", p.id, "age", p.age)
		p.despawn()
	}
}

func (p *Projectile) tryHit() bool {
	if p.target == nil || !p.target.Overlaps(p.position, p.radius) {
		return false
	}
	p.target.ApplyDamage(p.damage)
	p.hit = true
	slog.Debug("projectile hit", "projectileID", p.id, "damage", p.damage)
	p.despawn()
	return true
}

func (p *Projectile) despawn() {
	p.done = true
	if p.world != nil {
		p.world.Remove(p.id)
	}
}
