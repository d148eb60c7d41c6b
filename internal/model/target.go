package model

import (
	"log/slog"
	"sync"

	"github.com/go-gl/mathgl/mgl64"
)

// Target is the protected actor hostiles walk toward and attack.
// Health is the only state hostiles mutate; heals come from the wave
// intermission reset.
//
// Collision volume is a vertical capsule standing on Position.
type Target struct {
	mu sync.RWMutex

	name      string
	position  mgl64.Vec3
	radius    float64
	height    float64
	maxHealth int
	health    int

	deathOnce sync.Once
	onDeath   func()
	onChange  func(current, max int)
}

// NewTarget creates a target at full health.
func NewTarget(name string, position mgl64.Vec3, maxHealth int, radius, height float64) *Target {
	return &Target{
		name:      name,
		position:  position,
		radius:    radius,
		height:    height,
		maxHealth: maxHealth,
		health:    maxHealth,
	}
}

// SetDeathFunc sets the callback fired once when health reaches zero.
func (t *Target) SetDeathFunc(fn func()) {
	t.onDeath = fn
}

// SetHealthChangeFunc sets the callback fired after every health change.
func (t *Target) SetHealthChangeFunc(fn func(current, max int)) {
	t.onChange = fn
}

// Name returns target name
func (t *Target) Name() string {
	return t.name
}

// Position returns the target's foot position.
func (t *Target) Position() mgl64.Vec3 {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.position
}

// SetPosition moves the target.
func (t *Target) SetPosition(p mgl64.Vec3) {
	t.mu.Lock()
	t.position = p
	t.mu.Unlock()
}

// Overlaps reports whether a sphere at point with the given radius
// intersects the target's capsule.
func (t *Target) Overlaps(point mgl64.Vec3, radius float64) bool {
	t.mu.RLock()
	base, r, h := t.position, t.radius, t.height
	t.mu.RUnlock()

	// Closest point on the capsule axis.
	y := point.Y()
	y = max(base.Y(), min(y, base.Y()+h))
	axis := mgl64.Vec3{base.X(), y, base.Z()}

	return point.Sub(axis).Len() <= r+radius
}

// CurrentHealth returns current health
func (t *Target) CurrentHealth() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.health
}

// MaxHealth returns max health
func (t *Target) MaxHealth() int {
	return t.maxHealth
}

// IsDead returns true once health reached zero.
func (t *Target) IsDead() bool {
	return t.CurrentHealth() == 0
}

// ApplyDamage removes health. Non-positive amounts are ignored.
// The death callback fires exactly once, on the hit that reaches zero.
func (t *Target) ApplyDamage(amount int) {
	if amount <= 0 {
		return
	}

	t.mu.Lock()
	t.health = max(t.health-amount, 0)
	current := t.health
	t.mu.Unlock()

	t.notifyChange(current)

	if current == 0 {
		t.deathOnce.Do(func() {
			slog.Info("target died", "target", t.name)
			if t.onDeath != nil {
				t.onDeath()
			}
		})
	}
}

// Heal restores health up to max. Non-positive amounts are ignored.
func (t *Target) Heal(amount int) {
	if amount <= 0 {
		return
	}

	t.mu.Lock()
	t.health = min(t.health+amount, t.maxHealth)
	current := t.health
	t.mu.Unlock()

	t.notifyChange(current)
}

// FullHeal restores health to max.
func (t *Target) FullHeal() {
	t.Heal(t.maxHealth)
}

func (t *Target) notifyChange(current int) {
	if t.onChange != nil {
		t.onChange(current, t.maxHealth)
	}
}
