package combat

import (
	"log/slog"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/udisondev/holdout/internal/model"
	"github.com/udisondev/holdout/internal/physics"
)

// WeaponTable is the per-weapon damage and hit-effect table keyed by zone.
type WeaponTable struct {
	Head int
	Gut  int
	Body int

	HeadEffect string
	GutEffect  string
	BodyEffect string

	ImpulseMultiplier float64
}

// DefaultWeaponTable returns the stock rifle table.
func DefaultWeaponTable() WeaponTable {
	return WeaponTable{
		Head:              100,
		Gut:               40,
		Body:              25,
		HeadEffect:        "fx_hit_head",
		GutEffect:         "fx_hit_gut",
		BodyEffect:        "fx_hit_body",
		ImpulseMultiplier: 1.0,
	}
}

// Damage returns the damage dealt to zone.
func (t WeaponTable) Damage(z model.Zone) int {
	switch z {
	case model.ZoneHead:
		return t.Head
	case model.ZoneGut:
		return t.Gut
	default:
		return t.Body
	}
}

// Effect returns the hit-effect template spawned for zone.
// Head hits share the gut template; HeadEffect is kept in the table but
// not selected.
func (t WeaponTable) Effect(z model.Zone) string {
	switch z {
	case model.ZoneHead, model.ZoneGut:
		return t.GutEffect
	default:
		return t.BodyEffect
	}
}

// Resolution is the outcome of classifying one hit.
type Resolution struct {
	Zone   model.Zone
	Damage int
	Effect string
}

// Resolve classifies a collider label and looks up damage and effect.
// Only the label decides the zone.
func Resolve(table WeaponTable, label string) Resolution {
	zone := model.ZoneFromLabel(label)
	return Resolution{
		Zone:   zone,
		Damage: table.Damage(zone),
		Effect: table.Effect(zone),
	}
}

// DamageEvent is one projectile contact, built and consumed within a single
// ApplyHit call.
type DamageEvent struct {
	// Label is the classification label of the struck collider.
	Label string

	ImpactPoint  mgl64.Vec3
	ImpactNormal mgl64.Vec3

	// Velocity and Mass of the projectile at contact.
	Velocity mgl64.Vec3
	Mass     float64

	// Body is the struck rigid body, nil to fall back to the victim's root.
	Body physics.Body
}

// Momentum returns velocity × mass.
func (e DamageEvent) Momentum() mgl64.Vec3 {
	return e.Velocity.Mul(e.Mass)
}

// HitReactor plays zone-specific hit reactions.
type HitReactor interface {
	PlayHeadshotAnimation()
	PlayGutshotAnimation()
	PlayNormalHitAnimation()
}

// Victim is anything the resolver can damage.
type Victim interface {
	ID() uint32
	ApplyDamage(amount int)
	IsDead() bool
	// RootBody returns the root rigid body, or nil.
	RootBody() physics.Body
	// HitReactor returns the hit-reaction hooks, or nil.
	HitReactor() HitReactor
}

// FXSink spawns visual hit effects.
type FXSink interface {
	SpawnEffect(template string, at, normal mgl64.Vec3, parentID uint32)
}

// Resolver applies weapon hits to victims.
type Resolver struct {
	table WeaponTable
	fx    FXSink
}

// NewResolver creates a resolver for one weapon table. fx may be nil.
func NewResolver(table WeaponTable, fx FXSink) *Resolver {
	return &Resolver{table: table, fx: fx}
}

// Table returns the weapon table
func (r *Resolver) Table() WeaponTable {
	return r.table
}

// ApplyHit resolves ev against victim.
//
// Order: hit effect, damage, hit reaction (only if the victim survived the
// hit), impulse. Returns false when victim is nil (a generic impact that
// damages nothing).
func (r *Resolver) ApplyHit(ev DamageEvent, victim Victim) (Resolution, bool) {
	res := Resolve(r.table, ev.Label)
	if victim == nil {
		return res, false
	}

	if r.fx != nil && res.Effect != "" {
		r.fx.SpawnEffect(res.Effect, ev.ImpactPoint, ev.ImpactNormal, victim.ID())
	}

	victim.ApplyDamage(res.Damage)

	if !victim.IsDead() {
		if reactor := victim.HitReactor(); reactor != nil {
			switch res.Zone {
			case model.ZoneHead:
				reactor.PlayHeadshotAnimation()
			case model.ZoneGut:
				reactor.PlayGutshotAnimation()
			default:
				reactor.PlayNormalHitAnimation()
			}
		}
	}

	body := ev.Body
	if body == nil {
		body = victim.RootBody()
	}
	if body != nil {
		impulse := ev.Momentum().Mul(r.table.ImpulseMultiplier)
		if impulse.Len() > 0 {
			body.AddImpulseAt(impulse, ev.ImpactPoint)
		}
	}

	slog.Debug("hit resolved",
		"victimID", victim.ID(),
		"zone", res.Zone,
		"damage", res.Damage,
		"lethal", victim.IsDead())

	return res, true
}
