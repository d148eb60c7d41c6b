// Package turret implements a stationary sentry that shoots live hostiles
// through the damage resolver.
package turret

import (
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/udisondev/holdout/internal/game/combat"
	"github.com/udisondev/holdout/internal/model"
	"github.com/udisondev/holdout/internal/world"
)

// Shootable is a hostile the turret can aim at.
type Shootable interface {
	world.Hostile
	Position() mgl64.Vec3
	Victim() combat.Victim
}

// Decapitable is a hostile whose head a lethal headshot removes.
type Decapitable interface {
	RemoveHead()
}

// Roster lists hostiles.
type Roster interface {
	Hostiles() []world.Hostile
}

// ZoneWeights are relative chances of hitting each damage zone.
type ZoneWeights struct {
	Head float64
	Gut  float64
	Body float64
}

func (w ZoneWeights) total() float64 {
	return max(w.Head, 0) + max(w.Gut, 0) + max(w.Body, 0)
}

// Config configures a sentry.
type Config struct {
	Position     mgl64.Vec3
	FireInterval time.Duration
	Weights      ZoneWeights
	BulletMass   float64
	BulletSpeed  float64
	// AimHeight is added to the hostile's foot position.
	AimHeight float64
}

// DefaultConfig returns a slow sentry at the origin.
func DefaultConfig() Config {
	return Config{
		FireInterval: 2 * time.Second,
		Weights:      ZoneWeights{Head: 1, Gut: 2, Body: 7},
		BulletMass:   0.01,
		BulletSpeed:  400,
		AimHeight:    1.2,
	}
}

// Sentry fires at a random live hostile every FireInterval.
type Sentry struct {
	cfg      Config
	roster   Roster
	resolver *combat.Resolver
	rng      *rand.Rand

	nextShot time.Duration
	shots    int
	hits     int
	warned   bool
}

// New creates a sentry. A nil rng is seeded randomly.
func New(cfg Config, roster Roster, resolver *combat.Resolver, rng *rand.Rand) *Sentry {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &Sentry{
		cfg:      cfg,
		roster:   roster,
		resolver: resolver,
		rng:      rng,
		nextShot: cfg.FireInterval,
	}
}

// Shots returns how many shots were fired.
func (s *Sentry) Shots() int { return s.shots }

// Hits returns how many shots were resolved against a victim.
func (s *Sentry) Hits() int { return s.hits }

// Tick fires when the interval elapsed and a live hostile exists.
func (s *Sentry) Tick(now time.Duration) {
	if s.cfg.FireInterval <= 0 {
		if !s.warned {
			slog.Warn("sentry fire interval not positive, turret idle", "interval", s.cfg.FireInterval)
			s.warned = true
		}
		return
	}
	if now < s.nextShot {
		return
	}

	target := s.pickTarget()
	if target == nil {
		return
	}
	s.nextShot = now + s.cfg.FireInterval
	s.fire(target)
}

func (s *Sentry) pickTarget() Shootable {
	var live []Shootable
	for _, h := range s.roster.Hostiles() {
		if h.IsDead() {
			continue
		}
		if sh, ok := h.(Shootable); ok {
			live = append(live, sh)
		}
	}
	if len(live) == 0 {
		return nil
	}
	return live[s.rng.IntN(len(live))]
}

func (s *Sentry) fire(target Shootable) {
	s.shots++

	aim := target.Position().Add(mgl64.Vec3{0, s.cfg.AimHeight, 0})
	dir := aim.Sub(s.cfg.Position)
	if dir.Len() > 0 {
		dir = dir.Normalize()
	}

	ev := combat.DamageEvent{
		Label:        s.pickLabel(),
		ImpactPoint:  aim,
		ImpactNormal: dir.Mul(-1),
		Velocity:     dir.Mul(s.cfg.BulletSpeed),
		Mass:         s.cfg.BulletMass,
	}

	res, ok := s.resolver.ApplyHit(ev, target.Victim())
	if !ok {
		return
	}
	s.hits++

	if res.Zone == model.ZoneHead && target.IsDead() {
		if d, ok := target.(Decapitable); ok {
			d.RemoveHead()
		}
	}

	slog.Debug("sentry hit",
		"agentID", target.ID(),
		"zone", res.Zone,
		"damage", res.Damage)
}

// pickLabel returns a collider label chosen by zone weight.
func (s *Sentry) pickLabel() string {
	w := s.cfg.Weights
	total := w.total()
	if total <= 0 {
		return ""
	}

	roll := s.rng.Float64() * total
	if roll < max(w.Head, 0) {
		return model.LabelHead
	}
	roll -= max(w.Head, 0)
	if roll < max(w.Gut, 0) {
		return model.LabelGut
	}
	return ""
}
