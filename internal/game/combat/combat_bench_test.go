package combat

import (
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/udisondev/holdout/internal/model"
	"github.com/udisondev/holdout/internal/world"
)

// BenchmarkResolve measures zone classification and table lookup.
func BenchmarkResolve(b *testing.B) {
	table := DefaultWeaponTable()
	labels := []string{model.LabelHead, model.LabelGut, "LeftArm", ""}

	b.ReportAllocs()
	for i := range b.N {
		_ = Resolve(table, labels[i%len(labels)])
	}
}

// BenchmarkApplyHit measures a full body hit on a surviving victim.
func BenchmarkApplyHit(b *testing.B) {
	r := NewResolver(DefaultWeaponTable(), nil)
	ev := DamageEvent{
		ImpactPoint: mgl64.Vec3{0, 1, 0},
		Velocity:    mgl64.Vec3{0, 0, 400},
		Mass:        0.01,
	}
	victim := newVictim(1 << 30)

	b.ResetTimer()
	b.ReportAllocs()

	for range b.N {
		r.ApplyHit(ev, victim)
		victim.reactions.played = victim.reactions.played[:0]
	}
}

// BenchmarkProjectile_Tick measures one flight step of a projectile that never hits.
func BenchmarkProjectile_Tick(b *testing.B) {
	w := world.New()
	target := model.NewTarget("far", mgl64.Vec3{0, 0, 1e9}, 100, 0.5, 2)
	p := DefaultProjectileParams()
	p.Speed = 0
	shot := NewProjectile(w, w.IDs().NextProjectileID(), mgl64.Vec3{}, target, p, time.Duration(1<<62), 0)

	b.ResetTimer()
	b.ReportAllocs()

	now := time.Duration(0)
	for range b.N {
		now += 20 * time.Millisecond
		shot.Tick(now, 20*time.Millisecond)
	}
}
