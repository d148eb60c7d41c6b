package testutil

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

// AssertVecNear fails when got is farther than delta from want.
func AssertVecNear(t testing.TB, want, got mgl64.Vec3, delta float64) {
	t.Helper()

	if d := want.Sub(got).Len(); d > delta {
		t.Errorf("vector mismatch: want %v, got %v (distance %.6f > %.6f)", want, got, d, delta)
	}
}

// AssertOnGround fails when p is not at height y within delta.
func AssertOnGround(t testing.TB, y float64, p mgl64.Vec3, delta float64) {
	t.Helper()

	if d := p.Y() - y; d > delta || d < -delta {
		t.Errorf("height mismatch: want y=%.4f, got %v", y, p)
	}
}
