package physics

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
)

func TestFlatGround_CastDown(t *testing.T) {
	g := FlatGround{Height: 0, Layer: LayerGround}

	hit, ok := g.CastDown(mgl64.Vec3{2, 1, 3}, 5, LayerGround)
	assert.True(t, ok)
	assert.Equal(t, mgl64.Vec3{2, 0, 3}, hit.Point)
	assert.Equal(t, Up, hit.Normal)
	assert.InDelta(t, 1.0, hit.Distance, 1e-9)

	_, ok = g.CastDown(mgl64.Vec3{0, 10, 0}, 5, LayerGround)
	assert.False(t, ok, "beyond max distance")

	_, ok = g.CastDown(mgl64.Vec3{0, -1, 0}, 5, LayerGround)
	assert.False(t, ok, "below the plane")

	_, ok = g.CastDown(mgl64.Vec3{0, 1, 0}, 5, 1<<3)
	assert.False(t, ok, "layer filtered out")
}

func TestRigidBody(t *testing.T) {
	b := NewRigidBody("head")
	assert.True(t, b.Kinematic())

	b.SetKinematic(false)
	assert.False(t, b.Kinematic())

	b.AddImpulseAt(mgl64.Vec3{1, 0, 0}, mgl64.Vec3{})
	b.AddImpulseAt(mgl64.Vec3{0, 2, 0}, mgl64.Vec3{})
	imp, n := b.Impulse()
	assert.Equal(t, mgl64.Vec3{1, 2, 0}, imp)
	assert.Equal(t, 2, n)
}

func TestHumanoid(t *testing.T) {
	root, limbs := Humanoid()
	assert.Equal(t, "root", root.Name())
	assert.Len(t, limbs, 11)
}
