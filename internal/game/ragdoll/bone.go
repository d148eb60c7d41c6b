package ragdoll

import "github.com/go-gl/mathgl/mgl64"

// RigBone is the headless Bone. It rides at a fixed offset above the
// agent's origin and records what was stripped from it.
type RigBone struct {
	name   string
	origin func() mgl64.Vec3
	offset mgl64.Vec3

	joints    bool
	physics   bool
	colliders bool
	scale     float64
}

// NewRigBone creates an intact bone at offset from origin.
func NewRigBone(name string, origin func() mgl64.Vec3, offset mgl64.Vec3) *RigBone {
	return &RigBone{
		name:      name,
		origin:    origin,
		offset:    offset,
		joints:    true,
		physics:   true,
		colliders: true,
		scale:     1,
	}
}

// Name returns bone name
func (b *RigBone) Name() string { return b.name }

// Position returns the bone's world position.
func (b *RigBone) Position() mgl64.Vec3 {
	if b.origin == nil {
		return b.offset
	}
	return b.origin().Add(b.offset)
}

// StripJoints detaches the bone's joints.
func (b *RigBone) StripJoints() { b.joints = false }

// StripPhysics removes the bone's rigid body.
func (b *RigBone) StripPhysics() { b.physics = false }

// StripColliders removes the bone's hit volumes.
func (b *RigBone) StripColliders() { b.colliders = false }

// SetScale sets scale
func (b *RigBone) SetScale(scale float64) { b.scale = scale }

// Scale returns scale
func (b *RigBone) Scale() float64 { return b.scale }

// Severed reports whether the bone was stripped and hidden.
func (b *RigBone) Severed() bool {
	return !b.joints && !b.physics && !b.colliders && b.scale == 0
}
