// Package physics holds the rigid-body and ground-query contracts the combat
// core consumes, plus headless implementations used by the simulation binary.
// Dynamics are not simulated here: a body only records its mode and the
// impulses it received.
package physics

import (
	"github.com/go-gl/mathgl/mgl64"
)

// Body is one movable rigid body under an agent's hierarchy.
type Body interface {
	// Name returns the bone/body name
	Name() string
	// Kinematic reports whether the body is driven by animation.
	Kinematic() bool
	// SetKinematic switches between driven (true) and free simulation (false).
	SetKinematic(kinematic bool)
	// AddImpulseAt applies an instantaneous impulse at a world point.
	AddImpulseAt(impulse, point mgl64.Vec3)
}

// RigidBody is the headless Body implementation.
type RigidBody struct {
	name      string
	kinematic bool
	impulse   mgl64.Vec3
	hits      int
}

// NewRigidBody creates a kinematic body.
func NewRigidBody(name string) *RigidBody {
	return &RigidBody{name: name, kinematic: true}
}

// Name returns the body name
func (b *RigidBody) Name() string { return b.name }

// Kinematic reports whether the body is driven.
func (b *RigidBody) Kinematic() bool { return b.kinematic }

// SetKinematic sets the body mode.
func (b *RigidBody) SetKinematic(kinematic bool) { b.kinematic = kinematic }

// AddImpulseAt accumulates the impulse.
func (b *RigidBody) AddImpulseAt(impulse, _ mgl64.Vec3) {
	b.impulse = b.impulse.Add(impulse)
	b.hits++
}

// Impulse returns the accumulated impulse and the number of impulses received.
func (b *RigidBody) Impulse() (mgl64.Vec3, int) {
	return b.impulse, b.hits
}

// Humanoid builds the body set of a standard humanoid rig: the root plus
// the limbs a ragdoll switches to free simulation.
func Humanoid() (root *RigidBody, limbs []Body) {
	root = NewRigidBody("root")
	for _, name := range []string{"hips", "spine", "head", "arm_l", "arm_r", "forearm_l", "forearm_r", "thigh_l", "thigh_r", "calf_l", "calf_r"} {
		limbs = append(limbs, NewRigidBody(name))
	}
	return root, limbs
}
