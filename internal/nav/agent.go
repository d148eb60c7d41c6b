// Package nav defines the navigation capability hostiles steer with and a
// straight-line implementation for headless runs. Path solving is not done
// here: DirectAgent walks the straight segment to its destination.
package nav

import (
	"math"
	"time"

	"github.com/go-gl/mathgl/mgl64"
)

// Agent is the navigation capability of one hostile.
type Agent interface {
	SetDestination(dest mgl64.Vec3)
	ResetPath()

	Position() mgl64.Vec3
	Velocity() mgl64.Vec3

	// RemainingDistance is +Inf when there is no path.
	RemainingDistance() float64
	StoppingDistance() float64
	SetStoppingDistance(d float64)
	SetSpeed(speed float64)

	PathPending() bool
	// OnSpecialLink reports traversal of an off-mesh link (jump, drop, vault).
	OnSpecialLink() bool

	Enabled() bool
	SetEnabled(enabled bool)
	IsStopped() bool
	SetStopped(stopped bool)
}

// Link is an off-mesh jump segment. An agent within Radius of the segment
// (on the ground plane) is traversing it.
type Link struct {
	From   mgl64.Vec3
	To     mgl64.Vec3
	Radius float64
}

func (l Link) contains(p mgl64.Vec3) bool {
	a := mgl64.Vec2{l.From.X(), l.From.Z()}
	b := mgl64.Vec2{l.To.X(), l.To.Z()}
	q := mgl64.Vec2{p.X(), p.Z()}

	ab := b.Sub(a)
	t := 0.0
	if lenSq := ab.Dot(ab); lenSq > 0 {
		t = mgl64.Clamp(q.Sub(a).Dot(ab)/lenSq, 0, 1)
	}
	closest := a.Add(ab.Mul(t))
	return q.Sub(closest).Len() <= l.Radius
}

// DirectAgent moves in a straight line on the ground plane toward its
// destination at constant speed, halting at the stopping distance.
type DirectAgent struct {
	position mgl64.Vec3
	velocity mgl64.Vec3
	dest     mgl64.Vec3
	hasPath  bool

	speed    float64
	stopping float64
	enabled  bool
	stopped  bool

	links []Link
}

// NewDirectAgent creates an enabled agent at position.
func NewDirectAgent(position mgl64.Vec3, links []Link) *DirectAgent {
	return &DirectAgent{
		position: position,
		enabled:  true,
		links:    links,
	}
}

// SetDestination sets the point the agent walks to.
func (a *DirectAgent) SetDestination(dest mgl64.Vec3) {
	if !a.enabled {
		return
	}
	a.dest = dest
	a.hasPath = true
}

// ResetPath clears the current path.
func (a *DirectAgent) ResetPath() {
	a.hasPath = false
	a.velocity = mgl64.Vec3{}
}

// Position returns agent position
func (a *DirectAgent) Position() mgl64.Vec3 { return a.position }

// Velocity returns the velocity of the last step.
func (a *DirectAgent) Velocity() mgl64.Vec3 { return a.velocity }

// RemainingDistance returns the planar distance to the destination.
func (a *DirectAgent) RemainingDistance() float64 {
	if !a.hasPath {
		return math.Inf(1)
	}
	return planar(a.dest.Sub(a.position)).Len()
}

// StoppingDistance returns stopping distance
func (a *DirectAgent) StoppingDistance() float64 { return a.stopping }

// SetStoppingDistance sets stopping distance
func (a *DirectAgent) SetStoppingDistance(d float64) { a.stopping = d }

// SetSpeed sets movement speed
func (a *DirectAgent) SetSpeed(speed float64) { a.speed = speed }

// PathPending is always false: straight paths are computed instantly.
func (a *DirectAgent) PathPending() bool { return false }

// OnSpecialLink reports whether the agent stands on a link segment.
func (a *DirectAgent) OnSpecialLink() bool {
	for _, l := range a.links {
		if l.contains(a.position) {
			return true
		}
	}
	return false
}

// Enabled reports whether the agent is active
func (a *DirectAgent) Enabled() bool { return a.enabled }

// SetEnabled enables or disables the agent. Disabling clears velocity.
func (a *DirectAgent) SetEnabled(enabled bool) {
	a.enabled = enabled
	if !enabled {
		a.velocity = mgl64.Vec3{}
	}
}

// IsStopped reports whether movement is halted
func (a *DirectAgent) IsStopped() bool { return a.stopped }

// SetStopped halts or resumes movement.
func (a *DirectAgent) SetStopped(stopped bool) { a.stopped = stopped }

// Step advances the agent by dt.
func (a *DirectAgent) Step(dt time.Duration) {
	a.velocity = mgl64.Vec3{}
	if !a.enabled || a.stopped || !a.hasPath || dt <= 0 {
		return
	}

	toDest := planar(a.dest.Sub(a.position))
	dist := toDest.Len()
	if dist <= a.stopping || dist == 0 {
		return
	}

	step := a.speed * dt.Seconds()
	step = min(step, dist-a.stopping)
	if step <= 0 {
		return
	}

	dir := toDest.Mul(1 / dist)
	a.position = a.position.Add(dir.Mul(step))
	a.velocity = dir.Mul(step / dt.Seconds())
}

func planar(v mgl64.Vec3) mgl64.Vec3 {
	return mgl64.Vec3{v.X(), 0, v.Z()}
}
