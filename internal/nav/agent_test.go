package nav

import (
	"math"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
)

func TestDirectAgent_WalksToStoppingDistance(t *testing.T) {
	a := NewDirectAgent(mgl64.Vec3{10, 0, 0}, nil)
	a.SetSpeed(2)
	a.SetStoppingDistance(1)

	assert.True(t, math.IsInf(a.RemainingDistance(), 1), "no path yet")

	a.SetDestination(mgl64.Vec3{0, 0, 0})
	assert.InDelta(t, 10.0, a.RemainingDistance(), 1e-9)

	a.Step(time.Second)
	assert.InDelta(t, 8.0, a.Position().X(), 1e-9)
	assert.InDelta(t, 2.0, a.Velocity().Len(), 1e-9)

	for range 10 {
		a.Step(time.Second)
	}
	assert.InDelta(t, 1.0, a.RemainingDistance(), 1e-9)
	assert.Equal(t, 0.0, a.Velocity().Len(), "halted at stopping distance")
}

func TestDirectAgent_StoppedAndDisabled(t *testing.T) {
	a := NewDirectAgent(mgl64.Vec3{5, 0, 0}, nil)
	a.SetSpeed(1)
	a.SetDestination(mgl64.Vec3{})

	a.SetStopped(true)
	a.Step(time.Second)
	assert.Equal(t, mgl64.Vec3{5, 0, 0}, a.Position())

	a.SetStopped(false)
	a.SetEnabled(false)
	a.Step(time.Second)
	assert.Equal(t, mgl64.Vec3{5, 0, 0}, a.Position())

	a.SetDestination(mgl64.Vec3{100, 0, 0})
	a.SetEnabled(true)
	a.Step(time.Second)
	assert.InDelta(t, 4.0, a.Position().X(), 1e-9, "destination ignored while disabled")

	a.ResetPath()
	assert.True(t, math.IsInf(a.RemainingDistance(), 1))
}

func TestDirectAgent_OnSpecialLink(t *testing.T) {
	link := Link{From: mgl64.Vec3{0, 0, 0}, To: mgl64.Vec3{0, 0, 4}, Radius: 0.5}
	a := NewDirectAgent(mgl64.Vec3{3, 0, 2}, []Link{link})
	a.SetSpeed(1)
	a.SetDestination(mgl64.Vec3{-3, 0, 2})

	assert.False(t, a.OnSpecialLink())

	a.Step(2600 * time.Millisecond)
	assert.True(t, a.OnSpecialLink())

	a.Step(2 * time.Second)
	assert.False(t, a.OnSpecialLink())
}
