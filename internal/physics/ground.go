package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// LayerGround is the default ground layer bit.
const LayerGround uint32 = 1 << 0

// Up is world up.
var Up = mgl64.Vec3{0, 1, 0}

// RayHit is the result of a successful ray query.
type RayHit struct {
	Point    mgl64.Vec3
	Normal   mgl64.Vec3
	Distance float64
}

// GroundProbe answers downward ray queries against level geometry.
type GroundProbe interface {
	// CastDown casts a ray straight down from origin. Only geometry on a layer
	// in mask within maxDistance counts.
	CastDown(origin mgl64.Vec3, maxDistance float64, mask uint32) (RayHit, bool)
}

// FlatGround is an infinite horizontal plane.
type FlatGround struct {
	Height float64
	Layer  uint32
}

// CastDown intersects the ray with the plane.
func (g FlatGround) CastDown(origin mgl64.Vec3, maxDistance float64, mask uint32) (RayHit, bool) {
	if g.Layer&mask == 0 {
		return RayHit{}, false
	}

	dist := origin.Y() - g.Height
	if dist < 0 || dist > maxDistance || math.IsNaN(dist) {
		return RayHit{}, false
	}

	return RayHit{
		Point:    mgl64.Vec3{origin.X(), g.Height, origin.Z()},
		Normal:   Up,
		Distance: dist,
	}, true
}
