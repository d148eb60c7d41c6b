package world

import "sync/atomic"

// ObjectIDGenerator generates unique IDs for simulated entities.
//
// ID ranges (convention):
//
//	0x00000000 - 0x0FFFFFFF: Reserved (0 = invalid)
//	0x10000000 - 0x1FFFFFFF: Targets
//	0x20000000 - 0x2FFFFFFF: Hostiles
//	0x30000000 - 0x3FFFFFFF: Projectiles
type ObjectIDGenerator struct {
	nextTargetID     atomic.Uint32
	nextHostileID    atomic.Uint32
	nextProjectileID atomic.Uint32
}

// NewObjectIDGenerator creates a new ID generator.
func NewObjectIDGenerator() *ObjectIDGenerator {
	gen := &ObjectIDGenerator{}
	gen.nextTargetID.Store(0x10000000)
	gen.nextHostileID.Store(0x20000000)
	gen.nextProjectileID.Store(0x30000000)
	return gen
}

// NextTargetID generates next target ID.
func (g *ObjectIDGenerator) NextTargetID() uint32 {
	return g.nextTargetID.Add(1)
}

// NextHostileID generates next hostile ID.
func (g *ObjectIDGenerator) NextHostileID() uint32 {
	return g.nextHostileID.Add(1)
}

// NextProjectileID generates next projectile ID.
func (g *ObjectIDGenerator) NextProjectileID() uint32 {
	return g.nextProjectileID.Add(1)
}

// IsHostileID reports whether id falls in the hostile range.
func IsHostileID(id uint32) bool {
	return id >= 0x20000000 && id < 0x30000000
}

// IsProjectileID reports whether id falls in the projectile range.
func IsProjectileID(id uint32) bool {
	return id >= 0x30000000 && id < 0x40000000
}
