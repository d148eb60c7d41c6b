// Package present turns presentation requests (hit effects, sounds, decals,
// props) into log records and counters. It stands in for a renderer.
package present

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/go-gl/mathgl/mgl64"
)

// Counts is a snapshot of emitted presentation requests.
type Counts struct {
	Effects  int64
	Sounds   int64
	Decals   int64
	Props    int64
	Despawns int64
}

// Sink logs every request at debug level and counts it.
// Counters may be read from any goroutine.
type Sink struct {
	logger *slog.Logger

	effects  atomic.Int64
	sounds   atomic.Int64
	decals   atomic.Int64
	props    atomic.Int64
	despawns atomic.Int64
}

// NewSink creates a sink writing to logger, or slog.Default when nil.
func NewSink(logger *slog.Logger) *Sink {
	if logger == nil {
		logger = slog.Default()
	}
	return &Sink{logger: logger.With("subsystem", "present")}
}

// SpawnEffect records a hit effect attached to parentID.
func (s *Sink) SpawnEffect(template string, at, normal mgl64.Vec3, parentID uint32) {
	s.effects.Add(1)
	s.debug("effect", "template", template, "at", at, "normal", normal, "parentID", parentID)
}

// PlaySound records a one-shot sound.
func (s *Sink) PlaySound(template string, at mgl64.Vec3) {
	s.sounds.Add(1)
	s.debug("sound", "template", template, "at", at)
}

// PlaceDecal records a ground decal.
func (s *Sink) PlaceDecal(template string, at, normal mgl64.Vec3, lifetime time.Duration) {
	s.decals.Add(1)
	s.debug("decal", "template", template, "at", at, "normal", normal, "lifetime", lifetime)
}

// PlaceProp records a ground prop.
func (s *Sink) PlaceProp(template string, at, normal mgl64.Vec3) {
	s.props.Add(1)
	s.debug("prop", "template", template, "at", at, "normal", normal)
}

// Despawn records the removal of an agent's body.
func (s *Sink) Despawn(ownerID uint32) {
	s.despawns.Add(1)
	s.debug("despawn", "agentID", ownerID)
}

// Counts returns the current counters.
func (s *Sink) Counts() Counts {
	return Counts{
		Effects:  s.effects.Load(),
		Sounds:   s.sounds.Load(),
		Decals:   s.decals.Load(),
		Props:    s.props.Load(),
		Despawns: s.despawns.Load(),
	}
}

func (s *Sink) debug(msg string, args ...any) {
	if !s.logger.Enabled(context.Background(), slog.LevelDebug) {
		return
	}
	s.logger.Debug(msg, args...)
}
