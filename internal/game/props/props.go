// Package props tracks destructible level props such as explosive barrels.
// Destroyed props stay hidden until the next intermission restores them.
package props

import (
	"log/slog"

	"github.com/go-gl/mathgl/mgl64"
)

// Prop is one destructible prop.
type Prop struct {
	Name     string
	Position mgl64.Vec3
	active   bool
}

// Active reports whether the prop is standing.
func (p *Prop) Active() bool { return p.active }

// Set is a group of props restored together.
// All methods run on the simulation goroutine.
type Set struct {
	props []*Prop
}

// NewSet creates an empty set.
func NewSet() *Set {
	return &Set{}
}

// Add places a standing prop and returns its index.
func (s *Set) Add(name string, at mgl64.Vec3) int {
	s.props = append(s.props, &Prop{Name: name, Position: at, active: true})
	return len(s.props) - 1
}

// Len returns number of props
func (s *Set) Len() int { return len(s.props) }

// Get returns prop i or nil.
func (s *Set) Get(i int) *Prop {
	if i < 0 || i >= len(s.props) {
		return nil
	}
	return s.props[i]
}

// Destroy hides prop i. It reports false for an unknown or already
// destroyed prop.
func (s *Set) Destroy(i int) bool {
	p := s.Get(i)
	if p == nil || !p.active {
		return false
	}
	p.active = false
	slog.Debug("prop destroyed", "prop", p.Name, "position", p.Position)
	return true
}

// Destroyed returns how many props are down.
func (s *Set) Destroyed() int {
	n := 0
	for _, p := range s.props {
		if !p.active {
			n++
		}
	}
	return n
}

// RespawnAll restores every destroyed prop. Standing props are untouched.
func (s *Set) RespawnAll() {
	restored := 0
	for _, p := range s.props {
		if !p.active {
			p.active = true
			restored++
		}
	}
	if restored > 0 {
		slog.Info("props respawned", "count", restored)
	}
}
