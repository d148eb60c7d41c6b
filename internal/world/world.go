package world

import (
	"log/slog"
	"slices"
	"time"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/filter"
)

// Actor is anything advanced by the simulation tick.
type Actor interface {
	Tick(now, dt time.Duration)
}

// Hostile is an actor counted by the wave clear-check.
type Hostile interface {
	Actor
	ID() uint32
	IsDead() bool
}

// ActorData is the component every registered entity carries.
type ActorData struct {
	ID    uint32
	Actor Actor
}

var (
	Actors     = donburi.NewComponentType[ActorData]()
	HostileTag = donburi.NewTag().SetName("Hostile")
	ShotTag    = donburi.NewTag().SetName("Projectile")
)

// World is the live-entity registry: hostiles and in-flight projectiles.
// It is owned by the simulation goroutine; no method is safe for concurrent use.
type World struct {
	ecs  donburi.World
	byID map[uint32]donburi.Entity
	ids  *ObjectIDGenerator
}

// New creates an empty world.
func New() *World {
	return &World{
		ecs:  donburi.NewWorld(),
		byID: make(map[uint32]donburi.Entity),
		ids:  NewObjectIDGenerator(),
	}
}

// IDs returns the world's ID generator.
func (w *World) IDs() *ObjectIDGenerator {
	return w.ids
}

// AddHostile registers a hostile under its own ID.
func (w *World) AddHostile(h Hostile) {
	w.add(h.ID(), h, HostileTag)
}

// AddProjectile registers an in-flight projectile.
func (w *World) AddProjectile(id uint32, a Actor) {
	w.add(id, a, ShotTag)
}

func (w *World) add(id uint32, a Actor, tag donburi.IComponentType) {
	if _, exists := w.byID[id]; exists {
		slog.Warn("world: duplicate entity id ignored", "id", id)
		return
	}

	entity := w.ecs.Create(Actors, tag)
	Actors.SetValue(w.ecs.Entry(entity), ActorData{ID: id, Actor: a})
	w.byID[id] = entity
}

// Remove unregisters an entity. Returns false if id is unknown.
func (w *World) Remove(id uint32) bool {
	entity, ok := w.byID[id]
	if !ok {
		return false
	}
	delete(w.byID, id)
	if w.ecs.Valid(entity) {
		w.ecs.Remove(entity)
	}
	return true
}

// Contains reports whether id is registered.
func (w *World) Contains(id uint32) bool {
	_, ok := w.byID[id]
	return ok
}

// Hostiles returns a snapshot of registered hostiles, dead ones included,
// ordered by ID.
func (w *World) Hostiles() []Hostile {
	var out []Hostile
	HostileTag.Each(w.ecs, func(e *donburi.Entry) {
		if h, ok := Actors.Get(e).Actor.(Hostile); ok {
			out = append(out, h)
		}
	})
	slices.SortFunc(out, func(a, b Hostile) int {
		return int(int64(a.ID()) - int64(b.ID()))
	})
	return out
}

// AliveHostiles counts registered hostiles that are not dead.
func (w *World) AliveHostiles() int {
	n := 0
	HostileTag.Each(w.ecs, func(e *donburi.Entry) {
		if h, ok := Actors.Get(e).Actor.(Hostile); ok && !h.IsDead() {
			n++
		}
	})
	return n
}

// HostileCount counts registered hostiles including corpses awaiting despawn.
func (w *World) HostileCount() int {
	return w.count(HostileTag)
}

// ProjectileCount counts in-flight projectiles.
func (w *World) ProjectileCount() int {
	return w.count(ShotTag)
}

func (w *World) count(tag donburi.IComponentType) int {
	n := 0
	donburi.NewQuery(filter.Contains(tag)).Each(w.ecs, func(*donburi.Entry) { n++ })
	return n
}

// TickHostiles ticks every hostile.
func (w *World) TickHostiles(now, dt time.Duration) {
	w.tick(HostileTag, now, dt)
}

// TickProjectiles ticks every projectile.
func (w *World) TickProjectiles(now, dt time.Duration) {
	w.tick(ShotTag, now, dt)
}

// tick snapshots the actors first: an actor may remove itself (or spawn
// others) while ticking.
func (w *World) tick(tag donburi.IComponentType, now, dt time.Duration) {
	var actors []Actor
	donburi.NewQuery(filter.Contains(tag)).Each(w.ecs, func(e *donburi.Entry) {
		actors = append(actors, Actors.Get(e).Actor)
	})
	for _, a := range actors {
		a.Tick(now, dt)
	}
}
