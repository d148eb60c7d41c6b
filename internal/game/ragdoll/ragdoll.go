// Package ragdoll turns a dead hostile into a physics-driven corpse and
// decorates the ground around it with blood decals and props.
package ragdoll

import (
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/udisondev/holdout/internal/anim"
	"github.com/udisondev/holdout/internal/physics"
	"github.com/udisondev/holdout/internal/sched"
)

// Bone is a severable part of the rig (the head).
type Bone interface {
	Name() string
	Position() mgl64.Vec3
	StripJoints()
	StripPhysics()
	StripColliders()
	SetScale(scale float64)
}

// Behaviour is a component that must stop when the agent dies.
type Behaviour interface {
	SetEnabled(enabled bool)
}

// DecorationSink places transient decorations and despawns corpses.
type DecorationSink interface {
	PlaceDecal(template string, at, normal mgl64.Vec3, lifetime time.Duration)
	PlaceProp(template string, at, normal mgl64.Vec3)
	Despawn(ownerID uint32)
}

// Config holds decoration and despawn settings.
type Config struct {
	DecalTemplates []string
	PropTemplates  []string

	GroundMask       uint32
	DecalRayDistance float64
	DecalOffset      float64
	DecalLifetimeMin time.Duration
	DecalLifetimeMax time.Duration

	PropChance   float64
	PropOffset   float64
	PropRayLift  float64
	DespawnDelay time.Duration
}

// DefaultConfig returns stock decoration settings.
func DefaultConfig() Config {
	return Config{
		DecalTemplates:   []string{"decal_blood_1", "decal_blood_2", "decal_blood_3"},
		PropTemplates:    []string{"prop_bone", "prop_rag"},
		GroundMask:       physics.LayerGround,
		DecalRayDistance: 5,
		DecalOffset:      0.01,
		DecalLifetimeMin: 180 * time.Second,
		DecalLifetimeMax: 300 * time.Second,
		PropChance:       0.05,
		PropOffset:       0.05,
		PropRayLift:      1,
		DespawnDelay:     30 * time.Second,
	}
}

// Rig is the set of parts the pipeline drives.
type Rig struct {
	OwnerID uint32
	// Origin returns the agent's current foot position.
	Origin     func() mgl64.Vec3
	Root       physics.Body
	Limbs      []physics.Body
	Animator   anim.Driver
	Behaviours []Behaviour
}

// Pipeline is the per-agent death decoration state machine:
// alive → ragdolled → despawned.
type Pipeline struct {
	cfg   Config
	rig   Rig
	probe physics.GroundProbe
	sink  DecorationSink
	sched *sched.Scheduler
	rng   *rand.Rand

	active    bool
	despawned bool
	onDespawn func()
}

// New creates a pipeline and puts the rig in animated mode: limbs kinematic,
// root free. probe and sink may be nil (decorations are skipped).
func New(rig Rig, cfg Config, probe physics.GroundProbe, sink DecorationSink, s *sched.Scheduler, rng *rand.Rand) *Pipeline {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	p := &Pipeline{
		cfg:   cfg,
		rig:   rig,
		probe: probe,
		sink:  sink,
		sched: s,
		rng:   rng,
	}

	for _, limb := range rig.Limbs {
		limb.SetKinematic(true)
	}
	if rig.Root != nil {
		rig.Root.SetKinematic(false)
	}
	return p
}

// SetDespawnFunc sets the callback run when the corpse is despawned.
func (p *Pipeline) SetDespawnFunc(fn func()) {
	p.onDespawn = fn
}

// Active reports whether the ragdoll has been activated.
func (p *Pipeline) Active() bool { return p.active }

// Despawned reports whether the corpse has been removed.
func (p *Pipeline) Despawned() bool { return p.despawned }

// Activate switches the rig to ragdoll. Second and later calls are no-ops.
func (p *Pipeline) Activate() {
	if p.active {
		return
	}
	p.active = true

	if p.rig.Animator != nil {
		p.rig.Animator.SetEnabled(false)
	}
	for _, b := range p.rig.Behaviours {
		b.SetEnabled(false)
	}
	for _, limb := range p.rig.Limbs {
		limb.SetKinematic(false)
	}

	p.placeDecal()
	p.rollProp()

	if p.sched == nil {
		slog.Warn("ragdoll has no scheduler, corpse will not despawn", "ownerID", p.rig.OwnerID)
		return
	}
	p.sched.After(p.cfg.DespawnDelay, p.despawn)
}

// RemoveHead severs bone: joints, physics and colliders are stripped and it
// is scaled to zero.
func (p *Pipeline) RemoveHead(bone Bone) {
	if bone == nil {
		return
	}

	bone.StripJoints()
	bone.StripPhysics()
	bone.StripColliders()
	bone.SetScale(0)

	slog.Debug("head removed", "ownerID", p.rig.OwnerID, "bone", bone.Name())

	p.placeDecal()
	p.rollProp()
}

// PlayHeadshotAnimation plays the headshot reaction.
func (p *Pipeline) PlayHeadshotAnimation() { p.react(anim.TriggerHeadshot) }

// PlayGutshotAnimation plays the gutshot reaction.
func (p *Pipeline) PlayGutshotAnimation() { p.react(anim.TriggerGutshot) }

// PlayNormalHitAnimation plays the generic hit reaction.
func (p *Pipeline) PlayNormalHitAnimation() { p.react(anim.TriggerHit) }

// react is a no-op once the animator is gone or disabled.
func (p *Pipeline) react(trigger string) {
	if p.rig.Animator == nil || !p.rig.Animator.Enabled() {
		return
	}
	p.rig.Animator.SetTrigger(trigger)
	p.placeDecal()
}

func (p *Pipeline) origin() mgl64.Vec3 {
	if p.rig.Origin == nil {
		return mgl64.Vec3{}
	}
	return p.rig.Origin()
}

func (p *Pipeline) placeDecal() {
	if p.sink == nil || p.probe == nil || len(p.cfg.DecalTemplates) == 0 {
		return
	}

	hit, ok := p.probe.CastDown(p.origin(), p.cfg.DecalRayDistance, p.cfg.GroundMask)
	if !ok {
		slog.Debug("decal skipped: no ground", "ownerID", p.rig.OwnerID)
		return
	}

	template := p.cfg.DecalTemplates[p.rng.IntN(len(p.cfg.DecalTemplates))]
	at := hit.Point.Add(hit.Normal.Mul(p.cfg.DecalOffset))
	p.sink.PlaceDecal(template, at, hit.Normal, p.decalLifetime())
}

func (p *Pipeline) decalLifetime() time.Duration {
	lo, hi := p.cfg.DecalLifetimeMin, p.cfg.DecalLifetimeMax
	if hi <= lo {
		return lo
	}
	return lo + time.Duration(p.rng.Int64N(int64(hi-lo)+1))
}

func (p *Pipeline) rollProp() {
	if p.sink == nil || p.probe == nil || len(p.cfg.PropTemplates) == 0 {
		return
	}
	if p.rng.Float64() >= p.cfg.PropChance {
		return
	}

	from := p.origin().Add(physics.Up.Mul(p.cfg.PropRayLift))
	hit, ok := p.probe.CastDown(from, p.cfg.DecalRayDistance, p.cfg.GroundMask)
	if !ok {
		return
	}

	template := p.cfg.PropTemplates[p.rng.IntN(len(p.cfg.PropTemplates))]
	p.sink.PlaceProp(template, hit.Point.Add(hit.Normal.Mul(p.cfg.PropOffset)), hit.Normal)
}

func (p *Pipeline) despawn() {
	if p.despawned {
		return
	}
	p.despawned = true

	if p.sink != nil {
		p.sink.Despawn(p.rig.OwnerID)
	}
	if p.onDespawn != nil {
		p.onDespawn()
	}
	slog.Debug("corpse despawned", "ownerID", p.rig.OwnerID)
}
