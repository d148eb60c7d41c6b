// Package anim defines the animation-driver contract agents push parameters
// into, and a headless clip-table driver for running without an engine.
package anim

import (
	"sync"
	"time"
)

// Parameter and trigger names understood by hostile rigs.
const (
	ParamSpeed = "Speed"
	ParamState = "State"

	TriggerPunch1   = "Punch1"
	TriggerPunch2   = "Punch2"
	TriggerHeadshot = "Headshot"
	TriggerGutshot  = "Gutshot"
	TriggerHit      = "Hit"
)

// Driver is the animation controller of one rig.
type Driver interface {
	SetFloat(name string, value float64)
	SetInteger(name string, value int)
	SetTrigger(name string)

	// Speed is the playback-rate multiplier.
	Speed() float64
	SetSpeed(speed float64)

	// CurrentStateLength returns the length of the active state's clip.
	// ok is false when the driver cannot tell.
	CurrentStateLength() (length time.Duration, ok bool)

	Enabled() bool
	SetEnabled(enabled bool)
}

// ClipDriver is a Driver backed by a table of clip lengths keyed by trigger.
// A trigger whose clip is known becomes the active state.
type ClipDriver struct {
	mu sync.Mutex

	clips   map[string]time.Duration
	current string
	speed   float64
	enabled bool

	floats   map[string]float64
	ints     map[string]int
	triggers map[string]int
}

// NewClipDriver creates an enabled driver at playback rate 1.
func NewClipDriver(clips map[string]time.Duration) *ClipDriver {
	return &ClipDriver{
		clips:    clips,
		speed:    1,
		enabled:  true,
		floats:   make(map[string]float64),
		ints:     make(map[string]int),
		triggers: make(map[string]int),
	}
}

// SetFloat sets a float parameter
func (d *ClipDriver) SetFloat(name string, value float64) {
	d.mu.Lock()
	d.floats[name] = value
	d.mu.Unlock()
}

// SetInteger sets an integer parameter
func (d *ClipDriver) SetInteger(name string, value int) {
	d.mu.Lock()
	d.ints[name] = value
	d.mu.Unlock()
}

// SetTrigger fires a trigger.
func (d *ClipDriver) SetTrigger(name string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.triggers[name]++
	if _, ok := d.clips[name]; ok {
		d.current = name
	}
}

// Speed returns playback rate
func (d *ClipDriver) Speed() float64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.speed
}

// SetSpeed sets playback rate
func (d *ClipDriver) SetSpeed(speed float64) {
	d.mu.Lock()
	d.speed = speed
	d.mu.Unlock()
}

// CurrentStateLength returns the active clip length.
func (d *ClipDriver) CurrentStateLength() (time.Duration, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	length, ok := d.clips[d.current]
	return length, ok
}

// Enabled reports whether the driver evaluates.
func (d *ClipDriver) Enabled() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.enabled
}

// SetEnabled enables or disables the driver.
func (d *ClipDriver) SetEnabled(enabled bool) {
	d.mu.Lock()
	d.enabled = enabled
	d.mu.Unlock()
}

// Float returns the last value of a float parameter.
func (d *ClipDriver) Float(name string) float64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.floats[name]
}

// Integer returns the last value of an integer parameter.
func (d *ClipDriver) Integer(name string) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.ints[name]
}

// TriggerCount returns how many times a trigger fired.
func (d *ClipDriver) TriggerCount(name string) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.triggers[name]
}
