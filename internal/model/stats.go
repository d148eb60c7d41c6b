package model

import (
	"fmt"
	"slices"
	"strings"
	"time"
)

// EffectMelee and EffectProjectile name the attack effects an archetype carries.
const (
	EffectMelee      = "melee"
	EffectProjectile = "projectile"
)

// Archetype is one row of the archetype preset table.
// Adding a new hostile kind means adding a row, not a type.
type Archetype struct {
	Name           string
	MaxHealth      int
	WalkSpeed      float64
	AttackRange    float64
	AttackCooldown time.Duration
	KillPoints     int
	Effects        []string
}

// Validate checks the invariants a StatsProfile built from this row must hold.
func (a Archetype) Validate() error {
	switch {
	case a.Name == "":
		return fmt.Errorf("archetype name is empty")
	case a.MaxHealth <= 0:
		return fmt.Errorf("archetype %s: max health %d must be positive", a.Name, a.MaxHealth)
	case a.WalkSpeed <= 0:
		return fmt.Errorf("archetype %s: walk speed %.2f must be positive", a.Name, a.WalkSpeed)
	case a.AttackRange <= 0:
		return fmt.Errorf("archetype %s: attack range %.2f must be positive", a.Name, a.AttackRange)
	case a.AttackCooldown < 0:
		return fmt.Errorf("archetype %s: attack cooldown %s is negative", a.Name, a.AttackCooldown)
	}
	return nil
}

// HasEffect reports whether the archetype carries the named attack effect.
func (a Archetype) HasEffect(name string) bool {
	return slices.Contains(a.Effects, name)
}

// DefaultArchetype is used when a requested archetype is unknown.
var DefaultArchetype = Archetype{
	Name:           "default",
	MaxHealth:      100,
	WalkSpeed:      3.5,
	AttackRange:    2.0,
	AttackCooldown: 1500 * time.Millisecond,
	KillPoints:     1,
	Effects:        []string{EffectMelee},
}

// BuiltinArchetypes returns the stock preset table.
// Tanky/slow (bloater, parasite), fast/fragile (paler), ranged casters (secretary, witch).
func BuiltinArchetypes() map[string]Archetype {
	rows := []Archetype{
		DefaultArchetype,
		{Name: "bloater", MaxHealth: 200, WalkSpeed: 2, AttackRange: 2, AttackCooldown: 7 * time.Second, KillPoints: 1, Effects: []string{EffectMelee}},
		{Name: "paler", MaxHealth: 100, WalkSpeed: 5, AttackRange: 3, AttackCooldown: 5 * time.Second, KillPoints: 1, Effects: []string{EffectMelee}},
		{Name: "parasite", MaxHealth: 300, WalkSpeed: 2, AttackRange: 2, AttackCooldown: 8 * time.Second, KillPoints: 1, Effects: []string{EffectMelee}},
		{Name: "secretary", MaxHealth: 150, WalkSpeed: 3, AttackRange: 8, AttackCooldown: 10 * time.Second, KillPoints: 1, Effects: []string{EffectProjectile}},
		{Name: "witch", MaxHealth: 150, WalkSpeed: 4.5, AttackRange: 8, AttackCooldown: 6 * time.Second, KillPoints: 1, Effects: []string{EffectProjectile}},
	}

	table := make(map[string]Archetype, len(rows))
	for _, row := range rows {
		table[row.Name] = row
	}
	return table
}

// ArchetypeTable resolves archetype names to presets.
type ArchetypeTable map[string]Archetype

// Lookup returns the preset for name (case-insensitive).
// Unknown names resolve to DefaultArchetype with ok=false.
func (t ArchetypeTable) Lookup(name string) (Archetype, bool) {
	if a, ok := t[strings.ToLower(name)]; ok {
		return a, true
	}
	return DefaultArchetype, false
}

// StatsProfile holds the combat attributes of one agent.
// Mutated only by damage; agents are never healed.
type StatsProfile struct {
	Archetype      string
	MaxHealth      int
	CurrentHealth  int
	WalkSpeed      float64
	AttackRange    float64
	AttackCooldown time.Duration
	KillPoints     int
}

// NewStatsProfile creates a full-health profile from an archetype preset.
func NewStatsProfile(a Archetype) *StatsProfile {
	points := a.KillPoints
	if points <= 0 {
		points = 1
	}
	return &StatsProfile{
		Archetype:      a.Name,
		MaxHealth:      a.MaxHealth,
		CurrentHealth:  a.MaxHealth,
		WalkSpeed:      a.WalkSpeed,
		AttackRange:    a.AttackRange,
		AttackCooldown: a.AttackCooldown,
		KillPoints:     points,
	}
}

// TakeDamage deducts amount from current health, clamped at zero.
// Non-positive amounts are ignored.
func (s *StatsProfile) TakeDamage(amount int) {
	if amount <= 0 {
		return
	}
	s.CurrentHealth = max(s.CurrentHealth-amount, 0)
}

// IsDead returns true once current health reached zero.
func (s *StatsProfile) IsDead() bool {
	return s.CurrentHealth <= 0
}

// HealthPercentage returns current health as a fraction of max health.
func (s *StatsProfile) HealthPercentage() float64 {
	if s.MaxHealth <= 0 {
		return 0
	}
	return float64(s.CurrentHealth) / float64(s.MaxHealth)
}
