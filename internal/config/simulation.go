package config

import (
	"strings"
	"time"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/udisondev/holdout/internal/game/combat"
	"github.com/udisondev/holdout/internal/game/props"
	"github.com/udisondev/holdout/internal/game/ragdoll"
	"github.com/udisondev/holdout/internal/game/turret"
	"github.com/udisondev/holdout/internal/model"
	"github.com/udisondev/holdout/internal/physics"
	"github.com/udisondev/holdout/internal/spawn"
)

// DefaultSimulation returns Simulation config with sensible defaults.
func DefaultSimulation() Simulation {
	melee := combat.DefaultMeleeParams()
	projectile := combat.DefaultProjectileParams()
	weapon := combat.DefaultWeaponTable()
	rd := ragdoll.DefaultConfig()
	sentry := turret.DefaultConfig()

	return Simulation{
		LogLevel:       "info",
		TickInterval:   20 * time.Millisecond,
		StatusInterval: 5 * time.Second,
		Database: DatabaseConfig{
			Host:     "127.0.0.1",
			Port:     5432,
			User:     "holdout",
			Password: "holdout",
			DBName:   "holdout",
			SSLMode:  "disable",
		},
		Target: TargetConfig{
			Name:      "survivor",
			MaxHealth: 500,
			Radius:    0.4,
			Height:    1.8,
		},
		Waves: WavesConfig{
			Templates: []TemplateConfig{
				{Archetype: "default", BaseCount: 4},
				{Archetype: "paler", BaseCount: 2},
				{Archetype: "bloater", BaseCount: 1},
				{Archetype: "witch", BaseCount: 1},
			},
			Growth:       1.2,
			SpawnBatch:   2,
			Intermission: 10 * time.Second,
			SpawnPoints: []mgl64.Vec3{
				{25, 0, 0},
				{-25, 0, 0},
				{0, 0, 25},
				{0, 0, -25},
			},
		},
		Melee: MeleeConfig{
			Damage:     melee.Damage,
			HitTime:    melee.HitTime,
			SoundTime:  melee.SoundTime,
			Sounds:     melee.Sounds,
			ReachSlack: melee.ReachSlack,
		},
		Projectile: ProjectileConfig{
			Damage:    projectile.Damage,
			Speed:     projectile.Speed,
			Lifetime:  projectile.Lifetime,
			AimHeight: projectile.AimHeight,
			Radius:    projectile.Radius,
		},
		Weapon: WeaponConfig{
			Head:              weapon.Head,
			Gut:               weapon.Gut,
			Body:              weapon.Body,
			HeadEffect:        weapon.HeadEffect,
			GutEffect:         weapon.GutEffect,
			BodyEffect:        weapon.BodyEffect,
			ImpulseMultiplier: weapon.ImpulseMultiplier,
		},
		Ragdoll: RagdollConfig{
			DecalTemplates:   rd.DecalTemplates,
			PropTemplates:    rd.PropTemplates,
			DecalRayDistance: rd.DecalRayDistance,
			DecalOffset:      rd.DecalOffset,
			DecalLifetimeMin: rd.DecalLifetimeMin,
			DecalLifetimeMax: rd.DecalLifetimeMax,
			PropChance:       rd.PropChance,
			PropOffset:       rd.PropOffset,
			DespawnDelay:     rd.DespawnDelay,
		},
		Turret: TurretConfig{
			FireInterval: sentry.FireInterval,
			HeadWeight:   sentry.Weights.Head,
			GutWeight:    sentry.Weights.Gut,
			BodyWeight:   sentry.Weights.Body,
			BulletMass:   sentry.BulletMass,
			BulletSpeed:  sentry.BulletSpeed,
		},
		Props: []PropConfig{
			{Name: "explosive_barrel", Position: mgl64.Vec3{4, 0, 4}},
			{Name: "explosive_barrel", Position: mgl64.Vec3{-4, 0, -4}},
		},
		Animation: AnimationConfig{
			Clips: map[string]time.Duration{
				"Punch1": 1200 * time.Millisecond,
				"Punch2": 800 * time.Millisecond,
			},
			WalkAnimWorldSpeed: 1.7,
		},
	}
}

// ArchetypeTable returns the built-in table with configured rows overlaid.
func (s Simulation) ArchetypeTable() model.ArchetypeTable {
	table := model.ArchetypeTable(model.BuiltinArchetypes())
	for _, a := range s.Archetypes {
		name := strings.ToLower(a.Name)
		table[name] = model.Archetype{
			Name:           name,
			MaxHealth:      a.MaxHealth,
			WalkSpeed:      a.WalkSpeed,
			AttackRange:    a.AttackRange,
			AttackCooldown: a.AttackCooldown,
			KillPoints:     a.KillPoints,
			Effects:        a.Effects,
		}
	}
	return table
}

// WaveSchedule converts the waves section.
func (s Simulation) WaveSchedule() spawn.Config {
	cfg := spawn.Config{
		Growth:       s.Waves.Growth,
		SpawnBatch:   s.Waves.SpawnBatch,
		Intermission: s.Waves.Intermission,
		SpawnPoints:  s.Waves.SpawnPoints,
	}
	for _, t := range s.Waves.Templates {
		cfg.Templates = append(cfg.Templates, spawn.Template{Archetype: t.Archetype, BaseCount: t.BaseCount})
	}
	return cfg
}

// MeleeParams converts the melee section.
func (s Simulation) MeleeParams() combat.MeleeParams {
	m := s.Melee
	return combat.MeleeParams{
		Damage:                  m.Damage,
		HitTime:                 m.HitTime,
		SoundTime:               m.SoundTime,
		Sounds:                  m.Sounds,
		ReachSlack:              m.ReachSlack,
		DamageHandledExternally: m.DamageHandledExternally,
	}
}

// ProjectileParams converts the projectile section.
func (s Simulation) ProjectileParams() combat.ProjectileParams {
	p := s.Projectile
	mode := combat.CustomLifetime
	if p.SyncToAttack {
		mode = combat.SyncToAttack
	}
	return combat.ProjectileParams{
		Damage:         p.Damage,
		Speed:          p.Speed,
		Lifetime:       p.Lifetime,
		LifetimeMode:   mode,
		StartDelay:     p.StartDelay,
		AimHeight:      p.AimHeight,
		Radius:         p.Radius,
		OnlyForVariant: combat.Variant(p.OnlyVariant),
	}
}

// WeaponTable converts the weapon section.
func (s Simulation) WeaponTable() combat.WeaponTable {
	w := s.Weapon
	return combat.WeaponTable{
		Head:              w.Head,
		Gut:               w.Gut,
		Body:              w.Body,
		HeadEffect:        w.HeadEffect,
		GutEffect:         w.GutEffect,
		BodyEffect:        w.BodyEffect,
		ImpulseMultiplier: w.ImpulseMultiplier,
	}
}

// RagdollParams converts the ragdoll section.
func (s Simulation) RagdollParams() ragdoll.Config {
	r := s.Ragdoll
	cfg := ragdoll.DefaultConfig()
	cfg.DecalTemplates = r.DecalTemplates
	cfg.PropTemplates = r.PropTemplates
	cfg.GroundMask = physics.LayerGround
	cfg.DecalRayDistance = r.DecalRayDistance
	cfg.DecalOffset = r.DecalOffset
	cfg.DecalLifetimeMin = r.DecalLifetimeMin
	cfg.DecalLifetimeMax = r.DecalLifetimeMax
	cfg.PropChance = r.PropChance
	cfg.PropOffset = r.PropOffset
	cfg.DespawnDelay = r.DespawnDelay
	return cfg
}

// TurretParams converts the turret section.
func (s Simulation) TurretParams() turret.Config {
	t := s.Turret
	cfg := turret.DefaultConfig()
	cfg.Position = t.Position
	cfg.FireInterval = t.FireInterval
	cfg.Weights = turret.ZoneWeights{Head: t.HeadWeight, Gut: t.GutWeight, Body: t.BodyWeight}
	cfg.BulletMass = t.BulletMass
	cfg.BulletSpeed = t.BulletSpeed
	return cfg
}

// NewTarget builds the defended target.
func (s Simulation) NewTarget() *model.Target {
	t := s.Target
	return model.NewTarget(t.Name, t.Position, t.MaxHealth, t.Radius, t.Height)
}

// PropSet places the configured props.
func (s Simulation) PropSet() *props.Set {
	set := props.NewSet()
	for _, p := range s.Props {
		set.Add(p.Name, p.Position)
	}
	return set
}
