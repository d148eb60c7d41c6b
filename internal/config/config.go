package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"gopkg.in/yaml.v3"
)

// DefaultPath is where the simulation config is read from.
const DefaultPath = "config/holdout.yaml"

// PathEnv overrides DefaultPath.
const PathEnv = "HOLDOUT_CONFIG"

// ErrInvalid is returned by Validate.
var ErrInvalid = errors.New("invalid config")

// Simulation holds all configuration for a holdout run.
type Simulation struct {
	LogLevel       string        `yaml:"log_level"`
	DebugAI        bool          `yaml:"debug_ai"`
	TickInterval   time.Duration `yaml:"tick_interval"`
	StatusInterval time.Duration `yaml:"status_interval"`
	RunFor         time.Duration `yaml:"run_for"` // 0 = until the target dies
	Seed           int64         `yaml:"seed"`    // 0 = random

	// Run archive
	RecordRuns bool           `yaml:"record_runs"`
	Database   DatabaseConfig `yaml:"database"`

	Target     TargetConfig      `yaml:"target"`
	Archetypes []ArchetypeConfig `yaml:"archetypes"` // overlaid on the built-in table
	Waves      WavesConfig       `yaml:"waves"`
	Melee      MeleeConfig       `yaml:"melee"`
	Projectile ProjectileConfig  `yaml:"projectile"`
	Weapon     WeaponConfig      `yaml:"weapon"`
	Ragdoll    RagdollConfig     `yaml:"ragdoll"`
	Turret     TurretConfig      `yaml:"turret"`
	Props      []PropConfig      `yaml:"props"` // restored between waves
	Animation  AnimationConfig   `yaml:"animation"`
}

// DatabaseConfig holds PostgreSQL connection parameters.
type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	DBName   string `yaml:"dbname"`
	SSLMode  string `yaml:"sslmode"`
}

// DSN returns the PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}

// TargetConfig describes the defended target.
type TargetConfig struct {
	Name      string     `yaml:"name"`
	Position  mgl64.Vec3 `yaml:"position"`
	MaxHealth int        `yaml:"max_health"`
	Radius    float64    `yaml:"radius"`
	Height    float64    `yaml:"height"`
}

// ArchetypeConfig is one archetype row.
type ArchetypeConfig struct {
	Name           string        `yaml:"name"`
	MaxHealth      int           `yaml:"max_health"`
	WalkSpeed      float64       `yaml:"walk_speed"`
	AttackRange    float64       `yaml:"attack_range"`
	AttackCooldown time.Duration `yaml:"attack_cooldown"`
	KillPoints     int           `yaml:"kill_points"`
	Effects        []string      `yaml:"effects"`
}

// TemplateConfig is one wave template.
type TemplateConfig struct {
	Archetype string `yaml:"archetype"`
	BaseCount int    `yaml:"base_count"`
}

// WavesConfig configures the wave schedule.
type WavesConfig struct {
	Templates    []TemplateConfig `yaml:"templates"`
	Growth       float64          `yaml:"growth"`
	SpawnBatch   int              `yaml:"spawn_batch"`
	Intermission time.Duration    `yaml:"intermission"`
	SpawnPoints  []mgl64.Vec3     `yaml:"spawn_points"`
}

// MeleeConfig configures the timed melee hit.
type MeleeConfig struct {
	Damage                  int        `yaml:"damage"`
	HitTime                 [2]float64 `yaml:"hit_time"`
	SoundTime               [2]float64 `yaml:"sound_time"`
	Sounds                  [2]string  `yaml:"sounds"`
	ReachSlack              float64    `yaml:"reach_slack"`
	DamageHandledExternally bool       `yaml:"damage_handled_externally"`
}

// ProjectileConfig configures the homing projectile.
type ProjectileConfig struct {
	Damage       int           `yaml:"damage"`
	Speed        float64       `yaml:"speed"`
	Lifetime     time.Duration `yaml:"lifetime"`
	SyncToAttack bool          `yaml:"sync_to_attack"`
	StartDelay   time.Duration `yaml:"start_delay"`
	AimHeight    float64       `yaml:"aim_height"`
	Radius       float64       `yaml:"radius"`
	OnlyVariant  int           `yaml:"only_variant"` // 0 = both
}

// WeaponConfig is the per-zone damage table of the defender's weapon.
type WeaponConfig struct {
	Head              int     `yaml:"head"`
	Gut               int     `yaml:"gut"`
	Body              int     `yaml:"body"`
	HeadEffect        string  `yaml:"head_effect"`
	GutEffect         string  `yaml:"gut_effect"`
	BodyEffect        string  `yaml:"body_effect"`
	ImpulseMultiplier float64 `yaml:"impulse_multiplier"`
}

// RagdollConfig configures death decorations and corpse despawn.
type RagdollConfig struct {
	DecalTemplates   []string      `yaml:"decal_templates"`
	PropTemplates    []string      `yaml:"prop_templates"`
	DecalRayDistance float64       `yaml:"decal_ray_distance"`
	DecalOffset      float64       `yaml:"decal_offset"`
	DecalLifetimeMin time.Duration `yaml:"decal_lifetime_min"`
	DecalLifetimeMax time.Duration `yaml:"decal_lifetime_max"`
	PropChance       float64       `yaml:"prop_chance"`
	PropOffset       float64       `yaml:"prop_offset"`
	DespawnDelay     time.Duration `yaml:"despawn_delay"`
}

// TurretConfig configures the sentry. A zero fire interval disables it.
type TurretConfig struct {
	Position     mgl64.Vec3    `yaml:"position"`
	FireInterval time.Duration `yaml:"fire_interval"`
	HeadWeight   float64       `yaml:"head_weight"`
	GutWeight    float64       `yaml:"gut_weight"`
	BodyWeight   float64       `yaml:"body_weight"`
	BulletMass   float64       `yaml:"bullet_mass"`
	BulletSpeed  float64       `yaml:"bullet_speed"`
}

// PropConfig places one destructible prop.
type PropConfig struct {
	Name     string     `yaml:"name"`
	Position mgl64.Vec3 `yaml:"position"`
}

// AnimationConfig holds clip lengths keyed by trigger name.
type AnimationConfig struct {
	Clips              map[string]time.Duration `yaml:"clips"`
	WalkAnimWorldSpeed float64                  `yaml:"walk_anim_world_speed"`
}

// LoadSimulation loads the config from a YAML file.
// If the file doesn't exist, returns defaults.
func LoadSimulation(path string) (Simulation, error) {
	cfg := DefaultSimulation()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}

	return cfg, nil
}

// Path returns the config path from PathEnv, or DefaultPath.
func Path() string {
	if p := os.Getenv(PathEnv); p != "" {
		return p
	}
	return DefaultPath
}

// SlogLevel parses LogLevel.
func (s Simulation) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s.LogLevel)); err != nil {
		return slog.LevelInfo, fmt.Errorf("log_level %q: %w", s.LogLevel, ErrInvalid)
	}
	return level, nil
}

// Validate checks the values the simulation cannot run with.
func (s Simulation) Validate() error {
	invalid := func(format string, args ...any) error {
		return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), ErrInvalid)
	}

	if _, err := s.SlogLevel(); err != nil {
		return err
	}
	switch {
	case s.TickInterval <= 0:
		return invalid("tick_interval %s must be positive", s.TickInterval)
	case s.RunFor < 0:
		return invalid("run_for %s is negative", s.RunFor)
	case s.Target.MaxHealth <= 0:
		return invalid("target.max_health %d must be positive", s.Target.MaxHealth)
	case s.Target.Radius < 0 || s.Target.Height < 0:
		return invalid("target volume is negative")
	case s.Waves.Growth <= 0:
		return invalid("waves.growth %.2f must be positive", s.Waves.Growth)
	case s.Waves.SpawnBatch <= 0:
		return invalid("waves.spawn_batch %d must be positive", s.Waves.SpawnBatch)
	case s.Waves.Intermission < 0:
		return invalid("waves.intermission %s is negative", s.Waves.Intermission)
	case s.Ragdoll.PropChance < 0 || s.Ragdoll.PropChance > 1:
		return invalid("ragdoll.prop_chance %.2f outside [0,1]", s.Ragdoll.PropChance)
	case s.Ragdoll.DecalLifetimeMin > s.Ragdoll.DecalLifetimeMax:
		return invalid("ragdoll decal lifetime min %s above max %s", s.Ragdoll.DecalLifetimeMin, s.Ragdoll.DecalLifetimeMax)
	case s.Turret.FireInterval < 0:
		return invalid("turret.fire_interval %s is negative", s.Turret.FireInterval)
	case s.Projectile.OnlyVariant < 0 || s.Projectile.OnlyVariant > 2:
		return invalid("projectile.only_variant %d outside [0,2]", s.Projectile.OnlyVariant)
	case s.RecordRuns && s.Database.Host == "":
		return invalid("record_runs needs database.host")
	}

	for i, t := range s.Melee.HitTime {
		if t < 0 || t > 1 {
			return invalid("melee.hit_time[%d] %.2f outside [0,1]", i, t)
		}
	}
	for _, tmpl := range s.Waves.Templates {
		if strings.TrimSpace(tmpl.Archetype) == "" {
			return invalid("wave template without archetype")
		}
		if tmpl.BaseCount < 0 {
			return invalid("wave template %s: base_count %d is negative", tmpl.Archetype, tmpl.BaseCount)
		}
	}
	for name, a := range s.ArchetypeTable() {
		if err := a.Validate(); err != nil {
			return fmt.Errorf("archetype %s: %v: %w", name, err, ErrInvalid)
		}
	}
	return nil
}
