// Package config provides YAML-based runner configuration loading, validation
// and difficulty ramps.
package config

import (
	"errors"
	"fmt"

	"github.com/vovakirdan/lane-runner/internal/core"
	"github.com/vovakirdan/lane-runner/internal/projection"
)

// ErrInvalidConfig is wrapped by every validation failure.
var ErrInvalidConfig = errors.New("invalid config")

// Lane set names.
const (
	LaneModeClassic = "classic" // three lanes
	LaneModeDuo     = "duo"     // two lanes
)

// RunnerConfig contains every tunable of the simulation.
type RunnerConfig struct {
	Lanes        LanesConfig         `yaml:"lanes"`
	Camera       projection.Camera   `yaml:"camera"`
	Player       PlayerConfig        `yaml:"player"`
	Speed        SpeedConfig         `yaml:"speed"`
	Spawn        SpawnConfig         `yaml:"spawn"`
	World        WorldConfig         `yaml:"world"`
	Obstacle     ObstacleConfig      `yaml:"obstacle"`
	Collectibles []CollectibleConfig `yaml:"collectibles"`
	Scoring      ScoringConfig       `yaml:"scoring"`
}

// LanesConfig holds both lane layouts; Mode selects the active one.
type LanesConfig struct {
	Mode    string    `yaml:"mode"`    // "classic" or "duo"
	Classic []float64 `yaml:"classic"` // World X of each lane, left to right
	Duo     []float64 `yaml:"duo"`
}

// Positions returns the world X offsets of the active lane set.
func (l LanesConfig) Positions() []float64 {
	src := l.Classic
	if l.Mode == LaneModeDuo {
		src = l.Duo
	}
	out := make([]float64, len(src))
	copy(out, src)
	return out
}

// PlayerConfig defines the player's fixed geometry and steering.
type PlayerConfig struct {
	Depth           float64  `yaml:"depth"`             // Fixed distance from the camera
	Size            core.Box `yaml:"size"`              // Collision box
	LaneSwitchSpeed float64  `yaml:"lane_switch_speed"` // Lerp factor per tick toward the target lane
	LaneOverlap     float64  `yaml:"lane_overlap"`      // Fraction of an entity's width the player must cover mid-switch to hit it
}

// SpeedConfig bounds the forward speed, in world units per tick.
type SpeedConfig struct {
	Initial   float64 `yaml:"initial"`
	Max       float64 `yaml:"max"`
	Increment float64 `yaml:"increment"` // Added every running tick
}

// SpawnConfig controls the procedural spawner.
type SpawnConfig struct {
	InitialInterval float64 `yaml:"initial_interval"` // Ticks between spawn attempts at the start
	MinInterval     float64 `yaml:"min_interval"`     // Floor of the spawn interval
	DecayPerUnit    float64 `yaml:"decay_per_unit"`   // Interval reduction per world unit travelled
	JitterFraction  float64 `yaml:"jitter_fraction"`  // Countdown reset is interval * (1 ± jitter)
	MaxRetries      int     `yaml:"max_retries"`      // Lane rerolls before giving up on a spawn
	MinSafeGap      float64 `yaml:"min_safe_gap"`     // Minimum depth gap to the last entity in a lane
	ObstacleWeight  float64 `yaml:"obstacle_weight"`  // Relative weight against collectible weights
}

// WorldConfig holds depth thresholds.
type WorldConfig struct {
	SpawnDistance  float64 `yaml:"spawn_distance"`
	RenderDistance float64 `yaml:"render_distance"`
	RemovalDepth   float64 `yaml:"removal_depth"` // Entities with a smaller depth have passed the camera
	FogStart       float64 `yaml:"fog_start"`
	FogEnd         float64 `yaml:"fog_end"`
}

// ObstacleConfig defines the obstacle box.
type ObstacleConfig struct {
	Size core.Box `yaml:"size"`
}

// CollectibleConfig defines one collectible variant.
type CollectibleConfig struct {
	Name   string   `yaml:"name"`
	Size   core.Box `yaml:"size"`
	Score  int      `yaml:"score"`
	Weight float64  `yaml:"weight"`
}

// ScoringConfig defines lives, combo tiers and passive scoring.
type ScoringConfig struct {
	MaxLives      int     `yaml:"max_lives"`
	ItemsPerCombo int     `yaml:"items_per_combo"` // Consecutive pickups per multiplier tier
	MaxMultiplier int     `yaml:"max_multiplier"`
	PointsPerUnit float64 `yaml:"points_per_unit"` // Passive score per world unit travelled
}

// Validate checks that the configuration can drive a session.
func (c RunnerConfig) Validate() error {
	lanes := c.Lanes.Positions()
	switch {
	case c.Lanes.Mode != LaneModeClassic && c.Lanes.Mode != LaneModeDuo:
		return invalid("lanes.mode %q is not %q or %q", c.Lanes.Mode, LaneModeClassic, LaneModeDuo)
	case len(lanes) == 0:
		return invalid("lane set %q is empty", c.Lanes.Mode)
	case c.Speed.Initial <= 0 || c.Speed.Max < c.Speed.Initial:
		return invalid("speed bounds [%v, %v] are not increasing and positive", c.Speed.Initial, c.Speed.Max)
	case c.Speed.Increment < 0:
		return invalid("speed.increment must not be negative")
	case c.Spawn.MinInterval < 1 || c.Spawn.InitialInterval < c.Spawn.MinInterval:
		return invalid("spawn interval bounds [%v, %v] are invalid", c.Spawn.MinInterval, c.Spawn.InitialInterval)
	case c.Spawn.DecayPerUnit < 0:
		return invalid("spawn.decay_per_unit must not be negative")
	case c.Spawn.JitterFraction < 0 || c.Spawn.JitterFraction >= 1:
		return invalid("spawn.jitter_fraction must be in [0, 1)")
	case c.Spawn.MaxRetries < 1:
		return invalid("spawn.max_retries must be at least 1")
	case c.Spawn.MinSafeGap < 0:
		return invalid("spawn.min_safe_gap must not be negative")
	case c.Scoring.MaxLives < 1:
		return invalid("scoring.max_lives must be at least 1")
	case c.Scoring.ItemsPerCombo < 1 || c.Scoring.MaxMultiplier < 1:
		return invalid("combo tiers need items_per_combo >= 1 and max_multiplier >= 1")
	case c.Scoring.PointsPerUnit < 0:
		return invalid("scoring.points_per_unit must not be negative")
	case c.World.SpawnDistance <= c.Player.Depth:
		return invalid("world.spawn_distance must lie beyond the player")
	case c.Player.Depth <= c.World.RemovalDepth:
		return invalid("player.depth must lie in front of world.removal_depth")
	case c.Player.LaneSwitchSpeed <= 0 || c.Player.LaneSwitchSpeed > 1:
		return invalid("player.lane_switch_speed must be in (0, 1]")
	case c.Player.LaneOverlap <= 0 || c.Player.LaneOverlap > 1:
		return invalid("player.lane_overlap must be in (0, 1]")
	}

	if c.Spawn.ObstacleWeight < 0 {
		return invalid("spawn.obstacle_weight must not be negative")
	}
	total := c.Spawn.ObstacleWeight
	seen := make(map[string]bool, len(c.Collectibles))
	for _, col := range c.Collectibles {
		if col.Name == "" || seen[col.Name] {
			return invalid("collectible names must be unique and non-empty (got %q)", col.Name)
		}
		seen[col.Name] = true
		if col.Weight < 0 || col.Score < 0 {
			return invalid("collectible %s has a negative weight or score", col.Name)
		}
		total += col.Weight
	}
	if total <= 0 {
		return invalid("spawn weights sum to zero")
	}

	// An entity must not be able to cross the whole depth window in one tick,
	// otherwise it could tunnel through the player.
	window := c.Player.Size.D + c.Obstacle.Size.D
	for _, col := range c.Collectibles {
		if w := c.Player.Size.D + col.Size.D; w < window {
			window = w
		}
	}
	if c.Speed.Max >= window {
		return invalid("speed.max %v would skip the %v-unit collision window", c.Speed.Max, window)
	}

	return nil
}

// CollectibleByName returns the collectible variant with the given name.
func (c RunnerConfig) CollectibleByName(name string) (CollectibleConfig, bool) {
	for _, col := range c.Collectibles {
		if col.Name == name {
			return col, true
		}
	}
	return CollectibleConfig{}, false
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidConfig, fmt.Sprintf(format, args...))
}

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
	DifficultyFixed  DifficultyPreset = "fixed"
)

// ParsePreset maps a CLI value to a preset. Empty means "use the config as is".
func ParsePreset(s string) (DifficultyPreset, error) {
	switch p := DifficultyPreset(s); p {
	case "", DifficultyEasy, DifficultyNormal, DifficultyHard, DifficultyFixed:
		return p, nil
	default:
		return "", fmt.Errorf("config: unknown difficulty %q (want easy, normal, hard or fixed)", s)
	}
}

// InitialLevelForPreset returns how far into the difficulty range a preset starts.
func InitialLevelForPreset(preset DifficultyPreset) float64 {
	switch preset {
	case DifficultyNormal:
		return 0.3
	case DifficultyHard:
		return 0.7
	default:
		return 0.0
	}
}
