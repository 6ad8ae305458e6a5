package config

import (
	_ "embed"

	"github.com/vovakirdan/lane-runner/internal/core"
	"github.com/vovakirdan/lane-runner/internal/projection"
)

//go:embed defaults/runner.yaml
var defaultRunnerYAML []byte

// DefaultRunnerConfig returns the built-in configuration. It mirrors
// defaults/runner.yaml and is used when the embedded file cannot be parsed.
func DefaultRunnerConfig() RunnerConfig {
	return RunnerConfig{
		Lanes: LanesConfig{
			Mode:    LaneModeClassic,
			Classic: []float64{-160, 0, 160},
			Duo:     []float64{-80, 80},
		},
		Camera: projection.DefaultCamera(),
		Player: PlayerConfig{
			Depth:           300,
			Size:            core.Box{W: 70, H: 70, D: 110},
			LaneSwitchSpeed: 0.15,
			LaneOverlap:     0.5,
		},
		Speed: SpeedConfig{
			Initial:   16,
			Max:       45,
			Increment: 0.01,
		},
		Spawn: SpawnConfig{
			InitialInterval: 50,
			MinInterval:     18,
			DecayPerUnit:    0.0003,
			JitterFraction:  0.15,
			MaxRetries:      4,
			MinSafeGap:      600,
			ObstacleWeight:  6,
		},
		World: WorldConfig{
			SpawnDistance:  2000,
			RenderDistance: 2500,
			RemovalDepth:   0,
			FogStart:       1500,
			FogEnd:         2500,
		},
		Obstacle: ObstacleConfig{
			Size: core.Box{W: 60, H: 70, D: 40},
		},
		Collectibles: []CollectibleConfig{
			{Name: "GAMEBOY", Size: core.Box{W: 50, H: 75, D: 20}, Score: 50, Weight: 1},
			{Name: "BOTTLE", Size: core.Box{W: 30, H: 50, D: 30}, Score: 10, Weight: 3},
			{Name: "CAN", Size: core.Box{W: 35, H: 40, D: 35}, Score: 15, Weight: 2},
			{Name: "GLASS", Size: core.Box{W: 30, H: 55, D: 30}, Score: 20, Weight: 2},
		},
		Scoring: ScoringConfig{
			MaxLives:      3,
			ItemsPerCombo: 5,
			MaxMultiplier: 5,
			PointsPerUnit: 0.01,
		},
	}
}

// DefaultYAML returns the embedded default configuration file.
func DefaultYAML() []byte {
	return defaultRunnerYAML
}
