package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ConfigFileName is the file looked up in the user and local config directories.
const ConfigFileName = "runner.yaml"

// Load loads the runner configuration.
// Search order: customPath -> ~/.lane-runner/configs/runner.yaml ->
// ./configs/runner.yaml -> embedded default.
// Files are decoded over the defaults, so they only need the keys they change.
// A custom path that cannot be read or parsed is an error; the implicit
// locations are skipped when unusable.
func Load(customPath string) (RunnerConfig, error) {
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return RunnerConfig{}, fmt.Errorf("config: failed to read %s: %w", customPath, err)
		}
		cfg, err := Parse(data)
		if err != nil {
			return RunnerConfig{}, fmt.Errorf("config: %s: %w", customPath, err)
		}
		return cfg, nil
	}

	candidates := []string{userConfigPath(ConfigFileName), filepath.Join("configs", ConfigFileName)}
	for _, path := range candidates {
		if path == "" {
			continue
		}
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		if cfg, err := Parse(data); err == nil {
			return cfg, nil
		}
	}

	if cfg, err := Parse(defaultRunnerYAML); err == nil {
		return cfg, nil
	}
	return DefaultRunnerConfig(), nil // Fallback to hardcoded if embed fails
}

// Parse decodes YAML over the built-in defaults and validates the result.
func Parse(data []byte) (RunnerConfig, error) {
	cfg := DefaultRunnerConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return RunnerConfig{}, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return RunnerConfig{}, err
	}
	return cfg, nil
}

// userConfigPath returns the path to a user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".lane-runner", "configs", filename)
}

// ApplyPreset modifies the config based on a difficulty preset.
// "fixed" freezes the ramps; the other presets start part-way up the range.
func ApplyPreset(cfg *RunnerConfig, preset DifficultyPreset) {
	if preset == "" {
		return
	}
	if preset == DifficultyFixed {
		cfg.Speed.Increment = 0
		cfg.Spawn.DecayPerUnit = 0
		return
	}

	level := InitialLevelForPreset(preset)
	cfg.Speed.Initial += level * (cfg.Speed.Max - cfg.Speed.Initial)
	cfg.Spawn.InitialInterval -= level * (cfg.Spawn.InitialInterval - cfg.Spawn.MinInterval)
}

// ApplyLaneMode switches between the classic and duo lane sets.
// An empty mode keeps the configured one.
func ApplyLaneMode(cfg *RunnerConfig, mode string) error {
	switch mode {
	case "":
		return nil
	case LaneModeClassic, "3":
		cfg.Lanes.Mode = LaneModeClassic
	case LaneModeDuo, "2":
		cfg.Lanes.Mode = LaneModeDuo
	default:
		return fmt.Errorf("config: unknown lane mode %q (want classic/3 or duo/2)", mode)
	}
	return nil
}
