package config

import "math"

// Ramp computes difficulty parameters. Speed climbs by a fixed increment per
// tick; the spawn interval shrinks with distance travelled. Both are clamped so
// a session's speed never decreases and its interval never grows.
type Ramp struct {
	speed SpeedConfig
	spawn SpawnConfig
}

// NewRamp creates a ramp for the given configuration.
func NewRamp(cfg RunnerConfig) Ramp {
	return Ramp{speed: cfg.Speed, spawn: cfg.Spawn}
}

// InitialSpeed returns the speed a session starts with.
func (r Ramp) InitialSpeed() float64 {
	return r.speed.Initial
}

// MaxSpeed returns the speed cap.
func (r Ramp) MaxSpeed() float64 {
	return r.speed.Max
}

// NextSpeed returns the speed after one more tick.
func (r Ramp) NextSpeed(current float64) float64 {
	return clampF(current+r.speed.Increment, r.speed.Initial, r.speed.Max)
}

// Interval returns the spawn interval in ticks after travelling distance units.
func (r Ramp) Interval(distance float64) float64 {
	if distance < 0 {
		distance = 0
	}
	interval := r.spawn.InitialInterval - distance*r.spawn.DecayPerUnit
	return math.Max(r.spawn.MinInterval, interval)
}

// MinInterval returns the interval floor.
func (r Ramp) MinInterval() float64 {
	return r.spawn.MinInterval
}

// Level returns how far the speed has progressed through its range (0.0 to 1.0).
func (r Ramp) Level(speed float64) float64 {
	span := r.speed.Max - r.speed.Initial
	if span <= 0 {
		return 1
	}
	return clampF((speed-r.speed.Initial)/span, 0, 1)
}

// clampF restricts a float64 to [min, max].
func clampF(val, min, max float64) float64 {
	return math.Max(min, math.Min(max, val))
}
