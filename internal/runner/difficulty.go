package runner

import "github.com/vovakirdan/lane-runner/internal/config"

// Difficulty is the speed and spawn pacing of a running session. It only
// ever gets harder and is replaced, never reset, when a new session starts.
type Difficulty struct {
	Speed         float64 // World units per tick
	SpawnInterval float64 // Ticks between spawn attempts
	Distance      float64 // World units travelled

	ramp config.Ramp
}

// NewDifficulty returns the difficulty at the start of a run.
func NewDifficulty(cfg config.RunnerConfig) Difficulty {
	ramp := config.NewRamp(cfg)
	return Difficulty{
		Speed:         ramp.InitialSpeed(),
		SpawnInterval: ramp.Interval(0),
		ramp:          ramp,
	}
}

// Level returns the speed progress through its range, 0.0 to 1.0.
func (d Difficulty) Level() float64 {
	return d.ramp.Level(d.Speed)
}

// accelerate applies one tick of speed increase.
func (d *Difficulty) accelerate() {
	d.Speed = d.ramp.NextSpeed(d.Speed)
}

// travel records distance covered and tightens the spawn interval.
func (d *Difficulty) travel(units float64) {
	d.Distance += units
	d.SpawnInterval = d.ramp.Interval(d.Distance)
}
