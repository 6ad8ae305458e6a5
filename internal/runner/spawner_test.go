package runner

import (
	"math"
	"sort"
	"testing"

	"github.com/vovakirdan/lane-runner/internal/config"
)

func TestSpawnerCountdown(t *testing.T) {
	cfg := config.DefaultRunnerConfig()
	cfg.Spawn.JitterFraction = 0
	w := NewWorld(cfg)
	s := NewSpawner(cfg, 1, nil)
	d := w.Difficulty() // interval 50

	spawnedAt := 0
	for tick := 1; tick <= 100; tick++ {
		if _, ok := s.MaybeSpawn(w, d, uint64(tick)); ok {
			spawnedAt = tick
			break
		}
	}
	if spawnedAt != 50 {
		t.Errorf("first spawn at tick %d, expected 50", spawnedAt)
	}
	if s.Countdown() != 50 {
		t.Errorf("countdown reset to %v, expected 50", s.Countdown())
	}
}

func TestSpawnerJitterBounds(t *testing.T) {
	cfg := config.DefaultRunnerConfig() // jitter 0.15
	s := NewSpawner(cfg, 7, nil)

	for i := 0; i < 1000; i++ {
		got := s.jittered(40)
		if got < 34 || got > 46 {
			t.Fatalf("jittered(40) = %v, expected within 15%%", got)
		}
	}
}

func TestSpawnerDeterministic(t *testing.T) {
	cfg := config.DefaultRunnerConfig()
	run := func() []Entity {
		w := NewWorld(cfg)
		s := NewSpawner(cfg, 99, nil)
		var out []Entity
		for tick := uint64(1); tick <= 2000; tick++ {
			if e, ok := s.MaybeSpawn(w, w.difficulty, tick); ok {
				w.add(e)
				out = append(out, e)
			}
			w.advance()
			w.prune()
		}
		return out
	}

	a, b := run(), run()
	if len(a) == 0 {
		t.Fatal("expected some spawns in 2000 ticks")
	}
	if len(a) != len(b) {
		t.Fatalf("same seed produced %d and %d spawns", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("spawn %d differs: %+v vs %+v", i, a[i], b[i])
		}
	}
}

func TestSpawnerWeights(t *testing.T) {
	t.Run("obstacles only", func(t *testing.T) {
		cfg := config.DefaultRunnerConfig()
		for i := range cfg.Collectibles {
			cfg.Collectibles[i].Weight = 0
		}
		s := NewSpawner(cfg, 3, nil)
		for i := 0; i < 200; i++ {
			if e := s.pickKind(); e.Kind != KindObstacle {
				t.Fatalf("picked %+v with zero collectible weight", e)
			}
		}
	})

	t.Run("single collectible", func(t *testing.T) {
		cfg := config.DefaultRunnerConfig()
		cfg.Spawn.ObstacleWeight = 0
		for i := range cfg.Collectibles {
			if cfg.Collectibles[i].Name != "GAMEBOY" {
				cfg.Collectibles[i].Weight = 0
			}
		}
		s := NewSpawner(cfg, 3, nil)
		for i := 0; i < 200; i++ {
			e := s.pickKind()
			if e.Kind != KindCollectible || e.Variant != "GAMEBOY" || e.Value != 50 {
				t.Fatalf("picked %+v, expected only GAMEBOY", e)
			}
		}
	})
}

func TestSpawnerExhaustsRetries(t *testing.T) {
	cfg := config.DefaultRunnerConfig()
	cfg.Spawn.InitialInterval = 1
	cfg.Spawn.MinInterval = 1
	w := NewWorld(cfg)
	for lane := 0; lane < w.Lanes().Len(); lane++ {
		w.add(obstacleAt(lane, cfg.World.SpawnDistance-10))
	}
	s := NewSpawner(cfg, 5, nil)

	for tick := uint64(1); tick <= 10; tick++ {
		if e, ok := s.MaybeSpawn(w, w.Difficulty(), tick); ok {
			t.Fatalf("tick %d: spawned %+v into a full set of lanes", tick, e)
		}
	}
	if s.Skipped() == 0 {
		t.Error("skipped attempts should be counted")
	}
}

// TestAntiStacking runs a dense spawn schedule and checks that entities in
// the same lane always keep the minimum gap.
func TestAntiStacking(t *testing.T) {
	s := newTestSession(t, func(c *config.RunnerConfig) {
		c.Spawn.InitialInterval = 1
		c.Spawn.MinInterval = 1
		c.Scoring.MaxLives = 1 << 30
	}, nil)
	s.Start()
	gap := s.opts.Config.Spawn.MinSafeGap

	for i := 0; i < 5000; i++ {
		s.Step()
		byLane := map[int][]float64{}
		for _, e := range s.world.entities {
			byLane[e.Lane] = append(byLane[e.Lane], e.Depth)
		}
		for lane, depths := range byLane {
			sort.Float64s(depths)
			for j := 1; j < len(depths); j++ {
				if depths[j]-depths[j-1] < gap-1e-6 {
					t.Fatalf("tick %d lane %d: entities %v apart, expected at least %v", i, lane, depths[j]-depths[j-1], gap)
				}
			}
		}
	}
	if s.world.stats.Skipped == 0 {
		t.Error("a one-tick interval should exhaust lane retries at some point")
	}
	if s.State() != StateRunning {
		t.Errorf("state = %v, expected the session to keep running", s.State())
	}
}

func TestDifficultyMonotonic(t *testing.T) {
	s := newTestSession(t, func(c *config.RunnerConfig) {
		c.Scoring.MaxLives = 1 << 30
	}, nil)
	s.Start()
	cfg := s.opts.Config

	prev := s.world.Difficulty()
	for i := 0; i < 4000; i++ {
		s.Step()
		d := s.world.Difficulty()
		if d.Speed < prev.Speed || d.Speed > cfg.Speed.Max {
			t.Fatalf("tick %d: speed %v (prev %v, max %v)", i, d.Speed, prev.Speed, cfg.Speed.Max)
		}
		if d.SpawnInterval > prev.SpawnInterval || d.SpawnInterval < cfg.Spawn.MinInterval {
			t.Fatalf("tick %d: interval %v (prev %v, min %v)", i, d.SpawnInterval, prev.SpawnInterval, cfg.Spawn.MinInterval)
		}
		prev = d
	}
	if math.Abs(prev.Speed-cfg.Speed.Max) > 1e-9 {
		t.Errorf("speed after 4000 ticks = %v, expected the cap %v", prev.Speed, cfg.Speed.Max)
	}
}
