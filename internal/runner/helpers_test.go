package runner

import (
	"testing"

	"github.com/vovakirdan/lane-runner/internal/config"
)

// recordingSink captures what a session hands to the score store.
type recordingSink struct {
	begun   []SessionID
	results []RunResult
}

func (r *recordingSink) Begin(id SessionID)   { r.begun = append(r.begun, id) }
func (r *recordingSink) Submit(res RunResult) { r.results = append(r.results, res) }

func newTestSession(t *testing.T, mutate func(*config.RunnerConfig), sink ScoreSink) *Session {
	t.Helper()
	cfg := config.DefaultRunnerConfig()
	if mutate != nil {
		mutate(&cfg)
	}
	opts := Options{Config: cfg, Seed: 42, TickRate: 60}
	if sink != nil {
		opts.Scores = sink
	}
	s, err := NewSession(opts)
	if err != nil {
		t.Fatalf("NewSession() failed: %v", err)
	}
	return s
}

// obstacleAt builds an obstacle with the default obstacle box.
func obstacleAt(lane int, depth float64) Entity {
	return Entity{Kind: KindObstacle, Lane: lane, Depth: depth, Size: config.DefaultRunnerConfig().Obstacle.Size}
}

// collectibleAt builds a collectible of the named default variant.
func collectibleAt(t *testing.T, name string, lane int, depth float64) Entity {
	t.Helper()
	c, ok := config.DefaultRunnerConfig().CollectibleByName(name)
	if !ok {
		t.Fatalf("no collectible variant %q", name)
	}
	e := collectible(c)
	e.Lane = lane
	e.Depth = depth
	return e
}
