package runner

import (
	"testing"

	"github.com/vovakirdan/lane-runner/internal/core"
)

func TestAutopilotDecide(t *testing.T) {
	base := func(lane int, entities ...Entity) Snapshot {
		return Snapshot{
			State:    StateRunning,
			Lanes:    []float64{-160, 0, 160},
			Player:   Player{Lane: lane, Depth: 300, Size: obstacleAt(0, 0).Size},
			Entities: entities,
		}
	}

	tests := []struct {
		name     string
		snap     Snapshot
		expected core.Intent
	}{
		{"clear road", base(1), core.IntentNone},
		{"obstacle far away", base(1, obstacleAt(1, 1800)), core.IntentNone},
		{"obstacle ahead", base(1, obstacleAt(1, 600)), core.IntentMoveLeft},
		{"obstacle ahead, left blocked", base(1, obstacleAt(1, 600), obstacleAt(0, 500)), core.IntentMoveRight},
		{"all lanes blocked", base(1, obstacleAt(0, 600), obstacleAt(1, 600), obstacleAt(2, 600)), core.IntentNone},
		{"collectible to the right", base(1, collectibleAt(t, "CAN", 2, 700)), core.IntentMoveRight},
		{"cannot pass through a blocked lane", base(0, obstacleAt(0, 600), obstacleAt(1, 600)), core.IntentNone},
		{"paused", func() Snapshot { s := base(1, obstacleAt(1, 600)); s.State = StatePaused; return s }(), core.IntentNone},
	}

	pilot := NewAutopilot(600)
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := pilot.Decide(tc.snap); got != tc.expected {
				t.Errorf("Decide() = %v, expected %v", got, tc.expected)
			}
		})
	}
}
