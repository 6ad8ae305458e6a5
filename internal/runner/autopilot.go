package runner

import (
	"github.com/vovakirdan/lane-runner/internal/core"
)

// Autopilot steers the player for headless runs. It looks a fixed distance
// ahead, leaves lanes with an incoming obstacle and prefers lanes with a
// collectible in reach.
type Autopilot struct {
	Lookahead float64 // Depth beyond the player that counts as incoming
}

// NewAutopilot returns an autopilot with the given lookahead.
func NewAutopilot(lookahead float64) Autopilot {
	return Autopilot{Lookahead: lookahead}
}

// Decide returns the intent to enqueue for the next tick, or IntentNone.
func (a Autopilot) Decide(snap Snapshot) core.Intent {
	if snap.State != StateRunning || len(snap.Lanes) == 0 {
		return core.IntentNone
	}

	p := snap.Player
	near := p.Depth - p.Size.D
	far := p.Depth + a.Lookahead

	danger := make([]bool, len(snap.Lanes))
	reward := make([]bool, len(snap.Lanes))
	for _, e := range snap.Entities {
		if e.Depth < near || e.Depth > far || e.Lane < 0 || e.Lane >= len(snap.Lanes) {
			continue
		}
		if e.Kind == KindObstacle {
			danger[e.Lane] = true
		} else {
			reward[e.Lane] = true
		}
	}

	target := p.Lane
	if danger[target] || !reward[target] {
		target = a.bestLane(p.Lane, danger, reward)
	}

	switch {
	case target < p.Lane:
		return core.IntentMoveLeft
	case target > p.Lane:
		return core.IntentMoveRight
	default:
		return core.IntentNone
	}
}

// bestLane picks the nearest safe lane, preferring one with a reward. The
// path to it must be safe too, since the player crosses every lane between.
func (a Autopilot) bestLane(current int, danger, reward []bool) int {
	best, bestDist := current, len(danger)+1
	if danger[current] {
		bestDist = len(danger) + 2
	}
	for lane := range danger {
		if danger[lane] || !pathClear(current, lane, danger) {
			continue
		}
		dist := lane - current
		if dist < 0 {
			dist = -dist
		}
		if !reward[lane] {
			dist += len(danger) // rewards win over proximity
		}
		if dist < bestDist {
			best, bestDist = lane, dist
		}
	}
	return best
}

func pathClear(from, to int, danger []bool) bool {
	if from == to {
		return true
	}
	step := 1
	if to < from {
		step = -1
	}
	for lane := from + step; lane != to; lane += step {
		if danger[lane] {
			return false
		}
	}
	return true
}
