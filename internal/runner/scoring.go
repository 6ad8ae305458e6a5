package runner

import (
	"math"

	"github.com/vovakirdan/lane-runner/internal/config"
)

// ScoringRules are the lives, combo and passive score parameters.
type ScoringRules struct {
	MaxLives      int
	ItemsPerCombo int
	MaxMultiplier int
	PointsPerUnit float64
}

// RulesFromConfig extracts the scoring rules.
func RulesFromConfig(cfg config.ScoringConfig) ScoringRules {
	return ScoringRules{
		MaxLives:      cfg.MaxLives,
		ItemsPerCombo: cfg.ItemsPerCombo,
		MaxMultiplier: cfg.MaxMultiplier,
		PointsPerUnit: cfg.PointsPerUnit,
	}
}

// Multiplier returns the pickup multiplier for a combo count. It rises one
// step every ItemsPerCombo pickups and stops at MaxMultiplier.
func (r ScoringRules) Multiplier(combo int) int {
	if combo < 0 || r.ItemsPerCombo <= 0 {
		return 1
	}
	m := 1 + combo/r.ItemsPerCombo
	if r.MaxMultiplier > 0 && m > r.MaxMultiplier {
		m = r.MaxMultiplier
	}
	return m
}

// Outcome is the result of applying one tick's collisions.
type Outcome struct {
	Collected int
	Hits      int
	Points    int  // Score gained this tick, pickups and passive
	GameOver  bool // Lives reached zero this tick
}

// Apply updates the player for one tick: collisions in event order, then the
// passive distance score. Events after a fatal hit are ignored.
func Apply(events []CollisionEvent, p *Player, d Difficulty, rules ScoringRules) Outcome {
	var out Outcome
	for _, ev := range events {
		switch ev.Kind {
		case KindCollectible:
			gained := ev.Value * rules.Multiplier(p.Combo)
			p.Score += gained
			p.Combo++
			out.Points += gained
			out.Collected++
		case KindObstacle:
			out.Hits++
			p.Combo = 0
			if p.Lives > 0 {
				p.Lives--
				if p.Lives == 0 {
					out.GameOver = true
				}
			}
		}
		if out.GameOver {
			return out
		}
	}

	passive := p.scoreCarry + d.Speed*rules.PointsPerUnit
	whole := math.Floor(passive)
	p.scoreCarry = passive - whole
	p.Score += int(whole)
	out.Points += int(whole)
	return out
}
