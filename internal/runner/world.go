// Package runner implements the lane-runner simulation: the world model, the
// procedural spawner, collision resolution, scoring and the session state
// machine that drives them at a fixed tick rate.
package runner

import (
	"github.com/vovakirdan/lane-runner/internal/config"
	"github.com/vovakirdan/lane-runner/internal/core"
)

// laneSnap is the lateral distance under which the player snaps onto its lane.
const laneSnap = 0.5

// Kind distinguishes entity types.
type Kind int

const (
	KindObstacle Kind = iota
	KindCollectible
)

// String returns a human-readable name for the kind.
func (k Kind) String() string {
	if k == KindObstacle {
		return "obstacle"
	}
	return "collectible"
}

// EntityID identifies an entity within one world. IDs grow with spawn order.
type EntityID uint64

// Entity is an obstacle or collectible travelling toward the player.
type Entity struct {
	ID       EntityID
	Kind     Kind
	Variant  string // Collectible variant name, empty for obstacles
	Value    int    // Base score of a collectible
	Lane     int
	Depth    float64
	Size     core.Box
	Consumed bool // Set on the tick the entity collides; removed at end of tick
}

// Player is the runner. Depth is fixed; only the lane and lateral X change.
type Player struct {
	Lane  int     // Target lane index
	X     float64 // Current lateral position, lerping toward the lane X
	Depth float64
	Size  core.Box
	Lives int
	Combo int
	Score int

	scoreCarry float64 // Fractional passive score not yet awarded
}

// LaneSet is the ordered list of lane world-X offsets, left to right.
type LaneSet []float64

// Len returns the number of lanes.
func (l LaneSet) Len() int { return len(l) }

// Valid reports whether i is a lane index.
func (l LaneSet) Valid(i int) bool { return i >= 0 && i < len(l) }

// X returns the world X of lane i, clamping out-of-range indexes.
func (l LaneSet) X(i int) float64 {
	return l[core.Clamp(i, 0, len(l)-1)]
}

// Start returns the lane the player starts in: the centre lane, or the right
// of the two middle lanes when the count is even.
func (l LaneSet) Start() int { return len(l) / 2 }

// RunStats counts what happened during a run.
type RunStats struct {
	Spawned   int // Entities appended to the world
	Skipped   int // Spawn attempts dropped after exhausting lane retries
	Collected int // Collectibles picked up
	Hits      int // Obstacles struck
}

// World owns the player, the live entities and the difficulty state of one
// session. Only the session mutates it.
type World struct {
	cfg        config.RunnerConfig
	lanes      LaneSet
	player     Player
	entities   []Entity
	difficulty Difficulty
	nextID     EntityID
	tick       uint64
	stats      RunStats
	events     []CollisionEvent // Collisions of the most recent tick
}

// NewWorld creates a world at the start of a run.
func NewWorld(cfg config.RunnerConfig) *World {
	lanes := LaneSet(cfg.Lanes.Positions())
	start := lanes.Start()
	return &World{
		cfg:   cfg,
		lanes: lanes,
		player: Player{
			Lane:  start,
			X:     lanes.X(start),
			Depth: cfg.Player.Depth,
			Size:  cfg.Player.Size,
			Lives: cfg.Scoring.MaxLives,
		},
		entities:   make([]Entity, 0, 32),
		difficulty: NewDifficulty(cfg),
		nextID:     1,
	}
}

// Lanes returns the lane set.
func (w *World) Lanes() LaneSet { return w.lanes }

// Player returns a copy of the player.
func (w *World) Player() Player { return w.player }

// Difficulty returns the current difficulty state.
func (w *World) Difficulty() Difficulty { return w.difficulty }

// Tick returns the number of simulated ticks.
func (w *World) Tick() uint64 { return w.tick }

// Stats returns the run counters.
func (w *World) Stats() RunStats { return w.stats }

// Entities returns a copy of the live entities.
func (w *World) Entities() []Entity {
	out := make([]Entity, len(w.entities))
	copy(out, w.entities)
	return out
}

// Shift moves the player's target lane by dir (-1 left, +1 right). Moves past
// the outermost lanes are ignored. Returns whether the lane changed.
func (w *World) Shift(dir int) bool {
	next := w.player.Lane + dir
	if !w.lanes.Valid(next) {
		return false
	}
	w.player.Lane = next
	return true
}

// FarthestInLane returns the greatest depth of any live entity in the lane.
func (w *World) FarthestInLane(lane int) (float64, bool) {
	var (
		farthest float64
		found    bool
	)
	for _, e := range w.entities {
		if e.Lane != lane || e.Consumed {
			continue
		}
		if !found || e.Depth > farthest {
			farthest = e.Depth
			found = true
		}
	}
	return farthest, found
}

// add appends a spawned entity, assigning its ID.
func (w *World) add(e Entity) {
	e.ID = w.nextID
	w.nextID++
	w.entities = append(w.entities, e)
	w.stats.Spawned++
}

// steer lerps the player's lateral position toward its target lane.
func (w *World) steer() {
	target := w.lanes.X(w.player.Lane)
	x := core.Lerp(w.player.X, target, w.cfg.Player.LaneSwitchSpeed)
	if core.AbsF(target-x) < laneSnap {
		x = target
	}
	w.player.X = x
}

// advance moves every entity toward the player by the current speed.
func (w *World) advance() {
	speed := w.difficulty.Speed
	for i := range w.entities {
		w.entities[i].Depth -= speed
	}
	w.difficulty.travel(speed)
}

// prune removes consumed entities and entities that passed the camera.
func (w *World) prune() {
	kept := w.entities[:0]
	for _, e := range w.entities {
		if e.Consumed || e.Depth < w.cfg.World.RemovalDepth {
			continue
		}
		kept = append(kept, e)
	}
	w.entities = kept
}
