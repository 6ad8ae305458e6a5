package runner

import (
	"math"
	"math/rand"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/lane-runner/internal/config"
	"github.com/vovakirdan/lane-runner/internal/logging"
)

// Spawner decides when and where new entities appear. It never touches the
// world's entity list; MaybeSpawn returns a decision the world applies.
type Spawner struct {
	rng          *rand.Rand
	spawn        config.SpawnConfig
	spawnDepth   float64
	obstacle     config.ObstacleConfig
	collectibles []config.CollectibleConfig
	totalWeight  float64
	countdown    float64
	armed        bool // countdown has been initialised from the first interval
	skipped      int
	log          *log.Logger
}

// NewSpawner creates a spawner whose choices are fully determined by seed.
func NewSpawner(cfg config.RunnerConfig, seed int64, logger *log.Logger) *Spawner {
	total := cfg.Spawn.ObstacleWeight
	for _, c := range cfg.Collectibles {
		total += c.Weight
	}
	return &Spawner{
		rng:          rand.New(rand.NewSource(seed)),
		spawn:        cfg.Spawn,
		spawnDepth:   cfg.World.SpawnDistance,
		obstacle:     cfg.Obstacle,
		collectibles: cfg.Collectibles,
		totalWeight:  total,
		log:          logging.OrDiscard(logger),
	}
}

// Countdown returns the ticks left until the next spawn attempt.
func (s *Spawner) Countdown() float64 {
	return s.countdown
}

// Skipped returns how many spawn attempts ran out of lane retries.
func (s *Spawner) Skipped() int {
	return s.skipped
}

// MaybeSpawn counts down one tick and, when the countdown expires, picks a
// kind and a lane for a new entity. Lanes whose farthest entity is still
// within MinSafeGap of the spawn depth are rerolled up to MaxRetries times;
// after that the attempt is dropped.
func (s *Spawner) MaybeSpawn(w *World, d Difficulty, tick uint64) (Entity, bool) {
	if !s.armed {
		s.countdown = d.SpawnInterval
		s.armed = true
	}

	s.countdown--
	if s.countdown > 0 {
		return Entity{}, false
	}
	s.countdown = s.jittered(d.SpawnInterval)

	e := s.pickKind()
	e.Depth = s.spawnDepth

	lanes := w.Lanes().Len()
	for attempt := 0; attempt < s.spawn.MaxRetries; attempt++ {
		lane := s.rng.Intn(lanes)
		if s.laneClear(w, lane) {
			e.Lane = lane
			return e, true
		}
	}

	s.skipped++
	s.log.Debug("spawn skipped", "tick", tick, "kind", e.Kind, "retries", s.spawn.MaxRetries)
	return Entity{}, false
}

// laneClear reports whether a new entity fits at the spawn depth of lane.
func (s *Spawner) laneClear(w *World, lane int) bool {
	farthest, ok := w.FarthestInLane(lane)
	return !ok || s.spawnDepth-farthest >= s.spawn.MinSafeGap
}

// jittered returns interval scaled by a random factor in [1-j, 1+j].
func (s *Spawner) jittered(interval float64) float64 {
	j := s.spawn.JitterFraction
	if j <= 0 {
		return interval
	}
	factor := 1 + (s.rng.Float64()*2-1)*j
	return math.Max(1, interval*factor)
}

// pickKind chooses an obstacle or a collectible variant by weight.
func (s *Spawner) pickKind() Entity {
	roll := s.rng.Float64() * s.totalWeight
	if roll < s.spawn.ObstacleWeight || len(s.collectibles) == 0 {
		return Entity{Kind: KindObstacle, Size: s.obstacle.Size}
	}
	roll -= s.spawn.ObstacleWeight

	for _, c := range s.collectibles {
		if roll < c.Weight {
			return collectible(c)
		}
		roll -= c.Weight
	}
	// Rounding can leave roll just past the last weight.
	for i := len(s.collectibles) - 1; i >= 0; i-- {
		if s.collectibles[i].Weight > 0 {
			return collectible(s.collectibles[i])
		}
	}
	return Entity{Kind: KindObstacle, Size: s.obstacle.Size}
}

func collectible(c config.CollectibleConfig) Entity {
	return Entity{
		Kind:    KindCollectible,
		Variant: c.Name,
		Value:   c.Score,
		Size:    c.Size,
	}
}
