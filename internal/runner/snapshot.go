package runner

// Snapshot is an immutable copy of a session taken between ticks. Renderers
// and network feeds read snapshots and never the live world.
type Snapshot struct {
	SessionID     SessionID
	State         State
	Tick          uint64
	Lanes         []float64
	Player        Player
	Entities      []Entity
	Events        []CollisionEvent // Collisions of the last simulated tick
	Speed         float64
	SpawnInterval float64
	Distance      float64
	Level         float64
	Multiplier    int
	MaxLives      int
	Stats         RunStats
	Last          Outcome
}

// Snapshot copies the current session state.
func (s *Session) Snapshot() Snapshot {
	w := s.world
	lanes := make([]float64, len(w.lanes))
	copy(lanes, w.lanes)
	events := make([]CollisionEvent, len(w.events))
	copy(events, w.events)

	return Snapshot{
		SessionID:     s.id,
		State:         s.state,
		Tick:          w.tick,
		Lanes:         lanes,
		Player:        w.player,
		Entities:      w.Entities(),
		Events:        events,
		Speed:         w.difficulty.Speed,
		SpawnInterval: w.difficulty.SpawnInterval,
		Distance:      w.difficulty.Distance,
		Level:         w.difficulty.Level(),
		Multiplier:    s.rules.Multiplier(w.player.Combo),
		MaxLives:      s.rules.MaxLives,
		Stats:         w.stats,
		Last:          s.last,
	}
}
