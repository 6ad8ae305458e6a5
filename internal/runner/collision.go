package runner

import (
	"sort"

	"github.com/vovakirdan/lane-runner/internal/core"
)

// CollisionEvent reports that the player touched an entity this tick.
type CollisionEvent struct {
	EntityID EntityID
	Kind     Kind
	Variant  string
	Value    int
	Lane     int
	Depth    float64
}

// Resolve finds every unconsumed entity overlapping the player in both the
// lane window and the depth window, marks it consumed and returns one event
// per entity ordered by depth, nearest first, then by ID.
//
// An entity in another lane still counts when the player's lateral footprint
// covers more than overlap times the entity's width, so switching lanes
// through an obstacle is not free.
func Resolve(p Player, lanes LaneSet, entities []Entity, overlap float64) []CollisionEvent {
	var events []CollisionEvent
	for i := range entities {
		e := &entities[i]
		if e.Consumed {
			continue
		}
		if !inLaneWindow(p, lanes, *e, overlap) || !inDepthWindow(p, *e) {
			continue
		}
		e.Consumed = true
		events = append(events, CollisionEvent{
			EntityID: e.ID,
			Kind:     e.Kind,
			Variant:  e.Variant,
			Value:    e.Value,
			Lane:     e.Lane,
			Depth:    e.Depth,
		})
	}

	sort.SliceStable(events, func(i, j int) bool {
		if events[i].Depth != events[j].Depth {
			return events[i].Depth < events[j].Depth
		}
		return events[i].EntityID < events[j].EntityID
	})
	return events
}

func inLaneWindow(p Player, lanes LaneSet, e Entity, overlap float64) bool {
	if p.Lane == e.Lane {
		return true
	}
	if e.Size.W <= 0 {
		return false
	}
	player := core.SpanAround(p.X, p.Size.W)
	entity := core.SpanAround(lanes.X(e.Lane), e.Size.W)
	return player.Overlap(entity) > overlap*e.Size.W
}

func inDepthWindow(p Player, e Entity) bool {
	return core.AbsF(e.Depth-p.Depth) < (p.Size.D+e.Size.D)/2
}
