package web

import (
	"math"
	"sort"

	"github.com/vovakirdan/lane-runner/internal/config"
	"github.com/vovakirdan/lane-runner/internal/core"
	"github.com/vovakirdan/lane-runner/internal/projection"
	"github.com/vovakirdan/lane-runner/internal/render"
	"github.com/vovakirdan/lane-runner/internal/runner"
)

// BuildFrame projects a snapshot onto the reference canvas.
func BuildFrame(snap runner.Snapshot, cfg config.RunnerConfig, hud render.HUD) Frame {
	f := Frame{
		Type:       MsgFrame,
		Session:    string(snap.SessionID),
		State:      snap.State.String(),
		Tick:       snap.Tick,
		Score:      snap.Player.Score,
		Lives:      snap.Player.Lives,
		MaxLives:   snap.MaxLives,
		Multiplier: snap.Multiplier,
		Speed:      snap.Speed,
		Distance:   snap.Distance,
		Notice:     hud.Notice,
		Edges:      []Line{},
		Dividers:   []Line{},
		Quads:      []Quad{},
	}
	if hud.HasHighScore {
		f.Best = hud.HighScore
	}

	cam := cfg.Camera
	far := cfg.World.RenderDistance
	bounds := laneBounds(snap.Lanes)
	for i, x := range bounds {
		l, ok := roadLine(x, far, cam)
		if !ok {
			continue
		}
		if i == 0 || i == len(bounds)-1 {
			f.Edges = append(f.Edges, l)
		} else {
			f.Dividers = append(f.Dividers, l)
		}
	}

	entities := make([]runner.Entity, 0, len(snap.Entities))
	for _, e := range snap.Entities {
		if e.Consumed || e.Depth < 0 || e.Depth > far {
			continue
		}
		entities = append(entities, e)
	}
	sort.SliceStable(entities, func(i, j int) bool {
		return entities[i].Depth > entities[j].Depth
	})

	for _, e := range entities {
		x := 0.0
		if e.Lane >= 0 && e.Lane < len(snap.Lanes) {
			x = snap.Lanes[e.Lane]
		}
		q, ok := projection.ProjectBox(x, 0, e.Depth, e.Size, cam)
		if !ok {
			continue
		}
		quad := toQuad(q, core.PaintObstacle)
		if e.Kind == runner.KindCollectible {
			quad = toQuad(q, core.PaintCollectible)
			quad.Variant = e.Variant
		}
		quad.Fog = fogAmount(e.Depth, cfg.World)
		f.Quads = append(f.Quads, quad)
	}

	if q, ok := projection.ProjectBox(snap.Player.X, 0, snap.Player.Depth, snap.Player.Size, cam); ok {
		f.Quads = append(f.Quads, toQuad(q, core.PaintPlayer))
	}
	return f
}

func toQuad(q projection.Quad, p core.Paint) Quad {
	return Quad{
		Paint: p.String(),
		X:     q.Left,
		Y:     q.Top,
		W:     q.Width(),
		H:     q.Height(),
	}
}

// fogAmount ramps from 0 at FogStart to 1 at FogEnd.
func fogAmount(depth float64, w config.WorldConfig) float64 {
	if w.FogEnd <= w.FogStart {
		if depth >= w.FogStart {
			return 1
		}
		return 0
	}
	return core.ClampF((depth-w.FogStart)/(w.FogEnd-w.FogStart), 0, 1)
}

// laneBounds returns the world X of the road edges and lane dividers, left
// to right.
func laneBounds(lanes []float64) []float64 {
	if len(lanes) == 0 {
		return nil
	}
	sorted := make([]float64, len(lanes))
	copy(sorted, lanes)
	sort.Float64s(sorted)

	half := 80.0
	if len(sorted) > 1 {
		half = math.Abs(sorted[1]-sorted[0]) / 2
	}
	out := make([]float64, 0, len(sorted)+1)
	out = append(out, sorted[0]-half)
	for i := 1; i < len(sorted); i++ {
		out = append(out, (sorted[i-1]+sorted[i])/2)
	}
	return append(out, sorted[len(sorted)-1]+half)
}

// roadLine projects a line along the road at world X from the camera plane to
// the far depth.
func roadLine(x, far float64, cam projection.Camera) (Line, bool) {
	near, ok := projection.Project(x, 0, 0, cam)
	if !ok {
		return Line{}, false
	}
	end, ok := projection.Project(x, 0, far, cam)
	if !ok {
		return Line{}, false
	}
	return Line{X1: near.X, Y1: near.Y, X2: end.X, Y2: end.Y}, true
}
