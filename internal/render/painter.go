// Package render paints runner snapshots into a core.Screen. It projects the
// road and every visible entity through the chase camera and overlays the
// HUD. Painting is read-only: the snapshot is never modified.
package render

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/vovakirdan/lane-runner/internal/config"
	"github.com/vovakirdan/lane-runner/internal/core"
	"github.com/vovakirdan/lane-runner/internal/projection"
	"github.com/vovakirdan/lane-runner/internal/runner"
)

// Glyphs
const (
	GlyphStar       = '.'
	GlyphHorizon    = '─'
	GlyphLaneMarker = '┆'
	GlyphRoadEdge   = '│'
	GlyphObstacle   = '█'
	GlyphPlayer     = '█'
	GlyphPlayerTop  = '▄'
	GlyphFog        = '░'
	GlyphLife       = '♥'
	GlyphLostLife   = '♡'
)

// dashLength is the world length of one lane-marker dash and of one gap.
const dashLength = 100

// collectibleGlyphs maps variant names to their glyph.
var collectibleGlyphs = map[string]rune{
	"GAMEBOY": 'G',
	"BOTTLE":  'b',
	"CAN":     'c',
	"GLASS":   'g',
}

// HUD carries the platform-side values shown over the road.
type HUD struct {
	Player       string // Signed-in name, empty for anonymous
	HighScore    int
	HasHighScore bool
	Notice       string // Transient message such as a save result
}

// Painter renders snapshots with a fixed camera and world configuration.
type Painter struct {
	cam   projection.Camera
	world config.WorldConfig
}

// NewPainter creates a painter for the given configuration.
func NewPainter(cfg config.RunnerConfig) *Painter {
	return &Painter{cam: cfg.Camera, world: cfg.World}
}

// Paint draws snap into dst, replacing its contents.
func (p *Painter) Paint(dst *core.Screen, snap runner.Snapshot, hud HUD) {
	dst.Clear()
	if dst.Width() == 0 || dst.Height() == 0 {
		return
	}
	vp := projection.NewViewport(dst.Width(), dst.Height())

	horizon := p.paintBackdrop(dst, vp)
	p.paintRoad(dst, vp, snap, horizon)
	p.paintEntities(dst, vp, snap)
	p.paintPlayer(dst, vp, snap.Player)
	p.paintHUD(dst, snap, hud)
	p.paintOverlay(dst, snap)
}

// paintBackdrop fills sky, horizon and ground. Returns the horizon row.
func (p *Painter) paintBackdrop(dst *core.Screen, vp projection.Viewport) int {
	_, hy := vp.Map(0, p.cam.HorizonY)
	horizon := core.Clamp(int(hy), 0, dst.Height()-1)

	w := dst.Width()
	dst.FillRect(core.NewRect(0, 0, w, horizon), ' ', core.PaintSky)
	for y := 0; y < horizon; y++ {
		for x := 0; x < w; x++ {
			// Fixed scatter so stars do not flicker between frames.
			if (x*31+y*17)%29 == 0 {
				dst.Set(x, y, GlyphStar, core.PaintStars)
			}
		}
	}
	dst.DrawHLine(0, horizon, w, GlyphHorizon, core.PaintHorizon)
	dst.FillRect(core.NewRect(0, horizon+1, w, dst.Height()-horizon-1), ' ', core.PaintGround)
	return horizon
}

// paintRoad draws the road surface row by row below the horizon, with
// dashed lane markers that scroll with distance and fog in the far rows.
func (p *Painter) paintRoad(dst *core.Screen, vp projection.Viewport, snap runner.Snapshot, horizon int) {
	if len(snap.Lanes) == 0 {
		return
	}
	spacing := laneSpacing(snap.Lanes)
	halfRoad := math.Max(math.Abs(snap.Lanes[0]), math.Abs(snap.Lanes[len(snap.Lanes)-1])) + spacing/2

	markers := make([]float64, 0, len(snap.Lanes)-1)
	for i := 1; i < len(snap.Lanes); i++ {
		markers = append(markers, (snap.Lanes[i-1]+snap.Lanes[i])/2)
	}

	for y := horizon + 1; y < dst.Height(); y++ {
		_, cy := vp.Unmap(0, float64(y)+0.5)
		depth, ok := projection.DepthAt(cy, 0, p.cam)
		if !ok {
			continue
		}

		paint := core.PaintRoad
		if depth >= p.world.FogStart {
			paint = core.PaintFog
		}

		left := p.cellX(vp, -halfRoad, depth)
		right := p.cellX(vp, halfRoad, depth)
		dst.FillRect(core.NewRect(left, y, right-left+1, 1), ' ', paint)
		if depth >= p.world.FogEnd {
			continue
		}

		dst.Set(left, y, GlyphRoadEdge, core.PaintLaneMarker)
		dst.Set(right, y, GlyphRoadEdge, core.PaintLaneMarker)
		if math.Mod(depth+snap.Distance, 2*dashLength) < dashLength {
			for _, mx := range markers {
				dst.Set(p.cellX(vp, mx, depth), y, GlyphLaneMarker, core.PaintLaneMarker)
			}
		}
	}
}

// paintEntities draws entities far to near so nearer ones overlap.
func (p *Painter) paintEntities(dst *core.Screen, vp projection.Viewport, snap runner.Snapshot) {
	entities := make([]runner.Entity, 0, len(snap.Entities))
	for _, e := range snap.Entities {
		if e.Consumed || e.Depth < 0 || e.Depth > p.world.RenderDistance {
			continue
		}
		entities = append(entities, e)
	}
	sort.Slice(entities, func(i, j int) bool {
		return entities[i].Depth > entities[j].Depth
	})

	for _, e := range entities {
		x := 0.0
		if e.Lane >= 0 && e.Lane < len(snap.Lanes) {
			x = snap.Lanes[e.Lane]
		}
		quad, ok := projection.ProjectBox(x, 0, e.Depth, e.Size, p.cam)
		if !ok {
			continue
		}

		glyph, paint := GlyphObstacle, core.PaintObstacle
		if e.Kind == runner.KindCollectible {
			glyph, paint = CollectibleGlyph(e.Variant), core.PaintCollectible
		}
		if e.Depth >= p.world.FogStart {
			paint = core.PaintFog
			if e.Depth >= p.world.FogEnd {
				glyph = GlyphFog
			}
		}
		dst.FillRect(cellRect(vp, quad), glyph, paint)
	}
}

func (p *Painter) paintPlayer(dst *core.Screen, vp projection.Viewport, pl runner.Player) {
	quad, ok := projection.ProjectBox(pl.X, 0, pl.Depth, pl.Size, p.cam)
	if !ok {
		return
	}
	r := cellRect(vp, quad)
	dst.FillRect(r, GlyphPlayer, core.PaintPlayer)
	if r.H > 1 {
		dst.DrawHLine(r.X, r.Y, r.W, GlyphPlayerTop, core.PaintPlayer)
	}
}

// paintHUD draws the status line and the transient notice.
func (p *Painter) paintHUD(dst *core.Screen, snap runner.Snapshot, hud HUD) {
	w := dst.Width()
	dst.DrawHLine(0, 0, w, ' ', core.PaintHUD)

	left := fmt.Sprintf(" SCORE %d  x%d  %s", snap.Player.Score, snap.Multiplier, Lives(snap.Player.Lives, snap.MaxLives))
	dst.DrawText(0, 0, left, core.PaintHUD)

	var right []string
	if hud.HasHighScore {
		right = append(right, fmt.Sprintf("BEST %d", hud.HighScore))
	}
	right = append(right, fmt.Sprintf("SPD %.0f ", snap.Speed))
	rightText := strings.Join(right, "  ")
	dst.DrawText(w-len([]rune(rightText)), 0, rightText, core.PaintHUDAccent)

	if hud.Notice != "" && dst.Height() > 2 {
		dst.DrawTextCentered(2, " "+hud.Notice+" ", core.PaintNotice)
	}
}

// paintOverlay draws the state banner for everything but Running.
func (p *Painter) paintOverlay(dst *core.Screen, snap runner.Snapshot) {
	var title, hint string
	switch snap.State {
	case runner.StateIdle:
		title, hint = "LANE RUNNER", "ENTER to start  |  ←/→ to switch lanes"
	case runner.StatePaused:
		title, hint = "PAUSED", "P to resume  |  R to restart"
	case runner.StateGameOver:
		title = "GAME OVER"
		hint = fmt.Sprintf("Score: %d  |  R to restart", snap.Player.Score)
	default:
		return
	}
	drawCenteredMessage(dst, title, hint)
}

// drawCenteredMessage draws a boxed two-line message in the middle of dst.
func drawCenteredMessage(dst *core.Screen, title, hint string) {
	width := max(len([]rune(title)), len([]rune(hint))) + 4
	width = min(width, dst.Width())
	height := 4
	box := core.NewRect((dst.Width()-width)/2, (dst.Height()-height)/2, width, height)

	dst.DrawBox(box, core.PaintHUD)
	dst.DrawTextCentered(box.Y+1, title, core.PaintHUDAccent)
	dst.DrawTextCentered(box.Y+2, hint, core.PaintHUD)
}

// cellX projects a road point and maps it to a column.
func (p *Painter) cellX(vp projection.Viewport, worldX, depth float64) int {
	pt, _ := projection.Project(worldX, 0, depth, p.cam)
	x, _ := vp.Map(pt.X, pt.Y)
	return int(math.Floor(x))
}

// cellRect converts a canvas quad to the covering cell rectangle, at least
// one cell in size.
func cellRect(vp projection.Viewport, q projection.Quad) core.Rect {
	x0, y0 := vp.Map(q.Left, q.Top)
	x1, y1 := vp.Map(q.Right, q.Bottom)
	left, top := int(math.Floor(x0)), int(math.Floor(y0))
	w := max(1, int(math.Ceil(x1))-left)
	h := max(1, int(math.Ceil(y1))-top)
	return core.NewRect(left, top, w, h)
}

func laneSpacing(lanes []float64) float64 {
	if len(lanes) < 2 {
		return 160
	}
	return math.Abs(lanes[1] - lanes[0])
}

// CollectibleGlyph returns the glyph of a collectible variant.
func CollectibleGlyph(variant string) rune {
	if g, ok := collectibleGlyphs[variant]; ok {
		return g
	}
	return '◆'
}

// Lives renders remaining lives as hearts.
func Lives(lives, maxLives int) string {
	lives = max(lives, 0)
	lost := max(0, maxLives-lives)
	return strings.Repeat(string(GlyphLife), lives) + strings.Repeat(string(GlyphLostLife), lost)
}
