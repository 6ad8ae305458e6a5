// Package web streams lane-runner sessions to browsers over websockets. Each
// connection owns one session: the browser sends intents as JSON and receives
// projected frames it draws on a canvas.
package web

import (
	"github.com/vovakirdan/lane-runner/internal/render"
)

// Client message types.
const (
	MsgHello  = "hello"  // {"type":"hello","name":"ada"} signs in before the first run
	MsgIntent = "intent" // {"type":"intent","intent":"MoveLeft"}
	MsgTheme  = "theme"  // {"type":"theme","theme":"DAY"}; empty cycles
)

// Server message types.
const (
	MsgWelcome = "welcome"
	MsgPalette = "palette"
	MsgFrame   = "frame"
)

// ClientMessage is any message a browser sends.
type ClientMessage struct {
	Type   string `json:"type"`
	Name   string `json:"name,omitempty"`
	Intent string `json:"intent,omitempty"`
	Theme  string `json:"theme,omitempty"`
}

// Welcome is sent once after the upgrade.
type Welcome struct {
	Type         string  `json:"type"`
	Session      string  `json:"session"`
	Player       string  `json:"player,omitempty"`
	CanvasWidth  float64 `json:"canvas_width"`
	CanvasHeight float64 `json:"canvas_height"`
	HorizonY     float64 `json:"horizon_y"`
	TickRate     int     `json:"tick_rate"`
}

// Palette carries the colors of a theme keyed by paint name.
type Palette struct {
	Type     string                   `json:"type"`
	Theme    string                   `json:"theme"`
	Swatches map[string]render.Swatch `json:"swatches"`
}

// NewPalette converts a theme for the wire.
func NewPalette(t render.Theme) Palette {
	swatches := make(map[string]render.Swatch, len(t.Swatches))
	for p, s := range t.Swatches {
		swatches[p.String()] = s
	}
	return Palette{Type: MsgPalette, Theme: t.Name, Swatches: swatches}
}

// Quad is a projected box face in canvas coordinates.
type Quad struct {
	Paint   string  `json:"paint"` // "obstacle", "collectible" or "player"
	Variant string  `json:"variant,omitempty"`
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	W       float64 `json:"w"`
	H       float64 `json:"h"`
	Fog     float64 `json:"fog"` // 0 clear, 1 fully hidden in fog
}

// Line is a projected road line in canvas coordinates.
type Line struct {
	X1 float64 `json:"x1"`
	Y1 float64 `json:"y1"`
	X2 float64 `json:"x2"`
	Y2 float64 `json:"y2"`
}

// Frame is one rendered tick.
type Frame struct {
	Type       string  `json:"type"`
	Session    string  `json:"session"`
	State      string  `json:"state"`
	Tick       uint64  `json:"tick"`
	Score      int     `json:"score"`
	Lives      int     `json:"lives"`
	MaxLives   int     `json:"max_lives"`
	Multiplier int     `json:"multiplier"`
	Speed      float64 `json:"speed"`
	Distance   float64 `json:"distance"`
	Best       int     `json:"best,omitempty"`
	Notice     string  `json:"notice,omitempty"`
	Edges      []Line  `json:"edges"`    // Road edges
	Dividers   []Line  `json:"dividers"` // Lane dividers
	Quads      []Quad  `json:"quads"`    // Far to near; the player is last
}
