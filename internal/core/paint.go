package core

// Paint identifies what a screen cell depicts. Renderers choose concrete
// colors per Paint from the active theme, so themes stay opaque to the
// simulation and to the painter.
type Paint uint8

const (
	PaintNone Paint = iota
	PaintSky
	PaintStars
	PaintHorizon
	PaintGround
	PaintRoad
	PaintLaneMarker
	PaintPlayer
	PaintObstacle
	PaintCollectible
	PaintFog
	PaintHUD
	PaintHUDAccent
	PaintNotice
)

var paintNames = [...]string{
	PaintNone:        "none",
	PaintSky:         "sky",
	PaintStars:       "stars",
	PaintHorizon:     "horizon",
	PaintGround:      "ground",
	PaintRoad:        "road",
	PaintLaneMarker:  "lane_marker",
	PaintPlayer:      "player",
	PaintObstacle:    "obstacle",
	PaintCollectible: "collectible",
	PaintFog:         "fog",
	PaintHUD:         "hud",
	PaintHUDAccent:   "hud_accent",
	PaintNotice:      "notice",
}

// String returns the snake_case name used in palettes sent to web clients.
func (p Paint) String() string {
	if int(p) < len(paintNames) {
		return paintNames[p]
	}
	return "unknown"
}
