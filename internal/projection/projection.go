// Package projection maps 3D world coordinates onto a 2D canvas using a simple
// pinhole perspective. All functions are pure: identical inputs always produce
// identical outputs, which keeps renderer tests independent of any painting.
package projection

import "github.com/vovakirdan/lane-runner/internal/core"

// Epsilon is the smallest perspective divisor that is still projected.
// Points at or behind the camera plane produce no screen position.
const Epsilon = 1e-3

// Reference canvas the default camera is tuned for.
const (
	CanvasWidth  = 600
	CanvasHeight = 900
)

// Camera describes the fixed chase camera.
type Camera struct {
	Height   float64 `yaml:"height"`    // Camera height above the road (world Y)
	Distance float64 `yaml:"distance"`  // Distance from the eye to the depth=0 plane
	FOV      float64 `yaml:"fov"`       // Focal length in canvas pixels
	CenterX  float64 `yaml:"center_x"`  // Canvas X of the vanishing point
	HorizonY float64 `yaml:"horizon_y"` // Canvas Y of the horizon line
}

// DefaultCamera returns the camera used by the reference 600x900 canvas.
func DefaultCamera() Camera {
	return Camera{
		Height:   150,
		Distance: 100,
		FOV:      550,
		CenterX:  CanvasWidth / 2,
		HorizonY: CanvasHeight * 0.30,
	}
}

// Point is a projected canvas position plus the perspective scale at that depth.
type Point struct {
	X, Y  float64
	Scale float64
}

// Project maps a world point to canvas coordinates.
// It returns false when the point lies at or behind the camera plane.
func Project(worldX, worldY, depth float64, cam Camera) (Point, bool) {
	divisor := depth + cam.Distance
	if divisor <= Epsilon {
		return Point{}, false
	}
	scale := cam.FOV / divisor
	return Point{
		X:     cam.CenterX + worldX*scale,
		Y:     cam.HorizonY + (cam.Height-worldY)*scale,
		Scale: scale,
	}, true
}

// Quad is the projected front face of a box: an axis-aligned canvas rectangle.
type Quad struct {
	Left, Top, Right, Bottom float64
	Scale                    float64
}

// Width returns the projected width.
func (q Quad) Width() float64 { return q.Right - q.Left }

// Height returns the projected height.
func (q Quad) Height() float64 { return q.Bottom - q.Top }

// ProjectBox projects the face of a box standing on the road (base at worldY)
// whose nearest edge is at depth. The face is centred on worldX.
func ProjectBox(worldX, worldY, depth float64, size core.Box, cam Camera) (Quad, bool) {
	base, ok := Project(worldX, worldY, depth, cam)
	if !ok {
		return Quad{}, false
	}
	halfW := size.W / 2 * base.Scale
	return Quad{
		Left:   base.X - halfW,
		Right:  base.X + halfW,
		Top:    base.Y - size.H*base.Scale,
		Bottom: base.Y,
		Scale:  base.Scale,
	}, true
}

// Viewport scales canvas coordinates onto a differently sized target, such as
// a terminal measured in cells.
type Viewport struct {
	CanvasW, CanvasH float64
	TargetW, TargetH float64
}

// NewViewport returns a viewport from the reference canvas onto a target of the
// given size.
func NewViewport(targetW, targetH int) Viewport {
	return Viewport{
		CanvasW: CanvasWidth,
		CanvasH: CanvasHeight,
		TargetW: float64(targetW),
		TargetH: float64(targetH),
	}
}

// Map converts a canvas position to target coordinates.
func (v Viewport) Map(x, y float64) (float64, float64) {
	if v.CanvasW == 0 || v.CanvasH == 0 {
		return 0, 0
	}
	return x * v.TargetW / v.CanvasW, y * v.TargetH / v.CanvasH
}

// Unmap converts target coordinates back to the canvas.
func (v Viewport) Unmap(x, y float64) (float64, float64) {
	if v.TargetW == 0 || v.TargetH == 0 {
		return 0, 0
	}
	return x * v.CanvasW / v.TargetW, y * v.CanvasH / v.TargetH
}

// DepthAt inverts Project for a point on the plane at worldY: it returns the
// depth whose projection lands on canvasY. Rows at or above the horizon have
// no depth.
func DepthAt(canvasY, worldY float64, cam Camera) (float64, bool) {
	rise := cam.Height - worldY
	offset := canvasY - cam.HorizonY
	if rise <= 0 || offset <= 0 {
		return 0, false
	}
	scale := offset / rise
	return cam.FOV/scale - cam.Distance, true
}
