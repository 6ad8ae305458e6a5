// Package core provides fundamental types shared by the runner simulation,
// its renderers and the platform layer. It has no external dependencies
// (especially no Bubble Tea) to keep simulation logic pure and testable.
package core

// Box is an axis-aligned 3D extent in world units.
type Box struct {
	W float64 `yaml:"w"` // Lateral extent (world X)
	H float64 `yaml:"h"` // Vertical extent (world Y)
	D float64 `yaml:"d"` // Extent along the depth axis
}

// Span is a closed interval on a single axis.
type Span struct {
	Min, Max float64
}

// SpanAround returns the span of the given width centred on center.
func SpanAround(center, width float64) Span {
	half := width / 2
	return Span{Min: center - half, Max: center + half}
}

// Len returns the length of the span.
func (s Span) Len() float64 {
	return s.Max - s.Min
}

// Overlap returns the length of the intersection of two spans, or 0 if they
// do not intersect.
func (s Span) Overlap(o Span) float64 {
	lo := s.Min
	if o.Min > lo {
		lo = o.Min
	}
	hi := s.Max
	if o.Max < hi {
		hi = o.Max
	}
	if hi <= lo {
		return 0
	}
	return hi - lo
}

// Rect represents an axis-aligned rectangle in screen cells.
type Rect struct {
	X, Y int // Top-left corner position
	W, H int // Width and height
}

// NewRect creates a new rectangle with the given position and dimensions.
func NewRect(x, y, w, h int) Rect {
	return Rect{X: x, Y: y, W: w, H: h}
}

// Right returns the x-coordinate of the right edge (exclusive).
func (r Rect) Right() int {
	return r.X + r.W
}

// Bottom returns the y-coordinate of the bottom edge (exclusive).
func (r Rect) Bottom() int {
	return r.Y + r.H
}

// Empty reports whether the rectangle covers no cells.
func (r Rect) Empty() bool {
	return r.W <= 0 || r.H <= 0
}

// Clip returns the part of r that lies inside a w×h area anchored at the origin.
func (r Rect) Clip(w, h int) Rect {
	x0 := Clamp(r.X, 0, w)
	y0 := Clamp(r.Y, 0, h)
	x1 := Clamp(r.Right(), 0, w)
	y1 := Clamp(r.Bottom(), 0, h)
	return Rect{X: x0, Y: y0, W: x1 - x0, H: y1 - y0}
}

// Clamp restricts a value to be within [min, max].
func Clamp(val, min, max int) int {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}

// ClampF restricts a float64 value to be within [min, max].
func ClampF(val, min, max float64) float64 {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}

// AbsF returns the absolute value of a float64.
func AbsF(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}

// Lerp moves from toward to by factor t (0 = stay, 1 = arrive).
func Lerp(from, to, t float64) float64 {
	return from + (to-from)*t
}
