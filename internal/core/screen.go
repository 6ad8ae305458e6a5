package core

import (
	"strings"
)

// Cell is a single screen position: the glyph and what it depicts.
type Cell struct {
	Rune  rune
	Paint Paint
}

// blank is the cleared state of a cell.
var blank = Cell{Rune: ' ', Paint: PaintNone}

// Screen is a 2D cell buffer that painters draw projected geometry into.
// It decouples painting from the terminal, the platform layer turns cells into
// styled output.
type Screen struct {
	width  int
	height int
	cells  []Cell
}

// NewScreen creates a new screen buffer with the given dimensions.
func NewScreen(width, height int) *Screen {
	s := &Screen{}
	s.Resize(width, height)
	return s
}

// Width returns the screen width in cells.
func (s *Screen) Width() int {
	return s.width
}

// Height returns the screen height in cells.
func (s *Screen) Height() int {
	return s.height
}

// Resize changes the screen dimensions and clears it.
func (s *Screen) Resize(width, height int) {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	s.width = width
	s.height = height
	s.cells = make([]Cell, width*height)
	s.Clear()
}

// Clear fills the entire screen with blank cells.
func (s *Screen) Clear() {
	for i := range s.cells {
		s.cells[i] = blank
	}
}

// Set places a rune at the given position.
// Out-of-bounds coordinates are silently ignored.
func (s *Screen) Set(x, y int, r rune, p Paint) {
	if x < 0 || x >= s.width || y < 0 || y >= s.height {
		return
	}
	s.cells[y*s.width+x] = Cell{Rune: r, Paint: p}
}

// Cell returns the cell at the given position, or a blank cell when out of bounds.
func (s *Screen) Cell(x, y int) Cell {
	if x < 0 || x >= s.width || y < 0 || y >= s.height {
		return blank
	}
	return s.cells[y*s.width+x]
}

// Get returns the rune at the given position.
func (s *Screen) Get(x, y int) rune {
	return s.Cell(x, y).Rune
}

// FillRect fills a rectangular area, clipped to the screen.
func (s *Screen) FillRect(r Rect, fill rune, p Paint) {
	r = r.Clip(s.width, s.height)
	for y := r.Y; y < r.Bottom(); y++ {
		row := s.cells[y*s.width : (y+1)*s.width]
		for x := r.X; x < r.Right(); x++ {
			row[x] = Cell{Rune: fill, Paint: p}
		}
	}
}

// DrawHLine draws a horizontal line from (x, y) with the given length.
func (s *Screen) DrawHLine(x, y, length int, r rune, p Paint) {
	for i := 0; i < length; i++ {
		s.Set(x+i, y, r, p)
	}
}

// DrawText writes a string horizontally starting at (x, y).
// Characters that extend beyond screen bounds are clipped.
func (s *Screen) DrawText(x, y int, text string, p Paint) {
	i := 0
	for _, r := range text {
		s.Set(x+i, y, r, p)
		i++
	}
}

// DrawTextCentered draws text centered horizontally at the given y position.
func (s *Screen) DrawTextCentered(y int, text string, p Paint) {
	x := (s.width - len([]rune(text))) / 2
	s.DrawText(x, y, text, p)
}

// DrawBox draws a filled box with a box-drawing outline.
func (s *Screen) DrawBox(r Rect, p Paint) {
	if r.W < 2 || r.H < 2 {
		return
	}
	s.FillRect(r, ' ', p)

	s.Set(r.X, r.Y, '┌', p)
	s.Set(r.Right()-1, r.Y, '┐', p)
	s.Set(r.X, r.Bottom()-1, '└', p)
	s.Set(r.Right()-1, r.Bottom()-1, '┘', p)

	for x := r.X + 1; x < r.Right()-1; x++ {
		s.Set(x, r.Y, '─', p)
		s.Set(x, r.Bottom()-1, '─', p)
	}
	for y := r.Y + 1; y < r.Bottom()-1; y++ {
		s.Set(r.X, y, '│', p)
		s.Set(r.Right()-1, y, '│', p)
	}
}

// Row returns the glyphs of the specified row as a string.
func (s *Screen) Row(y int) string {
	if y < 0 || y >= s.height {
		return strings.Repeat(" ", s.width)
	}
	var sb strings.Builder
	for _, c := range s.cells[y*s.width : (y+1)*s.width] {
		sb.WriteRune(c.Rune)
	}
	return sb.String()
}

// String converts the screen buffer to plain text, rows joined with newlines.
// Used for screenshots and tests; the platform renders styled output itself.
func (s *Screen) String() string {
	var sb strings.Builder
	sb.Grow(s.width*s.height + s.height)

	for y := 0; y < s.height; y++ {
		if y > 0 {
			sb.WriteRune('\n')
		}
		sb.WriteString(s.Row(y))
	}
	return sb.String()
}
