package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/lane-runner/internal/core"
)

// RenderScreen converts a Screen buffer to a styled string for display.
// Groups adjacent cells with the same paint to minimize ANSI escape sequences.
func RenderScreen(s *core.Screen, styles map[core.Paint]lipgloss.Style) string {
	var sb strings.Builder
	// Pre-allocate with extra space for ANSI codes
	sb.Grow(s.Width()*s.Height()*2 + s.Height())

	var run strings.Builder
	for y, h := 0, s.Height(); y < h; y++ {
		if y > 0 {
			sb.WriteRune('\n')
		}

		x := 0
		for x < s.Width() {
			start := s.Cell(x, y).Paint

			run.Reset()
			for x < s.Width() {
				cell := s.Cell(x, y)
				if cell.Paint != start {
					break
				}
				run.WriteRune(cell.Rune)
				x++
			}

			style, ok := styles[start]
			if !ok {
				style = styles[core.PaintNone]
			}
			sb.WriteString(style.Render(run.String()))
		}
	}
	return sb.String()
}
