package render

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/lane-runner/internal/core"
)

// Swatch is the foreground and background color of one Paint, as hex.
// An empty color leaves the terminal default.
type Swatch struct {
	Fg string `json:"fg,omitempty"`
	Bg string `json:"bg,omitempty"`
}

// Theme is a named palette. The simulation never sees it; painters tag cells
// with a core.Paint and the platform resolves colors here.
type Theme struct {
	Name     string
	Swatches map[core.Paint]Swatch
}

// Theme names.
const (
	ThemeDay      = "DAY"
	ThemeTwilight = "TWILIGHT"
	ThemeNight    = "NIGHT"
)

var themes = []Theme{
	{
		Name: ThemeDay,
		Swatches: map[core.Paint]Swatch{
			core.PaintSky:         {Bg: "#38bdf8"},
			core.PaintStars:       {Fg: "#38bdf8", Bg: "#38bdf8"}, // no stars by day
			core.PaintHorizon:     {Fg: "#e0f2fe", Bg: "#bae6fd"},
			core.PaintGround:      {Bg: "#475569"},
			core.PaintRoad:        {Fg: "#475569", Bg: "#334155"},
			core.PaintLaneMarker:  {Fg: "#60a5fa", Bg: "#334155"},
			core.PaintPlayer:      {Fg: "#f8fafc", Bg: "#334155"},
			core.PaintObstacle:    {Fg: "#ef4444", Bg: "#334155"},
			core.PaintCollectible: {Fg: "#facc15", Bg: "#334155"},
			core.PaintFog:         {Fg: "#e0f2fe", Bg: "#bae6fd"},
			core.PaintHUD:         {Fg: "#0f172a", Bg: "#e0f2fe"},
			core.PaintHUDAccent:   {Fg: "#1d4ed8", Bg: "#e0f2fe"},
			core.PaintNotice:      {Fg: "#0f172a", Bg: "#93c5fd"},
		},
	},
	{
		Name: ThemeTwilight,
		Swatches: map[core.Paint]Swatch{
			core.PaintSky:         {Bg: "#1e1b4b"},
			core.PaintStars:       {Fg: "#c026d3", Bg: "#1e1b4b"},
			core.PaintHorizon:     {Fg: "#f97316", Bg: "#c026d3"},
			core.PaintGround:      {Bg: "#1e293b"},
			core.PaintRoad:        {Fg: "#334155", Bg: "#1e293b"},
			core.PaintLaneMarker:  {Fg: "#c084fc", Bg: "#1e293b"},
			core.PaintPlayer:      {Fg: "#fbbf24", Bg: "#1e293b"},
			core.PaintObstacle:    {Fg: "#f43f5e", Bg: "#1e293b"},
			core.PaintCollectible: {Fg: "#e879f9", Bg: "#1e293b"},
			core.PaintFog:         {Fg: "#f97316", Bg: "#1e293b"},
			core.PaintHUD:         {Fg: "#f8fafc", Bg: "#0f172a"},
			core.PaintHUDAccent:   {Fg: "#e879f9", Bg: "#0f172a"},
			core.PaintNotice:      {Fg: "#0f172a", Bg: "#fbbf24"},
		},
	},
	{
		Name: ThemeNight,
		Swatches: map[core.Paint]Swatch{
			core.PaintSky:         {Bg: "#020617"},
			core.PaintStars:       {Fg: "#f8fafc", Bg: "#020617"},
			core.PaintHorizon:     {Fg: "#d8b4fe", Bg: "#4c1d95"},
			core.PaintGround:      {Bg: "#0f0f10"},
			core.PaintRoad:        {Fg: "#222222", Bg: "#1a1a1a"},
			core.PaintLaneMarker:  {Fg: "#a855f7", Bg: "#1a1a1a"},
			core.PaintPlayer:      {Fg: "#22d3ee", Bg: "#1a1a1a"},
			core.PaintObstacle:    {Fg: "#f87171", Bg: "#1a1a1a"},
			core.PaintCollectible: {Fg: "#fbbf24", Bg: "#1a1a1a"},
			core.PaintFog:         {Fg: "#4c1d95", Bg: "#1a1a1a"},
			core.PaintHUD:         {Fg: "#e2e8f0", Bg: "#0f172a"},
			core.PaintHUDAccent:   {Fg: "#d8b4fe", Bg: "#0f172a"},
			core.PaintNotice:      {Fg: "#020617", Bg: "#d8b4fe"},
		},
	},
}

// Themes returns the built-in themes in cycle order.
func Themes() []Theme {
	out := make([]Theme, len(themes))
	copy(out, themes)
	return out
}

// DefaultTheme returns the NIGHT theme.
func DefaultTheme() Theme {
	return themes[2]
}

// ThemeByName looks a theme up, ignoring case.
func ThemeByName(name string) (Theme, bool) {
	for _, t := range themes {
		if strings.EqualFold(t.Name, name) {
			return t, true
		}
	}
	return Theme{}, false
}

// NextTheme returns the theme after name in cycle order.
func NextTheme(name string) Theme {
	for i, t := range themes {
		if t.Name == name {
			return themes[(i+1)%len(themes)]
		}
	}
	return themes[0]
}

// Swatch returns the colors of a paint; unknown paints get the default.
func (t Theme) Swatch(p core.Paint) Swatch {
	return t.Swatches[p]
}

// Styles builds the lipgloss style of every paint in the theme.
func (t Theme) Styles() map[core.Paint]lipgloss.Style {
	styles := make(map[core.Paint]lipgloss.Style, len(t.Swatches)+1)
	styles[core.PaintNone] = lipgloss.NewStyle()
	for p, sw := range t.Swatches {
		style := lipgloss.NewStyle()
		if sw.Fg != "" {
			style = style.Foreground(lipgloss.Color(sw.Fg))
		}
		if sw.Bg != "" {
			style = style.Background(lipgloss.Color(sw.Bg))
		}
		if p == core.PaintHUDAccent || p == core.PaintNotice {
			style = style.Bold(true)
		}
		styles[p] = style
	}
	return styles
}
