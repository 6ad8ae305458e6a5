package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/lane-runner/internal/config"
	"github.com/vovakirdan/lane-runner/internal/core"
	"github.com/vovakirdan/lane-runner/internal/render"
)

// Setup holds the run options chosen in the menu.
type Setup struct {
	LaneMode string                  // config.LaneModeClassic or config.LaneModeDuo
	Preset   config.DifficultyPreset // Empty keeps the configured ramps
	Theme    string
}

// Apply returns base adjusted for the setup.
func (s Setup) Apply(base config.RunnerConfig) (config.RunnerConfig, error) {
	cfg := base
	if err := config.ApplyLaneMode(&cfg, s.LaneMode); err != nil {
		return base, err
	}
	config.ApplyPreset(&cfg, s.Preset)
	if err := cfg.Validate(); err != nil {
		return base, err
	}
	return cfg, nil
}

// ThemeOrDefault resolves the setup theme name.
func (s Setup) ThemeOrDefault() render.Theme {
	if t, ok := render.ThemeByName(s.Theme); ok {
		return t
	}
	return render.DefaultTheme()
}

var (
	laneModes = []string{config.LaneModeClassic, config.LaneModeDuo}
	presets   = []config.DifficultyPreset{"", config.DifficultyEasy, config.DifficultyNormal, config.DifficultyHard, config.DifficultyFixed}
)

// Menu rows, top to bottom.
const (
	rowStart = iota
	rowLanes
	rowDifficulty
	rowTheme
	rowScores
	rowQuit
	rowCount
)

// MenuModel is the Bubble Tea model for the run setup menu.
type MenuModel struct {
	setup          Setup
	cursor         int
	width          int
	height         int
	config         core.RuntimeConfig
	quitting       bool
	started        bool
	openScoreboard bool
}

// NewMenuModel creates a menu preset to setup.
func NewMenuModel(cfg core.RuntimeConfig, setup Setup) MenuModel {
	if setup.LaneMode == "" {
		setup.LaneMode = config.LaneModeClassic
	}
	setup.Theme = setup.ThemeOrDefault().Name

	return MenuModel{
		setup:  setup,
		width:  cfg.ScreenW,
		height: cfg.ScreenH,
		config: cfg,
	}
}

// Init initializes the menu model.
func (m MenuModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the menu.
func (m MenuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height
		return m, nil
	}

	return m, nil
}

// handleKey processes keyboard input for menu navigation.
func (m MenuModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch MapKeyToMenuAction(msg) {
	case MenuActionQuit:
		m.quitting = true
		return m, tea.Quit

	case MenuActionUp:
		if m.cursor > 0 {
			m.cursor--
		}

	case MenuActionDown:
		if m.cursor < rowCount-1 {
			m.cursor++
		}

	case MenuActionLeft:
		m.cycle(-1)

	case MenuActionRight:
		m.cycle(1)

	case MenuActionSelect:
		switch m.cursor {
		case rowStart:
			m.started = true
			return m, tea.Quit
		case rowScores:
			m.openScoreboard = true
			return m, tea.Quit
		case rowQuit:
			m.quitting = true
			return m, tea.Quit
		default:
			m.cycle(1)
		}

	case MenuActionScoreboard:
		m.openScoreboard = true
		return m, tea.Quit
	}

	return m, nil
}

// cycle steps the option under the cursor.
func (m *MenuModel) cycle(dir int) {
	switch m.cursor {
	case rowLanes:
		i := indexOf(laneModes, m.setup.LaneMode)
		m.setup.LaneMode = laneModes[wrap(i+dir, len(laneModes))]
	case rowDifficulty:
		i := indexOf(presets, m.setup.Preset)
		m.setup.Preset = presets[wrap(i+dir, len(presets))]
	case rowTheme:
		themes := render.Themes()
		i := 0
		for j, t := range themes {
			if t.Name == m.setup.Theme {
				i = j
			}
		}
		m.setup.Theme = themes[wrap(i+dir, len(themes))].Name
	}
}

// View renders the menu.
func (m MenuModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(centerText("  L A N E   R U N N E R  ", m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText("Dodge the blocks, grab the loot", m.width))
	b.WriteString("\n\n")

	preset := string(m.setup.Preset)
	if preset == "" {
		preset = "default"
	}
	lanes := "3 lanes"
	if m.setup.LaneMode == config.LaneModeDuo {
		lanes = "2 lanes"
	}

	rows := [rowCount]string{
		rowStart:      "Start run",
		rowLanes:      fmt.Sprintf("Lanes:      < %s >", lanes),
		rowDifficulty: fmt.Sprintf("Difficulty: < %s >", preset),
		rowTheme:      fmt.Sprintf("Theme:      < %s >", m.setup.Theme),
		rowScores:     "High scores",
		rowQuit:       "Quit",
	}
	for i, row := range rows {
		cursor := "  "
		if i == m.cursor {
			cursor = "> "
		}
		b.WriteString(centerText(cursor+row, m.width))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	controls := "Up/Down: Navigate  |  Left/Right: Change  |  Enter: Select  |  Tab: Scores  |  Q: Quit"
	b.WriteString(centerText(controls, m.width))
	b.WriteString("\n")

	return b.String()
}

// Setup returns the options chosen so far.
func (m MenuModel) Setup() Setup {
	return m.setup
}

// Started returns true once the user chose to start a run.
func (m MenuModel) Started() bool {
	return m.started
}

// IsQuitting returns true if user requested to quit.
func (m MenuModel) IsQuitting() bool {
	return m.quitting
}

// WantsScoreboard returns true if user requested scoreboard.
func (m MenuModel) WantsScoreboard() bool {
	return m.openScoreboard
}

// Config returns the current runtime config (may have been updated by resize).
func (m MenuModel) Config() core.RuntimeConfig {
	return m.config
}

// centerText centers text within given width.
func centerText(text string, width int) string {
	n := len([]rune(text))
	if n >= width {
		return text
	}
	padding := (width - n) / 2
	return strings.Repeat(" ", padding) + text
}

func indexOf[T comparable](items []T, v T) int {
	for i, it := range items {
		if it == v {
			return i
		}
	}
	return 0
}

func wrap(i, n int) int {
	return ((i % n) + n) % n
}

// MenuResult holds the result of running the menu.
type MenuResult struct {
	Setup           Setup
	Config          core.RuntimeConfig
	Start           bool
	WantsScoreboard bool
	Quit            bool
}

// RunMenu runs the menu and returns the selection result.
func RunMenu(cfg core.RuntimeConfig, setup Setup) (MenuResult, error) {
	model := NewMenuModel(cfg, setup)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	finalModel, err := p.Run()
	if err != nil {
		return MenuResult{Setup: setup, Config: cfg}, err
	}

	m, ok := finalModel.(MenuModel)
	if !ok {
		return MenuResult{Setup: setup, Config: cfg, Quit: true}, nil
	}

	result := MenuResult{
		Setup:  m.Setup(),
		Config: m.Config(),
	}

	switch {
	case m.WantsScoreboard():
		result.WantsScoreboard = true
	case m.Started():
		result.Start = true
	default:
		result.Quit = true
	}

	return result, nil
}
