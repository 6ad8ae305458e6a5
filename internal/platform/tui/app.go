package tui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/lane-runner/internal/config"
	"github.com/vovakirdan/lane-runner/internal/core"
	"github.com/vovakirdan/lane-runner/internal/identity"
	"github.com/vovakirdan/lane-runner/internal/leaderboard"
	"github.com/vovakirdan/lane-runner/internal/logging"
)

// AppOptions configures a full menu, game and scoreboard flow.
type AppOptions struct {
	Base          config.RunnerConfig // Config before the menu setup is applied
	Setup         Setup
	Runtime       core.RuntimeConfig
	Identity      *identity.UserIdentity
	Store         ScoreReader         // nil hides scores
	Scores        *leaderboard.Client // nil disables saving
	ScreenshotDir string
	Logger        *log.Logger
}

type appScreen int

const (
	screenMenu appScreen = iota
	screenGame
	screenScores
)

// SessionModel manages the full session flow: menu -> game -> menu.
// It is the top-level model used for SSH connections.
type SessionModel struct {
	opts       AppOptions
	config     core.RuntimeConfig
	setup      Setup
	screen     appScreen
	menu       MenuModel
	game       *Model
	scoreboard *ScoreboardModel
	log        *log.Logger
	quitting   bool
}

// NewSessionModel creates a session model showing the menu.
func NewSessionModel(opts AppOptions) SessionModel {
	return SessionModel{
		opts:   opts,
		config: opts.Runtime,
		setup:  opts.Setup,
		menu:   NewMenuModel(opts.Runtime, opts.Setup),
		log:    logging.OrDiscard(opts.Logger),
	}
}

// Init initializes the session.
func (m SessionModel) Init() tea.Cmd {
	return m.menu.Init()
}

// Update handles messages for the session.
func (m SessionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// Handle window resize globally
	if wsm, ok := msg.(tea.WindowSizeMsg); ok {
		m.config.ScreenW = wsm.Width
		m.config.ScreenH = wsm.Height
	}

	switch m.screen {
	case screenGame:
		return m.updateGame(msg)
	case screenScores:
		return m.updateScores(msg)
	default:
		return m.updateMenu(msg)
	}
}

// updateMenu handles updates when in menu mode.
func (m SessionModel) updateMenu(msg tea.Msg) (tea.Model, tea.Cmd) {
	newMenu, cmd := m.menu.Update(msg)
	if menuModel, ok := newMenu.(MenuModel); ok {
		m.menu = menuModel
	}
	m.setup = m.menu.Setup()

	switch {
	case m.menu.IsQuitting():
		m.quitting = true
		return m, tea.Quit

	case m.menu.WantsScoreboard():
		userID := ""
		if m.opts.Identity != nil {
			userID = m.opts.Identity.ID
		}
		sb := NewScoreboardModel(m.opts.Store, userID, m.config.ScreenW, m.config.ScreenH, m.log)
		m.scoreboard = &sb
		m.screen = screenScores
		return m, sb.Init()

	case m.menu.Started():
		return m.startGame()
	}

	return m, cmd
}

// startGame builds a game model from the current setup.
func (m SessionModel) startGame() (tea.Model, tea.Cmd) {
	cfg, err := m.setup.Apply(m.opts.Base)
	if err != nil {
		m.log.Warn("run setup rejected", "setup", m.setup, "err", err)
		m.menu = NewMenuModel(m.config, m.setup)
		return m, nil
	}

	game, err := NewModel(Options{
		Config:        cfg,
		Runtime:       m.config,
		Identity:      m.opts.Identity,
		Scores:        m.opts.Scores,
		Theme:         m.setup.ThemeOrDefault(),
		ScreenshotDir: m.opts.ScreenshotDir,
		Logger:        m.opts.Logger,
	})
	if err != nil {
		m.log.Warn("cannot create session", "err", err)
		m.menu = NewMenuModel(m.config, m.setup)
		return m, nil
	}

	m.game = &game
	m.screen = screenGame
	return m, m.game.Init()
}

// updateGame handles updates when in game mode.
func (m SessionModel) updateGame(msg tea.Msg) (tea.Model, tea.Cmd) {
	newModel, cmd := m.game.Update(msg)
	if gameModel, ok := newModel.(Model); ok {
		m.game = &gameModel
	}

	if m.game.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}

	if m.game.BackToMenu() {
		m.setup.Theme = m.game.Theme().Name
		m.game = nil
		m.screen = screenMenu
		m.menu = NewMenuModel(m.config, m.setup)
		return m, m.menu.Init()
	}

	return m, cmd
}

// updateScores handles updates when the scoreboard is shown.
func (m SessionModel) updateScores(msg tea.Msg) (tea.Model, tea.Cmd) {
	newModel, cmd := m.scoreboard.Update(msg)
	if sb, ok := newModel.(ScoreboardModel); ok {
		m.scoreboard = &sb
	}

	if m.scoreboard.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}

	if m.scoreboard.IsGoingBack() {
		m.scoreboard = nil
		m.screen = screenMenu
		m.menu = NewMenuModel(m.config, m.setup)
		return m, m.menu.Init()
	}

	return m, cmd
}

// View renders the current view.
func (m SessionModel) View() string {
	if m.quitting {
		return ""
	}

	switch m.screen {
	case screenGame:
		return m.game.View()
	case screenScores:
		return m.scoreboard.View()
	default:
		return m.menu.View()
	}
}
