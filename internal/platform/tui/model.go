package tui

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/lane-runner/internal/config"
	"github.com/vovakirdan/lane-runner/internal/core"
	"github.com/vovakirdan/lane-runner/internal/identity"
	"github.com/vovakirdan/lane-runner/internal/leaderboard"
	"github.com/vovakirdan/lane-runner/internal/logging"
	"github.com/vovakirdan/lane-runner/internal/render"
	"github.com/vovakirdan/lane-runner/internal/runner"
)

// noticeDuration is how long a HUD notice stays on screen.
const noticeDuration = 3 * time.Second

// Options configures a game model.
type Options struct {
	Config        config.RunnerConfig
	Runtime       core.RuntimeConfig
	Identity      *identity.UserIdentity // nil plays anonymously
	Scores        *leaderboard.Client    // nil disables saving
	Theme         render.Theme
	ScreenshotDir string // Defaults to ~/.lane-runner/screenshots
	Logger        *log.Logger
}

// Model is the Bubble Tea model for one player's runner session.
type Model struct {
	opts        Options
	session     *runner.Session
	painter     *render.Painter
	screen      *core.Screen
	theme       render.Theme
	styles      map[core.Paint]lipgloss.Style
	keys        GameKeyMap
	help        help.Model
	hud         render.HUD
	noticeUntil time.Time
	lastTick    time.Time
	loop        uint64
	log         *log.Logger
	quitting    bool
	backToMenu  bool
}

// NewModel creates a model with an idle session.
func NewModel(opts Options) (Model, error) {
	if opts.Runtime.TickRate <= 0 {
		opts.Runtime.TickRate = core.DefaultConfig().TickRate
	}
	if opts.Theme.Name == "" {
		opts.Theme = render.DefaultTheme()
	}
	logger := logging.OrDiscard(opts.Logger)

	runOpts := runner.Options{
		Config:   opts.Config,
		Seed:     opts.Runtime.Seed,
		TickRate: opts.Runtime.TickRate,
		Identity: opts.Identity,
		Logger:   logger,
	}
	// A typed nil client must not become a non-nil ScoreSink.
	if opts.Scores != nil {
		runOpts.Scores = opts.Scores
	}
	session, err := runner.NewSession(runOpts)
	if err != nil {
		return Model{}, err
	}

	h := help.New()
	m := Model{
		opts:    opts,
		session: session,
		painter: render.NewPainter(opts.Config),
		screen:  core.NewScreen(opts.Runtime.ScreenW, max(opts.Runtime.ScreenH-1, 1)),
		theme:   opts.Theme,
		styles:  opts.Theme.Styles(),
		keys:    DefaultGameKeyMap(),
		help:    h,
		log:     logger,
		loop:    nextLoop(),
	}
	m.hud.Player = displayName(opts.Identity)
	if opts.Scores != nil && opts.Identity != nil {
		m.hud.HighScore, m.hud.HasHighScore = opts.Scores.HighScore(context.Background(), opts.Identity.ID)
	}
	return m, nil
}

// Init starts the tick loop.
func (m Model) Init() tea.Cmd {
	return tickCmd(m.session.TickDuration(), m.loop)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case TickMsg:
		if msg.Loop != m.loop {
			return m, nil
		}
		return m.handleTick(msg.At)
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(msg, m.keys.Screenshot):
		m.saveScreenshot()
		return m, nil
	case key.Matches(msg, m.keys.Theme):
		m.theme = render.NextTheme(m.theme.Name)
		m.styles = m.theme.Styles()
		return m, nil
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	case key.Matches(msg, m.keys.Back):
		if st := m.session.State(); st == runner.StatePaused || st == runner.StateGameOver || st == runner.StateIdle {
			m.backToMenu = true
			return m, tea.Quit
		}
		return m, nil
	}

	if in := m.keys.Intent(msg); in != core.IntentNone {
		m.session.Enqueue(in)
	}
	return m, nil
}

// handleResize keeps the run going; only the screen buffer changes.
func (m Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.opts.Runtime.ScreenW = msg.Width
	m.opts.Runtime.ScreenH = msg.Height
	m.screen.Resize(msg.Width, max(msg.Height-1, 1))
	m.help.Width = msg.Width
	return m, nil
}

// handleTick feeds elapsed wall time to the session and collects
// submission results.
func (m Model) handleTick(now time.Time) (tea.Model, tea.Cmd) {
	dt := m.session.TickDuration()
	if !m.lastTick.IsZero() {
		dt = now.Sub(m.lastTick)
	}
	m.lastTick = now
	m.session.Update(dt)

	if m.opts.Scores != nil {
		if r, ok := m.opts.Scores.Poll(); ok {
			m.showNotice(r.Notice(), now)
			switch {
			case r.Best > 0:
				m.hud.HighScore, m.hud.HasHighScore = r.Best, true
			case r.Status == leaderboard.StatusSaved:
				m.hud.HighScore, m.hud.HasHighScore = r.Score, true
			}
		}
	}
	if !m.noticeUntil.IsZero() && now.After(m.noticeUntil) {
		m.hud.Notice = ""
		m.noticeUntil = time.Time{}
	}

	return m, tickCmd(m.session.TickDuration(), m.loop)
}

func (m *Model) showNotice(text string, now time.Time) {
	m.hud.Notice = text
	m.noticeUntil = now.Add(noticeDuration)
}

// saveScreenshot writes the current frame as plain text.
func (m *Model) saveScreenshot() {
	m.painter.Paint(m.screen, m.session.Snapshot(), m.hud)

	dir := m.opts.ScreenshotDir
	if dir == "" {
		dir = filepath.Join(os.Getenv("HOME"), ".lane-runner", "screenshots")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		m.log.Warn("cannot create screenshot directory", "dir", dir, "err", err)
		return
	}

	timestamp := time.Now().Format("20060102_150405")
	path := filepath.Join(dir, fmt.Sprintf("runner_%s.txt", timestamp))
	if err := os.WriteFile(path, []byte(m.screen.String()), 0o600); err != nil {
		m.log.Warn("cannot save screenshot", "path", path, "err", err)
		return
	}
	m.showNotice("Screenshot saved", time.Now())
}

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	m.painter.Paint(m.screen, m.session.Snapshot(), m.hud)
	return RenderScreen(m.screen, m.styles) + "\n" + m.help.View(m.keys)
}

// Session exposes the underlying session.
func (m Model) Session() *runner.Session {
	return m.session
}

// Theme returns the active theme.
func (m Model) Theme() render.Theme {
	return m.theme
}

// IsQuitting returns true if user requested to quit entirely.
func (m Model) IsQuitting() bool {
	return m.quitting
}

// BackToMenu returns true if user requested to go back to menu.
func (m Model) BackToMenu() bool {
	return m.backToMenu
}

// Run starts a Bubble Tea program for a single session.
// Returns true if the user asked to go back to the menu.
func Run(opts Options) (backToMenu bool, err error) {
	model, err := NewModel(opts)
	if err != nil {
		return false, err
	}

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(), // Use alternate screen buffer
	)

	finalModel, err := p.Run()
	if err != nil {
		return false, err
	}
	m, ok := finalModel.(Model)
	if !ok {
		return false, nil
	}
	return m.BackToMenu(), nil
}

func displayName(id *identity.UserIdentity) string {
	if id == nil {
		return ""
	}
	return id.DisplayName()
}
