package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/lane-runner/internal/config"
	"github.com/vovakirdan/lane-runner/internal/core"
	"github.com/vovakirdan/lane-runner/internal/render"
)

func pressMenu(m MenuModel, msgs ...tea.KeyMsg) (MenuModel, tea.Cmd) {
	var cmd tea.Cmd
	for _, msg := range msgs {
		var next tea.Model
		next, cmd = m.Update(msg)
		m = next.(MenuModel)
	}
	return m, cmd
}

var (
	keyDown  = tea.KeyMsg{Type: tea.KeyDown}
	keyUp    = tea.KeyMsg{Type: tea.KeyUp}
	keyRight = tea.KeyMsg{Type: tea.KeyRight}
	keyLeft  = tea.KeyMsg{Type: tea.KeyLeft}
	keyEnter = tea.KeyMsg{Type: tea.KeyEnter}
	keyTab   = tea.KeyMsg{Type: tea.KeyTab}
)

func TestMenuDefaults(t *testing.T) {
	m := NewMenuModel(core.DefaultConfig(), Setup{})

	got := m.Setup()
	if got.LaneMode != config.LaneModeClassic {
		t.Errorf("lane mode = %q, want classic", got.LaneMode)
	}
	if got.Theme != render.DefaultTheme().Name {
		t.Errorf("theme = %q, want %q", got.Theme, render.DefaultTheme().Name)
	}
	if got.Preset != "" {
		t.Errorf("preset = %q, want empty", got.Preset)
	}
}

func TestMenuCyclesOptions(t *testing.T) {
	m := NewMenuModel(core.DefaultConfig(), Setup{})

	m, _ = pressMenu(m, keyDown, keyRight)
	if m.Setup().LaneMode != config.LaneModeDuo {
		t.Errorf("lane mode = %q, want duo", m.Setup().LaneMode)
	}
	m, _ = pressMenu(m, keyRight)
	if m.Setup().LaneMode != config.LaneModeClassic {
		t.Errorf("lane mode should wrap back to classic, got %q", m.Setup().LaneMode)
	}

	m, _ = pressMenu(m, keyDown, keyLeft)
	if m.Setup().Preset != config.DifficultyFixed {
		t.Errorf("preset = %q, want fixed after wrapping left", m.Setup().Preset)
	}

	m, _ = pressMenu(m, keyDown, keyEnter)
	want := render.NextTheme(render.DefaultTheme().Name).Name
	if m.Setup().Theme != want {
		t.Errorf("theme = %q, want %q", m.Setup().Theme, want)
	}
	if m.Started() {
		t.Error("enter on an option row must not start a run")
	}
}

func TestMenuActions(t *testing.T) {
	tests := []struct {
		name       string
		keys       []tea.KeyMsg
		started    bool
		scoreboard bool
		quitting   bool
	}{
		{"start", []tea.KeyMsg{keyEnter}, true, false, false},
		{"tab opens scores", []tea.KeyMsg{keyTab}, false, true, false},
		{"scores row", []tea.KeyMsg{keyDown, keyDown, keyDown, keyDown, keyEnter}, false, true, false},
		{"quit row", []tea.KeyMsg{keyDown, keyDown, keyDown, keyDown, keyDown, keyEnter}, false, false, true},
		{"q quits", []tea.KeyMsg{runes("q")}, false, false, true},
		{"cursor stops at top", []tea.KeyMsg{keyUp, keyUp, keyEnter}, true, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, cmd := pressMenu(NewMenuModel(core.DefaultConfig(), Setup{}), tt.keys...)
			if m.Started() != tt.started {
				t.Errorf("Started() = %v, want %v", m.Started(), tt.started)
			}
			if m.WantsScoreboard() != tt.scoreboard {
				t.Errorf("WantsScoreboard() = %v, want %v", m.WantsScoreboard(), tt.scoreboard)
			}
			if m.IsQuitting() != tt.quitting {
				t.Errorf("IsQuitting() = %v, want %v", m.IsQuitting(), tt.quitting)
			}
			if cmd == nil {
				t.Error("expected the menu to exit")
			}
		})
	}
}

func TestSetupApply(t *testing.T) {
	base := config.DefaultRunnerConfig()

	cfg, err := Setup{LaneMode: config.LaneModeDuo, Preset: config.DifficultyFixed}.Apply(base)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if len(cfg.Lanes.Positions()) != 2 {
		t.Errorf("lanes = %v, want 2", cfg.Lanes.Positions())
	}
	if cfg.Speed.Increment != 0 {
		t.Errorf("fixed preset should freeze speed, increment = %v", cfg.Speed.Increment)
	}
	if base.Speed.Increment == 0 {
		t.Error("Apply must not modify the base config")
	}

	if _, err := (Setup{LaneMode: "five"}).Apply(base); err == nil {
		t.Error("expected error for unknown lane mode")
	}
}

func TestCenterText(t *testing.T) {
	if got := centerText("ab", 6); got != "  ab" {
		t.Errorf("centerText = %q", got)
	}
	if got := centerText("abcdef", 4); got != "abcdef" {
		t.Errorf("centerText should not truncate, got %q", got)
	}
}
