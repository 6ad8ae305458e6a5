package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/lane-runner/internal/core"
	"github.com/vovakirdan/lane-runner/internal/leaderboard"
	"github.com/vovakirdan/lane-runner/internal/logging"
	"github.com/vovakirdan/lane-runner/internal/platform/tui"
	"github.com/vovakirdan/lane-runner/internal/render"
	"github.com/vovakirdan/lane-runner/internal/storage"
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play a run",
	Long: `Start a run right away in this terminal.

Controls:
  Left/A, Right/D  - Switch lanes
  Enter/Space      - Start
  P/Esc            - Pause / resume
  R                - Restart
  T                - Cycle theme
  Ctrl+S           - Screenshot
  Q/Ctrl+C         - Quit

Difficulty options:
  easy   - Start at the lowest speed, ramps up to max
  normal - Start at 30% of the speed range
  hard   - Start at 70% of the speed range
  fixed  - No ramp, stays at the config's initial speed

Examples:
  runner play
  runner play --lanes duo
  runner play --difficulty hard --theme DAY
  runner play --config ./my-runner.yaml --seed 42`,
	Args: cobra.NoArgs,
	RunE: runPlay,
}

// terminalConfig builds the runtime config from the terminal size and flags.
func terminalConfig() core.RuntimeConfig {
	cfg := core.DefaultConfig()
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		cfg.ScreenW = w
		cfg.ScreenH = h
	}
	cfg.TickRate = flagFPS
	cfg.Seed = flagSeed
	return cfg
}

// tuiLogger writes to ~/.lane-runner/runner.log so log lines never land on
// the alternate screen.
func tuiLogger() (*log.Logger, func()) {
	home, err := os.UserHomeDir()
	if err != nil {
		return logging.Discard(), func() {}
	}
	dir := filepath.Join(home, ".lane-runner")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return logging.Discard(), func() {}
	}
	f, err := os.OpenFile(filepath.Join(dir, "runner.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return logging.Discard(), func() {}
	}
	return logging.NewWithWriter(f, "runner"), func() { f.Close() }
}

// selectedTheme resolves --theme.
func selectedTheme() (render.Theme, error) {
	if flagTheme == "" {
		return render.DefaultTheme(), nil
	}
	t, ok := render.ThemeByName(flagTheme)
	if !ok {
		return t, fmt.Errorf("unknown theme %q (want DAY, TWILIGHT or NIGHT)", flagTheme)
	}
	return t, nil
}

// scoreClient wraps store for submissions, or returns nil without a store.
func scoreClient(store *storage.Store, logger *log.Logger) *leaderboard.Client {
	if store == nil {
		return nil
	}
	return leaderboard.NewClient(store, leaderboard.DefaultTimeout, logger)
}

func runPlay(cmd *cobra.Command, _ []string) error {
	cfg, err := effectiveConfig()
	if err != nil {
		return err
	}
	theme, err := selectedTheme()
	if err != nil {
		return err
	}

	logger, closeLog := tuiLogger()
	defer closeLog()

	store := openStore(newLogger("runner"))
	if store != nil {
		defer store.Close()
	}
	scores := scoreClient(store, logger)

	_, err = tui.Run(tui.Options{
		Config:   cfg,
		Runtime:  terminalConfig(),
		Identity: signIn(cmd, logger),
		Scores:   scores,
		Theme:    theme,
		Logger:   logger,
	})

	// Let an in-flight submission finish before the store closes.
	if scores != nil {
		scores.Wait()
	}
	if err != nil {
		return fmt.Errorf("running game: %w", err)
	}
	return nil
}
