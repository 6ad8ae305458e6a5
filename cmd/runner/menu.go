package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/lane-runner/internal/config"
	"github.com/vovakirdan/lane-runner/internal/platform/tui"
)

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Start with the setup menu",
	Long: `Start in interactive menu mode.

Pick the lane mode, difficulty and theme, then start a run. Press B while
paused or after game over to return to the menu.

Controls:
  Up/Down/j/k     - Navigate menu
  Left/Right      - Change option
  Enter/Space     - Select
  Tab             - High scores
  Q               - Quit

Examples:
  runner menu
  runner menu --fps 30
  runner menu --db ./scores.db`,
	Args: cobra.NoArgs,
	RunE: runMenu,
}

func runMenu(cmd *cobra.Command, _ []string) error {
	base, err := loadRunnerConfig()
	if err != nil {
		return err
	}
	preset, err := config.ParsePreset(flagDifficulty)
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
	user := signIn(cmd, logger)

	var reader tui.ScoreReader
	if store != nil {
		reader = store
	}
	userID := ""
	if user != nil {
		userID = user.ID
	}

	rt := terminalConfig()
	setup := tui.Setup{LaneMode: flagLanes, Preset: preset, Theme: flagTheme}
	if setup.LaneMode == "" {
		setup.LaneMode = base.Lanes.Mode
	}

	// Menu loop
	for {
		res, err := tui.RunMenu(rt, setup)
		if err != nil {
			return err
		}
		rt = res.Config
		setup = res.Setup

		if res.Quit {
			break
		}

		if res.WantsScoreboard {
			goBack, err := tui.RunScoreboard(reader, userID, rt.ScreenW, rt.ScreenH, logger)
			if err != nil {
				return err
			}
			if goBack {
				continue // Back to menu
			}
			break // User quit from scoreboard
		}

		cfg, err := setup.Apply(base)
		if err != nil {
			logger.Warn("run setup rejected", "err", err)
			continue
		}
		back, err := tui.Run(tui.Options{
			Config:   cfg,
			Runtime:  rt,
			Identity: user,
			Scores:   scores,
			Theme:    setup.ThemeOrDefault(),
			Logger:   logger,
		})
		if err != nil {
			return fmt.Errorf("running game: %w", err)
		}
		if !back {
			break
		}
	}

	if scores != nil {
		scores.Wait()
	}
	return nil
}
