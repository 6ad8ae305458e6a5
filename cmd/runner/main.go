// runner is a pseudo-3D lane runner for the terminal, the browser and SSH.
//
// Usage:
//
//	runner play              - Play a run right away
//	runner menu              - Pick lanes, difficulty and theme first
//	runner serve             - Start SSH server for remote play
//	runner web               - Serve the canvas client over websockets
//	runner scores            - Show the leaderboard and run stats
//	runner sim               - Run headless autopilot sessions
//	runner config            - Print the effective configuration
//
// Global flags:
//
//	--fps <rate>           - Set tick rate (default: 60)
//	--seed <value>         - Set RNG seed for reproducible runs
//	--db <path>            - Set database path (default: ~/.lane-runner/scores.db)
//	--config <path>        - Custom runner config YAML
//	--difficulty <preset>  - easy, normal, hard or fixed
//	--lanes <mode>         - classic (3 lanes) or duo (2 lanes)
package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/lane-runner/internal/config"
	"github.com/vovakirdan/lane-runner/internal/identity"
	"github.com/vovakirdan/lane-runner/internal/logging"
	"github.com/vovakirdan/lane-runner/internal/storage"
)

// EnvDB overrides the default database path.
const EnvDB = "RUNNER_DB"

const defaultDBPath = "~/.lane-runner/scores.db"

var (
	// Global flags
	flagFPS        int
	flagSeed       int64
	flagDBPath     string
	flagConfig     string
	flagDifficulty string
	flagLanes      string
	flagTheme      string
	flagUser       string
	flagAnonymous  bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "runner",
	Short: "Lane Runner - dodge and collect on a pseudo-3D road",
	Long: `Lane Runner is an endless runner drawn in perspective. Switch lanes to
dodge obstacles and grab collectibles; the road speeds up as you go.

Available commands:
  play     - Start a run directly
  menu     - Interactive setup menu
  serve    - Start SSH server for remote play
  web      - Serve the browser client
  scores   - View high scores
  sim      - Headless autopilot runs
  config   - Print the effective configuration

Examples:
  runner play
  runner play --lanes duo --difficulty hard
  runner serve --ssh :2222
  runner web --addr :8080
  runner sim --runs 20 --seed 7`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		// .env is optional; values already in the environment win.
		if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load .env: %w", err)
		}
		if !cmd.Flags().Changed("db") {
			if path := os.Getenv(EnvDB); path != "" {
				flagDBPath = path
			}
		}
		return nil
	},
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 60, "Tick rate (ticks per second)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", defaultDBPath, "Path to scores database (or "+EnvDB+")")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to custom runner config YAML")
	rootCmd.PersistentFlags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard, fixed")
	rootCmd.PersistentFlags().StringVar(&flagLanes, "lanes", "", "Lane mode: classic (3) or duo (2)")
	rootCmd.PersistentFlags().StringVar(&flagTheme, "theme", "", "Theme: DAY, TWILIGHT or NIGHT")
	rootCmd.PersistentFlags().StringVar(&flagUser, "user", "", "Player name (default: OS user)")
	rootCmd.PersistentFlags().BoolVar(&flagAnonymous, "anonymous", false, "Play without signing in; scores are not saved")

	// Add subcommands
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(webCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(simCmd)
	rootCmd.AddCommand(configCmd)
}

// loadRunnerConfig loads the config file without applying the CLI overrides.
func loadRunnerConfig() (config.RunnerConfig, error) {
	return config.Load(flagConfig)
}

// effectiveConfig applies --lanes and --difficulty to the loaded config.
func effectiveConfig() (config.RunnerConfig, error) {
	cfg, err := loadRunnerConfig()
	if err != nil {
		return cfg, err
	}
	preset, err := config.ParsePreset(flagDifficulty)
	if err != nil {
		return cfg, err
	}
	if err := config.ApplyLaneMode(&cfg, flagLanes); err != nil {
		return cfg, err
	}
	config.ApplyPreset(&cfg, preset)
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// signIn resolves the local player. Returns nil for anonymous play.
func signIn(cmd *cobra.Command, logger *log.Logger) *identity.UserIdentity {
	if flagAnonymous {
		return nil
	}
	provider := identity.FromOS()
	if flagUser != "" {
		provider = identity.NewLocalProvider(flagUser, "")
	}
	user, err := provider.SignIn(cmd.Context())
	if err != nil {
		logger.Warn("playing anonymously", "err", err)
		return nil
	}
	return &user
}

// openStore opens the score database, or returns nil with a warning so the
// game still works without persistence.
func openStore(logger *log.Logger) *storage.Store {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		logger.Warn("could not open scores database", "path", flagDBPath, "err", err)
		return nil
	}
	return store
}

// newLogger builds the CLI logger.
func newLogger(prefix string) *log.Logger {
	return logging.New(prefix)
}
