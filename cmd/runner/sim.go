package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/lane-runner/internal/identity"
	"github.com/vovakirdan/lane-runner/internal/leaderboard"
	"github.com/vovakirdan/lane-runner/internal/runner"
)

const autopilotName = "autopilot"

var (
	flagSimRuns   int
	flagMaxTicks  int
	flagLookahead float64
	flagRecord    bool
)

var simCmd = &cobra.Command{
	Use:   "sim",
	Short: "Run headless autopilot sessions",
	Long: `Play runs without a terminal, steered by a simple autopilot.

Runs are deterministic for a given --seed: run i uses seed+i. Use this to
soak-test a config or to compare difficulty presets.

Examples:
  runner sim
  runner sim --runs 50 --seed 7
  runner sim --difficulty hard --max-ticks 36000
  runner sim --record   # submit results as player "autopilot"`,
	Args: cobra.NoArgs,
	RunE: runSim,
}

func init() {
	simCmd.Flags().IntVar(&flagSimRuns, "runs", 10, "Number of runs")
	simCmd.Flags().IntVar(&flagMaxTicks, "max-ticks", 60*60*5, "Tick cap per run")
	simCmd.Flags().Float64Var(&flagLookahead, "lookahead", 600, "Autopilot lookahead in world units")
	simCmd.Flags().BoolVar(&flagRecord, "record", false, "Save results to the scores database")
}

// simResult summarises one headless run.
type simResult struct {
	Seed     int64
	Ticks    uint64
	Score    int
	Distance float64
	Stats    runner.RunStats
	Capped   bool
}

func runSim(cmd *cobra.Command, _ []string) error {
	cfg, err := effectiveConfig()
	if err != nil {
		return err
	}
	if flagSimRuns < 1 {
		return fmt.Errorf("--runs must be at least 1")
	}

	logger := newLogger("runner-sim")
	opts := runner.Options{
		Config:   cfg,
		Seed:     flagSeed,
		TickRate: flagFPS,
		Logger:   logger,
	}

	var scores *leaderboard.Client
	if flagRecord {
		store := openStore(logger)
		if store == nil {
			return fmt.Errorf("--record needs a scores database")
		}
		defer store.Close()
		scores = leaderboard.NewClient(store, leaderboard.DefaultTimeout, logger)
		opts.Scores = scores

		user, err := identity.NewLocalProvider(autopilotName, "").SignIn(cmd.Context())
		if err != nil {
			return err
		}
		opts.Identity = &user
	}

	session, err := runner.NewSession(opts)
	if err != nil {
		return err
	}

	pilot := runner.NewAutopilot(flagLookahead)
	results := make([]simResult, 0, flagSimRuns)
	for i, n := 0, flagSimRuns; i < n; i++ {
		if i > 0 && !session.Restart() {
			return fmt.Errorf("run %d: cannot restart from %s", i, session.State())
		}
		if i == 0 {
			session.Start()
		}
		results = append(results, simulate(session, pilot, flagMaxTicks))
	}

	if scores != nil {
		scores.Wait()
	}
	printSim(results)
	return nil
}

// simulate plays the current run until game over or the tick cap. A capped
// run is paused so the session can be restarted.
func simulate(s *runner.Session, pilot runner.Autopilot, maxTicks int) simResult {
	for t := 0; t < maxTicks && s.State() == runner.StateRunning; t++ {
		s.Enqueue(pilot.Decide(s.Snapshot()))
		s.Step()
	}

	capped := s.State() == runner.StateRunning
	if capped {
		s.Pause()
	}

	snap := s.Snapshot()
	return simResult{
		Seed:     s.Seed(),
		Ticks:    snap.Tick,
		Score:    snap.Player.Score,
		Distance: snap.Distance,
		Stats:    snap.Stats,
		Capped:   capped,
	}
}

func printSim(results []simResult) {
	fmt.Printf("  %-4s  %-20s  %-7s  %-8s  %-10s  %-5s  %-4s  %-7s  %s\n",
		"Run", "Seed", "Ticks", "Score", "Distance", "Loot", "Hits", "Skipped", "End")

	var total, best int
	for i, r := range results {
		end := "game over"
		if r.Capped {
			end = "capped"
		}
		fmt.Printf("  %-4d  %-20d  %-7d  %-8d  %-10.0f  %-5d  %-4d  %-7d  %s\n",
			i+1, r.Seed, r.Ticks, r.Score, r.Distance, r.Stats.Collected, r.Stats.Hits, r.Stats.Skipped, end)
		total += r.Score
		best = max(best, r.Score)
	}

	fmt.Println()
	fmt.Printf("Runs: %d  Best: %d  Average: %.1f\n", len(results), best, float64(total)/float64(len(results)))
}
