package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/lane-runner/internal/storage"
)

var (
	flagLimit int
	flagStats bool
	flagRuns  bool
	flagAll   bool
	flagClear bool
)

var scoresCmd = &cobra.Command{
	Use:   "scores",
	Short: "Show high scores",
	Long: `Display the leaderboard: every player's best score.

With --runs, list your most recent runs instead. With --stats, show totals
over your run history (or everyone's with --all).

Examples:
  runner scores
  runner scores --limit 20
  runner scores --runs --user ada
  runner scores --stats --all`,
	Args: cobra.NoArgs,
	RunE: runScores,
}

func init() {
	scoresCmd.Flags().IntVar(&flagLimit, "limit", storage.DefaultTopN, "Number of rows to show")
	scoresCmd.Flags().BoolVar(&flagStats, "stats", false, "Show aggregate run statistics")
	scoresCmd.Flags().BoolVar(&flagRuns, "runs", false, "Show recent runs")
	scoresCmd.Flags().BoolVar(&flagAll, "all", false, "Cover every player for --runs and --stats")
	scoresCmd.Flags().BoolVar(&flagClear, "clear", false, "Delete the leaderboard (run history is kept)")
}

func runScores(cmd *cobra.Command, _ []string) error {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		return fmt.Errorf("opening scores database: %w", err)
	}
	defer store.Close()

	ctx := cmd.Context()

	userID, name := "", "everyone"
	if !flagAll {
		if user := signIn(cmd, newLogger("runner")); user != nil {
			userID, name = user.ID, user.DisplayName()
		} else if flagRuns || flagStats {
			return fmt.Errorf("no player identity; pass --user or --all")
		}
	}

	switch {
	case flagClear:
		if err := store.ClearScores(ctx); err != nil {
			return err
		}
		fmt.Println("Leaderboard cleared.")
		return nil

	case flagStats:
		stats, err := store.Stats(ctx, userID)
		if err != nil {
			return err
		}
		printStats(name, stats)
		return nil

	case flagRuns:
		runs, err := store.RecentRuns(ctx, userID, flagLimit)
		if err != nil {
			return err
		}
		printRuns(name, runs)
		return nil
	}

	scores, err := store.TopScores(ctx, flagLimit)
	if err != nil {
		return fmt.Errorf("retrieving scores: %w", err)
	}
	printTop(scores, userID)
	return nil
}

func printTop(scores []storage.ScoreRecord, userID string) {
	fmt.Println("High Scores - Lane Runner")
	fmt.Println()

	if len(scores) == 0 {
		fmt.Println("No scores recorded yet.")
		fmt.Println()
		fmt.Println("Play 'runner play' to set the first high score!")
		return
	}

	// Print header
	fmt.Printf("  %-4s  %-16s  %-10s  %s\n", "Rank", "Player", "Score", "Date")
	fmt.Printf("  %-4s  %-16s  %-10s  %s\n", "----", "------", "-----", "----")

	for i, entry := range scores {
		marker := " "
		if entry.UserID == userID {
			marker = "*"
		}
		dateStr := entry.Timestamp.Format("2006-01-02 15:04")
		fmt.Printf("%s %-4d  %-16s  %-10d  %s\n", marker, i+1, entry.Username, entry.Score, dateStr)
	}
}

func printRuns(name string, runs []storage.RunRecord) {
	fmt.Printf("Recent runs - %s\n", name)
	fmt.Println()

	if len(runs) == 0 {
		fmt.Println("No runs recorded yet.")
		return
	}

	fmt.Printf("  %-16s  %-8s  %-10s  %-5s  %-4s  %s\n", "Date", "Score", "Distance", "Loot", "Hits", "Lanes")
	fmt.Printf("  %-16s  %-8s  %-10s  %-5s  %-4s  %s\n", "----", "-----", "--------", "----", "----", "-----")
	for _, r := range runs {
		fmt.Printf("  %-16s  %-8d  %-10.0f  %-5d  %-4d  %d\n",
			r.EndedAt.Format("2006-01-02 15:04"), r.Score, r.Distance, r.Collected, r.Hits, r.Lanes)
	}
}

func printStats(name string, stats *storage.RunStats) {
	fmt.Printf("Run statistics - %s\n", name)
	fmt.Println()

	if stats.Runs == 0 {
		fmt.Println("No runs recorded yet.")
		return
	}

	fmt.Printf("  Runs:            %d\n", stats.Runs)
	fmt.Printf("  Best score:      %d\n", stats.HighScore)
	fmt.Printf("  Average score:   %.1f\n", stats.AvgScore)
	fmt.Printf("  Total distance:  %.0f\n", stats.TotalDistance)
	fmt.Printf("  Last played:     %s\n", stats.LastPlayed.Format("2006-01-02 15:04"))
}

