package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStoreOpenClose(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "nested", "dir", "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created")
	}
}

func TestSubmitScoreIfHigher(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)

	steps := []struct {
		score    int
		expected bool
		best     int
	}{
		{120, true, 120},  // first score always saved
		{80, false, 120},  // lower ignored
		{120, false, 120}, // equal ignored
		{300, true, 300},
	}

	for i, step := range steps {
		saved, err := store.SubmitScoreIfHigher(ctx, "u1", "ada", step.score)
		if err != nil {
			t.Fatalf("step %d: SubmitScoreIfHigher() failed: %v", i, err)
		}
		if saved != step.expected {
			t.Errorf("step %d: saved=%v, expected %v", i, saved, step.expected)
		}
		best, ok, err := store.UserHighScore(ctx, "u1")
		if err != nil || !ok {
			t.Fatalf("step %d: UserHighScore() = %d, %v, %v", i, best, ok, err)
		}
		if best != step.best {
			t.Errorf("step %d: best = %d, expected %d", i, best, step.best)
		}
	}
}

func TestSubmitScoreRequiresUser(t *testing.T) {
	store := openTestStore(t)

	saved, err := store.SubmitScoreIfHigher(context.Background(), "", "nobody", 10)
	if !errors.Is(err, ErrNoUser) || saved {
		t.Errorf("SubmitScoreIfHigher() without user = %v, %v; expected false, ErrNoUser", saved, err)
	}
}

func TestConcurrentSubmissionsKeepMax(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)

	var wg sync.WaitGroup
	for i := 1; i <= 50; i++ {
		wg.Add(1)
		go func(score int) {
			defer wg.Done()
			if _, err := store.SubmitScoreIfHigher(ctx, "u1", "ada", score); err != nil {
				t.Errorf("SubmitScoreIfHigher(%d) failed: %v", score, err)
			}
		}(i * 10)
	}
	wg.Wait()

	best, _, err := store.UserHighScore(ctx, "u1")
	if err != nil {
		t.Fatal(err)
	}
	if best != 500 {
		t.Errorf("best = %d after concurrent submissions, expected 500", best)
	}
}

func TestTopScores(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)

	for i := 0; i < 15; i++ {
		id := fmt.Sprintf("u%02d", i)
		if _, err := store.SubmitScoreIfHigher(ctx, id, "player-"+id, i*100); err != nil {
			t.Fatal(err)
		}
	}

	top, err := store.TopScores(ctx, 0)
	if err != nil {
		t.Fatalf("TopScores() failed: %v", err)
	}
	if len(top) != DefaultTopN {
		t.Fatalf("TopScores(0) returned %d rows, expected %d", len(top), DefaultTopN)
	}
	for i := 1; i < len(top); i++ {
		if top[i].Score > top[i-1].Score {
			t.Errorf("rows %d and %d out of order: %d > %d", i-1, i, top[i].Score, top[i-1].Score)
		}
	}
	if top[0].UserID != "u14" || top[0].Username != "player-u14" || top[0].Score != 1400 {
		t.Errorf("top row = %+v", top[0])
	}
	if time.Since(top[0].Timestamp) > time.Minute {
		t.Errorf("timestamp %v should be recent", top[0].Timestamp)
	}

	three, err := store.TopScores(ctx, 3)
	if err != nil || len(three) != 3 {
		t.Errorf("TopScores(3) = %d rows, %v", len(three), err)
	}
}

func TestUserHighScoreMissing(t *testing.T) {
	_, ok, err := openTestStore(t).UserHighScore(context.Background(), "ghost")
	if err != nil || ok {
		t.Errorf("UserHighScore(ghost) = %v, %v; expected false, nil", ok, err)
	}
}

func TestRunHistory(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)
	base := time.UnixMilli(1_700_000_000_000)

	runs := []RunRecord{
		{SessionID: "s1", UserID: "u1", Username: "ada", Score: 100, Distance: 1000, Lanes: 3, EndedAt: base},
		{SessionID: "s2", UserID: "u2", Username: "bob", Score: 300, Distance: 2500, Lanes: 2, EndedAt: base.Add(time.Minute)},
		{SessionID: "s3", UserID: "u1", Username: "ada", Score: 200, Distance: 1800, Lanes: 3, Hits: 3, Collected: 4, EndedAt: base.Add(2 * time.Minute)},
	}
	for _, r := range runs {
		id, err := store.RecordRun(ctx, r)
		if err != nil || id == 0 {
			t.Fatalf("RecordRun(%s) = %d, %v", r.SessionID, id, err)
		}
	}

	// Same session twice is ignored
	if id, err := store.RecordRun(ctx, runs[0]); err != nil || id != 0 {
		t.Errorf("duplicate RecordRun() = %d, %v; expected 0, nil", id, err)
	}

	all, err := store.RecentRuns(ctx, "", 10)
	if err != nil {
		t.Fatalf("RecentRuns() failed: %v", err)
	}
	if len(all) != 3 || all[0].SessionID != "s3" {
		t.Fatalf("RecentRuns() = %+v, expected s3 first", all)
	}
	if all[0].Collected != 4 || all[0].Hits != 3 || !all[0].EndedAt.Equal(base.Add(2*time.Minute)) {
		t.Errorf("round-tripped run = %+v", all[0])
	}

	mine, err := store.RecentRuns(ctx, "u1", 10)
	if err != nil || len(mine) != 2 {
		t.Errorf("RecentRuns(u1) = %d rows, %v; expected 2", len(mine), err)
	}

	stats, err := store.Stats(ctx, "")
	if err != nil {
		t.Fatalf("Stats() failed: %v", err)
	}
	if stats.Runs != 3 || stats.HighScore != 300 || stats.AvgScore != 200 || stats.TotalDistance != 5300 {
		t.Errorf("Stats() = %+v", stats)
	}
	if !stats.LastPlayed.Equal(base.Add(2 * time.Minute)) {
		t.Errorf("LastPlayed = %v", stats.LastPlayed)
	}

	userStats, err := store.Stats(ctx, "u1")
	if err != nil || userStats.Runs != 2 || userStats.HighScore != 200 {
		t.Errorf("Stats(u1) = %+v, %v", userStats, err)
	}
}

func TestStatsEmpty(t *testing.T) {
	stats, err := openTestStore(t).Stats(context.Background(), "")
	if err != nil {
		t.Fatalf("Stats() failed: %v", err)
	}
	if stats.Runs != 0 || !stats.LastPlayed.IsZero() {
		t.Errorf("empty Stats() = %+v", stats)
	}
}

func TestClearScores(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)
	store.SubmitScoreIfHigher(ctx, "u1", "ada", 10)
	store.RecordRun(ctx, RunRecord{SessionID: "s1", Score: 10, Lanes: 3, EndedAt: time.Now()})

	if err := store.ClearScores(ctx); err != nil {
		t.Fatalf("ClearScores() failed: %v", err)
	}
	top, _ := store.TopScores(ctx, 10)
	runs, _ := store.RecentRuns(ctx, "", 10)
	if len(top) != 0 || len(runs) != 0 {
		t.Errorf("after clear: %d scores, %d runs", len(top), len(runs))
	}
}
