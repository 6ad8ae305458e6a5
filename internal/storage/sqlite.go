// Package storage provides SQLite-based persistence for the leaderboard and
// run history. Uses the pure-Go modernc.org/sqlite driver to avoid CGO
// dependencies.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// DefaultTopN is the leaderboard size used when callers pass no limit.
const DefaultTopN = 10

// ErrNoUser is returned when a score is submitted without a user ID.
var ErrNoUser = errors.New("storage: no user id")

// Store manages the SQLite database connection.
type Store struct {
	db *sql.DB
}

// ScoreRecord is one leaderboard row: a user's best score.
type ScoreRecord struct {
	UserID    string
	Username  string
	Score     int
	Timestamp time.Time // When the best score was set
}

// RunRecord is the history entry of one finished run.
type RunRecord struct {
	ID        int64
	SessionID string
	UserID    string // Empty for anonymous runs
	Username  string
	Score     int
	Distance  float64
	Collected int
	Hits      int
	Lanes     int
	Ticks     int64
	Seed      int64
	EndedAt   time.Time
}

// RunStats aggregates run history.
type RunStats struct {
	Runs          int
	HighScore     int
	AvgScore      float64
	TotalDistance float64
	LastPlayed    time.Time
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	// Expand ~ to home directory
	if strings.HasPrefix(dbPath, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}
	// Submissions arrive from several goroutines; one writer avoids SQLITE_BUSY.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS leaderboard (
			user_id TEXT PRIMARY KEY,
			username TEXT NOT NULL,
			score INTEGER NOT NULL,
			updated_at INTEGER NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_leaderboard_top ON leaderboard(score DESC, updated_at ASC);

		CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			session_id TEXT NOT NULL UNIQUE,
			user_id TEXT NOT NULL DEFAULT '',
			username TEXT NOT NULL DEFAULT '',
			score INTEGER NOT NULL,
			distance REAL NOT NULL DEFAULT 0,
			collected INTEGER NOT NULL DEFAULT 0,
			hits INTEGER NOT NULL DEFAULT 0,
			lanes INTEGER NOT NULL,
			ticks INTEGER NOT NULL DEFAULT 0,
			seed INTEGER NOT NULL DEFAULT 0,
			ended_at INTEGER NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_runs_user ON runs(user_id);
		CREATE INDEX IF NOT EXISTS idx_runs_ended ON runs(ended_at DESC);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SubmitScoreIfHigher stores score as the user's best if it beats the stored
// one, or if the user has none. The compare and write happen in one
// statement. Returns whether the score was saved.
func (s *Store) SubmitScoreIfHigher(ctx context.Context, userID, username string, score int) (bool, error) {
	if userID == "" {
		return false, ErrNoUser
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO leaderboard (user_id, username, score, updated_at)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT(user_id) DO UPDATE SET
			username = excluded.username,
			score = excluded.score,
			updated_at = excluded.updated_at
		 WHERE excluded.score > leaderboard.score`,
		userID, username, score, time.Now().UnixMilli(),
	)
	if err != nil {
		return false, fmt.Errorf("storage: cannot submit score: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("storage: cannot read affected rows: %w", err)
	}
	return n > 0, nil
}

// TopScores returns the best n users ordered by score, earliest first on ties.
func (s *Store) TopScores(ctx context.Context, n int) ([]ScoreRecord, error) {
	if n <= 0 {
		n = DefaultTopN
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT user_id, username, score, updated_at
		 FROM leaderboard
		 ORDER BY score DESC, updated_at ASC
		 LIMIT ?`,
		n,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query scores: %w", err)
	}
	defer rows.Close()

	var records []ScoreRecord
	for rows.Next() {
		var (
			r  ScoreRecord
			ms int64
		)
		if err := rows.Scan(&r.UserID, &r.Username, &r.Score, &ms); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		r.Timestamp = time.UnixMilli(ms)
		records = append(records, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return records, nil
}

// UserHighScore returns the stored best score of a user. ok is false when the
// user has no leaderboard entry.
func (s *Store) UserHighScore(ctx context.Context, userID string) (score int, ok bool, err error) {
	err = s.db.QueryRowContext(ctx,
		"SELECT score FROM leaderboard WHERE user_id = ?",
		userID,
	).Scan(&score)

	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("storage: cannot query high score: %w", err)
	}
	return score, true, nil
}

// ClearScores deletes the leaderboard and the run history.
func (s *Store) ClearScores(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM leaderboard; DELETE FROM runs;"); err != nil {
		return fmt.Errorf("storage: cannot clear scores: %w", err)
	}
	return nil
}

// RecordRun appends a finished run to the history. Recording the same session
// twice is a no-op. Returns the row ID, or 0 for a duplicate.
func (s *Store) RecordRun(ctx context.Context, r RunRecord) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO runs
		 (session_id, user_id, username, score, distance, collected, hits, lanes, ticks, seed, ended_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(session_id) DO NOTHING`,
		r.SessionID,
		r.UserID,
		r.Username,
		r.Score,
		r.Distance,
		r.Collected,
		r.Hits,
		r.Lanes,
		r.Ticks,
		r.Seed,
		r.EndedAt.UnixMilli(),
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot record run: %w", err)
	}

	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return 0, nil
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}
	return id, nil
}

// RecentRuns returns the latest runs, newest first. An empty userID lists
// every user's runs.
func (s *Store) RecentRuns(ctx context.Context, userID string, limit int) ([]RunRecord, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, session_id, user_id, username, score, distance, collected, hits, lanes, ticks, seed, ended_at
		 FROM runs
		 WHERE ? = '' OR user_id = ?
		 ORDER BY ended_at DESC, id DESC
		 LIMIT ?`,
		userID, userID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query runs: %w", err)
	}
	defer rows.Close()

	var runs []RunRecord
	for rows.Next() {
		var (
			r  RunRecord
			ms int64
		)
		if err := rows.Scan(
			&r.ID,
			&r.SessionID,
			&r.UserID,
			&r.Username,
			&r.Score,
			&r.Distance,
			&r.Collected,
			&r.Hits,
			&r.Lanes,
			&r.Ticks,
			&r.Seed,
			&ms,
		); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		r.EndedAt = time.UnixMilli(ms)
		runs = append(runs, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return runs, nil
}

// Stats aggregates the run history. An empty userID covers every user.
func (s *Store) Stats(ctx context.Context, userID string) (*RunStats, error) {
	stats := &RunStats{}
	var last int64

	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*), COALESCE(MAX(score), 0), COALESCE(AVG(score), 0),
		        COALESCE(SUM(distance), 0), COALESCE(MAX(ended_at), 0)
		 FROM runs
		 WHERE ? = '' OR user_id = ?`,
		userID, userID,
	).Scan(&stats.Runs, &stats.HighScore, &stats.AvgScore, &stats.TotalDistance, &last)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get run stats: %w", err)
	}

	if last > 0 {
		stats.LastPlayed = time.UnixMilli(last)
	}
	return stats, nil
}
