// Package leaderboard submits finished runs to the score store without
// blocking the simulation. Each submission runs on its own goroutine with a
// timeout and reports back on a buffered channel; results belonging to an
// earlier session are discarded when polled.
package leaderboard

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/lane-runner/internal/logging"
	"github.com/vovakirdan/lane-runner/internal/runner"
	"github.com/vovakirdan/lane-runner/internal/storage"
)

// DefaultTimeout bounds one submission.
const DefaultTimeout = 5 * time.Second

// resultBuffer is how many undelivered results are kept before dropping.
const resultBuffer = 8

// Store is the persistence the client writes to. *storage.Store implements it.
type Store interface {
	SubmitScoreIfHigher(ctx context.Context, userID, username string, score int) (bool, error)
	UserHighScore(ctx context.Context, userID string) (int, bool, error)
	RecordRun(ctx context.Context, r storage.RunRecord) (int64, error)
}

var _ Store = (*storage.Store)(nil)

// Status is the outcome of a submission.
type Status int

const (
	StatusSaved       Status = iota // New personal best stored
	StatusNotHigher                 // Stored best is at least as high
	StatusNotSignedIn               // Run had no identity; only history was written
	StatusFailed                    // Store error or timeout
)

// String returns a human-readable name for the status.
func (s Status) String() string {
	switch s {
	case StatusSaved:
		return "saved"
	case StatusNotHigher:
		return "not-higher"
	case StatusNotSignedIn:
		return "not-signed-in"
	default:
		return "failed"
	}
}

// Result reports a finished submission.
type Result struct {
	SessionID runner.SessionID
	Status    Status
	Score     int
	Best      int // User's best after the submission, when known
	Err       error
}

// Notice returns the short HUD message for the result.
func (r Result) Notice() string {
	switch r.Status {
	case StatusSaved:
		return "NEW HIGH SCORE!"
	case StatusNotHigher:
		return "Score recorded"
	case StatusNotSignedIn:
		return "Sign in to save scores"
	default:
		return "Could not save score"
	}
}

// Client is a runner.ScoreSink backed by a Store.
type Client struct {
	store   Store
	timeout time.Duration
	results chan Result
	log     *log.Logger
	wg      sync.WaitGroup

	mu     sync.Mutex
	active runner.SessionID
}

var _ runner.ScoreSink = (*Client)(nil)

// NewClient creates a client. A zero timeout means DefaultTimeout.
func NewClient(store Store, timeout time.Duration, logger *log.Logger) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		store:   store,
		timeout: timeout,
		results: make(chan Result, resultBuffer),
		log:     logging.OrDiscard(logger),
	}
}

// Begin marks id as the active session. Results for other sessions become
// stale.
func (c *Client) Begin(id runner.SessionID) {
	c.mu.Lock()
	c.active = id
	c.mu.Unlock()
}

// Active returns the active session ID.
func (c *Client) Active() runner.SessionID {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.active
}

// Submit stores a finished run in the background and returns immediately.
func (c *Client) Submit(res runner.RunResult) {
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		c.deliver(c.submit(res))
	}()
}

func (c *Client) submit(res runner.RunResult) Result {
	ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
	defer cancel()

	out := Result{SessionID: res.SessionID, Score: res.Score}

	rec := storage.RunRecord{
		SessionID: string(res.SessionID),
		Score:     res.Score,
		Distance:  res.Distance,
		Collected: res.Stats.Collected,
		Hits:      res.Stats.Hits,
		Lanes:     res.Lanes,
		Ticks:     int64(res.Ticks),
		Seed:      res.Seed,
		EndedAt:   res.EndedAt,
	}
	if res.Identity != nil {
		rec.UserID = res.Identity.ID
		rec.Username = res.Identity.DisplayName()
	}
	if _, err := c.store.RecordRun(ctx, rec); err != nil {
		// History is best effort; the leaderboard write below still counts.
		c.log.Warn("run history not recorded", "session", res.SessionID, "err", err)
	}

	if res.Identity == nil || res.Identity.ID == "" {
		out.Status = StatusNotSignedIn
		return out
	}

	saved, err := c.store.SubmitScoreIfHigher(ctx, res.Identity.ID, res.Identity.DisplayName(), res.Score)
	if err != nil {
		out.Status = StatusFailed
		out.Err = err
		if errors.Is(err, context.DeadlineExceeded) {
			c.log.Warn("score submission timed out", "session", res.SessionID, "timeout", c.timeout)
		} else {
			c.log.Warn("score submission failed", "session", res.SessionID, "err", err)
		}
		return out
	}

	out.Status = StatusNotHigher
	if saved {
		out.Status = StatusSaved
	}
	if best, ok, err := c.store.UserHighScore(ctx, res.Identity.ID); err == nil && ok {
		out.Best = best
	}
	c.log.Info("score submitted", "session", res.SessionID, "user", res.Identity.DisplayName(), "score", res.Score, "status", out.Status)
	return out
}

// deliver hands a result to the reader without ever blocking.
func (c *Client) deliver(r Result) {
	select {
	case c.results <- r:
	default:
		c.log.Warn("submission result dropped", "session", r.SessionID, "status", r.Status)
	}
}

// Fresh reports whether r belongs to the active session.
func (c *Client) Fresh(r Result) bool {
	return r.SessionID == c.Active()
}

// Poll returns the next result for the active session without blocking,
// discarding stale ones.
func (c *Client) Poll() (Result, bool) {
	for {
		select {
		case r := <-c.results:
			if !c.Fresh(r) {
				c.log.Debug("stale submission result discarded", "session", r.SessionID)
				continue
			}
			return r, true
		default:
			return Result{}, false
		}
	}
}

// Wait blocks until every in-flight submission has finished.
func (c *Client) Wait() {
	c.wg.Wait()
}

// HighScore returns a user's stored best for the HUD.
func (c *Client) HighScore(ctx context.Context, userID string) (int, bool) {
	if userID == "" {
		return 0, false
	}
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	best, ok, err := c.store.UserHighScore(ctx, userID)
	if err != nil {
		c.log.Warn("high score lookup failed", "user", userID, "err", err)
		return 0, false
	}
	return best, ok
}
