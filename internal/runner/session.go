package runner

import (
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/vovakirdan/lane-runner/internal/config"
	"github.com/vovakirdan/lane-runner/internal/core"
	"github.com/vovakirdan/lane-runner/internal/identity"
	"github.com/vovakirdan/lane-runner/internal/logging"
)

// DefaultMaxCatchUpSteps bounds how many ticks one Update call may simulate.
const DefaultMaxCatchUpSteps = 5

// State is the lifecycle state of a session.
type State int

const (
	StateIdle State = iota
	StateRunning
	StatePaused
	StateGameOver
)

// String returns a human-readable name for the state.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "Idle"
	case StateRunning:
		return "Running"
	case StatePaused:
		return "Paused"
	case StateGameOver:
		return "GameOver"
	default:
		return "Unknown"
	}
}

// SessionID identifies one run. Score submissions carry it so late results
// from an earlier run can be told apart.
type SessionID string

func newSessionID() SessionID {
	return SessionID(uuid.NewString())
}

// RunResult is the final record of a run, handed to the score sink.
type RunResult struct {
	SessionID SessionID
	Identity  *identity.UserIdentity // nil when nobody is signed in
	Score     int
	Distance  float64
	Ticks     uint64
	Lanes     int
	Seed      int64
	Stats     RunStats
	EndedAt   time.Time
}

// ScoreSink receives finished runs. Submit must not block the caller.
type ScoreSink interface {
	Begin(id SessionID)
	Submit(res RunResult)
}

// Options configures a session.
type Options struct {
	Config          config.RunnerConfig
	Seed            int64 // 0 picks a time-based seed
	TickRate        int   // Ticks per second, 0 means 60
	MaxCatchUpSteps int   // 0 means DefaultMaxCatchUpSteps
	Identity        *identity.UserIdentity
	Scores          ScoreSink
	Logger          *log.Logger
}

// Session drives one world through the Idle, Running, Paused and GameOver
// states. It is not safe for concurrent use: a single goroutine (the UI loop
// or a connection handler) owns it.
type Session struct {
	opts     Options
	identity *identity.UserIdentity
	rules    ScoringRules
	step     time.Duration
	maxSteps int
	log      *log.Logger

	id      SessionID
	state   State
	seed    int64
	runs    int64
	world   *World
	spawner *Spawner
	intents core.IntentQueue
	acc     time.Duration
	last    Outcome
}

// NewSession validates the configuration and creates an idle session.
func NewSession(opts Options) (*Session, error) {
	if err := opts.Config.Validate(); err != nil {
		return nil, fmt.Errorf("runner: new session: %w", err)
	}
	if opts.Seed == 0 {
		opts.Seed = time.Now().UnixNano()
	}
	if opts.MaxCatchUpSteps <= 0 {
		opts.MaxCatchUpSteps = DefaultMaxCatchUpSteps
	}

	s := &Session{
		opts:     opts,
		rules:    RulesFromConfig(opts.Config.Scoring),
		step:     core.RuntimeConfig{TickRate: opts.TickRate}.TickDuration(),
		maxSteps: opts.MaxCatchUpSteps,
		log:      logging.OrDiscard(opts.Logger),
	}
	if opts.Identity != nil {
		id := *opts.Identity
		s.identity = &id
	}
	s.newRun()
	return s, nil
}

// newRun replaces the world, difficulty and spawner and assigns a new ID.
func (s *Session) newRun() {
	s.seed = s.opts.Seed + s.runs
	s.runs++
	s.id = newSessionID()
	s.state = StateIdle
	s.world = NewWorld(s.opts.Config)
	s.spawner = NewSpawner(s.opts.Config, s.seed, s.log)
	s.acc = 0
	s.last = Outcome{}
	if s.opts.Scores != nil {
		s.opts.Scores.Begin(s.id)
	}
}

// ID returns the current run's session ID.
func (s *Session) ID() SessionID { return s.id }

// State returns the lifecycle state.
func (s *Session) State() State { return s.state }

// Seed returns the spawner seed of the current run.
func (s *Session) Seed() int64 { return s.seed }

// TickDuration returns the fixed simulation step.
func (s *Session) TickDuration() time.Duration { return s.step }

// Identity returns the identity runs are submitted under, or nil.
func (s *Session) Identity() *identity.UserIdentity { return s.identity }

// Start begins a run from Idle.
func (s *Session) Start() bool {
	if s.state != StateIdle {
		return false
	}
	s.state = StateRunning
	s.acc = 0
	s.log.Debug("run started", "session", s.id, "seed", s.seed)
	return true
}

// Pause freezes a running session.
func (s *Session) Pause() bool {
	if s.state != StateRunning {
		return false
	}
	s.state = StatePaused
	s.acc = 0
	return true
}

// Resume continues a paused session. Time spent paused is not simulated.
func (s *Session) Resume() bool {
	if s.state != StatePaused {
		return false
	}
	s.state = StateRunning
	s.acc = 0
	return true
}

// Reset discards a paused or finished run and returns to Idle with a fresh
// world.
func (s *Session) Reset() bool {
	if s.state != StateGameOver && s.state != StatePaused {
		return false
	}
	s.newRun()
	return true
}

// Restart is Reset followed by Start.
func (s *Session) Restart() bool {
	if !s.Reset() {
		return false
	}
	return s.Start()
}

// Enqueue queues an intent for the next tick boundary.
func (s *Session) Enqueue(in core.Intent) {
	s.intents.Push(in)
}

// Update advances the session by wall-clock time dt using a fixed step.
// Outside Running only queued intents are applied and no time accumulates.
// Returns the number of ticks simulated.
func (s *Session) Update(dt time.Duration) int {
	if s.state != StateRunning {
		s.acc = 0
		s.applyIntents()
		return 0
	}

	s.acc += dt
	steps := 0
	for s.acc >= s.step {
		if steps == s.maxSteps {
			// Too far behind; drop the backlog instead of spiralling.
			s.acc = 0
			break
		}
		s.acc -= s.step
		s.applyIntents()
		if s.state != StateRunning {
			s.acc = 0
			break
		}
		s.tick()
		steps++
		if s.state != StateRunning {
			s.acc = 0
			break
		}
	}
	return steps
}

// Step applies queued intents and, if the session is running, simulates
// exactly one tick.
func (s *Session) Step() Outcome {
	s.applyIntents()
	if s.state != StateRunning {
		return Outcome{}
	}
	return s.tick()
}

func (s *Session) applyIntents() {
	for _, in := range s.intents.Drain() {
		switch in {
		case core.IntentMoveLeft:
			if s.state == StateRunning {
				s.world.Shift(-1)
			}
		case core.IntentMoveRight:
			if s.state == StateRunning {
				s.world.Shift(1)
			}
		case core.IntentStart:
			s.Start()
		case core.IntentPause:
			s.Pause()
		case core.IntentResume:
			s.Resume()
		case core.IntentTogglePause:
			if !s.Pause() {
				s.Resume()
			}
		case core.IntentRestart:
			s.Restart()
		}
	}
}

// tick runs the fixed simulation order: steer and accelerate, spawn, move,
// collide, score, then drop consumed and passed entities.
func (s *Session) tick() Outcome {
	w := s.world
	w.tick++

	w.steer()
	w.difficulty.accelerate()

	if e, ok := s.spawner.MaybeSpawn(w, w.difficulty, w.tick); ok {
		w.add(e)
	}
	w.stats.Skipped = s.spawner.Skipped()

	w.advance()

	w.events = Resolve(w.player, w.lanes, w.entities, s.opts.Config.Player.LaneOverlap)
	out := Apply(w.events, &w.player, w.difficulty, s.rules)
	w.stats.Collected += out.Collected
	w.stats.Hits += out.Hits

	w.prune()
	s.last = out

	if out.GameOver {
		s.state = StateGameOver
		s.finish()
	}
	return out
}

// finish submits the run exactly once, on the transition into GameOver.
func (s *Session) finish() {
	w := s.world
	res := RunResult{
		SessionID: s.id,
		Identity:  s.identity,
		Score:     w.player.Score,
		Distance:  w.difficulty.Distance,
		Ticks:     w.tick,
		Lanes:     w.lanes.Len(),
		Seed:      s.seed,
		Stats:     w.stats,
		EndedAt:   time.Now(),
	}
	s.log.Info("run over", "session", s.id, "score", res.Score, "distance", int(res.Distance), "ticks", res.Ticks)
	if s.opts.Scores != nil {
		s.opts.Scores.Submit(res)
	}
}
