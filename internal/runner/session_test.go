package runner

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/vovakirdan/lane-runner/internal/config"
	"github.com/vovakirdan/lane-runner/internal/core"
	"github.com/vovakirdan/lane-runner/internal/identity"
)

func TestNewSessionRejectsInvalidConfig(t *testing.T) {
	cfg := config.DefaultRunnerConfig()
	cfg.Speed.Max = 500

	_, err := NewSession(Options{Config: cfg})
	if !errors.Is(err, config.ErrInvalidConfig) {
		t.Errorf("NewSession() error = %v, expected ErrInvalidConfig", err)
	}
}

func TestTransitions(t *testing.T) {
	type op struct {
		name string
		fn   func(*Session) bool
	}
	ops := []op{
		{"Start", (*Session).Start},
		{"Pause", (*Session).Pause},
		{"Resume", (*Session).Resume},
		{"Reset", (*Session).Reset},
		{"Restart", (*Session).Restart},
	}
	// into moves a fresh session into the given state.
	into := func(t *testing.T, st State) *Session {
		s := newTestSession(t, func(c *config.RunnerConfig) { c.Scoring.MaxLives = 1 }, nil)
		switch st {
		case StateRunning:
			s.Start()
		case StatePaused:
			s.Start()
			s.Pause()
		case StateGameOver:
			s.Start()
			forceGameOver(t, s)
		}
		return s
	}

	tests := []struct {
		from State
		op   string
		ok   bool
		to   State
	}{
		{StateIdle, "Start", true, StateRunning},
		{StateIdle, "Pause", false, StateIdle},
		{StateIdle, "Resume", false, StateIdle},
		{StateIdle, "Reset", false, StateIdle},
		{StateIdle, "Restart", false, StateIdle},
		{StateRunning, "Start", false, StateRunning},
		{StateRunning, "Pause", true, StatePaused},
		{StateRunning, "Resume", false, StateRunning},
		{StateRunning, "Reset", false, StateRunning},
		{StateRunning, "Restart", false, StateRunning},
		{StatePaused, "Start", false, StatePaused},
		{StatePaused, "Pause", false, StatePaused},
		{StatePaused, "Resume", true, StateRunning},
		{StatePaused, "Reset", true, StateIdle},
		{StatePaused, "Restart", true, StateRunning},
		{StateGameOver, "Start", false, StateGameOver},
		{StateGameOver, "Pause", false, StateGameOver},
		{StateGameOver, "Resume", false, StateGameOver},
		{StateGameOver, "Reset", true, StateIdle},
		{StateGameOver, "Restart", true, StateRunning},
	}

	for _, tc := range tests {
		t.Run(tc.from.String()+"/"+tc.op, func(t *testing.T) {
			s := into(t, tc.from)
			before := s.Snapshot()

			var fn func(*Session) bool
			for _, o := range ops {
				if o.name == tc.op {
					fn = o.fn
				}
			}
			if got := fn(s); got != tc.ok {
				t.Errorf("%s from %v returned %v, expected %v", tc.op, tc.from, got, tc.ok)
			}
			if s.State() != tc.to {
				t.Errorf("state = %v, expected %v", s.State(), tc.to)
			}
			if !tc.ok && !reflect.DeepEqual(before, s.Snapshot()) {
				t.Error("rejected transition changed the session")
			}
		})
	}
}

// forceGameOver places an obstacle on the player and steps until the run ends.
func forceGameOver(t *testing.T, s *Session) {
	t.Helper()
	for i := 0; i < 100 && s.State() == StateRunning; i++ {
		p := s.world.Player()
		s.world.add(obstacleAt(p.Lane, p.Depth+s.world.difficulty.Speed))
		s.Step()
	}
	if s.State() != StateGameOver {
		t.Fatalf("state = %v, expected GameOver", s.State())
	}
}

func TestScenarioObstacleEndsRun(t *testing.T) {
	sink := &recordingSink{}
	s := newTestSession(t, func(c *config.RunnerConfig) { c.Scoring.MaxLives = 1 }, sink)
	s.Start()

	p := s.world.Player()
	s.world.add(obstacleAt(p.Lane, p.Depth+s.world.difficulty.Speed+0.01))
	out := s.Step()

	if !out.GameOver || s.State() != StateGameOver {
		t.Fatalf("outcome=%+v state=%v, expected GameOver", out, s.State())
	}
	if lives := s.Snapshot().Player.Lives; lives != 0 {
		t.Errorf("lives = %d, expected 0", lives)
	}
	if len(sink.results) != 1 {
		t.Fatalf("submitted %d results, expected 1", len(sink.results))
	}
	if sink.results[0].SessionID != s.ID() {
		t.Errorf("result session %q, expected %q", sink.results[0].SessionID, s.ID())
	}

	// Further updates neither simulate nor resubmit
	tick := s.Snapshot().Tick
	s.Update(time.Second)
	s.Step()
	if s.Snapshot().Tick != tick {
		t.Error("a finished run must not advance")
	}
	if len(sink.results) != 1 {
		t.Errorf("submitted %d results after GameOver, expected exactly 1", len(sink.results))
	}
}

func TestScenarioCollectibleCombo(t *testing.T) {
	s := newTestSession(t, func(c *config.RunnerConfig) { c.Scoring.PointsPerUnit = 0 }, nil)
	s.Start()

	p := s.world.Player()
	s.world.add(collectibleAt(t, "BOTTLE", p.Lane, p.Depth+s.world.difficulty.Speed))
	s.Step()

	snap := s.Snapshot()
	if snap.Player.Score != 10 || snap.Player.Combo != 1 {
		t.Errorf("score=%d combo=%d, expected 10 and 1", snap.Player.Score, snap.Player.Combo)
	}
	if snap.Stats.Collected != 1 || len(snap.Events) != 1 {
		t.Errorf("stats=%+v events=%d", snap.Stats, len(snap.Events))
	}
	for _, e := range snap.Entities {
		if e.Kind == KindCollectible && e.Variant == "BOTTLE" && e.Depth < 1000 {
			t.Error("collected item should be removed at the end of the tick")
		}
	}
}

func TestScenarioPauseFreezes(t *testing.T) {
	s := newTestSession(t, nil, nil)
	s.Start()
	for i := 0; i < 30; i++ {
		s.Step()
	}

	s.Enqueue(core.IntentPause)
	if n := s.Update(s.TickDuration()); n != 0 {
		t.Errorf("tick boundary applying Pause simulated %d ticks", n)
	}
	if s.State() != StatePaused {
		t.Fatalf("state = %v, expected Paused", s.State())
	}
	frozen := s.Snapshot()

	s.Enqueue(core.IntentMoveLeft)
	for i := 0; i < 10; i++ {
		if n := s.Update(10 * time.Second); n != 0 {
			t.Fatalf("paused Update simulated %d ticks", n)
		}
	}
	if !reflect.DeepEqual(frozen, s.Snapshot()) {
		t.Fatal("snapshot changed while paused")
	}

	s.Enqueue(core.IntentResume)
	if n := s.Update(time.Hour); n != 0 {
		t.Errorf("Update() applying Resume simulated %d ticks, expected none", n)
	}
	if s.State() != StateRunning {
		t.Fatalf("state = %v, expected Running", s.State())
	}
	if n := s.Update(s.TickDuration()); n != 1 {
		t.Errorf("Update(one tick) simulated %d ticks, expected 1", n)
	}
	snap := s.Snapshot()
	if snap.Tick != frozen.Tick+1 {
		t.Errorf("tick = %d, expected %d", snap.Tick, frozen.Tick+1)
	}
	if snap.Player.Lane != frozen.Player.Lane {
		t.Error("input sent while paused must not apply after resume")
	}
}

func TestScenarioRestart(t *testing.T) {
	sink := &recordingSink{}
	s := newTestSession(t, func(c *config.RunnerConfig) { c.Scoring.MaxLives = 1 }, sink)
	s.Start()
	for i := 0; i < 200; i++ {
		s.Step()
	}
	forceGameOver(t, s)
	oldID := s.ID()

	s.Enqueue(core.IntentRestart)
	s.Update(0)

	if s.State() != StateRunning {
		t.Fatalf("state = %v, expected Running", s.State())
	}
	if s.ID() == oldID {
		t.Error("restart should start a new session ID")
	}
	if len(sink.begun) != 2 || sink.begun[1] != s.ID() {
		t.Errorf("sink saw sessions %v, expected the new ID last", sink.begun)
	}

	snap := s.Snapshot()
	cfg := s.opts.Config
	if snap.Player.Score != 0 || snap.Player.Lives != cfg.Scoring.MaxLives || snap.Player.Combo != 0 {
		t.Errorf("player = %+v, expected a fresh player", snap.Player)
	}
	if snap.Speed != cfg.Speed.Initial || snap.Distance != 0 || len(snap.Entities) != 0 || snap.Tick != 0 {
		t.Errorf("world not fresh: speed=%v distance=%v entities=%d tick=%d",
			snap.Speed, snap.Distance, len(snap.Entities), snap.Tick)
	}
}

func TestUpdateFixedStep(t *testing.T) {
	s := newTestSession(t, nil, nil)
	s.Start()
	step := s.TickDuration()

	if n := s.Update(step / 2); n != 0 {
		t.Errorf("half a tick simulated %d ticks", n)
	}
	if n := s.Update(step / 2); n != 1 {
		t.Errorf("second half simulated %d ticks, expected 1", n)
	}
	if n := s.Update(100 * step); n != DefaultMaxCatchUpSteps {
		t.Errorf("long frame simulated %d ticks, expected cap %d", n, DefaultMaxCatchUpSteps)
	}
	if n := s.Update(0); n != 0 {
		t.Errorf("backlog beyond the cap should be dropped, simulated %d", n)
	}
}

func TestIntentsApplyAtTickBoundary(t *testing.T) {
	s := newTestSession(t, nil, nil)
	s.Enqueue(core.IntentStart)
	s.Enqueue(core.IntentMoveLeft) // applied after Start in the same drain
	s.Enqueue(core.IntentMoveLeft) // blocked at the edge

	if s.Snapshot().State != StateIdle {
		t.Fatal("intents must wait for a tick boundary")
	}
	s.Step()

	snap := s.Snapshot()
	if snap.State != StateRunning || snap.Player.Lane != 0 {
		t.Errorf("state=%v lane=%d, expected Running in lane 0", snap.State, snap.Player.Lane)
	}

	s.Enqueue(core.IntentTogglePause)
	s.Step()
	if s.State() != StatePaused {
		t.Errorf("toggle from Running gave %v", s.State())
	}
	s.Enqueue(core.IntentTogglePause)
	s.Step()
	if s.State() != StateRunning {
		t.Errorf("toggle from Paused gave %v", s.State())
	}
}

func TestLivesBoundAndSingleGameOver(t *testing.T) {
	sink := &recordingSink{}
	s := newTestSession(t, nil, sink)
	s.Start()
	maxLives := s.opts.Config.Scoring.MaxLives

	prevScore := 0
	for i := 0; i < 200000 && s.State() == StateRunning; i++ {
		s.Step()
		p := s.Snapshot().Player
		if p.Lives < 0 || p.Lives > maxLives {
			t.Fatalf("tick %d: lives %d outside [0, %d]", i, p.Lives, maxLives)
		}
		if p.Score < prevScore {
			t.Fatalf("tick %d: score decreased", i)
		}
		prevScore = p.Score
	}
	if s.State() != StateGameOver {
		t.Fatal("an idle player should eventually run out of lives")
	}
	if len(sink.results) != 1 {
		t.Errorf("submitted %d results, expected 1", len(sink.results))
	}
	res := sink.results[0]
	if res.Score != prevScore || res.Stats.Hits != maxLives || res.Lanes != 3 {
		t.Errorf("result = %+v", res)
	}
}

func TestSessionDeterminism(t *testing.T) {
	run := func() Snapshot {
		s := newTestSession(t, nil, nil)
		pilot := NewAutopilot(600)
		s.Start()
		for i := 0; i < 3000 && s.State() == StateRunning; i++ {
			s.Enqueue(pilot.Decide(s.Snapshot()))
			s.Step()
		}
		snap := s.Snapshot()
		snap.SessionID = ""
		return snap
	}

	a, b := run(), run()
	if !reflect.DeepEqual(a, b) {
		t.Errorf("same seed and input gave different runs:\n%+v\n%+v", a.Player, b.Player)
	}
}

func TestIdentitySnapshot(t *testing.T) {
	sink := &recordingSink{}
	who := &identity.UserIdentity{ID: "u1", Username: "ada"}
	cfg := config.DefaultRunnerConfig()
	cfg.Scoring.MaxLives = 1
	s, err := NewSession(Options{Config: cfg, Seed: 1, Identity: who, Scores: sink})
	if err != nil {
		t.Fatal(err)
	}

	who.Username = "changed"
	s.Start()
	forceGameOver(t, s)

	got := sink.results[0].Identity
	if got == nil || got.Username != "ada" {
		t.Errorf("result identity = %+v, expected the identity at session start", got)
	}
}

func TestSnapshotIsCopy(t *testing.T) {
	s := newTestSession(t, nil, nil)
	s.Start()
	for i := 0; i < 120; i++ {
		s.Step()
	}
	snap := s.Snapshot()
	if len(snap.Entities) == 0 {
		t.Fatal("expected entities after 120 ticks")
	}
	snap.Entities[0].Depth = -1
	snap.Lanes[0] = 999

	again := s.Snapshot()
	if again.Entities[0].Depth == -1 || again.Lanes[0] == 999 {
		t.Error("mutating a snapshot changed the session")
	}
}
