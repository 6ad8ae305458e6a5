package main

import (
	"testing"

	"github.com/vovakirdan/lane-runner/internal/config"
	"github.com/vovakirdan/lane-runner/internal/runner"
)

func newSimSession(t *testing.T, seed int64) *runner.Session {
	t.Helper()
	s, err := runner.NewSession(runner.Options{Config: config.DefaultRunnerConfig(), Seed: seed, TickRate: 60})
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	s.Start()
	return s
}

func TestSimulateDeterministic(t *testing.T) {
	pilot := runner.NewAutopilot(600)

	a := simulate(newSimSession(t, 9), pilot, 3000)
	b := simulate(newSimSession(t, 9), pilot, 3000)

	if a != b {
		t.Errorf("same seed gave different runs:\n%+v\n%+v", a, b)
	}
	if a.Ticks == 0 {
		t.Error("expected the run to advance")
	}
}

func TestSimulateCapPausesSession(t *testing.T) {
	s := newSimSession(t, 5)

	r := simulate(s, runner.NewAutopilot(600), 10)

	if !r.Capped || r.Ticks != 10 {
		t.Errorf("result = %+v, want capped at 10 ticks", r)
	}
	if s.State() != runner.StatePaused {
		t.Errorf("state = %v, want Paused", s.State())
	}
	if !s.Restart() {
		t.Error("a capped run should be restartable")
	}
}

func TestPortOf(t *testing.T) {
	tests := []struct {
		addr string
		want string
	}{
		{":23234", "23234"},
		{"0.0.0.0:2222", "2222"},
		{"[::1]:22", "22"},
		{"nonsense", "nonsense"},
	}
	for _, tt := range tests {
		if got := portOf(tt.addr); got != tt.want {
			t.Errorf("portOf(%q) = %q, want %q", tt.addr, got, tt.want)
		}
	}
}
