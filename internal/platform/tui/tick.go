// Package tui runs lane-runner sessions in a terminal with Bubble Tea, both
// locally and over SSH. It maps keys to intents, feeds wall-clock ticks to
// the session and turns painted screens into styled output.
package tui

import (
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// TickMsg is sent to advance the session clock. Loop identifies the game
// model that scheduled it so a stale tick cannot start a second loop.
type TickMsg struct {
	At   time.Time
	Loop uint64
}

var loopSeq atomic.Uint64

// nextLoop returns a fresh tick loop ID.
func nextLoop() uint64 {
	return loopSeq.Add(1)
}

// tickCmd returns a command that sends a TickMsg after one tick interval.
func tickCmd(interval time.Duration, loop uint64) tea.Cmd {
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return TickMsg{At: t, Loop: loop}
	})
}
