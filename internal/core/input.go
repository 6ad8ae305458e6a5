package core

// Intent represents a discrete player request, abstracted from physical key
// presses or network messages. Intents are queued and applied atomically at
// the next simulation tick boundary.
type Intent int

const (
	IntentNone        Intent = iota
	IntentMoveLeft           // A, Left arrow - shift one lane left
	IntentMoveRight          // D, Right arrow - shift one lane right
	IntentStart              // Enter, Space - start a run from the title screen
	IntentPause              // Pause a running session
	IntentResume             // Resume a paused session
	IntentTogglePause        // P, Esc - pause or resume depending on state
	IntentRestart            // R - discard the current run and start a fresh one
	IntentQuit               // Q, Ctrl+C - leave the game
)

// String returns a human-readable name for the intent.
func (i Intent) String() string {
	switch i {
	case IntentNone:
		return "None"
	case IntentMoveLeft:
		return "MoveLeft"
	case IntentMoveRight:
		return "MoveRight"
	case IntentStart:
		return "Start"
	case IntentPause:
		return "Pause"
	case IntentResume:
		return "Resume"
	case IntentTogglePause:
		return "TogglePause"
	case IntentRestart:
		return "Restart"
	case IntentQuit:
		return "Quit"
	default:
		return "Unknown"
	}
}

// ParseIntent maps a wire name (as produced by String, case-sensitive) back
// to an Intent. Unknown names map to IntentNone.
func ParseIntent(name string) Intent {
	for i := IntentMoveLeft; i <= IntentQuit; i++ {
		if i.String() == name {
			return i
		}
	}
	return IntentNone
}

// maxQueuedIntents bounds the queue so a stuck tick loop cannot grow it forever.
const maxQueuedIntents = 32

// IntentQueue buffers intents between tick boundaries, preserving arrival order.
// It is not safe for concurrent use; the owner of the simulation loop feeds it.
type IntentQueue struct {
	items []Intent
}

// Push appends an intent. IntentNone is ignored. When the queue is full the
// oldest intent is dropped.
func (q *IntentQueue) Push(i Intent) {
	if i == IntentNone {
		return
	}
	if len(q.items) >= maxQueuedIntents {
		q.items = q.items[1:]
	}
	q.items = append(q.items, i)
}

// Len returns the number of pending intents.
func (q *IntentQueue) Len() int {
	return len(q.items)
}

// Drain returns all pending intents in arrival order and empties the queue.
func (q *IntentQueue) Drain() []Intent {
	if len(q.items) == 0 {
		return nil
	}
	out := make([]Intent, len(q.items))
	copy(out, q.items)
	q.items = q.items[:0]
	return out
}
