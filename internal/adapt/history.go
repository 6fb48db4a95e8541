// Package adapt implements the agent's self-adaptation engine.
//
// The learning loop here is deterministic trend analysis, not a trained
// model: the scoring loop records an experience per tick, the adaptation
// loop periodically analyzes the recent window and, when a rule fires,
// rewrites one settings field within its bounds.
package adapt

import (
	"sync"
	"time"
)

// HistoryCapacity bounds the experience window. Older entries are evicted
// FIFO; the history is in-memory only and does not survive a restart.
const HistoryCapacity = 100

// Experience summarizes one scoring tick.
type Experience struct {
	Timestamp       time.Time `json:"timestamp"`
	TaskCount       int       `json:"task_count"`
	ActiveCount     int       `json:"active_count"`
	OverdueCount    int       `json:"overdue_count"`
	AverageUrgency  float64   `json:"average_urgency"`
	MaxUrgency      float64   `json:"max_urgency"`
	ActionExecuted  bool      `json:"action_executed"`
	ActionSucceeded bool      `json:"action_succeeded"`
}

// History is the bounded experience window shared between the two loops.
// The scoring loop appends from its Learn phase; the adaptation loop reads
// snapshots from its Sense phase. Both run on independent goroutines, so
// every access goes through the mutex.
type History struct {
	mu       sync.Mutex
	capacity int
	entries  []Experience
}

// NewHistory creates an empty history with the standard capacity.
func NewHistory() *History {
	return NewHistoryWithCapacity(HistoryCapacity)
}

// NewHistoryWithCapacity creates an empty history with a custom capacity.
// Capacities below 1 fall back to the default.
func NewHistoryWithCapacity(capacity int) *History {
	if capacity < 1 {
		capacity = HistoryCapacity
	}
	return &History{
		capacity: capacity,
		entries:  make([]Experience, 0, capacity),
	}
}

// Append records an experience, evicting the oldest entry once full.
func (h *History) Append(exp Experience) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if len(h.entries) >= h.capacity {
		h.entries = h.entries[1:]
	}
	h.entries = append(h.entries, exp)
}

// Snapshot returns a copy of the current window, oldest first.
func (h *History) Snapshot() []Experience {
	h.mu.Lock()
	defer h.mu.Unlock()

	out := make([]Experience, len(h.entries))
	copy(out, h.entries)
	return out
}

// Len returns the number of stored experiences.
func (h *History) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.entries)
}
