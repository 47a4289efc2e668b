package history

import (
	"github.com/benbjohnson/clock"

	"github.com/satriahrh/arunika/companion/domain/entities"
)

// DefaultCapacity is how many gestures the log keeps
const DefaultCapacity = 10

// GestureLog is a bounded, most-recent-first log of gestures backed by a ring
// buffer. It is owned by the event loop and not safe for concurrent use.
type GestureLog struct {
	clock   clock.Clock
	entries []entities.GestureLogEntry
	head    int // index of the next write
	size    int
}

// NewGestureLog creates an empty log; capacity <= 0 selects DefaultCapacity
func NewGestureLog(clk clock.Clock, capacity int) *GestureLog {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &GestureLog{
		clock:   clk,
		entries: make([]entities.GestureLogEntry, capacity),
	}
}

// Append records a gesture, evicting the oldest entry when full.
// A nil intensity defaults to 1.0; values outside [0,1] are clamped.
func (l *GestureLog) Append(gesture string, intensity *float64) entities.GestureLogEntry {
	entry := entities.NewGestureLogEntry(gesture, intensity, l.clock.Now())

	l.entries[l.head] = entry
	l.head = (l.head + 1) % len(l.entries)
	if l.size < len(l.entries) {
		l.size++
	}

	return entry
}

// Clear empties the log
func (l *GestureLog) Clear() {
	for i := range l.entries {
		l.entries[i] = entities.GestureLogEntry{}
	}
	l.head = 0
	l.size = 0
}

// Entries returns a copy of the log, most recent first
func (l *GestureLog) Entries() []entities.GestureLogEntry {
	out := make([]entities.GestureLogEntry, 0, l.size)
	for i := 1; i <= l.size; i++ {
		idx := (l.head - i + len(l.entries)) % len(l.entries)
		out = append(out, l.entries[idx])
	}
	return out
}

// Len returns the number of entries held
func (l *GestureLog) Len() int {
	return l.size
}

// Capacity returns the maximum number of entries held
func (l *GestureLog) Capacity() int {
	return len(l.entries)
}
