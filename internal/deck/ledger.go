package deck

import (
	"maps"

	"github.com/npratt/flick/internal/swipe"
)

// DefaultLedgerCapacity bounds undo history when no capacity is given.
const DefaultLedgerCapacity = 50

// Entry records the presentation state right before a commit.
type Entry struct {
	PriorCursor int
	PriorSub    map[string]int
	Decision    swipe.Decision
}

// Ledger is a bounded LIFO of commit entries. When full, the oldest entry
// is dropped.
type Ledger struct {
	entries  []Entry
	capacity int
}

// NewLedger creates a ledger holding at most capacity entries.
// If capacity is 0 or negative, DefaultLedgerCapacity is used.
func NewLedger(capacity int) *Ledger {
	if capacity <= 0 {
		capacity = DefaultLedgerCapacity
	}
	return &Ledger{capacity: capacity}
}

// Push records e, evicting the oldest entry if the ledger is full.
func (l *Ledger) Push(e Entry) {
	e.PriorSub = maps.Clone(e.PriorSub)
	if len(l.entries) == l.capacity {
		copy(l.entries, l.entries[1:])
		l.entries = l.entries[:len(l.entries)-1]
	}
	l.entries = append(l.entries, e)
}

// Pop removes and returns the newest entry.
func (l *Ledger) Pop() (Entry, bool) {
	if len(l.entries) == 0 {
		return Entry{}, false
	}
	e := l.entries[len(l.entries)-1]
	l.entries[len(l.entries)-1] = Entry{}
	l.entries = l.entries[:len(l.entries)-1]
	return e, true
}

// Peek returns the newest entry without removing it.
func (l *Ledger) Peek() (Entry, bool) {
	if len(l.entries) == 0 {
		return Entry{}, false
	}
	return l.entries[len(l.entries)-1], true
}

// Len returns the number of entries.
func (l *Ledger) Len() int { return len(l.entries) }

// Cap returns the capacity.
func (l *Ledger) Cap() int { return l.capacity }
