package deck

import (
	"maps"

	"github.com/npratt/flick/internal/swipe"
)

// Stack is the cursor model over an ordered item list. The cursor only
// moves forward through Advance and backward through Undo. A cursor equal
// to Len is the exhausted state.
type Stack struct {
	items       []Item
	index       map[string]int
	cursor      int
	sub         map[string]int
	ledger      *Ledger
	onExhausted func()
	announced   bool // onExhausted has fired
}

// Option configures a Stack.
type Option func(*Stack)

// WithLedgerCapacity bounds the undo history.
func WithLedgerCapacity(n int) Option {
	return func(s *Stack) {
		s.ledger = NewLedger(n)
	}
}

// WithOnExhausted sets the callback fired once, the first time the cursor
// moves past the last item. Undoing back into the items and committing the
// last one again does not fire it a second time.
func WithOnExhausted(fn func()) Option {
	return func(s *Stack) {
		s.onExhausted = fn
	}
}

// New creates a stack over items. The slice is not copied; callers must
// not modify it afterwards.
func New(items []Item, opts ...Option) *Stack {
	s := &Stack{
		items:  items,
		index:  make(map[string]int, len(items)),
		sub:    make(map[string]int),
		ledger: NewLedger(DefaultLedgerCapacity),
	}
	for i, it := range items {
		if _, dup := s.index[it.ID]; !dup {
			s.index[it.ID] = i
		}
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Len returns the number of items.
func (s *Stack) Len() int { return len(s.items) }

// Cursor returns the index of the current item.
func (s *Stack) Cursor() int { return s.cursor }

// Exhausted reports whether every item has been decided.
func (s *Stack) Exhausted() bool { return s.cursor >= len(s.items) }

// Remaining returns the number of undecided items.
func (s *Stack) Remaining() int { return max(0, len(s.items)-s.cursor) }

// Ledger exposes the undo history.
func (s *Stack) Ledger() *Ledger { return s.ledger }

// Current returns the top item.
func (s *Stack) Current() (Item, bool) {
	if s.Exhausted() {
		return Item{}, false
	}
	return s.items[s.cursor], true
}

// Upcoming returns up to n items underneath the current one.
func (s *Stack) Upcoming(n int) []Item {
	start := s.cursor + 1
	if n <= 0 || start >= len(s.items) {
		return nil
	}
	end := min(len(s.items), start+n)
	return s.items[start:end]
}

// Item looks up an item by id.
func (s *Stack) Item(id string) (Item, bool) {
	i, ok := s.index[id]
	if !ok {
		return Item{}, false
	}
	return s.items[i], true
}

// Advance records d and moves to the next item. It is a no-op once the
// stack is exhausted.
func (s *Stack) Advance(d swipe.Decision) bool {
	if s.Exhausted() {
		return false
	}
	s.ledger.Push(Entry{PriorCursor: s.cursor, PriorSub: s.sub, Decision: d})
	s.cursor++

	// Entries two behind the cursor can only come back through a ledger
	// snapshot, so the live map does not need them.
	if behind := s.cursor - 2; behind >= 0 {
		delete(s.sub, s.items[behind].ID)
	}
	if !s.Exhausted() {
		delete(s.sub, s.items[s.cursor].ID)
		return true
	}
	if s.onExhausted != nil && !s.announced {
		s.announced = true
		s.onExhausted()
	}
	return true
}

// Undo rewinds the last Advance, restoring the cursor and every carousel
// index exactly. It never re-fires side effects.
func (s *Stack) Undo() (Entry, bool) {
	if s.cursor == 0 || s.ledger.Len() == 0 {
		return Entry{}, false
	}
	e, _ := s.ledger.Pop()
	s.cursor = e.PriorCursor
	s.sub = maps.Clone(e.PriorSub)
	if s.sub == nil {
		s.sub = make(map[string]int)
	}
	return e, true
}

// SubSnapshot returns a copy of the carousel indices.
func (s *Stack) SubSnapshot() map[string]int {
	return maps.Clone(s.sub)
}
