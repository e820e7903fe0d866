package events

import (
	"context"
	"sync"
)

// TallyBufferSize is the recommended buffer size for tally subscriptions.
const TallyBufferSize = 1000

// Tally is the per-session count of decisions. It lives only as long as
// the process.
type Tally struct {
	Commits   int
	Undos     int
	Reverts   int
	Taps      int
	PerHost   map[string]map[string]int // host -> decision -> net count
	Exhausted map[string]int
}

// Net returns the net number of decisions recorded for a host.
func (t Tally) Net(host string) int {
	n := 0
	for _, c := range t.PerHost[host] {
		n += c
	}
	return n
}

// TallySink folds events into a Tally on its own goroutine.
type TallySink struct {
	mu    sync.Mutex
	tally Tally
	done  chan struct{}
}

// NewTallySink creates an empty TallySink.
func NewTallySink() *TallySink {
	return &TallySink{
		tally: Tally{
			PerHost:   make(map[string]map[string]int),
			Exhausted: make(map[string]int),
		},
		done: make(chan struct{}),
	}
}

// Start begins consuming events until ctx is done or the channel closes.
func (s *TallySink) Start(ctx context.Context, events <-chan Event) error {
	go s.run(ctx, events)
	return nil
}

func (s *TallySink) run(ctx context.Context, events <-chan Event) {
	defer close(s.done)

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-events:
			if !ok {
				return
			}
			s.Record(event)
		}
	}
}

// Record applies one event. It is exported so synchronous callers such as
// the replay runner can tally without a goroutine.
func (s *TallySink) Record(event Event) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch e := event.(type) {
	case *CommitEvent:
		s.tally.Commits++
		if s.tally.PerHost[e.Host] == nil {
			s.tally.PerHost[e.Host] = make(map[string]int)
		}
		s.tally.PerHost[e.Host][e.Decision]++
	case *UndoEvent:
		s.tally.Undos++
		if t := s.tally.PerHost[e.Host]; t[e.Decision] > 0 {
			t[e.Decision]--
		}
	case *RevertEvent:
		s.tally.Reverts++
	case *TapEvent:
		s.tally.Taps++
	case *ExhaustedEvent:
		s.tally.Exhausted[e.Host]++
	}
}

// Stop waits for the run goroutine to finish.
func (s *TallySink) Stop() error {
	<-s.done
	return nil
}

// Tally returns a deep copy of the current counts.
func (s *TallySink) Tally() Tally {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := s.tally
	out.PerHost = make(map[string]map[string]int, len(s.tally.PerHost))
	for host, counts := range s.tally.PerHost {
		inner := make(map[string]int, len(counts))
		for k, v := range counts {
			inner[k] = v
		}
		out.PerHost[host] = inner
	}
	out.Exhausted = make(map[string]int, len(s.tally.Exhausted))
	for k, v := range s.tally.Exhausted {
		out.Exhausted[k] = v
	}
	return out
}
