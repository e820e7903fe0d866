package events

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestTallySink(t *testing.T) {
	sink := NewTallySink()

	runSink(t, sink,
		commitEvent("deck", "a"),
		commitEvent("deck", "b"),
		&CommitEvent{BaseEvent: NewEvent(EventCommit, SourceTUI), Host: "deck", ItemID: "c", Decision: "reject"},
		&UndoEvent{BaseEvent: NewEvent(EventUndo, SourceTUI), Host: "deck", ItemID: "c", Decision: "reject"},
		&RevertEvent{BaseEvent: NewEvent(EventRevert, SourceTUI), Host: "feed"},
		&TapEvent{BaseEvent: NewEvent(EventTap, SourceTUI), Host: "deck"},
		&ExhaustedEvent{BaseEvent: NewEvent(EventExhausted, SourceTUI), Host: "deck", Count: 3},
	)

	got := sink.Tally()
	want := Tally{
		Commits:   3,
		Undos:     1,
		Reverts:   1,
		Taps:      1,
		PerHost:   map[string]map[string]int{"deck": {"accept": 2, "reject": 0}},
		Exhausted: map[string]int{"deck": 1},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("tally mismatch (-want +got):\n%s", diff)
	}
	if got.Net("deck") != 2 {
		t.Errorf("Net(deck) = %d, want 2", got.Net("deck"))
	}
}

func TestTallySink_UndoNeverGoesNegative(t *testing.T) {
	sink := NewTallySink()
	sink.Record(&UndoEvent{Host: "feed", Decision: "action_a"})

	if got := sink.Tally().PerHost["feed"]["action_a"]; got != 0 {
		t.Errorf("tally = %d, want 0", got)
	}
}

func TestTallySink_CopyIsIndependent(t *testing.T) {
	sink := NewTallySink()
	sink.Record(commitEvent("deck", "a"))

	snap := sink.Tally()
	snap.PerHost["deck"]["accept"] = 99

	if got := sink.Tally().PerHost["deck"]["accept"]; got != 1 {
		t.Errorf("internal tally mutated through copy: %d", got)
	}
}
