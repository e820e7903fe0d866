package replay

import (
	"bufio"
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/npratt/flick/internal/catalog"
	"github.com/npratt/flick/internal/config"
	"github.com/npratt/flick/internal/events"
	"github.com/npratt/flick/internal/swipe"
)

func newRunner(opts ...Option) *Runner {
	return New(config.Default(), catalog.SampleDeck(), catalog.SampleFeed(), opts...)
}

func loadScript(t *testing.T, name string) *Script {
	t.Helper()
	s, err := Load(filepath.Join("testdata", name))
	if err != nil {
		t.Fatalf("Load(%s) failed: %v", name, err)
	}
	return s
}

func eventTypes(evs []events.Event) []events.EventType {
	out := make([]events.EventType, len(evs))
	for i, ev := range evs {
		out[i] = ev.Type()
	}
	return out
}

func TestRun_DeckScript(t *testing.T) {
	var out bytes.Buffer
	res, err := newRunner(WithOutput(&out)).Run(context.Background(), loadScript(t, "deck.yaml"))
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	want := []events.EventType{
		events.EventSessionStart,
		events.EventCommit,
		events.EventCommit,
		events.EventCommit,
		events.EventTap,
		events.EventCarousel,
		events.EventCarousel,
		events.EventUndo,
		events.EventSessionEnd,
	}
	if diff := cmp.Diff(want, eventTypes(res.Events)); diff != "" {
		t.Fatalf("event types mismatch (-want +got):\n%s", diff)
	}

	var decisions []string
	for _, ev := range res.Events {
		if c, ok := ev.(*events.CommitEvent); ok {
			decisions = append(decisions, c.ItemID+":"+c.Decision)
		}
	}
	if diff := cmp.Diff([]string{"ada:accept", "grace:reject", "linus:super_accept"}, decisions); diff != "" {
		t.Errorf("commits mismatch (-want +got):\n%s", diff)
	}

	undo := res.Events[7].(*events.UndoEvent)
	if undo.ItemID != "linus" || undo.Cursor != 2 {
		t.Errorf("undo = %+v, want linus at cursor 2", undo)
	}
	last := res.Events[6].(*events.CarouselEvent)
	if last.ItemID != "barbara" || last.Index != 2 || last.Count != 4 {
		t.Errorf("carousel = %+v, want barbara image 3 of 4", last)
	}

	if diff := cmp.Diff([]swipe.Outcome{swipe.Committed, swipe.Tapped}, res.Outcomes); diff != "" {
		t.Errorf("outcomes mismatch (-want +got):\n%s", diff)
	}
	if res.Tally.Commits != 3 || res.Tally.Undos != 1 || res.Tally.Net("deck") != 2 {
		t.Errorf("tally = %+v", res.Tally)
	}

	text := out.String()
	for _, s := range []string{"ACCEPT Ada, 29 via right, cursor 1", "REJECT Grace, 34 via left", "barbara image 3/4", "undo super_accept linus", "(script complete)"} {
		if !strings.Contains(text, s) {
			t.Errorf("output missing %q:\n%s", s, text)
		}
	}
}

func TestRun_UsesVirtualClock(t *testing.T) {
	script := loadScript(t, "deck.yaml")
	res, err := newRunner().Run(context.Background(), script)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	first := res.Events[0].Timestamp()
	if !first.Equal(script.Start) {
		t.Errorf("first event at %v, want script start %v", first, script.Start)
	}
	// The waits alone add up to 520ms; the settles add more on top.
	if res.Elapsed < 520*time.Millisecond || res.Elapsed > 5*time.Second {
		t.Errorf("Elapsed = %v, out of range", res.Elapsed)
	}
	end := res.Events[len(res.Events)-1].Timestamp()
	if got := end.Sub(script.Start); got != res.Elapsed {
		t.Errorf("session end after %v, want %v", got, res.Elapsed)
	}
}

func TestRun_Deterministic(t *testing.T) {
	script := loadScript(t, "deck.yaml")

	var a, b bytes.Buffer
	if _, err := newRunner(WithOutput(&a)).Run(context.Background(), script); err != nil {
		t.Fatalf("first run: %v", err)
	}
	if _, err := newRunner(WithOutput(&b)).Run(context.Background(), script); err != nil {
		t.Fatalf("second run: %v", err)
	}
	if diff := cmp.Diff(a.String(), b.String()); diff != "" {
		t.Errorf("replays differ (-first +second):\n%s", diff)
	}
}

func TestRun_FeedAndEdge(t *testing.T) {
	res, err := newRunner().Run(context.Background(), loadScript(t, "feed.yaml"))
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	want := []events.EventType{
		events.EventSessionStart,
		events.EventCommit,
		events.EventRevert,
		events.EventCommit,
		events.EventSessionEnd,
	}
	if diff := cmp.Diff(want, eventTypes(res.Events)); diff != "" {
		t.Fatalf("event types mismatch (-want +got):\n%s", diff)
	}

	share := res.Events[1].(*events.CommitEvent)
	if share.Host != "feed" || share.ItemID != "post-1" || share.Decision != "action_b" {
		t.Errorf("feed commit = %+v", share)
	}
	revert := res.Events[2].(*events.RevertEvent)
	if revert.ItemID != "post-2" {
		t.Errorf("revert item = %q, want post-2", revert.ItemID)
	}
	reveal := res.Events[3].(*events.CommitEvent)
	if reveal.Host != "edge" || reveal.Decision != "action_a" || reveal.ItemID != "" {
		t.Errorf("edge commit = %+v", reveal)
	}
}

func TestRun_JSONOutput(t *testing.T) {
	var out bytes.Buffer
	res, err := newRunner(WithOutput(&out), WithJSON(true)).Run(context.Background(), loadScript(t, "feed.yaml"))
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	var parsed []events.EventType
	sc := bufio.NewScanner(&out)
	for sc.Scan() {
		ev, err := events.ParseEvent(sc.Bytes())
		if err != nil {
			t.Fatalf("ParseEvent(%s): %v", sc.Text(), err)
		}
		if ev == nil {
			t.Fatalf("unknown event line %s", sc.Text())
		}
		parsed = append(parsed, ev.Type())
	}
	if diff := cmp.Diff(eventTypes(res.Events), parsed); diff != "" {
		t.Errorf("printed events mismatch (-want +got):\n%s", diff)
	}
	if !strings.Contains(out.String(), `"session":"`+res.Session+`"`) {
		t.Errorf("output does not carry session %s", res.Session)
	}
}

func TestRun_WritesEventLog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.jsonl")
	sink := events.NewLogSink(path, nil)

	res, err := newRunner(WithSink(sink)).Run(context.Background(), loadScript(t, "feed.yaml"))
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if got := sink.Written(); got != len(res.Events) {
		t.Errorf("log sink wrote %d events, want %d", got, len(res.Events))
	}
}

func TestRun_ScreenOverride(t *testing.T) {
	script, err := Parse([]byte("screen: edge\nsteps:\n  - trigger: right\n"))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	res, err := newRunner().Run(context.Background(), script)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	start := res.Events[0].(*events.SessionStartEvent)
	if start.Screen != "edge" {
		t.Errorf("start screen = %q, want edge", start.Screen)
	}
	// The trailing settle lands the pending commit before the session ends.
	if res.Tally.PerHost["edge"]["action_a"] != 1 {
		t.Errorf("tally = %+v, want one edge reveal", res.Tally)
	}
}

func TestRun_RefusedInput(t *testing.T) {
	script, err := Parse([]byte(`
steps:
  - undo: true
  - trigger: right
  - wait: 10ms
  - trigger: left
  - undo: true
`))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	res, err := newRunner().Run(context.Background(), script)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	// Nothing to undo, then a trigger and an undo during the commit.
	if res.Refused != 3 {
		t.Errorf("Refused = %d, want 3", res.Refused)
	}
	if res.Tally.Commits != 1 {
		t.Errorf("Commits = %d, want 1", res.Tally.Commits)
	}
}

func TestRun_StepErrors(t *testing.T) {
	tests := []struct {
		name   string
		script string
		errMsg string
	}{
		{"unknown screen", "steps:\n  - switch: settings\n", `step 1: unknown screen "settings"`},
		{"bad direction", "steps:\n  - trigger: sideways\n", "step 1:"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			script, err := Parse([]byte(tt.script))
			if err != nil {
				t.Fatalf("Parse failed: %v", err)
			}
			res, err := newRunner().Run(context.Background(), script)
			if err == nil || !strings.Contains(err.Error(), tt.errMsg) {
				t.Fatalf("error = %v, want containing %q", err, tt.errMsg)
			}
			last := res.Events[len(res.Events)-1].(*events.SessionEndEvent)
			if last.Reason != "script error" {
				t.Errorf("end reason = %q", last.Reason)
			}
		})
	}
}

func TestRun_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := newRunner().Run(ctx, loadScript(t, "deck.yaml"))
	if err != context.Canceled {
		t.Fatalf("error = %v, want context.Canceled", err)
	}
	end := res.Events[len(res.Events)-1].(*events.SessionEndEvent)
	if end.Reason != "interrupted" || end.Commits != 0 {
		t.Errorf("end = %+v", end)
	}
}

func TestRun_InvalidConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Deck.DistanceThreshold = -1

	_, err := New(cfg, catalog.SampleDeck(), catalog.SampleFeed()).Run(context.Background(), loadScript(t, "deck.yaml"))
	if err == nil || !strings.Contains(err.Error(), "configure deck host") {
		t.Fatalf("error = %v, want host configuration error", err)
	}
}
