package replay

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/npratt/flick/internal/config"
	"github.com/npratt/flick/internal/controller"
	"github.com/npratt/flick/internal/deck"
	"github.com/npratt/flick/internal/events"
	"github.com/npratt/flick/internal/swipe"
)

// maxSettleFrames bounds a settle step; a spring that has not come to rest
// by then is reported as an error.
const maxSettleFrames = 5000

// Result summarizes a finished replay.
type Result struct {
	Session  string
	Outcomes []swipe.Outcome
	Events   []events.Event
	Tally    events.Tally
	Refused  int
	Elapsed  time.Duration
}

// Runner plays scripts against a fresh controller per run.
type Runner struct {
	cfg       *config.Config
	deckItems []deck.Item
	feedItems []deck.Item
	out       io.Writer
	logger    *slog.Logger
	json      bool
	sinks     []events.Sink
}

// Option configures a Runner.
type Option func(*Runner)

// WithOutput sets where events are printed. Nil discards them.
func WithOutput(w io.Writer) Option {
	return func(r *Runner) {
		r.out = w
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		r.logger = logger
	}
}

// WithJSON prints events as JSON lines instead of formatted text.
func WithJSON(enabled bool) Option {
	return func(r *Runner) {
		r.json = enabled
	}
}

// WithSink attaches an extra event sink, such as the event log.
func WithSink(s events.Sink) Option {
	return func(r *Runner) {
		r.sinks = append(r.sinks, s)
	}
}

// New creates a Runner.
func New(cfg *config.Config, deckItems, feedItems []deck.Item, opts ...Option) *Runner {
	r := &Runner{
		cfg:       cfg,
		deckItems: deckItems,
		feedItems: feedItems,
		out:       io.Discard,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.out == nil {
		r.out = io.Discard
	}
	return r
}

// run holds the state of one replay.
type run struct {
	*Runner
	now    time.Time
	ctrl   *controller.Controller
	feed   <-chan events.Event
	tally  *events.TallySink
	result *Result
}

// Run plays the script to completion. Pending animations are settled after
// the last step and the session is closed.
func (r *Runner) Run(ctx context.Context, script *Script) (*Result, error) {
	cfg := *r.cfg
	if script.Screen != "" {
		cfg.UI.StartScreen = script.Screen
	}

	router := events.NewRouter(events.TallyBufferSize)
	router.SetLogger(r.logger)

	st := &run{
		Runner: r,
		now:    script.Start,
		feed:   router.SubscribeBuffered(events.TallyBufferSize),
		tally:  events.NewTallySink(),
		result: &Result{},
	}

	var started []events.Sink
	defer func() {
		router.Close()
		for _, sink := range started {
			if err := sink.Stop(); err != nil {
				r.logger.Warn("sink stop failed", "error", err)
			}
		}
	}()
	for _, sink := range r.sinks {
		if err := sink.Start(ctx, router.SubscribeBuffered(events.TallyBufferSize)); err != nil {
			return nil, fmt.Errorf("start sink: %w", err)
		}
		started = append(started, sink)
	}

	ctrl, err := controller.New(&cfg, r.deckItems, r.feedItems, router,
		controller.WithClock(func() time.Time { return st.now }),
		controller.WithLogger(r.logger),
		controller.WithSource(events.SourceReplay),
	)
	if err != nil {
		return nil, err
	}
	st.ctrl = ctrl
	st.result.Session = ctrl.Session()

	ctrl.SetViewport(script.Viewport.Width, script.Viewport.Height)
	ctrl.Start()
	if err := st.flush(); err != nil {
		return nil, err
	}

	for i, step := range script.Steps {
		if err := ctx.Err(); err != nil {
			ctrl.Stop("interrupted")
			_ = st.flush()
			return st.result, err
		}
		st.advance(step.Wait)
		if err := st.apply(step); err != nil {
			ctrl.Stop("script error")
			_ = st.flush()
			return st.result, fmt.Errorf("step %d: %w", i+1, err)
		}
		if err := st.flush(); err != nil {
			return st.result, err
		}
	}

	if err := st.settle(); err != nil {
		return st.result, err
	}
	ctrl.Stop("script complete")
	if err := st.flush(); err != nil {
		return st.result, err
	}

	st.result.Tally = st.tally.Tally()
	st.result.Elapsed = st.now.Sub(script.Start)
	return st.result, nil
}

// advance moves the virtual clock forward by d, presenting every frame a
// running animation would have drawn in that time.
func (st *run) advance(d time.Duration) {
	target := st.now.Add(d)
	for st.ctrl.Generation() != 0 {
		next := st.now.Add(st.ctrl.FrameInterval())
		if next.After(target) {
			break
		}
		st.now = next
		st.ctrl.Step(st.now)
	}
	st.now = target
}

// settle steps frames until the active host is idle.
func (st *run) settle() error {
	for i := 0; st.ctrl.Generation() != 0; i++ {
		if i >= maxSettleFrames {
			return fmt.Errorf("animation did not settle within %d frames", maxSettleFrames)
		}
		st.now = st.now.Add(st.ctrl.FrameInterval())
		st.ctrl.Step(st.now)
	}
	return nil
}

func (st *run) apply(step Step) error {
	c := st.ctrl
	switch {
	case step.Down != nil:
		if !c.PointerDown(step.Down.X, step.Down.Y) {
			st.result.Refused++
			st.logger.Debug("press refused", "x", step.Down.X, "y", step.Down.Y)
		}
	case step.Move != nil:
		c.PointerMove(step.Move.X, step.Move.Y)
	case step.Up != nil:
		out := c.PointerUp(step.Up.X, step.Up.Y)
		st.result.Outcomes = append(st.result.Outcomes, out)
	case step.Trigger != "":
		dir, err := swipe.ParseDirection(step.Trigger)
		if err != nil {
			return err
		}
		if !c.Trigger(dir) {
			st.result.Refused++
		}
	case step.Undo:
		if !c.Undo() {
			st.result.Refused++
		}
	case step.Switch != "":
		return c.Switch(step.Switch)
	case step.Carousel == "left":
		c.CarouselLeft()
	case step.Carousel == "right":
		c.CarouselRight()
	case step.Dismiss:
		c.Dismiss()
	case step.Settle:
		return st.settle()
	}
	return nil
}

// flush prints and tallies everything emitted since the last flush.
func (st *run) flush() error {
	for {
		select {
		case ev, ok := <-st.feed:
			if !ok {
				return nil
			}
			st.tally.Record(ev)
			st.result.Events = append(st.result.Events, ev)
			if err := st.print(ev); err != nil {
				return fmt.Errorf("write event: %w", err)
			}
		default:
			return nil
		}
	}
}

func (st *run) print(ev events.Event) error {
	if st.json {
		return json.NewEncoder(st.out).Encode(ev)
	}
	_, err := fmt.Fprintln(st.out, events.FormatWithTimestamp(ev))
	return err
}
