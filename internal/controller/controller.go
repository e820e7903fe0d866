// Package controller wires the three swipe hosts to their stacks and to
// the event router, and gives commits their meaning on each screen. Both
// the TUI and the replay runner drive a Controller.
package controller

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/npratt/flick/internal/config"
	"github.com/npratt/flick/internal/deck"
	"github.com/npratt/flick/internal/events"
	"github.com/npratt/flick/internal/swipe"
)

// Screen is one configured host and what its commits act on.
type Screen struct {
	Name  string
	Host  *swipe.Host
	Stack *deck.Stack // nil on the edge screen

	// Revealed is set on the edge screen while the capture surface is open.
	Revealed bool
	// Detail is the feed row opened by action_a or a tap, if any.
	Detail *deck.Item
	// Shared lists feed rows sent through action_b, oldest first.
	Shared []string
}

// Overlay reports whether the screen shows a surface that the next press
// dismisses instead of starting a gesture.
func (s *Screen) Overlay() bool {
	return s.Revealed || s.Detail != nil
}

// Controller owns the screens of one session. It is not safe for
// concurrent use; every call comes from the UI loop or the replay runner.
type Controller struct {
	cfg     *config.Config
	router  *events.Router
	logger  *slog.Logger
	now     func() time.Time
	source  string
	session string

	screens map[string]*Screen
	order   []string
	active  string

	width, height float64
	dismissing    bool

	started time.Time
	commits int
	undos   int
	ended   bool
	notice  string
}

// Option configures a Controller.
type Option func(*Controller)

// WithClock sets the clock shared by every host.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) {
		c.now = now
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Controller) {
		c.logger = logger
	}
}

// WithSource sets the source stamped on emitted events.
func WithSource(source string) Option {
	return func(c *Controller) {
		c.source = source
	}
}

// WithSessionID overrides the generated session ID.
func WithSessionID(id string) Option {
	return func(c *Controller) {
		c.session = id
	}
}

// New builds the deck, edge and feed screens. The start screen from cfg is
// mounted; the others wait unmounted until Switch. router may be nil.
func New(cfg *config.Config, deckItems, feedItems []deck.Item, router *events.Router, opts ...Option) (*Controller, error) {
	c := &Controller{
		cfg:     cfg,
		router:  router,
		logger:  slog.Default(),
		now:     time.Now,
		source:  events.SourceTUI,
		screens: make(map[string]*Screen, 3),
		order:   []string{config.ScreenDeck, config.ScreenEdge, config.ScreenFeed},
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.session == "" {
		c.session = uuid.NewString()
	}
	c.logger = c.logger.With("session", c.session)

	items := map[string][]deck.Item{
		config.ScreenDeck: deckItems,
		config.ScreenFeed: feedItems,
	}
	for _, name := range c.order {
		hostCfg, err := cfg.Host(name)
		if err != nil {
			return nil, fmt.Errorf("configure %s host: %w", name, err)
		}
		s := &Screen{Name: name}
		if name != config.ScreenEdge {
			s.Stack = deck.New(items[name],
				deck.WithLedgerCapacity(cfg.Undo.Capacity),
				deck.WithOnExhausted(func() { c.onExhausted(s) }),
			)
		}
		s.Host = swipe.NewHost(name, hostCfg,
			swipe.WithClock(func() time.Time { return c.now() }),
			swipe.WithLogger(c.logger),
			swipe.WithOnCommit(func(d swipe.Decision, dir swipe.Direction) { c.onCommit(s, d, dir) }),
			swipe.WithOnTap(func(x, y float64) { c.onTap(s, x, y) }),
			swipe.WithOnRevert(func() { c.onRevert(s) }),
		)
		c.screens[name] = s
	}

	c.active = cfg.UI.StartScreen
	if _, ok := c.screens[c.active]; !ok {
		c.active = config.ScreenDeck
	}
	for name, s := range c.screens {
		if name != c.active {
			s.Host.Unmount()
		}
	}
	return c, nil
}

// Start stamps the session start and emits it.
func (c *Controller) Start() {
	c.started = c.now()
	c.emit(&events.SessionStartEvent{
		BaseEvent: c.base(events.EventSessionStart),
		Screen:    c.active,
		DeckSize:  c.screens[config.ScreenDeck].Stack.Len(),
		FeedSize:  c.screens[config.ScreenFeed].Stack.Len(),
		ItemsPath: c.cfg.Paths.Items,
	})
	c.logger.Info("session started", "screen", c.active)
}

// Stop cancels every in-flight animation without firing its callback and
// emits the session end. Only the first call has any effect.
func (c *Controller) Stop(reason string) {
	if c.ended {
		return
	}
	c.ended = true
	for _, s := range c.screens {
		s.Host.Unmount()
	}
	c.emit(&events.SessionEndEvent{
		BaseEvent:  c.base(events.EventSessionEnd),
		Commits:    c.commits,
		Undos:      c.undos,
		DurationMs: c.now().Sub(c.started).Milliseconds(),
		Reason:     reason,
	})
	c.logger.Info("session ended", "reason", reason, "commits", c.commits, "undos", c.undos)
}

// Session returns the session ID.
func (c *Controller) Session() string { return c.session }

// Names returns the screen names in display order.
func (c *Controller) Names() []string { return c.order }

// Screen returns a screen by name, or nil.
func (c *Controller) Screen(name string) *Screen { return c.screens[name] }

// Active returns the mounted screen.
func (c *Controller) Active() *Screen { return c.screens[c.active] }

// Commits returns the number of commits this session, undone ones included.
func (c *Controller) Commits() int { return c.commits }

// Undos returns the number of successful undos this session.
func (c *Controller) Undos() int { return c.undos }

// Notice returns the last human-readable status line.
func (c *Controller) Notice() string { return c.notice }

// Viewport returns the interaction area in points.
func (c *Controller) Viewport() (float64, float64) { return c.width, c.height }

// SetViewport resizes every host.
func (c *Controller) SetViewport(width, height float64) {
	c.width, c.height = width, height
	for _, s := range c.screens {
		s.Host.SetViewport(width, height)
	}
}

// Switch unmounts the active host, cancelling its animation, and mounts
// the named one.
func (c *Controller) Switch(name string) error {
	next, ok := c.screens[name]
	if !ok {
		return fmt.Errorf("unknown screen %q", name)
	}
	if name == c.active {
		return nil
	}
	c.Active().Host.Unmount()
	next.Host.Mount()
	c.logger.Debug("screen switched", "from", c.active, "to", name)
	c.active = name
	c.dismissing = false
	return nil
}

// PointerDown starts a gesture on the active host. While an overlay is
// open the press is held to dismiss it on release.
func (c *Controller) PointerDown(x, y float64) bool {
	if c.ended {
		return false
	}
	s := c.Active()
	if s.Overlay() {
		c.dismissing = true
		return true
	}
	if s.Stack != nil && s.Stack.Exhausted() {
		return false
	}
	return s.Host.PointerDown(x, y)
}

// PointerMove updates the live drag.
func (c *Controller) PointerMove(x, y float64) swipe.Frame {
	return c.Active().Host.PointerMove(x, y)
}

// PointerUp releases the gesture.
func (c *Controller) PointerUp(x, y float64) swipe.Outcome {
	if c.dismissing {
		c.dismissing = false
		c.Dismiss()
		return swipe.Tapped
	}
	return c.Active().Host.PointerUp(x, y)
}

// Trigger commits toward dir without a gesture.
func (c *Controller) Trigger(dir swipe.Direction) bool {
	if c.ended || c.Active().Overlay() {
		return false
	}
	if s := c.Active(); s.Stack != nil && s.Stack.Exhausted() {
		return false
	}
	return c.Active().Host.Trigger(dir)
}

// Step advances the active host's animation by one frame.
func (c *Controller) Step(now time.Time) (swipe.Frame, bool) {
	return c.Active().Host.Step(now)
}

// Generation returns the active host's animation generation, or 0.
func (c *Controller) Generation() uint64 {
	return c.Active().Host.Generation()
}

// FrameInterval returns the active host's frame period.
func (c *Controller) FrameInterval() time.Duration {
	return c.Active().Host.FrameInterval()
}

// Dismiss closes the edge capture surface or the feed detail view.
func (c *Controller) Dismiss() bool {
	s := c.Active()
	switch {
	case s.Revealed:
		s.Revealed = false
		c.notice = "capture closed"
	case s.Detail != nil:
		s.Detail = nil
		c.notice = ""
	default:
		return false
	}
	return true
}

// Undo rolls back the active screen's last decision. It is refused while
// a gesture or animation is in progress.
func (c *Controller) Undo() bool {
	s := c.Active()
	if c.ended || s.Stack == nil || s.Host.Pressed() || s.Host.State() != swipe.Idle {
		return false
	}
	entry, ok := s.Stack.Undo()
	if !ok {
		return false
	}
	c.undos++
	item, _ := s.Stack.Current()
	if entry.Decision == swipe.ActionB && len(s.Shared) > 0 && s.Shared[len(s.Shared)-1] == item.ID {
		s.Shared = s.Shared[:len(s.Shared)-1]
	}
	s.Detail = nil
	c.notice = fmt.Sprintf("undid %s on %s", entry.Decision, item.Title)
	c.emit(&events.UndoEvent{
		BaseEvent: c.base(events.EventUndo),
		Host:      s.Name,
		ItemID:    item.ID,
		Decision:  string(entry.Decision),
		Cursor:    s.Stack.Cursor(),
	})
	return true
}

// CarouselLeft steps the deck's top card to its previous image.
func (c *Controller) CarouselLeft() bool { return c.carousel(false) }

// CarouselRight steps the deck's top card to its next image.
func (c *Controller) CarouselRight() bool { return c.carousel(true) }

func (c *Controller) carousel(right bool) bool {
	s := c.Active()
	if s.Name != config.ScreenDeck || s.Host.State() != swipe.Idle {
		return false
	}
	item, ok := s.Stack.Current()
	if !ok {
		return false
	}
	var moved bool
	if right {
		moved = s.Stack.TapRight(item.ID)
	} else {
		moved = s.Stack.TapLeft(item.ID)
	}
	if moved {
		c.emit(&events.CarouselEvent{
			BaseEvent: c.base(events.EventCarousel),
			ItemID:    item.ID,
			Index:     s.Stack.SubIndex(item.ID),
			Count:     len(item.Images),
		})
	}
	return moved
}

func (c *Controller) onCommit(s *Screen, d swipe.Decision, dir swipe.Direction) {
	ev := &events.CommitEvent{
		BaseEvent: c.base(events.EventCommit),
		Host:      s.Name,
		Decision:  string(d),
		Direction: dir.String(),
	}

	if s.Stack == nil {
		// Edge: the commit opens the capture surface.
		s.Revealed = true
		c.notice = "capture open"
	} else {
		item, ok := s.Stack.Current()
		if !ok {
			return
		}
		ev.ItemID, ev.Title = item.ID, item.Title
		ev.Cursor = s.Stack.Cursor() + 1

		switch {
		case s.Name == config.ScreenFeed && d == swipe.ActionA:
			s.Detail = &item
			c.notice = "opened " + item.Title
		case s.Name == config.ScreenFeed && d == swipe.ActionB:
			s.Shared = append(s.Shared, item.ID)
			c.notice = "shared " + item.Title
		default:
			c.notice = fmt.Sprintf("%s %s", d, item.Title)
		}
	}

	c.commits++
	c.emit(ev)
	if s.Stack != nil {
		// Exhaustion is reported after the commit that caused it.
		s.Stack.Advance(d)
	}
}

func (c *Controller) onTap(s *Screen, x, y float64) {
	ev := &events.TapEvent{
		BaseEvent: c.base(events.EventTap),
		Host:      s.Name,
		X:         x,
		Y:         y,
	}
	if s.Stack != nil {
		if item, ok := s.Stack.Current(); ok {
			ev.ItemID = item.ID
		}
	}
	c.emit(ev)

	switch s.Name {
	case config.ScreenDeck:
		// Left half steps back through the images, right half forward.
		c.carousel(x >= c.width/2)
	case config.ScreenFeed:
		if item, ok := s.Stack.Current(); ok {
			s.Detail = &item
			c.notice = "opened " + item.Title
		}
	}
}

func (c *Controller) onRevert(s *Screen) {
	ev := &events.RevertEvent{
		BaseEvent: c.base(events.EventRevert),
		Host:      s.Name,
	}
	if s.Stack != nil {
		if item, ok := s.Stack.Current(); ok {
			ev.ItemID = item.ID
		}
	}
	c.emit(ev)
}

func (c *Controller) onExhausted(s *Screen) {
	c.notice = "no more " + s.Name + " items"
	c.emit(&events.ExhaustedEvent{
		BaseEvent: c.base(events.EventExhausted),
		Host:      s.Name,
		Count:     s.Stack.Len(),
	})
}

func (c *Controller) base(t events.EventType) events.BaseEvent {
	return events.NewSessionEvent(t, c.source, c.session, c.now())
}

func (c *Controller) emit(ev events.Event) {
	if c.router != nil {
		c.router.Emit(ev)
	}
}
