package swipe

import (
	"log/slog"
	"math"
	"time"
)

// Outcome is what a pointer release resolved to.
type Outcome int

const (
	Ignored Outcome = iota
	Tapped
	Committed
	Reverted
)

func (o Outcome) String() string {
	switch o {
	case Tapped:
		return "tapped"
	case Committed:
		return "committed"
	case Reverted:
		return "reverted"
	default:
		return "ignored"
	}
}

// Host composes a sampler, classifier and driver for one screen. The
// callbacks decide what a commit means for that screen.
type Host struct {
	name     string
	cfg      Config
	resolved Config

	sampler *Sampler
	driver  *Driver
	now     func() time.Time
	logger  *slog.Logger

	onCommit func(Decision, Direction)
	onTap    func(x, y float64)
	onRevert func()

	pressed      bool
	downX, downY float64
	unmounted    bool
}

// Option configures a Host.
type Option func(*Host)

// WithClock sets the clock used for sampling and commit timing.
func WithClock(now func() time.Time) Option {
	return func(h *Host) {
		h.now = now
	}
}

// WithLogger sets the logger for gesture diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(h *Host) {
		h.logger = logger
	}
}

// WithOnCommit sets the callback fired once per committed gesture, after
// the card has visually left.
func WithOnCommit(fn func(Decision, Direction)) Option {
	return func(h *Host) {
		h.onCommit = fn
	}
}

// WithOnTap sets the callback fired when a release stays within the tap
// epsilon. x and y are the release position.
func WithOnTap(fn func(x, y float64)) Option {
	return func(h *Host) {
		h.onTap = fn
	}
}

// WithOnRevert sets the callback fired when a release classifies to None.
func WithOnRevert(fn func()) Option {
	return func(h *Host) {
		h.onRevert = fn
	}
}

// NewHost creates a mounted host.
func NewHost(name string, cfg Config, opts ...Option) *Host {
	h := &Host{
		name:     name,
		cfg:      cfg,
		resolved: cfg,
		now:      time.Now,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(h)
	}
	h.logger = h.logger.With("host", name)
	h.sampler = NewSampler(h.now)
	h.driver = NewDriver(cfg, h.logger)
	return h
}

// Name returns the host name.
func (h *Host) Name() string { return h.name }

// Config returns the configuration resolved for the current viewport.
func (h *Host) Config() Config { return h.resolved }

// SetViewport resizes the interaction area.
func (h *Host) SetViewport(width, height float64) {
	h.resolved = h.cfg.Resolve(width)
	h.driver.SetViewport(width, height)
}

// State returns the driver state.
func (h *Host) State() State { return h.driver.State() }

// Frame returns the current visual frame.
func (h *Host) Frame() Frame { return h.driver.Frame() }

// Pressed reports whether a pointer is down on this host.
func (h *Host) Pressed() bool { return h.pressed }

// PointerDown arms a gesture. It is refused while unmounted, while another
// pointer is down, during a commit, or outside the edge zone.
func (h *Host) PointerDown(x, y float64) bool {
	if h.unmounted || h.pressed {
		return false
	}
	if h.cfg.EdgeZone > 0 && x > h.cfg.EdgeZone {
		return false
	}
	if !h.driver.Begin() {
		h.logger.Debug("pointer down rejected while settling")
		return false
	}
	h.sampler.Begin()
	h.pressed = true
	h.downX, h.downY = x, y
	return true
}

// PointerMove updates the live drag and returns the frame to render.
func (h *Host) PointerMove(x, y float64) Frame {
	if !h.pressed {
		return h.driver.Frame()
	}
	dx, dy := x-h.downX, y-h.downY
	h.sampler.Update(dx, dy)
	return h.driver.Track(dx, dy)
}

// PointerUp releases the gesture. A release without a matching press, or a
// duplicate release, is ignored.
func (h *Host) PointerUp(x, y float64) Outcome {
	if !h.pressed {
		return Ignored
	}
	h.pressed = false
	dx, dy := x-h.downX, y-h.downY
	h.driver.Track(dx, dy)
	v := h.sampler.End(dx, dy)

	if math.Hypot(dx, dy) <= h.cfg.TapEpsilon {
		// A tap that re-grabbed a reverting card still has to spring back.
		if f := h.driver.Frame(); math.Hypot(f.X, f.Y) <= h.cfg.TapEpsilon {
			h.driver.Cancel()
		} else {
			h.driver.Revert()
		}
		if h.onTap != nil {
			h.onTap(x, y)
		}
		return Tapped
	}

	f := h.driver.Frame()
	release := Vector{DX: f.X, DY: f.Y, VX: v.VX, VY: v.VY}
	decision, dir := Classify(release, h.resolved)
	if decision == None {
		h.logger.Debug("gesture reverted", "dx", release.DX, "dy", release.DY, "vx", release.VX, "vy", release.VY)
		h.driver.Revert()
		if h.onRevert != nil {
			h.onRevert()
		}
		return Reverted
	}
	h.logger.Debug("gesture committed", "decision", string(decision), "direction", dir.String(),
		"dx", release.DX, "vx", release.VX)
	h.commit(decision, dir)
	return Committed
}

// Trigger commits toward dir without a gesture, using the direction's
// mapped action even if the direction is not enabled for dragging.
func (h *Host) Trigger(dir Direction) bool {
	if h.unmounted || h.pressed || h.driver.State() != Idle {
		return false
	}
	decision := h.cfg.ActionFor(dir)
	if decision == None {
		return false
	}
	h.commit(decision, dir)
	return true
}

func (h *Host) commit(decision Decision, dir Direction) {
	h.driver.Commit(dir, h.now(), func() {
		if h.onCommit != nil {
			h.onCommit(decision, dir)
		}
	})
}

// Step advances the settling animation by one frame.
func (h *Host) Step(now time.Time) (Frame, bool) {
	if h.unmounted {
		return Frame{}, false
	}
	return h.driver.Step(now)
}

// Generation returns the in-flight animation's generation, or 0.
func (h *Host) Generation() uint64 {
	if a := h.driver.Current(); a != nil {
		return a.Generation()
	}
	return 0
}

// FrameInterval returns the configured frame period.
func (h *Host) FrameInterval() time.Duration {
	return h.cfg.FrameInterval()
}

// Unmount cancels any settling animation without firing its callback and
// ignores input until Mount.
func (h *Host) Unmount() {
	h.driver.Cancel()
	h.sampler.End(0, 0)
	h.pressed = false
	h.unmounted = true
}

// Mount re-enables input after Unmount.
func (h *Host) Mount() {
	h.unmounted = false
}

// Mounted reports whether the host accepts input.
func (h *Host) Mounted() bool { return !h.unmounted }
