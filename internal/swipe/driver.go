package swipe

import (
	"log/slog"
	"math"
	"time"

	"github.com/charmbracelet/harmonica"
)

// State is the animation driver state.
type State int

const (
	Idle State = iota
	Tracking
	Committing
	Reverting
)

func (s State) String() string {
	switch s {
	case Tracking:
		return "tracking"
	case Committing:
		return "committing"
	case Reverting:
		return "reverting"
	default:
		return "idle"
	}
}

// Rest thresholds for the revert spring, in points and points per second.
const (
	restDistance = 0.5
	restVelocity = 1.0
)

// Frame is the visual output for one frame.
type Frame struct {
	X, Y         float64
	Rotation     float64 // degrees
	RightOpacity float64
	LeftOpacity  float64
}

// Neutral reports whether the frame is the untransformed rest pose.
func (f Frame) Neutral() bool {
	return f == Frame{}
}

// Interpolate maps v from [inMin, inMax] onto [outMin, outMax], clamped at
// both ends.
func Interpolate(v, inMin, inMax, outMin, outMax float64) float64 {
	if inMax == inMin {
		return outMin
	}
	t := (v - inMin) / (inMax - inMin)
	t = math.Max(0, math.Min(1, t))
	return outMin + t*(outMax-outMin)
}

// Animation is a handle to a scheduled settling animation. Cancelling it
// guarantees its completion callback never runs.
type Animation struct {
	gen       uint64
	kind      State
	onDone    func()
	cancelled bool
	done      bool
}

// Generation identifies the animation; frame ticks carry it so stale ticks
// can be discarded.
func (a *Animation) Generation() uint64 { return a.gen }

// Kind returns Committing or Reverting.
func (a *Animation) Kind() State { return a.kind }

// Cancel stops the animation without running its callback.
func (a *Animation) Cancel() { a.cancelled = true }

// Cancelled reports whether Cancel was called.
func (a *Animation) Cancelled() bool { return a.cancelled }

// Done reports whether the animation ran to completion.
func (a *Animation) Done() bool { return a.done }

// Driver maps the live drag vector to frames and runs commit and revert
// animations. It is not safe for concurrent use; all calls come from the
// UI loop.
type Driver struct {
	cfg    Config
	logger *slog.Logger

	width, height float64

	state  State
	x, y   float64
	ox, oy float64 // offset carried into a re-grab
	vx, vy float64 // spring velocity per axis

	spring harmonica.Spring
	anim   *Animation
	gen    uint64

	fromX, fromY float64
	toX, toY     float64
	started      time.Time
	landed       bool
}

// NewDriver creates an idle driver.
func NewDriver(cfg Config, logger *slog.Logger) *Driver {
	if logger == nil {
		logger = slog.Default()
	}
	fps := cfg.FPS
	if fps <= 0 {
		fps = 60
	}
	return &Driver{
		cfg:    cfg,
		logger: logger,
		spring: harmonica.NewSpring(harmonica.FPS(fps), cfg.Spring.angularFrequency(), cfg.Spring.dampingRatio()),
	}
}

// SetViewport sets the size the interpolation domains derive from.
func (d *Driver) SetViewport(width, height float64) {
	d.width, d.height = width, height
}

// State returns the current state.
func (d *Driver) State() State { return d.state }

// Settling reports whether a non-interactive animation is running.
func (d *Driver) Settling() bool {
	return d.state == Committing || d.state == Reverting
}

// Current returns the in-flight animation, or nil.
func (d *Driver) Current() *Animation { return d.anim }

// Frame computes the outputs for the current translation. It never caches
// anything between frames.
func (d *Driver) Frame() Frame {
	f := Frame{X: d.x, Y: d.y}
	if d.width <= 0 {
		return f
	}
	half, quarter := d.width/2, d.width/4
	f.Rotation = Interpolate(d.x, -half, half, -d.cfg.MaxRotation, d.cfg.MaxRotation)
	f.RightOpacity = Interpolate(d.x, 0, quarter, 0, 1)
	f.LeftOpacity = Interpolate(d.x, -quarter, 0, 1, 0)
	return f
}

// Begin arms tracking. It is refused during a commit. During a revert the
// spring is cancelled and tracking resumes from the current offset.
func (d *Driver) Begin() bool {
	switch d.state {
	case Idle:
		d.ox, d.oy = 0, 0
	case Reverting:
		d.anim.Cancel()
		d.logger.Debug("revert cancelled by re-grab", "generation", d.anim.gen)
		d.anim = nil
		d.ox, d.oy = d.x, d.y
		d.vx, d.vy = 0, 0
	default:
		return false
	}
	d.state = Tracking
	return true
}

// Track moves the card to the drag offset and returns the new frame.
func (d *Driver) Track(dx, dy float64) Frame {
	if d.state != Tracking {
		return d.Frame()
	}
	d.x, d.y = d.ox+dx, d.oy+dy
	return d.Frame()
}

// Commit flings the card off-stage toward dir. done runs after the
// off-stage frame has been presented, followed by a reset to neutral.
// Commit is allowed from Tracking and Idle.
func (d *Driver) Commit(dir Direction, now time.Time, done func()) *Animation {
	if d.Settling() || dir == NoDirection {
		return nil
	}
	d.fromX, d.fromY = d.x, d.y
	d.toX, d.toY = d.x, d.y
	switch dir {
	case Left:
		d.toX = -d.cfg.OffstageFactor * d.width
	case Right:
		d.toX = d.cfg.OffstageFactor * d.width
	case Up:
		d.toY = -d.cfg.OffstageFactor * d.height
	case Down:
		d.toY = d.cfg.OffstageFactor * d.height
	}
	d.started = now
	d.landed = false
	d.state = Committing
	d.anim = d.newAnimation(Committing, done)
	d.logger.Debug("commit animation started", "direction", dir.String(), "generation", d.anim.gen)
	return d.anim
}

// Revert springs the card back to the origin. It never mutates anything
// outside the driver.
func (d *Driver) Revert() *Animation {
	if d.state != Tracking {
		return nil
	}
	d.vx, d.vy = 0, 0
	d.state = Reverting
	d.anim = d.newAnimation(Reverting, nil)
	d.logger.Debug("revert animation started", "generation", d.anim.gen)
	return d.anim
}

func (d *Driver) newAnimation(kind State, done func()) *Animation {
	d.gen++
	return &Animation{gen: d.gen, kind: kind, onDone: done}
}

// Step advances the running animation by one frame. It returns the frame to
// present and whether more frames are needed.
func (d *Driver) Step(now time.Time) (Frame, bool) {
	switch d.state {
	case Committing:
		return d.stepCommit(now)
	case Reverting:
		return d.stepRevert()
	}
	return d.Frame(), false
}

func (d *Driver) stepCommit(now time.Time) (Frame, bool) {
	if d.landed {
		anim := d.anim
		d.anim = nil
		anim.done = true
		if !anim.cancelled && anim.onDone != nil {
			anim.onDone()
		}
		d.reset()
		return d.Frame(), false
	}

	t := 1.0
	if dur := d.cfg.CommitDuration; dur > 0 {
		t = float64(now.Sub(d.started)) / float64(dur)
	}
	if t >= 1 {
		d.x, d.y = d.toX, d.toY
		d.landed = true
		return d.Frame(), true
	}
	e := easeOutCubic(math.Max(0, t))
	d.x = d.fromX + (d.toX-d.fromX)*e
	d.y = d.fromY + (d.toY-d.fromY)*e
	return d.Frame(), true
}

func (d *Driver) stepRevert() (Frame, bool) {
	d.x, d.vx = d.spring.Update(d.x, d.vx, 0)
	d.y, d.vy = d.spring.Update(d.y, d.vy, 0)
	if math.Abs(d.x) < restDistance && math.Abs(d.y) < restDistance &&
		math.Abs(d.vx) < restVelocity && math.Abs(d.vy) < restVelocity {
		d.anim.done = true
		d.anim = nil
		d.reset()
		return d.Frame(), false
	}
	return d.Frame(), true
}

// Cancel aborts any in-flight animation without running its callback and
// returns the driver to a neutral idle pose.
func (d *Driver) Cancel() {
	if d.anim != nil {
		d.anim.Cancel()
		d.logger.Debug("animation cancelled", "kind", d.anim.kind.String(), "generation", d.anim.gen)
		d.anim = nil
	}
	d.reset()
}

func (d *Driver) reset() {
	d.state = Idle
	d.x, d.y = 0, 0
	d.ox, d.oy = 0, 0
	d.vx, d.vy = 0, 0
	d.landed = false
}

func easeOutCubic(t float64) float64 {
	u := 1 - t
	return 1 - u*u*u
}
