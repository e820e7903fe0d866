// Package swipe implements the directional gesture-to-decision engine:
// pointer sampling, threshold classification, per-frame animation and the
// host that wires them to a screen.
package swipe

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// Direction is the side a gesture is heading toward.
type Direction int

const (
	NoDirection Direction = iota
	Left
	Right
	Up
	Down
)

// String returns the lowercase name used in config files and events.
func (d Direction) String() string {
	switch d {
	case Left:
		return "left"
	case Right:
		return "right"
	case Up:
		return "up"
	case Down:
		return "down"
	default:
		return "none"
	}
}

// ParseDirection parses a direction name as written in config files.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "left":
		return Left, nil
	case "right":
		return Right, nil
	case "up":
		return Up, nil
	case "down":
		return Down, nil
	}
	return NoDirection, fmt.Errorf("unknown direction %q", s)
}

// horizontal reports whether d lies on the x axis.
func (d Direction) horizontal() bool {
	return d == Left || d == Right
}

// Decision is the terminal outcome of a gesture. The tag set is shared by
// all hosts; each host picks the tags it maps directions to.
type Decision string

const (
	None        Decision = ""
	Accept      Decision = "accept"
	Reject      Decision = "reject"
	SuperAccept Decision = "super_accept"
	ActionA     Decision = "action_a"
	ActionB     Decision = "action_b"
)

// ParseDecision validates a decision tag read from configuration.
func ParseDecision(s string) (Decision, error) {
	d := Decision(strings.ToLower(strings.TrimSpace(s)))
	if d == "none" {
		return None, nil
	}
	switch d {
	case None, Accept, Reject, SuperAccept, ActionA, ActionB:
		return d, nil
	}
	return None, fmt.Errorf("unknown decision %q", s)
}

// Vector is a release vector: final displacement and exit velocity.
// Velocity is in points per millisecond.
type Vector struct {
	DX, DY float64
	VX, VY float64
}

// Spring holds revert spring parameters with unit mass.
type Spring struct {
	Tension  float64 `yaml:"tension" mapstructure:"tension"`
	Friction float64 `yaml:"friction" mapstructure:"friction"`
}

// angularFrequency and dampingRatio convert tension/friction into the
// parameters harmonica expects.
func (s Spring) angularFrequency() float64 {
	return math.Sqrt(s.Tension)
}

func (s Spring) dampingRatio() float64 {
	if s.Tension <= 0 {
		return 1
	}
	return s.Friction / (2 * math.Sqrt(s.Tension))
}

// Config is the per-host swipe configuration. It is the only thing that
// differs between hosts.
type Config struct {
	// DistanceThreshold is the absolute release distance in points.
	DistanceThreshold float64
	// DistanceFraction, when > 0, replaces DistanceThreshold with a
	// fraction of the viewport width at Resolve time.
	DistanceFraction float64
	// VelocityThreshold in points/ms. <= 0 disables the velocity override.
	VelocityThreshold float64
	Enabled           map[Direction]bool
	Actions           map[Direction]Decision
	// TapEpsilon is the maximum pointer displacement still treated as a tap.
	TapEpsilon float64
	// EdgeZone, when > 0, only arms gestures that start within this many
	// points of the left edge.
	EdgeZone       float64
	CommitDuration time.Duration
	OffstageFactor float64
	MaxRotation    float64
	Spring         Spring
	FPS            int
}

// DefaultConfig returns the shared animation defaults with no directions
// enabled.
func DefaultConfig() Config {
	return Config{
		DistanceThreshold: 120,
		TapEpsilon:        6,
		CommitDuration:    200 * time.Millisecond,
		OffstageFactor:    1.5,
		MaxRotation:       10,
		Spring:            Spring{Tension: 170, Friction: 26},
		FPS:               60,
		Enabled:           map[Direction]bool{},
		Actions:           map[Direction]Decision{},
	}
}

// Resolve returns a copy of c with DistanceThreshold made absolute for the
// given viewport width.
func (c Config) Resolve(width float64) Config {
	if c.DistanceFraction > 0 && width > 0 {
		c.DistanceThreshold = c.DistanceFraction * width
	}
	return c
}

// Allows reports whether gestures toward d may commit.
func (c Config) Allows(d Direction) bool {
	return c.Enabled[d] && c.Actions[d] != None
}

// ActionFor returns the decision mapped to d regardless of whether the
// direction is enabled for gestures. Programmatic triggers use this.
func (c Config) ActionFor(d Direction) Decision {
	return c.Actions[d]
}

// FrameInterval is the time between animation frames.
func (c Config) FrameInterval() time.Duration {
	if c.FPS <= 0 {
		return time.Second / 60
	}
	return time.Second / time.Duration(c.FPS)
}

// Validate reports configuration that cannot drive a host.
func (c Config) Validate() error {
	if c.DistanceThreshold < 0 || c.DistanceFraction < 0 {
		return fmt.Errorf("distance threshold must not be negative")
	}
	if c.DistanceThreshold == 0 && c.DistanceFraction == 0 {
		return fmt.Errorf("distance threshold or fraction is required")
	}
	if c.DistanceFraction > 1 {
		return fmt.Errorf("distance fraction must be at most 1, got %v", c.DistanceFraction)
	}
	if c.TapEpsilon < 0 {
		return fmt.Errorf("tap epsilon must not be negative")
	}
	if c.FPS <= 0 {
		return fmt.Errorf("fps must be positive, got %d", c.FPS)
	}
	if c.CommitDuration <= 0 {
		return fmt.Errorf("commit duration must be positive")
	}
	if c.Spring.Tension <= 0 || c.Spring.Friction < 0 {
		return fmt.Errorf("spring tension must be positive and friction non-negative")
	}
	for d := range c.Enabled {
		if c.Actions[d] == None {
			return fmt.Errorf("direction %s is enabled but has no action", d)
		}
	}
	return nil
}
