// Package config provides configuration types and defaults for flick.
package config

import (
	"fmt"
	"time"

	"github.com/npratt/flick/internal/swipe"
)

// Screen names, also used as host names in events.
const (
	ScreenDeck = "deck"
	ScreenEdge = "edge"
	ScreenFeed = "feed"
)

// DefaultTapEpsilon is the shared tap-vs-drag threshold in points. A
// release closer than this to its press is a tap.
const DefaultTapEpsilon = 6.0

// Config holds all configuration for flick.
type Config struct {
	Deck        SwipeConfig       `yaml:"deck" mapstructure:"deck"`
	Edge        SwipeConfig       `yaml:"edge" mapstructure:"edge"`
	Feed        SwipeConfig       `yaml:"feed" mapstructure:"feed"`
	Pointer     PointerConfig     `yaml:"pointer" mapstructure:"pointer"`
	Undo        UndoConfig        `yaml:"undo" mapstructure:"undo"`
	Paths       PathsConfig       `yaml:"paths" mapstructure:"paths"`
	LogRotation LogRotationConfig `yaml:"log_rotation" mapstructure:"log_rotation"`
	UI          UIConfig          `yaml:"ui" mapstructure:"ui"`
}

// SwipeConfig is the file form of one host's swipe.Config.
type SwipeConfig struct {
	DistanceThreshold float64           `yaml:"distance_threshold" mapstructure:"distance_threshold"` // Absolute points
	DistanceFraction  float64           `yaml:"distance_fraction" mapstructure:"distance_fraction"`   // Fraction of viewport width (overrides threshold when > 0)
	VelocityThreshold float64           `yaml:"velocity_threshold" mapstructure:"velocity_threshold"` // Points/ms (0 = no velocity override)
	Enabled           []string          `yaml:"enabled" mapstructure:"enabled"`                       // Directions that commit by drag
	Actions           map[string]string `yaml:"actions" mapstructure:"actions"`                       // Direction -> decision
	TapEpsilon        float64           `yaml:"tap_epsilon" mapstructure:"tap_epsilon"`
	EdgeZone          float64           `yaml:"edge_zone" mapstructure:"edge_zone"` // Points from the left edge a drag must start in (0 = anywhere)
	CommitDuration    time.Duration     `yaml:"commit_duration" mapstructure:"commit_duration"`
	OffstageFactor    float64           `yaml:"offstage_factor" mapstructure:"offstage_factor"`
	MaxRotation       float64           `yaml:"max_rotation" mapstructure:"max_rotation"` // Degrees at half the viewport width
	Spring            SpringConfig      `yaml:"spring" mapstructure:"spring"`
	FPS               int               `yaml:"fps" mapstructure:"fps"`
}

// SpringConfig holds revert spring parameters.
type SpringConfig struct {
	Tension  float64 `yaml:"tension" mapstructure:"tension"`
	Friction float64 `yaml:"friction" mapstructure:"friction"`
}

// PointerConfig maps terminal cells to engine points.
type PointerConfig struct {
	CellWidth  float64 `yaml:"cell_width" mapstructure:"cell_width"`
	CellHeight float64 `yaml:"cell_height" mapstructure:"cell_height"`
}

// UndoConfig bounds the undo ledger.
type UndoConfig struct {
	Capacity int `yaml:"capacity" mapstructure:"capacity"`
}

// PathsConfig holds file paths for data and logs.
type PathsConfig struct {
	Items    string `yaml:"items" mapstructure:"items"`         // Deck file (empty = built-in sample deck)
	Feed     string `yaml:"feed" mapstructure:"feed"`           // Feed file (empty = built-in sample feed)
	EventLog string `yaml:"event_log" mapstructure:"event_log"` // JSON lines log of committed actions
	LogDir   string `yaml:"log_dir" mapstructure:"log_dir"`     // Directory for the rotating debug log
}

// LogRotationConfig holds settings for log file rotation.
// Used for the TUI debug log (lumberjack-based automatic rotation).
type LogRotationConfig struct {
	MaxSizeMB  int  `yaml:"max_size_mb" mapstructure:"max_size_mb"`
	MaxBackups int  `yaml:"max_backups" mapstructure:"max_backups"`
	MaxAgeDays int  `yaml:"max_age_days" mapstructure:"max_age_days"`
	Compress   bool `yaml:"compress" mapstructure:"compress"`
}

// UIConfig holds terminal UI settings.
type UIConfig struct {
	StartScreen string `yaml:"start_screen" mapstructure:"start_screen"` // deck, edge or feed
	StackDepth  int    `yaml:"stack_depth" mapstructure:"stack_depth"`   // Underlying cards drawn behind the top card
	Mouse       bool   `yaml:"mouse" mapstructure:"mouse"`               // Enable mouse cell-motion tracking
}

// Default returns a Config with the three stock hosts.
func Default() *Config {
	return &Config{
		Deck: SwipeConfig{
			DistanceThreshold: 120,
			Enabled:           []string{"left", "right"},
			Actions: map[string]string{
				"left":  string(swipe.Reject),
				"right": string(swipe.Accept),
				"up":    string(swipe.SuperAccept), // button only unless "up" is enabled
			},
			TapEpsilon:     DefaultTapEpsilon,
			CommitDuration: 200 * time.Millisecond,
			OffstageFactor: 1.5,
			MaxRotation:    10,
			Spring:         SpringConfig{Tension: 170, Friction: 26},
			FPS:            60,
		},
		Edge: SwipeConfig{
			DistanceFraction:  0.4,
			VelocityThreshold: 0.5,
			Enabled:           []string{"right"},
			Actions:           map[string]string{"right": string(swipe.ActionA)},
			TapEpsilon:        DefaultTapEpsilon,
			EdgeZone:          32,
			CommitDuration:    250 * time.Millisecond,
			OffstageFactor:    1.0,
			MaxRotation:       0,
			Spring:            SpringConfig{Tension: 210, Friction: 20},
			FPS:               60,
		},
		Feed: SwipeConfig{
			DistanceThreshold: 80,
			Enabled:           []string{"left", "right"},
			Actions: map[string]string{
				"right": string(swipe.ActionA),
				"left":  string(swipe.ActionB),
			},
			TapEpsilon:     DefaultTapEpsilon,
			CommitDuration: 150 * time.Millisecond,
			OffstageFactor: 1.2,
			MaxRotation:    0,
			Spring:         SpringConfig{Tension: 300, Friction: 30},
			FPS:            60,
		},
		Pointer: PointerConfig{
			CellWidth:  8,
			CellHeight: 16,
		},
		Undo: UndoConfig{
			Capacity: 50,
		},
		Paths: PathsConfig{
			EventLog: ".flick/events.jsonl",
			LogDir:   ".flick",
		},
		LogRotation: LogRotationConfig{
			MaxSizeMB:  10,
			MaxBackups: 3,
			MaxAgeDays: 7,
			Compress:   true,
		},
		UI: UIConfig{
			StartScreen: ScreenDeck,
			StackDepth:  2,
			Mouse:       true,
		},
	}
}

// Engine converts the file form into the engine's swipe.Config.
func (c SwipeConfig) Engine() (swipe.Config, error) {
	out := swipe.Config{
		DistanceThreshold: c.DistanceThreshold,
		DistanceFraction:  c.DistanceFraction,
		VelocityThreshold: c.VelocityThreshold,
		Enabled:           make(map[swipe.Direction]bool, len(c.Enabled)),
		Actions:           make(map[swipe.Direction]swipe.Decision, len(c.Actions)),
		TapEpsilon:        c.TapEpsilon,
		EdgeZone:          c.EdgeZone,
		CommitDuration:    c.CommitDuration,
		OffstageFactor:    c.OffstageFactor,
		MaxRotation:       c.MaxRotation,
		Spring:            swipe.Spring{Tension: c.Spring.Tension, Friction: c.Spring.Friction},
		FPS:               c.FPS,
	}
	for _, name := range c.Enabled {
		dir, err := swipe.ParseDirection(name)
		if err != nil {
			return swipe.Config{}, fmt.Errorf("enabled: %w", err)
		}
		out.Enabled[dir] = true
	}
	for name, tag := range c.Actions {
		dir, err := swipe.ParseDirection(name)
		if err != nil {
			return swipe.Config{}, fmt.Errorf("actions: %w", err)
		}
		decision, err := swipe.ParseDecision(tag)
		if err != nil {
			return swipe.Config{}, fmt.Errorf("actions.%s: %w", name, err)
		}
		if decision != swipe.None {
			out.Actions[dir] = decision
		}
	}
	return out, nil
}

// Host returns the engine config for a screen name.
func (c *Config) Host(screen string) (swipe.Config, error) {
	var sc SwipeConfig
	switch screen {
	case ScreenDeck:
		sc = c.Deck
	case ScreenEdge:
		sc = c.Edge
	case ScreenFeed:
		sc = c.Feed
	default:
		return swipe.Config{}, fmt.Errorf("unknown screen %q", screen)
	}
	cfg, err := sc.Engine()
	if err != nil {
		return swipe.Config{}, fmt.Errorf("%s: %w", screen, err)
	}
	if err := cfg.Validate(); err != nil {
		return swipe.Config{}, fmt.Errorf("%s: %w", screen, err)
	}
	return cfg, nil
}

// Validate checks every host and the UI settings.
func (c *Config) Validate() error {
	for _, screen := range []string{ScreenDeck, ScreenEdge, ScreenFeed} {
		if _, err := c.Host(screen); err != nil {
			return err
		}
	}
	switch c.UI.StartScreen {
	case ScreenDeck, ScreenEdge, ScreenFeed:
	default:
		return fmt.Errorf("ui.start_screen: unknown screen %q", c.UI.StartScreen)
	}
	if c.Pointer.CellWidth <= 0 || c.Pointer.CellHeight <= 0 {
		return fmt.Errorf("pointer cell size must be positive")
	}
	if c.UI.StackDepth < 0 {
		return fmt.Errorf("ui.stack_depth must not be negative")
	}
	return nil
}
