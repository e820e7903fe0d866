// Package replay drives the swipe hosts from a YAML gesture script on a
// virtual clock, so gestures can be reproduced without a terminal.
package replay

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Point is a pointer position in engine points.
type Point struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

// Viewport is the interaction area in engine points.
type Viewport struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// Step is one scripted action. Wait advances the virtual clock before the
// action runs; a step may consist of a wait alone.
type Step struct {
	Wait     time.Duration `yaml:"wait,omitempty"`
	Down     *Point        `yaml:"down,omitempty"`
	Move     *Point        `yaml:"move,omitempty"`
	Up       *Point        `yaml:"up,omitempty"`
	Trigger  string        `yaml:"trigger,omitempty"`
	Undo     bool          `yaml:"undo,omitempty"`
	Switch   string        `yaml:"switch,omitempty"`
	Carousel string        `yaml:"carousel,omitempty"`
	Dismiss  bool          `yaml:"dismiss,omitempty"`
	Settle   bool          `yaml:"settle,omitempty"`
}

// actions counts the non-wait actions in the step.
func (s Step) actions() int {
	n := 0
	for _, set := range []bool{
		s.Down != nil, s.Move != nil, s.Up != nil, s.Trigger != "",
		s.Undo, s.Switch != "", s.Carousel != "", s.Dismiss, s.Settle,
	} {
		if set {
			n++
		}
	}
	return n
}

// Script is a parsed gesture script.
type Script struct {
	Screen   string    `yaml:"screen,omitempty"`
	Start    time.Time `yaml:"start,omitempty"`
	Viewport Viewport  `yaml:"viewport"`
	Steps    []Step    `yaml:"steps"`
}

// DefaultViewport is used when a script does not set one.
var DefaultViewport = Viewport{Width: 400, Height: 300}

// ErrEmptyScript is returned for a script without steps.
var ErrEmptyScript = errors.New("script has no steps")

// Load reads and parses a script file.
func Load(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read script: %w", err)
	}
	s, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// Parse decodes and checks a script. Unknown keys are rejected so typos
// do not silently skip steps.
func Parse(data []byte) (*Script, error) {
	var s Script
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse script: %w", err)
	}
	if len(s.Steps) == 0 {
		return nil, ErrEmptyScript
	}
	for i, st := range s.Steps {
		if st.Wait < 0 {
			return nil, fmt.Errorf("step %d: negative wait", i+1)
		}
		n := st.actions()
		if n > 1 {
			return nil, fmt.Errorf("step %d: %d actions, want at most one", i+1, n)
		}
		if n == 0 && st.Wait == 0 {
			return nil, fmt.Errorf("step %d: empty step", i+1)
		}
		if st.Carousel != "" && st.Carousel != "left" && st.Carousel != "right" {
			return nil, fmt.Errorf("step %d: carousel must be left or right, got %q", i+1, st.Carousel)
		}
	}
	if s.Viewport.Width <= 0 || s.Viewport.Height <= 0 {
		s.Viewport = DefaultViewport
	}
	if s.Start.IsZero() {
		s.Start = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	}
	return &s, nil
}
