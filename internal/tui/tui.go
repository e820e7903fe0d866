// Package tui renders the deck, edge and feed screens in the terminal and
// turns mouse drags into pointer input for their swipe hosts.
package tui

import (
	"io"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/npratt/flick/internal/config"
	"github.com/npratt/flick/internal/controller"
	"github.com/npratt/flick/internal/events"
)

// TUI is the interactive front end for one session.
type TUI struct {
	ctrl      *controller.Controller
	cfg       *config.Config
	eventChan <-chan events.Event
	tally     *events.TallySink
	onQuit    func()
	logger    *slog.Logger
	in        io.Reader
	out       io.Writer
}

// Option configures the TUI.
type Option func(*TUI)

// New creates a TUI over ctrl. eventChan is a router subscription used for
// the event ticker; it may be nil.
func New(ctrl *controller.Controller, cfg *config.Config, eventChan <-chan events.Event, opts ...Option) *TUI {
	t := &TUI{
		ctrl:      ctrl,
		cfg:       cfg,
		eventChan: eventChan,
		logger:    slog.Default(),
		in:        os.Stdin,
		out:       os.Stdout,
	}

	for _, opt := range opts {
		opt(t)
	}

	return t
}

// WithOnQuit sets the callback invoked when the user quits.
func WithOnQuit(fn func()) Option {
	return func(t *TUI) {
		t.onQuit = fn
	}
}

// WithTally sets the session tally shown in the header.
func WithTally(s *events.TallySink) Option {
	return func(t *TUI) {
		t.tally = s
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(t *TUI) {
		t.logger = logger
	}
}

// WithIO sets the streams used by the line-mode fallback.
func WithIO(in io.Reader, out io.Writer) Option {
	return func(t *TUI) {
		t.in = in
		t.out = out
	}
}

// Run starts the TUI and blocks until it exits. Without a usable terminal
// it falls back to line mode.
func (t *TUI) Run() error {
	if !isTerminal() || terminalTooSmall() {
		t.logger.Info("no usable terminal, using line mode")
		return t.runSimple()
	}

	m := newModel(t.ctrl, t.cfg, t.eventChan, t.tally, t.onQuit)

	opts := []tea.ProgramOption{tea.WithAltScreen()}
	if t.cfg.UI.Mouse {
		opts = append(opts, tea.WithMouseCellMotion())
	}
	p := tea.NewProgram(m, opts...)
	_, err := p.Run()
	return err
}
