package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/npratt/flick/internal/config"
	"github.com/npratt/flick/internal/controller"
	"github.com/npratt/flick/internal/events"
)

// eventLine represents a formatted event for display.
type eventLine struct {
	Time  time.Time
	Text  string
	Style lipgloss.Style
}

// model is the bubbletea model for the TUI.
type model struct {
	ctrl      *controller.Controller
	cfg       *config.Config
	eventChan <-chan events.Event
	tally     *events.TallySink

	keys   keyMap
	help   help.Model
	reveal progress.Model

	eventLines []eventLine

	width  int
	height int

	onQuit func()
}

// eventMsg wraps an event for the bubbletea message system.
type eventMsg events.Event

func newModel(
	ctrl *controller.Controller,
	cfg *config.Config,
	eventChan <-chan events.Event,
	tally *events.TallySink,
	onQuit func(),
) model {
	return model{
		ctrl:      ctrl,
		cfg:       cfg,
		eventChan: eventChan,
		tally:     tally,
		keys:      defaultKeyMap(),
		help:      help.New(),
		reveal:    progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage()),
		onQuit:    onQuit,
	}
}

// Init implements tea.Model.
func (m model) Init() tea.Cmd {
	if m.eventChan == nil {
		return tea.EnterAltScreen
	}
	return tea.Batch(
		waitForEvent(m.eventChan),
		tea.EnterAltScreen,
	)
}

// toPoints converts a terminal cell to engine points.
func (m model) toPoints(col, row int) (float64, float64) {
	return float64(col) * m.cfg.Pointer.CellWidth, float64(row) * m.cfg.Pointer.CellHeight
}

// toCells converts an engine offset to whole cells.
func (m model) toCells(x, y float64) (int, int) {
	return roundInt(x / m.cfg.Pointer.CellWidth), roundInt(y / m.cfg.Pointer.CellHeight)
}

// nextScreen returns the screen after the active one, wrapping around.
func (m model) nextScreen() string {
	names := m.ctrl.Names()
	active := m.ctrl.Active().Name
	for i, name := range names {
		if name == active {
			return names[(i+1)%len(names)]
		}
	}
	return names[0]
}
