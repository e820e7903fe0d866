package tui

import (
	"log/slog"
	"math"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/npratt/flick/internal/config"
	"github.com/npratt/flick/internal/events"
	"github.com/npratt/flick/internal/swipe"
)

const (
	// maxEventLines is the maximum number of event lines to keep in the buffer.
	maxEventLines = 200
	// trimEventLines is the number of lines to remove when buffer exceeds max.
	trimEventLines = 50
)

// channelClosedMsg signals that the event channel was closed.
type channelClosedMsg struct{}

// frameMsg asks for the next animation frame. gen names the animation it
// was scheduled for; ticks for a replaced or cancelled animation are dropped.
type frameMsg struct {
	gen uint64
	at  time.Time
}

// waitForEvent creates a command that waits for the next event from the channel.
// Returns channelClosedMsg if the channel is closed.
func waitForEvent(ch <-chan events.Event) tea.Cmd {
	return func() tea.Msg {
		event, ok := <-ch
		if !ok {
			return channelClosedMsg{}
		}
		return eventMsg(event)
	}
}

func frameTick(gen uint64, d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return frameMsg{gen: gen, at: t}
	})
}

// animate schedules the first frame of the active host's animation, if any.
func (m model) animate() tea.Cmd {
	gen := m.ctrl.Generation()
	if gen == 0 {
		return nil
	}
	return frameTick(gen, m.ctrl.FrameInterval())
}

// Update implements tea.Model. It handles all message types and updates the model.
func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.reveal.Width = max(10, msg.Width-8)
		m.ctrl.SetViewport(m.toPoints(msg.Width, msg.Height))
		return m, nil

	case frameMsg:
		if msg.gen != m.ctrl.Generation() {
			return m, nil
		}
		if _, more := m.ctrl.Step(msg.at); more {
			return m, frameTick(msg.gen, m.ctrl.FrameInterval())
		}
		return m, nil

	case eventMsg:
		m.handleEvent(events.Event(msg))
		return m, waitForEvent(m.eventChan)

	case channelClosedMsg:
		slog.Info("event channel closed, exiting TUI")
		return m, tea.Quit

	default:
		return m, nil
	}
}

// handleKey processes keyboard input and returns the updated model and command.
func (m model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		if m.onQuit != nil {
			m.onQuit()
		}
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll

	case key.Matches(msg, m.keys.Left):
		return m.trigger(swipe.Left)
	case key.Matches(msg, m.keys.Right):
		return m.trigger(swipe.Right)
	case key.Matches(msg, m.keys.Up, m.keys.Super):
		return m.trigger(swipe.Up)
	case key.Matches(msg, m.keys.Down):
		return m.trigger(swipe.Down)

	case key.Matches(msg, m.keys.Undo):
		m.ctrl.Undo()
	case key.Matches(msg, m.keys.PrevImage):
		m.ctrl.CarouselLeft()
	case key.Matches(msg, m.keys.NextImage):
		m.ctrl.CarouselRight()
	case key.Matches(msg, m.keys.Dismiss):
		m.ctrl.Dismiss()

	case key.Matches(msg, m.keys.NextScreen):
		m.switchTo(m.nextScreen())
	case key.Matches(msg, m.keys.Deck):
		m.switchTo(config.ScreenDeck)
	case key.Matches(msg, m.keys.Edge):
		m.switchTo(config.ScreenEdge)
	case key.Matches(msg, m.keys.Feed):
		m.switchTo(config.ScreenFeed)
	}
	return m, nil
}

func (m model) trigger(dir swipe.Direction) (tea.Model, tea.Cmd) {
	if !m.ctrl.Trigger(dir) {
		return m, nil
	}
	return m, m.animate()
}

func (m model) switchTo(name string) {
	if err := m.ctrl.Switch(name); err != nil {
		slog.Warn("switch screen failed", "screen", name, "error", err)
	}
}

// handleMouse maps left-button drags onto the active host.
func (m model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	x, y := m.toPoints(msg.X, msg.Y)

	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return m, nil
		}
		// A press during a spring revert grabs the card and ends the animation.
		m.ctrl.PointerDown(x, y)
	case tea.MouseActionMotion:
		m.ctrl.PointerMove(x, y)
	case tea.MouseActionRelease:
		m.ctrl.PointerUp(x, y)
		return m, m.animate()
	}
	return m, nil
}

// handleEvent appends a formatted event to the ticker.
func (m *model) handleEvent(event events.Event) {
	text := events.Format(event)
	if text == "" {
		return
	}
	m.eventLines = append(m.eventLines, eventLine{
		Time:  event.Timestamp(),
		Text:  text,
		Style: eventStyle(event),
	})
	if len(m.eventLines) > maxEventLines {
		m.eventLines = m.eventLines[trimEventLines:]
	}
}

func roundInt(v float64) int {
	return int(math.Round(v))
}
