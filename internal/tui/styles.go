package tui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/npratt/flick/internal/events"
	"github.com/npratt/flick/internal/swipe"
)

// styles contains all lipgloss styles used by the TUI.
var styles = struct {
	// Layout styles
	Container lipgloss.Style
	Divider   lipgloss.Style

	// Header styles
	Tab       lipgloss.Style
	TabActive lipgloss.Style
	Stats     lipgloss.Style

	// Footer styles
	Footer lipgloss.Style
	Notice lipgloss.Style
	Time   lipgloss.Style

	// Deck
	Card         lipgloss.Style
	CardTitle    lipgloss.Style
	CardSubtitle lipgloss.Style
	Image        lipgloss.Style
	Dot          lipgloss.Style
	DotActive    lipgloss.Style
	Peek         lipgloss.Style
	Empty        lipgloss.Style

	// Edge
	Panel   lipgloss.Style
	Capture lipgloss.Style

	// Feed
	Row       lipgloss.Style
	RowActive lipgloss.Style
	Detail    lipgloss.Style

	// Event styles
	Commit  lipgloss.Style
	Undo    lipgloss.Style
	Muted   lipgloss.Style
	Session lipgloss.Style
	Error   lipgloss.Style
}{
	Container: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")),

	Divider: lipgloss.NewStyle().
		Foreground(lipgloss.Color("240")),

	Tab: lipgloss.NewStyle().
		Padding(0, 1).
		Foreground(lipgloss.Color("245")),

	TabActive: lipgloss.NewStyle().
		Padding(0, 1).
		Bold(true).
		Foreground(lipgloss.Color("230")).
		Background(lipgloss.Color("63")),

	Stats: lipgloss.NewStyle().
		Foreground(lipgloss.Color("220")),

	Footer: lipgloss.NewStyle().
		Foreground(lipgloss.Color("245")),

	Notice: lipgloss.NewStyle().
		Italic(true).
		Foreground(lipgloss.Color("212")),

	Time: lipgloss.NewStyle().
		Foreground(lipgloss.Color("240")),

	Card: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("63")).
		Padding(0, 1),

	CardTitle: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("255")),

	CardSubtitle: lipgloss.NewStyle().
		Foreground(lipgloss.Color("250")),

	Image: lipgloss.NewStyle().
		Foreground(lipgloss.Color("39")),

	Dot: lipgloss.NewStyle().
		Foreground(lipgloss.Color("240")),

	DotActive: lipgloss.NewStyle().
		Foreground(lipgloss.Color("255")),

	Peek: lipgloss.NewStyle().
		Foreground(lipgloss.Color("240")),

	Empty: lipgloss.NewStyle().
		Foreground(lipgloss.Color("245")).
		Italic(true),

	Panel: lipgloss.NewStyle().
		Background(lipgloss.Color("60")),

	Capture: lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(lipgloss.Color("177")).
		Padding(1, 2),

	Row: lipgloss.NewStyle().
		Foreground(lipgloss.Color("250")),

	RowActive: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("255")).
		Background(lipgloss.Color("236")),

	Detail: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("39")).
		Padding(1, 2),

	Commit: lipgloss.NewStyle().
		Foreground(lipgloss.Color("114")),

	Undo: lipgloss.NewStyle().
		Foreground(lipgloss.Color("214")),

	Muted: lipgloss.NewStyle().
		Foreground(lipgloss.Color("245")),

	Session: lipgloss.NewStyle().
		Foreground(lipgloss.Color("177")),

	Error: lipgloss.NewStyle().
		Foreground(lipgloss.Color("196")),
}

// Stamp ramps go from barely visible to full strength.
var (
	positiveRamp = []lipgloss.Color{"22", "28", "34", "40", "46"}
	negativeRamp = []lipgloss.Color{"52", "88", "124", "160", "196"}
	neutralRamp  = []lipgloss.Color{"17", "19", "21", "33", "39"}
)

// stampLabels names each decision on the card overlay.
var stampLabels = map[swipe.Decision]string{
	swipe.Accept:      "LIKE",
	swipe.Reject:      "NOPE",
	swipe.SuperAccept: "SUPER",
	swipe.ActionA:     "OPEN",
	swipe.ActionB:     "SHARE",
}

// stampColor picks the step on the decision's color ramp for opacity.
// Terminals have no alpha, so a brighter step stands in for more opacity.
func stampColor(d swipe.Decision, opacity float64) lipgloss.Color {
	ramp := neutralRamp
	switch d {
	case swipe.Accept, swipe.SuperAccept:
		ramp = positiveRamp
	case swipe.Reject:
		ramp = negativeRamp
	}
	i := min(len(ramp)-1, int(opacity*float64(len(ramp))))
	return ramp[max(0, i)]
}

// stampStyle is the bordered overlay drawn on a dragged card.
func stampStyle(d swipe.Decision, opacity float64) lipgloss.Style {
	c := stampColor(d, opacity)
	return lipgloss.NewStyle().
		Bold(opacity >= 0.5).
		Foreground(c).
		Padding(0, 1).
		Border(lipgloss.NormalBorder()).
		BorderForeground(c)
}

func eventStyle(event events.Event) lipgloss.Style {
	switch event.(type) {
	case *events.CommitEvent:
		return styles.Commit
	case *events.UndoEvent:
		return styles.Undo
	case *events.SessionStartEvent, *events.SessionEndEvent:
		return styles.Session
	case *events.ErrorEvent:
		return styles.Error
	default:
		return styles.Muted
	}
}
