package events

import (
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode"
)

const (
	maxTitleLength    = 40
	maxMessageLength  = 100
	truncateIndicator = "..."
)

// Format converts an event to a human-readable string for display.
// Returns empty string for nil or unknown event types.
func Format(event Event) string {
	if event == nil {
		return ""
	}

	switch e := event.(type) {
	case *SessionStartEvent:
		return formatSessionStart(e)
	case *SessionEndEvent:
		return formatSessionEnd(e)
	case *CommitEvent:
		return formatCommit(e)
	case *RevertEvent:
		return fmt.Sprintf("%s: snapped back %s", e.Host, itemLabel(e.ItemID))
	case *TapEvent:
		return fmt.Sprintf("%s: tap at (%.0f, %.0f) %s", e.Host, e.X, e.Y, itemLabel(e.ItemID))
	case *UndoEvent:
		return fmt.Sprintf("%s: undo %s %s, cursor %d", e.Host, e.Decision, itemLabel(e.ItemID), e.Cursor)
	case *ExhaustedEvent:
		return fmt.Sprintf("%s: out of items after %d", e.Host, e.Count)
	case *CarouselEvent:
		return fmt.Sprintf("deck: %s image %d/%d", SafeString(e.ItemID), e.Index+1, e.Count)
	case *ErrorEvent:
		return formatError(e)
	default:
		return ""
	}
}

// FormatWithTimestamp formats an event with a timestamp prefix.
func FormatWithTimestamp(event Event) string {
	if event == nil {
		return ""
	}
	ts := event.Timestamp().Format("15:04:05.000")
	detail := Format(event)
	if detail == "" {
		return fmt.Sprintf("[%s] %s", ts, event.Type())
	}
	return fmt.Sprintf("[%s] %s", ts, detail)
}

func formatSessionStart(e *SessionStartEvent) string {
	s := fmt.Sprintf("session started on %s: %d cards, %d feed rows", e.Screen, e.DeckSize, e.FeedSize)
	if e.ItemsPath != "" {
		s += " from " + SafeString(e.ItemsPath)
	}
	return s
}

func formatSessionEnd(e *SessionEndEvent) string {
	d := (time.Duration(e.DurationMs) * time.Millisecond).Round(100 * time.Millisecond)
	s := fmt.Sprintf("session ended: %d commits, %d undos in %s", e.Commits, e.Undos, d)
	if e.Reason != "" {
		s += " (" + SafeString(e.Reason) + ")"
	}
	return s
}

func formatCommit(e *CommitEvent) string {
	title := Truncate(e.Title, maxTitleLength)
	if title == "" {
		title = itemLabel(e.ItemID)
	}
	return fmt.Sprintf("%s: %s %s via %s, cursor %d", e.Host, strings.ToUpper(e.Decision), title, e.Direction, e.Cursor)
}

func formatError(e *ErrorEvent) string {
	severity := SafeString(e.Severity)
	if severity == "" {
		severity = SeverityError
	}
	return fmt.Sprintf("%s: %s", strings.ToUpper(severity), Truncate(e.Message, maxMessageLength))
}

func itemLabel(id string) string {
	if id == "" {
		return "(no item)"
	}
	return SafeString(id)
}

// Truncate shortens text to maxLen runes, adding indicator if truncated.
func Truncate(s string, maxLen int) string {
	s = SafeString(s)
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	if maxLen <= len(truncateIndicator) {
		return truncateIndicator
	}
	return string(r[:maxLen-len(truncateIndicator)]) + truncateIndicator
}

// ansiRegex matches ANSI escape sequences.
var ansiRegex = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

// SafeString strips escape sequences and control characters and collapses
// whitespace so item text cannot disturb the terminal.
func SafeString(s string) string {
	s = ansiRegex.ReplaceAllString(s, "")

	var sb strings.Builder
	sb.Grow(len(s))
	for _, r := range s {
		switch {
		case r == '\n' || r == '\r' || r == '\t':
			sb.WriteRune(' ')
		case !unicode.IsControl(r):
			sb.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(sb.String()), " ")
}
