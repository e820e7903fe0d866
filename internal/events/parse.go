package events

import (
	"encoding/json"
	"log/slog"
)

// eventEnvelope is used for initial JSON parsing to determine event type.
type eventEnvelope struct {
	Type EventType `json:"type"`
}

// ParseEvent parses a JSON line into a typed Event.
// Returns nil with no error for unknown event types (for forward compatibility).
func ParseEvent(line []byte) (Event, error) {
	var envelope eventEnvelope
	if err := json.Unmarshal(line, &envelope); err != nil {
		return nil, err
	}

	var ev Event
	switch envelope.Type {
	case EventSessionStart:
		ev = &SessionStartEvent{}
	case EventSessionEnd:
		ev = &SessionEndEvent{}
	case EventCommit:
		ev = &CommitEvent{}
	case EventRevert:
		ev = &RevertEvent{}
	case EventTap:
		ev = &TapEvent{}
	case EventUndo:
		ev = &UndoEvent{}
	case EventExhausted:
		ev = &ExhaustedEvent{}
	case EventCarousel:
		ev = &CarouselEvent{}
	case EventError:
		ev = &ErrorEvent{}
	default:
		slog.Debug("unknown event type", "type", envelope.Type)
		return nil, nil
	}

	if err := json.Unmarshal(line, ev); err != nil {
		return nil, err
	}
	return ev, nil
}

// HostOf returns the host an event belongs to, or "" for session-level
// events.
func HostOf(ev Event) string {
	switch e := ev.(type) {
	case *CommitEvent:
		return e.Host
	case *RevertEvent:
		return e.Host
	case *TapEvent:
		return e.Host
	case *UndoEvent:
		return e.Host
	case *ExhaustedEvent:
		return e.Host
	case *CarouselEvent:
		return "deck"
	default:
		return ""
	}
}
