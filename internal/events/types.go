// Package events defines the event taxonomy for flick and the plumbing that
// moves events from the swipe hosts to the log and state sinks.
package events

import "time"

// EventType identifies the category and nature of an event.
type EventType string

const (
	// Session events
	EventSessionStart EventType = "session.start"
	EventSessionEnd   EventType = "session.end"

	// Gesture events, one per resolved release or button press
	EventCommit EventType = "gesture.commit"
	EventRevert EventType = "gesture.revert"
	EventTap    EventType = "gesture.tap"

	// Stack events
	EventUndo      EventType = "stack.undo"
	EventExhausted EventType = "stack.exhausted"
	EventCarousel  EventType = "stack.carousel"

	// Error events
	EventError EventType = "error"
)

// Source constants identify the origin of events.
const (
	SourceTUI    = "tui"
	SourceReplay = "replay"
	SourceCLI    = "flick"
)

// Event is the base interface for all events in the system.
type Event interface {
	Type() EventType
	Timestamp() time.Time
	Source() string
}

// BaseEvent provides the common fields for all events.
type BaseEvent struct {
	EventType EventType `json:"type"`
	Time      time.Time `json:"timestamp"`
	Src       string    `json:"source"`
	Session   string    `json:"session,omitempty"`
}

// Type returns the event type.
func (e BaseEvent) Type() EventType {
	return e.EventType
}

// Timestamp returns when the event occurred.
func (e BaseEvent) Timestamp() time.Time {
	return e.Time
}

// Source returns the origin of the event.
func (e BaseEvent) Source() string {
	return e.Src
}

// SessionStartEvent is emitted when a run or replay begins.
type SessionStartEvent struct {
	BaseEvent
	Screen    string `json:"screen"`
	DeckSize  int    `json:"deck_size"`
	FeedSize  int    `json:"feed_size"`
	ItemsPath string `json:"items_path,omitempty"`
}

// SessionEndEvent is emitted when a run or replay ends.
type SessionEndEvent struct {
	BaseEvent
	Commits    int    `json:"commits"`
	Undos      int    `json:"undos"`
	DurationMs int64  `json:"duration_ms"`
	Reason     string `json:"reason,omitempty"`
}

// CommitEvent is emitted after a committed card has left the stage.
type CommitEvent struct {
	BaseEvent
	Host      string `json:"host"`
	ItemID    string `json:"item_id,omitempty"`
	Title     string `json:"title,omitempty"`
	Decision  string `json:"decision"`
	Direction string `json:"direction"`
	Cursor    int    `json:"cursor"`
}

// RevertEvent is emitted when a release classifies to no decision.
type RevertEvent struct {
	BaseEvent
	Host   string `json:"host"`
	ItemID string `json:"item_id,omitempty"`
}

// TapEvent is emitted for a release within the tap epsilon.
type TapEvent struct {
	BaseEvent
	Host   string  `json:"host"`
	ItemID string  `json:"item_id,omitempty"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
}

// UndoEvent is emitted when the most recent decision is rolled back.
type UndoEvent struct {
	BaseEvent
	Host     string `json:"host"`
	ItemID   string `json:"item_id,omitempty"`
	Decision string `json:"decision"`
	Cursor   int    `json:"cursor"`
}

// ExhaustedEvent is emitted each time a stack runs out of items.
type ExhaustedEvent struct {
	BaseEvent
	Host  string `json:"host"`
	Count int    `json:"count"`
}

// CarouselEvent is emitted when a tap moves an item's image index.
type CarouselEvent struct {
	BaseEvent
	ItemID string `json:"item_id"`
	Index  int    `json:"index"`
	Count  int    `json:"count"`
}

// Severity constants for error events.
const (
	SeverityWarning = "warning"
	SeverityError   = "error"
)

// ErrorEvent is emitted for any error condition.
type ErrorEvent struct {
	BaseEvent
	Message  string            `json:"message"`
	Severity string            `json:"severity"`
	Context  map[string]string `json:"context,omitempty"`
}

// NewEvent creates a BaseEvent with the given type and source.
func NewEvent(eventType EventType, source string) BaseEvent {
	return BaseEvent{
		EventType: eventType,
		Time:      time.Now(),
		Src:       source,
	}
}

// NewSessionEvent creates a BaseEvent stamped with a session ID and time.
func NewSessionEvent(eventType EventType, source, session string, at time.Time) BaseEvent {
	return BaseEvent{
		EventType: eventType,
		Time:      at,
		Src:       source,
		Session:   session,
	}
}
