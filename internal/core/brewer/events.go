package brewer

import "time"

// State is the lifecycle position of a single stage.
type State string

const (
	StateIdle      State = "idle"
	StateRunning   State = "running"
	StatePaused    State = "paused"
	StateCompleted State = "completed"
	StateDone      State = "done"
)

// EventType defines the type of engine event.
type EventType string

const (
	EventSessionStarted  EventType = "session_started"
	EventStageChange     EventType = "stage_change"
	EventProgress        EventType = "progress"
	EventSessionComplete EventType = "session_complete"
	EventSessionReset    EventType = "session_reset"
)

// Event represents an engine update for observers.
type Event struct {
	Type      EventType
	SessionID string
	Stage     int
	State     State
	Remaining time.Duration
	At        time.Time
}
