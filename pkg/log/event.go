package log

import (
	"strings"
	"time"

	"github.com/sprinkler-ctl/sprinkler-go/pkg/tick"
)

// NoZone marks an event that does not concern a single zone.
const NoZone uint8 = 0xFF

// Event is one captured scheduler event.
// CBOR encoding uses integer keys for compactness.
type Event struct {
	// Timestamp is the wall-clock time of capture.
	Timestamp time.Time `cbor:"1,keyasint"`

	// RunID identifies the scheduler instance (UUID).
	RunID string `cbor:"2,keyasint"`

	// Tick is the controller counter value the event refers to.
	Tick tick.Tick `cbor:"3,keyasint"`

	// Category classifies the event.
	Category Category `cbor:"4,keyasint"`

	// Zone is the zone concerned, or NoZone.
	Zone uint8 `cbor:"5,keyasint"`

	// Type-specific payload (one of these will be set).
	Command     *CommandEvent     `cbor:"10,keyasint,omitempty"`
	StateChange *StateChangeEvent `cbor:"11,keyasint,omitempty"`
	Error       *ErrorEventData   `cbor:"12,keyasint,omitempty"`
}

// HasZone reports whether the event concerns a single zone.
func (e Event) HasZone() bool {
	return e.Zone != NoZone
}

// Category classifies the event type.
type Category uint8

const (
	// CategoryCommand indicates a caller request.
	CategoryCommand Category = 0
	// CategoryState indicates a zone state transition.
	CategoryState Category = 1
	// CategoryError indicates an error.
	CategoryError Category = 2
)

// String returns the category name.
func (c Category) String() string {
	switch c {
	case CategoryCommand:
		return "COMMAND"
	case CategoryState:
		return "STATE"
	case CategoryError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// ParseCategory parses a category name, case-insensitively.
func ParseCategory(s string) (Category, bool) {
	for _, c := range []Category{CategoryCommand, CategoryState, CategoryError} {
		if strings.EqualFold(s, c.String()) {
			return c, true
		}
	}
	return 0, false
}

// CommandEvent captures a caller request.
type CommandEvent struct {
	// Command is the requested operation.
	Command Command `cbor:"1,keyasint"`

	// Duration is the requested run length (on and all-on only).
	Duration time.Duration `cbor:"2,keyasint,omitempty"`

	// Err is the error text if the request failed.
	Err string `cbor:"3,keyasint,omitempty"`
}

// OK reports whether the command succeeded.
func (c *CommandEvent) OK() bool {
	return c.Err == ""
}

// Command identifies a scheduler operation.
type Command uint8

const (
	// CommandOn requests a zone run.
	CommandOn Command = 0
	// CommandOff removes a zone from scheduling.
	CommandOff Command = 1
	// CommandAllOn requests a run for every zone.
	CommandAllOn Command = 2
	// CommandAllOff removes every zone from scheduling.
	CommandAllOff Command = 3
	// CommandAdvance skips the running zone.
	CommandAdvance Command = 4
)

// String returns the command name.
func (c Command) String() string {
	switch c {
	case CommandOn:
		return "ON"
	case CommandOff:
		return "OFF"
	case CommandAllOn:
		return "ALL_ON"
	case CommandAllOff:
		return "ALL_OFF"
	case CommandAdvance:
		return "ADVANCE"
	default:
		return "UNKNOWN"
	}
}

// StateChangeEvent captures a zone transition.
type StateChangeEvent struct {
	// Transition is what happened.
	Transition Transition `cbor:"1,keyasint"`

	// OldState is the zone state before the transition.
	OldState string `cbor:"2,keyasint,omitempty"`

	// NewState is the zone state after the transition.
	NewState string `cbor:"3,keyasint"`

	// Duration is the zone's requested run length after the transition.
	Duration time.Duration `cbor:"4,keyasint,omitempty"`

	// Elapsed is how long the zone had been flowing (completed and stopped only).
	Elapsed time.Duration `cbor:"5,keyasint,omitempty"`

	// QueueLen is the number of queued zones after the transition.
	QueueLen int `cbor:"6,keyasint"`
}

// Transition identifies a zone state change.
type Transition uint8

const (
	// TransitionQueued indicates a zone joined the pending queue.
	TransitionQueued Transition = 0
	// TransitionDurationChanged indicates a queued zone got a new duration.
	TransitionDurationChanged Transition = 1
	// TransitionStarted indicates a zone's valve opened.
	TransitionStarted Transition = 2
	// TransitionCompleted indicates a zone ran its full duration.
	TransitionCompleted Transition = 3
	// TransitionStopped indicates a zone was removed before completing.
	TransitionStopped Transition = 4
)

// String returns the transition name.
func (t Transition) String() string {
	switch t {
	case TransitionQueued:
		return "QUEUED"
	case TransitionDurationChanged:
		return "DURATION_CHANGED"
	case TransitionStarted:
		return "STARTED"
	case TransitionCompleted:
		return "COMPLETED"
	case TransitionStopped:
		return "STOPPED"
	default:
		return "UNKNOWN"
	}
}

// ParseTransition parses a transition name, case-insensitively.
func ParseTransition(s string) (Transition, bool) {
	for _, t := range []Transition{
		TransitionQueued, TransitionDurationChanged, TransitionStarted,
		TransitionCompleted, TransitionStopped,
	} {
		if strings.EqualFold(s, t.String()) {
			return t, true
		}
	}
	return 0, false
}

// ErrorEventData captures an error.
type ErrorEventData struct {
	// Message is the error text.
	Message string `cbor:"1,keyasint"`

	// Context describes what operation was being performed.
	Context string `cbor:"2,keyasint,omitempty"`

	// Fatal is set when the scheduler stopped accepting commands.
	Fatal bool `cbor:"3,keyasint,omitempty"`
}
