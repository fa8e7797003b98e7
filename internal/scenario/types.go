// Package scenario loads and runs scripted scheduler scenarios from YAML.
//
// A scenario builds a scheduler on simulated outputs and a manual clock,
// then executes its steps in order, checking expectations after each one.
package scenario

import (
	"github.com/sprinkler-ctl/sprinkler-go/pkg/config"
)

// Scenario is a scripted run of the scheduler.
type Scenario struct {
	// ID is the unique scenario identifier (e.g., "SC-QUEUE-001").
	ID string `yaml:"id"`

	// Name is a human-readable name.
	Name string `yaml:"name"`

	// Description explains what the scenario demonstrates.
	Description string `yaml:"description"`

	// Config describes the zones and limits. Unset fields take the
	// controller defaults.
	Config config.Config `yaml:"config"`

	// StartTick is the clock value when the scenario begins.
	StartTick uint32 `yaml:"start_tick"`

	// Steps are executed in order.
	Steps []Step `yaml:"steps"`

	// Tags for categorizing scenarios.
	Tags []string `yaml:"tags,omitempty"`
}

// Action names.
const (
	ActionOn      = "on"
	ActionOff     = "off"
	ActionAllOn   = "all_on"
	ActionAllOff  = "all_off"
	ActionAdvance = "advance"
	ActionWait    = "wait"
	ActionUpdate  = "update"
	ActionTick    = "tick"
)

var knownActions = map[string]bool{
	ActionOn:      true,
	ActionOff:     true,
	ActionAllOn:   true,
	ActionAllOff:  true,
	ActionAdvance: true,
	ActionWait:    true,
	ActionUpdate:  true,
	ActionTick:    true,
}

// Step is a single action plus the expectations checked after it.
type Step struct {
	// Action is one of the Action* names.
	Action string `yaml:"action"`

	// Params are parameters for the action.
	Params Params `yaml:"params,omitempty"`

	// Expect defines expected outcomes after the action.
	Expect Expect `yaml:"expect,omitempty"`

	// Description explains what this step does.
	Description string `yaml:"description,omitempty"`
}

// Params carries action arguments. Which fields apply depends on the action.
type Params struct {
	Zone *int `yaml:"zone,omitempty"`

	// Duration is the run length for on, or the clock step for wait and tick.
	Duration config.Duration `yaml:"duration,omitempty"`

	// Minutes is an alternative to Duration, as accepted by the console.
	Minutes float64 `yaml:"minutes,omitempty"`

	// Durations are the per-zone run lengths for all_on.
	Durations []config.Duration `yaml:"durations,omitempty"`
}

// Expect lists checks run after a step. Unset checks are skipped.
type Expect struct {
	// On lists exactly the zones whose valves must be open.
	On []uint8 `yaml:"on,omitempty"`

	// AllOff requires every valve closed.
	AllOff bool `yaml:"all_off,omitempty"`

	// Queue is the required queue order from head to tail.
	Queue []uint8 `yaml:"queue,omitempty"`

	// QueueEmpty requires an empty queue.
	QueueEmpty bool `yaml:"queue_empty,omitempty"`

	// States maps zone numbers to idle, queued or flowing.
	States map[uint8]string `yaml:"states,omitempty"`

	// Pins maps pin numbers to LOW or HIGH.
	Pins map[uint8]string `yaml:"pins,omitempty"`

	// Error names the error the action must return: invalid_zone,
	// invalid_duration, not_queued or faulted. Empty means success.
	Error string `yaml:"error,omitempty"`
}

// LoadError provides details about a scenario loading error.
type LoadError struct {
	// File is the path to the file that failed to load.
	File string

	// Message describes the error.
	Message string

	// Cause is the underlying error, if any.
	Cause error
}

func (e *LoadError) Error() string {
	msg := e.Message
	if e.File != "" {
		msg = e.File + ": " + msg
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *LoadError) Unwrap() error {
	return e.Cause
}
