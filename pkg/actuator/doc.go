// Package actuator defines how the scheduler drives zone valves.
//
// The scheduler only ever calls [FlowActuator.SetFlow]. Everything below that
// call (pin numbering, output polarity, relay boards) belongs to the
// actuator implementation.
//
// # Pin Bank
//
// [PinBank] is a simulated bank of digital outputs. Each zone maps to one
// pin, either sequentially from a first pin or from an explicit table. Relay
// boards commonly energize on a LOW output, so [ActiveLow] is the default
// polarity: an idle valve reads HIGH.
//
// PinBank is what the console and scenario runner drive, and it doubles as
// the observable fake in tests: [PinBank.Level] reports the raw output level
// of any pin the same way a logic probe would.
package actuator
