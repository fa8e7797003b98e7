package actuator

import (
	"errors"
	"fmt"
	"sync"
)

// Actuator errors.
var (
	ErrUnknownZone  = errors.New("unknown zone")
	ErrInvalidPin   = errors.New("invalid pin")
	ErrDuplicatePin = errors.New("duplicate pin")
	ErrNoPins       = errors.New("no pins configured")
)

// MaxPin is the highest addressable output pin.
const MaxPin = 63

// FlowActuator opens and closes zone valves.
// SetFlow must be synchronous and idempotent.
type FlowActuator interface {
	SetFlow(zone uint8, on bool) error
}

// PinMapper is implemented by actuators that know which output pin serves a
// zone. The scheduler uses it for status reporting only.
type PinMapper interface {
	Pin(zone uint8) (uint8, bool)
}

// Level is a digital output level.
type Level uint8

const (
	// Low is a driven-low output.
	Low Level = 0
	// High is a driven-high output.
	High Level = 1
)

// String returns the level name.
func (l Level) String() string {
	switch l {
	case Low:
		return "LOW"
	case High:
		return "HIGH"
	default:
		return "UNKNOWN"
	}
}

// Polarity selects which output level opens a valve.
type Polarity uint8

const (
	// ActiveLow opens a valve by driving its pin LOW.
	ActiveLow Polarity = iota
	// ActiveHigh opens a valve by driving its pin HIGH.
	ActiveHigh
)

// String returns the polarity name as used in configuration files.
func (p Polarity) String() string {
	switch p {
	case ActiveLow:
		return "active_low"
	case ActiveHigh:
		return "active_high"
	default:
		return "unknown"
	}
}

// ParsePolarity parses a polarity name. The empty string selects ActiveLow.
func ParsePolarity(s string) (Polarity, error) {
	switch s {
	case "", "active_low", "low":
		return ActiveLow, nil
	case "active_high", "high":
		return ActiveHigh, nil
	default:
		return ActiveLow, fmt.Errorf("unknown polarity %q", s)
	}
}

// OnLevel returns the output level that opens a valve.
func (p Polarity) OnLevel() Level {
	if p == ActiveHigh {
		return High
	}
	return Low
}

// OffLevel returns the output level that closes a valve.
func (p Polarity) OffLevel() Level {
	if p == ActiveHigh {
		return Low
	}
	return High
}

// PinBank is a simulated set of digital outputs, one per zone.
// It is safe for concurrent use.
type PinBank struct {
	mu       sync.RWMutex
	pins     []uint8
	levels   map[uint8]Level
	polarity Polarity
	writes   int
}

// NewPinBank creates a PinBank where zone i is served by pins[i].
// All outputs start at the polarity's off level.
func NewPinBank(pins []uint8, polarity Polarity) (*PinBank, error) {
	if len(pins) == 0 {
		return nil, ErrNoPins
	}

	seen := make(map[uint8]bool, len(pins))
	for i, p := range pins {
		if p > MaxPin {
			return nil, fmt.Errorf("zone %d: %w: %d > %d", i, ErrInvalidPin, p, MaxPin)
		}
		if seen[p] {
			return nil, fmt.Errorf("zone %d: %w: %d", i, ErrDuplicatePin, p)
		}
		seen[p] = true
	}

	b := &PinBank{
		pins:     append([]uint8(nil), pins...),
		levels:   make(map[uint8]Level, len(pins)),
		polarity: polarity,
	}
	for _, p := range pins {
		b.levels[p] = polarity.OffLevel()
	}
	return b, nil
}

// NewSequentialPinBank creates a PinBank serving count zones from
// consecutive pins starting at firstPin.
func NewSequentialPinBank(firstPin uint8, count int, polarity Polarity) (*PinBank, error) {
	if count <= 0 {
		return nil, ErrNoPins
	}
	if int(firstPin)+count-1 > MaxPin {
		return nil, fmt.Errorf("%w: pins %d..%d exceed %d", ErrInvalidPin, firstPin, int(firstPin)+count-1, MaxPin)
	}
	return NewPinBank(SequentialPins(firstPin, count), polarity)
}

// SequentialPins returns count consecutive pin numbers starting at first.
func SequentialPins(first uint8, count int) []uint8 {
	pins := make([]uint8, count)
	for i := range pins {
		pins[i] = first + uint8(i)
	}
	return pins
}

// SetFlow drives the zone's pin to the on or off level.
func (b *PinBank) SetFlow(zone uint8, on bool) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if int(zone) >= len(b.pins) {
		return fmt.Errorf("%w: %d", ErrUnknownZone, zone)
	}

	level := b.polarity.OffLevel()
	if on {
		level = b.polarity.OnLevel()
	}
	b.levels[b.pins[zone]] = level
	b.writes++
	return nil
}

// Pin returns the pin serving zone.
func (b *PinBank) Pin(zone uint8) (uint8, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if int(zone) >= len(b.pins) {
		return 0, false
	}
	return b.pins[zone], true
}

// Pins returns a copy of the zone-to-pin table.
func (b *PinBank) Pins() []uint8 {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return append([]uint8(nil), b.pins...)
}

// Level returns the output level of pin. Unknown pins read as the off level.
func (b *PinBank) Level(pin uint8) Level {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if l, ok := b.levels[pin]; ok {
		return l
	}
	return b.polarity.OffLevel()
}

// IsOn reports whether zone's valve is open.
func (b *PinBank) IsOn(zone uint8) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if int(zone) >= len(b.pins) {
		return false
	}
	return b.levels[b.pins[zone]] == b.polarity.OnLevel()
}

// OnZones returns the zones whose valves are open, in ascending order.
func (b *PinBank) OnZones() []uint8 {
	b.mu.RLock()
	defer b.mu.RUnlock()

	var zones []uint8
	for i, p := range b.pins {
		if b.levels[p] == b.polarity.OnLevel() {
			zones = append(zones, uint8(i))
		}
	}
	return zones
}

// Writes returns how many SetFlow calls succeeded.
func (b *PinBank) Writes() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.writes
}

// Polarity returns the bank's output polarity.
func (b *PinBank) Polarity() Polarity {
	return b.polarity
}

// ZoneCount returns the number of zones the bank serves.
func (b *PinBank) ZoneCount() int {
	return len(b.pins)
}

// Compile-time interface satisfaction checks.
var (
	_ FlowActuator = (*PinBank)(nil)
	_ PinMapper    = (*PinBank)(nil)
)
