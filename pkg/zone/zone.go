package zone

import (
	"errors"
	"fmt"

	"github.com/sprinkler-ctl/sprinkler-go/pkg/tick"
)

// Zone errors.
var (
	ErrZoneOutOfRange = errors.New("zone out of range")
	ErrAlreadyQueued  = errors.New("zone already queued")
	ErrNotQueued      = errors.New("zone not queued")
)

// MaxZones is the capacity of a zone table.
const MaxZones = 24

// None marks an absent queue link.
const None uint8 = 0xFF

// Zone is one irrigation output.
// Queue membership and links are owned by the Table; the flow fields are
// owned by whoever drives the valves.
type Zone struct {
	id     uint8
	queued bool
	prior  uint8
	next   uint8

	// On is true while the zone's valve is open.
	On bool

	// Duration is the requested run length.
	Duration tick.Tick

	// StartTime is when the valve opened. Meaningful only while On.
	StartTime tick.Tick
}

// ID returns the zone identifier, equal to its table index.
func (z *Zone) ID() uint8 {
	return z.id
}

// Queued reports whether the zone is in the pending queue.
func (z *Zone) Queued() bool {
	return z.queued
}

// Prior returns the zone queued immediately before this one, or None.
func (z *Zone) Prior() uint8 {
	return z.prior
}

// Next returns the zone queued immediately after this one, or None.
func (z *Zone) Next() uint8 {
	return z.next
}

// reset returns the record to its power-up state.
func (z *Zone) reset(id uint8) {
	*z = Zone{id: id, prior: None, next: None}
}

// InvariantError reports a corrupted zone table.
type InvariantError struct {
	// Zone is the record where the inconsistency was found, or None.
	Zone uint8

	// Reason describes the broken invariant.
	Reason string
}

func (e *InvariantError) Error() string {
	if e.Zone == None {
		return "zone table invariant violated: " + e.Reason
	}
	return fmt.Sprintf("zone table invariant violated at zone %d: %s", e.Zone, e.Reason)
}
