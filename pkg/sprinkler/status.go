package sprinkler

import (
	"fmt"
	"strings"
	"time"

	"github.com/sprinkler-ctl/sprinkler-go/pkg/actuator"
	"github.com/sprinkler-ctl/sprinkler-go/pkg/tick"
	"github.com/sprinkler-ctl/sprinkler-go/pkg/zone"
)

// State is a zone's scheduling state.
type State uint8

const (
	// StateIdle means the zone is not scheduled.
	StateIdle State = iota
	// StateQueued means the zone waits its turn.
	StateQueued
	// StateFlowing means the zone's valve is open.
	StateFlowing
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateQueued:
		return "queued"
	case StateFlowing:
		return "flowing"
	default:
		return "unknown"
	}
}

func stateOf(z *zone.Zone) State {
	switch {
	case z.On:
		return StateFlowing
	case z.Queued():
		return StateQueued
	default:
		return StateIdle
	}
}

// ZoneStatus is a read-only view of one zone.
type ZoneStatus struct {
	ID     uint8
	State  State
	Queued bool
	On     bool

	// Pin is the output pin serving the zone; valid only if HasPin.
	Pin    uint8
	HasPin bool

	// Duration is the requested run length.
	Duration time.Duration

	// Remaining is the time left while flowing, zero otherwise.
	Remaining time.Duration

	// Position is the 0-based queue position, or -1 when not queued.
	Position int
}

// Status reports zone id. Remaining time is computed against the injected
// clock and never goes below zero.
func (s *Scheduler) Status(id uint8) (ZoneStatus, error) {
	if err := s.checkZone(id); err != nil {
		return ZoneStatus{}, err
	}

	z := s.zones.Zone(id)
	st := ZoneStatus{
		ID:       id,
		State:    stateOf(z),
		Queued:   z.Queued(),
		On:       z.On,
		Duration: z.Duration.Duration(),
		Position: s.zones.Position(id),
	}
	if pm, ok := s.act.(actuator.PinMapper); ok {
		st.Pin, st.HasPin = pm.Pin(id)
	}
	if z.On {
		st.Remaining = remaining(z, s.clock.Now())
	}
	return st, nil
}

// remaining returns the flow time left at now, floor-clamped at zero. A
// clock read that predates the start time also yields zero.
func remaining(z *zone.Zone, now tick.Tick) time.Duration {
	elapsed := tick.Elapsed(z.StartTime, now)
	if elapsed >= z.Duration {
		return 0
	}
	return (z.Duration - elapsed).Duration()
}

// Statuses reports every wired zone in index order.
func (s *Scheduler) Statuses() []ZoneStatus {
	out := make([]ZoneStatus, 0, s.cfg.ZoneCount)
	for i := 0; i < s.cfg.ZoneCount; i++ {
		st, _ := s.Status(uint8(i))
		out = append(out, st)
	}
	return out
}

// ZoneCount returns the number of wired zones.
func (s *Scheduler) ZoneCount() int {
	return s.cfg.ZoneCount
}

// MaxDuration returns the clamp applied to requested durations.
func (s *Scheduler) MaxDuration() time.Duration {
	return s.cfg.MaxDuration
}

// Queue returns the queued zones from head to tail.
func (s *Scheduler) Queue() []uint8 {
	return s.zones.IDs()
}

// Active returns the flowing zone, if any.
func (s *Scheduler) Active() (uint8, bool) {
	head := s.zones.Head()
	if head == nil || !head.On {
		return 0, false
	}
	return head.ID(), true
}

// Dump renders the zone table for debugging: one row per field, one column
// per wired zone. Links to no zone print as -1.
func (s *Scheduler) Dump() string {
	var b strings.Builder
	n := s.cfg.ZoneCount
	head, tail := s.zones.Head(), s.zones.Tail()

	row := func(label string, cell func(z *zone.Zone) string) {
		fmt.Fprintf(&b, "%6s:", label)
		for i := 0; i < n; i++ {
			fmt.Fprintf(&b, " %4s", cell(s.zones.Zone(uint8(i))))
		}
		b.WriteByte('\n')
	}
	flag := func(v bool) string {
		if v {
			return "1"
		}
		return "0"
	}
	marker := func(v bool) string {
		if v {
			return "^"
		}
		return ""
	}
	link := func(id uint8) string {
		if id == zone.None {
			return "-1"
		}
		return fmt.Sprint(id)
	}

	row("zone", func(z *zone.Zone) string { return fmt.Sprint(z.ID()) })
	if pm, ok := s.act.(actuator.PinMapper); ok {
		row("pin", func(z *zone.Zone) string {
			if p, ok := pm.Pin(z.ID()); ok {
				return fmt.Sprint(p)
			}
			return "-"
		})
	}
	row("on", func(z *zone.Zone) string { return flag(z.On) })
	row("queued", func(z *zone.Zone) string { return flag(z.Queued()) })
	row("head", func(z *zone.Zone) string { return marker(z == head) })
	row("tail", func(z *zone.Zone) string { return marker(z == tail) })
	row("next", func(z *zone.Zone) string { return link(z.Next()) })
	row("prior", func(z *zone.Zone) string { return link(z.Prior()) })
	return b.String()
}
