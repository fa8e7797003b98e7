package sprinkler_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sprinkler-ctl/sprinkler-go/pkg/actuator"
	"github.com/sprinkler-ctl/sprinkler-go/pkg/log"
	"github.com/sprinkler-ctl/sprinkler-go/pkg/sprinkler"
	"github.com/sprinkler-ctl/sprinkler-go/pkg/tick"
)

const (
	firstZonePin = 5
	minute       = time.Minute
)

// rig bundles a scheduler with the fakes it drives.
type rig struct {
	s      *sprinkler.Scheduler
	bank   *actuator.PinBank
	clock  *tick.ManualClock
	events *log.MemoryLogger
}

func newRig(t *testing.T, zones int) *rig {
	t.Helper()
	return newRigAt(t, zones, 0)
}

func newRigAt(t *testing.T, zones int, start tick.Tick) *rig {
	t.Helper()

	bank, err := actuator.NewSequentialPinBank(firstZonePin, zones, actuator.ActiveLow)
	require.NoError(t, err)
	clock := tick.NewManualClock(start)
	events := log.NewMemoryLogger(0)

	s, err := sprinkler.New(sprinkler.Config{ZoneCount: zones}, bank, clock,
		sprinkler.WithLogger(events), sprinkler.WithRunID("test-run"))
	require.NoError(t, err)

	return &rig{s: s, bank: bank, clock: clock, events: events}
}

// advance moves the clock forward by d and runs one update.
func (r *rig) advance(t *testing.T, d time.Duration) {
	t.Helper()
	now := r.clock.Advance(d)
	_, err := r.s.Update(now)
	require.NoError(t, err)
}

// requireOnlyOn asserts that zone is the single open valve.
func (r *rig) requireOnlyOn(t *testing.T, zone uint8) {
	t.Helper()
	assert.Equal(t, []uint8{zone}, r.bank.OnZones(), "zone %d should be the only open valve", zone)
	assert.Equal(t, actuator.Low, r.bank.Level(firstZonePin+zone))
}

func (r *rig) requireAllOff(t *testing.T) {
	t.Helper()
	assert.Empty(t, r.bank.OnZones(), "all valves should be closed")
}

// transitions returns the state transitions logged for zone, in order.
func (r *rig) transitions(zone uint8) []log.Transition {
	var out []log.Transition
	for _, ev := range r.events.Events() {
		if ev.StateChange != nil && ev.Zone == zone {
			out = append(out, ev.StateChange.Transition)
		}
	}
	return out
}

// startOrder returns zones in the order their valves opened.
func (r *rig) startOrder() []uint8 {
	var out []uint8
	for _, ev := range r.events.Events() {
		if ev.StateChange != nil && ev.StateChange.Transition == log.TransitionStarted {
			out = append(out, ev.Zone)
		}
	}
	return out
}
