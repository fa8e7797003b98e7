package sprinkler

import (
	"errors"
	"fmt"
	"time"

	"github.com/sprinkler-ctl/sprinkler-go/pkg/actuator"
	"github.com/sprinkler-ctl/sprinkler-go/pkg/log"
	"github.com/sprinkler-ctl/sprinkler-go/pkg/tick"
	"github.com/sprinkler-ctl/sprinkler-go/pkg/zone"
)

// Scheduler runs queued zones one at a time.
type Scheduler struct {
	cfg    Config
	zones  *zone.Table
	act    actuator.FlowActuator
	clock  tick.Clock
	logger log.Logger
	runID  string

	// fault is the invariant violation that stopped the scheduler.
	fault error
}

// New creates a scheduler for cfg.ZoneCount zones and drives every wired
// zone's valve closed.
func New(cfg Config, act actuator.FlowActuator, clock tick.Clock, opts ...Option) (*Scheduler, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if act == nil {
		return nil, errors.New("sprinkler: nil actuator")
	}
	if clock == nil {
		return nil, errors.New("sprinkler: nil clock")
	}

	s := &Scheduler{
		cfg:    cfg.withDefaults(),
		zones:  zone.NewTable(),
		act:    act,
		clock:  clock,
		logger: log.NoopLogger{},
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.runID == "" {
		s.runID = newRunID()
	}

	for i := 0; i < s.cfg.ZoneCount; i++ {
		if err := act.SetFlow(uint8(i), false); err != nil {
			return nil, fmt.Errorf("zone %d: close valve: %w", i, err)
		}
	}
	return s, nil
}

// On requests that zone id flow for d. Durations above the configured
// maximum are clamped. A zone that is already queued, waiting or flowing,
// keeps its place and only gets the new duration.
func (s *Scheduler) On(id uint8, d time.Duration) error {
	err := s.on(id, d)
	s.logCommand(log.CommandOn, id, d, err)
	return err
}

func (s *Scheduler) on(id uint8, d time.Duration) error {
	if err := s.checkFault(); err != nil {
		return err
	}
	if err := s.checkZone(id); err != nil {
		return err
	}
	if d < tick.Resolution {
		return fmt.Errorf("%w: %v", ErrInvalidDuration, d)
	}
	if d > s.cfg.MaxDuration {
		d = s.cfg.MaxDuration
	}

	z := s.zones.Zone(id)
	old := stateOf(z)
	z.Duration = tick.FromDuration(d)

	if z.Queued() {
		s.logState(s.clock.Now(), z, log.TransitionDurationChanged, old, 0)
		return nil
	}
	if err := s.zones.Enqueue(id); err != nil {
		return err
	}
	s.logState(s.clock.Now(), z, log.TransitionQueued, old, 0)
	return nil
}

// Off removes zone id from scheduling, closing its valve if it is flowing.
func (s *Scheduler) Off(id uint8) error {
	err := s.off(id)
	s.logCommand(log.CommandOff, id, 0, err)
	return err
}

func (s *Scheduler) off(id uint8) error {
	if err := s.checkFault(); err != nil {
		return err
	}
	if err := s.checkZone(id); err != nil {
		return err
	}

	z := s.zones.Zone(id)
	if !z.Queued() {
		return fmt.Errorf("%w: %d", ErrNotQueued, id)
	}

	old := stateOf(z)
	var elapsed tick.Tick
	if z.On {
		if s.zones.Head() != z {
			return s.failStop("off", &zone.InvariantError{Zone: id, Reason: "flowing but not queue head"})
		}
		now := s.clock.Now()
		if err := s.act.SetFlow(id, false); err != nil {
			s.logError(id, "off", err, false)
			return fmt.Errorf("zone %d: close valve: %w", id, err)
		}
		elapsed = tick.Elapsed(z.StartTime, now)
		z.On = false
		z.StartTime = 0
	}

	if err := s.zones.Remove(id); err != nil {
		return err
	}
	s.logState(s.clock.Now(), z, log.TransitionStopped, old, elapsed)
	return nil
}

// AllOn queues zone i for durations[i], in index order. Zero entries are
// skipped. Failing entries do not stop the batch; their errors are joined.
func (s *Scheduler) AllOn(durations []time.Duration) error {
	err := s.allOn(durations)
	s.logCommand(log.CommandAllOn, log.NoZone, 0, err)
	return err
}

func (s *Scheduler) allOn(durations []time.Duration) error {
	if err := s.checkFault(); err != nil {
		return err
	}
	if len(durations) > s.cfg.ZoneCount {
		return fmt.Errorf("%w: %d durations for %d zones", ErrInvalidZone, len(durations), s.cfg.ZoneCount)
	}

	var errs []error
	for i, d := range durations {
		if d == 0 {
			continue
		}
		if err := s.on(uint8(i), d); err != nil {
			errs = append(errs, fmt.Errorf("zone %d: %w", i, err))
		}
	}
	return errors.Join(errs...)
}

// AllOff removes every wired zone from scheduling, in index order.
func (s *Scheduler) AllOff() error {
	err := s.allOff()
	s.logCommand(log.CommandAllOff, log.NoZone, 0, err)
	return err
}

func (s *Scheduler) allOff() error {
	if err := s.checkFault(); err != nil {
		return err
	}

	var errs []error
	for i := 0; i < s.cfg.ZoneCount; i++ {
		err := s.off(uint8(i))
		if err == nil || errors.Is(err, ErrNotQueued) {
			continue
		}
		errs = append(errs, err)
		if errors.Is(err, ErrFaulted) || s.fault != nil {
			break
		}
	}
	return errors.Join(errs...)
}

// Advance ends the zone at the head of the queue early. It is a no-op when
// nothing is queued.
func (s *Scheduler) Advance() error {
	if err := s.checkFault(); err != nil {
		s.logCommand(log.CommandAdvance, log.NoZone, 0, err)
		return err
	}

	head := s.zones.Head()
	if head == nil {
		s.logCommand(log.CommandAdvance, log.NoZone, 0, nil)
		return nil
	}
	id := head.ID()
	err := s.off(id)
	s.logCommand(log.CommandAdvance, id, 0, err)
	return err
}

// Update advances the queue head against now. It reports whether a head
// existed to process.
func (s *Scheduler) Update(now tick.Tick) (bool, error) {
	if err := s.checkFault(); err != nil {
		return false, err
	}
	if err := s.zones.Check(); err != nil {
		return false, s.failStop("update", err)
	}

	z := s.zones.Head()
	if z == nil {
		return false, nil
	}
	id := z.ID()

	if !z.On {
		if err := s.act.SetFlow(id, true); err != nil {
			s.logError(id, "start flow", err, false)
			return true, fmt.Errorf("zone %d: open valve: %w", id, err)
		}
		z.On = true
		z.StartTime = now
		s.logState(now, z, log.TransitionStarted, StateQueued, 0)
		return true, nil
	}

	elapsed := tick.Elapsed(z.StartTime, now)
	if elapsed < z.Duration {
		return true, nil
	}

	if err := s.act.SetFlow(id, false); err != nil {
		s.logError(id, "stop flow", err, false)
		return true, fmt.Errorf("zone %d: close valve: %w", id, err)
	}
	z.On = false
	z.StartTime = 0
	if err := s.zones.Remove(id); err != nil {
		return true, s.failStop("update", err)
	}
	s.logState(now, z, log.TransitionCompleted, StateFlowing, elapsed)
	return true, nil
}

// Poll calls Update with the injected clock's current value.
func (s *Scheduler) Poll() (bool, error) {
	return s.Update(s.clock.Now())
}

// Faulted returns the invariant violation that stopped the scheduler, or nil.
func (s *Scheduler) Faulted() error {
	return s.fault
}

// RunID returns the ID stamped on this scheduler's events.
func (s *Scheduler) RunID() string {
	return s.runID
}

func (s *Scheduler) checkZone(id uint8) error {
	if int(id) >= s.cfg.ZoneCount {
		return fmt.Errorf("%w: %d (have %d zones)", ErrInvalidZone, id, s.cfg.ZoneCount)
	}
	return nil
}

func (s *Scheduler) checkFault() error {
	if s.fault != nil {
		return fmt.Errorf("%w: %w", ErrFaulted, s.fault)
	}
	return nil
}

// failStop latches err as the scheduler fault and closes every wired valve.
func (s *Scheduler) failStop(context string, err error) error {
	s.fault = err

	var ie *zone.InvariantError
	zoneID := log.NoZone
	if errors.As(err, &ie) {
		zoneID = ie.Zone
	}
	s.logError(zoneID, context, err, true)

	for i := 0; i < s.cfg.ZoneCount; i++ {
		if cerr := s.act.SetFlow(uint8(i), false); cerr != nil {
			s.logError(uint8(i), "fault shutdown", cerr, true)
		}
	}
	return err
}
