package scenario

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/sprinkler-ctl/sprinkler-go/pkg/actuator"
	"github.com/sprinkler-ctl/sprinkler-go/pkg/log"
	"github.com/sprinkler-ctl/sprinkler-go/pkg/sprinkler"
	"github.com/sprinkler-ctl/sprinkler-go/pkg/tick"
)

var errorNames = map[string]error{
	"invalid_zone":     sprinkler.ErrInvalidZone,
	"invalid_duration": sprinkler.ErrInvalidDuration,
	"not_queued":       sprinkler.ErrNotQueued,
	"faulted":          sprinkler.ErrFaulted,
}

// Result is the outcome of one scenario.
type Result struct {
	Scenario *Scenario
	Passed   bool

	// Error is the first failure, if any.
	Error error

	Steps []*StepResult

	// RunID is the scheduler run ID stamped on the scenario's events.
	RunID string

	// Dump is the zone table after the last executed step.
	Dump string
}

// StepResult is the outcome of one step.
type StepResult struct {
	Step      *Step
	StepIndex int
	Passed    bool
	Error     error

	// Now is the clock value after the step.
	Now tick.Tick
}

// Runner executes scenarios.
type Runner struct {
	logger log.Logger
	slog   *slog.Logger
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithEventLogger sends every scheduler event of every run to l.
func WithEventLogger(l log.Logger) RunnerOption {
	return func(r *Runner) { r.logger = l }
}

// WithSlog sets the operational logger used for step progress.
func WithSlog(l *slog.Logger) RunnerOption {
	return func(r *Runner) { r.slog = l }
}

// NewRunner creates a Runner.
func NewRunner(opts ...RunnerOption) *Runner {
	r := &Runner{slog: slog.New(slog.DiscardHandler)}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// run holds the state of one scenario execution.
type run struct {
	s     *sprinkler.Scheduler
	bank  *actuator.PinBank
	clock *tick.ManualClock
}

// Run executes sc, stopping at the first failed step or when ctx is done.
func (r *Runner) Run(ctx context.Context, sc *Scenario) *Result {
	result := &Result{Scenario: sc}

	st, err := r.setup(sc)
	if err != nil {
		result.Error = fmt.Errorf("setup: %w", err)
		return result
	}
	result.RunID = st.s.RunID()

	for i := range sc.Steps {
		if err := ctx.Err(); err != nil {
			result.Error = err
			break
		}

		step := &sc.Steps[i]
		sr := r.executeStep(st, step, i)
		result.Steps = append(result.Steps, sr)
		if !sr.Passed {
			result.Error = fmt.Errorf("step %d (%s): %w", i+1, step.Action, sr.Error)
			break
		}
	}

	result.Passed = result.Error == nil
	result.Dump = st.s.Dump()
	return result
}

func (r *Runner) setup(sc *Scenario) (*run, error) {
	bank, err := sc.Config.PinBank()
	if err != nil {
		return nil, err
	}
	clock := tick.NewManualClock(tick.Tick(sc.StartTick))

	var opts []sprinkler.Option
	if r.logger != nil {
		opts = append(opts, sprinkler.WithLogger(r.logger))
	}
	s, err := sprinkler.New(sc.Config.SchedulerConfig(), bank, clock, opts...)
	if err != nil {
		return nil, err
	}
	return &run{s: s, bank: bank, clock: clock}, nil
}

func (r *Runner) executeStep(st *run, step *Step, index int) *StepResult {
	sr := &StepResult{Step: step, StepIndex: index}

	actErr := r.perform(st, step)
	sr.Now = st.clock.Now()
	r.slog.Debug("step", "index", index+1, "action", step.Action, "tick", sr.Now, "error", actErr)

	if err := checkError(step.Expect.Error, actErr); err != nil {
		sr.Error = err
		return sr
	}
	if err := st.check(step.Expect); err != nil {
		sr.Error = fmt.Errorf("expectation failed: %w", err)
		return sr
	}
	sr.Passed = true
	return sr
}

func (r *Runner) perform(st *run, step *Step) error {
	p := step.Params
	switch step.Action {
	case ActionOn:
		return st.s.On(uint8(*p.Zone), p.runLength())
	case ActionOff:
		return st.s.Off(uint8(*p.Zone))
	case ActionAllOn:
		durations := make([]time.Duration, len(p.Durations))
		for i, d := range p.Durations {
			durations[i] = d.Std()
		}
		return st.s.AllOn(durations)
	case ActionAllOff:
		return st.s.AllOff()
	case ActionAdvance:
		return st.s.Advance()
	case ActionWait:
		st.clock.Advance(p.runLength())
		return nil
	case ActionUpdate:
		_, err := st.s.Poll()
		return err
	case ActionTick:
		_, err := st.s.Update(st.clock.Advance(p.runLength()))
		return err
	default:
		return fmt.Errorf("unknown action %q", step.Action)
	}
}

// runLength returns Duration, or Minutes when Duration is unset.
func (p Params) runLength() time.Duration {
	if p.Duration != 0 {
		return p.Duration.Std()
	}
	return time.Duration(p.Minutes * float64(time.Minute))
}

func checkError(name string, err error) error {
	if name == "" {
		if err != nil {
			return fmt.Errorf("unexpected error: %w", err)
		}
		return nil
	}
	want := errorNames[name]
	if !errors.Is(err, want) {
		return fmt.Errorf("expected error %s, got %v", name, err)
	}
	return nil
}

func (st *run) check(e Expect) error {
	open := st.bank.OnZones()

	if e.AllOff && len(open) > 0 {
		return fmt.Errorf("all_off: zones %v are on", open)
	}
	if e.On != nil && !slices.Equal(open, sortedCopy(e.On)) {
		return fmt.Errorf("on: want %v, got %v", e.On, open)
	}

	queue := st.s.Queue()
	if e.QueueEmpty && len(queue) > 0 {
		return fmt.Errorf("queue_empty: queue is %v", queue)
	}
	if e.Queue != nil && !slices.Equal(queue, e.Queue) {
		return fmt.Errorf("queue: want %v, got %v", e.Queue, queue)
	}

	for _, id := range sortedKeys(e.States) {
		status, err := st.s.Status(id)
		if err != nil {
			return fmt.Errorf("states[%d]: %w", id, err)
		}
		if status.State.String() != e.States[id] {
			return fmt.Errorf("states[%d]: want %s, got %s", id, e.States[id], status.State)
		}
	}

	for _, pin := range sortedKeys(e.Pins) {
		if got := st.bank.Level(pin).String(); got != e.Pins[pin] {
			return fmt.Errorf("pins[%d]: want %s, got %s", pin, e.Pins[pin], got)
		}
	}
	return nil
}

func sortedCopy(ids []uint8) []uint8 {
	out := slices.Clone(ids)
	slices.Sort(out)
	return out
}

func sortedKeys(m map[uint8]string) []uint8 {
	keys := make([]uint8, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
