package sprinkler

import (
	"time"

	"github.com/sprinkler-ctl/sprinkler-go/pkg/log"
	"github.com/sprinkler-ctl/sprinkler-go/pkg/tick"
	"github.com/sprinkler-ctl/sprinkler-go/pkg/zone"
)

func (s *Scheduler) event(now tick.Tick, category log.Category, zoneID uint8) log.Event {
	return log.Event{
		Timestamp: time.Now(),
		RunID:     s.runID,
		Tick:      now,
		Category:  category,
		Zone:      zoneID,
	}
}

func (s *Scheduler) logCommand(cmd log.Command, zoneID uint8, d time.Duration, err error) {
	ev := s.event(s.clock.Now(), log.CategoryCommand, zoneID)
	ev.Command = &log.CommandEvent{Command: cmd, Duration: d}
	if err != nil {
		ev.Command.Err = err.Error()
	}
	s.logger.Log(ev)
}

func (s *Scheduler) logState(now tick.Tick, z *zone.Zone, tr log.Transition, old State, elapsed tick.Tick) {
	ev := s.event(now, log.CategoryState, z.ID())
	ev.StateChange = &log.StateChangeEvent{
		Transition: tr,
		OldState:   old.String(),
		NewState:   stateOf(z).String(),
		Duration:   z.Duration.Duration(),
		Elapsed:    elapsed.Duration(),
		QueueLen:   s.zones.Len(),
	}
	s.logger.Log(ev)
}

func (s *Scheduler) logError(zoneID uint8, context string, err error, fatal bool) {
	ev := s.event(s.clock.Now(), log.CategoryError, zoneID)
	ev.Error = &log.ErrorEventData{Message: err.Error(), Context: context, Fatal: fatal}
	s.logger.Log(ev)
}
