package sprinkler

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/sprinkler-ctl/sprinkler-go/pkg/log"
	"github.com/sprinkler-ctl/sprinkler-go/pkg/tick"
	"github.com/sprinkler-ctl/sprinkler-go/pkg/zone"
)

// DefaultMaxDuration is the longest run a single request may ask for.
const DefaultMaxDuration = 60 * time.Minute

// Config holds scheduler configuration.
type Config struct {
	// ZoneCount is the number of wired zones, at most zone.MaxZones.
	ZoneCount int

	// MaxDuration clamps requested run lengths. Zero selects DefaultMaxDuration.
	MaxDuration time.Duration
}

// withDefaults returns c with zero fields replaced by defaults.
func (c Config) withDefaults() Config {
	if c.MaxDuration == 0 {
		c.MaxDuration = DefaultMaxDuration
	}
	return c
}

// Validate checks c after defaults are applied.
func (c Config) Validate() error {
	c = c.withDefaults()

	if c.ZoneCount < 1 || c.ZoneCount > zone.MaxZones {
		return fmt.Errorf("%w: %d (must be 1-%d)", ErrInvalidZoneCount, c.ZoneCount, zone.MaxZones)
	}
	if c.MaxDuration < tick.Resolution || c.MaxDuration >= tick.Period {
		return fmt.Errorf("%w: %v (must be %v to below %v)", ErrInvalidMaxDuration, c.MaxDuration, tick.Resolution, tick.Period)
	}
	return nil
}

// Option configures optional scheduler collaborators.
type Option func(*Scheduler)

// WithLogger sends scheduler events to l.
func WithLogger(l log.Logger) Option {
	return func(s *Scheduler) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithRunID sets the run ID stamped on every event.
// By default a random UUID is used.
func WithRunID(id string) Option {
	return func(s *Scheduler) {
		if id != "" {
			s.runID = id
		}
	}
}

func newRunID() string {
	return uuid.NewString()
}
