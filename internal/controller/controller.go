// Package controller serializes access to a zone scheduler and drives its
// periodic update from a ticker.
package controller

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/sprinkler-ctl/sprinkler-go/pkg/sprinkler"
)

// Controller wraps a Scheduler with a mutex so the poll loop and request
// sources (console, scenarios) may run on different goroutines.
type Controller struct {
	mu       sync.Mutex
	s        *sprinkler.Scheduler
	interval time.Duration
	logger   *slog.Logger
}

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets the operational logger. The default discards output.
func WithLogger(l *slog.Logger) Option {
	return func(c *Controller) {
		if l != nil {
			c.logger = l
		}
	}
}

// New creates a controller polling s every interval.
func New(s *sprinkler.Scheduler, interval time.Duration, opts ...Option) (*Controller, error) {
	if s == nil {
		return nil, errors.New("controller: nil scheduler")
	}
	if interval <= 0 {
		return nil, fmt.Errorf("controller: poll interval must be positive, got %v", interval)
	}
	c := &Controller{
		s:        s,
		interval: interval,
		logger:   slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Run polls the scheduler until ctx is cancelled, then turns every zone
// off. It returns early with the fault if the scheduler latches one.
func (c *Controller) Run(ctx context.Context) error {
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	c.logger.Info("poll loop started", "interval", c.interval, "zones", c.ZoneCount())
	for {
		select {
		case <-ctx.Done():
			if err := c.AllOff(); err != nil {
				c.logger.Error("shutdown: all off failed", "error", err)
				return err
			}
			c.logger.Info("poll loop stopped")
			return nil
		case <-ticker.C:
			if err := c.Poll(); err != nil {
				return err
			}
		}
	}
}

// Poll runs one scheduler update. Actuator errors are logged and retried
// on the next poll; a fault is returned.
func (c *Controller) Poll() error {
	c.mu.Lock()
	_, err := c.s.Poll()
	fault := c.s.Faulted()
	c.mu.Unlock()

	switch {
	case fault != nil:
		c.logger.Error("scheduler faulted, all valves closed", "error", fault)
		return fmt.Errorf("poll: %w", fault)
	case err != nil:
		c.logger.Warn("update failed", "error", err)
	}
	return nil
}

// On requests zone id for d.
func (c *Controller) On(id uint8, d time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.s.On(id, d)
}

// Off removes zone id from the schedule.
func (c *Controller) Off(id uint8) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.s.Off(id)
}

// AllOn queues zone i for durations[i].
func (c *Controller) AllOn(durations []time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.s.AllOn(durations)
}

// AllOff clears the schedule.
func (c *Controller) AllOff() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.s.AllOff()
}

// Advance ends the current head early.
func (c *Controller) Advance() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.s.Advance()
}

// Status reports zone id.
func (c *Controller) Status(id uint8) (sprinkler.ZoneStatus, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.s.Status(id)
}

// Statuses reports every zone.
func (c *Controller) Statuses() []sprinkler.ZoneStatus {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.s.Statuses()
}

// Queue returns the queued zones from head to tail.
func (c *Controller) Queue() []uint8 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.s.Queue()
}

// Active returns the flowing zone, if any.
func (c *Controller) Active() (uint8, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.s.Active()
}

// Dump renders the zone table.
func (c *Controller) Dump() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.s.Dump()
}

// Faulted returns the latched scheduler fault, if any.
func (c *Controller) Faulted() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.s.Faulted()
}

// ZoneCount returns the number of wired zones.
func (c *Controller) ZoneCount() int {
	return c.s.ZoneCount()
}

// MaxDuration returns the run length clamp.
func (c *Controller) MaxDuration() time.Duration {
	return c.s.MaxDuration()
}

// RunID returns the scheduler's run ID.
func (c *Controller) RunID() string {
	return c.s.RunID()
}
