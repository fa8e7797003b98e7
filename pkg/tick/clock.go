package tick

import (
	"sync"
	"time"
)

// Clock reports the current counter value.
type Clock interface {
	Now() Tick
}

// ManualClock is a Clock whose value only changes when told to.
// It is safe for concurrent use.
type ManualClock struct {
	mu  sync.Mutex
	now Tick
}

// NewManualClock creates a ManualClock reading start.
func NewManualClock(start Tick) *ManualClock {
	return &ManualClock{now: start}
}

// Now returns the current value.
func (c *ManualClock) Now() Tick {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Set moves the clock to t.
func (c *ManualClock) Set(t Tick) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

// Advance moves the clock forward by d and returns the new value.
func (c *ManualClock) Advance(d time.Duration) Tick {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
	return c.now
}

// SystemClock derives ticks from the monotonic clock.
// The value starts at an offset chosen at construction and wraps at Period.
type SystemClock struct {
	epoch  time.Time
	offset Tick
}

// NewSystemClock creates a SystemClock reading zero now.
func NewSystemClock() *SystemClock {
	return NewSystemClockAt(0)
}

// NewSystemClockAt creates a SystemClock reading offset now. Starting close
// to Max exercises counter wrap within minutes instead of weeks.
func NewSystemClockAt(offset Tick) *SystemClock {
	return &SystemClock{epoch: time.Now(), offset: offset}
}

// Now returns the ticks elapsed since construction plus the offset.
func (c *SystemClock) Now() Tick {
	ms := uint64(time.Since(c.epoch) / Resolution)
	return c.offset + Tick(uint32(ms))
}

// Compile-time interface satisfaction checks.
var (
	_ Clock = (*ManualClock)(nil)
	_ Clock = (*SystemClock)(nil)
)
