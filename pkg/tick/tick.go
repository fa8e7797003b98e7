package tick

import (
	"math"
	"time"
)

// Tick is a reading of the millisecond counter.
type Tick uint32

// Counter limits.
const (
	// Resolution is the wall-clock length of one tick.
	Resolution = time.Millisecond

	// Period is the time after which the counter wraps back to zero.
	Period = time.Duration(math.MaxUint32+1) * Resolution

	// Max is the largest representable tick value.
	Max Tick = math.MaxUint32
)

// Elapsed returns the number of ticks between start and now.
// A counter wrap between the two readings is handled by unsigned arithmetic.
func Elapsed(start, now Tick) Tick {
	return now - start
}

// FromDuration converts d to ticks, truncating to the tick resolution.
// Negative durations yield zero; durations beyond one period saturate at Max.
func FromDuration(d time.Duration) Tick {
	if d <= 0 {
		return 0
	}
	n := d / Resolution
	if n > time.Duration(Max) {
		return Max
	}
	return Tick(n)
}

// Duration converts t to a wall-clock duration.
func (t Tick) Duration() time.Duration {
	return time.Duration(t) * Resolution
}

// Add returns t advanced by d, wrapping like the hardware counter.
func (t Tick) Add(d time.Duration) Tick {
	return t + FromDuration(d)
}
