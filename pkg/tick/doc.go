// Package tick models the controller's free-running millisecond counter.
//
// Embedded controllers expose time as an unsigned counter that starts at
// power-up and silently wraps. Every duration computed from it must use
// unsigned subtraction so that a wrap between two readings still yields the
// true interval:
//
//	elapsed := tick.Elapsed(start, now) // now - start, modulo 2^32
//
// The result is correct as long as the real interval is shorter than one
// counter [Period] (about 49.7 days).
//
// # Clocks
//
// [Clock] is the capability the scheduler consumes. [ManualClock] is driven
// explicitly by tests and scenarios; [SystemClock] derives ticks from the
// monotonic wall clock and wraps exactly like the hardware counter.
package tick
