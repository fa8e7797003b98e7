package tick

import (
	"testing"
	"time"
)

func TestElapsed(t *testing.T) {
	tests := []struct {
		name  string
		start Tick
		now   Tick
		want  Tick
	}{
		{"Zero", 0, 0, 0},
		{"Forward", 1000, 4000, 3000},
		{"AcrossWrap", Max - 99, 100, 200},
		{"StartAtMax", Max, 0, 1},
		{"FullPeriodMinusOne", 1, 0, Max},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Elapsed(tt.start, tt.now); got != tt.want {
				t.Errorf("Elapsed(%d, %d) = %d, want %d", tt.start, tt.now, got, tt.want)
			}
		})
	}
}

func TestFromDuration(t *testing.T) {
	tests := []struct {
		name string
		d    time.Duration
		want Tick
	}{
		{"Negative", -time.Second, 0},
		{"SubTick", 500 * time.Microsecond, 0},
		{"OneTick", time.Millisecond, 1},
		{"TenMinutes", 10 * time.Minute, 600000},
		{"Saturates", 2 * Period, Max},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FromDuration(tt.d); got != tt.want {
				t.Errorf("FromDuration(%v) = %d, want %d", tt.d, got, tt.want)
			}
		})
	}
}

func TestTickDurationRoundTrip(t *testing.T) {
	d := 90 * time.Second
	if got := FromDuration(d).Duration(); got != d {
		t.Errorf("Duration() = %v, want %v", got, d)
	}
}

func TestTickAddWraps(t *testing.T) {
	start := Max - 499
	got := start.Add(time.Second)
	if got != 500 {
		t.Errorf("Add() = %d, want 500", got)
	}
	if Elapsed(start, got) != 1000 {
		t.Errorf("Elapsed across wrap = %d, want 1000", Elapsed(start, got))
	}
}

func TestManualClock(t *testing.T) {
	c := NewManualClock(42)
	if c.Now() != 42 {
		t.Fatalf("Now() = %d, want 42", c.Now())
	}

	if got := c.Advance(2 * time.Second); got != 2042 {
		t.Errorf("Advance() = %d, want 2042", got)
	}

	c.Set(Max)
	c.Advance(time.Millisecond)
	if c.Now() != 0 {
		t.Errorf("Now() after wrap = %d, want 0", c.Now())
	}
}

func TestSystemClockStartsAtOffset(t *testing.T) {
	c := NewSystemClockAt(Max - 10)
	now := c.Now()

	// A freshly created clock is within a few ticks of its offset.
	if Elapsed(Max-10, now) > 1000 {
		t.Errorf("Now() = %d, want close to %d", now, Max-10)
	}
}

func TestSystemClockAdvances(t *testing.T) {
	c := NewSystemClock()
	first := c.Now()
	time.Sleep(5 * time.Millisecond)
	second := c.Now()

	if Elapsed(first, second) < 5 {
		t.Errorf("clock advanced %d ticks, want >= 5", Elapsed(first, second))
	}
}
