package log

import "testing"

type countingLogger struct{ n int }

func (c *countingLogger) Log(Event) { c.n++ }

func TestNoopLogger(t *testing.T) {
	var l Logger = NoopLogger{}
	l.Log(Event{}) // must not panic
}

func TestMultiLoggerFansOut(t *testing.T) {
	a, b := &countingLogger{}, &countingLogger{}
	m := NewMultiLogger(a, nil, b)

	m.Log(Event{})
	m.Log(Event{})

	if a.n != 2 || b.n != 2 {
		t.Errorf("counts = %d, %d, want 2, 2", a.n, b.n)
	}
}

func TestMemoryLoggerRing(t *testing.T) {
	m := NewMemoryLogger(3)
	for i := 0; i < 5; i++ {
		m.Log(Event{Zone: uint8(i)})
	}

	events := m.Events()
	if len(events) != 3 {
		t.Fatalf("len(Events()) = %d, want 3", len(events))
	}
	for i, want := range []uint8{2, 3, 4} {
		if events[i].Zone != want {
			t.Errorf("events[%d].Zone = %d, want %d", i, events[i].Zone, want)
		}
	}
	if m.Total() != 5 {
		t.Errorf("Total() = %d, want 5", m.Total())
	}
}

func TestMemoryLoggerUnbounded(t *testing.T) {
	m := NewMemoryLogger(0)
	for i := 0; i < 100; i++ {
		m.Log(Event{})
	}
	if len(m.Events()) != 100 {
		t.Errorf("len(Events()) = %d, want 100", len(m.Events()))
	}
}
