package log

import "sync"

// Logger receives scheduler events.
// Pass nil or NoopLogger to disable capture.
type Logger interface {
	// Log records an event. Implementations must be thread-safe and must
	// not block: the scheduler calls Log inline.
	Log(event Event)
}

// NoopLogger discards all events.
// NoopLogger is safe for concurrent use and usable as a zero value.
type NoopLogger struct{}

// Log discards the event.
func (NoopLogger) Log(Event) {}

// MultiLogger sends events to several loggers in order.
type MultiLogger struct {
	loggers []Logger
}

// NewMultiLogger creates a MultiLogger. Nil loggers are skipped.
func NewMultiLogger(loggers ...Logger) *MultiLogger {
	m := &MultiLogger{}
	for _, l := range loggers {
		if l != nil {
			m.loggers = append(m.loggers, l)
		}
	}
	return m
}

// Log sends the event to all configured loggers.
func (m *MultiLogger) Log(event Event) {
	for _, l := range m.loggers {
		l.Log(event)
	}
}

// MemoryLogger keeps the most recent events in a ring.
// It backs the console's event history and is handy in tests.
type MemoryLogger struct {
	mu     sync.Mutex
	events []Event
	limit  int
	total  int
}

// NewMemoryLogger creates a MemoryLogger holding up to limit events.
// A limit <= 0 keeps every event.
func NewMemoryLogger(limit int) *MemoryLogger {
	return &MemoryLogger{limit: limit}
}

// Log stores the event, evicting the oldest when full.
func (m *MemoryLogger) Log(event Event) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.total++
	if m.limit > 0 && len(m.events) == m.limit {
		copy(m.events, m.events[1:])
		m.events[len(m.events)-1] = event
		return
	}
	m.events = append(m.events, event)
}

// Events returns a copy of the stored events, oldest first.
func (m *MemoryLogger) Events() []Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Event(nil), m.events...)
}

// Total returns how many events were ever logged.
func (m *MemoryLogger) Total() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.total
}

// Compile-time interface satisfaction checks.
var (
	_ Logger = NoopLogger{}
	_ Logger = (*MultiLogger)(nil)
	_ Logger = (*MemoryLogger)(nil)
)
