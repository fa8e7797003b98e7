package log

import (
	"path/filepath"
	"testing"
	"time"
)

func createTestEventFile(t *testing.T, events []Event) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "events.slog")

	logger, err := NewFileLogger(path)
	if err != nil {
		t.Fatalf("failed to create event file: %v", err)
	}
	for _, e := range events {
		logger.Log(e)
	}
	if err := logger.Close(); err != nil {
		t.Fatal(err)
	}
	return path
}

func sampleEvents(base time.Time) []Event {
	return []Event{
		{Timestamp: base, RunID: "aaaaaaaa-1111", Category: CategoryCommand, Zone: 1,
			Command: &CommandEvent{Command: CommandOn, Duration: 10 * time.Minute}},
		{Timestamp: base.Add(time.Second), RunID: "aaaaaaaa-1111", Category: CategoryState, Zone: 1,
			StateChange: &StateChangeEvent{Transition: TransitionQueued, OldState: "idle", NewState: "queued", QueueLen: 1}},
		{Timestamp: base.Add(2 * time.Second), RunID: "aaaaaaaa-1111", Category: CategoryState, Zone: 1,
			StateChange: &StateChangeEvent{Transition: TransitionStarted, OldState: "queued", NewState: "flowing", QueueLen: 1}},
		{Timestamp: base.Add(3 * time.Second), RunID: "bbbbbbbb-2222", Category: CategoryError, Zone: NoZone,
			Error: &ErrorEventData{Message: "boom", Context: "update", Fatal: true}},
	}
}

func TestReaderIteratesEvents(t *testing.T) {
	path := createTestEventFile(t, sampleEvents(time.Now()))

	r, err := NewReader(path)
	if err != nil {
		t.Fatalf("NewReader failed: %v", err)
	}
	defer r.Close()

	events, err := r.ReadAll()
	if err != nil {
		t.Fatalf("ReadAll failed: %v", err)
	}
	if len(events) != 4 {
		t.Fatalf("read %d events, want 4", len(events))
	}
	if events[3].Error == nil || !events[3].Error.Fatal {
		t.Errorf("events[3] = %+v, want fatal error", events[3])
	}
	if events[3].HasZone() {
		t.Error("error event should carry NoZone")
	}
}

func TestReaderFilters(t *testing.T) {
	base := time.Date(2026, 6, 1, 5, 0, 0, 0, time.UTC)
	path := createTestEventFile(t, sampleEvents(base))

	zone1 := uint8(1)
	state := CategoryState
	started := TransitionStarted
	start := base.Add(time.Second)
	end := base.Add(3 * time.Second)

	tests := []struct {
		name   string
		filter Filter
		want   int
	}{
		{"All", Filter{}, 4},
		{"RunIDExact", Filter{RunID: "bbbbbbbb-2222"}, 1},
		{"RunIDPrefix", Filter{RunID: "aaaaaaaa"}, 3},
		{"RunIDShortPrefixIgnored", Filter{RunID: "aaaa"}, 0},
		{"Zone", Filter{Zone: &zone1}, 3},
		{"Category", Filter{Category: &state}, 2},
		{"Transition", Filter{Transition: &started}, 1},
		{"TimeRange", Filter{TimeStart: &start, TimeEnd: &end}, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := NewFilteredReader(path, tt.filter)
			if err != nil {
				t.Fatal(err)
			}
			defer r.Close()

			events, err := r.ReadAll()
			if err != nil {
				t.Fatal(err)
			}
			if len(events) != tt.want {
				t.Errorf("got %d events, want %d", len(events), tt.want)
			}
		})
	}
}

func TestReaderMissingFile(t *testing.T) {
	if _, err := NewReader(filepath.Join(t.TempDir(), "nope.slog")); err == nil {
		t.Error("NewReader should fail for a missing file")
	}
}
