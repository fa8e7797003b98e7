package log

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"
	"time"
)

func captureSlog(t *testing.T, event Event) map[string]any {
	t.Helper()

	var buf bytes.Buffer
	handler := slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})
	NewSlogAdapter(slog.New(handler)).Log(event)

	if buf.Len() == 0 {
		t.Fatal("no output produced")
	}
	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("failed to parse log output: %v", err)
	}
	return entry
}

func TestSlogAdapterLogsStateChange(t *testing.T) {
	entry := captureSlog(t, Event{
		Timestamp: time.Now(),
		RunID:     "run-1",
		Tick:      600000,
		Category:  CategoryState,
		Zone:      2,
		StateChange: &StateChangeEvent{
			Transition: TransitionStarted,
			OldState:   "queued",
			NewState:   "flowing",
			Duration:   10 * time.Minute,
			QueueLen:   3,
		},
	})

	if entry["level"] != "DEBUG" {
		t.Errorf("level = %v, want DEBUG", entry["level"])
	}
	if entry["run_id"] != "run-1" {
		t.Errorf("run_id = %v", entry["run_id"])
	}
	if entry["zone"] != float64(2) {
		t.Errorf("zone = %v, want 2", entry["zone"])
	}
	if entry["transition"] != "STARTED" {
		t.Errorf("transition = %v, want STARTED", entry["transition"])
	}
	if entry["queue_len"] != float64(3) {
		t.Errorf("queue_len = %v, want 3", entry["queue_len"])
	}
	if entry["tick"] != float64(600000) {
		t.Errorf("tick = %v, want 600000", entry["tick"])
	}
}

func TestSlogAdapterLogsFailedCommand(t *testing.T) {
	entry := captureSlog(t, Event{
		RunID:    "run-1",
		Category: CategoryCommand,
		Zone:     9,
		Command:  &CommandEvent{Command: CommandOff, Err: "zone not queued"},
	})

	if entry["command"] != "OFF" {
		t.Errorf("command = %v, want OFF", entry["command"])
	}
	if entry["error"] != "zone not queued" {
		t.Errorf("error = %v", entry["error"])
	}
}

func TestSlogAdapterLogsErrorAtErrorLevel(t *testing.T) {
	entry := captureSlog(t, Event{
		RunID:    "run-1",
		Category: CategoryError,
		Zone:     NoZone,
		Error:    &ErrorEventData{Message: "queue corrupted", Context: "update", Fatal: true},
	})

	if entry["level"] != "ERROR" {
		t.Errorf("level = %v, want ERROR", entry["level"])
	}
	if _, ok := entry["zone"]; ok {
		t.Error("zone attribute should be omitted for NoZone")
	}
	if entry["fatal"] != true {
		t.Errorf("fatal = %v, want true", entry["fatal"])
	}
}
