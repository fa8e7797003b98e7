package commands

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/sprinkler-ctl/sprinkler-go/pkg/log"
)

const testRunID = "0f8e2c1a-5b7d-4e6f-9a3b-2c1d0e9f8a7b"

func createTestLogFile(t *testing.T, events []log.Event) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.events")

	logger, err := log.NewFileLogger(path)
	if err != nil {
		t.Fatalf("failed to create logger: %v", err)
	}
	for _, e := range events {
		logger.Log(e)
	}
	if err := logger.Close(); err != nil {
		t.Fatalf("failed to close logger: %v", err)
	}
	return path
}

// sampleRun is zone 2 running ten minutes, zone 0 stopped early, and one
// rejected request.
func sampleRun() []log.Event {
	base := time.Date(2026, 1, 28, 6, 0, 0, 0, time.UTC)
	at := func(d time.Duration) time.Time { return base.Add(d) }

	return []log.Event{
		{Timestamp: at(0), RunID: testRunID, Tick: 0, Category: log.CategoryState, Zone: 2,
			StateChange: &log.StateChangeEvent{Transition: log.TransitionQueued, OldState: "idle", NewState: "queued", Duration: 10 * time.Minute, QueueLen: 1}},
		{Timestamp: at(0), RunID: testRunID, Tick: 0, Category: log.CategoryCommand, Zone: 2,
			Command: &log.CommandEvent{Command: log.CommandOn, Duration: 10 * time.Minute}},
		{Timestamp: at(time.Second), RunID: testRunID, Tick: 1000, Category: log.CategoryState, Zone: 2,
			StateChange: &log.StateChangeEvent{Transition: log.TransitionStarted, OldState: "queued", NewState: "flowing", Duration: 10 * time.Minute, QueueLen: 1}},
		{Timestamp: at(2 * time.Second), RunID: testRunID, Tick: 2000, Category: log.CategoryCommand, Zone: 7,
			Command: &log.CommandEvent{Command: log.CommandOn, Duration: time.Minute, Err: "invalid zone: 7 (have 5 zones)"}},
		{Timestamp: at(3 * time.Second), RunID: testRunID, Tick: 3000, Category: log.CategoryState, Zone: 0,
			StateChange: &log.StateChangeEvent{Transition: log.TransitionQueued, OldState: "idle", NewState: "queued", Duration: 5 * time.Minute, QueueLen: 2}},
		{Timestamp: at(10*time.Minute + time.Second), RunID: testRunID, Tick: 601000, Category: log.CategoryState, Zone: 2,
			StateChange: &log.StateChangeEvent{Transition: log.TransitionCompleted, OldState: "flowing", NewState: "idle", Duration: 10 * time.Minute, Elapsed: 10 * time.Minute, QueueLen: 1}},
		{Timestamp: at(10*time.Minute + 2*time.Second), RunID: testRunID, Tick: 602000, Category: log.CategoryState, Zone: 0,
			StateChange: &log.StateChangeEvent{Transition: log.TransitionStarted, OldState: "queued", NewState: "flowing", Duration: 5 * time.Minute, QueueLen: 1}},
		{Timestamp: at(11*time.Minute + 2*time.Second), RunID: testRunID, Tick: 662000, Category: log.CategoryState, Zone: 0,
			StateChange: &log.StateChangeEvent{Transition: log.TransitionStopped, OldState: "flowing", NewState: "idle", Duration: 5 * time.Minute, Elapsed: time.Minute, QueueLen: 0}},
		{Timestamp: at(12 * time.Minute), RunID: testRunID, Tick: 720000, Category: log.CategoryError, Zone: log.NoZone,
			Error: &log.ErrorEventData{Message: "queue holds 1 zones, length says 0", Context: "update", Fatal: true}},
	}
}
