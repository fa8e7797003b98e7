package commands

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/sprinkler-ctl/sprinkler-go/pkg/log"
)

func TestCollectStats(t *testing.T) {
	path := createTestLogFile(t, sampleRun())

	stats, err := CollectStats(path)
	if err != nil {
		t.Fatalf("CollectStats failed: %v", err)
	}

	if stats.TotalEvents != 9 {
		t.Errorf("TotalEvents = %d, want 9", stats.TotalEvents)
	}
	if got := stats.EventsByCategory[log.CategoryState]; got != 6 {
		t.Errorf("state events = %d, want 6", got)
	}
	if got := stats.EventsByTransition[log.TransitionStarted]; got != 2 {
		t.Errorf("started = %d, want 2", got)
	}
	if len(stats.Runs) != 1 {
		t.Errorf("runs = %d, want 1", len(stats.Runs))
	}
	if stats.RejectedCommands != 1 {
		t.Errorf("RejectedCommands = %d, want 1", stats.RejectedCommands)
	}
	if stats.Errors != 1 || stats.FatalErrors != 1 {
		t.Errorf("errors = %d/%d, want 1/1", stats.Errors, stats.FatalErrors)
	}

	z2 := stats.Zones[2]
	if z2 == nil || z2.Starts != 1 || z2.Completed != 1 || z2.FlowTime != 10*time.Minute {
		t.Errorf("zone 2 stats = %+v", z2)
	}
	z0 := stats.Zones[0]
	if z0 == nil || z0.Stopped != 1 || z0.FlowTime != time.Minute {
		t.Errorf("zone 0 stats = %+v", z0)
	}
	if _, ok := stats.Zones[7]; ok {
		t.Error("rejected command should not create zone stats")
	}
}

func TestRunStatsOutput(t *testing.T) {
	path := createTestLogFile(t, sampleRun())

	var buf bytes.Buffer
	if err := RunStats(path, &buf); err != nil {
		t.Fatalf("RunStats failed: %v", err)
	}
	out := buf.String()

	for _, want := range []string{
		"Total Events: 9",
		"Duration:   12m0s",
		"STATE:             6",
		"COMPLETED:         1",
		"[zone  0] 1 starts, 0 completed, 1 stopped, flow 1m0s",
		"[zone  2] 1 starts, 1 completed, 0 stopped, flow 10m0s",
		"Rejected Commands: 1",
		"Errors: 1 (1 fatal)",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q\n%s", want, out)
		}
	}
}

func TestRunStatsEmptyFile(t *testing.T) {
	path := createTestLogFile(t, nil)

	var buf bytes.Buffer
	if err := RunStats(path, &buf); err != nil {
		t.Fatalf("RunStats failed: %v", err)
	}
	if !strings.Contains(buf.String(), "Total Events: 0") {
		t.Errorf("unexpected output:\n%s", buf.String())
	}
}
