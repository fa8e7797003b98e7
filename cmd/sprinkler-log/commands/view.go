// Package commands implements the sprinkler-log CLI commands.
package commands

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/sprinkler-ctl/sprinkler-go/pkg/log"
)

// ViewFilter specifies criteria for filtering events in the view command.
type ViewFilter struct {
	Zone       *uint8
	Category   *log.Category
	Transition *log.Transition
}

func (f ViewFilter) logFilter() log.Filter {
	return log.Filter{Zone: f.Zone, Category: f.Category, Transition: f.Transition}
}

// RunView prints the events in the log file at path to w.
func RunView(path string, filter ViewFilter, w io.Writer) error {
	reader, err := log.NewFilteredReader(path, filter.logFilter())
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer reader.Close()

	for {
		event, err := reader.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to read event: %w", err)
		}
		formatEvent(w, event)
	}
}

// formatEvent writes a human-readable representation of the event to w.
func formatEvent(w io.Writer, event log.Event) {
	// Header line: timestamp [run:id] tick CATEGORY zone
	ts := event.Timestamp.UTC().Format("2006-01-02T15:04:05.000000Z")
	zone := "-"
	if event.HasZone() {
		zone = strconv.Itoa(int(event.Zone))
	}
	fmt.Fprintf(w, "%s [run:%s] tick=%d %s zone=%s\n", ts, shortenRunID(event.RunID), event.Tick, event.Category, zone)

	switch {
	case event.Command != nil:
		formatCommandDetails(w, event.Command)
	case event.StateChange != nil:
		formatStateChangeDetails(w, event.StateChange)
	case event.Error != nil:
		formatErrorDetails(w, event.Error)
	}

	fmt.Fprintln(w) // Blank line between events
}

// shortenRunID returns the first 8 characters of the run ID.
func shortenRunID(id string) string {
	if len(id) >= 8 {
		return id[:8]
	}
	return id
}

func formatCommandDetails(w io.Writer, cmd *log.CommandEvent) {
	fmt.Fprintf(w, "  Command: %s\n", cmd.Command)
	if cmd.Duration > 0 {
		fmt.Fprintf(w, "  Duration: %s\n", formatDuration(cmd.Duration))
	}
	if !cmd.OK() {
		fmt.Fprintf(w, "  Rejected: %s\n", cmd.Err)
	}
}

func formatStateChangeDetails(w io.Writer, sc *log.StateChangeEvent) {
	fmt.Fprintf(w, "  Transition: %s\n", sc.Transition)
	fmt.Fprintf(w, "  State: %s -> %s\n", sc.OldState, sc.NewState)
	if sc.Duration > 0 {
		fmt.Fprintf(w, "  Duration: %s\n", formatDuration(sc.Duration))
	}
	if sc.Elapsed > 0 {
		fmt.Fprintf(w, "  Elapsed: %s\n", formatDuration(sc.Elapsed))
	}
	fmt.Fprintf(w, "  Queue: %d\n", sc.QueueLen)
}

func formatErrorDetails(w io.Writer, e *log.ErrorEventData) {
	fmt.Fprintf(w, "  Context: %s\n", e.Context)
	fmt.Fprintf(w, "  Message: %s\n", e.Message)
	if e.Fatal {
		fmt.Fprintln(w, "  Fatal: scheduler stopped, all valves closed")
	}
}

// formatDuration renders whole minutes as "10m" and anything else with
// time.Duration's own formatting.
func formatDuration(d time.Duration) string {
	if d >= time.Minute && d%time.Minute == 0 {
		return fmt.Sprintf("%dm", d/time.Minute)
	}
	return d.String()
}

// ParseCategoryFlag parses a category flag value (command, state, error).
func ParseCategoryFlag(s string) (log.Category, error) {
	c, ok := log.ParseCategory(s)
	if !ok {
		return 0, fmt.Errorf("unknown category: %s (valid: command, state, error)", s)
	}
	return c, nil
}

// ParseTransitionFlag parses a transition flag value.
func ParseTransitionFlag(s string) (log.Transition, error) {
	t, ok := log.ParseTransition(s)
	if !ok {
		return 0, fmt.Errorf("unknown transition: %s (valid: queued, duration_changed, started, completed, stopped)", s)
	}
	return t, nil
}

// ParseZoneFlag parses a zone number flag value.
func ParseZoneFlag(s string) (uint8, error) {
	v, err := strconv.ParseUint(s, 10, 8)
	if err != nil || v == uint64(log.NoZone) {
		return 0, fmt.Errorf("invalid zone: %s", s)
	}
	return uint8(v), nil
}
