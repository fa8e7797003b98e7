package commands

import (
	"fmt"
	"io"
	"slices"
	"time"

	"github.com/sprinkler-ctl/sprinkler-go/pkg/log"
)

// Stats holds aggregate statistics about an event log.
type Stats struct {
	TotalEvents        int
	EventsByCategory   map[log.Category]int
	EventsByTransition map[log.Transition]int
	Zones              map[uint8]*ZoneStats
	Runs               map[string]int
	RejectedCommands   int
	Errors             int
	FatalErrors        int
	TimeRange          struct {
		Start time.Time
		End   time.Time
	}
}

// ZoneStats holds watering statistics for a single zone.
type ZoneStats struct {
	Starts    int
	Completed int
	Stopped   int

	// FlowTime is the total time the zone's valve was open, from
	// completed and stopped events.
	FlowTime time.Duration

	LastStart time.Time
}

// CollectStats reads every event in the log file at path.
func CollectStats(path string) (*Stats, error) {
	reader, err := log.NewReader(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	defer reader.Close()

	stats := &Stats{
		EventsByCategory:   make(map[log.Category]int),
		EventsByTransition: make(map[log.Transition]int),
		Zones:              make(map[uint8]*ZoneStats),
		Runs:               make(map[string]int),
	}

	for {
		event, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read event: %w", err)
		}
		stats.add(event)
	}
	return stats, nil
}

func (s *Stats) add(event log.Event) {
	s.TotalEvents++
	s.EventsByCategory[event.Category]++
	s.Runs[event.RunID]++

	if s.TimeRange.Start.IsZero() || event.Timestamp.Before(s.TimeRange.Start) {
		s.TimeRange.Start = event.Timestamp
	}
	if event.Timestamp.After(s.TimeRange.End) {
		s.TimeRange.End = event.Timestamp
	}

	switch {
	case event.Command != nil:
		if !event.Command.OK() {
			s.RejectedCommands++
		}
	case event.StateChange != nil:
		sc := event.StateChange
		s.EventsByTransition[sc.Transition]++
		if !event.HasZone() {
			return
		}
		zs, ok := s.Zones[event.Zone]
		if !ok {
			zs = &ZoneStats{}
			s.Zones[event.Zone] = zs
		}
		switch sc.Transition {
		case log.TransitionStarted:
			zs.Starts++
			zs.LastStart = event.Timestamp
		case log.TransitionCompleted:
			zs.Completed++
			zs.FlowTime += sc.Elapsed
		case log.TransitionStopped:
			zs.Stopped++
			zs.FlowTime += sc.Elapsed
		}
	case event.Error != nil:
		s.Errors++
		if event.Error.Fatal {
			s.FatalErrors++
		}
	}
}

// RunStats analyzes the log file and prints statistics.
func RunStats(path string, w io.Writer) error {
	stats, err := CollectStats(path)
	if err != nil {
		return err
	}
	printStats(w, stats)
	return nil
}

func printStats(w io.Writer, stats *Stats) {
	fmt.Fprintln(w, "=== Sprinkler Event Log Statistics ===")
	fmt.Fprintln(w)

	if stats.TotalEvents > 0 {
		fmt.Fprintf(w, "Time Range: %s to %s\n",
			stats.TimeRange.Start.Format(time.RFC3339),
			stats.TimeRange.End.Format(time.RFC3339))
		fmt.Fprintf(w, "Duration:   %s\n", stats.TimeRange.End.Sub(stats.TimeRange.Start).Round(time.Second))
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "Total Events: %d\n", stats.TotalEvents)
	fmt.Fprintf(w, "Runs:         %d\n", len(stats.Runs))
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Events by Category:")
	for _, cat := range []log.Category{log.CategoryCommand, log.CategoryState, log.CategoryError} {
		if count := stats.EventsByCategory[cat]; count > 0 {
			fmt.Fprintf(w, "  %-18s %d\n", cat.String()+":", count)
		}
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Transitions:")
	for _, tr := range []log.Transition{
		log.TransitionQueued, log.TransitionDurationChanged, log.TransitionStarted,
		log.TransitionCompleted, log.TransitionStopped,
	} {
		if count := stats.EventsByTransition[tr]; count > 0 {
			fmt.Fprintf(w, "  %-18s %d\n", tr.String()+":", count)
		}
	}
	fmt.Fprintln(w)

	zones := make([]uint8, 0, len(stats.Zones))
	for z := range stats.Zones {
		zones = append(zones, z)
	}
	slices.Sort(zones)

	fmt.Fprintf(w, "Zones: %d\n", len(zones))
	for _, z := range zones {
		zs := stats.Zones[z]
		fmt.Fprintf(w, "  [zone %2d] %d starts, %d completed, %d stopped, flow %s\n",
			z, zs.Starts, zs.Completed, zs.Stopped, zs.FlowTime.Round(time.Second))
	}

	if stats.RejectedCommands > 0 {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "Rejected Commands: %d\n", stats.RejectedCommands)
	}
	if stats.Errors > 0 {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "Errors: %d (%d fatal)\n", stats.Errors, stats.FatalErrors)
	}
}
