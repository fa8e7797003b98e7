// Command sprinkler-log is a tool for viewing and analyzing scheduler event
// logs.
//
// Event logs are written by the sprinkler command when run with -event-log
// (or event_log in its config file).
//
// Usage:
//
//	sprinkler-log <command> [flags] <file.events>
//
// Commands:
//
//	view     View log file in human-readable format
//	export   Export log file to JSON or CSV format
//	filter   Filter log file and write to new file
//	stats    Show per-zone watering statistics
//
// Examples:
//
//	# View all events
//	sprinkler-log view garden.events
//
//	# View only state changes of zone 3
//	sprinkler-log view -category state -zone 3 garden.events
//
//	# Export to CSV
//	sprinkler-log export -format csv -o garden.csv garden.events
//
//	# Keep one run's events
//	sprinkler-log filter -run-id 0f8e2c1a -o run.events garden.events
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/sprinkler-ctl/sprinkler-go/cmd/sprinkler-log/commands"
)

const usage = `sprinkler-log - Sprinkler Event Log Analyzer

Usage:
  sprinkler-log <command> [flags] <file.events>

Commands:
  view     View log file in human-readable format
  export   Export log file to JSON or CSV format
  filter   Filter log file and write to new file
  stats    Show per-zone watering statistics

Use "sprinkler-log <command> -help" for more information about a command.
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	switch cmd {
	case "view":
		runView(args)
	case "export":
		runExport(args)
	case "filter":
		runFilter(args)
	case "stats":
		runStats(args)
	case "-h", "-help", "--help", "help":
		fmt.Print(usage)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", cmd)
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}
}

// newFlagSet returns a flag set whose usage text names the subcommand.
func newFlagSet(name, summary string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "sprinkler-log %s - %s\n\nUsage:\n  sprinkler-log %s [flags] <file.events>\n\nFlags:\n", name, summary, name)
		fs.PrintDefaults()
	}
	return fs
}

// logPath parses args and returns the single positional log path.
func logPath(fs *flag.FlagSet, args []string) string {
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Error: log file path required")
		fs.Usage()
		os.Exit(1)
	}
	return fs.Arg(0)
}

func fail(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}

func runView(args []string) {
	fs := newFlagSet("view", "View log file in human-readable format")
	zone := fs.String("zone", "", "Filter by zone number")
	category := fs.String("category", "", "Filter by category (command, state, error)")
	transition := fs.String("transition", "", "Filter by transition (queued, started, completed, stopped, duration_changed)")
	path := logPath(fs, args)

	var filter commands.ViewFilter
	if *zone != "" {
		z, err := commands.ParseZoneFlag(*zone)
		if err != nil {
			fail(err)
		}
		filter.Zone = &z
	}
	if *category != "" {
		c, err := commands.ParseCategoryFlag(*category)
		if err != nil {
			fail(err)
		}
		filter.Category = &c
	}
	if *transition != "" {
		tr, err := commands.ParseTransitionFlag(*transition)
		if err != nil {
			fail(err)
		}
		filter.Transition = &tr
	}

	if err := commands.RunView(path, filter, os.Stdout); err != nil {
		fail(err)
	}
}

func runExport(args []string) {
	fs := newFlagSet("export", "Export log file to JSON or CSV format")
	format := fs.String("format", "jsonl", "Output format (jsonl, csv)")
	output := fs.String("o", "", "Output file (default: stdout)")
	path := logPath(fs, args)

	if err := commands.RunExport(path, *format, *output); err != nil {
		fail(err)
	}
}

func runFilter(args []string) {
	fs := newFlagSet("filter", "Filter log file and write to new file")
	output := fs.String("o", "", "Output file (required)")
	runID := fs.String("run-id", "", "Filter by run ID (full, or a prefix of 8+ characters)")
	zone := fs.String("zone", "", "Filter by zone number")
	timeStart := fs.String("time-start", "", "Filter by start time (RFC3339)")
	timeEnd := fs.String("time-end", "", "Filter by end time (RFC3339)")
	category := fs.String("category", "", "Filter by category (command, state, error)")
	transition := fs.String("transition", "", "Filter by transition")
	path := logPath(fs, args)

	if *output == "" {
		fmt.Fprintln(os.Stderr, "Error: output file (-o) required")
		fs.Usage()
		os.Exit(1)
	}

	n, err := commands.RunFilter(path, commands.FilterOptions{
		Output:     *output,
		RunID:      *runID,
		Zone:       *zone,
		TimeStart:  *timeStart,
		TimeEnd:    *timeEnd,
		Category:   *category,
		Transition: *transition,
	})
	if err != nil {
		fail(err)
	}
	fmt.Printf("Filtered %d events to %s\n", n, *output)
}

func runStats(args []string) {
	fs := newFlagSet("stats", "Show per-zone watering statistics")
	path := logPath(fs, args)

	if err := commands.RunStats(path, os.Stdout); err != nil {
		fail(err)
	}
}
