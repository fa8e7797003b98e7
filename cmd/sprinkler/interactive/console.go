// Package interactive provides the operator console for the sprinkler
// controller.
package interactive

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/chzyer/readline"

	"github.com/sprinkler-ctl/sprinkler-go/pkg/actuator"
	"github.com/sprinkler-ctl/sprinkler-go/pkg/config"
	"github.com/sprinkler-ctl/sprinkler-go/pkg/log"
	"github.com/sprinkler-ctl/sprinkler-go/pkg/sprinkler"
)

// Controller is the scheduler surface the console drives.
type Controller interface {
	On(id uint8, d time.Duration) error
	Off(id uint8) error
	AllOn(durations []time.Duration) error
	AllOff() error
	Advance() error
	Status(id uint8) (sprinkler.ZoneStatus, error)
	Statuses() []sprinkler.ZoneStatus
	Queue() []uint8
	Active() (uint8, bool)
	Dump() string
	Faulted() error
	ZoneCount() int
	MaxDuration() time.Duration
	RunID() string
}

// PinReader reads simulated output levels.
type PinReader interface {
	Pins() []uint8
	Level(pin uint8) actuator.Level
}

// EventSource holds recent scheduler events.
type EventSource interface {
	Events() []log.Event
	Total() int
}

// Console handles interactive mode for the sprinkler controller.
type Console struct {
	ctrl   Controller
	pins   PinReader
	events EventSource
	rl     *readline.Instance
	out    io.Writer
}

// New creates a console. pins and events may be nil.
func New(ctrl Controller, pins PinReader, events EventSource) (*Console, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "sprinkler> ",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
		AutoComplete:    completer(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create readline: %w", err)
	}

	c := newConsole(ctrl, pins, events, rl.Stdout())
	c.rl = rl
	return c, nil
}

func newConsole(ctrl Controller, pins PinReader, events EventSource, out io.Writer) *Console {
	return &Console{ctrl: ctrl, pins: pins, events: events, out: out}
}

func completer() *readline.PrefixCompleter {
	return readline.NewPrefixCompleter(
		readline.PcItem("on"),
		readline.PcItem("off"),
		readline.PcItem("allon"),
		readline.PcItem("alloff"),
		readline.PcItem("advance"),
		readline.PcItem("status"),
		readline.PcItem("queue"),
		readline.PcItem("pins"),
		readline.PcItem("dump"),
		readline.PcItem("events"),
		readline.PcItem("help"),
		readline.PcItem("quit"),
	)
}

// Stdout returns a writer that coordinates with the readline prompt.
// Use it for log output so lines do not break the input line.
func (c *Console) Stdout() io.Writer {
	return c.rl.Stdout()
}

// Run reads commands until quit, EOF or ctx is done. Quitting calls cancel.
func (c *Console) Run(ctx context.Context, cancel context.CancelFunc) error {
	defer c.rl.Close()

	// Unblock Readline when the controller stops on its own.
	stop := context.AfterFunc(ctx, func() { c.rl.Close() })
	defer stop()

	c.printHelp()

	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		line, err := c.rl.Readline()
		if err != nil {
			if errors.Is(err, readline.ErrInterrupt) {
				continue
			}
			fmt.Fprintln(c.out, "Exiting...")
			cancel()
			return nil
		}

		if quit := c.Execute(line); quit {
			cancel()
			return nil
		}
	}
}

// Execute runs one command line and reports whether it asked to quit.
func (c *Console) Execute(line string) bool {
	parts := strings.Fields(line)
	if len(parts) == 0 {
		return false
	}
	cmd := strings.ToLower(parts[0])
	args := parts[1:]

	switch cmd {
	case "help", "?":
		c.printHelp()

	case "on":
		c.cmdOn(args)

	case "off":
		c.cmdOff(args)

	case "allon", "all-on":
		c.cmdAllOn(args)

	case "alloff", "all-off":
		c.report(c.ctrl.AllOff(), "All zones off")

	case "advance", "next", "n":
		c.report(c.ctrl.Advance(), "Advanced")

	case "status", "s":
		c.cmdStatus(args)

	case "queue", "q":
		c.cmdQueue()

	case "pins", "p":
		c.cmdPins()

	case "dump", "d":
		fmt.Fprint(c.out, c.ctrl.Dump())

	case "events", "e":
		c.cmdEvents(args)

	case "quit", "exit":
		fmt.Fprintln(c.out, "Exiting...")
		return true

	default:
		fmt.Fprintf(c.out, "Unknown command: %s (type 'help' for commands)\n", cmd)
	}
	return false
}

func (c *Console) printHelp() {
	fmt.Fprintf(c.out, `
Sprinkler Commands (%d zones, max run %v):
  Scheduling:
    on <zone> <run>      - Queue a zone (run: minutes, or a duration like 90s)
    off <zone>           - Remove a zone, closing its valve if open
    allon <run>...       - Queue zones 0..n-1 (0 skips a zone)
    alloff               - Remove every zone
    advance              - End the running zone early

  Inspection:
    status [zone]        - Show zone state
    queue                - Show the queue, head first
    pins                 - Show output pin levels
    dump                 - Show the zone table
    events [n]           - Show the last n events (default 10)

  General:
    help                 - Show this help
    quit                 - Exit

`, c.ctrl.ZoneCount(), c.ctrl.MaxDuration())
}

func (c *Console) cmdOn(args []string) {
	if len(args) != 2 {
		fmt.Fprintln(c.out, "Usage: on <zone> <run>")
		return
	}
	id, ok := c.parseZone(args[0])
	if !ok {
		return
	}
	d, err := ParseRunLength(args[1])
	if err != nil {
		fmt.Fprintf(c.out, "Invalid run length: %v\n", err)
		return
	}
	if d > c.ctrl.MaxDuration() {
		fmt.Fprintf(c.out, "Note: run clamped to %v\n", c.ctrl.MaxDuration())
	}
	c.report(c.ctrl.On(id, d), fmt.Sprintf("Zone %d queued for %v", id, min(d, c.ctrl.MaxDuration())))
}

func (c *Console) cmdOff(args []string) {
	if len(args) != 1 {
		fmt.Fprintln(c.out, "Usage: off <zone>")
		return
	}
	id, ok := c.parseZone(args[0])
	if !ok {
		return
	}
	c.report(c.ctrl.Off(id), fmt.Sprintf("Zone %d off", id))
}

func (c *Console) cmdAllOn(args []string) {
	if len(args) == 0 {
		fmt.Fprintln(c.out, "Usage: allon <run>...")
		return
	}
	durations := make([]time.Duration, len(args))
	for i, a := range args {
		d, err := ParseRunLength(a)
		if err != nil {
			fmt.Fprintf(c.out, "Zone %d: invalid run length: %v\n", i, err)
			return
		}
		durations[i] = d
	}
	c.report(c.ctrl.AllOn(durations), fmt.Sprintf("Queued %d zone(s)", len(c.ctrl.Queue())))
}

func (c *Console) cmdStatus(args []string) {
	var statuses []sprinkler.ZoneStatus
	if len(args) > 0 {
		id, ok := c.parseZone(args[0])
		if !ok {
			return
		}
		st, err := c.ctrl.Status(id)
		if err != nil {
			fmt.Fprintf(c.out, "Error: %v\n", err)
			return
		}
		statuses = []sprinkler.ZoneStatus{st}
	} else {
		statuses = c.ctrl.Statuses()
	}

	fmt.Fprintf(c.out, "%-5s %-4s %-8s %-5s %-10s %-10s\n", "ZONE", "PIN", "STATE", "POS", "DURATION", "REMAINING")
	for _, st := range statuses {
		pin, pos, dur, rem := "-", "-", "-", "-"
		if st.HasPin {
			pin = strconv.Itoa(int(st.Pin))
		}
		if st.Position >= 0 {
			pos = strconv.Itoa(st.Position)
			dur = st.Duration.String()
		}
		if st.On {
			rem = st.Remaining.Round(time.Second).String()
		}
		fmt.Fprintf(c.out, "%-5d %-4s %-8s %-5s %-10s %-10s\n", st.ID, pin, st.State, pos, dur, rem)
	}

	if err := c.ctrl.Faulted(); err != nil {
		fmt.Fprintf(c.out, "FAULT: %v\n", err)
	}
}

func (c *Console) cmdQueue() {
	queue := c.ctrl.Queue()
	if len(queue) == 0 {
		fmt.Fprintln(c.out, "Queue empty")
		return
	}
	ids := make([]string, len(queue))
	for i, id := range queue {
		ids[i] = strconv.Itoa(int(id))
	}
	line := strings.Join(ids, " -> ")
	if id, ok := c.ctrl.Active(); ok {
		line += fmt.Sprintf("   (zone %d flowing)", id)
	}
	fmt.Fprintln(c.out, line)
}

func (c *Console) cmdPins() {
	if c.pins == nil {
		fmt.Fprintln(c.out, "No pin bank attached")
		return
	}
	for zone, pin := range c.pins.Pins() {
		fmt.Fprintf(c.out, "zone %-3d pin %-3d %s\n", zone, pin, c.pins.Level(pin))
	}
}

func (c *Console) cmdEvents(args []string) {
	if c.events == nil {
		fmt.Fprintln(c.out, "Event capture disabled")
		return
	}
	n := 10
	if len(args) > 0 {
		v, err := strconv.Atoi(args[0])
		if err != nil || v <= 0 {
			fmt.Fprintf(c.out, "Invalid count: %s\n", args[0])
			return
		}
		n = v
	}

	events := c.events.Events()
	if len(events) > n {
		events = events[len(events)-n:]
	}
	for _, ev := range events {
		fmt.Fprintln(c.out, FormatEvent(ev))
	}
	fmt.Fprintf(c.out, "(%d shown, %d total, run %s)\n", len(events), c.events.Total(), c.ctrl.RunID())
}

func (c *Console) parseZone(s string) (uint8, bool) {
	v, err := strconv.Atoi(s)
	if err != nil || v < 0 || v >= c.ctrl.ZoneCount() {
		fmt.Fprintf(c.out, "Invalid zone: %s (0-%d)\n", s, c.ctrl.ZoneCount()-1)
		return 0, false
	}
	return uint8(v), true
}

func (c *Console) report(err error, ok string) {
	if err != nil {
		fmt.Fprintf(c.out, "Error: %v\n", err)
		return
	}
	fmt.Fprintln(c.out, ok)
}

// maxRunMinutes is the first minute count that no longer fits a time.Duration.
const maxRunMinutes = float64(math.MaxInt64) / float64(time.Minute)

// ParseRunLength parses a console run length: a bare number is minutes,
// anything else a Go duration string.
func ParseRunLength(s string) (time.Duration, error) {
	if m, err := strconv.ParseFloat(s, 64); err == nil {
		if math.IsNaN(m) || math.IsInf(m, 0) || m >= maxRunMinutes {
			return 0, fmt.Errorf("invalid run length %q", s)
		}
		if m < 0 {
			return 0, fmt.Errorf("negative run length %q", s)
		}
		return time.Duration(m * float64(time.Minute)), nil
	}
	return config.ParseDuration(s)
}

// FormatEvent renders an event on one line.
func FormatEvent(ev log.Event) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s tick=%-10d %-7s", ev.Timestamp.Format("15:04:05.000"), ev.Tick, ev.Category)
	if ev.HasZone() {
		fmt.Fprintf(&b, " zone=%d", ev.Zone)
	}
	switch {
	case ev.Command != nil:
		fmt.Fprintf(&b, " %s", ev.Command.Command)
		if ev.Command.Duration > 0 {
			fmt.Fprintf(&b, " %v", ev.Command.Duration)
		}
		if !ev.Command.OK() {
			fmt.Fprintf(&b, " error=%q", ev.Command.Err)
		}
	case ev.StateChange != nil:
		sc := ev.StateChange
		fmt.Fprintf(&b, " %s %s->%s queue=%d", sc.Transition, sc.OldState, sc.NewState, sc.QueueLen)
		if sc.Elapsed > 0 {
			fmt.Fprintf(&b, " elapsed=%v", sc.Elapsed)
		}
	case ev.Error != nil:
		fmt.Fprintf(&b, " %s: %s", ev.Error.Context, ev.Error.Message)
		if ev.Error.Fatal {
			b.WriteString(" (fatal)")
		}
	}
	return b.String()
}
