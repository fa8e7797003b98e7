// Command sprinkler runs the zone scheduler against simulated valve outputs.
//
// It polls the scheduler on a ticker, optionally records every scheduler
// event to a CBOR log, and offers an interactive console for queueing zones.
// With -scenario it instead replays scripted YAML scenarios and exits.
//
// Usage:
//
//	sprinkler [flags]
//
// Flags:
//
//	-config string        Configuration file path
//	-zones int            Number of wired zones (overrides config)
//	-first-pin int        Output pin of zone 0 (overrides config)
//	-polarity string      Output polarity: active_low, active_high
//	-max-duration dur     Longest run a request may ask for
//	-poll dur             Scheduler update interval
//	-event-log string     Write scheduler events to this CBOR file
//	-log-level string     Log level: debug, info, warn, error (default "info")
//	-start-tick uint      Initial clock value, to exercise counter wrap
//	-scenario string      Run a scenario file or directory and exit
//	-interactive          Start the interactive console (default true)
//
// Examples:
//
//	# Five zones on pins 5-9, console on
//	sprinkler
//
//	# Start two minutes before the millisecond counter wraps
//	sprinkler -start-tick 4294847295 -log-level debug
//
//	# Replay the bundled scenarios
//	sprinkler -scenario internal/scenario/testdata
package main

import (
	"context"
	"flag"
	"fmt"
	stdlog "log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/sprinkler-ctl/sprinkler-go/cmd/sprinkler/interactive"
	"github.com/sprinkler-ctl/sprinkler-go/internal/controller"
	"github.com/sprinkler-ctl/sprinkler-go/internal/scenario"
	"github.com/sprinkler-ctl/sprinkler-go/pkg/config"
	"github.com/sprinkler-ctl/sprinkler-go/pkg/log"
	"github.com/sprinkler-ctl/sprinkler-go/pkg/sprinkler"
	"github.com/sprinkler-ctl/sprinkler-go/pkg/tick"
)

// eventBuffer is how many recent events the console can show.
const eventBuffer = 256

var (
	configFile  = flag.String("config", "", "Configuration file path")
	zones       = flag.Int("zones", 0, "Number of wired zones (overrides config)")
	firstPin    = flag.Int("first-pin", 0, "Output pin of zone 0 (overrides config)")
	polarity    = flag.String("polarity", "", "Output polarity: active_low, active_high")
	maxDuration = flag.Duration("max-duration", 0, "Longest run a request may ask for")
	poll        = flag.Duration("poll", 0, "Scheduler update interval")
	eventLog    = flag.String("event-log", "", "Write scheduler events to this CBOR file")
	logLevel    = flag.String("log-level", "", "Log level: debug, info, warn, error")
	startTick   = flag.Uint("start-tick", 0, "Initial clock value, to exercise counter wrap")
	scenarioArg = flag.String("scenario", "", "Run a scenario file or directory and exit")
	interact    = flag.Bool("interactive", true, "Start the interactive console")
)

func main() {
	flag.Parse()

	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		os.Exit(2)
	}
	setupLogging(cfg)

	if *scenarioArg != "" {
		os.Exit(runScenarios(*scenarioArg))
	}

	if err := run(cfg); err != nil {
		slog.Error("controller stopped", "error", err)
		os.Exit(1)
	}
}

// loadConfig reads the config file, if any, and applies flags that were
// set explicitly.
func loadConfig() (config.Config, error) {
	cfg := config.Default()
	if *configFile != "" {
		var err error
		if cfg, err = config.Load(*configFile); err != nil {
			return cfg, err
		}
	}

	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "zones":
			cfg.Zones.Count = *zones
			if len(cfg.Zones.Pins) > 0 && len(cfg.Zones.Pins) != *zones {
				cfg.Zones.Pins = nil
			}
		case "first-pin":
			cfg.Zones.FirstPin = uint8(*firstPin)
			cfg.Zones.Pins = nil
		case "polarity":
			cfg.Zones.Polarity = *polarity
		case "max-duration":
			cfg.MaxDuration = config.Duration(*maxDuration)
		case "poll":
			cfg.PollInterval = config.Duration(*poll)
		case "event-log":
			cfg.EventLog = *eventLog
		case "log-level":
			cfg.LogLevel = *logLevel
		}
	})
	if *firstPin < 0 || *firstPin > 255 {
		return cfg, fmt.Errorf("first-pin out of range: %d", *firstPin)
	}
	if *startTick > uint(tick.Max) {
		return cfg, fmt.Errorf("start-tick exceeds %d", tick.Max)
	}
	return cfg, cfg.Validate()
}

func setupLogging(cfg config.Config) {
	stdlog.SetFlags(stdlog.Ltime | stdlog.Lmicroseconds)
	level, _ := cfg.SlogLevel()
	if level <= slog.LevelDebug {
		stdlog.SetFlags(stdlog.Ltime | stdlog.Lmicroseconds | stdlog.Lshortfile)
	}
	slog.SetLogLoggerLevel(level)
}

func run(cfg config.Config) error {
	bank, err := cfg.PinBank()
	if err != nil {
		return fmt.Errorf("pin bank: %w", err)
	}
	clock := tick.NewSystemClockAt(tick.Tick(*startTick))

	recent := log.NewMemoryLogger(eventBuffer)
	loggers := []log.Logger{recent, log.NewSlogAdapter(slog.Default())}
	if cfg.EventLog != "" {
		fl, err := log.NewFileLogger(cfg.EventLog)
		if err != nil {
			return fmt.Errorf("event log: %w", err)
		}
		defer func() {
			if err := fl.Close(); err != nil {
				slog.Warn("closing event log", "path", fl.Path(), "error", err)
			}
		}()
		loggers = append(loggers, fl)
		slog.Info("recording events", "path", fl.Path())
	}

	s, err := sprinkler.New(cfg.SchedulerConfig(), bank, clock,
		sprinkler.WithLogger(log.NewMultiLogger(loggers...)))
	if err != nil {
		return err
	}
	ctrl, err := controller.New(s, cfg.PollInterval.Std(), controller.WithLogger(slog.Default()))
	if err != nil {
		return err
	}

	slog.Info("sprinkler controller",
		"run_id", s.RunID(),
		"zones", cfg.Zones.Count,
		"pins", cfg.Pins(),
		"polarity", cfg.Zones.Polarity,
		"max_duration", cfg.MaxDuration.Std(),
		"start_tick", clock.Now())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return ctrl.Run(gctx)
	})

	if *interact {
		con, err := interactive.New(ctrl, bank, recent)
		if err != nil {
			cancel()
			_ = g.Wait()
			return err
		}
		// Route log output through readline so it does not break the prompt.
		stdlog.SetOutput(con.Stdout())
		g.Go(func() error {
			return con.Run(gctx, cancel)
		})
	}

	err = g.Wait()
	stdlog.SetOutput(os.Stderr)
	slog.Info("shutting down", "queued", len(ctrl.Queue()))
	return err
}

func runScenarios(path string) int {
	info, err := os.Stat(path)
	if err != nil {
		slog.Error("scenario", "error", err)
		return 2
	}

	var scenarios []*scenario.Scenario
	if info.IsDir() {
		scenarios, err = scenario.LoadDirectory(path)
	} else {
		var sc *scenario.Scenario
		sc, err = scenario.Load(path)
		scenarios = append(scenarios, sc)
	}
	if err != nil {
		slog.Error("loading scenarios", "error", err)
		return 2
	}

	runner := scenario.NewRunner(scenario.WithSlog(slog.Default()))
	failed := 0
	start := time.Now()
	for _, sc := range scenarios {
		res := runner.Run(context.Background(), sc)
		if res.Passed {
			fmt.Printf("PASS  %-16s %s\n", sc.ID, sc.Name)
			continue
		}
		failed++
		fmt.Printf("FAIL  %-16s %s\n      %v\n", sc.ID, sc.Name, res.Error)
		fmt.Print(res.Dump)
	}
	fmt.Printf("\n%d scenario(s), %d failed, %v\n", len(scenarios), failed, time.Since(start).Round(time.Millisecond))
	if failed > 0 {
		return 1
	}
	return 0
}
