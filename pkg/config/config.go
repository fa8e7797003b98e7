package config

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/sprinkler-ctl/sprinkler-go/pkg/actuator"
	"github.com/sprinkler-ctl/sprinkler-go/pkg/sprinkler"
	"github.com/sprinkler-ctl/sprinkler-go/pkg/zone"
)

// Defaults.
const (
	DefaultZoneCount    = 5
	DefaultFirstPin     = 5
	DefaultPollInterval = time.Second
	DefaultLogLevel     = "info"
)

// Config is the controller configuration file.
type Config struct {
	Zones ZonesConfig `yaml:"zones"`

	// MaxDuration clamps requested run lengths.
	MaxDuration Duration `yaml:"max_duration"`

	// PollInterval is how often the controller updates the scheduler.
	PollInterval Duration `yaml:"poll_interval"`

	// EventLog is the path of the CBOR event log. Empty disables it.
	EventLog string `yaml:"event_log,omitempty"`

	// LogLevel is the operational log level (debug, info, warn, error).
	LogLevel string `yaml:"log_level"`
}

// ZonesConfig describes the wired zones and their outputs.
type ZonesConfig struct {
	// Count is the number of wired zones. Left unset it is taken from the
	// pin list, or DefaultZoneCount without one.
	Count int `yaml:"count"`

	// FirstPin is the output pin of zone 0 when zones use consecutive pins.
	FirstPin uint8 `yaml:"first_pin"`

	// Pins lists the output pin of each zone explicitly.
	Pins []uint8 `yaml:"pins,omitempty"`

	// Polarity is active_low or active_high.
	Polarity string `yaml:"polarity"`
}

// ValidationError describes one invalid field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Zones: ZonesConfig{
			Count:    DefaultZoneCount,
			FirstPin: DefaultFirstPin,
			Polarity: actuator.ActiveLow.String(),
		},
		MaxDuration:  Duration(sprinkler.DefaultMaxDuration),
		PollInterval: Duration(DefaultPollInterval),
		LogLevel:     DefaultLogLevel,
	}
}

// Parse decodes YAML over the defaults and validates the result.
// Unknown keys are rejected.
func Parse(data []byte) (Config, error) {
	cfg := Base()
	if len(bytes.TrimSpace(data)) > 0 {
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&cfg); err != nil {
			return Config{}, fmt.Errorf("parse config: %w", err)
		}
	}
	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Load reads and parses the file at path.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Base returns the defaults a file is decoded over. The zone count is left
// zero so Normalize can tell whether the file set one.
func Base() Config {
	c := Default()
	c.Zones.Count = 0
	return c
}

// Normalize fills a zero zone count from the pin list, or with
// DefaultZoneCount when no pins are listed.
func (c *Config) Normalize() {
	if c.Zones.Count != 0 {
		return
	}
	if len(c.Zones.Pins) > 0 {
		c.Zones.Count = len(c.Zones.Pins)
	} else {
		c.Zones.Count = DefaultZoneCount
	}
}

// Validate reports every invalid field, joined.
func (c Config) Validate() error {
	var errs []error
	add := func(field, format string, args ...any) {
		errs = append(errs, &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)})
	}

	z := c.Zones
	if z.Count < 1 || z.Count > zone.MaxZones {
		add("zones.count", "must be 1-%d, got %d", zone.MaxZones, z.Count)
	}
	if len(z.Pins) > 0 {
		if len(z.Pins) != z.Count {
			add("zones.pins", "lists %d pins for %d zones", len(z.Pins), z.Count)
		}
		seen := make(map[uint8]bool, len(z.Pins))
		for i, p := range z.Pins {
			if p > actuator.MaxPin {
				add(fmt.Sprintf("zones.pins[%d]", i), "pin %d exceeds %d", p, actuator.MaxPin)
			}
			if seen[p] {
				add(fmt.Sprintf("zones.pins[%d]", i), "pin %d used twice", p)
			}
			seen[p] = true
		}
	} else if last := int(z.FirstPin) + z.Count - 1; last > actuator.MaxPin {
		add("zones.first_pin", "pins %d..%d exceed %d", z.FirstPin, last, actuator.MaxPin)
	}
	if _, err := actuator.ParsePolarity(z.Polarity); err != nil {
		add("zones.polarity", "%v", err)
	}

	sc := c.SchedulerConfig()
	sc.ZoneCount = 1
	if err := sc.Validate(); err != nil {
		add("max_duration", "%v", err)
	}
	if c.PollInterval <= 0 {
		add("poll_interval", "must be positive, got %v", c.PollInterval.Std())
	}
	if _, err := c.SlogLevel(); err != nil {
		add("log_level", "%v", err)
	}

	return errors.Join(errs...)
}

// Pins returns the output pin of every zone, in zone order.
func (c Config) Pins() []uint8 {
	if len(c.Zones.Pins) > 0 {
		return append([]uint8(nil), c.Zones.Pins...)
	}
	return actuator.SequentialPins(c.Zones.FirstPin, c.Zones.Count)
}

// Polarity returns the parsed output polarity.
func (c Config) Polarity() (actuator.Polarity, error) {
	return actuator.ParsePolarity(c.Zones.Polarity)
}

// PinBank builds the simulated outputs described by the zone section.
func (c Config) PinBank() (*actuator.PinBank, error) {
	pol, err := c.Polarity()
	if err != nil {
		return nil, err
	}
	return actuator.NewPinBank(c.Pins(), pol)
}

// SchedulerConfig returns the scheduler settings.
func (c Config) SchedulerConfig() sprinkler.Config {
	return sprinkler.Config{
		ZoneCount:   c.Zones.Count,
		MaxDuration: c.MaxDuration.Std(),
	}
}

// SlogLevel parses LogLevel. An empty level is info.
func (c Config) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if c.LogLevel == "" {
		return slog.LevelInfo, nil
	}
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo, err
	}
	return level, nil
}

// Marshal encodes c as YAML.
func (c Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}
