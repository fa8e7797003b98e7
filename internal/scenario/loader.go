package scenario

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/sprinkler-ctl/sprinkler-go/pkg/config"
)

// Parse parses a scenario from YAML bytes.
func Parse(data []byte) (*Scenario, error) {
	sc := Scenario{Config: config.Base()}
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, &LoadError{Message: "failed to parse YAML", Cause: err}
	}

	if sc.ID == "" {
		return nil, &LoadError{Message: "scenario ID is required"}
	}
	if len(sc.Steps) == 0 {
		return nil, &LoadError{Message: "scenario must have at least one step"}
	}
	sc.Config.Normalize()
	if err := sc.Config.Validate(); err != nil {
		return nil, &LoadError{Message: "invalid config", Cause: err}
	}

	var errs []error
	for i, step := range sc.Steps {
		if err := step.validate(); err != nil {
			errs = append(errs, fmt.Errorf("step %d (%s): %w", i+1, step.Action, err))
		}
	}
	if err := errors.Join(errs...); err != nil {
		return nil, &LoadError{Message: "invalid steps", Cause: err}
	}

	return &sc, nil
}

func (s Step) validate() error {
	if !knownActions[s.Action] {
		return fmt.Errorf("unknown action %q", s.Action)
	}
	switch s.Action {
	case ActionOn, ActionOff:
		if s.Params.Zone == nil {
			return errors.New("zone is required")
		}
		if z := *s.Params.Zone; z < 0 || z > 255 {
			return fmt.Errorf("zone %d out of range", z)
		}
	}
	if s.Expect.Error != "" {
		if _, ok := errorNames[s.Expect.Error]; !ok {
			return fmt.Errorf("unknown error name %q", s.Expect.Error)
		}
	}
	return nil
}

// Load loads a scenario from a file.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{File: path, Message: "failed to read file", Cause: err}
	}

	sc, err := Parse(data)
	if err != nil {
		var le *LoadError
		if errors.As(err, &le) {
			le.File = path
			return nil, le
		}
		return nil, &LoadError{File: path, Message: err.Error()}
	}
	return sc, nil
}

// LoadDirectory loads every .yaml or .yml scenario in dir, sorted by file name.
func LoadDirectory(dir string) ([]*Scenario, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, &LoadError{File: dir, Message: "failed to read directory", Cause: err}
	}

	var out []*Scenario
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if ext != ".yaml" && ext != ".yml" {
			continue
		}
		sc, err := Load(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, err
		}
		out = append(out, sc)
	}
	return out, nil
}
