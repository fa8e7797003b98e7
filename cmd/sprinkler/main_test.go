package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRunScenariosBundled(t *testing.T) {
	assert.Equal(t, 0, runScenarios(filepath.Join("..", "..", "internal", "scenario", "testdata")))
}

func TestRunScenariosFailure(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fail.yaml")
	data := []byte(`
id: SC-BAD-001
config: {zones: {count: 2}}
steps:
  - action: on
    params: {zone: 0, minutes: 1}
  - action: update
    expect: {all_off: true}
`)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, 1, runScenarios(path))
}

func TestRunScenariosMissing(t *testing.T) {
	assert.Equal(t, 2, runScenarios(filepath.Join(t.TempDir(), "nope")))
}
