package commands

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestExportToJSONL(t *testing.T) {
	path := createTestLogFile(t, sampleRun())
	outPath := filepath.Join(t.TempDir(), "out.jsonl")

	if err := RunExport(path, "jsonl", outPath); err != nil {
		t.Fatalf("RunExport failed: %v", err)
	}

	data, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("failed to read output: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 9 {
		t.Fatalf("expected 9 lines, got %d", len(lines))
	}

	var completed map[string]any
	if err := json.Unmarshal([]byte(lines[5]), &completed); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if completed["transition"] != "COMPLETED" {
		t.Errorf("transition = %v", completed["transition"])
	}
	if completed["elapsed_ms"] != float64(600000) {
		t.Errorf("elapsed_ms = %v", completed["elapsed_ms"])
	}
	if completed["zone"] != float64(2) {
		t.Errorf("zone = %v", completed["zone"])
	}

	var fatal map[string]any
	if err := json.Unmarshal([]byte(lines[8]), &fatal); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if _, ok := fatal["zone"]; ok {
		t.Error("event without a zone should omit the zone field")
	}
	if fatal["fatal"] != true {
		t.Errorf("fatal = %v", fatal["fatal"])
	}
}

func TestExportToCSV(t *testing.T) {
	path := createTestLogFile(t, sampleRun())
	outPath := filepath.Join(t.TempDir(), "out.csv")

	if err := RunExport(path, "csv", outPath); err != nil {
		t.Fatalf("RunExport failed: %v", err)
	}

	f, err := os.Open(outPath)
	if err != nil {
		t.Fatalf("failed to open output: %v", err)
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("invalid CSV: %v", err)
	}
	if len(records) != 10 {
		t.Fatalf("expected header + 9 rows, got %d", len(records))
	}
	if records[0][0] != "timestamp" || records[0][5] != "type" {
		t.Errorf("unexpected header: %v", records[0])
	}

	rejected := records[4]
	if rejected[4] != "7" || rejected[5] != "ON" || rejected[10] == "" {
		t.Errorf("unexpected rejected row: %v", rejected)
	}
	if records[9][4] != "" || records[9][5] != "update" {
		t.Errorf("unexpected error row: %v", records[9])
	}
}

func TestExportUnknownFormat(t *testing.T) {
	path := createTestLogFile(t, sampleRun())
	err := RunExport(path, "xml", filepath.Join(t.TempDir(), "out.xml"))
	if err == nil || !strings.Contains(err.Error(), "unknown format") {
		t.Errorf("expected unknown format error, got %v", err)
	}
}
