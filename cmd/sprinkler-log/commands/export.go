package commands

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/sprinkler-ctl/sprinkler-go/pkg/log"
)

// RunExport exports the log file to the specified format.
func RunExport(path, format, output string) error {
	reader, err := log.NewReader(path)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer reader.Close()

	var w io.Writer = os.Stdout
	if output != "" {
		f, err := os.Create(output)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		w = f
	}

	switch format {
	case "jsonl":
		return exportJSONL(reader, w)
	case "csv":
		return exportCSV(reader, w)
	default:
		return fmt.Errorf("unknown format: %s (supported: jsonl, csv)", format)
	}
}

// jsonEvent is the JSONL export shape, with names instead of enum numbers.
type jsonEvent struct {
	Timestamp  string `json:"timestamp"`
	RunID      string `json:"run_id"`
	Tick       uint32 `json:"tick"`
	Category   string `json:"category"`
	Zone       *uint8 `json:"zone,omitempty"`
	Command    string `json:"command,omitempty"`
	Transition string `json:"transition,omitempty"`
	OldState   string `json:"old_state,omitempty"`
	NewState   string `json:"new_state,omitempty"`
	DurationMS int64  `json:"duration_ms,omitempty"`
	ElapsedMS  int64  `json:"elapsed_ms,omitempty"`
	QueueLen   *int   `json:"queue_len,omitempty"`
	Error      string `json:"error,omitempty"`
	Context    string `json:"context,omitempty"`
	Fatal      bool   `json:"fatal,omitempty"`
}

func toJSONEvent(event log.Event) jsonEvent {
	je := jsonEvent{
		Timestamp: event.Timestamp.UTC().Format("2006-01-02T15:04:05.000000Z"),
		RunID:     event.RunID,
		Tick:      uint32(event.Tick),
		Category:  event.Category.String(),
	}
	if event.HasZone() {
		z := event.Zone
		je.Zone = &z
	}
	switch {
	case event.Command != nil:
		je.Command = event.Command.Command.String()
		je.DurationMS = event.Command.Duration.Milliseconds()
		je.Error = event.Command.Err
	case event.StateChange != nil:
		sc := event.StateChange
		je.Transition = sc.Transition.String()
		je.OldState = sc.OldState
		je.NewState = sc.NewState
		je.DurationMS = sc.Duration.Milliseconds()
		je.ElapsedMS = sc.Elapsed.Milliseconds()
		je.QueueLen = &sc.QueueLen
	case event.Error != nil:
		je.Error = event.Error.Message
		je.Context = event.Error.Context
		je.Fatal = event.Error.Fatal
	}
	return je
}

func exportJSONL(reader *log.Reader, w io.Writer) error {
	encoder := json.NewEncoder(w)
	for {
		event, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read event: %w", err)
		}
		if err := encoder.Encode(toJSONEvent(event)); err != nil {
			return fmt.Errorf("failed to encode event: %w", err)
		}
	}
	return nil
}

func exportCSV(reader *log.Reader, w io.Writer) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	header := []string{"timestamp", "run_id", "tick", "category", "zone", "type", "old_state", "new_state", "duration_ms", "elapsed_ms", "error"}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for {
		event, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read event: %w", err)
		}

		je := toJSONEvent(event)
		zone := ""
		if je.Zone != nil {
			zone = strconv.Itoa(int(*je.Zone))
		}
		eventType := je.Command + je.Transition
		if event.Error != nil {
			eventType = je.Context
		}

		row := []string{
			je.Timestamp,
			je.RunID,
			strconv.FormatUint(uint64(je.Tick), 10),
			je.Category,
			zone,
			eventType,
			je.OldState,
			je.NewState,
			strconv.FormatInt(je.DurationMS, 10),
			strconv.FormatInt(je.ElapsedMS, 10),
			je.Error,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}
