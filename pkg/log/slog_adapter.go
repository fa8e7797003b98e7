package log

import (
	"context"
	"log/slog"
)

// SlogAdapter writes events to an slog.Logger at debug level, errors at
// error level.
type SlogAdapter struct {
	logger *slog.Logger
}

// NewSlogAdapter creates a SlogAdapter writing to logger.
func NewSlogAdapter(logger *slog.Logger) *SlogAdapter {
	return &SlogAdapter{logger: logger}
}

// Log writes the event as one structured record.
func (a *SlogAdapter) Log(event Event) {
	attrs := []slog.Attr{
		slog.String("run_id", event.RunID),
		slog.Uint64("tick", uint64(event.Tick)),
		slog.String("category", event.Category.String()),
	}
	if event.HasZone() {
		attrs = append(attrs, slog.Int("zone", int(event.Zone)))
	}

	level := slog.LevelDebug
	switch {
	case event.Command != nil:
		attrs = append(attrs, slog.String("command", event.Command.Command.String()))
		if event.Command.Duration > 0 {
			attrs = append(attrs, slog.Duration("duration", event.Command.Duration))
		}
		if !event.Command.OK() {
			attrs = append(attrs, slog.String("error", event.Command.Err))
		}
	case event.StateChange != nil:
		sc := event.StateChange
		attrs = append(attrs,
			slog.String("transition", sc.Transition.String()),
			slog.String("old_state", sc.OldState),
			slog.String("new_state", sc.NewState),
			slog.Int("queue_len", sc.QueueLen),
		)
		if sc.Duration > 0 {
			attrs = append(attrs, slog.Duration("duration", sc.Duration))
		}
		if sc.Elapsed > 0 {
			attrs = append(attrs, slog.Duration("elapsed", sc.Elapsed))
		}
	case event.Error != nil:
		level = slog.LevelError
		attrs = append(attrs,
			slog.String("error_msg", event.Error.Message),
			slog.String("error_context", event.Error.Context),
			slog.Bool("fatal", event.Error.Fatal),
		)
	}

	a.logger.LogAttrs(context.Background(), level, "scheduler", attrs...)
}

// Compile-time interface satisfaction check.
var _ Logger = (*SlogAdapter)(nil)
