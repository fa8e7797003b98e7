// Package log captures scheduler events.
//
// Every command a controller receives and every zone transition the
// scheduler performs is reported as an [Event]. This is separate from
// operational logging (slog): the event trace is complete and
// machine-readable, so a season of watering can be replayed and audited.
//
// # Basic Usage
//
// Pass a Logger to the scheduler:
//
//	// For development: events on the console via slog
//	sprinkler.WithLogger(log.NewSlogAdapter(slog.Default()))
//
//	// For the field: append to a binary event file
//	fl, _ := log.NewFileLogger("/var/log/sprinkler/events.slog")
//	sprinkler.WithLogger(fl)
//
//	// Both
//	sprinkler.WithLogger(log.NewMultiLogger(log.NewSlogAdapter(slog.Default()), fl))
//
// # Event Categories
//
//   - Command: a caller request (on, off, all-on, all-off, advance) and its result
//   - State: a zone transition (queued, duration changed, started, completed, stopped)
//   - Error: actuator failures and queue corruption
//
// # File Format
//
// Event files are a stream of CBOR maps with integer keys. The
// sprinkler-log tool views, filters, exports and summarizes them.
package log
