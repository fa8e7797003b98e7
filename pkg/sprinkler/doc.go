// Package sprinkler sequences irrigation zones.
//
// A [Scheduler] guarantees that at most one zone flows at any instant, that
// each zone runs for the duration it was given, and that waiting zones run
// in the order they were requested.
//
// # Driving the Scheduler
//
// Callers request work with [Scheduler.On], [Scheduler.Off],
// [Scheduler.AllOn], [Scheduler.AllOff] and [Scheduler.Advance]. None of
// these open a valve. Valves open and close only inside [Scheduler.Update],
// which the embedding environment calls periodically with the current tick:
//
//	for range ticker.C {
//	    if _, err := s.Update(clock.Now()); err != nil {
//	        // ...
//	    }
//	}
//
// Update looks at the queue head only. An idle head is started; a flowing
// head whose duration has elapsed is stopped and dequeued. The next zone
// starts on the following Update, so there is always one polling interval
// between one valve closing and the next opening.
//
// # Durations
//
// Durations are clamped to the configured maximum (60 minutes by default)
// and stored in ticks. Elapsed time is computed with wrap-safe unsigned
// subtraction, so a counter overflow mid-run does not disturb timing.
//
// # Concurrency
//
// A Scheduler is single-threaded and must not be called concurrently;
// callers serialize access externally.
//
// # Faults
//
// Before every Update the zone table is checked for consistency. A
// corrupted table closes every valve, latches the scheduler into a faulted
// state and returns a [*zone.InvariantError]. Every later mutating call
// fails with [ErrFaulted].
package sprinkler
