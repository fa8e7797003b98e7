package sprinkler

import "errors"

// Scheduler errors.
var (
	// ErrInvalidZone is returned for a zone outside [0, ZoneCount).
	ErrInvalidZone = errors.New("invalid zone")

	// ErrInvalidDuration is returned for a non-positive or sub-tick duration.
	ErrInvalidDuration = errors.New("invalid duration")

	// ErrNotQueued is returned by Off for a zone that is not scheduled.
	ErrNotQueued = errors.New("zone not queued")

	// ErrInvalidZoneCount is returned by New when the zone count does not fit the table.
	ErrInvalidZoneCount = errors.New("invalid zone count")

	// ErrInvalidMaxDuration is returned by New for an unusable maximum duration.
	ErrInvalidMaxDuration = errors.New("invalid max duration")

	// ErrFaulted is returned by every mutating call after an invariant violation.
	ErrFaulted = errors.New("scheduler faulted")
)
