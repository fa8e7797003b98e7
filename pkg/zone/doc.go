// Package zone provides the fixed zone table and its pending queue.
//
// A controller owns one [Table] holding [MaxZones] zone records for its
// whole lifetime. Records are never allocated or freed; only their queue
// membership, flow flag, duration and start time change.
//
// # Pending Queue
//
// Zones waiting to run are threaded through the table in arrival order.
// Each record stores the table index of its neighbours rather than a
// pointer, so a slot always belongs to exactly one table and an unlinked
// zone can only hold [None] links.
//
//   - Enqueue appends at the tail; a zone already queued keeps its place.
//   - Remove unlinks any queued zone in O(1).
//   - Only the head may be flowing.
//
// # Consistency
//
// [Table.Check] walks the queue and the whole table and reports the first
// broken invariant as an [*InvariantError]. Callers treat such an error as
// fatal: the queue no longer describes which valve may be open.
package zone
