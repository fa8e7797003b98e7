package zone

import "fmt"

// Table is the fixed zone table plus the pending queue threaded through it.
// A Table is not safe for concurrent use.
type Table struct {
	zones  [MaxZones]Zone
	head   uint8
	tail   uint8
	length int
}

// NewTable creates a table with every zone idle and an empty queue.
func NewTable() *Table {
	t := &Table{}
	t.Reset()
	return t
}

// Reset returns every record to its power-up state and empties the queue.
func (t *Table) Reset() {
	for i := range t.zones {
		t.zones[i].reset(uint8(i))
	}
	t.head = None
	t.tail = None
	t.length = 0
}

// Zone returns the record for id, or nil if id is outside the table.
func (t *Table) Zone(id uint8) *Zone {
	if int(id) >= MaxZones {
		return nil
	}
	return &t.zones[id]
}

// Head returns the first queued zone, or nil if the queue is empty.
func (t *Table) Head() *Zone {
	if t.head == None {
		return nil
	}
	return &t.zones[t.head]
}

// Tail returns the last queued zone, or nil if the queue is empty.
func (t *Table) Tail() *Zone {
	if t.tail == None {
		return nil
	}
	return &t.zones[t.tail]
}

// Len returns the number of queued zones.
func (t *Table) Len() int {
	return t.length
}

// Enqueue appends id to the tail of the queue.
func (t *Table) Enqueue(id uint8) error {
	z := t.Zone(id)
	if z == nil {
		return fmt.Errorf("%w: %d", ErrZoneOutOfRange, id)
	}
	if z.queued {
		return fmt.Errorf("%w: %d", ErrAlreadyQueued, id)
	}

	z.queued = true
	z.prior = t.tail
	z.next = None
	if t.tail != None {
		t.zones[t.tail].next = id
	}
	if t.head == None {
		t.head = id
	}
	t.tail = id
	t.length++
	return nil
}

// Remove unlinks id from the queue. Its flow fields are left untouched.
func (t *Table) Remove(id uint8) error {
	z := t.Zone(id)
	if z == nil {
		return fmt.Errorf("%w: %d", ErrZoneOutOfRange, id)
	}
	if !z.queued {
		return fmt.Errorf("%w: %d", ErrNotQueued, id)
	}

	if z.prior != None {
		t.zones[z.prior].next = z.next
	}
	if z.next != None {
		t.zones[z.next].prior = z.prior
	}
	if t.head == id {
		t.head = z.next
	}
	if t.tail == id {
		t.tail = z.prior
	}

	z.queued = false
	z.prior = None
	z.next = None
	t.length--
	return nil
}

// IDs returns the queued zone identifiers from head to tail.
func (t *Table) IDs() []uint8 {
	ids := make([]uint8, 0, t.length)
	for id := t.head; int(id) < MaxZones && len(ids) < MaxZones; id = t.zones[id].next {
		ids = append(ids, id)
	}
	return ids
}

// Position returns the 0-based queue position of id, or -1 if not queued.
func (t *Table) Position(id uint8) int {
	pos := 0
	for cur := t.head; int(cur) < MaxZones && pos < MaxZones; cur = t.zones[cur].next {
		if cur == id {
			return pos
		}
		pos++
	}
	return -1
}

// Check verifies the queue and every record against the table invariants.
func (t *Table) Check() error {
	if (t.head == None) != (t.tail == None) {
		return &InvariantError{Zone: None, Reason: "head and tail disagree on emptiness"}
	}

	var visited [MaxZones]bool
	count := 0
	prev := None
	for id := t.head; id != None; id = t.zones[id].next {
		if int(id) >= MaxZones {
			return &InvariantError{Zone: prev, Reason: fmt.Sprintf("link to out-of-range zone %d", id)}
		}
		if visited[id] {
			return &InvariantError{Zone: id, Reason: "queue contains a cycle"}
		}
		visited[id] = true
		count++

		z := &t.zones[id]
		if !z.queued {
			return &InvariantError{Zone: id, Reason: "linked but not marked queued"}
		}
		if z.prior != prev {
			return &InvariantError{Zone: id, Reason: fmt.Sprintf("prior link %d, want %d", z.prior, prev)}
		}
		if z.On && id != t.head {
			return &InvariantError{Zone: id, Reason: "flowing but not queue head"}
		}
		prev = id
	}

	if prev != t.tail {
		return &InvariantError{Zone: prev, Reason: fmt.Sprintf("queue ends at %d but tail is %d", prev, t.tail)}
	}
	if count != t.length {
		return &InvariantError{Zone: None, Reason: fmt.Sprintf("queue holds %d zones, length says %d", count, t.length)}
	}

	for i := range t.zones {
		z := &t.zones[i]
		if z.id != uint8(i) {
			return &InvariantError{Zone: uint8(i), Reason: fmt.Sprintf("record carries id %d", z.id)}
		}
		if visited[i] {
			continue
		}
		if z.queued {
			return &InvariantError{Zone: z.id, Reason: "marked queued but unreachable from head"}
		}
		if z.On {
			return &InvariantError{Zone: z.id, Reason: "flowing but not queued"}
		}
		if z.prior != None || z.next != None {
			return &InvariantError{Zone: z.id, Reason: "unqueued zone holds links"}
		}
	}
	return nil
}
