// Package projection builds the local timeline replayed to joining
// participants. Handles ordering and capacity eviction only; it does
// not emit events or interact with connections directly.
package projection

import "chat-relay/protocol"

// DefaultCapacity is the number of events retained for history replay.
const DefaultCapacity = 200

// Timeline holds a bounded, oldest-first log of broadcast events.
// Appending beyond capacity evicts the oldest entry. Not safe for
// concurrent use; the relay serializes access under its own lock.
type Timeline struct {
	capacity int
	events   []protocol.Event
}

func NewTimeline(capacity int) *Timeline {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Timeline{capacity: capacity}
}

// Append records an event, evicting the oldest entry when full.
func (t *Timeline) Append(e protocol.Event) {
	t.events = append(t.events, e)
	if len(t.events) > t.capacity {
		// Shift instead of re-slicing so evicted entries are released.
		copy(t.events, t.events[1:])
		t.events = t.events[:t.capacity]
	}
}

// Snapshot returns the retained events oldest-first. The slice is a
// copy; callers may hold it across later appends.
func (t *Timeline) Snapshot() []protocol.Event {
	out := make([]protocol.Event, len(t.events))
	copy(out, t.events)
	return out
}

func (t *Timeline) Len() int {
	return len(t.events)
}
