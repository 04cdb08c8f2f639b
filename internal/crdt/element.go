// Package crdt implements the replicated data types that make up a
// document: Primitive, Object (backed by an RHT), Array (backed by an
// RGA-like sequence), a minimal Tree plug-in, and the Root registry that
// owns the element graph and tombstone index.
package crdt

import "github.com/bifshteksex/crdt-engine/internal/tick"

// Element is the capability set every CRDT variant implements: a
// creation timestamp, an optional move timestamp (meaningful only for
// Array children), an optional removal (tombstone) timestamp, and
// deep-copy/JSON rendering.
type Element interface {
	// CreatedAt returns the ticket this element was created at.
	CreatedAt() tick.Ticket

	// MovedAt returns the last MOVE's executedAt and true, or the zero
	// ticket and false if this element has never been moved.
	MovedAt() (tick.Ticket, bool)

	// SetMovedAt records a newer move timestamp unconditionally; callers
	// (the Array sequence) are responsible for the Thomas-write check.
	SetMovedAt(t tick.Ticket)

	// RemovedAt returns the tombstone timestamp and true, or the zero
	// ticket and false if this element is live.
	RemovedAt() (tick.Ticket, bool)

	// Remove tombstones the element if executedAt is strictly newer
	// than the current removedAt (or createdAt if never removed). It
	// reports whether the element transitioned from live to removed,
	// which callers use to register the element for garbage collection.
	Remove(executedAt tick.Ticket) bool

	// DeepCopy returns an independent copy of this element and, for
	// containers, its entire descendant subtree.
	DeepCopy() Element

	// JSON renders this element's value per the canonical serialization
	// rules in §6. Containers recurse into their live children only.
	JSON() string
}

// Container is an Element that owns children and can physically purge
// a tombstoned one during garbage collection.
type Container interface {
	Element

	// Purge permanently unlinks child from this container's internal
	// structure. Called only after the root has determined child's
	// removal is dominated by every peer's version vector.
	Purge(child Element) error
}

// meta holds the three timestamps every element carries and implements
// the common parts of the Element interface. Concrete variants embed it.
type meta struct {
	createdAt tick.Ticket
	movedAt   *tick.Ticket
	removedAt *tick.Ticket
}

func newMeta(createdAt tick.Ticket) meta {
	return meta{createdAt: createdAt}
}

func (m *meta) CreatedAt() tick.Ticket { return m.createdAt }

func (m *meta) MovedAt() (tick.Ticket, bool) {
	if m.movedAt == nil {
		return tick.Ticket{}, false
	}
	return *m.movedAt, true
}

func (m *meta) SetMovedAt(t tick.Ticket) {
	tc := t
	m.movedAt = &tc
}

func (m *meta) RemovedAt() (tick.Ticket, bool) {
	if m.removedAt == nil {
		return tick.Ticket{}, false
	}
	return *m.removedAt, true
}

// Remove implements the idempotent tombstone rule I2/§4.D: removedAt is
// only ever advanced to a strictly newer executedAt.
func (m *meta) Remove(executedAt tick.Ticket) bool {
	current := m.createdAt
	if m.removedAt != nil {
		current = *m.removedAt
	}
	if !executedAt.After(current) {
		return false
	}
	ec := executedAt
	m.removedAt = &ec
	return true
}

func (m *meta) deepCopyMeta() meta {
	c := meta{createdAt: m.createdAt}
	if m.movedAt != nil {
		t := *m.movedAt
		c.movedAt = &t
	}
	if m.removedAt != nil {
		t := *m.removedAt
		c.removedAt = &t
	}
	return c
}

// positionTicket is the ticket an Array sequence indexes children by:
// the element's movedAt if set, otherwise its createdAt (§4.F).
func positionTicket(e Element) tick.Ticket {
	if t, ok := e.MovedAt(); ok {
		return t
	}
	return e.CreatedAt()
}
