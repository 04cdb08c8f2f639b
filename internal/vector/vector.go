// Package vector implements VersionVector, the per-actor lamport
// frontier used to express "what has this peer observed" and to drive
// garbage collection.
package vector

import (
	"github.com/bifshteksex/crdt-engine/internal/actor"
	"github.com/bifshteksex/crdt-engine/internal/tick"
)

// Map is a mapping from actorID to the highest lamport timestamp
// observed from that actor.
type Map map[actor.ID]uint64

// New returns an empty version vector.
func New() Map {
	return make(Map)
}

// Get returns the lamport value recorded for actorID, or 0 if absent.
func (m Map) Get(actorID actor.ID) uint64 {
	return m[actorID]
}

// Set unconditionally records lamport for actorID.
func (m Map) Set(actorID actor.ID, lamport uint64) {
	m[actorID] = lamport
}

// MaxLamport returns the maximum value across all entries, or 0 if the
// vector is empty.
func (m Map) MaxLamport() uint64 {
	var max uint64
	for _, l := range m {
		if l > max {
			max = l
		}
	}
	return max
}

// Max returns a new vector holding the entry-wise maximum of m and
// other.
func (m Map) Max(other Map) Map {
	merged := make(Map, len(m)+len(other))
	for a, l := range m {
		merged[a] = l
	}
	for a, l := range other {
		if l > merged[a] {
			merged[a] = l
		}
	}
	return merged
}

// AfterOrEqual reports whether this vector has observed the actor of t
// at least up to t's lamport. An actor missing from the vector is
// treated as "seen enough" — this lets an empty vector (the no-peers
// case) dominate every ticket, which GC relies on.
func (m Map) AfterOrEqual(t tick.Ticket) bool {
	lamport, ok := m[t.ActorID()]
	if !ok {
		return true
	}
	return lamport >= t.Lamport()
}

// DeepCopy returns an independent copy of m.
func (m Map) DeepCopy() Map {
	c := make(Map, len(m))
	for a, l := range m {
		c[a] = l
	}
	return c
}

// Size returns the number of actor entries tracked.
func (m Map) Size() int {
	return len(m)
}

// Filter returns a new vector retaining only entries whose actor
// appears as a key in keys.
func (m Map) Filter(keys Map) Map {
	filtered := make(Map)
	for a := range keys {
		if l, ok := m[a]; ok {
			filtered[a] = l
		}
	}
	return filtered
}
