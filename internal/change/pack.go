package change

import "github.com/bifshteksex/crdt-engine/internal/vector"

// Checkpoint records local sync progress: the highest server sequence
// this client has applied, and the highest client sequence the server
// has acknowledged (§4.J, glossary).
type Checkpoint struct {
	ServerSeq uint64
	ClientSeq uint32
}

// InitialCheckpoint is the starting point for a brand-new document.
var InitialCheckpoint = Checkpoint{}

// Forward advances this checkpoint to the max of itself and other in
// each field independently — a checkpoint never regresses.
func (c Checkpoint) Forward(other Checkpoint) Checkpoint {
	next := c
	if other.ServerSeq > next.ServerSeq {
		next.ServerSeq = other.ServerSeq
	}
	if other.ClientSeq > next.ClientSeq {
		next.ClientSeq = other.ClientSeq
	}
	return next
}

// Pack envelopes the only datum exchanged with the coordinator: the
// document identity, sync checkpoint, an optional GC floor, the ordered
// changes, and an optional snapshot that replaces the root wholesale
// (§4.J, §6).
type Pack struct {
	DocumentKey            string
	Checkpoint             Checkpoint
	MinSyncedVersionVector vector.Map
	Changes                []*Change
	Snapshot               []byte
	IsRemoved              bool
}

// HasChanges reports whether this pack carries any changes to apply.
func (p *Pack) HasChanges() bool {
	return len(p.Changes) > 0
}

// HasSnapshot reports whether this pack carries a full-root snapshot.
func (p *Pack) HasSnapshot() bool {
	return len(p.Snapshot) > 0
}
