// Package change implements ChangeID, ChangeContext, Change, and
// ChangePack: the batching and transport layer above the raw CRDT
// element graph (§4.I, §4.J).
package change

import (
	"github.com/bifshteksex/crdt-engine/internal/actor"
	"github.com/bifshteksex/crdt-engine/internal/tick"
	"github.com/bifshteksex/crdt-engine/internal/vector"
)

// ID identifies and orders a Change. Two changes from the same actor
// compare by ClientSeq (§3).
type ID struct {
	clientSeq     uint32
	lamport       uint64
	actorID       actor.ID
	versionVector vector.Map
}

// InitialID is the ChangeID a brand-new document starts with.
func InitialID() ID {
	return ID{clientSeq: 0, lamport: 0, actorID: actor.InitialID, versionVector: vector.New()}
}

// NewID constructs a ChangeID explicitly, used when rehydrating from a
// wire ChangePack.
func NewID(clientSeq uint32, lamport uint64, actorID actor.ID, vv vector.Map) ID {
	return ID{clientSeq: clientSeq, lamport: lamport, actorID: actorID, versionVector: vv}
}

func (id ID) ClientSeq() uint32        { return id.clientSeq }
func (id ID) Lamport() uint64          { return id.lamport }
func (id ID) ActorID() actor.ID        { return id.actorID }
func (id ID) VersionVector() vector.Map { return id.versionVector }

// Next returns the ChangeID for the next local change: clientSeq
// increments, lamport advances by the standard Lamport rule (local
// lamport + 1), and the version vector records this actor's own new
// lamport (§4.C).
func (id ID) Next() ID {
	next := ID{
		clientSeq:     id.clientSeq + 1,
		lamport:       id.lamport + 1,
		actorID:       id.actorID,
		versionVector: id.versionVector.DeepCopy(),
	}
	next.versionVector.Set(next.actorID, next.lamport)
	return next
}

// SyncLamport updates lamport on receiving a remote change, per the
// standard Lamport clock rule: max(local, remote) + 1 (§4.C).
func (id ID) SyncLamport(remoteLamport uint64) ID {
	next := id
	if remoteLamport > next.lamport {
		next.lamport = remoteLamport
	}
	next.lamport++
	return next
}

// SetActor rewrites the actor this ChangeID is attributed to, used when
// a document's local placeholder actor is replaced with its real one
// at attach time (§4.C, §9).
func (id ID) SetActor(actorID actor.ID) ID {
	id.actorID = actorID
	return id
}

// NewTimeTicket issues a ticket at this ChangeID's current lamport for
// the given sub-ordering delimiter.
func (id ID) NewTimeTicket(delimiter uint32) tick.Ticket {
	return tick.New(id.lamport, delimiter, id.actorID)
}
