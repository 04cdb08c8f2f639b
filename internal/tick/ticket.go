// Package tick implements TimeTicket, the totally ordered logical
// timestamp every CRDT element and operation is stamped with.
package tick

import (
	"fmt"
	"math"

	"github.com/bifshteksex/crdt-engine/internal/actor"
)

// Ticket is a totally ordered logical timestamp: (lamport, delimiter,
// actorID). Two tickets compare by lamport, then actorID, then
// delimiter. Equality is structural.
type Ticket struct {
	lamport   uint64
	delimiter uint32
	actorID   actor.ID
}

// Initial is the sentinel that sorts strictly before any real ticket.
var Initial = Ticket{lamport: 0, delimiter: 0, actorID: actor.InitialID}

// Max is the saturating sentinel that sorts strictly after any real
// ticket produced by this engine.
var Max = Ticket{lamport: math.MaxUint64, delimiter: math.MaxUint32, actorID: actor.ID(string(rune(0x10FFFF)))}

// New constructs a ticket from its three components.
func New(lamport uint64, delimiter uint32, actorID actor.ID) Ticket {
	return Ticket{lamport: lamport, delimiter: delimiter, actorID: actorID}
}

// Lamport returns the logical clock value.
func (t Ticket) Lamport() uint64 { return t.lamport }

// Delimiter returns the sub-ordering counter within a change.
func (t Ticket) Delimiter() uint32 { return t.delimiter }

// ActorID returns the actor that issued this ticket.
func (t Ticket) ActorID() actor.ID { return t.actorID }

// Compare returns -1, 0, or 1 as t is less than, equal to, or greater
// than other, using (lamport, actorID, delimiter) total order.
func (t Ticket) Compare(other Ticket) int {
	if t.lamport != other.lamport {
		if t.lamport < other.lamport {
			return -1
		}
		return 1
	}
	if c := t.actorID.Compare(other.actorID); c != 0 {
		return c
	}
	switch {
	case t.delimiter < other.delimiter:
		return -1
	case t.delimiter > other.delimiter:
		return 1
	default:
		return 0
	}
}

// After reports whether t strictly follows other in the total order.
func (t Ticket) After(other Ticket) bool {
	return t.Compare(other) > 0
}

// Equal reports structural equality.
func (t Ticket) Equal(other Ticket) bool {
	return t.Compare(other) == 0
}

// SetActor returns a copy of t with its actor replaced. Used when a
// document's local placeholder actor is rewritten at attach time
// (see spec's open question on pre-attach tickets).
func (t Ticket) SetActor(actorID actor.ID) Ticket {
	t.actorID = actorID
	return t
}

// String renders the ticket for debugging and structureAsString output.
func (t Ticket) String() string {
	return fmt.Sprintf("%d:%s:%d", t.lamport, t.actorID, t.delimiter)
}
