// Package actor identifies the session that issues changes against a
// document. An ActorID is opaque to the core: callers typically fill it
// with a UUID, but the engine never parses or validates its contents.
package actor

// ID is an opaque actor identity. The zero value is the "initial" actor
// used for tickets that predate the document knowing its real actor
// (see InitialID).
type ID string

// InitialID is the placeholder actor assigned to a document before it is
// attached to a real session. TimeTicket.INITIAL carries this actor.
const InitialID ID = ""

// String returns the actor as a plain string.
func (a ID) String() string {
	return string(a)
}

// Compare orders two ActorIDs lexicographically, matching TimeTicket's
// total order tie-break rule (lamport, then actor, then delimiter).
func (a ID) Compare(other ID) int {
	switch {
	case a < other:
		return -1
	case a > other:
		return 1
	default:
		return 0
	}
}
