// Package operation implements the replayable mutation variants applied
// to a document's element graph: SET, ADD, MOVE, REMOVE, and EDIT (the
// Tree analogue of ADD). Every operation stamps the parent it
// targets and the ticket it executes at, and knows how to replay itself
// against a *crdt.Root regardless of whether it originated locally or
// arrived from a remote peer.
package operation

import (
	"fmt"

	"github.com/bifshteksex/crdt-engine/internal/actor"
	"github.com/bifshteksex/crdt-engine/internal/crdt"
	"github.com/bifshteksex/crdt-engine/internal/tick"
)

// Operation is a single replayable mutation. Execute applies it against
// root; callers (Change.Execute) stop the batch on the first error.
type Operation interface {
	// ParentCreatedAt is the creation ticket of the container this
	// operation targets.
	ParentCreatedAt() tick.Ticket

	// ExecutedAt is the ticket this operation was performed at.
	ExecutedAt() tick.Ticket

	// Execute replays the operation against root.
	Execute(root *crdt.Root) error

	// SetActor rewrites the actor of the operation's executedAt to
	// actorID; other embedded tickets are left as they are. Used once a
	// document's local placeholder actor is replaced with its real one.
	SetActor(actorID actor.ID)

	// StructureAsString renders a stable debug form:
	// "<parent.lamport>:<parent.actor>:<parent.delimiter>.<OPCODE>".
	StructureAsString() string
}

func structureAsString(parentCreatedAt tick.Ticket, opcode string) string {
	return fmt.Sprintf("%d:%s:%d.%s", parentCreatedAt.Lamport(), parentCreatedAt.ActorID(), parentCreatedAt.Delimiter(), opcode)
}

func containerAt(root *crdt.Root, parentCreatedAt tick.Ticket) (crdt.Container, error) {
	elem, ok := root.FindByCreatedAt(parentCreatedAt)
	if !ok {
		return nil, fmt.Errorf("%w: parent %s", crdt.ErrNotFound, parentCreatedAt)
	}
	container, ok := crdt.AsContainer(elem)
	if !ok {
		return nil, fmt.Errorf("%w: parent %s is not a container", crdt.ErrTypeMismatch, parentCreatedAt)
	}
	return container, nil
}
