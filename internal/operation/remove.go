package operation

import (
	"fmt"

	"github.com/bifshteksex/crdt-engine/internal/actor"
	"github.com/bifshteksex/crdt-engine/internal/crdt"
	"github.com/bifshteksex/crdt-engine/internal/tick"
)

// Remove tombstones the child at CreatedAt in the container at
// ParentCreatedAt, whether that container is an Object, Array, or Tree
// (§4.G).
type Remove struct {
	parentCreatedAt tick.Ticket
	createdAt       tick.Ticket
	executedAt      tick.Ticket
}

// NewRemove builds a Remove operation.
func NewRemove(parentCreatedAt, createdAt, executedAt tick.Ticket) *Remove {
	return &Remove{parentCreatedAt: parentCreatedAt, createdAt: createdAt, executedAt: executedAt}
}

func (r *Remove) ParentCreatedAt() tick.Ticket { return r.parentCreatedAt }
func (r *Remove) ExecutedAt() tick.Ticket      { return r.executedAt }
func (r *Remove) CreatedAt() tick.Ticket       { return r.createdAt }

func (r *Remove) Execute(root *crdt.Root) error {
	container, err := containerAt(root, r.parentCreatedAt)
	if err != nil {
		return err
	}

	var removed crdt.Element
	var ok bool
	switch c := container.(type) {
	case *crdt.Object:
		removed, ok = c.RemoveByCreatedAt(r.createdAt, r.executedAt)
	case *crdt.Array:
		removed, ok = c.RemoveChild(r.createdAt, r.executedAt)
	case *crdt.Tree:
		removed, ok = c.RemoveChild(r.createdAt, r.executedAt)
	default:
		return fmt.Errorf("%w: REMOVE on unsupported parent kind at %s", crdt.ErrTypeMismatch, r.parentCreatedAt)
	}

	if !ok {
		return nil // ConcurrentStale or already-removed: no-op (§7)
	}
	root.RegisterRemoved(removed)
	return nil
}

func (r *Remove) SetActor(actorID actor.ID) {
	r.executedAt = r.executedAt.SetActor(actorID)
}

func (r *Remove) StructureAsString() string {
	return structureAsString(r.parentCreatedAt, "REMOVE")
}
