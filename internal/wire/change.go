package wire

import (
	"fmt"

	"github.com/bifshteksex/crdt-engine/internal/actor"
	"github.com/bifshteksex/crdt-engine/internal/change"
	"github.com/bifshteksex/crdt-engine/internal/operation"
)

// ChangeIDWire is the JSON shape of a change.ID (§6).
type ChangeIDWire struct {
	ClientSeq     uint32     `json:"clientSeq"`
	Lamport       uint64     `json:"lamport"`
	ActorID       string     `json:"actorId"`
	VersionVector VectorWire `json:"versionVector"`
}

// FromChangeID converts a core ChangeID to its wire shape.
func FromChangeID(id change.ID) ChangeIDWire {
	return ChangeIDWire{
		ClientSeq:     id.ClientSeq(),
		Lamport:       id.Lamport(),
		ActorID:       id.ActorID().String(),
		VersionVector: FromVector(id.VersionVector()),
	}
}

// ToChangeID converts a wire ChangeID back to the core type.
func (w ChangeIDWire) ToChangeID() change.ID {
	return change.NewID(w.ClientSeq, w.Lamport, actor.ID(w.ActorID), w.VersionVector.ToVector())
}

// ChangeWire is the JSON shape of a change.Change (§6).
type ChangeWire struct {
	ID         ChangeIDWire    `json:"id"`
	Operations []OperationWire `json:"operations"`
	Message    string          `json:"message,omitempty"`
}

// FromChange converts a core Change to its wire shape.
func FromChange(c *change.Change) (ChangeWire, error) {
	ops := make([]OperationWire, 0, len(c.Operations()))
	for _, op := range c.Operations() {
		ow, err := FromOperation(op)
		if err != nil {
			return ChangeWire{}, err
		}
		ops = append(ops, ow)
	}
	return ChangeWire{ID: FromChangeID(c.ID()), Operations: ops, Message: c.Message()}, nil
}

// ToChange reconstructs a core Change from its wire shape.
func (w ChangeWire) ToChange() (*change.Change, error) {
	built := make([]operation.Operation, 0, len(w.Operations))
	for i, ow := range w.Operations {
		op, err := ow.ToOperation()
		if err != nil {
			return nil, fmt.Errorf("change operation %d: %w", i, err)
		}
		built = append(built, op)
	}
	return change.New(w.ID.ToChangeID(), built, w.Message), nil
}
