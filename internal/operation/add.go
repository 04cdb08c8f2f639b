package operation

import (
	"fmt"

	"github.com/bifshteksex/crdt-engine/internal/actor"
	"github.com/bifshteksex/crdt-engine/internal/crdt"
	"github.com/bifshteksex/crdt-engine/internal/tick"
)

// Add inserts value immediately after PrevCreatedAt in the Array at
// ParentCreatedAt (§4.G).
type Add struct {
	parentCreatedAt tick.Ticket
	prevCreatedAt   tick.Ticket
	value           crdt.Element
	executedAt      tick.Ticket
}

// NewAdd builds an Add operation.
func NewAdd(parentCreatedAt, prevCreatedAt tick.Ticket, value crdt.Element, executedAt tick.Ticket) *Add {
	return &Add{parentCreatedAt: parentCreatedAt, prevCreatedAt: prevCreatedAt, value: value, executedAt: executedAt}
}

func (a *Add) ParentCreatedAt() tick.Ticket { return a.parentCreatedAt }
func (a *Add) ExecutedAt() tick.Ticket      { return a.executedAt }
func (a *Add) PrevCreatedAt() tick.Ticket   { return a.prevCreatedAt }
func (a *Add) Value() crdt.Element          { return a.value }

func (a *Add) Execute(root *crdt.Root) error {
	container, err := containerAt(root, a.parentCreatedAt)
	if err != nil {
		return err
	}
	arr, ok := container.(*crdt.Array)
	if !ok {
		return fmt.Errorf("%w: ADD on non-array parent %s", crdt.ErrTypeMismatch, a.parentCreatedAt)
	}

	if err := arr.InsertAfter(a.prevCreatedAt, a.value, a.executedAt); err != nil {
		return err
	}
	root.RegisterElement(a.value, arr)
	return nil
}

func (a *Add) SetActor(actorID actor.ID) {
	a.executedAt = a.executedAt.SetActor(actorID)
}

func (a *Add) StructureAsString() string {
	return structureAsString(a.parentCreatedAt, "ADD")
}
