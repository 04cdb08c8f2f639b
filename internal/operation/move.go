package operation

import (
	"fmt"

	"github.com/bifshteksex/crdt-engine/internal/actor"
	"github.com/bifshteksex/crdt-engine/internal/crdt"
	"github.com/bifshteksex/crdt-engine/internal/tick"
)

// Move relinks the child at CreatedAt immediately after PrevCreatedAt
// in the Array at ParentCreatedAt (§4.G). A no-op under the Thomas-write
// rule if the target has already moved past ExecutedAt.
type Move struct {
	parentCreatedAt tick.Ticket
	prevCreatedAt   tick.Ticket
	createdAt       tick.Ticket
	executedAt      tick.Ticket
}

// NewMove builds a Move operation.
func NewMove(parentCreatedAt, prevCreatedAt, createdAt, executedAt tick.Ticket) *Move {
	return &Move{parentCreatedAt: parentCreatedAt, prevCreatedAt: prevCreatedAt, createdAt: createdAt, executedAt: executedAt}
}

func (m *Move) ParentCreatedAt() tick.Ticket { return m.parentCreatedAt }
func (m *Move) ExecutedAt() tick.Ticket      { return m.executedAt }
func (m *Move) PrevCreatedAt() tick.Ticket   { return m.prevCreatedAt }
func (m *Move) CreatedAt() tick.Ticket       { return m.createdAt }

func (m *Move) Execute(root *crdt.Root) error {
	container, err := containerAt(root, m.parentCreatedAt)
	if err != nil {
		return err
	}
	arr, ok := container.(*crdt.Array)
	if !ok {
		return fmt.Errorf("%w: MOVE on non-array parent %s", crdt.ErrTypeMismatch, m.parentCreatedAt)
	}

	return arr.MoveAfter(m.prevCreatedAt, m.createdAt, m.executedAt)
}

func (m *Move) SetActor(actorID actor.ID) {
	m.executedAt = m.executedAt.SetActor(actorID)
}

func (m *Move) StructureAsString() string {
	return structureAsString(m.parentCreatedAt, "MOVE")
}
