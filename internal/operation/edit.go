package operation

import (
	"fmt"

	"github.com/bifshteksex/crdt-engine/internal/actor"
	"github.com/bifshteksex/crdt-engine/internal/crdt"
	"github.com/bifshteksex/crdt-engine/internal/tick"
)

// Edit inserts a single character after PrevCreatedAt in the Tree at
// ParentCreatedAt. It stands in for the rich-text EDIT/STYLE/TREE-EDIT
// family at the clocking/GC boundary (§1, §4.G): the per-node splitting
// algorithm a full rich-text CRDT needs is out of scope, so Edit only
// ever inserts one character at a time.
type Edit struct {
	parentCreatedAt tick.Ticket
	prevCreatedAt   tick.Ticket
	value           rune
	executedAt      tick.Ticket
}

// NewEdit builds an Edit operation.
func NewEdit(parentCreatedAt, prevCreatedAt tick.Ticket, value rune, executedAt tick.Ticket) *Edit {
	return &Edit{parentCreatedAt: parentCreatedAt, prevCreatedAt: prevCreatedAt, value: value, executedAt: executedAt}
}

func (e *Edit) ParentCreatedAt() tick.Ticket { return e.parentCreatedAt }
func (e *Edit) ExecutedAt() tick.Ticket      { return e.executedAt }
func (e *Edit) PrevCreatedAt() tick.Ticket   { return e.prevCreatedAt }
func (e *Edit) Value() rune                  { return e.value }

func (e *Edit) Execute(root *crdt.Root) error {
	container, err := containerAt(root, e.parentCreatedAt)
	if err != nil {
		return err
	}
	tree, ok := container.(*crdt.Tree)
	if !ok {
		return fmt.Errorf("%w: EDIT on non-tree parent %s", crdt.ErrTypeMismatch, e.parentCreatedAt)
	}

	node, err := tree.InsertAfter(e.prevCreatedAt, e.value, e.executedAt)
	if err != nil {
		return err
	}
	root.RegisterElement(node, tree)
	return nil
}

func (e *Edit) SetActor(actorID actor.ID) {
	e.executedAt = e.executedAt.SetActor(actorID)
}

func (e *Edit) StructureAsString() string {
	return structureAsString(e.parentCreatedAt, "EDIT")
}
