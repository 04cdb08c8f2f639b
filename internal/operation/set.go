package operation

import (
	"fmt"

	"github.com/bifshteksex/crdt-engine/internal/actor"
	"github.com/bifshteksex/crdt-engine/internal/crdt"
	"github.com/bifshteksex/crdt-engine/internal/tick"
)

// Set assigns value to key on the Object at ParentCreatedAt (§4.G).
type Set struct {
	parentCreatedAt tick.Ticket
	key             string
	value           crdt.Element
	executedAt      tick.Ticket
}

// NewSet builds a Set operation.
func NewSet(parentCreatedAt tick.Ticket, key string, value crdt.Element, executedAt tick.Ticket) *Set {
	return &Set{parentCreatedAt: parentCreatedAt, key: key, value: value, executedAt: executedAt}
}

func (s *Set) ParentCreatedAt() tick.Ticket { return s.parentCreatedAt }
func (s *Set) ExecutedAt() tick.Ticket      { return s.executedAt }
func (s *Set) Value() crdt.Element          { return s.value }
func (s *Set) Key() string                  { return s.key }

// Execute applies the RHT last-writer-wins rule for Key on the target
// Object, registering the new value and any tombstoned loser with root.
func (s *Set) Execute(root *crdt.Root) error {
	container, err := containerAt(root, s.parentCreatedAt)
	if err != nil {
		return err
	}
	obj, ok := container.(*crdt.Object)
	if !ok {
		return fmt.Errorf("%w: SET on non-object parent %s", crdt.ErrTypeMismatch, s.parentCreatedAt)
	}

	loser, won := obj.Set(s.key, s.value, s.executedAt)
	if !won {
		return nil // ConcurrentStale: resolved as no-op, not an error (§7)
	}
	root.RegisterElement(s.value, obj)
	if loser != nil {
		root.RegisterRemoved(loser)
	}
	return nil
}

func (s *Set) SetActor(actorID actor.ID) {
	s.executedAt = s.executedAt.SetActor(actorID)
}

func (s *Set) StructureAsString() string {
	return structureAsString(s.parentCreatedAt, "SET")
}
