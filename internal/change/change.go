package change

import (
	"fmt"

	"github.com/bifshteksex/crdt-engine/internal/actor"
	"github.com/bifshteksex/crdt-engine/internal/crdt"
	"github.com/bifshteksex/crdt-engine/internal/operation"
)

// Change is a committed batch of operations tagged with a ChangeID and
// an optional human-readable message (§4.J).
type Change struct {
	id         ID
	operations []operation.Operation
	message    string
}

// New constructs a Change directly, used when rehydrating from a wire
// ChangePack.
func New(id ID, operations []operation.Operation, message string) *Change {
	return &Change{id: id, operations: operations, message: message}
}

func (c *Change) ID() ID                             { return c.id }
func (c *Change) Operations() []operation.Operation  { return c.operations }
func (c *Change) Message() string                    { return c.message }

// SetActor rewrites this change's ChangeID and every operation's
// executedAt to actorID (§4.C, §4.J). Used once after activation when a
// document's real actor id becomes known.
func (c *Change) SetActor(actorID actor.ID) {
	c.id = c.id.SetActor(actorID)
	for _, op := range c.operations {
		op.SetActor(actorID)
	}
}

// Execute applies every operation against root in order, halting and
// reporting on the first error (§4.J). Integration is transactional at
// the Document level: callers must discard root on error rather than
// keep a half-applied copy (§7).
func (c *Change) Execute(root *crdt.Root) error {
	for i, op := range c.operations {
		if err := op.Execute(root); err != nil {
			return fmt.Errorf("change %s: operation %d (%s): %w", c.id.ActorID(), i, op.StructureAsString(), err)
		}
	}
	return nil
}
