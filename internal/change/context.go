package change

import (
	"github.com/bifshteksex/crdt-engine/internal/operation"
	"github.com/bifshteksex/crdt-engine/internal/tick"
)

// Context is the transient buffer scoped to a single Document.Update
// call (§4.I). It issues tickets against the in-progress ChangeID and
// accumulates the operations the callback performs, producing an
// immutable Change on commit.
type Context struct {
	id         ID
	operations []operation.Operation
	message    string
	delimiter  uint32
}

// NewContext opens a context for id. message is attached to the
// resulting Change if non-empty.
func NewContext(id ID, message string) *Context {
	return &Context{id: id, message: message}
}

// IssueTimeTicket produces a fresh, strictly increasing ticket within
// this context: the ChangeID's lamport paired with an incrementing
// delimiter (P2).
func (c *Context) IssueTimeTicket() tick.Ticket {
	t := c.id.NewTimeTicket(c.delimiter)
	c.delimiter++
	return t
}

// Push appends op to the ordered operation list.
func (c *Context) Push(op operation.Operation) {
	c.operations = append(c.operations, op)
}

// HasOperations reports whether any operation has been pushed.
func (c *Context) HasOperations() bool {
	return len(c.operations) > 0
}

// GetChange yields the immutable Change this context has accumulated.
func (c *Context) GetChange() *Change {
	ops := make([]operation.Operation, len(c.operations))
	copy(ops, c.operations)
	return &Change{id: c.id, operations: ops, message: c.message}
}
