package crdt

import (
	"strings"

	"github.com/bifshteksex/crdt-engine/internal/tick"
)

// TreeNode is a single character of a Tree/Text plug-in CRDT. It
// carries the same createdAt/removedAt pair as every other element so
// Root's tombstone index can track it uniformly (§3); the per-node
// splitting algorithm a production rich-text CRDT needs is out of
// scope (spec §1) beyond this clock/GC interaction.
type TreeNode struct {
	meta
	value rune
}

// Value returns this node's character.
func (n *TreeNode) Value() rune { return n.value }

// DeepCopy returns an independent copy of this node.
func (n *TreeNode) DeepCopy() Element {
	return &TreeNode{meta: n.deepCopyMeta(), value: n.value}
}

// JSON renders the bare character; Tree.JSON assembles the full string.
func (n *TreeNode) JSON() string {
	return string(n.value)
}

// Tree is a minimal plug-in sequence CRDT for rich text: a linked list
// of TreeNodes reusing the RGA sibling tie-break rule (§4.F), without
// move support. It exists to demonstrate that non-Object/Array CRDTs
// plug into the same clocking and GC machinery as the core variants.
type Tree struct {
	meta
	seq *rga
}

// NewTree creates an empty Tree at createdAt.
func NewTree(createdAt tick.Ticket) *Tree {
	return &Tree{meta: newMeta(createdAt), seq: newRGA()}
}

// InsertAfter creates and links a new character node after prevID.
func (t *Tree) InsertAfter(prevID tick.Ticket, value rune, executedAt tick.Ticket) (*TreeNode, error) {
	node := &TreeNode{meta: newMeta(executedAt), value: value}
	if err := t.seq.insertAfter(prevID, node, executedAt); err != nil {
		return nil, err
	}
	return node, nil
}

// RemoveChild tombstones the node at targetID if executedAt is newer.
func (t *Tree) RemoveChild(targetID tick.Ticket, executedAt tick.Ticket) (Element, bool) {
	return t.seq.remove(targetID, executedAt)
}

// Elements returns every node, live and tombstoned, in sequence order.
func (t *Tree) Elements() []Element {
	return t.seq.elements()
}

// Purge permanently unlinks a tombstoned node.
func (t *Tree) Purge(child Element) error {
	return t.seq.purge(child)
}

// DeepCopy returns an independent copy of this tree and its nodes.
func (t *Tree) DeepCopy() Element {
	return &Tree{meta: t.deepCopyMeta(), seq: t.seq.deepCopy()}
}

// JSON renders the live characters as a single quoted string.
func (t *Tree) JSON() string {
	var b strings.Builder
	b.WriteByte('"')
	for _, e := range t.seq.elements() {
		if _, removed := e.RemovedAt(); removed {
			continue
		}
		b.WriteString(e.JSON())
	}
	b.WriteByte('"')
	return b.String()
}
