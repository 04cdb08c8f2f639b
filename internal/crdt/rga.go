package crdt

import (
	"fmt"

	"github.com/bifshteksex/crdt-engine/internal/tick"
)

// rgaNode is one link in the doubly-linked sequence.
type rgaNode struct {
	value Element
	prev  *rgaNode
	next  *rgaNode
}

// rga is the RGA-like sequence backing Array (§4.F): a doubly-linked
// list anchored by a head sentinel at tick.Initial, plus a secondary
// index from an element's stable createdAt to its node. Ordering
// within the list is governed by each node's position ticket
// (movedAt, or createdAt if never moved), but lookups by prevID or
// targetID always address the stable createdAt — MOVE relocates a
// node without changing its identity.
type rga struct {
	head  *rgaNode
	index map[tick.Ticket]*rgaNode
}

func newRGA() *rga {
	head := &rgaNode{}
	return &rga{head: head, index: map[tick.Ticket]*rgaNode{tick.Initial: head}}
}

// insertAfter links value immediately after prevID (the previous
// sibling's createdAt, or tick.Initial for the head), skipping forward
// over sibling nodes whose position ticket already sorts after
// executedAt (siblings inserted concurrently after the same parent
// sort by descending executedAt, §4.F).
func (r *rga) insertAfter(prevID tick.Ticket, value Element, executedAt tick.Ticket) error {
	prev, ok := r.index[prevID]
	if !ok {
		return fmt.Errorf("%w: prev ticket %s", ErrNotFound, prevID)
	}

	node := &rgaNode{value: value}
	r.link(prev, node, executedAt)
	r.index[value.CreatedAt()] = node
	return nil
}

// link splices node in after prev, skipping any already-linked
// siblings whose position ticket sorts after executedAt.
func (r *rga) link(prev *rgaNode, node *rgaNode, executedAt tick.Ticket) {
	cursor := prev
	for cursor.next != nil && positionTicket(cursor.next.value).After(executedAt) {
		cursor = cursor.next
	}

	node.prev = cursor
	node.next = cursor.next
	if cursor.next != nil {
		cursor.next.prev = node
	}
	cursor.next = node
}

// moveAfter relinks target immediately after prevID and stamps its
// movedAt, honoring the Thomas-write rule: a no-op if target has
// already been moved (or created) at a ticket >= executedAt.
func (r *rga) moveAfter(prevID, targetID tick.Ticket, executedAt tick.Ticket) error {
	prev, ok := r.index[prevID]
	if !ok {
		return fmt.Errorf("%w: prev ticket %s", ErrNotFound, prevID)
	}
	target, ok := r.index[targetID]
	if !ok {
		return fmt.Errorf("%w: target ticket %s", ErrNotFound, targetID)
	}

	current := positionTicket(target.value)
	if current.Compare(executedAt) >= 0 {
		return nil
	}

	r.detach(target)
	r.link(prev, target, executedAt)
	target.value.SetMovedAt(executedAt)

	return nil
}

func (r *rga) detach(node *rgaNode) {
	if node.prev != nil {
		node.prev.next = node.next
	}
	if node.next != nil {
		node.next.prev = node.prev
	}
}

// remove tombstones the element at targetID if executedAt is newer.
// The node stays linked so concurrent moves can still resolve against
// it. Returns the removed element and true on a genuine transition.
func (r *rga) remove(targetID tick.Ticket, executedAt tick.Ticket) (Element, bool) {
	node, ok := r.index[targetID]
	if !ok {
		return nil, false
	}
	if node.value.Remove(executedAt) {
		return node.value, true
	}
	return nil, false
}

// purge permanently unlinks a tombstoned node carrying value.
func (r *rga) purge(value Element) error {
	node, ok := r.index[value.CreatedAt()]
	if !ok {
		return fmt.Errorf("%w: element %s", ErrNotFound, value.CreatedAt())
	}
	r.detach(node)
	delete(r.index, value.CreatedAt())
	return nil
}

// getByIndex walks live (non-removed) nodes and returns the i-th one.
func (r *rga) getByIndex(i int) (Element, error) {
	count := 0
	for n := r.head.next; n != nil; n = n.next {
		if _, removed := n.value.RemovedAt(); removed {
			continue
		}
		if count == i {
			return n.value, nil
		}
		count++
	}
	return nil, fmt.Errorf("%w: index %d out of range", ErrNotFound, i)
}

// tailCreatedAt returns the stable createdAt of the physically last
// linked node (live or tombstoned), or tick.Initial if the sequence is
// empty. Used by the document proxy to implement append-at-end.
func (r *rga) tailCreatedAt() tick.Ticket {
	n := r.head
	for n.next != nil {
		n = n.next
	}
	if n == r.head {
		return tick.Initial
	}
	return n.value.CreatedAt()
}

// elements returns every child, live and tombstoned, in list order.
func (r *rga) elements() []Element {
	var out []Element
	for n := r.head.next; n != nil; n = n.next {
		out = append(out, n.value)
	}
	return out
}

func (r *rga) deepCopy() *rga {
	c := newRGA()
	prev := c.head
	for n := r.head.next; n != nil; n = n.next {
		copied := n.value.DeepCopy()
		node := &rgaNode{value: copied, prev: prev}
		prev.next = node
		prev = node
		c.index[copied.CreatedAt()] = node
	}
	return c
}
