package crdt

import (
	"fmt"
	"sort"

	"github.com/bifshteksex/crdt-engine/internal/tick"
)

// rhtNode is a single RHT entry: the element stored at key and the
// ticket that last wrote it.
type rhtNode struct {
	key       string
	value     Element
	executedAt tick.Ticket
}

// rht is a Replicated Hash Table: string key to element, resolved by
// last-writer-wins on the entry's executedAt ticket (§4.E). Each key
// holds only its winning entry; a displaced value is tombstoned and
// handed back to the caller, and no longer sits in the table.
type rht struct {
	nodes map[string]*rhtNode
}

func newRHT() *rht {
	return &rht{nodes: make(map[string]*rhtNode)}
}

// set inserts value at key iff there is no entry for key (live or
// tombstoned) whose
// executedAt is >= the argument's. It returns the element that lost
// the tie-break (to be tombstoned by the caller) and whether the new
// value won.
func (r *rht) set(key string, value Element, executedAt tick.Ticket) (loser Element, won bool) {
	existing, ok := r.nodes[key]
	if ok && existing.executedAt.Compare(executedAt) >= 0 {
		// Losing the tie-break leaves the existing entry untouched.
		return nil, false
	}

	r.nodes[key] = &rhtNode{key: key, value: value, executedAt: executedAt}
	if ok {
		existing.value.Remove(executedAt)
		return existing.value, true
	}
	return nil, true
}

// get returns the live value at key, or ErrNotFound.
func (r *rht) get(key string) (Element, error) {
	node, ok := r.nodes[key]
	if !ok {
		return nil, fmt.Errorf("%w: key %q", ErrNotFound, key)
	}
	if _, removed := node.value.RemovedAt(); removed {
		return nil, fmt.Errorf("%w: key %q", ErrNotFound, key)
	}
	return node.value, nil
}

// has reports whether key has a live entry.
func (r *rht) has(key string) bool {
	node, ok := r.nodes[key]
	if !ok {
		return false
	}
	_, removed := node.value.RemovedAt()
	return !removed
}

// remove tombstones the live entry at key if executedAt is newer.
// Returns the removed element and true if it transitioned to removed.
func (r *rht) remove(key string, executedAt tick.Ticket) (Element, bool) {
	node, ok := r.nodes[key]
	if !ok {
		return nil, false
	}
	if node.value.Remove(executedAt) {
		return node.value, true
	}
	return nil, false
}

// sortedKeys returns the live keys in lexicographic order.
func (r *rht) sortedKeys() []string {
	keys := make([]string, 0, len(r.nodes))
	for k, n := range r.nodes {
		if _, removed := n.value.RemovedAt(); !removed {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys
}

// elements returns every node's value, live and tombstoned alike, for
// deep-copy and root-registration traversal.
func (r *rht) elements() []Element {
	out := make([]Element, 0, len(r.nodes))
	for _, n := range r.nodes {
		out = append(out, n.value)
	}
	return out
}

func (r *rht) deepCopy() *rht {
	c := newRHT()
	for k, n := range r.nodes {
		c.nodes[k] = &rhtNode{key: k, value: n.value.DeepCopy(), executedAt: n.executedAt}
	}
	return c
}
