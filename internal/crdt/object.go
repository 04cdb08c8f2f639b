package crdt

import (
	"fmt"
	"strings"

	"github.com/bifshteksex/crdt-engine/internal/escape"
	"github.com/bifshteksex/crdt-engine/internal/tick"
)

// Object is the unordered key->element map CRDT (§3, §4.E).
type Object struct {
	meta
	rht *rht
}

// NewObject creates an empty Object at createdAt.
func NewObject(createdAt tick.Ticket) *Object {
	return &Object{meta: newMeta(createdAt), rht: newRHT()}
}

// Set applies the RHT's last-writer-wins rule for key. It returns the
// element that lost the tie-break (nil if this set won outright or was
// itself discarded), matching §4.E's semantics.
func (o *Object) Set(key string, value Element, executedAt tick.Ticket) (loser Element, won bool) {
	return o.rht.set(key, value, executedAt)
}

// Get returns the live element at key.
func (o *Object) Get(key string) (Element, error) {
	return o.rht.get(key)
}

// Has reports whether key has a live entry.
func (o *Object) Has(key string) bool {
	return o.rht.has(key)
}

// Keys returns every live key, sorted lexicographically.
func (o *Object) Keys() []string {
	return o.rht.sortedKeys()
}

// RemoveChild tombstones the live element at key if executedAt is
// newer than its current state. Returns the removed element and true
// on a genuine transition to removed.
func (o *Object) RemoveChild(key string, executedAt tick.Ticket) (Element, bool) {
	return o.rht.remove(key, executedAt)
}

// Elements returns every child, live and tombstoned, for traversal.
func (o *Object) Elements() []Element {
	return o.rht.elements()
}

// RemoveByCreatedAt tombstones the child whose createdAt matches, found
// by scanning keys — REMOVE operations address a child by its creation
// ticket regardless of container kind, while the RHT itself is keyed by
// string. Returns the removed element and true on a genuine transition.
func (o *Object) RemoveByCreatedAt(createdAt tick.Ticket, executedAt tick.Ticket) (Element, bool) {
	for _, k := range allKeys(o.rht) {
		node := o.rht.nodes[k]
		if node.value.CreatedAt().Equal(createdAt) {
			return o.rht.remove(k, executedAt)
		}
	}
	return nil, false
}

// Purge permanently removes child from the underlying RHT. child must
// be reachable by one of this object's keys.
func (o *Object) Purge(child Element) error {
	for _, k := range allKeys(o.rht) {
		node := o.rht.nodes[k]
		if node.value == child {
			delete(o.rht.nodes, k)
			return nil
		}
	}
	return fmt.Errorf("%w: child %s not found in object %s", ErrNotFound, child.CreatedAt(), o.createdAt)
}

func allKeys(r *rht) []string {
	keys := make([]string, 0, len(r.nodes))
	for k := range r.nodes {
		keys = append(keys, k)
	}
	return keys
}

// DeepCopy returns an independent copy of this object and its children.
func (o *Object) DeepCopy() Element {
	return &Object{meta: o.deepCopyMeta(), rht: o.rht.deepCopy()}
}

// JSON renders `{` sorted keys `:` values `}`, live entries only.
func (o *Object) JSON() string {
	var b strings.Builder
	b.WriteByte('{')
	keys := o.rht.sortedKeys()
	for i, k := range keys {
		if i > 0 {
			b.WriteByte(',')
		}
		node, _ := o.rht.get(k)
		b.WriteByte('"')
		b.WriteString(escape.String(k))
		b.WriteByte('"')
		b.WriteByte(':')
		b.WriteString(node.JSON())
	}
	b.WriteByte('}')
	return b.String()
}
