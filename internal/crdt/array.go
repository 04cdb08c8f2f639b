package crdt

import (
	"strings"

	"github.com/bifshteksex/crdt-engine/internal/tick"
)

// Array is the ordered list CRDT with move support (§3, §4.F).
type Array struct {
	meta
	seq *rga
}

// NewArray creates an empty Array at createdAt.
func NewArray(createdAt tick.Ticket) *Array {
	return &Array{meta: newMeta(createdAt), seq: newRGA()}
}

// InsertAfter links value immediately after prevCreatedAt.
func (a *Array) InsertAfter(prevCreatedAt tick.Ticket, value Element, executedAt tick.Ticket) error {
	return a.seq.insertAfter(prevCreatedAt, value, executedAt)
}

// MoveAfter relinks the element at targetCreatedAt after prevCreatedAt.
func (a *Array) MoveAfter(prevCreatedAt, targetCreatedAt tick.Ticket, executedAt tick.Ticket) error {
	return a.seq.moveAfter(prevCreatedAt, targetCreatedAt, executedAt)
}

// RemoveChild tombstones the element at targetCreatedAt.
func (a *Array) RemoveChild(targetCreatedAt tick.Ticket, executedAt tick.Ticket) (Element, bool) {
	return a.seq.remove(targetCreatedAt, executedAt)
}

// Get returns the i-th live element.
func (a *Array) Get(i int) (Element, error) {
	return a.seq.getByIndex(i)
}

// TailCreatedAt returns the createdAt of the physically last child
// (live or tombstoned), or tick.Initial if empty. Used to append.
func (a *Array) TailCreatedAt() tick.Ticket {
	return a.seq.tailCreatedAt()
}

// Len returns the count of live elements.
func (a *Array) Len() int {
	n := 0
	for _, e := range a.seq.elements() {
		if _, removed := e.RemovedAt(); !removed {
			n++
		}
	}
	return n
}

// Elements returns every child, live and tombstoned, in list order.
func (a *Array) Elements() []Element {
	return a.seq.elements()
}

// Purge permanently unlinks child from the sequence.
func (a *Array) Purge(child Element) error {
	return a.seq.purge(child)
}

// DeepCopy returns an independent copy of this array and its children.
func (a *Array) DeepCopy() Element {
	return &Array{meta: a.deepCopyMeta(), seq: a.seq.deepCopy()}
}

// JSON renders `[` values in RGA order `]`, live entries only.
func (a *Array) JSON() string {
	var b strings.Builder
	b.WriteByte('[')
	first := true
	for _, e := range a.seq.elements() {
		if _, removed := e.RemovedAt(); removed {
			continue
		}
		if !first {
			b.WriteByte(',')
		}
		first = false
		b.WriteString(e.JSON())
	}
	b.WriteByte(']')
	return b.String()
}
