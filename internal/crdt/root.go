package crdt

import (
	"github.com/bifshteksex/crdt-engine/internal/tick"
	"github.com/bifshteksex/crdt-engine/internal/vector"
)

// Root owns the element graph and the tombstone index for a document
// (§4.H, §9). It exclusively holds the registries; elements themselves
// hold no owning references to their siblings or parent.
type Root struct {
	object *Object

	// elementByID maps every live-or-tombstoned element's createdAt to
	// its handle, giving operations O(1) lookup by ticket.
	elementByID map[tick.Ticket]Element

	// removedByID maps a tombstoned element's createdAt to its handle.
	// Populated when an element's removedAt transitions from unset.
	removedByID map[tick.Ticket]Element

	// parentByID maps a child's createdAt to the container that owns
	// it, so GC can ask the parent to physically purge the child
	// without elements needing an owning back-reference (§9).
	parentByID map[tick.Ticket]Container
}

// NewRoot builds a Root anchored at obj, recursively registering obj
// and every element already reachable from it.
func NewRoot(obj *Object) *Root {
	r := &Root{
		object:      obj,
		elementByID: make(map[tick.Ticket]Element),
		removedByID: make(map[tick.Ticket]Element),
		parentByID:  make(map[tick.Ticket]Container),
	}
	r.registerSubtree(obj, nil)
	return r
}

// Object returns the root element.
func (r *Root) Object() *Object {
	return r.object
}

// FindByCreatedAt looks up any element in the graph by its creation
// ticket, live or tombstoned.
func (r *Root) FindByCreatedAt(createdAt tick.Ticket) (Element, bool) {
	e, ok := r.elementByID[createdAt]
	return e, ok
}

// RegisterElement records a newly created or newly attached element
// (and, if it is a container, its entire descendant subtree) under
// parent. Operation executors call this immediately after linking a
// new value into the document.
func (r *Root) RegisterElement(elem Element, parent Container) {
	r.registerSubtree(elem, parent)
}

func (r *Root) registerSubtree(elem Element, parent Container) {
	r.elementByID[elem.CreatedAt()] = elem
	if parent != nil {
		r.parentByID[elem.CreatedAt()] = parent
	}
	if _, removed := elem.RemovedAt(); removed {
		r.removedByID[elem.CreatedAt()] = elem
	}

	switch v := elem.(type) {
	case *Object:
		for _, child := range v.Elements() {
			r.registerSubtree(child, v)
		}
	case *Array:
		for _, child := range v.Elements() {
			r.registerSubtree(child, v)
		}
	case *Tree:
		for _, child := range v.Elements() {
			r.registerSubtree(child, v)
		}
	}
}

// RegisterRemoved records that elem has just transitioned from live to
// tombstoned. Operation executors call this whenever an Element.Remove
// or container RemoveChild call returns true.
func (r *Root) RegisterRemoved(elem Element) {
	r.removedByID[elem.CreatedAt()] = elem
}

// GetGarbageLength returns the total count of tombstones currently
// tracked.
func (r *Root) GetGarbageLength() int {
	return len(r.removedByID)
}

// GarbageCollect purges every tombstoned element whose removal has
// been observed by every peer represented in minSyncedVersionVector
// (i.e. minSyncedVersionVector.AfterOrEqual(removedAt) is true). It
// returns the number of elements purged. A tombstone whose parent is
// no longer present is dropped without error (§7).
func (r *Root) GarbageCollect(minSyncedVersionVector vector.Map) int {
	purged := 0
	for id, elem := range r.removedByID {
		removedAt, ok := elem.RemovedAt()
		if !ok {
			delete(r.removedByID, id)
			continue
		}
		if !minSyncedVersionVector.AfterOrEqual(removedAt) {
			continue
		}

		if parent, ok := r.parentByID[id]; ok {
			_ = parent.Purge(elem) // best-effort: already-unlinked child is not an error
		}

		delete(r.removedByID, id)
		delete(r.elementByID, id)
		delete(r.parentByID, id)
		purged++
	}
	return purged
}

// DeepCopy returns an independent Root over a deep copy of the element
// graph, used when a Document needs a protected clone to mutate
// against (§5, §9).
func (r *Root) DeepCopy() *Root {
	copied := r.object.DeepCopy().(*Object)
	return NewRoot(copied)
}

// Marshal renders the root object per the canonical JSON rules (§6).
func (r *Root) Marshal() string {
	return r.object.JSON()
}

// AsContainer returns elem as a Container if it is one (Object, Array,
// or Tree), used by operation executors that need to type-switch on
// the parent element addressed by a ticket.
func AsContainer(elem Element) (Container, bool) {
	c, ok := elem.(Container)
	return c, ok
}
