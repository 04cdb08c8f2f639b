// Package document implements Document, the public façade over a
// CRDTRoot: update/subscribe/apply, canonical serialization, and
// garbage collection (§4.K).
package document

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/bifshteksex/crdt-engine/internal/actor"
	"github.com/bifshteksex/crdt-engine/internal/change"
	"github.com/bifshteksex/crdt-engine/internal/crdt"
	"github.com/bifshteksex/crdt-engine/internal/tick"
	"github.com/bifshteksex/crdt-engine/internal/vector"
	"github.com/bifshteksex/crdt-engine/internal/wire"
)

// ChangeInfo summarizes a single successful integration, local or
// remote, delivered to subscribers after the document's lock is
// released (§5, §9).
type ChangeInfo struct {
	Change  *change.Change
	IsLocal bool
}

// Document is the public façade over a document's element graph,
// change log, and sync checkpoint. All mutating entry points serialize
// through mu, matching the single-logical-owner scheduling model (§5).
type Document struct {
	mu sync.Mutex

	key        string
	root       *crdt.Root
	changeID   change.ID
	checkpoint change.Checkpoint

	// localChanges holds committed changes not yet acknowledged by the
	// coordinator (clientSeq above checkpoint.ClientSeq).
	localChanges []*change.Change

	observers      map[int]func(ChangeInfo)
	nextObserverID int
}

// New creates an empty document identified by key; its root is an
// empty CRDTObject created at the bootstrap ticket tick.Initial (§4.K).
func New(key string) *Document {
	return &Document{
		key:       key,
		root:      crdt.NewRoot(crdt.NewObject(tick.Initial)),
		changeID:  change.InitialID(),
		observers: make(map[int]func(ChangeInfo)),
	}
}

// Key returns this document's identifier.
func (d *Document) Key() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.key
}

// Update opens a ChangeContext over a protected clone of the root,
// exposes it to fn through an ObjectProxy, and on success integrates
// the clone as the new root and commits a Change to the local log. On
// error — from fn itself or from a synthesized operation — the clone is
// discarded and the document's observable state is untouched (§4.K,
// §5's cancellation rule).
func (d *Document) Update(fn func(*ObjectProxy) error, message string) error {
	d.mu.Lock()

	workingRoot := d.root.DeepCopy()
	nextID := d.changeID.Next()
	ctx := change.NewContext(nextID, message)
	proxy := newObjectProxy(ctx, workingRoot, workingRoot.Object())

	if err := fn(proxy); err != nil {
		d.mu.Unlock()
		return err
	}
	if !ctx.HasOperations() {
		d.mu.Unlock()
		return nil
	}

	d.root = workingRoot
	d.changeID = nextID
	ch := ctx.GetChange()
	d.localChanges = append(d.localChanges, ch)
	observers := d.snapshotObservers()
	d.mu.Unlock()

	notify(observers, ChangeInfo{Change: ch, IsLocal: true})
	return nil
}

// ApplyChangePack integrates a coordinator-delivered ChangePack:
// optionally installing a snapshot wholesale, replaying changes in
// order against a protected clone, advancing the checkpoint, pruning
// acknowledged local changes, and finally running garbage collection
// against the pack's minSyncedVersionVector. Integration is
// transactional: a failing change leaves the document's prior state
// untouched (§4.K, §7).
func (d *Document) ApplyChangePack(pack *change.Pack) error {
	d.mu.Lock()

	workingRoot := d.root
	if pack.HasSnapshot() {
		installed, err := decodeSnapshot(pack.Snapshot)
		if err != nil {
			d.mu.Unlock()
			return err
		}
		workingRoot = installed
	} else {
		workingRoot = d.root.DeepCopy()
	}

	var lastApplied *change.Change
	for _, ch := range pack.Changes {
		if err := ch.Execute(workingRoot); err != nil {
			d.mu.Unlock()
			return fmt.Errorf("apply change pack %s: %w", pack.DocumentKey, err)
		}
		lastApplied = ch
	}

	d.root = workingRoot
	d.checkpoint = d.checkpoint.Forward(pack.Checkpoint)
	d.pruneAcknowledged()

	if pack.MinSyncedVersionVector != nil {
		d.root.GarbageCollect(pack.MinSyncedVersionVector)
	}

	var observers []func(ChangeInfo)
	if lastApplied != nil {
		observers = d.snapshotObservers()
	}
	d.mu.Unlock()

	if lastApplied != nil {
		notify(observers, ChangeInfo{Change: lastApplied, IsLocal: false})
	}
	return nil
}

func decodeSnapshot(snapshot []byte) (*crdt.Root, error) {
	var ew wire.ElementWire
	if err := json.Unmarshal(snapshot, &ew); err != nil {
		return nil, fmt.Errorf("%w: %v", wire.ErrSerialization, err)
	}
	elem, err := ew.ToElement()
	if err != nil {
		return nil, err
	}
	obj, ok := elem.(*crdt.Object)
	if !ok {
		return nil, fmt.Errorf("%w: snapshot root is not an object", wire.ErrSerialization)
	}
	return crdt.NewRoot(obj), nil
}

// pruneAcknowledged drops local changes the coordinator has confirmed
// receiving (clientSeq at or below the current checkpoint).
func (d *Document) pruneAcknowledged() {
	kept := d.localChanges[:0]
	for _, ch := range d.localChanges {
		if ch.ID().ClientSeq() > d.checkpoint.ClientSeq {
			kept = append(kept, ch)
		}
	}
	d.localChanges = kept
}

// CreateChangePack packages every local change above the current
// checkpoint for transmission to the coordinator (§4.K).
func (d *Document) CreateChangePack() *change.Pack {
	d.mu.Lock()
	defer d.mu.Unlock()

	changes := make([]*change.Change, len(d.localChanges))
	copy(changes, d.localChanges)
	return &change.Pack{
		DocumentKey: d.key,
		Checkpoint:  d.checkpoint,
		Changes:     changes,
	}
}

// SetActor rewrites this document's acting identity and every pending
// local change's ChangeID/operations to actorID. Elements already
// integrated into the root keep the createdAt tickets they were
// created with (see DESIGN.md's resolution of the pre-attach ticket
// rewrite question) — only the outbound representation of not-yet-
// acknowledged changes is rewritten, since those are the only data
// that still cross the wire under the new identity.
func (d *Document) SetActor(actorID actor.ID) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.changeID = d.changeID.SetActor(actorID)
	for _, ch := range d.localChanges {
		ch.SetActor(actorID)
	}
}

// ToSortedJSON renders the root per §6's canonical serialization rules.
func (d *Document) ToSortedJSON() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.root.Marshal()
}

// ToJSON is an alias for ToSortedJSON: canonical serialization always
// sorts object keys, so there is no unsorted variant (§6).
func (d *Document) ToJSON() string {
	return d.ToSortedJSON()
}

// Snapshot wire-encodes the root object for archival, in the same
// format ApplyChangePack's decodeSnapshot reads back (§3's Snapshot
// envelope supplement).
func (d *Document) Snapshot() ([]byte, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	elementWire, err := wire.FromElement(d.root.Object())
	if err != nil {
		return nil, err
	}
	data, err := json.Marshal(elementWire)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", wire.ErrSerialization, err)
	}
	return data, nil
}

// AssetBytes returns the live `bytes` Primitive values held in the
// top-level "assets" array, the conventional place for asset payloads
// that arrive inside ChangePacks (§3's Asset primitive supplement). A
// missing or non-Array "assets" key yields an empty, non-error result:
// the convention is opt-in, not a structural requirement on documents.
func (d *Document) AssetBytes() ([][]byte, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	child, err := d.root.Object().Get("assets")
	if err != nil {
		return nil, nil
	}
	arr, ok := child.(*crdt.Array)
	if !ok {
		return nil, nil
	}

	var out [][]byte
	for _, elem := range arr.Elements() {
		if _, removed := elem.RemovedAt(); removed {
			continue
		}
		prim, ok := elem.(*crdt.Primitive)
		if !ok || prim.Type() != crdt.Bytes {
			continue
		}
		if data, ok := prim.Value().([]byte); ok {
			out = append(out, data)
		}
	}
	return out, nil
}

// GetGarbageLength returns the count of tombstones currently tracked.
func (d *Document) GetGarbageLength() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.root.GetGarbageLength()
}

// GarbageCollect purges tombstones dominated by minSyncedVersionVector
// and returns the number purged.
func (d *Document) GarbageCollect(minSyncedVersionVector vector.Map) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.root.GarbageCollect(minSyncedVersionVector)
}

// Subscribe registers observer to be invoked after each successful
// local or remote integration. The returned handle unsubscribes in
// O(1) (§5, §9).
func (d *Document) Subscribe(observer func(ChangeInfo)) (unsubscribe func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	id := d.nextObserverID
	d.nextObserverID++
	d.observers[id] = observer

	return func() {
		d.mu.Lock()
		defer d.mu.Unlock()
		delete(d.observers, id)
	}
}

// snapshotObservers returns a point-in-time copy of the observer set.
// Callers must hold d.mu.
func (d *Document) snapshotObservers() []func(ChangeInfo) {
	out := make([]func(ChangeInfo), 0, len(d.observers))
	for _, observer := range d.observers {
		out = append(out, observer)
	}
	return out
}

// notify runs observers after the document's lock has been released,
// in integration order (§5): a subscriber sees local change N before
// remote change M iff integration serialized them that way.
func notify(observers []func(ChangeInfo), info ChangeInfo) {
	for _, observer := range observers {
		observer(info)
	}
}
