package crdt

import (
	"testing"

	"github.com/bifshteksex/crdt-engine/internal/tick"
	"github.com/bifshteksex/crdt-engine/internal/vector"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func prim(t *testing.T, v any, at tick.Ticket) *Primitive {
	t.Helper()
	p, err := NewPrimitive(v, at)
	require.NoError(t, err)
	return p
}

func TestObjectRHTLastWriterWins(t *testing.T) {
	obj := NewObject(tick.Initial)
	root := NewRoot(obj)

	tA := tick.New(1, 0, "actorA")
	va := prim(t, "a1", tA)
	_, won := obj.Set("k-a1", va, tA)
	require.True(t, won)
	root.RegisterElement(va, obj)

	tOlder := tick.New(1, 1, "actorA")
	tNewer := tick.New(2, 0, "actorA")

	older := prim(t, "older", tOlder)
	loser, won := obj.Set("k-b", older, tOlder)
	require.True(t, won)
	require.Nil(t, loser)
	root.RegisterElement(older, obj)

	newer := prim(t, "newer", tNewer)
	loser, won = obj.Set("k-b", newer, tNewer)
	require.True(t, won)
	require.NotNil(t, loser)
	root.RegisterRemoved(loser)

	v, err := obj.Get("k-b")
	require.NoError(t, err)
	assert.Equal(t, "newer", v.(*Primitive).Value())
	assert.Equal(t, 1, root.GetGarbageLength())

	// A stale set loses the tie-break and leaves state untouched.
	stale := prim(t, "stale", tOlder)
	_, won = obj.Set("k-b", stale, tOlder)
	assert.False(t, won)
	v, _ = obj.Get("k-b")
	assert.Equal(t, "newer", v.(*Primitive).Value())
}

func TestNestedObjectReplace(t *testing.T) {
	// build {k-a1:"a1", k-a3:{k-b1:"b1"}}
	root := NewRoot(NewObject(tick.Initial))
	obj := root.Object()

	a1 := tick.New(1, 0, "A")
	v1 := prim(t, "a1", a1)
	obj.Set("k-a1", v1, a1)
	root.RegisterElement(v1, obj)

	a3 := tick.New(2, 0, "A")
	inner := NewObject(a3)
	obj.Set("k-a3", inner, a3)
	root.RegisterElement(inner, obj)

	b1 := tick.New(3, 0, "A")
	vb1 := prim(t, "b1", b1)
	inner.Set("k-b1", vb1, b1)
	root.RegisterElement(vb1, inner)

	assert.Equal(t, `{"k-a1":"a1","k-a3":{"k-b1":"b1"}}`, root.Marshal())

	// apply SET k-d2 -> {k-c1:"c1"} on k-a3
	d2 := tick.New(4, 0, "A")
	sub := NewObject(d2)
	c1 := tick.New(5, 0, "A")
	vc1 := prim(t, "c1", c1)
	sub.Set("k-c1", vc1, c1)
	root.RegisterElement(vc1, sub)

	found, ok := root.FindByCreatedAt(a3)
	require.True(t, ok, "k-a3 should be registered")
	innerObj := found.(*Object)
	innerObj.Set("k-d2", sub, d2)
	root.RegisterElement(sub, innerObj)

	assert.Equal(t,
		`{"k-a1":"a1","k-a3":{"k-b1":"b1","k-d2":{"k-c1":"c1"}}}`,
		root.Marshal())
}

func TestArrayMove(t *testing.T) {
	// start ["b1", {k-c1:"c1"}, "value-to-move"]
	root := NewRoot(NewObject(tick.Initial))
	arr := NewArray(tick.New(1, 0, "A"))
	root.RegisterElement(arr, root.Object())
	root.Object().Set("list", arr, tick.New(1, 0, "A"))

	prev := tick.Initial
	t1 := tick.New(2, 0, "A")
	b1 := prim(t, "b1", t1)
	require.NoError(t, arr.InsertAfter(prev, b1, t1))
	root.RegisterElement(b1, arr)

	t2 := tick.New(3, 0, "A")
	c1obj := NewObject(t2)
	vc1 := prim(t, "c1", tick.New(3, 1, "A"))
	c1obj.Set("k-c1", vc1, tick.New(3, 1, "A"))
	require.NoError(t, arr.InsertAfter(t1, c1obj, t2))
	root.RegisterElement(c1obj, arr)
	root.RegisterElement(vc1, c1obj)

	t3 := tick.New(4, 0, "A")
	moveMe := prim(t, "value-to-move", t3)
	require.NoError(t, arr.InsertAfter(t2, moveMe, t3))
	root.RegisterElement(moveMe, arr)

	assert.Equal(t, `["b1",{"k-c1":"c1"},"value-to-move"]`, arr.JSON())

	// MOVE value-to-move after b1
	tMove := tick.New(5, 0, "A")
	require.NoError(t, arr.MoveAfter(t1, t3, tMove))

	assert.Equal(t, `["b1","value-to-move",{"k-c1":"c1"}]`, arr.JSON())
}

func TestObjectSatisfiesContainer(t *testing.T) {
	obj := NewObject(tick.Initial)
	_, ok := AsContainer(obj)
	require.True(t, ok)

	// An Array-only operation (InsertAfter) has no meaning on an
	// Object; callers must type-switch before invoking it, which the
	// operation package enforces as TypeMismatch.
	var _ Container = obj
}

func TestGarbageCollectionSoundnessAndCompleteness(t *testing.T) {
	root := NewRoot(NewObject(tick.Initial))
	tree := NewTree(tick.New(1, 0, "A"))
	root.RegisterElement(tree, root.Object())
	root.Object().Set("text", tree, tick.New(1, 0, "A"))

	const n = 5
	prevID := tick.Initial
	var nodeIDs []tick.Ticket
	for i := 0; i < n; i++ {
		at := tick.New(uint64(2+i), 0, "A")
		node, err := tree.InsertAfter(prevID, rune('a'+i), at)
		require.NoError(t, err)
		root.RegisterElement(node, tree)
		nodeIDs = append(nodeIDs, node.CreatedAt())
		prevID = node.CreatedAt()
	}

	// "replace" each character: remove the old node (split simulation).
	for i, id := range nodeIDs {
		at := tick.New(uint64(100+i), 0, "A")
		removed, ok := tree.RemoveChild(id, at)
		require.True(t, ok)
		root.RegisterRemoved(removed)
	}

	assert.Equal(t, n, root.GetGarbageLength())

	purged := root.GarbageCollect(vector.New())
	assert.Equal(t, n, purged)
	assert.Equal(t, 0, root.GetGarbageLength())
}

func TestGarbageCollectSoundness(t *testing.T) {
	root := NewRoot(NewObject(tick.Initial))
	at := tick.New(1, 0, "A")
	p := prim(t, "x", at)
	root.RegisterElement(p, root.Object())
	root.Object().Set("k", p, at)

	removedAt := tick.New(2, 0, "A")
	p.Remove(removedAt)
	root.RegisterRemoved(p)

	v := vector.New()
	v.Set("A", 1) // hasn't observed removedAt yet
	purged := root.GarbageCollect(v)
	assert.Equal(t, 0, purged)

	v.Set("A", 2)
	purged = root.GarbageCollect(v)
	assert.Equal(t, 1, purged)
}
