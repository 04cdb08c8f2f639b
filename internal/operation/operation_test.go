package operation

import (
	"testing"

	"github.com/bifshteksex/crdt-engine/internal/crdt"
	"github.com/bifshteksex/crdt-engine/internal/tick"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRootWithArray(t *testing.T) (*crdt.Root, *crdt.Array, tick.Ticket) {
	t.Helper()
	root := crdt.NewRoot(crdt.NewObject(tick.Initial))
	arrTicket := tick.New(1, 0, "A")
	arr := crdt.NewArray(arrTicket)
	root.RegisterElement(arr, root.Object())
	root.Object().Set("list", arr, arrTicket)
	return root, arr, arrTicket
}

func TestSetOnObject(t *testing.T) {
	root := crdt.NewRoot(crdt.NewObject(tick.Initial))
	at := tick.New(1, 0, "A")
	v, err := crdt.NewPrimitive("hello", at)
	require.NoError(t, err)

	op := NewSet(tick.Initial, "greeting", v, at)
	require.NoError(t, op.Execute(root))

	assert.Equal(t, `{"greeting":"hello"}`, root.Marshal())
}

func TestSetOnArrayIsTypeMismatch(t *testing.T) {
	root, _, arrTicket := newRootWithArray(t)
	at := tick.New(2, 0, "A")
	v, err := crdt.NewPrimitive("x", at)
	require.NoError(t, err)

	op := NewSet(arrTicket, "k", v, at)
	err = op.Execute(root)
	assert.ErrorIs(t, err, crdt.ErrTypeMismatch)
}

func TestAddThenMoveThenRemove(t *testing.T) {
	root, arr, arrTicket := newRootWithArray(t)

	t1 := tick.New(2, 0, "A")
	b1, err := crdt.NewPrimitive("b1", t1)
	require.NoError(t, err)
	require.NoError(t, NewAdd(arrTicket, tick.Initial, b1, t1).Execute(root))

	t2 := tick.New(3, 0, "A")
	c1, err := crdt.NewPrimitive("c1", t2)
	require.NoError(t, err)
	require.NoError(t, NewAdd(arrTicket, t1, c1, t2).Execute(root))

	assert.Equal(t, `["b1","c1"]`, arr.JSON())

	tMove := tick.New(4, 0, "A")
	require.NoError(t, NewMove(arrTicket, tick.Initial, t2, tMove).Execute(root))
	assert.Equal(t, `["c1","b1"]`, arr.JSON())

	tRemove := tick.New(5, 0, "A")
	require.NoError(t, NewRemove(arrTicket, t1, tRemove).Execute(root))
	assert.Equal(t, `["c1"]`, arr.JSON())
	assert.Equal(t, 1, root.GetGarbageLength())
}

func TestMoveOnObjectIsTypeMismatch(t *testing.T) {
	root := crdt.NewRoot(crdt.NewObject(tick.Initial))
	err := NewMove(tick.Initial, tick.Initial, tick.New(1, 0, "A"), tick.New(2, 0, "A")).Execute(root)
	assert.ErrorIs(t, err, crdt.ErrTypeMismatch)
}

func TestAddOnUnknownParentIsNotFound(t *testing.T) {
	root := crdt.NewRoot(crdt.NewObject(tick.Initial))
	ghost := tick.New(99, 0, "A")
	v, err := crdt.NewPrimitive("x", tick.New(1, 0, "A"))
	require.NoError(t, err)

	err = NewAdd(ghost, tick.Initial, v, tick.New(1, 0, "A")).Execute(root)
	assert.ErrorIs(t, err, crdt.ErrNotFound)
}

func TestStructureAsString(t *testing.T) {
	parent := tick.New(7, 2, "actorA")
	op := NewSet(parent, "k", nil, tick.New(8, 0, "actorA"))
	assert.Equal(t, "7:actorA:2.SET", op.StructureAsString())
}
