package wire

import (
	"testing"

	"github.com/bifshteksex/crdt-engine/internal/actor"
	"github.com/bifshteksex/crdt-engine/internal/change"
	"github.com/bifshteksex/crdt-engine/internal/crdt"
	"github.com/bifshteksex/crdt-engine/internal/operation"
	"github.com/bifshteksex/crdt-engine/internal/tick"
	"github.com/bifshteksex/crdt-engine/internal/vector"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEscapeRoundTrip(t *testing.T) {
	for _, s := range []string{
		"plain",
		"line\nbreak",
		"quote\"mark",
		"back\\slash",
		"tab\ttab",
		"sep sep end",
	} {
		assert.Equal(t, s, UnescapeString(EscapeString(s)))
	}
}

func TestElementWireRoundTripObject(t *testing.T) {
	at := tick.New(1, 0, "A")
	obj := crdt.NewObject(at)
	v, err := crdt.NewPrimitive("hi", tick.New(2, 0, "A"))
	require.NoError(t, err)
	obj.Set("k", v, tick.New(2, 0, "A"))

	w, err := FromElement(obj)
	require.NoError(t, err)

	back, err := w.ToElement()
	require.NoError(t, err)
	assert.Equal(t, `{"k":"hi"}`, back.JSON())
}

func TestOperationWireRoundTrip(t *testing.T) {
	parent := tick.Initial
	at := tick.New(3, 0, "A")
	v, err := crdt.NewPrimitive("x", at)
	require.NoError(t, err)
	op := operation.NewSet(parent, "greeting", v, at)

	ow, err := FromOperation(op)
	require.NoError(t, err)

	back, err := ow.ToOperation()
	require.NoError(t, err)

	root := crdt.NewRoot(crdt.NewObject(tick.Initial))
	require.NoError(t, back.Execute(root))
	assert.Equal(t, `{"greeting":"x"}`, root.Marshal())
}

func TestChangePackRoundTrip(t *testing.T) {
	id := change.InitialID().Next()
	vv := vector.New()
	vv.Set(actor.ID("A"), 1)

	at := tick.New(1, 0, "A")
	v, err := crdt.NewPrimitive("x", at)
	require.NoError(t, err)
	op := operation.NewSet(tick.Initial, "k", v, at)
	ch := change.New(id, []operation.Operation{op}, "msg")

	pack := &change.Pack{
		DocumentKey:            "doc-1",
		Checkpoint:             change.Checkpoint{ServerSeq: 5, ClientSeq: 1},
		MinSyncedVersionVector: vv,
		Changes:                []*change.Change{ch},
	}

	data, err := MarshalChangePack(pack)
	require.NoError(t, err)

	back, err := UnmarshalChangePack(data)
	require.NoError(t, err)

	assert.Equal(t, "doc-1", back.DocumentKey)
	assert.Equal(t, uint64(5), back.Checkpoint.ServerSeq)
	require.Len(t, back.Changes, 1)
	assert.Equal(t, "msg", back.Changes[0].Message())
	assert.Equal(t, uint64(1), back.MinSyncedVersionVector.Get(actor.ID("A")))

	root := crdt.NewRoot(crdt.NewObject(tick.Initial))
	require.NoError(t, back.Changes[0].Execute(root))
	assert.Equal(t, `{"k":"x"}`, root.Marshal())
}

func TestUnmarshalMalformedChangePackIsSerializationError(t *testing.T) {
	_, err := UnmarshalChangePack([]byte(`{"changes": [{"id": {}, "operations": [{"type": "BOGUS"}]}]}`))
	assert.ErrorIs(t, err, ErrSerialization)
}
