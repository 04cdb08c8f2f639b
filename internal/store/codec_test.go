package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bifshteksex/crdt-engine/internal/actor"
	"github.com/bifshteksex/crdt-engine/internal/change"
	"github.com/bifshteksex/crdt-engine/internal/vector"
	"github.com/bifshteksex/crdt-engine/internal/wire"
)

func TestMarshalUnmarshalChangeWireRoundTrip(t *testing.T) {
	id := change.NewID(1, 1, actor.ID("actor-1"), vector.Map{})
	ch := change.New(id, nil, "hello")

	w, err := wire.FromChange(ch)
	require.NoError(t, err)

	data, err := marshalChangeWire(w)
	require.NoError(t, err)

	decoded, err := unmarshalChangeWire(data)
	require.NoError(t, err)

	assert.Equal(t, w.ID.ActorID, decoded.ID.ActorID)
	assert.Equal(t, w.ID.ClientSeq, decoded.ID.ClientSeq)
	assert.Equal(t, w.Message, decoded.Message)
}

func TestUnmarshalChangeWireRejectsGarbage(t *testing.T) {
	_, err := unmarshalChangeWire([]byte("not json"))
	assert.Error(t, err)
}
