package tick

import (
	"testing"

	"github.com/bifshteksex/crdt-engine/internal/actor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTicketOrder(t *testing.T) {
	require.True(t, Initial.Compare(New(1, 0, "actorID-100")) < 0)
	require.True(t, New(1, 0, "actorID-100").Compare(Max) < 0)

	same := New(250, 0, "actorID-200")
	lexA := New(250, 0, "actorID-100")
	lexB := New(250, 0, "actorID-300")
	assert.True(t, lexA.Compare(same) < 0)
	assert.True(t, lexB.Compare(same) > 0)

	bigger := New(250, 1, "actorID-200")
	assert.True(t, same.Compare(bigger) < 0)
	assert.True(t, bigger.After(same))
}

func TestTicketEquality(t *testing.T) {
	a := New(10, 2, actor.ID("actorID-1"))
	b := New(10, 2, actor.ID("actorID-1"))
	assert.True(t, a.Equal(b))
	assert.Equal(t, 0, a.Compare(b))
}

func TestSetActor(t *testing.T) {
	a := New(10, 2, actor.InitialID)
	rewritten := a.SetActor("actorID-real")
	assert.Equal(t, actor.ID("actorID-real"), rewritten.ActorID())
	assert.Equal(t, uint64(10), rewritten.Lamport())
	assert.Equal(t, actor.InitialID, a.ActorID(), "original ticket must be unmodified")
}
