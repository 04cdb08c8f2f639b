package change

import (
	"testing"

	"github.com/bifshteksex/crdt-engine/internal/actor"
	"github.com/bifshteksex/crdt-engine/internal/crdt"
	"github.com/bifshteksex/crdt-engine/internal/operation"
	"github.com/bifshteksex/crdt-engine/internal/tick"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContextIssueTimeTicketMonotonic(t *testing.T) {
	id := InitialID().Next()
	ctx := NewContext(id, "")

	t1 := ctx.IssueTimeTicket()
	t2 := ctx.IssueTimeTicket()
	t3 := ctx.IssueTimeTicket()

	assert.True(t, t2.After(t1))
	assert.True(t, t3.After(t2))
	assert.False(t, ctx.HasOperations())
}

func TestChangeIDNextAdvancesLamportAndClientSeq(t *testing.T) {
	id := InitialID()
	n1 := id.Next()
	n2 := n1.Next()

	assert.Equal(t, uint32(1), n1.ClientSeq())
	assert.Equal(t, uint64(1), n1.Lamport())
	assert.Equal(t, uint32(2), n2.ClientSeq())
	assert.Equal(t, uint64(2), n2.Lamport())
	assert.True(t, n2.Lamport() > n1.Lamport())
}

func TestChangeIDSyncLamport(t *testing.T) {
	id := InitialID().Next() // lamport 1
	synced := id.SyncLamport(10)
	assert.Equal(t, uint64(11), synced.Lamport())

	lower := id.SyncLamport(0)
	assert.Equal(t, uint64(2), lower.Lamport())
}

func TestChangeExecuteAppliesOperationsInOrder(t *testing.T) {
	root := crdt.NewRoot(crdt.NewObject(tick.Initial))
	id := InitialID().Next()
	ctx := NewContext(id, "add greeting")

	at := ctx.IssueTimeTicket()
	v, err := crdt.NewPrimitive("hi", at)
	require.NoError(t, err)
	op := operation.NewSet(tick.Initial, "greeting", v, at)
	ctx.Push(op)

	require.True(t, ctx.HasOperations())
	ch := ctx.GetChange()
	require.NoError(t, ch.Execute(root))

	assert.Equal(t, `{"greeting":"hi"}`, root.Marshal())
}

func TestChangeSetActorRewritesIDAndOperations(t *testing.T) {
	id := InitialID().Next()
	ctx := NewContext(id, "")
	at := ctx.IssueTimeTicket()
	v, err := crdt.NewPrimitive("x", at)
	require.NoError(t, err)
	op := operation.NewSet(tick.Initial, "k", v, at)
	ctx.Push(op)

	ch := ctx.GetChange()
	ch.SetActor(actor.ID("real-actor"))

	assert.Equal(t, actor.ID("real-actor"), ch.ID().ActorID())
	assert.Equal(t, actor.ID("real-actor"), ch.Operations()[0].ExecutedAt().ActorID())
}
