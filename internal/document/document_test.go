package document

import (
	"errors"
	"testing"

	"github.com/bifshteksex/crdt-engine/internal/actor"
	"github.com/bifshteksex/crdt-engine/internal/vector"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpdateCommitsOperations(t *testing.T) {
	doc := New("doc-1")

	err := doc.Update(func(p *ObjectProxy) error {
		return p.Set("name", "alice")
	}, "set name")
	require.NoError(t, err)

	assert.Equal(t, `{"name":"alice"}`, doc.ToSortedJSON())
}

func TestUpdateRollsBackOnError(t *testing.T) {
	doc := New("doc-1")
	require.NoError(t, doc.Update(func(p *ObjectProxy) error {
		return p.Set("name", "alice")
	}, ""))

	boom := errors.New("boom")
	err := doc.Update(func(p *ObjectProxy) error {
		_ = p.Set("name", "bob")
		return boom
	}, "")
	assert.ErrorIs(t, err, boom)

	// root is observably unchanged
	assert.Equal(t, `{"name":"alice"}`, doc.ToSortedJSON())
}

func TestUpdateNoOpsDoesNotAdvanceLamport(t *testing.T) {
	doc := New("doc-1")
	before := doc.changeID.Lamport()

	err := doc.Update(func(p *ObjectProxy) error {
		return nil
	}, "")
	require.NoError(t, err)

	assert.Equal(t, before, doc.changeID.Lamport())
}

func TestNestedObjectAndArray(t *testing.T) {
	doc := New("doc-1")

	err := doc.Update(func(p *ObjectProxy) error {
		nested, err := p.SetNewObject("profile")
		if err != nil {
			return err
		}
		if err := nested.Set("age", int32(30)); err != nil {
			return err
		}
		list, err := p.SetNewArray("tags")
		if err != nil {
			return err
		}
		if err := list.Push("a"); err != nil {
			return err
		}
		return list.Push("b")
	}, "")
	require.NoError(t, err)

	assert.Equal(t, `{"profile":{"age":30},"tags":["a","b"]}`, doc.ToSortedJSON())
}

func TestSubscribeReceivesLocalChange(t *testing.T) {
	doc := New("doc-1")

	var received []ChangeInfo
	unsubscribe := doc.Subscribe(func(info ChangeInfo) {
		received = append(received, info)
	})
	defer unsubscribe()

	require.NoError(t, doc.Update(func(p *ObjectProxy) error {
		return p.Set("k", "v")
	}, ""))

	require.Len(t, received, 1)
	assert.True(t, received[0].IsLocal)
}

func TestUnsubscribeStopsNotifications(t *testing.T) {
	doc := New("doc-1")
	count := 0
	unsubscribe := doc.Subscribe(func(info ChangeInfo) { count++ })
	unsubscribe()

	require.NoError(t, doc.Update(func(p *ObjectProxy) error {
		return p.Set("k", "v")
	}, ""))

	assert.Equal(t, 0, count)
}

func TestCreateAndApplyChangePackBetweenReplicas(t *testing.T) {
	replicaA := New("doc-1")
	require.NoError(t, replicaA.Update(func(p *ObjectProxy) error {
		return p.Set("k", "v1")
	}, ""))

	pack := replicaA.CreateChangePack()
	replicaA.SetActor(actor.ID("actor-A"))

	replicaB := New("doc-1")
	require.NoError(t, replicaB.ApplyChangePack(pack))

	assert.Equal(t, replicaA.ToSortedJSON(), replicaB.ToSortedJSON())
}

func TestGarbageCollectionThroughDocument(t *testing.T) {
	doc := New("doc-1")
	require.NoError(t, doc.Update(func(p *ObjectProxy) error {
		return p.Set("k", "v")
	}, ""))
	require.NoError(t, doc.Update(func(p *ObjectProxy) error {
		return p.Delete("k")
	}, ""))

	assert.Equal(t, 1, doc.GetGarbageLength())
	purged := doc.GarbageCollect(vector.New())
	assert.Equal(t, 1, purged)
	assert.Equal(t, 0, doc.GetGarbageLength())
}
