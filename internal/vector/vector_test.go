package vector

import (
	"testing"

	"github.com/bifshteksex/crdt-engine/internal/tick"
	"github.com/stretchr/testify/assert"
)

func TestAfterOrEqual(t *testing.T) {
	v := New()
	v.Set("actorID-200", 200)

	assert.False(t, v.AfterOrEqual(tick.New(250, 0, "actorID-200")))
	assert.True(t, v.AfterOrEqual(tick.New(150, 0, "actorID-200")))
	assert.True(t, v.AfterOrEqual(tick.New(999, 0, "actorID-absent")))
}

func TestMaxAndFilter(t *testing.T) {
	a := New()
	a.Set("x", 5)
	a.Set("y", 10)

	b := New()
	b.Set("y", 20)
	b.Set("z", 1)

	merged := a.Max(b)
	assert.Equal(t, uint64(5), merged.Get("x"))
	assert.Equal(t, uint64(20), merged.Get("y"))
	assert.Equal(t, uint64(1), merged.Get("z"))

	keys := New()
	keys.Set("y", 0)
	keys.Set("w", 0)
	filtered := merged.Filter(keys)
	assert.Equal(t, 1, filtered.Size())
	assert.Equal(t, uint64(20), filtered.Get("y"))
}

func TestMaxLamportEmpty(t *testing.T) {
	assert.Equal(t, uint64(0), New().MaxLamport())
}

func TestDeepCopyIndependence(t *testing.T) {
	a := New()
	a.Set("x", 1)
	b := a.DeepCopy()
	b.Set("x", 2)
	assert.Equal(t, uint64(1), a.Get("x"))
}
