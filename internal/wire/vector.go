package wire

import (
	"github.com/bifshteksex/crdt-engine/internal/actor"
	"github.com/bifshteksex/crdt-engine/internal/vector"
)

// VectorWire is the JSON shape of a version vector: actorID -> lamport.
type VectorWire map[string]uint64

// FromVector converts a core version vector to its wire shape.
func FromVector(v vector.Map) VectorWire {
	w := make(VectorWire, len(v))
	for a, l := range v {
		w[a.String()] = l
	}
	return w
}

// ToVector converts a wire vector back to the core type.
func (w VectorWire) ToVector() vector.Map {
	v := vector.New()
	for a, l := range w {
		v.Set(actor.ID(a), l)
	}
	return v
}
