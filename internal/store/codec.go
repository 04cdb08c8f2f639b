package store

import (
	"encoding/json"
	"fmt"

	"github.com/bifshteksex/crdt-engine/internal/wire"
)

func marshalChangeWire(w wire.ChangeWire) ([]byte, error) {
	data, err := json.Marshal(w)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal change: %w", err)
	}
	return data, nil
}

func unmarshalChangeWire(data []byte) (wire.ChangeWire, error) {
	var w wire.ChangeWire
	if err := json.Unmarshal(data, &w); err != nil {
		return wire.ChangeWire{}, fmt.Errorf("%w: %v", wire.ErrSerialization, err)
	}
	return w, nil
}
