package wire

import (
	"encoding/json"
	"fmt"

	"github.com/bifshteksex/crdt-engine/internal/change"
)

// CheckpointWire is the JSON shape of a change.Checkpoint (§6).
type CheckpointWire struct {
	ServerSeq uint64 `json:"serverSeq"`
	ClientSeq uint32 `json:"clientSeq"`
}

// ChangePackWire is the JSON shape of a change.Pack: the only datum
// exchanged with the coordinator (§6).
type ChangePackWire struct {
	DocumentKey            string         `json:"documentKey"`
	Checkpoint             CheckpointWire `json:"checkpoint"`
	MinSyncedVersionVector VectorWire     `json:"minSyncedVersionVector,omitempty"`
	Changes                []ChangeWire   `json:"changes"`
	Snapshot               []byte         `json:"snapshot,omitempty"`
	IsRemoved              bool           `json:"isRemoved,omitempty"`
}

// FromPack converts a core ChangePack to its wire shape.
func FromPack(p *change.Pack) (*ChangePackWire, error) {
	changes := make([]ChangeWire, 0, len(p.Changes))
	for i, c := range p.Changes {
		cw, err := FromChange(c)
		if err != nil {
			return nil, fmt.Errorf("pack change %d: %w", i, err)
		}
		changes = append(changes, cw)
	}
	return &ChangePackWire{
		DocumentKey: p.DocumentKey,
		Checkpoint: CheckpointWire{
			ServerSeq: p.Checkpoint.ServerSeq,
			ClientSeq: p.Checkpoint.ClientSeq,
		},
		MinSyncedVersionVector: FromVector(p.MinSyncedVersionVector),
		Changes:                changes,
		Snapshot:               p.Snapshot,
		IsRemoved:              p.IsRemoved,
	}, nil
}

// ToPack reconstructs a core ChangePack from its wire shape.
func (w *ChangePackWire) ToPack() (*change.Pack, error) {
	changes := make([]*change.Change, 0, len(w.Changes))
	for i, cw := range w.Changes {
		c, err := cw.ToChange()
		if err != nil {
			return nil, fmt.Errorf("%w: pack change %d: %v", ErrSerialization, i, err)
		}
		changes = append(changes, c)
	}
	pack := &change.Pack{
		DocumentKey: w.DocumentKey,
		Checkpoint: change.Checkpoint{
			ServerSeq: w.Checkpoint.ServerSeq,
			ClientSeq: w.Checkpoint.ClientSeq,
		},
		Changes:   changes,
		Snapshot:  w.Snapshot,
		IsRemoved: w.IsRemoved,
	}
	// An absent minSyncedVersionVector stays nil so ApplyChangePack skips GC.
	if w.MinSyncedVersionVector != nil {
		pack.MinSyncedVersionVector = w.MinSyncedVersionVector.ToVector()
	}
	return pack, nil
}

// MarshalChangePack encodes p as JSON bytes ready for transport.
func MarshalChangePack(p *change.Pack) ([]byte, error) {
	w, err := FromPack(p)
	if err != nil {
		return nil, err
	}
	data, err := json.Marshal(w)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSerialization, err)
	}
	return data, nil
}

// UnmarshalChangePack decodes data into a core ChangePack.
func UnmarshalChangePack(data []byte) (*change.Pack, error) {
	var w ChangePackWire
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSerialization, err)
	}
	return w.ToPack()
}
