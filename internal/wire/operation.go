package wire

import (
	"fmt"

	"github.com/bifshteksex/crdt-engine/internal/operation"
)

// OperationWire is the JSON shape of an operation.Operation, tagged by
// Type. Only the fields relevant to Type are populated (§6).
type OperationWire struct {
	Type            string       `json:"type"`
	ParentCreatedAt TicketWire   `json:"parentCreatedAt"`
	ExecutedAt      TicketWire   `json:"executedAt"`
	Key             string       `json:"key,omitempty"`
	PrevCreatedAt   *TicketWire  `json:"prevCreatedAt,omitempty"`
	CreatedAt       *TicketWire  `json:"createdAt,omitempty"`
	Value           *ElementWire `json:"value,omitempty"`
	Char            string       `json:"char,omitempty"`
}

// FromOperation converts a core operation into its wire shape.
func FromOperation(op operation.Operation) (OperationWire, error) {
	base := OperationWire{
		ParentCreatedAt: FromTicket(op.ParentCreatedAt()),
		ExecutedAt:      FromTicket(op.ExecutedAt()),
	}

	switch o := op.(type) {
	case *operation.Set:
		vw, err := FromElement(o.Value())
		if err != nil {
			return OperationWire{}, err
		}
		base.Type = "SET"
		base.Key = o.Key()
		base.Value = vw

	case *operation.Add:
		vw, err := FromElement(o.Value())
		if err != nil {
			return OperationWire{}, err
		}
		prev := FromTicket(o.PrevCreatedAt())
		base.Type = "ADD"
		base.PrevCreatedAt = &prev
		base.Value = vw

	case *operation.Move:
		prev := FromTicket(o.PrevCreatedAt())
		created := FromTicket(o.CreatedAt())
		base.Type = "MOVE"
		base.PrevCreatedAt = &prev
		base.CreatedAt = &created

	case *operation.Remove:
		created := FromTicket(o.CreatedAt())
		base.Type = "REMOVE"
		base.CreatedAt = &created

	case *operation.Edit:
		prev := FromTicket(o.PrevCreatedAt())
		base.Type = "EDIT"
		base.PrevCreatedAt = &prev
		base.Char = string(o.Value())

	default:
		return OperationWire{}, fmt.Errorf("%w: unknown operation type %T", ErrSerialization, op)
	}

	return base, nil
}

// ToOperation reconstructs a core operation.Operation from its wire
// shape.
func (w OperationWire) ToOperation() (operation.Operation, error) {
	parent := w.ParentCreatedAt.ToTicket()
	executedAt := w.ExecutedAt.ToTicket()

	switch w.Type {
	case "SET":
		if w.Value == nil {
			return nil, fmt.Errorf("%w: SET missing value", ErrSerialization)
		}
		value, err := w.Value.ToElement()
		if err != nil {
			return nil, err
		}
		return operation.NewSet(parent, w.Key, value, executedAt), nil

	case "ADD":
		if w.Value == nil || w.PrevCreatedAt == nil {
			return nil, fmt.Errorf("%w: ADD missing value or prevCreatedAt", ErrSerialization)
		}
		value, err := w.Value.ToElement()
		if err != nil {
			return nil, err
		}
		return operation.NewAdd(parent, w.PrevCreatedAt.ToTicket(), value, executedAt), nil

	case "MOVE":
		if w.PrevCreatedAt == nil || w.CreatedAt == nil {
			return nil, fmt.Errorf("%w: MOVE missing prevCreatedAt or createdAt", ErrSerialization)
		}
		return operation.NewMove(parent, w.PrevCreatedAt.ToTicket(), w.CreatedAt.ToTicket(), executedAt), nil

	case "REMOVE":
		if w.CreatedAt == nil {
			return nil, fmt.Errorf("%w: REMOVE missing createdAt", ErrSerialization)
		}
		return operation.NewRemove(parent, w.CreatedAt.ToTicket(), executedAt), nil

	case "EDIT":
		if w.PrevCreatedAt == nil || len(w.Char) == 0 {
			return nil, fmt.Errorf("%w: EDIT missing prevCreatedAt or char", ErrSerialization)
		}
		r := []rune(w.Char)[0]
		return operation.NewEdit(parent, w.PrevCreatedAt.ToTicket(), r, executedAt), nil

	default:
		return nil, fmt.Errorf("%w: unknown wire operation type %q", ErrSerialization, w.Type)
	}
}
