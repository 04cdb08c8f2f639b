package wire

import (
	"encoding/base64"
	"fmt"
	"time"

	"github.com/bifshteksex/crdt-engine/internal/crdt"
	"github.com/bifshteksex/crdt-engine/internal/tick"
)

// ElementWire is the JSON shape of a crdt.Element, tagged by Type so a
// decoder can reconstruct the right concrete variant. Operations whose
// payload is a freshly created value (SET, ADD, EDIT) carry one of
// these; ToElement reconstructs a live *crdt.Primitive/Object/Array/
// Tree. Tombstoned children are never transmitted — they exist purely
// as local GC bookkeeping (§9) — so the wire form only ever carries
// live state plus, for the value being created itself, its own
// movedAt/removedAt (meaningful for replayed historical state such as
// a snapshot).
type ElementWire struct {
	Type      string         `json:"type"`
	CreatedAt TicketWire     `json:"createdAt"`
	MovedAt   *TicketWire    `json:"movedAt,omitempty"`
	RemovedAt *TicketWire    `json:"removedAt,omitempty"`
	ValueType string         `json:"valueType,omitempty"`
	Value     any            `json:"value,omitempty"`
	Entries   []ObjectEntry  `json:"entries,omitempty"`
	Children  []*ElementWire `json:"children,omitempty"`
	Char      string         `json:"char,omitempty"`
}

// ObjectEntry is one RHT slot in the wire form of an Object.
type ObjectEntry struct {
	Key   string       `json:"key"`
	Value *ElementWire `json:"value"`
}

// FromElement converts a live element into its wire shape.
func FromElement(e crdt.Element) (*ElementWire, error) {
	w := &ElementWire{CreatedAt: FromTicket(e.CreatedAt())}
	if t, ok := e.MovedAt(); ok {
		tw := FromTicket(t)
		w.MovedAt = &tw
	}
	if t, ok := e.RemovedAt(); ok {
		tw := FromTicket(t)
		w.RemovedAt = &tw
	}

	switch v := e.(type) {
	case *crdt.Primitive:
		w.Type = "primitive"
		w.ValueType, w.Value = primitiveWireValue(v)

	case *crdt.Object:
		w.Type = "object"
		for _, key := range v.Keys() {
			child, err := v.Get(key)
			if err != nil {
				continue
			}
			cw, err := FromElement(child)
			if err != nil {
				return nil, err
			}
			w.Entries = append(w.Entries, ObjectEntry{Key: key, Value: cw})
		}

	case *crdt.Array:
		w.Type = "array"
		for _, child := range v.Elements() {
			if _, removed := child.RemovedAt(); removed {
				continue
			}
			cw, err := FromElement(child)
			if err != nil {
				return nil, err
			}
			w.Children = append(w.Children, cw)
		}

	case *crdt.Tree:
		w.Type = "tree"
		for _, child := range v.Elements() {
			if _, removed := child.RemovedAt(); removed {
				continue
			}
			cw, err := FromElement(child)
			if err != nil {
				return nil, err
			}
			w.Children = append(w.Children, cw)
		}

	case *crdt.TreeNode:
		w.Type = "treenode"
		w.Char = string(v.Value())

	default:
		return nil, fmt.Errorf("%w: unknown element type %T", ErrSerialization, e)
	}
	return w, nil
}

func primitiveWireValue(p *crdt.Primitive) (string, any) {
	switch p.Type() {
	case crdt.Null:
		return "null", nil
	case crdt.Boolean:
		return "boolean", p.Value()
	case crdt.Integer32:
		return "int32", p.Value()
	case crdt.Integer64:
		return "int64", p.Value()
	case crdt.Double:
		return "double", p.Value()
	case crdt.String:
		return "string", p.Value()
	case crdt.Bytes:
		return "bytes", p.Value()
	case crdt.Date:
		return "date", p.Value().(time.Time).UTC().Format(time.RFC3339Nano)
	default:
		return "null", nil
	}
}

// ToElement reconstructs a live crdt.Element from its wire shape,
// linking array/tree children in list order and object entries by key.
func (w *ElementWire) ToElement() (crdt.Element, error) {
	createdAt := w.CreatedAt.ToTicket()

	switch w.Type {
	case "primitive":
		value, err := primitiveNativeValue(w.ValueType, w.Value)
		if err != nil {
			return nil, err
		}
		p, err := crdt.NewPrimitive(value, createdAt)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrSerialization, err)
		}
		return applyMeta(p, w), nil

	case "object":
		obj := crdt.NewObject(createdAt)
		for _, entry := range w.Entries {
			child, err := entry.Value.ToElement()
			if err != nil {
				return nil, err
			}
			obj.Set(entry.Key, child, child.CreatedAt())
		}
		return applyMeta(obj, w), nil

	case "array":
		arr := crdt.NewArray(createdAt)
		prev := tick.Initial
		for _, cw := range w.Children {
			child, err := cw.ToElement()
			if err != nil {
				return nil, err
			}
			if err := arr.InsertAfter(prev, child, child.CreatedAt()); err != nil {
				return nil, fmt.Errorf("%w: %v", ErrSerialization, err)
			}
			prev = child.CreatedAt()
		}
		return applyMeta(arr, w), nil

	case "tree":
		tree := crdt.NewTree(createdAt)
		prev := tick.Initial
		for _, cw := range w.Children {
			if cw.Type != "treenode" || len(cw.Char) == 0 {
				return nil, fmt.Errorf("%w: invalid tree child", ErrSerialization)
			}
			r := []rune(cw.Char)[0]
			node, err := tree.InsertAfter(prev, r, cw.CreatedAt.ToTicket())
			if err != nil {
				return nil, fmt.Errorf("%w: %v", ErrSerialization, err)
			}
			prev = node.CreatedAt()
		}
		return applyMeta(tree, w), nil

	default:
		return nil, fmt.Errorf("%w: unknown wire element type %q", ErrSerialization, w.Type)
	}
}

func applyMeta(e crdt.Element, w *ElementWire) crdt.Element {
	if w.MovedAt != nil {
		e.SetMovedAt(w.MovedAt.ToTicket())
	}
	if w.RemovedAt != nil {
		e.Remove(w.RemovedAt.ToTicket())
	}
	return e
}

func primitiveNativeValue(valueType string, value any) (any, error) {
	switch valueType {
	case "null":
		return nil, nil
	case "boolean":
		b, ok := value.(bool)
		if !ok {
			return nil, fmt.Errorf("%w: expected bool value", ErrSerialization)
		}
		return b, nil
	case "int32":
		n, ok := value.(float64)
		if !ok {
			return nil, fmt.Errorf("%w: expected numeric int32 value", ErrSerialization)
		}
		return int32(n), nil
	case "int64":
		n, ok := value.(float64)
		if !ok {
			return nil, fmt.Errorf("%w: expected numeric int64 value", ErrSerialization)
		}
		return int64(n), nil
	case "double":
		n, ok := value.(float64)
		if !ok {
			return nil, fmt.Errorf("%w: expected numeric double value", ErrSerialization)
		}
		return n, nil
	case "string":
		s, ok := value.(string)
		if !ok {
			return nil, fmt.Errorf("%w: expected string value", ErrSerialization)
		}
		return s, nil
	case "bytes":
		// encoding/json always round-trips a []byte field through a
		// base64 string, even when the static type is any.
		s, ok := value.(string)
		if !ok {
			return nil, fmt.Errorf("%w: expected base64 bytes value", ErrSerialization)
		}
		b, err := base64.StdEncoding.DecodeString(s)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrSerialization, err)
		}
		return b, nil
	case "date":
		s, ok := value.(string)
		if !ok {
			return nil, fmt.Errorf("%w: expected date string value", ErrSerialization)
		}
		t, err := time.Parse(time.RFC3339Nano, s)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrSerialization, err)
		}
		return t, nil
	default:
		return nil, fmt.Errorf("%w: unknown primitive value type %q", ErrSerialization, valueType)
	}
}
