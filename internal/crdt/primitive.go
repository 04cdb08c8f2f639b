package crdt

import (
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/bifshteksex/crdt-engine/internal/escape"
	"github.com/bifshteksex/crdt-engine/internal/tick"
)

// ValueType enumerates the legal Primitive value kinds.
type ValueType int

const (
	Null ValueType = iota
	Boolean
	Integer32
	Integer64
	Double
	String
	Bytes
	Date
)

// Primitive is an immutable scalar CRDT value.
type Primitive struct {
	meta
	valueType ValueType
	value     any
}

// NewPrimitive creates a Primitive of the given Go value at createdAt.
// The Go type of value determines the ValueType: nil->Null, bool,
// int32, int64, float64, string, []byte, time.Time.
func NewPrimitive(value any, createdAt tick.Ticket) (*Primitive, error) {
	vt, err := valueTypeOf(value)
	if err != nil {
		return nil, err
	}
	return &Primitive{meta: newMeta(createdAt), valueType: vt, value: value}, nil
}

func valueTypeOf(value any) (ValueType, error) {
	switch value.(type) {
	case nil:
		return Null, nil
	case bool:
		return Boolean, nil
	case int32:
		return Integer32, nil
	case int:
		return Integer32, nil
	case int64:
		return Integer64, nil
	case float64:
		return Double, nil
	case string:
		return String, nil
	case []byte:
		return Bytes, nil
	case time.Time:
		return Date, nil
	default:
		return Null, fmt.Errorf("%w: unsupported primitive go type %T", ErrTypeMismatch, value)
	}
}

// Type returns this primitive's value type.
func (p *Primitive) Type() ValueType { return p.valueType }

// Value returns the underlying Go value.
func (p *Primitive) Value() any { return p.value }

// DeepCopy returns an independent copy; Primitive values are immutable
// so this only needs to copy the timestamps.
func (p *Primitive) DeepCopy() Element {
	return &Primitive{meta: p.deepCopyMeta(), valueType: p.valueType, value: p.value}
}

// JSON renders the primitive per §6's canonical serialization rules.
func (p *Primitive) JSON() string {
	switch p.valueType {
	case Null:
		return "null"
	case Boolean:
		if p.value.(bool) {
			return "true"
		}
		return "false"
	case Integer32:
		switch v := p.value.(type) {
		case int32:
			return strconv.FormatInt(int64(v), 10)
		case int:
			return strconv.FormatInt(int64(v), 10)
		}
		return "0"
	case Integer64:
		return strconv.FormatInt(p.value.(int64), 10)
	case Double:
		return formatDouble(p.value.(float64))
	case String:
		return `"` + escape.String(p.value.(string)) + `"`
	case Bytes:
		return `"` + base64.StdEncoding.EncodeToString(p.value.([]byte)) + `"`
	case Date:
		return `"` + p.value.(time.Time).UTC().Format(time.RFC3339Nano) + `"`
	default:
		return "null"
	}
}

// formatDouble renders a double with the shortest round-trip
// representation, but never lets a whole-number double collapse to the
// same digits an Integer32/Integer64 primitive of the same magnitude
// would produce: toSortedJSON must distinguish them by type (§6, §8's
// P1 equality oracle), so a value with no '.'/'e'/'E' gets a trailing
// ".0" appended.
func formatDouble(v float64) string {
	s := strconv.FormatFloat(v, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}
