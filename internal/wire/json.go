package wire

import (
	"github.com/bifshteksex/crdt-engine/internal/crdt"
	"github.com/bifshteksex/crdt-engine/internal/escape"
)

// CanonicalJSON renders root per §6's canonical serialization rules:
// object keys sorted, arrays in RGA order, strings escaped per
// EscapeString. This is the equality oracle replicas compare against.
func CanonicalJSON(root *crdt.Root) string {
	return root.Marshal()
}

// EscapeString escapes a string per §6's wire/JSON rules.
func EscapeString(s string) string {
	return escape.String(s)
}

// UnescapeString is the exact inverse of EscapeString (P5).
func UnescapeString(s string) string {
	return escape.Unstring(s)
}
