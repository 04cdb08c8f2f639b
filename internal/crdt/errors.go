package crdt

import "errors"

// Sentinel errors matching the error kinds in the engine's error design.
// Callers use errors.Is against these; the operation package wraps them
// with fmt.Errorf("%w: ...") context.
var (
	// ErrNotFound is returned when an operation references a
	// createdAt/prevCreatedAt/key that is not present in the root.
	ErrNotFound = errors.New("crdt: element not found")

	// ErrTypeMismatch is returned when an operation's parent element
	// exists but is the wrong variant (e.g. ADD on an Object).
	ErrTypeMismatch = errors.New("crdt: type mismatch")

	// ErrInvariantViolation is returned when applying an operation
	// would break one of the structural invariants in the data model.
	ErrInvariantViolation = errors.New("crdt: invariant violation")
)
