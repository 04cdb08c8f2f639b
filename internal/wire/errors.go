package wire

import "errors"

// ErrSerialization wraps any failure to decode a wire ChangePack,
// matching the SerializationError kind (§7).
var ErrSerialization = errors.New("wire: malformed change pack")
