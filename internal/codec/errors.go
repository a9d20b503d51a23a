package codec

import (
	"errors"
	"fmt"
)

// NotEncodableError means a value reachable from the root has no case in
// the tagged format. The commit aborts; nothing is persisted.
type NotEncodableError struct {
	Value any
}

func (e *NotEncodableError) Error() string {
	return fmt.Sprintf("%T value %v is not encodable, so the commit failed", e.Value, e.Value)
}

// UnknownTypeError means decoding hit a type name absent from the
// registry. The load fails, but the commit stays intact in the store and
// can be loaded once the defining type is registered (or loaded raw).
type UnknownTypeError struct {
	TypeName string
}

func (e *UnknownTypeError) Error() string {
	return fmt.Sprintf("type %q is not registered, so the load failed", e.TypeName)
}

// IsNotEncodable reports whether err is a NotEncodableError.
// Uses errors.As to handle wrapped errors.
func IsNotEncodable(err error) bool {
	var e *NotEncodableError
	return errors.As(err, &e)
}

// IsUnknownType reports whether err is an UnknownTypeError.
func IsUnknownType(err error) bool {
	var e *UnknownTypeError
	return errors.As(err, &e)
}
