package tree

import (
	"errors"
	"fmt"
)

// NoParentError is returned by Parent when a node has no current parent.
// This is a programming error on the caller's side, not a retryable
// condition.
type NoParentError struct {
	// TypeName identifies the node variant the lookup was attempted on.
	TypeName string
}

func (e *NoParentError) Error() string {
	return fmt.Sprintf("%q node has no parent", e.TypeName)
}

// NotInitializedError is returned when a node is used before its
// constructor finished, e.g. a zero-value Struct that never went through
// its StructType. Parent links on such a node are meaningless.
type NotInitializedError struct {
	TypeName string
}

func (e *NotInitializedError) Error() string {
	return fmt.Sprintf("%q node has not been initialized", e.TypeName)
}

// UnknownFieldError is returned by Struct field access for names outside
// the declared schema.
type UnknownFieldError struct {
	TypeName string
	Field    string
}

func (e *UnknownFieldError) Error() string {
	return fmt.Sprintf("%q has no field %q", e.TypeName, e.Field)
}

// IsNoParent reports whether err is a NoParentError.
// Uses errors.As to handle wrapped errors.
func IsNoParent(err error) bool {
	var e *NoParentError
	return errors.As(err, &e)
}

// IsNotInitialized reports whether err is a NotInitializedError.
func IsNotInitialized(err error) bool {
	var e *NotInitializedError
	return errors.As(err, &e)
}
