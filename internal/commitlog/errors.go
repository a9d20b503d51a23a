package commitlog

import (
	"errors"
	"fmt"
)

// NotFoundError means a requested commit does not exist: either the id is
// absent or the latest commit was requested from an empty store. The
// store itself is unaffected.
type NotFoundError struct {
	// ID is the requested commit id; 0 means "latest" was requested.
	ID int64

	// Path is the database file the lookup ran against.
	Path string
}

func (e *NotFoundError) Error() string {
	if e.ID == Latest {
		return fmt.Sprintf("cannot load most recent commit because database %q has no commits", e.Path)
	}
	return fmt.Sprintf("commit %d does not exist in database %q", e.ID, e.Path)
}

// IsNotFound reports whether err is a NotFoundError.
// Uses errors.As to handle wrapped errors.
func IsNotFound(err error) bool {
	var e *NotFoundError
	return errors.As(err, &e)
}
