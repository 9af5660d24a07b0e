package store

import (
	"errors"
	"fmt"
)

// ErrMissingReference is returned when reference checks are enabled and a
// record points at a subject or quiz that does not exist.
var ErrMissingReference = errors.New("referenced record does not exist")

// StorageError reports a failure of the underlying database.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage: %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }
