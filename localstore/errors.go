package localstore

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned by update operations whose target id has no record.
	ErrNotFound = errors.New("record not found")

	// ErrDuplicate is returned by add operations when the id is already taken.
	// Adds never overwrite an existing record.
	ErrDuplicate = errors.New("duplicate record id")
)

// CorruptionError reports that a stored collection could not be decoded.
// The caller can decide to reset the collection; the store never does so on its own.
type CorruptionError struct {
	Key string
	Err error
}

func (e *CorruptionError) Error() string {
	return fmt.Sprintf("corrupt collection %q: %v", e.Key, e.Err)
}

func (e *CorruptionError) Unwrap() error {
	return e.Err
}

// StorageError reports that the storage medium failed during an operation.
// Write failures are always surfaced this way, never swallowed.
type StorageError struct {
	Op  string
	Key string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s %q: %v", e.Op, e.Key, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}
