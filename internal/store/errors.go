package store

import (
	"errors"
	"fmt"
)

var (
	// ErrStorage matches every *StorageError.
	ErrStorage = errors.New("storage error")
	// ErrNotFound is wrapped by a StorageError when the id does not exist.
	ErrNotFound = errors.New("record not found")
)

// StorageError reports a failed store operation.
type StorageError struct {
	Op         string
	Collection string
	ID         string
	Err        error
}

func (e *StorageError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("store %s %s/%s: %v", e.Op, e.Collection, e.ID, e.Err)
	}
	return fmt.Sprintf("store %s %s: %v", e.Op, e.Collection, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

func (e *StorageError) Is(target error) bool { return target == ErrStorage }

// Wrap returns nil for a nil err, otherwise a StorageError. An err that already
// is a StorageError is returned unchanged.
func Wrap(op, collection, id string, err error) error {
	if err == nil {
		return nil
	}
	var se *StorageError
	if errors.As(err, &se) {
		return err
	}
	return &StorageError{Op: op, Collection: collection, ID: id, Err: err}
}

// NotFound builds the error returned for a missing id.
func NotFound(op, collection, id string) error {
	return &StorageError{Op: op, Collection: collection, ID: id, Err: ErrNotFound}
}

// IsNotFound reports whether err means the record does not exist.
func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }
