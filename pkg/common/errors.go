package common

import (
	"github.com/pkg/errors"
)

var (
	// ErrOperationAborted is returned when the operation was aborted e.g. by a shutdown signal.
	ErrOperationAborted = errors.New("operation was aborted")
	// ErrStorageFailure is returned when the underlying key-value store could not be read or written.
	ErrStorageFailure = errors.New("storage failure")
)

// CriticalError is an error which stops the node, e.g. a corrupted poll database.
type CriticalError struct {
	Err error
}

func (ce CriticalError) Error() string { return ce.Err.Error() }
func (ce CriticalError) Unwrap() error { return ce.Err }

// SoftError is an error which can be logged and ignored, e.g. a failed best-effort publish.
type SoftError struct {
	Err error
}

func (se SoftError) Error() string { return se.Err.Error() }
func (se SoftError) Unwrap() error { return se.Err }

// DatabaseError wraps an error of the key-value store.
// It matches ErrStorageFailure with errors.Is and still exposes the cause.
type DatabaseError struct {
	Inner error
}

// NewDatabaseError wraps the given cause into a DatabaseError.
func NewDatabaseError(cause error) *DatabaseError {
	return &DatabaseError{Inner: cause}
}

func (e *DatabaseError) Error() string {
	return "database error: " + e.Inner.Error()
}

func (e *DatabaseError) Unwrap() error {
	return e.Inner
}

func (e *DatabaseError) Is(target error) bool {
	return target == ErrStorageFailure
}
