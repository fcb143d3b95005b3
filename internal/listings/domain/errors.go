package domain

import "errors"

var (
	ErrNotFound           = errors.New("not found")
	ErrSnapshotNotFound   = errors.New("draft snapshot not found")
	ErrSubmissionInFlight = errors.New("a submission for this draft is already in flight")
	ErrIndexOutOfRange    = errors.New("index out of range")
)

// FieldErrors maps a field key to a human-readable message. Used for
// step-scoped validation and cross-field submission checks.
type FieldErrors map[string]string

// ConsistencyError rejects a whole submission before any write happens.
type ConsistencyError struct {
	Fields FieldErrors
}

func (e *ConsistencyError) Error() string {
	for field, msg := range e.Fields {
		return field + ": " + msg
	}
	return "inconsistent submission"
}

// PersistenceError is a write-sequence failure after the project row went
// in. Earlier steps may already have committed; there is no rollback.
type PersistenceError struct {
	Step string
	Err  error
}

func (e *PersistenceError) Error() string {
	return "persistence failed at " + e.Step + ": " + e.Err.Error()
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// FileConstraintError rejects a single file, never the whole batch.
type FileConstraintError struct {
	Name   string
	Reason string
}

func (e *FileConstraintError) Error() string {
	return e.Name + ": " + e.Reason
}
