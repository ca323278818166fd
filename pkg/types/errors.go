package types

import "errors"

// Error kinds returned by the persistence engine. Callers branch on these
// with errors.Is rather than inspecting booleans; per-record failures wrap
// ErrConstraint, missing ids wrap ErrNotFound, and everything else that
// escapes the store is a storage-level fault.
var (
	// ErrNotFound is returned when no note exists for the given id.
	ErrNotFound = errors.New("note not found")

	// ErrConstraint is returned when a note violates a data constraint
	// (unknown classification, empty required field). It wraps the
	// specific validation sentinel describing the violation.
	ErrConstraint = errors.New("constraint violation")

	// ErrStoreClosed is returned by operations on a detached store. The
	// reconciler treats it as a request-level failure, not a per-record one.
	ErrStoreClosed = errors.New("store is detached")

	// ErrAlreadyAttached is returned by Attach on an attached store.
	ErrAlreadyAttached = errors.New("store is already attached")
)

// Note validation errors, wrapped by ErrConstraint at the store boundary.
var (
	ErrNoteNil          = errors.New("note must not be null")
	ErrHashEmpty        = errors.New("content hash must not be empty")
	ErrNoteTextEmpty    = errors.New("note text must not be empty")
	ErrWoundTypeUnknown = errors.New("unknown wound type")
	ErrSeverityUnknown  = errors.New("unknown wound severity")
	ErrObservedAtZero   = errors.New("observed_at must be set")
)
