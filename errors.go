package tablegen

import (
	"errors"
	"fmt"
)

// Sentinel errors matched by the typed errors below through errors.Is.
var (
	// ErrNotFound is returned when a statement that must touch exactly one
	// row touched none.
	ErrNotFound = errors.New("tablegen: row not found")

	// ErrNotSingular is returned when a statement expected at most one row
	// and got more.
	ErrNotSingular = errors.New("tablegen: row not singular")

	// ErrDecode is returned when a row cannot be scanned into its entity.
	ErrDecode = errors.New("tablegen: decode failed")
)

// NotFoundError reports that no row matched where exactly one was required.
type NotFoundError struct {
	label string
	id    any
}

// Error returns the error string.
func (e *NotFoundError) Error() string {
	if e.id != nil {
		return fmt.Sprintf("tablegen: %s not found (id=%v)", e.label, e.id)
	}
	return fmt.Sprintf("tablegen: %s not found", e.label)
}

// Is reports whether err is ErrNotFound.
func (e *NotFoundError) Is(err error) bool {
	return err == ErrNotFound
}

// Label returns the entity label.
func (e *NotFoundError) Label() string { return e.label }

// ID returns the identifier that was looked up, if known.
func (e *NotFoundError) ID() any { return e.id }

// NewNotFoundError returns a NotFoundError for the given entity.
func NewNotFoundError(label string) *NotFoundError {
	return &NotFoundError{label: label}
}

// NewNotFoundErrorWithID returns a NotFoundError carrying the identifier.
func NewNotFoundErrorWithID(label string, id any) *NotFoundError {
	return &NotFoundError{label: label, id: id}
}

// IsNotFound reports whether err is, or wraps, a NotFoundError.
func IsNotFound(err error) bool {
	if err == nil {
		return false
	}
	var e *NotFoundError
	return errors.As(err, &e) || errors.Is(err, ErrNotFound)
}

// NotSingularError reports that more than one row matched a lookup that
// allows at most one.
type NotSingularError struct {
	label string
}

// Error returns the error string.
func (e *NotSingularError) Error() string {
	return fmt.Sprintf("tablegen: %s not singular", e.label)
}

// Is reports whether err is ErrNotSingular.
func (e *NotSingularError) Is(err error) bool {
	return err == ErrNotSingular
}

// NewNotSingularError returns a NotSingularError for the given entity.
func NewNotSingularError(label string) *NotSingularError {
	return &NotSingularError{label: label}
}

// IsNotSingular reports whether err is, or wraps, a NotSingularError.
func IsNotSingular(err error) bool {
	if err == nil {
		return false
	}
	var e *NotSingularError
	return errors.As(err, &e) || errors.Is(err, ErrNotSingular)
}

// DecodeError reports that a row could not be materialized into the
// declared entity shape.
type DecodeError struct {
	Entity string
	Err    error
}

// Error returns the error string.
func (e *DecodeError) Error() string {
	return fmt.Sprintf("tablegen: decoding %s: %v", e.Entity, e.Err)
}

// Unwrap returns the underlying scan error.
func (e *DecodeError) Unwrap() error { return e.Err }

// Is reports whether err is ErrDecode.
func (e *DecodeError) Is(err error) bool {
	return err == ErrDecode
}

// NewDecodeError returns a DecodeError.
func NewDecodeError(entity string, err error) *DecodeError {
	return &DecodeError{Entity: entity, Err: err}
}

// IsDecodeError reports whether err is, or wraps, a DecodeError.
func IsDecodeError(err error) bool {
	if err == nil {
		return false
	}
	var e *DecodeError
	return errors.As(err, &e)
}

// QueryError wraps a failed row-returning statement.
type QueryError struct {
	Entity string // Entity type being queried
	Op     string // Operation (e.g., "get", "stream", "by_email")
	Err    error  // Underlying error
}

// Error returns the error string.
func (e *QueryError) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("tablegen: querying %s (%s): %v", e.Entity, e.Op, e.Err)
	}
	return fmt.Sprintf("tablegen: querying %s: %v", e.Entity, e.Err)
}

// Unwrap returns the underlying error.
func (e *QueryError) Unwrap() error { return e.Err }

// NewQueryError returns a new QueryError.
func NewQueryError(entity, op string, err error) *QueryError {
	return &QueryError{Entity: entity, Op: op, Err: err}
}

// IsQueryError reports whether err is, or wraps, a QueryError.
func IsQueryError(err error) bool {
	if err == nil {
		return false
	}
	var e *QueryError
	return errors.As(err, &e)
}

// MutationError wraps a failed write statement.
type MutationError struct {
	Entity string // Entity type being mutated
	Op     string // Operation (e.g., "insert", "update", "delete")
	Err    error  // Underlying error
}

// Error returns the error string.
func (e *MutationError) Error() string {
	return fmt.Sprintf("tablegen: %s %s: %v", e.Op, e.Entity, e.Err)
}

// Unwrap returns the underlying error.
func (e *MutationError) Unwrap() error { return e.Err }

// NewMutationError returns a new MutationError.
func NewMutationError(entity, op string, err error) *MutationError {
	return &MutationError{Entity: entity, Op: op, Err: err}
}

// IsMutationError reports whether err is, or wraps, a MutationError.
func IsMutationError(err error) bool {
	if err == nil {
		return false
	}
	var e *MutationError
	return errors.As(err, &e)
}

// RollbackError wraps an error returned by a transaction rollback.
type RollbackError struct {
	Err error
}

// Error returns the error string.
func (e *RollbackError) Error() string {
	return fmt.Sprintf("tablegen: rollback failed: %v", e.Err)
}

// Unwrap returns the underlying error.
func (e *RollbackError) Unwrap() error { return e.Err }

// UnmatchedBranchError is the panic value raised when no branch of a
// conditional query matched at run time. Every compiled plan ends with an
// unconditional branch, so reaching it is a programming defect.
type UnmatchedBranchError struct {
	Query    string // Skeleton name or first literal
	Branches int    // Number of branches scanned
}

// Error returns the error string.
func (e *UnmatchedBranchError) Error() string {
	return fmt.Sprintf("tablegen: no branch of %q matched (%d scanned)", e.Query, e.Branches)
}
