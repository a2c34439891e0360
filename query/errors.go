package query

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors matched by CompileError through errors.Is.
var (
	// ErrInvalidQuery is matched by every CompileError.
	ErrInvalidQuery = errors.New("query: invalid query")
	// ErrBranchCapacityExceeded is matched by compile errors of kind BranchCapacityExceeded.
	ErrBranchCapacityExceeded = errors.New("query: branch capacity exceeded")
	// ErrBranchResultShapeMismatch is matched by compile errors of kind BranchResultShapeMismatch.
	ErrBranchResultShapeMismatch = errors.New("query: branch result shape mismatch")
	// ErrNestedBranch is matched by compile errors of kind NestedBranch.
	ErrNestedBranch = errors.New("query: nested branch point")
	// ErrParamTypeMismatch is matched by compile errors of kind ParamTypeMismatch.
	ErrParamTypeMismatch = errors.New("query: parameter type mismatch")
	// ErrEmptyQuery is matched by compile errors of kind EmptyQuery.
	ErrEmptyQuery = errors.New("query: empty query")
)

// ErrorKind classifies a CompileError.
type ErrorKind int

// Compile error kinds.
const (
	BranchCapacityExceeded ErrorKind = iota
	BranchResultShapeMismatch
	NestedBranch
	ParamTypeMismatch
	EmptyQuery
)

var kindNames = [...]string{
	BranchCapacityExceeded:    "BranchCapacityExceeded",
	BranchResultShapeMismatch: "BranchResultShapeMismatch",
	NestedBranch:              "NestedBranch",
	ParamTypeMismatch:         "ParamTypeMismatch",
	EmptyQuery:                "EmptyQuery",
}

var kindSentinels = [...]error{
	BranchCapacityExceeded:    ErrBranchCapacityExceeded,
	BranchResultShapeMismatch: ErrBranchResultShapeMismatch,
	NestedBranch:              ErrNestedBranch,
	ParamTypeMismatch:         ErrParamTypeMismatch,
	EmptyQuery:                ErrEmptyQuery,
}

// String returns the kind name.
func (k ErrorKind) String() string {
	if int(k) >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("ErrorKind(%d)", int(k))
}

// CompileError reports a skeleton that cannot be compiled. No plan is
// produced when it is returned.
type CompileError struct {
	Kind    ErrorKind
	Query   string // Skeleton name
	Branch  int    // Offending branch index, or -1
	Message string
}

// Error implements the error interface.
func (e *CompileError) Error() string {
	var b strings.Builder
	b.WriteString("query: ")
	b.WriteString(e.Query)
	if e.Branch >= 0 {
		fmt.Fprintf(&b, " (branch %d)", e.Branch)
	}
	b.WriteString(": ")
	b.WriteString(e.Message)
	return b.String()
}

// Is reports whether target is ErrInvalidQuery or the sentinel of the kind.
func (e *CompileError) Is(target error) bool {
	if target == ErrInvalidQuery {
		return true
	}
	return int(e.Kind) >= 0 && int(e.Kind) < len(kindSentinels) && target == kindSentinels[e.Kind]
}

func compileError(kind ErrorKind, name string, branch int, format string, args ...any) *CompileError {
	return &CompileError{
		Kind:    kind,
		Query:   name,
		Branch:  branch,
		Message: fmt.Sprintf(format, args...),
	}
}

// IsCompileError reports whether err is, or wraps, a CompileError.
func IsCompileError(err error) bool {
	var e *CompileError
	return errors.As(err, &e)
}
