package tablegen

import (
	"errors"
	"strings"
)

// ConstraintKind classifies a constraint violation reported by the database.
type ConstraintKind int

// Constraint kinds.
const (
	NoConstraint ConstraintKind = iota
	UniqueConstraint
	ForeignKeyConstraint
	CheckConstraint
	NotNullConstraint
)

// String returns the kind name.
func (k ConstraintKind) String() string {
	switch k {
	case UniqueConstraint:
		return "unique"
	case ForeignKeyConstraint:
		return "foreign key"
	case CheckConstraint:
		return "check"
	case NotNullConstraint:
		return "not null"
	default:
		return "none"
	}
}

// sqlStater is implemented by the PostgreSQL drivers (*pq.Error and
// *pgconn.PgError).
type sqlStater interface {
	SQLState() string
}

type constraintRule struct {
	kind     ConstraintKind
	sqlState string
	messages []string // MySQL and SQLite report violations in the message only
}

var constraintRules = []constraintRule{
	{UniqueConstraint, "23505", []string{"Error 1062", "UNIQUE constraint failed", "violates unique constraint"}},
	{ForeignKeyConstraint, "23503", []string{"Error 1451", "Error 1452", "FOREIGN KEY constraint failed", "violates foreign key constraint"}},
	{CheckConstraint, "23514", []string{"Error 3819", "CHECK constraint failed", "violates check constraint"}},
	{NotNullConstraint, "23502", []string{"Error 1048", "NOT NULL constraint failed", "violates not-null constraint"}},
}

// Constraint returns the kind of constraint err violated, looking through
// wrapped errors. Driver error codes take precedence over messages.
func Constraint(err error) ConstraintKind {
	if err == nil {
		return NoConstraint
	}
	var st sqlStater
	if errors.As(err, &st) {
		for _, r := range constraintRules {
			if st.SQLState() == r.sqlState {
				return r.kind
			}
		}
	}
	msg := err.Error()
	for _, r := range constraintRules {
		for _, m := range r.messages {
			if strings.Contains(msg, m) {
				return r.kind
			}
		}
	}
	return NoConstraint
}

// IsConstraintError reports whether err is a constraint violation of any kind.
func IsConstraintError(err error) bool { return Constraint(err) != NoConstraint }

// IsUniqueConstraintError reports whether err violates a uniqueness constraint.
func IsUniqueConstraintError(err error) bool { return Constraint(err) == UniqueConstraint }

// IsForeignKeyConstraintError reports whether err violates a foreign key.
func IsForeignKeyConstraintError(err error) bool { return Constraint(err) == ForeignKeyConstraint }
