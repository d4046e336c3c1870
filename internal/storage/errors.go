package storage

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrForeignKey   = errors.New("referenced row does not exist")
	ErrInvalidValue = errors.New("invalid value")
)

// ConstraintError reports which database constraint rejected a write. It matches both
// its Kind sentinel and the driver error with errors.Is / errors.As.
type ConstraintError struct {
	Kind       error
	Table      string
	Constraint string
	Err        error
}

func (e *ConstraintError) Error() string {
	if e.Constraint != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Kind, e.Constraint, e.Table)
	}
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

func (e *ConstraintError) Unwrap() []error {
	return []error{e.Kind, e.Err}
}

// IsConstraint reports whether err was raised by the named constraint.
func IsConstraint(err error, name string) bool {
	var cErr *ConstraintError
	return errors.As(err, &cErr) && cErr.Constraint == name
}
