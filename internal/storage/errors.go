package storage

import "errors"

var (
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("conflict")
	// ErrRelatedNotFound is returned when a referenced row does not exist.
	ErrRelatedNotFound = errors.New("related record not found")
	// ErrConstraint is returned when a row violates a check constraint.
	ErrConstraint = errors.New("constraint violation")
)

// RelationError names the relation ("category", "genre", "title", ...)
// whose referenced row is missing.
type RelationError struct {
	Relation string
}

func (e *RelationError) Error() string {
	return e.Relation + " not found"
}

func (e *RelationError) Is(target error) bool {
	return target == ErrRelatedNotFound
}

// IsRelation reports whether err is a RelationError for relation.
func IsRelation(err error, relation string) bool {
	var relErr *RelationError
	return errors.As(err, &relErr) && relErr.Relation == relation
}

// Unique constraints callers tell apart.
const (
	UsernameConstraint = "users_username_key"
	EmailConstraint    = "users_email_key"
)

// ConflictError names the unique constraint a write collided with.
type ConflictError struct {
	Constraint string
}

func (e *ConflictError) Error() string {
	return "conflict on " + e.Constraint
}

func (e *ConflictError) Is(target error) bool {
	return target == ErrConflict
}

// IsConflict reports whether err is a ConflictError on constraint.
func IsConflict(err error, constraint string) bool {
	var conflictErr *ConflictError
	return errors.As(err, &conflictErr) && conflictErr.Constraint == constraint
}
