package flow

import "fmt"

// CommitErrorKind classifies persistence failures surfaced by the adapter.
type CommitErrorKind int

const (
	// CommitConflict marks a unique-constraint violation.
	CommitConflict CommitErrorKind = iota
	// CommitNotFound marks an edit whose target record vanished.
	CommitNotFound
	// CommitConstraint marks a domain-rule violation rejected by the store.
	CommitConstraint
	// CommitUnavailable marks a transient store failure.
	CommitUnavailable
)

func (k CommitErrorKind) String() string {
	switch k {
	case CommitConflict:
		return "conflict"
	case CommitNotFound:
		return "not_found"
	case CommitConstraint:
		return "constraint_violation"
	default:
		return "unavailable"
	}
}

// CommitError is the typed failure returned by the persistence adapter.
// The store is left unchanged whenever one is returned.
type CommitError struct {
	Kind CommitErrorKind
	Err  error
}

func (e *CommitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("commit %s: %v", e.Kind, e.Err)
	}
	return "commit " + e.Kind.String()
}

func (e *CommitError) Unwrap() error { return e.Err }

// AuthorizationError reports an edit or delete attempted by a non-owner.
// It aborts the workflow before any field of the target is modified.
type AuthorizationError struct {
	Err error
}

func (e *AuthorizationError) Error() string {
	if e.Err != nil {
		return "not authorized: " + e.Err.Error()
	}
	return "not authorized"
}

func (e *AuthorizationError) Unwrap() error { return e.Err }
