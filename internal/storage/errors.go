package storage

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"github.com/evmeet/meetbot/internal/flow"
)

// Postgres error classes used to type commit failures.
const (
	pqUniqueViolation     = "23505"
	pqForeignKeyViolation = "23503"
	pqNotNullViolation    = "23502"
	pqCheckViolation      = "23514"
)

// classifyCommitError maps a lower-level store error onto the typed commit
// failure taxonomy the engine branches on.
func classifyCommitError(err error) *flow.CommitError {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return &flow.CommitError{Kind: flow.CommitNotFound, Err: err}
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch string(pqErr.Code) {
		case pqUniqueViolation:
			return &flow.CommitError{Kind: flow.CommitConflict, Err: err}
		case pqForeignKeyViolation, pqNotNullViolation, pqCheckViolation:
			return &flow.CommitError{Kind: flow.CommitConstraint, Err: err}
		}
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return &flow.CommitError{Kind: flow.CommitUnavailable, Err: err}
	}
	return &flow.CommitError{Kind: flow.CommitUnavailable, Err: err}
}
