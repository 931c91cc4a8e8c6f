package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/lib/pq"

	"github.com/evmeet/meetbot/internal/flow"
)

func TestClassifyCommitError(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want flow.CommitErrorKind
	}{
		{"unique violation", &pq.Error{Code: "23505"}, flow.CommitConflict},
		{"check violation", &pq.Error{Code: "23514"}, flow.CommitConstraint},
		{"fk violation", &pq.Error{Code: "23503"}, flow.CommitConstraint},
		{"not null violation", &pq.Error{Code: "23502"}, flow.CommitConstraint},
		{"no rows", sql.ErrNoRows, flow.CommitNotFound},
		{"wrapped no rows", fmt.Errorf("load: %w", sql.ErrNoRows), flow.CommitNotFound},
		{"plain error", errors.New("connection refused"), flow.CommitUnavailable},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := classifyCommitError(tc.err)
			if got == nil {
				t.Fatal("expected a commit error")
			}
			if got.Kind != tc.want {
				t.Fatalf("kind = %s, want %s", got.Kind, tc.want)
			}
			if !errors.Is(got, tc.err) {
				t.Fatal("classified error must wrap the cause")
			}
		})
	}
	if classifyCommitError(nil) != nil {
		t.Fatal("nil error must classify as nil")
	}
}
