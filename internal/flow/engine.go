package flow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/evmeet/meetbot/core/logger"
)

// EffectKind tags the outcome of one engine transition.
type EffectKind int

const (
	// EffectPrompt asks the user for the next field.
	EffectPrompt EffectKind = iota
	// EffectRetry re-asks the current field after invalid input.
	EffectRetry
	// EffectCommit reports a successfully persisted draft.
	EffectCommit
	// EffectFail aborts the workflow after a persistence or authorization
	// failure; the session has been cleared.
	EffectFail
)

// Effect is what the caller renders back to the chat after a transition.
type Effect struct {
	Kind EffectKind
	// Text is the prompt, retry notice, confirmation, or failure message.
	Text string
	// Step is the step the session now waits on (prompt and retry only).
	Step StepID
	// Draft carries the committed values (commit only).
	Draft Draft
	// Err is the underlying failure (fail only).
	Err error
}

// CommitRequest hands a completed draft to the persistence adapter.
type CommitRequest struct {
	Workflow WorkflowID
	Mode     Mode
	Actor    uuid.UUID
	Target   uuid.UUID
	Draft    Draft
}

// Committer atomically persists a completed draft. Implementations must
// leave the store unchanged on failure and classify errors with
// *CommitError or *AuthorizationError.
type Committer interface {
	Commit(ctx context.Context, req CommitRequest) error
}

// Engine interprets workflow definitions against sessions. It holds no
// mutable state of its own; per-chat exclusivity is the session store's job.
type Engine struct {
	catalogue *Catalogue
	committer Committer
	log       *slog.Logger
}

// NewEngine constructs the workflow engine.
func NewEngine(catalogue *Catalogue, committer Committer) *Engine {
	return &Engine{
		catalogue: catalogue,
		committer: committer,
		log:       logger.Flow,
	}
}

// Begin starts a workflow on the session, discarding any in-flight dialog,
// and returns the entry prompt.
func (e *Engine) Begin(s *Session, id WorkflowID, mode Mode, actor, target uuid.UUID) (Effect, error) {
	wf, ok := e.catalogue.Workflow(id)
	if !ok {
		return Effect{}, fmt.Errorf("engine: unknown workflow %q", id)
	}
	s.Begin(wf, mode, actor, target)
	entry, _ := wf.Step(wf.Entry)
	e.log.Debug("workflow started",
		slog.String("event", "flow.begin"),
		slog.String("workflow", string(id)),
		slog.String("mode", mode.String()),
	)
	return Effect{Kind: EffectPrompt, Text: entry.Prompt, Step: entry.ID}, nil
}

// Advance executes a single state transition for the session with the given
// raw input. Validation failures re-prompt the same step and leave the
// session untouched. At the terminal step the draft is committed
// synchronously; on either commit outcome the session is cleared.
func (e *Engine) Advance(ctx context.Context, s *Session, raw string) (Effect, error) {
	if s.Idle() {
		return Effect{}, fmt.Errorf("engine: advance on idle session")
	}
	wf, ok := e.catalogue.Workflow(s.Workflow)
	if !ok {
		return Effect{}, fmt.Errorf("engine: session references unknown workflow %q", s.Workflow)
	}
	step, ok := wf.Step(s.Step)
	if !ok {
		return Effect{}, fmt.Errorf("engine: session at unknown step %q of workflow %s", s.Step, s.Workflow)
	}

	value, err := step.Validate(raw)
	if err != nil {
		var verr *ValidationError
		if errors.As(err, &verr) {
			// Step and draft stay untouched; the user resends.
			return Effect{Kind: EffectRetry, Text: verr.Msg, Step: step.ID}, nil
		}
		return Effect{}, fmt.Errorf("engine: validator for %s.%s: %w", s.Workflow, step.Field, err)
	}

	if s.Draft == nil {
		s.Draft = make(Draft)
	}
	s.Draft[step.Field] = value

	next := step.NextFor(s.Mode)
	if next != StepTerminal {
		nextStep, ok := wf.Step(next)
		if !ok {
			return Effect{}, fmt.Errorf("engine: workflow %s: missing successor %q", s.Workflow, next)
		}
		s.Step = next
		return Effect{Kind: EffectPrompt, Text: nextStep.Prompt, Step: nextStep.ID}, nil
	}

	req := CommitRequest{
		Workflow: s.Workflow,
		Mode:     s.Mode,
		Actor:    s.Actor,
		Target:   s.Target,
		Draft:    s.Draft.Clone(),
	}
	commitErr := e.committer.Commit(ctx, req)

	// Uniform policy: the workflow never resumes at the failing step. The
	// whole draft is discarded and the user starts over.
	s.Reset()

	if commitErr != nil {
		e.log.Warn("commit failed",
			slog.String("event", "flow.commit"),
			slog.String("workflow", string(req.Workflow)),
			slog.String("mode", req.Mode.String()),
			slog.String("err", commitErr.Error()),
		)
		return Effect{Kind: EffectFail, Text: failText(commitErr), Err: commitErr}, nil
	}

	e.log.Info("workflow committed",
		slog.String("event", "flow.commit"),
		slog.String("workflow", string(req.Workflow)),
		slog.String("mode", req.Mode.String()),
	)
	return Effect{Kind: EffectCommit, Text: wf.Done, Draft: req.Draft}, nil
}

// failText maps a commit failure to the user-visible message naming its class.
func failText(err error) string {
	var authz *AuthorizationError
	if errors.As(err, &authz) {
		return "You are not allowed to modify this record."
	}
	var cerr *CommitError
	if errors.As(err, &cerr) {
		switch cerr.Kind {
		case CommitConflict:
			return "A record with these details already exists. The form was discarded; please start over."
		case CommitNotFound:
			return "The record you were editing no longer exists. The form was discarded."
		case CommitConstraint:
			return "The submitted values were rejected by the store. The form was discarded; please start over."
		}
	}
	return "The storage is temporarily unavailable. The form was discarded; please try again later."
}
