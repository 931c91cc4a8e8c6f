package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/evmeet/meetbot/core/logger"
	"github.com/evmeet/meetbot/internal/flow"
)

// commitTimeout bounds one terminal-step write against the store.
const commitTimeout = 5 * time.Second

// DraftSchemas declares, per workflow, the draft fields the adapter reads.
// The catalogue verifies its step definitions against this at build time,
// so a field renamed on one side fails startup instead of silently writing
// zero values.
func DraftSchemas() map[flow.WorkflowID][]string {
	return map[flow.WorkflowID][]string{
		flow.WorkflowRegistration: {"first_name", "last_name", "age", "experience"},
		flow.WorkflowEventCreate:  {"title", "location", "category_id", "date_time", "description", "people_amount", "experience"},
		flow.WorkflowEventEdit:    {"title", "location", "category_id", "date_time", "description", "people_amount", "experience"},
		flow.WorkflowTeamCreate:   {"name", "description", "logo_url"},
		flow.WorkflowTeamEdit:     {"name", "description", "logo_url"},
		flow.WorkflowFeedback:     {"text"},
	}
}

// Adapter persists completed drafts as domain records. Every commit is one
// atomic write; failures are classified and leave the store unchanged.
type Adapter struct {
	store *Store
	log   *slog.Logger
}

// NewAdapter builds the persistence adapter over the record store.
func NewAdapter(store *Store) *Adapter {
	return &Adapter{store: store, log: logger.Storage}
}

var _ flow.Committer = (*Adapter)(nil)

// Commit writes one finished draft. Create mode inserts; edit mode updates
// the target record after verifying the caller owns it. The ownership check
// happens before any field is modified.
func (a *Adapter) Commit(ctx context.Context, req flow.CommitRequest) error {
	ctx, cancel := context.WithTimeout(ctx, commitTimeout)
	defer cancel()

	start := time.Now()
	var err error
	switch req.Workflow {
	case flow.WorkflowRegistration:
		err = a.commitProfile(ctx, req)
	case flow.WorkflowEventCreate, flow.WorkflowEventEdit:
		err = a.commitEvent(ctx, req)
	case flow.WorkflowTeamCreate, flow.WorkflowTeamEdit:
		err = a.commitTeam(ctx, req)
	case flow.WorkflowFeedback:
		err = a.commitFeedback(ctx, req)
	default:
		return &flow.CommitError{Kind: flow.CommitConstraint, Err: fmt.Errorf("unknown workflow %q", req.Workflow)}
	}

	a.log.LogAttrs(ctx, levelFor(err), "draft commit",
		slog.String("event", "commit"),
		slog.String("workflow", string(req.Workflow)),
		slog.String("mode", req.Mode.String()),
		slog.String("status", logger.Status(err)),
		slog.Duration("duration", logger.Took(start)),
	)
	return err
}

func levelFor(err error) slog.Level {
	if err != nil {
		return slog.LevelWarn
	}
	return slog.LevelInfo
}

// commitProfile upserts the caller's own profile; the target of an edit is
// always the caller, so no separate ownership check is needed.
func (a *Adapter) commitProfile(ctx context.Context, req flow.CommitRequest) error {
	d := req.Draft
	_, err := a.store.db.ExecContext(ctx,
		`INSERT INTO "user" (id, first_name, last_name, age, experience)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (id) DO UPDATE
		    SET first_name = EXCLUDED.first_name,
		        last_name  = EXCLUDED.last_name,
		        age        = EXCLUDED.age,
		        experience = EXCLUDED.experience,
		        updated_at = now()`,
		req.Actor, d.String("first_name"), d.String("last_name"), d.Int("age"), d.Int("experience"))
	if err != nil {
		return classifyCommitError(err)
	}
	return nil
}

func (a *Adapter) commitEvent(ctx context.Context, req flow.CommitRequest) error {
	d := req.Draft
	if req.Mode == flow.ModeCreate {
		_, err := a.store.db.ExecContext(ctx,
			`INSERT INTO event (id, title, location, category_id, date_time, description, people_amount, experience, organizer_id)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
			uuid.New(), d.String("title"), d.String("location"), d.UUID("category_id"),
			d.Time("date_time"), d.String("description"), d.Int("people_amount"),
			d.Int("experience"), req.Actor)
		if err != nil {
			return classifyCommitError(err)
		}
		return nil
	}
	return a.updateOwned(ctx, req,
		`UPDATE event
		    SET title = $3, location = $4, category_id = $5, date_time = $6,
		        description = $7, people_amount = $8, experience = $9,
		        updated_at = now()
		  WHERE id = $1 AND organizer_id = $2`,
		`SELECT organizer_id FROM event WHERE id = $1`,
		req.Target, req.Actor,
		d.String("title"), d.String("location"), d.UUID("category_id"),
		d.Time("date_time"), d.String("description"), d.Int("people_amount"), d.Int("experience"))
}

func (a *Adapter) commitTeam(ctx context.Context, req flow.CommitRequest) error {
	d := req.Draft
	if req.Mode == flow.ModeCreate {
		_, err := a.store.db.ExecContext(ctx,
			`INSERT INTO team (id, name, description, logo_url, creator_id)
			 VALUES ($1, $2, $3, $4, $5)`,
			uuid.New(), d.String("name"), d.String("description"), d.String("logo_url"), req.Actor)
		if err != nil {
			return classifyCommitError(err)
		}
		return nil
	}
	return a.updateOwned(ctx, req,
		`UPDATE team
		    SET name = $3, description = $4, logo_url = $5, updated_at = now()
		  WHERE id = $1 AND creator_id = $2`,
		`SELECT creator_id FROM team WHERE id = $1`,
		req.Target, req.Actor,
		d.String("name"), d.String("description"), d.String("logo_url"))
}

func (a *Adapter) commitFeedback(ctx context.Context, req flow.CommitRequest) error {
	_, err := a.store.db.ExecContext(ctx,
		`INSERT INTO feedback (id, user_id, text) VALUES ($1, $2, $3)`,
		uuid.New(), req.Actor, req.Draft.String("text"))
	if err != nil {
		return classifyCommitError(err)
	}
	return nil
}

// updateOwned runs a guarded update that only touches rows owned by the
// actor, then disambiguates a zero-row result into NotFound (target gone)
// versus an authorization failure (target exists, different owner).
func (a *Adapter) updateOwned(ctx context.Context, req flow.CommitRequest, updateQ, ownerQ string, target, actor uuid.UUID, args ...any) error {
	res, err := a.store.db.ExecContext(ctx, updateQ, append([]any{target, actor}, args...)...)
	if err != nil {
		return classifyCommitError(err)
	}
	if n, _ := res.RowsAffected(); n > 0 {
		return nil
	}

	var owner uuid.UUID
	err = a.store.db.GetContext(ctx, &owner, ownerQ, target)
	if errors.Is(err, sql.ErrNoRows) {
		return &flow.CommitError{Kind: flow.CommitNotFound, Err: fmt.Errorf("record %s vanished", target)}
	}
	if err != nil {
		return classifyCommitError(err)
	}
	return &flow.AuthorizationError{Err: fmt.Errorf("record %s is owned by %s", target, owner)}
}
