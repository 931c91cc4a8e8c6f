package flow

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
)

type fakeCommitter struct {
	err      error
	requests []CommitRequest
}

func (f *fakeCommitter) Commit(_ context.Context, req CommitRequest) error {
	f.requests = append(f.requests, req)
	return f.err
}

func newTestEngine(t *testing.T, commitErr error) (*Engine, *fakeCommitter) {
	t.Helper()
	fc := &fakeCommitter{err: commitErr}
	return NewEngine(testCatalogue(t), fc), fc
}

// feed drives one answer through the engine, failing the test on any
// system error.
func feed(t *testing.T, e *Engine, s *Session, raw string) Effect {
	t.Helper()
	eff, err := e.Advance(context.Background(), s, raw)
	if err != nil {
		t.Fatalf("Advance(%q): %v", raw, err)
	}
	return eff
}

func TestEventCreationHappyPath(t *testing.T) {
	e, fc := newTestEngine(t, nil)
	actor := uuid.New()
	var s Session

	eff, err := e.Begin(&s, WorkflowEventCreate, ModeCreate, actor, uuid.Nil)
	if err != nil {
		t.Fatalf("Begin: %v", err)
	}
	if eff.Kind != EffectPrompt || eff.Step != "event_title" {
		t.Fatalf("entry effect: %+v", eff)
	}

	steps := []struct {
		raw      string
		nextStep StepID
	}{
		{"Friday Football", "event_location"},
		{"Central Park", "event_category"},
		{"Sports", "event_date"},
		{"31.12.2026 18:30", "event_description"},
		{"Casual five-a-side.", "event_people"},
		{"10", "event_experience"},
	}
	for _, st := range steps {
		eff = feed(t, e, &s, st.raw)
		if eff.Kind != EffectPrompt || eff.Step != st.nextStep {
			t.Fatalf("after %q: %+v", st.raw, eff)
		}
	}

	eff = feed(t, e, &s, "2")
	if eff.Kind != EffectCommit {
		t.Fatalf("terminal effect: %+v", eff)
	}
	if eff.Text != "Event created successfully!" {
		t.Fatalf("confirmation = %q", eff.Text)
	}
	if !s.Idle() {
		t.Fatal("session not cleared after commit")
	}

	if len(fc.requests) != 1 {
		t.Fatalf("commits = %d", len(fc.requests))
	}
	req := fc.requests[0]
	if req.Workflow != WorkflowEventCreate || req.Mode != ModeCreate || req.Actor != actor {
		t.Fatalf("request = %+v", req)
	}
	if got := req.Draft.String("title"); got != "Friday Football" {
		t.Fatalf("title = %q", got)
	}
	if got := req.Draft.UUID("category_id"); got != sportsID {
		t.Fatalf("category_id = %s", got)
	}
	want := time.Date(2026, 12, 31, 18, 30, 0, 0, time.Local)
	if got := req.Draft.Time("date_time"); !got.Equal(want) {
		t.Fatalf("date_time = %v", got)
	}
	if got := req.Draft.Int("people_amount"); got != 10 {
		t.Fatalf("people_amount = %d", got)
	}
	if got := req.Draft.Int("experience"); got != 2 {
		t.Fatalf("experience = %d", got)
	}
}

func TestInvalidInputRetriesSameStep(t *testing.T) {
	e, fc := newTestEngine(t, nil)
	var s Session
	if _, err := e.Begin(&s, WorkflowRegistration, ModeCreate, uuid.New(), uuid.Nil); err != nil {
		t.Fatalf("Begin: %v", err)
	}
	feed(t, e, &s, "John")
	feed(t, e, &s, "Doe")

	eff := feed(t, e, &s, "not a number")
	if eff.Kind != EffectRetry || eff.Step != "reg_age" {
		t.Fatalf("retry effect: %+v", eff)
	}
	if s.Step != "reg_age" {
		t.Fatalf("session advanced to %q on invalid input", s.Step)
	}
	if _, ok := s.Draft["age"]; ok {
		t.Fatal("invalid value stored in draft")
	}

	eff = feed(t, e, &s, "30")
	if eff.Kind != EffectPrompt || eff.Step != "reg_experience" {
		t.Fatalf("after retry: %+v", eff)
	}

	eff = feed(t, e, &s, "5")
	if eff.Kind != EffectCommit {
		t.Fatalf("terminal effect: %+v", eff)
	}
	if len(fc.requests) != 1 || fc.requests[0].Draft.Int("age") != 30 {
		t.Fatalf("committed draft = %+v", fc.requests)
	}
}

func TestCommitFailureClearsSession(t *testing.T) {
	e, _ := newTestEngine(t, &CommitError{Kind: CommitUnavailable, Err: errors.New("connection refused")})
	var s Session
	if _, err := e.Begin(&s, WorkflowFeedback, ModeCreate, uuid.New(), uuid.Nil); err != nil {
		t.Fatalf("Begin: %v", err)
	}

	eff := feed(t, e, &s, "Great bot!")
	if eff.Kind != EffectFail {
		t.Fatalf("effect: %+v", eff)
	}
	if !s.Idle() {
		t.Fatal("session survived a failed commit")
	}

	var cerr *CommitError
	if !errors.As(eff.Err, &cerr) || cerr.Kind != CommitUnavailable {
		t.Fatalf("err = %v", eff.Err)
	}
}

func TestAuthorizationFailureMessage(t *testing.T) {
	e, _ := newTestEngine(t, &AuthorizationError{})
	var s Session
	target := uuid.New()
	if _, err := e.Begin(&s, WorkflowTeamEdit, ModeEdit, uuid.New(), target); err != nil {
		t.Fatalf("Begin: %v", err)
	}

	feed(t, e, &s, "Rockets")
	feed(t, e, &s, "A team.")
	eff := feed(t, e, &s, "https://example.com/logo.png")
	if eff.Kind != EffectFail {
		t.Fatalf("effect: %+v", eff)
	}
	if eff.Text != "You are not allowed to modify this record." {
		t.Fatalf("text = %q", eff.Text)
	}
	if !s.Idle() {
		t.Fatal("session survived an authorization failure")
	}
}

func TestCommitCarriesEditTarget(t *testing.T) {
	e, fc := newTestEngine(t, nil)
	var s Session
	actor, target := uuid.New(), uuid.New()
	if _, err := e.Begin(&s, WorkflowTeamEdit, ModeEdit, actor, target); err != nil {
		t.Fatalf("Begin: %v", err)
	}
	feed(t, e, &s, "Rockets")
	feed(t, e, &s, "Renamed and rebranded.")
	eff := feed(t, e, &s, "https://example.com/logo.png")
	if eff.Kind != EffectCommit {
		t.Fatalf("effect: %+v", eff)
	}
	req := fc.requests[0]
	if req.Mode != ModeEdit || req.Target != target || req.Actor != actor {
		t.Fatalf("request = %+v", req)
	}
}

func TestBeginDiscardsInFlightDraft(t *testing.T) {
	e, _ := newTestEngine(t, nil)
	var s Session
	if _, err := e.Begin(&s, WorkflowEventCreate, ModeCreate, uuid.New(), uuid.Nil); err != nil {
		t.Fatalf("Begin: %v", err)
	}
	feed(t, e, &s, "Half-finished event")

	eff, err := e.Begin(&s, WorkflowFeedback, ModeCreate, uuid.New(), uuid.Nil)
	if err != nil {
		t.Fatalf("Begin: %v", err)
	}
	if eff.Step != "feedback_text" {
		t.Fatalf("entry = %+v", eff)
	}
	if len(s.Draft) != 0 {
		t.Fatalf("draft carried over: %v", s.Draft)
	}
}

func TestAdvanceOnIdleSessionErrors(t *testing.T) {
	e, _ := newTestEngine(t, nil)
	var s Session
	if _, err := e.Advance(context.Background(), &s, "text"); err == nil {
		t.Fatal("expected error on idle advance")
	}
}
