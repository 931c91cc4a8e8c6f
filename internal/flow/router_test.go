package flow

import (
	"testing"

	"github.com/google/uuid"
)

func TestRouteTextIdle(t *testing.T) {
	r := NewRouter(testCatalogue(t))
	var s Session
	d := r.Route(&s, TextInput("hello"))
	if d.Kind != DecisionRejectIdle {
		t.Fatalf("idle text routed to %v", d.Kind)
	}
}

func TestRouteTextActive(t *testing.T) {
	cat := testCatalogue(t)
	r := NewRouter(cat)
	var s Session
	wf, _ := cat.Workflow(WorkflowRegistration)
	s.Begin(wf, ModeCreate, uuid.New(), uuid.Nil)

	d := r.Route(&s, TextInput("John"))
	if d.Kind != DecisionFeed || d.Input != "John" {
		t.Fatalf("active text routed to %v input=%q", d.Kind, d.Input)
	}
}

func TestRouteStartToken(t *testing.T) {
	r := NewRouter(testCatalogue(t))
	var s Session
	d := r.Route(&s, ButtonPress("create_event"))
	if d.Kind != DecisionStart || d.Workflow != WorkflowEventCreate || d.Mode != ModeCreate {
		t.Fatalf("got %+v", d)
	}
}

// A start token pressed mid-workflow is a supported interruption and still
// routes to a start decision.
func TestRouteStartTokenInterrupts(t *testing.T) {
	cat := testCatalogue(t)
	r := NewRouter(cat)
	var s Session
	wf, _ := cat.Workflow(WorkflowTeamCreate)
	s.Begin(wf, ModeCreate, uuid.New(), uuid.Nil)

	d := r.Route(&s, ButtonPress("create_feedback"))
	if d.Kind != DecisionStart || d.Workflow != WorkflowFeedback {
		t.Fatalf("got %+v", d)
	}
}

func TestRouteNavToken(t *testing.T) {
	r := NewRouter(testCatalogue(t))
	var s Session
	d := r.Route(&s, ButtonPress("view_events"))
	if d.Kind != DecisionNavigate || d.Token != "view_events" {
		t.Fatalf("got %+v", d)
	}
}

func TestRouteTargetTokens(t *testing.T) {
	r := NewRouter(testCatalogue(t))
	id := uuid.New()
	var s Session

	d := r.Route(&s, ButtonPress("edit_"+id.String()))
	if d.Kind != DecisionEditTarget || d.Target != id {
		t.Fatalf("edit: got %+v", d)
	}
	d = r.Route(&s, ButtonPress("delete_"+id.String()))
	if d.Kind != DecisionDeleteTarget || d.Target != id {
		t.Fatalf("delete: got %+v", d)
	}
}

func TestRouteUnknownToken(t *testing.T) {
	r := NewRouter(testCatalogue(t))
	var s Session
	d := r.Route(&s, ButtonPress("bogus_token"))
	if d.Kind != DecisionUnknownToken {
		t.Fatalf("got %+v", d)
	}
}
