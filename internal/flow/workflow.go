// Package flow implements the per-user conversational workflow engine: a
// small state machine interpreter that walks a chat through multi-step
// forms, validates and accumulates answers, and commits finished drafts
// through a persistence adapter. Workflows are data, not code; one generic
// engine interprets the whole catalogue.
package flow

import (
	"time"

	"github.com/google/uuid"
)

// WorkflowID names one of the statically defined multi-step forms.
type WorkflowID string

const (
	WorkflowRegistration WorkflowID = "registration"
	WorkflowEventCreate  WorkflowID = "event_create"
	WorkflowEventEdit    WorkflowID = "event_edit"
	WorkflowTeamCreate   WorkflowID = "team_create"
	WorkflowTeamEdit     WorkflowID = "team_edit"
	WorkflowFeedback     WorkflowID = "feedback"
)

// Mode distinguishes creating a new record from editing an existing one.
type Mode int

const (
	ModeCreate Mode = iota
	ModeEdit
)

func (m Mode) String() string {
	if m == ModeEdit {
		return "edit"
	}
	return "create"
}

// StepID identifies a step inside a workflow. The empty id marks the
// terminal position: no successor, commit instead.
type StepID string

// StepTerminal is the successor of the last step of every workflow.
const StepTerminal StepID = ""

// Step is one prompt/validate/accumulate unit.
type Step struct {
	ID       StepID
	Field    string
	Prompt   string
	Validate ValidateFunc
	// Next is the default successor. NextByMode overrides it for branching
	// steps whose continuation depends on the session mode.
	Next       StepID
	NextByMode map[Mode]StepID
}

// NextFor resolves the successor step for the given mode.
func (s Step) NextFor(mode Mode) StepID {
	if s.NextByMode != nil {
		if next, ok := s.NextByMode[mode]; ok {
			return next
		}
	}
	return s.Next
}

// Workflow is an immutable ordered list of steps, compiled once at startup
// and safe for concurrent reads.
type Workflow struct {
	ID    WorkflowID
	Entry StepID
	// Done is the confirmation reported after a successful commit.
	Done string

	steps map[StepID]Step
	order []StepID
}

// Step returns the step with the given id.
func (w *Workflow) Step(id StepID) (Step, bool) {
	s, ok := w.steps[id]
	return s, ok
}

// Steps returns step ids in declaration order.
func (w *Workflow) Steps() []StepID {
	return append([]StepID(nil), w.order...)
}

// Fields returns the field names collected by this workflow, in step order.
func (w *Workflow) Fields() []string {
	out := make([]string, 0, len(w.order))
	for _, id := range w.order {
		out = append(out, w.steps[id].Field)
	}
	return out
}

// Draft is the accumulated field values for one workflow instance.
type Draft map[string]any

// Clone returns a shallow copy of the draft.
func (d Draft) Clone() Draft {
	out := make(Draft, len(d))
	for k, v := range d {
		out[k] = v
	}
	return out
}

// String returns the string value stored under name.
func (d Draft) String(name string) string {
	v, _ := d[name].(string)
	return v
}

// Int returns the int value stored under name.
func (d Draft) Int(name string) int {
	v, _ := d[name].(int)
	return v
}

// Time returns the time value stored under name.
func (d Draft) Time(name string) time.Time {
	v, _ := d[name].(time.Time)
	return v
}

// UUID returns the identifier value stored under name.
func (d Draft) UUID(name string) uuid.UUID {
	v, _ := d[name].(uuid.UUID)
	return v
}
