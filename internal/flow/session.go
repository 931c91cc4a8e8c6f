package flow

import (
	"sync"

	"github.com/google/uuid"
)

// Session is the ephemeral per-chat record of dialog progress. A non-idle
// session always carries a workflow id and a step inside that workflow.
// Sessions never survive a process restart.
type Session struct {
	Workflow WorkflowID
	Step     StepID
	Mode     Mode
	// Actor is the caller-derived identifier of the user driving the dialog.
	Actor uuid.UUID
	// Target is the record being edited; zero outside of edit mode.
	Target uuid.UUID
	Draft  Draft
}

// Idle reports whether no workflow is in progress.
func (s *Session) Idle() bool { return s.Workflow == "" }

// Begin starts (or restarts) a workflow, discarding any in-flight draft.
func (s *Session) Begin(wf *Workflow, mode Mode, actor, target uuid.UUID) {
	s.Workflow = wf.ID
	s.Step = wf.Entry
	s.Mode = mode
	s.Actor = actor
	s.Target = target
	s.Draft = make(Draft)
}

// Reset returns the session to idle, dropping the draft.
func (s *Session) Reset() {
	*s = Session{}
}

// Store holds one session per chat. Operations on the same chat are fully
// serialized; distinct chats never contend with each other beyond the brief
// map lookup.
type Store struct {
	mu      sync.Mutex
	entries map[int64]*sessionEntry
}

type sessionEntry struct {
	mu sync.Mutex
	s  Session
}

// NewStore constructs an empty session store.
func NewStore() *Store {
	return &Store{entries: make(map[int64]*sessionEntry)}
}

func (st *Store) entry(chatID int64) *sessionEntry {
	st.mu.Lock()
	defer st.mu.Unlock()
	e, ok := st.entries[chatID]
	if !ok {
		e = &sessionEntry{}
		st.entries[chatID] = e
	}
	return e
}

// Do runs fn with exclusive access to the chat's session, creating an idle
// session on first use. All routing and engine transitions for a chat run
// inside Do, which is what guarantees arrival-order processing.
func (st *Store) Do(chatID int64, fn func(s *Session) error) error {
	e := st.entry(chatID)
	e.mu.Lock()
	defer e.mu.Unlock()
	return fn(&e.s)
}

// Snapshot returns a copy of the chat's session for read-only use.
func (st *Store) Snapshot(chatID int64) Session {
	e := st.entry(chatID)
	e.mu.Lock()
	defer e.mu.Unlock()
	copy := e.s
	copy.Draft = e.s.Draft.Clone()
	return copy
}

// Clear resets the chat's session to idle. Clearing an idle session is a
// no-op, so the operation is idempotent.
func (st *Store) Clear(chatID int64) {
	_ = st.Do(chatID, func(s *Session) error {
		s.Reset()
		return nil
	})
}
