package flow

import (
	"sync"
	"testing"

	"github.com/google/uuid"
)

func TestStoreChatsAreIndependent(t *testing.T) {
	cat := testCatalogue(t)
	st := NewStore()
	wf, _ := cat.Workflow(WorkflowRegistration)

	_ = st.Do(1, func(s *Session) error {
		s.Begin(wf, ModeCreate, uuid.New(), uuid.Nil)
		return nil
	})

	if snap := st.Snapshot(2); !snap.Idle() {
		t.Fatalf("chat 2 inherited state: %+v", snap)
	}
	if snap := st.Snapshot(1); snap.Workflow != WorkflowRegistration {
		t.Fatalf("chat 1 state lost: %+v", snap)
	}
}

func TestStoreDoSerializesSameChat(t *testing.T) {
	st := NewStore()
	const n = 200
	var wg sync.WaitGroup
	counter := 0

	wg.Add(n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			_ = st.Do(7, func(s *Session) error {
				counter++
				return nil
			})
		}()
	}
	wg.Wait()

	if counter != n {
		t.Fatalf("counter = %d, want %d", counter, n)
	}
}

func TestStoreClearIsIdempotent(t *testing.T) {
	cat := testCatalogue(t)
	st := NewStore()
	wf, _ := cat.Workflow(WorkflowFeedback)

	_ = st.Do(1, func(s *Session) error {
		s.Begin(wf, ModeCreate, uuid.New(), uuid.Nil)
		return nil
	})

	st.Clear(1)
	st.Clear(1)
	st.Clear(99)

	if snap := st.Snapshot(1); !snap.Idle() {
		t.Fatalf("session not cleared: %+v", snap)
	}
}

func TestSnapshotCopiesDraft(t *testing.T) {
	cat := testCatalogue(t)
	st := NewStore()
	wf, _ := cat.Workflow(WorkflowFeedback)

	_ = st.Do(1, func(s *Session) error {
		s.Begin(wf, ModeCreate, uuid.New(), uuid.Nil)
		s.Draft["text"] = "original"
		return nil
	})

	snap := st.Snapshot(1)
	snap.Draft["text"] = "mutated"

	if again := st.Snapshot(1); again.Draft.String("text") != "original" {
		t.Fatalf("snapshot mutation leaked into store: %q", again.Draft.String("text"))
	}
}
