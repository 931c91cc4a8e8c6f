package flow

import (
	"strings"
	"testing"

	"github.com/google/uuid"
)

var (
	techID   = uuid.MustParse("11111111-1111-4111-8111-111111111111")
	sportsID = uuid.MustParse("22222222-2222-4222-8222-222222222222")
)

func testResolver(name string) (uuid.UUID, bool) {
	switch name {
	case "Tech":
		return techID, true
	case "Sports":
		return sportsID, true
	}
	return uuid.Nil, false
}

func testSchemas() map[WorkflowID][]string {
	event := []string{"title", "location", "category_id", "date_time", "description", "people_amount", "experience"}
	team := []string{"name", "description", "logo_url"}
	return map[WorkflowID][]string{
		WorkflowRegistration: {"first_name", "last_name", "age", "experience"},
		WorkflowEventCreate:  event,
		WorkflowEventEdit:    event,
		WorkflowTeamCreate:   team,
		WorkflowTeamEdit:     team,
		WorkflowFeedback:     {"text"},
	}
}

func testCatalogue(t *testing.T) *Catalogue {
	t.Helper()
	cat, err := NewCatalogue(CatalogueConfig{
		Categories:   testResolver,
		NavTokens:    []string{"menu", "view_events", "clear"},
		DraftSchemas: testSchemas(),
	})
	if err != nil {
		t.Fatalf("NewCatalogue: %v", err)
	}
	return cat
}

func TestNewCatalogueRequiresResolver(t *testing.T) {
	if _, err := NewCatalogue(CatalogueConfig{}); err == nil {
		t.Fatal("expected error without category resolver")
	}
}

func TestNewCatalogueRejectsSchemaMismatch(t *testing.T) {
	schemas := testSchemas()
	schemas[WorkflowFeedback] = []string{"message"}
	_, err := NewCatalogue(CatalogueConfig{Categories: testResolver, DraftSchemas: schemas})
	if err == nil {
		t.Fatal("expected schema mismatch error")
	}
	if !strings.Contains(err.Error(), "feedback") {
		t.Fatalf("error does not name the workflow: %v", err)
	}
}

func TestNewCatalogueRejectsMissingSchema(t *testing.T) {
	schemas := testSchemas()
	delete(schemas, WorkflowTeamEdit)
	if _, err := NewCatalogue(CatalogueConfig{Categories: testResolver, DraftSchemas: schemas}); err == nil {
		t.Fatal("expected missing schema error")
	}
}

func TestNewCatalogueRejectsOverlappingNavToken(t *testing.T) {
	_, err := NewCatalogue(CatalogueConfig{
		Categories: testResolver,
		NavTokens:  []string{"menu", "create_event"},
	})
	if err == nil {
		t.Fatal("expected overlap error for nav token shadowing a start token")
	}
}

func TestNewCatalogueRejectsNavTokenMatchingTargetGrammar(t *testing.T) {
	_, err := NewCatalogue(CatalogueConfig{
		Categories: testResolver,
		NavTokens:  []string{"edit_123e4567-e89b-42d3-a456-426614174000"},
	})
	if err == nil {
		t.Fatal("expected grammar collision error")
	}
}

func TestCatalogueWorkflows(t *testing.T) {
	cat := testCatalogue(t)
	for _, id := range []WorkflowID{
		WorkflowRegistration, WorkflowEventCreate, WorkflowEventEdit,
		WorkflowTeamCreate, WorkflowTeamEdit, WorkflowFeedback,
	} {
		wf, ok := cat.Workflow(id)
		if !ok {
			t.Fatalf("workflow %s missing", id)
		}
		if _, ok := wf.Step(wf.Entry); !ok {
			t.Fatalf("workflow %s: entry step missing", id)
		}
	}
}

func TestStartActionModes(t *testing.T) {
	cat := testCatalogue(t)
	tests := []struct {
		token string
		wf    WorkflowID
		mode  Mode
	}{
		{"create_event", WorkflowEventCreate, ModeCreate},
		{"create_team", WorkflowTeamCreate, ModeCreate},
		{"create_feedback", WorkflowFeedback, ModeCreate},
		{"register", WorkflowRegistration, ModeCreate},
		{"edit_profile", WorkflowRegistration, ModeEdit},
	}
	for _, tt := range tests {
		a, ok := cat.StartAction(tt.token)
		if !ok {
			t.Fatalf("token %q not a start token", tt.token)
		}
		if a.Workflow != tt.wf || a.Mode != tt.mode {
			t.Fatalf("token %q: got %s/%s, want %s/%s", tt.token, a.Workflow, a.Mode, tt.wf, tt.mode)
		}
	}
	if _, ok := cat.StartAction("menu"); ok {
		t.Fatal("nav token resolved as start action")
	}
}

func TestParseTargetToken(t *testing.T) {
	id := uuid.MustParse("123e4567-e89b-42d3-a456-426614174000")
	tests := []struct {
		token  string
		action string
		ok     bool
	}{
		{"edit_" + id.String(), "edit", true},
		{"delete_" + id.String(), "delete", true},
		{"remove_" + id.String(), "", false},
		{"edit_not-a-uuid", "", false},
		{"edit_profile", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		action, parsed, ok := ParseTargetToken(tt.token)
		if ok != tt.ok {
			t.Fatalf("ParseTargetToken(%q) ok=%v, want %v", tt.token, ok, tt.ok)
		}
		if !ok {
			continue
		}
		if action != tt.action || parsed != id {
			t.Fatalf("ParseTargetToken(%q) = %s/%s", tt.token, action, parsed)
		}
	}
}
