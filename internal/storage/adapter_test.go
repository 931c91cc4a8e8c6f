package storage

import (
	"testing"

	"github.com/google/uuid"

	"github.com/evmeet/meetbot/internal/flow"
)

// The catalogue rejects any drift between the fields its steps collect and
// the fields the adapter reads, so building it against DraftSchemas is the
// whole check.
func TestDraftSchemasMatchCatalogue(t *testing.T) {
	_, err := flow.NewCatalogue(flow.CatalogueConfig{
		Categories:   func(string) (uuid.UUID, bool) { return uuid.Nil, false },
		DraftSchemas: DraftSchemas(),
	})
	if err != nil {
		t.Fatalf("catalogue rejects adapter schemas: %v", err)
	}
}
