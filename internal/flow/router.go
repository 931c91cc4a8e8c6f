package flow

import (
	"github.com/google/uuid"
)

// InteractionKind distinguishes the two inbound interaction shapes.
type InteractionKind int

const (
	// InteractionText is a free-text message.
	InteractionText InteractionKind = iota
	// InteractionButton is a structured button press carrying a token.
	InteractionButton
)

// Interaction is one inbound user action delivered by the transport.
type Interaction struct {
	Kind  InteractionKind
	Text  string
	Token string
}

// TextInput wraps a free-text message.
func TextInput(text string) Interaction {
	return Interaction{Kind: InteractionText, Text: text}
}

// ButtonPress wraps a button-press token.
func ButtonPress(token string) Interaction {
	return Interaction{Kind: InteractionButton, Token: token}
}

// DecisionKind tags what the caller should do with an interaction.
type DecisionKind int

const (
	// DecisionStart begins the named workflow, discarding any in-flight
	// session. A mid-workflow start is a supported interruption.
	DecisionStart DecisionKind = iota
	// DecisionFeed feeds raw text into the active session's current step.
	DecisionFeed
	// DecisionNavigate performs a read-only action; session state untouched.
	DecisionNavigate
	// DecisionEditTarget enters edit mode for the identified record after
	// an ownership check.
	DecisionEditTarget
	// DecisionDeleteTarget deletes the identified record directly.
	DecisionDeleteTarget
	// DecisionRejectIdle rejects free text while no field is active.
	DecisionRejectIdle
	// DecisionUnknownToken reports an unrecognized button token.
	DecisionUnknownToken
)

// Decision is the router's resolution of one interaction against session state.
type Decision struct {
	Kind     DecisionKind
	Workflow WorkflowID
	Mode     Mode
	Target   uuid.UUID
	Token    string
	Input    string
}

// Router maps inbound interactions to decisions. It is stateless; callers
// pass the chat's session (held under the store's per-chat lock) so routing
// and application form one serialized step.
type Router struct {
	catalogue *Catalogue
}

// NewRouter constructs a router over the compiled catalogue.
func NewRouter(catalogue *Catalogue) *Router {
	return &Router{catalogue: catalogue}
}

// Route resolves one interaction. Token classes are disjoint (verified at
// catalogue build time); exact matches win over the target-token pattern.
func (r *Router) Route(s *Session, in Interaction) Decision {
	if in.Kind == InteractionText {
		if s.Idle() {
			return Decision{Kind: DecisionRejectIdle}
		}
		return Decision{Kind: DecisionFeed, Input: in.Text}
	}

	token := in.Token
	if action, ok := r.catalogue.StartAction(token); ok {
		return Decision{
			Kind:     DecisionStart,
			Workflow: action.Workflow,
			Mode:     action.Mode,
			Token:    token,
		}
	}
	if r.catalogue.IsNavToken(token) {
		return Decision{Kind: DecisionNavigate, Token: token}
	}
	if action, id, ok := ParseTargetToken(token); ok {
		kind := DecisionEditTarget
		if action == "delete" {
			kind = DecisionDeleteTarget
		}
		return Decision{Kind: kind, Target: id, Token: token}
	}
	return Decision{Kind: DecisionUnknownToken, Token: token}
}
