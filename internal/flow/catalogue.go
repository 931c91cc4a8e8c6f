package flow

import (
	"fmt"
	"regexp"
	"sort"

	"github.com/google/uuid"
)

// EventDateLayout is the accepted format for the event schedule step.
const EventDateLayout = "02.01.2006 15:04"

// targetTokenRe matches edit/delete tokens carrying a record identifier.
var targetTokenRe = regexp.MustCompile(`^(edit|delete)_([0-9a-fA-F-]{36})$`)

// StartAction describes the workflow started by a workflow-start token.
type StartAction struct {
	Workflow WorkflowID
	Mode     Mode
}

// CatalogueConfig supplies the external inputs the catalogue is built from.
type CatalogueConfig struct {
	// Categories resolves a category name to its identifier. The set is
	// finite and snapshotted at build time.
	Categories func(name string) (uuid.UUID, bool)
	// NavTokens lists the menu/navigation tokens owned by the presentation
	// layer; they must not collide with any other token class.
	NavTokens []string
	// DraftSchemas, when set, declares the field set the persistence
	// adapter expects per workflow. Build fails on any mismatch, so a
	// renamed field is caught at startup instead of at commit time.
	DraftSchemas map[WorkflowID][]string
}

// Catalogue is the static description of every workflow. Built once at
// startup; read-only thereafter, safe for concurrent access.
type Catalogue struct {
	workflows   map[WorkflowID]*Workflow
	startTokens map[string]StartAction
	navTokens   map[string]struct{}
}

// NewCatalogue compiles the six workflows and verifies the result.
func NewCatalogue(cfg CatalogueConfig) (*Catalogue, error) {
	if cfg.Categories == nil {
		return nil, fmt.Errorf("catalogue: category resolver is required")
	}

	eventSteps := func() []Step {
		return []Step{
			{ID: "event_title", Field: "title", Prompt: "Let's create an event! Enter the event title:", Validate: NonEmptyString(), Next: "event_location"},
			{ID: "event_location", Field: "location", Prompt: "Enter the event location:", Validate: NonEmptyString(), Next: "event_category"},
			{ID: "event_category", Field: "category_id", Prompt: "Choose the category:", Validate: CategoryRef(cfg.Categories), Next: "event_date"},
			{ID: "event_date", Field: "date_time", Prompt: "Enter the date and time of the event (format: DD.MM.YYYY HH:MM):", Validate: DateTime(EventDateLayout), Next: "event_description"},
			{ID: "event_description", Field: "description", Prompt: "Enter a brief description of the event:", Validate: NonEmptyString(), Next: "event_people"},
			{ID: "event_people", Field: "people_amount", Prompt: "Enter the number of people attending the event:", Validate: BoundedInt(0, 100000), Next: "event_experience"},
			{ID: "event_experience", Field: "experience", Prompt: "Enter the years of experience required for attending the event:", Validate: BoundedInt(0, 100), Next: StepTerminal},
		}
	}

	teamSteps := func() []Step {
		return []Step{
			{ID: "team_name", Field: "name", Prompt: "Let's create a team! Enter the team's name:", Validate: NonEmptyString(), Next: "team_description"},
			{ID: "team_description", Field: "description", Prompt: "Enter a short description of the team:", Validate: NonEmptyString(), Next: "team_logo"},
			{ID: "team_logo", Field: "logo_url", Prompt: "Enter the URL of the team's logo:", Validate: NonEmptyString(), Next: StepTerminal},
		}
	}

	defs := []struct {
		id    WorkflowID
		done  string
		steps []Step
	}{
		{
			id:   WorkflowRegistration,
			done: "Registration completed successfully! You can now use the bot's features.",
			steps: []Step{
				{ID: "reg_first_name", Field: "first_name", Prompt: "Please enter your first name:", Validate: NonEmptyString(), Next: "reg_last_name"},
				{ID: "reg_last_name", Field: "last_name", Prompt: "Enter your last name:", Validate: NonEmptyString(), Next: "reg_age"},
				{ID: "reg_age", Field: "age", Prompt: "Enter your age:", Validate: BoundedInt(1, 150), Next: "reg_experience"},
				{ID: "reg_experience", Field: "experience", Prompt: "Enter your work experience (in years):", Validate: BoundedInt(0, 100), Next: StepTerminal},
			},
		},
		{id: WorkflowEventCreate, done: "Event created successfully!", steps: eventSteps()},
		{id: WorkflowEventEdit, done: "Event updated successfully!", steps: eventSteps()},
		{id: WorkflowTeamCreate, done: "Team created successfully!", steps: teamSteps()},
		{id: WorkflowTeamEdit, done: "Team updated successfully!", steps: teamSteps()},
		{
			id:   WorkflowFeedback,
			done: "Thank you for your feedback!",
			steps: []Step{
				{ID: "feedback_text", Field: "text", Prompt: "Let's create a feedback! Enter the feedback text:", Validate: NonEmptyString(), Next: StepTerminal},
			},
		},
	}

	cat := &Catalogue{
		workflows: make(map[WorkflowID]*Workflow, len(defs)),
		startTokens: map[string]StartAction{
			"create_event":    {Workflow: WorkflowEventCreate, Mode: ModeCreate},
			"create_team":     {Workflow: WorkflowTeamCreate, Mode: ModeCreate},
			"create_feedback": {Workflow: WorkflowFeedback, Mode: ModeCreate},
			"edit_profile":    {Workflow: WorkflowRegistration, Mode: ModeEdit},
			"register":        {Workflow: WorkflowRegistration, Mode: ModeCreate},
		},
		navTokens: make(map[string]struct{}, len(cfg.NavTokens)),
	}
	for _, t := range cfg.NavTokens {
		cat.navTokens[t] = struct{}{}
	}

	for _, def := range defs {
		wf := &Workflow{
			ID:    def.id,
			Entry: def.steps[0].ID,
			Done:  def.done,
			steps: make(map[StepID]Step, len(def.steps)),
		}
		for _, s := range def.steps {
			if _, dup := wf.steps[s.ID]; dup {
				return nil, fmt.Errorf("catalogue: workflow %s: duplicate step %s", def.id, s.ID)
			}
			wf.steps[s.ID] = s
			wf.order = append(wf.order, s.ID)
		}
		cat.workflows[def.id] = wf
	}

	if err := cat.verify(cfg.DraftSchemas); err != nil {
		return nil, err
	}
	return cat, nil
}

// Workflow returns the definition for the given id.
func (c *Catalogue) Workflow(id WorkflowID) (*Workflow, bool) {
	wf, ok := c.workflows[id]
	return wf, ok
}

// StartAction resolves a workflow-start token.
func (c *Catalogue) StartAction(token string) (StartAction, bool) {
	a, ok := c.startTokens[token]
	return a, ok
}

// IsNavToken reports whether token is a menu/navigation token.
func (c *Catalogue) IsNavToken(token string) bool {
	_, ok := c.navTokens[token]
	return ok
}

// ParseTargetToken splits an edit_<id>/delete_<id> token into its action
// and record identifier.
func ParseTargetToken(token string) (action string, id uuid.UUID, ok bool) {
	m := targetTokenRe.FindStringSubmatch(token)
	if m == nil {
		return "", uuid.Nil, false
	}
	parsed, err := uuid.Parse(m[2])
	if err != nil {
		return "", uuid.Nil, false
	}
	return m[1], parsed, true
}

// verify checks the step graphs and the token grammar for consistency.
func (c *Catalogue) verify(schemas map[WorkflowID][]string) error {
	for id, wf := range c.workflows {
		if _, ok := wf.steps[wf.Entry]; !ok {
			return fmt.Errorf("catalogue: workflow %s: entry step %q missing", id, wf.Entry)
		}
		terminalSeen := false
		fields := make(map[string]struct{}, len(wf.steps))
		for _, s := range wf.steps {
			if s.Field == "" || s.Validate == nil {
				return fmt.Errorf("catalogue: workflow %s: step %s is incomplete", id, s.ID)
			}
			if _, dup := fields[s.Field]; dup {
				return fmt.Errorf("catalogue: workflow %s: field %q collected twice", id, s.Field)
			}
			fields[s.Field] = struct{}{}
			targets := []StepID{s.Next}
			for _, t := range s.NextByMode {
				targets = append(targets, t)
			}
			for _, t := range targets {
				if t == StepTerminal {
					terminalSeen = true
					continue
				}
				if _, ok := wf.steps[t]; !ok {
					return fmt.Errorf("catalogue: workflow %s: step %s points to unknown step %q", id, s.ID, t)
				}
			}
		}
		if !terminalSeen {
			return fmt.Errorf("catalogue: workflow %s: no terminal step", id)
		}
		if err := verifyReachable(wf); err != nil {
			return err
		}
	}

	// Token classes must not overlap, and none may collide with the
	// target-token grammar.
	for token := range c.startTokens {
		if _, clash := c.navTokens[token]; clash {
			return fmt.Errorf("catalogue: token %q is both a start and a navigation token", token)
		}
	}
	for token := range c.startTokens {
		if targetTokenRe.MatchString(token) {
			return fmt.Errorf("catalogue: start token %q collides with target token grammar", token)
		}
	}
	for token := range c.navTokens {
		if targetTokenRe.MatchString(token) {
			return fmt.Errorf("catalogue: navigation token %q collides with target token grammar", token)
		}
	}

	if schemas != nil {
		if err := c.verifySchemas(schemas); err != nil {
			return err
		}
	}
	return nil
}

// verifySchemas ensures the collected field set of every workflow matches
// what the persistence adapter will read out of the draft.
func (c *Catalogue) verifySchemas(schemas map[WorkflowID][]string) error {
	for id, wf := range c.workflows {
		want, ok := schemas[id]
		if !ok {
			return fmt.Errorf("catalogue: workflow %s has no draft schema", id)
		}
		got := wf.Fields()
		a := append([]string(nil), want...)
		b := append([]string(nil), got...)
		sort.Strings(a)
		sort.Strings(b)
		if len(a) != len(b) {
			return fmt.Errorf("catalogue: workflow %s collects %v but adapter expects %v", id, got, want)
		}
		for i := range a {
			if a[i] != b[i] {
				return fmt.Errorf("catalogue: workflow %s collects %v but adapter expects %v", id, got, want)
			}
		}
	}
	return nil
}

func verifyReachable(wf *Workflow) error {
	seen := map[StepID]struct{}{}
	frontier := []StepID{wf.Entry}
	for len(frontier) > 0 {
		id := frontier[len(frontier)-1]
		frontier = frontier[:len(frontier)-1]
		if _, done := seen[id]; done {
			continue
		}
		seen[id] = struct{}{}
		s := wf.steps[id]
		if s.Next != StepTerminal {
			frontier = append(frontier, s.Next)
		}
		for _, t := range s.NextByMode {
			if t != StepTerminal {
				frontier = append(frontier, t)
			}
		}
	}
	for id := range wf.steps {
		if _, ok := seen[id]; !ok {
			return fmt.Errorf("catalogue: workflow %s: step %s unreachable from entry", wf.ID, id)
		}
	}
	return nil
}
