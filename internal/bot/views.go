package bot

import (
	"context"
	"fmt"
	"strings"

	tele "gopkg.in/telebot.v4"

	tghelpers "github.com/evmeet/meetbot/core/telegram/helpers"
	"github.com/evmeet/meetbot/core/telegram/keyboard"
	"github.com/evmeet/meetbot/internal/flow"
	"github.com/evmeet/meetbot/internal/identity"
)

// navigate dispatches the read-only menu actions. It runs under the chat's
// session lock like every other interaction; only "clear" mutates the
// session.
func (b *Bot) navigate(ctx context.Context, c tele.Context, s *flow.Session, token string) error {
	switch token {
	case "menu":
		return b.sendMenu(c)
	case "show_commands":
		return b.showCommands(c)
	case "settings":
		return tghelpers.SendText(c, "Settings are under development.")
	case "clear":
		s.Reset()
		return tghelpers.SendText(c, "Your history has been cleared and the chat state has been reset.", &tele.SendOptions{
			ReplyMarkup: keyboard.RemoveKeyboard(),
		})
	case "view_profile":
		return b.viewProfile(ctx, c)
	case "view_events":
		return b.viewEvents(ctx, c)
	case "view_teams":
		return b.viewTeams(ctx, c)
	case "view_feedback":
		return b.viewFeedback(ctx, c)
	case "edit_event":
		return b.pickEvent(ctx, c, "edit")
	case "delete_event":
		return b.pickEvent(ctx, c, "delete")
	case "edit_team":
		return b.pickTeam(ctx, c, "edit")
	case "delete_team":
		return b.pickTeam(ctx, c, "delete")
	default:
		return tghelpers.SendText(c, "Unsupported action.")
	}
}

// sendMenu renders the main inline menu, two buttons per row.
func (b *Bot) sendMenu(c tele.Context) error {
	buttons := []keyboard.InlineBtn{
		{Text: "🔍 View Profile", Unique: "view_profile"},
		{Text: "✏️ Edit Profile", Unique: "edit_profile"},
		{Text: "🎉 Create Event", Unique: "create_event"},
		{Text: "📝 View Events", Unique: "view_events"},
		{Text: "🔧 Edit Event", Unique: "edit_event"},
		{Text: "❌ Delete Event", Unique: "delete_event"},
		{Text: "👥 Create Team", Unique: "create_team"},
		{Text: "🔎 View Teams", Unique: "view_teams"},
		{Text: "🛠 Edit Team", Unique: "edit_team"},
		{Text: "🗑 Delete Team", Unique: "delete_team"},
		{Text: "💬 Create Feedback", Unique: "create_feedback"},
		{Text: "🔍 View Feedback", Unique: "view_feedback"},
		{Text: "⚙️ Settings", Unique: "settings"},
		{Text: "📜 Show Commands", Unique: "show_commands"},
		{Text: "🧹 Clear State", Unique: "clear"},
	}
	return tghelpers.SendText(c, "Choose an action:", &tele.SendOptions{
		ReplyMarkup: keyboard.InlineButtonsNPerRow(buttons, 2),
	})
}

func (b *Bot) showCommands(c tele.Context) error {
	var sb strings.Builder
	for _, cmd := range b.registry.ListCommands(true) {
		fmt.Fprintf(&sb, "%s - %s\n", cmd.Text, cmd.Description)
	}
	return tghelpers.SendText(c, sb.String())
}

func (b *Bot) viewProfile(ctx context.Context, c tele.Context) error {
	user, err := b.store.GetUser(ctx, identity.FromTelegramID(c.Sender().ID))
	if err != nil {
		return tghelpers.SendText(c, "Profile not found. Please complete the registration.")
	}
	profile := fmt.Sprintf(
		"👤 Your Profile:\nFirst Name: %s\nLast Name: %s\nAge: %s\nExperience: %s\n",
		orNA(user.FirstName),
		orNA(user.LastName),
		orNAInt(user.Age),
		orNAInt(user.Experience),
	)
	return tghelpers.SendText(c, profile)
}

func (b *Bot) viewEvents(ctx context.Context, c tele.Context) error {
	events, err := b.store.ListEventsByOrganizer(ctx, identity.FromTelegramID(c.Sender().ID))
	if err != nil {
		return tghelpers.SendText(c, "Something went wrong. Please try again later.")
	}
	if len(events) == 0 {
		return tghelpers.SendText(c, "No events found.")
	}
	var sb strings.Builder
	sb.WriteString("Viewing your events:\n\n")
	for i, e := range events {
		fmt.Fprintf(&sb, "%d. %s\n📍 %s\n🗓 %s\n%s\n\n",
			i+1, e.Title, e.Location, e.DateTime.Format(flow.EventDateLayout), e.Description)
	}
	return tghelpers.SendText(c, sb.String())
}

func (b *Bot) viewTeams(ctx context.Context, c tele.Context) error {
	teams, err := b.store.ListTeams(ctx)
	if err != nil {
		return tghelpers.SendText(c, "Something went wrong. Please try again later.")
	}
	if len(teams) == 0 {
		return tghelpers.SendText(c, "No teams found.")
	}
	var sb strings.Builder
	sb.WriteString("Viewing all teams:\n\n")
	for i, t := range teams {
		fmt.Fprintf(&sb, "%d. %s\n%s\n\n", i+1, t.Name, t.Description)
	}
	return tghelpers.SendText(c, sb.String())
}

func (b *Bot) viewFeedback(ctx context.Context, c tele.Context) error {
	entries, err := b.store.ListFeedback(ctx)
	if err != nil {
		return tghelpers.SendText(c, "Something went wrong. Please try again later.")
	}
	if len(entries) == 0 {
		return tghelpers.SendText(c, "No feedback found.")
	}
	var sb strings.Builder
	sb.WriteString("Viewing all feedback:\n\n")
	for i, f := range entries {
		author := "Unknown User"
		if f.Username != nil && *f.Username != "" {
			author = *f.Username
		}
		fmt.Fprintf(&sb, "%d. %s:\n%s\n\n", i+1, author, f.Text)
	}
	return tghelpers.SendText(c, sb.String())
}

// pickEvent shows the caller's own events as inline buttons whose callback
// tokens carry the record id ("edit"/"delete" + id).
func (b *Bot) pickEvent(ctx context.Context, c tele.Context, action string) error {
	events, err := b.store.ListEventsByOrganizer(ctx, identity.FromTelegramID(c.Sender().ID))
	if err != nil {
		return tghelpers.SendText(c, "Something went wrong. Please try again later.")
	}
	if len(events) == 0 {
		return tghelpers.SendText(c, "You don't have any events to "+action+".")
	}
	buttons := make([]keyboard.InlineBtn, 0, len(events))
	for _, e := range events {
		buttons = append(buttons, keyboard.InlineBtn{Text: e.Title, Unique: action, Data: e.ID.String()})
	}
	return tghelpers.SendText(c, "Choose an event to "+action+":", &tele.SendOptions{
		ReplyMarkup: keyboard.InlineButtonsNPerRow(buttons, 2),
	})
}

// pickTeam mirrors pickEvent for the caller's teams.
func (b *Bot) pickTeam(ctx context.Context, c tele.Context, action string) error {
	teams, err := b.store.ListTeamsByCreator(ctx, identity.FromTelegramID(c.Sender().ID))
	if err != nil {
		return tghelpers.SendText(c, "Something went wrong. Please try again later.")
	}
	if len(teams) == 0 {
		return tghelpers.SendText(c, "You don't have any teams to "+action+".")
	}
	buttons := make([]keyboard.InlineBtn, 0, len(teams))
	for _, t := range teams {
		buttons = append(buttons, keyboard.InlineBtn{Text: t.Name, Unique: action, Data: t.ID.String()})
	}
	return tghelpers.SendText(c, "Choose a team to "+action+":", &tele.SendOptions{
		ReplyMarkup: keyboard.InlineButtonsNPerRow(buttons, 2),
	})
}

func orNA(s *string) string {
	if s == nil || *s == "" {
		return "N/A"
	}
	return *s
}

func orNAInt(n *int) string {
	if n == nil {
		return "N/A"
	}
	return fmt.Sprintf("%d", *n)
}
