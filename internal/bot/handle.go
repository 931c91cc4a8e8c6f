package bot

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	tele "gopkg.in/telebot.v4"

	"github.com/evmeet/meetbot/core/logger"
	tghelpers "github.com/evmeet/meetbot/core/telegram/helpers"
	"github.com/evmeet/meetbot/core/telegram/keyboard"
	"github.com/evmeet/meetbot/internal/flow"
	"github.com/evmeet/meetbot/internal/identity"
	"github.com/evmeet/meetbot/internal/storage"
)

func (b *Bot) onText(c tele.Context) error {
	return b.handleInteraction(c, flow.TextInput(c.Text()))
}

func (b *Bot) onCallback(c tele.Context) error {
	_ = c.Respond()
	key := tghelpers.CallbackKey(c)
	token := key
	if payload := tghelpers.CallbackPayload(c); payload != "" {
		// Inline buttons carry record ids as payload; the wire token is
		// the documented {action}_{record_id} form.
		token = key + "_" + payload
	}
	return b.handleInteraction(c, flow.ButtonPress(token))
}

// onStart implements /start: returning users with a complete profile get
// the menu, everyone else is walked through registration.
func (b *Bot) onStart(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	actor := identity.FromTelegramID(c.Sender().ID)

	user, err := b.store.EnsureUser(ctx, actor, senderUsername(c))
	if err != nil {
		logger.TG.Error("start failed",
			slog.String("event", "start"),
			slog.String("err", err.Error()),
		)
		return tghelpers.SendText(c, "Something went wrong. Please try again later.")
	}
	if user.Complete() {
		return b.sendMenu(c)
	}
	if err := tghelpers.SendText(c, "Welcome! Let's start your registration."); err != nil {
		return err
	}
	return b.handleInteraction(c, flow.ButtonPress("register"))
}

// handleInteraction routes and applies one interaction under the chat's
// session lock, so two rapid messages from the same chat can never observe
// the same pre-transition session.
func (b *Bot) handleInteraction(c tele.Context, in flow.Interaction) error {
	ctx := tghelpers.BuildContext(c)
	chatID := c.Sender().ID
	actor := identity.FromTelegramID(chatID)

	return b.sessions.Do(chatID, func(s *flow.Session) error {
		d := b.router.Route(s, in)
		switch d.Kind {
		case flow.DecisionStart:
			if _, err := b.store.EnsureUser(ctx, actor, senderUsername(c)); err != nil {
				return tghelpers.SendText(c, "Something went wrong. Please try again later.")
			}
			target := uuid.Nil
			if d.Mode == flow.ModeEdit {
				// The only token-started edit flow is the caller's own
				// profile; event/team edits come through target tokens.
				target = actor
			}
			eff, err := b.engine.Begin(s, d.Workflow, d.Mode, actor, target)
			if err != nil {
				return err
			}
			return b.renderEffect(c, eff)

		case flow.DecisionFeed:
			eff, err := b.engine.Advance(ctx, s, d.Input)
			if err != nil {
				return err
			}
			return b.renderEffect(c, eff)

		case flow.DecisionNavigate:
			return b.navigate(ctx, c, s, d.Token)

		case flow.DecisionEditTarget:
			return b.startEdit(ctx, c, s, actor, d)

		case flow.DecisionDeleteTarget:
			return b.deleteTarget(ctx, c, s, actor, d)

		case flow.DecisionRejectIdle:
			return tghelpers.SendText(c, "There is no active field right now. Use /menu to start an action.")

		default:
			logger.TG.Warn("unknown token",
				slog.String("event", "route"),
				slog.String("token", logger.SanitizeLimit(d.Token, 128)),
			)
			return tghelpers.SendText(c, "Unsupported action.")
		}
	})
}

// startEdit verifies ownership of the target record and begins the matching
// edit workflow. A non-owner is denied before any session or field changes.
func (b *Bot) startEdit(ctx context.Context, c tele.Context, s *flow.Session, actor uuid.UUID, d flow.Decision) error {
	kind, owner, err := b.store.ResolveRecord(ctx, d.Target)
	if errors.Is(err, storage.ErrNotFound) {
		return tghelpers.SendText(c, "This record no longer exists.")
	}
	if err != nil {
		return tghelpers.SendText(c, "Something went wrong. Please try again later.")
	}
	if owner != actor {
		return tghelpers.SendText(c, "You are not allowed to modify this record.")
	}

	var wf flow.WorkflowID
	switch kind {
	case storage.RecordEvent:
		wf = flow.WorkflowEventEdit
	case storage.RecordTeam:
		wf = flow.WorkflowTeamEdit
	default:
		return tghelpers.SendText(c, "This record cannot be edited.")
	}

	eff, err := b.engine.Begin(s, wf, flow.ModeEdit, actor, d.Target)
	if err != nil {
		return err
	}
	return b.renderEffect(c, eff)
}

// deleteTarget removes the record after an ownership check and clears any
// in-flight session for the chat.
func (b *Bot) deleteTarget(ctx context.Context, c tele.Context, s *flow.Session, actor uuid.UUID, d flow.Decision) error {
	kind, owner, err := b.store.ResolveRecord(ctx, d.Target)
	if errors.Is(err, storage.ErrNotFound) {
		return tghelpers.SendText(c, "This record no longer exists.")
	}
	if err != nil {
		return tghelpers.SendText(c, "Something went wrong. Please try again later.")
	}
	if owner != actor {
		return tghelpers.SendText(c, "You are not allowed to delete this record.")
	}

	switch kind {
	case storage.RecordEvent:
		err = b.store.DeleteEvent(ctx, d.Target, actor)
	case storage.RecordTeam:
		err = b.store.DeleteTeam(ctx, d.Target, actor)
	default:
		return tghelpers.SendText(c, "This record cannot be deleted.")
	}
	if errors.Is(err, storage.ErrNotFound) {
		return tghelpers.SendText(c, "This record no longer exists.")
	}
	if err != nil {
		return tghelpers.SendText(c, "Something went wrong. Please try again later.")
	}

	s.Reset()
	if kind == storage.RecordTeam {
		return tghelpers.SendText(c, "Team deleted successfully!")
	}
	return tghelpers.SendText(c, "Event deleted successfully!")
}

// renderEffect turns an engine effect into a reply, attaching the category
// keyboard when the dialog waits on the category step.
func (b *Bot) renderEffect(c tele.Context, eff flow.Effect) error {
	switch eff.Kind {
	case flow.EffectPrompt, flow.EffectRetry:
		if eff.Step == "event_category" {
			rows := keyboard.ChunkStrings(b.categoryNames, 2)
			return tghelpers.SendText(c, eff.Text, &tele.SendOptions{
				ReplyMarkup: keyboard.ReplyButtons(rows...),
			})
		}
		return tghelpers.SendText(c, eff.Text)
	case flow.EffectCommit:
		return tghelpers.SendText(c, eff.Text, &tele.SendOptions{
			ReplyMarkup: keyboard.RemoveKeyboard(),
		})
	default:
		return tghelpers.SendText(c, eff.Text, &tele.SendOptions{
			ReplyMarkup: keyboard.RemoveKeyboard(),
		})
	}
}

func senderUsername(c tele.Context) string {
	if u := c.Sender(); u != nil {
		return u.Username
	}
	return ""
}
