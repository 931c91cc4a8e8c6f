// Package bot binds the workflow engine and the record store to the
// Telegram transport: commands, callback tokens, keyboards, and views.
package bot

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	tele "gopkg.in/telebot.v4"

	coreconfig "github.com/evmeet/meetbot/core/config"
	tg "github.com/evmeet/meetbot/core/telegram"
	"github.com/evmeet/meetbot/core/telegram/commands"
	"github.com/evmeet/meetbot/core/telegram/middleware"
	"github.com/evmeet/meetbot/internal/flow"
	"github.com/evmeet/meetbot/internal/storage"
)

// navTokens are the menu/navigation tokens owned by this layer. They are
// handed to the catalogue so overlap with other token classes is rejected
// at build time.
var navTokens = []string{
	"menu",
	"show_commands",
	"view_profile",
	"view_events",
	"view_teams",
	"view_feedback",
	"settings",
	"clear",
	"edit_event",
	"delete_event",
	"edit_team",
	"delete_team",
}

// Bot wires the conversational core to telebot handlers.
type Bot struct {
	cfg       *coreconfig.Config
	store     *storage.Store
	sessions  *flow.Store
	engine    *flow.Engine
	router    *flow.Router
	catalogue *flow.Catalogue
	registry  *tg.Registry

	// categoryNames is the build-time snapshot backing the category
	// selection keyboard; resolution itself lives in the validator.
	categoryNames []string
}

// New builds the bot: snapshots categories, compiles the workflow
// catalogue, and constructs the engine over the persistence adapter.
func New(ctx context.Context, cfg *coreconfig.Config, store *storage.Store) (*Bot, error) {
	if err := store.SeedCategories(ctx); err != nil {
		return nil, fmt.Errorf("bot: seed categories: %w", err)
	}
	cats, err := store.ListCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("bot: load categories: %w", err)
	}
	byName := make(map[string]uuid.UUID, len(cats))
	names := make([]string, 0, len(cats))
	for _, c := range cats {
		byName[strings.ToLower(c.Name)] = c.ID
		names = append(names, c.Name)
	}

	catalogue, err := flow.NewCatalogue(flow.CatalogueConfig{
		Categories: func(name string) (uuid.UUID, bool) {
			id, ok := byName[strings.ToLower(strings.TrimSpace(name))]
			return id, ok
		},
		NavTokens:    navTokens,
		DraftSchemas: storage.DraftSchemas(),
	})
	if err != nil {
		return nil, fmt.Errorf("bot: build catalogue: %w", err)
	}

	return &Bot{
		cfg:           cfg,
		store:         store,
		sessions:      flow.NewStore(),
		engine:        flow.NewEngine(catalogue, storage.NewAdapter(store)),
		router:        flow.NewRouter(catalogue),
		catalogue:     catalogue,
		categoryNames: names,
	}, nil
}

// Registry builds the command registry exposed in the Telegram menu. The
// registry is kept on the bot so /show_commands can list it.
func (b *Bot) Registry() *tg.Registry {
	if b.registry != nil {
		return b.registry
	}
	reg := tg.NewRegistry()

	reg.RegisterCommand("/start", commands.Command{
		Handler:     b.onStart,
		Description: "Start the bot and initialize user data",
	})
	reg.RegisterCommand("/menu", commands.Command{
		Handler:     b.tokenCommand("menu"),
		Description: "Open the main menu with available options",
	})
	reg.RegisterCommand("/clear", commands.Command{
		Handler:     b.tokenCommand("clear"),
		Description: "Clear the state or chat dialog of the bot",
	})
	reg.RegisterCommand("/show_commands", commands.Command{
		Handler:     b.tokenCommand("show_commands"),
		Description: "View all available commands",
	})
	reg.RegisterCommand("/settings", commands.Command{
		Handler:     b.tokenCommand("settings"),
		Description: "Base settings of the bot",
	})
	reg.RegisterCommand("/view_profile", commands.Command{
		Handler:     b.tokenCommand("view_profile"),
		Description: "View your profile information",
	})
	reg.RegisterCommand("/edit_profile", commands.Command{
		Handler:     b.tokenCommand("edit_profile"),
		Description: "Edit your profile information",
	})
	reg.RegisterCommand("/create_event", commands.Command{
		Handler:     b.tokenCommand("create_event"),
		Description: "Create a new event",
	})
	reg.RegisterCommand("/view_events", commands.Command{
		Handler:     b.tokenCommand("view_events"),
		Description: "View your created events",
	})
	reg.RegisterCommand("/edit_event", commands.Command{
		Handler:     b.tokenCommand("edit_event"),
		Description: "Edit an existing event",
	})
	reg.RegisterCommand("/delete_event", commands.Command{
		Handler:     b.tokenCommand("delete_event"),
		Description: "Delete an event",
	})
	reg.RegisterCommand("/create_team", commands.Command{
		Handler:     b.tokenCommand("create_team"),
		Description: "Create a new team",
	})
	reg.RegisterCommand("/view_teams", commands.Command{
		Handler:     b.tokenCommand("view_teams"),
		Description: "View your teams",
	})
	reg.RegisterCommand("/edit_team", commands.Command{
		Handler:     b.tokenCommand("edit_team"),
		Description: "Edit a team",
	})
	reg.RegisterCommand("/delete_team", commands.Command{
		Handler:     b.tokenCommand("delete_team"),
		Description: "Delete a team",
	})
	reg.RegisterCommand("/create_feedback", commands.Command{
		Handler:     b.tokenCommand("create_feedback"),
		Description: "Create feedback for the bot",
	})
	reg.RegisterCommand("/view_feedback", commands.Command{
		Handler:     b.tokenCommand("view_feedback"),
		Description: "View your feedback and other users",
	})

	b.registry = reg
	return reg
}

// Routes binds every registered command plus the text and callback
// endpoints, all wrapped with recover and request logging.
func (b *Bot) Routes() []tg.Route {
	wrap := func(h tele.HandlerFunc) tele.HandlerFunc {
		return middleware.RecoverMiddleware(middleware.LoggerMiddleware(h))
	}
	routes := []tg.Route{
		{Endpoint: tele.OnText, Handler: wrap(b.onText)},
		{Endpoint: tele.OnCallback, Handler: wrap(b.onCallback)},
	}
	for name, cmd := range b.Registry().Commands() {
		routes = append(routes, tg.Route{Endpoint: name, Handler: wrap(cmd.Handler)})
	}
	return routes
}

// tokenCommand adapts a slash command to the same decision pipeline as the
// matching inline button.
func (b *Bot) tokenCommand(token string) tele.HandlerFunc {
	return func(c tele.Context) error {
		return b.handleInteraction(c, flow.ButtonPress(token))
	}
}
