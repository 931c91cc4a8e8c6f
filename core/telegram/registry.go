// Package telegram wires the bot transport: poller construction, HTTP
// client tuning, the command registry, and the runtime loop.
package telegram

import (
	"context"
	"log/slog"
	"sort"
	"strings"

	tele "gopkg.in/telebot.v4"

	"github.com/evmeet/meetbot/core/logger"
	"github.com/evmeet/meetbot/core/telegram/commands"
)

// Registry holds the bot's slash commands. Populated once during wiring,
// read-only afterwards.
type Registry struct {
	commands map[string]commands.Command
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		commands: make(map[string]commands.Command),
	}
}

// RegisterCommand adds a command with metadata. Invalid or duplicate
// registrations are logged and skipped.
func (r *Registry) RegisterCommand(name string, cmd commands.Command) {
	if r == nil || name == "" || cmd.Handler == nil || cmd.Description == "" {
		logger.TWire.LogAttrs(context.Background(), slog.LevelWarn, "register.command.skip",
			slog.String("name", name),
			slog.String("reason", "invalid"),
		)
		return
	}
	if name[0] != '/' {
		logger.TWire.LogAttrs(context.Background(), slog.LevelWarn, "register.command.skip",
			slog.String("name", name),
			slog.String("reason", "no_slash_prefix"),
		)
		return
	}
	if _, exists := r.commands[name]; exists {
		logger.TWire.LogAttrs(context.Background(), slog.LevelWarn, "register.command.duplicate",
			slog.String("name", name),
		)
		return
	}
	r.commands[name] = cmd
}

// ListCommands returns a slice of tele.Command, optionally filtering out hidden commands.
func (r *Registry) ListCommands(visibleOnly bool) []tele.Command {
	var list []tele.Command
	for cmd, meta := range r.commands {
		if visibleOnly && meta.Hidden {
			continue
		}
		list = append(list, tele.Command{Text: cmd, Description: meta.Description})
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Text < list[j].Text })
	return list
}

// LookupCommand searches for a command by name or its aliases and returns the canonical key with metadata if found.
func (r *Registry) LookupCommand(name string) (string, commands.Command, bool) {
	if !strings.HasPrefix(name, "/") {
		name = "/" + name
	}
	if cmd, ok := r.commands[name]; ok {
		return name, cmd, true
	}
	for key, cmd := range r.commands {
		for _, alias := range cmd.Aliases {
			if alias == name || "/"+alias == name {
				return key, cmd, true
			}
		}
	}
	return "", commands.Command{}, false
}

// Commands returns all registered commands.
func (r *Registry) Commands() map[string]commands.Command {
	return r.commands
}

// InitBotCommands sets the Telegram bot commands shown in the command menu.
func InitBotCommands(bot *tele.Bot, reg *Registry) {
	list := reg.ListCommands(true)
	if err := bot.SetCommands(list); err != nil {
		logger.TWire.LogAttrs(context.Background(), slog.LevelError, "register.commands.set_failed",
			slog.String("err", err.Error()),
		)
	}
}
