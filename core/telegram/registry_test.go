package telegram

import (
	"testing"

	tele "gopkg.in/telebot.v4"

	"github.com/evmeet/meetbot/core/telegram/commands"
)

func noop(tele.Context) error { return nil }

func TestRegisterCommandValidation(t *testing.T) {
	reg := NewRegistry()

	reg.RegisterCommand("/menu", commands.Command{Handler: noop, Description: "Open the menu"})
	reg.RegisterCommand("menu", commands.Command{Handler: noop, Description: "no slash"})
	reg.RegisterCommand("/menu", commands.Command{Handler: noop, Description: "duplicate"})
	reg.RegisterCommand("/nodesc", commands.Command{Handler: noop})
	reg.RegisterCommand("/nohandler", commands.Command{Description: "missing handler"})

	if got := len(reg.Commands()); got != 1 {
		t.Fatalf("registered = %d, want 1", got)
	}
}

func TestListCommandsSortedAndFiltered(t *testing.T) {
	reg := NewRegistry()
	reg.RegisterCommand("/start", commands.Command{Handler: noop, Description: "start"})
	reg.RegisterCommand("/clear", commands.Command{Handler: noop, Description: "clear"})
	reg.RegisterCommand("/debug", commands.Command{Handler: noop, Description: "debug", Hidden: true})

	list := reg.ListCommands(true)
	if len(list) != 2 {
		t.Fatalf("visible = %d, want 2", len(list))
	}
	if list[0].Text != "/clear" || list[1].Text != "/start" {
		t.Fatalf("order = %v", list)
	}
	if all := reg.ListCommands(false); len(all) != 3 {
		t.Fatalf("all = %d, want 3", len(all))
	}
}

func TestLookupCommandAliases(t *testing.T) {
	reg := NewRegistry()
	reg.RegisterCommand("/show_commands", commands.Command{
		Handler:     noop,
		Description: "list commands",
		Aliases:     []string{"help"},
	})

	key, _, ok := reg.LookupCommand("help")
	if !ok || key != "/show_commands" {
		t.Fatalf("alias lookup: key=%q ok=%v", key, ok)
	}
	if _, _, ok := reg.LookupCommand("/missing"); ok {
		t.Fatal("unexpected match for unknown command")
	}
}
