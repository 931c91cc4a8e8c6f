// Package helpers provides small conveniences shared by bot handlers:
// context propagation, reply shortcuts, and callback payload parsing.
package helpers

import (
	"context"
	"strings"

	tele "gopkg.in/telebot.v4"

	"github.com/evmeet/meetbot/core/logger"
)

const contextKey = "logger_ctx"

// StoreContext attaches reusable context to tele.Context for downstream helpers.
func StoreContext(c tele.Context, ctx context.Context) {
	if c == nil || ctx == nil {
		return
	}
	c.Set(contextKey, ctx)
}

// ContextFrom returns the context previously stored by middleware, if any.
func ContextFrom(c tele.Context) (context.Context, bool) {
	if c == nil {
		return nil, false
	}
	if v := c.Get(contextKey); v != nil {
		if ctx, ok := v.(context.Context); ok {
			return ctx, true
		}
	}
	return nil, false
}

// BuildContext constructs a context.Context from tele.Context, enriching it
// with the correlation id and update/user/chat metadata.
func BuildContext(c tele.Context) context.Context {
	if cached, ok := ContextFrom(c); ok {
		return cached
	}

	upd := c.Update()
	user := c.Sender()
	chat := c.Chat()

	var chatID, userID int64
	if chat != nil {
		chatID = chat.ID
	}
	if user != nil {
		userID = user.ID
	}

	rid, _ := c.Get("rid").(string)
	if rid == "" {
		rid = logger.BuildRID(upd.ID, chatID, userID)
	}

	ctx := context.Background()
	ctx = logger.WithRID(ctx, rid)
	ctx = logger.WithUpdateMeta(ctx, upd.ID, userID, chatID)
	StoreContext(c, ctx)
	return ctx
}

// ParseCallbackData parses Telebot's \f<unique>|<payload> encoding.
// Returns unique and payload (may be empty).
func ParseCallbackData(cb *tele.Callback) (string, string) {
	if cb == nil {
		return "", ""
	}
	raw := strings.TrimPrefix(cb.Data, "\f")
	parts := strings.SplitN(raw, "|", 2)
	unique := strings.TrimSpace(parts[0])
	payload := ""
	if len(parts) == 2 {
		payload = parts[1]
	}
	return unique, payload
}

// CallbackKey returns cb.Unique if present; otherwise parses from Data.
func CallbackKey(c tele.Context) string {
	cb := c.Callback()
	if cb == nil {
		return ""
	}
	if cb.Unique != "" {
		return cb.Unique
	}
	k, _ := ParseCallbackData(cb)
	return k
}

// CallbackPayload returns payload (after '|') parsed from Data.
func CallbackPayload(c tele.Context) string {
	cb := c.Callback()
	if cb == nil {
		return ""
	}
	// prefer cb.Data since cb.Unique may be empty in generic OnCallback
	_, payload := ParseCallbackData(cb)
	return payload
}
