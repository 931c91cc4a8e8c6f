package logger

import (
	"context"
	"fmt"
	"log/slog"
)

// contextKey is a private type to avoid collisions in context.
type contextKey string

const (
	ctxRID      contextKey = "rid"
	ctxUpdateID contextKey = "update_id"
	ctxUserID   contextKey = "user_id"
	ctxChatID   contextKey = "chat_id"
)

// BuildRID derives a request correlation id from update metadata.
func BuildRID(updateID int, chatID, userID int64) string {
	return fmt.Sprintf("%d:%d:%d", updateID, chatID, userID)
}

// WithRID attaches a request correlation id to the context.
func WithRID(ctx context.Context, rid string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxRID, rid)
}

// RIDFrom extracts the rid from context if present.
func RIDFrom(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxRID).(string); ok {
		return v
	}
	return ""
}

// WithUpdateMeta attaches common update identifiers to context.
func WithUpdateMeta(ctx context.Context, updateID int, userID, chatID int64) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = context.WithValue(ctx, ctxUpdateID, updateID)
	ctx = context.WithValue(ctx, ctxUserID, userID)
	ctx = context.WithValue(ctx, ctxChatID, chatID)
	return ctx
}

// UserIDFrom extracts the Telegram user id from context.
func UserIDFrom(ctx context.Context) int64 {
	if ctx == nil {
		return 0
	}
	if v, ok := ctx.Value(ctxUserID).(int64); ok {
		return v
	}
	return 0
}

// ChatIDFrom extracts the chat id from context.
func ChatIDFrom(ctx context.Context) int64 {
	if ctx == nil {
		return 0
	}
	if v, ok := ctx.Value(ctxChatID).(int64); ok {
		return v
	}
	return 0
}

// LogEvent emits a log record enriched with correlation metadata from ctx.
func LogEvent(ctx context.Context, log *slog.Logger, level slog.Level, msg string, attrs ...slog.Attr) {
	if log == nil {
		log = L
	}
	if rid := RIDFrom(ctx); rid != "" {
		attrs = append(attrs, slog.String("rid", rid))
	}
	log.LogAttrs(ctx, level, msg, attrs...)
}
