package middleware

import (
	"log/slog"
	"sync"
	"time"

	tele "gopkg.in/telebot.v4"

	"github.com/evmeet/meetbot/core/logger"
	tghelpers "github.com/evmeet/meetbot/core/telegram/helpers"
)

// recentUpdates keeps a short-lived set of processed update IDs to avoid
// double logging when the middleware is applied on multiple branches.
var (
	recentMu     sync.Mutex
	recentUpdate = make(map[int]time.Time)
	keepFor      = 10 * time.Second
)

func alreadyLogged(updateID int) bool {
	now := time.Now()
	recentMu.Lock()
	defer recentMu.Unlock()
	// GC old entries
	for id, ts := range recentUpdate {
		if now.Sub(ts) > keepFor {
			delete(recentUpdate, id)
		}
	}
	if _, ok := recentUpdate[updateID]; ok {
		return true
	}
	recentUpdate[updateID] = now
	return false
}

// LoggerMiddleware logs a single receipt line per update and stores the
// correlation context for downstream handlers.
func LoggerMiddleware(next tele.HandlerFunc) tele.HandlerFunc {
	return func(c tele.Context) error {
		upd := c.Update()
		user := c.Sender()
		chat := c.Chat()

		chatID, userID := int64(0), int64(0)
		if chat != nil {
			chatID = chat.ID
		}
		if user != nil {
			userID = user.ID
		}
		rid := logger.BuildRID(upd.ID, chatID, userID)
		c.Set("rid", rid)

		if !alreadyLogged(upd.ID) {
			attrs := []slog.Attr{
				slog.String("rid", rid),
				slog.Int("update_id", upd.ID),
			}
			if chatID != 0 {
				attrs = append(attrs, slog.Int64("chat_id", chatID))
			}
			if userID != 0 {
				attrs = append(attrs, slog.Int64("user_id", userID))
				if user.Username != "" {
					attrs = append(attrs, slog.String("username", logger.SanitizeLimit(user.Username, 64)))
				}
			}
			switch {
			case upd.Callback != nil:
				if key := tghelpers.CallbackKey(c); key != "" {
					attrs = append(attrs, slog.String("cb_key", logger.SanitizeLimit(key, 128)))
				}
			case upd.Message != nil:
				if t := c.Text(); t != "" {
					attrs = append(attrs, slog.String("payload", logger.SanitizeLimit(t, 256)))
				}
			}
			logger.TG.LogAttrs(tghelpers.BuildContext(c), slog.LevelDebug, "update.received", attrs...)
		}

		return next(c)
	}
}
