package middleware

import (
	"log/slog"
	"sync"
	"time"

	tele "gopkg.in/telebot.v4"

	"github.com/evmeet/meetbot/core/logger"
)

// RateLimitOptions configures behaviour of the rate limit middleware.
type RateLimitOptions struct {
	Interval  time.Duration
	OnLimited tele.HandlerFunc
}

// RateLimitMiddleware returns a middleware that enforces a minimum interval
// between messages from the same user. Callback presses bypass the limit so
// keyboard navigation stays responsive.
func RateLimitMiddleware(opts RateLimitOptions) tele.MiddlewareFunc {
	var (
		userLastSeen   = make(map[int64]time.Time)
		userLastSeenMu sync.Mutex
	)
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			user := c.Sender()
			if user == nil || opts.Interval <= 0 {
				return next(c)
			}
			if c.Update().Callback != nil {
				return next(c)
			}

			now := time.Now()

			userLastSeenMu.Lock()
			if last, ok := userLastSeen[user.ID]; ok && now.Sub(last) < opts.Interval {
				userLastSeenMu.Unlock()
				logger.TG.Warn("rate limit",
					slog.String("event", "tg.rate_limit"),
					slog.Int64("user_id", user.ID),
				)
				if opts.OnLimited != nil {
					return opts.OnLimited(c)
				}
				return nil
			}
			userLastSeen[user.ID] = now
			userLastSeenMu.Unlock()

			return next(c)
		}
	}
}
