// Package logger configures process-wide structured logging on log/slog.
// InitLogger is called once at startup; component loggers are read-only
// after that.
package logger

import (
	"log/slog"
	"os"
	"strings"
	"sync"

	coreconfig "github.com/evmeet/meetbot/core/config"
)

var (
	initOnce sync.Once

	levelVar slog.LevelVar

	// L is the base logger.
	L *slog.Logger

	// DB logs database events.
	DB *slog.Logger
	// MIG logs database migration events.
	MIG *slog.Logger
	// TG logs Telegram transport events.
	TG *slog.Logger
	// TWire logs Telegram wiring steps.
	TWire *slog.Logger
	// Flow logs workflow engine activity.
	Flow *slog.Logger
	// Storage logs persistence adapter activity.
	Storage *slog.Logger
)

func init() {
	// Usable defaults before InitLogger runs, mainly for tests.
	wire(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: &levelVar})))
}

// InitLogger configures the global structured logger. It may be called only once.
func InitLogger(cfg *coreconfig.Config) error {
	initOnce.Do(func() {
		levelVar.Set(selectLevel(cfg))

		opts := &slog.HandlerOptions{Level: &levelVar}
		var handler slog.Handler
		if selectFormat(cfg) == "text" {
			handler = slog.NewTextHandler(os.Stdout, opts)
		} else {
			handler = slog.NewJSONHandler(os.Stdout, opts)
		}

		logger := slog.New(handler)
		slog.SetDefault(logger)
		wire(logger)
	})
	return nil
}

func wire(logger *slog.Logger) {
	L = logger
	DB = logger.With("component", "db")
	MIG = logger.With("component", "db.migrate")
	TG = logger.With("component", "tg")
	TWire = logger.With("component", "tg.wire")
	Flow = logger.With("component", "flow")
	Storage = logger.With("component", "storage")
}

// Component returns a child logger tagged with the given component name.
func Component(name string) *slog.Logger {
	if L == nil {
		return slog.Default()
	}
	return L.With("component", name)
}

func selectLevel(cfg *coreconfig.Config) slog.Level {
	if cfg == nil {
		return slog.LevelInfo
	}
	switch strings.ToLower(strings.TrimSpace(cfg.Logging.Level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}

func selectFormat(cfg *coreconfig.Config) string {
	if cfg == nil {
		return "json"
	}
	raw := strings.ToLower(strings.TrimSpace(cfg.Logging.Format))
	switch raw {
	case "kv", "text", "pretty":
		return "text"
	case "json":
		return "json"
	}
	// Prefer the human-friendly format in debug/dev profiles.
	if strings.EqualFold(cfg.Logging.Profile, "debug") || strings.EqualFold(cfg.Logging.Profile, "dev") {
		return "text"
	}
	return "json"
}
