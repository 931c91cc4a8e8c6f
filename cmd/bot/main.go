package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	tele "gopkg.in/telebot.v4"

	coreconfig "github.com/evmeet/meetbot/core/config"
	"github.com/evmeet/meetbot/core/database"
	"github.com/evmeet/meetbot/core/logger"
	coretelegram "github.com/evmeet/meetbot/core/telegram"
	"github.com/evmeet/meetbot/core/telegram/middleware"
	"github.com/evmeet/meetbot/internal/bot"
	"github.com/evmeet/meetbot/internal/storage"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}

func run() error {
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config/config.yaml"
	}
	log.Printf("loading config: %s", cfgPath)

	cfg, err := coreconfig.Load(cfgPath)
	if err != nil {
		return err
	}
	if err := logger.InitLogger(cfg); err != nil {
		return err
	}

	if err := database.RunMigrations(cfg.Database); err != nil {
		return err
	}
	db, err := database.Connect(cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	app, err := bot.New(ctx, cfg, storage.NewStore(db))
	if err != nil {
		return err
	}

	opts := coretelegram.RunOptions{
		Config:   cfg,
		Registry: app.Registry(),
		Routes:   app.Routes(),
	}
	if cfg.RateLimit.IntervalMS > 0 {
		opts.Middlewares = append(opts.Middlewares, coretelegram.Middleware{
			Name: "rate_limit",
			Use: middleware.RateLimitMiddleware(middleware.RateLimitOptions{
				Interval: time.Duration(cfg.RateLimit.IntervalMS) * time.Millisecond,
				OnLimited: func(c tele.Context) error {
					return c.Send("Too many messages, slow down a little.")
				},
			}),
		})
	}

	startedAt := time.Now()
	opts.OnStart = func(_ context.Context, _ coretelegram.Runtime) error {
		logger.L.With("component", "app").Info("app ready",
			slog.String("event", "ready"),
			slog.Duration("startup_duration", logger.RoundMS(time.Since(startedAt))),
		)
		return nil
	}
	opts.OnStop = func(_ context.Context, _ coretelegram.Runtime) error {
		logger.L.With("component", "app").Info("shutting down...",
			slog.String("event", "shutdown"),
		)
		return nil
	}

	return coretelegram.RunTelegram(ctx, opts)
}
