// Package config loads and validates the process-wide configuration.
// It is constructed once at startup and treated as read-only afterwards.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// TelegramConfig holds Telegram bot transport settings.
type TelegramConfig struct {
	Token   string `yaml:"token" envconfig:"BOT_TOKEN"`
	RunMode string `yaml:"run_mode" envconfig:"TELEGRAM_RUN_MODE"`
	// LongPollTimeoutSeconds defines long polling timeout; 0 -> default
	LongPollTimeoutSeconds int `yaml:"longpoll_timeout_seconds" envconfig:"TELEGRAM_LONGPOLL_TIMEOUT_SECONDS"`
}

// WebhookConfig specifies webhook settings.
type WebhookConfig struct {
	URL    string `yaml:"url" envconfig:"WEBHOOK_URL"`
	Listen string `yaml:"listen" envconfig:"WEBHOOK_LISTEN"`
	Port   int    `yaml:"port" envconfig:"WEBHOOK_PORT"`
}

// DatabaseConfig holds Postgres connection settings.
type DatabaseConfig struct {
	Host           string `yaml:"host" envconfig:"DB_HOST"`
	Port           string `yaml:"port" envconfig:"DB_PORT"`
	User           string `yaml:"user" envconfig:"DB_USER"`
	Password       string `yaml:"password" envconfig:"DB_PASSWORD"`
	Name           string `yaml:"name" envconfig:"DB_NAME"`
	SSLMode        string `yaml:"sslmode" envconfig:"DB_SSLMODE"`
	MaxConnections int    `yaml:"max_connections" envconfig:"DB_MAX_CONNECTIONS"`
}

// LoggingConfig defines logging related configuration.
type LoggingConfig struct {
	Level  string `yaml:"level" envconfig:"LOG_LEVEL"`
	Format string `yaml:"format" envconfig:"LOG_FORMAT"`
	// Profile indicates environment profile such as "debug" or "prod".
	Profile string `yaml:"profile" envconfig:"LOG_PROFILE"`
}

// RateLimitConfig holds settings for the per-user rate limit middleware.
type RateLimitConfig struct {
	IntervalMS int `yaml:"interval_ms" envconfig:"RATE_LIMIT_INTERVAL_MS"`
}

const (
	// RunModeWebhook selects webhook mode for Telegram updates.
	RunModeWebhook = "webhook"
	// RunModeLongpoll selects long-polling mode for Telegram updates.
	RunModeLongpoll = "longpoll"
)

// Config aggregates configuration for the whole bot.
type Config struct {
	Telegram  TelegramConfig  `yaml:"telegram"`
	Webhook   WebhookConfig   `yaml:"webhook"`
	Database  DatabaseConfig  `yaml:"database"`
	Logging   LoggingConfig   `yaml:"logging"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
}

// Load reads configuration from a YAML file, a local .env file if present,
// and environment variables, in that order of precedence.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	var cfg Config

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML config: %w", err)
	}
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process env: %w", err)
	}

	if err := Normalize(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Normalize validates required configuration fields and adjusts defaults.
func Normalize(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("nil config")
	}

	if cfg.Telegram.Token == "" {
		return fmt.Errorf("telegram token is required")
	}

	rm := strings.ToLower(strings.TrimSpace(cfg.Telegram.RunMode))
	if rm == "" {
		rm = RunModeLongpoll
	}
	if rm == "polling" { // accept alias
		rm = RunModeLongpoll
	}
	switch rm {
	case RunModeWebhook:
		if strings.TrimSpace(cfg.Webhook.URL) == "" {
			return fmt.Errorf("webhook.url is required when telegram.run_mode is 'webhook'")
		}
		if strings.TrimSpace(cfg.Webhook.Listen) == "" {
			return fmt.Errorf("webhook.listen is required when telegram.run_mode is 'webhook'")
		}
		if cfg.Webhook.Port <= 0 {
			return fmt.Errorf("webhook.port must be > 0 when telegram.run_mode is 'webhook'")
		}
	case RunModeLongpoll:
		if cfg.Telegram.LongPollTimeoutSeconds < 0 {
			return fmt.Errorf("telegram.longpoll_timeout_seconds must be >= 0")
		}
	default:
		return fmt.Errorf("invalid telegram.run_mode %q; allowed: webhook, longpoll", cfg.Telegram.RunMode)
	}
	cfg.Telegram.RunMode = rm

	if cfg.Database.Host == "" {
		return fmt.Errorf("database.host is required")
	}
	if cfg.Database.Port == "" {
		cfg.Database.Port = "5432"
	}
	if cfg.Database.Name == "" {
		return fmt.Errorf("database.name is required")
	}
	if cfg.Database.SSLMode == "" {
		cfg.Database.SSLMode = "disable"
	}
	if cfg.Database.MaxConnections <= 0 {
		cfg.Database.MaxConnections = 10
	}
	if cfg.RateLimit.IntervalMS < 0 {
		return fmt.Errorf("rate_limit.interval_ms must be >= 0")
	}
	return nil
}
