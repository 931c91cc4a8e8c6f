package config

import "testing"

func validConfig() *Config {
	return &Config{
		Telegram: TelegramConfig{Token: "123:abc"},
		Database: DatabaseConfig{Host: "localhost", Name: "meetbot"},
	}
}

func TestNormalizeDefaults(t *testing.T) {
	cfg := validConfig()
	if err := Normalize(cfg); err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if cfg.Telegram.RunMode != RunModeLongpoll {
		t.Fatalf("run_mode = %q", cfg.Telegram.RunMode)
	}
	if cfg.Database.Port != "5432" || cfg.Database.SSLMode != "disable" {
		t.Fatalf("database defaults: %+v", cfg.Database)
	}
	if cfg.Database.MaxConnections != 10 {
		t.Fatalf("max_connections = %d", cfg.Database.MaxConnections)
	}
}

func TestNormalizePollingAlias(t *testing.T) {
	cfg := validConfig()
	cfg.Telegram.RunMode = "polling"
	if err := Normalize(cfg); err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if cfg.Telegram.RunMode != RunModeLongpoll {
		t.Fatalf("run_mode = %q", cfg.Telegram.RunMode)
	}
}

func TestNormalizeRejectsMissingToken(t *testing.T) {
	cfg := validConfig()
	cfg.Telegram.Token = ""
	if err := Normalize(cfg); err == nil {
		t.Fatal("expected error for empty token")
	}
}

func TestNormalizeWebhookRequiresURL(t *testing.T) {
	cfg := validConfig()
	cfg.Telegram.RunMode = RunModeWebhook
	cfg.Webhook = WebhookConfig{Listen: "0.0.0.0", Port: 8443}
	if err := Normalize(cfg); err == nil {
		t.Fatal("expected error for missing webhook url")
	}
}

func TestNormalizeRejectsUnknownRunMode(t *testing.T) {
	cfg := validConfig()
	cfg.Telegram.RunMode = "carrier-pigeon"
	if err := Normalize(cfg); err == nil {
		t.Fatal("expected error for unknown run mode")
	}
}
