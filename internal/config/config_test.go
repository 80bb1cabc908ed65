package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "ENV", "LOG_LEVEL", "STORE_BACKEND", "STRICT_TEMPORAL_PARSING", "EMAIL_SEND_TIMEOUT", "RESTAURANT_NAME", "EMAIL_FROM_NAME", "RATE_LIMIT_RPS"} {
		t.Setenv(key, "")
	}
	cfg := Load()
	if cfg.Port != "8080" {
		t.Fatalf("expected default port, got %s", cfg.Port)
	}
	if cfg.Env != "development" {
		t.Fatalf("expected default env, got %s", cfg.Env)
	}
	if cfg.StoreBackend != "memory" {
		t.Fatalf("expected memory store by default, got %s", cfg.StoreBackend)
	}
	if !cfg.StrictTemporalParsing {
		t.Fatalf("expected strict temporal parsing by default")
	}
	if cfg.EmailSendTimeout != 10*time.Second {
		t.Fatalf("expected default email timeout, got %s", cfg.EmailSendTimeout)
	}
	if cfg.EmailFromName != cfg.RestaurantName {
		t.Fatalf("expected from name to follow restaurant name, got %q", cfg.EmailFromName)
	}
	if cfg.RateLimitRPS != 0 {
		t.Fatalf("expected rate limiting disabled by default, got %v", cfg.RateLimitRPS)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("STORE_BACKEND", " Sheets ")
	t.Setenv("SHEETS_SPREADSHEET_ID", "sheet-123")
	t.Setenv("STRICT_TEMPORAL_PARSING", "false")
	t.Setenv("EMAIL_SEND_TIMEOUT", "3s")
	t.Setenv("RATE_LIMIT_RPS", "2.5")
	t.Setenv("RATE_LIMIT_BURST", "5")
	t.Setenv("REDIS_TLS", "true")
	t.Setenv("DEFAULT_LANGUAGE", "FR")
	cfg := Load()
	if cfg.Port != "9090" {
		t.Fatalf("expected override port, got %s", cfg.Port)
	}
	if cfg.StoreBackend != "sheets" {
		t.Fatalf("expected normalized store backend, got %q", cfg.StoreBackend)
	}
	if cfg.SheetsSpreadsheetID != "sheet-123" {
		t.Fatalf("expected spreadsheet override, got %s", cfg.SheetsSpreadsheetID)
	}
	if cfg.StrictTemporalParsing {
		t.Fatalf("expected strict temporal parsing disabled")
	}
	if cfg.EmailSendTimeout != 3*time.Second {
		t.Fatalf("expected email timeout override, got %s", cfg.EmailSendTimeout)
	}
	if cfg.RateLimitRPS != 2.5 || cfg.RateLimitBurst != 5 {
		t.Fatalf("expected rate limit override, got %v/%d", cfg.RateLimitRPS, cfg.RateLimitBurst)
	}
	if !cfg.RedisTLS {
		t.Fatalf("expected redis tls enabled")
	}
	if cfg.DefaultLanguage != "fr" {
		t.Fatalf("expected lower-cased language, got %q", cfg.DefaultLanguage)
	}
}
