package config

import (
	"testing"
	"time"
)

func TestLoadAppliesDefaults(t *testing.T) {
	for _, key := range []string{
		"DB_PATH", "SERVER_PORT", "LOG_LEVEL", "SENTRY_DSN", "ENV", "BASE_URL",
		"SMTP_HOST", "SMTP_PORT", "SMTP_USERNAME", "SMTP_PASSWORD", "MAIL_FROM",
		"CONTACT_RECIPIENT",
	} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.DBPath != "./data/pressroom.db" {
		t.Fatalf("expected default db path, got %q", cfg.DBPath)
	}
	if cfg.ServerPort != 8080 {
		t.Fatalf("expected default port 8080, got %d", cfg.ServerPort)
	}
	if cfg.LogLevel != "info" {
		t.Fatalf("expected default log level info, got %q", cfg.LogLevel)
	}
	if cfg.BaseURL != "http://localhost:8080" {
		t.Fatalf("expected default base URL, got %q", cfg.BaseURL)
	}
	if cfg.SMTPPort != 587 {
		t.Fatalf("expected default smtp port 587, got %d", cfg.SMTPPort)
	}
	if cfg.ShutdownGrace != 10*time.Second {
		t.Fatalf("expected default shutdown grace, got %s", cfg.ShutdownGrace)
	}
}

func TestLoadReadsEnvironment(t *testing.T) {
	t.Setenv("DB_PATH", "/tmp/test.db")
	t.Setenv("SERVER_PORT", "9100")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("BASE_URL", "https://blog.example.com")
	t.Setenv("SMTP_HOST", "smtp.example.com")
	t.Setenv("SMTP_PORT", "2525")
	t.Setenv("MAIL_FROM", "noreply@example.com")
	t.Setenv("CONTACT_RECIPIENT", "owner@example.com")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.DBPath != "/tmp/test.db" {
		t.Fatalf("unexpected db path %q", cfg.DBPath)
	}
	if cfg.ServerPort != 9100 {
		t.Fatalf("unexpected port %d", cfg.ServerPort)
	}
	if cfg.LogLevel != "debug" {
		t.Fatalf("unexpected log level %q", cfg.LogLevel)
	}
	if cfg.SMTPHost != "smtp.example.com" || cfg.SMTPPort != 2525 {
		t.Fatalf("unexpected smtp settings %q:%d", cfg.SMTPHost, cfg.SMTPPort)
	}
	if cfg.MailFrom != "noreply@example.com" || cfg.ContactTo != "owner@example.com" {
		t.Fatalf("unexpected mail settings %q / %q", cfg.MailFrom, cfg.ContactTo)
	}
}

func TestLoadTrimsBaseURLTrailingSlash(t *testing.T) {
	t.Setenv("BASE_URL", "https://blog.example.com/")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.BaseURL != "https://blog.example.com" {
		t.Fatalf("expected trailing slash trimmed, got %q", cfg.BaseURL)
	}
}

func TestLoadRejectsInvalidServerPort(t *testing.T) {
	t.Setenv("SERVER_PORT", "not-a-port")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for invalid SERVER_PORT")
	}
}

func TestLoadRejectsInvalidSMTPPort(t *testing.T) {
	t.Setenv("SERVER_PORT", "")
	t.Setenv("SMTP_PORT", "junk")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for invalid SMTP_PORT")
	}
}
