package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestParseYAMLWithDefaults(t *testing.T) {
	path := writeFile(t, "config.yaml", `
poll:
  schedule: 5m
logging:
  level: debug
`)
	cfg, err := NewManager(path).Parse()
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.Poll.Schedule != "5m" {
		t.Fatalf("schedule = %q", cfg.Poll.Schedule)
	}
	if cfg.Poll.Endpoint != DefaultEndpoint {
		t.Fatalf("endpoint default not applied: %q", cfg.Poll.Endpoint)
	}
	if cfg.Logging.Level != "debug" {
		t.Fatalf("level = %q", cfg.Logging.Level)
	}
	if cfg.Telegram.RatePerSec != 1 {
		t.Fatalf("rate default not applied: %d", cfg.Telegram.RatePerSec)
	}

	d, err := cfg.HTTPTimeout()
	if err != nil || d != DefaultTimeout {
		t.Fatalf("HTTPTimeout = %v, %v", d, err)
	}
}

func TestParseRejectsUnknownFields(t *testing.T) {
	path := writeFile(t, "config.yaml", `
poll:
  schedule: 5m
  retires: 3
`)
	if _, err := NewManager(path).Parse(); err == nil {
		t.Fatal("expected error for unknown field")
	}
}

func TestParseJSONTrailingData(t *testing.T) {
	path := writeFile(t, "config.json", `{"poll": {"schedule": "1m"}}{"extra": true}`)
	if _, err := NewManager(path).Parse(); err == nil {
		t.Fatal("expected error for trailing data")
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	m := NewManager(filepath.Join(t.TempDir(), "absent.yaml"))
	cfg, err := m.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Poll.Schedule != DefaultSchedule {
		t.Fatalf("schedule = %q, want %q", cfg.Poll.Schedule, DefaultSchedule)
	}
	if m.Get() != cfg {
		t.Fatal("defaults were not committed")
	}
}

func TestParseDurationField(t *testing.T) {
	t.Parallel()
	if d, err := ParseDurationField("x", "90s"); err != nil || d != 90*time.Second {
		t.Fatalf("got %v, %v", d, err)
	}
	if _, err := ParseDurationField("x", "ninety"); err == nil {
		t.Fatal("expected error for bad duration")
	}
	if _, err := ParseDurationField("x", "-1s"); err == nil {
		t.Fatal("expected error for negative duration")
	}
}

func TestLoadSecrets(t *testing.T) {
	t.Setenv(EnvPracticumToken, "p-token")
	t.Setenv(EnvTelegramToken, "t-token")
	t.Setenv(EnvTelegramChatID, "123456")

	s, err := LoadSecrets()
	if err != nil {
		t.Fatalf("LoadSecrets: %v", err)
	}
	if s.PracticumToken != "p-token" || s.TelegramToken != "t-token" || s.ChatID != 123456 {
		t.Fatalf("unexpected secrets: %+v", s)
	}
}

func TestLoadSecretsMissing(t *testing.T) {
	t.Setenv(EnvPracticumToken, "p-token")
	t.Setenv(EnvTelegramToken, "")
	t.Setenv(EnvTelegramChatID, "")

	_, err := LoadSecrets()
	if err == nil {
		t.Fatal("expected error for missing secrets")
	}
	msg := err.Error()
	if !strings.Contains(msg, EnvTelegramToken) || !strings.Contains(msg, EnvTelegramChatID) {
		t.Fatalf("error does not list missing vars: %q", msg)
	}
	if strings.Contains(msg, EnvPracticumToken) {
		t.Fatalf("error lists a variable that is set: %q", msg)
	}
}

func TestLoadSecretsBadChatID(t *testing.T) {
	t.Setenv(EnvPracticumToken, "p")
	t.Setenv(EnvTelegramToken, "t")
	t.Setenv(EnvTelegramChatID, "not-a-number")

	if _, err := LoadSecrets(); err == nil {
		t.Fatal("expected error for non-numeric chat id")
	}
}
