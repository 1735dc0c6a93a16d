package config

import (
	"os"
	"testing"
	"time"
)

// clearEnv removes every configuration variable from the test process
// environment so Load sees only defaults. t.Setenv registers the
// restore; the unset makes LookupEnv miss rather than see "".
func clearEnv(t *testing.T) {
	t.Helper()
	vars := []string{
		"SERVER_HOST", "SERVER_PORT", "HEALTH_PORT",
		"STORAGE_BACKEND", "DB_PATH", "DATA_PATH",
		"SMTP_HOST", "SMTP_PORT", "SMTP_USERNAME", "SMTP_PASSWORD",
		"SMTP_SENDER", "SMTP_USE_TLS",
		"VERIFICATION_CODE_LENGTH", "VERIFICATION_CODE_EXPIRY_SECONDS",
	}
	for _, v := range vars {
		t.Setenv(v, "")
		if err := os.Unsetenv(v); err != nil {
			t.Fatalf("unset %s: %v", v, err)
		}
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Port != "8765" {
		t.Errorf("expected default port 8765, got %q", cfg.Port)
	}
	if cfg.StorageBackend != BackendSQLite {
		t.Errorf("expected default sqlite backend, got %q", cfg.StorageBackend)
	}
	if cfg.Verification.CodeLength != 6 {
		t.Errorf("expected default code length 6, got %d", cfg.Verification.CodeLength)
	}
	if cfg.Verification.CodeExpiry != 300*time.Second {
		t.Errorf("expected default expiry 300s, got %v", cfg.Verification.CodeExpiry)
	}
	if cfg.SMTP.Port != 587 {
		t.Errorf("expected default SMTP port 587, got %d", cfg.SMTP.Port)
	}
	if !cfg.SMTP.UseTLS {
		t.Error("expected TLS enabled by default")
	}
}

func TestLoadOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("SERVER_PORT", "9000")
	t.Setenv("STORAGE_BACKEND", "json")
	t.Setenv("DATA_PATH", "/tmp/pollagents")
	t.Setenv("VERIFICATION_CODE_LENGTH", "8")
	t.Setenv("VERIFICATION_CODE_EXPIRY_SECONDS", "60")
	t.Setenv("SMTP_USE_TLS", "false")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Port != "9000" {
		t.Errorf("expected port 9000, got %q", cfg.Port)
	}
	if cfg.StorageBackend != BackendJSON {
		t.Errorf("expected json backend, got %q", cfg.StorageBackend)
	}
	if cfg.Verification.CodeLength != 8 {
		t.Errorf("expected code length 8, got %d", cfg.Verification.CodeLength)
	}
	if cfg.Verification.CodeExpiry != time.Minute {
		t.Errorf("expected 60s expiry, got %v", cfg.Verification.CodeExpiry)
	}
	if cfg.SMTP.UseTLS {
		t.Error("expected TLS disabled")
	}
}

func TestValidateRejectsUnknownBackend(t *testing.T) {
	clearEnv(t)
	t.Setenv("STORAGE_BACKEND", "supabase")
	if _, err := Load(); err == nil {
		t.Error("expected error for unknown backend")
	}
}

func TestValidateRejectsBadVerificationSettings(t *testing.T) {
	clearEnv(t)
	t.Setenv("VERIFICATION_CODE_LENGTH", "0")
	if _, err := Load(); err == nil {
		t.Error("expected error for zero code length")
	}
}

func TestAddr(t *testing.T) {
	cfg := &Config{Host: "127.0.0.1", Port: "8765"}
	if got := cfg.Addr(); got != "127.0.0.1:8765" {
		t.Errorf("expected 127.0.0.1:8765, got %q", got)
	}
}
