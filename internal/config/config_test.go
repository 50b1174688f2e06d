package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	for _, k := range []string{"CHORECHART_PORT", "CHORECHART_DB_PATH", "CHORECHART_TOKEN_TTL", "CHORECHART_BACKUP_RETAIN"} {
		t.Setenv(k, "")
	}

	cfg := Load()
	if cfg.Port != "8080" {
		t.Errorf("Port = %q, want %q", cfg.Port, "8080")
	}
	if cfg.DBPath != "chorechart.db" {
		t.Errorf("DBPath = %q, want %q", cfg.DBPath, "chorechart.db")
	}
	if cfg.TokenTTL != 7*24*time.Hour {
		t.Errorf("TokenTTL = %v, want 168h", cfg.TokenTTL)
	}
	if cfg.Backup.Retain != 14 {
		t.Errorf("Backup.Retain = %d, want 14", cfg.Backup.Retain)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("CHORECHART_PORT", "9000")
	t.Setenv("CHORECHART_TOKEN_TTL", "12h")
	t.Setenv("CHORECHART_BACKUP_RETAIN", "not-a-number")

	cfg := Load()
	if cfg.Port != "9000" {
		t.Errorf("Port = %q, want %q", cfg.Port, "9000")
	}
	if cfg.TokenTTL != 12*time.Hour {
		t.Errorf("TokenTTL = %v, want 12h", cfg.TokenTTL)
	}
	if cfg.Backup.Retain != 14 {
		t.Errorf("Backup.Retain = %d, want fallback 14", cfg.Backup.Retain)
	}
}

func TestLoadEmail(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("CHORECHART_POSTMARK_TOKEN", "pm-token")
	t.Setenv("CHORECHART_FROM_EMAIL", "chores@example.com")
	t.Setenv("CHORECHART_BASE_URL", "")

	cfg := Load()
	if cfg.Email.PostmarkToken != "pm-token" || cfg.Email.FromEmail != "chores@example.com" {
		t.Errorf("Email = %+v", cfg.Email)
	}
	if cfg.Email.BaseURL != "" {
		t.Errorf("BaseURL = %q, want empty", cfg.Email.BaseURL)
	}
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("CHORECHART_LOG_FORMAT", "")
	os.Unsetenv("CHORECHART_LOG_FORMAT")
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte("CHORECHART_LOG_FORMAT=json\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	if cfg := Load(); cfg.LogFormat != "json" {
		t.Errorf("LogFormat = %q, want json from .env", cfg.LogFormat)
	}
}
