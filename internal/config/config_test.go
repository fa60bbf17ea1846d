package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("SECRET_KEY", "test-secret")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("Load() unexpected error = %v", err)
	}

	if cfg.Server.Port != "8000" {
		t.Errorf("Port = %v, want 8000", cfg.Server.Port)
	}
	if cfg.Auth.SessionTimeout != 24*time.Hour {
		t.Errorf("SessionTimeout = %v, want 24h", cfg.Auth.SessionTimeout)
	}
	if cfg.Auth.InviteTimeout != 7*24*time.Hour {
		t.Errorf("InviteTimeout = %v, want 168h", cfg.Auth.InviteTimeout)
	}
	if cfg.Redis.ProgressTTL != 5*time.Minute {
		t.Errorf("ProgressTTL = %v, want 5m", cfg.Redis.ProgressTTL)
	}
	if cfg.Email.Host != "smtp.gmail.com" || cfg.Email.Port != 587 || !cfg.Email.UseTLS {
		t.Errorf("Email defaults = %+v", cfg.Email)
	}
}

func TestLoad_YAMLFile(t *testing.T) {
	t.Setenv("SECRET_KEY", "test-secret")

	path := filepath.Join(t.TempDir(), "config.yaml")
	data := []byte(`
server:
  port: "9000"
  allowed_origins:
    - https://boards.example.com
auth:
  activation_timeout: 1h
site:
  url: https://boards.example.com
`)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() unexpected error = %v", err)
	}
	if cfg.Server.Port != "9000" {
		t.Errorf("Port = %v, want 9000", cfg.Server.Port)
	}
	if len(cfg.Server.AllowedOrigins) != 1 || cfg.Server.AllowedOrigins[0] != "https://boards.example.com" {
		t.Errorf("AllowedOrigins = %v", cfg.Server.AllowedOrigins)
	}
	if cfg.Auth.ActivationTimeout != time.Hour {
		t.Errorf("ActivationTimeout = %v, want 1h", cfg.Auth.ActivationTimeout)
	}
	if cfg.Site.URL != "https://boards.example.com" {
		t.Errorf("Site.URL = %v", cfg.Site.URL)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("SECRET_KEY", "env-secret")
	t.Setenv("SECRET_KEY_FALLBACKS", "old-one, old-two")
	t.Setenv("DATABASE_URL", "postgres://env/db")
	t.Setenv("ACTIVATION_TOKEN_TIMEOUT", "3600")
	t.Setenv("INVITE_TOKEN_TIMEOUT", "7200")
	t.Setenv("EMAIL_USER", "correo@example.com")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example.com,https://b.example.com")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("Load() unexpected error = %v", err)
	}

	if cfg.Auth.SecretKey != "env-secret" {
		t.Errorf("SecretKey = %v", cfg.Auth.SecretKey)
	}
	if len(cfg.Auth.SecretKeyFallbacks) != 2 || cfg.Auth.SecretKeyFallbacks[1] != "old-two" {
		t.Errorf("SecretKeyFallbacks = %v, want trimmed pair", cfg.Auth.SecretKeyFallbacks)
	}
	if cfg.Database.URL != "postgres://env/db" {
		t.Errorf("Database.URL = %v", cfg.Database.URL)
	}
	if cfg.Auth.ActivationTimeout != time.Hour {
		t.Errorf("ActivationTimeout = %v, want 1h from seconds", cfg.Auth.ActivationTimeout)
	}
	if cfg.Auth.InviteTimeout != 2*time.Hour {
		t.Errorf("InviteTimeout = %v, want 2h from seconds", cfg.Auth.InviteTimeout)
	}
	if cfg.Email.From != "correo@example.com" {
		t.Errorf("Email.From = %v, want the user as fallback sender", cfg.Email.From)
	}
	if len(cfg.Server.AllowedOrigins) != 2 {
		t.Errorf("AllowedOrigins = %v", cfg.Server.AllowedOrigins)
	}
}

func TestLoad_RequiresSecretKey(t *testing.T) {
	t.Setenv("SECRET_KEY", "")

	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("Load() error = nil, want an error without SECRET_KEY")
	}
}
