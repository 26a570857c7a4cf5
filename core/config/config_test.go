package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadParsesDatabaseSection(t *testing.T) {
	raw := `
telegram:
  token: "123:abc"
app:
  staff_access_code: "s3cret"
database:
  host: localhost
  port: "5432"
  user: bot
  name: bloodbot
`
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(raw), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Database.Host != "localhost" || cfg.Database.Name != "bloodbot" {
		t.Fatalf("database section not parsed: %+v", cfg.Database)
	}
	if cfg.Database.SSLMode != "disable" {
		t.Fatalf("sslmode default = %q, want disable", cfg.Database.SSLMode)
	}
	if cfg.Database.MaxConnections != 10 {
		t.Fatalf("max_connections default = %d, want 10", cfg.Database.MaxConnections)
	}
}

func TestNormalizeRejectsMissingAccessCode(t *testing.T) {
	cfg := &Config{}
	cfg.Telegram.Token = "123:abc"
	if err := Normalize(cfg); err == nil {
		t.Fatal("expected error for missing staff access code")
	}
}
