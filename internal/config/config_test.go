package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
	return configPath
}

func TestLoad_ValidConfig(t *testing.T) {
	configPath := writeConfig(t, `
server:
  host: "127.0.0.1"
  port: 9090
  path_prefix: "/tools/"
  secure_cookie: true
  shutdown_timeout: "3s"

database:
  path: "/data/test.db"

catalog:
  seed_defaults: false
  max_import_bytes: 4096
`)

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Server.Host != "127.0.0.1" {
		t.Errorf("expected host '127.0.0.1', got '%s'", cfg.Server.Host)
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("expected port 9090, got %d", cfg.Server.Port)
	}
	if cfg.Server.PathPrefix != "/tools" {
		t.Errorf("expected path_prefix '/tools', got '%s'", cfg.Server.PathPrefix)
	}
	if !cfg.Server.SecureCookie {
		t.Error("expected secure_cookie to be true")
	}
	if cfg.Server.GetShutdownTimeout() != 3*time.Second {
		t.Errorf("expected shutdown timeout 3s, got %v", cfg.Server.GetShutdownTimeout())
	}
	if cfg.Database.Path != "/data/test.db" {
		t.Errorf("expected database path '/data/test.db', got '%s'", cfg.Database.Path)
	}
	if cfg.Catalog.ShouldSeed() {
		t.Error("expected seed_defaults false to be respected")
	}
	if cfg.Catalog.MaxImportBytes != 4096 {
		t.Errorf("expected max_import_bytes 4096, got %d", cfg.Catalog.MaxImportBytes)
	}
}

func TestLoad_Defaults(t *testing.T) {
	configPath := writeConfig(t, "server:\n  secure_cookie: false\n")

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Server.Host != "0.0.0.0" {
		t.Errorf("expected default host '0.0.0.0', got '%s'", cfg.Server.Host)
	}
	if cfg.Server.Port != 9999 {
		t.Errorf("expected default port 9999, got %d", cfg.Server.Port)
	}
	if cfg.Server.PathPrefix != "" {
		t.Errorf("expected empty path_prefix, got '%s'", cfg.Server.PathPrefix)
	}
	if cfg.Server.Address() != "0.0.0.0:9999" {
		t.Errorf("expected address '0.0.0.0:9999', got '%s'", cfg.Server.Address())
	}
	if cfg.Database.Path != "./data/catalog.db" {
		t.Errorf("expected default database path, got '%s'", cfg.Database.Path)
	}
	if !cfg.Catalog.ShouldSeed() {
		t.Error("expected seeding to default to true")
	}
	if cfg.Catalog.MaxImportBytes != 2097152 {
		t.Errorf("expected default max_import_bytes 2097152, got %d", cfg.Catalog.MaxImportBytes)
	}
	if cfg.Server.GetShutdownTimeout() != 10*time.Second {
		t.Errorf("expected default shutdown timeout 10s, got %v", cfg.Server.GetShutdownTimeout())
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("CATALOG_DB_PATH", "/tmp/override.db")
	t.Setenv("CATALOG_PORT", "8181")

	configPath := writeConfig(t, `
server:
  port: 9090
database:
  path: "/data/test.db"
`)

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	if cfg.Database.Path != "/tmp/override.db" {
		t.Errorf("expected env database path, got '%s'", cfg.Database.Path)
	}
	if cfg.Server.Port != 8181 {
		t.Errorf("expected env port 8181, got %d", cfg.Server.Port)
	}
}

func TestLoad_InvalidPortEnvIgnored(t *testing.T) {
	t.Setenv("CATALOG_PORT", "not-a-port")

	cfg := Default()
	if cfg.Server.Port != 9999 {
		t.Errorf("expected default port when env is invalid, got %d", cfg.Server.Port)
	}
}

func TestLoad_FileNotFound(t *testing.T) {
	_, err := Load("/nonexistent/path/config.yaml")
	if err == nil {
		t.Error("expected error for non-existent file")
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	configPath := writeConfig(t, "server:\n  port: [not a number\n")

	_, err := Load(configPath)
	if err == nil {
		t.Error("expected error for invalid YAML")
	}
}

func TestGetShutdownTimeout_Invalid(t *testing.T) {
	tests := []struct {
		value    string
		expected time.Duration
	}{
		{"30s", 30 * time.Second},
		{"1m", time.Minute},
		{"invalid", 10 * time.Second},
		{"-5s", 10 * time.Second},
		{"", 10 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			cfg := &ServerConfig{ShutdownTimeout: tt.value}
			if got := cfg.GetShutdownTimeout(); got != tt.expected {
				t.Errorf("expected %v, got %v", tt.expected, got)
			}
		})
	}
}
