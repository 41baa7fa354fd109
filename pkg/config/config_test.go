// pkg/config/config_test.go
package config

import (
	"strings"
	"testing"
	"time"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("POSTGRES_USER", "retail")
	t.Setenv("POSTGRES_PASSWORD", "secret")
}

func TestLoadConfigDefaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.LogLevel != "info" || cfg.LogFormat != "json" {
		t.Errorf("logging defaults = %s/%s, want info/json", cfg.LogLevel, cfg.LogFormat)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("Port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.Server.UploadDir != "uploads" {
		t.Errorf("UploadDir = %s, want uploads", cfg.Server.UploadDir)
	}
	if len(cfg.Server.AllowedOrigins) != 1 || cfg.Server.AllowedOrigins[0] != "*" {
		t.Errorf("AllowedOrigins = %v, want [*]", cfg.Server.AllowedOrigins)
	}
	if cfg.Pipeline.ClusterTimeout != 30*time.Second {
		t.Errorf("ClusterTimeout = %v, want 30s", cfg.Pipeline.ClusterTimeout)
	}
	if cfg.Postgres.Database != "retail" {
		t.Errorf("Database = %s, want retail", cfg.Postgres.Database)
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example.com, https://b.example.com")
	t.Setenv("CLUSTER_TIMEOUT_SECONDS", "5")
	t.Setenv("POSTGRES_PORT", "5433")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("Port = %d, want 9090", cfg.Server.Port)
	}
	if len(cfg.Server.AllowedOrigins) != 2 || cfg.Server.AllowedOrigins[1] != "https://b.example.com" {
		t.Errorf("AllowedOrigins = %v", cfg.Server.AllowedOrigins)
	}
	if cfg.Pipeline.ClusterTimeout != 5*time.Second {
		t.Errorf("ClusterTimeout = %v, want 5s", cfg.Pipeline.ClusterTimeout)
	}
	if cfg.Postgres.Port != 5433 {
		t.Errorf("Postgres.Port = %d, want 5433", cfg.Postgres.Port)
	}
}

func TestLoadConfigMissingCredentials(t *testing.T) {
	t.Setenv("POSTGRES_USER", "")
	t.Setenv("POSTGRES_PASSWORD", "")

	if _, err := LoadConfig(); err == nil {
		t.Error("expected error for missing credentials")
	}
}

func TestValidate(t *testing.T) {
	setRequiredEnv(t)

	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad port", func(c *Config) { c.Server.Port = 0 }},
		{"port too large", func(c *Config) { c.Server.Port = 70000 }},
		{"bad upload size", func(c *Config) { c.Server.MaxUploadBytes = 0 }},
		{"bad cluster timeout", func(c *Config) { c.Pipeline.ClusterTimeout = 0 }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg, err := LoadConfig()
			if err != nil {
				t.Fatalf("LoadConfig() error = %v", err)
			}
			tc.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestConnectionString(t *testing.T) {
	cfg := &PostgresConfig{
		Host:     "db.internal",
		Port:     5432,
		User:     "retail",
		Password: "secret",
		Database: "retail",
		SSLMode:  "require",
	}

	got := cfg.ConnectionString()
	for _, part := range []string{"host=db.internal", "port=5432", "dbname=retail", "sslmode=require"} {
		if !strings.Contains(got, part) {
			t.Errorf("ConnectionString() missing %q: %s", part, got)
		}
	}
}
