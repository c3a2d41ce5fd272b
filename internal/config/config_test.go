package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != "8080" {
		t.Errorf("default port = %q, expected 8080", cfg.Server.Port)
	}
	if cfg.Database.Driver != "sqlite" {
		t.Errorf("default driver = %q, expected sqlite", cfg.Database.Driver)
	}
	if cfg.Cache.TTLSeconds != 300 {
		t.Errorf("default cache TTL = %d, expected 300", cfg.Cache.TTLSeconds)
	}
}

func TestLoad_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
server:
  port: "9090"
database:
  driver: postgres
  dsn: "host=db user=unihub"
cache:
  redis_enabled: true
  redis_addr: "redis:6379"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != "9090" {
		t.Errorf("port = %q, expected 9090", cfg.Server.Port)
	}
	if cfg.Database.Driver != "postgres" {
		t.Errorf("driver = %q, expected postgres", cfg.Database.Driver)
	}
	if !cfg.Cache.RedisEnabled || cfg.Cache.RedisAddr != "redis:6379" {
		t.Errorf("cache config not loaded: %+v", cfg.Cache)
	}
	// Unset fields still fall back to defaults.
	if cfg.JWT.ExpireHour != 24 {
		t.Errorf("expire hour = %d, expected default 24", cfg.JWT.ExpireHour)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "7070")
	t.Setenv("DB_DRIVER", "mysql")
	t.Setenv("CACHE_TTL_SECONDS", "60")

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != "7070" {
		t.Errorf("port = %q, expected env override 7070", cfg.Server.Port)
	}
	if cfg.Database.Driver != "mysql" {
		t.Errorf("driver = %q, expected env override mysql", cfg.Database.Driver)
	}
	if cfg.Cache.TTLSeconds != 60 {
		t.Errorf("cache TTL = %d, expected env override 60", cfg.Cache.TTLSeconds)
	}
}
