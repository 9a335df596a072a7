package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
)

func TestDefaults(t *testing.T) {
	v := viper.New()
	setDefaults(v)
	cfg, err := unmarshal(v)
	if err != nil {
		t.Fatalf("unmarshal() error = %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.Store.Driver != "memory" {
		t.Errorf("Store.Driver = %q, want memory", cfg.Store.Driver)
	}
	if cfg.Inventory.LowStockThreshold != 10 {
		t.Errorf("LowStockThreshold = %d, want 10", cfg.Inventory.LowStockThreshold)
	}

	cats := cfg.CategoryMap()
	if len(cats) != 5 {
		t.Fatalf("got %d categories, want 5", len(cats))
	}
	if got := cats["Coat/Shafari"]; len(got) != 9 || got[8] != "cross_front" {
		t.Errorf("Coat/Shafari fields = %v", got)
	}
}

func TestConfigFileOverridesCategories(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yaml := []byte(`
store:
  driver: sqlite
categories:
  - name: Kurta
    fields: [length, chest, sleeve]
`)
	if err := os.WriteFile(path, yaml, 0o600); err != nil {
		t.Fatal(err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	setDefaults(v)
	if err := v.ReadInConfig(); err != nil {
		t.Fatalf("ReadInConfig() error = %v", err)
	}
	cfg, err := unmarshal(v)
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Store.Driver != "sqlite" {
		t.Errorf("Store.Driver = %q, want sqlite", cfg.Store.Driver)
	}
	cats := cfg.CategoryMap()
	if len(cats) != 1 || len(cats["Kurta"]) != 3 {
		t.Errorf("CategoryMap() = %v, want only Kurta", cats)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("DB_PORT", "6543")
	t.Setenv("REDIS_ADDR", "cache:6379")

	cfg := &Config{}
	applyEnvOverrides(cfg)

	if cfg.Database.Host != "db.internal" || cfg.Database.Port != 6543 {
		t.Errorf("database = %s:%d", cfg.Database.Host, cfg.Database.Port)
	}
	if !cfg.Redis.Enabled || cfg.Redis.Addr != "cache:6379" {
		t.Errorf("redis = %+v, want enabled at cache:6379", cfg.Redis)
	}

	cfg.Database.User, cfg.Database.Password, cfg.Database.Name, cfg.Database.SSLMode = "u", "p", "n", "disable"
	if got := cfg.DSN(); got != "postgres://u:p@db.internal:6543/n?sslmode=disable" {
		t.Errorf("DSN() = %s", got)
	}
}
