package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadFile_MissingReturnsDefaults(t *testing.T) {
	cfg, err := LoadFile(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cfg.Server.BaseURL != "http://localhost:5000" {
		t.Fatalf("BaseURL = %q, want default", cfg.Server.BaseURL)
	}
	if cfg.Display.RecentLimit != 10 || cfg.Display.TrendDays != 365 {
		t.Fatalf("display defaults = %+v", cfg.Display)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
}

func TestLoadFile_OverlaysDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	body := `
[server]
base_url = "https://spend.example.com"

[display]
currency_symbol = "$"
locale = "en-US"
`
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cfg.Server.BaseURL != "https://spend.example.com" {
		t.Fatalf("BaseURL = %q", cfg.Server.BaseURL)
	}
	if cfg.Server.TimeoutSec != 10 {
		t.Fatalf("TimeoutSec = %d, want default 10", cfg.Server.TimeoutSec)
	}
	if cfg.Display.CurrencySymbol != "$" || cfg.Display.DateLayout != "2006/1/2" {
		t.Fatalf("display = %+v", cfg.Display)
	}
}

func TestLoadFile_BadTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[server\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFile(path); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestApplyEnv(t *testing.T) {
	t.Setenv(EnvServer, "http://10.0.0.5:5000")
	t.Setenv(EnvLogLevel, "debug")

	cfg := DefaultConfig()
	ApplyEnv(&cfg)

	if cfg.Server.BaseURL != "http://10.0.0.5:5000" {
		t.Fatalf("BaseURL = %q", cfg.Server.BaseURL)
	}
	if cfg.Log.Level != "debug" {
		t.Fatalf("Log.Level = %q", cfg.Log.Level)
	}
}

func TestValidate_ReportsTOMLKeys(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Server.BaseURL = "not a url"
	cfg.Display.RecentLimit = 0
	cfg.Appearance.Theme = "neon"

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected validation error")
	}
	for _, key := range []string{"server.base_url", "display.recent_limit", "appearance.theme"} {
		if !strings.Contains(err.Error(), key) {
			t.Errorf("error %q missing %s", err, key)
		}
	}
}

func TestSaveFile_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.toml")
	cfg := DefaultConfig()
	cfg.Export.Dir = "/tmp/exports"
	cfg.TUI.AutoRefresh = true

	if err := SaveFile(path, cfg); err != nil {
		t.Fatalf("SaveFile: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Fatalf("perm = %o, want 600", perm)
	}

	got, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if got.Export.Dir != "/tmp/exports" || !got.TUI.AutoRefresh {
		t.Fatalf("round trip lost values: %+v", got)
	}
}

func TestConfigPath_HonorsXDG(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	if got, want := ConfigPath(), filepath.Join(dir, "expdash", "config.toml"); got != want {
		t.Fatalf("ConfigPath = %q, want %q", got, want)
	}
	if Exists() {
		t.Fatal("Exists() = true for empty dir")
	}
}

func TestUpdateFile_IgnoresEnvOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	t.Setenv(EnvServer, "http://temp-override:9999")

	err := UpdateFile(path, func(c *Config) { c.TUI.AutoRefresh = true })
	if err != nil {
		t.Fatalf("UpdateFile: %v", err)
	}

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if !cfg.TUI.AutoRefresh {
		t.Fatal("AutoRefresh was not saved")
	}
	if cfg.Server.BaseURL != "http://localhost:5000" {
		t.Fatalf("BaseURL = %q, env override leaked into the file", cfg.Server.BaseURL)
	}
}

func TestUpdateFile_KeepsFileValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[server]\nbase_url = \"https://spend.example.com\"\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv(EnvServer, "http://temp-override:9999")

	if err := UpdateFile(path, func(c *Config) { c.Appearance.Theme = "tokyo-night" }); err != nil {
		t.Fatalf("UpdateFile: %v", err)
	}

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cfg.Server.BaseURL != "https://spend.example.com" {
		t.Fatalf("BaseURL = %q, want the file value", cfg.Server.BaseURL)
	}
	if cfg.Appearance.Theme != "tokyo-night" {
		t.Fatalf("Theme = %q", cfg.Appearance.Theme)
	}
}
