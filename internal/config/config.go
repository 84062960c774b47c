// Package config loads and saves the expdash TOML configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Environment variables that override the config file.
const (
	EnvServer   = "EXPDASH_SERVER"
	EnvLogLevel = "EXPDASH_LOG_LEVEL"
)

// Config holds all expdash configuration.
type Config struct {
	Server     ServerConfig     `toml:"server"`
	Display    DisplayConfig    `toml:"display"`
	Export     ExportConfig     `toml:"export"`
	Appearance AppearanceConfig `toml:"appearance"`
	TUI        TUIConfig        `toml:"tui"`
	Log        LogConfig        `toml:"log"`
}

// ServerConfig holds the expense server connection settings.
type ServerConfig struct {
	BaseURL     string `toml:"base_url" validate:"required,url"`
	TimeoutSec  int    `toml:"timeout_sec" validate:"min=1,max=300"`
	MaxExportMB int    `toml:"max_export_mb" validate:"min=1,max=1024"`
}

// DisplayConfig holds formatting preferences.
type DisplayConfig struct {
	CurrencySymbol string `toml:"currency_symbol"`
	Locale         string `toml:"locale" validate:"required,bcp47_language_tag"`
	DateLayout     string `toml:"date_layout" validate:"required"`
	RecentLimit    int    `toml:"recent_limit" validate:"min=1,max=500"`
	TrendDays      int    `toml:"trend_days" validate:"min=1,max=3650"`
}

// ExportConfig holds where export downloads are written.
type ExportConfig struct {
	Dir string `toml:"dir"`
}

// AppearanceConfig holds theme settings.
type AppearanceConfig struct {
	Theme string `toml:"theme" validate:"omitempty,oneof=flexoki-dark catppuccin-mocha tokyo-night terminal"`
}

// TUIConfig holds interactive dashboard settings.
type TUIConfig struct {
	AutoRefresh        bool `toml:"auto_refresh"`
	RefreshIntervalSec int  `toml:"refresh_interval_sec" validate:"min=10"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `toml:"level" validate:"omitempty,oneof=debug info warn warning error"`
	File  string `toml:"file,omitempty"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		Server: ServerConfig{
			BaseURL:     "http://localhost:5000",
			TimeoutSec:  10,
			MaxExportMB: 32,
		},
		Display: DisplayConfig{
			CurrencySymbol: "¥",
			Locale:         "zh-CN",
			DateLayout:     "2006/1/2",
			RecentLimit:    10,
			TrendDays:      365,
		},
		Export: ExportConfig{
			Dir: ".",
		},
		Appearance: AppearanceConfig{
			Theme: "flexoki-dark",
		},
		TUI: TUIConfig{
			RefreshIntervalSec: 300,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// ConfigDir returns the XDG-compliant config directory.
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "expdash")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "expdash")
}

// ConfigPath returns the full path to the config file.
func ConfigPath() string {
	return filepath.Join(ConfigDir(), "config.toml")
}

// Load reads the config file, returning defaults if it doesn't exist.
// A .env file in the working directory is read first; it never overrides
// variables already set in the environment.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg, err := LoadFile(ConfigPath())
	if err != nil {
		return cfg, err
	}
	ApplyEnv(&cfg)
	return cfg, nil
}

// LoadFile reads a specific config file over the defaults.
func LoadFile(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}

	return cfg, nil
}

// ApplyEnv overlays environment overrides onto cfg.
func ApplyEnv(cfg *Config) {
	if v := strings.TrimSpace(os.Getenv(EnvServer)); v != "" {
		cfg.Server.BaseURL = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogLevel)); v != "" {
		cfg.Log.Level = v
	}
}

// Validate checks field constraints and reports every violation by its
// TOML key, e.g. "server.base_url".
func (c Config) Validate() error {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("toml"), ",")
		if name == "-" {
			return ""
		}
		return name
	})

	err := v.Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validating config: %w", err)
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		// Namespace is "Config.server.base_url"
		_, key, _ := strings.Cut(fe.Namespace(), ".")
		msgs = append(msgs, fmt.Sprintf("%s: failed %q (got %v)", key, fe.Tag(), fe.Value()))
	}
	return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
}

// Save writes the config to disk.
func Save(cfg Config) error {
	return SaveFile(ConfigPath(), cfg)
}

// SaveFile writes the config to a specific path with owner-only permissions.
func SaveFile(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("creating config file: %w", err)
	}
	defer f.Close()

	enc := toml.NewEncoder(f)
	return enc.Encode(cfg)
}

// Update applies fn to the config file on disk and saves it. Environment
// overrides are not read, so they never end up in the file.
func Update(fn func(*Config)) error {
	return UpdateFile(ConfigPath(), fn)
}

// UpdateFile is Update for a specific path.
func UpdateFile(path string, fn func(*Config)) error {
	cfg, err := LoadFile(path)
	if err != nil {
		return err
	}
	fn(&cfg)
	return SaveFile(path, cfg)
}

// Exists returns true if a config file exists on disk.
func Exists() bool {
	_, err := os.Stat(ConfigPath())
	return err == nil
}
