// Copyright (c) 2025 Kindling Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for kindling.
//
// Supports both TOML and JSON configuration formats, with sensible defaults,
// environment variable overrides, and validation.
//
// Configuration file locations (in order of precedence):
//   - ~/.kindling/config.toml
//   - ~/.kindling/config.json
//   - Built-in defaults
package config

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/kindlingapp/kindling-tui/internal/util"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config is the complete kindling configuration.
type Config struct {
	Version string `toml:"version" json:"version"`

	Server    ServerConfig    `toml:"server" json:"server"`
	Discovery DiscoveryConfig `toml:"discovery" json:"discovery"`
	Profile   ProfileConfig   `toml:"profile" json:"profile"`
	UI        UIConfig        `toml:"ui" json:"ui"`
}

// ServerConfig describes how to reach the backend.
type ServerConfig struct {
	// BaseURL is the REST API base, e.g. "http://localhost:8000".
	BaseURL string `toml:"base_url" json:"base_url"`
	// RealtimeURL is the websocket endpoint base. Empty derives it from
	// BaseURL by swapping the scheme to ws/wss.
	RealtimeURL string `toml:"realtime_url" json:"realtime_url"`
	// TimeoutSecs is the per-request timeout for REST calls.
	TimeoutSecs int `toml:"timeout_secs" json:"timeout_secs"`
}

// DiscoveryConfig tunes the discovery deck.
type DiscoveryConfig struct {
	// BatchSize is how many candidates to request per fetch.
	BatchSize int `toml:"batch_size" json:"batch_size"`
}

// ProfileConfig holds optional local defaults for profile setup. Terminals
// have no geolocation API, so the coordinates the web client read from the
// browser are entered here (or typed in the setup form) instead.
type ProfileConfig struct {
	DefaultLatitude  float64 `toml:"default_latitude" json:"default_latitude"`
	DefaultLongitude float64 `toml:"default_longitude" json:"default_longitude"`
}

// UIConfig contains presentation settings.
type UIConfig struct {
	// Theme selects the color theme: "auto", "dark", or "light".
	Theme string `toml:"theme" json:"theme"`
	// RenderMarkdownBios renders candidate bios through glamour.
	RenderMarkdownBios bool `toml:"render_markdown_bios" json:"render_markdown_bios"`
	// CompactMode reduces padding for small terminals.
	CompactMode bool `toml:"compact_mode" json:"compact_mode"`
}

// =============================================================================
// DEFAULTS
// =============================================================================

// Default returns the built-in default configuration.
func Default() *Config {
	return &Config{
		Version: "1",
		Server: ServerConfig{
			BaseURL:     "http://localhost:8000",
			TimeoutSecs: 30,
		},
		Discovery: DiscoveryConfig{
			BatchSize: 10,
		},
		UI: UIConfig{
			Theme:              "auto",
			RenderMarkdownBios: true,
		},
	}
}

// SetDefaults fills zero-valued fields with their defaults after a partial
// file load.
func (c *Config) SetDefaults() {
	def := Default()
	if c.Version == "" {
		c.Version = def.Version
	}
	if c.Server.BaseURL == "" {
		c.Server.BaseURL = def.Server.BaseURL
	}
	if c.Server.TimeoutSecs <= 0 {
		c.Server.TimeoutSecs = def.Server.TimeoutSecs
	}
	if c.Discovery.BatchSize <= 0 {
		c.Discovery.BatchSize = def.Discovery.BatchSize
	}
	if c.UI.Theme == "" {
		c.UI.Theme = def.UI.Theme
	}
}

// =============================================================================
// CONFIG PATH HELPERS
// =============================================================================

// Dir returns the kindling configuration directory path.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".kindling"), nil
}

// PathTOML returns the path to the TOML config file.
func PathTOML() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// PathJSON returns the path to the JSON config file.
func PathJSON() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// EnsureDir ensures the config directory exists.
func EnsureDir() error {
	dir, err := Dir()
	if err != nil {
		return err
	}
	return os.MkdirAll(dir, 0o755)
}

// =============================================================================
// LOAD FUNCTIONS
// =============================================================================

// Load loads configuration from the config file(s). Tries TOML first, then
// JSON, and falls back to defaults. Environment overrides are applied last.
func Load() (*Config, error) {
	if path, err := PathTOML(); err == nil {
		if _, statErr := os.Stat(path); statErr == nil {
			return LoadFromPath(path)
		}
	}
	if path, err := PathJSON(); err == nil {
		if _, statErr := os.Stat(path); statErr == nil {
			return LoadFromPath(path)
		}
	}

	cfg := Default()
	cfg.ApplyEnvOverrides()
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// LoadFromPath loads configuration from a specific file path with full
// validation. JSON is selected by file extension; anything else parses as
// TOML.
func LoadFromPath(path string) (*Config, error) {
	cfg := &Config{}

	if strings.HasSuffix(path, ".json") {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("decode JSON config %s: %w", path, err)
		}
	} else {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("decode TOML config %s: %w", path, err)
		}
	}

	cfg.ApplyEnvOverrides()
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// ApplyEnvOverrides applies KINDLING_* environment variables over file
// values. Environment always wins so deployments can point an installed
// binary at a different backend without editing files.
func (c *Config) ApplyEnvOverrides() {
	if v := os.Getenv("KINDLING_SERVER_URL"); v != "" {
		c.Server.BaseURL = v
	}
	if v := os.Getenv("KINDLING_REALTIME_URL"); v != "" {
		c.Server.RealtimeURL = v
	}
	if v := os.Getenv("KINDLING_TIMEOUT_SECS"); v != "" {
		if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
			c.Server.TimeoutSecs = secs
		}
	}
	if v := os.Getenv("KINDLING_THEME"); v != "" {
		c.UI.Theme = v
	}
}

// =============================================================================
// VALIDATION
// =============================================================================

// Validate checks the configuration for values that would break the client.
func (c *Config) Validate() error {
	u, err := url.Parse(c.Server.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("server.base_url %q is not a valid URL", c.Server.BaseURL)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("server.base_url scheme must be http or https, got %q", u.Scheme)
	}

	if c.Server.RealtimeURL != "" {
		wu, err := url.Parse(c.Server.RealtimeURL)
		if err != nil || wu.Scheme == "" || wu.Host == "" {
			return fmt.Errorf("server.realtime_url %q is not a valid URL", c.Server.RealtimeURL)
		}
		if wu.Scheme != "ws" && wu.Scheme != "wss" {
			return fmt.Errorf("server.realtime_url scheme must be ws or wss, got %q", wu.Scheme)
		}
	}

	if c.Server.TimeoutSecs < 1 || c.Server.TimeoutSecs > 300 {
		return fmt.Errorf("server.timeout_secs must be between 1 and 300, got %d", c.Server.TimeoutSecs)
	}
	if c.Discovery.BatchSize < 1 || c.Discovery.BatchSize > 50 {
		return fmt.Errorf("discovery.batch_size must be between 1 and 50, got %d", c.Discovery.BatchSize)
	}

	switch c.UI.Theme {
	case "auto", "dark", "light":
	default:
		return fmt.Errorf("ui.theme must be auto, dark, or light, got %q", c.UI.Theme)
	}
	return nil
}

// =============================================================================
// DERIVED VALUES
// =============================================================================

// RequestTimeout returns the REST request timeout as a duration.
func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.Server.TimeoutSecs) * time.Second
}

// EffectiveRealtimeURL returns the websocket base URL, deriving it from the
// REST base when not set explicitly (http -> ws, https -> wss).
func (c *Config) EffectiveRealtimeURL() string {
	if c.Server.RealtimeURL != "" {
		return c.Server.RealtimeURL
	}
	base := c.Server.BaseURL
	switch {
	case strings.HasPrefix(base, "https://"):
		return "wss://" + strings.TrimPrefix(base, "https://")
	case strings.HasPrefix(base, "http://"):
		return "ws://" + strings.TrimPrefix(base, "http://")
	}
	return base
}

// =============================================================================
// SAVE
// =============================================================================

// Save writes the configuration to the TOML config file.
func (c *Config) Save() error {
	if err := EnsureDir(); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	path, err := PathTOML()
	if err != nil {
		return err
	}

	var buf strings.Builder
	if err := toml.NewEncoder(&buf).Encode(c); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := util.AtomicWriteFile(path, []byte(buf.String()), 0o600); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
