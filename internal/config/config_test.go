// Copyright (c) 2025 Kindling Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault_IsValid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Errorf("Default() should validate, got %v", err)
	}
}

func TestLoadFromPath_TOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
version = "1"

[server]
base_url = "https://api.kindling.example"
timeout_secs = 10

[ui]
theme = "dark"
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath: %v", err)
	}
	if cfg.Server.BaseURL != "https://api.kindling.example" {
		t.Errorf("BaseURL = %q", cfg.Server.BaseURL)
	}
	if cfg.Server.TimeoutSecs != 10 {
		t.Errorf("TimeoutSecs = %d, want 10", cfg.Server.TimeoutSecs)
	}
	if cfg.UI.Theme != "dark" {
		t.Errorf("Theme = %q, want dark", cfg.UI.Theme)
	}
	// Unset fields get defaults.
	if cfg.Discovery.BatchSize != 10 {
		t.Errorf("BatchSize default = %d, want 10", cfg.Discovery.BatchSize)
	}
}

func TestLoadFromPath_JSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	content := `{"server": {"base_url": "http://localhost:9000"}}`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath: %v", err)
	}
	if cfg.Server.BaseURL != "http://localhost:9000" {
		t.Errorf("BaseURL = %q", cfg.Server.BaseURL)
	}
}

func TestApplyEnvOverrides(t *testing.T) {
	t.Setenv("KINDLING_SERVER_URL", "https://staging.kindling.example")
	t.Setenv("KINDLING_TIMEOUT_SECS", "5")
	t.Setenv("KINDLING_THEME", "light")

	cfg := Default()
	cfg.ApplyEnvOverrides()

	if cfg.Server.BaseURL != "https://staging.kindling.example" {
		t.Errorf("BaseURL = %q", cfg.Server.BaseURL)
	}
	if cfg.Server.TimeoutSecs != 5 {
		t.Errorf("TimeoutSecs = %d, want 5", cfg.Server.TimeoutSecs)
	}
	if cfg.UI.Theme != "light" {
		t.Errorf("Theme = %q, want light", cfg.UI.Theme)
	}
}

func TestValidate_Rejections(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty base url", func(c *Config) { c.Server.BaseURL = "" }},
		{"bad scheme", func(c *Config) { c.Server.BaseURL = "ftp://example.com" }},
		{"ws scheme on rest url", func(c *Config) { c.Server.BaseURL = "ws://example.com" }},
		{"realtime http scheme", func(c *Config) { c.Server.RealtimeURL = "http://example.com" }},
		{"zero timeout", func(c *Config) { c.Server.TimeoutSecs = 0 }},
		{"huge batch", func(c *Config) { c.Discovery.BatchSize = 500 }},
		{"unknown theme", func(c *Config) { c.UI.Theme = "solarized" }},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("Validate() should fail")
			}
		})
	}
}

func TestEffectiveRealtimeURL(t *testing.T) {
	tests := []struct {
		base, realtime, want string
	}{
		{"http://localhost:8000", "", "ws://localhost:8000"},
		{"https://api.kindling.example", "", "wss://api.kindling.example"},
		{"http://localhost:8000", "wss://rt.kindling.example", "wss://rt.kindling.example"},
	}

	for _, tc := range tests {
		cfg := Default()
		cfg.Server.BaseURL = tc.base
		cfg.Server.RealtimeURL = tc.realtime
		if got := cfg.EffectiveRealtimeURL(); got != tc.want {
			t.Errorf("EffectiveRealtimeURL(%q, %q) = %q, want %q", tc.base, tc.realtime, got, tc.want)
		}
	}
}
