package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Version != "1.0" {
		t.Errorf("expected version 1.0, got %s", cfg.Version)
	}

	if cfg.Storage.Backend != "file" {
		t.Errorf("expected backend file, got %s", cfg.Storage.Backend)
	}

	if cfg.Gateway.Kind != "http" {
		t.Errorf("expected gateway http, got %s", cfg.Gateway.Kind)
	}

	if cfg.Habits.StreakPolicy != "keep" {
		t.Errorf("expected streak policy keep, got %s", cfg.Habits.StreakPolicy)
	}

	if cfg.Reminders.PastPolicy != "hide" {
		t.Errorf("expected past policy hide, got %s", cfg.Reminders.PastPolicy)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr bool
	}{
		{
			name:    "valid default config",
			modify:  func(c *Config) {},
			wantErr: false,
		},
		{
			name:    "invalid mode",
			modify:  func(c *Config) { c.Mode = "demo" },
			wantErr: true,
		},
		{
			name:    "user mode without user id",
			modify:  func(c *Config) { c.User.ID = "" },
			wantErr: true,
		},
		{
			name:    "sample mode without user id",
			modify:  func(c *Config) { c.Mode = "sample"; c.User.ID = "" },
			wantErr: false,
		},
		{
			name:    "invalid backend",
			modify:  func(c *Config) { c.Storage.Backend = "dynamo" },
			wantErr: true,
		},
		{
			name:    "sqlite without path",
			modify:  func(c *Config) { c.Storage.Backend = "sqlite"; c.Storage.Path = "" },
			wantErr: true,
		},
		{
			name:    "redis without addr",
			modify:  func(c *Config) { c.Storage.Backend = "redis"; c.Storage.Redis.Addr = "" },
			wantErr: true,
		},
		{
			name:    "invalid gateway",
			modify:  func(c *Config) { c.Gateway.Kind = "grpc" },
			wantErr: true,
		},
		{
			name:    "invalid timeout",
			modify:  func(c *Config) { c.Gateway.Timeout = "soon" },
			wantErr: true,
		},
		{
			name:    "container gateway",
			modify:  func(c *Config) { c.Gateway.Kind = "container" },
			wantErr: false,
		},
		{
			name:    "container gateway without command",
			modify:  func(c *Config) { c.Gateway.Kind = "container"; c.Gateway.Command = nil },
			wantErr: true,
		},
		{
			name:    "container gateway invalid network",
			modify:  func(c *Config) { c.Gateway.Kind = "container"; c.Gateway.Network = "overlay" },
			wantErr: true,
		},
		{
			name:    "invalid streak policy",
			modify:  func(c *Config) { c.Habits.StreakPolicy = "forgive" },
			wantErr: true,
		},
		{
			name:    "invalid past policy",
			modify:  func(c *Config) { c.Reminders.PastPolicy = "archive" },
			wantErr: true,
		},
		{
			name:    "valid stub gateway with reset streaks",
			modify:  func(c *Config) { c.Gateway.Kind = "stub"; c.Habits.StreakPolicy = "reset" },
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(cfg)

			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestTimeoutDuration(t *testing.T) {
	g := GatewayConfig{Timeout: "45s"}
	d, err := g.TimeoutDuration()
	if err != nil {
		t.Fatalf("TimeoutDuration() error = %v", err)
	}
	if d != 45*time.Second {
		t.Errorf("expected 45s, got %s", d)
	}

	d, err = GatewayConfig{}.TimeoutDuration()
	if err != nil || d != 0 {
		t.Errorf("expected zero timeout for empty value, got %s (%v)", d, err)
	}
}

func TestLoadAndSave(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, FileName)

	cfg := DefaultConfig()
	cfg.User.ID = "ada"
	cfg.Storage.Backend = "sqlite"

	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if loaded.User.ID != "ada" {
		t.Errorf("expected user id ada, got %s", loaded.User.ID)
	}
	if loaded.Storage.Backend != "sqlite" {
		t.Errorf("expected backend sqlite, got %s", loaded.Storage.Backend)
	}
}

func TestLoadPartialKeepsDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, FileName)
	if err := os.WriteFile(path, []byte("habits:\n  streak_policy: reset\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Habits.StreakPolicy != "reset" {
		t.Errorf("expected streak policy reset, got %s", cfg.Habits.StreakPolicy)
	}
	if cfg.Gateway.Timeout != "30s" {
		t.Errorf("expected default timeout 30s, got %s", cfg.Gateway.Timeout)
	}
}

func TestLoadNonExistent(t *testing.T) {
	cfg, err := Load("/nonexistent/path/eunoia.yaml")
	if err != nil {
		t.Fatalf("Load() should not error for missing file, got %v", err)
	}

	if cfg.Mode != "user" {
		t.Errorf("expected default mode user, got %s", cfg.Mode)
	}
}

func TestFindConfigFile(t *testing.T) {
	dir := t.TempDir()
	subdir := filepath.Join(dir, "subdir")
	if err := os.MkdirAll(subdir, 0755); err != nil {
		t.Fatal(err)
	}

	configPath := filepath.Join(dir, FileName)
	if err := os.WriteFile(configPath, []byte("version: '1.0'"), 0644); err != nil {
		t.Fatal(err)
	}

	origDir, _ := os.Getwd()
	defer os.Chdir(origDir)

	if err := os.Chdir(subdir); err != nil {
		t.Fatal(err)
	}

	found, err := FindConfigFile()
	if err != nil {
		t.Fatalf("FindConfigFile() error = %v", err)
	}

	if found != configPath {
		t.Errorf("expected %s, got %s", configPath, found)
	}
}
