// Package config handles eunoia configuration parsing and validation.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// FileName is the config file looked up by FindConfigFile.
const FileName = "eunoia.yaml"

// Config represents the eunoia.yaml configuration file.
type Config struct {
	Version   string          `yaml:"version"`
	Mode      string          `yaml:"mode"` // sample, user
	User      UserConfig      `yaml:"user"`
	Storage   StorageConfig   `yaml:"storage"`
	Gateway   GatewayConfig   `yaml:"gateway"`
	Habits    HabitsConfig    `yaml:"habits"`
	Reminders RemindersConfig `yaml:"reminders"`
	Server    ServerConfig    `yaml:"server"`
}

// UserConfig identifies the local user for CLI use.
type UserConfig struct {
	ID string `yaml:"id"`
}

// StorageConfig selects the key-value backend.
type StorageConfig struct {
	Backend string      `yaml:"backend"` // file, sqlite, redis, memory
	Path    string      `yaml:"path"`
	Redis   RedisConfig `yaml:"redis"`
}

// RedisConfig locates the cloud document store.
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// GatewayConfig controls the AI completion gateway.
type GatewayConfig struct {
	Kind      string   `yaml:"kind"` // http, container, stub
	Endpoint  string   `yaml:"endpoint"`
	Model     string   `yaml:"model"`
	APIKeyEnv string   `yaml:"api_key_env"`
	MaxTokens int      `yaml:"max_tokens"`
	Timeout   string   `yaml:"timeout"`
	Image     string   `yaml:"image"`
	Command   []string `yaml:"command,omitempty"`
	Memory    string   `yaml:"memory"`
	CPUs      string   `yaml:"cpus"`
	Network   string   `yaml:"network"` // bridge, none, host
}

// HabitsConfig holds habit streak behaviour.
type HabitsConfig struct {
	StreakPolicy string `yaml:"streak_policy"` // keep, reset
}

// RemindersConfig holds reminder listing behaviour.
type RemindersConfig struct {
	PastPolicy string `yaml:"past_policy"` // hide, purge
}

// ServerConfig controls the HTTP API.
type ServerConfig struct {
	Addr           string   `yaml:"addr"`
	AllowedOrigins []string `yaml:"allowed_origins,omitempty"`
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Version: "1.0",
		Mode:    "user",
		User: UserConfig{
			ID: "local",
		},
		Storage: StorageConfig{
			Backend: "file",
			Path:    ".eunoia/data",
			Redis: RedisConfig{
				Addr: "localhost:6379",
			},
		},
		Gateway: GatewayConfig{
			Kind:      "http",
			Endpoint:  "https://api.anthropic.com/v1/messages",
			Model:     "claude-3-5-haiku-latest",
			APIKeyEnv: "ANTHROPIC_API_KEY",
			MaxTokens: 1024,
			Timeout:   "30s",
			Image:     "eunoia/model-cli:latest",
			Command:   []string{"claude", "-p"},
			Memory:    "512m",
			CPUs:      "1",
			Network:   "bridge",
		},
		Habits: HabitsConfig{
			StreakPolicy: "keep",
		},
		Reminders: RemindersConfig{
			PastPolicy: "hide",
		},
		Server: ServerConfig{
			Addr: ":8080",
		},
	}
}

// Load reads and parses the eunoia.yaml config file.
func Load(path string) (*Config, error) {
	if path == "" {
		path = FileName
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	return cfg, nil
}

// Save writes the configuration to the specified path.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	validModes := map[string]bool{"sample": true, "user": true}
	if !validModes[c.Mode] {
		return fmt.Errorf("invalid mode: %s (must be sample or user)", c.Mode)
	}
	if c.Mode == "user" && c.User.ID == "" {
		return fmt.Errorf("user.id is required in user mode")
	}

	validBackends := map[string]bool{"file": true, "sqlite": true, "redis": true, "memory": true}
	if !validBackends[c.Storage.Backend] {
		return fmt.Errorf("invalid storage backend: %s (must be file, sqlite, redis, or memory)", c.Storage.Backend)
	}
	if (c.Storage.Backend == "file" || c.Storage.Backend == "sqlite") && c.Storage.Path == "" {
		return fmt.Errorf("storage.path is required for the %s backend", c.Storage.Backend)
	}
	if c.Storage.Backend == "redis" && c.Storage.Redis.Addr == "" {
		return fmt.Errorf("storage.redis.addr is required for the redis backend")
	}

	validGateways := map[string]bool{"http": true, "container": true, "stub": true}
	if !validGateways[c.Gateway.Kind] {
		return fmt.Errorf("invalid gateway: %s (must be http, container, or stub)", c.Gateway.Kind)
	}
	if c.Gateway.Kind == "container" {
		if c.Gateway.Image == "" {
			return fmt.Errorf("gateway.image is required for the container gateway")
		}
		if len(c.Gateway.Command) == 0 {
			return fmt.Errorf("gateway.command is required for the container gateway")
		}
		validNetworks := map[string]bool{"bridge": true, "none": true, "host": true}
		if !validNetworks[c.Gateway.Network] {
			return fmt.Errorf("invalid gateway.network: %s (must be bridge, none, or host)", c.Gateway.Network)
		}
	}
	if _, err := c.Gateway.TimeoutDuration(); err != nil {
		return fmt.Errorf("invalid gateway timeout: %w", err)
	}

	validStreak := map[string]bool{"keep": true, "reset": true}
	if !validStreak[c.Habits.StreakPolicy] {
		return fmt.Errorf("invalid habits.streak_policy: %s (must be keep or reset)", c.Habits.StreakPolicy)
	}

	validPast := map[string]bool{"hide": true, "purge": true}
	if !validPast[c.Reminders.PastPolicy] {
		return fmt.Errorf("invalid reminders.past_policy: %s (must be hide or purge)", c.Reminders.PastPolicy)
	}

	return nil
}

// TimeoutDuration parses Timeout. An empty value means no explicit bound.
func (g GatewayConfig) TimeoutDuration() (time.Duration, error) {
	if g.Timeout == "" {
		return 0, nil
	}
	return time.ParseDuration(g.Timeout)
}

// FindConfigFile searches for eunoia.yaml in current and parent directories.
func FindConfigFile() (string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}

	for dir := cwd; ; dir = filepath.Dir(dir) {
		configPath := filepath.Join(dir, FileName)
		if _, err := os.Stat(configPath); err == nil {
			return configPath, nil
		}

		if dir == filepath.Dir(dir) {
			break
		}
	}

	return "", fmt.Errorf("%s not found in %s or parent directories", FileName, cwd)
}
