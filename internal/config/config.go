// Package config loads the bot's runtime configuration from a YAML (or
// JSON) file, with environment variable overrides for deployment secrets.
package config

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config is the full runtime configuration.
type Config struct {
	LogLevel string     `yaml:"log_level" json:"log_level"`
	HTTP     HTTPConfig `yaml:"http" json:"http"`
	State    State      `yaml:"state" json:"state"`
}

// HTTPConfig configures the HTTP adapter.
type HTTPConfig struct {
	Address string `yaml:"address" json:"address"`
}

// State configures where conversation and user state live.
type State struct {
	// Backend selects the store: "memory", "file", or "redis".
	Backend string `yaml:"backend" json:"backend"`

	// Path is the base directory for the file backend.
	Path string `yaml:"path" json:"path"`

	Redis RedisConfig `yaml:"redis" json:"redis"`

	// EncryptionKey is a base64-encoded 32-byte key. When set, records are
	// encrypted before they reach the backend.
	EncryptionKey string `yaml:"encryption_key" json:"encryption_key"`
}

// RedisConfig configures the redis backend.
type RedisConfig struct {
	Address  string `yaml:"address" json:"address"`
	Password string `yaml:"password" json:"password"`
	DB       int    `yaml:"db" json:"db"`

	// Lock enables distributed per-conversation locking.
	Lock bool `yaml:"lock" json:"lock"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		LogLevel: "info",
		HTTP:     HTTPConfig{Address: ":3978"},
		State:    State{Backend: "memory"},
	}
}

// Load reads the configuration file at path. A missing file yields the
// defaults; a present but malformed file is an error. Environment overrides
// are applied last.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			applyEnv(&cfg)
			return cfg, nil
		}
		return Config{}, fmt.Errorf("failed to read config: %w", err)
	}

	if strings.ToLower(filepath.Ext(path)) == ".json" {
		if err := json.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("failed to parse config: %w", err)
		}
	} else {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	applyEnv(&cfg)
	return cfg, nil
}

// applyEnv overrides file values with environment variables, so secrets can
// stay out of the config file.
func applyEnv(cfg *Config) {
	if v := os.Getenv("BOTPLAYGROUND_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("BOTPLAYGROUND_HTTP_ADDRESS"); v != "" {
		cfg.HTTP.Address = v
	}
	if v := os.Getenv("BOTPLAYGROUND_STATE_BACKEND"); v != "" {
		cfg.State.Backend = v
	}
	if v := os.Getenv("BOTPLAYGROUND_REDIS_ADDRESS"); v != "" {
		cfg.State.Redis.Address = v
	}
	if v := os.Getenv("BOTPLAYGROUND_REDIS_PASSWORD"); v != "" {
		cfg.State.Redis.Password = v
	}
	if v := os.Getenv("BOTPLAYGROUND_STATE_ENCRYPTION_KEY"); v != "" {
		cfg.State.EncryptionKey = v
	}
}

// DecodeEncryptionKey decodes and validates the configured key.
func (s State) DecodeEncryptionKey() ([]byte, error) {
	if s.EncryptionKey == "" {
		return nil, nil
	}
	key, err := base64.StdEncoding.DecodeString(s.EncryptionKey)
	if err != nil {
		return nil, fmt.Errorf("encryption key is not valid base64: %w", err)
	}
	if len(key) != 32 {
		return nil, fmt.Errorf("encryption key must decode to 32 bytes, got %d", len(key))
	}
	return key, nil
}
