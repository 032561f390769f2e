// Package config loads the console configuration from a YAML file with an
// environment overlay.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config is the top-level application configuration.
type Config struct {
	// Listen is the HTTP listen address for the local console.
	Listen string `yaml:"listen"`

	// APIBase is the base URL of the remote scheduling service.
	APIBase string `yaml:"api_base"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level"`

	// RequestTimeoutSeconds bounds every request to the service.
	RequestTimeoutSeconds int `yaml:"request_timeout_seconds"`
}

// Default returns the in-memory default configuration.
func Default() *Config {
	return &Config{
		Listen:                "127.0.0.1:8082",
		APIBase:               "http://localhost:3000",
		LogLevel:              "info",
		RequestTimeoutSeconds: 30,
	}
}

// Load reads the configuration from path. On first run the default config
// is written there with 0600 permissions and returned. Environment
// variables (optionally from a .env file) override file values afterwards.
func Load(path string) (*Config, error) {
	cfg, err := loadFile(path)
	if err != nil {
		return nil, err
	}
	ApplyEnv(cfg)
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		cfg := Default()
		if err := save(path, cfg); err != nil {
			return nil, err
		}
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

// ApplyEnv overlays SLOTSYNC_* environment variables onto cfg. A .env file
// in the working directory is loaded first when present.
func ApplyEnv(cfg *Config) {
	_ = godotenv.Load()

	if v := os.Getenv("SLOTSYNC_LISTEN"); v != "" {
		cfg.Listen = v
	}
	if v := os.Getenv("SLOTSYNC_API_BASE"); v != "" {
		cfg.APIBase = v
	}
	if v := os.Getenv("SLOTSYNC_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
}

func save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return fmt.Errorf("create config dir: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

func (c *Config) validate() error {
	if c.Listen == "" {
		return errors.New("config: listen address is empty")
	}
	if c.APIBase == "" {
		return errors.New("config: api_base is empty")
	}
	if c.RequestTimeoutSeconds <= 0 {
		return errors.New("config: request_timeout_seconds must be positive")
	}
	return nil
}
