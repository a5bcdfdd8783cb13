package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server ServerConfig `yaml:"server"`
	State  StateConfig  `yaml:"state"`
	UI     UIConfig     `yaml:"ui"`
}

type ServerConfig struct {
	BaseURL string `yaml:"base_url"`
	Timeout string `yaml:"timeout"`
}

type StateConfig struct {
	DatabasePath string `yaml:"database_path"`
}

type UIConfig struct {
	PageSize       int `yaml:"page_size"`
	SearchPageSize int `yaml:"search_page_size"`
}

// GetTimeout parses the request timeout string
func (s *ServerConfig) GetTimeout() (time.Duration, error) {
	return time.ParseDuration(s.Timeout)
}

// Load reads configuration from file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	// Expand home directory in database path
	if cfg.State.DatabasePath != "" {
		cfg.State.DatabasePath = expandPath(cfg.State.DatabasePath)
	}

	applyDefaults(&cfg)

	return &cfg, nil
}

// Default returns the configuration used when no config file exists.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

func applyDefaults(cfg *Config) {
	if cfg.Server.BaseURL == "" {
		cfg.Server.BaseURL = "http://localhost:3000/api"
	}
	if cfg.Server.Timeout == "" {
		cfg.Server.Timeout = "30s"
	}
	if cfg.State.DatabasePath == "" {
		cfg.State.DatabasePath = defaultDatabasePath()
	}
	if cfg.UI.PageSize == 0 {
		cfg.UI.PageSize = 9
	}
	if cfg.UI.SearchPageSize == 0 {
		cfg.UI.SearchPageSize = 12
	}
}

// Save writes configuration to file
func Save(cfg *Config, path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}

// expandPath expands ~ to home directory
func expandPath(path string) string {
	if len(path) > 0 && path[0] == '~' {
		home, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}

func defaultDatabasePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "newsdeck.db"
	}
	return filepath.Join(home, ".local", "share", "newsdeck", "newsdeck.db")
}

// DefaultConfigPath returns the default configuration file path
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "config.yaml"
	}
	return filepath.Join(home, ".config", "newsdeck", "config.yaml")
}
