package config

import (
	"fmt"
	"os"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Storage StorageConfig `yaml:"storage"`
	Fetch   FetchConfig   `yaml:"fetch"`
	History HistoryConfig `yaml:"history"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Host         string        `yaml:"host" envconfig:"SERVER_HOST" default:"0.0.0.0"`
	Port         int           `yaml:"port" envconfig:"SERVER_PORT" default:"8080"`
	ReadTimeout  time.Duration `yaml:"read_timeout" envconfig:"SERVER_READ_TIMEOUT" default:"30s"`
	WriteTimeout time.Duration `yaml:"write_timeout" envconfig:"SERVER_WRITE_TIMEOUT" default:"5m"`
}

// StorageConfig holds filesystem storage configuration. Finished files live
// under BasePath in per-session subdirectories.
type StorageConfig struct {
	BasePath string `yaml:"base_path" envconfig:"STORAGE_PATH" default:"downloads"`
}

// FetchConfig holds fetch collaborator configuration.
type FetchConfig struct {
	ProgressInterval time.Duration `yaml:"progress_interval" envconfig:"FETCH_PROGRESS_INTERVAL" default:"500ms"`
}

// HistoryConfig holds the optional job history archive configuration.
// Disabled by default: the live registry is in-memory only.
type HistoryConfig struct {
	Enabled bool   `yaml:"enabled" envconfig:"HISTORY_ENABLED" default:"false"`
	Path    string `yaml:"path" envconfig:"HISTORY_PATH" default:"data/history.db"`
}

// Load reads configuration from file and environment variables.
// Environment variables override file values.
func Load(configPath string) (*Config, error) {
	cfg := &Config{}

	// Load from YAML file if provided
	if configPath != "" {
		data, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
	}

	// Override with environment variables
	if err := envconfig.Process("", cfg); err != nil {
		return nil, fmt.Errorf("process environment: %w", err)
	}

	// Validate
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return cfg, nil
}

// Validate checks that required configuration values are set.
func (c *Config) Validate() error {
	if c.Storage.BasePath == "" {
		return fmt.Errorf("STORAGE_PATH is required")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("SERVER_PORT must be in (0, 65535]")
	}
	if c.History.Enabled && c.History.Path == "" {
		return fmt.Errorf("HISTORY_PATH is required when history is enabled")
	}
	return nil
}

// Address returns the server address in host:port format.
func (c *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
