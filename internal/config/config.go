// Package config resolves ireul configuration from flags, environment
// variables, and an optional config file.
package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// Config is the resolved configuration for a run.
type Config struct {
	Provider string `json:"provider" mapstructure:"provider"`
	Model    string `json:"model" mapstructure:"model"`
	APIKey   string `json:"api_key" mapstructure:"api_key"`

	// DataDir roots all per-user state: prompts, personas, sessions.
	DataDir string `json:"data_dir" mapstructure:"data_dir"`

	Logging LoggingConfig `json:"logging" mapstructure:"logging"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `json:"level" mapstructure:"level"`
	Pretty bool   `json:"pretty" mapstructure:"pretty"`
}

// DefaultConfig returns a config with default values.
func DefaultConfig() *Config {
	return &Config{
		Provider: "openai",
		Logging: LoggingConfig{
			Level:  "info",
			Pretty: true,
		},
	}
}

// DefaultDataDir resolves ~/.ireul.
func DefaultDataDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".ireul"), nil
}

// Validate checks the configuration for consistency.
func (c *Config) Validate() error {
	switch c.Provider {
	case "anthropic", "openai", "google":
	default:
		return fmt.Errorf("unsupported provider: %s", c.Provider)
	}
	return nil
}
