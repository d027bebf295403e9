package cli

import (
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// Output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// Config holds the settings shared by every command.
//
// Values are layered: built-in defaults, then the YAML config file, then
// SIMTRACE_* environment variables, then command-line flags.
type Config struct {
	Database    string `yaml:"database" env:"SIMTRACE_DB"`
	LogLevel    string `yaml:"log_level" env:"SIMTRACE_LOG_LEVEL"`
	Format      string `yaml:"format" env:"SIMTRACE_FORMAT"`
	Compression string `yaml:"compression" env:"SIMTRACE_COMPRESSION"`
	// Heartbeat overrides the trace heartbeat when not negative.
	Heartbeat int `yaml:"heartbeat" env:"SIMTRACE_HEARTBEAT"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		LogLevel:    "warn",
		Format:      FormatText,
		Compression: "zlib",
		Heartbeat:   -1,
	}
}

// LoadConfig builds the configuration from defaults, the YAML file at path
// (skipped when path is empty) and the environment.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config: %w", err)
		}
	}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	return cfg, nil
}

// Validate checks the values that are not validated by the engine.
func (c *Config) Validate() error {
	if c.Format != FormatText && c.Format != FormatJSON {
		return fmt.Errorf("invalid format %q: must be one of [%s %s]", c.Format, FormatText, FormatJSON)
	}

	return nil
}
