// Package config defines service configuration structures and loading hooks.
//
// Conventions:
//   - New returns a Config populated with defaults.
//   - Load layers a YAML file and environment variables on top of New.
//   - Errors are wrapped with this package's sentinel kinds.
package config

import (
	"fmt"

	"github.com/okian/tapcheck/internal/domain/classifier"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":9081".
	Addr string `koanf:"addr"`

	// Classifier names the installed classifier variant.
	Classifier string `koanf:"classifier"`

	// MetricsEnabled toggles Prometheus recording.
	MetricsEnabled bool `koanf:"metrics_enabled"`

	// Tolerances for the rule classifier, flattened into the top level.
	Tolerances classifier.Config `koanf:",squash"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:       "info",
		Addr:           ":9081",
		Classifier:     classifier.SimpleName,
		MetricsEnabled: true,
		Tolerances:     classifier.DefaultConfig(),
	}
}

// Validate checks the settings that cannot be corrected later.
func (c *Config) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	}
	if err := c.Tolerances.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}
