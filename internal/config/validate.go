package config

import (
	"fmt"
	"strings"
)

// Validate checks configuration invariants after normalization.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Paths.StateDir) == "" {
		return fmt.Errorf("paths.state_dir must not be empty")
	}

	if !ValidFeature(c.Processing.Feature) {
		return fmt.Errorf("processing.feature: unsupported value %q (choose one of %s)",
			c.Processing.Feature, strings.Join(Features, ", "))
	}
	if c.Processing.Workers < 1 {
		return fmt.Errorf("processing.workers must be at least 1, got %d", c.Processing.Workers)
	}

	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}

	return nil
}

// ValidFeature reports whether feature is one of the supported
// feature-extraction flavors.
func ValidFeature(feature string) bool {
	for _, known := range Features {
		if feature == known {
			return true
		}
	}
	return false
}
