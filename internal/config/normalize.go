package config

import (
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeDataset()
	c.normalizeProcessing()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	if override := strings.TrimSpace(os.Getenv("CHORUS_STATE_DIR")); override != "" {
		c.Paths.StateDir = override
	}

	expandedState, err := expandPath(c.Paths.StateDir)
	if err != nil {
		return err
	}
	c.Paths.StateDir = expandedState

	if strings.TrimSpace(c.Paths.LogDir) != "" {
		expandedLog, err := expandPath(c.Paths.LogDir)
		if err != nil {
			return err
		}
		c.Paths.LogDir = expandedLog
	}
	return nil
}

func (c *Config) normalizeDataset() {
	if strings.TrimSpace(c.Dataset.AudioDir) == "" {
		c.Dataset.AudioDir = defaultAudioDir
	}
	if strings.TrimSpace(c.Dataset.ReferencesDir) == "" {
		c.Dataset.ReferencesDir = defaultReferencesDir
	}
	if strings.TrimSpace(c.Dataset.EstimationsDir) == "" {
		c.Dataset.EstimationsDir = defaultEstimationsDir
	}
}

func (c *Config) normalizeProcessing() {
	c.Processing.Feature = strings.ToLower(strings.TrimSpace(c.Processing.Feature))
	if c.Processing.Feature == "" {
		c.Processing.Feature = defaultFeature
	}
	c.Processing.BoundariesID = strings.TrimSpace(c.Processing.BoundariesID)
	if c.Processing.BoundariesID == "" {
		c.Processing.BoundariesID = defaultBoundariesID
	}
	c.Processing.LabelsID = strings.TrimSpace(c.Processing.LabelsID)
	if c.Processing.Workers <= 0 {
		c.Processing.Workers = defaultWorkers
	}
}

func (c *Config) normalizeLogging() {
	if override := strings.TrimSpace(os.Getenv("CHORUS_LOG_LEVEL")); override != "" {
		c.Logging.Level = override
	}
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
