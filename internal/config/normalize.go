package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeLogging()
	c.normalizeTimeline()
	c.normalizeIngest()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.StateDir) == "" {
		if value, ok := os.LookupEnv("CUETRACK_STATE_DIR"); ok && strings.TrimSpace(value) != "" {
			c.Paths.StateDir = strings.TrimSpace(value)
		} else {
			c.Paths.StateDir = defaultStateDir
		}
	}
	if c.Paths.StateDir, err = expandPath(c.Paths.StateDir); err != nil {
		return fmt.Errorf("paths.state_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(strings.TrimSpace(c.Paths.LogDir)); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}

func (c *Config) normalizeTimeline() {
	c.Timeline.DeprecationWarnings = strings.ToLower(strings.TrimSpace(c.Timeline.DeprecationWarnings))
	if c.Timeline.DeprecationWarnings == "" {
		c.Timeline.DeprecationWarnings = defaultDeprecationWarnings
	}
}

func (c *Config) normalizeIngest() {
	if c.Ingest.MaxBatchBytes <= 0 {
		c.Ingest.MaxBatchBytes = defaultMaxBatchBytes
	}
}
