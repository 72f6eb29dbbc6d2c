package config

import (
	"errors"
	"fmt"
	"math"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	if err := c.validateTimeline(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePaths() error {
	if c.Paths.StateDir == "" {
		return errors.New("paths.state_dir must be set")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q (want console or json)", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	return nil
}

func (c *Config) validateTimeline() error {
	switch c.Timeline.DeprecationWarnings {
	case "every", "once", "off":
	default:
		return fmt.Errorf("timeline.deprecation_warnings: unsupported value %q (want every, once, or off)", c.Timeline.DeprecationWarnings)
	}
	if math.IsNaN(c.Timeline.DefaultTimeBase) || math.IsInf(c.Timeline.DefaultTimeBase, 0) {
		return errors.New("timeline.default_time_base must be a finite number")
	}
	return nil
}
