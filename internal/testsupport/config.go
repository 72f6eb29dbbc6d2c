package testsupport

import (
	"path/filepath"
	"testing"

	"cuetrack/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories per test.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.StateDir = filepath.Join(base, "state")
	cfg.Paths.LogDir = filepath.Join(base, "logs")

	for _, opt := range opts {
		opt(&cfg)
	}
	return &cfg
}

// WithDeprecationWarnings overrides the legacy accessor warning mode.
func WithDeprecationWarnings(mode string) ConfigOption {
	return func(c *config.Config) {
		c.Timeline.DeprecationWarnings = mode
	}
}

// WithMaxBatchBytes overrides the append batch size limit.
func WithMaxBatchBytes(limit int64) ConfigOption {
	return func(c *config.Config) {
		c.Ingest.MaxBatchBytes = limit
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.StateDir)
}
