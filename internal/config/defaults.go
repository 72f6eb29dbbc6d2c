package config

const (
	defaultStateDir            = "~/.local/share/cuetrack"
	defaultLogDir              = "~/.local/share/cuetrack/logs"
	defaultLogFormat           = "console"
	defaultLogLevel            = "info"
	defaultDeprecationWarnings = "every"
	defaultMaxBatchBytes       = 16 << 20
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			StateDir: defaultStateDir,
			LogDir:   defaultLogDir,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
		Timeline: Timeline{
			DeprecationWarnings: defaultDeprecationWarnings,
		},
		Ingest: Ingest{
			MaxBatchBytes: defaultMaxBatchBytes,
		},
	}
}
