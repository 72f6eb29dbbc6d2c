// Package logging assembles structured slog loggers and formatting helpers used
// across cuetrack.
//
// It owns the configurable console/JSON handlers, centralizes level and output
// plumbing, and exposes context-aware helpers so commands can tag log lines
// with the playback session they operate on. The package also provides a
// no-op logger for tests and wiring code that cannot fail.
package logging
