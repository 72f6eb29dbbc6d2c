// Package config loads, normalizes, and validates cuetrack configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours the CUETRACK_STATE_DIR fallback.
// The Config type centralizes the knobs the CLI needs: where sessions are
// persisted, how logs are shaped, and how the cue reconciler reports legacy
// accessor use.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
