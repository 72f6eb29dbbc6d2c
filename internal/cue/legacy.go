package cue

import (
	"log/slog"
	"sync"

	"cuetrack/internal/logging"
)

// WarnMode selects how often legacy accessor notices are logged.
type WarnMode string

const (
	WarnEvery WarnMode = "every"
	WarnOnce  WarnMode = "once"
	WarnOff   WarnMode = "off"
)

// ParseWarnMode maps a config value to a WarnMode, defaulting to WarnEvery.
func ParseWarnMode(value string) WarnMode {
	switch WarnMode(value) {
	case WarnOnce:
		return WarnOnce
	case WarnOff:
		return WarnOff
	default:
		return WarnEvery
	}
}

// Deprecations logs notices for legacy accessor use.
type Deprecations struct {
	logger *slog.Logger
	mode   WarnMode

	mu      sync.Mutex
	seen    map[string]struct{}
	emitted int
}

// NewDeprecations builds a notifier. A nil logger discards output but still
// counts notices.
func NewDeprecations(logger *slog.Logger, mode WarnMode) *Deprecations {
	return &Deprecations{
		logger: logging.NewComponentLogger(logger, "cue"),
		mode:   mode,
		seen:   make(map[string]struct{}),
	}
}

// Emitted returns the number of notices logged so far.
func (d *Deprecations) Emitted() int {
	if d == nil {
		return 0
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.emitted
}

func (d *Deprecations) warn(accessor, replacement string) {
	if d == nil || d.mode == WarnOff {
		return
	}
	d.mu.Lock()
	if d.mode == WarnOnce {
		if _, ok := d.seen[accessor]; ok {
			d.mu.Unlock()
			return
		}
		d.seen[accessor] = struct{}{}
	}
	d.emitted++
	d.mu.Unlock()

	d.logger.Warn(accessor+" is deprecated",
		logging.String("replacement", replacement),
		logging.Alert("deprecated_accessor"),
	)
}

// LegacyFrame is the old view of a metadata cue payload. Every accessor
// forwards to Cue.Value and never modifies it.
type LegacyFrame struct {
	cue *Cue
}

// ID returns Cue.Value.Key.
func (f LegacyFrame) ID() string {
	if payload := f.read("cue.frame.id", "cue.value.key"); payload != nil {
		return payload.Key
	}
	return ""
}

// Value returns Cue.Value.Data.
func (f LegacyFrame) Value() string {
	if payload := f.read("cue.frame.value", "cue.value.data"); payload != nil {
		return payload.Data
	}
	return ""
}

// PrivateData returns Cue.Value.Data.
func (f LegacyFrame) PrivateData() string {
	if payload := f.read("cue.frame.privateData", "cue.value.data"); payload != nil {
		return payload.Data
	}
	return ""
}

// read reports the accessor and returns the payload, nil for a nil cue or a
// cue without a frame.
func (f LegacyFrame) read(accessor, replacement string) *Frame {
	if f.cue == nil {
		return nil
	}
	f.cue.deprecations.warn(accessor, replacement)
	return f.cue.Value
}
