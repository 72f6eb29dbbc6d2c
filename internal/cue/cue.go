package cue

import (
	"github.com/google/uuid"
)

// Frame is a single ID3-style metadata record extracted from the media stream.
// Data holds the raw frame payload; binary payloads are stored byte-for-byte.
type Frame struct {
	Key         string `json:"key,omitempty" yaml:"key,omitempty"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	Owner       string `json:"owner,omitempty" yaml:"owner,omitempty"`
	Value       string `json:"value,omitempty" yaml:"value,omitempty"`
	URL         string `json:"url,omitempty" yaml:"url,omitempty"`
	Data        string `json:"data,omitempty" yaml:"data,omitempty"`
}

// DisplayText returns the first non-empty of Value, URL and Data.
func (f Frame) DisplayText() string {
	switch {
	case f.Value != "":
		return f.Value
	case f.URL != "":
		return f.URL
	default:
		return f.Data
	}
}

// Cue is a timed interval on a track. Only EndTime changes after creation.
type Cue struct {
	ID        string
	StartTime float64
	EndTime   float64
	Text      string
	// Value is the frame payload of a metadata cue; nil for caption cues.
	Value *Frame

	deprecations *Deprecations
}

// New returns a caption-style cue spanning [start, end].
func New(start, end float64, text string) *Cue {
	return &Cue{
		ID:        uuid.NewString(),
		StartTime: start,
		EndTime:   end,
		Text:      text,
	}
}

// NewMetadata returns a point cue at the given instant carrying a copy of frame.
// Legacy accessor use is reported to deprecations; nil discards the notices.
func NewMetadata(at float64, frame Frame, deprecations *Deprecations) *Cue {
	payload := frame
	return &Cue{
		ID:           uuid.NewString(),
		StartTime:    at,
		EndTime:      at,
		Text:         frame.DisplayText(),
		Value:        &payload,
		deprecations: deprecations,
	}
}

// IsMetadata reports whether the cue carries a frame payload.
func (c *Cue) IsMetadata() bool {
	return c != nil && c.Value != nil
}

// Frame returns the legacy view of the cue payload. A nil cue yields a view
// whose accessors return "".
func (c *Cue) Frame() LegacyFrame {
	return LegacyFrame{cue: c}
}
