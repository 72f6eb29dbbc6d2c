// Package cue defines the timed cues stored on text tracks and the ID3-style
// frames that metadata cues carry.
//
// Metadata cues expose their frame through Cue.Value. The older accessors
// (frame id, value and private data) remain available through Cue.Frame,
// which forwards to the modern fields and reports each use to a
// Deprecations notifier.
package cue
