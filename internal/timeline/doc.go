// Package timeline merges caption and timed-metadata cues produced by each
// media append into the tracks of a source handler.
//
// Metadata frames only carry the instant they were extracted at. After every
// append the metadata track is reconciled so each cue ends where the next one
// starts and the last cue ends at the media duration. Duration is often
// unknown at append time, in which case the last cue ends at Unbounded until
// the stream-ended signal supplies the real value.
//
// Everything here runs on the goroutine that owns the media pipeline.
package timeline
