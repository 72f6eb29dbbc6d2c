// Package sessionstore persists playback sessions in SQLite so cue timelines
// survive across CLI invocations.
//
// A session is a source-handler context: its timestamp offset, the media
// source duration and ready state, and the cues on its caption and metadata
// tracks. Load rebuilds live tracks and re-arms the stream-ended fix-up for
// the metadata track, so ending the stream in a later process still updates
// the terminal cue.
//
// Callers serialize access across processes with Lock. Schema changes bump
// schemaVersion; users delete the database to adopt the new schema.
package sessionstore
