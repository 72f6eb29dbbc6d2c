// Package main hosts the cuetrack CLI entrypoint and command graph.
//
// Each invocation takes the session store lock, loads one session, applies a
// single operation (append a batch, set the duration, signal end of stream)
// and saves it back. Stream-ended listeners are re-armed on load, so an
// `end` issued by a later process still fixes up the final metadata cue.
package main
