// Package ingest reads append batches from disk: JSON or YAML files holding
// already-extracted captions and timed-metadata entries, and SRT caption
// files. Text is decoded as UTF-8 or, when a byte order mark says so, UTF-16.
package ingest
