package timeline

import (
	"log/slog"

	"cuetrack/internal/cue"
	"cuetrack/internal/logging"
)

// Track is the cue storage the reconciler appends to and mutates.
type Track interface {
	AddCue(c *cue.Cue)
	Cues() []*cue.Cue
}

// MediaSource supplies the media duration and the stream-ended signal.
type MediaSource interface {
	Duration() float64
	OnSourceEnded(fn func())
}

// Caption is one caption entry extracted from a segment.
type Caption struct {
	StartTime float64 `json:"start_time" yaml:"start_time"`
	EndTime   float64 `json:"end_time" yaml:"end_time"`
	Text      string  `json:"text" yaml:"text"`
}

// Metadata is one timed-metadata entry: the instant it applies to and the
// frames extracted at that instant.
type Metadata struct {
	CueTime float64     `json:"cue_time" yaml:"cue_time"`
	Frames  []cue.Frame `json:"frames" yaml:"frames"`
}

// SourceHandler is the per-session context the reconciler runs against.
// Nil tracks disable the corresponding inserter.
type SourceHandler struct {
	// TimestampOffset is added to every extracted timestamp.
	TimestampOffset float64
	InbandTextTrack Track
	MetadataTrack   Track
	MediaSource     MediaSource
	Deprecations    *cue.Deprecations
	Logger          *slog.Logger
}

// AddTextTrackData inserts the captions and metadata of one append into the
// handler's tracks, reconciles metadata end times, and arms the stream-ended
// fix-up for the metadata track.
func AddTextTrackData(h *SourceHandler, captions []Caption, metadata []Metadata) {
	if h == nil {
		return
	}
	logger := logging.NewComponentLogger(h.Logger, "timeline")

	if len(captions) > 0 && h.InbandTextTrack != nil {
		added := addCaptions(h.InbandTextTrack, h.TimestampOffset, captions)
		logger.Debug("caption cues added", logging.Int("cues", added))
	}

	if len(metadata) == 0 || h.MetadataTrack == nil {
		return
	}

	added := addMetadata(h.MetadataTrack, h.TimestampOffset, metadata, h.Deprecations)
	duration := mediaDuration(h.MediaSource)
	repaired := Reconcile(h.MetadataTrack, duration)
	if repaired {
		logger.Warn("metadata cues were out of start order; reconciled in sorted order",
			logging.String(logging.FieldTrack, "metadata"),
			logging.Alert("cue_order"),
		)
	}
	logger.Debug("metadata cues reconciled",
		logging.Int("added", added),
		logging.Int("cues", len(h.MetadataTrack.Cues())),
		logging.Float64("terminal", ResolveTerminal(duration)),
	)

	ArmTerminalFixup(h)
}
