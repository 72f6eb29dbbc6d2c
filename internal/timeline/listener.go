package timeline

import "cuetrack/internal/logging"

// ArmTerminalFixup registers a stream-ended listener that ends the metadata
// track's last cue at the duration known when the signal fires. The cue is
// looked up at signal time, so cues appended after arming are covered.
// Repeated firings assign the same value.
func ArmTerminalFixup(h *SourceHandler) {
	if h == nil || h.MetadataTrack == nil || h.MediaSource == nil {
		return
	}
	track, source := h.MetadataTrack, h.MediaSource
	logger := logging.NewComponentLogger(h.Logger, "timeline")

	source.OnSourceEnded(func() {
		last := lastByStart(track)
		if last == nil {
			return
		}
		last.EndTime = ResolveTerminal(source.Duration())
		logger.Debug("terminal cue end updated", logging.Float64("end_time", last.EndTime))
	})
}
