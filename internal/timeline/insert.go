package timeline

import "cuetrack/internal/cue"

func addCaptions(track Track, offset float64, captions []Caption) int {
	for _, caption := range captions {
		track.AddCue(cue.New(
			caption.StartTime+offset,
			caption.EndTime+offset,
			caption.Text,
		))
	}
	return len(captions)
}

// addMetadata appends one point cue per frame; frames of an entry share its instant.
func addMetadata(track Track, offset float64, entries []Metadata, deprecations *cue.Deprecations) int {
	added := 0
	for _, entry := range entries {
		at := entry.CueTime + offset
		for _, frame := range entry.Frames {
			track.AddCue(cue.NewMetadata(at, frame, deprecations))
			added++
		}
	}
	return added
}
