// Package texttrack stores the cues attached to a media element.
//
// A Track keeps its cue list ordered by start time. Cues with equal start
// times keep their insertion order, so frames from a single metadata entry
// stay in the order they were extracted. A Track is not safe for concurrent
// use; it belongs to the goroutine that owns the media pipeline.
package texttrack

import (
	"sort"

	"cuetrack/internal/cue"
)

// Kind identifies the role of a track.
type Kind string

const (
	KindCaptions Kind = "captions"
	KindMetadata Kind = "metadata"
)

// MetadataLabel is the label given to in-band timed metadata tracks.
const MetadataLabel = "Timed Metadata"

// Track is an ordered cue container.
type Track struct {
	Kind  Kind
	Label string

	cues []*cue.Cue
}

// New returns an empty track.
func New(kind Kind, label string) *Track {
	return &Track{Kind: kind, Label: label}
}

// AddCue inserts c after every cue whose start time is not greater than its own.
func (t *Track) AddCue(c *cue.Cue) {
	if c == nil {
		return
	}
	idx := sort.Search(len(t.cues), func(i int) bool {
		return t.cues[i].StartTime > c.StartTime
	})
	if idx == len(t.cues) {
		t.cues = append(t.cues, c)
		return
	}
	t.cues = append(t.cues, nil)
	copy(t.cues[idx+1:], t.cues[idx:])
	t.cues[idx] = c
}

// Cues returns the live cue list. Callers may mutate EndTime on the returned
// cues but must not reorder the slice.
func (t *Track) Cues() []*cue.Cue {
	return t.cues
}

// Len returns the number of cues.
func (t *Track) Len() int {
	return len(t.cues)
}

// Last returns the cue with the latest start time, or nil for an empty track.
func (t *Track) Last() *cue.Cue {
	if len(t.cues) == 0 {
		return nil
	}
	return t.cues[len(t.cues)-1]
}
