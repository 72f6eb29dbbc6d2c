package timeline

import (
	"cmp"
	"math"
	"slices"

	"cuetrack/internal/cue"
)

// Unbounded is the end time given to the last cue while the media duration is
// unknown. It is finite so consumers that reject infinities accept it.
const Unbounded = math.MaxFloat64

// ResolveTerminal maps a media duration to the end time of the last cue.
func ResolveTerminal(duration float64) float64 {
	if math.IsNaN(duration) || math.IsInf(duration, 0) {
		return Unbounded
	}
	return math.Min(duration, Unbounded)
}

// Reconcile makes every metadata cue end where the next one starts and ends
// the last cue at ResolveTerminal(duration). It reports whether the track
// returned its cues out of start order, in which case the cues were
// reconciled in stable start order instead.
func Reconcile(track Track, duration float64) bool {
	if track == nil {
		return false
	}
	cues, repaired := ordered(track.Cues())
	if len(cues) == 0 {
		return repaired
	}
	for i := 0; i < len(cues)-1; i++ {
		cues[i].EndTime = cues[i+1].StartTime
	}
	cues[len(cues)-1].EndTime = ResolveTerminal(duration)
	return repaired
}

func ordered(cues []*cue.Cue) ([]*cue.Cue, bool) {
	if slices.IsSortedFunc(cues, byStart) {
		return cues, false
	}
	sorted := slices.Clone(cues)
	slices.SortStableFunc(sorted, byStart)
	return sorted, true
}

func byStart(a, b *cue.Cue) int {
	return cmp.Compare(a.StartTime, b.StartTime)
}

func lastByStart(track Track) *cue.Cue {
	cues, _ := ordered(track.Cues())
	if len(cues) == 0 {
		return nil
	}
	return cues[len(cues)-1]
}

func mediaDuration(source MediaSource) float64 {
	if source == nil {
		return math.NaN()
	}
	return source.Duration()
}
