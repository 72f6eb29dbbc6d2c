// Package mediasource models the media-source side of a playback session: the
// total media duration and the stream-ended signal.
//
// Duration starts unknown (NaN) and usually becomes authoritative only when
// the owner calls EndOfStream. Listeners registered with OnSourceEnded run
// synchronously inside EndOfStream, in registration order. They are never
// removed, so a source that is reopened and ended again fires them again.
// A MediaSource is not safe for concurrent use.
package mediasource

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidDuration is returned when a duration is negative.
var ErrInvalidDuration = errors.New("invalid media duration")

// ReadyState mirrors the lifecycle of a media source.
type ReadyState string

const (
	StateOpen  ReadyState = "open"
	StateEnded ReadyState = "ended"
)

// MediaSource holds the duration and stream lifecycle of one session.
type MediaSource struct {
	duration  float64
	state     ReadyState
	listeners []func()
}

// New returns an open media source with an unknown duration.
func New() *MediaSource {
	return &MediaSource{duration: math.NaN(), state: StateOpen}
}

// Restore rebuilds a media source from persisted values without firing listeners.
func Restore(duration float64, state ReadyState) *MediaSource {
	if state != StateEnded {
		state = StateOpen
	}
	return &MediaSource{duration: duration, state: state}
}

// Duration returns the media duration in seconds. NaN and ±Inf mean unknown.
func (m *MediaSource) Duration() float64 {
	return m.duration
}

// SetDuration records a new duration. NaN returns the duration to unknown and
// +Inf marks a live stream; negative values, -Inf included, are rejected.
func (m *MediaSource) SetDuration(seconds float64) error {
	if seconds < 0 {
		return fmt.Errorf("%w: %v", ErrInvalidDuration, seconds)
	}
	m.duration = seconds
	return nil
}

// ReadyState reports whether the stream is still accepting data.
func (m *MediaSource) ReadyState() ReadyState {
	return m.state
}

// Open moves an ended source back to the open state, as happens when data is
// appended after the end of stream was signaled.
func (m *MediaSource) Open() {
	m.state = StateOpen
}

// OnSourceEnded registers fn to run every time the end of stream is signaled.
func (m *MediaSource) OnSourceEnded(fn func()) {
	if fn == nil {
		return
	}
	m.listeners = append(m.listeners, fn)
}

// Listeners returns the number of registered stream-ended listeners.
func (m *MediaSource) Listeners() int {
	return len(m.listeners)
}

// EndOfStream marks the stream ended and fires the stream-ended listeners.
// Listeners registered while firing run on the next signal.
func (m *MediaSource) EndOfStream() {
	m.state = StateEnded
	pending := append([]func(){}, m.listeners...)
	for _, fn := range pending {
		fn()
	}
}
