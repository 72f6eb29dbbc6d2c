package sessionstore

import (
	"log/slog"
	"time"

	"github.com/google/uuid"

	"cuetrack/internal/cue"
	"cuetrack/internal/logging"
	"cuetrack/internal/mediasource"
	"cuetrack/internal/texttrack"
	"cuetrack/internal/timeline"
)

// Session is a live playback session rebuilt from storage.
type Session struct {
	ID        string
	CreatedAt time.Time
	UpdatedAt time.Time

	Captions *texttrack.Track
	Metadata *texttrack.Track
	Source   *mediasource.MediaSource
	// Handler is wired to the tracks and source above.
	Handler *timeline.SourceHandler
}

// Summary describes a stored session without loading its cues.
type Summary struct {
	ID           string                 `json:"id"`
	TimeBase     float64                `json:"time_base"`
	Duration     float64                `json:"-"`
	State        mediasource.ReadyState `json:"ready_state"`
	CaptionCues  int                    `json:"caption_cues"`
	MetadataCues int                    `json:"metadata_cues"`
	CreatedAt    time.Time              `json:"created_at"`
	UpdatedAt    time.Time              `json:"updated_at"`
}

// NewSessionID returns a fresh session identifier.
func NewSessionID() string {
	return uuid.NewString()
}

func newSession(id string, timeBase float64, source *mediasource.MediaSource, logger *slog.Logger, deprecations *cue.Deprecations) *Session {
	captions := texttrack.New(texttrack.KindCaptions, "")
	metadata := texttrack.New(texttrack.KindMetadata, texttrack.MetadataLabel)
	return &Session{
		ID:       id,
		Captions: captions,
		Metadata: metadata,
		Source:   source,
		Handler: &timeline.SourceHandler{
			TimestampOffset: timeBase,
			InbandTextTrack: captions,
			MetadataTrack:   metadata,
			MediaSource:     source,
			Deprecations:    deprecations,
			Logger:          logger.With(logging.String(logging.FieldSessionID, id)),
		},
	}
}

// TimeBase returns the session's timestamp offset.
func (s *Session) TimeBase() float64 {
	return s.Handler.TimestampOffset
}

// SetTimeBase changes the offset applied to later appends.
func (s *Session) SetTimeBase(seconds float64) {
	s.Handler.TimestampOffset = seconds
}

// Append runs one append batch through the reconciler. An ended source is
// reopened first, since new media data means the stream has resumed.
func (s *Session) Append(captions []timeline.Caption, metadata []timeline.Metadata) {
	if s.Source.ReadyState() == mediasource.StateEnded {
		s.Source.Open()
	}
	timeline.AddTextTrackData(s.Handler, captions, metadata)
}
