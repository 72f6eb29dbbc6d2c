package ingest

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"cuetrack/internal/timeline"
)

var (
	// ErrTooLarge is returned for input files above the configured limit.
	ErrTooLarge = errors.New("input file too large")
	// ErrUnsupportedFormat is returned for batch files with an unknown extension.
	ErrUnsupportedFormat = errors.New("unsupported batch format")
)

// Batch is the data extracted from one media append.
type Batch struct {
	// TimeBase, when set, replaces the session's timestamp offset before the append.
	TimeBase *float64            `json:"time_base,omitempty" yaml:"time_base,omitempty"`
	Captions []timeline.Caption  `json:"captions,omitempty" yaml:"captions,omitempty"`
	Metadata []timeline.Metadata `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// Empty reports whether the batch carries no cues.
func (b Batch) Empty() bool {
	return len(b.Captions) == 0 && len(b.Metadata) == 0
}

// LoadBatch reads a .json, .yaml or .yml batch file.
func LoadBatch(path string, maxBytes int64) (Batch, error) {
	data, err := readText(path, maxBytes)
	if err != nil {
		return Batch{}, err
	}

	var batch Batch
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&batch); err != nil {
			return Batch{}, fmt.Errorf("parse batch %s: %w", path, err)
		}
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&batch); err != nil && !errors.Is(err, io.EOF) {
			return Batch{}, fmt.Errorf("parse batch %s: %w", path, err)
		}
	default:
		return Batch{}, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}

	if err := batch.validate(); err != nil {
		return Batch{}, fmt.Errorf("batch %s: %w", path, err)
	}
	return batch, nil
}

func (b Batch) validate() error {
	if b.TimeBase != nil && !finite(*b.TimeBase) {
		return errors.New("time_base must be finite")
	}
	for i, c := range b.Captions {
		if !finite(c.StartTime) || !finite(c.EndTime) {
			return fmt.Errorf("captions[%d]: times must be finite", i)
		}
		if c.EndTime < c.StartTime {
			return fmt.Errorf("captions[%d]: end_time %v before start_time %v", i, c.EndTime, c.StartTime)
		}
	}
	for i, m := range b.Metadata {
		if !finite(m.CueTime) {
			return fmt.Errorf("metadata[%d]: cue_time must be finite", i)
		}
	}
	return nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
