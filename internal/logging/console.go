package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"sync"
	"time"
)

// consoleHandler writes one line per record:
//
//	2026-01-02T15:04:05Z WARN timeline [3f2a9c1e] metadata: message key=value
//
// The component, the short session id and the track form the prefix, the
// innermost value winning; the remaining attributes follow the message as
// key=value pairs.
type consoleHandler struct {
	mu     *sync.Mutex
	w      io.Writer
	level  slog.Level
	caller bool
	prefix prefix
	attrs  []field
	group  string
}

type prefix struct {
	component, session, track string
}

type field struct {
	key   string
	value slog.Value
}

func newConsoleHandler(w io.Writer, level slog.Level, caller bool) *consoleHandler {
	return &consoleHandler{mu: &sync.Mutex{}, w: w, level: level, caller: caller}
}

func (h *consoleHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level
}

func (h *consoleHandler) Handle(_ context.Context, record slog.Record) error {
	p := h.prefix
	fields := append([]field(nil), h.attrs...)
	record.Attrs(func(attr slog.Attr) bool {
		fields = p.collect(fields, h.group, attr)
		return true
	})

	var b strings.Builder
	ts := record.Time
	if ts.IsZero() {
		ts = time.Now()
	}
	b.WriteString(ts.UTC().Format(time.RFC3339))
	b.WriteByte(' ')
	b.WriteString(levelLabel(record.Level))
	if p.component != "" {
		b.WriteByte(' ')
		b.WriteString(p.component)
	}
	if p.session != "" {
		fmt.Fprintf(&b, " [%s]", shortID(p.session))
	}
	if p.track != "" {
		b.WriteByte(' ')
		b.WriteString(p.track)
	}
	b.WriteString(": ")
	if msg := strings.TrimSpace(record.Message); msg != "" {
		b.WriteString(msg)
	} else {
		b.WriteString("(no message)")
	}
	if h.caller && record.PC != 0 {
		frame, _ := runtime.CallersFrames([]uintptr{record.PC}).Next()
		if frame.File != "" {
			fmt.Fprintf(&b, " [%s:%d]", filepath.Base(frame.File), frame.Line)
		}
	}
	for _, f := range fields {
		b.WriteByte(' ')
		b.WriteString(f.key)
		b.WriteByte('=')
		b.WriteString(formatValue(f.value))
	}
	b.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := io.WriteString(h.w, b.String())
	return err
}

func (h *consoleHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := *h
	next.attrs = append([]field(nil), h.attrs...)
	for _, attr := range attrs {
		next.attrs = next.prefix.collect(next.attrs, h.group, attr)
	}
	return &next
}

func (h *consoleHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	next := *h
	next.group = joinKey(h.group, name)
	return &next
}

// collect routes prefix keys into p and appends everything else to fields,
// flattening groups into dotted keys.
func (p *prefix) collect(fields []field, group string, attr slog.Attr) []field {
	attr.Value = attr.Value.Resolve()
	if attr.Equal(slog.Attr{}) {
		return fields
	}
	if attr.Value.Kind() == slog.KindGroup {
		inner := joinKey(group, attr.Key)
		for _, a := range attr.Value.Group() {
			fields = p.collect(fields, inner, a)
		}
		return fields
	}
	if group == "" {
		switch attr.Key {
		case FieldComponent:
			p.component = attr.Value.String()
			return fields
		case FieldSessionID:
			p.session = attr.Value.String()
			return fields
		case FieldTrack:
			p.track = attr.Value.String()
			return fields
		}
	}
	return append(fields, field{key: joinKey(group, attr.Key), value: attr.Value})
}

func joinKey(group, key string) string {
	switch {
	case group == "":
		return key
	case key == "":
		return group
	default:
		return group + "." + key
	}
}

func formatValue(v slog.Value) string {
	var s string
	switch v.Kind() {
	case slog.KindFloat64:
		if text, ok := specialFloat(v.Float64()); ok {
			return text
		}
		return strconv.FormatFloat(v.Float64(), 'g', -1, 64)
	case slog.KindTime:
		return v.Time().UTC().Format(time.RFC3339)
	case slog.KindAny:
		if err, ok := v.Any().(error); ok {
			s = err.Error()
		} else {
			s = fmt.Sprint(v.Any())
		}
	default:
		s = v.String()
	}
	if s == "" || strings.ContainsAny(s, " \t\n\"=") {
		return strconv.Quote(s)
	}
	return s
}

// specialFloat names the float values cue times and durations use as markers.
func specialFloat(f float64) (string, bool) {
	switch {
	case math.IsNaN(f):
		return "unknown", true
	case math.IsInf(f, 1):
		return "+inf", true
	case math.IsInf(f, -1):
		return "-inf", true
	case f == math.MaxFloat64:
		return "unbounded", true
	}
	return "", false
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func levelLabel(level slog.Level) string {
	switch {
	case level >= slog.LevelError:
		return "ERROR"
	case level >= slog.LevelWarn:
		return "WARN"
	case level >= slog.LevelInfo:
		return "INFO"
	default:
		return "DEBUG"
	}
}
