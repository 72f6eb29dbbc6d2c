package logging_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"cuetrack/internal/config"
	"cuetrack/internal/logging"
)

func TestNewFromConfigWritesLogFile(t *testing.T) {
	cfg := config.Default()
	cfg.Paths.LogDir = t.TempDir()

	logger, err := logging.NewFromConfig(&cfg, io.Discard)
	if err != nil {
		t.Fatalf("NewFromConfig returned error: %v", err)
	}
	logger.Info("hello from test")

	content, err := os.ReadFile(cfg.LogPath())
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(content), "hello from test") {
		t.Fatalf("expected message in log file, got %q", content)
	}
}

func TestConsoleLoggerOmitsCallerForInfo(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "console-info.log")

	logger, err := logging.New(logging.Options{Format: "console", Level: "info", Console: io.Discard, FilePath: logPath})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logger.Info("message without caller")

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if strings.Contains(string(content), ".go:") {
		t.Fatalf("expected no caller information in info logs, got %q", content)
	}
}

func TestConsoleLoggerIncludesCallerForDebug(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "console-debug.log")

	logger, err := logging.New(logging.Options{Format: "console", Level: "debug", Console: io.Discard, FilePath: logPath})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logger.Info("message with caller")

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(content), "logger_test.go:") {
		t.Fatalf("expected caller information in debug logs, got %q", content)
	}
}

func TestConsoleLoggerPrefixesComponentAndSession(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "console.log")

	base, err := logging.New(logging.Options{Format: "console", Level: "info", Console: io.Discard, FilePath: logPath})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	ctx := logging.WithSessionID(context.Background(), "0123456789abcdef")
	logger := logging.WithContext(ctx, logging.NewComponentLogger(base, "timeline"))
	logger.Warn("cue order repaired", logging.String(logging.FieldTrack, "metadata"), logging.Int("cues", 3))

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	line := string(content)
	if !strings.Contains(line, "WARN timeline [01234567] metadata: cue order repaired") {
		t.Fatalf("unexpected console line: %q", line)
	}
	if !strings.Contains(line, "cues=3") {
		t.Fatalf("expected attribute in console line: %q", line)
	}
	if strings.Contains(line, "session_id=") {
		t.Fatalf("session id should be rendered as prefix only: %q", line)
	}
}

func TestJSONLoggerUsesLowercaseLevels(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "json.log")

	logger, err := logging.New(logging.Options{Format: "json", Level: "info", Console: io.Discard, FilePath: logPath})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logger.Warn("json line", logging.String(logging.FieldTrack, "metadata"))

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	var payload map[string]any
	if err := json.Unmarshal([]byte(strings.TrimSpace(string(content))), &payload); err != nil {
		t.Fatalf("decode json log: %v", err)
	}
	if payload["level"] != "warn" {
		t.Fatalf("unexpected level: %v", payload["level"])
	}
	if payload["track"] != "metadata" {
		t.Fatalf("unexpected track field: %v", payload["track"])
	}
	if _, ok := payload["ts"]; !ok {
		t.Fatalf("expected ts key in %v", payload)
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := logging.New(logging.Options{Format: "xml"}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestNopLoggerDiscards(t *testing.T) {
	logger := logging.NewNop()
	if logger.Enabled(context.Background(), 12) {
		t.Fatal("expected no-op logger to be disabled at every level")
	}
}

func TestConsoleLoggerNamesSentinelValues(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "values.log")

	logger, err := logging.New(logging.Options{Console: io.Discard, FilePath: logPath})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logger.Info("terminal",
		logging.Float64("end", math.MaxFloat64),
		logging.Float64("duration", math.NaN()),
		logging.Error(errors.New("disk full")),
		logging.Any("state", "open"),
	)

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	line := string(content)
	for _, want := range []string{"end=unbounded", "duration=unknown", `error="disk full"`, "state=open"} {
		if !strings.Contains(line, want) {
			t.Fatalf("expected %q in console line: %q", want, line)
		}
	}
}

func TestJSONLoggerEncodesNaN(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "nan.json")

	logger, err := logging.New(logging.Options{Format: "json", Console: io.Discard, FilePath: logPath})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logger.Info("duration", logging.Float64("duration", math.NaN()))

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	var payload map[string]any
	if err := json.Unmarshal([]byte(strings.TrimSpace(string(content))), &payload); err != nil {
		t.Fatalf("decode json log: %v", err)
	}
	if payload["duration"] != "unknown" {
		t.Fatalf("unexpected duration: got %v want %q", payload["duration"], "unknown")
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    slog.Level
		wantErr bool
	}{
		{in: "", want: slog.LevelInfo},
		{in: "DEBUG", want: slog.LevelDebug},
		{in: "warning", want: slog.LevelWarn},
		{in: "error", want: slog.LevelError},
		{in: "loud", wantErr: true},
	}
	for _, tt := range tests {
		got, err := logging.ParseLevel(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Fatalf("ParseLevel(%q): expected error", tt.in)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Fatalf("unexpected level for %q: got %v (%v) want %v", tt.in, got, err, tt.want)
		}
	}
}

func TestSessionIDFromContext(t *testing.T) {
	if _, ok := logging.SessionIDFromContext(context.Background()); ok {
		t.Fatal("expected no session id on a bare context")
	}
	ctx := logging.WithSessionID(context.Background(), "abc")
	if id, ok := logging.SessionIDFromContext(ctx); !ok || id != "abc" {
		t.Fatalf("unexpected session id: got %q (%v) want %q", id, ok, "abc")
	}
}

func TestConsoleLoggerUsesInnermostComponent(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "nested.log")

	base, err := logging.New(logging.Options{Console: io.Discard, FilePath: logPath})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logger := logging.NewComponentLogger(logging.NewComponentLogger(base, "cli"), "cue")
	logger.Info("nested")

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(content), "INFO cue: nested") {
		t.Fatalf("unexpected console line: %q", content)
	}
}
