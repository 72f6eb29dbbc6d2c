package main

import (
	"math"
	"slices"
	"testing"
)

const threeEntryBatch = `{
  "captions": [{"start_time": 1, "end_time": 2, "text": "hello"}],
  "metadata": [
    {"cue_time": 0, "frames": [{"key": "TXXX", "value": "a"}]},
    {"cue_time": 5, "frames": [{"key": "TXXX", "value": "b"}]},
    {"cue_time": 10, "frames": [{"key": "PRIV", "owner": "com.example", "data": "c"}]}
  ]
}`

func TestAppendThenEndFixesTerminalCue(t *testing.T) {
	env := setupCLITestEnv(t)
	batch := env.writeFile(t, "batch.json", threeEntryBatch)

	out := env.mustRun(t, "append", "--session", "s1", "--batch", batch)
	requireContains(t, out, "Created session s1")
	requireContains(t, out, "Appended 1 caption(s) and 3 metadata entries to s1")

	view := env.showSession(t, "s1")
	if got, want := metadataEnds(view), []string{"5", "10", "unbounded"}; !slices.Equal(got, want) {
		t.Fatalf("unexpected metadata ends: got %v want %v", got, want)
	}
	if len(view.Captions) != 1 || view.Captions[0].End != "2" {
		t.Fatalf("unexpected captions: %+v", view.Captions)
	}
	if view.Duration != "unknown" {
		t.Fatalf("unexpected duration: got %q want %q", view.Duration, "unknown")
	}

	out = env.mustRun(t, "end", "--session", "s1", "--duration", "42")
	requireContains(t, out, "Final metadata cue ends at 42")

	view = env.showSession(t, "s1")
	if got, want := metadataEnds(view), []string{"5", "10", "42"}; !slices.Equal(got, want) {
		t.Fatalf("unexpected metadata ends after end: got %v want %v", got, want)
	}
	if view.State != "ended" {
		t.Fatalf("unexpected ready state: got %q want %q", view.State, "ended")
	}
}

func TestAppendAcrossInvocationsReconcilesPreviousTail(t *testing.T) {
	env := setupCLITestEnv(t)
	first := env.writeFile(t, "first.yaml", `
metadata:
  - cue_time: 0
    frames: [{key: TIT2, value: one}]
  - cue_time: 4
    frames: [{key: TIT2, value: two}]
`)
	second := env.writeFile(t, "second.yaml", `
metadata:
  - cue_time: 8
    frames: [{key: TIT2, value: three}]
`)

	env.mustRun(t, "append", "-s", "live", "--batch", first)
	env.mustRun(t, "duration", "-s", "live", "inf")
	env.mustRun(t, "append", "-s", "live", "--batch", second)

	view := env.showSession(t, "live")
	if got, want := metadataEnds(view), []string{"4", "8", "unbounded"}; !slices.Equal(got, want) {
		t.Fatalf("unexpected metadata ends: got %v want %v", got, want)
	}
	if view.Duration != "live" {
		t.Fatalf("unexpected duration: got %q want %q", view.Duration, "live")
	}
}

func TestAppendAppliesTimeBase(t *testing.T) {
	env := setupCLITestEnv(t)
	srt := env.writeFile(t, "subs.srt", "1\n00:00:01,000 --> 00:00:02,000\nHi\n")
	batch := env.writeFile(t, "batch.json", `{"time_base": 50, "metadata": [{"cue_time": 1, "frames": [{"key": "TXXX"}]}]}`)

	env.mustRun(t, "append", "-s", "tb", "--srt", srt, "--time-base", "100")
	env.mustRun(t, "append", "-s", "tb", "--batch", batch)

	view := env.showSession(t, "tb")
	if view.TimeBase != 50 {
		t.Fatalf("unexpected time base: got %v want 50", view.TimeBase)
	}
	if len(view.Captions) != 1 || view.Captions[0].Start != 101 {
		t.Fatalf("unexpected captions: %+v", view.Captions)
	}
	if len(view.Metadata) != 1 || view.Metadata[0].Start != 51 {
		t.Fatalf("unexpected metadata: %+v", view.Metadata)
	}
}

func TestAppendGeneratesSessionID(t *testing.T) {
	env := setupCLITestEnv(t)
	batch := env.writeFile(t, "batch.json", threeEntryBatch)

	out := env.mustRun(t, "append", "--batch", batch)
	requireContains(t, out, "Created session ")
}

func TestAppendRequiresInput(t *testing.T) {
	env := setupCLITestEnv(t)
	if _, _, err := runCLI(t, []string{"append", "-s", "x"}, env.configPath); err == nil {
		t.Fatal("expected error without --batch or --srt")
	}
}

func TestDurationCommand(t *testing.T) {
	env := setupCLITestEnv(t)
	batch := env.writeFile(t, "batch.json", threeEntryBatch)
	env.mustRun(t, "append", "-s", "d", "--batch", batch)

	out := env.mustRun(t, "duration", "-s", "d", "30.5")
	requireContains(t, out, "set to 30.5")

	if _, _, err := runCLI(t, []string{"duration", "-s", "d", "--", "-5"}, env.configPath); err == nil {
		t.Fatal("expected negative duration to be rejected")
	}
	if _, _, err := runCLI(t, []string{"duration", "-s", "d", "soon"}, env.configPath); err == nil {
		t.Fatal("expected unparsable duration to be rejected")
	}
	if _, _, err := runCLI(t, []string{"duration", "-s", "missing", "1"}, env.configPath); err == nil {
		t.Fatal("expected unknown session error")
	}

	// The duration alone does not touch cues; the end signal does.
	view := env.showSession(t, "d")
	if got := view.Metadata[2].End; got != "unbounded" {
		t.Fatalf("unexpected terminal end before end: got %q", got)
	}
	env.mustRun(t, "end", "-s", "d")
	view = env.showSession(t, "d")
	if got := view.Metadata[2].End; got != "30.5" {
		t.Fatalf("unexpected terminal end: got %q want %q", got, "30.5")
	}
}

func TestEndWithUnknownDurationKeepsSentinel(t *testing.T) {
	env := setupCLITestEnv(t)
	batch := env.writeFile(t, "batch.json", threeEntryBatch)
	env.mustRun(t, "append", "-s", "e", "--batch", batch)

	out := env.mustRun(t, "end", "-s", "e")
	requireContains(t, out, "Final metadata cue ends at unbounded")
}

func TestResetRemovesSession(t *testing.T) {
	env := setupCLITestEnv(t)
	batch := env.writeFile(t, "batch.json", threeEntryBatch)
	env.mustRun(t, "append", "-s", "gone", "--batch", batch)

	out := env.mustRun(t, "reset", "-s", "gone")
	requireContains(t, out, "Removed session gone")

	if _, _, err := runCLI(t, []string{"show", "-s", "gone"}, env.configPath); err == nil {
		t.Fatal("expected show of removed session to fail")
	}
	if _, _, err := runCLI(t, []string{"reset", "-s", "gone"}, env.configPath); err == nil {
		t.Fatal("expected second reset to fail")
	}
}

func TestDurationCanReturnToUnknown(t *testing.T) {
	env := setupCLITestEnv(t)
	batch := env.writeFile(t, "batch.json", threeEntryBatch)
	env.mustRun(t, "append", "-s", "n", "--batch", batch)

	env.mustRun(t, "duration", "-s", "n", "30")
	out := env.mustRun(t, "duration", "-s", "n", "nan")
	requireContains(t, out, "set to unknown")

	out = env.mustRun(t, "end", "-s", "n")
	requireContains(t, out, "duration unknown")
	requireContains(t, out, "Final metadata cue ends at unbounded")

	// end --duration accepts nan too.
	out = env.mustRun(t, "end", "-s", "n", "--duration", "nan")
	requireContains(t, out, "Final metadata cue ends at unbounded")
}

func TestEndDurationRejectsNegativeInfinity(t *testing.T) {
	env := setupCLITestEnv(t)
	batch := env.writeFile(t, "batch.json", threeEntryBatch)
	env.mustRun(t, "append", "-s", "neg", "--batch", batch)

	if _, _, err := runCLI(t, []string{"end", "-s", "neg", "--duration", "-inf"}, env.configPath); err == nil {
		t.Fatal("expected -inf duration to be rejected")
	}
}

func TestCommandLogsCarrySessionPrefix(t *testing.T) {
	env := setupCLITestEnv(t)
	writeTestConfigWithLevel(t, env.configPath, env.cfg, "info")
	batch := env.writeFile(t, "batch.json", threeEntryBatch)

	_, stderr, err := runCLI(t, []string{"append", "-s", "tagged", "--batch", batch}, env.configPath)
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	requireContains(t, stderr, "INFO cli [tagged]: batch appended")
	requireContains(t, stderr, "metadata=3")

	_, stderr, err = runCLI(t, []string{"end", "-s", "tagged", "--duration", "12"}, env.configPath)
	if err != nil {
		t.Fatalf("end: %v", err)
	}
	requireContains(t, stderr, "INFO cli [tagged] metadata: stream ended")
	requireContains(t, stderr, "terminal_end=12")
}

func TestEmptyBatchIsReported(t *testing.T) {
	env := setupCLITestEnv(t)
	writeTestConfigWithLevel(t, env.configPath, env.cfg, "warn")
	batch := env.writeFile(t, "empty.json", "{}")

	_, stderr, err := runCLI(t, []string{"append", "-s", "quiet", "--batch", batch}, env.configPath)
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	requireContains(t, stderr, "batch carries no cues")
	requireContains(t, stderr, "alert=empty_batch")
}

func TestFormatSeconds(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{math.NaN(), "unknown"},
		{math.Inf(-1), "unknown"},
		{math.Inf(1), "live"},
		{12.5, "12.5"},
		{0, "0"},
	}
	for _, tt := range tests {
		if got := formatSeconds(tt.in); got != tt.want {
			t.Fatalf("unexpected format for %v: got %q want %q", tt.in, got, tt.want)
		}
	}
	if got := formatCueTime(math.MaxFloat64); got != "unbounded" {
		t.Fatalf("unexpected cue time: got %q want %q", got, "unbounded")
	}
}
