package reporter

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

func TestNullReporterSatisfiesInterface(t *testing.T) {
	var r Reporter = NullReporter{}
	r.MovieLoaded(MovieSummary{})
	r.PlaybackStarted(10)
	r.FrameAdvanced(FrameProgress{Frame: 1, Total: 10})
	r.Warning("ignored")
	r.Error(PlaybackError{Title: "ignored"})
	r.Complete(PlaybackSummary{})
}

func TestLogReporterWritesMovieLoaded(t *testing.T) {
	var buf bytes.Buffer
	r := NewLogReporter(&buf)
	r.MovieLoaded(MovieSummary{Path: "test.dir", DirectorVersion: 500, FrameCount: 12})

	out := buf.String()
	if !strings.Contains(out, "test.dir") {
		t.Fatalf("expected log output to mention the movie path, got: %s", out)
	}
	if !strings.Contains(out, "MOVIE") {
		t.Fatalf("expected a MOVIE section header, got: %s", out)
	}
}

func TestLogReporterFrameAdvancedBucketsProgress(t *testing.T) {
	var buf bytes.Buffer
	r := NewLogReporter(&buf)
	r.PlaybackStarted(100)

	for i := 1; i <= 100; i++ {
		r.FrameAdvanced(FrameProgress{Frame: int32(i), Total: 100, FrameIndex: i})
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	// One line for PlaybackStarted plus at most 21 progress buckets (0% to 100% in 5% steps).
	if len(lines) > 22 {
		t.Fatalf("expected bucketed progress logging, got %d lines", len(lines))
	}
}

func TestLogReporterErrorIncludesContext(t *testing.T) {
	var buf bytes.Buffer
	r := NewLogReporter(&buf)
	r.Error(PlaybackError{Title: "DecodeFailed", Message: "bad chunk", Context: "chunk 7"})

	out := buf.String()
	if !strings.Contains(out, "DecodeFailed") || !strings.Contains(out, "chunk 7") {
		t.Fatalf("expected error log to include title and context, got: %s", out)
	}
}

func TestLogReporterCompleteReportsDuration(t *testing.T) {
	var buf bytes.Buffer
	r := NewLogReporter(&buf)
	r.Complete(PlaybackSummary{FramesPlayed: 42, Duration: 2 * time.Second})

	out := buf.String()
	if !strings.Contains(out, "42") {
		t.Fatalf("expected frame count in completion log, got: %s", out)
	}
}

func TestTerminalReporterSatisfiesInterface(t *testing.T) {
	var r Reporter = NewTerminalReporter()
	r.MovieLoaded(MovieSummary{Path: "test.dir"})
	r.CastLoaded(MovieSummary{Path: "cast.cst"})
	r.PlaybackStarted(5)
	r.FrameAdvanced(FrameProgress{Frame: 1, Total: 5, FrameIndex: 1})
	r.Warning("just a test warning")
	r.Complete(PlaybackSummary{FramesPlayed: 5})
}
