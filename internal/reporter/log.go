package reporter

import (
	"fmt"
	"io"
	"sync"
	"time"
)

// LogReporter writes timestamped playback events to a writer, for runs
// driven non-interactively (e.g. redirected to a file).
type LogReporter struct {
	w               io.Writer
	mu              sync.Mutex
	lastFrameBucket int
}

// NewLogReporter creates a LogReporter writing to w.
func NewLogReporter(w io.Writer) *LogReporter {
	return &LogReporter{w: w, lastFrameBucket: -1}
}

func (r *LogReporter) log(level, format string, args ...any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	timestamp := time.Now().Format("2006-01-02 15:04:05")
	msg := fmt.Sprintf(format, args...)
	_, _ = fmt.Fprintf(r.w, "%s [%s] %s\n", timestamp, level, msg)
}

func (r *LogReporter) MovieLoaded(summary MovieSummary) {
	r.log("INFO", "=== MOVIE ===")
	r.log("INFO", "File: %s", summary.Path)
	r.log("INFO", "Version: %d", summary.DirectorVersion)
	r.log("INFO", "Stage: %dx%d", summary.StageWidth, summary.StageHeight)
	r.log("INFO", "Frames: %d", summary.FrameCount)
	r.log("INFO", "Cast members: %d", summary.CastMemberCount)
	r.log("INFO", "Scripts: %d", summary.ScriptCount)
}

func (r *LogReporter) CastLoaded(summary MovieSummary) {
	r.log("INFO", "=== EXTERNAL CAST ===")
	r.log("INFO", "File: %s", summary.Path)
	r.log("INFO", "Cast members: %d", summary.CastMemberCount)
	r.log("INFO", "Scripts: %d", summary.ScriptCount)
}

func (r *LogReporter) PlaybackStarted(totalFrames int32) {
	r.mu.Lock()
	r.lastFrameBucket = -1
	r.mu.Unlock()
	r.log("INFO", "=== PLAYBACK STARTED === (total frames: %d)", totalFrames)
}

// FrameAdvanced logs at 5% advancement intervals rather than every frame, to
// keep a long run's log readable.
func (r *LogReporter) FrameAdvanced(progress FrameProgress) {
	if progress.Total <= 0 {
		return
	}
	bucket := progress.FrameIndex * 20 / int(progress.Total)
	r.mu.Lock()
	if bucket > r.lastFrameBucket {
		r.lastFrameBucket = bucket
		r.mu.Unlock()
		r.log("INFO", "Frame %d/%d%s", progress.Frame, progress.Total, labelSuffix(progress.Label))
		return
	}
	r.mu.Unlock()
}

func labelSuffix(label string) string {
	if label == "" {
		return ""
	}
	return fmt.Sprintf(" (%s)", label)
}

func (r *LogReporter) Warning(message string) {
	r.log("WARN", "%s", message)
}

func (r *LogReporter) Error(err PlaybackError) {
	r.log("ERROR", "%s: %s", err.Title, err.Message)
	if err.Context != "" {
		r.log("ERROR", "  Context: %s", err.Context)
	}
}

func (r *LogReporter) Complete(summary PlaybackSummary) {
	r.log("INFO", "=== COMPLETE === frames played: %d, time: %s", summary.FramesPlayed, summary.Duration)
}

var _ Reporter = (*LogReporter)(nil)
