// Package reporter defines the progress-reporting surface shockctl drives
// during inspect/run: movie/cast summaries, per-frame playback progress,
// warnings, and errors, with terminal (colored, progress-bar) and plain-log
// implementations plus a no-op default.
package reporter

import "time"

// MovieSummary describes a loaded movie or external cast before playback
// starts.
type MovieSummary struct {
	Path            string
	DirectorVersion int
	StageWidth      int
	StageHeight     int
	FrameCount      int32
	CastMemberCount int
	ScriptCount     int
}

// FrameProgress reports the playback head's position during a run.
type FrameProgress struct {
	Frame      int32
	Total      int32
	Label      string
	FrameIndex int // 1-based count of frames ticked so far, for ETA-style speed
}

// PlaybackError carries a handler or decode failure surfaced mid-run.
type PlaybackError struct {
	Title   string
	Message string
	Context string
}

// PlaybackSummary reports final counters when a run completes.
type PlaybackSummary struct {
	FramesPlayed int32
	Duration     time.Duration
}

// Reporter receives playback lifecycle events. Implementations must be safe
// for the cadence shockctl drives them at: once at load, once per advanced
// frame, and once at completion.
type Reporter interface {
	MovieLoaded(summary MovieSummary)
	CastLoaded(summary MovieSummary)
	PlaybackStarted(totalFrames int32)
	FrameAdvanced(progress FrameProgress)
	Warning(message string)
	Error(err PlaybackError)
	Complete(summary PlaybackSummary)
}

// NullReporter discards every event.
type NullReporter struct{}

func (NullReporter) MovieLoaded(MovieSummary)    {}
func (NullReporter) CastLoaded(MovieSummary)     {}
func (NullReporter) PlaybackStarted(int32)       {}
func (NullReporter) FrameAdvanced(FrameProgress) {}
func (NullReporter) Warning(string)              {}
func (NullReporter) Error(PlaybackError)         {}
func (NullReporter) Complete(PlaybackSummary)    {}

var _ Reporter = NullReporter{}
