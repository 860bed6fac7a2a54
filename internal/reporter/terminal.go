package reporter

import (
	"fmt"
	"os"
	"sync"

	"github.com/fatih/color"
	"github.com/schollz/progressbar/v3"
)

// labelWidth is the fixed width every printLabel call pads to, for
// consistent column alignment across sections.
const labelWidth = 18

// TerminalReporter prints colored, human-readable progress to the terminal.
type TerminalReporter struct {
	mu       sync.Mutex
	progress *progressbar.ProgressBar
	lastSeen int32

	cyan    *color.Color
	green   *color.Color
	yellow  *color.Color
	red     *color.Color
	magenta *color.Color
	bold    *color.Color
	dim     *color.Color
}

// NewTerminalReporter creates a TerminalReporter. Section output goes to
// stdout; the progress bar and errors go to stderr.
func NewTerminalReporter() *TerminalReporter {
	return &TerminalReporter{
		cyan:    color.New(color.FgCyan, color.Bold),
		green:   color.New(color.FgGreen),
		yellow:  color.New(color.FgYellow, color.Bold),
		red:     color.New(color.FgRed, color.Bold),
		magenta: color.New(color.FgMagenta),
		bold:    color.New(color.Bold),
		dim:     color.New(color.Faint),
	}
}

func (r *TerminalReporter) printLabel(label, value string) {
	padded := fmt.Sprintf("%-*s", labelWidth, label)
	fmt.Printf("  %s %s\n", r.bold.Sprint(padded), value)
}

func (r *TerminalReporter) MovieLoaded(summary MovieSummary) {
	fmt.Println()
	_, _ = r.cyan.Println("MOVIE")
	r.printLabel("File:", summary.Path)
	r.printLabel("Version:", fmt.Sprintf("%d", summary.DirectorVersion))
	r.printLabel("Stage:", fmt.Sprintf("%dx%d", summary.StageWidth, summary.StageHeight))
	r.printLabel("Frames:", fmt.Sprintf("%d", summary.FrameCount))
	r.printLabel("Cast members:", fmt.Sprintf("%d", summary.CastMemberCount))
	r.printLabel("Scripts:", fmt.Sprintf("%d", summary.ScriptCount))
}

func (r *TerminalReporter) CastLoaded(summary MovieSummary) {
	fmt.Println()
	_, _ = r.cyan.Println("EXTERNAL CAST")
	r.printLabel("File:", summary.Path)
	r.printLabel("Cast members:", fmt.Sprintf("%d", summary.CastMemberCount))
	r.printLabel("Scripts:", fmt.Sprintf("%d", summary.ScriptCount))
}

func (r *TerminalReporter) PlaybackStarted(totalFrames int32) {
	r.mu.Lock()
	defer r.mu.Unlock()

	fmt.Println()
	_, _ = r.cyan.Println("PLAYBACK")
	r.lastSeen = 0
	r.progress = progressbar.NewOptions(
		int(totalFrames),
		progressbar.OptionSetDescription(""),
		progressbar.OptionSetWidth(40),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSetPredictTime(false),
		progressbar.OptionShowDescriptionAtLineEnd(),
		progressbar.OptionClearOnFinish(),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "=",
			SaucerHead:    ">",
			SaucerPadding: " ",
			BarStart:      "Frames [",
			BarEnd:        "]",
		}),
	)
}

func (r *TerminalReporter) FrameAdvanced(progress FrameProgress) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.progress == nil {
		return
	}
	if progress.FrameIndex > int(r.lastSeen) {
		r.lastSeen = int32(progress.FrameIndex)
		_ = r.progress.Set(progress.FrameIndex)
	}
	desc := fmt.Sprintf("frame %d/%d", progress.Frame, progress.Total)
	if progress.Label != "" {
		desc += fmt.Sprintf(" (%s)", progress.Label)
	}
	r.progress.Describe(desc)
}

func (r *TerminalReporter) Warning(message string) {
	fmt.Println()
	_, _ = r.yellow.Printf("WARN: %s\n", message)
}

func (r *TerminalReporter) Error(err PlaybackError) {
	_, _ = fmt.Fprintln(os.Stderr)
	_, _ = r.red.Fprintf(os.Stderr, "ERROR %s\n", err.Title)
	_, _ = fmt.Fprintf(os.Stderr, "  %s\n", err.Message)
	if err.Context != "" {
		_, _ = fmt.Fprintf(os.Stderr, "  Context: %s\n", err.Context)
	}
}

func (r *TerminalReporter) Complete(summary PlaybackSummary) {
	r.mu.Lock()
	if r.progress != nil {
		_ = r.progress.Finish()
		r.progress = nil
	}
	r.mu.Unlock()

	fmt.Println()
	_, _ = r.cyan.Println("RESULTS")
	r.printLabel("Frames played:", fmt.Sprintf("%d", summary.FramesPlayed))
	r.printLabel("Time:", summary.Duration.String())
	fmt.Printf("%s %s\n", r.green.Add(color.Bold).Sprint("✓"), r.bold.Sprint("done"))
}

var _ Reporter = (*TerminalReporter)(nil)
