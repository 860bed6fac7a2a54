package player

import (
	"testing"

	"github.com/libreshockwave/shockwave/internal/chunks"
	"github.com/libreshockwave/shockwave/internal/codec"
	"github.com/libreshockwave/shockwave/internal/container"
	"github.com/libreshockwave/shockwave/internal/datum"
	"github.com/libreshockwave/shockwave/internal/event"
	"github.com/libreshockwave/shockwave/internal/lingo"
	"github.com/libreshockwave/shockwave/internal/movie"
)

func testMovie(frameCount int32) *movie.MovieFile {
	return &movie.MovieFile{
		Container: &container.Container{Order: codec.BigEndian},
		Config:    &chunks.Config{StageRect: chunks.Rect16{Top: 0, Left: 0, Bottom: 480, Right: 640}},
		Score:     &chunks.Score{FrameCount: frameCount, ChannelCount: 1},
	}
}

func newTestPlayer(frameCount int32) *Player {
	p := New(lingo.New())
	if err := p.LoadMovie(testMovie(frameCount)); err != nil {
		panic(err)
	}
	return p
}

func TestStateString(t *testing.T) {
	cases := map[State]string{Stopped: "stopped", Paused: "paused", Playing: "playing"}
	for s, want := range cases {
		if got := s.String(); got != want {
			t.Errorf("State(%d).String() = %q, want %q", s, got, want)
		}
	}
}

func TestLoadMovieStartsStoppedAtFrameOne(t *testing.T) {
	p := newTestPlayer(3)
	if p.State() != Stopped {
		t.Fatalf("expected Stopped after LoadMovie, got %s", p.State())
	}
	if p.CurrentFrame() != 1 {
		t.Fatalf("expected frame 1 after LoadMovie, got %d", p.CurrentFrame())
	}
}

func TestPlayFromStoppedRejectsReentry(t *testing.T) {
	p := newTestPlayer(3)
	if err := p.PlayFromStopped(); err != nil {
		t.Fatalf("unexpected error transitioning from Stopped: %v", err)
	}
	if p.State() != Playing {
		t.Fatalf("expected Playing, got %s", p.State())
	}
	if err := p.PlayFromStopped(); err == nil {
		t.Fatalf("expected error re-entering play from Playing")
	}
}

func TestStopPlaybackResetsFrame(t *testing.T) {
	p := newTestPlayer(5)
	_ = p.PlayFromStopped()
	p.Tick()
	if p.CurrentFrame() == 1 {
		t.Fatalf("expected frame to have advanced before stop")
	}
	p.StopPlayback()
	if p.State() != Stopped {
		t.Fatalf("expected Stopped after StopPlayback, got %s", p.State())
	}
	if p.CurrentFrame() != 1 {
		t.Fatalf("expected frame reset to 1 after stop, got %d", p.CurrentFrame())
	}
}

func TestTickAdvancesFrame(t *testing.T) {
	p := newTestPlayer(3)
	_ = p.PlayFromStopped()
	p.Tick()
	if p.CurrentFrame() != 2 {
		t.Fatalf("expected frame 2 after one tick, got %d", p.CurrentFrame())
	}
}

func TestTickWrapsAtLastFrame(t *testing.T) {
	p := newTestPlayer(2)
	_ = p.PlayFromStopped()
	p.Tick() // frame 1 -> 2
	p.Tick() // frame 2 -> wraps to 1
	if p.CurrentFrame() != 1 {
		t.Fatalf("expected wrap to frame 1, got %d", p.CurrentFrame())
	}
}

func TestTickIsNoopWhenNotPlaying(t *testing.T) {
	p := newTestPlayer(3)
	p.Tick()
	if p.CurrentFrame() != 1 {
		t.Fatalf("expected Tick to be a no-op while Stopped, got frame %d", p.CurrentFrame())
	}
}

func TestGoDefersNavigationUntilResolved(t *testing.T) {
	p := newTestPlayer(5)
	_ = p.PlayFromStopped()
	p.Go(datum.Int(4))
	if p.CurrentFrame() != 1 {
		t.Fatalf("expected navigation to be deferred, frame changed early to %d", p.CurrentFrame())
	}
	// Tick resolves any pending navigation at the end of its cycle, the same
	// path PlayFromStopped/StopPlayback use -- no private method needed.
	p.Tick()
	if p.CurrentFrame() != 4 {
		t.Fatalf("expected frame 4 after resolving navigation, got %d", p.CurrentFrame())
	}
}

func TestGoClampsOutOfRangeFrame(t *testing.T) {
	p := newTestPlayer(3)
	_ = p.PlayFromStopped()
	p.Go(datum.Int(99))
	p.Tick()
	if p.CurrentFrame() != 3 {
		t.Fatalf("expected frame clamped to lastFrame 3, got %d", p.CurrentFrame())
	}
}

// TestPlayFromStoppedResolvesNavigationFromPrepareMovie wires a real
// prepareMovie handler that calls go(3) during PlayFromStopped's own
// dispatch. The navigation must land before PlayFromStopped returns, not
// require a subsequent Tick to take effect.
func TestPlayFromStoppedResolvesNavigationFromPrepareMovie(t *testing.T) {
	vm := lingo.New()
	vm.Names = &chunks.ScriptNames{Names: []string{"prepareMovie", "go"}}
	vm.Builtins = map[string]lingo.Builtin{
		"go": func(vm *lingo.VM, args []datum.Datum) (datum.Datum, error) {
			if vm.Stage != nil && len(args) > 0 {
				vm.Stage.Go(args[0])
			}
			return datum.Void(), nil
		},
	}

	script := &chunks.Script{
		Type: chunks.ScriptTypeMovie,
		Handlers: []chunks.Handler{{
			NameID: 0, // "prepareMovie"
			Bytecode: []chunks.Instruction{
				{Offset: 0, Opcode: uint8(lingo.OpPushInt8), Argument: 3},
				{Offset: 1, Opcode: uint8(lingo.OpArgList), Argument: 1},
				{Offset: 2, Opcode: uint8(lingo.OpExtCall), Argument: 1}, // "go"
			},
		}},
	}
	vm.Scripts = map[uint32]*chunks.Script{1: script}

	p := New(vm)
	vm.Movie = p
	vm.Stage = p
	if err := p.LoadMovie(testMovie(5)); err != nil {
		t.Fatalf("LoadMovie: %v", err)
	}
	p.movieScripts = []event.MovieScript{{ScriptID: 1, Script: script}}
	p.dispatcher.SetMovieScripts(p.movieScripts)

	if err := p.PlayFromStopped(); err != nil {
		t.Fatalf("PlayFromStopped: %v", err)
	}
	if p.CurrentFrame() != 3 {
		t.Fatalf("expected PlayFromStopped to resolve prepareMovie's go(3) immediately, got frame %d", p.CurrentFrame())
	}
}

// TestNavigationDepthIsBounded wires an enterFrame handler that unconditionally
// navigates to frame+1 every time it runs -- a runaway case, since each
// arrival re-triggers enterFrame, which navigates again. resolvePendingNavigation
// must still return after maxNavDepth iterations rather than looping forever.
func TestNavigationDepthIsBounded(t *testing.T) {
	vm := lingo.New()
	vm.Names = &chunks.ScriptNames{Names: []string{"enterFrame", "frame", "go"}}
	vm.Builtins = map[string]lingo.Builtin{
		"go": func(vm *lingo.VM, args []datum.Datum) (datum.Datum, error) {
			if vm.Stage != nil && len(args) > 0 {
				vm.Stage.Go(args[0])
			}
			return datum.Void(), nil
		},
	}

	bounce := &chunks.Script{
		Type: chunks.ScriptTypeMovie,
		Handlers: []chunks.Handler{{
			NameID: 0,
			Bytecode: []chunks.Instruction{
				{Offset: 0, Opcode: uint8(lingo.OpGetMovieProp), Argument: 1},
				{Offset: 1, Opcode: uint8(lingo.OpPushInt8), Argument: 1},
				{Offset: 2, Opcode: uint8(lingo.OpAdd)},
				{Offset: 3, Opcode: uint8(lingo.OpArgList), Argument: 1},
				{Offset: 4, Opcode: uint8(lingo.OpExtCall), Argument: 2},
			},
		}},
	}
	vm.Scripts = map[uint32]*chunks.Script{1: bounce}

	p := New(vm)
	vm.Movie = p
	vm.Stage = p
	if err := p.LoadMovie(testMovie(1_000_000)); err != nil {
		t.Fatalf("LoadMovie: %v", err)
	}
	p.movieScripts = []event.MovieScript{{ScriptID: 1, Script: bounce}}
	p.dispatcher.SetMovieScripts(p.movieScripts)

	if err := p.PlayFromStopped(); err != nil {
		t.Fatalf("PlayFromStopped: %v", err)
	}
	start := p.CurrentFrame()
	p.Tick()

	if p.CurrentFrame()-start > maxNavDepth+1 {
		t.Fatalf("expected navigation to be bounded near maxNavDepth, advanced from %d to %d", start, p.CurrentFrame())
	}
}

func TestGetMovieProp(t *testing.T) {
	p := newTestPlayer(10)
	if got := p.GetMovieProp("frame").I; got != 1 {
		t.Errorf("frame = %d, want 1", got)
	}
	if got := p.GetMovieProp("stageWidth").I; got != 640 {
		t.Errorf("stageWidth = %d, want 640", got)
	}
	if got := p.GetMovieProp("stageHeight").I; got != 480 {
		t.Errorf("stageHeight = %d, want 480", got)
	}
	if got := p.GetMovieProp("lastFrame").I; got != 10 {
		t.Errorf("lastFrame = %d, want 10", got)
	}
	if !p.GetMovieProp("nonsense").IsVoid() {
		t.Errorf("expected Void for an unset custom prop")
	}
}

func TestSetMoviePropCustomAndFrame(t *testing.T) {
	p := newTestPlayer(5)
	p.SetMovieProp("score", datum.Int(42))
	if got := p.GetMovieProp("score").I; got != 42 {
		t.Errorf("score = %d, want 42", got)
	}

	p.SetMovieProp("frame", datum.Int(3))
	if p.pendingFrame == nil || *p.pendingFrame != 3 {
		t.Fatalf("expected pendingFrame set to 3 by SetMovieProp(\"frame\", ...)")
	}
}

func TestSetMovieItemDelimiter(t *testing.T) {
	p := newTestPlayer(1)
	p.SetMovieProp("itemDelimiter", datum.Str(";"))
	if p.vm.ItemDelimiter != ";" {
		t.Errorf("ItemDelimiter = %q, want %q", p.vm.ItemDelimiter, ";")
	}
	if got := p.GetMovieProp("itemDelimiter").S; got != ";" {
		t.Errorf("GetMovieProp(itemDelimiter) = %q, want %q", got, ";")
	}
}

func TestSoundChannelBookkeeping(t *testing.T) {
	p := newTestPlayer(1)
	if p.SoundBusy(1) {
		t.Fatalf("expected channel 1 idle before any sound is played")
	}
	p.PlaySound(1, datum.Str("boom.wav"))
	if !p.SoundBusy(1) {
		t.Fatalf("expected channel 1 busy after PlaySound")
	}
	p.SetSoundLevel(1, 7)
	if got := p.SoundLevel(1); got != 7 {
		t.Errorf("SoundLevel(1) = %d, want 7", got)
	}
	p.StopSound(1)
	if p.SoundBusy(1) {
		t.Fatalf("expected channel 1 idle after StopSound")
	}
}

func TestSoundChannelOutOfRangeIsNoop(t *testing.T) {
	p := newTestPlayer(1)
	p.PlaySound(99, datum.Str("x"))
	if p.SoundBusy(99) {
		t.Fatalf("expected out-of-range channel to report idle")
	}
}

func TestPlayWithNoArgResumesFromStopped(t *testing.T) {
	p := newTestPlayer(3)
	p.Play(datum.Void())
	if p.State() != Playing {
		t.Fatalf("expected Play(Void) to resume from Stopped, got %s", p.State())
	}
}

func TestPlayWithFrameDefersNavigation(t *testing.T) {
	p := newTestPlayer(5)
	_ = p.PlayFromStopped()
	p.Play(datum.Int(4))
	if p.pendingFrame == nil || *p.pendingFrame != 4 {
		t.Fatalf("expected Play(frame) to defer navigation to frame 4")
	}
}
