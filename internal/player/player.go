// Package player drives movie playback: the Stopped/Paused/Playing state
// machine, the per-frame cycle (exitFrame, advance, load sprites, frame
// script, prepareFrame, enterFrame), deferred go-to-frame navigation, the
// movie-level property table, and the sound-channel bookkeeping array --
// implementing the lingo.MoviePropHost, lingo.SoundHost, and lingo.StageHost
// interfaces so builtins reach this state without the VM importing this
// package. Grounded on the teacher's Server, whose explicit Start/Stop-style
// state transitions this borrows for the playback state machine.
package player

import (
	"fmt"

	"github.com/libreshockwave/shockwave/internal/behavior"
	"github.com/libreshockwave/shockwave/internal/chunks"
	"github.com/libreshockwave/shockwave/internal/datum"
	"github.com/libreshockwave/shockwave/internal/event"
	"github.com/libreshockwave/shockwave/internal/lingo"
	"github.com/libreshockwave/shockwave/internal/movie"
	"github.com/libreshockwave/shockwave/internal/score"
)

// State is the playback state machine's current state.
type State int

const (
	Stopped State = iota
	Paused
	Playing
)

func (s State) String() string {
	switch s {
	case Stopped:
		return "stopped"
	case Paused:
		return "paused"
	case Playing:
		return "playing"
	default:
		return "unknown"
	}
}

// maxNavDepth bounds recursive go-to-frame navigation triggered from within
// a frame's own enterFrame/prepareFrame handlers.
const maxNavDepth = 100

// soundChannelCount is the size of the fixed sound-channel table; state
// bookkeeping only, no real audio mixer.
const soundChannelCount = 8

type soundChannelState struct {
	member  datum.Datum
	level   int32
	playing bool
}

// Player owns the single playback thread's mutable state: the current
// frame, the score index, the behavior bindings for the active frame, and
// the movie-level property and sound-channel tables the VM's builtins read
// and write through the Host interfaces below.
type Player struct {
	vm         *lingo.VM
	dispatcher *event.Dispatcher

	mv            *movie.MovieFile
	idx           *score.Index
	behaviors     *behavior.Manager
	movieScripts  []event.MovieScript
	externalCasts [][]event.MovieScript

	state        State
	currentFrame int32
	lastFrame    int32
	pendingFrame *int32

	puppetTempo  int32
	movieProps   map[string]datum.Datum
	soundChannel [soundChannelCount]soundChannelState
}

// New creates an unloaded Player driving vm.
func New(vm *lingo.VM) *Player {
	return &Player{
		vm:           vm,
		dispatcher:   event.New(vm),
		state:        Stopped,
		currentFrame: 1,
		lastFrame:    1,
		movieProps:   map[string]datum.Datum{},
	}
}

// State returns the current playback state.
func (p *Player) State() State { return p.state }

// FrameLabel returns the label assigned to the current frame, if any.
func (p *Player) FrameLabel() (string, bool) {
	if p.idx == nil {
		return "", false
	}
	return p.idx.Label(p.currentFrame)
}

// LoadMovie installs mv as the playing movie, resets to frame 1, and
// dispatches prepareMovie to every movie script.
func (p *Player) LoadMovie(mv *movie.MovieFile) error {
	p.mv = mv
	p.currentFrame = 1
	p.pendingFrame = nil

	if mv.Score != nil {
		idx, err := score.Build(mv.Score, mv.Order(), nil)
		if err != nil {
			return fmt.Errorf("player: load score: %w", err)
		}
		p.idx = idx
		p.lastFrame = mv.Score.FrameCount
		if p.lastFrame < 1 {
			p.lastFrame = 1
		}
	} else {
		p.idx = score.Empty()
		p.lastFrame = 1
	}

	p.behaviors = behavior.New(p.vm, mv, p.idx)
	p.externalCasts = nil
	p.dispatcher.SetExternalCastScripts(nil)
	p.rebuildMovieScripts()

	p.state = Stopped
	p.dispatch("prepareMovie")
	return nil
}

// AddExternalCast appends an already-loaded external cast's movie scripts
// to the dispatcher's external-cast propagation list, in load order.
func (p *Player) AddExternalCast(mv *movie.MovieFile) {
	p.externalCasts = append(p.externalCasts, movieTypeScripts(mv))
	p.dispatcher.SetExternalCastScripts(p.externalCasts)
}

func (p *Player) rebuildMovieScripts() {
	p.movieScripts = movieTypeScripts(p.mv)
	p.dispatcher.SetMovieScripts(p.movieScripts)
}

func movieTypeScripts(mv *movie.MovieFile) []event.MovieScript {
	if mv == nil || mv.ScriptContext == nil {
		return nil
	}
	var scripts []event.MovieScript
	for i := range mv.ScriptContext.Entries {
		scr, chunkID, err := mv.ScriptByContextSlot(i)
		if err != nil || scr.Type != chunks.ScriptTypeMovie {
			continue
		}
		scripts = append(scripts, event.MovieScript{ScriptID: chunkID, Script: scr})
	}
	return scripts
}

// PlayFromStopped transitions Stopped -> Playing, dispatching prepareMovie
// then startMovie. Either handler may itself call go()/the frame property
// setter; that navigation is deferred the same way Tick defers it, and is
// resolved once this outermost dispatch completes.
func (p *Player) PlayFromStopped() error {
	if p.state != Stopped {
		return fmt.Errorf("player: play requires state stopped, have %s", p.state)
	}
	p.dispatch("prepareMovie")
	p.dispatch("startMovie")
	p.state = Playing
	p.resolvePendingNavigation()
	return nil
}

// StopPlayback transitions any non-Stopped state to Stopped, dispatching
// stopMovie and resetting the current frame to 1.
func (p *Player) StopPlayback() {
	if p.state == Stopped {
		return
	}
	p.dispatch("stopMovie")
	p.state = Stopped
	p.currentFrame = 1
	p.resolvePendingNavigation()
}

// PausePlayback transitions Playing to Paused.
func (p *Player) PausePlayback() {
	if p.state == Playing {
		p.state = Paused
	}
}

// Tick runs one frame cycle while Playing: exitFrame, advance (or wrap) the
// frame counter if exitFrame didn't itself navigate, load sprite/frame
// behaviors for the new frame, then prepareFrame and enterFrame. Any
// go-to-frame navigation requested during this cycle is applied afterward,
// bounded by maxNavDepth.
func (p *Player) Tick() {
	if p.state != Playing {
		return
	}
	before := p.currentFrame
	p.dispatch("exitFrame")
	if p.currentFrame == before {
		if before >= p.lastFrame {
			p.currentFrame = 1
		} else {
			p.currentFrame = before + 1
		}
	}
	p.loadFrame(p.currentFrame)
	p.dispatch("prepareFrame")
	p.dispatch("enterFrame")
	p.resolvePendingNavigation()
}

func (p *Player) loadFrame(frame int32) {
	if p.behaviors == nil {
		return
	}
	sprites := p.behaviors.Load(frame)
	frameBehaviors := p.behaviors.LoadFrameBehaviors(frame)
	p.dispatcher.SetFrame(sprites, frameBehaviors)
}

func (p *Player) resolvePendingNavigation() {
	depth := 0
	for p.pendingFrame != nil && *p.pendingFrame != p.currentFrame && depth < maxNavDepth {
		target := *p.pendingFrame
		p.pendingFrame = nil
		depth++
		p.goToFrameImmediate(target)
	}
	p.pendingFrame = nil
}

func (p *Player) goToFrameImmediate(frame int32) {
	if frame < 1 {
		frame = 1
	}
	if frame > p.lastFrame {
		frame = p.lastFrame
	}
	p.currentFrame = frame
	p.loadFrame(frame)
	p.dispatch("prepareFrame")
	p.dispatch("enterFrame")
}

func (p *Player) dispatch(name string) event.Result {
	return p.dispatcher.Dispatch(name, nil)
}

// frameTarget resolves a Lingo value used as a frame reference: an
// integer/float frame number, or a string/symbol frame label.
func (p *Player) frameTarget(v datum.Datum) (int32, bool) {
	switch v.Kind {
	case datum.KindInt:
		return v.I, true
	case datum.KindFloat:
		return int32(v.F), true
	case datum.KindString, datum.KindSymbol:
		if p.idx != nil {
			if f, ok := p.idx.FrameForLabel(v.S); ok {
				return f, true
			}
		}
		return 0, false
	default:
		return 0, false
	}
}

// --- lingo.MoviePropHost ---

// GetMovieProp reads a movie-level property, special-casing the ones
// derived from live player state (frame, itemDelimiter, stage dimensions)
// and falling back to the free-form property table for everything else.
func (p *Player) GetMovieProp(name string) datum.Datum {
	switch name {
	case "frame":
		return datum.Int(p.currentFrame)
	case "itemDelimiter":
		return datum.Str(p.vm.ItemDelimiter)
	case "stageWidth":
		return datum.Int(p.stageDim(func(r chunks.Rect16) int16 { return r.Right - r.Left }))
	case "stageHeight":
		return datum.Int(p.stageDim(func(r chunks.Rect16) int16 { return r.Bottom - r.Top }))
	case "lastFrame", "frameCount":
		return datum.Int(p.lastFrame)
	}
	if v, ok := p.movieProps[name]; ok {
		return v
	}
	return datum.Void()
}

func (p *Player) stageDim(f func(chunks.Rect16) int16) int32 {
	if p.mv == nil || p.mv.Config == nil {
		return 0
	}
	return int32(f(p.mv.Config.StageRect))
}

// SetMovieProp writes a movie-level property, special-casing frame
// (deferred navigation, same as the `go` builtin) and itemDelimiter
// (rewrites the VM's active chunk delimiter).
func (p *Player) SetMovieProp(name string, v datum.Datum) {
	switch name {
	case "frame":
		if f, ok := p.frameTarget(v); ok {
			p.pendingFrame = &f
		}
		return
	case "itemDelimiter":
		p.vm.ItemDelimiter = v.S
		return
	}
	p.movieProps[name] = v
}

// --- lingo.SoundHost ---

func (p *Player) soundChannelAt(channel int) *soundChannelState {
	if channel < 1 || channel > len(p.soundChannel) {
		return nil
	}
	return &p.soundChannel[channel-1]
}

func (p *Player) PuppetSound(channel int, member datum.Datum) {
	ch := p.soundChannelAt(channel)
	if ch == nil {
		return
	}
	ch.member = member
	ch.playing = !member.IsVoid()
}

func (p *Player) PlaySound(channel int, member datum.Datum) {
	ch := p.soundChannelAt(channel)
	if ch == nil {
		return
	}
	ch.member = member
	ch.playing = true
}

func (p *Player) StopSound(channel int) {
	if ch := p.soundChannelAt(channel); ch != nil {
		ch.playing = false
	}
}

func (p *Player) SoundBusy(channel int) bool {
	ch := p.soundChannelAt(channel)
	return ch != nil && ch.playing
}

func (p *Player) SoundLevel(channel int) int32 {
	ch := p.soundChannelAt(channel)
	if ch == nil {
		return 0
	}
	return ch.level
}

func (p *Player) SetSoundLevel(channel int, level int32) {
	if ch := p.soundChannelAt(channel); ch != nil {
		ch.level = level
	}
}

// --- lingo.StageHost ---

func (p *Player) Go(frame datum.Datum) {
	if f, ok := p.frameTarget(frame); ok {
		p.pendingFrame = &f
	}
}

// Play navigates like Go when given a frame reference, or resumes playback
// from Stopped when called bare (Void argument), matching the two Lingo
// surfaces (`play <frame>` vs. the no-arg `play` command) that share this
// builtin slot.
func (p *Player) Play(frame datum.Datum) {
	if frame.IsVoid() {
		_ = p.PlayFromStopped()
		return
	}
	if f, ok := p.frameTarget(frame); ok {
		p.pendingFrame = &f
	}
}

func (p *Player) Stop()  { p.StopPlayback() }
func (p *Player) Pause() { p.PausePlayback() }

func (p *Player) SetPuppetTempo(fps int32) { p.puppetTempo = fps }

// UpdateStage is a rendering hook; this engine has no renderer to refresh.
func (p *Player) UpdateStage() {}

// Preload is a caching hint; resource fetching is driven explicitly through
// internal/resource rather than implicitly from this builtin.
func (p *Player) Preload(member datum.Datum) {}

func (p *Player) CurrentFrame() int32 { return p.currentFrame }
