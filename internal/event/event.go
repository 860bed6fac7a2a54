// Package event implements ordered Lingo event propagation: sprite
// behaviors (ascending channel), then the frame behavior, then every movie
// script, then every loaded external cast's movie scripts -- stopping as
// soon as a handler runs without calling `pass`, grounded on the teacher's
// HookManager.TriggerEvent ordered-iteration pattern adapted to run
// synchronously on the playback thread instead of a worker pool, since
// handler order (not concurrency) is what event semantics depend on.
package event

import (
	"github.com/libreshockwave/shockwave/internal/behavior"
	"github.com/libreshockwave/shockwave/internal/chunks"
	"github.com/libreshockwave/shockwave/internal/datum"
	"github.com/libreshockwave/shockwave/internal/lingo"
	"github.com/libreshockwave/shockwave/internal/logger"
)

// MovieScript pairs a decoded movie-type script with its chunk id, in the
// chunk-order or cast-load-order the dispatcher iterates.
type MovieScript struct {
	ScriptID uint32
	Script   *chunks.Script
}

// Dispatcher runs the propagation order for a named event across the
// current frame's sprite/frame behaviors and the movie's own scripts.
type Dispatcher struct {
	vm *lingo.VM

	spriteBindings []behavior.Binding
	frameBindings  []behavior.Binding
	movieScripts   []MovieScript
	externalCasts  [][]MovieScript
}

// New creates a Dispatcher driving vm.
func New(vm *lingo.VM) *Dispatcher {
	return &Dispatcher{vm: vm}
}

// SetFrame installs the current frame's sprite and frame-behavior bindings,
// called by the Player once per frame cycle right after BehaviorManager.Load
// / LoadFrameBehaviors.
func (d *Dispatcher) SetFrame(sprites, frame []behavior.Binding) {
	d.spriteBindings = sprites
	d.frameBindings = frame
}

// SetMovieScripts installs the main movie's movie-type scripts, in chunk
// order.
func (d *Dispatcher) SetMovieScripts(scripts []MovieScript) {
	d.movieScripts = scripts
}

// SetExternalCastScripts installs every loaded external cast's movie-type
// scripts, ordered by cast load order.
func (d *Dispatcher) SetExternalCastScripts(casts [][]MovieScript) {
	d.externalCasts = casts
}

// Result reports what a Dispatch call observed.
type Result struct {
	Value   datum.Datum
	Handled bool // a handler ran at least once
}

// Dispatch runs the propagation order for name, stopping at the first
// handler that runs without calling `pass`. A handler error is logged and
// treated as consumed (propagation stops), matching the stop-on-error
// convention this engine adopts. When every handler that ran called `pass`,
// the result of the last one is returned (Handled is still true).
func (d *Dispatcher) Dispatch(name string, args []datum.Datum) Result {
	var last Result
	for _, b := range d.spriteBindings {
		if res, stop := d.tryHandler(b.ScriptID, b.Script, &b.InstanceID, name, args); stop {
			return res
		} else if res.Handled {
			last = res
		}
	}

	for _, b := range d.frameBindings {
		if res, stop := d.tryHandler(b.ScriptID, b.Script, &b.InstanceID, name, args); stop {
			return res
		} else if res.Handled {
			last = res
		}
	}

	for _, s := range d.movieScripts {
		if res, stop := d.tryHandler(s.ScriptID, s.Script, nil, name, args); stop {
			return res
		} else if res.Handled {
			last = res
		}
	}

	for _, cast := range d.externalCasts {
		for _, s := range cast {
			if res, stop := d.tryHandler(s.ScriptID, s.Script, nil, name, args); stop {
				return res
			} else if res.Handled {
				last = res
			}
		}
	}

	return last
}

// tryHandler invokes name on script if defined. The bool return reports
// whether propagation should stop: true on error or on a handler that ran
// without calling pass, false if the handler called pass (continue to the
// next candidate) or if script doesn't define the handler at all.
func (d *Dispatcher) tryHandler(scriptID uint32, script *chunks.Script, receiver *uint32, name string, args []datum.Datum) (Result, bool) {
	h := d.vm.FindHandler(script, name)
	if h == nil {
		return Result{}, false
	}

	value, err := d.vm.Execute(scriptID, script, h, args, receiver)
	if err != nil {
		logger.Error("lingo handler failed", "event", name, "scriptID", scriptID, "error", err)
		return Result{Value: datum.Void(), Handled: true}, true
	}
	if d.vm.LastPass() {
		return Result{Value: value, Handled: true}, false
	}
	return Result{Value: value, Handled: true}, true
}
