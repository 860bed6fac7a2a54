// Package behavior binds score behavior references to live script instances
// per frame: when a sprite span first becomes active it constructs (or
// reuses) the attached behavior's instance, calling its `new` handler with
// the span's sprite data if one is defined, mirroring the score's ownership
// of the sprite for as long as the span remains active. The same mechanism
// binds the channel-0 frame behavior.
package behavior

import (
	"github.com/libreshockwave/shockwave/internal/chunks"
	"github.com/libreshockwave/shockwave/internal/datum"
	"github.com/libreshockwave/shockwave/internal/lingo"
	"github.com/libreshockwave/shockwave/internal/score"
)

// MovieHost is the subset of *movie.MovieFile the manager needs to resolve
// a behavior reference to its script.
type MovieHost interface {
	MemberChunkIDByNumber(number int) (uint32, bool)
	ScriptForMember(memberChunkID uint32) (*chunks.Script, uint32, bool)
}

const newHandlerName = "new"

// binding is one slot's currently-live behavior instance, kept around
// across frames as long as its owning span doesn't change.
type binding struct {
	span       score.Span
	instanceID uint32
	scriptID   uint32
	script     *chunks.Script
}

// Binding is one slot's currently-attached behavior, exposed for
// EventDispatcher to invoke handlers against.
type Binding struct {
	Channel    uint16
	InstanceID uint32
	ScriptID   uint32
	Script     *chunks.Script
}

// Manager tracks which behavior instance is currently attached to each
// sprite channel and to the channel-0 frame-behavior slot, constructing a
// fresh instance whenever the active span changes and releasing the
// instance it replaces.
type Manager struct {
	vm  *lingo.VM
	mv  MovieHost
	idx *score.Index

	live      map[uint16]*binding // sprite channel -> binding
	liveFrame []*binding          // channel-0 spans, by position
}

// New creates a Manager driving vm against the given score index and movie
// host.
func New(vm *lingo.VM, mv MovieHost, idx *score.Index) *Manager {
	return &Manager{vm: vm, mv: mv, idx: idx, live: map[uint16]*binding{}}
}

// Load advances the manager to frame: for every active sprite channel it
// ensures a behavior instance is bound (constructing one if the span
// changed since the last call), and releases instances whose span has gone
// inactive. Returns the channel-ordered list of live bindings, for
// EventDispatcher to iterate over.
func (m *Manager) Load(frame int32) []Binding {
	active := m.idx.ActiveSprites(frame)
	seen := make(map[uint16]bool, len(active))

	var out []Binding
	for _, span := range active {
		seen[span.Channel] = true
		b := m.live[span.Channel]
		if b == nil || !sameSpan(b.span, span) {
			if b != nil {
				m.vm.ReleaseInstance(b.instanceID)
			}
			b = m.bind(span)
			m.live[span.Channel] = b
		}
		if b != nil {
			out = append(out, Binding{Channel: span.Channel, InstanceID: b.instanceID, ScriptID: b.scriptID, Script: b.script})
		}
	}

	for ch, b := range m.live {
		if !seen[ch] {
			if b != nil {
				m.vm.ReleaseInstance(b.instanceID)
			}
			delete(m.live, ch)
		}
	}
	return out
}

// LoadFrameBehaviors advances the channel-0 (frame behavior) bindings to
// frame, with the same construct-once/release-on-span-change semantics as
// Load, in span order.
func (m *Manager) LoadFrameBehaviors(frame int32) []Binding {
	spans := m.idx.FrameBehaviors(frame)

	for i, prev := range m.liveFrame {
		if prev == nil || i >= len(spans) || !sameSpan(prev.span, spans[i]) {
			if prev != nil {
				m.vm.ReleaseInstance(prev.instanceID)
			}
		}
	}

	next := make([]*binding, len(spans))
	var out []Binding
	for i, span := range spans {
		var prev *binding
		if i < len(m.liveFrame) {
			prev = m.liveFrame[i]
		}
		var b *binding
		if prev != nil && sameSpan(prev.span, span) {
			b = prev
		} else {
			b = m.bind(span)
		}
		next[i] = b
		if b != nil {
			out = append(out, Binding{Channel: span.Channel, InstanceID: b.instanceID, ScriptID: b.scriptID, Script: b.script})
		}
	}
	m.liveFrame = next
	return out
}

func sameSpan(a, b score.Span) bool {
	return a.Start == b.Start && a.End == b.End && a.CastLib == b.CastLib && a.CastMember == b.CastMember
}

// bind resolves span's attached cast member to a script and constructs its
// instance, calling `new` with the span's sprite data if the script defines
// one, else leaving every declared property at its Void default.
func (m *Manager) bind(span score.Span) *binding {
	if !span.HasCast {
		return nil
	}
	chunkID, ok := m.mv.MemberChunkIDByNumber(int(span.CastMember))
	if !ok {
		return nil
	}
	scr, scriptID, ok := m.mv.ScriptForMember(chunkID)
	if !ok {
		return nil
	}

	instanceID := m.vm.NewInstance(scriptID)
	b := &binding{span: span, instanceID: instanceID, scriptID: scriptID, script: scr}

	if h := m.vm.FindHandler(scr, newHandlerName); h != nil {
		args := []datum.Datum{datum.Str(string(span.Data))}
		if ret, err := m.vm.Execute(scriptID, scr, h, args, &instanceID); err == nil && !ret.IsVoid() {
			// `new` may return a replacement instance id packed as an integer;
			// otherwise the constructed instance above stands as-is.
			if ret.Kind == datum.KindInt {
				b.instanceID = uint32(ret.I)
			}
		}
	}
	return b
}

// Release frees every currently-bound instance, used when the movie unloads
// or rewinds to frame 1.
func (m *Manager) Release() {
	for ch, b := range m.live {
		if b != nil {
			m.vm.ReleaseInstance(b.instanceID)
		}
		delete(m.live, ch)
	}
	for _, b := range m.liveFrame {
		if b != nil {
			m.vm.ReleaseInstance(b.instanceID)
		}
	}
	m.liveFrame = nil
}
