package lingo

import "github.com/libreshockwave/shockwave/internal/datum"

// ScriptInstance is a constructed object: the parent script it was built
// from, and its ordered property map, initialised from the script's
// declared property names.
type ScriptInstance struct {
	ScriptID   uint32 // parent Script chunk id
	Properties *datum.PropListValue
	freed      bool
}

// instanceArena owns every live ScriptInstance behind an InstanceId, per
// cycle-avoidance guidance: handler receivers and property
// values hold ids, never direct pointers, so ancestor chains and sprite
// behavior registries can be cyclic without reference-counting cycles.
type instanceArena struct {
	slots    []*ScriptInstance
	freeList []uint32
}

func newInstanceArena() *instanceArena {
	return &instanceArena{}
}

// New allocates a fresh ScriptInstance and returns its id.
func (a *instanceArena) New(scriptID uint32, propNames []string) uint32 {
	inst := &ScriptInstance{ScriptID: scriptID, Properties: &datum.PropListValue{}}
	for _, name := range propNames {
		inst.Properties.Entries = append(inst.Properties.Entries, datum.PropEntry{
			Key:   datum.Sym(name),
			Value: datum.Void(),
		})
	}
	if len(a.freeList) > 0 {
		id := a.freeList[len(a.freeList)-1]
		a.freeList = a.freeList[:len(a.freeList)-1]
		a.slots[id] = inst
		return id
	}
	a.slots = append(a.slots, inst)
	return uint32(len(a.slots) - 1)
}

// Get dereferences id, or returns nil if it has been released or is
// out of range.
func (a *instanceArena) Get(id uint32) *ScriptInstance {
	if int(id) >= len(a.slots) {
		return nil
	}
	inst := a.slots[id]
	if inst == nil || inst.freed {
		return nil
	}
	return inst
}

// Release marks id free for reuse. Called when the engine determines an
// instance has no remaining holders (deterministic last-holder release);
// never invoked mid-traversal.
func (a *instanceArena) Release(id uint32) {
	inst := a.Get(id)
	if inst == nil {
		return
	}
	inst.freed = true
	a.slots[id] = nil
	a.freeList = append(a.freeList, id)
}
