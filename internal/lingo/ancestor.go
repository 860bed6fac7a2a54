package lingo

import "github.com/libreshockwave/shockwave/internal/datum"

// maxAncestorHops bounds ancestor-chain traversal: a
// defence in depth against cyclic chains, not merely an optimisation.
const maxAncestorHops = 32

// ResolveProp resolves a property name on a ScriptInstance: own properties
// first, then the `ancestor` property if it holds another ScriptInstance,
// recursively, bounded to maxAncestorHops.
func (vm *VM) ResolveProp(instanceID uint32, name string) datum.Datum {
	id := instanceID
	for hop := 0; hop < maxAncestorHops; hop++ {
		inst := vm.arena.Get(id)
		if inst == nil {
			return datum.Void()
		}
		if v, ok := lookupOwn(inst, name); ok {
			return v
		}
		ancestor, ok := lookupOwn(inst, "ancestor")
		if !ok || ancestor.Kind != datum.KindScriptInstance {
			return datum.Void()
		}
		id = ancestor.InstanceID
	}
	return datum.Void()
}

// SetProp sets a property on the instance's own property list if present
// there, otherwise walks the ancestor chain looking for the first owner,
// falling back to defining it locally if no ancestor has it.
func (vm *VM) SetProp(instanceID uint32, name string, value datum.Datum) {
	id := instanceID
	for hop := 0; hop < maxAncestorHops; hop++ {
		inst := vm.arena.Get(id)
		if inst == nil {
			break
		}
		if setOwn(inst, name, value) {
			return
		}
		ancestor, ok := lookupOwn(inst, "ancestor")
		if !ok || ancestor.Kind != datum.KindScriptInstance {
			break
		}
		id = ancestor.InstanceID
	}
	if inst := vm.arena.Get(instanceID); inst != nil {
		inst.Properties.Entries = append(inst.Properties.Entries, datum.PropEntry{
			Key: datum.Sym(name), Value: value,
		})
	}
}

func lookupOwn(inst *ScriptInstance, name string) (datum.Datum, bool) {
	if inst.Properties == nil {
		return datum.Void(), false
	}
	for _, e := range inst.Properties.Entries {
		if e.Key.Kind == datum.KindSymbol && equalFold(e.Key.S, name) {
			return e.Value, true
		}
	}
	return datum.Void(), false
}

func setOwn(inst *ScriptInstance, name string, v datum.Datum) bool {
	if inst.Properties == nil {
		return false
	}
	for i, e := range inst.Properties.Entries {
		if e.Key.Kind == datum.KindSymbol && equalFold(e.Key.S, name) {
			inst.Properties.Entries[i].Value = v
			return true
		}
	}
	return false
}

func equalFold(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := 0; i < len(a); i++ {
		ca, cb := a[i], b[i]
		if ca >= 'A' && ca <= 'Z' {
			ca += 32
		}
		if cb >= 'A' && cb <= 'Z' {
			cb += 32
		}
		if ca != cb {
			return false
		}
	}
	return true
}
