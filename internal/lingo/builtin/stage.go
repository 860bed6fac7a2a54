package builtin

import (
	"github.com/libreshockwave/shockwave/internal/datum"
	"github.com/libreshockwave/shockwave/internal/lingo"
)

func addStage(m map[string]lingo.Builtin) {
	m["go"] = func(vm *lingo.VM, args []datum.Datum) (datum.Datum, error) {
		if vm.Stage != nil {
			vm.Stage.Go(arg(args, 0))
		}
		return datum.Void(), nil
	}
	m["play"] = func(vm *lingo.VM, args []datum.Datum) (datum.Datum, error) {
		if vm.Stage != nil {
			vm.Stage.Play(arg(args, 0))
		}
		return datum.Void(), nil
	}
	m["stop"] = func(vm *lingo.VM, args []datum.Datum) (datum.Datum, error) {
		if vm.Stage != nil {
			vm.Stage.Stop()
		}
		return datum.Void(), nil
	}
	m["pause"] = func(vm *lingo.VM, args []datum.Datum) (datum.Datum, error) {
		if vm.Stage != nil {
			vm.Stage.Pause()
		}
		return datum.Void(), nil
	}
	m["puppetTempo"] = func(vm *lingo.VM, args []datum.Datum) (datum.Datum, error) {
		if vm.Stage != nil {
			vm.Stage.SetPuppetTempo(asInt(arg(args, 0)))
		}
		return datum.Void(), nil
	}
	m["updateStage"] = func(vm *lingo.VM, args []datum.Datum) (datum.Datum, error) {
		if vm.Stage != nil {
			vm.Stage.UpdateStage()
		}
		return datum.Void(), nil
	}
	m["preload"] = func(vm *lingo.VM, args []datum.Datum) (datum.Datum, error) {
		if vm.Stage != nil {
			vm.Stage.Preload(arg(args, 0))
		}
		return datum.Void(), nil
	}
	m["frame"] = func(vm *lingo.VM, args []datum.Datum) (datum.Datum, error) {
		if vm.Stage == nil {
			return datum.Int(0), nil
		}
		return datum.Int(vm.Stage.CurrentFrame()), nil
	}
}
