package builtin

import (
	"github.com/libreshockwave/shockwave/internal/datum"
	"github.com/libreshockwave/shockwave/internal/lingo"
)

func addSound(m map[string]lingo.Builtin) {
	m["sound"] = func(vm *lingo.VM, args []datum.Datum) (datum.Datum, error) {
		return datum.SoundChannel(uint8(asInt(arg(args, 0)))), nil
	}
	m["puppetSound"] = func(vm *lingo.VM, args []datum.Datum) (datum.Datum, error) {
		if vm.Sound != nil {
			vm.Sound.PuppetSound(int(asInt(arg(args, 0))), arg(args, 1))
		}
		return datum.Void(), nil
	}
	m["playSound"] = func(vm *lingo.VM, args []datum.Datum) (datum.Datum, error) {
		if vm.Sound != nil {
			vm.Sound.PlaySound(int(asInt(arg(args, 0))), arg(args, 1))
		}
		return datum.Void(), nil
	}
	m["stopSound"] = func(vm *lingo.VM, args []datum.Datum) (datum.Datum, error) {
		if vm.Sound != nil {
			vm.Sound.StopSound(int(asInt(arg(args, 0))))
		}
		return datum.Void(), nil
	}
	m["soundBusy"] = func(vm *lingo.VM, args []datum.Datum) (datum.Datum, error) {
		if vm.Sound == nil {
			return datum.Int(0), nil
		}
		return boolDatum(vm.Sound.SoundBusy(int(asInt(arg(args, 0))))), nil
	}
	m["soundLevel"] = func(vm *lingo.VM, args []datum.Datum) (datum.Datum, error) {
		if vm.Sound == nil {
			return datum.Int(0), nil
		}
		if len(args) >= 2 {
			vm.Sound.SetSoundLevel(int(asInt(arg(args, 0))), asInt(arg(args, 1)))
			return datum.Void(), nil
		}
		return datum.Int(vm.Sound.SoundLevel(int(asInt(arg(args, 0))))), nil
	}
	m["beep"] = func(vm *lingo.VM, args []datum.Datum) (datum.Datum, error) {
		return datum.Void(), nil
	}
}
