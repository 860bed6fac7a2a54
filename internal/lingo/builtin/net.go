package builtin

import (
	"github.com/libreshockwave/shockwave/internal/datum"
	"github.com/libreshockwave/shockwave/internal/lingo"
)

func addNet(m map[string]lingo.Builtin) {
	m["preloadNetThing"] = func(vm *lingo.VM, args []datum.Datum) (datum.Datum, error) {
		if vm.Net == nil {
			return datum.Int(0), nil
		}
		return datum.Int(vm.Net.PreloadNetThing(arg(args, 0).String())), nil
	}
	m["postNetText"] = func(vm *lingo.VM, args []datum.Datum) (datum.Datum, error) {
		if vm.Net == nil {
			return datum.Int(0), nil
		}
		return datum.Int(vm.Net.PostNetText(arg(args, 0).String(), arg(args, 1).String())), nil
	}
	m["netDone"] = func(vm *lingo.VM, args []datum.Datum) (datum.Datum, error) {
		if vm.Net == nil {
			return datum.Int(1), nil
		}
		return boolDatum(vm.Net.NetDone(asInt(arg(args, 0)))), nil
	}
	m["netTextResult"] = func(vm *lingo.VM, args []datum.Datum) (datum.Datum, error) {
		if vm.Net == nil {
			return datum.Str(""), nil
		}
		return vm.Net.NetTextResult(asInt(arg(args, 0))), nil
	}
	m["netError"] = func(vm *lingo.VM, args []datum.Datum) (datum.Datum, error) {
		if vm.Net == nil {
			return datum.Str("OK"), nil
		}
		return datum.Str(vm.Net.NetError(asInt(arg(args, 0)))), nil
	}
	m["getStreamStatus"] = func(vm *lingo.VM, args []datum.Datum) (datum.Datum, error) {
		if vm.Net == nil {
			return datum.Void(), nil
		}
		return vm.Net.GetStreamStatus(asInt(arg(args, 0))), nil
	}
}

func boolDatum(b bool) datum.Datum {
	if b {
		return datum.Int(1)
	}
	return datum.Int(0)
}
