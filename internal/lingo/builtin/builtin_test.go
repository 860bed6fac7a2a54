package builtin

import (
	"testing"

	"github.com/libreshockwave/shockwave/internal/datum"
	"github.com/libreshockwave/shockwave/internal/lingo"
)

func newVM(t *testing.T) *lingo.VM {
	t.Helper()
	vm := lingo.New()
	Register(vm)
	return vm
}

func call(t *testing.T, vm *lingo.VM, name string, args ...datum.Datum) datum.Datum {
	t.Helper()
	fn, ok := vm.Builtins[name]
	if !ok {
		t.Fatalf("builtin %q not registered", name)
	}
	result, err := fn(vm, args)
	if err != nil {
		t.Fatalf("%s(%v): %v", name, args, err)
	}
	return result
}

func TestAbsSqrtPower(t *testing.T) {
	vm := newVM(t)
	if got := call(t, vm, "abs", datum.Int(-5)); got.I != 5 {
		t.Fatalf("abs(-5) = %v", got)
	}
	if got := call(t, vm, "sqrt", datum.Float(9)); got.F != 3 {
		t.Fatalf("sqrt(9) = %v", got)
	}
	if got := call(t, vm, "power", datum.Float(2), datum.Float(10)); got.F != 1024 {
		t.Fatalf("power(2,10) = %v", got)
	}
}

func TestListBuiltinsDelegateToDatum(t *testing.T) {
	vm := newVM(t)
	list := datum.NewList(datum.Int(1), datum.Int(2), datum.Int(3))
	got := call(t, vm, "getAt", list, datum.Int(2))
	if got.I != 2 {
		t.Fatalf("getAt = %v", got)
	}
	appended := call(t, vm, "add", list, datum.Int(4))
	if datum.Count(appended) != 4 {
		t.Fatalf("add did not grow list: %+v", appended)
	}
}

func TestIlkPredicates(t *testing.T) {
	vm := newVM(t)
	if got := call(t, vm, "integerP", datum.Int(1)); got.I != 1 {
		t.Fatalf("integerP(1) = %v", got)
	}
	if got := call(t, vm, "stringP", datum.Int(1)); got.I != 0 {
		t.Fatalf("stringP(1) = %v", got)
	}
}

func TestPassSetsLastPass(t *testing.T) {
	vm := newVM(t)
	call(t, vm, "pass")
	if !vm.LastPass() {
		t.Fatalf("expected pass() to set LastPass")
	}
}

func TestStageNoopWithoutHost(t *testing.T) {
	vm := newVM(t)
	if got := call(t, vm, "frame"); got.I != 0 {
		t.Fatalf("frame() without Stage host = %v", got)
	}
	call(t, vm, "go", datum.Int(1)) // should not panic with nil Stage
}
