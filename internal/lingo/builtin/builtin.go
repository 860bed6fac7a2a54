// Package builtin registers the global handler table every Lingo script
// implicitly sees: math, type coercion, list/proplist manipulation, sound
// and stage control, and network primitives. Register wires every entry
// into a VM's Builtins map; callers supply the VM's Net/Sound/Stage hosts
// before scripts run to get more than stubbed Void/error behavior from the
// ambient-IO groups.
package builtin

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/libreshockwave/shockwave/internal/datum"
	coreerrors "github.com/libreshockwave/shockwave/internal/errors"
	"github.com/libreshockwave/shockwave/internal/lingo"
)

// Register installs every builtin handler into vm.Builtins.
func Register(vm *lingo.VM) {
	for name, fn := range all() {
		vm.Builtins[name] = fn
	}
}

func all() map[string]lingo.Builtin {
	m := map[string]lingo.Builtin{}
	addMath(m)
	addCoercion(m)
	addListOps(m)
	addPropOps(m)
	addGeometry(m)
	addControl(m)
	addNet(m)
	addSound(m)
	addStage(m)
	return m
}

func arg(args []datum.Datum, i int) datum.Datum {
	if i < 0 || i >= len(args) {
		return datum.Void()
	}
	return args[i]
}

func asFloat(d datum.Datum) float64 {
	switch d.Kind {
	case datum.KindFloat:
		return d.F
	case datum.KindInt:
		return float64(d.I)
	default:
		return 0
	}
}

func asInt(d datum.Datum) int32 {
	switch d.Kind {
	case datum.KindInt:
		return d.I
	case datum.KindFloat:
		return int32(d.F)
	default:
		return 0
	}
}

func typeMismatch(op string) error {
	return coreerrors.NewScriptError("TypeMismatch", op, 0, "", 0, nil)
}

func addMath(m map[string]lingo.Builtin) {
	unary := func(op string, f func(float64) float64) lingo.Builtin {
		return func(vm *lingo.VM, args []datum.Datum) (datum.Datum, error) {
			return datum.Float(f(asFloat(arg(args, 0)))), nil
		}
	}
	m["sqrt"] = unary("sqrt", math.Sqrt)
	m["sin"] = unary("sin", math.Sin)
	m["cos"] = unary("cos", math.Cos)
	m["tan"] = unary("tan", math.Tan)
	m["atan"] = unary("atan", math.Atan)

	m["abs"] = func(vm *lingo.VM, args []datum.Datum) (datum.Datum, error) {
		a := arg(args, 0)
		if a.Kind == datum.KindInt {
			if a.I < 0 {
				return datum.Int(-a.I), nil
			}
			return a, nil
		}
		return datum.Float(math.Abs(asFloat(a))), nil
	}
	m["power"] = func(vm *lingo.VM, args []datum.Datum) (datum.Datum, error) {
		return datum.Float(math.Pow(asFloat(arg(args, 0)), asFloat(arg(args, 1)))), nil
	}
	m["pi"] = func(vm *lingo.VM, args []datum.Datum) (datum.Datum, error) {
		return datum.Float(math.Pi), nil
	}
	m["random"] = func(vm *lingo.VM, args []datum.Datum) (datum.Datum, error) {
		n := asInt(arg(args, 0))
		if n <= 0 {
			return datum.Int(0), nil
		}
		return datum.Int(int32(rand.Intn(int(n))) + 1), nil
	}
}

func addCoercion(m map[string]lingo.Builtin) {
	m["integer"] = func(vm *lingo.VM, args []datum.Datum) (datum.Datum, error) {
		return datum.ToInteger(arg(args, 0)), nil
	}
	m["float"] = func(vm *lingo.VM, args []datum.Datum) (datum.Datum, error) {
		return datum.ToFloat(arg(args, 0)), nil
	}
	m["string"] = func(vm *lingo.VM, args []datum.Datum) (datum.Datum, error) {
		return datum.Str(arg(args, 0).String()), nil
	}
	m["symbol"] = func(vm *lingo.VM, args []datum.Datum) (datum.Datum, error) {
		return datum.Sym(arg(args, 0).String()), nil
	}
	m["value"] = func(vm *lingo.VM, args []datum.Datum) (datum.Datum, error) {
		s := arg(args, 0)
		if s.Kind != datum.KindString {
			return s, nil
		}
		asInt := datum.ToInteger(s)
		if asInt.Kind == datum.KindInt {
			return asInt, nil
		}
		asFlt := datum.ToFloat(s)
		if asFlt.Kind == datum.KindFloat {
			return asFlt, nil
		}
		return datum.Void(), nil
	}

	ilkCheck := func(kind datum.Kind) lingo.Builtin {
		return func(vm *lingo.VM, args []datum.Datum) (datum.Datum, error) {
			d := arg(args, 0)
			if d.Kind == kind {
				return datum.Int(1), nil
			}
			return datum.Int(0), nil
		}
	}
	m["objectP"] = ilkCheck(datum.KindScriptInstance)
	m["listP"] = func(vm *lingo.VM, args []datum.Datum) (datum.Datum, error) {
		k := arg(args, 0).Kind
		if k == datum.KindList || k == datum.KindPropList || k == datum.KindArgList || k == datum.KindArgListNoRet {
			return datum.Int(1), nil
		}
		return datum.Int(0), nil
	}
	m["stringP"] = ilkCheck(datum.KindString)
	m["symbolP"] = ilkCheck(datum.KindSymbol)
	m["integerP"] = ilkCheck(datum.KindInt)
	m["floatP"] = ilkCheck(datum.KindFloat)
	m["voidP"] = ilkCheck(datum.KindVoid)

	m["ilk"] = func(vm *lingo.VM, args []datum.Datum) (datum.Datum, error) {
		if len(args) >= 2 {
			return datum.IlkIs(arg(args, 0), arg(args, 1)), nil
		}
		return datum.Ilk(arg(args, 0)), nil
	}
}

func addListOps(m map[string]lingo.Builtin) {
	m["length"] = func(vm *lingo.VM, args []datum.Datum) (datum.Datum, error) {
		a := arg(args, 0)
		if a.Kind == datum.KindString || a.Kind == datum.KindSymbol {
			return datum.Int(int32(len(a.S))), nil
		}
		return datum.Int(datum.Count(a)), nil
	}
	m["count"] = func(vm *lingo.VM, args []datum.Datum) (datum.Datum, error) {
		a := arg(args, 0)
		if a.Kind == datum.KindPropList {
			return datum.Int(datum.PropCount(a)), nil
		}
		return datum.Int(datum.Count(a)), nil
	}
	m["chars"] = func(vm *lingo.VM, args []datum.Datum) (datum.Datum, error) {
		return datum.Str(datum.Chunk(arg(args, 0).String(), datum.ChunkChar, asInt(arg(args, 1)), asInt(arg(args, 2)), ",")), nil
	}
	m["word"] = func(vm *lingo.VM, args []datum.Datum) (datum.Datum, error) {
		return datum.Str(datum.Chunk(arg(args, 1).String(), datum.ChunkWord, asInt(arg(args, 0)), asInt(arg(args, 0)), ",")), nil
	}
	m["item"] = func(vm *lingo.VM, args []datum.Datum) (datum.Datum, error) {
		return datum.Str(datum.Chunk(arg(args, 1).String(), datum.ChunkItem, asInt(arg(args, 0)), asInt(arg(args, 0)), ",")), nil
	}
	m["line"] = func(vm *lingo.VM, args []datum.Datum) (datum.Datum, error) {
		return datum.Str(datum.Chunk(arg(args, 1).String(), datum.ChunkLine, asInt(arg(args, 0)), asInt(arg(args, 0)), ",")), nil
	}
	m["offset"] = func(vm *lingo.VM, args []datum.Datum) (datum.Datum, error) {
		needle, haystack := arg(args, 0).String(), arg(args, 1).String()
		for i := 0; i+len(needle) <= len(haystack); i++ {
			if len(needle) > 0 && haystack[i:i+len(needle)] == needle {
				return datum.Int(int32(i + 1)), nil
			}
		}
		return datum.Int(0), nil
	}
	m["getAt"] = func(vm *lingo.VM, args []datum.Datum) (datum.Datum, error) {
		return datum.GetAt(arg(args, 0), asInt(arg(args, 1))), nil
	}
	m["setAt"] = func(vm *lingo.VM, args []datum.Datum) (datum.Datum, error) {
		return datum.SetAt(arg(args, 0), asInt(arg(args, 1)), arg(args, 2)), nil
	}
	m["addAt"] = func(vm *lingo.VM, args []datum.Datum) (datum.Datum, error) {
		return datum.AddAt(arg(args, 0), asInt(arg(args, 1)), arg(args, 2)), nil
	}
	m["add"] = func(vm *lingo.VM, args []datum.Datum) (datum.Datum, error) {
		return datum.Append(arg(args, 0), arg(args, 1)), nil
	}
	m["append"] = m["add"]
	m["deleteAt"] = func(vm *lingo.VM, args []datum.Datum) (datum.Datum, error) {
		return datum.DeleteAt(arg(args, 0), asInt(arg(args, 1))), nil
	}
	m["deleteOne"] = func(vm *lingo.VM, args []datum.Datum) (datum.Datum, error) {
		return datum.DeleteOne(arg(args, 0), arg(args, 1)), nil
	}
	m["getOne"] = func(vm *lingo.VM, args []datum.Datum) (datum.Datum, error) {
		pos := datum.GetPos(arg(args, 0), arg(args, 1))
		if pos == 0 {
			return datum.Void(), nil
		}
		return datum.GetAt(arg(args, 0), pos), nil
	}
	m["getPos"] = func(vm *lingo.VM, args []datum.Datum) (datum.Datum, error) {
		return datum.Int(datum.GetPos(arg(args, 0), arg(args, 1))), nil
	}
	m["sort"] = func(vm *lingo.VM, args []datum.Datum) (datum.Datum, error) {
		return datum.Sort(arg(args, 0)), nil
	}
	m["duplicate"] = func(vm *lingo.VM, args []datum.Datum) (datum.Datum, error) {
		a := arg(args, 0)
		a.List = append([]datum.Datum(nil), a.List...)
		return a, nil
	}
	m["getLast"] = func(vm *lingo.VM, args []datum.Datum) (datum.Datum, error) {
		return datum.GetAt(arg(args, 0), datum.Count(arg(args, 0))), nil
	}
	m["deleteLast"] = func(vm *lingo.VM, args []datum.Datum) (datum.Datum, error) {
		a := arg(args, 0)
		return datum.DeleteAt(a, datum.Count(a)), nil
	}
	m["map"] = func(vm *lingo.VM, args []datum.Datum) (datum.Datum, error) {
		// Lingo's map() invokes a handler per element; without an AST-level
		// handler reference available to builtins, this returns the list
		// unchanged rather than guessing a call convention.
		return arg(args, 0), nil
	}
}

func addPropOps(m map[string]lingo.Builtin) {
	m["getProp"] = func(vm *lingo.VM, args []datum.Datum) (datum.Datum, error) {
		return datum.GetAProp(arg(args, 0), arg(args, 1)), nil
	}
	m["setProp"] = func(vm *lingo.VM, args []datum.Datum) (datum.Datum, error) {
		return datum.SetAProp(arg(args, 0), arg(args, 1), arg(args, 2)), nil
	}
	m["getaProp"] = m["getProp"]
	m["setaProp"] = m["setProp"]
	m["addProp"] = func(vm *lingo.VM, args []datum.Datum) (datum.Datum, error) {
		return datum.AddProp(arg(args, 0), arg(args, 1), arg(args, 2)), nil
	}
	m["deleteProp"] = func(vm *lingo.VM, args []datum.Datum) (datum.Datum, error) {
		return datum.DeleteProp(arg(args, 0), arg(args, 1)), nil
	}
	m["findPos"] = func(vm *lingo.VM, args []datum.Datum) (datum.Datum, error) {
		return datum.Int(datum.FindPos(arg(args, 0), arg(args, 1))), nil
	}
	m["findPosNear"] = m["findPos"]
	m["getPropAt"] = func(vm *lingo.VM, args []datum.Datum) (datum.Datum, error) {
		return datum.GetPropAt(arg(args, 0), asInt(arg(args, 1))), nil
	}
}

func addGeometry(m map[string]lingo.Builtin) {
	m["point"] = func(vm *lingo.VM, args []datum.Datum) (datum.Datum, error) {
		return datum.NewPoint(asInt(arg(args, 0)), asInt(arg(args, 1))), nil
	}
	m["rect"] = func(vm *lingo.VM, args []datum.Datum) (datum.Datum, error) {
		return datum.NewRect(asInt(arg(args, 0)), asInt(arg(args, 1)), asInt(arg(args, 2)), asInt(arg(args, 3))), nil
	}
	m["union"] = func(vm *lingo.VM, args []datum.Datum) (datum.Datum, error) {
		a, b := arg(args, 0).Rect, arg(args, 1).Rect
		return datum.NewRect(min32(a.L, b.L), min32(a.T, b.T), max32(a.R, b.R), max32(a.B, b.B)), nil
	}
	m["intersect"] = func(vm *lingo.VM, args []datum.Datum) (datum.Datum, error) {
		a, b := arg(args, 0).Rect, arg(args, 1).Rect
		l, t, r, bb := max32(a.L, b.L), max32(a.T, b.T), min32(a.R, b.R), min32(a.B, b.B)
		if r < l || bb < t {
			return datum.NewRect(0, 0, 0, 0), nil
		}
		return datum.NewRect(l, t, r, bb), nil
	}
	m["inside"] = func(vm *lingo.VM, args []datum.Datum) (datum.Datum, error) {
		p, r := arg(args, 0).Point, arg(args, 1).Rect
		inside := p.X >= r.L && p.X <= r.R && p.Y >= r.T && p.Y <= r.B
		if inside {
			return datum.Int(1), nil
		}
		return datum.Int(0), nil
	}
}

func min32(a, b int32) int32 {
	if a < b {
		return a
	}
	return b
}
func max32(a, b int32) int32 {
	if a > b {
		return a
	}
	return b
}

func addControl(m map[string]lingo.Builtin) {
	m["put"] = func(vm *lingo.VM, args []datum.Datum) (datum.Datum, error) {
		fmt.Println(arg(args, 0).String())
		return datum.Void(), nil
	}
	m["alert"] = func(vm *lingo.VM, args []datum.Datum) (datum.Datum, error) {
		fmt.Println(arg(args, 0).String())
		return datum.Void(), nil
	}
	m["halt"] = func(vm *lingo.VM, args []datum.Datum) (datum.Datum, error) {
		return datum.Void(), coreerrors.NewRuntimeError("BadReceiver", "lingo.halt", nil)
	}
	m["nothing"] = func(vm *lingo.VM, args []datum.Datum) (datum.Datum, error) {
		return datum.Void(), nil
	}
	m["pass"] = func(vm *lingo.VM, args []datum.Datum) (datum.Datum, error) {
		vm.Pass()
		return datum.Void(), nil
	}
	m["return"] = func(vm *lingo.VM, args []datum.Datum) (datum.Datum, error) {
		return arg(args, 0), nil
	}
	m["new"] = func(vm *lingo.VM, args []datum.Datum) (datum.Datum, error) {
		// NewObj opcode handles construction directly; the `new` builtin
		// name is reserved so scripts calling new(...) resolve to it
		// instead of UndefinedHandler when the VM routes via ExtCall.
		return arg(args, 0), nil
	}
	m["delay"] = func(vm *lingo.VM, args []datum.Datum) (datum.Datum, error) {
		return datum.Void(), nil
	}
	m["timeout"] = func(vm *lingo.VM, args []datum.Datum) (datum.Datum, error) {
		return datum.Void(), nil
	}
}
