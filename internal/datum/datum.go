// Package datum implements Lingo's polymorphic value model: a closed tagged
// union rather than an open Go interface, keeping the common scalar cases
// allocation-free on the VM's operand stack.
package datum

import (
	"fmt"
	"strconv"
	"strings"
)

// Kind tags which field(s) of a Datum are meaningful.
type Kind uint8

const (
	KindVoid Kind = iota
	KindInt
	KindFloat
	KindString
	KindSymbol
	KindList
	KindPropList
	KindPoint
	KindRect
	KindColor
	KindSpriteRef
	KindCastMemberRef
	KindSoundChannel
	KindScriptRef
	KindScriptInstance
	KindVarRef
	KindArgList
	KindArgListNoRet
)

// Datum is the single sum-type value every Lingo expression produces.
// Only the fields relevant to Kind are meaningful; the struct is small
// enough that carrying the full union inline (rather than boxing) keeps the
// VM's stack allocation-free for the common scalar cases.
type Datum struct {
	Kind Kind

	I int32   // Int, SpriteRef(channel), SoundChannel(n)
	F float64 // Float
	S string  // String, Symbol (case preserved; compare case-insensitively)

	List     []Datum       // List, ArgList, ArgListNoRet
	PropList *PropListValue // PropList

	Point Point
	Rect  Rect
	Color Color

	CastLib, CastMember uint16 // CastMemberRef, ScriptRef
	VarName             string // VarRef

	InstanceID uint32 // ScriptInstance arena index
}

type Point struct{ X, Y int32 }
type Rect struct{ L, T, R, B int32 }
type Color struct{ R, G, B uint8 }

// PropEntry is one PropList key/value pair. Keys are always represented as
// Datums of Kind Symbol or String; insertion order is preserved.
type PropEntry struct {
	Key   Datum
	Value Datum
}

// PropListValue backs KindPropList: an ordered slice of entries, searched
// linearly (property lists in real movies are small).
type PropListValue struct {
	Entries []PropEntry
}

// --- constructors ---

func Void() Datum                  { return Datum{Kind: KindVoid} }
func Int(v int32) Datum            { return Datum{Kind: KindInt, I: v} }
func Float(v float64) Datum        { return Datum{Kind: KindFloat, F: v} }
func Str(v string) Datum           { return Datum{Kind: KindString, S: v} }
func Sym(v string) Datum           { return Datum{Kind: KindSymbol, S: v} }
func NewList(items ...Datum) Datum { return Datum{Kind: KindList, List: append([]Datum{}, items...)} }
func NewArgList(items ...Datum) Datum {
	return Datum{Kind: KindArgList, List: append([]Datum{}, items...)}
}
func NewArgListNoRet(items ...Datum) Datum {
	return Datum{Kind: KindArgListNoRet, List: append([]Datum{}, items...)}
}
func NewPropList() Datum { return Datum{Kind: KindPropList, PropList: &PropListValue{}} }
func NewPoint(x, y int32) Datum { return Datum{Kind: KindPoint, Point: Point{X: x, Y: y}} }
func NewRect(l, t, r, b int32) Datum { return Datum{Kind: KindRect, Rect: Rect{L: l, T: t, R: r, B: b}} }
func NewColor(r, g, b uint8) Datum { return Datum{Kind: KindColor, Color: Color{R: r, G: g, B: b}} }
func SpriteRef(channel uint16) Datum { return Datum{Kind: KindSpriteRef, I: int32(channel)} }
func CastMemberRef(castLib, member uint16) Datum {
	return Datum{Kind: KindCastMemberRef, CastLib: castLib, CastMember: member}
}
func SoundChannel(n uint8) Datum { return Datum{Kind: KindSoundChannel, I: int32(n)} }
func ScriptRef(castLib, member uint16) Datum {
	return Datum{Kind: KindScriptRef, CastLib: castLib, CastMember: member}
}
func ScriptInstance(id uint32) Datum { return Datum{Kind: KindScriptInstance, InstanceID: id} }
func VarRef(name string) Datum       { return Datum{Kind: KindVarRef, VarName: name} }

// IsVoid reports whether d is the Void value.
func (d Datum) IsVoid() bool { return d.Kind == KindVoid }

// Truthy implements Lingo's truthiness rule: false iff Void, numeric zero,
// or empty string.
func (d Datum) Truthy() bool {
	switch d.Kind {
	case KindVoid:
		return false
	case KindInt:
		return d.I != 0
	case KindFloat:
		return d.F != 0
	case KindString:
		return d.S != ""
	default:
		return true
	}
}

// Ilk returns the symbol naming d's type.
func Ilk(d Datum) Datum {
	switch d.Kind {
	case KindVoid:
		return Sym("void")
	case KindInt:
		return Sym("integer")
	case KindFloat:
		return Sym("float")
	case KindString:
		return Sym("string")
	case KindSymbol:
		return Sym("symbol")
	case KindList:
		return Sym("list")
	case KindPropList:
		return Sym("propList")
	case KindPoint:
		return Sym("point")
	case KindRect:
		return Sym("rect")
	case KindColor:
		return Sym("color")
	case KindSpriteRef:
		return Sym("sprite")
	case KindCastMemberRef:
		return Sym("member")
	case KindSoundChannel:
		return Sym("sound")
	case KindScriptRef:
		return Sym("script")
	case KindScriptInstance:
		return Sym("instance")
	case KindVarRef:
		return Sym("varRef")
	case KindArgList, KindArgListNoRet:
		return Sym("argList")
	default:
		return Sym("void")
	}
}

// IlkIs implements ilk(x, #type).
func IlkIs(d Datum, kind Datum) Datum {
	got := Ilk(d)
	return boolDatum(strings.EqualFold(got.S, kind.S))
}

func boolDatum(b bool) Datum {
	if b {
		return Int(1)
	}
	return Int(0)
}

// String renders d for display/`put`; never panics.
func (d Datum) String() string {
	switch d.Kind {
	case KindVoid:
		return ""
	case KindInt:
		return strconv.FormatInt(int64(d.I), 10)
	case KindFloat:
		return formatFloat(d.F)
	case KindString, KindSymbol:
		return d.S
	case KindPoint:
		return fmt.Sprintf("point(%d, %d)", d.Point.X, d.Point.Y)
	case KindRect:
		return fmt.Sprintf("rect(%d, %d, %d, %d)", d.Rect.L, d.Rect.T, d.Rect.R, d.Rect.B)
	case KindColor:
		return fmt.Sprintf("rgb(%d, %d, %d)", d.Color.R, d.Color.G, d.Color.B)
	case KindList, KindArgList, KindArgListNoRet:
		parts := make([]string, len(d.List))
		for i, v := range d.List {
			parts[i] = v.String()
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case KindPropList:
		if d.PropList == nil {
			return "[:]"
		}
		parts := make([]string, len(d.PropList.Entries))
		for i, e := range d.PropList.Entries {
			parts[i] = e.Key.String() + ": " + e.Value.String()
		}
		if len(parts) == 0 {
			return "[:]"
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case KindSpriteRef:
		return fmt.Sprintf("sprite %d", d.I)
	case KindCastMemberRef, KindScriptRef:
		return fmt.Sprintf("member %d of castLib %d", d.CastMember, d.CastLib)
	case KindSoundChannel:
		return fmt.Sprintf("sound %d", d.I)
	case KindScriptInstance:
		return fmt.Sprintf("<instance %d>", d.InstanceID)
	case KindVarRef:
		return d.VarName
	default:
		return ""
	}
}

func formatFloat(f float64) string {
	s := strconv.FormatFloat(f, 'f', -1, 64)
	return s
}
