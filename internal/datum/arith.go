package datum

import (
	"strconv"
	"strings"

	coreerrors "github.com/libreshockwave/shockwave/internal/errors"
)

// isNumeric reports whether d participates in numeric coercion.
func isNumeric(d Datum) bool { return d.Kind == KindInt || d.Kind == KindFloat }

func asFloat(d Datum) float64 {
	if d.Kind == KindFloat {
		return d.F
	}
	return float64(d.I)
}

// Add implements Lingo's `+`: if either operand is float the result is
// float; otherwise integer. Non-numeric operands raise TypeMismatch.
func Add(a, b Datum) (Datum, error) {
	if !isNumeric(a) || !isNumeric(b) {
		return Datum{}, coreerrors.NewScriptError("TypeMismatch", "datum.Add", 0, "", 0, nil)
	}
	if a.Kind == KindFloat || b.Kind == KindFloat {
		return Float(asFloat(a) + asFloat(b)), nil
	}
	return Int(a.I + b.I), nil
}

// Sub implements Lingo's binary `-`.
func Sub(a, b Datum) (Datum, error) {
	if !isNumeric(a) || !isNumeric(b) {
		return Datum{}, coreerrors.NewScriptError("TypeMismatch", "datum.Sub", 0, "", 0, nil)
	}
	if a.Kind == KindFloat || b.Kind == KindFloat {
		return Float(asFloat(a) - asFloat(b)), nil
	}
	return Int(a.I - b.I), nil
}

// Mul implements Lingo's `*`.
func Mul(a, b Datum) (Datum, error) {
	if !isNumeric(a) || !isNumeric(b) {
		return Datum{}, coreerrors.NewScriptError("TypeMismatch", "datum.Mul", 0, "", 0, nil)
	}
	if a.Kind == KindFloat || b.Kind == KindFloat {
		return Float(asFloat(a) * asFloat(b)), nil
	}
	return Int(a.I * b.I), nil
}

// Div implements Lingo's `/`: division by zero raises DivideByZero;
// integer division yields integer only when exact, otherwise float.
func Div(a, b Datum) (Datum, error) {
	if !isNumeric(a) || !isNumeric(b) {
		return Datum{}, coreerrors.NewScriptError("TypeMismatch", "datum.Div", 0, "", 0, nil)
	}
	if asFloat(b) == 0 {
		return Datum{}, coreerrors.NewScriptError("DivideByZero", "datum.Div", 0, "", 0, nil)
	}
	if a.Kind == KindInt && b.Kind == KindInt {
		if a.I%b.I == 0 {
			return Int(a.I / b.I), nil
		}
		return Float(float64(a.I) / float64(b.I)), nil
	}
	return Float(asFloat(a) / asFloat(b)), nil
}

// Mod implements Lingo's modulo: always integer semantics over truncated
// operands, dividing by zero raises DivideByZero.
func Mod(a, b Datum) (Datum, error) {
	if !isNumeric(a) || !isNumeric(b) {
		return Datum{}, coreerrors.NewScriptError("TypeMismatch", "datum.Mod", 0, "", 0, nil)
	}
	bi := int32(asFloat(b))
	if bi == 0 {
		return Datum{}, coreerrors.NewScriptError("DivideByZero", "datum.Mod", 0, "", 0, nil)
	}
	ai := int32(asFloat(a))
	return Int(ai % bi), nil
}

// Neg implements unary minus.
func Neg(a Datum) (Datum, error) {
	switch a.Kind {
	case KindInt:
		return Int(-a.I), nil
	case KindFloat:
		return Float(-a.F), nil
	default:
		return Datum{}, coreerrors.NewScriptError("TypeMismatch", "datum.Neg", 0, "", 0, nil)
	}
}

// Compare returns -1/0/1 for numeric or case-insensitive string/symbol
// comparisons; other kinds are only comparable for equality (see Equal).
func Compare(a, b Datum) (int, bool) {
	if isNumeric(a) && isNumeric(b) {
		fa, fb := asFloat(a), asFloat(b)
		switch {
		case fa < fb:
			return -1, true
		case fa > fb:
			return 1, true
		default:
			return 0, true
		}
	}
	if (a.Kind == KindString || a.Kind == KindSymbol) && (b.Kind == KindString || b.Kind == KindSymbol) {
		la, lb := lower(a.S), lower(b.S)
		switch {
		case la < lb:
			return -1, true
		case la > lb:
			return 1, true
		default:
			return 0, true
		}
	}
	return 0, false
}

func lower(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'A' && c <= 'Z' {
			b[i] = c + 32
		}
	}
	return string(b)
}

// Equal implements Lingo equality: numeric by value, string/symbol
// case-insensitively, lists/prop-lists by structural recursion, Void equals
// only Void.
func Equal(a, b Datum) bool {
	if isNumeric(a) && isNumeric(b) {
		return asFloat(a) == asFloat(b)
	}
	if (a.Kind == KindString || a.Kind == KindSymbol) && (b.Kind == KindString || b.Kind == KindSymbol) {
		return lower(a.S) == lower(b.S)
	}
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case KindVoid:
		return true
	case KindPoint:
		return a.Point == b.Point
	case KindRect:
		return a.Rect == b.Rect
	case KindColor:
		return a.Color == b.Color
	case KindSpriteRef, KindSoundChannel:
		return a.I == b.I
	case KindCastMemberRef, KindScriptRef:
		return a.CastLib == b.CastLib && a.CastMember == b.CastMember
	case KindScriptInstance:
		return a.InstanceID == b.InstanceID
	case KindVarRef:
		return a.VarName == b.VarName
	case KindList, KindArgList, KindArgListNoRet:
		if len(a.List) != len(b.List) {
			return false
		}
		for i := range a.List {
			if !Equal(a.List[i], b.List[i]) {
				return false
			}
		}
		return true
	case KindPropList:
		return propListEqual(a.PropList, b.PropList)
	default:
		return false
	}
}

func propListEqual(a, b *PropListValue) bool {
	if a == nil || b == nil {
		return a == b
	}
	if len(a.Entries) != len(b.Entries) {
		return false
	}
	for i := range a.Entries {
		if !Equal(a.Entries[i].Key, b.Entries[i].Key) || !Equal(a.Entries[i].Value, b.Entries[i].Value) {
			return false
		}
	}
	return true
}

// ToInteger implements `integer(x)`: numeric strings convert (truncating
// floats toward zero), `integer("3.7") == 3`; non-numeric strings and any
// other non-numeric type are returned UNCHANGED — this is a specified quirk
// relied on by `floatp(float(x))` as a numeric-test idiom.
func ToInteger(d Datum) Datum {
	switch d.Kind {
	case KindInt:
		return d
	case KindFloat:
		return Int(int32(d.F))
	case KindString:
		if f, ok := parseNumeric(d.S); ok {
			return Int(int32(f))
		}
		return d
	default:
		return d
	}
}

// ToFloat implements `float(x)`, with the same unchanged-on-failure quirk.
func ToFloat(d Datum) Datum {
	switch d.Kind {
	case KindFloat:
		return d
	case KindInt:
		return Float(float64(d.I))
	case KindString:
		if f, ok := parseNumeric(d.S); ok {
			return Float(f)
		}
		return d
	default:
		return d
	}
}

func parseNumeric(s string) (float64, bool) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}
