package datum

import (
	"testing"

	coreerrors "github.com/libreshockwave/shockwave/internal/errors"
)

func TestAddCommutativeAndIdentity(t *testing.T) {
	x, y := Int(3), Float(2.5)
	ab, err := Add(x, y)
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	ba, err := Add(y, x)
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if !Equal(ab, ba) {
		t.Fatalf("expected commutativity: %v vs %v", ab, ba)
	}
	zeroAdd, err := Add(x, Int(0))
	if err != nil || !Equal(zeroAdd, x) {
		t.Fatalf("expected identity, got %v err=%v", zeroAdd, err)
	}
}

func TestDivExactVsFloat(t *testing.T) {
	exact, err := Div(Int(9), Int(3))
	if err != nil || exact.Kind != KindInt || exact.I != 3 {
		t.Fatalf("expected exact int division, got %+v err=%v", exact, err)
	}
	inexact, err := Div(Int(10), Int(3))
	if err != nil || inexact.Kind != KindFloat {
		t.Fatalf("expected float on inexact division, got %+v err=%v", inexact, err)
	}
}

func TestDivByZero(t *testing.T) {
	_, err := Div(Int(1), Int(0))
	if !coreerrors.IsScriptError(err, "DivideByZero") {
		t.Fatalf("expected DivideByZero, got %v", err)
	}
}

func TestIntegerFloatStringQuirk(t *testing.T) {
	s := Str("abc")
	if got := ToInteger(s); got.Kind != KindString || got.S != "abc" {
		t.Fatalf("expected integer(\"abc\") unchanged, got %+v", got)
	}
	got := ToInteger(Str("3.7"))
	if got.Kind != KindInt || got.I != 3 {
		t.Fatalf("expected integer(\"3.7\") == 3, got %+v", got)
	}
	f := ToFloat(Str("hello"))
	if f.Kind != KindString || f.S != "hello" {
		t.Fatalf("expected float(\"hello\") unchanged, got %+v", f)
	}
}

func TestEqualityCaseInsensitiveAndVoid(t *testing.T) {
	if !Equal(Str("Hello"), Sym("hello")) {
		t.Fatalf("expected case-insensitive string/symbol equality")
	}
	if !Equal(Void(), Void()) {
		t.Fatalf("expected Void == Void")
	}
	if Equal(Void(), Int(0)) {
		t.Fatalf("expected Void != Int(0)")
	}
}

func TestListBoundaryBehaviors(t *testing.T) {
	l := NewList(Int(1), Int(2), Int(3))
	if !GetAt(l, 0).IsVoid() {
		t.Fatalf("expected getAt(list,0) == Void")
	}
	if !GetAt(l, 4).IsVoid() {
		t.Fatalf("expected getAt(list,count+1) == Void")
	}
	padded := SetAt(l, int32(Count(l))+3, Str("x"))
	if Count(padded) != 6 {
		t.Fatalf("expected padded count 6, got %d", Count(padded))
	}
	if !GetAt(padded, 4).IsVoid() || !GetAt(padded, 5).IsVoid() {
		t.Fatalf("expected two Void pads")
	}
	if GetAt(padded, 6).S != "x" {
		t.Fatalf("expected stored value at padded position")
	}
}

func TestDeleteOneStructuralMatch(t *testing.T) {
	l := NewList(Int(1), Int(2), Int(1))
	l = DeleteOne(l, Int(1))
	if Count(l) != 2 || l.List[0].I != 2 || l.List[1].I != 1 {
		t.Fatalf("unexpected list after deleteOne: %+v", l.List)
	}
}

func TestPropListFindPosAndOrder(t *testing.T) {
	pl := NewPropList()
	pl = SetAProp(pl, Sym("name"), Str("John"))
	pl = SetAProp(pl, Sym("age"), Str("30"))
	if PropCount(pl) != 2 {
		t.Fatalf("expected 2 entries, got %d", PropCount(pl))
	}
	if FindPos(pl, Sym("name")) != 1 {
		t.Fatalf("expected name at position 1")
	}
	if GetAProp(pl, Str("AGE")).S != "30" {
		t.Fatalf("expected case-insensitive lookup to find age")
	}
}

func TestChunkBoundaryJLessThanI(t *testing.T) {
	got := Chunk("one,two,three", ChunkItem, 2, 1, ",")
	if got != "two" {
		t.Fatalf("expected 'two', got %q", got)
	}
}

func TestChunkCountRoundTrip(t *testing.T) {
	s := "a,b,c"
	n := CountUnits(s, ChunkItem, ",")
	if n != 3 {
		t.Fatalf("expected 3 items, got %d", n)
	}
	joined := Chunk(s, ChunkItem, 1, n, ",")
	if joined != s {
		t.Fatalf("expected round trip join, got %q", joined)
	}
}
