package lingo

import "testing"

func TestBreakpointRoundTrip(t *testing.T) {
	bps := []Breakpoint{
		{ScriptID: 3, HandlerName: "mouseUp", Offset: 128, Enabled: true},
		{ScriptID: 3, HandlerName: "mouseUp", Offset: 256, Enabled: false},
	}
	data, err := MarshalBreakpoints(bps)
	if err != nil {
		t.Fatalf("MarshalBreakpoints: %v", err)
	}
	got, err := UnmarshalBreakpoints(data)
	if err != nil {
		t.Fatalf("UnmarshalBreakpoints: %v", err)
	}
	if len(got) != 2 || got[0] != bps[0] || got[1] != bps[1] {
		t.Fatalf("round trip mismatch: %+v", got)
	}
}

func TestBreakpointV2WithoutHandlerName(t *testing.T) {
	data := []byte(`{"version":2,"breakpoints":[{"scriptId":5,"offset":64,"enabled":true}]}`)
	got, err := UnmarshalBreakpoints(data)
	if err != nil {
		t.Fatalf("UnmarshalBreakpoints: %v", err)
	}
	if len(got) != 1 || got[0].HandlerName != "" || got[0].ScriptID != 5 || got[0].Offset != 64 {
		t.Fatalf("unexpected: %+v", got)
	}
	set := NewBreakpointSet(got)
	if !set.Hit(5, "anyHandler", 64) {
		t.Fatalf("expected handler-less breakpoint to match any handler name")
	}
}

func TestLegacyBreakpointFormat(t *testing.T) {
	data := []byte("3:128,256;7:10;")
	got, err := UnmarshalBreakpoints(data)
	if err != nil {
		t.Fatalf("UnmarshalBreakpoints: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 breakpoints, got %d: %+v", len(got), got)
	}
	set := NewBreakpointSet(got)
	if !set.Hit(3, "ignored", 128) || !set.Hit(7, "ignored", 10) {
		t.Fatalf("legacy breakpoints not indexed correctly: %+v", got)
	}
	if set.Hit(3, "ignored", 999) {
		t.Fatalf("unexpected hit at unindexed offset")
	}
}

func TestDisabledBreakpointNotIndexed(t *testing.T) {
	set := NewBreakpointSet([]Breakpoint{{ScriptID: 1, Offset: 1, Enabled: false}})
	if set.Hit(1, "", 1) {
		t.Fatalf("disabled breakpoint should not be indexed")
	}
}
