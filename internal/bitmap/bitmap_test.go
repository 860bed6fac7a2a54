package bitmap

import (
	"bytes"
	"testing"
)

func TestRLEExpandLiteralRun(t *testing.T) {
	// n=2 (0x02) means copy 3 bytes.
	src := []byte{0x02, 'a', 'b', 'c'}
	out, err := rleExpand(src, 3)
	if err != nil {
		t.Fatalf("rleExpand: %v", err)
	}
	if !bytes.Equal(out, []byte("abc")) {
		t.Fatalf("unexpected expansion: %q", out)
	}
}

func TestRLEExpandRepeatRun(t *testing.T) {
	// c=0xFE (254) -> count = 257-254 = 3 copies of following byte.
	src := []byte{0xFE, 'z'}
	out, err := rleExpand(src, 3)
	if err != nil {
		t.Fatalf("rleExpand: %v", err)
	}
	if !bytes.Equal(out, []byte("zzz")) {
		t.Fatalf("unexpected expansion: %q", out)
	}
}

func TestRLEExpandNoOp(t *testing.T) {
	src := []byte{0x80, 0x01, 'x', 'y'}
	out, err := rleExpand(src, 2)
	if err != nil {
		t.Fatalf("rleExpand: %v", err)
	}
	if !bytes.Equal(out, []byte("xy")) {
		t.Fatalf("unexpected expansion: %q", out)
	}
}

func TestRLEExpandTruncated(t *testing.T) {
	src := []byte{0x05, 'a'}
	_, err := rleExpand(src, 6)
	if err == nil {
		t.Fatalf("expected truncation error")
	}
}

func TestDecode8BppUncompressed(t *testing.T) {
	// 4x2 image, 8bpp, stride aligned to 2 already satisfies width=4.
	raw := []byte{
		1, 2, 3, 4,
		5, 6, 7, 8,
	}
	bm, err := Decode(raw, 4, 2, 8, nil, 1200)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if bm.Width != 4 || bm.Height != 2 {
		t.Fatalf("unexpected dims: %+v", bm)
	}
	if !bytes.Equal(bm.Pixels, raw) {
		t.Fatalf("expected passthrough pixels, got %v", bm.Pixels)
	}
}

func TestDecode1BppUnpacking(t *testing.T) {
	// width=8 -> 1 byte per row at 1bpp (stride aligned to 16 -> 16 bytes,
	// but only first byte holds real data for width 8; pad with zeros).
	stride := rowBytes(8, 1, scanlineAlignment(1))
	row := make([]byte, stride)
	row[0] = 0b10110001
	bm, err := Decode(row, 8, 1, 1, nil, 1200)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	want := []byte{1, 0, 1, 1, 0, 0, 0, 1}
	if !bytes.Equal(bm.Pixels, want) {
		t.Fatalf("expected %v got %v", want, bm.Pixels)
	}
}
