package chunks

import (
	"testing"

	"github.com/libreshockwave/shockwave/internal/codec"
)

func TestDecodeCastTable(t *testing.T) {
	w := codec.NewWriter(codec.BigEndian)
	w.WriteU32(10)
	w.WriteU32(11)
	w.WriteU32(12)

	ct, err := DecodeCastTable(w.Bytes(), codec.BigEndian)
	if err != nil {
		t.Fatalf("DecodeCastTable: %v", err)
	}
	if len(ct.MemberChunkIDs) != 3 || ct.MemberChunkIDs[1] != 11 {
		t.Fatalf("unexpected ids: %v", ct.MemberChunkIDs)
	}
}

func TestDecodeKeyTableLookup(t *testing.T) {
	w := codec.NewWriter(codec.BigEndian)
	w.WriteU16(12)
	w.WriteU16(12)
	w.WriteI32(2)
	w.WriteI32(2)
	// entry: owned=50 owner=10 fourcc BITD
	w.WriteU32(50)
	w.WriteU32(10)
	w.WriteFourCC([4]byte{'B', 'I', 'T', 'D'})
	// entry: owned=51 owner=10 fourcc Lscr
	w.WriteU32(51)
	w.WriteU32(10)
	w.WriteFourCC([4]byte{'L', 's', 'c', 'r'})

	kt, err := DecodeKeyTable(w.Bytes(), codec.BigEndian)
	if err != nil {
		t.Fatalf("DecodeKeyTable: %v", err)
	}
	if len(kt.Entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(kt.Entries))
	}
	id, ok := kt.Lookup(10, [4]byte{'B', 'I', 'T', 'D'})
	if !ok || id != 50 {
		t.Fatalf("expected lookup to find chunk 50, got %d ok=%v", id, ok)
	}
	if _, ok := kt.Lookup(10, [4]byte{'S', 'N', 'D', ' '}); ok {
		t.Fatalf("expected no match for unrelated fourcc")
	}
}

func TestRegistryDispatchUnknownChunk(t *testing.T) {
	_, err := Decode([4]byte{'X', 'X', 'X', 'X'}, nil, codec.BigEndian, 1200)
	if err == nil {
		t.Fatalf("expected error for unknown chunk")
	}
}
