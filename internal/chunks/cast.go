package chunks

import (
	"github.com/libreshockwave/shockwave/internal/codec"
	coreerrors "github.com/libreshockwave/shockwave/internal/errors"
)

// CastTable (CAS*) is an ordered list of chunk ids referencing CastMember
// chunks, indexed by member number.
type CastTable struct {
	MemberChunkIDs []uint32
}

// DecodeCastTable parses a CAS* chunk: a flat array of 32-bit chunk ids.
func DecodeCastTable(body []byte, order codec.Endian) (*CastTable, error) {
	r := codec.NewReader(body, order)
	n := len(body) / 4
	ids := make([]uint32, 0, n)
	for i := 0; i < n; i++ {
		id, err := r.U32()
		if err != nil {
			return nil, coreerrors.NewDecodeError("Truncated", "chunks.DecodeCastTable", err)
		}
		ids = append(ids, id)
	}
	return &CastTable{MemberChunkIDs: ids}, nil
}

// KeyTableEntry is a (owner, owned, fourcc) triple resolving "which
// BITD/SOUND/STXT/Lscr belongs to this cast member".
type KeyTableEntry struct {
	OwnerChunkID uint32
	OwnedChunkID uint32
	FourCC       [4]byte
}

// KeyTable is the decoded KEY* chunk.
type KeyTable struct {
	Entries []KeyTableEntry
}

// DecodeKeyTable parses a KEY* chunk: a small header followed by fixed-size
// triples.
func DecodeKeyTable(body []byte, order codec.Endian) (*KeyTable, error) {
	r := codec.NewReader(body, order)
	entrySize, err := r.U16()
	if err != nil {
		return nil, coreerrors.NewDecodeError("Truncated", "chunks.DecodeKeyTable: entrySize", err)
	}
	_ = entrySize
	if _, err := r.U16(); err != nil { // header size
		return nil, coreerrors.NewDecodeError("Truncated", "chunks.DecodeKeyTable: headerSize", err)
	}
	allocated, err := r.I32()
	if err != nil {
		return nil, coreerrors.NewDecodeError("Truncated", "chunks.DecodeKeyTable: allocated", err)
	}
	used, err := r.I32()
	if err != nil {
		return nil, coreerrors.NewDecodeError("Truncated", "chunks.DecodeKeyTable: used", err)
	}
	count := int(used)
	if count <= 0 || count > int(allocated) {
		count = int(allocated)
	}

	entries := make([]KeyTableEntry, 0, count)
	for r.Remaining() >= 12 {
		ownedID, err := r.U32()
		if err != nil {
			break
		}
		ownerID, err := r.U32()
		if err != nil {
			break
		}
		fc, err := r.FourCC()
		if err != nil {
			break
		}
		entries = append(entries, KeyTableEntry{OwnerChunkID: ownerID, OwnedChunkID: ownedID, FourCC: fc})
	}
	return &KeyTable{Entries: entries}, nil
}

// Lookup returns the chunk id owned by owner tagged with fourcc, if any.
func (k *KeyTable) Lookup(owner uint32, fourcc [4]byte) (uint32, bool) {
	for _, e := range k.Entries {
		if e.OwnerChunkID == owner && e.FourCC == fourcc {
			return e.OwnedChunkID, true
		}
	}
	return 0, false
}
