package container

import (
	"github.com/libreshockwave/shockwave/internal/codec"
	coreerrors "github.com/libreshockwave/shockwave/internal/errors"
)

// abmpEntry is one resource table entry from the ABMP chunk.
type abmpEntry struct {
	resourceID       uint32
	rawOffset        int64
	compressedSize   uint32
	uncompressedSize uint32
	compressionType  uint32
	fourcc           [4]byte
}

// maxInflate bounds any single Afterburner zlib section; real movies never
// approach this, but a hostile length field must not exhaust memory.
const maxInflate = 256 << 20

var ilsMetaFourCC = [4]byte{'I', 'L', 'S', ' '}

func parseAfterburner(data []byte) (*Container, error) {
	r := codec.NewReader(data, codec.BigEndian)

	magic, err := r.FourCC()
	if err != nil {
		return nil, err
	}
	c := &Container{Order: codec.BigEndian, Afterburner: true, chunks: map[ChunkID]*ChunkRecord{}}
	c.chunks[0] = &ChunkRecord{FourCC: magic, UncompressedLen: uint32(len(data))}
	c.ids = append(c.ids, 0)

	// Fver
	fcFver, err := r.FourCC()
	if err != nil {
		return nil, err
	}
	if fcFver != ([4]byte{'F', 'v', 'e', 'r'}) {
		return nil, coreerrors.NewDecodeError("UnknownChunk", "container.parseAfterburner: expected Fver", nil)
	}
	fverLen, err := r.VarInt()
	if err != nil {
		return nil, err
	}
	fverEnd := r.Pos() + int(fverLen)
	if _, err := r.VarInt(); err != nil { // imap version
		return nil, err
	}
	if _, err := r.VarInt(); err != nil { // director version
		return nil, err
	}
	if err := r.Seek(fverEnd); err != nil {
		return nil, err
	}

	// Fcdr
	fcFcdr, err := r.FourCC()
	if err != nil {
		return nil, err
	}
	if fcFcdr != ([4]byte{'F', 'c', 'd', 'r'}) {
		return nil, coreerrors.NewDecodeError("UnknownChunk", "container.parseAfterburner: expected Fcdr", nil)
	}
	fcdrLen, err := r.VarInt()
	if err != nil {
		return nil, err
	}
	if _, err := r.Bytes(int(fcdrLen)); err != nil { // compressed compression-type table, not needed for decode
		return nil, coreerrors.NewDecodeError("Truncated", "container.parseAfterburner: Fcdr body", err)
	}

	// ABMP
	fcABMP, err := r.FourCC()
	if err != nil {
		return nil, err
	}
	if fcABMP != ([4]byte{'A', 'B', 'M', 'P'}) {
		return nil, coreerrors.NewDecodeError("UnknownChunk", "container.parseAfterburner: expected ABMP", nil)
	}
	abmpLen, err := r.VarInt()
	if err != nil {
		return nil, err
	}
	abmpRaw, err := r.Bytes(int(abmpLen))
	if err != nil {
		return nil, coreerrors.NewDecodeError("Truncated", "container.parseAfterburner: ABMP body", err)
	}
	abmpBody, err := codec.Inflate(abmpRaw, maxInflate)
	if err != nil {
		return nil, err
	}
	entries, err := parseABMPEntries(abmpBody)
	if err != nil {
		return nil, err
	}

	// FGEI
	fcFGEI, err := r.FourCC()
	if err != nil {
		return nil, err
	}
	if fcFGEI != ([4]byte{'F', 'G', 'E', 'I'}) {
		return nil, coreerrors.NewDecodeError("UnknownChunk", "container.parseAfterburner: expected FGEI", nil)
	}
	if _, err := r.VarInt(); err != nil { // leading length/flags field
		return nil, err
	}
	fgeiCompressed, err := r.Bytes(r.Remaining())
	if err != nil {
		return nil, coreerrors.NewDecodeError("Truncated", "container.parseAfterburner: FGEI body", err)
	}
	ilsBody, err := codec.Inflate(fgeiCompressed, maxInflate)
	if err != nil {
		// Some producers leave a residual trailer after the zlib stream;
		// Inflate already stopped at stream end, so only hard failures land
		// here.
		return nil, err
	}

	// Split the ILS body into (resource_id, bytes) pairs read sequentially,
	// and build an offset index so on-demand fetches by raw_offset can slice
	// the body directly.
	ilsOffsets, err := indexILSBody(ilsBody, entries)
	if err != nil {
		return nil, err
	}

	for i, e := range entries {
		if e.fourcc == ilsMetaFourCC && e.resourceID == 2 {
			continue // meta entry describing the ILS blob itself
		}
		id := ChunkID(e.resourceID)
		rec := &ChunkRecord{
			FourCC:          e.fourcc,
			CompressedLen:   e.compressedSize,
			UncompressedLen: e.uncompressedSize,
		}
		if off, ok := ilsOffsets[i]; ok {
			raw := ilsBody[off : off+int(e.compressedSize)]
			if e.compressedSize != e.uncompressedSize && e.compressionType == 0 {
				body, err := codec.Inflate(raw, int(e.uncompressedSize))
				if err != nil {
					return nil, err
				}
				rec.Data = body
			} else {
				rec.Data = raw
			}
		}
		// Chunks with raw_offset == -1 and no ILS placement are fetched on
		// demand elsewhere in the file; out of scope for in-memory parse
		// when their bytes were not shipped eagerly.
		c.chunks[id] = rec
		c.ids = append(c.ids, id)
	}

	return c, nil
}

func parseABMPEntries(body []byte) ([]abmpEntry, error) {
	r := codec.NewReader(body, codec.BigEndian)
	if _, err := r.VarInt(); err != nil { // total entry count or similar header field
		return nil, coreerrors.NewDecodeError("Truncated", "container.parseABMPEntries: header", err)
	}
	if _, err := r.VarInt(); err != nil { // reserved
		return nil, coreerrors.NewDecodeError("Truncated", "container.parseABMPEntries: reserved", err)
	}

	var entries []abmpEntry
	for r.Remaining() > 0 {
		resourceID, err := r.VarInt()
		if err != nil {
			break
		}
		rawOffsetU, err := r.VarInt()
		if err != nil {
			return nil, coreerrors.NewDecodeError("Truncated", "container.parseABMPEntries: rawOffset", err)
		}
		rawOffset := int64(int32(rawOffsetU))
		compressedSize, err := r.VarInt()
		if err != nil {
			return nil, coreerrors.NewDecodeError("Truncated", "container.parseABMPEntries: compressedSize", err)
		}
		uncompressedSize, err := r.VarInt()
		if err != nil {
			return nil, coreerrors.NewDecodeError("Truncated", "container.parseABMPEntries: uncompressedSize", err)
		}
		compressionType, err := r.VarInt()
		if err != nil {
			return nil, coreerrors.NewDecodeError("Truncated", "container.parseABMPEntries: compressionType", err)
		}
		fc, err := r.FourCC()
		if err != nil {
			return nil, coreerrors.NewDecodeError("Truncated", "container.parseABMPEntries: fourcc", err)
		}
		entries = append(entries, abmpEntry{
			resourceID:       resourceID,
			rawOffset:        rawOffset,
			compressedSize:   compressedSize,
			uncompressedSize: uncompressedSize,
			compressionType:  compressionType,
			fourcc:           fc,
		})
	}
	return entries, nil
}

// indexILSBody walks the ILS body's (resource_id, bytes) stream and returns
// a map from entry-index → byte offset within ilsBody, honouring
// raw_offset == -1 ("immediately after previous").
func indexILSBody(ilsBody []byte, entries []abmpEntry) (map[int]int, error) {
	offsets := make(map[int]int, len(entries))
	cursor := 0
	for i, e := range entries {
		if e.rawOffset == -1 {
			offsets[i] = cursor
		} else {
			offsets[i] = int(e.rawOffset)
			cursor = int(e.rawOffset)
		}
		end := offsets[i] + int(e.compressedSize)
		if end > len(ilsBody) {
			// Chunk lives outside the eagerly-shipped ILS body; fetched on
			// demand elsewhere. Not an error at this layer.
			delete(offsets, i)
			continue
		}
		cursor = end
	}
	return offsets, nil
}
