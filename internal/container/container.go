// Package container parses the top-level Director movie/cast container, in
// both its plain RIFX/XFIR form and the compressed Afterburner form,
// materialising a chunk-id → raw-bytes map.
package container

import (
	"github.com/libreshockwave/shockwave/internal/codec"
	coreerrors "github.com/libreshockwave/shockwave/internal/errors"
)

// ChunkID is the opaque integer a container assigns to a chunk. For plain
// containers it is the index into the mmap resource table; for Afterburner
// it is the ABMP entry's resource_id.
type ChunkID uint32

// ChunkRecord describes one stored chunk: its FourCC tag, compressed and
// uncompressed lengths, its offset in the source file, and its decoded
// bytes.
type ChunkRecord struct {
	FourCC          [4]byte
	CompressedLen   uint32
	UncompressedLen uint32
	Offset          uint64
	Data            []byte
}

// Container is the parsed top-level structure: byte order, origin
// (Afterburner or plain), the movie/cast codec tag, and the chunk-id → bytes
// map.
type Container struct {
	Order       codec.Endian
	Afterburner bool
	CodecTag    [4]byte

	chunks map[ChunkID]*ChunkRecord
	ids    []ChunkID // enumeration order
}

// Chunk looks up a chunk by id.
func (c *Container) Chunk(id ChunkID) (ChunkRecord, bool) {
	rec, ok := c.chunks[id]
	if !ok {
		return ChunkRecord{}, false
	}
	return *rec, true
}

// IDs returns chunk ids in enumeration order.
func (c *Container) IDs() []ChunkID { return append([]ChunkID(nil), c.ids...) }

// Count returns the number of chunks held (including freed entries).
func (c *Container) Count() int { return len(c.ids) }

var freeFourCC = [4]byte{'f', 'r', 'e', 'e'}

// IsFree reports whether rec occupies a freed resource-map slot.
func IsFree(rec ChunkRecord) bool { return rec.FourCC == freeFourCC }

// Parse identifies the opening FourCC and routes to the plain or Afterburner
// parser.
func Parse(data []byte) (*Container, error) {
	if len(data) < 12 {
		return nil, coreerrors.NewDecodeError("Truncated", "container.Parse", nil)
	}
	magic := [4]byte{data[0], data[1], data[2], data[3]}

	switch magic {
	case [4]byte{'R', 'I', 'F', 'X'}:
		return parsePlain(data, codec.BigEndian)
	case [4]byte{'X', 'F', 'I', 'R'}:
		return parsePlain(data, codec.LittleEndian)
	case [4]byte{'F', 'F', 'I', 'R'}, [4]byte{'F', 'G', 'D', 'M'}, [4]byte{'F', 'G', 'D', 'C'}:
		return parseAfterburner(data)
	default:
		return nil, coreerrors.NewDecodeError("BadMagic", "container.Parse", nil)
	}
}

// --- plain RIFX/XFIR container ---

type mmapEntry struct {
	fourcc [4]byte
	length uint32
	offset uint32
	flags  uint32
	next   uint32
}

func parsePlain(data []byte, order codec.Endian) (*Container, error) {
	r := codec.NewReader(data, order)

	magic, err := r.FourCC()
	if err != nil {
		return nil, err
	}
	if _, err := r.U32(); err != nil { // overall container length
		return nil, coreerrors.NewDecodeError("Truncated", "container.parsePlain", err)
	}
	codecTag, err := r.FourCC()
	if err != nil {
		return nil, err
	}

	c := &Container{Order: order, Afterburner: false, CodecTag: codecTag, chunks: map[ChunkID]*ChunkRecord{}}

	// Next chunk header is `Fver` (optional) or directly `imap`.
	fourcc, length, bodyOff, err := readChunkHeader(r)
	if err != nil {
		return nil, err
	}
	if fourcc == ([4]byte{'F', 'v', 'e', 'r'}) {
		if err := r.Seek(bodyOff + int(length)); err != nil {
			return nil, err
		}
		fourcc, length, bodyOff, err = readChunkHeader(r)
		if err != nil {
			return nil, err
		}
	}
	if fourcc != ([4]byte{'i', 'm', 'a', 'p'}) {
		return nil, coreerrors.NewDecodeError("UnknownChunk", "container.parsePlain: expected imap", nil)
	}
	imapOff := bodyOff
	if err := r.Seek(imapOff); err != nil {
		return nil, err
	}
	imapBody, err := r.Bytes(int(length))
	if err != nil {
		return nil, coreerrors.NewDecodeError("Truncated", "container.parsePlain: imap body", err)
	}

	ir := codec.NewReader(imapBody, order)
	if _, err := ir.U32(); err != nil { // map entry count
		return nil, coreerrors.NewDecodeError("Truncated", "container.parsePlain: imap count", err)
	}
	mmapOff32, err := ir.U32()
	if err != nil {
		return nil, coreerrors.NewDecodeError("Truncated", "container.parsePlain: imap mmapOffset", err)
	}
	mmapOff := int(mmapOff32)

	if err := r.Seek(mmapOff); err != nil {
		return nil, err
	}
	mfourcc, mlength, mbodyOff, err := readChunkHeader(r)
	if err != nil {
		return nil, err
	}
	if mfourcc != ([4]byte{'m', 'm', 'a', 'p'}) {
		return nil, coreerrors.NewDecodeError("UnknownChunk", "container.parsePlain: expected mmap", nil)
	}
	if err := r.Seek(mbodyOff); err != nil {
		return nil, err
	}
	mmapBody, err := r.Bytes(int(mlength))
	if err != nil {
		return nil, coreerrors.NewDecodeError("Truncated", "container.parsePlain: mmap body", err)
	}

	entries, err := parseMmapEntries(mmapBody, order)
	if err != nil {
		return nil, err
	}

	// Entries 0/1/2 of the resource map are the container/imap/mmap chunks
	// themselves; chunk id is simply the entry index.
	for i, e := range entries {
		id := ChunkID(i)
		if e.fourcc == freeFourCC {
			// Freed entries are enumerated (they still occupy a physical
			// chunk slot) but resolve to nothing meaningful; callers doing
			// KeyTable/Cast lookups should treat them as absent.
			c.chunks[id] = &ChunkRecord{FourCC: e.fourcc, Offset: uint64(e.offset), UncompressedLen: e.length}
			c.ids = append(c.ids, id)
			continue
		}
		if id == 0 {
			// The container's own 12-byte header has no nested FourCC+length
			// wrapper; record it directly.
			c.chunks[0] = &ChunkRecord{FourCC: magic, Offset: 0, UncompressedLen: e.length}
			c.ids = append(c.ids, 0)
			continue
		}
		rec := &ChunkRecord{FourCC: e.fourcc, Offset: uint64(e.offset), CompressedLen: e.length, UncompressedLen: e.length}
		if err := r.Seek(int(e.offset)); err != nil {
			continue // tolerate dangling entries outside the known critical set
		}
		_, dataLen, dataOff, err := readChunkHeader(r)
		if err != nil {
			continue
		}
		if err := r.Seek(dataOff); err != nil {
			continue
		}
		body, err := r.Bytes(int(dataLen))
		if err != nil {
			continue
		}
		rec.Data = body
		rec.UncompressedLen = dataLen
		c.chunks[id] = rec
		c.ids = append(c.ids, id)
	}

	return c, nil
}

// readChunkHeader reads an 8-byte chunk header (4-byte FourCC + 4-byte
// length) at the reader's current position and returns the FourCC, the body
// length, and the offset where the body begins.
func readChunkHeader(r *codec.Reader) (fourcc [4]byte, length uint32, bodyOffset int, err error) {
	fourcc, err = r.FourCC()
	if err != nil {
		return fourcc, 0, 0, err
	}
	length, err = r.U32()
	if err != nil {
		return fourcc, 0, 0, coreerrors.NewDecodeError("Truncated", "container.readChunkHeader", err)
	}
	return fourcc, length, r.Pos(), nil
}

func parseMmapEntries(body []byte, order codec.Endian) ([]mmapEntry, error) {
	r := codec.NewReader(body, order)
	if _, err := r.U16(); err != nil { // headerLength
		return nil, coreerrors.NewDecodeError("Truncated", "container.parseMmapEntries: headerLength", err)
	}
	if _, err := r.U16(); err != nil { // entryLength
		return nil, coreerrors.NewDecodeError("Truncated", "container.parseMmapEntries: entryLength", err)
	}
	allocated, err := r.I32()
	if err != nil {
		return nil, coreerrors.NewDecodeError("Truncated", "container.parseMmapEntries: allocated", err)
	}
	used, err := r.I32()
	if err != nil {
		return nil, coreerrors.NewDecodeError("Truncated", "container.parseMmapEntries: used", err)
	}
	if _, err := r.I32(); err != nil { // junk
		return nil, coreerrors.NewDecodeError("Truncated", "container.parseMmapEntries: junk", err)
	}
	if _, err := r.I32(); err != nil { // freeHead
		return nil, coreerrors.NewDecodeError("Truncated", "container.parseMmapEntries: freeHead", err)
	}

	count := int(used)
	if count <= 0 || count > int(allocated) {
		count = int(allocated)
	}

	entries := make([]mmapEntry, 0, count)
	for r.Remaining() >= 20 {
		fc, err := r.FourCC()
		if err != nil {
			break
		}
		length, err := r.U32()
		if err != nil {
			break
		}
		offset, err := r.U32()
		if err != nil {
			break
		}
		flags, err := r.U32()
		if err != nil {
			break
		}
		next, err := r.U32()
		if err != nil {
			break
		}
		entries = append(entries, mmapEntry{fourcc: fc, length: length, offset: offset, flags: flags, next: next})
	}
	return entries, nil
}
