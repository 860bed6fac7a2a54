// Package codec provides endian-aware binary decoding and encoding shared by
// the container, chunk, and bitmap layers.
package codec

import (
	"bytes"
	"compress/zlib"
	"encoding/binary"
	"io"
	"math"

	"github.com/libreshockwave/shockwave/internal/bufpool"
	coreerrors "github.com/libreshockwave/shockwave/internal/errors"
)

// Endian selects the byte order used for multi-byte numeric fields. FourCCs
// are always read/written as a big-endian 4-byte run regardless of Endian.
type Endian uint8

const (
	BigEndian Endian = iota
	LittleEndian
)

// Reader wraps a byte slice with a cursor, offering random access (seek) in
// addition to sequential reads. Container parsing needs random access for
// Afterburner's raw_offset fields, so this is a cursor over []byte rather
// than an io.Reader adapter.
type Reader struct {
	buf    []byte
	pos    int
	Endian Endian
}

// NewReader builds a Reader over buf using order for multi-byte fields.
func NewReader(buf []byte, order Endian) *Reader {
	return &Reader{buf: buf, Endian: order}
}

// Len returns the total buffer length.
func (r *Reader) Len() int { return len(r.buf) }

// Pos returns the current cursor offset.
func (r *Reader) Pos() int { return r.pos }

// Remaining returns the number of unread bytes.
func (r *Reader) Remaining() int { return len(r.buf) - r.pos }

// Seek moves the cursor to an absolute offset.
func (r *Reader) Seek(off int) error {
	if off < 0 || off > len(r.buf) {
		return coreerrors.NewDecodeError("Truncated", "codec.Seek", io.ErrUnexpectedEOF)
	}
	r.pos = off
	return nil
}

func (r *Reader) need(n int) error {
	if n < 0 || r.pos+n > len(r.buf) {
		return coreerrors.NewDecodeError("Truncated", "codec.read", io.ErrUnexpectedEOF)
	}
	return nil
}

// Bytes reads n raw bytes and advances the cursor.
func (r *Reader) Bytes(n int) ([]byte, error) {
	if err := r.need(n); err != nil {
		return nil, err
	}
	b := r.buf[r.pos : r.pos+n]
	r.pos += n
	return b, nil
}

// Peek returns n bytes without advancing the cursor.
func (r *Reader) Peek(n int) ([]byte, error) {
	if err := r.need(n); err != nil {
		return nil, err
	}
	return r.buf[r.pos : r.pos+n], nil
}

// FourCC reads a 4-byte identifier. The logical value is always big-endian;
// little-endian containers store it reversed on disk, so callers pass the
// container's order and get the logical bytes back.
func (r *Reader) FourCC() ([4]byte, error) {
	var out [4]byte
	b, err := r.Bytes(4)
	if err != nil {
		return out, err
	}
	if r.Endian == LittleEndian {
		out[0], out[1], out[2], out[3] = b[3], b[2], b[1], b[0]
	} else {
		copy(out[:], b)
	}
	return out, nil
}

func (r *Reader) order() binary.ByteOrder {
	if r.Endian == LittleEndian {
		return binary.LittleEndian
	}
	return binary.BigEndian
}

// U8 reads an unsigned 8-bit integer.
func (r *Reader) U8() (uint8, error) {
	b, err := r.Bytes(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

// I8 reads a signed 8-bit integer.
func (r *Reader) I8() (int8, error) {
	v, err := r.U8()
	return int8(v), err
}

// U16 reads an unsigned 16-bit integer in the reader's endian.
func (r *Reader) U16() (uint16, error) {
	b, err := r.Bytes(2)
	if err != nil {
		return 0, err
	}
	return r.order().Uint16(b), nil
}

// I16 reads a signed 16-bit integer.
func (r *Reader) I16() (int16, error) {
	v, err := r.U16()
	return int16(v), err
}

// U32 reads an unsigned 32-bit integer in the reader's endian.
func (r *Reader) U32() (uint32, error) {
	b, err := r.Bytes(4)
	if err != nil {
		return 0, err
	}
	return r.order().Uint32(b), nil
}

// I32 reads a signed 32-bit integer.
func (r *Reader) I32() (int32, error) {
	v, err := r.U32()
	return int32(v), err
}

// U64 reads an unsigned 64-bit integer in the reader's endian.
func (r *Reader) U64() (uint64, error) {
	b, err := r.Bytes(8)
	if err != nil {
		return 0, err
	}
	return r.order().Uint64(b), nil
}

// I64 reads a signed 64-bit integer.
func (r *Reader) I64() (int64, error) {
	v, err := r.U64()
	return int64(v), err
}

// F32 reads an IEEE-754 32-bit float.
func (r *Reader) F32() (float32, error) {
	v, err := r.U32()
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(v), nil
}

// F64 reads an IEEE-754 64-bit float.
func (r *Reader) F64() (float64, error) {
	v, err := r.U64()
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(v), nil
}

// VarInt reads a MSB-first, 7-bit-group variable-length integer. The
// continuation bit is 0x80; a value spanning more than 5 groups (35 bits,
// enough headroom for any 32-bit quantity) is malformed.
func (r *Reader) VarInt() (uint32, error) {
	var result uint32
	for i := 0; i < 5; i++ {
		b, err := r.U8()
		if err != nil {
			return 0, coreerrors.NewDecodeError("Truncated", "codec.VarInt", err)
		}
		result = (result << 7) | uint32(b&0x7f)
		if b&0x80 == 0 {
			return result, nil
		}
	}
	return 0, coreerrors.NewDecodeError("BadVarInt", "codec.VarInt", nil)
}

// inflateScratchSize is the chunk read buffer Inflate borrows from bufpool
// for each call; it matches bufpool's 64KB size class rather than the
// container/bitmap payload's final length, since that length is unknown
// until the stream is fully drained.
const inflateScratchSize = 65536

// Inflate zlib-decompresses data, refusing to produce more than maxSize
// bytes so a hostile uncompressed-length field cannot exhaust memory. The
// intermediate read buffer comes from bufpool rather than a fresh
// allocation per call, since this is the hot path for every chunk and
// bitmap payload an Afterburner movie decodes.
func Inflate(data []byte, maxSize int) ([]byte, error) {
	zr, err := zlib.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, coreerrors.NewDecodeError("CorruptCompression", "codec.Inflate", err)
	}
	defer zr.Close()

	scratch := bufpool.Get(inflateScratchSize)
	defer bufpool.Put(scratch)

	var out bytes.Buffer
	for {
		n, readErr := zr.Read(scratch)
		if n > 0 {
			if out.Len()+n > maxSize {
				return nil, coreerrors.NewDecodeError("CorruptCompression", "codec.Inflate", io.ErrShortBuffer)
			}
			out.Write(scratch[:n])
		}
		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			return nil, coreerrors.NewDecodeError("CorruptCompression", "codec.Inflate", readErr)
		}
	}
	return out.Bytes(), nil
}

// Writer accumulates bytes with a monotonic high-water mark, symmetric with
// Reader's decode methods.
type Writer struct {
	buf    bytes.Buffer
	Endian Endian
}

// NewWriter creates an empty Writer using order for multi-byte fields.
func NewWriter(order Endian) *Writer {
	return &Writer{Endian: order}
}

func (w *Writer) order() binary.ByteOrder {
	if w.Endian == LittleEndian {
		return binary.LittleEndian
	}
	return binary.BigEndian
}

// Bytes returns the accumulated buffer.
func (w *Writer) Bytes() []byte { return w.buf.Bytes() }

// Len returns the high-water mark (bytes written so far).
func (w *Writer) Len() int { return w.buf.Len() }

// WriteBytes appends raw bytes.
func (w *Writer) WriteBytes(b []byte) { w.buf.Write(b) }

// WriteFourCC appends a logical-big-endian FourCC, reversing it on disk for
// little-endian containers.
func (w *Writer) WriteFourCC(fc [4]byte) {
	if w.Endian == LittleEndian {
		w.buf.Write([]byte{fc[3], fc[2], fc[1], fc[0]})
		return
	}
	w.buf.Write(fc[:])
}

func (w *Writer) WriteU8(v uint8)   { w.buf.WriteByte(v) }
func (w *Writer) WriteI8(v int8)    { w.WriteU8(uint8(v)) }
func (w *Writer) WriteU16(v uint16) {
	var b [2]byte
	w.order().PutUint16(b[:], v)
	w.buf.Write(b[:])
}
func (w *Writer) WriteI16(v int16) { w.WriteU16(uint16(v)) }
func (w *Writer) WriteU32(v uint32) {
	var b [4]byte
	w.order().PutUint32(b[:], v)
	w.buf.Write(b[:])
}
func (w *Writer) WriteI32(v int32) { w.WriteU32(uint32(v)) }
func (w *Writer) WriteU64(v uint64) {
	var b [8]byte
	w.order().PutUint64(b[:], v)
	w.buf.Write(b[:])
}
func (w *Writer) WriteI64(v int64) { w.WriteU64(uint64(v)) }

// FourCCString renders a FourCC for logging/display.
func FourCCString(fc [4]byte) string { return string(fc[:]) }
