package container

import (
	"testing"

	"github.com/libreshockwave/shockwave/internal/codec"
	coreerrors "github.com/libreshockwave/shockwave/internal/errors"
)

// buildChunk appends an 8-byte header (FourCC + length) followed by body.
func buildChunk(fourcc [4]byte, body []byte) []byte {
	w := codec.NewWriter(codec.BigEndian)
	w.WriteFourCC(fourcc)
	w.WriteU32(uint32(len(body)))
	w.WriteBytes(body)
	return w.Bytes()
}

// buildMinimalPlainMovie constructs a plain big-endian RIFX container with
// an imap, mmap, and a single FREE chunk.
func buildMinimalPlainMovie(t *testing.T) []byte {
	t.Helper()

	// Layout: [RIFX header 12][imap][mmap][free chunk]
	headerLen := 12
	imapBody := make([]byte, 24)
	// imap body: count, mmapOffset, 4 reserved words.
	// mmapOffset is computed below once imap's own header size is known.
	imapChunkLen := 8 + len(imapBody)
	mmapOffset := headerLen + imapChunkLen

	// mmap body: headerLength(2) entryLength(2) allocated(4) used(4) junk(4) freeHead(4) = 20 bytes
	// + 4 entries * 20 bytes each (container/imap/mmap/free).
	mmapHeader := make([]byte, 20)
	w := codec.NewWriter(codec.BigEndian)
	w.WriteU16(20)
	w.WriteU16(20)
	w.WriteI32(4)
	w.WriteI32(4)
	w.WriteI32(0)
	w.WriteI32(-1)
	copy(mmapHeader, w.Bytes())

	entryW := codec.NewWriter(codec.BigEndian)
	// entry 0: container itself
	entryW.WriteFourCC([4]byte{'R', 'I', 'F', 'X'})
	entryW.WriteU32(uint32(headerLen))
	entryW.WriteU32(0)
	entryW.WriteU32(0)
	entryW.WriteU32(0xFFFFFFFF)
	// entry 1: imap
	entryW.WriteFourCC([4]byte{'i', 'm', 'a', 'p'})
	entryW.WriteU32(uint32(imapChunkLen))
	entryW.WriteU32(uint32(headerLen))
	entryW.WriteU32(0)
	entryW.WriteU32(0xFFFFFFFF)

	mmapBodyLen := len(mmapHeader) + 20*4
	// entry 2: mmap (self) -- offset filled below once known
	mmapChunkOffset := mmapOffset
	entryW.WriteFourCC([4]byte{'m', 'm', 'a', 'p'})
	entryW.WriteU32(uint32(8 + mmapBodyLen))
	entryW.WriteU32(uint32(mmapChunkOffset))
	entryW.WriteU32(0)
	entryW.WriteU32(0xFFFFFFFF)

	freeChunkOffset := mmapChunkOffset + 8 + mmapBodyLen
	entryW.WriteFourCC(freeFourCC)
	entryW.WriteU32(4)
	entryW.WriteU32(uint32(freeChunkOffset))
	entryW.WriteU32(0)
	entryW.WriteU32(0xFFFFFFFF)

	mmapBody := append(append([]byte{}, mmapHeader...), entryW.Bytes()...)

	imapW := codec.NewWriter(codec.BigEndian)
	imapW.WriteU32(1)
	imapW.WriteU32(uint32(mmapOffset))
	imapW.WriteU32(0)
	imapW.WriteU32(0)
	imapW.WriteU32(0)
	imapW.WriteU32(0)
	imapBody = imapW.Bytes()

	var out []byte
	hw := codec.NewWriter(codec.BigEndian)
	hw.WriteFourCC([4]byte{'R', 'I', 'F', 'X'})
	hw.WriteU32(0x1C)
	hw.WriteFourCC([4]byte{'M', 'V', '9', '3'})
	out = append(out, hw.Bytes()...)
	out = append(out, buildChunk([4]byte{'i', 'm', 'a', 'p'}, imapBody)...)
	out = append(out, buildChunk([4]byte{'m', 'm', 'a', 'p'}, mmapBody)...)
	out = append(out, buildChunk(freeFourCC, []byte{0, 0, 0, 0})...)
	return out
}

func TestPlainContainerSmokeTest(t *testing.T) {
	data := buildMinimalPlainMovie(t)
	c, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if c.Order != codec.BigEndian {
		t.Fatalf("expected big-endian container")
	}
	if codec.FourCCString(c.CodecTag) != "MV93" {
		t.Fatalf("expected codec MV93, got %s", codec.FourCCString(c.CodecTag))
	}
	if c.Count() != 4 {
		t.Fatalf("expected 4 chunks, got %d", c.Count())
	}
}

func TestBadMagicRejected(t *testing.T) {
	_, err := Parse([]byte("NOTAVALIDHEADER!!!!"))
	if !coreerrors.IsDecodeError(err, "BadMagic") {
		t.Fatalf("expected BadMagic, got %v", err)
	}
}

func TestTruncatedHeaderRejected(t *testing.T) {
	_, err := Parse([]byte{'R', 'I', 'F', 'X'})
	if !coreerrors.IsDecodeError(err, "Truncated") {
		t.Fatalf("expected Truncated, got %v", err)
	}
}
