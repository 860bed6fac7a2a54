package movie

import (
	"testing"

	"github.com/libreshockwave/shockwave/internal/codec"
)

func buildChunk(fourcc [4]byte, body []byte) []byte {
	w := codec.NewWriter(codec.BigEndian)
	w.WriteFourCC(fourcc)
	w.WriteU32(uint32(len(body)))
	w.WriteBytes(body)
	return w.Bytes()
}

// buildMovieWithConfigAndCast constructs a plain RIFX container carrying a
// DRCF (Config), CAS* (CastTable with one member), and a CASt cast member
// chunk, laid out as container/imap/mmap/DRCF/CAS*/CASt.
func buildMovieWithConfigAndCast(t *testing.T) []byte {
	t.Helper()
	headerLen := 12

	// Config body: fixed-offset fields matching chunks.DecodeConfig's layout.
	cw := codec.NewWriter(codec.BigEndian)
	cw.WriteI16(0x2a)  // Length
	cw.WriteI16(1200)  // FileVersion
	cw.WriteI16(0)     // StageRect.Top
	cw.WriteI16(0)     // StageRect.Left
	cw.WriteI16(400)   // StageRect.Bottom
	cw.WriteI16(600)   // StageRect.Right
	cw.WriteI16(1)     // MinMember
	cw.WriteI16(100)   // MaxMember
	cw.WriteU8(0)      // StageColorComps
	cw.WriteU8(0)      // padding
	cw.WriteI16(0)     // CommentFont
	cw.WriteI16(0)     // CommentSize
	cw.WriteI16(0)     // CommentStyle
	cw.WriteI16(0)     // StageColor
	cw.WriteI16(32)    // BitDepth
	cw.WriteI16(1200)  // DirectorVersion
	cw.WriteI16(30)    // FrameRate
	cw.WriteI16(1)     // Platform
	cw.WriteI16(46)    // Protection
	cw.WriteI32(0)     // Checksum placeholder
	configBody := cw.Bytes()

	// CastTable: one member, chunk id 5.
	caw := codec.NewWriter(codec.BigEndian)
	caw.WriteU32(5)
	castTableBody := caw.Bytes()

	// CASt: modern header (directorVersion >= 1024), empty info/specific.
	mw := codec.NewWriter(codec.BigEndian)
	mw.WriteI32(int32(1)) // MemberTypeBitmap
	mw.WriteU32(0)        // infoLen
	mw.WriteU32(0)        // specificLen
	castMemberBody := mw.Bytes()

	chunksList := [][]byte{
		buildChunk([4]byte{'D', 'R', 'C', 'F'}, configBody),
		buildChunk([4]byte{'C', 'A', 'S', '*'}, castTableBody),
		buildChunk([4]byte{'C', 'A', 'S', 't'}, castMemberBody),
	}

	// imap/mmap bookkeeping, mirroring the container package's own fixture
	// builder: header followed by imap, mmap, then the payload chunks.
	imapBody := make([]byte, 24)
	imapChunkLen := 8 + len(imapBody)
	mmapOffset := headerLen + imapChunkLen

	entryCount := 3 + len(chunksList)
	mmapHeader := codec.NewWriter(codec.BigEndian)
	mmapHeader.WriteU16(20)
	mmapHeader.WriteU16(20)
	mmapHeader.WriteI32(int32(entryCount))
	mmapHeader.WriteI32(int32(entryCount))
	mmapHeader.WriteI32(0)
	mmapHeader.WriteI32(-1)

	entryW := codec.NewWriter(codec.BigEndian)
	entryW.WriteFourCC([4]byte{'R', 'I', 'F', 'X'})
	entryW.WriteU32(uint32(headerLen))
	entryW.WriteU32(0)
	entryW.WriteU32(0)
	entryW.WriteU32(0xFFFFFFFF)

	entryW.WriteFourCC([4]byte{'i', 'm', 'a', 'p'})
	entryW.WriteU32(uint32(imapChunkLen))
	entryW.WriteU32(uint32(headerLen))
	entryW.WriteU32(0)
	entryW.WriteU32(0xFFFFFFFF)

	mmapBodyLen := 20 + 20*entryCount
	mmapChunkOffset := mmapOffset
	entryW.WriteFourCC([4]byte{'m', 'm', 'a', 'p'})
	entryW.WriteU32(uint32(8 + mmapBodyLen))
	entryW.WriteU32(uint32(mmapChunkOffset))
	entryW.WriteU32(0)
	entryW.WriteU32(0xFFFFFFFF)

	offset := mmapChunkOffset + 8 + mmapBodyLen
	for _, chunk := range chunksList {
		fourcc := [4]byte{chunk[0], chunk[1], chunk[2], chunk[3]}
		entryW.WriteFourCC(fourcc)
		entryW.WriteU32(uint32(len(chunk) - 8))
		entryW.WriteU32(uint32(offset))
		entryW.WriteU32(0)
		entryW.WriteU32(0xFFFFFFFF)
		offset += len(chunk)
	}

	mmapBody := append(append([]byte{}, mmapHeader.Bytes()...), entryW.Bytes()...)

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
	for _, chunk := range chunksList {
		out = append(out, chunk...)
	}
	return out
}

func TestLoadDecodesConfigAndCastTable(t *testing.T) {
	data := buildMovieWithConfigAndCast(t)
	mv, err := Load(data)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if mv.Config == nil {
		t.Fatalf("expected Config to decode")
	}
	if mv.Config.DirectorVersion != 1200 {
		t.Fatalf("DirectorVersion = %d", mv.Config.DirectorVersion)
	}
	if mv.CastTable == nil || len(mv.CastTable.MemberChunkIDs) != 1 {
		t.Fatalf("expected CastTable with 1 member, got %+v", mv.CastTable)
	}
	member, ok := mv.Member(mv.CastTable.MemberChunkIDs[0])
	if !ok {
		t.Fatalf("expected cast member chunk to decode")
	}
	if member.Type != 1 {
		t.Fatalf("member.Type = %v", member.Type)
	}
}
