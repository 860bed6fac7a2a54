//go:build ignore

// Code generated for golden test vectors (container/chunk-table framing).
// Run: go run tests/golden/gen_container_vectors.go
// Deterministic (no randomness) so CI can validate byte-for-byte.
// Produces the following files in tests/golden/:
//   - container_minimal_rifx.bin   (RIFX container: imap + mmap + one data chunk)
//   - container_bad_magic.bin      (unrecognized 4-byte magic, expect rejection)
//   - container_afterburner_fgdm.bin (Afterburner magic with no valid sections, expect a DecodeError)
package main

import (
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
)

func must(err error) {
	if err != nil {
		panic(err)
	}
}

func be32(v uint32) []byte {
	b := make([]byte, 4)
	binary.BigEndian.PutUint32(b, v)
	return b
}

func be16(v uint16) []byte {
	b := make([]byte, 2)
	binary.BigEndian.PutUint16(b, v)
	return b
}

// mmapEntry lays out one 20-byte resource-map entry: fourcc + length +
// offset + flags + next, matching container.mmapEntry.
func mmapEntry(fourcc string, length, offset, flags, next uint32) []byte {
	var b []byte
	b = append(b, []byte(fourcc)...)
	b = append(b, be32(length)...)
	b = append(b, be32(offset)...)
	b = append(b, be32(flags)...)
	b = append(b, be32(next)...)
	return b
}

func write(path string, data []byte) {
	must(os.WriteFile(path, data, 0o644))
	fmt.Printf("Wrote %-30s size=%d\n", filepath.Base(path), len(data))
}

func main() {
	outDir := filepath.Join("tests", "golden")
	must(os.MkdirAll(outDir, 0o755))

	// --- container_minimal_rifx.bin ---
	//
	// Layout (big-endian RIFX, matching container.parsePlain):
	//   0  : "RIFX"
	//   4  : container length (placeholder, unchecked by the parser)
	//   8  : codec tag "MV93"
	//   12 : "imap" chunk header (fourcc + body length)
	//   20 : imap body: mapEntryCount(u32) + mmapOffset(u32)
	//   28 : "mmap" chunk header (fourcc + body length)
	//   36 : mmap body: headerLength(u16) + entryLength(u16) + allocated(i32)
	//        + used(i32) + junk(i32) + freeHead(i32), then one 20-byte entry
	//        per chunk id (0=container, 1=imap, 2=mmap, 3=data chunk)
	//   ...: the data chunk itself, fourcc "TEST" + 8-byte payload
	const (
		imapHeaderOff = 12
		imapBodyOff   = 20
		mmapHeaderOff = 28
		mmapBodyOff   = 36
		mmapHeaderLen = 20
		entryLen      = 20
		numEntries    = 4
	)
	mmapEntriesOff := mmapBodyOff + mmapHeaderLen
	dataChunkOff := mmapEntriesOff + numEntries*entryLen

	payload := []byte{0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08}
	dataChunkHeader := append([]byte("TEST"), be32(uint32(len(payload)))...)
	dataChunkTotal := len(dataChunkHeader) + len(payload)

	var buf []byte
	buf = append(buf, []byte("RIFX")...)
	buf = append(buf, be32(uint32(dataChunkOff+dataChunkTotal-8))...)
	buf = append(buf, []byte("MV93")...)

	// imap chunk: body is exactly the two u32 fields the parser reads.
	imapBody := append(be32(numEntries), be32(uint32(mmapHeaderOff))...)
	buf = append(buf, []byte("imap")...)
	buf = append(buf, be32(uint32(len(imapBody)))...)
	buf = append(buf, imapBody...)
	if len(buf) != imapBodyOff+len(imapBody) {
		panic("imap layout drifted")
	}

	// mmap chunk: header fields, then one entry per chunk id.
	var mmapBody []byte
	mmapBody = append(mmapBody, be16(uint16(mmapHeaderLen))...)
	mmapBody = append(mmapBody, be16(uint16(entryLen))...)
	mmapBody = append(mmapBody, be32(numEntries)...) // allocated
	mmapBody = append(mmapBody, be32(numEntries)...) // used
	mmapBody = append(mmapBody, be32(0)...)          // junk
	mmapBody = append(mmapBody, be32(0xFFFFFFFF)...) // freeHead (none)

	mmapBody = append(mmapBody, mmapEntry("RIFX", 12, 0, 0, 0)...)                         // id 0: container header itself
	mmapBody = append(mmapBody, mmapEntry("imap", uint32(len(imapBody)), imapHeaderOff, 0, 0)...) // id 1: imap
	mmapBody = append(mmapBody, mmapEntry("mmap", 0 /*filled below*/, mmapHeaderOff, 0, 0)...)    // id 2: mmap
	mmapBody = append(mmapBody, mmapEntry("TEST", uint32(len(payload)), uint32(dataChunkOff), 0, 0)...) // id 3: data

	buf = append(buf, []byte("mmap")...)
	buf = append(buf, be32(uint32(len(mmapBody)))...)
	buf = append(buf, mmapBody...)
	if len(buf) != mmapBodyOff+len(mmapBody) {
		panic("mmap layout drifted")
	}

	buf = append(buf, dataChunkHeader...)
	buf = append(buf, payload...)

	// Patch in the mmap entry's own length field now that mmapBody's size is
	// known (the entry for id 2 was written with a placeholder length).
	mmapSelfEntryOff := mmapBodyOff + mmapHeaderLen + 2*entryLen + 4 // + fourcc field width
	binary.BigEndian.PutUint32(buf[mmapSelfEntryOff:], uint32(len(mmapBody)))

	write(filepath.Join(outDir, "container_minimal_rifx.bin"), buf)

	// --- container_bad_magic.bin ---
	write(filepath.Join(outDir, "container_bad_magic.bin"), []byte("JUNK0000"))

	// --- container_afterburner_fgdm.bin ---
	// Afterburner magic followed by zero bytes. The parser takes the
	// Afterburner path and rejects the stream with a DecodeError because
	// the expected Fver section is missing.
	afterburner := append([]byte("FGDM"), make([]byte, 16)...)
	write(filepath.Join(outDir, "container_afterburner_fgdm.bin"), afterburner)

	fmt.Println("Container golden vector files generated in", outDir)
}
