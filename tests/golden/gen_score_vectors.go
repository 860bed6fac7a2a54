//go:build ignore

// Code generated for golden test vectors (VWSC score chunk bodies).
// Run: go run tests/golden/gen_score_vectors.go
// Deterministic (no randomness) so CI can validate byte-for-byte.
// Produces the following files in tests/golden/:
//   - score_single_sprite.bin     (one sprite span, frames 1-10, channel 1)
//   - score_with_secondary.bin    (one span plus a cast-member secondary ref)
//   - score_frame_behavior.bin    (one channel-0 span: a frame behavior)
//   - score_empty.bin             (header only, zero intervals)
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

// scoreHeader builds the fixed VWSC header chunks.DecodeScore reads before
// seeking to the interval stream: totalLength, headerLength, frameCount,
// framesVersion, frameStride, channelCount.
func scoreHeader(headerLen uint32, frameCount int32, channelCount int16) []byte {
	var b []byte
	b = append(b, be32(0)...) // total length, unchecked by the decoder
	b = append(b, be32(headerLen)...)
	b = append(b, be32(uint32(frameCount))...)
	b = append(b, be16(0)...) // framesVersion
	b = append(b, be16(0)...) // frameStride, unused by the decoder
	b = append(b, be16(uint16(channelCount))...)
	return b
}

// interval builds one FrameIntervalPrimary record: channel, start, end,
// sprite-data length + bytes.
func interval(channel uint16, start, end int32, data []byte) []byte {
	var b []byte
	b = append(b, be16(channel)...)
	b = append(b, be32(uint32(start))...)
	b = append(b, be32(uint32(end))...)
	b = append(b, be16(uint16(len(data)))...)
	b = append(b, data...)
	return b
}

func write(path string, data []byte) {
	must(os.WriteFile(path, data, 0o644))
	fmt.Printf("Wrote %-30s size=%d\n", filepath.Base(path), len(data))
}

func main() {
	outDir := filepath.Join("tests", "golden")
	must(os.MkdirAll(outDir, 0o755))

	const headerLen = 18 // exactly the six fixed fields above

	// One sprite on channel 1, active frames 1-10, 4 bytes of sprite data.
	{
		body := scoreHeader(headerLen, 10, 1)
		body = append(body, interval(1, 1, 10, []byte{0xAA, 0xBB, 0xCC, 0xDD})...)
		write(filepath.Join(outDir, "score_single_sprite.bin"), body)
	}

	// Same span, followed by a cast-member secondary reference
	// (hasSecondary=1, castLib=1, castMember=5).
	{
		body := scoreHeader(headerLen, 10, 1)
		body = append(body, interval(1, 1, 10, []byte{0x01})...)
		body = append(body, 0x01)           // hasSecondary marker
		body = append(body, be16(1)...)     // castLib
		body = append(body, be16(5)...)     // castMember
		write(filepath.Join(outDir, "score_with_secondary.bin"), body)
	}

	// Channel 0: a frame behavior spanning frames 3-3.
	{
		body := scoreHeader(headerLen, 5, 1)
		body = append(body, interval(0, 3, 3, []byte{0x09})...)
		write(filepath.Join(outDir, "score_frame_behavior.bin"), body)
	}

	// Header only, no intervals.
	{
		body := scoreHeader(headerLen, 1, 0)
		write(filepath.Join(outDir, "score_empty.bin"), body)
	}

	fmt.Println("Score golden vector files generated in", outDir)
}
