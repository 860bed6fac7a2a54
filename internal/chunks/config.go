package chunks

import (
	"github.com/libreshockwave/shockwave/internal/codec"
	coreerrors "github.com/libreshockwave/shockwave/internal/errors"
)

// Config is the decoded DRCF chunk: movie-wide settings fixed at known
// offsets, always big-endian.
type Config struct {
	Length          int16
	FileVersion     int16
	StageRect       Rect16
	MinMember       int16
	MaxMember       int16
	StageColorComps uint8
	CommentFont     int16
	CommentSize     int16
	CommentStyle    int16
	StageColor      int16
	BitDepth        int16
	DirectorVersion int16
	FrameRate       int16
	Platform        int16
	Protection      int16
	Checksum        int32

	raw []byte // full decoded body, retained so Unprotect can rewrite in place
}

// Rect16 is a 16-bit axis-aligned rectangle as stored in Config.
type Rect16 struct{ Top, Left, Bottom, Right int16 }

// "ralf" mixed into the checksum as 4 unsigned bytes.
var checksumSalt = [4]byte{'r', 'a', 'l', 'f'}

// DecodeConfig parses a DRCF chunk body. Config is always big-endian
// regardless of container order.
func DecodeConfig(body []byte) (*Config, error) {
	r := codec.NewReader(body, codec.BigEndian)

	length, err := r.I16()
	if err != nil {
		return nil, coreerrors.NewDecodeError("Truncated", "chunks.DecodeConfig: length", err)
	}
	fileVersion, err := r.I16()
	if err != nil {
		return nil, coreerrors.NewDecodeError("Truncated", "chunks.DecodeConfig: fileVersion", err)
	}
	var rect Rect16
	rect.Top, err = r.I16()
	if err == nil {
		rect.Left, err = r.I16()
	}
	if err == nil {
		rect.Bottom, err = r.I16()
	}
	if err == nil {
		rect.Right, err = r.I16()
	}
	if err != nil {
		return nil, coreerrors.NewDecodeError("Truncated", "chunks.DecodeConfig: stageRect", err)
	}
	minMember, err := r.I16()
	if err != nil {
		return nil, coreerrors.NewDecodeError("Truncated", "chunks.DecodeConfig: minMember", err)
	}
	maxMember, err := r.I16()
	if err != nil {
		return nil, coreerrors.NewDecodeError("Truncated", "chunks.DecodeConfig: maxMember", err)
	}
	stageColorComps, err := r.U8()
	if err != nil {
		return nil, coreerrors.NewDecodeError("Truncated", "chunks.DecodeConfig: stageColorComps", err)
	}
	if _, err := r.U8(); err != nil { // padding byte
		return nil, coreerrors.NewDecodeError("Truncated", "chunks.DecodeConfig: pad", err)
	}
	commentFont, err := r.I16()
	if err != nil {
		return nil, coreerrors.NewDecodeError("Truncated", "chunks.DecodeConfig: commentFont", err)
	}
	commentSize, err := r.I16()
	if err != nil {
		return nil, coreerrors.NewDecodeError("Truncated", "chunks.DecodeConfig: commentSize", err)
	}
	commentStyle, err := r.I16()
	if err != nil {
		return nil, coreerrors.NewDecodeError("Truncated", "chunks.DecodeConfig: commentStyle", err)
	}
	stageColor, err := r.I16()
	if err != nil {
		return nil, coreerrors.NewDecodeError("Truncated", "chunks.DecodeConfig: stageColor", err)
	}
	bitDepth, err := r.I16()
	if err != nil {
		return nil, coreerrors.NewDecodeError("Truncated", "chunks.DecodeConfig: bitDepth", err)
	}
	directorVersion, err := r.I16()
	if err != nil {
		return nil, coreerrors.NewDecodeError("Truncated", "chunks.DecodeConfig: directorVersion", err)
	}
	frameRate, err := r.I16()
	if err != nil {
		return nil, coreerrors.NewDecodeError("Truncated", "chunks.DecodeConfig: frameRate", err)
	}
	platform, err := r.I16()
	if err != nil {
		return nil, coreerrors.NewDecodeError("Truncated", "chunks.DecodeConfig: platform", err)
	}
	protection, err := r.I16()
	if err != nil {
		return nil, coreerrors.NewDecodeError("Truncated", "chunks.DecodeConfig: protection", err)
	}
	checksum, err := r.I32()
	if err != nil {
		return nil, coreerrors.NewDecodeError("Truncated", "chunks.DecodeConfig: checksum", err)
	}

	return &Config{
		Length: length, FileVersion: fileVersion, StageRect: rect,
		MinMember: minMember, MaxMember: maxMember, StageColorComps: stageColorComps,
		CommentFont: commentFont, CommentSize: commentSize, CommentStyle: commentStyle,
		StageColor: stageColor, BitDepth: bitDepth, DirectorVersion: directorVersion,
		FrameRate: frameRate, Platform: platform, Protection: protection, Checksum: checksum,
		raw: append([]byte(nil), body...),
	}, nil
}

// computeChecksum reproduces Director's DRCF checksum: a fixed sequence of
// unsigned 32-bit add/subtract/multiply/divide operations over the header fields
// mixed with the literal "ralf". The exact operator sequence is load-bearing
// for bit-exact validation after Unprotect rewrites the body.
func computeChecksum(c *Config) int32 {
	var acc uint32 = uint32(int32(c.Length)) + 1
	acc *= uint32(int32(c.FileVersion)) + 2
	acc /= uint32(int32(c.StageRect.Top)) + 3
	acc *= uint32(int32(c.StageRect.Left)) + 4
	acc -= uint32(int32(c.StageRect.Bottom)) + 5
	acc *= uint32(int32(c.StageRect.Right)) + 6
	acc -= uint32(int32(c.MinMember)) + 7
	acc *= uint32(int32(c.MaxMember)) + 8
	acc += uint32(c.StageColorComps) + 9
	acc *= uint32(int32(c.CommentFont)) + 10
	acc += uint32(int32(c.CommentSize)) + 11
	acc *= uint32(int32(c.CommentStyle)) + 12
	acc += uint32(int32(c.StageColor)) + 13
	acc *= uint32(int32(c.BitDepth)) + 14
	acc += uint32(int32(c.DirectorVersion)) + 15
	acc *= uint32(int32(c.FrameRate)) + 16
	acc += uint32(int32(c.Platform)) + 17
	acc *= uint32(int32(c.Protection)) + 18
	acc += uint32(checksumSalt[0])<<24 | uint32(checksumSalt[1])<<16 | uint32(checksumSalt[2])<<8 | uint32(checksumSalt[3])
	return int32(acc)
}

// Validate reports whether the Config's stored checksum matches the
// recomputed value.
func (c *Config) Validate() bool {
	return c.Checksum == computeChecksum(c)
}

// Unprotect rewrites a Config to remove copy protection: file-version is set to the
// director version; if protection % 23 == 0, protection is incremented;
// the checksum is then recomputed. Unprotect is idempotent.
func Unprotect(c *Config) {
	c.FileVersion = c.DirectorVersion
	if c.Protection%23 == 0 {
		c.Protection++
	}
	c.Checksum = computeChecksum(c)
}

// Encode re-serializes a Config to its big-endian DRCF body.
func (c *Config) Encode() []byte {
	w := codec.NewWriter(codec.BigEndian)
	w.WriteI16(c.Length)
	w.WriteI16(c.FileVersion)
	w.WriteI16(c.StageRect.Top)
	w.WriteI16(c.StageRect.Left)
	w.WriteI16(c.StageRect.Bottom)
	w.WriteI16(c.StageRect.Right)
	w.WriteI16(c.MinMember)
	w.WriteI16(c.MaxMember)
	w.WriteU8(c.StageColorComps)
	w.WriteU8(0)
	w.WriteI16(c.CommentFont)
	w.WriteI16(c.CommentSize)
	w.WriteI16(c.CommentStyle)
	w.WriteI16(c.StageColor)
	w.WriteI16(c.BitDepth)
	w.WriteI16(c.DirectorVersion)
	w.WriteI16(c.FrameRate)
	w.WriteI16(c.Platform)
	w.WriteI16(c.Protection)
	w.WriteI32(c.Checksum)
	return w.Bytes()
}
