package chunks

import (
	"bytes"
	"testing"
)

func sampleConfig() *Config {
	c := &Config{
		Length: 0x2C, FileVersion: 0, DirectorVersion: 1200, Protection: 46,
		StageRect: Rect16{Top: 0, Left: 0, Bottom: 480, Right: 640},
		MinMember: 1, MaxMember: 200, StageColorComps: 8,
		CommentFont: 1, CommentSize: 12, CommentStyle: 0,
		StageColor: 0, BitDepth: 32, FrameRate: 30, Platform: 1,
	}
	c.Checksum = computeChecksum(c)
	return c
}

func TestConfigUnprotectFixedPoint(t *testing.T) {
	c := sampleConfig()
	c.FileVersion = 0
	c.Protection = 46
	c.Checksum = computeChecksum(c)

	Unprotect(c)
	if c.FileVersion != 1200 {
		t.Fatalf("expected file version 1200, got %d", c.FileVersion)
	}
	if c.Protection != 47 {
		t.Fatalf("expected protection 47, got %d", c.Protection)
	}
	if !c.Validate() {
		t.Fatalf("expected valid checksum after unprotect")
	}

	before := c.Encode()
	Unprotect(c)
	after := c.Encode()
	if !bytes.Equal(before, after) {
		t.Fatalf("expected unprotect to be idempotent")
	}
}

func TestConfigEncodeDecodeRoundTrip(t *testing.T) {
	c := sampleConfig()
	body := c.Encode()

	decoded, err := DecodeConfig(body)
	if err != nil {
		t.Fatalf("DecodeConfig: %v", err)
	}
	if decoded.DirectorVersion != c.DirectorVersion || decoded.Protection != c.Protection {
		t.Fatalf("round-trip mismatch: %+v vs %+v", decoded, c)
	}
	if !decoded.Validate() {
		t.Fatalf("expected decoded checksum to validate")
	}
}

func TestConfigTruncated(t *testing.T) {
	_, err := DecodeConfig([]byte{0x00, 0x01})
	if err == nil {
		t.Fatalf("expected error for truncated config")
	}
}
