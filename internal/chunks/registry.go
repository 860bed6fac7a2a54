package chunks

import (
	"github.com/libreshockwave/shockwave/internal/codec"
	coreerrors "github.com/libreshockwave/shockwave/internal/errors"
)

// FourCC is a 4-byte chunk tag.
type FourCC = [4]byte

// Kind of chunks this registry knows how to decode, used for dispatch and
// for MovieFile's typed lookups.
const (
	KindConfig         = "DRCF"
	KindCastTable      = "CAS*"
	KindCastMember     = "CASt"
	KindScore          = "VWSC"
	KindScriptContext  = "Lctx"
	kindScriptContextB = "LctX" // alternate-case variant seen in some builds
	KindScriptNamesID  = "Lnam"
	KindScript         = "Lscr"
	KindKeyTable       = "KEY*"
)

// Decoder decodes a single chunk's raw bytes into its typed representation.
// Most decoders need only the bytes and the container's byte order; a few
// (CastMember) additionally need the Director version read from Config.
type Decoder func(body []byte, order codec.Endian, directorVersion int) (any, error)

// registry dispatches a chunk's FourCC to its Decoder, mirroring the
// teacher's marker-byte dispatch for AMF0 values.
var registry = map[string]Decoder{
	KindConfig: func(body []byte, order codec.Endian, _ int) (any, error) {
		return DecodeConfig(body)
	},
	KindCastTable: func(body []byte, order codec.Endian, _ int) (any, error) {
		return DecodeCastTable(body, order)
	},
	KindCastMember: func(body []byte, order codec.Endian, directorVersion int) (any, error) {
		return DecodeCastMember(body, order, directorVersion)
	},
	KindScore: func(body []byte, order codec.Endian, _ int) (any, error) {
		return DecodeScore(body, order)
	},
	KindScriptContext: func(body []byte, _ codec.Endian, _ int) (any, error) {
		return DecodeScriptContext(body)
	},
	kindScriptContextB: func(body []byte, _ codec.Endian, _ int) (any, error) {
		return DecodeScriptContext(body)
	},
	KindScriptNamesID: func(body []byte, _ codec.Endian, _ int) (any, error) {
		return DecodeScriptNames(body)
	},
	KindScript: func(body []byte, _ codec.Endian, _ int) (any, error) {
		return DecodeScript(body)
	},
	KindKeyTable: func(body []byte, order codec.Endian, _ int) (any, error) {
		return DecodeKeyTable(body, order)
	},
}

// Decode looks up fourcc in the registry and decodes body. An unrecognized
// FourCC surfaces DecodeError{UnknownChunk}.
func Decode(fourcc [4]byte, body []byte, order codec.Endian, directorVersion int) (any, error) {
	dec, ok := registry[string(fourcc[:])]
	if !ok {
		return nil, coreerrors.NewDecodeError("UnknownChunk", "chunks.Decode", nil)
	}
	return dec(body, order, directorVersion)
}

// Known reports whether fourcc has a registered decoder.
func Known(fourcc [4]byte) bool {
	_, ok := registry[string(fourcc[:])]
	return ok
}
