package chunks

import (
	"github.com/libreshockwave/shockwave/internal/codec"
	coreerrors "github.com/libreshockwave/shockwave/internal/errors"
)

// MemberType classifies a CastMember's specific-area interpretation.
type MemberType int32

const (
	MemberTypeNull MemberType = iota
	MemberTypeBitmap
	MemberTypeFilmLoop
	MemberTypeText
	MemberTypePalette
	MemberTypePicture
	MemberTypeSound
	MemberTypeButton
	MemberTypeShape
	MemberTypeMovie
	MemberTypeVideo
	MemberTypeScript
)

// ListChunk is the generic item-table layout used by CastMember's info
// area: a data-offset header, a count, per-item end offsets, and the
// concatenated item payloads. Item 0 is conventionally the script source
// text, item 1 the member name.
type ListChunk struct {
	Items [][]byte
}

// DecodeListChunk parses the generic item-table layout: data offset header,
// item count, per-item end offsets, then the concatenated item payloads.
func DecodeListChunk(body []byte, order codec.Endian) (*ListChunk, error) {
	r := codec.NewReader(body, order)

	dataOffset, err := r.U32()
	if err != nil {
		return nil, coreerrors.NewDecodeError("Truncated", "chunks.DecodeListChunk: dataOffset", err)
	}
	count, err := r.U16()
	if err != nil {
		return nil, coreerrors.NewDecodeError("Truncated", "chunks.DecodeListChunk: count", err)
	}
	ends := make([]uint32, count)
	for i := range ends {
		v, err := r.U32()
		if err != nil {
			return nil, coreerrors.NewDecodeError("Truncated", "chunks.DecodeListChunk: itemEnd", err)
		}
		ends[i] = v
	}
	itemsLen, err := r.U32()
	if err != nil {
		return nil, coreerrors.NewDecodeError("Truncated", "chunks.DecodeListChunk: itemsLength", err)
	}

	if err := r.Seek(int(dataOffset)); err != nil {
		return nil, coreerrors.NewDecodeError("Truncated", "chunks.DecodeListChunk: seek data", err)
	}
	payload, err := r.Bytes(int(itemsLen))
	if err != nil {
		return nil, coreerrors.NewDecodeError("Truncated", "chunks.DecodeListChunk: payload", err)
	}

	items := make([][]byte, count)
	prev := uint32(0)
	for i, end := range ends {
		if end < prev || int(end) > len(payload) {
			items[i] = nil
			continue
		}
		items[i] = payload[prev:end]
		prev = end
	}
	return &ListChunk{Items: items}, nil
}

// CastMember is the decoded CASt chunk.
type CastMember struct {
	Type       MemberType
	Name       string
	ScriptText string
	Info       *ListChunk
	Specific   []byte
}

// DecodeCastMember parses a CASt chunk. Modern (version >= 1024) headers use
// type:i32, info_len:i32, specific_len:i32; earlier versions use a
// 16+32+8-bit variant with a flags byte, selected by directorVersion.
func DecodeCastMember(body []byte, order codec.Endian, directorVersion int) (*CastMember, error) {
	r := codec.NewReader(body, order)

	var memberType int32
	var infoLen, specificLen uint32
	if directorVersion >= 1024 {
		t, err := r.I32()
		if err != nil {
			return nil, coreerrors.NewDecodeError("Truncated", "chunks.DecodeCastMember: type", err)
		}
		memberType = t
		infoLen, err = r.U32()
		if err != nil {
			return nil, coreerrors.NewDecodeError("Truncated", "chunks.DecodeCastMember: infoLen", err)
		}
		specificLen, err = r.U32()
		if err != nil {
			return nil, coreerrors.NewDecodeError("Truncated", "chunks.DecodeCastMember: specificLen", err)
		}
	} else {
		specLen16, err := r.U16()
		if err != nil {
			return nil, coreerrors.NewDecodeError("Truncated", "chunks.DecodeCastMember: specificLen16", err)
		}
		infoLen32, err := r.U32()
		if err != nil {
			return nil, coreerrors.NewDecodeError("Truncated", "chunks.DecodeCastMember: infoLen32", err)
		}
		t8, err := r.U8()
		if err != nil {
			return nil, coreerrors.NewDecodeError("Truncated", "chunks.DecodeCastMember: type8", err)
		}
		if _, err := r.U8(); err != nil { // flags byte
			return nil, coreerrors.NewDecodeError("Truncated", "chunks.DecodeCastMember: flags", err)
		}
		memberType = int32(t8)
		infoLen = infoLen32
		specificLen = uint32(specLen16)
	}

	infoBytes, err := r.Bytes(int(infoLen))
	if err != nil {
		return nil, coreerrors.NewDecodeError("Truncated", "chunks.DecodeCastMember: info area", err)
	}
	specific, err := r.Bytes(int(specificLen))
	if err != nil {
		return nil, coreerrors.NewDecodeError("Truncated", "chunks.DecodeCastMember: specific area", err)
	}

	cm := &CastMember{Type: MemberType(memberType), Specific: specific}
	if len(infoBytes) > 0 {
		info, err := DecodeListChunk(infoBytes, order)
		if err == nil {
			cm.Info = info
			if len(info.Items) > 0 {
				cm.ScriptText = string(info.Items[0])
			}
			if len(info.Items) > 1 {
				cm.Name = string(info.Items[1])
			}
		}
	}
	return cm, nil
}
