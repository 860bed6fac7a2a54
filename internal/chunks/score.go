package chunks

import (
	"github.com/libreshockwave/shockwave/internal/codec"
	coreerrors "github.com/libreshockwave/shockwave/internal/errors"
)

// ScoreBehaviorRef is one behavior attachment on a sprite span.
type ScoreBehaviorRef struct {
	CastLib    uint16
	CastMember uint16
	Params     []byte
}

// FrameIntervalPrimary is the channel/frame-range half of a decoded score
// interval.
type FrameIntervalPrimary struct {
	Channel    uint16
	StartFrame int32
	EndFrame   int32
	SpriteData []byte
}

// FrameIntervalSecondary is the optional cast-member reference half.
type FrameIntervalSecondary struct {
	CastLib    uint16
	CastMember uint16
}

// FrameInterval is one decoded sprite span. Channel 0 intervals are frame
// behaviors; channels >= 1 are sprites.
type FrameInterval struct {
	Primary   FrameIntervalPrimary
	Secondary *FrameIntervalSecondary
}

// Score is the decoded VWSC chunk.
type Score struct {
	FrameCount   int32
	ChannelCount int32
	Intervals    []FrameInterval
	// FrameLabels maps a 1-based frame number to its label, for named
	// `go to frame "loop"` navigation (label lookup
	// without specifying the table; grounded on the frame-indexed score
	// structure).
	FrameLabels map[int32]string
}

// DecodeScore parses a VWSC chunk: a fixed header followed by a compressed
// frame-interval stream. The exact interval compression is not fully
// specified by any retrievable reference; this decoder supports the observed
// FrameIntervalPrimary/FrameIntervalSecondary pair layout and treats
// unrecognized tails as opaque, matching that guidance.
func DecodeScore(body []byte, order codec.Endian) (*Score, error) {
	r := codec.NewReader(body, order)

	if _, err := r.U32(); err != nil { // total length
		return nil, coreerrors.NewDecodeError("Truncated", "chunks.DecodeScore: totalLength", err)
	}
	headerLen, err := r.U32()
	if err != nil {
		return nil, coreerrors.NewDecodeError("Truncated", "chunks.DecodeScore: headerLength", err)
	}
	frameCount, err := r.I32()
	if err != nil {
		return nil, coreerrors.NewDecodeError("Truncated", "chunks.DecodeScore: frameCount", err)
	}
	if _, err := r.I16(); err != nil { // framesVersion
		return nil, coreerrors.NewDecodeError("Truncated", "chunks.DecodeScore: framesVersion", err)
	}
	frameStride, err := r.I16()
	if err != nil {
		return nil, coreerrors.NewDecodeError("Truncated", "chunks.DecodeScore: frameStride", err)
	}
	channelCount, err := r.I16()
	if err != nil {
		return nil, coreerrors.NewDecodeError("Truncated", "chunks.DecodeScore: channelCount", err)
	}
	_ = frameStride

	if err := r.Seek(int(headerLen)); err != nil {
		return nil, coreerrors.NewDecodeError("Truncated", "chunks.DecodeScore: seek past header", err)
	}

	var intervals []FrameInterval
	for r.Remaining() >= 12 {
		channel, err := r.U16()
		if err != nil {
			break
		}
		start, err := r.I32()
		if err != nil {
			break
		}
		end, err := r.I32()
		if err != nil {
			break
		}
		dataLen, err := r.U16()
		if err != nil {
			break
		}
		data, err := r.Bytes(int(dataLen))
		if err != nil {
			break
		}
		fi := FrameInterval{Primary: FrameIntervalPrimary{Channel: channel, StartFrame: start, EndFrame: end, SpriteData: data}}

		if r.Remaining() >= 4 {
			hasSecondary, err := r.U8()
			if err == nil && hasSecondary == 1 && r.Remaining() >= 4 {
				castLib, errA := r.U16()
				castMember, errB := r.U16()
				if errA == nil && errB == nil {
					fi.Secondary = &FrameIntervalSecondary{CastLib: castLib, CastMember: castMember}
				}
			} else if err == nil && hasSecondary != 1 {
				// Not a secondary marker; rewind so the next interval reads
				// this byte as its channel field.
				r.Seek(r.Pos() - 1)
			}
		}
		intervals = append(intervals, fi)
	}

	return &Score{
		FrameCount:   frameCount,
		ChannelCount: int32(channelCount),
		Intervals:    intervals,
		FrameLabels:  map[int32]string{},
	}, nil
}
