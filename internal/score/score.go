// Package score indexes a decoded VWSC chunk into sprite spans queryable by
// channel and frame, and resolves named frame labels from an optional VWLB
// chunk, the way Director's playback head advances frame by frame and asks
// "what is live in channel N right now."
package score

import (
	"sort"

	"github.com/libreshockwave/shockwave/internal/chunks"
	"github.com/libreshockwave/shockwave/internal/codec"
	coreerrors "github.com/libreshockwave/shockwave/internal/errors"
)

// Span is one sprite or frame-behavior interval, reshaped from a
// chunks.FrameInterval for fast per-frame lookup.
type Span struct {
	Channel    uint16
	Start      int32
	End        int32
	CastLib    uint16
	CastMember uint16
	HasCast    bool
	Data       []byte
}

// IsFrameBehavior reports whether this span lives in channel 0, Director's
// reserved frame-behavior channel rather than a visible sprite channel.
func (s Span) IsFrameBehavior() bool { return s.Channel == 0 }

// Active reports whether the span covers frame.
func (s Span) Active(frame int32) bool { return frame >= s.Start && frame <= s.End }

// Index is a queryable view over a movie's score: sprite spans grouped by
// channel (sorted by start frame) plus a frame-number-to-label map.
type Index struct {
	FrameCount   int32
	ChannelCount int32

	byChannel map[uint16][]Span
	labels    map[int32]string
	labelRev  map[string]int32
}

// Empty returns a single-frame Index with no sprites or labels, for movies
// that carry no VWSC chunk.
func Empty() *Index {
	return &Index{
		FrameCount: 1,
		byChannel:  map[uint16][]Span{},
		labels:     map[int32]string{},
		labelRev:   map[string]int32{},
	}
}

// Build reshapes a decoded Score chunk into an Index. labelBody is the raw
// VWLB chunk body, if the movie carries one; pass nil if absent.
func Build(sc *chunks.Score, order codec.Endian, labelBody []byte) (*Index, error) {
	idx := &Index{
		FrameCount:   sc.FrameCount,
		ChannelCount: sc.ChannelCount,
		byChannel:    map[uint16][]Span{},
		labels:       map[int32]string{},
		labelRev:     map[string]int32{},
	}

	for _, fi := range sc.Intervals {
		span := Span{
			Channel: fi.Primary.Channel,
			Start:   fi.Primary.StartFrame,
			End:     fi.Primary.EndFrame,
			Data:    fi.Primary.SpriteData,
		}
		if fi.Secondary != nil {
			span.HasCast = true
			span.CastLib = fi.Secondary.CastLib
			span.CastMember = fi.Secondary.CastMember
		}
		idx.byChannel[span.Channel] = append(idx.byChannel[span.Channel], span)
	}
	for ch, spans := range idx.byChannel {
		sort.Slice(spans, func(i, j int) bool { return spans[i].Start < spans[j].Start })
		idx.byChannel[ch] = spans
	}

	for frame, label := range sc.FrameLabels {
		idx.labels[frame] = label
		idx.labelRev[label] = frame
	}

	if labelBody != nil {
		decoded, err := DecodeFrameLabels(labelBody, order)
		if err != nil {
			return nil, err
		}
		for frame, label := range decoded {
			idx.labels[frame] = label
			idx.labelRev[label] = frame
		}
	}

	return idx, nil
}

// ActiveAt returns the span active in channel at frame, if any.
func (idx *Index) ActiveAt(channel uint16, frame int32) (Span, bool) {
	spans := idx.byChannel[channel]
	// Spans are sorted by Start but may overlap in malformed scores; a
	// linear scan keeps the lookup correct without assuming disjointness.
	for _, s := range spans {
		if s.Active(frame) {
			return s, true
		}
	}
	return Span{}, false
}

// ActiveSprites returns every sprite-channel span (channel >= 1) active at
// frame, ordered by channel number ascending.
func (idx *Index) ActiveSprites(frame int32) []Span {
	var out []Span
	channels := make([]uint16, 0, len(idx.byChannel))
	for ch := range idx.byChannel {
		if ch == 0 {
			continue
		}
		channels = append(channels, ch)
	}
	sort.Slice(channels, func(i, j int) bool { return channels[i] < channels[j] })
	for _, ch := range channels {
		if s, ok := idx.ActiveAt(ch, frame); ok {
			out = append(out, s)
		}
	}
	return out
}

// FrameBehaviors returns every channel-0 (frame behavior) span active at
// frame.
func (idx *Index) FrameBehaviors(frame int32) []Span {
	var out []Span
	for _, s := range idx.byChannel[0] {
		if s.Active(frame) {
			out = append(out, s)
		}
	}
	return out
}

// Label returns the label assigned to frame, if any.
func (idx *Index) Label(frame int32) (string, bool) {
	l, ok := idx.labels[frame]
	return l, ok
}

// FrameForLabel resolves a label back to its frame number, for
// `go to frame "loop"` navigation.
func (idx *Index) FrameForLabel(label string) (int32, bool) {
	f, ok := idx.labelRev[label]
	return f, ok
}

// DecodeFrameLabels parses a VWLB chunk: a count of (frame, string-table
// offset) pairs followed by a length-prefixed string table, the layout
// Director uses for every other interned-string chunk in this family
// (mirrors chunks.DecodeScriptNames's length-prefixed entries).
func DecodeFrameLabels(body []byte, order codec.Endian) (map[int32]string, error) {
	r := codec.NewReader(body, order)
	count, err := r.U16()
	if err != nil {
		return nil, coreerrors.NewDecodeError("Truncated", "score.DecodeFrameLabels: count", err)
	}

	type entry struct {
		frame  int32
		offset uint16
	}
	entries := make([]entry, 0, count)
	for i := 0; i < int(count); i++ {
		frame, err := r.U16()
		if err != nil {
			return nil, coreerrors.NewDecodeError("Truncated", "score.DecodeFrameLabels: frame", err)
		}
		offset, err := r.U16()
		if err != nil {
			return nil, coreerrors.NewDecodeError("Truncated", "score.DecodeFrameLabels: offset", err)
		}
		entries = append(entries, entry{frame: int32(frame), offset: offset})
	}

	tableLen, err := r.U32()
	if err != nil {
		return nil, coreerrors.NewDecodeError("Truncated", "score.DecodeFrameLabels: tableLen", err)
	}
	table, err := r.Bytes(int(tableLen))
	if err != nil {
		return nil, coreerrors.NewDecodeError("Truncated", "score.DecodeFrameLabels: table", err)
	}

	labels := make(map[int32]string, len(entries))
	for i, e := range entries {
		start := int(e.offset)
		end := len(table)
		if i+1 < len(entries) {
			end = int(entries[i+1].offset)
		}
		if start < 0 || end > len(table) || start > end {
			continue
		}
		labels[e.frame] = string(table[start:end])
	}
	return labels, nil
}
