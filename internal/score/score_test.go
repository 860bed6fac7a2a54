package score

import (
	"testing"

	"github.com/libreshockwave/shockwave/internal/chunks"
	"github.com/libreshockwave/shockwave/internal/codec"
)

func buildLabelChunk(t *testing.T, labels map[int32]string, order []int32) []byte {
	t.Helper()
	w := codec.NewWriter(codec.BigEndian)
	w.WriteU16(uint16(len(order)))

	var table []byte
	offsets := make([]uint16, len(order))
	for i, frame := range order {
		offsets[i] = uint16(len(table))
		table = append(table, []byte(labels[frame])...)
	}
	for i, frame := range order {
		w.WriteU16(uint16(frame))
		w.WriteU16(offsets[i])
	}
	w.WriteU32(uint32(len(table)))
	w.WriteBytes(table)
	return w.Bytes()
}

func sampleScore() *chunks.Score {
	return &chunks.Score{
		FrameCount:   10,
		ChannelCount: 4,
		Intervals: []chunks.FrameInterval{
			{Primary: chunks.FrameIntervalPrimary{Channel: 1, StartFrame: 1, EndFrame: 5}},
			{Primary: chunks.FrameIntervalPrimary{Channel: 1, StartFrame: 6, EndFrame: 10}},
			{Primary: chunks.FrameIntervalPrimary{Channel: 2, StartFrame: 1, EndFrame: 10},
				Secondary: &chunks.FrameIntervalSecondary{CastLib: 1, CastMember: 7}},
			{Primary: chunks.FrameIntervalPrimary{Channel: 0, StartFrame: 1, EndFrame: 1}},
		},
		FrameLabels: map[int32]string{},
	}
}

func TestActiveAtFindsCoveringSpan(t *testing.T) {
	idx, err := Build(sampleScore(), codec.BigEndian, nil)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	s, ok := idx.ActiveAt(1, 3)
	if !ok || s.Start != 1 || s.End != 5 {
		t.Fatalf("ActiveAt(1,3) = %+v, %v", s, ok)
	}
	s, ok = idx.ActiveAt(1, 7)
	if !ok || s.Start != 6 {
		t.Fatalf("ActiveAt(1,7) = %+v, %v", s, ok)
	}
	if _, ok := idx.ActiveAt(1, 20); ok {
		t.Fatalf("expected no span active at frame 20")
	}
}

func TestActiveSpritesExcludesChannelZero(t *testing.T) {
	idx, err := Build(sampleScore(), codec.BigEndian, nil)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	spans := idx.ActiveSprites(3)
	if len(spans) != 2 {
		t.Fatalf("expected 2 active sprites at frame 3, got %d", len(spans))
	}
	for _, s := range spans {
		if s.Channel == 0 {
			t.Fatalf("ActiveSprites leaked a channel-0 frame behavior")
		}
	}
	if spans[1].CastMember != 7 {
		t.Fatalf("expected channel 2's cast member to survive reshaping, got %+v", spans[1])
	}
}

func TestFrameBehaviorsReturnsChannelZero(t *testing.T) {
	idx, err := Build(sampleScore(), codec.BigEndian, nil)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	behaviors := idx.FrameBehaviors(1)
	if len(behaviors) != 1 {
		t.Fatalf("expected 1 frame behavior at frame 1, got %d", len(behaviors))
	}
	if len(idx.FrameBehaviors(5)) != 0 {
		t.Fatalf("expected no frame behavior at frame 5")
	}
}

func TestFrameLabelsRoundTrip(t *testing.T) {
	labels := map[int32]string{1: "start", 5: "loop", 10: "end"}
	order := []int32{1, 5, 10}
	body := buildLabelChunk(t, labels, order)

	idx, err := Build(sampleScore(), codec.BigEndian, body)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	for frame, label := range labels {
		got, ok := idx.Label(frame)
		if !ok || got != label {
			t.Fatalf("Label(%d) = %q, %v; want %q", frame, got, ok, label)
		}
		backFrame, ok := idx.FrameForLabel(label)
		if !ok || backFrame != frame {
			t.Fatalf("FrameForLabel(%q) = %d, %v; want %d", label, backFrame, ok, frame)
		}
	}
}

func TestFrameLabelsFromChunkMergeWithScoreLabels(t *testing.T) {
	sc := sampleScore()
	sc.FrameLabels[2] = "fromScore"
	body := buildLabelChunk(t, map[int32]string{9: "fromChunk"}, []int32{9})

	idx, err := Build(sc, codec.BigEndian, body)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if l, ok := idx.Label(2); !ok || l != "fromScore" {
		t.Fatalf("Label(2) = %q, %v", l, ok)
	}
	if l, ok := idx.Label(9); !ok || l != "fromChunk" {
		t.Fatalf("Label(9) = %q, %v", l, ok)
	}
}
