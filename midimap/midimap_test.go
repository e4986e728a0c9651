package midimap

import (
	"math"
	"testing"

	"go-slmkii/session"
)

func TestFeedbackCurveEnds(t *testing.T) {
	if FeedbackCurve[0] != 1 {
		t.Errorf("FeedbackCurve[0] = %d, want 1", FeedbackCurve[0])
	}
	if FeedbackCurve[127] != 11 {
		t.Errorf("FeedbackCurve[127] = %d, want 11", FeedbackCurve[127])
	}
	for i := 1; i < len(FeedbackCurve); i++ {
		if FeedbackCurve[i] < FeedbackCurve[i-1] {
			t.Fatalf("FeedbackCurve not monotonic at %d", i)
		}
	}
}

func TestApplyAbsolute(t *testing.T) {
	m := New(0)
	vol := session.NewParam("Volume", 0, 1, 0)
	m.MapCC(16, vol, Absolute)

	tests := []struct {
		value uint8
		want  float64
	}{
		{0, 0},
		{127, 1},
		{64, 64.0 / 127.0},
	}
	for _, tt := range tests {
		if _, ok := m.Apply(16, tt.value); !ok {
			t.Fatalf("Apply(16) not handled")
		}
		if math.Abs(vol.Value()-tt.want) > 1e-9 {
			t.Errorf("Apply(16, %d) -> %v, want %v", tt.value, vol.Value(), tt.want)
		}
	}
}

func TestApplyRelativeSignedBit(t *testing.T) {
	m := New(0)
	send := session.NewParam("Send A", 0, 1, 0.5)
	fb := FeedbackRule{CC: 112, ValueMap: FeedbackCurve}
	m.MapCCWithFeedback(56, send, RelativeSignedBit, fb)

	got, ok := m.Apply(56, 0x05)
	if !ok || got == nil {
		t.Fatal("Apply() returned no feedback")
	}
	if math.Abs(send.Value()-(0.5+5.0/127.0)) > 1e-9 {
		t.Errorf("after +5 value = %v", send.Value())
	}
	if got.CC != 112 {
		t.Errorf("feedback CC = %d, want 112", got.CC)
	}

	m.Apply(56, 0x40|0x3F)
	m.Apply(56, 0x40|0x3F)
	m.Apply(56, 0x40|0x3F)
	if send.Value() != 0 {
		t.Errorf("value after large decrement = %v, want 0 (clamped)", send.Value())
	}
	if fbs := m.Feedbacks(); len(fbs) != 1 || fbs[0].Value != 1 {
		t.Errorf("Feedbacks() = %+v, want one at ring value 1", fbs)
	}
}

func TestForwardingYieldsToMapping(t *testing.T) {
	m := New(0)
	m.ForwardCC(16)
	if !m.IsForwarded(16) {
		t.Fatal("IsForwarded(16) = false")
	}
	m.MapCC(16, session.NewParam("Volume", 0, 1, 0), Absolute)
	if m.IsForwarded(16) {
		t.Error("mapped CC still forwarded")
	}
	m.ForwardCC(16)
	if m.IsForwarded(16) {
		t.Error("ForwardCC overrode a mapping")
	}
	if _, ok := m.Apply(17, 10); ok {
		t.Error("Apply on unmapped CC reported handled")
	}
	m.ForwardNote(36)
	if !m.IsNoteForwarded(36) || m.IsNoteForwarded(37) {
		t.Error("note forwarding mismatch")
	}
}
