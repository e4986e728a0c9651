package midi

import (
	"bytes"
	"testing"

	gomidi "gitlab.com/gomidi/midi/v2"
)

func TestTableRoundTrip(t *testing.T) {
	for _, c := range Controls() {
		a, ok := AddressOf(c)
		if !ok {
			t.Errorf("AddressOf(%s) missing", c)
			continue
		}
		back, ok := Lookup(a)
		if !ok || back != c {
			t.Errorf("Lookup(%s) = %s, %v, want %s", a, back, ok, c)
		}
	}
}

func TestLookup(t *testing.T) {
	tests := []struct {
		addr Address
		want Control
	}{
		{CCAddress(16), Strip(RoleSlider, 0)},
		{CCAddress(23), Strip(RoleSlider, 7)},
		{CCAddress(42), Strip(RoleButton1, 2)},
		{CCAddress(55), Strip(RoleButton2, 7)},
		{CCAddress(24), Strip(RoleSolo, 0)},
		{CCAddress(39), Strip(RoleStop, 7)},
		{CCAddress(79), Transport(Lock)},
		{CCAddress(72), Transport(Rewind)},
		{CCAddress(90), PageUp},
		{CCAddress(91), PageDown},
		{NoteAddress(36), ShortcutPad(ShortcutMetronome)},
		{NoteAddress(42), ShortcutPad(ShortcutAddReturnTrack)},
	}
	for _, tt := range tests {
		t.Run(tt.addr.String(), func(t *testing.T) {
			got, ok := Lookup(tt.addr)
			if !ok || got != tt.want {
				t.Errorf("Lookup() = %s, %v, want %s", got, ok, tt.want)
			}
		})
	}

	for _, a := range []Address{CCAddress(100), CCAddress(78), NoteAddress(43), CCAddress(103)} {
		if c, ok := Lookup(a); ok {
			t.Errorf("Lookup(%s) = %s, want none", a, c)
		}
	}
}

func TestCCsFor(t *testing.T) {
	got := CCsFor(RoleStop)
	if len(got) != NumStrips || got[0] != StopBaseCC || got[7] != StopBaseCC+7 {
		t.Errorf("CCsFor(RoleStop) = %v", got)
	}
	if got := CCsFor(RoleShortcut); len(got) != 0 {
		t.Errorf("CCsFor(RoleShortcut) = %v, want none", got)
	}
}

func TestParseHandshake(t *testing.T) {
	tests := []struct {
		name   string
		in     []byte
		wantOK bool
		want   Handshake
	}{
		{"welcome echo", Welcome(AbletonPID), true, Handshake{ProductID: AbletonPID, Mode: ModeOnline}},
		{"offline", []byte{0xF0, 0x00, 0x20, 0x29, 0x03, 0x03, 0x12, 0x00, 0x04, 0x00, 0x00, 0x00, 0xF7}, true, Handshake{ProductID: 4, Mode: ModeOffline}},
		{"too short", []byte{0xF0, 0x00, 0x20, 0x29, 0xF7}, false, Handshake{}},
		{"wrong vendor", []byte{0xF0, 0x00, 0x21, 0x29, 0x03, 0x03, 0x12, 0x00, 0x04, 0x00, 0x01, 0x00, 0xF7}, false, Handshake{}},
		{"no terminator", []byte{0xF0, 0x00, 0x20, 0x29, 0x03, 0x03, 0x12, 0x00, 0x04, 0x00, 0x01, 0x00, 0x00}, false, Handshake{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseHandshake(tt.in)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("ParseHandshake() = %+v, %v, want %+v, %v", got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestWelcomeGoodbye(t *testing.T) {
	want := []byte{0xF0, 0x00, 0x20, 0x29, 0x03, 0x03, 0x12, 0x00, 0x04, 0x00, 0x01, 0x01, 0xF7}
	if got := Welcome(0x04); !bytes.Equal(got, want) {
		t.Errorf("Welcome() = % X, want % X", got, want)
	}
	want[11] = 0x00
	if got := Goodbye(0x04); !bytes.Equal(got, want) {
		t.Errorf("Goodbye() = % X, want % X", got, want)
	}
}

func TestOnChannel(t *testing.T) {
	tests := []struct {
		name string
		in   gomidi.Message
		ch   uint8
		want []byte
	}{
		{"cc", LED(SoloBaseCC, Full), 2, []byte{0xB2, SoloBaseCC, Full}},
		{"same channel", LED(SoloBaseCC, Full), 0, []byte{0xB0, SoloBaseCC, Full}},
		{"note", gomidi.NoteOn(3, 36, 100), 15, []byte{0x9F, 36, 100}},
		{"sysex untouched", Welcome(AbletonPID), 5, Welcome(AbletonPID)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := OnChannel(tt.in, tt.ch); !bytes.Equal(got, tt.want) {
				t.Errorf("OnChannel() = % X, want % X", got, tt.want)
			}
		})
	}

	orig := LED(StopBaseCC, Pressed)
	OnChannel(orig, 4)
	if orig[0] != 0xB0 {
		t.Errorf("OnChannel() modified its input: % X", []byte(orig))
	}
}
