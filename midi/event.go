package midi

import (
	gomidi "gitlab.com/gomidi/midi/v2"
)

// MIDI status nibbles
const (
	NoteOn  uint8 = 0x90
	NoteOff uint8 = 0x80
	CC      uint8 = 0xB0

	SysExStart uint8 = 0xF0
	SysExEnd   uint8 = 0xF7
)

// Channel is the default MIDI channel of the SL MkII script ports.
const Channel uint8 = 0

// CC values used by buttons (inbound) and LEDs (outbound)
const (
	Released uint8 = 0
	Pressed  uint8 = 1
	Full     uint8 = 127
)

// LED builds the CC message that sets the LED (or ring) behind a control number.
func LED(cc, value uint8) gomidi.Message {
	return gomidi.ControlChange(Channel, cc, value)
}

// OnChannel returns msg moved to channel ch. Sysex and other system
// messages are returned unchanged.
func OnChannel(msg gomidi.Message, ch uint8) gomidi.Message {
	if len(msg) == 0 || msg[0] < NoteOff || msg[0] >= SysExStart {
		return msg
	}
	if msg[0]&0x0F == ch&0x0F {
		return msg
	}
	out := make(gomidi.Message, len(msg))
	copy(out, msg)
	out[0] = msg[0]&0xF0 | ch&0x0F
	return out
}

// AllLEDsOff switches every LED on the device off.
func AllLEDsOff() gomidi.Message {
	return LED(AllLEDsOffCC, Released)
}

// LockQuery asks the device for its transport lock state; it answers with a
// lock CC.
func LockQuery() gomidi.Message {
	return LED(LockQueryCC, Pressed)
}

// OnOff maps a boolean to the Pressed/Released LED values.
func OnOff(on bool) uint8 {
	if on {
		return Pressed
	}
	return Released
}
