package midi

import (
	"bytes"

	gomidi "gitlab.com/gomidi/midi/v2"
)

// Novation manufacturer id
var NovationID = []byte{0x00, 0x20, 0x29}

const (
	// HandshakeLen is the full length (F0..F7) of the companion application
	// handshake.
	HandshakeLen = 13

	// AbletonPID is the product id the device reports for this script's
	// template.
	AbletonPID uint8 = 0x04

	ModeOffline uint8 = 0x00
	ModeOnline  uint8 = 0x01
)

// F0 00 20 29 03 03 12 00 <pid> 00 01 <online> F7
func templateSysEx(pid, online uint8) gomidi.Message {
	return gomidi.SysEx([]byte{0x00, 0x20, 0x29, 0x03, 0x03, 0x12, 0x00, pid, 0x00, 0x01, online})
}

// Welcome tells the device this script is taking over the template.
func Welcome(pid uint8) gomidi.Message {
	return templateSysEx(pid, ModeOnline)
}

// Goodbye releases the template on teardown.
func Goodbye(pid uint8) gomidi.Message {
	return templateSysEx(pid, ModeOffline)
}

// Handshake is the device's report about which application owns it.
type Handshake struct {
	ProductID uint8
	Mode      uint8
}

// Online reports whether the handshake hands the device to this script.
func (h Handshake) Online() bool {
	return h.Mode == ModeOnline
}

// ParseHandshake decodes a raw sysex message (including F0 and F7). It only
// accepts Novation messages of exactly HandshakeLen bytes.
func ParseHandshake(b []byte) (Handshake, bool) {
	if len(b) != HandshakeLen || b[0] != SysExStart || b[len(b)-1] != SysExEnd {
		return Handshake{}, false
	}
	if !bytes.Equal(b[1:4], NovationID) {
		return Handshake{}, false
	}
	return Handshake{ProductID: b[8], Mode: b[10]}, true
}
