package midi

import "fmt"

// NumStrips is the number of channel strips on the mixer side of the device.
const NumStrips = 8

// Control numbers (RemoteSL layout, channel 0)
const (
	PotBaseCC     uint8 = 8  // 8-15 pots (panning)
	SliderBaseCC  uint8 = 16 // 16-23 sliders (volume)
	SoloBaseCC    uint8 = 24 // 24-31 upper FX buttons
	StopBaseCC    uint8 = 32 // 32-39 lower FX buttons
	Button1BaseCC uint8 = 40 // 40-47 first mixer button row
	Button2BaseCC uint8 = 48 // 48-55 second mixer button row
	EncoderBaseCC uint8 = 56 // 56-63 endless encoders (first send)

	RewindCC        uint8 = 72
	ForwardCC       uint8 = 73
	TransportStopCC uint8 = 74
	PlayCC          uint8 = 75
	RecordCC        uint8 = 76
	LoopCC          uint8 = 77
	AllLEDsOffCC    uint8 = 78
	LockCC          uint8 = 79

	PageUpCC   uint8 = 90
	PageDownCC uint8 = 91

	LockQueryCC uint8 = 103

	RingFeedbackBaseCC uint8 = 112 // 112-119 encoder ring values
	RingModeBaseCC     uint8 = 120 // 120-127 encoder ring modes

	DrumPadBaseNote uint8 = 36 // 36-43
	NumDrumPads           = 8
)

// RingVolumeMode is the encoder ring mode used for send levels.
const RingVolumeMode uint8 = 2

// Transport LEDs while the transport is locked. They sit on the second button
// row, so strips must give that row up first.
const (
	LockedStopLED   = Button2BaseCC + 2
	LockedPlayLED   = Button2BaseCC + 3
	LockedLoopLED   = Button2BaseCC + 4
	LockedRecordLED = Button2BaseCC + 5
)

// Role is the semantic role of a physical control.
type Role int

const (
	RoleUnknown Role = iota
	RoleSlider
	RoleButton1
	RoleButton2
	RoleSolo
	RoleStop
	RoleEncoder
	RolePot
	RolePageUp
	RolePageDown
	RoleTransport
	RoleShortcut
)

var roleNames = map[Role]string{
	RoleUnknown:   "unknown",
	RoleSlider:    "slider",
	RoleButton1:   "button1",
	RoleButton2:   "button2",
	RoleSolo:      "solo",
	RoleStop:      "stop",
	RoleEncoder:   "encoder",
	RolePot:       "pot",
	RolePageUp:    "page-up",
	RolePageDown:  "page-down",
	RoleTransport: "transport",
	RoleShortcut:  "shortcut",
}

func (r Role) String() string {
	if s, ok := roleNames[r]; ok {
		return s
	}
	return fmt.Sprintf("role(%d)", int(r))
}

// IsStrip reports whether controls of this role exist once per channel strip.
func (r Role) IsStrip() bool {
	switch r {
	case RoleSlider, RoleButton1, RoleButton2, RoleSolo, RoleStop, RoleEncoder, RolePot:
		return true
	}
	return false
}

// TransportButton identifies a button in the transport section.
type TransportButton int

const (
	Rewind TransportButton = iota
	Forward
	TransportStop
	Play
	Record
	Loop
	Lock
)

// Shortcut identifies a control-application shortcut on the drum pads.
type Shortcut int

const (
	ShortcutMetronome Shortcut = iota
	ShortcutTap
	ShortcutSave
	ShortcutUndo
	ShortcutAddAudioTrack
	ShortcutAddMidiTrack
	ShortcutAddReturnTrack
)

// Control is one physical control. Index is the strip index for strip roles,
// a TransportButton for RoleTransport and a Shortcut for RoleShortcut.
type Control struct {
	Role  Role
	Index int
}

func (c Control) String() string {
	if c.Role == RolePageUp || c.Role == RolePageDown {
		return c.Role.String()
	}
	return fmt.Sprintf("%s[%d]", c.Role, c.Index)
}

// Strip returns the control of the given role on strip i.
func Strip(role Role, i int) Control {
	return Control{Role: role, Index: i}
}

// Transport returns the control for a transport button.
func Transport(b TransportButton) Control {
	return Control{Role: RoleTransport, Index: int(b)}
}

// ShortcutPad returns the drum pad control bound to a shortcut.
func ShortcutPad(s Shortcut) Control {
	return Control{Role: RoleShortcut, Index: int(s)}
}

var (
	PageUp   = Control{Role: RolePageUp}
	PageDown = Control{Role: RolePageDown}
)

// Wire is the MIDI message class a control speaks.
type Wire int

const (
	WireCC Wire = iota
	WireNote
)

// Address is where a control lives on the wire.
type Address struct {
	Wire   Wire
	Number uint8
}

func (a Address) String() string {
	if a.Wire == WireNote {
		return fmt.Sprintf("note %d", a.Number)
	}
	return fmt.Sprintf("cc %d", a.Number)
}

// CCAddress returns the address of control change number n.
func CCAddress(n uint8) Address { return Address{Wire: WireCC, Number: n} }

// NoteAddress returns the address of note number n.
func NoteAddress(n uint8) Address { return Address{Wire: WireNote, Number: n} }

// The single table both directions are read from
var (
	addresses = make(map[Control]Address)
	controls  = make(map[Address]Control)
	ordered   []Control
)

func init() {
	strips := []struct {
		role Role
		base uint8
	}{
		{RolePot, PotBaseCC},
		{RoleSlider, SliderBaseCC},
		{RoleSolo, SoloBaseCC},
		{RoleStop, StopBaseCC},
		{RoleButton1, Button1BaseCC},
		{RoleButton2, Button2BaseCC},
		{RoleEncoder, EncoderBaseCC},
	}
	for _, s := range strips {
		for i := 0; i < NumStrips; i++ {
			register(Strip(s.role, i), CCAddress(s.base+uint8(i)))
		}
	}

	register(Transport(Rewind), CCAddress(RewindCC))
	register(Transport(Forward), CCAddress(ForwardCC))
	register(Transport(TransportStop), CCAddress(TransportStopCC))
	register(Transport(Play), CCAddress(PlayCC))
	register(Transport(Record), CCAddress(RecordCC))
	register(Transport(Loop), CCAddress(LoopCC))
	register(Transport(Lock), CCAddress(LockCC))

	register(PageUp, CCAddress(PageUpCC))
	register(PageDown, CCAddress(PageDownCC))

	shortcuts := []Shortcut{
		ShortcutMetronome,
		ShortcutTap,
		ShortcutSave,
		ShortcutUndo,
		ShortcutAddAudioTrack,
		ShortcutAddMidiTrack,
		ShortcutAddReturnTrack,
	}
	for i, s := range shortcuts {
		register(ShortcutPad(s), NoteAddress(DrumPadBaseNote+uint8(i)))
	}
}

func register(c Control, a Address) {
	if prev, dup := controls[a]; dup {
		panic(fmt.Sprintf("midi: %s assigned to both %s and %s", a, prev, c))
	}
	if _, dup := addresses[c]; dup {
		panic(fmt.Sprintf("midi: %s registered twice", c))
	}
	addresses[c] = a
	controls[a] = c
	ordered = append(ordered, c)
}

// AddressOf returns the wire address of a control.
func AddressOf(c Control) (Address, bool) {
	a, ok := addresses[c]
	return a, ok
}

// Lookup decodes a wire address into the control it belongs to.
func Lookup(a Address) (Control, bool) {
	c, ok := controls[a]
	return c, ok
}

// CCOf returns the CC number of a control that is addressed by CC. It panics
// for controls outside the table, which would be a programming error.
func CCOf(c Control) uint8 {
	a, ok := addresses[c]
	if !ok || a.Wire != WireCC {
		panic(fmt.Sprintf("midi: %s has no CC address", c))
	}
	return a.Number
}

// Controls returns every registered control in registration order.
func Controls() []Control {
	out := make([]Control, len(ordered))
	copy(out, ordered)
	return out
}

// CCsFor returns the CC numbers of all controls with the given role.
func CCsFor(role Role) []uint8 {
	var out []uint8
	for _, c := range ordered {
		if c.Role != role {
			continue
		}
		if a := addresses[c]; a.Wire == WireCC {
			out = append(out, a.Number)
		}
	}
	return out
}

// DrumPadNotes returns the note numbers of the drum pad row.
func DrumPadNotes() []uint8 {
	out := make([]uint8, NumDrumPads)
	for i := range out {
		out[i] = DrumPadBaseNote + uint8(i)
	}
	return out
}
