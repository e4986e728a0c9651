// Package mixer is the right-hand side of the SL MkII: eight channel strips
// (slider, two buttons, solo, stop, encoder, pot) paged across the song's
// tracks, plus the transport section and its locked mode.
package mixer

import (
	"fmt"

	gomidi "gitlab.com/gomidi/midi/v2"

	"go-slmkii/debug"
	"go-slmkii/midi"
	"go-slmkii/session"
)

// Surface is what the mixer needs from the driver that owns the device.
type Surface interface {
	// SendMidi emits a message to the device (LED feedback).
	SendMidi(msg gomidi.Message)
	// RequestRebuildMidiMap declares the parameter bindings stale.
	RequestRebuildMidiMap()
}

// Display renders the names and slider parameters of the strips' tracks.
type Display interface {
	SetupLeftDisplay(names []string, params []session.Parameter)
}

// Options tune the mixer.
type Options struct {
	// JumpBeats is how far rewind/forward move the playhead per step.
	JumpBeats float64
	// LockEnquiryTicks is the delay after a refresh before asking the device
	// for its transport lock state.
	LockEnquiryTicks int
	// SelectOnLowerRow makes the lower FX row select tracks instead of
	// stopping their clips.
	SelectOnLowerRow bool
}

// DefaultOptions matches the device's factory behavior.
func DefaultOptions() Options {
	return Options{
		JumpBeats:        1,
		LockEnquiryTicks: 3,
	}
}

// Mixer owns the strips, the bank offset and the transport lock state.
type Mixer struct {
	song    session.Song
	surface Surface
	display Display
	opts    Options

	strips [midi.NumStrips]*Strip
	offset int
	subs   []session.Subscription

	transportLocked  bool
	rewindHeld       bool
	forwardHeld      bool
	lockEnquiryDelay int
	blink            bool
}

// New attaches a mixer to song and assigns the first bank of tracks.
func New(song session.Song, surface Surface, display Display, opts Options) *Mixer {
	m := &Mixer{
		song:    song,
		surface: surface,
		display: display,
		opts:    opts,
	}
	for i := range m.strips {
		m.strips[i] = newStrip(m, i)
	}

	ev := song.Events()
	m.subs = []session.Subscription{
		ev.Subscribe(session.SongKey(session.EventVisibleTracks), m.onTracksChanged),
		ev.Subscribe(session.SongKey(session.EventRecordMode), m.onRecordModeChanged),
		ev.Subscribe(session.SongKey(session.EventIsPlaying), m.onIsPlayingChanged),
		ev.Subscribe(session.SongKey(session.EventLoop), m.onLoopChanged),
	}

	m.ReassignStrips()
	return m
}

// Disconnect removes every listener the mixer holds.
func (m *Mixer) Disconnect() {
	ev := m.song.Events()
	for _, s := range m.subs {
		ev.Unsubscribe(s)
	}
	m.subs = nil
	for _, s := range m.strips {
		s.Bind(nil)
	}
}

// Strip returns strip i.
func (m *Mixer) Strip(i int) *Strip {
	return m.strips[i]
}

// Offset returns the index of the first track on strip 0.
func (m *Mixer) Offset() int {
	return m.offset
}

// TransportLocked reports whether the second row mirrors the transport.
func (m *Mixer) TransportLocked() bool {
	return m.transportLocked
}

func (m *Mixer) send(cc, value uint8) {
	m.surface.SendMidi(midi.LED(cc, value))
}

// ReceiveControl routes a decoded, forwarded control to its handler.
func (m *Mixer) ReceiveControl(c midi.Control, value uint8) {
	switch c.Role {
	case midi.RoleTransport:
		m.handleTransport(midi.TransportButton(c.Index), value)
	case midi.RoleSlider:
		m.strips[c.Index].SliderMoved(value)
	case midi.RoleButton1:
		if value == midi.Pressed {
			m.strips[c.Index].FirstButtonPressed()
		}
	case midi.RoleButton2:
		if value == midi.Pressed {
			m.strips[c.Index].SecondButtonPressed()
		}
	case midi.RoleSolo:
		if value == midi.Pressed {
			m.strips[c.Index].SoloButtonPressed()
		}
	case midi.RoleStop:
		if value == midi.Released {
			return
		}
		if m.opts.SelectOnLowerRow {
			m.strips[c.Index].SelectButtonPressed()
		} else {
			m.strips[c.Index].StopButtonPressed()
		}
	case midi.RolePageUp:
		if value == midi.Pressed {
			m.PageUp()
		}
	case midi.RolePageDown:
		if value == midi.Pressed {
			m.PageDown()
		}
	case midi.RoleEncoder, midi.RolePot:
		// only forwarded while the strip is unbound
	default:
		debug.Warn("midi", "mixer dropped %s value=%d", c, value)
	}
}

// RefreshState re-sends everything and schedules the lock status query.
func (m *Mixer) RefreshState() {
	m.ReassignStrips()
	m.lockEnquiryDelay = m.opts.LockEnquiryTicks
}

// UpdateDisplay runs once per tick.
func (m *Mixer) UpdateDisplay() {
	if m.lockEnquiryDelay > 0 {
		m.lockEnquiryDelay--
		if m.lockEnquiryDelay == 0 {
			m.surface.SendMidi(midi.LockQuery())
		}
	}
	if m.rewindHeld {
		m.song.JumpBy(-m.opts.JumpBeats)
	}
	if m.forwardHeld {
		m.song.JumpBy(m.opts.JumpBeats)
	}
	m.updateStopButtons()
}

// updateStopButtons shows clip state on the lower FX row: blinking while a
// stop is pending, lit while a clip plays.
func (m *Mixer) updateStopButtons() {
	m.blink = !m.blink
	blinkValue := midi.Released
	if m.blink {
		blinkValue = midi.Full
	}

	for _, s := range m.strips {
		c, ok := session.AsClipTrack(s.track)
		if !ok || !session.IsNormal(m.song, s.track) {
			continue
		}
		cc := midi.StopBaseCC + uint8(s.index)
		switch {
		case c.FiredSlotIndex() == session.FiredStopSlot:
			m.send(cc, blinkValue)
		case c.PlayingSlotIndex() >= 0:
			m.send(cc, midi.Full)
		default:
			m.send(cc, midi.Released)
		}
	}
}

// StripState is a read-only view of one strip.
type StripState struct {
	Index        int
	Bound        bool
	TrackName    string
	TrackKind    session.Kind
	SecondButton bool
}

// State is a read-only view of the mixer.
type State struct {
	Offset      int
	TrackCount  int
	Locked      bool
	RewindHeld  bool
	ForwardHeld bool
	Strips      [midi.NumStrips]StripState
}

// Snapshot copies the mixer's current state.
func (m *Mixer) Snapshot() State {
	st := State{
		Offset:      m.offset,
		TrackCount:  len(session.TrackList(m.song)),
		Locked:      m.transportLocked,
		RewindHeld:  m.rewindHeld,
		ForwardHeld: m.forwardHeld,
	}
	for i, s := range m.strips {
		st.Strips[i] = StripState{Index: i, SecondButton: s.controlSecondButton}
		if s.track != nil {
			st.Strips[i].Bound = true
			st.Strips[i].TrackName = s.track.Name()
			st.Strips[i].TrackKind = s.track.Kind()
		}
	}
	return st
}

func (s State) String() string {
	return fmt.Sprintf("offset=%d tracks=%d locked=%v", s.Offset, s.TrackCount, s.Locked)
}
