package mixer

import (
	"go-slmkii/debug"
	"go-slmkii/midi"
	"go-slmkii/session"
)

// Strip is one of the eight channel strips. It is bound to at most one track
// and holds the listeners that mirror that track's state onto its LEDs.
type Strip struct {
	mixer *Mixer
	index int

	track session.Track
	subs  []session.Subscription

	controlSecondButton bool

	attached int
	detached int
}

func newStrip(m *Mixer, index int) *Strip {
	return &Strip{
		mixer:               m,
		index:               index,
		controlSecondButton: true,
	}
}

// Index returns the strip's position, 0..7.
func (s *Strip) Index() int { return s.index }

// Track returns the bound track, or nil.
func (s *Strip) Track() session.Track { return s.track }

// ControlsSecondButton reports whether the second button shows arm state.
func (s *Strip) ControlsSecondButton() bool { return s.controlSecondButton }

// ListenerSets returns how many listener sets this strip has attached and
// detached over its lifetime.
func (s *Strip) ListenerSets() (attached, detached int) {
	return s.attached, s.detached
}

// Bind moves the strip to t (nil unbinds). The previous track's listeners are
// always removed first, and the LEDs are re-sent even when t is unchanged.
func (s *Strip) Bind(t session.Track) {
	s.detach()
	s.track = t
	if t != nil {
		s.attach(t)
	}
	s.onMuteChanged()
	s.onArmChanged()
	s.onSoloChanged()
}

func (s *Strip) attach(t session.Track) {
	ev := s.mixer.song.Events()
	if _, ok := session.AsMutable(t); ok {
		s.subs = append(s.subs,
			ev.Subscribe(session.TrackKey(t, session.EventMute), s.onMuteChanged),
			ev.Subscribe(session.TrackKey(t, session.EventSolo), s.onSoloChanged),
		)
	}
	if _, ok := session.AsArmable(t); ok {
		s.subs = append(s.subs, ev.Subscribe(session.TrackKey(t, session.EventArm), s.onArmChanged))
	}
	s.subs = append(s.subs, ev.Subscribe(session.TrackKey(t, session.EventName), s.mixer.onTrackNameChanged))
	s.attached++
}

func (s *Strip) detach() {
	if s.track == nil {
		return
	}
	ev := s.mixer.song.Events()
	for _, sub := range s.subs {
		ev.Unsubscribe(sub)
	}
	s.subs = nil
	s.detached++
}

// TakeControlOfSecondButton gives the second button back to the strip (arm)
// or cedes it to the locked transport.
func (s *Strip) TakeControlOfSecondButton(take bool) {
	s.mixer.send(midi.Button2BaseCC+uint8(s.index), midi.Released)
	s.controlSecondButton = take
	s.onMuteChanged()
	s.onArmChanged()
}

func (s *Strip) song() session.Song { return s.mixer.song }

// mixable reports whether the bound track is a normal or a return track.
func (s *Strip) mixable() bool {
	return session.IsNormal(s.song(), s.track) || session.IsReturn(s.song(), s.track)
}

func (s *Strip) onMuteChanged() {
	value := midi.Released
	if m, ok := session.AsMutable(s.track); ok && s.mixable() && !m.Mute() {
		value = midi.Pressed
	}
	s.mixer.send(midi.Button1BaseCC+uint8(s.index), value)
}

func (s *Strip) onArmChanged() {
	if !s.controlSecondButton {
		return
	}
	value := midi.Released
	if a, ok := session.AsArmable(s.track); ok && session.IsNormal(s.song(), s.track) && a.Arm() {
		value = midi.Pressed
	}
	s.mixer.send(midi.Button2BaseCC+uint8(s.index), value)
}

func (s *Strip) onSoloChanged() {
	value := midi.Released
	if m, ok := session.AsMutable(s.track); ok && s.mixable() && m.Solo() {
		value = midi.Full
	}
	s.mixer.send(midi.SoloBaseCC+uint8(s.index), value)
}

// SliderMoved only arrives while the slider is unmapped.
func (s *Strip) SliderMoved(value uint8) {
	debug.Log("strip", "strip %d slider %d (unbound)", s.index, value)
}

// FirstButtonPressed toggles mute.
func (s *Strip) FirstButtonPressed() {
	m, ok := session.AsMutable(s.track)
	if !ok {
		return
	}
	if !session.IsVisible(s.song(), s.track) && !session.IsReturn(s.song(), s.track) {
		return
	}
	m.SetMute(!m.Mute())
}

// SecondButtonPressed toggles arm. Arming enforces exclusive arm first and
// then focuses the track's instrument.
func (s *Strip) SecondButtonPressed() {
	if !s.controlSecondButton || !session.IsVisible(s.song(), s.track) {
		return
	}
	a, ok := session.AsArmable(s.track)
	if !ok {
		return
	}
	arm := !a.Arm()
	if arm {
		s.mixer.EnforceExclusiveArm(s.track)
	}
	a.SetArm(arm)
	if arm && a.Arm() && a.SelectInstrument() {
		s.song().SetSelectedTrack(s.track)
	}
}

// SoloButtonPressed toggles solo, enforcing exclusive solo when turning on.
func (s *Strip) SoloButtonPressed() {
	m, ok := session.AsMutable(s.track)
	if !ok {
		return
	}
	if !session.IsVisible(s.song(), s.track) && !session.IsReturn(s.song(), s.track) {
		return
	}
	solo := !m.Solo()
	if solo {
		s.mixer.EnforceExclusiveSolo(s.track)
	}
	m.SetSolo(solo)
}

// StopButtonPressed stops the track's clips, or every clip on the master strip.
func (s *Strip) StopButtonPressed() {
	if s.track == nil {
		return
	}
	if session.IsMaster(s.song(), s.track) {
		s.song().StopAllClips()
		return
	}
	if !session.IsVisible(s.song(), s.track) {
		return
	}
	if c, ok := session.AsClipTrack(s.track); ok {
		c.StopAllClips()
	}
}

// SelectButtonPressed selects the bound track in the host.
func (s *Strip) SelectButtonPressed() {
	if s.track == nil || !session.Contains(session.TrackList(s.song()), s.track) {
		return
	}
	s.song().SetSelectedTrack(s.track)
}

// SliderParameter is the parameter the slider drives, or nil.
func (s *Strip) SliderParameter() session.Parameter {
	if s.track == nil {
		return nil
	}
	return s.track.Volume()
}

// EncoderParameter is the track's first send, or nil.
func (s *Strip) EncoderParameter() session.Parameter {
	if s.track == nil {
		return nil
	}
	sends := s.track.Sends()
	if len(sends) == 0 {
		return nil
	}
	return sends[0]
}

// PotParameter is the parameter the pot drives, or nil.
func (s *Strip) PotParameter() session.Parameter {
	if s.track == nil {
		return nil
	}
	return s.track.Panning()
}
