package mixer

import (
	"go-slmkii/debug"
	"go-slmkii/midi"
	"go-slmkii/session"
)

// maxOffset is the largest bank offset that still fills all eight strips.
func maxOffset(n int) int {
	if n <= midi.NumStrips {
		return 0
	}
	return n - midi.NumStrips
}

func (m *Mixer) clampOffset(n int) {
	if m.offset > maxOffset(n) {
		m.offset = maxOffset(n)
	}
	if m.offset < 0 {
		m.offset = 0
	}
}

func canPageUp(offset, n int) bool {
	return n > midi.NumStrips && offset < n-midi.NumStrips
}

func canPageDown(offset int) bool {
	return offset > 0
}

// ReassignStrips binds strip i to TrackList[offset+i] (or nothing), refreshes
// the display and the page LEDs, and marks the parameter bindings stale.
func (m *Mixer) ReassignStrips() {
	tracks := session.TrackList(m.song)
	m.clampOffset(len(tracks))

	names := make([]string, midi.NumStrips)
	params := make([]session.Parameter, midi.NumStrips)
	for i, s := range m.strips {
		idx := m.offset + i
		if idx >= len(tracks) {
			s.Bind(nil)
			continue
		}
		t := tracks[idx]
		s.Bind(t)
		names[i] = t.Name()
		params[i] = t.Volume()
	}
	if m.display != nil {
		m.display.SetupLeftDisplay(names, params)
	}
	m.surface.RequestRebuildMidiMap()

	m.send(midi.PageUpCC, midi.OnOff(canPageUp(m.offset, len(tracks))))
	m.send(midi.PageDownCC, midi.OnOff(canPageDown(m.offset)))
	debug.Log("bank", "offset=%d tracks=%d", m.offset, len(tracks))
}

// PageUp moves the bank eight tracks forward.
func (m *Mixer) PageUp() {
	n := len(session.TrackList(m.song))
	if !canPageUp(m.offset, n) {
		return
	}
	m.offset += midi.NumStrips
	m.ReassignStrips()
}

// PageDown moves the bank eight tracks back.
func (m *Mixer) PageDown() {
	if !canPageDown(m.offset) {
		return
	}
	m.offset -= midi.NumStrips
	m.ReassignStrips()
}

func (m *Mixer) onTracksChanged() {
	m.ReassignStrips()
}

func (m *Mixer) onTrackNameChanged() {
	m.ReassignStrips()
}
