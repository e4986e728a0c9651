package mixer

import (
	"go-slmkii/midi"
	"go-slmkii/midimap"
)

// forwardedRoles never map to parameters; their CCs always reach the mixer.
var forwardedRoles = map[midi.Role]bool{
	midi.RoleButton1:   true,
	midi.RoleButton2:   true,
	midi.RoleSolo:      true,
	midi.RoleStop:      true,
	midi.RolePageUp:    true,
	midi.RolePageDown:  true,
	midi.RoleTransport: true,
}

// BuildMidiMap declares the current bindings: sliders to volume, encoders to
// the first send (with ring feedback), pots to panning. Any control without a
// parameter is forwarded.
func (m *Mixer) BuildMidiMap(mm *midimap.Map) {
	for _, s := range m.strips {
		i := uint8(s.index)

		slider := midi.SliderBaseCC + i
		if p := s.SliderParameter(); p != nil {
			mm.MapCC(slider, p, midimap.Absolute)
		} else {
			mm.ForwardCC(slider)
		}

		encoder := midi.EncoderBaseCC + i
		if p := s.EncoderParameter(); p != nil {
			rule := midimap.FeedbackRule{
				CC:       midi.RingFeedbackBaseCC + i,
				Channel:  mm.Channel(),
				ValueMap: midimap.FeedbackCurve,
			}
			m.send(midi.RingModeBaseCC+i, midi.RingVolumeMode)
			mm.MapCCWithFeedback(encoder, p, midimap.RelativeSignedBit, rule)
			fb := midimap.FeedbackFor(rule, p)
			m.send(fb.CC, fb.Value)
		} else {
			mm.ForwardCC(encoder)
		}

		pot := midi.PotBaseCC + i
		if p := s.PotParameter(); p != nil {
			mm.MapCC(pot, p, midimap.Absolute)
		} else {
			mm.ForwardCC(pot)
		}
	}

	for _, c := range midi.Controls() {
		if forwardedRoles[c.Role] {
			mm.ForwardCC(midi.CCOf(c))
		}
	}
	for _, n := range midi.DrumPadNotes() {
		mm.ForwardNote(n)
	}
}
