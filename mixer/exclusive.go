package mixer

import "go-slmkii/session"

// EnforceExclusiveArm disarms every other armed track when the song wants a
// single armed track. It runs before the target's own arm flips.
func (m *Mixer) EnforceExclusiveArm(target session.Track) {
	if !m.song.ExclusiveArm() {
		return
	}
	for _, t := range m.song.Tracks() {
		if t.ID() == target.ID() {
			continue
		}
		if a, ok := session.AsArmable(t); ok && a.Arm() {
			a.SetArm(false)
		}
	}
}

// EnforceExclusiveSolo unsolos every other soloed normal or return track.
func (m *Mixer) EnforceExclusiveSolo(target session.Track) {
	if !m.song.ExclusiveSolo() {
		return
	}
	tracks := append(m.song.Tracks(), m.song.ReturnTracks()...)
	for _, t := range tracks {
		if t.ID() == target.ID() {
			continue
		}
		if s, ok := session.AsMutable(t); ok && s.Solo() {
			s.SetSolo(false)
		}
	}
}
