package mixer

import (
	"go-slmkii/debug"
	"go-slmkii/midi"
)

// HandleShortcut runs a drum pad shortcut.
func (m *Mixer) HandleShortcut(sc midi.Shortcut) {
	switch sc {
	case midi.ShortcutMetronome:
		m.song.SetMetronome(!m.song.Metronome())
	case midi.ShortcutTap:
		m.song.TapTempo()
	case midi.ShortcutSave:
		m.song.Save()
	case midi.ShortcutUndo:
		if m.song.CanUndo() {
			m.song.Undo()
		}
	case midi.ShortcutAddAudioTrack:
		m.song.CreateAudioTrack(-1)
	case midi.ShortcutAddMidiTrack:
		m.song.CreateMidiTrack(-1)
	case midi.ShortcutAddReturnTrack:
		m.song.CreateReturnTrack()
	default:
		debug.Warn("midi", "unknown shortcut %d", sc)
	}
}
