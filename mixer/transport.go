package mixer

import (
	"fmt"

	"go-slmkii/debug"
	"go-slmkii/midi"
)

func (m *Mixer) handleTransport(b midi.TransportButton, value uint8) {
	pressed := value == midi.Pressed
	switch b {
	case midi.Rewind:
		m.rewindHeld = pressed
		if pressed {
			m.song.JumpBy(-m.opts.JumpBeats)
		}
	case midi.Forward:
		m.forwardHeld = pressed
		if pressed {
			m.song.JumpBy(m.opts.JumpBeats)
		}
	case midi.TransportStop:
		if pressed {
			m.song.StopPlaying()
		}
	case midi.Play:
		if pressed {
			m.song.StartPlaying()
		}
	case midi.Loop:
		if pressed {
			m.song.SetLoop(!m.song.Loop())
		}
	case midi.Record:
		if pressed {
			m.song.SetRecordMode(!m.song.RecordMode())
		}
	case midi.Lock:
		m.transportLocked = value != midi.Released
		m.onTransportLockChanged()
	default:
		panic(fmt.Sprintf("mixer: unknown transport button %d", b))
	}
}

func (m *Mixer) onTransportLockChanged() {
	debug.Log("transport", "locked=%v", m.transportLocked)
	for _, s := range m.strips {
		s.TakeControlOfSecondButton(!m.transportLocked)
	}
	if m.transportLocked {
		m.onIsPlayingChanged()
		m.onLoopChanged()
		m.onRecordModeChanged()
	}
}

func (m *Mixer) onIsPlayingChanged() {
	if !m.transportLocked {
		return
	}
	if m.song.IsPlaying() {
		m.send(midi.LockedPlayLED, midi.Pressed)
		m.send(midi.LockedStopLED, midi.Released)
	} else {
		m.send(midi.LockedPlayLED, midi.Released)
		m.send(midi.LockedStopLED, midi.Pressed)
	}
}

func (m *Mixer) onLoopChanged() {
	if !m.transportLocked {
		return
	}
	m.send(midi.LockedLoopLED, midi.OnOff(m.song.Loop()))
}

func (m *Mixer) onRecordModeChanged() {
	if !m.transportLocked {
		return
	}
	m.send(midi.LockedRecordLED, midi.OnOff(m.song.RecordMode()))
}
