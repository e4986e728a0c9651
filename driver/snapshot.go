package driver

import (
	"go-slmkii/midi"
	"go-slmkii/midimap"
	"go-slmkii/mixer"
	"go-slmkii/session"
)

// TrackInfo is one row of the set as the monitor shows it.
type TrackInfo struct {
	ID     session.ID
	Kind   session.Kind
	Name   string
	Mute   bool
	Solo   bool
	Arm    bool
	CanArm bool
	Volume int
}

// Snapshot is a copy of everything the monitor renders. It is safe to read
// from any goroutine.
type Snapshot struct {
	Connected     bool
	Automap       bool
	Playing       bool
	Loop          bool
	Record        bool
	Position      float64
	ExclusiveArm  bool
	ExclusiveSolo bool
	Selected      session.ID
	Ticks         int
	Bindings      int
	Dropped       int64

	Mixer   mixer.State
	Display [midi.NumStrips]Cell
	LEDs    map[uint8]uint8
	Tracks  []TrackInfo
}

// LED returns the last value sent to cc.
func (s Snapshot) LED(cc uint8) (uint8, bool) {
	v, ok := s.LEDs[cc]
	return v, ok
}

type positioner interface {
	Position() float64
}

type selector interface {
	SelectedTrack() session.Track
}

func (d *Driver) publish() {
	snap := Snapshot{
		Connected:     d.out != nil,
		Automap:       d.automap,
		Playing:       d.song.IsPlaying(),
		Loop:          d.song.Loop(),
		Record:        d.song.RecordMode(),
		ExclusiveArm:  d.song.ExclusiveArm(),
		ExclusiveSolo: d.song.ExclusiveSolo(),
		Ticks:         d.ticks,
		Bindings:      d.mm.Len(),
		Dropped:       d.dropped.Load(),
		Mixer:         d.mixer.Snapshot(),
		Display:       d.display.Cells(),
		LEDs:          make(map[uint8]uint8, len(d.leds)),
	}
	for cc, v := range d.leds {
		snap.LEDs[cc] = v
	}
	if p, ok := d.song.(positioner); ok {
		snap.Position = p.Position()
	}
	if s, ok := d.song.(selector); ok {
		if t := s.SelectedTrack(); t != nil {
			snap.Selected = t.ID()
		}
	}
	for _, t := range session.TrackList(d.song) {
		info := TrackInfo{
			ID:     t.ID(),
			Kind:   t.Kind(),
			Name:   t.Name(),
			Volume: positionOf(t),
		}
		if m, ok := session.AsMutable(t); ok {
			info.Mute = m.Mute()
			info.Solo = m.Solo()
		}
		if a, ok := session.AsArmable(t); ok {
			info.CanArm = true
			info.Arm = a.Arm()
		}
		snap.Tracks = append(snap.Tracks, info)
	}

	d.snapMu.Lock()
	d.snap = snap
	d.snapMu.Unlock()

	select {
	case d.updates <- struct{}{}:
	default:
	}
}

func positionOf(t session.Track) int {
	if p := t.Volume(); p != nil {
		return midimap.Position(p)
	}
	return 0
}

// Snapshot returns the state as of the last event the driver handled.
func (d *Driver) Snapshot() Snapshot {
	d.snapMu.RLock()
	defer d.snapMu.RUnlock()
	return d.snap
}
