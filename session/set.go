package session

import "fmt"

// Param is an in-memory Parameter.
type Param struct {
	name          string
	min, max, val float64
}

// NewParam returns a parameter clamped to [min, max].
func NewParam(name string, min, max, value float64) *Param {
	p := &Param{name: name, min: min, max: max}
	p.SetValue(value)
	return p
}

func (p *Param) Name() string   { return p.name }
func (p *Param) Min() float64   { return p.min }
func (p *Param) Max() float64   { return p.max }
func (p *Param) Value() float64 { return p.val }

func (p *Param) SetValue(v float64) {
	if v < p.min {
		v = p.min
	}
	if v > p.max {
		v = p.max
	}
	p.val = v
}

type mixerParams struct {
	volume *Param
	pan    *Param
	sends  []*Param
}

func newMixerParams() mixerParams {
	return mixerParams{
		volume: NewParam("Volume", 0, 1, 0.85),
		pan:    NewParam("Pan", -1, 1, 0),
	}
}

func (m *mixerParams) Volume() Parameter  { return m.volume }
func (m *mixerParams) Panning() Parameter { return m.pan }

func (m *mixerParams) Sends() []Parameter {
	out := make([]Parameter, len(m.sends))
	for i, s := range m.sends {
		out[i] = s
	}
	return out
}

// NormalTrack is an audio, MIDI or group track.
type NormalTrack struct {
	mixerParams
	set        *Set
	id         ID
	name       string
	mute       bool
	solo       bool
	arm        bool
	canArm     bool
	hidden     bool
	instrument bool
	fired      int
	playing    int
}

func (t *NormalTrack) ID() ID           { return t.id }
func (t *NormalTrack) Kind() Kind       { return KindNormal }
func (t *NormalTrack) Name() string     { return t.name }
func (t *NormalTrack) Mute() bool       { return t.mute }
func (t *NormalTrack) Solo() bool       { return t.solo }
func (t *NormalTrack) Arm() bool        { return t.arm }
func (t *NormalTrack) CanBeArmed() bool { return t.canArm }
func (t *NormalTrack) Hidden() bool     { return t.hidden }

func (t *NormalTrack) SetMute(on bool) {
	if t.mute == on {
		return
	}
	t.mute = on
	t.set.events.Notify(TrackKey(t, EventMute))
}

func (t *NormalTrack) SetSolo(on bool) {
	if t.solo == on {
		return
	}
	t.solo = on
	t.set.events.Notify(TrackKey(t, EventSolo))
}

// SetArm is ignored for tracks that cannot be armed.
func (t *NormalTrack) SetArm(on bool) {
	if !t.canArm || t.arm == on {
		return
	}
	t.arm = on
	t.set.events.Notify(TrackKey(t, EventArm))
}

// SelectInstrument succeeds only for tracks that carry a device.
func (t *NormalTrack) SelectInstrument() bool {
	if !t.instrument {
		return false
	}
	t.set.focusedDevice = t.id
	return true
}

func (t *NormalTrack) FiredSlotIndex() int   { return t.fired }
func (t *NormalTrack) PlayingSlotIndex() int { return t.playing }

func (t *NormalTrack) StopAllClips() {
	t.fired = NoSlot
	t.playing = NoSlot
	t.set.clipStops++
}

// ReturnTrack is an effect return.
type ReturnTrack struct {
	mixerParams
	set  *Set
	id   ID
	name string
	mute bool
	solo bool
}

func (t *ReturnTrack) ID() ID       { return t.id }
func (t *ReturnTrack) Kind() Kind   { return KindReturn }
func (t *ReturnTrack) Name() string { return t.name }
func (t *ReturnTrack) Mute() bool   { return t.mute }
func (t *ReturnTrack) Solo() bool   { return t.solo }

func (t *ReturnTrack) SetMute(on bool) {
	if t.mute == on {
		return
	}
	t.mute = on
	t.set.events.Notify(TrackKey(t, EventMute))
}

func (t *ReturnTrack) SetSolo(on bool) {
	if t.solo == on {
		return
	}
	t.solo = on
	t.set.events.Notify(TrackKey(t, EventSolo))
}

// MasterTrack has no mute, solo, arm or clips.
type MasterTrack struct {
	mixerParams
	id   ID
	name string
}

func (t *MasterTrack) ID() ID       { return t.id }
func (t *MasterTrack) Kind() Kind   { return KindMaster }
func (t *MasterTrack) Name() string { return t.name }

// Set is an in-memory Song. Mutators fire the same registry events a host
// would. It is not safe for concurrent use.
type Set struct {
	events *Registry
	nextID ID

	tracks  []*NormalTrack
	returns []*ReturnTrack
	master  *MasterTrack

	playing   bool
	loop      bool
	record    bool
	metronome bool
	position  float64

	exclusiveArm  bool
	exclusiveSolo bool

	selected      Track
	focusedDevice ID

	undo      []func()
	saves     int
	taps      int
	clipStops int
}

// NewSet returns a set holding only the master track. Exclusive arm and solo
// start enabled, as in a fresh host preference set.
func NewSet() *Set {
	s := &Set{
		events:        NewRegistry(),
		exclusiveArm:  true,
		exclusiveSolo: true,
	}
	s.nextID = SongID + 1
	s.master = &MasterTrack{mixerParams: newMixerParams(), id: s.allocID(), name: "Master"}
	return s
}

// NewDemoSet returns a set with the given number of MIDI and return tracks.
func NewDemoSet(tracks, returns int) *Set {
	s := NewSet()
	for i := 0; i < returns; i++ {
		s.AddReturnTrack(fmt.Sprintf("%c-Return", 'A'+i%26))
	}
	for i := 0; i < tracks; i++ {
		s.AddTrack(fmt.Sprintf("%d-MIDI", i+1))
	}
	return s
}

func (s *Set) allocID() ID {
	id := s.nextID
	s.nextID++
	return id
}

func (s *Set) Events() *Registry { return s.events }

func (s *Set) Tracks() []Track {
	out := make([]Track, len(s.tracks))
	for i, t := range s.tracks {
		out[i] = t
	}
	return out
}

func (s *Set) VisibleTracks() []Track {
	out := make([]Track, 0, len(s.tracks))
	for _, t := range s.tracks {
		if !t.hidden {
			out = append(out, t)
		}
	}
	return out
}

func (s *Set) ReturnTracks() []Track {
	out := make([]Track, len(s.returns))
	for i, t := range s.returns {
		out[i] = t
	}
	return out
}

func (s *Set) MasterTrack() Track { return s.master }

// NormalTracks returns the concrete normal tracks in song order.
func (s *Set) NormalTracks() []*NormalTrack {
	out := make([]*NormalTrack, len(s.tracks))
	copy(out, s.tracks)
	return out
}

// Returns returns the concrete return tracks in song order.
func (s *Set) Returns() []*ReturnTrack {
	out := make([]*ReturnTrack, len(s.returns))
	copy(out, s.returns)
	return out
}

// Find returns the track with the given id.
func (s *Set) Find(id ID) (Track, bool) {
	for _, t := range s.tracks {
		if t.id == id {
			return t, true
		}
	}
	for _, t := range s.returns {
		if t.id == id {
			return t, true
		}
	}
	if s.master.id == id {
		return s.master, true
	}
	return nil, false
}

func (s *Set) ExclusiveArm() bool  { return s.exclusiveArm }
func (s *Set) ExclusiveSolo() bool { return s.exclusiveSolo }

func (s *Set) SetExclusiveArm(on bool)  { s.exclusiveArm = on }
func (s *Set) SetExclusiveSolo(on bool) { s.exclusiveSolo = on }

// Structure

func (s *Set) newNormal(name string, canArm bool) *NormalTrack {
	t := &NormalTrack{
		mixerParams: newMixerParams(),
		set:         s,
		id:          s.allocID(),
		name:        name,
		canArm:      canArm,
		instrument:  canArm,
		fired:       NoSlot,
		playing:     NoSlot,
	}
	for _, r := range s.returns {
		t.sends = append(t.sends, NewParam(r.name, 0, 1, 0))
	}
	return t
}

// AddTrack appends an armable track.
func (s *Set) AddTrack(name string) *NormalTrack {
	return s.InsertTrack(len(s.tracks), name)
}

// InsertTrack inserts an armable track at index (clamped to the track count).
func (s *Set) InsertTrack(index int, name string) *NormalTrack {
	t := s.newNormal(name, true)
	s.insert(index, t)
	return t
}

// AddGroupTrack appends a track that cannot be armed.
func (s *Set) AddGroupTrack(name string) *NormalTrack {
	t := s.newNormal(name, false)
	s.insert(len(s.tracks), t)
	return t
}

func (s *Set) insert(index int, t *NormalTrack) {
	if index < 0 || index > len(s.tracks) {
		index = len(s.tracks)
	}
	s.tracks = append(s.tracks, nil)
	copy(s.tracks[index+1:], s.tracks[index:])
	s.tracks[index] = t
	s.events.Notify(SongKey(EventVisibleTracks))
}

// RemoveTrack deletes a normal or return track.
func (s *Set) RemoveTrack(id ID) bool {
	for i, t := range s.tracks {
		if t.id == id {
			s.tracks = append(s.tracks[:i], s.tracks[i+1:]...)
			s.dropSelection(id)
			s.events.Notify(SongKey(EventVisibleTracks))
			return true
		}
	}
	for i, r := range s.returns {
		if r.id == id {
			s.returns = append(s.returns[:i], s.returns[i+1:]...)
			for _, t := range s.tracks {
				t.sends = append(t.sends[:i], t.sends[i+1:]...)
			}
			s.dropSelection(id)
			s.events.Notify(SongKey(EventVisibleTracks))
			return true
		}
	}
	return false
}

func (s *Set) dropSelection(id ID) {
	if s.selected != nil && s.selected.ID() == id {
		s.selected = nil
	}
}

// AddReturnTrack appends a return track and a matching send on every track.
func (s *Set) AddReturnTrack(name string) *ReturnTrack {
	r := &ReturnTrack{mixerParams: newMixerParams(), set: s, id: s.allocID(), name: name}
	s.returns = append(s.returns, r)
	for _, t := range s.tracks {
		t.sends = append(t.sends, NewParam(name, 0, 1, 0))
	}
	s.events.Notify(SongKey(EventVisibleTracks))
	return r
}

// SetHidden folds a track away (as inside a collapsed group) or shows it.
func (s *Set) SetHidden(id ID, hidden bool) {
	for _, t := range s.tracks {
		if t.id == id && t.hidden != hidden {
			t.hidden = hidden
			s.events.Notify(SongKey(EventVisibleTracks))
			return
		}
	}
}

// Rename changes a track's name.
func (s *Set) Rename(id ID, name string) {
	switch t := s.lookup(id).(type) {
	case *NormalTrack:
		if t.name != name {
			t.name = name
			s.events.Notify(TrackKey(t, EventName))
		}
	case *ReturnTrack:
		if t.name != name {
			t.name = name
			s.events.Notify(TrackKey(t, EventName))
		}
	case *MasterTrack:
		if t.name != name {
			t.name = name
			s.events.Notify(TrackKey(t, EventName))
		}
	}
}

func (s *Set) lookup(id ID) Track {
	t, _ := s.Find(id)
	return t
}

// SetClipState sets what a track's clip slots report.
func (s *Set) SetClipState(id ID, fired, playing int) {
	if t, ok := s.lookup(id).(*NormalTrack); ok {
		t.fired = fired
		t.playing = playing
	}
}

// Transport

func (s *Set) IsPlaying() bool { return s.playing }

func (s *Set) StartPlaying() { s.setPlaying(true) }
func (s *Set) StopPlaying()  { s.setPlaying(false) }

func (s *Set) setPlaying(on bool) {
	if s.playing == on {
		return
	}
	s.playing = on
	s.events.Notify(SongKey(EventIsPlaying))
}

func (s *Set) Loop() bool { return s.loop }

func (s *Set) SetLoop(on bool) {
	if s.loop == on {
		return
	}
	s.loop = on
	s.events.Notify(SongKey(EventLoop))
}

func (s *Set) RecordMode() bool { return s.record }

func (s *Set) SetRecordMode(on bool) {
	if s.record == on {
		return
	}
	s.record = on
	s.events.Notify(SongKey(EventRecordMode))
}

// Position returns the playhead in beats.
func (s *Set) Position() float64 { return s.position }

func (s *Set) JumpBy(beats float64) {
	s.position += beats
	if s.position < 0 {
		s.position = 0
	}
}

func (s *Set) StopAllClips() {
	for _, t := range s.tracks {
		t.StopAllClips()
	}
}

// ClipStops counts StopAllClips calls on individual tracks.
func (s *Set) ClipStops() int { return s.clipStops }

// View

func (s *Set) SetSelectedTrack(t Track) { s.selected = t }

// SelectedTrack returns the track the view has selected.
func (s *Set) SelectedTrack() Track { return s.selected }

// FocusedDevice returns the id of the track whose device view has focus.
func (s *Set) FocusedDevice() ID { return s.focusedDevice }

// Commands

func (s *Set) Metronome() bool      { return s.metronome }
func (s *Set) SetMetronome(on bool) { s.metronome = on }

func (s *Set) TapTempo() { s.taps++ }

// Taps counts TapTempo calls.
func (s *Set) Taps() int { return s.taps }

func (s *Set) CanUndo() bool { return len(s.undo) > 0 }

func (s *Set) Undo() {
	if len(s.undo) == 0 {
		return
	}
	last := s.undo[len(s.undo)-1]
	s.undo = s.undo[:len(s.undo)-1]
	last()
}

func (s *Set) Save() { s.saves++ }

// Saves counts Save calls.
func (s *Set) Saves() int { return s.saves }

func (s *Set) CreateAudioTrack(index int) {
	s.create(index, fmt.Sprintf("%d-Audio", len(s.tracks)+1))
}

func (s *Set) CreateMidiTrack(index int) {
	s.create(index, fmt.Sprintf("%d-MIDI", len(s.tracks)+1))
}

// index -1 appends
func (s *Set) create(index int, name string) {
	if index < 0 {
		index = len(s.tracks)
	}
	t := s.InsertTrack(index, name)
	s.undo = append(s.undo, func() { s.RemoveTrack(t.id) })
}

func (s *Set) CreateReturnTrack() {
	r := s.AddReturnTrack(fmt.Sprintf("%c-Return", 'A'+len(s.returns)%26))
	s.undo = append(s.undo, func() { s.RemoveTrack(r.id) })
}

var (
	_ Song      = (*Set)(nil)
	_ Mutable   = (*NormalTrack)(nil)
	_ Armable   = (*NormalTrack)(nil)
	_ ClipTrack = (*NormalTrack)(nil)
	_ Mutable   = (*ReturnTrack)(nil)
	_ Track     = (*MasterTrack)(nil)
)
