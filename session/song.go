package session

// Transport is the song's global play state.
type Transport interface {
	IsPlaying() bool
	StartPlaying()
	StopPlaying()
	Loop() bool
	SetLoop(on bool)
	RecordMode() bool
	SetRecordMode(on bool)
	// JumpBy moves the playhead by beats (negative rewinds).
	JumpBy(beats float64)
	// StopAllClips stops every clip in the song.
	StopAllClips()
}

// Commands are the control-application shortcuts the host carries out.
type Commands interface {
	Metronome() bool
	SetMetronome(on bool)
	TapTempo()
	CanUndo() bool
	Undo()
	Save()
	CreateAudioTrack(index int)
	CreateMidiTrack(index int)
	CreateReturnTrack()
}

// Song is the host session as seen by the control surface.
type Song interface {
	Transport
	Commands

	// Tracks returns every normal track, including ones hidden in folded
	// groups.
	Tracks() []Track
	VisibleTracks() []Track
	ReturnTracks() []Track
	MasterTrack() Track

	ExclusiveArm() bool
	ExclusiveSolo() bool

	SetSelectedTrack(t Track)

	// Events is the registry the host notifies state changes through.
	Events() *Registry
}

// TrackList is the addressable universe for paging: visible tracks, then
// return tracks, then the master track. It is rebuilt on every call.
func TrackList(s Song) []Track {
	visible := s.VisibleTracks()
	returns := s.ReturnTracks()
	out := make([]Track, 0, len(visible)+len(returns)+1)
	out = append(out, visible...)
	out = append(out, returns...)
	if m := s.MasterTrack(); m != nil {
		out = append(out, m)
	}
	return out
}

// IsVisible reports whether t is currently a visible normal track.
func IsVisible(s Song, t Track) bool {
	return Contains(s.VisibleTracks(), t)
}

// IsReturn reports whether t is currently a return track.
func IsReturn(s Song, t Track) bool {
	return Contains(s.ReturnTracks(), t)
}

// IsMaster reports whether t is the song's master track.
func IsMaster(s Song, t Track) bool {
	m := s.MasterTrack()
	return t != nil && m != nil && m.ID() == t.ID()
}

// IsNormal reports whether t is currently one of the song's normal tracks,
// visible or not.
func IsNormal(s Song, t Track) bool {
	return Contains(s.Tracks(), t)
}
