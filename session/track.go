// Package session describes the host session a control surface drives: the
// song, its tracks and their mixer parameters, and the observer registry the
// host fires state changes through.
package session

// ID identifies an entity (the song or a track) in the observer registry.
type ID int

// SongID is the registry entity for song-level events.
const SongID ID = 0

// Kind tags the three track variants a song contains.
type Kind int

const (
	KindNormal Kind = iota
	KindReturn
	KindMaster
)

func (k Kind) String() string {
	switch k {
	case KindNormal:
		return "track"
	case KindReturn:
		return "return"
	case KindMaster:
		return "master"
	}
	return "unknown"
}

// Parameter is a mixer parameter a physical control can be mapped onto.
type Parameter interface {
	Name() string
	Min() float64
	Max() float64
	Value() float64
	SetValue(v float64)
}

// Track is what every track variant offers. Capabilities beyond it are
// discovered with the interfaces below; the master track has none of them.
type Track interface {
	ID() ID
	Kind() Kind
	Name() string
	Volume() Parameter
	Panning() Parameter
	Sends() []Parameter
}

// Mutable tracks (normal and return) can be muted and soloed.
type Mutable interface {
	Track
	Mute() bool
	SetMute(on bool)
	Solo() bool
	SetSolo(on bool)
}

// Armable tracks (normal only) may be record-armed when CanBeArmed says so;
// group tracks report false.
type Armable interface {
	Track
	CanBeArmed() bool
	Arm() bool
	SetArm(on bool)
	// SelectInstrument focuses the track's primary device view and reports
	// whether that succeeded.
	SelectInstrument() bool
}

// Slot indices reported by ClipTrack
const (
	NoSlot        = -1
	FiredStopSlot = -2 // the stop button was triggered and waits for launch quantization
)

// ClipTrack tracks (normal only) hold clip slots.
type ClipTrack interface {
	Track
	FiredSlotIndex() int
	PlayingSlotIndex() int
	StopAllClips()
}

// AsMutable returns t's mute/solo capability.
func AsMutable(t Track) (Mutable, bool) {
	if t == nil {
		return nil, false
	}
	m, ok := t.(Mutable)
	return m, ok
}

// AsArmable returns t's arm capability, only when the track can be armed.
func AsArmable(t Track) (Armable, bool) {
	if t == nil {
		return nil, false
	}
	a, ok := t.(Armable)
	if !ok || !a.CanBeArmed() {
		return nil, false
	}
	return a, true
}

// AsClipTrack returns t's clip slot capability.
func AsClipTrack(t Track) (ClipTrack, bool) {
	if t == nil {
		return nil, false
	}
	c, ok := t.(ClipTrack)
	return c, ok
}

// Contains reports whether a track with t's id is in list.
func Contains(list []Track, t Track) bool {
	if t == nil {
		return false
	}
	for _, x := range list {
		if x.ID() == t.ID() {
			return true
		}
	}
	return false
}
