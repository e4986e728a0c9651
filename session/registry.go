package session

import "fmt"

// Event is a kind of state change an entity can report.
type Event int

const (
	// Song-level events, keyed by SongID
	EventVisibleTracks Event = iota
	EventRecordMode
	EventIsPlaying
	EventLoop

	// Track-level events, keyed by the track's ID
	EventMute
	EventSolo
	EventArm
	EventName
)

var eventNames = [...]string{
	EventVisibleTracks: "visible-tracks",
	EventRecordMode:    "record-mode",
	EventIsPlaying:     "is-playing",
	EventLoop:          "loop",
	EventMute:          "mute",
	EventSolo:          "solo",
	EventArm:           "arm",
	EventName:          "name",
}

func (e Event) String() string {
	if int(e) >= 0 && int(e) < len(eventNames) {
		return eventNames[e]
	}
	return fmt.Sprintf("event(%d)", int(e))
}

// Key addresses one listener list.
type Key struct {
	Entity ID
	Event  Event
}

// SongKey returns the key of a song-level event.
func SongKey(e Event) Key {
	return Key{Entity: SongID, Event: e}
}

// TrackKey returns the key of a track-level event.
func TrackKey(t Track, e Event) Key {
	return Key{Entity: t.ID(), Event: e}
}

// Subscription is the handle returned by Subscribe; the zero value is
// inactive.
type Subscription struct {
	key Key
	id  uint64
}

// Key returns what the subscription listens to.
func (s Subscription) Key() Key { return s.key }

// Active reports whether s refers to a subscription at all.
func (s Subscription) Active() bool { return s.id != 0 }

type handler struct {
	id uint64
	fn func()
}

// Registry is the observer table between the host and its listeners. All
// attach and detach calls go through it so they can be counted. It is not
// safe for concurrent use; the host serializes callbacks.
type Registry struct {
	next     uint64
	handlers map[Key][]handler
	attached int
	detached int
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{handlers: make(map[Key][]handler)}
}

// Subscribe registers fn for key.
func (r *Registry) Subscribe(key Key, fn func()) Subscription {
	r.next++
	r.handlers[key] = append(r.handlers[key], handler{id: r.next, fn: fn})
	r.attached++
	return Subscription{key: key, id: r.next}
}

// Unsubscribe removes a subscription. It reports false when s was not live.
func (r *Registry) Unsubscribe(s Subscription) bool {
	if !s.Active() {
		return false
	}
	list := r.handlers[s.key]
	for i, h := range list {
		if h.id != s.id {
			continue
		}
		// copy so a Notify iterating the old slice is unaffected
		next := make([]handler, 0, len(list)-1)
		next = append(next, list[:i]...)
		next = append(next, list[i+1:]...)
		if len(next) == 0 {
			delete(r.handlers, s.key)
		} else {
			r.handlers[s.key] = next
		}
		r.detached++
		return true
	}
	return false
}

// Notify calls every handler registered for key. Handlers may subscribe and
// unsubscribe while running; a handler removed during the notification is
// not called, one added during it is not called until the next one.
func (r *Registry) Notify(key Key) {
	snapshot := r.handlers[key]
	for _, h := range snapshot {
		if !r.live(key, h.id) {
			continue
		}
		h.fn()
	}
}

func (r *Registry) live(key Key, id uint64) bool {
	for _, h := range r.handlers[key] {
		if h.id == id {
			return true
		}
	}
	return false
}

// Live returns the number of handlers currently registered for key.
func (r *Registry) Live(key Key) int {
	return len(r.handlers[key])
}

// LiveForEntity returns the number of handlers registered for any event of
// an entity.
func (r *Registry) LiveForEntity(id ID) int {
	n := 0
	for k, list := range r.handlers {
		if k.Entity == id {
			n += len(list)
		}
	}
	return n
}

// Stats returns how many subscriptions were ever attached and detached.
func (r *Registry) Stats() (attached, detached int) {
	return r.attached, r.detached
}
