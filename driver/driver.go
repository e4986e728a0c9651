// Package driver is the top of the SL MkII surface. It owns the output port,
// classifies inbound MIDI, runs the periodic tick and the refresh debounce,
// and tracks whether the companion application has taken the device over.
//
// All state is touched from one goroutine: Run serializes inbound messages,
// posted jobs and ticks. Tests call HandleMessage and Tick directly.
package driver

import (
	"context"
	"io"
	"sync"
	"sync/atomic"
	"time"

	gomidi "gitlab.com/gomidi/midi/v2"

	"go-slmkii/debug"
	"go-slmkii/midi"
	"go-slmkii/midimap"
	"go-slmkii/mixer"
	"go-slmkii/session"
)

// Output is where the driver writes MIDI. A *midi.Port satisfies it; if the
// output also implements io.Closer, Close releases it.
type Output interface {
	Send(msg gomidi.Message) error
}

// Component is a part of the surface driven through the refresh, tick and
// mapping lifecycle.
type Component interface {
	RefreshState()
	UpdateDisplay()
	BuildMidiMap(mm *midimap.Map)
	Disconnect()
}

const (
	inboxSize = 256
	jobsSize  = 32
)

// Driver is the dispatcher between one device and one song.
type Driver struct {
	song session.Song
	opts Options

	out        Output
	mixer      *mixer.Mixer
	display    *LeftDisplay
	components []Component

	mm       *midimap.Map
	mapStale bool
	automap  bool
	hwDelay  int
	ticks    int
	leds     map[uint8]uint8

	inbox   chan gomidi.Message
	jobs    chan func()
	updates chan struct{}
	dropped atomic.Int64

	snapMu sync.RWMutex
	snap   Snapshot
}

// New builds a driver that writes to out. out may be nil until a device is
// connected with SetOutput.
func New(song session.Song, out Output, opts Options) *Driver {
	d := &Driver{
		song:     song,
		opts:     opts,
		out:      out,
		display:  &LeftDisplay{},
		mm:       midimap.New(opts.Channel),
		mapStale: true,
		leds:     make(map[uint8]uint8),
		inbox:    make(chan gomidi.Message, inboxSize),
		jobs:     make(chan func(), jobsSize),
		updates:  make(chan struct{}, 1),
	}
	d.mixer = mixer.New(song, d, d.display, opts.Mixer)
	d.components = []Component{d.mixer, d.display}
	d.publish()
	return d
}

// Mixer returns the mixer component.
func (d *Driver) Mixer() *mixer.Mixer { return d.mixer }

// Display returns the left display component.
func (d *Driver) Display() *LeftDisplay { return d.display }

// Map returns the current parameter bindings.
func (d *Driver) Map() *midimap.Map { return d.mm }

// Automap reports whether the companion application has the device.
func (d *Driver) Automap() bool { return d.automap }

// Channel is the MIDI channel the surface talks on.
func (d *Driver) Channel() uint8 { return d.opts.Channel }

// SendMidi writes msg on the surface channel unless the companion
// application has control. CC values are mirrored for the monitor.
func (d *Driver) SendMidi(msg gomidi.Message) {
	if d.automap || d.out == nil {
		return
	}
	msg = midi.OnChannel(msg, d.opts.Channel)
	var ch, cc, val uint8
	if msg.GetControlChange(&ch, &cc, &val) {
		d.leds[cc] = val
	}
	if err := d.out.Send(msg); err != nil {
		debug.Warn("driver", "send %s: %v", msg, err)
	}
}

// RequestRebuildMidiMap marks the bindings stale. They are rebuilt before
// the next inbound message and at the end of every tick.
func (d *Driver) RequestRebuildMidiMap() {
	d.mapStale = true
}

// Start schedules the first hardware update.
func (d *Driver) Start() {
	d.RefreshState()
}

// RefreshState schedules a full hardware resync. Repeated calls within the
// delay restart it.
func (d *Driver) RefreshState() {
	d.hwDelay = d.opts.HardwareDelayTicks
	if d.hwDelay <= 0 {
		d.updateHardware()
	}
}

func (d *Driver) updateHardware() {
	debug.Log("driver", "hardware update, welcome pid=%d", d.opts.ProductID)
	d.automap = false
	d.SendMidi(midi.Welcome(d.opts.ProductID))
	for _, c := range d.components {
		c.RefreshState()
	}
}

// SetOutput attaches a newly opened device (or detaches with nil) and
// schedules a resync.
func (d *Driver) SetOutput(out Output) {
	d.out = out
	d.leds = make(map[uint8]uint8)
	if out != nil {
		d.RefreshState()
	}
	d.publish()
}

// Tick runs the periodic work: the resync countdown, the components' display
// updates and any pending map rebuild.
func (d *Driver) Tick() {
	d.ticks++
	if d.hwDelay > 0 {
		d.hwDelay--
		if d.hwDelay == 0 {
			d.updateHardware()
		}
	}
	for _, c := range d.components {
		c.UpdateDisplay()
	}
	d.rebuildIfStale()
	d.publish()
}

func (d *Driver) rebuildIfStale() {
	if !d.mapStale {
		return
	}
	d.mapStale = false
	mm := midimap.New(d.opts.Channel)
	if !d.automap {
		for _, c := range d.components {
			c.BuildMidiMap(mm)
		}
	}
	d.mm = mm
	debug.Log("driver", "midi map rebuilt, %d bindings", mm.Len())
}

// HandleMessage classifies one inbound message and routes it.
func (d *Driver) HandleMessage(msg gomidi.Message) {
	d.rebuildIfStale()
	defer d.publish()

	if len(msg) > 0 && msg[0] == midi.SysExStart {
		d.handleSysEx(msg)
		return
	}

	var ch, num, val uint8
	switch {
	case msg.GetControlChange(&ch, &num, &val):
		if d.foreign(ch) {
			return
		}
		d.handleCC(num, val)
	case msg.GetNoteOn(&ch, &num, &val):
		if d.foreign(ch) {
			return
		}
		if val > 0 {
			d.handleNote(num)
		}
	case msg.GetNoteOff(&ch, &num, &val):
	default:
		debug.Warn("midi", "unknown message % X", []byte(msg))
	}
}

func (d *Driver) foreign(ch uint8) bool {
	if ch == d.mm.Channel() {
		return false
	}
	debug.Log("midi", "channel %d ignored, listening on %d", ch, d.mm.Channel())
	return true
}

func (d *Driver) handleCC(cc, value uint8) {
	if fb, ok := d.mm.Apply(cc, value); ok {
		if fb != nil {
			d.SendMidi(gomidi.ControlChange(fb.Channel, fb.CC, fb.Value))
		}
		return
	}
	if !d.mm.IsForwarded(cc) {
		debug.Log("midi", "cc %d not forwarded, dropped", cc)
		return
	}
	c, ok := midi.Lookup(midi.CCAddress(cc))
	if !ok {
		debug.Warn("midi", "unknown cc %d value=%d", cc, value)
		return
	}
	d.mixer.ReceiveControl(c, value)
}

func (d *Driver) handleNote(note uint8) {
	if !d.mm.IsNoteForwarded(note) {
		debug.Log("midi", "note %d not forwarded, dropped", note)
		return
	}
	c, ok := midi.Lookup(midi.NoteAddress(note))
	if !ok || c.Role != midi.RoleShortcut {
		debug.Warn("midi", "unknown note %d", note)
		return
	}
	d.mixer.HandleShortcut(midi.Shortcut(c.Index))
}

func (d *Driver) handleSysEx(raw []byte) {
	hs, ok := midi.ParseHandshake(raw)
	if !ok {
		debug.Warn("midi", "unknown sysex % X", raw)
		return
	}
	if hs.ProductID != d.opts.ProductID {
		debug.Log("driver", "handshake for pid %d ignored", hs.ProductID)
		return
	}

	if !hs.Online() {
		debug.Log("driver", "companion application took control")
		d.automap = true
		d.mapStale = true
		return
	}

	debug.Log("driver", "handshake, reclaiming control (automap=%v)", d.automap)
	d.automap = false
	d.SendMidi(midi.AllLEDsOff())
	for _, c := range d.components {
		c.RefreshState()
	}
	d.RequestRebuildMidiMap()
}

// Close disconnects every component, blanks the device, says goodbye and
// releases the output.
func (d *Driver) Close() error {
	for _, c := range d.components {
		c.Disconnect()
	}
	d.SendMidi(midi.AllLEDsOff())
	d.SendMidi(midi.Goodbye(d.opts.ProductID))

	var err error
	if closer, ok := d.out.(io.Closer); ok {
		err = closer.Close()
	}
	d.out = nil
	d.publish()
	return err
}

// Deliver queues an inbound message for Run. It never blocks; messages that
// do not fit are counted and dropped.
func (d *Driver) Deliver(msg gomidi.Message) {
	cp := make(gomidi.Message, len(msg))
	copy(cp, msg)
	select {
	case d.inbox <- cp:
	default:
		n := d.dropped.Add(1)
		debug.LogEvery(100, "midi", "inbox full, %d messages dropped", n)
	}
}

// Post runs fn on the driver goroutine.
func (d *Driver) Post(fn func()) {
	d.jobs <- fn
}

// Updates signals after every state change.
func (d *Driver) Updates() <-chan struct{} {
	return d.updates
}

// drainInbox handles every message already delivered, so a posted job sees
// the input that arrived before it.
func (d *Driver) drainInbox() {
	for {
		select {
		case msg := <-d.inbox:
			d.HandleMessage(msg)
		default:
			return
		}
	}
}

// Run serializes inbound MIDI, posted jobs and the tick until ctx is done.
func (d *Driver) Run(ctx context.Context) {
	interval := d.opts.TickInterval
	if interval <= 0 {
		interval = 100 * time.Millisecond
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case msg := <-d.inbox:
			d.HandleMessage(msg)
		case fn := <-d.jobs:
			d.drainInbox()
			fn()
			d.publish()
		case <-ticker.C:
			d.Tick()
		}
	}
}
