package driver

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	gomidi "gitlab.com/gomidi/midi/v2"

	"go-slmkii/midi"
	"go-slmkii/midimap"
	"go-slmkii/session"
)

type fakeOutput struct {
	sent   []gomidi.Message
	err    error
	closed bool
}

func (f *fakeOutput) Send(msg gomidi.Message) error {
	cp := make(gomidi.Message, len(msg))
	copy(cp, msg)
	f.sent = append(f.sent, cp)
	return f.err
}

func (f *fakeOutput) Close() error {
	f.closed = true
	return nil
}

func (f *fakeOutput) index(want gomidi.Message) int {
	for i, msg := range f.sent {
		if bytes.Equal(msg, want) {
			return i
		}
	}
	return -1
}

func (f *fakeOutput) lastCC(cc uint8) (uint8, bool) {
	for i := len(f.sent) - 1; i >= 0; i-- {
		var ch, c, v uint8
		if f.sent[i].GetControlChange(&ch, &c, &v) && c == cc {
			return v, true
		}
	}
	return 0, false
}

func handshake(pid, mode uint8) gomidi.Message {
	return gomidi.Message{0xF0, 0x00, 0x20, 0x29, 0x03, 0x03, 0x12, 0x00, pid, 0x00, mode, 0x00, 0xF7}
}

func newTestDriver(t *testing.T, tracks, returns int) (*Driver, *session.Set, *fakeOutput) {
	t.Helper()
	set := session.NewDemoSet(tracks, returns)
	out := &fakeOutput{}
	d := New(set, out, DefaultOptions())
	return d, set, out
}

func TestStartSendsWelcomeAfterDelay(t *testing.T) {
	d, _, out := newTestDriver(t, 3, 0)
	welcome := midi.Welcome(midi.AbletonPID)

	d.Start()
	for i := 0; i < 4; i++ {
		d.Tick()
		if out.index(welcome) >= 0 {
			t.Fatalf("welcome sent after %d ticks", i+1)
		}
	}
	d.Tick()
	if out.index(welcome) < 0 {
		t.Fatal("welcome not sent after 5 ticks")
	}
}

func TestRefreshDebounce(t *testing.T) {
	d, _, out := newTestDriver(t, 3, 0)
	welcome := midi.Welcome(midi.AbletonPID)

	d.Start()
	d.Tick()
	d.Tick()
	d.RefreshState()
	for i := 0; i < 4; i++ {
		d.Tick()
	}
	if out.index(welcome) >= 0 {
		t.Fatal("welcome sent before the restarted delay elapsed")
	}
	d.Tick()

	n := 0
	for _, msg := range out.sent {
		if bytes.Equal(msg, welcome) {
			n++
		}
	}
	if n != 1 {
		t.Errorf("welcome sent %d times, want 1", n)
	}
}

func TestHardwareUpdateRefreshesMixer(t *testing.T) {
	d, _, out := newTestDriver(t, 3, 0)
	d.Start()
	for i := 0; i < 5; i++ {
		d.Tick()
	}
	w := out.index(midi.Welcome(midi.AbletonPID))
	out.sent = out.sent[w:]

	if v, ok := out.lastCC(midi.Button1BaseCC); !ok || v != midi.Pressed {
		t.Errorf("mute LED after refresh = %d (sent %v), want %d", v, ok, midi.Pressed)
	}
	for i := 0; i < 3; i++ {
		d.Tick()
	}
	if _, ok := out.lastCC(midi.LockQueryCC); !ok {
		t.Error("lock query not sent after refresh")
	}
}

func TestSliderMapsToVolume(t *testing.T) {
	d, set, _ := newTestDriver(t, 3, 0)
	track := set.NormalTracks()[0]

	d.HandleMessage(gomidi.ControlChange(0, midi.SliderBaseCC, 127))
	if got := track.Volume().Value(); got != track.Volume().Max() {
		t.Errorf("volume = %v, want %v", got, track.Volume().Max())
	}
	if d.Map().Len() == 0 {
		t.Error("map not built before classification")
	}
}

func TestEncoderFeedback(t *testing.T) {
	d, set, out := newTestDriver(t, 2, 1)
	send := set.NormalTracks()[0].Sends()[0]

	d.HandleMessage(gomidi.ControlChange(0, midi.EncoderBaseCC, 5))
	if send.Value() <= 0 {
		t.Fatalf("send value = %v, want > 0", send.Value())
	}
	want := midimap.FeedbackCurve[midimap.Position(send)]
	if v, ok := out.lastCC(midi.RingFeedbackBaseCC); !ok || v != want {
		t.Errorf("ring feedback = %d (sent %v), want %d", v, ok, want)
	}
}

func TestForwardedButton(t *testing.T) {
	d, set, out := newTestDriver(t, 3, 0)

	d.HandleMessage(gomidi.ControlChange(0, midi.Button1BaseCC+2, midi.Pressed))
	if !set.NormalTracks()[2].Mute() {
		t.Error("track 2 not muted")
	}
	if v, _ := out.lastCC(midi.Button1BaseCC + 2); v != midi.Released {
		t.Errorf("mute LED = %d, want %d", v, midi.Released)
	}
	if v, ok := d.Snapshot().LED(midi.Button1BaseCC + 2); !ok || v != midi.Released {
		t.Errorf("mirrored LED = %d (%v), want %d", v, ok, midi.Released)
	}
}

func TestShortcutNotes(t *testing.T) {
	d, set, _ := newTestDriver(t, 2, 0)

	d.HandleMessage(gomidi.NoteOn(0, 41, 0))
	if n := len(set.Tracks()); n != 2 {
		t.Fatalf("note-on with zero velocity created a track, tracks = %d", n)
	}
	d.HandleMessage(gomidi.NoteOn(0, 41, 100))
	if n := len(set.Tracks()); n != 3 {
		t.Errorf("tracks = %d, want 3", n)
	}
	d.HandleMessage(gomidi.NoteOff(0, 41))
	d.HandleMessage(gomidi.NoteOn(0, 43, 100))
	if n := len(set.Tracks()); n != 3 {
		t.Errorf("tracks after unassigned pad = %d, want 3", n)
	}
}

func TestLazyRebuildAfterStructuralChange(t *testing.T) {
	d, set, _ := newTestDriver(t, 2, 0)
	d.Tick()
	if _, ok := d.Map().Rule(midi.SliderBaseCC + 3); ok {
		t.Fatal("slider 3 mapped with only three tracks")
	}

	set.AddTrack("extra")
	// strips: 1-MIDI, 2-MIDI, extra, Master
	d.HandleMessage(gomidi.ControlChange(0, midi.SliderBaseCC+3, 0))
	if _, ok := d.Map().Rule(midi.SliderBaseCC + 3); !ok {
		t.Error("slider 3 not mapped after rebuild")
	}
	if got := set.MasterTrack().Volume().Value(); got != 0 {
		t.Errorf("master volume = %v, want 0", got)
	}
}

func TestHandshake(t *testing.T) {
	tests := []struct {
		name        string
		msg         gomidi.Message
		wantAutomap bool
		wantLEDsOff bool
	}{
		{"online", handshake(midi.AbletonPID, midi.ModeOnline), false, true},
		{"offline hands over", handshake(midi.AbletonPID, midi.ModeOffline), true, false},
		{"other product", handshake(0x05, midi.ModeOnline), false, false},
		{"short sysex", gomidi.Message{0xF0, 0x00, 0x20, 0x29, 0xF7}, false, false},
		{"other vendor", gomidi.Message{0xF0, 0x00, 0x20, 0x30, 0x03, 0x03, 0x12, 0x00, 0x04, 0x00, 0x01, 0x00, 0xF7}, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, _, out := newTestDriver(t, 3, 0)
			out.sent = nil

			d.HandleMessage(tt.msg)

			if d.Automap() != tt.wantAutomap {
				t.Errorf("Automap() = %v, want %v", d.Automap(), tt.wantAutomap)
			}
			if got := out.index(midi.AllLEDsOff()) >= 0; got != tt.wantLEDsOff {
				t.Errorf("all LEDs off sent = %v, want %v", got, tt.wantLEDsOff)
			}
		})
	}
}

func TestAutomapSuppressesOutput(t *testing.T) {
	d, set, out := newTestDriver(t, 3, 0)
	d.HandleMessage(handshake(midi.AbletonPID, midi.ModeOffline))
	out.sent = nil

	set.NormalTracks()[0].SetMute(true)
	d.Tick()
	if len(out.sent) != 0 {
		t.Errorf("sent %d messages while the companion app has control", len(out.sent))
	}

	d.HandleMessage(gomidi.ControlChange(0, midi.SliderBaseCC, 127))
	if got := set.NormalTracks()[0].Volume().Value(); got == 1 {
		t.Error("slider moved volume while the companion app has control")
	}

	d.HandleMessage(handshake(midi.AbletonPID, midi.ModeOnline))
	if d.Automap() {
		t.Fatal("online handshake did not reclaim control")
	}
	if out.index(midi.AllLEDsOff()) < 0 {
		t.Error("reclaim did not clear LEDs")
	}
	if v, ok := out.lastCC(midi.Button1BaseCC); !ok || v != midi.Released {
		t.Errorf("mute LED after reclaim = %d (sent %v), want %d", v, ok, midi.Released)
	}
	d.HandleMessage(gomidi.ControlChange(0, midi.SliderBaseCC, 127))
	if got := set.NormalTracks()[0].Volume().Value(); got != 1 {
		t.Errorf("volume after reclaim = %v, want 1", got)
	}
}

func TestHardwareUpdateClearsAutomap(t *testing.T) {
	d, _, out := newTestDriver(t, 1, 0)
	d.HandleMessage(handshake(midi.AbletonPID, midi.ModeOffline))
	d.RefreshState()
	for i := 0; i < 5; i++ {
		d.Tick()
	}
	if d.Automap() {
		t.Error("Automap() = true after hardware update")
	}
	if out.index(midi.Welcome(midi.AbletonPID)) < 0 {
		t.Error("welcome not sent")
	}
}

func TestUnknownMessagesDropped(t *testing.T) {
	d, set, _ := newTestDriver(t, 1, 0)
	before := len(set.Tracks())

	d.HandleMessage(gomidi.ControlChange(0, 100, 1))
	d.HandleMessage(gomidi.Pitchbend(0, 100))
	d.HandleMessage(gomidi.ProgramChange(0, 3))

	if len(set.Tracks()) != before {
		t.Error("unknown message changed the set")
	}
}

func TestChannel(t *testing.T) {
	set := session.NewDemoSet(3, 0)
	out := &fakeOutput{}
	opts := DefaultOptions()
	opts.Channel = 2
	d := New(set, out, opts)
	d.RefreshState()
	for i := 0; i < opts.HardwareDelayTicks; i++ {
		d.Tick()
	}

	track := set.NormalTracks()[0]
	before := track.Volume().Value()
	d.HandleMessage(gomidi.ControlChange(9, midi.SliderBaseCC, 0))
	if got := track.Volume().Value(); got != before {
		t.Errorf("volume = %v after foreign channel, want %v", got, before)
	}
	d.HandleMessage(gomidi.ControlChange(0, midi.Button1BaseCC, midi.Pressed))
	if track.Mute() {
		t.Error("mute toggled by a message on channel 0")
	}

	d.HandleMessage(gomidi.ControlChange(2, midi.SliderBaseCC, 127))
	if got := track.Volume().Value(); got != track.Volume().Max() {
		t.Errorf("volume = %v, want %v", got, track.Volume().Max())
	}

	d.HandleMessage(gomidi.ControlChange(2, midi.EncoderBaseCC, 3))
	if _, ok := out.lastCC(midi.RingFeedbackBaseCC); !ok {
		t.Fatal("no ring feedback sent")
	}
	n := 0
	for _, msg := range out.sent {
		var ch, cc, v uint8
		if msg.GetControlChange(&ch, &cc, &v) {
			n++
			if ch != 2 {
				t.Errorf("cc %d sent on channel %d, want 2", cc, ch)
			}
		}
	}
	if n == 0 {
		t.Error("no CCs sent")
	}
}

func TestSendErrorsAreSwallowed(t *testing.T) {
	d, set, out := newTestDriver(t, 1, 0)
	out.err = errors.New("unplugged")
	set.NormalTracks()[0].SetMute(true)
	d.Tick()
	if len(out.sent) == 0 {
		t.Error("no sends attempted")
	}
}

func TestClose(t *testing.T) {
	d, set, out := newTestDriver(t, 4, 1)
	out.sent = nil

	if err := d.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if !out.closed {
		t.Error("output not closed")
	}
	n := len(out.sent)
	if n < 2 {
		t.Fatalf("sent %d messages, want at least 2", n)
	}
	if !bytes.Equal(out.sent[n-2], midi.AllLEDsOff()) {
		t.Errorf("second to last message = % X, want all LEDs off", out.sent[n-2])
	}
	if !bytes.Equal(out.sent[n-1], midi.Goodbye(midi.AbletonPID)) {
		t.Errorf("last message = % X, want goodbye", out.sent[n-1])
	}
	for _, tr := range session.TrackList(set) {
		if live := set.Events().LiveForEntity(tr.ID()); live != 0 {
			t.Errorf("listeners on %s after close = %d", tr.Name(), live)
		}
	}
	if d.Snapshot().Connected {
		t.Error("snapshot still connected after close")
	}
}

func TestSetOutput(t *testing.T) {
	set := session.NewDemoSet(2, 0)
	d := New(set, nil, DefaultOptions())
	if d.Snapshot().Connected {
		t.Fatal("connected without an output")
	}

	out := &fakeOutput{}
	d.SetOutput(out)
	for i := 0; i < 5; i++ {
		d.Tick()
	}
	if out.index(midi.Welcome(midi.AbletonPID)) < 0 {
		t.Error("welcome not sent after attaching output")
	}
	if !d.Snapshot().Connected {
		t.Error("snapshot not connected")
	}
}

func TestSnapshot(t *testing.T) {
	d, set, _ := newTestDriver(t, 3, 1)
	set.NormalTracks()[1].SetArm(true)
	d.Tick()

	snap := d.Snapshot()
	if len(snap.Tracks) != 5 {
		t.Fatalf("tracks = %d, want 5", len(snap.Tracks))
	}
	if !snap.Tracks[1].Arm || !snap.Tracks[1].CanArm {
		t.Errorf("track 1 = %+v, want armed", snap.Tracks[1])
	}
	if snap.Tracks[3].Kind != session.KindReturn || snap.Tracks[4].Kind != session.KindMaster {
		t.Errorf("kinds = %v, %v", snap.Tracks[3].Kind, snap.Tracks[4].Kind)
	}
	if snap.Display[0].Name != "1-MIDI" {
		t.Errorf("display[0] = %q, want 1-MIDI", snap.Display[0].Name)
	}
	if snap.Display[5].Name != "" {
		t.Errorf("display[5] = %q, want empty", snap.Display[5].Name)
	}
	if !snap.ExclusiveArm || !snap.ExclusiveSolo {
		t.Error("exclusive flags not mirrored")
	}
}

func TestRunSerializesInput(t *testing.T) {
	d, set, _ := newTestDriver(t, 2, 0)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		d.Run(ctx)
		close(done)
	}()

	d.Deliver(gomidi.ControlChange(0, midi.Button1BaseCC, midi.Pressed))
	got := make(chan bool)
	d.Post(func() { got <- set.NormalTracks()[0].Mute() })

	select {
	case muted := <-got:
		if !muted {
			t.Error("posted job ran before the delivered message")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("posted job did not run")
	}

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
