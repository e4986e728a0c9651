package midi

import (
	"context"
	"errors"
	"testing"
	"time"
)

type fakePorts struct {
	ins, outs []string
	err       error
}

func newTestWatcher(f *fakePorts) *Watcher {
	w := NewWatcher("SL MkII", "sl mkii")
	w.list = func() ([]string, []string, error) { return f.ins, f.outs, f.err }
	return w
}

func drain(w *Watcher) []DeviceEvent {
	var out []DeviceEvent
	for {
		select {
		case ev := <-w.events:
			out = append(out, ev)
		default:
			return out
		}
	}
}

func TestWatcherConnectDisconnect(t *testing.T) {
	f := &fakePorts{ins: []string{"IAC Bus 1"}, outs: []string{"IAC Bus 1"}}
	w := newTestWatcher(f)
	ctx := context.Background()

	w.scan(ctx)
	if evs := drain(w); len(evs) != 0 {
		t.Fatalf("events without device = %v", evs)
	}

	f.ins = append(f.ins, "SL MkII Port 2")
	w.scan(ctx)
	if evs := drain(w); len(evs) != 0 {
		t.Fatalf("events with only the input = %v", evs)
	}

	f.outs = append(f.outs, "SL MkII Port 2")
	w.scan(ctx)
	evs := drain(w)
	if len(evs) != 1 || evs[0].Type != DeviceConnected {
		t.Fatalf("events = %v, want one connect", evs)
	}
	if evs[0].In != "SL MkII Port 2" || evs[0].Out != "SL MkII Port 2" {
		t.Errorf("event ports = %q/%q", evs[0].In, evs[0].Out)
	}
	if !w.Present() {
		t.Error("Present() = false after connect")
	}

	w.scan(ctx)
	if evs := drain(w); len(evs) != 0 {
		t.Errorf("repeated scan emitted %v", evs)
	}

	f.err = errors.New("timeout")
	f.ins, f.outs = nil, nil
	w.scan(ctx)
	if evs := drain(w); len(evs) != 0 || !w.Present() {
		t.Errorf("failed scan changed state: %v present=%v", evs, w.Present())
	}

	f.err = nil
	w.scan(ctx)
	evs = drain(w)
	if len(evs) != 1 || evs[0].Type != DeviceDisconnected {
		t.Fatalf("events = %v, want one disconnect", evs)
	}
	if evs[0].Out != "SL MkII Port 2" {
		t.Errorf("disconnect out = %q", evs[0].Out)
	}
}

func TestWatcherRunStopsWithUnreadEvents(t *testing.T) {
	f := &fakePorts{}
	w := newTestWatcher(f)
	w.pollRate = time.Millisecond
	w.events = make(chan DeviceEvent)

	// flapping device; nobody reads the events
	w.list = func() ([]string, []string, error) {
		if w.Present() {
			return nil, nil, nil
		}
		return []string{"SL MkII"}, []string{"SL MkII"}, nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		w.Run(ctx)
		close(done)
	}()

	time.Sleep(20 * time.Millisecond)
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run() did not return after cancel")
	}
	if _, ok := <-w.Events(); ok {
		t.Error("Events() not closed after Run returned")
	}
}
