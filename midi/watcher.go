package midi

import (
	"context"
	"sync"
	"time"

	"go-slmkii/debug"
)

// DeviceEvent is emitted when the surface's ports appear or go away.
type DeviceEvent struct {
	Type DeviceEventType
	In   string
	Out  string
}

type DeviceEventType int

const (
	DeviceConnected DeviceEventType = iota
	DeviceDisconnected
)

func (t DeviceEventType) String() string {
	if t == DeviceConnected {
		return "connected"
	}
	return "disconnected"
}

// Watcher polls the system's MIDI ports for the surface (hot-plug).
type Watcher struct {
	inMatch  string
	outMatch string
	list     func() (ins, outs []string, err error)
	pollRate time.Duration
	events   chan DeviceEvent

	mu      sync.RWMutex
	present bool
	in, out string
}

// NewWatcher watches for an input and an output matching the given names.
func NewWatcher(inMatch, outMatch string) *Watcher {
	return &Watcher{
		inMatch:  inMatch,
		outMatch: outMatch,
		list:     portNames,
		pollRate: time.Second,
		events:   make(chan DeviceEvent, 16),
	}
}

func portNames() (ins, outs []string, err error) {
	ports, err := ListPorts(PortScanTimeout)
	if err != nil {
		return nil, nil, err
	}
	for _, p := range ports.Ins {
		ins = append(ins, p.String())
	}
	for _, p := range ports.Outs {
		outs = append(outs, p.String())
	}
	return ins, outs, nil
}

// Events returns the connect/disconnect events. It is closed when Run returns.
func (w *Watcher) Events() <-chan DeviceEvent {
	return w.events
}

// Present reports whether the surface was found by the last scan.
func (w *Watcher) Present() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.present
}

// Run polls until ctx is done (blocking - run in goroutine).
func (w *Watcher) Run(ctx context.Context) {
	ticker := time.NewTicker(w.pollRate)
	defer ticker.Stop()
	defer close(w.events)

	w.scan(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.scan(ctx)
		}
	}
}

// scan lists the ports once and emits an event if presence changed. The event
// is dropped if ctx ends while nobody reads it.
func (w *Watcher) scan(ctx context.Context) {
	ins, outs, err := w.list()
	if err != nil {
		// CoreMIDI hung; keep the last known state
		debug.Warn("port", "scan: %v", err)
		return
	}

	in := firstMatch(ins, w.inMatch)
	out := firstMatch(outs, w.outMatch)
	found := in != "" && out != ""

	w.mu.Lock()
	was := w.present
	w.present = found
	if found {
		w.in, w.out = in, out
	}
	last := DeviceEvent{In: w.in, Out: w.out}
	w.mu.Unlock()

	switch {
	case found && !was:
		last.Type = DeviceConnected
	case !found && was:
		last.Type = DeviceDisconnected
	default:
		return
	}
	debug.Log("port", "%s in=%q out=%q", last.Type, last.In, last.Out)
	select {
	case w.events <- last:
	case <-ctx.Done():
	}
}

func firstMatch(names []string, pattern string) string {
	for _, n := range names {
		if matches(n, pattern) {
			return n
		}
	}
	return ""
}
