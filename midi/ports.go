package midi

import (
	"strings"
	"time"

	"github.com/Southclaws/fault"
	"github.com/Southclaws/fault/fmsg"
	"github.com/Southclaws/fault/ftag"
	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv" // Register MIDI driver
)

// PortScanTimeout bounds port enumeration (CoreMIDI can hang).
const PortScanTimeout = 3 * time.Second

// Ports is a snapshot of the system's MIDI ports.
type Ports struct {
	Ins  []drivers.In
	Outs []drivers.Out
}

// ListPorts enumerates MIDI ports, giving up after timeout.
func ListPorts(timeout time.Duration) (Ports, error) {
	ch := make(chan Ports, 1)
	go func() {
		ch <- Ports{Ins: gomidi.GetInPorts(), Outs: gomidi.GetOutPorts()}
	}()

	select {
	case p := <-ch:
		return p, nil
	case <-time.After(timeout):
		// User needs to run: sudo killall coreaudiod midiserver
		return Ports{}, fault.New("midi port scan timed out", ftag.With(ftag.Internal))
	}
}

// FindIn returns the first input whose name contains match (case-insensitive).
func (p Ports) FindIn(match string) (drivers.In, error) {
	for _, in := range p.Ins {
		if matches(in.String(), match) {
			return in, nil
		}
	}
	return nil, fault.New("no input port matching "+match, ftag.With(ftag.NotFound))
}

// FindOut returns the first output whose name contains match (case-insensitive).
func (p Ports) FindOut(match string) (drivers.Out, error) {
	for _, out := range p.Outs {
		if matches(out.String(), match) {
			return out, nil
		}
	}
	return nil, fault.New("no output port matching "+match, ftag.With(ftag.NotFound))
}

func matches(name, pattern string) bool {
	if pattern == "" {
		return false
	}
	return strings.Contains(strings.ToLower(name), strings.ToLower(pattern))
}

// CloseDriver releases the underlying MIDI driver.
func CloseDriver() {
	gomidi.CloseDriver()
}

func wrapPortErr(err error, what string) error {
	return fault.Wrap(err, fmsg.With(what))
}
