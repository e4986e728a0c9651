package midi

import (
	"sync"

	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"

	"go-slmkii/debug"
)

// Port is an opened pair of SL MkII script ports. It is owned by whoever
// opened it and must be closed by that owner.
type Port struct {
	inPort   drivers.In
	outPort  drivers.Out
	send     func(msg gomidi.Message) error
	stopFunc func()

	mu     sync.Mutex
	closed bool
}

// Open opens the first input and output matching the given names. recv is
// called on gomidi's listener goroutine for every inbound message, sysex
// included, so it must hand the message off rather than act on it.
func Open(ports Ports, inMatch, outMatch string, recv func(msg gomidi.Message)) (*Port, error) {
	outPort, err := ports.FindOut(outMatch)
	if err != nil {
		return nil, err
	}
	inPort, err := ports.FindIn(inMatch)
	if err != nil {
		return nil, err
	}

	p := &Port{inPort: inPort, outPort: outPort}

	send, err := gomidi.SendTo(outPort)
	if err != nil {
		return nil, wrapPortErr(err, "open output")
	}
	p.send = send

	if recv != nil {
		stop, err := gomidi.ListenTo(inPort, func(msg gomidi.Message, timestampms int32) {
			recv(msg)
		}, gomidi.UseSysEx())
		if err != nil {
			inPort.Close()
			outPort.Close()
			return nil, wrapPortErr(err, "open input")
		}
		p.stopFunc = stop
	}

	debug.Log("port", "opened in=%q out=%q", inPort.String(), outPort.String())
	return p, nil
}

// Name describes the opened ports.
func (p *Port) Name() string {
	if p.outPort == nil {
		return ""
	}
	return p.outPort.String()
}

// Send writes one message to the device. Sends after Close are dropped.
func (p *Port) Send(msg gomidi.Message) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed || p.send == nil {
		return nil
	}
	return p.send(msg)
}

// Close stops listening and releases both ports.
func (p *Port) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	p.mu.Unlock()

	if p.stopFunc != nil {
		p.stopFunc()
	}
	var err error
	if p.inPort != nil {
		if cerr := p.inPort.Close(); cerr != nil {
			err = wrapPortErr(cerr, "close input")
		}
	}
	if p.outPort != nil {
		if cerr := p.outPort.Close(); cerr != nil && err == nil {
			err = wrapPortErr(cerr, "close output")
		}
	}
	return err
}
