// Package midimap holds the hardware-to-parameter bindings of a control
// surface: which CCs drive mixer parameters directly and which are forwarded
// to the surface's own handlers.
package midimap

import (
	"go-slmkii/session"
)

// Mode says how a CC value reaches its parameter.
type Mode int

const (
	// Absolute maps 0..127 linearly onto the parameter range.
	Absolute Mode = iota
	// RelativeSignedBit treats bit 6 as the sign and bits 0-5 as the step
	// count of an endless encoder.
	RelativeSignedBit
)

// FeedbackCurve maps a parameter position (0..127) onto the 11 LEDs of an
// encoder ring.
var FeedbackCurve [128]uint8

func init() {
	for i := range FeedbackCurve {
		FeedbackCurve[i] = uint8(1.5 + float64(i)/127.0*10.0)
	}
}

// FeedbackRule sends the parameter position back to the device.
type FeedbackRule struct {
	CC       uint8
	Channel  uint8
	DelayMS  int
	ValueMap [128]uint8
}

// Rule binds one CC to a parameter.
type Rule struct {
	Mode      Mode
	Parameter session.Parameter
	Feedback  *FeedbackRule
}

// Feedback is one outbound CC produced by a mapping.
type Feedback struct {
	Channel uint8
	CC      uint8
	Value   uint8
}

// Map is a complete set of bindings. A new Map is built every time the
// surface declares its bindings stale.
type Map struct {
	channel uint8
	rules   map[uint8]Rule
	ccs     map[uint8]bool
	notes   map[uint8]bool
}

// New returns an empty map for a MIDI channel.
func New(channel uint8) *Map {
	return &Map{
		channel: channel,
		rules:   make(map[uint8]Rule),
		ccs:     make(map[uint8]bool),
		notes:   make(map[uint8]bool),
	}
}

// Channel returns the channel the map listens on.
func (m *Map) Channel() uint8 { return m.channel }

// MapCC binds cc to p.
func (m *Map) MapCC(cc uint8, p session.Parameter, mode Mode) {
	delete(m.ccs, cc)
	m.rules[cc] = Rule{Mode: mode, Parameter: p}
}

// MapCCWithFeedback binds cc to p and reports p's position through fb.
func (m *Map) MapCCWithFeedback(cc uint8, p session.Parameter, mode Mode, fb FeedbackRule) {
	delete(m.ccs, cc)
	m.rules[cc] = Rule{Mode: mode, Parameter: p, Feedback: &fb}
}

// ForwardCC routes cc to the surface's handlers.
func (m *Map) ForwardCC(cc uint8) {
	if _, mapped := m.rules[cc]; mapped {
		return
	}
	m.ccs[cc] = true
}

// ForwardNote routes note to the surface's handlers.
func (m *Map) ForwardNote(note uint8) {
	m.notes[note] = true
}

// Rule returns the parameter binding of cc.
func (m *Map) Rule(cc uint8) (Rule, bool) {
	r, ok := m.rules[cc]
	return r, ok
}

// IsForwarded reports whether cc goes to the surface's handlers.
func (m *Map) IsForwarded(cc uint8) bool { return m.ccs[cc] }

// IsNoteForwarded reports whether note goes to the surface's handlers.
func (m *Map) IsNoteForwarded(note uint8) bool { return m.notes[note] }

// Len returns the number of parameter bindings.
func (m *Map) Len() int { return len(m.rules) }

// Apply moves the parameter bound to cc. It reports false when cc has no
// parameter binding. The returned feedback, if any, should be sent to the
// device.
func (m *Map) Apply(cc, value uint8) (*Feedback, bool) {
	r, ok := m.rules[cc]
	if !ok || r.Parameter == nil {
		return nil, false
	}

	p := r.Parameter
	span := p.Max() - p.Min()
	switch r.Mode {
	case Absolute:
		p.SetValue(p.Min() + float64(value&0x7F)/127.0*span)
	case RelativeSignedBit:
		steps := float64(value & 0x3F)
		if value&0x40 != 0 {
			steps = -steps
		}
		p.SetValue(p.Value() + steps*span/127.0)
	}

	if r.Feedback == nil {
		return nil, true
	}
	fb := FeedbackFor(*r.Feedback, p)
	return &fb, true
}

// Feedbacks returns the current feedback of every binding that has one.
func (m *Map) Feedbacks() []Feedback {
	var out []Feedback
	for cc := 0; cc < 128; cc++ {
		r, ok := m.rules[uint8(cc)]
		if !ok || r.Feedback == nil {
			continue
		}
		out = append(out, FeedbackFor(*r.Feedback, r.Parameter))
	}
	return out
}

// FeedbackFor renders p's position through rule.
func FeedbackFor(rule FeedbackRule, p session.Parameter) Feedback {
	return Feedback{
		Channel: rule.Channel,
		CC:      rule.CC,
		Value:   rule.ValueMap[Position(p)],
	}
}

// Position returns p's value scaled to 0..127.
func Position(p session.Parameter) int {
	span := p.Max() - p.Min()
	if span <= 0 {
		return 0
	}
	pos := int((p.Value() - p.Min()) / span * 127.0)
	if pos < 0 {
		pos = 0
	}
	if pos > 127 {
		pos = 127
	}
	return pos
}
