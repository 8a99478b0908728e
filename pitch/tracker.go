// Package pitch tracks per-channel note state and resolves pitch bend
// messages into absolute pitches in semitones.
package pitch

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/conundrumer/vst-plugins/midi"
)

// Controller numbers used to select and set registered parameters.
const (
	ControllerRPNMSB       = 101
	ControllerRPNLSB       = 100
	ControllerDataEntryMSB = 6
	ControllerDataEntryLSB = 38
)

// Channels is the number of MIDI channels tracked.
const Channels = 16

// rpnPitchBendRange is the registered parameter selecting the bend range.
var rpnPitchBendRange = [2]uint8{0, 0}

// State is the note state of one channel.
type State int

const (
	// Off means no note is held.
	Off State = iota
	// On means a note is held; Status.Key holds it.
	On
	// PendingBend means a bend arrived while no note was held; Status.Bend
	// holds its offset until the next note on.
	PendingBend
)

func (s State) String() string {
	switch s {
	case Off:
		return "Off"
	case On:
		return "On"
	case PendingBend:
		return "PendingBend"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Status is the state of one channel together with its payload.
type Status struct {
	State State
	Key   uint8
	Bend  float32
}

func (s Status) String() string {
	switch s.State {
	case On:
		return fmt.Sprintf("On(%d)", s.Key)
	case PendingBend:
		return fmt.Sprintf("PendingBend(%g)", s.Bend)
	default:
		return s.State.String()
	}
}

// Tracker holds the note state of every channel and the pitch bend range
// shared by all of them. It is not safe for concurrent use.
type Tracker struct {
	selected  [2]uint8
	bendRange [2]uint8
	channels  [Channels]Status
	log       logrus.FieldLogger
}

// NewTracker returns a Tracker with every channel off, no registered
// parameter selected and a bend range of 2 semitones. A nil logger uses the
// logrus standard logger.
func NewTracker(log logrus.FieldLogger) *Tracker {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Tracker{
		selected:  [2]uint8{0x7F, 0x7F},
		bendRange: [2]uint8{2, 0},
		log:       log,
	}
}

// Process updates the tracker with m. Note messages change the state of
// their channel; RPN select and data entry controllers change the bend range.
// Everything else is ignored.
func (t *Tracker) Process(m midi.Message) {
	switch m := m.(type) {
	case midi.NoteOff:
		t.channels[m.Channel&0x0F] = Status{State: Off}
	case midi.NoteOn:
		t.channels[m.Channel&0x0F] = Status{State: On, Key: m.Key}
	case midi.ControlChange:
		t.controlChange(m.Controller, m.Value)
	}
}

func (t *Tracker) controlChange(controller, value uint8) {
	switch controller {
	case ControllerRPNMSB:
		t.selected[0] = value
	case ControllerRPNLSB:
		t.selected[1] = value
	case ControllerDataEntryMSB, ControllerDataEntryLSB:
		if t.selected != rpnPitchBendRange {
			t.log.WithField("rpn", t.selected).Info("unknown registered parameter")
			return
		}
		if controller == ControllerDataEntryMSB {
			t.bendRange[0] = value
		} else {
			t.bendRange[1] = value
		}
	}
}

// BendRange returns the current bend range in semitones.
func (t *Tracker) BendRange() float32 {
	return float32(uint16(t.bendRange[0])<<7|uint16(t.bendRange[1])) / 128
}

func (t *Tracker) bend(value uint16) float32 {
	return (float32(value)/16384*2 - 1) * t.BendRange()
}

// Pitch resolves a 14-bit pitch bend value on channel to an absolute pitch.
// If no note is held the bend is remembered as pending, replacing any earlier
// pending bend, and ok is false.
func (t *Tracker) Pitch(channel uint8, value uint16) (pitch float32, ok bool) {
	s := &t.channels[channel&0x0F]
	b := t.bend(value)
	if s.State == On {
		return float32(s.Key) + b, true
	}
	*s = Status{State: PendingBend, Bend: b}
	return 0, false
}

// PendingPitch returns key plus the pending bend of channel, if it has one.
func (t *Tracker) PendingPitch(channel, key uint8) (pitch float32, ok bool) {
	s := t.channels[channel&0x0F]
	if s.State != PendingBend {
		return 0, false
	}
	return float32(key) + s.Bend, true
}

// Key returns the key held on channel, or 0 if none is.
func (t *Tracker) Key(channel uint8) uint8 {
	s := t.channels[channel&0x0F]
	if s.State != On {
		return 0
	}
	return s.Key
}

// Status returns the state of channel.
func (t *Tracker) Status(channel uint8) Status {
	return t.channels[channel&0x0F]
}
