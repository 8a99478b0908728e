// Package plugin translates batches of MIDI events into OSC messages. It
// plays the role of the audio plugin: a host hands it events, the sample
// rate and parameter changes, and it pushes the resulting OSC messages to a
// Sender, flushing once per batch.
package plugin

import (
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/conundrumer/vst-plugins/address"
	"github.com/conundrumer/vst-plugins/config"
	"github.com/conundrumer/vst-plugins/midi"
	"github.com/conundrumer/vst-plugins/osc"
	"github.com/conundrumer/vst-plugins/pitch"
)

// Parameter indexes.
const (
	ParamEntry = 0
	ParamPhase = 1
	// ParamGeneric is the first of the generic parameters.
	ParamGeneric = 2

	NumGenericParams = 8
	NumParams        = ParamGeneric + NumGenericParams
)

// Controllers sent as per-voice values.
const (
	ControllerTimbre = 74
	ControllerPan    = 10
)

// Sender queues OSC messages and sends them in one go. *osc.Sender
// implements it.
type Sender interface {
	Push(address string, arg interface{}, tt osc.Timetag)
	Flush() error
}

type discardSender struct{}

func (discardSender) Push(string, interface{}, osc.Timetag) {}
func (discardSender) Flush() error                          { return nil }

// Event is one MIDI event of a batch. DeltaFrames is its offset in samples
// from the start of the block.
type Event struct {
	Data        []byte
	DeltaFrames int32
}

// Info describes the plugin to a host.
type Info struct {
	Name       string
	Vendor     string
	UniqueID   int32
	Parameters int
}

// Option configures a Plugin.
type Option func(*Plugin)

// WithLogger sets the logger. The default is the logrus standard logger.
func WithLogger(log logrus.FieldLogger) Option {
	return func(p *Plugin) { p.log = log }
}

// WithClock sets the function that returns the time of a batch.
func WithClock(now func() time.Time) Option {
	return func(p *Plugin) { p.now = now }
}

// Plugin is the translator. It is owned by one caller at a time.
type Plugin struct {
	sender  Sender
	entries []config.Entry
	tracker *pitch.Tracker
	log     logrus.FieldLogger
	now     func() time.Time

	sampleRate float32
	blockSize  int
	entryIndex int
	phase      float32
	params     [NumGenericParams]float32
}

// New returns a Plugin sending to sender. A nil sender discards everything,
// which lets the plugin run when no port could be bound.
func New(entries []config.Entry, sender Sender, opts ...Option) *Plugin {
	p := &Plugin{
		sender:  sender,
		entries: entries,
		log:     logrus.StandardLogger(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}

	if s, ok := p.sender.(*osc.Sender); ok && s == nil {
		p.sender = nil
	}
	if p.sender == nil {
		p.sender = discardSender{}
	}
	if s, ok := p.sender.(interface{ ID() int }); ok {
		p.log = p.log.WithField("sender", s.ID())
	}
	p.tracker = pitch.NewTracker(p.log)

	return p
}

// Info returns the plugin description.
func (p *Plugin) Info() Info {
	return Info{Name: "Oscify", Vendor: "delu", UniqueID: 9002, Parameters: NumParams}
}

// SetSampleRate sets the sample rate used to turn event offsets into time.
func (p *Plugin) SetSampleRate(hz float32) { p.sampleRate = hz }

// SetBlockSize sets the number of samples per processing block.
func (p *Plugin) SetBlockSize(frames int) { p.blockSize = frames }

// SampleRate returns the sample rate.
func (p *Plugin) SampleRate() float32 { return p.sampleRate }

// BlockSize returns the block size.
func (p *Plugin) BlockSize() int { return p.blockSize }

// Tracker returns the note tracker.
func (p *Plugin) Tracker() *pitch.Tracker { return p.tracker }

func (p *Plugin) resolver() address.Resolver {
	return address.NewResolver(p.entries, p.entryIndex)
}

// ProcessEvents translates one batch of events and flushes the sender once.
// Events that fail to decode are logged and skipped.
func (p *Plugin) ProcessEvents(events []Event) {
	now := p.now()
	p.log.Debugf("received %d events", len(events))

	for _, ev := range events {
		msg, err := midi.Decode(ev.Data)
		if err != nil {
			p.log.WithError(err).Warn("invalid midi")
			continue
		}
		p.log.WithField("delta", ev.DeltaFrames).Debug(msg)

		tt := Timestamp(now, offsetNanos(ev.DeltaFrames, p.sampleRate))
		p.processMessage(msg, tt)
	}

	p.flush()
}

func (p *Plugin) flush() {
	if err := p.sender.Flush(); err != nil {
		p.log.WithError(err).Error("could not flush")
	}
}

func u7ToFloat(x uint8) float32 {
	return float32(x) / 0x80
}

func (p *Plugin) processMessage(msg midi.Message, tt osc.Timetag) {
	switch m := msg.(type) {
	case midi.NoteOff:
		p.sendNote(false, m.Channel, m.Key, u7ToFloat(m.Velocity), tt)

	case midi.NoteOn:
		value := float32(m.Key)
		if pending, ok := p.tracker.PendingPitch(m.Channel, m.Key); ok {
			value = pending
		}
		p.sendChannel(address.Pitch, m.Channel, m.Key, value, tt)
		p.sendNote(true, m.Channel, m.Key, u7ToFloat(m.Velocity), tt)

	case midi.PitchBend:
		if value, ok := p.tracker.Pitch(m.Channel, m.Value); ok {
			p.sendChannel(address.Pitch, m.Channel, p.tracker.Key(m.Channel), value, tt)
		}

	case midi.ChannelPressure:
		p.sendChannel(address.Pressure, m.Channel, p.tracker.Key(m.Channel), u7ToFloat(m.Pressure), tt)

	case midi.ControlChange:
		switch m.Controller {
		case ControllerTimbre:
			p.sendChannel(address.Timbre, m.Channel, p.tracker.Key(m.Channel), u7ToFloat(m.Value), tt)
		case ControllerPan:
			p.sendChannel(address.Pan, m.Channel, p.tracker.Key(m.Channel), u7ToFloat(m.Value), tt)
		}

	case midi.KeyPressure, midi.ChannelMode, midi.ProgramChange,
		midi.SysEx, midi.SysCommon, midi.SysRealTime:

	default:
		panic(fmt.Sprintf("plugin: unknown message type %T", msg))
	}

	p.tracker.Process(msg)
}

func (p *Plugin) sendNote(on bool, channel, key uint8, velocity float32, tt osc.Timetag) {
	r := p.resolver()
	addr, ok := r.Note(channel, key, address.NoteOn)
	if !ok {
		return
	}
	p.sender.Push(addr, on, tt)
	if !on {
		return
	}

	addr, _ = r.Note(channel, key, address.NoteKey)
	p.sender.Push(addr, int32(key), tt)
	addr, _ = r.Note(channel, key, address.NoteVelocity)
	p.sender.Push(addr, velocity, tt)
	addr, _ = r.Note(channel, key, address.NotePhase)
	p.sender.Push(addr, p.phase, tt)
}

func (p *Plugin) sendChannel(t address.ChannelType, channel, key uint8, value float32, tt osc.Timetag) {
	addr, ok := p.resolver().Channel(t, channel, key)
	if !ok {
		return
	}
	p.sender.Push(addr, value, tt)
}

// SetParameter sets a host parameter. Generic parameters are sent and
// flushed immediately with a zero time tag.
func (p *Plugin) SetParameter(index int, value float32) {
	switch {
	case index == ParamEntry:
		p.entryIndex = int(math.Round(float64(value) * 100))
		if p.entryIndex < 0 {
			p.entryIndex = 0
		}
	case index == ParamPhase:
		p.phase = value
	case index >= ParamGeneric && index < NumParams:
		i := index - ParamGeneric
		p.params[i] = value
		p.sender.Push(p.resolver().Param(i), value, osc.NewTimetag(0, 0))
		p.flush()
	}
}

// Parameter returns the value of a host parameter.
func (p *Plugin) Parameter(index int) float32 {
	switch {
	case index == ParamEntry:
		return float32(p.entryIndex) / 100
	case index == ParamPhase:
		return p.phase
	case index >= ParamGeneric && index < NumParams:
		return p.params[index-ParamGeneric]
	}
	return 0
}

// ParameterName returns the label of a host parameter. Generic parameters
// take their names from the selected entry.
func (p *Plugin) ParameterName(index int) string {
	switch {
	case index == ParamEntry:
		return "Entry"
	case index == ParamPhase:
		return "Phase"
	case index >= ParamGeneric && index < NumParams:
		i := index - ParamGeneric
		if name, ok := p.resolver().Entry().ParamName(i); ok {
			return name
		}
		return "Param " + strconv.Itoa(i)
	}
	return ""
}

// ParameterText returns the display text of a host parameter.
func (p *Plugin) ParameterText(index int) string {
	switch {
	case index == ParamEntry:
		if e := p.resolver().Entry(); e != nil {
			return fmt.Sprintf("%d: %s", p.entryIndex, e.Name)
		}
		return fmt.Sprintf("%d: undefined", p.entryIndex)
	case index == ParamPhase:
		return fmt.Sprintf("%.0f˚", 360*p.phase)
	case index >= ParamGeneric && index < NumParams:
		return strconv.FormatFloat(float64(p.params[index-ParamGeneric]), 'f', -1, 32)
	}
	return ""
}
