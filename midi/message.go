// Package midi decodes raw MIDI event bytes into structured messages.
package midi

import "fmt"

// Message is one decoded MIDI event. The set of implementations is closed:
// NoteOff, NoteOn, KeyPressure, ControlChange, ChannelMode, ProgramChange,
// ChannelPressure, PitchBend, SysEx, SysCommon and SysRealTime.
type Message interface {
	fmt.Stringer
	message()
}

type NoteOff struct {
	Channel, Key, Velocity uint8
}

type NoteOn struct {
	Channel, Key, Velocity uint8
}

// KeyPressure is polyphonic aftertouch.
type KeyPressure struct {
	Channel, Key, Pressure uint8
}

// ControlChange carries controller numbers 0-119.
type ControlChange struct {
	Channel, Controller, Value uint8
}

// ChannelMode carries controller numbers 120-127.
type ChannelMode struct {
	Channel, Controller, Value uint8
}

type ProgramChange struct {
	Channel, Program uint8
}

// ChannelPressure is channel aftertouch.
type ChannelPressure struct {
	Channel, Pressure uint8
}

// PitchBend holds the 14-bit bend value; 0x2000 is the centre.
type PitchBend struct {
	Channel uint8
	Value   uint16
}

// SysEx holds a system exclusive message. Data is everything after the ID
// byte, up to the end of the buffer it was decoded from.
type SysEx struct {
	ID   uint8
	Data []byte
}

// SysCommon is a system common message (0xF1-0xF7). Unused data bytes are 0.
type SysCommon struct {
	Status uint8
	Data   [2]uint8
}

// SysRealTime is a status-only real-time message (0xF8-0xFF).
type SysRealTime struct {
	Status uint8
}

func (NoteOff) message()         {}
func (NoteOn) message()          {}
func (KeyPressure) message()     {}
func (ControlChange) message()   {}
func (ChannelMode) message()     {}
func (ProgramChange) message()   {}
func (ChannelPressure) message() {}
func (PitchBend) message()       {}
func (SysEx) message()           {}
func (SysCommon) message()       {}
func (SysRealTime) message()     {}

func (m NoteOff) String() string {
	return fmt.Sprintf("NoteOff{ch:%d key:%d vel:%d}", m.Channel, m.Key, m.Velocity)
}

func (m NoteOn) String() string {
	return fmt.Sprintf("NoteOn{ch:%d key:%d vel:%d}", m.Channel, m.Key, m.Velocity)
}

func (m KeyPressure) String() string {
	return fmt.Sprintf("KeyPressure{ch:%d key:%d pressure:%d}", m.Channel, m.Key, m.Pressure)
}

func (m ControlChange) String() string {
	return fmt.Sprintf("ControlChange{ch:%d cc:%d value:%d}", m.Channel, m.Controller, m.Value)
}

func (m ChannelMode) String() string {
	return fmt.Sprintf("ChannelMode{ch:%d cc:%d value:%d}", m.Channel, m.Controller, m.Value)
}

func (m ProgramChange) String() string {
	return fmt.Sprintf("ProgramChange{ch:%d program:%d}", m.Channel, m.Program)
}

func (m ChannelPressure) String() string {
	return fmt.Sprintf("ChannelPressure{ch:%d pressure:%d}", m.Channel, m.Pressure)
}

func (m PitchBend) String() string {
	return fmt.Sprintf("PitchBend{ch:%d value:%d}", m.Channel, m.Value)
}

func (m SysEx) String() string {
	return fmt.Sprintf("SysEx{id:0x%02x % x}", m.ID, m.Data)
}

func (m SysCommon) String() string {
	return fmt.Sprintf("SysCommon{status:0x%02x data:%d,%d}", m.Status, m.Data[0], m.Data[1])
}

func (m SysRealTime) String() string {
	return fmt.Sprintf("SysRealTime{status:0x%02x}", m.Status)
}

// Channel returns the channel of a channel voice or mode message. ok is false
// for system messages.
func Channel(m Message) (channel uint8, ok bool) {
	switch m := m.(type) {
	case NoteOff:
		return m.Channel, true
	case NoteOn:
		return m.Channel, true
	case KeyPressure:
		return m.Channel, true
	case ControlChange:
		return m.Channel, true
	case ChannelMode:
		return m.Channel, true
	case ProgramChange:
		return m.Channel, true
	case ChannelPressure:
		return m.Channel, true
	case PitchBend:
		return m.Channel, true
	case SysEx, SysCommon, SysRealTime:
		return 0, false
	default:
		panic(fmt.Sprintf("midi: unknown message type %T", m))
	}
}
