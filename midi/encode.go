package midi

import (
	"fmt"

	gomidi "gitlab.com/gomidi/midi/v2"
)

// Encode returns the raw bytes of m. Channel messages are built with the
// gomidi constructors; system messages are written out as stored.
func Encode(m Message) []byte {
	switch m := m.(type) {
	case NoteOff:
		return gomidi.NoteOffVelocity(m.Channel, m.Key, m.Velocity).Bytes()
	case NoteOn:
		return gomidi.NoteOn(m.Channel, m.Key, m.Velocity).Bytes()
	case KeyPressure:
		return gomidi.PolyAfterTouch(m.Channel, m.Key, m.Pressure).Bytes()
	case ControlChange:
		return gomidi.ControlChange(m.Channel, m.Controller, m.Value).Bytes()
	case ChannelMode:
		return gomidi.ControlChange(m.Channel, m.Controller, m.Value).Bytes()
	case ProgramChange:
		return gomidi.ProgramChange(m.Channel, m.Program).Bytes()
	case ChannelPressure:
		return gomidi.AfterTouch(m.Channel, m.Pressure).Bytes()
	case PitchBend:
		return gomidi.Pitchbend(m.Channel, int16(m.Value)-0x2000).Bytes()
	case SysEx:
		b := make([]byte, 0, 2+len(m.Data))
		b = append(b, 0xF0, m.ID)
		return append(b, m.Data...)
	case SysCommon:
		n := dataLen(m.Status)
		if n < 0 {
			n = 0
		}
		return append([]byte{m.Status}, m.Data[:n]...)
	case SysRealTime:
		return []byte{m.Status}
	default:
		panic(fmt.Sprintf("midi: unknown message type %T", m))
	}
}
