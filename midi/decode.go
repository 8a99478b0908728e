package midi

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrInvalidStatus is returned when the first byte is not a status byte.
	ErrInvalidStatus = errors.New("invalid status byte")
	// ErrInvalidDataByte is returned when a data byte has its high bit set
	// where the message kind forbids it.
	ErrInvalidDataByte = errors.New("invalid data byte")
	// ErrTruncated is returned when the buffer is shorter than the message
	// kind its status byte announces.
	ErrTruncated = errors.New("truncated message")
)

// DecodeError describes a buffer that could not be decoded.
type DecodeError struct {
	Data []byte
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("midi: decode % x: %v", e.Data, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

func decodeError(data []byte, err error) *DecodeError {
	d := make([]byte, len(data))
	copy(d, data)
	return &DecodeError{Data: d, Err: err}
}

// dataLen is the number of data bytes following the status byte, or -1 for
// SysEx which runs to the end of the buffer.
func dataLen(status byte) int {
	switch status & 0xF0 {
	case 0xC0, 0xD0:
		return 1
	case 0x80, 0x90, 0xA0, 0xB0, 0xE0:
		return 2
	}
	switch status {
	case 0xF0:
		return -1
	case 0xF1, 0xF3:
		return 1
	case 0xF2:
		return 2
	}
	return 0
}

// Decode converts one raw MIDI event into a Message. Running status is not
// supported: data must start with a status byte.
func Decode(data []byte) (Message, error) {
	if len(data) == 0 {
		return nil, decodeError(data, ErrTruncated)
	}

	status := data[0]
	if status < 0x80 {
		return nil, decodeError(data, ErrInvalidStatus)
	}

	n := dataLen(status)
	if n < 0 {
		n = 1
	}
	if len(data) < 1+n {
		return nil, decodeError(data, ErrTruncated)
	}
	// SysEx payload bytes are passed through unchecked.
	for _, b := range data[1 : 1+n] {
		if b > 0x7F {
			return nil, decodeError(data, ErrInvalidDataByte)
		}
	}

	ch := status & 0x0F
	switch status & 0xF0 {
	case 0x80:
		return NoteOff{Channel: ch, Key: data[1], Velocity: data[2]}, nil
	case 0x90:
		return NoteOn{Channel: ch, Key: data[1], Velocity: data[2]}, nil
	case 0xA0:
		return KeyPressure{Channel: ch, Key: data[1], Pressure: data[2]}, nil
	case 0xB0:
		if cc := data[1]; cc < 120 {
			return ControlChange{Channel: ch, Controller: cc, Value: data[2]}, nil
		}
		return ChannelMode{Channel: ch, Controller: data[1], Value: data[2]}, nil
	case 0xC0:
		return ProgramChange{Channel: ch, Program: data[1]}, nil
	case 0xD0:
		return ChannelPressure{Channel: ch, Pressure: data[1]}, nil
	case 0xE0:
		return PitchBend{Channel: ch, Value: uint16(data[2])<<7 | uint16(data[1])}, nil
	}

	switch {
	case status == 0xF0:
		return SysEx{ID: data[1], Data: data[2:]}, nil
	case status < 0xF8:
		var m SysCommon
		m.Status = status
		copy(m.Data[:], data[1:1+n])
		return m, nil
	default:
		return SysRealTime{Status: status}, nil
	}
}
