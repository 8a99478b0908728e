package osc

import (
	"encoding/binary"
	"fmt"
	"math"
	"strings"

	"github.com/pkg/errors"
)

// Message represents a single OSC message. An OSC message consists of an OSC
// address pattern and zero or more arguments.
type Message struct {
	Address   string
	Arguments []interface{}
}

// Verify that Messages implements the Packet interface.
var _ Packet = (*Message)(nil)

// NewMessage returns a new Message. The address parameter is the OSC address.
func NewMessage(addr string, args ...interface{}) *Message {
	return &Message{Address: addr, Arguments: args}
}

func (m *Message) Clear() {
	m.Address = ""
	m.Arguments = m.Arguments[:0]
}

// Append appends the given arguments to the arguments list. Nothing is
// appended if any of the arguments has an unsupported type.
func (m *Message) Append(args ...interface{}) error {
	for _, a := range args {
		if ToTypeTag(a) == TypeInvalid {
			return errors.Errorf("Append: unsupported type: %T", a)
		}
	}
	m.Arguments = append(m.Arguments, args...)
	return nil
}

// Match returns true, if the OSC address pattern of the OSC Message matches the given
// address. The match is case sensitive!
func (m *Message) Match(addr string) bool {
	regexp, err := getRegEx(m.Address)
	if err != nil {
		return false
	}
	return regexp.MatchString(addr)
}

// TypeTags returns the type tag string.
func (m *Message) TypeTags() (string, error) {
	if m == nil {
		return "", errors.New("TypeTags: message is nil")
	}

	return GetTypeTags(m.Arguments)
}

// String implements the fmt.Stringer interface.
func (m *Message) String() string {
	if m == nil {
		return ""
	}

	var sb strings.Builder
	sb.WriteString(m.Address)

	tags, err := m.TypeTags()
	if err != nil || len(m.Arguments) == 0 {
		return sb.String()
	}

	sb.WriteByte(' ')
	sb.WriteString(tags)

	for _, arg := range m.Arguments {
		switch arg := arg.(type) {
		case bool, int32, float32, string:
			fmt.Fprintf(&sb, " %v", arg)
		case nil:
			sb.WriteString(" Nil")
		case []byte:
			fmt.Fprintf(&sb, " blob(%d)", len(arg))
		case Timetag:
			fmt.Fprintf(&sb, " %d", arg.TimeTag())
		}
	}

	return sb.String()
}

// MarshalBinary implements the encoding.BinaryMarshaler interface. The result
// has the following format:
// 1. OSC Address Pattern
// 2. OSC Type Tag String
// 3. OSC Arguments
func (m *Message) MarshalBinary() ([]byte, error) {
	return m.appendBinary(make([]byte, 0, 64))
}

func (m *Message) appendBinary(b []byte) ([]byte, error) {
	typetags, err := m.TypeTags()
	if err != nil {
		return nil, errors.Wrapf(err, "MarshalBinary %s", m.Address)
	}

	start := len(b)
	b = appendPaddedString(b, m.Address)
	b = appendPaddedString(b, typetags)

	for _, arg := range m.Arguments {
		switch t := arg.(type) {
		case bool, nil:
			// encoded in the type tag only
		case int32:
			b = binary.BigEndian.AppendUint32(b, uint32(t))
		case float32:
			b = binary.BigEndian.AppendUint32(b, math.Float32bits(t))
		case string:
			b = appendPaddedString(b, t)
		case []byte:
			b = appendBlob(b, t)
		case Timetag:
			b = binary.BigEndian.AppendUint64(b, uint64(t))
		}
	}

	if len(b)-start > MaxPacketSize {
		return nil, errors.Errorf("MarshalBinary: packet too large: %d", len(b)-start)
	}

	return b, nil
}

// NewMessageFromData returns a new OSC message created from the parsed data.
func NewMessageFromData(data []byte) (*Message, error) {
	m := &Message{}
	if err := m.UnmarshalBinary(data); err != nil {
		return nil, err
	}
	return m, nil
}

func newMessageFromData(data []byte) (*Message, error) {
	m := &Message{}
	if err := m.unmarshalBinary(data); err != nil {
		return nil, err
	}
	return m, nil
}

// UnmarshalBinary implements the encoding.BinaryUnmarshaler interface.
func (m *Message) UnmarshalBinary(d []byte) error {
	data := make([]byte, len(d))
	copy(data, d)

	return m.unmarshalBinary(data)
}

func (m *Message) unmarshalBinary(data []byte) error {
	if len(data) == 0 || data[0] != '/' {
		return errors.New("UnmarshalBinary: data not a valid OSC message")
	}

	if (len(data) % bit32Size) != 0 {
		return errors.New("UnmarshalBinary: data isn't padded properly")
	}

	addr, n, err := parsePaddedString(data)
	if err != nil {
		return errors.Wrap(err, "UnmarshalBinary")
	}

	m.Address = addr
	if err = m.parseArguments(data[n:]); err != nil {
		return errors.Wrap(err, "UnmarshalBinary")
	}

	return nil
}

// parseArguments reads the type tag string and the arguments from data.
func (m *Message) parseArguments(data []byte) error {
	m.Arguments = nil
	if len(data) == 0 {
		return nil
	}

	typetags, n, err := parsePaddedString(data)
	if err != nil {
		return errors.Wrap(err, "parseArguments")
	}
	data = data[n:]

	if len(typetags) == 0 {
		return nil
	}

	// If the typetag doesn't start with ',', it's not valid
	if typetags[0] != ',' {
		return errors.Errorf("unsupported typetag string: %s", typetags)
	}
	if len(typetags) == 1 {
		return nil
	}

	m.Arguments = make([]interface{}, 0, len(typetags)-1)

	for _, c := range []byte(typetags[1:]) {
		switch TypeTag(c) {
		default:
			return errors.Errorf("unsupported typetag: %c", c)

		case TypeInt32:
			if len(data) < bit32Size {
				return errors.New("parseArguments: not enough bytes for int32")
			}
			m.Arguments = append(m.Arguments, int32(binary.BigEndian.Uint32(data)))
			data = data[bit32Size:]

		case TypeFloat32:
			if len(data) < bit32Size {
				return errors.New("parseArguments: not enough bytes for float32")
			}
			m.Arguments = append(m.Arguments, math.Float32frombits(binary.BigEndian.Uint32(data)))
			data = data[bit32Size:]

		case TypeTimeTag:
			if len(data) < bit64Size {
				return errors.New("parseArguments: not enough bytes for timetag")
			}
			m.Arguments = append(m.Arguments, Timetag(binary.BigEndian.Uint64(data)))
			data = data[bit64Size:]

		case TypeString:
			str, n, err := parsePaddedString(data)
			if err != nil {
				return errors.Wrap(err, "parseArguments")
			}
			m.Arguments = append(m.Arguments, str)
			data = data[n:]

		case TypeBlob:
			blob, n, err := parseBlob(data)
			if err != nil {
				return errors.Wrap(err, "parseArguments")
			}
			if n > len(data) {
				return errors.New("parseArguments: blob padding missing")
			}
			m.Arguments = append(m.Arguments, blob)
			data = data[n:]

		case TypeNil:
			m.Arguments = append(m.Arguments, nil)

		case TypeTrue:
			m.Arguments = append(m.Arguments, true)

		case TypeFalse:
			m.Arguments = append(m.Arguments, false)
		}
	}

	return nil
}
