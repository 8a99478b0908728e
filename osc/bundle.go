package osc

import (
	"encoding/binary"

	"github.com/pkg/errors"
)

// Bundle represents an OSC bundle. It consists of the OSC-string "#bundle"
// followed by an OSC Time Tag, followed by zero or more OSC bundle/message
// elements. The OSC-timetag is a 64-bit fixed point time tag. See
// http://opensoundcontrol.org/spec-1_0.html for more information.
type Bundle struct {
	Timetag  Timetag
	Elements []Packet
}

// Verify that Bundle implements the Packet interface.
var _ Packet = (*Bundle)(nil)

// NewBundle returns an OSC Bundle with the given time tag and elements.
func NewBundle(tt Timetag, elements ...Packet) *Bundle {
	return &Bundle{Timetag: tt, Elements: elements}
}

// Append appends an OSC bundle or OSC message to the bundle.
func (b *Bundle) Append(pck Packet) error {
	switch t := pck.(type) {
	default:
		return errors.New("unsupported OSC packet type: only Bundle and Message are supported")

	case *Bundle, *Message:
		b.Elements = append(b.Elements, t)
	}

	return nil
}

// MarshalBinary serializes the OSC bundle to a byte array with the following
// format:
// 1. Bundle string: '#bundle'
// 2. OSC timetag
// 3. Length of first OSC bundle element
// 4. First bundle element
// 5. Length of n OSC bundle element
// 6. n bundle element
func (b *Bundle) MarshalBinary() ([]byte, error) {
	buf, err := b.appendBinary(make([]byte, 0, 256))
	if err != nil {
		return nil, err
	}

	if len(buf) > MaxPacketSize {
		return nil, errors.Errorf("MarshalBinary: bundle too large: %d", len(buf))
	}
	return buf, nil
}

func (b *Bundle) appendBinary(buf []byte) ([]byte, error) {
	buf = appendPaddedString(buf, bundleTagString)
	buf = binary.BigEndian.AppendUint64(buf, uint64(b.Timetag))

	for i, elem := range b.Elements {
		// Reserve the size prefix, then fill it in once the element is written.
		sizeAt := len(buf)
		buf = append(buf, 0, 0, 0, 0)

		var err error
		switch e := elem.(type) {
		case *Message:
			buf, err = e.appendBinary(buf)
		case *Bundle:
			buf, err = e.appendBinary(buf)
		default:
			err = errors.Errorf("unsupported element type %T", elem)
		}
		if err != nil {
			return nil, errors.Wrapf(err, "bundle element %d", i)
		}

		binary.BigEndian.PutUint32(buf[sizeAt:], uint32(len(buf)-sizeAt-bit32Size))
	}

	return buf, nil
}

// NewBundleFromData returns a new OSC bundle created from the parsed data.
func NewBundleFromData(data []byte) (*Bundle, error) {
	b := &Bundle{}
	if err := b.UnmarshalBinary(data); err != nil {
		return nil, err
	}
	return b, nil
}

// newBundleFromData assumes that the bytes have already been copied.
func newBundleFromData(data []byte) (*Bundle, error) {
	b := &Bundle{}
	if err := b.unmarshalBinary(data); err != nil {
		return nil, err
	}
	return b, nil
}

// UnmarshalBinary implements the encoding.BinaryUnmarshaler interface.
func (b *Bundle) UnmarshalBinary(d []byte) error {
	data := make([]byte, len(d))
	copy(data, d)

	return b.unmarshalBinary(data)
}

// unmarshalBinary is the actual implementation, it doesn't copy, so we can use a single copy for bundles.
func (b *Bundle) unmarshalBinary(data []byte) error {
	if (len(data) % bit32Size) != 0 {
		return errors.New("UnmarshalBinary: data isn't padded properly")
	}

	if len(data) < 16 {
		return errors.New("UnmarshalBinary: bundle is too short")
	}

	// Read the '#bundle' OSC string
	startTag, n, err := parsePaddedString(data)
	if err != nil {
		return errors.Wrap(err, "UnmarshalBinary")
	}
	data = data[n:]

	if startTag != bundleTagString {
		return errors.Errorf("invalid bundle start tag: %s", startTag)
	}

	if len(data) < bit64Size {
		return errors.New("UnmarshalBinary: missing timetag")
	}
	b.Timetag = Timetag(binary.BigEndian.Uint64(data[:bit64Size]))
	data = data[bit64Size:]
	b.Elements = nil

	// Read until the end of the buffer
	for len(data) > 0 {
		if len(data) < bit32Size {
			return errors.New("UnmarshalBinary: truncated element size")
		}
		length := int(binary.BigEndian.Uint32(data[:bit32Size]))
		data = data[bit32Size:]
		if length < 0 || len(data) < length {
			return errors.Errorf("invalid bundle element length: %d", length)
		}

		p, err := parsePacket(data[:length])
		if err != nil {
			return err
		}
		data = data[length:]
		b.Elements = append(b.Elements, p)
	}

	return nil
}
