package osc

import (
	"encoding"

	"github.com/pkg/errors"
)

const (
	// MaxPacketSize is the largest payload a single UDP datagram can carry.
	MaxPacketSize = 65507

	bit32Size = 4
	bit64Size = 8

	bundleTagString = "#bundle"
)

// Packet is the interface for Message and Bundle.
type Packet interface {
	encoding.BinaryMarshaler
}

// ParsePacket parses an OSC packet (a Message or a Bundle) from data.
// The data is copied, so the caller may reuse the slice.
func ParsePacket(data []byte) (Packet, error) {
	d := make([]byte, len(data))
	copy(d, data)

	return parsePacket(d)
}

// parsePacket doesn't copy, so nested elements can share one buffer.
func parsePacket(data []byte) (Packet, error) {
	if len(data) == 0 {
		return nil, errors.New("parsePacket: empty packet")
	}

	switch data[0] {
	case '/':
		return newMessageFromData(data)
	case '#':
		return newBundleFromData(data)
	default:
		return nil, errors.Errorf("parsePacket: invalid packet start byte 0x%02x", data[0])
	}
}
