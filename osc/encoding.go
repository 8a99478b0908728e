package osc

import (
	"bytes"
	"encoding/binary"
	"io"

	"github.com/pkg/errors"
)

////
// De/Encoding functions
////

// parseBlob parses an OSC blob from data. It returns the blob and the number
// of bytes consumed, padding included.
func parseBlob(data []byte) ([]byte, int, error) {
	if len(data) < bit32Size {
		return nil, 0, errors.Wrap(io.ErrUnexpectedEOF, "parseBlob")
	}

	blobLen := int(binary.BigEndian.Uint32(data[:bit32Size]))
	data = data[bit32Size:]
	if blobLen < 0 || blobLen > len(data) {
		return nil, 0, errors.Errorf("parseBlob: invalid blob length %d", blobLen)
	}

	n := bit32Size + blobLen
	return data[:blobLen], n + padBytesNeeded(n), nil
}

// appendBlob appends data as an OSC blob: a big-endian int32 size, the bytes,
// then zero padding up to the next 4 byte boundary.
func appendBlob(b []byte, data []byte) []byte {
	b = binary.BigEndian.AppendUint32(b, uint32(len(data)))
	b = append(b, data...)

	return appendPadding(b, bit32Size+len(data))
}

// parsePaddedString reads a padded string from the given slice and returns the
// string and the number of bytes read.
func parsePaddedString(data []byte) (string, int, error) {
	pos := bytes.IndexByte(data, 0)
	if pos == -1 {
		return "", 0, errors.Wrap(io.EOF, "parsePaddedString")
	}

	n := pos + 1 + padBytesNeeded(pos+1)
	if n > len(data) {
		return "", 0, errors.Wrap(io.ErrUnexpectedEOF, "parsePaddedString")
	}

	return string(data[:pos]), n, nil
}

// appendPaddedString appends str, its null terminator and padding bytes to b.
func appendPaddedString(b []byte, str string) []byte {
	b = append(b, str...)
	b = append(b, 0)

	return appendPadding(b, len(str)+1)
}

func appendPadding(b []byte, elementLen int) []byte {
	for i := padBytesNeeded(elementLen); i > 0; i-- {
		b = append(b, 0)
	}
	return b
}

// padBytesNeeded determines how many bytes are needed to fill up to the next 4
// byte length.
func padBytesNeeded(elementLen int) int {
	return (4 - (elementLen % 4)) % 4
}
