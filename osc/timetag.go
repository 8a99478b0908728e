package osc

import (
	"encoding/binary"
	"fmt"
	"time"
)

const (
	// secondsFrom1900To1970 is the offset between the NTP and Unix epochs.
	secondsFrom1900To1970 = 2208988800

	// immediately is the special time tag value meaning "now".
	immediately = Timetag(1)
)

// Timetag represents an OSC Time Tag.
// An OSC Time Tag is defined as follows:
// Time tags are represented by a 64 bit fixed point number. The first 32 bits
// specify the number of seconds since midnight on January 1, 1900, and the
// last 32 bits specify fractional parts of a second to a precision of about
// 200 picoseconds. This is the representation used by Internet NTP timestamps.
type Timetag uint64

// NewTimetag assembles a time tag from NTP seconds and fraction.
func NewTimetag(seconds, fraction uint32) Timetag {
	return Timetag(uint64(seconds)<<32 | uint64(fraction))
}

// NewImmediateTimetag returns the time tag that means "immediately".
func NewImmediateTimetag() Timetag {
	return immediately
}

// NewTimetagFromTime returns a new OSC time tag object from a time.Time.
func NewTimetagFromTime(t time.Time) Timetag {
	seconds := uint32(t.Unix() + secondsFrom1900To1970)
	fraction := uint32((uint64(t.Nanosecond()) << 32) / uint64(time.Second))
	return NewTimetag(seconds, fraction)
}

// Time returns the time.
func (t Timetag) Time() time.Time {
	nsec := (uint64(t.FractionalSecond()) * uint64(time.Second)) >> 32
	return time.Unix(int64(t.SecondsSinceEpoch())-secondsFrom1900To1970, int64(nsec))
}

// FractionalSecond returns the last 32 bits of the OSC time tag. Specifies the
// fractional part of a second.
func (t Timetag) FractionalSecond() uint32 {
	return uint32(t)
}

// SecondsSinceEpoch returns the first 32 bits (the number of seconds since the
// midnight 1900) from the OSC time tag.
func (t Timetag) SecondsSinceEpoch() uint32 {
	return uint32(t >> 32)
}

// TimeTag returns the time tag value
func (t Timetag) TimeTag() uint64 {
	return uint64(t)
}

func (t Timetag) String() string {
	return fmt.Sprintf("%d.%010d", t.SecondsSinceEpoch(), t.FractionalSecond())
}

// MarshalBinary converts the OSC time tag to a byte array.
func (t Timetag) MarshalBinary() ([]byte, error) {
	b := make([]byte, bit64Size)
	binary.BigEndian.PutUint64(b, uint64(t))
	return b, nil
}

// ExpiresIn calculates the number of seconds until the current time is the
// same as the value of the time tag. It returns zero if the value of the
// time tag is in the past.
func (t Timetag) ExpiresIn() time.Duration {
	if t <= immediately {
		return 0
	}

	d := time.Until(t.Time())
	if d <= 0 {
		return 0
	}

	return d
}
