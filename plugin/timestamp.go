package plugin

import (
	"math"
	"time"

	"github.com/conundrumer/vst-plugins/osc"
)

const (
	secondsFrom1900To1970 = 2208988800
	ntpScale              = 4294967295.0
)

// Timestamp converts now plus an offset in nanoseconds into an OSC time tag.
// The fraction is scaled by 2^32/1e10 as receivers of this plugin expect.
func Timestamp(now time.Time, offsetNanos float64) osc.Timetag {
	sec := uint32(now.Unix() + secondsFrom1900To1970)
	frac := (float64(now.Nanosecond()) + offsetNanos) * ntpScale / 1e10
	switch {
	case frac < 0 || math.IsNaN(frac):
		frac = 0
	case frac > math.MaxUint32:
		frac = math.MaxUint32
	}
	return osc.NewTimetag(sec, uint32(frac))
}

// offsetNanos converts a sample offset within the current block into
// nanoseconds. It is 0 until the sample rate is known.
func offsetNanos(deltaFrames int32, sampleRate float32) float64 {
	if sampleRate <= 0 {
		return 0
	}
	return float64(deltaFrames) / float64(sampleRate) * 1e9
}
