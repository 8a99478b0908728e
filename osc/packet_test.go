package osc

import (
	"bytes"
	"reflect"
	"testing"
)

// frame builds a packet the way Sender.Flush does: a zero-tagged bundle
// holding one single-message bundle per queued value.
func frame(tt Timetag, msgs ...*Message) *Bundle {
	elems := make([]Packet, 0, len(msgs))
	for _, m := range msgs {
		elems = append(elems, NewBundle(tt, m))
	}
	return NewBundle(0, elems...)
}

func mustMarshal(tb testing.TB, p Packet) []byte {
	tb.Helper()
	data, err := p.MarshalBinary()
	if err != nil {
		tb.Fatalf("MarshalBinary(%v): %v", p, err)
	}
	return data
}

func BenchmarkParsePacket(b *testing.B) {
	data := mustMarshal(b, frame(NewTimetag(3900000000, 1<<31),
		NewMessage("/oscify/lead/pitch", float32(61.5)),
		NewMessage("/oscify/lead/note/on", true),
	))
	b.ResetTimer()
	b.ReportAllocs()
	var p Packet
	for n := 0; n < b.N; n++ {
		p, _ = parsePacket(data)
	}
	result = p
}

func TestParsePacket(t *testing.T) {
	tt := NewTimetag(3900000000, 0x40000000)
	tests := []struct {
		name string
		in   Packet
	}{
		{"empty_flush", NewBundle(0)},
		{"param", frame(0, NewMessage("/oscify/lead/param/0", float32(0.25)))},
		{"note_on", frame(tt,
			NewMessage("/oscify/lead/pitch", float32(60)),
			NewMessage("/oscify/lead/note/on", true),
			NewMessage("/oscify/lead/note/key", int32(60)),
			NewMessage("/oscify/lead/note/velocity", float32(0.78125)),
			NewMessage("/oscify/lead/note/phase", float32(0)),
		)},
		{"note_off", frame(tt, NewMessage("/oscify/lead/note/on", false))},
		{"mixed_timetags", NewBundle(0,
			NewBundle(tt, NewMessage("/oscify/lead/timbre", float32(0.5))),
			NewBundle(tt+1, NewMessage("/oscify/lead/pan", float32(0.125))),
		)},
		{"bare_message", NewMessage("/oscify/lead/pressure", float32(0.5))},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParsePacket(mustMarshal(t, tc.in))
			if err != nil {
				t.Fatalf("ParsePacket() error = %v", err)
			}
			if !reflect.DeepEqual(got, tc.in) {
				t.Errorf("ParsePacket() got = %v, want %v", got, tc.in)
			}
		})
	}
}

func TestParsePacketNestedTimetags(t *testing.T) {
	tt := NewTimetag(3900000000, 0x80000000)
	p, err := ParsePacket(mustMarshal(t, frame(tt,
		NewMessage("/oscify/lead/pitch", float32(62)),
		NewMessage("/oscify/lead/note/on", true),
	)))
	if err != nil {
		t.Fatal(err)
	}

	outer, ok := p.(*Bundle)
	if !ok {
		t.Fatalf("got %T, want *Bundle", p)
	}
	if outer.Timetag != 0 {
		t.Errorf("outer timetag = %v, want 0", outer.Timetag)
	}
	if len(outer.Elements) != 2 {
		t.Fatalf("got %d elements, want 2", len(outer.Elements))
	}
	for i, e := range outer.Elements {
		inner, ok := e.(*Bundle)
		if !ok {
			t.Fatalf("element %d is %T, want *Bundle", i, e)
		}
		if inner.Timetag != tt {
			t.Errorf("element %d timetag = %v, want %v", i, inner.Timetag, tt)
		}
		if len(inner.Elements) != 1 {
			t.Errorf("element %d holds %d packets, want 1", i, len(inner.Elements))
		}
	}
}

func TestParsePacketInvalid(t *testing.T) {
	good := mustMarshal(t, frame(0, NewMessage("/oscify/lead/note/on", true)))
	tests := map[string][]byte{
		"nil":        nil,
		"no_slash":   []byte("x" + nulls(3)),
		"truncated":  good[:len(good)-4],
		"bad_length": append(append([]byte{}, good[:16]...), 0, 0, 1, 0),
	}
	for name, raw := range tests {
		if _, err := ParsePacket(raw); err == nil {
			t.Errorf("%s: ParsePacket(%q) should fail", name, raw)
		}
	}
}

func FuzzParsePacket(f *testing.F) {
	f.Add(mustMarshal(f, NewBundle(0)))
	f.Add(mustMarshal(f, frame(NewTimetag(1, 2),
		NewMessage("/oscify/lead/pitch", float32(60)),
		NewMessage("/oscify/lead/note/key", int32(60)),
	)))
	for _, tc := range bundleTestCases {
		f.Add(tc.raw)
	}
	for _, tc := range messageTestCases {
		f.Add(tc.raw)
	}
	f.Fuzz(func(t *testing.T, data []byte) {
		p, err := ParsePacket(data)
		if err != nil {
			return
		}
		first, err := p.MarshalBinary()
		if err != nil {
			t.Fatalf("re-encoding %v: %v", p, err)
		}
		p2, err := ParsePacket(first)
		if err != nil {
			t.Fatalf("re-parsing %v: %v", p, err)
		}
		second, err := p2.MarshalBinary()
		if err != nil {
			t.Fatalf("re-encoding %v: %v", p2, err)
		}
		if !bytes.Equal(first, second) {
			t.Fatalf("encoding not stable:\n%x\n%x", first, second)
		}
	})
}
