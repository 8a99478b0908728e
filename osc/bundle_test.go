package osc

import (
	"reflect"
	"testing"
)

func TestBundle_MarshalBinary(t *testing.T) {
	for _, tt := range bundleTestCases {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.obj.MarshalBinary()
			if (err != nil) != tt.wantErr {
				t.Errorf("MarshalBinary() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if !reflect.DeepEqual(got, tt.raw) {
				t.Errorf("MarshalBinary() got = %q, want %q", got, tt.raw)
			}
		})
	}
}

func TestBundle_UnmarshalBinary(t *testing.T) {
	for _, tt := range bundleTestCases {
		t.Run(tt.name, func(t *testing.T) {
			m := new(Bundle)
			if err := m.UnmarshalBinary(tt.raw); (err != nil) != tt.wantErr {
				t.Errorf("UnmarshalBinary() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !reflect.DeepEqual(m, tt.obj) {
				t.Errorf("UnmarshalBinary() got = %v, want %v", m, tt.obj)
			}
		})
	}
}

func TestBundle_Append(t *testing.T) {
	b := NewBundle(0)
	if err := b.Append(NewMessage("/a")); err != nil {
		t.Errorf("Append(message) error = %v", err)
	}
	if err := b.Append(NewBundle(1)); err != nil {
		t.Errorf("Append(bundle) error = %v", err)
	}
	if err := b.Append(NewTimetag(1, 0)); err == nil {
		t.Error("Append(timetag) should fail")
	}
	if len(b.Elements) != 2 {
		t.Errorf("len(Elements) = %d, want 2", len(b.Elements))
	}
}

func TestBundle_MarshalBinaryBadElement(t *testing.T) {
	b := NewBundle(0, NewBundle(1, NewMessage("/a", 3.5)))
	if _, err := b.MarshalBinary(); err == nil {
		t.Error("MarshalBinary() with a float64 argument should fail")
	}
}

func TestBundle_UnmarshalBinaryInvalid(t *testing.T) {
	for _, tt := range []struct {
		name string
		raw  []byte
	}{
		{"short", []byte("#bundle" + nulls(1))},
		{"bad_tag", []byte("#bundlx" + nulls(1) + nulls(8))},
		{"element_too_long", []byte("#bundle" + nulls(1) + nulls(8) + be32(64) + "/a" + nulls(2))},
		{"empty_element", []byte("#bundle" + nulls(1) + nulls(8) + be32(0))},
	} {
		t.Run(tt.name, func(t *testing.T) {
			if err := new(Bundle).UnmarshalBinary(tt.raw); err == nil {
				t.Errorf("UnmarshalBinary(%q) should fail", tt.raw)
			}
		})
	}
}
