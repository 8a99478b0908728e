// Package config loads the list of entries that name the OSC addresses the
// translator sends to.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// FileName is the name of the configuration file looked up in the working
// directory.
const FileName = "oscify-config.json"

// EntryType selects how notes and per-voice controllers of an entry are
// addressed.
type EntryType string

const (
	// Mono sends everything to the entry's base address.
	Mono EntryType = "Mono"
	// Poly adds the MIDI channel to the address.
	Poly EntryType = "Poly"
	// Drum adds the key name, or the key number, to the address.
	Drum EntryType = "Drum"
	// Param entries only send generic parameters.
	Param EntryType = "Param"
)

// Known reports whether t is one of the defined entry types.
func (t EntryType) Known() bool {
	switch t {
	case Mono, Poly, Drum, Param:
		return true
	}
	return false
}

// Entry is one configured instrument.
type Entry struct {
	Type    EntryType        `json:"type"`
	Name    string           `json:"name"`
	Address string           `json:"address"`
	Params  []string         `json:"params,omitempty"`
	Keys    map[uint8]string `json:"keys,omitempty"`
}

// ParamName returns the name of generic parameter i, if it has one.
func (e *Entry) ParamName(i int) (string, bool) {
	if e == nil || i < 0 || i >= len(e.Params) {
		return "", false
	}
	return e.Params[i], true
}

// KeyName returns the name mapped to a MIDI key, if there is one.
func (e *Entry) KeyName(key uint8) (string, bool) {
	if e == nil || e.Keys == nil {
		return "", false
	}
	name, ok := e.Keys[key]
	return name, ok
}

// DefaultPath returns the path of FileName in the working directory.
func DefaultPath() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", errors.Wrap(err, "config: working directory")
	}
	return filepath.Join(dir, FileName), nil
}

// Load reads a JSON array of entries from path. Key names are keyed by MIDI
// key numbers written as strings.
func Load(path string) ([]Entry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "config: read")
	}

	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, errors.Wrapf(err, "config: parse %s", path)
	}

	for i, e := range entries {
		if !e.Type.Known() {
			return nil, errors.Errorf("config: entry %d (%s): unknown type %q", i, e.Name, e.Type)
		}
		for k := range e.Keys {
			if k > 127 {
				return nil, errors.Errorf("config: entry %d (%s): key %d out of range", i, e.Name, k)
			}
		}
	}

	return entries, nil
}

// LoadDefault loads the configuration file from the working directory.
func LoadDefault() ([]Entry, error) {
	path, err := DefaultPath()
	if err != nil {
		return nil, err
	}
	return Load(path)
}

// Save writes entries to path as indented JSON.
func Save(path string, entries []Entry) error {
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return errors.Wrap(err, "config: encode")
	}
	return errors.Wrap(os.WriteFile(path, data, 0644), "config: write")
}

// Example returns a small configuration covering every entry type.
func Example() []Entry {
	return []Entry{
		{Type: Mono, Name: "lead", Address: "lead", Params: []string{"cutoff", "resonance"}},
		{Type: Poly, Name: "pad", Address: "pad"},
		{Type: Drum, Name: "drums", Address: "drums", Keys: map[uint8]string{36: "kick", 38: "snare", 42: "hat"}},
		{Type: Param, Name: "fx", Address: "fx", Params: []string{"mix", "feedback", "time"}},
	}
}
