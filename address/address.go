// Package address builds the OSC addresses the translator sends to from the
// selected configuration entry and the channel, key or parameter involved.
//
// Addresses have the forms
//
//	/oscify<base><identity>/note/{on,key,vel,phase}
//	/oscify<base><identity>/{pitch,press,timbre,pan}
//	/oscify<base>/param<param>
//
// where every segment renders as "/<value>" or as nothing.
package address

import (
	"fmt"
	"strconv"

	"github.com/conundrumer/vst-plugins/config"
)

// Namespace prefixes every address.
const Namespace = "/oscify"

type nodeKind uint8

const (
	kindNone nodeKind = iota
	kindValue
	kindDoNotSend
)

// Node is one path segment of an address.
type Node struct {
	kind  nodeKind
	value string
}

var (
	// None is a segment that renders as nothing.
	None = Node{kind: kindNone}
	// DoNotSend renders as nothing and marks the whole address as
	// suppressed.
	DoNotSend = Node{kind: kindDoNotSend}
)

// Segment returns a node rendering as "/<s>".
func Segment(s string) Node {
	return Node{kind: kindValue, value: s}
}

// Number returns a node rendering as "/<n>".
func Number(n int) Node {
	return Segment(strconv.Itoa(n))
}

// ShouldSend is false for DoNotSend.
func (n Node) ShouldSend() bool {
	return n.kind != kindDoNotSend
}

func (n Node) String() string {
	switch n.kind {
	case kindValue:
		return "/" + n.value
	case kindNone, kindDoNotSend:
		return ""
	default:
		panic(fmt.Sprintf("address: unknown node kind %d", n.kind))
	}
}

// ChannelType names a per-voice continuous controller.
type ChannelType uint8

const (
	Pitch ChannelType = iota
	Pressure
	Timbre
	Pan
)

func (t ChannelType) String() string {
	switch t {
	case Pitch:
		return "pitch"
	case Pressure:
		return "press"
	case Timbre:
		return "timbre"
	case Pan:
		return "pan"
	default:
		return "ChannelType(" + strconv.Itoa(int(t)) + ")"
	}
}

// NoteField names one of the values sent for a note.
type NoteField uint8

const (
	NoteOn NoteField = iota
	NoteKey
	NoteVelocity
	NotePhase
)

func (f NoteField) String() string {
	switch f {
	case NoteOn:
		return "on"
	case NoteKey:
		return "key"
	case NoteVelocity:
		return "vel"
	case NotePhase:
		return "phase"
	default:
		return "NoteField(" + strconv.Itoa(int(f)) + ")"
	}
}

// BaseNode is the entry's address, or index when there is no entry.
func BaseNode(e *config.Entry, index int) Node {
	if e == nil {
		return Number(index)
	}
	return Segment(e.Address)
}

// IdentityNode distinguishes voices within an entry. A missing entry is
// treated as Mono. Param entries and unknown types suppress the address.
func IdentityNode(e *config.Entry, channel, key uint8) Node {
	typ := config.Mono
	if e != nil {
		typ = e.Type
	}

	switch typ {
	case config.Mono:
		return None
	case config.Poly:
		return Number(int(channel))
	case config.Drum:
		if name, ok := e.KeyName(key); ok {
			return Segment(name)
		}
		return Number(int(key))
	default:
		return DoNotSend
	}
}

// ParamNode is the name of parameter index, or index when it has none.
func ParamNode(e *config.Entry, index int) Node {
	if name, ok := e.ParamName(index); ok {
		return Segment(name)
	}
	return Number(index)
}

// NoteAddress assembles the address of a note field.
func NoteAddress(base, id Node, f NoteField) string {
	return Namespace + base.String() + id.String() + "/note/" + f.String()
}

// ChannelAddress assembles the address of a per-voice controller.
func ChannelAddress(base, id Node, t ChannelType) string {
	return Namespace + base.String() + id.String() + "/" + t.String()
}

// ParamAddress assembles the address of a generic parameter.
func ParamAddress(base, param Node) string {
	return Namespace + base.String() + "/param" + param.String()
}

// Resolver builds addresses for the entry selected by an index. The entry
// may be missing, in which case numeric fallbacks are used.
type Resolver struct {
	entry *config.Entry
	index int
}

// NewResolver selects entries[index], if it exists.
func NewResolver(entries []config.Entry, index int) Resolver {
	r := Resolver{index: index}
	if index >= 0 && index < len(entries) {
		r.entry = &entries[index]
	}
	return r
}

// Entry returns the selected entry, or nil.
func (r Resolver) Entry() *config.Entry {
	return r.entry
}

// Index returns the selected index.
func (r Resolver) Index() int {
	return r.index
}

// Note returns the address of a note field. ok is false if the entry
// suppresses note output.
func (r Resolver) Note(channel, key uint8, f NoteField) (addr string, ok bool) {
	id := IdentityNode(r.entry, channel, key)
	if !id.ShouldSend() {
		return "", false
	}
	return NoteAddress(BaseNode(r.entry, r.index), id, f), true
}

// Channel returns the address of a per-voice controller. ok is false if the
// entry suppresses it.
func (r Resolver) Channel(t ChannelType, channel, key uint8) (addr string, ok bool) {
	id := IdentityNode(r.entry, channel, key)
	if !id.ShouldSend() {
		return "", false
	}
	return ChannelAddress(BaseNode(r.entry, r.index), id, t), true
}

// Param returns the address of generic parameter index.
func (r Resolver) Param(index int) string {
	return ParamAddress(BaseNode(r.entry, r.index), ParamNode(r.entry, index))
}
