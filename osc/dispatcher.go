package osc

import (
	"net"
	"regexp"
	"strings"

	"github.com/pkg/errors"
)

// Method is an interface for OSC Methods.
type Method interface {
	HandleMessage(msg *Message)
}

// MethodFunc implements the Method interface. Type definition for an OSC Method function.
type MethodFunc func(msg *Message)

// HandleMessage calls itself with the given OSC Message. Implements the Method interface.
func (f MethodFunc) HandleMessage(msg *Message) {
	f(msg)
}

// Dispatcher handles the dispatching of received OSC Packets to Methods for their given Address.
// Default, if set, receives the messages no method matched.
type Dispatcher struct {
	methods map[string]Method
	Default Method
}

// AddMethod adds a new OSC Method for the given OSC Address.
func (d *Dispatcher) AddMethod(addr string, method Method) error {
	if d.methods == nil {
		d.methods = make(map[string]Method)
	}

	if strings.ContainsAny(addr, "*?,[]{}# ") {
		return errors.New("AddMethod: OSC Method may not contain any characters in \"*?,[]{}# \"")
	}

	if _, ok := d.methods[addr]; ok {
		return errors.Errorf("AddMethod: OSC Method %s exists already", addr)
	}

	d.methods[addr] = method
	return nil
}

// AddMethodFunc allows you to just pass a MethodFunc.
func (d *Dispatcher) AddMethodFunc(addr string, method MethodFunc) error {
	return d.AddMethod(addr, method)
}

// Dispatch dispatches OSC Packets. Bundle elements are dispatched in order,
// right away, regardless of their time tags. It has the HandlerFunc signature
// so it can be plugged into a Server.
func (d *Dispatcher) Dispatch(packet Packet, a net.Addr) {
	switch p := packet.(type) {
	case *Message:
		d.dispatchMessage(p)
	case *Bundle:
		for _, elem := range p.Elements {
			d.Dispatch(elem, a)
		}
	}
}

func (d *Dispatcher) dispatchMessage(msg *Message) {
	r, err := getRegEx(msg.Address)
	if err != nil {
		return
	}
	r.Longest()

	matched := false
	aParts := strings.Count(msg.Address, "/")
	for addr, method := range d.methods {
		if aParts == strings.Count(addr, "/") && r.FindString(addr) == addr {
			method.HandleMessage(msg)
			matched = true
		}
	}

	if !matched && d.Default != nil {
		d.Default.HandleMessage(msg)
	}
}

// getRegEx returns a regexp.Regexp for the given address pattern.
func getRegEx(pattern string) (*regexp.Regexp, error) {
	r := strings.NewReplacer(
		".", `\.`,
		"(", `\(`,
		")", `\)`,
		"*", "[^/]*",
		"{", "(",
		",", "|",
		"}", ")",
		"?", "[^/]",
		"!", "^",
	)
	pattern = r.Replace(pattern)

	return regexp.Compile(pattern)
}
