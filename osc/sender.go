package osc

import (
	"fmt"
	"net"

	"github.com/pkg/errors"
)

const (
	// DefaultBasePort is the first local port the Sender tries to bind.
	DefaultBasePort = 9100
	// DefaultPortAttempts is how many consecutive ports are tried.
	DefaultPortAttempts = 100
	// DefaultRemotePort is where bundles are sent.
	DefaultRemotePort = 9001
)

// ErrNoAvailablePort is returned by NewSender when every port in the scan
// range is taken.
var ErrNoAvailablePort = errors.New("osc: no available host ports")

// EncodingError is returned by Flush when the queued bundle can't be encoded.
type EncodingError struct {
	Err error
}

func (e *EncodingError) Error() string { return "osc: encoding bundle: " + e.Err.Error() }
func (e *EncodingError) Unwrap() error { return e.Err }

// TransmissionError is returned by Flush when the datagram couldn't be sent.
type TransmissionError struct {
	Err error
}

func (e *TransmissionError) Error() string { return "osc: sending bundle: " + e.Err.Error() }
func (e *TransmissionError) Unwrap() error { return e.Err }

// SenderConfig describes where a Sender binds and where it sends.
type SenderConfig struct {
	Host       string
	BasePort   int
	Attempts   int
	RemotePort int
}

// DefaultSenderConfig returns the loopback configuration used by the plugin.
func DefaultSenderConfig() SenderConfig {
	return SenderConfig{
		Host:       "127.0.0.1",
		BasePort:   DefaultBasePort,
		Attempts:   DefaultPortAttempts,
		RemotePort: DefaultRemotePort,
	}
}

// Sender queues OSC messages and sends them as one bundle per Flush.
// A Sender is not safe for concurrent use.
type Sender struct {
	id    int
	conn  net.PacketConn
	to    net.Addr
	queue []Packet
}

// NewSender binds a UDP socket on the first free port in
// [cfg.BasePort, cfg.BasePort+cfg.Attempts) and returns a Sender for it.
func NewSender(cfg SenderConfig) (*Sender, error) {
	ip := net.ParseIP(cfg.Host)
	if ip == nil {
		return nil, errors.Errorf("osc: invalid host %q", cfg.Host)
	}
	to := &net.UDPAddr{IP: ip, Port: cfg.RemotePort}

	for i := 0; i < cfg.Attempts; i++ {
		conn, err := net.ListenUDP("udp", &net.UDPAddr{IP: ip, Port: cfg.BasePort + i})
		if err != nil {
			continue
		}
		return newSender(conn, to, i), nil
	}

	return nil, errors.Wrapf(ErrNoAvailablePort, "ports %d-%d",
		cfg.BasePort, cfg.BasePort+cfg.Attempts-1)
}

func newSender(conn net.PacketConn, to net.Addr, id int) *Sender {
	return &Sender{id: id, conn: conn, to: to}
}

// ID is the offset of the bound port from the base port. It tells apart
// several senders running side by side.
func (s *Sender) ID() int {
	return s.id
}

// LocalAddr returns the address the Sender is bound to.
func (s *Sender) LocalAddr() net.Addr {
	return s.conn.LocalAddr()
}

// Len returns the number of queued messages.
func (s *Sender) Len() int {
	return len(s.queue)
}

// Push queues a message with a single argument. The message is wrapped in its
// own bundle carrying tt. No I/O happens until Flush.
func (s *Sender) Push(address string, arg interface{}, tt Timetag) {
	s.queue = append(s.queue, NewBundle(tt, NewMessage(address, arg)))
}

// Flush sends everything queued since the last Flush as one bundle with a zero
// time tag. The queue is empty afterwards, whether or not the
// send succeeded.
func (s *Sender) Flush() error {
	packet := NewBundle(0, s.queue...)
	s.queue = nil

	data, err := packet.MarshalBinary()
	if err != nil {
		return &EncodingError{Err: err}
	}

	if _, err = s.conn.WriteTo(data, s.to); err != nil {
		return &TransmissionError{Err: err}
	}
	return nil
}

// Close closes the underlying socket.
func (s *Sender) Close() error {
	return s.conn.Close()
}

func (s *Sender) String() string {
	return fmt.Sprintf("osc.Sender[%d] %s -> %s", s.id, s.conn.LocalAddr(), s.to)
}
