package osc

import (
	"net"
	"runtime"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// HandlerFunc is called for every packet a Server receives.
type HandlerFunc func(packet Packet, addr net.Addr)

// Server represents an OSC server. The server listens on Addr for incoming OSC
// packets and bundles and hands each one to Handler, in order.
type Server struct {
	Addr        string
	Handler     HandlerFunc
	ReadTimeout time.Duration
	Log         logrus.FieldLogger
}

// ListenAndServe listens on s.Addr and serves incoming packets until the
// connection fails.
func (s *Server) ListenAndServe() error {
	ln, err := net.ListenPacket("udp", s.Addr)
	if err != nil {
		return errors.Wrapf(err, "listening on %s", s.Addr)
	}
	defer ln.Close()

	return s.Serve(ln)
}

// ListenAndServe is a shorthand for a Server with the given address and handler.
func ListenAndServe(addr string, handler HandlerFunc) error {
	s := &Server{Addr: addr, Handler: handler}
	return s.ListenAndServe()
}

// Serve retrieves incoming OSC packets from the given connection and hands
// them to the handler. Packets that fail to parse are logged and skipped.
func (s *Server) Serve(c net.PacketConn) error {
	for {
		packet, addr, err := s.readFromConnection(c)
		if err != nil {
			var ne net.Error
			if errors.As(err, &ne) {
				if ne.Timeout() {
					continue
				}
				return err
			}
			s.logger().WithError(err).WithField("from", addr).Warn("osc: dropping invalid packet")
			continue
		}
		s.serve(packet, addr)
	}
}

func (s *Server) serve(p Packet, a net.Addr) {
	defer func() {
		if err := recover(); err != nil {
			buf := make([]byte, 4096)
			buf = buf[:runtime.Stack(buf, false)]
			s.logger().Errorf("osc: panic handling packet from %s: %v\n%s", a, err, buf)
		}
	}()
	if s.Handler != nil {
		s.Handler(p, a)
	}
}

// ReceivePacket listens for incoming OSC packets and returns the packet if one is received.
func (s *Server) ReceivePacket(c net.PacketConn) (Packet, net.Addr, error) {
	return s.readFromConnection(c)
}

// readFromConnection retrieves OSC packets.
func (s *Server) readFromConnection(c net.PacketConn) (Packet, net.Addr, error) {
	if s.ReadTimeout != 0 {
		if err := c.SetReadDeadline(time.Now().Add(s.ReadTimeout)); err != nil {
			return nil, nil, err
		}
	}

	buf := make([]byte, MaxPacketSize)
	n, a, err := c.ReadFrom(buf)
	if err != nil {
		return nil, a, err
	}

	p, err := parsePacket(buf[:n])
	return p, a, err
}

func (s *Server) logger() logrus.FieldLogger {
	if s.Log == nil {
		return logrus.StandardLogger()
	}
	return s.Log
}
