package osc

import (
	"net"
	"reflect"
	"testing"
	"time"

	"github.com/pkg/errors"
)

type dummyConn struct {
	net.PacketConn
	writes [][]byte
	err    error
}

func (d *dummyConn) WriteTo(b []byte, _ net.Addr) (int, error) {
	d.writes = append(d.writes, append([]byte(nil), b...))
	if d.err != nil {
		return 0, d.err
	}
	return len(b), nil
}

func (d *dummyConn) Close() error { return nil }

func (d *dummyConn) LocalAddr() net.Addr { return &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1), Port: 9100} }

var dummyRemote = &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1), Port: DefaultRemotePort}

func TestSender_Flush(t *testing.T) {
	conn := &dummyConn{}
	s := newSender(conn, dummyRemote, 0)

	tt := NewTimetag(3900000000, 42)
	s.Push("/oscify/0/note/on", true, tt)
	s.Push("/oscify/0/note/key", int32(60), tt)
	s.Push("/oscify/0/note/vel", float32(0.5), tt)

	if s.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", s.Len())
	}
	if len(conn.writes) != 0 {
		t.Fatalf("Push() must not send, got %d writes", len(conn.writes))
	}

	if err := s.Flush(); err != nil {
		t.Fatalf("Flush() error = %v", err)
	}
	if s.Len() != 0 {
		t.Errorf("Len() after Flush() = %d, want 0", s.Len())
	}
	if len(conn.writes) != 1 {
		t.Fatalf("Flush() wrote %d datagrams, want 1", len(conn.writes))
	}

	got, err := ParsePacket(conn.writes[0])
	if err != nil {
		t.Fatalf("ParsePacket() error = %v", err)
	}
	want := NewBundle(0,
		NewBundle(tt, NewMessage("/oscify/0/note/on", true)),
		NewBundle(tt, NewMessage("/oscify/0/note/key", int32(60))),
		NewBundle(tt, NewMessage("/oscify/0/note/vel", float32(0.5))),
	)
	if !reflect.DeepEqual(got, want) {
		t.Errorf("sent %v, want %v", got, want)
	}
}

func TestSender_FlushEmpty(t *testing.T) {
	conn := &dummyConn{}
	s := newSender(conn, dummyRemote, 0)

	if err := s.Flush(); err != nil {
		t.Fatalf("Flush() error = %v", err)
	}
	if len(conn.writes) != 1 {
		t.Fatalf("Flush() wrote %d datagrams, want 1", len(conn.writes))
	}
	if string(conn.writes[0]) != "#bundle"+nulls(9) {
		t.Errorf("empty flush sent %q", conn.writes[0])
	}
}

func TestSender_FlushTransmissionError(t *testing.T) {
	conn := &dummyConn{err: errors.New("connection refused")}
	s := newSender(conn, dummyRemote, 0)

	for i := 0; i < 5; i++ {
		s.Push("/oscify/0/pitch", float32(60), 0)
	}

	err := s.Flush()
	var te *TransmissionError
	if !errors.As(err, &te) {
		t.Fatalf("Flush() error = %v, want *TransmissionError", err)
	}
	if s.Len() != 0 {
		t.Errorf("Len() after failed Flush() = %d, want 0", s.Len())
	}
	if len(conn.writes) != 1 {
		t.Errorf("Flush() attempted %d sends, want 1", len(conn.writes))
	}
}

func TestSender_FlushEncodingError(t *testing.T) {
	conn := &dummyConn{}
	s := newSender(conn, dummyRemote, 0)

	s.Push("/oscify/0/pitch", 60, 0)

	err := s.Flush()
	var ee *EncodingError
	if !errors.As(err, &ee) {
		t.Fatalf("Flush() error = %v, want *EncodingError", err)
	}
	if s.Len() != 0 {
		t.Errorf("Len() after failed Flush() = %d, want 0", s.Len())
	}
	if len(conn.writes) != 0 {
		t.Errorf("Flush() sent %d datagrams for an unencodable bundle", len(conn.writes))
	}

	// The sender keeps working after a failure.
	s.Push("/oscify/0/pitch", float32(60), 0)
	if err := s.Flush(); err != nil {
		t.Errorf("Flush() after an encoding error = %v", err)
	}
}

// freePort returns a loopback UDP port that was free a moment ago.
func freePort(t *testing.T) int {
	t.Helper()
	c, err := net.ListenUDP("udp", &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1)})
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()
	return c.LocalAddr().(*net.UDPAddr).Port
}

func TestNewSender_Loopback(t *testing.T) {
	receiver, err := net.ListenPacket("udp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	defer receiver.Close()

	cfg := DefaultSenderConfig()
	cfg.BasePort = freePort(t)
	cfg.Attempts = 10
	cfg.RemotePort = receiver.LocalAddr().(*net.UDPAddr).Port

	s, err := NewSender(cfg)
	if err != nil {
		t.Fatalf("NewSender() error = %v", err)
	}
	defer s.Close()

	s.Push("/oscify/lead/pitch", float32(61.5), NewTimetag(1, 0))
	if err := s.Flush(); err != nil {
		t.Fatalf("Flush() error = %v", err)
	}

	server := &Server{ReadTimeout: 2 * time.Second}
	packet, addr, err := server.ReceivePacket(receiver)
	if err != nil {
		t.Fatalf("ReceivePacket() error = %v", err)
	}
	if addr.String() != s.LocalAddr().String() {
		t.Errorf("datagram came from %s, want %s", addr, s.LocalAddr())
	}

	want := NewBundle(0, NewBundle(NewTimetag(1, 0), NewMessage("/oscify/lead/pitch", float32(61.5))))
	if !reflect.DeepEqual(packet, want) {
		t.Errorf("received %v, want %v", packet, want)
	}
}

func TestNewSender_NoAvailablePort(t *testing.T) {
	taken, err := net.ListenUDP("udp", &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1)})
	if err != nil {
		t.Fatal(err)
	}
	defer taken.Close()

	cfg := DefaultSenderConfig()
	cfg.BasePort = taken.LocalAddr().(*net.UDPAddr).Port
	cfg.Attempts = 1

	s, err := NewSender(cfg)
	if !errors.Is(err, ErrNoAvailablePort) {
		t.Fatalf("NewSender() error = %v, want ErrNoAvailablePort", err)
	}
	if s != nil {
		t.Errorf("NewSender() returned a sender along with an error")
	}
}

func TestNewSender_ScansPorts(t *testing.T) {
	taken, err := net.ListenUDP("udp", &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1)})
	if err != nil {
		t.Fatal(err)
	}
	defer taken.Close()
	base := taken.LocalAddr().(*net.UDPAddr).Port

	probe, err := net.ListenUDP("udp", &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1), Port: base + 1})
	if err != nil {
		t.Skipf("port %d is busy: %v", base+1, err)
	}
	probe.Close()

	cfg := DefaultSenderConfig()
	cfg.BasePort = base
	cfg.Attempts = 2

	s, err := NewSender(cfg)
	if err != nil {
		t.Fatalf("NewSender() error = %v", err)
	}
	defer s.Close()

	if s.ID() != 1 {
		t.Errorf("ID() = %d, want 1", s.ID())
	}
	if got := s.LocalAddr().(*net.UDPAddr).Port; got != base+1 {
		t.Errorf("bound port %d, want %d", got, base+1)
	}
}
