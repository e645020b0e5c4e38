package fronius

import (
	"errors"
	"io"
	"net"
	"testing"
	"time"
)

func closedAddr(t *testing.T) string {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	addr := l.Addr().String()
	l.Close()
	return addr
}

func TestNewClient_ConnectFails(t *testing.T) {
	for _, d := range []Driver{DriverThingsGo, DriverGoburrow} {
		_, err := NewClient(Config{Addr: closedAddr(t), Timeout: time.Second, Driver: d})
		if err == nil {
			t.Errorf("%s: expected connect error", d)
		}
	}
}

func TestNewClient_UnknownDriver(t *testing.T) {
	if _, err := NewClient(Config{Addr: "127.0.0.1:502", Driver: "pymodbus"}); err == nil {
		t.Fatal("expected error for unknown driver")
	}
}

func TestClose_ReleasesLogWriter(t *testing.T) {
	l, w := newStdModbusLogger()
	closed := false
	c := &Client{t: &fakeTransport{}, close: func() error { closed = true; return nil }, logw: w}

	if err := c.Close(); err != nil {
		t.Fatalf("Close err=%v", err)
	}
	if !closed {
		t.Fatal("transport was not closed")
	}
	if _, err := l.Writer().Write([]byte("frame\n")); !errors.Is(err, io.ErrClosedPipe) {
		t.Fatalf("log writer still open, write err=%v", err)
	}
}

func TestNewClient_VerboseConnectFails(t *testing.T) {
	if _, err := NewClient(Config{Addr: closedAddr(t), Timeout: time.Second, Driver: DriverGoburrow, Verbose: true}); err == nil {
		t.Fatal("expected connect error")
	}
}

func TestBytesToWords(t *testing.T) {
	w, err := bytesToWords([]byte{0x45, 0x12, 0x9A, 0xE1}, 2)
	if err != nil {
		t.Fatalf("bytesToWords err=%v", err)
	}
	if len(w) != 2 || w[0] != 0x4512 || w[1] != 0x9AE1 {
		t.Fatalf("got %#v", w)
	}
	if _, err := bytesToWords([]byte{0x00, 0x37}, 2); err == nil {
		t.Fatal("expected error for short payload")
	}
}

func TestIdentify(t *testing.T) {
	name := make([]byte, 32)
	copy(name, "Fronius")
	ft := &fakeTransport{
		regs: map[uint16][]uint16{40004: words(name)},
		fail: map[uint16]bool{40052: true},
	}
	id := (&Client{t: ft}).Identify(DefaultUnit)
	if id.Manufacturer != "Fronius" {
		t.Errorf("manufacturer %v", id.Manufacturer)
	}
	if id.Serial != Unavailable {
		t.Errorf("serial %v, want Unavailable", id.Serial)
	}
	if got := id.String(); got != "Fronius  (serial n.a.)" {
		t.Errorf("String() = %q", got)
	}
}
