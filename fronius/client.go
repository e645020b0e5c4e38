package fronius

import (
	"fmt"
	"io"
	"time"

	goburrow "github.com/goburrow/modbus"
	modbus "github.com/things-go/go-modbus"
)

// Driver selects the Modbus library used for the connection.
type Driver string

const (
	DriverThingsGo Driver = "things-go"
	DriverGoburrow Driver = "goburrow"
)

// DefaultTimeout is the connect and read timeout of a connection.
const DefaultTimeout = 10 * time.Second

type Config struct {
	Addr    string
	Timeout time.Duration
	Driver  Driver
	Verbose bool
}

// Client holds one open Modbus/TCP connection to the inverter.
type Client struct {
	t     Transport
	close func() error
	logw  io.Closer
}

func NewClient(cfg Config) (*Client, error) {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	switch cfg.Driver {
	case DriverThingsGo, "":
		return newThingsGoClient(cfg)
	case DriverGoburrow:
		return newGoburrowClient(cfg)
	default:
		return nil, fmt.Errorf("unknown modbus driver %q", cfg.Driver)
	}
}

func newThingsGoClient(cfg Config) (*Client, error) {
	opts := []modbus.ClientProviderOption{modbus.WithTCPTimeout(cfg.Timeout)}
	if cfg.Verbose {
		opts = append(opts, modbus.WithLogProvider(newModbusLogger()), modbus.WithEnableLogger())
	}

	p := modbus.NewTCPClientProvider(cfg.Addr, opts...)
	client := modbus.NewClient(p)
	err := client.Connect()
	if err != nil {
		return nil, fmt.Errorf("could not connect to modbus: %w", err)
	}
	return &Client{t: client, close: client.Close}, nil
}

func newGoburrowClient(cfg Config) (*Client, error) {
	h := goburrow.NewTCPClientHandler(cfg.Addr)
	h.Timeout = cfg.Timeout
	c := &Client{t: newGoburrowTransport(h), close: h.Close}
	if cfg.Verbose {
		h.Logger, c.logw = newStdModbusLogger()
	}
	if err := h.Connect(); err != nil {
		if c.logw != nil {
			c.logw.Close()
		}
		return nil, fmt.Errorf("could not connect to modbus: %w", err)
	}
	return c, nil
}

func (c *Client) Close() error {
	err := c.close()
	if c.logw != nil {
		if lerr := c.logw.Close(); err == nil {
			err = lerr
		}
	}
	return err
}

func (c *Client) ReadValue(address uint16, typ DataType, unitID byte) any {
	return ReadValue(c.t, address, typ, unitID)
}

func (c *Client) ReadAll(regs []Register) []*ReadResult {
	return ReadAll(c.t, regs)
}

// Identity is the SunSpec common block of a device.
type Identity struct {
	Manufacturer any
	Model        any
	Serial       any
}

func (id Identity) String() string {
	return fmt.Sprintf("%v %v (serial %v)", id.Manufacturer, id.Model, id.Serial)
}

// Identify reads manufacturer, model and serial number of a unit. Missing
// fields are Unavailable. Like every string register, each field is cut to
// its first 16 bytes, so long model names come out truncated.
func (c *Client) Identify(unitID byte) Identity {
	return Identity{
		Manufacturer: c.ReadValue(40005, String32, unitID),
		Model:        c.ReadValue(40021, String32, unitID),
		Serial:       c.ReadValue(40053, String32, unitID),
	}
}

// goburrowTransport adapts a goburrow handler, whose unit id is fixed per
// handler, to Transport.
type goburrowTransport struct {
	h *goburrow.TCPClientHandler
	c goburrow.Client
}

func newGoburrowTransport(h *goburrow.TCPClientHandler) *goburrowTransport {
	return &goburrowTransport{h: h, c: goburrow.NewClient(h)}
}

func (t *goburrowTransport) ReadHoldingRegisters(slaveID byte, address, quantity uint16) ([]uint16, error) {
	t.h.SlaveId = slaveID
	data, err := t.c.ReadHoldingRegisters(address, quantity)
	if err != nil {
		return nil, err
	}
	return bytesToWords(data, quantity)
}

func bytesToWords(data []byte, quantity uint16) ([]uint16, error) {
	if len(data) != 2*int(quantity) {
		return nil, fmt.Errorf("expected %d bytes, got %d", 2*int(quantity), len(data))
	}
	words := make([]uint16, quantity)
	for i := range words {
		words[i] = uint16(data[2*i])<<8 | uint16(data[2*i+1])
	}
	return words, nil
}

var _ Transport = (*goburrowTransport)(nil)
var _ Transport = (modbus.Client)(nil)
