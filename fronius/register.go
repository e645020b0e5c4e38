package fronius

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// Transport reads holding registers from a Modbus device. The things-go
// modbus.Client implements it.
type Transport interface {
	ReadHoldingRegisters(slaveID byte, address, quantity uint16) ([]uint16, error)
}

type unavailable struct{}

func (unavailable) String() string { return "n.a." }

// Unavailable is returned instead of a value when a register could not be
// read or decoded.
var Unavailable fmt.Stringer = unavailable{}

// Register is one entry of the register list. Addr is the one-based
// address from the Fronius register map.
type Register struct {
	Addr        uint16   `yaml:"address"`
	Type        DataType `yaml:"type"`
	Unit        byte     `yaml:"unit"`
	Description string   `yaml:"description,omitempty"`
	Power       bool     `yaml:"power,omitempty"`
}

func (r *Register) String() string {
	return fmt.Sprintf("%d - %s [%s, %d, unit %d]", r.Addr, r.Description, r.Type, r.Type.RegisterCount(), r.Unit)
}

func (r *Register) Read(t Transport) any {
	return ReadValue(t, r.Addr, r.Type, r.Unit)
}

// ReadValue reads and decodes one value. The transport is zero based, so
// address-1 is requested. Address 0 and any read or decode error yield
// Unavailable.
func ReadValue(t Transport, address uint16, typ DataType, unitID byte) any {
	l := logrus.WithFields(logrus.Fields{"address": address, "type": typ, "unit": unitID})
	if address == 0 {
		l.Debug("address 0 is not a register map address")
		return Unavailable
	}

	words, err := t.ReadHoldingRegisters(unitID, address-1, uint16(typ.RegisterCount()))
	if err != nil {
		l.WithError(err).Debug("read failed")
		return Unavailable
	}
	v, err := typ.Decode(words)
	if err != nil {
		l.WithError(err).Debug("decode failed")
		return Unavailable
	}
	return v
}

type ReadResult struct {
	Register Register
	Value    any
}

// ReadAll reads regs in order. Failed registers carry Unavailable.
func ReadAll(t Transport, regs []Register) []*ReadResult {
	m := make([]*ReadResult, 0, len(regs))
	for _, r := range regs {
		m = append(m, &ReadResult{Register: r, Value: r.Read(t)})
	}
	return m
}
