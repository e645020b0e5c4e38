package fronius

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed registers.yaml
var defaultRegisters []byte

// DefaultUnit is the Modbus unit id of the inverter itself.
const DefaultUnit = 1

type registerFile struct {
	Registers []registerEntry `yaml:"registers"`
}

type registerEntry struct {
	Address     int      `yaml:"address"`
	Type        DataType `yaml:"type"`
	Unit        *int     `yaml:"unit"`
	Description string   `yaml:"description"`
	Power       bool     `yaml:"power"`
}

// DefaultRegisters returns the built-in register overview.
func DefaultRegisters() ([]Register, error) {
	return ParseRegisters(defaultRegisters)
}

// LoadRegisters reads a register list from a YAML file. An empty path
// selects the built-in list.
func LoadRegisters(path string) ([]Register, error) {
	if path == "" {
		return DefaultRegisters()
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read register list: %w", err)
	}
	regs, err := ParseRegisters(b)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return regs, nil
}

// ParseRegisters decodes and validates a YAML register list.
func ParseRegisters(b []byte) ([]Register, error) {
	var f registerFile
	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("invalid register list: %w", err)
	}
	if len(f.Registers) == 0 {
		return nil, errors.New("register list is empty")
	}

	regs := make([]Register, 0, len(f.Registers))
	for i, e := range f.Registers {
		r, err := e.register()
		if err != nil {
			return nil, fmt.Errorf("register #%d: %w", i+1, err)
		}
		regs = append(regs, r)
	}
	return regs, nil
}

func (e registerEntry) register() (Register, error) {
	n := e.Type.RegisterCount()
	if n == 0 {
		return Register{}, errors.New("missing type")
	}
	if e.Address < 1 {
		return Register{}, fmt.Errorf("address %d must be at least 1", e.Address)
	}
	// last register read is address-1+n-1
	if e.Address > 0xFFFF || e.Address+n-2 > 0xFFFF {
		return Register{}, fmt.Errorf("address %d with %s exceeds the register space", e.Address, e.Type)
	}

	unit := DefaultUnit
	if e.Unit != nil {
		unit = *e.Unit
	}
	if unit < 0 || unit > 0xFF {
		return Register{}, fmt.Errorf("unit id %d out of range 0-255", unit)
	}

	return Register{
		Addr:        uint16(e.Address),
		Type:        e.Type,
		Unit:        byte(unit),
		Description: e.Description,
		Power:       e.Power,
	}, nil
}
