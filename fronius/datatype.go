package fronius

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"strings"
	"unicode/utf8"

	"gopkg.in/yaml.v3"
)

// DataType is the register type as listed in the Fronius register maps
// (column "Type").
type DataType int

const (
	String8 DataType = iota + 1
	String16
	String32
	Int16
	UInt16
	Int32
	UInt32
	Float32
	UInt64
)

// stringFieldLen is the number of bytes kept from any string register.
const stringFieldLen = 16

var dataTypeNames = map[DataType]string{
	String8:  "String8",
	String16: "String16",
	String32: "String32",
	Int16:    "Int16",
	UInt16:   "UInt16",
	Int32:    "Int32",
	UInt32:   "UInt32",
	Float32:  "Float32",
	UInt64:   "UInt64",
}

// ErrShortPayload is returned when fewer words than the type spans were read.
var ErrShortPayload = errors.New("short register payload")

func (t DataType) String() string {
	if n, ok := dataTypeNames[t]; ok {
		return n
	}
	return fmt.Sprintf("DataType(%d)", int(t))
}

// RegisterCount returns how many 16-bit registers a value of this type
// spans (column "Size" of the register map). Unknown types span 0.
func (t DataType) RegisterCount() int {
	switch t {
	case String8, UInt64:
		return 4
	case String16:
		return 8
	case String32:
		return 16
	case Int16, UInt16:
		return 1
	case Int32, UInt32, Float32:
		return 2
	default:
		return 0
	}
}

// ParseDataType maps a register map type name, e.g. "Float32", to its DataType.
// Matching is case-insensitive.
func ParseDataType(s string) (DataType, error) {
	for t, n := range dataTypeNames {
		if strings.EqualFold(n, strings.TrimSpace(s)) {
			return t, nil
		}
	}
	return 0, fmt.Errorf("unknown data type %q", s)
}

func (t DataType) MarshalYAML() (interface{}, error) {
	return t.String(), nil
}

func (t *DataType) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	dt, err := ParseDataType(s)
	if err != nil {
		return fmt.Errorf("line %d: %w", value.Line, err)
	}
	*t = dt
	return nil
}

// Decode converts the raw registers to a Go value. Registers are big endian
// and the most significant register comes first.
func (t DataType) Decode(words []uint16) (any, error) {
	n := t.RegisterCount()
	if n == 0 {
		return nil, fmt.Errorf("cannot decode %s", t)
	}
	if len(words) < n {
		return nil, fmt.Errorf("%s needs %d registers, got %d: %w", t, n, len(words), ErrShortPayload)
	}
	data := make([]byte, 2*n)
	for i, w := range words[:n] {
		binary.BigEndian.PutUint16(data[2*i:], w)
	}

	switch t {
	case String8, String16, String32:
		return decodeString(data)
	case Int16:
		return int16(binary.BigEndian.Uint16(data)), nil
	case UInt16:
		return binary.BigEndian.Uint16(data), nil
	case Int32:
		return int32(binary.BigEndian.Uint32(data)), nil
	case UInt32:
		return binary.BigEndian.Uint32(data), nil
	case Float32:
		return math.Float32frombits(binary.BigEndian.Uint32(data)), nil
	case UInt64:
		return binary.BigEndian.Uint64(data), nil
	}
	return nil, fmt.Errorf("cannot decode %s", t)
}

func decodeString(data []byte) (string, error) {
	field := make([]byte, stringFieldLen)
	copy(field, data)
	if !utf8.Valid(field) {
		return "", errors.New("string register is not valid utf-8")
	}
	return strings.TrimRight(string(field), "\x00 "), nil
}
