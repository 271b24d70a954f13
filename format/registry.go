package format

import (
	"fmt"

	"github.com/arloliu/tdms/errs"
)

// Variable is the Width of types without a fixed byte size.
const Variable = -1

// Element is the in-memory representation of one array sample.
type Element uint8

const (
	ElementNone Element = iota // ElementNone marks types without an array representation.
	ElementInt8
	ElementInt16
	ElementInt32
	ElementInt64
	ElementUint8
	ElementUint16
	ElementUint32
	ElementUint64
	ElementFloat32
	ElementFloat64
	ElementBool
)

var elementNames = [...]string{
	ElementNone:    "none",
	ElementInt8:    "int8",
	ElementInt16:   "int16",
	ElementInt32:   "int32",
	ElementInt64:   "int64",
	ElementUint8:   "uint8",
	ElementUint16:  "uint16",
	ElementUint32:  "uint32",
	ElementUint64:  "uint64",
	ElementFloat32: "float32",
	ElementFloat64: "float64",
	ElementBool:    "bool",
}

func (e Element) String() string {
	if int(e) < len(elementNames) {
		return elementNames[e]
	}

	return "unknown"
}

// Size returns the byte size of one element, 0 for ElementNone.
func (e Element) Size() int {
	switch e {
	case ElementInt8, ElementUint8, ElementBool:
		return 1
	case ElementInt16, ElementUint16:
		return 2
	case ElementInt32, ElementUint32, ElementFloat32:
		return 4
	case ElementInt64, ElementUint64, ElementFloat64:
		return 8
	default:
		return 0
	}
}

type decodeFunc func(raw []byte) (any, error)

// Descriptor describes how a TDMS data type is stored and read.
type Descriptor struct {
	// Type is the tag this descriptor was looked up with.
	Type DataType
	// Name is the engine name of the type.
	Name string
	// Width is the byte size of one value, or Variable.
	Width int
	// Element is the array element representation, ElementNone if the type has none.
	Element Element
	// Supported reports whether a single value of this type can be decoded.
	Supported bool

	aliasable bool
	decode    decodeFunc
}

// Fixed reports whether values of the type have a fixed byte width.
func (d Descriptor) Fixed() bool {
	return d.Width != Variable
}

// HasArray reports whether sample data of this type can be copied into an array of Element.
func (d Descriptor) HasArray() bool {
	return d.Element != ElementNone
}

// Aliasable reports whether sample data of this type may be viewed in place as an array.
// Unit-suffixed floats have an array representation but are never aliased.
func (d Descriptor) Aliasable() bool {
	return d.aliasable
}

// Decode decodes a single little-endian raw value of the described type.
func (d Descriptor) Decode(raw []byte) (Value, error) {
	if !d.Supported || d.decode == nil {
		return Value{}, fmt.Errorf("%w: cannot decode %s (tag 0x%X)", errs.ErrUnsupportedType, d.Name, uint32(d.Type))
	}

	if d.Fixed() && len(raw) < d.Width {
		return Value{}, fmt.Errorf("%w: %s needs %d bytes, got %d", errs.ErrInvalidValue, d.Name, d.Width, len(raw))
	}

	v, err := d.decode(raw)
	if err != nil {
		return Value{}, err
	}

	return Value{typ: d.Type, v: v}, nil
}

var registry = map[DataType]Descriptor{
	Void:                  {Width: 0},
	Int8:                  {Width: 1, Element: ElementInt8, Supported: true, aliasable: true, decode: decodeInt8},
	Int16:                 {Width: 2, Element: ElementInt16, Supported: true, aliasable: true, decode: decodeInt16},
	Int32:                 {Width: 4, Element: ElementInt32, Supported: true, aliasable: true, decode: decodeInt32},
	Int64:                 {Width: 8, Element: ElementInt64, Supported: true, aliasable: true, decode: decodeInt64},
	Uint8:                 {Width: 1, Element: ElementUint8, Supported: true, aliasable: true, decode: decodeUint8},
	Uint16:                {Width: 2, Element: ElementUint16, Supported: true, aliasable: true, decode: decodeUint16},
	Uint32:                {Width: 4, Element: ElementUint32, Supported: true, aliasable: true, decode: decodeUint32},
	Uint64:                {Width: 8, Element: ElementUint64, Supported: true, aliasable: true, decode: decodeUint64},
	SingleFloat:           {Width: 4, Element: ElementFloat32, Supported: true, aliasable: true, decode: decodeFloat32},
	DoubleFloat:           {Width: 8, Element: ElementFloat64, Supported: true, aliasable: true, decode: decodeFloat64},
	Boolean:               {Width: 1, Element: ElementBool, Supported: true, aliasable: true, decode: decodeBool},
	ExtendedFloat:         {Width: Variable, Supported: true, decode: decodeExtended},
	ExtendedFloatWithUnit: {Width: Variable, Supported: true, decode: decodeExtended},
	SingleFloatWithUnit:   {Width: 4, Element: ElementFloat32, Supported: true, decode: decodeFloat32},
	DoubleFloatWithUnit:   {Width: 8, Element: ElementFloat64, Supported: true, decode: decodeFloat64},
	String:                {Width: Variable, Supported: true, decode: decodeString},
	TimeStamp:             {Width: 16, Supported: true, decode: decodeTimestamp},
	DAQmxRawData:          {Width: Variable},
}

func init() {
	for t, d := range registry {
		d.Type = t
		d.Name = t.String()
		registry[t] = d
	}
}

// Describe returns the descriptor of a type tag.
//
// Describe is total: a tag outside the table yields an unsupported descriptor of variable
// width instead of an error.
func Describe(t DataType) Descriptor {
	if d, ok := registry[t]; ok {
		return d
	}

	return Descriptor{Type: t, Name: t.String(), Width: Variable}
}

// DecodeValue decodes a single little-endian raw value of type t.
func DecodeValue(t DataType, raw []byte) (Value, error) {
	return Describe(t).Decode(raw)
}
