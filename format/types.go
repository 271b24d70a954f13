// Package format defines the TDMS data type tags and the registry describing them.
//
// Every property value and every channel in a TDMS file carries a 32-bit type tag. The
// registry maps a tag to a Descriptor telling the rest of the library how wide a value is,
// whether a single value can be decoded, and which Go element type an array of samples maps
// to. The registry is a fixed table built once at package initialisation and never mutated.
//
// # Tag families
//
// Fixed-width numeric types (signed and unsigned 8/16/32/64-bit integers, single and double
// floats) and booleans have an array element representation and may be viewed in place:
//
//	desc := format.Describe(format.Int32)
//	desc.Width      // 4
//	desc.Element    // format.ElementInt32
//	desc.Aliasable() // true
//
// Unit-suffixed floats share the float element types but are only ever copied. Strings,
// timestamps, extended floats and DAQmx raw data have no array element at all; some of
// them still decode as single property values.
//
// Unknown tags never fail a lookup; they describe as unsupported so discovery of a file with
// exotic types keeps working, and only an actual decode request reports the problem.
package format

import (
	"fmt"
	"strings"
)

// DataType is the 32-bit type tag stored in TDMS metadata.
type DataType uint32

const (
	Void                  DataType = 0x00
	Int8                  DataType = 0x01
	Int16                 DataType = 0x02
	Int32                 DataType = 0x03
	Int64                 DataType = 0x04
	Uint8                 DataType = 0x05
	Uint16                DataType = 0x06
	Uint32                DataType = 0x07
	Uint64                DataType = 0x08
	SingleFloat           DataType = 0x09
	DoubleFloat           DataType = 0x0A
	ExtendedFloat         DataType = 0x0B
	DoubleFloatWithUnit   DataType = 0x0C
	ExtendedFloatWithUnit DataType = 0x0D
	SingleFloatWithUnit   DataType = 0x19
	String                DataType = 0x20
	Boolean               DataType = 0x21
	TimeStamp             DataType = 0x44
	DAQmxRawData          DataType = 0xFFFFFFFF
)

var typeNames = map[DataType]string{
	Void:                  "tdsTypeVoid",
	Int8:                  "tdsTypeI8",
	Int16:                 "tdsTypeI16",
	Int32:                 "tdsTypeI32",
	Int64:                 "tdsTypeI64",
	Uint8:                 "tdsTypeU8",
	Uint16:                "tdsTypeU16",
	Uint32:                "tdsTypeU32",
	Uint64:                "tdsTypeU64",
	SingleFloat:           "tdsTypeSingleFloat",
	DoubleFloat:           "tdsTypeDoubleFloat",
	ExtendedFloat:         "tdsTypeExtendedFloat",
	DoubleFloatWithUnit:   "tdsTypeDoubleFloatWithUnit",
	ExtendedFloatWithUnit: "tdsTypeExtendedFloatWithUnit",
	SingleFloatWithUnit:   "tdsTypeSingleFloatWithUnit",
	String:                "tdsTypeString",
	Boolean:               "tdsTypeBoolean",
	TimeStamp:             "tdsTypeTimeStamp",
	DAQmxRawData:          "tdsTypeDAQmxRawData",
}

var typesByName = func() map[string]DataType {
	m := make(map[string]DataType, len(typeNames))
	for t, name := range typeNames {
		m[name] = t
	}

	return m
}()

// String returns the engine name of the tag, e.g. "tdsTypeI32".
func (t DataType) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}

	return fmt.Sprintf("tdsTypeUnknown(0x%X)", uint32(t))
}

// Known reports whether the tag is one of the defined TDMS types.
func (t DataType) Known() bool {
	_, ok := typeNames[t]
	return ok
}

// ParseDataType maps an engine type name back to its tag.
//
// Names are matched exactly first, then case-insensitively.
func ParseDataType(name string) (DataType, bool) {
	if t, ok := typesByName[name]; ok {
		return t, true
	}

	for n, t := range typesByName {
		if strings.EqualFold(n, name) {
			return t, true
		}
	}

	return Void, false
}
