package format

import (
	"fmt"
	"math"
	"time"

	"github.com/arloliu/tdms/endian"
	"github.com/arloliu/tdms/errs"
)

// TDMS timestamps count seconds from 1904-01-01 00:00:00 UTC.
const labviewEpochOffset = -2082844800

var le = endian.Little()

// Value is a decoded property value together with its type tag.
type Value struct {
	typ DataType
	v   any
}

// NewValue wraps an already decoded Go value.
func NewValue(t DataType, v any) Value {
	return Value{typ: t, v: v}
}

// Type returns the type tag the value was decoded from.
func (v Value) Type() DataType {
	return v.typ
}

// Any returns the decoded Go value: a sized integer, float32, float64, bool, string or
// time.Time. It is nil for the zero Value.
func (v Value) Any() any {
	return v.v
}

// IsZero reports whether v holds no decoded value.
func (v Value) IsZero() bool {
	return v.v == nil
}

// Float64 converts any numeric value to float64.
func (v Value) Float64() (float64, bool) {
	switch x := v.v.(type) {
	case float64:
		return x, true
	case float32:
		return float64(x), true
	case int8:
		return float64(x), true
	case int16:
		return float64(x), true
	case int32:
		return float64(x), true
	case int64:
		return float64(x), true
	case uint8:
		return float64(x), true
	case uint16:
		return float64(x), true
	case uint32:
		return float64(x), true
	case uint64:
		return float64(x), true
	default:
		return 0, false
	}
}

// Int64 converts any integer value that fits to int64.
func (v Value) Int64() (int64, bool) {
	switch x := v.v.(type) {
	case int8:
		return int64(x), true
	case int16:
		return int64(x), true
	case int32:
		return int64(x), true
	case int64:
		return x, true
	case uint8:
		return int64(x), true
	case uint16:
		return int64(x), true
	case uint32:
		return int64(x), true
	case uint64:
		if x > math.MaxInt64 {
			return 0, false
		}

		return int64(x), true
	default:
		return 0, false
	}
}

// Uint64 converts any non-negative integer value to uint64.
func (v Value) Uint64() (uint64, bool) {
	if x, ok := v.v.(uint64); ok {
		return x, true
	}

	i, ok := v.Int64()
	if !ok || i < 0 {
		return 0, false
	}

	return uint64(i), true
}

// Text returns the value of a string property.
func (v Value) Text() (string, bool) {
	s, ok := v.v.(string)
	return s, ok
}

// Bool returns the value of a boolean property.
func (v Value) Bool() (bool, bool) {
	b, ok := v.v.(bool)
	return b, ok
}

// Time returns the value of a timestamp property.
func (v Value) Time() (time.Time, bool) {
	t, ok := v.v.(time.Time)
	return t, ok
}

func (v Value) String() string {
	if v.v == nil {
		return "<nil>"
	}

	return fmt.Sprint(v.v)
}

// EncodeValue encodes a Go value into its TDMS type tag and little-endian raw bytes.
//
// Supported inputs are the sized integers, float32, float64, bool, string and time.Time.
// A plain int is encoded as Int64.
func EncodeValue(v any) (DataType, []byte, error) {
	switch x := v.(type) {
	case int8:
		return Int8, []byte{byte(x)}, nil
	case int16:
		return Int16, le.AppendUint16(nil, uint16(x)), nil
	case int32:
		return Int32, le.AppendUint32(nil, uint32(x)), nil
	case int64:
		return Int64, le.AppendUint64(nil, uint64(x)), nil
	case int:
		return Int64, le.AppendUint64(nil, uint64(x)), nil
	case uint8:
		return Uint8, []byte{x}, nil
	case uint16:
		return Uint16, le.AppendUint16(nil, x), nil
	case uint32:
		return Uint32, le.AppendUint32(nil, x), nil
	case uint64:
		return Uint64, le.AppendUint64(nil, x), nil
	case float32:
		return SingleFloat, le.AppendUint32(nil, math.Float32bits(x)), nil
	case float64:
		return DoubleFloat, le.AppendUint64(nil, math.Float64bits(x)), nil
	case bool:
		if x {
			return Boolean, []byte{1}, nil
		}

		return Boolean, []byte{0}, nil
	case string:
		return String, []byte(x), nil
	case time.Time:
		return TimeStamp, encodeTimestamp(x), nil
	default:
		return Void, nil, fmt.Errorf("%w: cannot encode Go type %T", errs.ErrUnsupportedType, v)
	}
}

func decodeInt8(raw []byte) (any, error)    { return int8(raw[0]), nil }
func decodeInt16(raw []byte) (any, error)   { return int16(le.Uint16(raw)), nil }
func decodeInt32(raw []byte) (any, error)   { return int32(le.Uint32(raw)), nil }
func decodeInt64(raw []byte) (any, error)   { return int64(le.Uint64(raw)), nil }
func decodeUint8(raw []byte) (any, error)   { return raw[0], nil }
func decodeUint16(raw []byte) (any, error)  { return le.Uint16(raw), nil }
func decodeUint32(raw []byte) (any, error)  { return le.Uint32(raw), nil }
func decodeUint64(raw []byte) (any, error)  { return le.Uint64(raw), nil }
func decodeBool(raw []byte) (any, error)    { return raw[0] != 0, nil }
func decodeString(raw []byte) (any, error)  { return string(raw), nil }
func decodeFloat32(raw []byte) (any, error) { return math.Float32frombits(le.Uint32(raw)), nil }
func decodeFloat64(raw []byte) (any, error) { return math.Float64frombits(le.Uint64(raw)), nil }

// decodeTimestamp reads the 16-byte TDMS timestamp: uint64 fractions of 2^-64 seconds
// followed by int64 seconds since the 1904 epoch.
func decodeTimestamp(raw []byte) (any, error) {
	fractions := le.Uint64(raw[0:8])
	seconds := int64(le.Uint64(raw[8:16]))
	nanos := ((fractions>>32)*1_000_000_000 + 1<<31) >> 32

	return time.Unix(seconds+labviewEpochOffset, int64(nanos)).UTC(), nil
}

func encodeTimestamp(t time.Time) []byte {
	seconds := t.Unix() - labviewEpochOffset
	fractions := (uint64(t.Nanosecond()) << 32 / 1_000_000_000) << 32

	buf := le.AppendUint64(make([]byte, 0, 16), fractions)

	return le.AppendUint64(buf, uint64(seconds))
}

// decodeExtended converts an x87 80-bit extended float to the nearest float64.
func decodeExtended(raw []byte) (any, error) {
	if len(raw) < 10 {
		return nil, fmt.Errorf("%w: extended float needs 10 bytes, got %d", errs.ErrInvalidValue, len(raw))
	}

	mantissa := le.Uint64(raw[0:8])
	signExp := le.Uint16(raw[8:10])
	negative := signExp&0x8000 != 0
	exp := int(signExp & 0x7FFF)

	var f float64
	switch {
	case exp == 0x7FFF:
		if mantissa<<1 == 0 {
			f = math.Inf(1)
		} else {
			return math.NaN(), nil
		}
	case exp == 0 && mantissa == 0:
		f = 0
	default:
		if exp == 0 {
			exp = 1
		}
		f = math.Ldexp(float64(mantissa), exp-16383-63)
	}

	if negative {
		f = -f
	}

	return f, nil
}
