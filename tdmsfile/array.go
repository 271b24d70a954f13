package tdmsfile

import (
	"fmt"

	"github.com/arloliu/tdms/encoding"
	"github.com/arloliu/tdms/endian"
	"github.com/arloliu/tdms/engine"
	"github.com/arloliu/tdms/errs"
	"github.com/arloliu/tdms/format"
)

// Array is the data of one object: a single column of samples.
//
// Numeric and boolean samples are kept as little-endian bytes, either owned by the Array
// or borrowed from the engine. String samples are always owned.
type Array struct {
	desc     format.Descriptor
	count    int
	data     []byte
	strings  []string
	borrowed *engine.Borrowed
}

// Len returns the number of samples.
func (a *Array) Len() int {
	return a.count
}

// Shape returns (Len, 1).
func (a *Array) Shape() (rows, cols int) {
	return a.count, 1
}

// DataType returns the type tag of the samples.
func (a *Array) DataType() format.DataType {
	return a.desc.Type
}

// Descriptor returns the type of the samples.
func (a *Array) Descriptor() format.Descriptor {
	return a.desc
}

// ByteOrder returns the byte order of Bytes, which is always little-endian.
func (a *Array) ByteOrder() endian.Order {
	return endian.LittleEndian
}

// Borrowed reports whether the samples live in engine memory.
func (a *Array) Borrowed() bool {
	return a.borrowed != nil
}

// Valid reports whether the samples can still be read. Owned arrays are always valid;
// borrowed ones until their file is closed.
func (a *Array) Valid() bool {
	return a.borrowed == nil || a.borrowed.Valid()
}

// Bytes returns the raw little-endian samples.
//
// Caution: the slice is the Array's own buffer and is read-only; writing to it changes
// what every later Data call returns. For a borrowed array it aliases engine memory and
// must not be used after the file is closed.
func (a *Array) Bytes() ([]byte, error) {
	if a.desc.Type == format.String {
		return nil, fmt.Errorf("%w: string samples have no fixed layout", errs.ErrUnsupportedType)
	}

	if a.borrowed != nil {
		return a.borrowed.Bytes()
	}

	return a.data, nil
}

// Strings returns the samples of a string channel.
func (a *Array) Strings() ([]string, error) {
	if a.desc.Type != format.String {
		return nil, fmt.Errorf("%w: %s is not a string type", errs.ErrUnsupportedType, a.desc.Name)
	}

	return a.strings, nil
}

// Bools returns a copy of the samples of a boolean channel.
func (a *Array) Bools() ([]bool, error) {
	if a.desc.Element != format.ElementBool {
		return nil, fmt.Errorf("%w: %s is not a boolean type", errs.ErrUnsupportedType, a.desc.Name)
	}

	var out []bool
	err := a.read(func(data []byte) error {
		out = encoding.Bools(data)
		return nil
	})

	return out, err
}

// Float64s returns a copy of numeric samples converted to float64.
func (a *Array) Float64s() ([]float64, error) {
	switch a.desc.Element {
	case format.ElementInt8:
		return convert[int8](a)
	case format.ElementInt16:
		return convert[int16](a)
	case format.ElementInt32:
		return convert[int32](a)
	case format.ElementInt64:
		return convert[int64](a)
	case format.ElementUint8:
		return convert[uint8](a)
	case format.ElementUint16:
		return convert[uint16](a)
	case format.ElementUint32:
		return convert[uint32](a)
	case format.ElementUint64:
		return convert[uint64](a)
	case format.ElementFloat32:
		return convert[float32](a)
	case format.ElementFloat64:
		return convert[float64](a)
	default:
		return nil, fmt.Errorf("%w: %s is not numeric", errs.ErrUnsupportedType, a.desc.Name)
	}
}

// Values returns a copy of the samples as a slice of T, which must match the element type.
// The result outlives the file and may be modified freely.
func Values[T encoding.Number](a *Array) ([]T, error) {
	if err := checkElement[T](a.desc); err != nil {
		return nil, err
	}

	var out []T
	err := a.read(func(data []byte) error {
		var err error
		out, err = encoding.Decode[T](data, endian.Little())

		return err
	})

	return out, err
}

// ValuesView returns the samples as a slice of T sharing memory with the Array, falling
// back to a copy when the host is big-endian or the buffer is misaligned.
//
// Caution: the result is read-only. Writing to it changes what every later Data call
// returns, and for a borrowed array it must not be used after the file is closed.
func ValuesView[T encoding.Number](a *Array) ([]T, error) {
	if err := checkElement[T](a.desc); err != nil {
		return nil, err
	}

	data, err := a.Bytes()
	if err != nil {
		return nil, err
	}

	if v, err := encoding.View[T](data); err == nil {
		return v, nil
	}

	return encoding.Decode[T](data, endian.Little())
}

// read calls fn with the sample bytes, holding a borrowed file open meanwhile.
func (a *Array) read(fn func([]byte) error) error {
	if a.borrowed != nil {
		return a.borrowed.Do(fn)
	}

	return fn(a.data)
}

func convert[T encoding.Number](a *Array) ([]float64, error) {
	var out []float64
	err := a.read(func(data []byte) error {
		vals, err := encoding.Decode[T](data, endian.Little())
		if err != nil {
			return err
		}

		out = make([]float64, len(vals))
		for i, v := range vals {
			out[i] = float64(v)
		}

		return nil
	})

	return out, err
}

func checkElement[T encoding.Number](desc format.Descriptor) error {
	var zero T

	var want format.Element
	switch any(zero).(type) {
	case int8:
		want = format.ElementInt8
	case int16:
		want = format.ElementInt16
	case int32:
		want = format.ElementInt32
	case int64:
		want = format.ElementInt64
	case uint8:
		want = format.ElementUint8
	case uint16:
		want = format.ElementUint16
	case uint32:
		want = format.ElementUint32
	case uint64:
		want = format.ElementUint64
	case float32:
		want = format.ElementFloat32
	case float64:
		want = format.ElementFloat64
	}

	if desc.Element != want || want == format.ElementNone {
		return fmt.Errorf("%w: %s samples requested as %T", errs.ErrUnsupportedType, desc.Name, zero)
	}

	return nil
}
