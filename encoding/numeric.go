package encoding

import (
	"errors"
	"fmt"
	"unsafe"

	"github.com/arloliu/tdms/endian"
)

// ErrNotViewable is returned by View when a buffer cannot be reinterpreted in place.
var ErrNotViewable = errors.New("buffer cannot be viewed in place")

// Number is the set of element types a TDMS numeric channel maps to.
type Number interface {
	~int8 | ~int16 | ~int32 | ~int64 |
		~uint8 | ~uint16 | ~uint32 | ~uint64 |
		~float32 | ~float64
}

// SizeOf returns the byte size of one element of T.
func SizeOf[T Number]() int {
	var zero T
	return int(unsafe.Sizeof(zero))
}

// View reinterprets a little-endian buffer as a slice of T without copying.
//
// Caution: the returned slice shares memory with data. It must not be used after the owner
// of data releases it, and writes through it modify data.
func View[T Number](data []byte) ([]T, error) {
	size := SizeOf[T]()
	if len(data)%size != 0 {
		return nil, fmt.Errorf("%w: length %d is not a multiple of %d", ErrNotViewable, len(data), size)
	}

	if len(data) == 0 {
		return []T{}, nil
	}

	if !endian.IsNativeLittleEndian() && size > 1 {
		return nil, fmt.Errorf("%w: host byte order is %s", ErrNotViewable, endian.Native())
	}

	ptr := unsafe.Pointer(&data[0])
	if uintptr(ptr)%uintptr(size) != 0 {
		return nil, fmt.Errorf("%w: buffer is not %d-byte aligned", ErrNotViewable, size)
	}

	return unsafe.Slice((*T)(ptr), len(data)/size), nil
}

// Decode copies a buffer encoded with the given byte order into a new slice of T.
func Decode[T Number](data []byte, engine endian.EndianEngine) ([]T, error) {
	size := SizeOf[T]()
	if len(data)%size != 0 {
		return nil, fmt.Errorf("length %d is not a multiple of %d", len(data), size)
	}

	out := make([]T, len(data)/size)
	for i := range out {
		b := data[i*size : (i+1)*size]
		dst := unsafe.Pointer(&out[i])

		switch size {
		case 1:
			*(*uint8)(dst) = b[0]
		case 2:
			*(*uint16)(dst) = engine.Uint16(b)
		case 4:
			*(*uint32)(dst) = engine.Uint32(b)
		case 8:
			*(*uint64)(dst) = engine.Uint64(b)
		}
	}

	return out, nil
}

// Bools decodes one byte per sample, any non-zero byte being true.
func Bools(data []byte) []bool {
	out := make([]bool, len(data))
	for i, b := range data {
		out[i] = b != 0
	}

	return out
}

// Append encodes values with the given byte order and appends them to dst.
func Append[T Number](dst []byte, values []T, engine endian.EndianEngine) []byte {
	size := SizeOf[T]()
	for i := range values {
		src := unsafe.Pointer(&values[i])

		switch size {
		case 1:
			dst = append(dst, *(*uint8)(src))
		case 2:
			dst = engine.AppendUint16(dst, *(*uint16)(src))
		case 4:
			dst = engine.AppendUint32(dst, *(*uint32)(src))
		case 8:
			dst = engine.AppendUint64(dst, *(*uint64)(src))
		}
	}

	return dst
}
