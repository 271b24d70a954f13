package encoding

import (
	"math"
	"testing"

	"github.com/arloliu/tdms/endian"
	"github.com/stretchr/testify/require"
)

func TestAppendDecode_RoundTrip(t *testing.T) {
	engine := endian.Little()

	ints := []int32{0, 1, -1, math.MaxInt32, math.MinInt32}
	decodedInts, err := Decode[int32](Append(nil, ints, engine), engine)
	require.NoError(t, err)
	require.Equal(t, ints, decodedInts)

	floats := []float64{0, 1.5, -2.25, math.Inf(1), math.SmallestNonzeroFloat64}
	decodedFloats, err := Decode[float64](Append(nil, floats, engine), engine)
	require.NoError(t, err)
	require.Equal(t, floats, decodedFloats)

	bytes := []int8{-128, 0, 127}
	decodedBytes, err := Decode[int8](Append(nil, bytes, engine), engine)
	require.NoError(t, err)
	require.Equal(t, bytes, decodedBytes)
}

func TestAppend_LittleEndianLayout(t *testing.T) {
	buf := Append(nil, []uint16{0x0102, 0x0304}, endian.Little())
	require.Equal(t, []byte{0x02, 0x01, 0x04, 0x03}, buf)

	buf = Append(nil, []uint16{0x0102}, endian.BigEndian.Engine())
	require.Equal(t, []byte{0x01, 0x02}, buf)
}

func TestDecode_LengthMismatch(t *testing.T) {
	_, err := Decode[int32]([]byte{1, 2, 3}, endian.Little())
	require.Error(t, err)
}

func TestView_MatchesDecode(t *testing.T) {
	if !endian.IsNativeLittleEndian() {
		t.Skip("in-place views need a little-endian host")
	}

	values := make([]float64, 64)
	for i := range values {
		values[i] = float64(i) * 0.5
	}

	// make([]byte) backing arrays are at least 8-byte aligned.
	raw := Append(make([]byte, 0, len(values)*8), values, endian.Little())

	view, err := View[float64](raw)
	require.NoError(t, err)
	require.Equal(t, values, view)

	// The view aliases the buffer.
	raw[0], raw[1], raw[2], raw[3], raw[4], raw[5], raw[6], raw[7] = 0, 0, 0, 0, 0, 0, 0xF0, 0x3F
	require.Equal(t, 1.0, view[0])
}

func TestView_Refusals(t *testing.T) {
	_, err := View[int32]([]byte{1, 2, 3})
	require.ErrorIs(t, err, ErrNotViewable)

	if endian.IsNativeLittleEndian() {
		raw := make([]byte, 9)
		_, err = View[int64](raw[1:])
		require.ErrorIs(t, err, ErrNotViewable)
	}

	empty, err := View[int64](nil)
	require.NoError(t, err)
	require.Empty(t, empty)
}

func TestBools(t *testing.T) {
	require.Equal(t, []bool{false, true, true}, Bools([]byte{0, 1, 0xFF}))
}

func TestSizeOf(t *testing.T) {
	require.Equal(t, 1, SizeOf[uint8]())
	require.Equal(t, 2, SizeOf[int16]())
	require.Equal(t, 4, SizeOf[float32]())
	require.Equal(t, 8, SizeOf[uint64]())
}
