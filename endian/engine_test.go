package endian

import (
	"encoding/binary"
	"testing"
	"unsafe"

	"github.com/stretchr/testify/require"
)

func TestNative(t *testing.T) {
	var v uint16 = 0x0102
	b := (*[2]byte)(unsafe.Pointer(&v))

	switch b[0] {
	case 0x01:
		require.Equal(t, BigEndian, Native())
		require.False(t, IsNativeLittleEndian())
	case 0x02:
		require.Equal(t, LittleEndian, Native())
		require.True(t, IsNativeLittleEndian())
	default:
		require.Failf(t, "unexpected byte value", "got: %v", b[0])
	}

	require.True(t, Native().IsNative())
}

func TestOrder_Engine(t *testing.T) {
	require.Equal(t, binary.LittleEndian, LittleEndian.Engine())
	require.Equal(t, binary.BigEndian, BigEndian.Engine())
	require.Equal(t, binary.LittleEndian, Little())

	buf := LittleEndian.Engine().AppendUint32(nil, 0x01020304)
	require.Equal(t, []byte{0x04, 0x03, 0x02, 0x01}, buf)
	require.Equal(t, uint32(0x01020304), BigEndian.Engine().Uint32([]byte{0x01, 0x02, 0x03, 0x04}))
}

func TestOrder_String(t *testing.T) {
	require.Equal(t, "little-endian", LittleEndian.String())
	require.Equal(t, "big-endian", BigEndian.String())
	require.Equal(t, byte('<'), LittleEndian.Prefix())
	require.Equal(t, byte('>'), BigEndian.Prefix())
}
