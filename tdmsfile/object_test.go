package tdmsfile

import (
	"testing"

	"github.com/arloliu/tdms/endian"
	"github.com/arloliu/tdms/errs"
	"github.com/arloliu/tdms/format"
	"github.com/stretchr/testify/require"
)

func TestObject_Properties_LoadOnce(t *testing.T) {
	f, backend := openDemo(t)
	defer f.Close()

	o, err := f.Object("A", "x")
	require.NoError(t, err)
	require.Zero(t, backend.count("properties"))

	p1, err := o.Properties()
	require.NoError(t, err)
	p2, err := o.Properties()
	require.NoError(t, err)

	require.Same(t, p1, p2)
	require.Equal(t, 1, backend.count("properties"))

	_, err = o.Property("unit_string")
	require.NoError(t, err)
	require.Equal(t, 1, backend.count("properties"))
}

func TestObject_Properties_Contents(t *testing.T) {
	f, _ := openDemo(t)
	defer f.Close()

	o, err := f.Object("A", "x")
	require.NoError(t, err)

	props, err := o.Properties()
	require.NoError(t, err)
	require.Equal(t, 5, props.Len())
	require.Equal(t, []string{
		"daq", "unit_string", "wf_increment", "wf_start_offset", "wf_start_time",
	}, props.Names())
	require.True(t, props.Has("daq"))
	require.False(t, props.Has("missing"))

	unit, err := o.Property("unit_string")
	require.NoError(t, err)
	s, ok := unit.Text()
	require.True(t, ok)
	require.Equal(t, "V", s)

	start, err := o.Property("wf_start_time")
	require.NoError(t, err)
	ts, ok := start.Time()
	require.True(t, ok)
	require.Equal(t, startTime, ts)

	// A property that cannot be decoded fails alone.
	_, err = o.Property("daq")
	require.ErrorIs(t, err, errs.ErrUnsupportedType)
	require.Contains(t, props.Errors(), "daq")

	_, err = o.Property("missing")
	require.ErrorIs(t, err, errs.ErrNotFound)

	var names []string
	for name := range props.All() {
		names = append(names, name)
	}
	require.NotContains(t, names, "daq")
	require.Len(t, names, 4)
}

func TestObject_Metadata(t *testing.T) {
	f, _ := openDemo(t)
	defer f.Close()

	o, err := f.Object("AB", "y")
	require.NoError(t, err)

	n, err := o.SampleCount()
	require.NoError(t, err)
	require.Equal(t, 3, n)

	desc, err := o.Descriptor()
	require.NoError(t, err)
	require.Equal(t, format.Int32, desc.Type)

	has, err := o.HasData()
	require.NoError(t, err)
	require.True(t, has)

	g, err := f.Object("AB")
	require.NoError(t, err)
	has, err = g.HasData()
	require.NoError(t, err)
	require.False(t, has)

	arr, err := g.Data()
	require.NoError(t, err)
	require.Equal(t, 0, arr.Len())
	require.Equal(t, format.Void, arr.DataType())

	components, err := o.Components()
	require.NoError(t, err)
	require.Equal(t, []string{"AB", "y"}, components)
}

func TestObject_Data_CopyByDefault(t *testing.T) {
	f, backend := openDemo(t)
	defer f.Close()

	o, err := f.Object("AB", "y")
	require.NoError(t, err)

	arr, err := o.Data()
	require.NoError(t, err)
	require.False(t, arr.Borrowed())
	require.Equal(t, 1, backend.count("copy"))
	require.Zero(t, backend.count("raw"))

	again, err := o.Data()
	require.NoError(t, err)
	require.Same(t, arr, again)
	require.Equal(t, 1, backend.count("copy"))

	rows, cols := arr.Shape()
	require.Equal(t, 3, rows)
	require.Equal(t, 1, cols)
	require.Equal(t, endian.LittleEndian, arr.ByteOrder())
	require.Equal(t, format.Int32, arr.DataType())

	vals, err := Values[int32](arr)
	require.NoError(t, err)
	require.Equal(t, []int32{7, -8, 9}, vals)

	fl, err := arr.Float64s()
	require.NoError(t, err)
	require.Equal(t, []float64{7, -8, 9}, fl)

	_, err = Values[float64](arr)
	require.ErrorIs(t, err, errs.ErrUnsupportedType)
	_, err = arr.Strings()
	require.ErrorIs(t, err, errs.ErrUnsupportedType)
	_, err = arr.Bools()
	require.ErrorIs(t, err, errs.ErrUnsupportedType)
}

func TestObject_Data_AliasMatchesCopy(t *testing.T) {
	f, _ := openDemo(t)
	defer f.Close()

	for _, path := range [][]string{{"A", "x"}, {"AB", "y"}, {"AB", "flags"}} {
		o, err := f.Object(path...)
		require.NoError(t, err)

		owned, err := o.Data()
		require.NoError(t, err)
		view, err := o.DataView()
		require.NoError(t, err)
		require.True(t, view.Borrowed())
		require.True(t, view.Valid())

		ownedBytes, err := owned.Bytes()
		require.NoError(t, err)
		viewBytes, err := view.Bytes()
		require.NoError(t, err)
		require.Equal(t, ownedBytes, viewBytes)
		require.Equal(t, owned.Len(), view.Len())
		require.Equal(t, owned.DataType(), view.DataType())
	}
}

func TestObject_Data_ZeroCopy(t *testing.T) {
	f, backend := openDemo(t, WithZeroCopy(true))
	defer f.Close()

	o, err := f.Object("A", "x")
	require.NoError(t, err)

	arr, err := o.Data()
	require.NoError(t, err)
	require.True(t, arr.Borrowed())
	require.Zero(t, backend.count("copy"))

	vals, err := Values[float64](arr)
	require.NoError(t, err)
	require.Equal(t, []float64{0.5, 1.5, 2.5, 3.5, 4.5}, vals)

	again, err := o.Data()
	require.NoError(t, err)
	require.Same(t, arr, again)
	require.Equal(t, 1, backend.count("raw"))

	// Strings are never aliased.
	names, err := f.Object("AB", "names")
	require.NoError(t, err)
	sarr, err := names.Data()
	require.NoError(t, err)
	require.False(t, sarr.Borrowed())
}

func TestObject_Data_SpecialTypes(t *testing.T) {
	f, _ := openDemo(t)
	defer f.Close()

	names, err := f.ChannelData("AB", "names")
	require.NoError(t, err)
	strs, err := names.Strings()
	require.NoError(t, err)
	require.Equal(t, []string{"alpha", "beta"}, strs)
	_, err = names.Bytes()
	require.ErrorIs(t, err, errs.ErrUnsupportedType)

	flags, err := f.ChannelData("AB", "flags")
	require.NoError(t, err)
	bools, err := flags.Bools()
	require.NoError(t, err)
	require.Equal(t, []bool{true, false, true}, bools)
	_, err = flags.Float64s()
	require.ErrorIs(t, err, errs.ErrUnsupportedType)

	_, err = f.ChannelData("AB", "stamps")
	require.ErrorIs(t, err, errs.ErrUnimplemented)

	stamps, err := f.Object("AB", "stamps")
	require.NoError(t, err)
	_, err = stamps.DataView()
	require.ErrorIs(t, err, errs.ErrUnsupportedType)
}

func TestObject_Data_UnitFloatsCopied(t *testing.T) {
	for _, zeroCopy := range []bool{false, true} {
		f, backend := openDemo(t, WithZeroCopy(zeroCopy))

		scaled, err := f.ChannelData("AB", "scaled")
		require.NoError(t, err)
		require.False(t, scaled.Borrowed())
		require.Equal(t, format.DoubleFloatWithUnit, scaled.DataType())
		require.Equal(t, 2, scaled.Len())
		require.Zero(t, backend.count("raw"))

		vals, err := Values[float64](scaled)
		require.NoError(t, err)
		require.Equal(t, []float64{1.25, 2.5}, vals)

		o, err := f.Object("AB", "scaled")
		require.NoError(t, err)
		_, err = o.DataView()
		require.ErrorIs(t, err, errs.ErrUnsupportedType)

		require.NoError(t, f.Close())
	}
}

func TestArray_Values_CopyIsIndependent(t *testing.T) {
	f, _ := openDemo(t)
	defer f.Close()

	arr, err := f.ChannelData("AB", "y")
	require.NoError(t, err)

	vals, err := Values[int32](arr)
	require.NoError(t, err)
	vals[0] = 100

	again, err := f.ChannelData("AB", "y")
	require.NoError(t, err)
	fresh, err := Values[int32](again)
	require.NoError(t, err)
	require.Equal(t, []int32{7, -8, 9}, fresh)

	view, err := ValuesView[int32](arr)
	require.NoError(t, err)
	require.Equal(t, []int32{7, -8, 9}, view)

	_, err = ValuesView[float64](arr)
	require.ErrorIs(t, err, errs.ErrUnsupportedType)
}

func TestArray_ValuesView_Borrowed(t *testing.T) {
	f, _ := openDemo(t)

	o, err := f.Object("A", "x")
	require.NoError(t, err)
	view, err := o.DataView()
	require.NoError(t, err)

	vals, err := ValuesView[float64](view)
	require.NoError(t, err)
	require.Equal(t, []float64{0.5, 1.5, 2.5, 3.5, 4.5}, vals)

	require.NoError(t, f.Close())
	_, err = ValuesView[float64](view)
	require.ErrorIs(t, err, errs.ErrClosed)
}
