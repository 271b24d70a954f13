package tdmsfile

import (
	"sync"
	"testing"
	"time"

	"github.com/arloliu/tdms/encoding"
	"github.com/arloliu/tdms/endian"
	"github.com/arloliu/tdms/engine"
	"github.com/arloliu/tdms/engine/soft"
	"github.com/arloliu/tdms/format"
	"github.com/stretchr/testify/require"
)

// countingBackend records how often the engine is asked for properties and data.
type countingBackend struct {
	engine.Backend

	mu    sync.Mutex
	calls map[string]int
}

func newCountingBackend(b engine.Backend) *countingBackend {
	return &countingBackend{Backend: b, calls: make(map[string]int)}
}

func (c *countingBackend) inc(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.calls[name]++
}

func (c *countingBackend) count(name string) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.calls[name]
}

func (c *countingBackend) Properties(o engine.ObjectRef) engine.PropertyIterator {
	c.inc("properties")
	return c.Backend.Properties(o)
}

func (c *countingBackend) CopyData(o engine.ObjectRef, dst []byte) bool {
	c.inc("copy")
	return c.Backend.CopyData(o, dst)
}

func (c *countingBackend) RawData(o engine.ObjectRef) ([]byte, bool) {
	c.inc("raw")
	return c.Backend.RawData(o)
}

func (c *countingBackend) ObjectByPath(f engine.FileRef, path string) engine.ObjectRef {
	c.inc("lookup")
	return c.Backend.ObjectByPath(f, path)
}

var startTime = time.Date(2021, 6, 1, 12, 0, 0, 0, time.UTC)

func demoContents(t *testing.T) *soft.Contents {
	t.Helper()

	b := soft.NewBuilder()
	b.Root().Property("title", "membership")
	b.Group("A").Property("description", "first group")
	soft.SetData(b.Channel("A", "x"), []float64{0.5, 1.5, 2.5, 3.5, 4.5}).
		Property("unit_string", "V").
		Property("wf_increment", 0.1).
		Property("wf_start_offset", 0.0).
		Property("wf_start_time", startTime).
		RawProperty("daq", format.DAQmxRawData, []byte{1, 2, 3, 4})
	soft.SetData(b.Channel("AB", "y"), []int32{7, -8, 9})
	b.Channel("AB", "names").Strings("alpha", "beta")
	b.Channel("AB", "flags").Bools(true, false, true)
	b.Channel("AB", "stamps").Raw(format.TimeStamp, 1, make([]byte, 16))
	b.Channel("AB", "scaled").Raw(format.DoubleFloatWithUnit, 2,
		encoding.Append(nil, []float64{1.25, 2.5}, endian.Little()))
	b.Path("not a path")

	contents, err := b.Build()
	require.NoError(t, err)

	return contents
}

func demoBackend(t *testing.T) *countingBackend {
	t.Helper()

	catalog := soft.NewCatalog()
	catalog.Add("demo.tdms", demoContents(t))

	e, err := soft.New(catalog)
	require.NoError(t, err)

	return newCountingBackend(e)
}

func openDemo(t *testing.T, opts ...Option) (*File, *countingBackend) {
	t.Helper()

	backend := demoBackend(t)
	f, err := Open("demo.tdms", append([]Option{WithEngine(backend)}, opts...)...)
	require.NoError(t, err)

	return f, backend
}
