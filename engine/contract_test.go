package engine_test

import (
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/arloliu/tdms/encoding"
	"github.com/arloliu/tdms/endian"
	"github.com/arloliu/tdms/engine"
	"github.com/arloliu/tdms/engine/soft"
	"github.com/arloliu/tdms/errs"
	"github.com/arloliu/tdms/format"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const contractFile = "contract.tdms"

func contractContents(t *testing.T) *soft.Contents {
	t.Helper()

	b := soft.NewBuilder()
	b.Root().Property("title", "contract").Property("author", "bench")
	b.Group("g").Property("zeta", int32(1)).Property("alpha", "first")
	soft.SetData(b.Channel("g", "c"), []int16{1, 2, -1}).
		Property("unit_string", "V").
		Property("gain", 2.5).
		Property("wf_start_time", time.Date(2020, 1, 2, 3, 4, 5, 0, time.UTC))
	soft.SetData(b.Channel("g", "f"), []float64{0.5, -1.5})
	b.Channel("g", "s").Strings("a", "b")
	b.Channel("g", "u").Raw(format.DoubleFloatWithUnit, 2,
		encoding.Append(nil, []float64{1.25, 2.5}, endian.Little()))
	b.Channel("g", "t").Raw(format.TimeStamp, 1, make([]byte, 16))

	contents, err := b.Build()
	require.NoError(t, err)

	return contents
}

// mapBackend serves Contents from maps, independently of the soft engine's index.
type mapBackend struct {
	paths   []string
	objects map[string]*soft.ObjectContents
	lastErr string
}

func newMapBackend(contents *soft.Contents) *mapBackend {
	b := &mapBackend{objects: make(map[string]*soft.ObjectContents)}
	for i := range contents.Objects {
		o := &contents.Objects[i]
		b.paths = append(b.paths, o.Path)
		b.objects[o.Path] = o
	}

	return b
}

func (b *mapBackend) Name() string { return "map" }

func (b *mapBackend) LastError() string { return b.lastErr }

func (b *mapBackend) Close(engine.FileRef) {}

func (b *mapBackend) Open(path string) engine.FileRef {
	if path != contractFile {
		b.lastErr = "no such file"
		return nil
	}

	return b
}

type mapPaths struct{ paths []string }

func (p *mapPaths) Next() (string, bool) {
	if len(p.paths) == 0 {
		return "", false
	}
	next := p.paths[0]
	p.paths = p.paths[1:]

	return next, true
}

func (p *mapPaths) Close() {}

func (b *mapBackend) ObjectPaths(engine.FileRef) engine.PathIterator {
	return &mapPaths{paths: b.paths}
}

func (b *mapBackend) ObjectByPath(_ engine.FileRef, path string) engine.ObjectRef {
	o, ok := b.objects[path]
	if !ok {
		b.lastErr = "object not found"
		return nil
	}

	return o
}

func (b *mapBackend) SampleCount(o engine.ObjectRef) (int, bool) {
	return o.(*soft.ObjectContents).Count, true
}

func (b *mapBackend) DataType(o engine.ObjectRef) (format.DataType, bool) {
	return o.(*soft.ObjectContents).DataType, true
}

type mapProps struct {
	props []soft.Property
	pos   int
}

func (p *mapProps) Next() bool {
	p.pos++
	return p.pos <= len(p.props)
}

func (p *mapProps) Name() string { return p.props[p.pos-1].Name }

func (p *mapProps) Type() format.DataType { return p.props[p.pos-1].Type }

func (p *mapProps) Value() ([]byte, bool) { return p.props[p.pos-1].Raw, true }

func (p *mapProps) Close() {}

func (b *mapBackend) Properties(o engine.ObjectRef) engine.PropertyIterator {
	byName := make(map[string]soft.Property)
	for _, p := range o.(*soft.ObjectContents).Properties {
		byName[p.Name] = p
	}

	names := make([]string, 0, len(byName))
	for name := range byName {
		names = append(names, name)
	}
	sort.Strings(names)

	props := make([]soft.Property, len(names))
	for i, name := range names {
		props[i] = byName[name]
	}

	return &mapProps{props: props}
}

func (b *mapBackend) CopyData(o engine.ObjectRef, dst []byte) bool {
	copy(dst, o.(*soft.ObjectContents).Data)
	return true
}

func (b *mapBackend) StringData(o engine.ObjectRef) ([]string, bool) {
	return o.(*soft.ObjectContents).Strings, true
}

func (b *mapBackend) RawData(o engine.ObjectRef) ([]byte, bool) {
	return o.(*soft.ObjectContents).Data, true
}

// engineReport is everything two engines must agree on for the same file.
type engineReport struct {
	Paths      []string
	Properties map[string][]string
	Refused    []string
	Data       map[string][]byte
}

func reportEngine(t *testing.T, backend engine.Backend) engineReport {
	t.Helper()

	a := engine.NewAdapter(backend, zap.NewNop())
	h, err := a.Open(contractFile)
	require.NoError(t, err)
	defer func() { require.NoError(t, a.Close(h)) }()

	paths, err := a.ObjectPaths(h)
	require.NoError(t, err)

	r := engineReport{
		Paths:      paths,
		Properties: make(map[string][]string),
		Data:       make(map[string][]byte),
	}

	for _, p := range paths {
		o, err := a.Lookup(h, p)
		require.NoError(t, err)

		props, err := o.Properties()
		require.NoError(t, err)
		for _, prop := range props {
			require.NoError(t, prop.Err)
			r.Properties[p] = append(r.Properties[p], prop.Name)
		}

		view, err := o.Alias()
		if err != nil {
			require.True(t, errors.Is(err, errs.ErrUnsupportedType), "%s: %v", p, err)
			r.Refused = append(r.Refused, p)

			continue
		}

		aliased, err := view.Bytes()
		require.NoError(t, err)

		copied := make([]byte, view.Len()*view.Descriptor().Width)
		require.NoError(t, o.Materialize(copied))
		require.Equal(t, copied, aliased, p)

		r.Data[p] = copied
	}

	return r
}

func TestBackend_Contract(t *testing.T) {
	tests := []struct {
		name    string
		backend func(t *testing.T) engine.Backend
	}{
		{
			name: "map",
			backend: func(t *testing.T) engine.Backend {
				return newMapBackend(contractContents(t))
			},
		},
		{
			name: "soft",
			backend: func(t *testing.T) engine.Backend {
				catalog := soft.NewCatalog()
				catalog.Add(contractFile, contractContents(t))

				e, err := soft.New(catalog)
				require.NoError(t, err)

				return e
			},
		},
	}

	want := engineReport{
		Paths: []string{"/", "/'g'", "/'g'/'c'", "/'g'/'f'", "/'g'/'s'", "/'g'/'u'", "/'g'/'t'"},
		Properties: map[string][]string{
			"/":        {"author", "title"},
			"/'g'":     {"alpha", "zeta"},
			"/'g'/'c'": {"gain", "unit_string", "wf_start_time"},
		},
		Refused: []string{"/", "/'g'", "/'g'/'s'", "/'g'/'u'", "/'g'/'t'"},
		Data: map[string][]byte{
			"/'g'/'c'": encoding.Append(nil, []int16{1, 2, -1}, endian.Little()),
			"/'g'/'f'": encoding.Append(nil, []float64{0.5, -1.5}, endian.Little()),
		},
	}

	reports := make([]engineReport, len(tests))
	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reports[i] = reportEngine(t, tt.backend(t))
			if diff := cmp.Diff(want, reports[i]); diff != "" {
				t.Fatalf("report mismatch (-want +got):\n%s", diff)
			}
		})
	}

	if diff := cmp.Diff(reports[0], reports[1]); diff != "" {
		t.Fatalf("engines disagree (-map +soft):\n%s", diff)
	}
}

func TestBackend_Contract_CopyOnlyTypes(t *testing.T) {
	catalog := soft.NewCatalog()
	catalog.Add(contractFile, contractContents(t))

	e, err := soft.New(catalog)
	require.NoError(t, err)

	a := engine.NewAdapter(e, nil)
	h, err := a.Open(contractFile)
	require.NoError(t, err)

	o, err := a.Lookup(h, "/'g'/'u'")
	require.NoError(t, err)

	_, err = o.Alias()
	require.ErrorIs(t, err, errs.ErrUnsupportedType)

	buf := make([]byte, 16)
	require.NoError(t, o.Materialize(buf))
	vals, err := encoding.Decode[float64](buf, endian.Little())
	require.NoError(t, err)
	require.Equal(t, []float64{1.25, 2.5}, vals)
}
