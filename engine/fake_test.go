package engine

import (
	"sort"

	"github.com/arloliu/tdms/format"
)

type fakeObject struct {
	count   int
	dtype   format.DataType
	data    []byte
	strings []string
	props    map[string]fakeProp
	noAlias  bool
	aliasErr string
}

type fakeProp struct {
	typ  format.DataType
	raw  []byte
	bad  bool
	kind error
}

type fakeFile struct {
	paths   []string
	objects map[string]*fakeObject
}

// fakeBackend serves fixed files and records how it was called.
type fakeBackend struct {
	files    map[string]*fakeFile
	lastErr  string
	lastKind error
	closes   int
	opens    int
}

func (b *fakeBackend) Name() string { return "fake" }

func (b *fakeBackend) Open(path string) FileRef {
	b.opens++
	f, ok := b.files[path]
	if !ok {
		b.lastErr = "no such file: " + path
		return nil
	}

	return f
}

func (b *fakeBackend) Close(FileRef) { b.closes++ }

type slicePaths struct {
	paths []string
	i     int
}

func (s *slicePaths) Next() (string, bool) {
	if s.i >= len(s.paths) {
		return "", false
	}
	s.i++

	return s.paths[s.i-1], true
}

func (s *slicePaths) Close() {}

func (b *fakeBackend) ObjectPaths(f FileRef) PathIterator {
	return &slicePaths{paths: f.(*fakeFile).paths}
}

func (b *fakeBackend) ObjectByPath(f FileRef, path string) ObjectRef {
	o, ok := f.(*fakeFile).objects[path]
	if !ok {
		b.lastErr = "object not found"
		return nil
	}

	return o
}

func (b *fakeBackend) SampleCount(o ObjectRef) (int, bool) {
	return o.(*fakeObject).count, true
}

func (b *fakeBackend) DataType(o ObjectRef) (format.DataType, bool) {
	return o.(*fakeObject).dtype, true
}

type fakeProps struct {
	b     *fakeBackend
	names []string
	props map[string]fakeProp
	i     int
}

func (p *fakeProps) Next() bool {
	p.i++
	return p.i <= len(p.names)
}

func (p *fakeProps) Name() string          { return p.names[p.i-1] }
func (p *fakeProps) Type() format.DataType { return p.props[p.Name()].typ }

func (p *fakeProps) Value() ([]byte, bool) {
	prop := p.props[p.Name()]
	if prop.bad {
		p.b.lastErr = "unreadable " + p.Name()
		p.b.lastKind = prop.kind

		return nil, false
	}

	return prop.raw, true
}

func (p *fakeProps) Close() {}

func (b *fakeBackend) Properties(o ObjectRef) PropertyIterator {
	obj := o.(*fakeObject)
	names := make([]string, 0, len(obj.props))
	for name := range obj.props {
		names = append(names, name)
	}
	sort.Strings(names)

	return &fakeProps{b: b, names: names, props: obj.props}
}

func (b *fakeBackend) CopyData(o ObjectRef, dst []byte) bool {
	copy(dst, o.(*fakeObject).data)
	return true
}

func (b *fakeBackend) StringData(o ObjectRef) ([]string, bool) {
	obj := o.(*fakeObject)
	if obj.dtype != format.String {
		b.lastErr = "not a string channel"
		return nil, false
	}

	return obj.strings, true
}

func (b *fakeBackend) RawData(o ObjectRef) ([]byte, bool) {
	obj := o.(*fakeObject)
	if obj.noAlias {
		b.lastErr = obj.aliasErr
		return nil, false
	}

	return obj.data, true
}

func (b *fakeBackend) LastError() string { return b.lastErr }

func (b *fakeBackend) LastErrorKind() error {
	kind := b.lastKind
	b.lastKind = nil

	return kind
}

func newFakeBackend() *fakeBackend {
	_, unit, _ := format.EncodeValue("V")
	_, gain, _ := format.EncodeValue(2.5)

	return &fakeBackend{
		files: map[string]*fakeFile{
			"a.tdms": {
				paths: []string{"/", "/'g'", "/'g'/'c'", "/'g'/'s'"},
				objects: map[string]*fakeObject{
					"/":    {dtype: format.Void},
					"/'g'": {dtype: format.Void},
					"/'g'/'c'": {
						count: 3,
						dtype: format.Int16,
						data:  []byte{1, 0, 2, 0, 0xFF, 0xFF},
						props: map[string]fakeProp{
							"unit_string": {typ: format.String, raw: unit},
							"gain":        {typ: format.DoubleFloat, raw: gain},
							"broken":      {typ: format.TimeStamp, bad: true},
						},
					},
					"/'g'/'s'": {
						count:   2,
						dtype:   format.String,
						strings: []string{"a", "b"},
					},
				},
			},
		},
	}
}
