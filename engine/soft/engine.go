package soft

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/arloliu/tdms/engine"
	"github.com/arloliu/tdms/format"
	"github.com/arloliu/tdms/internal/collision"
	"github.com/arloliu/tdms/internal/hash"
	"github.com/arloliu/tdms/internal/options"
	"go.uber.org/zap"
)

// Name is the name the software engine reports.
const Name = "soft"

// Decoder turns the file at path into its decoded contents.
type Decoder interface {
	Decode(path string) (*Contents, error)
}

// DecoderFunc adapts a function to the Decoder interface.
type DecoderFunc func(path string) (*Contents, error)

func (f DecoderFunc) Decode(path string) (*Contents, error) {
	return f(path)
}

// Option configures an Engine.
type Option = options.Option[*Engine]

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger *zap.Logger) Option {
	return options.NoError(func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	})
}

// Engine serves engine.Backend from decoded contents.
//
// Engine is not safe for concurrent use on its own; engine.Adapter serialises calls.
type Engine struct {
	decoder Decoder
	logger  *zap.Logger
	lastErr string
}

var _ engine.Backend = (*Engine)(nil)

// New creates a software engine reading files through decoder.
func New(decoder Decoder, opts ...Option) (*Engine, error) {
	if decoder == nil {
		return nil, errors.New("soft engine: decoder is nil")
	}

	e := &Engine{decoder: decoder, logger: zap.NewNop()}
	if err := options.Apply(e, opts...); err != nil {
		return nil, err
	}

	return e, nil
}

type file struct {
	path    string
	objects []*object
	index   map[uint64][]int
}

type object struct {
	contents *ObjectContents
	props    []Property
}

func (e *Engine) Name() string { return Name }

func (e *Engine) LastError() string { return e.lastErr }

func (e *Engine) setErr(msg string, args ...any) {
	e.lastErr = fmt.Sprintf(msg, args...)
}

func (e *Engine) Open(path string) engine.FileRef {
	contents, err := e.decoder.Decode(path)
	if err != nil {
		e.setErr("decode %s: %v", path, err)
		return nil
	}

	if err := contents.Validate(); err != nil {
		e.setErr("decode %s: %v", path, err)
		return nil
	}

	f, err := e.index(path, contents)
	if err != nil {
		e.setErr("index %s: %v", path, err)
		return nil
	}

	return f
}

func (e *Engine) index(path string, contents *Contents) (*file, error) {
	tracker := collision.NewTracker()
	f := &file{
		path:    path,
		objects: make([]*object, 0, len(contents.Objects)),
		index:   make(map[uint64][]int, len(contents.Objects)),
	}

	for i := range contents.Objects {
		oc := &contents.Objects[i]
		id := hash.ID(oc.Path)
		if err := tracker.Track(oc.Path, id); err != nil {
			return nil, err
		}

		props := slices.Clone(oc.Properties)
		slices.SortStableFunc(props, func(a, b Property) int {
			return strings.Compare(a.Name, b.Name)
		})

		f.index[id] = append(f.index[id], len(f.objects))
		f.objects = append(f.objects, &object{contents: oc, props: props})
	}

	if tracker.HasCollision() {
		e.logger.Debug("object path hash collision", zap.String("file", path))
	}

	e.logger.Debug("file indexed", zap.String("file", path), zap.Int("objects", tracker.Count()))

	return f, nil
}

func (e *Engine) Close(engine.FileRef) {}

type pathIterator struct {
	objects []*object
	pos     int
}

func (it *pathIterator) Next() (string, bool) {
	if it.pos >= len(it.objects) {
		return "", false
	}
	it.pos++

	return it.objects[it.pos-1].contents.Path, true
}

func (it *pathIterator) Close() { it.objects = nil }

func (e *Engine) ObjectPaths(f engine.FileRef) engine.PathIterator {
	sf, ok := f.(*file)
	if !ok {
		e.setErr("not a soft engine file")
		return nil
	}

	return &pathIterator{objects: sf.objects}
}

func (e *Engine) ObjectByPath(f engine.FileRef, path string) engine.ObjectRef {
	sf, ok := f.(*file)
	if !ok {
		e.setErr("not a soft engine file")
		return nil
	}

	for _, i := range sf.index[hash.ID(path)] {
		if sf.objects[i].contents.Path == path {
			return sf.objects[i]
		}
	}

	e.setErr("object %s not found in %s", path, sf.path)

	return nil
}

func (e *Engine) object(o engine.ObjectRef) (*object, bool) {
	obj, ok := o.(*object)
	if !ok {
		e.setErr("not a soft engine object")
	}

	return obj, ok
}

func (e *Engine) SampleCount(o engine.ObjectRef) (int, bool) {
	obj, ok := e.object(o)
	if !ok {
		return 0, false
	}

	return obj.contents.Count, true
}

func (e *Engine) DataType(o engine.ObjectRef) (format.DataType, bool) {
	obj, ok := e.object(o)
	if !ok {
		return format.Void, false
	}

	return obj.contents.DataType, true
}

type propertyIterator struct {
	props []Property
	pos   int
}

func (it *propertyIterator) Next() bool {
	if it.pos >= len(it.props) {
		return false
	}
	it.pos++

	return true
}

func (it *propertyIterator) Name() string          { return it.props[it.pos-1].Name }
func (it *propertyIterator) Type() format.DataType { return it.props[it.pos-1].Type }

func (it *propertyIterator) Value() ([]byte, bool) {
	return it.props[it.pos-1].Raw, true
}

func (it *propertyIterator) Close() { it.props = nil }

func (e *Engine) Properties(o engine.ObjectRef) engine.PropertyIterator {
	obj, ok := e.object(o)
	if !ok {
		return nil
	}

	return &propertyIterator{props: obj.props}
}

func (e *Engine) CopyData(o engine.ObjectRef, dst []byte) bool {
	obj, ok := e.object(o)
	if !ok {
		return false
	}

	if len(dst) != len(obj.contents.Data) {
		e.setErr("copy data %s: destination holds %d bytes, data has %d", obj.contents.Path, len(dst), len(obj.contents.Data))
		return false
	}
	copy(dst, obj.contents.Data)

	return true
}

func (e *Engine) StringData(o engine.ObjectRef) ([]string, bool) {
	obj, ok := e.object(o)
	if !ok {
		return nil, false
	}

	if obj.contents.DataType != format.String {
		e.setErr("string data %s: data type is %s", obj.contents.Path, obj.contents.DataType)
		return nil, false
	}

	return slices.Clone(obj.contents.Strings), true
}

func (e *Engine) RawData(o engine.ObjectRef) ([]byte, bool) {
	obj, ok := e.object(o)
	if !ok {
		return nil, false
	}

	if obj.contents.Data == nil && obj.contents.Count > 0 {
		e.lastErr = ""
		return nil, false
	}

	return obj.contents.Data, true
}
