package soft

import (
	"errors"
	"fmt"

	"github.com/arloliu/tdms/encoding"
	"github.com/arloliu/tdms/endian"
	"github.com/arloliu/tdms/errs"
	"github.com/arloliu/tdms/format"
	"github.com/arloliu/tdms/objpath"
)

// Builder assembles Contents in memory.
//
// Objects are recorded in the order they are first named. Errors are collected and
// reported by Build, so calls can be chained.
type Builder struct {
	objects  []*ObjectBuilder
	byPath   map[string]*ObjectBuilder
	failures []error
}

// ObjectBuilder sets the data and properties of one object.
type ObjectBuilder struct {
	b        *Builder
	contents ObjectContents
}

// NewBuilder returns an empty builder.
func NewBuilder() *Builder {
	return &Builder{byPath: make(map[string]*ObjectBuilder)}
}

// Root returns the file-root object.
func (b *Builder) Root() *ObjectBuilder {
	return b.Path(objpath.RootPath)
}

// Group returns the group object with the given name.
func (b *Builder) Group(name string) *ObjectBuilder {
	return b.Path(objpath.Encode(name))
}

// Channel returns the channel object and records its group first if needed.
func (b *Builder) Channel(group, name string) *ObjectBuilder {
	b.Group(group)
	return b.Path(objpath.Encode(group, name))
}

// Path returns the object with a raw path, which need not be well formed.
func (b *Builder) Path(path string) *ObjectBuilder {
	if ob, ok := b.byPath[path]; ok {
		return ob
	}

	ob := &ObjectBuilder{b: b, contents: ObjectContents{Path: path, DataType: format.Void}}
	b.byPath[path] = ob
	b.objects = append(b.objects, ob)

	return ob
}

// Build returns the assembled contents, or every error recorded while building.
func (b *Builder) Build() (*Contents, error) {
	if len(b.failures) > 0 {
		return nil, errors.Join(b.failures...)
	}

	c := &Contents{Objects: make([]ObjectContents, 0, len(b.objects))}
	for _, ob := range b.objects {
		c.Objects = append(c.Objects, ob.contents)
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}

	return c, nil
}

func (ob *ObjectBuilder) fail(err error) *ObjectBuilder {
	ob.b.failures = append(ob.b.failures, fmt.Errorf("%s: %w", ob.contents.Path, err))
	return ob
}

// Property sets a property from a Go value. See format.EncodeValue for the accepted types.
func (ob *ObjectBuilder) Property(name string, v any) *ObjectBuilder {
	t, raw, err := format.EncodeValue(v)
	if err != nil {
		return ob.fail(err)
	}

	return ob.RawProperty(name, t, raw)
}

// RawProperty sets a property from its type tag and raw bytes, replacing any earlier value.
func (ob *ObjectBuilder) RawProperty(name string, t format.DataType, raw []byte) *ObjectBuilder {
	for i := range ob.contents.Properties {
		if ob.contents.Properties[i].Name == name {
			ob.contents.Properties[i] = Property{Name: name, Type: t, Raw: raw}
			return ob
		}
	}

	ob.contents.Properties = append(ob.contents.Properties, Property{Name: name, Type: t, Raw: raw})

	return ob
}

// Raw sets data from its type tag, value count and little-endian bytes.
func (ob *ObjectBuilder) Raw(t format.DataType, count int, data []byte) *ObjectBuilder {
	ob.contents.DataType = t
	ob.contents.Count = count
	ob.contents.Data = data
	ob.contents.Strings = nil

	return ob
}

// Strings sets string data.
func (ob *ObjectBuilder) Strings(values ...string) *ObjectBuilder {
	ob.contents.DataType = format.String
	ob.contents.Count = len(values)
	ob.contents.Data = nil
	ob.contents.Strings = values

	return ob
}

// Bools sets boolean data, one byte per value.
func (ob *ObjectBuilder) Bools(values ...bool) *ObjectBuilder {
	data := make([]byte, len(values))
	for i, v := range values {
		if v {
			data[i] = 1
		}
	}

	return ob.Raw(format.Boolean, len(values), data)
}

// SetData sets numeric data, inferring the type tag from T.
func SetData[T encoding.Number](ob *ObjectBuilder, values []T) *ObjectBuilder {
	t, err := dataTypeOf[T]()
	if err != nil {
		return ob.fail(err)
	}

	return ob.Raw(t, len(values), encoding.Append(nil, values, endian.Little()))
}

func dataTypeOf[T encoding.Number]() (format.DataType, error) {
	var zero T
	switch any(zero).(type) {
	case int8:
		return format.Int8, nil
	case int16:
		return format.Int16, nil
	case int32:
		return format.Int32, nil
	case int64:
		return format.Int64, nil
	case uint8:
		return format.Uint8, nil
	case uint16:
		return format.Uint16, nil
	case uint32:
		return format.Uint32, nil
	case uint64:
		return format.Uint64, nil
	case float32:
		return format.SingleFloat, nil
	case float64:
		return format.DoubleFloat, nil
	default:
		return format.Void, fmt.Errorf("%w: %T", errs.ErrUnsupportedType, zero)
	}
}
