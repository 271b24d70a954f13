package soft

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"time"

	"github.com/arloliu/tdms/errs"
	"github.com/arloliu/tdms/format"
	"gopkg.in/yaml.v3"
)

// Fixture is the YAML description of a decoded file.
//
//	objects:
//	  - path: "/"
//	    properties:
//	      - {name: title, type: tdsTypeString, value: Demo}
//	  - group: Measured
//	    channel: Voltage
//	    type: tdsTypeDoubleFloat
//	    data: [0.5, 1.0, 1.5]
//
// An object is named either by a raw path or by group and channel names.
type Fixture struct {
	Objects []FixtureObject `yaml:"objects"`
}

// FixtureObject is one object of a Fixture.
type FixtureObject struct {
	Path       string            `yaml:"path,omitempty"`
	Group      string            `yaml:"group,omitempty"`
	Channel    string            `yaml:"channel,omitempty"`
	Type       string            `yaml:"type,omitempty"`
	Data       []any             `yaml:"data,omitempty"`
	Properties []FixtureProperty `yaml:"properties,omitempty"`
}

// FixtureProperty is one property of a FixtureObject.
type FixtureProperty struct {
	Name  string `yaml:"name"`
	Type  string `yaml:"type,omitempty"`
	Value any    `yaml:"value"`
}

// YAMLDecoder is a Decoder reading fixture files.
type YAMLDecoder struct{}

var _ Decoder = YAMLDecoder{}

// Decode reads and converts the fixture file at path.
func (YAMLDecoder) Decode(path string) (*Contents, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return LoadYAML(f)
}

// LoadYAML parses a fixture and converts it to contents.
func LoadYAML(r io.Reader) (*Contents, error) {
	var fx Fixture

	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&fx); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse fixture: %w", err)
	}

	return fx.Contents()
}

// ParseYAML is LoadYAML over a byte slice.
func ParseYAML(data []byte) (*Contents, error) {
	return LoadYAML(bytes.NewReader(data))
}

// Contents converts the fixture.
func (fx *Fixture) Contents() (*Contents, error) {
	b := NewBuilder()

	for i, fo := range fx.Objects {
		ob, err := fo.object(b)
		if err != nil {
			return nil, fmt.Errorf("object %d: %w", i, err)
		}

		for _, fp := range fo.Properties {
			t, raw, err := fp.encode()
			if err != nil {
				return nil, fmt.Errorf("%s property %q: %w", ob.contents.Path, fp.Name, err)
			}
			ob.RawProperty(fp.Name, t, raw)
		}

		if fo.Type == "" {
			if len(fo.Data) > 0 {
				return nil, fmt.Errorf("%s: data without type", ob.contents.Path)
			}

			continue
		}

		t, ok := format.ParseDataType(fo.Type)
		if !ok {
			return nil, fmt.Errorf("%s: %w: %q", ob.contents.Path, errs.ErrUnsupportedType, fo.Type)
		}

		if err := setFixtureData(ob, t, fo.Data); err != nil {
			return nil, fmt.Errorf("%s: %w", ob.contents.Path, err)
		}
	}

	return b.Build()
}

func (fo FixtureObject) object(b *Builder) (*ObjectBuilder, error) {
	switch {
	case fo.Path != "":
		if fo.Group != "" || fo.Channel != "" {
			return nil, errors.New("path and group/channel are exclusive")
		}

		return b.Path(fo.Path), nil
	case fo.Channel != "":
		return b.Channel(fo.Group, fo.Channel), nil
	case fo.Group != "":
		return b.Group(fo.Group), nil
	default:
		return nil, errors.New("object needs a path, group or channel")
	}
}

func (fp FixtureProperty) encode() (format.DataType, []byte, error) {
	if fp.Type == "" {
		return format.EncodeValue(fp.Value)
	}

	t, ok := format.ParseDataType(fp.Type)
	if !ok {
		return format.Void, nil, fmt.Errorf("%w: %q", errs.ErrUnsupportedType, fp.Type)
	}

	raw, err := encodeAs(t, fp.Value)

	return t, raw, err
}

func setFixtureData(ob *ObjectBuilder, t format.DataType, values []any) error {
	if t == format.String {
		out := make([]string, len(values))
		for i, v := range values {
			s, ok := v.(string)
			if !ok {
				return fmt.Errorf("%w: value %d is %T, not a string", errs.ErrInvalidValue, i, v)
			}
			out[i] = s
		}
		ob.Strings(out...)

		return nil
	}

	desc := format.Describe(t)
	if !desc.Fixed() {
		return fmt.Errorf("%w: %s data cannot be described in a fixture", errs.ErrUnsupportedType, desc.Name)
	}

	data := make([]byte, 0, len(values)*desc.Width)
	for i, v := range values {
		raw, err := encodeAs(t, v)
		if err != nil {
			return fmt.Errorf("value %d: %w", i, err)
		}
		data = append(data, raw...)
	}
	ob.Raw(t, len(values), data)

	return nil
}

// encodeAs converts a YAML scalar to the Go type of t and encodes it.
func encodeAs(t format.DataType, v any) ([]byte, error) {
	typed, err := coerce(t, v)
	if err != nil {
		return nil, err
	}

	_, raw, err := format.EncodeValue(typed)

	return raw, err
}

func coerce(t format.DataType, v any) (any, error) {
	switch t {
	case format.Int8, format.Int16, format.Int32, format.Int64:
		i, err := toInt(v)
		if err != nil {
			return nil, err
		}

		return narrowInt(t, i)
	case format.Uint8, format.Uint16, format.Uint32, format.Uint64:
		u, err := toUint(v)
		if err != nil {
			return nil, err
		}

		return narrowUint(t, u)
	case format.SingleFloat, format.SingleFloatWithUnit:
		f, err := toFloat(v)
		return float32(f), err
	case format.DoubleFloat, format.DoubleFloatWithUnit:
		return toFloat(v)
	case format.Boolean:
		b, ok := v.(bool)
		if !ok {
			return nil, fmt.Errorf("%w: %v is not a boolean", errs.ErrInvalidValue, v)
		}

		return b, nil
	case format.String:
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("%w: %v is not a string", errs.ErrInvalidValue, v)
		}

		return s, nil
	case format.TimeStamp:
		return toTime(v)
	default:
		return nil, fmt.Errorf("%w: %s", errs.ErrUnsupportedType, t)
	}
}

func toInt(v any) (int64, error) {
	switch x := v.(type) {
	case int:
		return int64(x), nil
	case int64:
		return x, nil
	case uint64:
		if x > math.MaxInt64 {
			return 0, fmt.Errorf("%w: %d overflows int64", errs.ErrInvalidValue, x)
		}

		return int64(x), nil
	case float64:
		if x != math.Trunc(x) {
			return 0, fmt.Errorf("%w: %v is not an integer", errs.ErrInvalidValue, x)
		}

		return int64(x), nil
	default:
		return 0, fmt.Errorf("%w: %v is not an integer", errs.ErrInvalidValue, v)
	}
}

func toUint(v any) (uint64, error) {
	if x, ok := v.(uint64); ok {
		return x, nil
	}

	i, err := toInt(v)
	if err != nil {
		return 0, err
	}

	if i < 0 {
		return 0, fmt.Errorf("%w: %d is negative", errs.ErrInvalidValue, i)
	}

	return uint64(i), nil
}

func narrowInt(t format.DataType, i int64) (any, error) {
	var lo, hi int64
	switch t {
	case format.Int8:
		lo, hi = math.MinInt8, math.MaxInt8
	case format.Int16:
		lo, hi = math.MinInt16, math.MaxInt16
	case format.Int32:
		lo, hi = math.MinInt32, math.MaxInt32
	default:
		return i, nil
	}

	if i < lo || i > hi {
		return nil, fmt.Errorf("%w: %d out of range for %s", errs.ErrInvalidValue, i, t)
	}

	switch t {
	case format.Int8:
		return int8(i), nil
	case format.Int16:
		return int16(i), nil
	default:
		return int32(i), nil
	}
}

func narrowUint(t format.DataType, u uint64) (any, error) {
	var hi uint64
	switch t {
	case format.Uint8:
		hi = math.MaxUint8
	case format.Uint16:
		hi = math.MaxUint16
	case format.Uint32:
		hi = math.MaxUint32
	default:
		return u, nil
	}

	if u > hi {
		return nil, fmt.Errorf("%w: %d out of range for %s", errs.ErrInvalidValue, u, t)
	}

	switch t {
	case format.Uint8:
		return uint8(u), nil
	case format.Uint16:
		return uint16(u), nil
	default:
		return uint32(u), nil
	}
}

func toFloat(v any) (float64, error) {
	switch x := v.(type) {
	case float64:
		return x, nil
	case int:
		return float64(x), nil
	case int64:
		return float64(x), nil
	case uint64:
		return float64(x), nil
	default:
		return 0, fmt.Errorf("%w: %v is not a number", errs.ErrInvalidValue, v)
	}
}

func toTime(v any) (time.Time, error) {
	switch x := v.(type) {
	case time.Time:
		return x.UTC(), nil
	case string:
		t, err := time.Parse(time.RFC3339Nano, x)
		if err != nil {
			return time.Time{}, fmt.Errorf("%w: %v", errs.ErrInvalidValue, err)
		}

		return t.UTC(), nil
	default:
		return time.Time{}, fmt.Errorf("%w: %v is not a timestamp", errs.ErrInvalidValue, v)
	}
}
