// Package soft implements a pure Go decoding engine.
//
// The engine does not parse TDMS segments itself. A Decoder turns a file into Contents,
// the fully decoded object list, and the engine serves the engine.Backend contract from it.
// Catalog serves Contents built in memory with Builder; YAMLDecoder reads fixture files.
package soft

import (
	"fmt"

	"github.com/arloliu/tdms/errs"
	"github.com/arloliu/tdms/format"
)

// Contents is the decoded object list of one file, in discovery order.
type Contents struct {
	Objects []ObjectContents
}

// ObjectContents is one decoded object.
type ObjectContents struct {
	// Path is the raw object path as the file stores it.
	Path string
	// DataType is the type of the data, Void for objects without data.
	DataType format.DataType
	// Count is the number of data values.
	Count int
	// Data holds the little-endian bytes of fixed-width data.
	Data []byte
	// Strings holds the values of string data.
	Strings []string
	// Properties in any order; the engine reports them sorted by name.
	Properties []Property
}

// Property is one raw property value.
type Property struct {
	Name string
	Type format.DataType
	Raw  []byte
}

// Validate checks that the data of every object agrees with its count and type.
func (c *Contents) Validate() error {
	for i := range c.Objects {
		if err := c.Objects[i].validate(); err != nil {
			return err
		}
	}

	return nil
}

func (o *ObjectContents) validate() error {
	if o.Count < 0 {
		return fmt.Errorf("%w: %s has negative count %d", errs.ErrDataSize, o.Path, o.Count)
	}

	desc := format.Describe(o.DataType)
	switch {
	case o.DataType == format.Void:
		if o.Count != 0 {
			return fmt.Errorf("%w: %s has %d values but no data type", errs.ErrDataSize, o.Path, o.Count)
		}
	case o.DataType == format.String:
		if len(o.Strings) != o.Count {
			return fmt.Errorf("%w: %s has %d strings, count is %d", errs.ErrDataSize, o.Path, len(o.Strings), o.Count)
		}
	case desc.Fixed():
		if want := o.Count * desc.Width; len(o.Data) != want {
			return fmt.Errorf("%w: %s has %d bytes, want %d", errs.ErrDataSize, o.Path, len(o.Data), want)
		}
	}

	return nil
}
