package tdmsfile

import (
	"fmt"
	"iter"

	"github.com/arloliu/tdms/engine"
	"github.com/arloliu/tdms/errs"
	"github.com/arloliu/tdms/format"
)

// Properties is the ordered property mapping of an object.
//
// A value the engine could not read or that failed to decode is kept with its error: Get
// returns the error for that name while every other property stays usable.
type Properties struct {
	entries []propertyEntry
	index   map[string]int
}

type propertyEntry struct {
	name  string
	value format.Value
	err   error
}

func decodeProperties(raw []engine.RawProperty) *Properties {
	p := &Properties{
		entries: make([]propertyEntry, 0, len(raw)),
		index:   make(map[string]int, len(raw)),
	}

	for _, rp := range raw {
		e := propertyEntry{name: rp.Name, err: rp.Err}
		if e.err == nil {
			v, err := format.DecodeValue(rp.Type, rp.Raw)
			if err != nil {
				err = fmt.Errorf("property %q: %w", rp.Name, err)
			}
			e.value, e.err = v, err
		}

		if i, ok := p.index[rp.Name]; ok {
			p.entries[i] = e
			continue
		}

		p.index[rp.Name] = len(p.entries)
		p.entries = append(p.entries, e)
	}

	return p
}

// Len returns the number of properties, including ones that failed to decode.
func (p *Properties) Len() int {
	return len(p.entries)
}

// Names returns the property names in engine order.
func (p *Properties) Names() []string {
	names := make([]string, len(p.entries))
	for i, e := range p.entries {
		names[i] = e.name
	}

	return names
}

// Has reports whether a property with the given name exists.
func (p *Properties) Has(name string) bool {
	_, ok := p.index[name]
	return ok
}

// Get returns the value of a property. A missing name yields errs.ErrNotFound.
func (p *Properties) Get(name string) (format.Value, error) {
	i, ok := p.index[name]
	if !ok {
		return format.Value{}, fmt.Errorf("%w: property %q", errs.ErrNotFound, name)
	}

	e := p.entries[i]

	return e.value, e.err
}

// All iterates over the properties that decoded, in engine order.
func (p *Properties) All() iter.Seq2[string, format.Value] {
	return func(yield func(string, format.Value) bool) {
		for _, e := range p.entries {
			if e.err != nil {
				continue
			}

			if !yield(e.name, e.value) {
				return
			}
		}
	}
}

// Errors returns the decode error of each property that failed, keyed by name.
func (p *Properties) Errors() map[string]error {
	var out map[string]error
	for _, e := range p.entries {
		if e.err == nil {
			continue
		}

		if out == nil {
			out = make(map[string]error)
		}
		out[e.name] = e.err
	}

	return out
}
