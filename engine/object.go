package engine

import (
	"fmt"

	"github.com/arloliu/tdms/errs"
	"github.com/arloliu/tdms/format"
)

// RawProperty is one property as reported by the engine, not yet decoded.
type RawProperty struct {
	Name string
	Type format.DataType
	Raw  []byte
	// Err is set when the engine could not read the value.
	Err error
}

// Object is an engine object resolved by Adapter.Lookup.
type Object struct {
	handle *Handle
	path   string
	ref    ObjectRef
}

// Path returns the raw object path.
func (o *Object) Path() string {
	return o.path
}

// SampleCount returns the number of data values.
func (o *Object) SampleCount() (int, error) {
	if err := o.handle.acquire(); err != nil {
		return 0, err
	}
	defer o.handle.release()

	a := o.handle.adapter

	var n int
	ok, fl := a.call(func() bool {
		var ok bool
		n, ok = a.backend.SampleCount(o.ref)
		return ok
	})
	if !ok {
		return 0, a.fail("sample count", o.path, fl, errs.ErrEngine)
	}

	return n, nil
}

// DataType returns the type tag of the object's data.
func (o *Object) DataType() (format.DataType, error) {
	if err := o.handle.acquire(); err != nil {
		return format.Void, err
	}
	defer o.handle.release()

	a := o.handle.adapter

	var t format.DataType
	ok, fl := a.call(func() bool {
		var ok bool
		t, ok = a.backend.DataType(o.ref)
		return ok
	})
	if !ok {
		return format.Void, a.fail("data type", o.path, fl, errs.ErrEngine)
	}

	return t, nil
}

// Properties reads every property of the object in engine order. Values the engine cannot
// read are returned with Err set; they do not fail the whole call.
func (o *Object) Properties() ([]RawProperty, error) {
	if err := o.handle.acquire(); err != nil {
		return nil, err
	}
	defer o.handle.release()

	a := o.handle.adapter
	a.mu.Lock()
	defer a.mu.Unlock()

	it := a.backend.Properties(o.ref)
	if it == nil {
		return nil, a.fail("properties", o.path, a.lastFailure(), errs.ErrEngine)
	}
	defer it.Close()

	var props []RawProperty
	for it.Next() {
		p := RawProperty{Name: it.Name(), Type: it.Type()}

		raw, ok := it.Value()
		if ok {
			p.Raw = append([]byte(nil), raw...)
		} else {
			p.Err = a.newError("property "+p.Name, o.path, a.lastFailure(), errs.ErrEngine)
		}

		props = append(props, p)
	}

	return props, nil
}

// Materialize copies the sample bytes into dst, which must hold exactly
// SampleCount times the element width of the data type.
func (o *Object) Materialize(dst []byte) error {
	count, err := o.SampleCount()
	if err != nil {
		return err
	}

	t, err := o.DataType()
	if err != nil {
		return err
	}

	desc := format.Describe(t)
	if !desc.Fixed() {
		return fmt.Errorf("%w: %s has no fixed width", errs.ErrUnsupportedType, desc.Name)
	}

	if want := count * desc.Width; len(dst) != want {
		return fmt.Errorf("%w: %s needs %d bytes, got %d", errs.ErrDataSize, o.path, want, len(dst))
	}

	if err := o.handle.acquire(); err != nil {
		return err
	}
	defer o.handle.release()

	a := o.handle.adapter
	ok, fl := a.call(func() bool {
		return a.backend.CopyData(o.ref, dst)
	})
	if !ok {
		return a.fail("copy data", o.path, fl, errs.ErrEngine)
	}

	return nil
}

// Strings returns the samples of a string channel.
func (o *Object) Strings() ([]string, error) {
	if err := o.handle.acquire(); err != nil {
		return nil, err
	}
	defer o.handle.release()

	a := o.handle.adapter

	var out []string
	ok, fl := a.call(func() bool {
		var ok bool
		out, ok = a.backend.StringData(o.ref)
		return ok
	})
	if !ok {
		return nil, a.fail("string data", o.path, fl, errs.ErrEngine)
	}

	return out, nil
}

// Alias returns a borrowed view of the engine-owned sample bytes.
//
// It is refused with errs.ErrClosed on a closed handle, with errs.ErrUnsupportedType
// when the data type may not be aliased, and with errs.ErrAliasUnavailable when the
// engine offers no view.
func (o *Object) Alias() (*Borrowed, error) {
	count, err := o.SampleCount()
	if err != nil {
		return nil, err
	}

	t, err := o.DataType()
	if err != nil {
		return nil, err
	}

	desc := format.Describe(t)
	if !desc.Aliasable() {
		return nil, fmt.Errorf("%w: %s cannot be aliased", errs.ErrUnsupportedType, desc.Name)
	}

	if err := o.handle.acquire(); err != nil {
		return nil, err
	}
	defer o.handle.release()

	a := o.handle.adapter

	var raw []byte
	ok, fl := a.call(func() bool {
		var ok bool
		raw, ok = a.backend.RawData(o.ref)
		return ok
	})
	if !ok {
		if fl.cause == "" && fl.kind == nil {
			fl.cause = "engine offers no view"
			return nil, a.fail("raw data", o.path, fl, errs.ErrAliasUnavailable)
		}

		return nil, a.fail("raw data", o.path, fl, errs.ErrEngine)
	}

	if want := count * desc.Width; len(raw) != want {
		return nil, fmt.Errorf("%w: %s aliased %d bytes, want %d", errs.ErrDataSize, o.path, len(raw), want)
	}

	return &Borrowed{handle: o.handle, data: raw, desc: desc, count: count}, nil
}
