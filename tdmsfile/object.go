package tdmsfile

import (
	"fmt"
	"sync"
	"time"

	"github.com/arloliu/tdms/engine"
	"github.com/arloliu/tdms/errs"
	"github.com/arloliu/tdms/format"
	"github.com/arloliu/tdms/objpath"
	"github.com/arloliu/tdms/timetrack"
	"go.uber.org/zap"
)

// Object is a file root, group or channel of an open File.
//
// Metadata, properties and data are loaded on first access and cached. Loads are safe
// to race; each happens at most once.
type Object struct {
	file *File
	path string

	resolve    func() (*engine.Object, error)
	meta       func() (objectMeta, error)
	properties func() (*Properties, error)
	data       func() (*Array, error)
	view       func() (*Array, error)
}

type objectMeta struct {
	count int
	desc  format.Descriptor
}

func newObject(f *File, path string) *Object {
	o := &Object{file: f, path: path}
	o.resolve = sync.OnceValues(func() (*engine.Object, error) {
		return f.adapter.Lookup(f.handle, path)
	})
	o.meta = sync.OnceValues(o.loadMeta)
	o.properties = sync.OnceValues(o.loadProperties)
	o.data = sync.OnceValues(o.loadData)
	o.view = sync.OnceValues(o.loadView)

	return o
}

// Path returns the raw object path.
func (o *Object) Path() string {
	return o.path
}

// Components decodes the object path.
func (o *Object) Components() ([]string, error) {
	return objpath.Decode(o.path)
}

// Name returns the last path component, or "" for the file root and undecodable paths.
func (o *Object) Name() string {
	components, err := objpath.Decode(o.path)
	if err != nil || len(components) == 0 {
		return ""
	}

	return components[len(components)-1]
}

func (o *Object) checkOpen() error {
	if o.file.Closed() {
		return fmt.Errorf("%w: %s", errs.ErrClosed, o.file.handle.Path())
	}

	return nil
}

func (o *Object) loadMeta() (objectMeta, error) {
	eo, err := o.resolve()
	if err != nil {
		return objectMeta{}, err
	}

	count, err := eo.SampleCount()
	if err != nil {
		return objectMeta{}, err
	}

	t, err := eo.DataType()
	if err != nil {
		return objectMeta{}, err
	}

	return objectMeta{count: count, desc: format.Describe(t)}, nil
}

// SampleCount returns the number of data values.
func (o *Object) SampleCount() (int, error) {
	if err := o.checkOpen(); err != nil {
		return 0, err
	}

	m, err := o.meta()

	return m.count, err
}

// Descriptor returns the type of the object's data.
func (o *Object) Descriptor() (format.Descriptor, error) {
	if err := o.checkOpen(); err != nil {
		return format.Descriptor{}, err
	}

	m, err := o.meta()

	return m.desc, err
}

// HasData reports whether the object carries data values.
func (o *Object) HasData() (bool, error) {
	n, err := o.SampleCount()
	return n > 0, err
}

func (o *Object) loadProperties() (*Properties, error) {
	eo, err := o.resolve()
	if err != nil {
		return nil, err
	}

	raw, err := eo.Properties()
	if err != nil {
		return nil, err
	}

	return decodeProperties(raw), nil
}

// Properties returns the property mapping, querying the engine on the first call only.
func (o *Object) Properties() (*Properties, error) {
	if err := o.checkOpen(); err != nil {
		return nil, err
	}

	return o.properties()
}

// Property returns one property value. A missing property yields errs.ErrNotFound.
func (o *Object) Property(name string) (format.Value, error) {
	props, err := o.Properties()
	if err != nil {
		return format.Value{}, err
	}

	v, err := props.Get(name)
	if err != nil {
		return format.Value{}, fmt.Errorf("%s: %w", o.path, err)
	}

	return v, nil
}

// Data returns the object's data.
//
// By default the samples are copied into memory owned by the Array. With WithZeroCopy the
// Array borrows engine memory when the type allows it, valid only while the file is open.
// The choice is made on the first call and cached. String channels are always copied;
// timestamp channels fail with errs.ErrUnimplemented.
func (o *Object) Data() (*Array, error) {
	if err := o.checkOpen(); err != nil {
		return nil, err
	}

	return o.data()
}

// DataView returns a borrowed view of the object's data regardless of WithZeroCopy.
// It fails when the type cannot be aliased or the engine offers no view.
func (o *Object) DataView() (*Array, error) {
	if err := o.checkOpen(); err != nil {
		return nil, err
	}

	return o.view()
}

func (o *Object) loadData() (*Array, error) {
	m, err := o.meta()
	if err != nil {
		return nil, err
	}

	eo, err := o.resolve()
	if err != nil {
		return nil, err
	}

	switch {
	case m.desc.Type == format.Void:
		return &Array{desc: m.desc}, nil
	case m.desc.Type == format.String:
		strs, err := eo.Strings()
		if err != nil {
			return nil, err
		}

		return &Array{desc: m.desc, count: len(strs), strings: strs}, nil
	case m.desc.Type == format.TimeStamp:
		return nil, fmt.Errorf("%w: %s timestamp data", errs.ErrUnimplemented, o.path)
	case !m.desc.HasArray():
		return nil, fmt.Errorf("%w: %s data of %s", errs.ErrUnsupportedType, o.path, m.desc.Name)
	}

	if o.file.cfg.zeroCopy {
		arr, err := o.view()
		if err == nil {
			o.file.logger.Debug("data aliased", zap.String("path", o.path), zap.Int("count", m.count))
			return arr, nil
		}

		if o.file.Closed() {
			return nil, err
		}

		o.file.logger.Debug("alias refused, copying", zap.String("path", o.path), zap.Error(err))
	}

	buf := make([]byte, m.count*m.desc.Width)
	if err := eo.Materialize(buf); err != nil {
		return nil, err
	}
	o.file.logger.Debug("data copied", zap.String("path", o.path), zap.Int("bytes", len(buf)))

	return &Array{desc: m.desc, count: m.count, data: buf}, nil
}

func (o *Object) loadView() (*Array, error) {
	eo, err := o.resolve()
	if err != nil {
		return nil, err
	}

	b, err := eo.Alias()
	if err != nil {
		return nil, err
	}

	return &Array{desc: b.Descriptor(), count: b.Len(), borrowed: b}, nil
}

// TimeTrack derives the object's time axis. See package timetrack.
func (o *Object) TimeTrack(absolute bool, acc timetrack.Accuracy) (timetrack.Series, error) {
	if err := o.checkOpen(); err != nil {
		return timetrack.Series{}, err
	}

	return timetrack.Build(o, absolute, acc, o.file.cfg.location)
}

// RelativeTime returns the time offsets of the samples in seconds.
func (o *Object) RelativeTime() ([]float64, error) {
	if err := o.checkOpen(); err != nil {
		return nil, err
	}

	return timetrack.Relative(o)
}

// AbsoluteTime returns the timestamps of the samples truncated to acc.
func (o *Object) AbsoluteTime(acc timetrack.Accuracy) ([]time.Time, error) {
	if err := o.checkOpen(); err != nil {
		return nil, err
	}

	return timetrack.Absolute(o, acc, o.file.cfg.location)
}
