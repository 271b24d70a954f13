// Package engine adapts TDMS decoding engines to structured Go errors.
//
// A decoding engine implements Backend. Backend methods follow the convention of the C
// library they were modelled on: a failing call returns a nil reference or false, and the
// engine's LastError describes what went wrong. Adapter is the only code that understands
// this convention. It pairs every failure with the matching LastError under a lock and
// turns it into an *errs.EngineError.
package engine

import "github.com/arloliu/tdms/format"

// FileRef is an engine-specific reference to an open file.
type FileRef any

// ObjectRef is an engine-specific reference to an object inside an open file.
// It stays valid until the owning file is closed.
type ObjectRef any

// Backend is the raw contract a decoding engine fulfils.
//
// Implementations need not be safe for concurrent use; Adapter serialises calls.
type Backend interface {
	// Name identifies the engine in logs and errors.
	Name() string

	// Open reads the file at path. It returns nil on failure.
	Open(path string) FileRef

	// Close releases a file returned by Open.
	Close(f FileRef)

	// ObjectPaths returns an iterator over the raw object paths of f in discovery
	// order. It returns nil on failure.
	ObjectPaths(f FileRef) PathIterator

	// ObjectByPath looks up an object. It returns nil when no such object exists.
	ObjectByPath(f FileRef, path string) ObjectRef

	// SampleCount reports the number of data values of o.
	SampleCount(o ObjectRef) (int, bool)

	// DataType reports the type tag of the data of o. Objects without data report Void.
	DataType(o ObjectRef) (format.DataType, bool)

	// Properties returns an iterator over the properties of o in name order.
	// It returns nil on failure.
	Properties(o ObjectRef) PropertyIterator

	// CopyData copies the little-endian sample bytes of o into dst, which holds exactly
	// SampleCount * width bytes.
	CopyData(o ObjectRef, dst []byte) bool

	// StringData returns the samples of a string channel.
	StringData(o ObjectRef) ([]string, bool)

	// RawData returns the engine-owned sample bytes of o without copying. The bytes stay
	// valid until the owning file is closed. An engine that cannot offer them returns
	// false with an empty LastError.
	RawData(o ObjectRef) ([]byte, bool)

	// LastError describes the most recent failure.
	LastError() string
}

// FailureKinder is implemented by engines that classify their most recent failure.
// LastErrorKind is read right after LastError and returns an errs sentinel such as
// errs.ErrUnimplemented, or nil when the failure has no particular kind.
type FailureKinder interface {
	LastErrorKind() error
}

// PathIterator walks object paths once; it cannot be restarted.
type PathIterator interface {
	// Next returns the next path, or false when exhausted.
	Next() (string, bool)

	// Close releases the iterator.
	Close()
}

// PropertyIterator walks the properties of one object.
type PropertyIterator interface {
	// Next advances to the next property and reports whether there is one.
	Next() bool

	// Name returns the current property name.
	Name() string

	// Type returns the type tag of the current property.
	Type() format.DataType

	// Value returns the little-endian raw bytes of the current value. False means the
	// engine could not read it; LastError holds the cause.
	Value() ([]byte, bool)

	// Close releases the iterator.
	Close()
}
