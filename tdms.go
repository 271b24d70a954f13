// Package tdms provides read access to TDMS files, the hierarchical container format
// written by data-acquisition software: a file root, groups and channels, each with
// typed properties, channels carrying typed sample data.
//
// # Engines
//
// The bytes of a file are decoded by an engine chosen by the caller. Nothing is picked
// automatically and there is no fallback:
//
//   - NewNativeEngine binds the TDMS C++ library through cgo. It is only available in
//     binaries built with cgo and the tdms_native tag.
//   - NewSoftwareEngine serves files decoded by a soft.Decoder in pure Go.
//   - NewFixtureEngine reads YAML fixture files describing decoded contents.
//
// # Basic Usage
//
//	backend, err := tdms.NewFixtureEngine()
//	if err != nil {
//	    return err
//	}
//
//	f, err := tdms.Open("run.yaml", backend)
//	if err != nil {
//	    return err
//	}
//	defer f.Close()
//
//	for _, group := range f.Groups() {
//	    channels, _ := f.GroupChannels(group)
//	    for _, ch := range channels {
//	        data, _ := ch.Data()
//	        fmt.Println(ch.Path(), data.Len())
//	    }
//	}
//
// # Package Structure
//
// This package wraps tdmsfile, which holds the object model, and the engine packages.
// Use them directly for finer control.
package tdms

import (
	"io"

	"github.com/arloliu/tdms/engine"
	"github.com/arloliu/tdms/engine/native"
	"github.com/arloliu/tdms/engine/soft"
	"github.com/arloliu/tdms/tdmsfile"
)

// Open opens the file at path with the given engine.
func Open(path string, backend engine.Backend, opts ...tdmsfile.Option) (*tdmsfile.File, error) {
	return tdmsfile.Open(path, withEngine(backend, opts)...)
}

// OpenReader stages a possibly compressed stream and opens it with the given engine.
func OpenReader(r io.Reader, backend engine.Backend, opts ...tdmsfile.Option) (*tdmsfile.File, error) {
	return tdmsfile.OpenReader(r, withEngine(backend, opts)...)
}

func withEngine(backend engine.Backend, opts []tdmsfile.Option) []tdmsfile.Option {
	all := make([]tdmsfile.Option, 0, len(opts)+1)
	if backend != nil {
		all = append(all, tdmsfile.WithEngine(backend))
	}

	return append(all, opts...)
}

// NewNativeEngine returns the cgo engine, or an error wrapping errs.ErrEngineUnavailable
// that names the missing build requirement.
func NewNativeEngine() (engine.Backend, error) {
	return native.New()
}

// NewSoftwareEngine returns the pure Go engine reading files through decoder.
func NewSoftwareEngine(decoder soft.Decoder, opts ...soft.Option) (engine.Backend, error) {
	return soft.New(decoder, opts...)
}

// NewFixtureEngine returns a pure Go engine reading YAML fixture files.
func NewFixtureEngine(opts ...soft.Option) (engine.Backend, error) {
	return soft.New(soft.YAMLDecoder{}, opts...)
}
