// Package tdmsfile is the object model over an open TDMS file.
//
// A File owns one engine handle and the paths discovered when it was opened. Objects are
// created on first reference and cached; their properties and data each load once, on
// first access, and stay cached until the file is closed.
//
//	f, err := tdmsfile.Open("run.tdms", tdmsfile.WithEngine(backend))
//	if err != nil {
//	    return err
//	}
//	defer f.Close()
//
//	for _, group := range f.Groups() {
//	    channels, _ := f.GroupChannels(group)
//	    ...
//	}
//
// Closing the file invalidates every object and borrowed array derived from it; later
// accesses return errs.ErrClosed.
package tdmsfile

import (
	"fmt"
	"io"
	"slices"
	"strings"
	"sync"

	"github.com/arloliu/tdms/engine"
	"github.com/arloliu/tdms/errs"
	"github.com/arloliu/tdms/objpath"
	"go.uber.org/zap"
)

// File is an open TDMS file.
//
// File is safe for concurrent use.
type File struct {
	cfg     *config
	logger  *zap.Logger
	adapter *engine.Adapter
	handle  *engine.Handle
	paths   []string
	source  Source

	mu      sync.Mutex
	objects map[string]*Object
}

// Open opens the file at path with the engine given by WithEngine.
func Open(path string, opts ...Option) (*File, error) {
	cfg, err := newConfig(opts)
	if err != nil {
		return nil, err
	}

	return open(path, Source{Path: path}, cfg)
}

// OpenReader stages r into a temporary file and opens it. Zstd, s2, snappy and lz4
// framed streams are decompressed while staging. The temporary file is removed before
// OpenReader returns.
func OpenReader(r io.Reader, opts ...Option) (*File, error) {
	cfg, err := newConfig(opts)
	if err != nil {
		return nil, err
	}

	if cfg.backend == nil {
		return nil, errs.ErrNoEngine
	}

	path, src, cleanup, err := stage(r, cfg)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errs.ErrOpen, err)
	}
	defer cleanup()

	return open(path, src, cfg)
}

func open(path string, src Source, cfg *config) (*File, error) {
	if cfg.backend == nil {
		return nil, errs.ErrNoEngine
	}

	adapter := engine.NewAdapter(cfg.backend, cfg.logger)
	handle, err := adapter.Open(path)
	if err != nil {
		return nil, err
	}

	paths, err := adapter.ObjectPaths(handle)
	if err != nil {
		_ = adapter.Close(handle)
		return nil, err
	}

	f := &File{
		cfg:     cfg,
		logger:  cfg.logger.With(zap.Stringer("handle", handle.ID())),
		adapter: adapter,
		handle:  handle,
		paths:   paths,
		source:  src,
		objects: make(map[string]*Object),
	}
	f.logger.Debug("tdms file opened",
		zap.String("path", path),
		zap.String("engine", adapter.Name()),
		zap.Int("objects", len(paths)),
	)

	return f, nil
}

// Close releases the engine handle. A second Close returns errs.ErrClosed.
func (f *File) Close() error {
	return f.adapter.Close(f.handle)
}

// Closed reports whether the file has been closed.
func (f *File) Closed() bool {
	return f.handle.Closed()
}

// Engine returns the name of the decoding engine.
func (f *File) Engine() string {
	return f.adapter.Name()
}

// Source describes where the file was read from.
func (f *File) Source() Source {
	return f.source
}

// Paths returns the raw object paths in discovery order.
func (f *File) Paths() []string {
	return slices.Clone(f.paths)
}

// Groups returns the distinct group names in order of first occurrence.
//
// Paths that do not decode are skipped.
func (f *File) Groups() []string {
	seen := make(map[string]struct{})
	var groups []string

	for _, p := range f.paths {
		components, err := objpath.Decode(p)
		if err != nil {
			f.logger.Debug("skipping undecodable path", zap.String("path", p), zap.Error(err))
			continue
		}

		if len(components) == 0 {
			continue
		}

		name := components[0]
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		groups = append(groups, name)
	}

	return groups
}

// GroupChannels returns the objects whose path lies directly or indirectly below group,
// in discovery order.
func (f *File) GroupChannels(group string) ([]*Object, error) {
	if f.Closed() {
		return nil, fmt.Errorf("%w: %s", errs.ErrClosed, f.handle.Path())
	}

	prefix := objpath.ChildPrefix(group)

	var out []*Object
	for _, p := range f.paths {
		if strings.HasPrefix(p, prefix) {
			out = append(out, f.object(p))
		}
	}

	return out, nil
}

// Object returns the object with the given components, creating it on first reference.
// No components refer to the file root.
//
// The engine is not queried until the object's metadata, properties or data are read,
// so an unknown path fails there with errs.ErrNotFound.
func (f *File) Object(components ...string) (*Object, error) {
	if f.Closed() {
		return nil, fmt.Errorf("%w: %s", errs.ErrClosed, f.handle.Path())
	}

	path := objpath.RootPath
	if len(components) > 0 {
		path = objpath.Encode(components...)
	}

	return f.object(path), nil
}

// ChannelData returns the data of the object with the given components.
func (f *File) ChannelData(components ...string) (*Array, error) {
	o, err := f.Object(components...)
	if err != nil {
		return nil, err
	}

	return o.Data()
}

func (f *File) object(path string) *Object {
	f.mu.Lock()
	defer f.mu.Unlock()

	if o, ok := f.objects[path]; ok {
		return o
	}

	o := newObject(f, path)
	f.objects[path] = o

	return o
}
