package engine

import (
	"fmt"
	"sync"

	"github.com/arloliu/tdms/errs"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Adapter converts Backend sentinel results into structured errors.
//
// Adapter is safe for concurrent use. Backend calls are serialised so that a failure and
// the LastError describing it are always read together.
type Adapter struct {
	backend Backend
	logger  *zap.Logger
	mu      sync.Mutex
}

// NewAdapter wraps backend. A nil logger disables logging.
func NewAdapter(backend Backend, logger *zap.Logger) *Adapter {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Adapter{
		backend: backend,
		logger:  logger.With(zap.String("engine", backend.Name())),
	}
}

// Name returns the name of the wrapped engine.
func (a *Adapter) Name() string {
	return a.backend.Name()
}

// failure is what the engine reported about its last failed primitive.
type failure struct {
	cause string
	kind  error
}

// call runs fn under the adapter lock. When fn reports failure, the engine's last error
// is read before the lock is released.
func (a *Adapter) call(fn func() bool) (bool, failure) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if fn() {
		return true, failure{}
	}

	return false, a.lastFailure()
}

// lastFailure reads the engine's last error. The caller holds a.mu.
func (a *Adapter) lastFailure() failure {
	f := failure{cause: a.backend.LastError()}
	if k, ok := a.backend.(FailureKinder); ok {
		f.kind = k.LastErrorKind()
	}

	return f
}

// newError builds the error for a failed primitive. The engine's own kind, if any,
// overrides kind.
func (a *Adapter) newError(op, path string, f failure, kind error) *errs.EngineError {
	if f.kind != nil {
		kind = f.kind
	}

	return &errs.EngineError{Op: op, Path: path, Cause: f.cause, Kind: kind}
}

func (a *Adapter) fail(op, path string, f failure, kind error) error {
	err := a.newError(op, path, f, kind)
	a.logger.Debug("engine call failed",
		zap.String("op", op),
		zap.String("path", path),
		zap.String("cause", f.cause),
		zap.NamedError("kind", err.Kind),
	)

	return err
}

// Open opens the file at path.
func (a *Adapter) Open(path string) (*Handle, error) {
	var ref FileRef
	ok, fl := a.call(func() bool {
		ref = a.backend.Open(path)
		return ref != nil
	})
	if !ok {
		return nil, a.fail("open", path, fl, errs.ErrOpen)
	}

	h := &Handle{
		id:      uuid.New(),
		path:    path,
		ref:     ref,
		adapter: a,
	}
	a.logger.Debug("file opened", zap.String("path", path), zap.Stringer("handle", h.id))

	return h, nil
}

// Close releases the file. Closing a handle twice returns errs.ErrClosed.
func (a *Adapter) Close(h *Handle) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed.Swap(true) {
		return fmt.Errorf("%w: %s", errs.ErrClosed, h.path)
	}

	a.call(func() bool {
		a.backend.Close(h.ref)
		return true
	})
	h.ref = nil
	a.logger.Debug("file closed", zap.String("path", h.path), zap.Stringer("handle", h.id))

	return nil
}

// ObjectPaths drains the engine's path iterator and returns the raw paths in discovery order.
func (a *Adapter) ObjectPaths(h *Handle) ([]string, error) {
	if err := h.acquire(); err != nil {
		return nil, err
	}
	defer h.release()

	var paths []string
	ok, fl := a.call(func() bool {
		it := a.backend.ObjectPaths(h.ref)
		if it == nil {
			return false
		}
		defer it.Close()

		for {
			p, more := it.Next()
			if !more {
				return true
			}
			paths = append(paths, p)
		}
	})
	if !ok {
		return nil, a.fail("list objects", h.path, fl, errs.ErrEngine)
	}

	return paths, nil
}

// Lookup resolves an object path. A missing object yields an error wrapping errs.ErrNotFound.
func (a *Adapter) Lookup(h *Handle, path string) (*Object, error) {
	if err := h.acquire(); err != nil {
		return nil, err
	}
	defer h.release()

	var ref ObjectRef
	ok, fl := a.call(func() bool {
		ref = a.backend.ObjectByPath(h.ref, path)
		return ref != nil
	})
	if !ok {
		return nil, a.fail("lookup", path, fl, errs.ErrNotFound)
	}

	return &Object{handle: h, path: path, ref: ref}, nil
}
