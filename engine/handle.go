package engine

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/arloliu/tdms/errs"
	"github.com/google/uuid"
)

// Handle is an open engine file.
//
// Engine calls hold the read lock; Close takes the write lock, so no call or borrowed
// view access can overlap the release of the file.
type Handle struct {
	id      uuid.UUID
	path    string
	ref     FileRef
	adapter *Adapter
	mu      sync.RWMutex
	closed  atomic.Bool
}

// ID returns the identifier assigned when the handle was opened.
func (h *Handle) ID() uuid.UUID {
	return h.id
}

// Path returns the path the handle was opened from.
func (h *Handle) Path() string {
	return h.path
}

// Closed reports whether the handle has been released.
func (h *Handle) Closed() bool {
	return h.closed.Load()
}

// acquire takes the read lock if the handle is still open.
func (h *Handle) acquire() error {
	h.mu.RLock()
	if h.closed.Load() {
		h.mu.RUnlock()
		return fmt.Errorf("%w: %s", errs.ErrClosed, h.path)
	}

	return nil
}

func (h *Handle) release() {
	h.mu.RUnlock()
}
