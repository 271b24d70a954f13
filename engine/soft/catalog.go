package soft

import (
	"fmt"
	"sync"

	"github.com/arloliu/tdms/errs"
)

// Catalog is a Decoder serving in-memory contents by file path.
//
// Catalog is safe for concurrent use.
type Catalog struct {
	mu    sync.RWMutex
	files map[string]*Contents
}

var _ Decoder = (*Catalog)(nil)

// NewCatalog returns an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{files: make(map[string]*Contents)}
}

// Add registers contents under path, replacing any earlier entry.
func (c *Catalog) Add(path string, contents *Contents) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.files[path] = contents
}

// Decode returns the contents registered under path.
func (c *Catalog) Decode(path string) (*Contents, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	contents, ok := c.files[path]
	if !ok {
		return nil, fmt.Errorf("%w: no file %s", errs.ErrNotFound, path)
	}

	return contents, nil
}
