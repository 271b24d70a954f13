//go:build !(cgo && tdms_native)

package native

import (
	"fmt"

	"github.com/arloliu/tdms/engine"
	"github.com/arloliu/tdms/errs"
)

// New reports that the binary was built without the native engine.
func New() (engine.Backend, error) {
	return nil, fmt.Errorf("%w: %s engine requires cgo and the tdms_native build tag", errs.ErrEngineUnavailable, Name)
}
