// Package errs defines the errors returned by the tdms packages.
//
// Callers match failures with errors.Is against the sentinel values below. Failures reported by
// a decoding engine through its last-error message are wrapped in *EngineError, which unwraps
// to one of the sentinels.
package errs

import (
	"errors"
	"fmt"
)

// Object path errors.
var (
	// ErrGrammar is returned when an object path string is not well formed.
	ErrGrammar = errors.New("malformed object path")
)

// Engine and file errors.
var (
	ErrOpen              = errors.New("cannot open tdms file")
	ErrNotFound          = errors.New("not found")
	ErrEngine            = errors.New("decoding engine failure")
	ErrEngineUnavailable = errors.New("decoding engine unavailable")
	ErrNoEngine          = errors.New("no decoding engine configured")
	ErrClosed            = errors.New("tdms file is closed")

	// ErrAliasUnavailable is returned when an engine offers no in-place view of sample data.
	ErrAliasUnavailable = errors.New("in-place data view unavailable")
)

// Type and data errors.
var (
	ErrUnsupportedType        = errors.New("unsupported data type")
	ErrUnimplemented          = errors.New("feature not implemented")
	ErrInvalidValue           = errors.New("invalid raw value")
	ErrDataSize               = errors.New("data buffer size mismatch")
	ErrDuplicateObject        = errors.New("duplicate object path")
	ErrUnsupportedCompression = errors.New("unsupported stream compression")
)

// Derived series errors.
var (
	ErrMissingProperty = errors.New("missing property")
	ErrInvalidAccuracy = errors.New("invalid time accuracy")
)

// EngineError carries the cause string a decoding engine reported for a failed primitive.
type EngineError struct {
	// Op is the engine primitive that failed, e.g. "open" or "lookup".
	Op string
	// Path is the file path or object path the primitive was called with.
	Path string
	// Cause is the engine's last-error message.
	Cause string
	// Kind is the sentinel the failure maps to, e.g. ErrOpen, ErrNotFound or ErrEngine.
	Kind error
}

func (e *EngineError) Error() string {
	cause := e.Cause
	if cause == "" {
		cause = "no cause reported"
	}

	if e.Path == "" {
		return fmt.Sprintf("%v: %s: %s", e.Kind, e.Op, cause)
	}

	return fmt.Sprintf("%v: %s %q: %s", e.Kind, e.Op, e.Path, cause)
}

func (e *EngineError) Unwrap() error {
	return e.Kind
}
