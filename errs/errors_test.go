package errs

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEngineError_Unwrap(t *testing.T) {
	err := &EngineError{Op: "open", Path: "/data/run.tdms", Cause: "bad lead-in", Kind: ErrOpen}

	require.ErrorIs(t, err, ErrOpen)
	require.NotErrorIs(t, err, ErrNotFound)

	wrapped := fmt.Errorf("opening: %w", err)
	var engErr *EngineError
	require.True(t, errors.As(wrapped, &engErr))
	require.Equal(t, "bad lead-in", engErr.Cause)
}

func TestEngineError_Error(t *testing.T) {
	err := &EngineError{Op: "open", Path: "run.tdms", Cause: "bad lead-in", Kind: ErrOpen}
	require.Equal(t, `cannot open tdms file: open "run.tdms": bad lead-in`, err.Error())

	err = &EngineError{Op: "copy data", Kind: ErrEngine}
	require.Equal(t, "decoding engine failure: copy data: no cause reported", err.Error())
}
