// Package pool provides reusable buffers for streaming sample data.
package pool

import "sync"

// CopyBufferSize is the size of the buffers handed out for stream staging.
const CopyBufferSize = 1024 * 64 // 64KiB

var copyPool = sync.Pool{
	New: func() any {
		buf := make([]byte, CopyBufferSize)
		return &buf
	},
}

// GetCopyBuffer returns a fixed-size buffer for io.CopyBuffer.
func GetCopyBuffer() *[]byte {
	return copyPool.Get().(*[]byte) //nolint:forcetypeassert
}

// PutCopyBuffer returns a buffer obtained from GetCopyBuffer. Buffers of any other size
// are dropped.
func PutCopyBuffer(buf *[]byte) {
	if buf == nil || len(*buf) != CopyBufferSize {
		return
	}

	copyPool.Put(buf)
}
