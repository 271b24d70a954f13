// Package encoding converts little-endian TDMS sample buffers into typed Go slices.
//
// Two strategies are offered, mirroring the two ways channel data reaches the caller:
//
//   - View reinterprets the buffer in place using unsafe memory operations. No bytes are
//     copied, so the result is only valid as long as the buffer is. View refuses when the host
//     is big-endian, the buffer is misaligned for the element type, or its length is not a
//     multiple of the element size.
//
//   - Decode copies every element into a freshly allocated slice using the given byte order.
//     It works for any buffer and any host.
//
// Example:
//
//	if vals, err := encoding.View[float64](raw); err == nil {
//	    // vals aliases raw
//	} else {
//	    vals, err = encoding.Decode[float64](raw, endian.Little())
//	}
package encoding
