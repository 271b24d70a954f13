// Package compress decompresses TDMS byte streams that arrive wrapped in a compression frame.
//
// Streams handed to the reader API are often shipped compressed. Detect sniffs the frame magic
// of the supported formats without consuming input, and NewReader returns a reader that
// yields the plain TDMS bytes:
//
//   - Zstd: zstd frames (klauspost/compress, or valyala/gozstd with the gozstd build tag)
//   - S2: s2 and snappy framed streams (klauspost/compress/s2)
//   - LZ4: lz4 frames (pierrec/lz4/v4)
//
// Anything else is treated as uncompressed. Writers for each format are provided for
// producing fixtures and test inputs.
package compress
