package compress

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/arloliu/tdms/errs"
	"github.com/arloliu/tdms/format"
)

// StreamCodec wraps readers and writers with one compression format.
type StreamCodec interface {
	// NewReader returns a reader producing the decompressed bytes of r.
	// Closing it releases the decoder but does not close r.
	NewReader(r io.Reader) (io.ReadCloser, error)

	// NewWriter returns a writer compressing into w. Close finalizes the stream
	// but does not close w.
	NewWriter(w io.Writer) (io.WriteCloser, error)
}

var (
	zstdMagic   = []byte{0x28, 0xB5, 0x2F, 0xFD}
	lz4Magic    = []byte{0x04, 0x22, 0x4D, 0x18}
	s2Magic     = []byte("\xff\x06\x00\x00S2sTwO")
	snappyMagic = []byte("\xff\x06\x00\x00sNaPpY")
)

const sniffLen = 10

var builtinCodecs = map[format.CompressionType]StreamCodec{
	format.CompressionNone: NoOpCodec{},
	format.CompressionZstd: ZstdCodec{},
	format.CompressionS2:   S2Codec{},
	format.CompressionLZ4:  LZ4Codec{},
}

// GetCodec retrieves the codec for the specified compression type.
func GetCodec(compressionType format.CompressionType) (StreamCodec, error) {
	if codec, ok := builtinCodecs[compressionType]; ok {
		return codec, nil
	}

	return nil, fmt.Errorf("%w: %s", errs.ErrUnsupportedCompression, compressionType)
}

// Detect peeks at the head of br and reports the compression format it starts with.
// No bytes are consumed. Short or empty streams are reported as CompressionNone.
func Detect(br *bufio.Reader) (format.CompressionType, error) {
	head, err := br.Peek(sniffLen)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, bufio.ErrBufferFull) {
		return format.CompressionNone, err
	}

	switch {
	case bytes.HasPrefix(head, zstdMagic):
		return format.CompressionZstd, nil
	case bytes.HasPrefix(head, lz4Magic):
		return format.CompressionLZ4, nil
	case bytes.HasPrefix(head, s2Magic), bytes.HasPrefix(head, snappyMagic):
		return format.CompressionS2, nil
	default:
		return format.CompressionNone, nil
	}
}

// NewReader detects the compression of r and returns a reader over the decompressed bytes
// together with the detected type.
func NewReader(r io.Reader) (io.ReadCloser, format.CompressionType, error) {
	br, ok := r.(*bufio.Reader)
	if !ok || br.Size() < sniffLen {
		br = bufio.NewReader(r)
	}

	ct, err := Detect(br)
	if err != nil {
		return nil, ct, err
	}

	codec, err := GetCodec(ct)
	if err != nil {
		return nil, ct, err
	}

	rc, err := codec.NewReader(br)
	if err != nil {
		return nil, ct, fmt.Errorf("%s reader: %w", ct, err)
	}

	return rc, ct, nil
}
