//go:build !(cgo && gozstd)

package compress

import (
	"io"

	"github.com/klauspost/compress/zstd"
)

func (ZstdCodec) NewReader(r io.Reader) (io.ReadCloser, error) {
	decoder, err := zstd.NewReader(r,
		zstd.WithDecoderConcurrency(1),
		zstd.WithDecoderLowmem(true),
	)
	if err != nil {
		return nil, err
	}

	return decoder.IOReadCloser(), nil
}

func (ZstdCodec) NewWriter(w io.Writer) (io.WriteCloser, error) {
	return zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedDefault))
}
