//go:build cgo && gozstd

package compress

import (
	"io"

	"github.com/valyala/gozstd"
)

func (ZstdCodec) NewReader(r io.Reader) (io.ReadCloser, error) {
	return &gozstdReader{Reader: gozstd.NewReader(r)}, nil
}

func (ZstdCodec) NewWriter(w io.Writer) (io.WriteCloser, error) {
	return &gozstdWriter{Writer: gozstd.NewWriter(w)}, nil
}

// gozstd readers and writers hold C memory that must be released explicitly.
type gozstdReader struct {
	*gozstd.Reader
}

func (r *gozstdReader) Close() error {
	r.Release()
	return nil
}

type gozstdWriter struct {
	*gozstd.Writer
}

func (w *gozstdWriter) Close() error {
	err := w.Writer.Close()
	w.Release()

	return err
}
