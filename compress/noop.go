package compress

import "io"

// NoOpCodec passes bytes through unchanged.
type NoOpCodec struct{}

var _ StreamCodec = NoOpCodec{}

func (NoOpCodec) NewReader(r io.Reader) (io.ReadCloser, error) {
	return io.NopCloser(r), nil
}

func (NoOpCodec) NewWriter(w io.Writer) (io.WriteCloser, error) {
	return nopWriteCloser{w}, nil
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }
