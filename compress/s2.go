package compress

import (
	"io"

	"github.com/klauspost/compress/s2"
)

// S2Codec handles s2 framed streams. Its reader also accepts snappy framed streams.
type S2Codec struct{}

var _ StreamCodec = S2Codec{}

func (S2Codec) NewReader(r io.Reader) (io.ReadCloser, error) {
	return io.NopCloser(s2.NewReader(r)), nil
}

func (S2Codec) NewWriter(w io.Writer) (io.WriteCloser, error) {
	return s2.NewWriter(w), nil
}
