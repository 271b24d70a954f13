package compress

// ZstdCodec handles zstd frame streams. The implementation is chosen at build time:
// pure Go by default, valyala/gozstd when built with cgo and the gozstd tag.
type ZstdCodec struct{}

var _ StreamCodec = ZstdCodec{}
