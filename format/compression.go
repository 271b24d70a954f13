package format

// CompressionType identifies the container compression of a staged input stream.
type CompressionType uint8

const (
	CompressionNone CompressionType = 0x1 // CompressionNone represents a plain TDMS byte stream.
	CompressionZstd CompressionType = 0x2 // CompressionZstd represents a Zstandard frame stream.
	CompressionS2   CompressionType = 0x3 // CompressionS2 represents an S2 or Snappy framed stream.
	CompressionLZ4  CompressionType = 0x4 // CompressionLZ4 represents an LZ4 frame stream.
)

func (c CompressionType) String() string {
	switch c {
	case CompressionNone:
		return "None"
	case CompressionZstd:
		return "Zstd"
	case CompressionS2:
		return "S2"
	case CompressionLZ4:
		return "LZ4"
	default:
		return "Unknown"
	}
}
