// Package hash computes the 64-bit identifiers used to index object paths.
package hash

import "github.com/cespare/xxhash/v2"

// ID computes the xxHash64 of an object path.
func ID(path string) uint64 {
	return xxhash.Sum64String(path)
}

// Digest accumulates an xxHash64 over streamed bytes.
type Digest = xxhash.Digest

// NewDigest returns a digest ready to be written to.
func NewDigest() *Digest {
	return xxhash.New()
}
