package types

import (
	"bytes"
	"encoding/hex"
)

// HashSize is the size in bytes of a header hash.
const HashSize = 32

// Hash is a cryptographic hash of a header.
type Hash []byte

// ZeroHash returns the reserved all-zero hash. It marks an unset value and
// must never equal the hash of a real header.
func ZeroHash() Hash {
	return make(Hash, HashSize)
}

// String encodes the hash as hex.
func (h Hash) String() string {
	return hex.EncodeToString(h)
}

// Equal reports whether two hashes are the same.
func (h Hash) Equal(other Hash) bool {
	return bytes.Equal(h, other)
}

// IsZero reports whether the hash is unset. Both the empty value and the
// reserved all-zero value count as unset.
func (h Hash) IsZero() bool {
	for _, b := range h {
		if b != 0 {
			return false
		}
	}
	return true
}
