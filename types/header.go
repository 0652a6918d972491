package types

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"time"
)

// BaseHeader contains the most basic data of a header.
type BaseHeader struct {
	// Height represents the block height (aka block number) of a given header
	Height uint64
	// Time contains Unix time of a block
	Time uint64
	// The Chain ID
	ChainID string
}

// Header defines the structure of a block header tracked by the store.
type Header struct {
	BaseHeader

	// ParentHash is the hash of the preceding header on the chain. The
	// genesis header carries the reserved zero hash.
	ParentHash Hash

	// DataHash is the root of the block body.
	DataHash Hash

	// StateRoot is the state commitment after applying the block.
	StateRoot Hash

	// ProposerAddress is the original proposer of the block.
	ProposerAddress []byte
}

// Hash returns hash of the header. The canonical encoding of a header cannot
// fail, and a nil hash would collide with the reserved unset value, so an
// encoding error is treated as a programming error.
func (h *Header) Hash() Hash {
	bytes, err := h.MarshalBinary()
	if err != nil {
		panic(fmt.Sprintf("failed to encode header for hashing: %v", err))
	}
	hash := sha256.Sum256(bytes)
	return hash[:]
}

// Height returns the block height (aka block number) of the header.
func (h *Header) Height() uint64 {
	return h.BaseHeader.Height
}

// ChainID returns the chain identifier the header belongs to.
func (h *Header) ChainID() string {
	return h.BaseHeader.ChainID
}

// Time returns the block time of the header.
func (h *Header) Time() time.Time {
	return time.Unix(int64(h.BaseHeader.Time), 0)
}

// LastHeader returns the hash of the preceding header on the chain.
func (h *Header) LastHeader() Hash {
	return h.ParentHash
}

// ValidateBasic performs basic validation of a header.
func (h *Header) ValidateBasic() error {
	if len(h.ChainID()) == 0 {
		return errors.New("chain ID must not be empty")
	}
	return nil
}
