package types

import (
	"fmt"
)

// BlockID references a block either by its hash or by its height on the
// canonical chain. Exactly one variant is set.
type BlockID struct {
	hash     Hash
	height   uint64
	byHeight bool
}

// BlockIDFromHash references a block by its header hash.
func BlockIDFromHash(hash Hash) BlockID {
	return BlockID{hash: hash}
}

// BlockIDFromHeight references a block by its chain height.
func BlockIDFromHeight(height uint64) BlockID {
	return BlockID{height: height, byHeight: true}
}

// ByHeight reports whether the reference is by height rather than by hash.
func (id BlockID) ByHeight() bool {
	return id.byHeight
}

// Hash returns the referenced hash. Only meaningful when ByHeight is false.
func (id BlockID) Hash() Hash {
	return id.hash
}

// Height returns the referenced height. Only meaningful when ByHeight is true.
func (id BlockID) Height() uint64 {
	return id.height
}

func (id BlockID) String() string {
	if id.byHeight {
		return fmt.Sprintf("#%d", id.height)
	}
	return id.hash.String()
}
