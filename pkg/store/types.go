package store

import (
	"context"

	"github.com/solochain/headerstore/types"
)

// BlockStatus reports whether a block is known to the store.
type BlockStatus int

const (
	// StatusUnknown means the block is not in the store.
	StatusUnknown BlockStatus = iota
	// StatusInChain means the block is part of the tracked chain.
	StatusInChain
)

func (s BlockStatus) String() string {
	if s == StatusInChain {
		return "in-chain"
	}
	return "unknown"
}

// BlockchainInfo is a summary of the tracked chain built from the metadata
// record. A zero BestHash or GenesisHash means the chain is not initialized.
type BlockchainInfo struct {
	BestHash        types.Hash
	BestHeight      uint64
	GenesisHash     types.Hash
	FinalizedHash   types.Hash
	FinalizedHeight uint64
	// NumLeaves is always 0: the store follows exactly one fork and never
	// tracks competing leaves.
	NumLeaves uint64
}

// AuxOp is a single write against the auxiliary column. A nil Value deletes
// the key.
type AuxOp struct {
	Key   []byte
	Value []byte
}

// HeaderBackend provides read access to the header chain.
type HeaderBackend interface {
	// Header returns the header referenced by id, or nil if it is not stored.
	Header(ctx context.Context, id types.BlockID) (*types.Header, error)

	// Info returns a summary of the chain. If the metadata record is absent
	// or unreadable it returns a zero-valued summary instead of an error.
	Info(ctx context.Context) BlockchainInfo

	// Status reports whether the block referenced by id is in the chain.
	Status(ctx context.Context, id types.BlockID) (BlockStatus, error)

	// Number returns the height of the block with the given hash. The second
	// return value is false when the block is not stored.
	Number(ctx context.Context, hash types.Hash) (uint64, bool, error)

	// Hash returns the canonical hash at the given height, or nil when the
	// height is not indexed.
	Hash(ctx context.Context, height uint64) (types.Hash, error)
}

// AuxStore is an unordered key-value side channel with no chain semantics.
type AuxStore interface {
	// InsertAux applies the given puts and deletes to the auxiliary column
	// as one atomic batch. The last write wins for keys touched twice.
	InsertAux(ctx context.Context, inserts []AuxOp, deletes [][]byte) error

	// GetAux returns the value stored under key, or nil if it is absent.
	GetAux(ctx context.Context, key []byte) ([]byte, error)
}

// HeaderMetadata provides lightweight header views for ancestry queries.
type HeaderMetadata interface {
	// HeaderMetadata returns the metadata view of the header with the given
	// hash, or ErrUnknownBlock if it is not stored.
	HeaderMetadata(ctx context.Context, hash types.Hash) (types.CachedHeaderMetadata, error)

	// InsertHeaderMetadata is a cache extension point. It is not supported
	// in this store and panics when called.
	InsertHeaderMetadata(hash types.Hash, md types.CachedHeaderMetadata)

	// RemoveHeaderMetadata is a cache extension point. It is not supported
	// in this store and panics when called.
	RemoveHeaderMetadata(hash types.Hash)
}

// Storage is the full interface of the single-chain header store. Mutating
// calls (ImportHeader, FinalizeHeader, InsertAux) are serialized internally:
// each one re-reads the metadata record under a single-writer lock before
// committing its batch.
type Storage interface {
	HeaderBackend
	AuxStore
	HeaderMetadata

	// ImportHeader validates and commits a new header as the best head of
	// the chain. auxOps carries side-channel writes intended to commit in
	// the same batch as the header.
	ImportHeader(ctx context.Context, header *types.Header, state types.NewBlockState, auxOps []AuxOp) error

	// SetHead reassigns the best pointer to an existing block. It is not
	// supported in this store and panics when called.
	SetHead(ctx context.Context, id types.BlockID) error

	// FinalizeHeader marks the referenced header as finalized and prunes the
	// header finalized before it.
	FinalizeHeader(ctx context.Context, id types.BlockID) error

	// LastFinalized returns the hash of the most recently finalized header.
	LastFinalized(ctx context.Context) (types.Hash, error)

	// Close safely closes underlying data storage, to ensure that data is
	// actually saved.
	Close() error
}
